package ipqs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client IPQualityScore 纯透传客户端：单次请求单次响应，
// 不做重试、退避或缓存。
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

func New(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

// Envelope 上游统一的 success/message 头
type Envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (e Envelope) Failed() bool { return e.Success != nil && !*e.Success }

type DomainAge struct {
	Human string `json:"human"`
}

type URLResult struct {
	Envelope
	Unsafe     bool       `json:"unsafe"`
	Phishing   bool       `json:"phishing"`
	Malware    bool       `json:"malware"`
	Spamming   bool       `json:"spamming"`
	Suspicious bool       `json:"suspicious"`
	RiskScore  int        `json:"risk_score"`
	Domain     string     `json:"domain"`
	DomainAge  *DomainAge `json:"domain_age"`
}

type EmailResult struct {
	Envelope
	Valid       bool `json:"valid"`
	FraudScore  int  `json:"fraud_score"`
	Leaked      bool `json:"leaked"`
	RecentAbuse bool `json:"recent_abuse"`
}

type LeakedResult struct {
	Envelope
	Leaked  bool              `json:"leaked"`
	Results []json.RawMessage `json:"results"`
}

// PhoneResult 整包透传给调用方，只解出 success/message 供判错
type PhoneResult struct {
	Envelope
	Raw json.RawMessage `json:"-"`
}

type RequestRecord struct {
	CreatedAt   string `json:"created_at"`
	SearchTerm  string `json:"search_term"`
	IP          string `json:"ip"`
	Email       string `json:"email"`
	URL         string `json:"url"`
	Phone       string `json:"phone"`
	FraudScore  *int   `json:"fraud_score"`
	CountryCode string `json:"country_code"`
}

type RequestsResult struct {
	Envelope
	Requests []RequestRecord `json:"requests"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("ipqs: parse response: %w", err)
	}
	return nil
}

func (c *Client) ScanURL(ctx context.Context, raw string) (URLResult, error) {
	var out URLResult
	err := c.get(ctx, fmt.Sprintf("/url/%s/%s", c.apiKey, url.QueryEscape(raw)), &out)
	return out, err
}

func (c *Client) Email(ctx context.Context, email string) (EmailResult, error) {
	var out EmailResult
	err := c.get(ctx, fmt.Sprintf("/email/%s/%s", c.apiKey, url.PathEscape(email)), &out)
	return out, err
}

// LeakedSearch kind: "email" / "username" / "password"
func (c *Client) LeakedSearch(ctx context.Context, kind, value string) (LeakedResult, error) {
	var out LeakedResult
	err := c.get(ctx, fmt.Sprintf("/leaked/%s/%s/%s", kind, c.apiKey, url.QueryEscape(value)), &out)
	return out, err
}

func (c *Client) Phone(ctx context.Context, phone, country string) (PhoneResult, error) {
	path := fmt.Sprintf("/phone/%s/%s", c.apiKey, url.QueryEscape(phone))
	if country != "" && country != "US" {
		path += "?country=" + url.QueryEscape(country)
	}
	var raw json.RawMessage
	if err := c.get(ctx, path, &raw); err != nil {
		return PhoneResult{}, err
	}
	var out PhoneResult
	if err := json.Unmarshal(raw, &out.Envelope); err != nil {
		return PhoneResult{}, fmt.Errorf("ipqs: parse response: %w", err)
	}
	out.Raw = raw
	return out, nil
}

// Requests 上游请求日志列表，reqType 如 "proxy" / "url" / "email"
func (c *Client) Requests(ctx context.Context, reqType, startDate, stopDate string) (RequestsResult, error) {
	q := url.Values{}
	q.Set("type", reqType)
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if stopDate != "" {
		q.Set("stop_date", stopDate)
	}
	var out RequestsResult
	err := c.get(ctx, fmt.Sprintf("/requests/%s/list?%s", c.apiKey, q.Encode()), &out)
	return out, err
}
