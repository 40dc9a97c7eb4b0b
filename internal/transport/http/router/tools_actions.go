package router

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"credlocker/internal/ipqs"
	httpez "credlocker/internal/transport/http/ez"
)

// 信誉查询全部是对 IPQS 的透传：单发单收，不重试不缓存。
// 上游返回 success=false 属于业务结果（比如 key 失效），原样带给前端而不是报 500。
func mountToolActions(authUser *gin.RouterGroup, cli *ipqs.Client, l *zap.Logger) {
	ezAuth := httpez.New(authUser)

	type urlIn struct {
		URL string `json:"url" binding:"required"`
	}
	httpez.RegisterAction[urlIn, gin.H](ezAuth, httpez.Action[urlIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/tools/scan-url",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *urlIn) (gin.H, error) {
			r, err := cli.ScanURL(c.Request.Context(), in.URL)
			if err != nil {
				l.Error("url scan failed", zap.Error(err))
				return nil, httpez.Internal("url scan failed", err)
			}
			if r.Failed() {
				return gin.H{"success": false, "error": r.Message}, nil
			}
			domainAge := "Unknown"
			if r.DomainAge != nil && r.DomainAge.Human != "" {
				domainAge = r.DomainAge.Human
			}
			dom := r.Domain
			if dom == "" {
				dom = in.URL
			}
			return gin.H{
				"success":    true,
				"unsafe":     r.Unsafe || r.Phishing || r.Malware,
				"risk_score": r.RiskScore,
				"domain":     dom,
				"domain_age": domainAge,
				"threats": gin.H{
					"phishing":   r.Phishing,
					"malware":    r.Malware,
					"spamming":   r.Spamming,
					"suspicious": r.Suspicious,
				},
			}, nil
		},
	})

	type emailIn struct {
		Email string `json:"email" binding:"required,email"`
	}
	httpez.RegisterAction[emailIn, gin.H](ezAuth, httpez.Action[emailIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/tools/breach-search",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *emailIn) (gin.H, error) {
			r, err := cli.Email(c.Request.Context(), in.Email)
			if err != nil {
				l.Error("breach search failed", zap.Error(err))
				return nil, httpez.Internal("breach search failed", err)
			}
			if r.Failed() {
				return gin.H{"success": false, "error": r.Message}, nil
			}
			return gin.H{
				"success":      true,
				"valid":        r.Valid,
				"fraud_score":  r.FraudScore,
				"leaked":       r.Leaked,
				"recent_abuse": r.RecentAbuse,
				"email":        in.Email,
			}, nil
		},
	})

	type darkwebIn struct {
		Data string `json:"data" binding:"required"`
		Type string `json:"type"` // email / username / password，缺省 email
	}
	httpez.RegisterAction[darkwebIn, gin.H](ezAuth, httpez.Action[darkwebIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/tools/darkweb-monitor",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *darkwebIn) (gin.H, error) {
			kind := in.Type
			if kind == "" {
				kind = "email"
			}
			r, err := cli.LeakedSearch(c.Request.Context(), kind, in.Data)
			if err != nil {
				l.Error("darkweb scan failed", zap.Error(err))
				return nil, httpez.Internal("darkweb scan failed", err)
			}
			if r.Failed() {
				return gin.H{"success": false, "error": r.Message}, nil
			}
			results := r.Results
			if results == nil {
				results = []json.RawMessage{}
			}
			return gin.H{
				"success": true,
				"leaked":  r.Leaked,
				"query":   in.Data,
				"results": results,
			}, nil
		},
	})

	type phoneIn struct {
		Phone   string `json:"phone" binding:"required"`
		Country string `json:"country"`
	}
	httpez.RegisterAction[phoneIn, json.RawMessage](ezAuth, httpez.Action[phoneIn, json.RawMessage]{
		Method: http.MethodPost,
		Path:   "/tools/phone-validation",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *phoneIn) (json.RawMessage, error) {
			r, err := cli.Phone(c.Request.Context(), in.Phone, in.Country)
			if err != nil {
				l.Error("phone validation failed", zap.Error(err))
				return nil, httpez.Internal("phone validation failed", err)
			}
			if r.Failed() {
				b, _ := json.Marshal(gin.H{"success": false, "message": r.Message})
				return json.RawMessage(b), nil
			}
			return r.Raw, nil
		},
	})

	type logIn struct {
		Type      string `json:"type"` // 缺省 proxy
		StartDate string `json:"start_date"`
		StopDate  string `json:"stop_date"`
	}
	type logRow struct {
		Date        string `json:"date"`
		Query       string `json:"query"`
		FraudScore  int    `json:"fraud_score"`
		CountryCode string `json:"country_code"`
	}
	httpez.RegisterAction[logIn, gin.H](ezAuth, httpez.Action[logIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/tools/request-log",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *logIn) (gin.H, error) {
			reqType := in.Type
			if reqType == "" {
				reqType = "proxy"
			}
			r, err := cli.Requests(c.Request.Context(), reqType, in.StartDate, in.StopDate)
			if err != nil {
				l.Error("request log fetch failed", zap.Error(err))
				return nil, httpez.Internal("request log fetch failed", err)
			}
			if r.Failed() {
				return gin.H{"success": false, "message": r.Message}, nil
			}
			rows := make([]logRow, 0, len(r.Requests))
			for _, q := range r.Requests {
				rows = append(rows, logRow{
					Date:        orDefault(q.CreatedAt, "N/A"),
					Query:       firstNonEmpty(q.SearchTerm, q.IP, q.Email, q.URL, q.Phone, "Unknown"),
					FraudScore:  derefInt(q.FraudScore),
					CountryCode: orDefault(q.CountryCode, "N/A"),
				})
			}
			return gin.H{"success": true, "requests": rows}, nil
		},
	})

	// 文件扫描是演示用的假后端（原系统同款），故意拖 2s 模拟分析耗时
	httpez.RegisterAction[struct{}, gin.H](ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/tools/scan-file",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			select {
			case <-time.After(2 * time.Second):
			case <-c.Request.Context().Done():
				return nil, c.Request.Context().Err()
			}
			return gin.H{
				"clean":      rand.Float64() > 0.2,
				"fileSize":   "2.4 MB",
				"detections": rand.Intn(5),
				"details": []string{
					"Signature analysis: Complete",
					"Behavioral analysis: No suspicious activity",
					"Heuristic scan: Passed",
					"Sandbox execution: Safe",
				},
			}, nil
		},
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
