package ipqs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL, 2*time.Second)
}

func TestScanURL(t *testing.T) {
	t.Parallel()
	cli := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/url/test-key/https://evil.example", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"unsafe":true,"phishing":true,"risk_score":88,"domain":"evil.example","domain_age":{"human":"2 months ago"}}`))
	})

	got, err := cli.ScanURL(context.Background(), "https://evil.example")
	require.NoError(t, err)
	require.False(t, got.Failed())
	require.True(t, got.Unsafe)
	require.True(t, got.Phishing)
	require.Equal(t, 88, got.RiskScore)
	require.Equal(t, "evil.example", got.Domain)
	require.Equal(t, "2 months ago", got.DomainAge.Human)
}

func TestEmail_UpstreamFailure(t *testing.T) {
	t.Parallel()
	cli := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid key"}`))
	})

	got, err := cli.Email(context.Background(), "a@b.com")
	require.NoError(t, err) // 业务失败不是传输错误
	require.True(t, got.Failed())
	require.Equal(t, "invalid key", got.Message)
}

func TestPhone_CountryParam(t *testing.T) {
	t.Parallel()
	var gotPath, gotQuery string
	cli := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"success":true,"valid":true,"carrier":"TestTel"}`))
	})

	res, err := cli.Phone(context.Background(), "+4915112345678", "DE")
	require.NoError(t, err)
	require.Equal(t, "/phone/test-key/+4915112345678", gotPath)
	require.Equal(t, "country=DE", gotQuery)
	require.False(t, res.Failed())
	require.Contains(t, string(res.Raw), "TestTel") // 整包透传

	// US 为默认国家，不带参数
	_, err = cli.Phone(context.Background(), "5551234", "US")
	require.NoError(t, err)
	require.Empty(t, gotQuery)
}

func TestRequests(t *testing.T) {
	t.Parallel()
	cli := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "proxy", r.URL.Query().Get("type"))
		require.Equal(t, "2026-01-01", r.URL.Query().Get("start_date"))
		_, _ = w.Write([]byte(`{"success":true,"requests":[{"created_at":"2026-01-02","search_term":"1.2.3.4","fraud_score":75,"country_code":"US"}]}`))
	})

	got, err := cli.Requests(context.Background(), "proxy", "2026-01-01", "")
	require.NoError(t, err)
	require.Len(t, got.Requests, 1)
	require.Equal(t, "1.2.3.4", got.Requests[0].SearchTerm)
	require.Equal(t, 75, *got.Requests[0].FraudScore)
}

func TestScanURL_BadJSON(t *testing.T) {
	t.Parallel()
	cli := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	_, err := cli.ScanURL(context.Background(), "https://x.example")
	require.Error(t, err)
}
