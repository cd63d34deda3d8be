package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/models"
)

func statementServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("crtfc_key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
}

func TestGetFinancialStatement(t *testing.T) {
	server := statementServer(t, `{
		"status": "000",
		"message": "정상",
		"list": [
			{"account_nm": "매출액", "thstrm_amount": "79,098,738,000,000", "currency": "KRW", "fs_div": "CFS"},
			{"account_nm": "매출액", "thstrm_amount": "1", "currency": "KRW", "fs_div": "OFS"},
			{"account_nm": "영업이익", "thstrm_amount": "(1,234)", "fs_div": "CFS"},
			{"account_nm": "자산총계", "thstrm_amount": "-", "fs_div": "CFS"}
		]
	}`)
	defer server.Close()

	client := NewClient("key", WithBaseURL(server.URL))
	result := client.GetFinancialStatement(context.Background(), "00126380", 2025, models.ReportH1)

	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, "00126380", result.CorpCode)
	assert.Equal(t, 2025, result.Year)
	assert.Equal(t, models.ReportH1, result.ReportKind)
	assert.Equal(t, 4, result.RawCount)

	require.NotNil(t, result.KeyAccounts.Revenue)
	assert.Equal(t, int64(79098738000000), *result.KeyAccounts.Revenue, "consolidated rows win over separate ones")
	require.NotNil(t, result.KeyAccounts.OperatingIncome)
	assert.Equal(t, int64(-1234), *result.KeyAccounts.OperatingIncome)
	assert.Nil(t, result.KeyAccounts.TotalAssets, "placeholder amounts stay unknown")
}

func TestGetFinancialStatementNoData(t *testing.T) {
	server := statementServer(t, `{"status": "013", "message": "조회된 데이타가 없습니다."}`)
	defer server.Close()

	client := NewClient("key", WithBaseURL(server.URL))
	result := client.GetFinancialStatement(context.Background(), "00126380", 2025, models.ReportQ1)

	assert.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "no statement")
}

func TestGetFinancialStatementAPIError(t *testing.T) {
	server := statementServer(t, `{"status": "020", "message": "요청 제한을 초과하였습니다."}`)
	defer server.Close()

	client := NewClient("key", WithBaseURL(server.URL))
	result := client.GetFinancialStatement(context.Background(), "00126380", 2025, models.ReportFY)

	assert.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "020")
}

func TestGetFinancialStatementUnknownKind(t *testing.T) {
	client := NewClient("key")
	result := client.GetFinancialStatement(context.Background(), "00126380", 2025, models.ReportKind("Q9"))

	assert.Equal(t, models.StatusError, result.Status)
}

func registryZip(t *testing.T, xmlDoc string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("CORPCODE.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(xmlDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDownloadRegistry(t *testing.T) {
	archive := registryZip(t, `<?xml version="1.0" encoding="UTF-8"?>
<result>
	<list><corp_code>00126380</corp_code><corp_name>삼성전자</corp_name><stock_code>005930</stock_code></list>
	<list><corp_code>00999999</corp_code><corp_name>비상장사</corp_name><stock_code> </stock_code></list>
	<list><corp_code>00258801</corp_code><corp_name>카카오</corp_name><stock_code>035720</stock_code></list>
</result>`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	}))
	defer server.Close()

	client := NewClient("key", WithBaseURL(server.URL))
	snapshot, err := client.DownloadRegistry(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.Companies, 2, "unlisted companies are filtered out")
	assert.Equal(t, "삼성전자", snapshot.Companies[0].Name)
	assert.Equal(t, "005930", snapshot.Companies[0].StockCode)
	assert.Equal(t, "00258801", snapshot.Companies[1].CorpCode)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestDownloadRegistryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("key", WithBaseURL(server.URL))
	_, err := client.DownloadRegistry(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestParseRegistryArchiveNotZip(t *testing.T) {
	_, err := parseRegistryArchive([]byte(`{"status":"010","message":"unregistered key"}`))
	assert.Error(t, err)
}
