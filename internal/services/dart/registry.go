package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/colligo/internal/models"
)

// registryTimeout covers the corpCode.xml download, which is a multi-megabyte
// zip and slower than statement calls.
const registryTimeout = 60 * time.Second

// corpCodeList mirrors the CORPCODE.xml document inside the registry archive.
type corpCodeList struct {
	XMLName xml.Name       `xml:"result"`
	List    []corpCodeItem `xml:"list"`
}

type corpCodeItem struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

// DownloadRegistry fetches the full company registry and keeps the listed
// companies, the ones with a stock code. The registry arrives as a zip
// archive holding a single XML document.
func (c *Client) DownloadRegistry(ctx context.Context) (*models.RegistrySnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{RetryAfter: time.Second}
	}

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)

	requestURL := fmt.Sprintf("%s/corpCode.xml?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry request: %w", err)
	}

	httpClient := &http.Client{Timeout: registryTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/corpCode.xml",
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry archive: %w", err)
	}

	companies, err := parseRegistryArchive(raw)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info().Int("companies", len(companies)).Msg("Company registry downloaded")
	}

	return &models.RegistrySnapshot{
		Companies: companies,
		FetchedAt: time.Now(),
	}, nil
}

func parseRegistryArchive(raw []byte) ([]models.RegistryCompany, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to open registry archive: %w", err)
	}

	var doc io.ReadCloser
	for _, f := range reader.File {
		if strings.EqualFold(f.Name, "CORPCODE.xml") || strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			doc, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open registry document: %w", err)
			}
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("registry archive holds no XML document")
	}
	defer doc.Close()

	var parsed corpCodeList
	if err := xml.NewDecoder(doc).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse registry document: %w", err)
	}

	companies := make([]models.RegistryCompany, 0, len(parsed.List))
	for _, item := range parsed.List {
		stockCode := strings.TrimSpace(item.StockCode)
		if stockCode == "" {
			continue
		}
		companies = append(companies, models.RegistryCompany{
			CorpCode:  strings.TrimSpace(item.CorpCode),
			Name:      strings.TrimSpace(item.CorpName),
			StockCode: stockCode,
		})
	}
	return companies, nil
}
