package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PolicyPal/internal/config"
	"PolicyPal/internal/domain"
	"PolicyPal/internal/infrastructure/parser"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

const (
	apiKeyHeader        = "X-API-Key"
	formattedTextFormat = "Formatted Text"
	fromDateTimeLayout  = "2006-01-02T15:04:05Z"
)

// Client talks to the congress.gov v3 API. Every request waits on the shared limiter.
type Client struct {
	baseURL string
	apiKey  string
	limiter ports.RateLimiter
	http    *http.Client
	logger  *logging.Logger
}

var _ ports.BillSource = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.CongressConfig, limiter ports.RateLimiter, logger *logging.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: limiter,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type listingResponse struct {
	Bills      []json.RawMessage `json:"bills"`
	Pagination struct {
		Count int `json:"count"`
	} `json:"pagination"`
}

// FetchBillPage lists bills of a congress starting at offset.
func (c *Client) FetchBillPage(ctx context.Context, congress, offset, limit int) (domain.BillPage, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var resp listingResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/bill/%d", c.baseURL, congress), q, &resp); err != nil {
		return domain.BillPage{}, fmt.Errorf("fetch bill page: %w", err)
	}

	return domain.BillPage{Entries: decodeEntries(resp.Bills), Available: resp.Pagination.Count}, nil
}

// FetchRecentBills lists bills of a congress updated since the given instant.
func (c *Client) FetchRecentBills(ctx context.Context, congress int, since time.Time) ([]domain.BillEntry, error) {
	q := url.Values{}
	q.Set("fromDateTime", since.UTC().Format(fromDateTimeLayout))

	var resp listingResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/bill/%d", c.baseURL, congress), q, &resp); err != nil {
		return nil, fmt.Errorf("fetch recent bills: %w", err)
	}

	return decodeEntries(resp.Bills), nil
}

// decodeEntries keeps malformed entries with only their raw payload so the
// caller can count and log them.
func decodeEntries(raw []json.RawMessage) []domain.BillEntry {
	entries := make([]domain.BillEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.BillEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			entry = domain.BillEntry{}
		}
		entry.Raw = item
		entries = append(entries, entry)
	}
	return entries
}

type detailResponse struct {
	Bill struct {
		Title         string              `json:"title"`
		OriginChamber string              `json:"originChamber"`
		LatestAction  domain.LatestAction `json:"latestAction"`
		Sponsors      []struct {
			FullName string `json:"fullName"`
		} `json:"sponsors"`
		Sponsor struct {
			Name string `json:"name"`
		} `json:"sponsor"`
	} `json:"bill"`
}

// FetchBillDetail loads the detail document at url. ok is false on any failure.
func (c *Client) FetchBillDetail(ctx context.Context, detailURL string) (domain.BillDetail, bool) {
	if strings.TrimSpace(detailURL) == "" {
		return domain.BillDetail{}, false
	}

	var resp detailResponse
	if err := c.getJSON(ctx, detailURL, nil, &resp); err != nil {
		c.logger.Warn("bill detail unavailable", "url", detailURL, "error", err)
		return domain.BillDetail{}, false
	}

	detail := domain.BillDetail{
		Title:         resp.Bill.Title,
		OriginChamber: resp.Bill.OriginChamber,
		LatestAction:  resp.Bill.LatestAction,
		Sponsor:       resp.Bill.Sponsor.Name,
	}
	if len(resp.Bill.Sponsors) > 0 && resp.Bill.Sponsors[0].FullName != "" {
		detail.Sponsor = resp.Bill.Sponsors[0].FullName
	}
	return detail, true
}

type textVersionsResponse struct {
	TextVersions []struct {
		Formats []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"formats"`
	} `json:"textVersions"`
}

// FetchBillText returns the formatted text of the first text version, or its
// preview when fullText is false. Any miss yields "".
func (c *Client) FetchBillText(ctx context.Context, key domain.BillKey, fullText bool) string {
	endpoint := fmt.Sprintf("%s/bill/%d/%s/%s/text", c.baseURL, key.Congress, strings.ToLower(key.Type), key.Number)

	var versions textVersionsResponse
	if err := c.getJSON(ctx, endpoint, nil, &versions); err != nil {
		c.logger.Warn("bill text index unavailable", "bill", key.String(), "error", err)
		return ""
	}
	if len(versions.TextVersions) == 0 {
		return ""
	}

	var textURL string
	for _, format := range versions.TextVersions[0].Formats {
		if format.Type == formattedTextFormat {
			textURL = format.URL
			break
		}
	}
	if textURL == "" {
		return ""
	}

	body, err := c.get(ctx, textURL, nil)
	if err != nil {
		c.logger.Warn("bill text unavailable", "bill", key.String(), "error", err)
		return ""
	}
	defer body.Close()

	text, err := parser.ExtractPreformatted(body)
	if err != nil {
		c.logger.Warn("bill text not extracted", "bill", key.String(), "error", err)
		return ""
	}

	if !fullText {
		return parser.Preview(text, parser.PreviewLength)
	}
	return text
}

func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("format", "json")

	body, err := c.get(ctx, rawURL, query)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string, query url.Values) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		merged := u.Query()
		for k, vals := range query {
			merged[k] = vals
		}
		u.RawQuery = merged.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", "PolicyPal/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("congress api returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return resp.Body, nil
}
