package haloscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

const DefaultBaseURL = "https://api.haloscan.com/api"

const apiKeyHeader = "haloscan-api-key"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a thin JSON-over-POST client. It never retries; callers decide
// whether a failed lookup is fatal.
type Client struct {
	log *logger.Logger

	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func New(cfg Config, log *logger.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		log:        log.With("service", "HaloscanClient"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Transport: tr},
	}
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg Config, httpClient *http.Client, log *logger.Logger) *Client {
	c := New(cfg, log)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

// ---------------- Keyword endpoints ----------------

func (c *Client) Overview(ctx context.Context, req OverviewRequest) (*OverviewResponse, error) {
	var out OverviewResponse
	if err := c.post(ctx, "/keywords/overview", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Match(ctx context.Context, req KeywordSearchRequest) (*KeywordSearchResponse, error) {
	return c.search(ctx, "/keywords/match", req)
}

func (c *Client) Similar(ctx context.Context, req KeywordSearchRequest) (*KeywordSearchResponse, error) {
	return c.search(ctx, "/keywords/similar", req)
}

func (c *Client) Highlights(ctx context.Context, req KeywordSearchRequest) (*KeywordSearchResponse, error) {
	return c.search(ctx, "/keywords/highlights", req)
}

func (c *Client) Related(ctx context.Context, req KeywordSearchRequest) (*KeywordSearchResponse, error) {
	return c.search(ctx, "/keywords/related", req)
}

func (c *Client) Synonyms(ctx context.Context, req KeywordSearchRequest) (*KeywordSearchResponse, error) {
	return c.search(ctx, "/keywords/synonyms", req)
}

func (c *Client) search(ctx context.Context, path string, req KeywordSearchRequest) (*KeywordSearchResponse, error) {
	var out KeywordSearchResponse
	if err := c.post(ctx, path, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Questions(ctx context.Context, req QuestionsRequest) (*QuestionsResponse, error) {
	var out QuestionsResponse
	if err := c.post(ctx, "/keywords/questions", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SiteStructure(ctx context.Context, req SiteStructureRequest) (*SiteStructureResponse, error) {
	var out SiteStructureResponse
	if err := c.post(ctx, "/keywords/siteStructure", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Bulk(ctx context.Context, req BulkRequest) (*BulkResponse, error) {
	var out BulkResponse
	if err := c.post(ctx, "/keywords/bulk", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Find(ctx context.Context, req FindRequest) (*FindResponse, error) {
	var out FindResponse
	if err := c.post(ctx, "/keywords/find", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SerpCompare(ctx context.Context, req SerpCompareRequest) (*SerpCompareResponse, error) {
	var out SerpCompareResponse
	if err := c.post(ctx, "/keywords/serp/compare", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AvailableSerpDates(ctx context.Context, keyword string) (*AvailableDatesResponse, error) {
	var out AvailableDatesResponse
	body := map[string]string{"keyword": keyword}
	if err := c.post(ctx, "/keywords/serp/availableDates", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scrap queues keywords for a fresh crawl. The API answers 201 on acceptance.
func (c *Client) Scrap(ctx context.Context, keywords []string) (*ScrapResponse, error) {
	var out ScrapResponse
	body := map[string][]string{"keywords": keywords}
	if err := c.post(ctx, "/keywords/scrap", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------- HTTP helpers ----------------

func (c *Client) post(ctx context.Context, path string, body any, out any, allowEmpty bool) error {
	if c.apiKey == "" {
		return &ConfigurationError{Reason: "HALOSCAN_API_KEY is not set"}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	ctx2 := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx2, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Endpoint: path, Body: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("haloscan request", "endpoint", path, "status", resp.StatusCode, "latency_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &ProviderError{Endpoint: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Endpoint: path, StatusCode: resp.StatusCode, Body: err.Error(), Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if allowEmpty {
			return nil
		}
		return &ProviderError{Endpoint: path, StatusCode: resp.StatusCode, Body: "empty body"}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) && allowEmpty {
			return nil
		}
		return &ProviderError{Endpoint: path, StatusCode: resp.StatusCode, Body: err.Error(), Err: err}
	}
	if fc, ok := out.(failureCarrier); ok {
		if reason := strings.TrimSpace(fc.failure()); reason != "" {
			return &ProviderError{Endpoint: path, StatusCode: resp.StatusCode, FailureReason: reason}
		}
	}
	return nil
}
