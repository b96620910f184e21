package haloscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestOverviewSendsKeyAndDecodes(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodPost {
				t.Fatalf("method=%s", req.Method)
			}
			if req.URL.Path != "/api/keywords/overview" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("haloscan-api-key"); got != "k-123" {
				t.Fatalf("api key header=%q", got)
			}
			var in OverviewRequest
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if in.Keyword != "visa schengen" || len(in.RequestedData) != 2 {
				t.Fatalf("unexpected body: %+v", in)
			}
			return jsonResponse(200, `{
				"keyword": "visa schengen",
				"seo_metrics": {"volume": 12000, "kgr": "NA", "allintitle_count": 340},
				"similar_highlight": {"results": [{"keyword": "visa schengen france", "volume": 800}]},
				"serp": {"results": {"serp": [{"position": 1, "url": "https://a.example", "title": "A"}]}},
				"top_sites": {"results": [{"domain": "a.example", "score": 42.5}]}
			}`), nil
		}),
	}

	c := NewWithHTTPClient(Config{BaseURL: "http://upstream/api", APIKey: "k-123"}, client, nil)
	out, err := c.Overview(context.Background(), OverviewRequest{
		Keyword:       "visa schengen",
		RequestedData: []string{"metrics", "serp"},
	})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if out.SEOMetrics == nil || out.SEOMetrics.Volume.String() != "12000" {
		t.Fatalf("metrics=%+v", out.SEOMetrics)
	}
	if out.SEOMetrics.KGR.Valid {
		t.Fatalf("expected NA kgr, got %v", out.SEOMetrics.KGR)
	}
	if len(out.Serp.Results.Serp) != 1 || out.Serp.Results.Serp[0].Title != "A" {
		t.Fatalf("serp=%+v", out.Serp)
	}
	if len(out.TopSites.Results) != 1 || out.TopSites.Results[0].Score != 42.5 {
		t.Fatalf("top sites=%+v", out.TopSites)
	}
}

func TestMissingKeySendsNothing(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return jsonResponse(200, `{}`), nil
		}),
	}
	c := NewWithHTTPClient(Config{BaseURL: "http://upstream"}, client, nil)
	_, err := c.Related(context.Background(), KeywordSearchRequest{Keyword: "x"})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no request, got %d", calls)
	}
}

func TestFailureReasonOn200(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, `{"failure_reason": "not enough credits", "results": []}`), nil
		}),
	}
	c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client, nil)
	_, err := c.Questions(context.Background(), QuestionsRequest{KeywordSearchRequest: KeywordSearchRequest{Keyword: "x"}})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.FailureReason != "not enough credits" {
		t.Fatalf("failure reason=%q", pe.FailureReason)
	}
}

func TestNon2xxIsSingleAttempt(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return jsonResponse(503, `upstream down`), nil
		}),
	}
	c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client, nil)
	_, err := c.SiteStructure(context.Background(), SiteStructureRequest{Keyword: "x"})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != 503 || pe.Body != "upstream down" {
		t.Fatalf("unexpected error: %+v", pe)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestSearchBodyOmitsUnsetFilters(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			var raw map[string]any
			if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := raw["volume_min"]; ok {
				t.Fatalf("volume_min should be omitted: %v", raw)
			}
			if raw["order_by"] != "volume" || raw["lineCount"] != float64(50) {
				t.Fatalf("unexpected body: %v", raw)
			}
			return jsonResponse(200, `{"keyword":"x","total_result_count":3,"results":[{"keyword":"y","volume":10,"cpc":"NA"}]}`), nil
		}),
	}
	c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client, nil)
	out, err := c.Related(context.Background(), KeywordSearchRequest{Keyword: "x", LineCount: 50, OrderBy: "volume", Order: "desc"})
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if out.TotalResultCount != 3 || len(out.Results) != 1 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Results[0].CPC.Valid {
		t.Fatalf("expected NA cpc")
	}
}

func TestScrapAccepts201(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/keywords/scrap" {
				t.Fatalf("path=%s", req.URL.Path)
			}
			return jsonResponse(201, ``), nil
		}),
	}
	c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client, nil)
	if _, err := c.Scrap(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("Scrap: %v", err)
	}
}

func TestTransportErrorIsProviderError(t *testing.T) {
	dialErr := errors.New("dial tcp: connection refused")
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return nil, dialErr
		}),
	}
	c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client, nil)
	_, err := c.Related(context.Background(), KeywordSearchRequest{Keyword: "x"})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Endpoint != "/keywords/related" || pe.StatusCode != 0 {
		t.Fatalf("unexpected error: %+v", pe)
	}
	if !errors.Is(err, dialErr) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestDecodeErrorIsProviderError(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, `{"results":[{"keyword":"y","volume":"lots"}]}`), nil
		}),
	}
	c := NewWithHTTPClient(Config{BaseURL: "http://upstream", APIKey: "k"}, client, nil)
	_, err := c.Similar(context.Background(), KeywordSearchRequest{Keyword: "x"})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != 200 || !strings.Contains(pe.Body, "metric") {
		t.Fatalf("unexpected error: %+v", pe)
	}
}
