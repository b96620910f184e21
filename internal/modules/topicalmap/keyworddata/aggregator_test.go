package keyworddata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
)

type fakeClient struct {
	calls        int32
	structureErr error
	questionsErr error
	lastRelated  haloscan.KeywordSearchRequest
	lastStruct   haloscan.SiteStructureRequest
	mu           sync.Mutex
}

func (f *fakeClient) Overview(ctx context.Context, req haloscan.OverviewRequest) (*haloscan.OverviewResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	out := &haloscan.OverviewResponse{
		Keyword:          req.Keyword,
		SEOMetrics:       &haloscan.SEOMetrics{Volume: domain.Num(12000), KGR: domain.Num(0.3), AllintitleCount: domain.Num(3600)},
		SimilarHighlight: &haloscan.KeywordList{Results: []haloscan.KeywordResult{{Keyword: "visa schengen france", Volume: domain.Num(800), KGR: domain.Num(0.1)}}},
		KeywordMatch:     &haloscan.KeywordList{Results: []haloscan.KeywordResult{{Keyword: "visa schengen prix", Volume: domain.NA}}},
		Serp:             &haloscan.OverviewSerp{},
	}
	out.Serp.Results.Serp = []haloscan.SerpResult{{Position: 1, URL: "https://a.example", Title: "A"}}
	return out, nil
}

func (f *fakeClient) Questions(ctx context.Context, req haloscan.QuestionsRequest) (*haloscan.QuestionsResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	if !req.KeepOnlyPAA || req.LineCount != 50 {
		return nil, errors.New("unexpected questions request")
	}
	return &haloscan.QuestionsResponse{Results: []haloscan.QuestionResult{
		{KeywordResult: haloscan.KeywordResult{Keyword: "comment obtenir un visa schengen", Volume: domain.Num(90)}, QuestionType: "how", Depth: 1},
	}}, nil
}

func (f *fakeClient) Related(ctx context.Context, req haloscan.KeywordSearchRequest) (*haloscan.KeywordSearchResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.lastRelated = req
	f.mu.Unlock()
	return &haloscan.KeywordSearchResponse{Results: []haloscan.KeywordResult{{Keyword: "visa", Volume: domain.Num(5000), KGR: domain.Num(0.9)}}}, nil
}

func (f *fakeClient) SiteStructure(ctx context.Context, req haloscan.SiteStructureRequest) (*haloscan.SiteStructureResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.lastStruct = req
	f.mu.Unlock()
	if f.structureErr != nil {
		return nil, f.structureErr
	}
	return &haloscan.SiteStructureResponse{Table: []haloscan.SiteStructureRow{
		{KeywordResult: haloscan.KeywordResult{Keyword: "visa schengen duree", Volume: domain.Num(300)}, V1: "Durée", V2: "séjour"},
	}}, nil
}

type memCache struct {
	m    map[string]*domain.KeywordDataBundle
	sets int
}

func (c *memCache) Get(ctx context.Context, seed string) (*domain.KeywordDataBundle, bool, error) {
	b, ok := c.m[seed]
	return b, ok, nil
}

func (c *memCache) Set(ctx context.Context, seed string, b *domain.KeywordDataBundle) error {
	c.m[seed] = b
	c.sets++
	return nil
}

func TestFetchMergesAllSources(t *testing.T) {
	fc := &fakeClient{}
	agg, err := New(Deps{Client: fc}, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := agg.Fetch(context.Background(), "  visa schengen ")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if b.SeedKeyword != "visa schengen" {
		t.Fatalf("seed=%q", b.SeedKeyword)
	}
	if b.Metrics == nil || b.Metrics.Allintitle.String() != "3600" {
		t.Fatalf("metrics=%+v", b.Metrics)
	}
	if len(b.SimilarKeywords) != 1 || len(b.MatchingKeywords) != 1 || len(b.RelatedKeywords) != 1 {
		t.Fatalf("keyword lists: %+v", b)
	}
	if len(b.Questions) != 1 || b.Questions[0].QuestionType != "how" {
		t.Fatalf("questions=%+v", b.Questions)
	}
	if len(b.Clusters) != 1 || b.Clusters[0].V1 != "Durée" {
		t.Fatalf("clusters=%+v", b.Clusters)
	}
	if len(b.Serp) != 1 || b.TopSites == nil {
		t.Fatalf("serp=%+v topSites=%+v", b.Serp, b.TopSites)
	}
	if fc.calls != 4 {
		t.Fatalf("calls=%d", fc.calls)
	}
	if fc.lastRelated.OrderBy != "volume" || fc.lastRelated.Order != "desc" {
		t.Fatalf("related request=%+v", fc.lastRelated)
	}
	if fc.lastStruct.Mode != "multi" || fc.lastStruct.Granularity != 0.25 || fc.lastStruct.NeighboursSampleMaxSize != 500 {
		t.Fatalf("structure request=%+v", fc.lastStruct)
	}
}

func TestFetchFailFastOnClusteringError(t *testing.T) {
	boom := &haloscan.ProviderError{Endpoint: "/keywords/siteStructure", StatusCode: 500}
	fc := &fakeClient{structureErr: boom}
	agg, _ := New(Deps{Client: fc}, DefaultOptions())
	b, err := agg.Fetch(context.Background(), "visa schengen")
	if b != nil {
		t.Fatalf("expected no bundle, got %+v", b)
	}
	var pe *haloscan.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestFetchPartialWhenNotFailFast(t *testing.T) {
	fc := &fakeClient{questionsErr: errors.New("quota")}
	agg, _ := New(Deps{Client: fc}, Options{FailFast: false})
	b, err := agg.Fetch(context.Background(), "visa schengen")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if b.Questions == nil || len(b.Questions) != 0 {
		t.Fatalf("questions should be empty, got %+v", b.Questions)
	}
	if len(b.Clusters) != 1 {
		t.Fatalf("clusters=%+v", b.Clusters)
	}
}

func TestFetchUsesCache(t *testing.T) {
	fc := &fakeClient{}
	cache := &memCache{m: map[string]*domain.KeywordDataBundle{}}
	agg, _ := New(Deps{Client: fc, Cache: cache}, DefaultOptions())

	if _, err := agg.Fetch(context.Background(), "visa schengen"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := agg.Fetch(context.Background(), "visa schengen"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if fc.calls != 4 {
		t.Fatalf("second fetch should be served from cache, calls=%d", fc.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("sets=%d", cache.sets)
	}
}

func TestFetchEmptySeed(t *testing.T) {
	agg, _ := New(Deps{Client: &fakeClient{}}, DefaultOptions())
	if _, err := agg.Fetch(context.Background(), "  "); !errors.Is(err, ErrEmptySeed) {
		t.Fatalf("expected ErrEmptySeed, got %v", err)
	}
}
