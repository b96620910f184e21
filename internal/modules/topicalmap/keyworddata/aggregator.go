package keyworddata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

var ErrEmptySeed = errors.New("seed keyword required")

// Client is the subset of the Haloscan API the aggregator consumes.
type Client interface {
	Overview(ctx context.Context, req haloscan.OverviewRequest) (*haloscan.OverviewResponse, error)
	Questions(ctx context.Context, req haloscan.QuestionsRequest) (*haloscan.QuestionsResponse, error)
	Related(ctx context.Context, req haloscan.KeywordSearchRequest) (*haloscan.KeywordSearchResponse, error)
	SiteStructure(ctx context.Context, req haloscan.SiteStructureRequest) (*haloscan.SiteStructureResponse, error)
}

type Cache interface {
	Get(ctx context.Context, seed string) (*domain.KeywordDataBundle, bool, error)
	Set(ctx context.Context, seed string, bundle *domain.KeywordDataBundle) error
}

type Deps struct {
	Log    *logger.Logger
	Client Client
	Cache  Cache
}

type Options struct {
	// FailFast aborts the whole fetch on the first provider error. When
	// false, a failed call leaves its bundle fields empty.
	FailFast            bool
	Granularity         float64
	NeighboursSampleMax int
}

func DefaultOptions() Options {
	return Options{FailFast: true, Granularity: 0.25, NeighboursSampleMax: 500}
}

type Aggregator struct {
	log    *logger.Logger
	client Client
	cache  Cache
	opts   Options
}

func New(deps Deps, opts Options) (*Aggregator, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("keyworddata: client required")
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	def := DefaultOptions()
	if opts.Granularity <= 0 || opts.Granularity > 1 {
		opts.Granularity = def.Granularity
	}
	if opts.NeighboursSampleMax <= 0 {
		opts.NeighboursSampleMax = def.NeighboursSampleMax
	}
	return &Aggregator{
		log:    log.With("service", "KeywordDataAggregator"),
		client: deps.Client,
		cache:  deps.Cache,
		opts:   opts,
	}, nil
}

// Fetch issues the overview, questions, related and site-structure calls
// concurrently and merges them into one bundle.
func (a *Aggregator) Fetch(ctx context.Context, seed string) (*domain.KeywordDataBundle, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, ErrEmptySeed
	}

	if a.cache != nil {
		cached, ok, err := a.cache.Get(ctx, seed)
		if err != nil {
			a.log.Warn("keyword cache read failed", "seed", seed, "error", err)
		} else if ok && cached != nil {
			a.log.Debug("keyword cache hit", "seed", seed)
			return cached, nil
		}
	}

	bundle := &domain.KeywordDataBundle{SeedKeyword: seed}
	var (
		overview  *haloscan.OverviewResponse
		questions *haloscan.QuestionsResponse
		related   *haloscan.KeywordSearchResponse
		structure *haloscan.SiteStructureResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := a.client.Overview(gctx, overviewRequest(seed))
		if err != nil {
			return a.soft("overview", seed, err)
		}
		overview = out
		return nil
	})
	g.Go(func() error {
		out, err := a.client.Questions(gctx, questionsRequest(seed))
		if err != nil {
			return a.soft("questions", seed, err)
		}
		questions = out
		return nil
	})
	g.Go(func() error {
		out, err := a.client.Related(gctx, relatedRequest(seed))
		if err != nil {
			return a.soft("related", seed, err)
		}
		related = out
		return nil
	})
	g.Go(func() error {
		out, err := a.client.SiteStructure(gctx, a.structureRequest(seed))
		if err != nil {
			return a.soft("site_structure", seed, err)
		}
		structure = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	applyOverview(bundle, overview)
	if questions != nil {
		bundle.Questions = questionRecords(questions.Results)
	}
	if related != nil {
		bundle.RelatedKeywords = keywordRecords(related.Results)
	}
	if structure != nil {
		bundle.Clusters = clusterRecords(structure.Table)
	}
	normalize(bundle)

	if a.cache != nil {
		if err := a.cache.Set(ctx, seed, bundle); err != nil {
			a.log.Warn("keyword cache write failed", "seed", seed, "error", err)
		}
	}

	a.log.Info("keyword data fetched",
		"seed", seed,
		"similar", len(bundle.SimilarKeywords),
		"questions", len(bundle.Questions),
		"clusters", len(bundle.Clusters),
	)
	return bundle, nil
}

// soft returns err in fail-fast mode and swallows it otherwise.
func (a *Aggregator) soft(call, seed string, err error) error {
	if a.opts.FailFast {
		return fmt.Errorf("haloscan %s: %w", call, err)
	}
	a.log.Warn("haloscan call failed; continuing with partial data", "call", call, "seed", seed, "error", err)
	return nil
}

// ---------------- Single-call lookups ----------------

func (a *Aggregator) Overview(ctx context.Context, seed string) (*haloscan.OverviewResponse, error) {
	if strings.TrimSpace(seed) == "" {
		return nil, ErrEmptySeed
	}
	return a.client.Overview(ctx, overviewRequest(strings.TrimSpace(seed)))
}

func (a *Aggregator) Questions(ctx context.Context, seed string) ([]domain.QuestionRecord, error) {
	if strings.TrimSpace(seed) == "" {
		return nil, ErrEmptySeed
	}
	out, err := a.client.Questions(ctx, questionsRequest(strings.TrimSpace(seed)))
	if err != nil {
		return nil, err
	}
	return questionRecords(out.Results), nil
}

type Structure struct {
	Keyword         string                     `json:"keyword"`
	Graph           *haloscan.GraphNode        `json:"graph,omitempty"`
	Clusters        []domain.ClusterRecord     `json:"clusters"`
	Cannibalisation []haloscan.Cannibalisation `json:"cannibalisation"`
}

func (a *Aggregator) Structure(ctx context.Context, seed string) (*Structure, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, ErrEmptySeed
	}
	out, err := a.client.SiteStructure(ctx, a.structureRequest(seed))
	if err != nil {
		return nil, err
	}
	s := &Structure{
		Keyword:         seed,
		Graph:           out.Graph,
		Clusters:        clusterRecords(out.Table),
		Cannibalisation: out.Cannibalisation,
	}
	if s.Cannibalisation == nil {
		s.Cannibalisation = []haloscan.Cannibalisation{}
	}
	return s, nil
}

// ---------------- Requests ----------------

func overviewRequest(seed string) haloscan.OverviewRequest {
	return haloscan.OverviewRequest{
		Keyword:       seed,
		RequestedData: []string{"metrics", "keyword_match", "similar_highlight", "top_sites", "serp"},
	}
}

func questionsRequest(seed string) haloscan.QuestionsRequest {
	return haloscan.QuestionsRequest{
		KeywordSearchRequest: haloscan.KeywordSearchRequest{Keyword: seed, LineCount: 50},
		KeepOnlyPAA:          true,
	}
}

func relatedRequest(seed string) haloscan.KeywordSearchRequest {
	return haloscan.KeywordSearchRequest{Keyword: seed, LineCount: 50, OrderBy: "volume", Order: "desc"}
}

func (a *Aggregator) structureRequest(seed string) haloscan.SiteStructureRequest {
	return haloscan.SiteStructureRequest{
		Keyword:                 seed,
		Mode:                    "multi",
		MultipartiteModes:       []string{"serp", "related"},
		NeighboursSources:       []string{"serp", "related"},
		NeighboursSampleMaxSize: a.opts.NeighboursSampleMax,
		Granularity:             a.opts.Granularity,
	}
}
