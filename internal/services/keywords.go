package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/keyworddata"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

type KeywordAction string

const (
	ActionOverview  KeywordAction = "overview"
	ActionQuestions KeywordAction = "questions"
	ActionStructure KeywordAction = "structure"
	ActionFull      KeywordAction = "full"
)

// KeywordResearch is the provider surface the keyword service needs.
// *keyworddata.Aggregator satisfies it.
type KeywordResearch interface {
	Fetch(ctx context.Context, seed string) (*domain.KeywordDataBundle, error)
	Overview(ctx context.Context, seed string) (*haloscan.OverviewResponse, error)
	Questions(ctx context.Context, seed string) ([]domain.QuestionRecord, error)
	Structure(ctx context.Context, seed string) (*keyworddata.Structure, error)
}

type KeywordService interface {
	// Research answers one ad-hoc keyword lookup. The result map has a single
	// key named after what was fetched.
	Research(ctx context.Context, keyword string, action string) (map[string]any, error)
}

type keywordService struct {
	log *logger.Logger
	src KeywordResearch
}

func NewKeywordService(baseLog *logger.Logger, src KeywordResearch) KeywordService {
	return &keywordService{
		log: baseLog.With("service", "KeywordService"),
		src: src,
	}
}

func (s *keywordService) Research(ctx context.Context, keyword string, action string) (map[string]any, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, MapError(ErrMissingKeyword)
	}
	act := KeywordAction(strings.ToLower(strings.TrimSpace(action)))
	if act == "" {
		act = ActionFull
	}

	switch act {
	case ActionOverview:
		out, err := s.src.Overview(ctx, keyword)
		if err != nil {
			return nil, MapError(err)
		}
		return map[string]any{"overview": out}, nil
	case ActionQuestions:
		out, err := s.src.Questions(ctx, keyword)
		if err != nil {
			return nil, MapError(err)
		}
		if out == nil {
			out = []domain.QuestionRecord{}
		}
		return map[string]any{"questions": out}, nil
	case ActionStructure:
		out, err := s.src.Structure(ctx, keyword)
		if err != nil {
			return nil, MapError(err)
		}
		return map[string]any{"structure": out}, nil
	case ActionFull:
		out, err := s.src.Fetch(ctx, keyword)
		if err != nil {
			return nil, MapError(err)
		}
		s.log.Debug("keyword analysis", "keyword", keyword, "clusters", len(out.Clusters))
		return map[string]any{"analysis": out}, nil
	}
	return nil, MapError(fmt.Errorf("%w: %q", ErrUnknownAction, action))
}
