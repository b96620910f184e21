package steps

import (
	"context"
	"fmt"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/prompts"
)

type ContextVectorOutput struct {
	ContextVector *domain.ContextVector
	Fingerprint   string
}

func GenerateContextVector(ctx context.Context, deps Deps, in Input) (ContextVectorOutput, error) {
	out := ContextVectorOutput{}
	if err := CheckPreconditions(StageContextVector, in); err != nil {
		return out, err
	}
	if err := requireCompleter(StageContextVector, deps); err != nil {
		return out, err
	}

	in.Progress.emit(StageContextVector, StatusInProgress, "Generating Context Vector...", nil)
	raw, p, err := completeStage(ctx, deps, in, StageContextVector, prompts.PromptContextVector, standardMaxTokens)
	if err != nil {
		return out, err
	}

	cv, err := buildContextVector(deps, in.Project, raw)
	if err != nil {
		return out, in.Progress.fail(StageContextVector, err)
	}

	in.Progress.emit(StageContextVector, StatusCompleted,
		fmt.Sprintf("Context Vector generated: %d terms, %d predicates", len(cv.Vocabulary), len(cv.Predicates)), cv)
	out.ContextVector = cv
	out.Fingerprint = p.Fingerprint()
	return out, nil
}

func buildContextVector(deps Deps, project domain.Project, raw map[string]any) (*domain.ContextVector, error) {
	vocab, err := requireArray(StageContextVector, raw, "vocabulary")
	if err != nil {
		return nil, err
	}

	cv := &domain.ContextVector{
		ID:             deps.newID(),
		ProjectID:      project.ID,
		Vocabulary:     []domain.VocabularyTerm{},
		Predicates:     []domain.Predicate{},
		QueryPatterns:  []domain.QueryPattern{},
		FiveWHPatterns: []domain.FiveWHPattern{},
	}

	for _, x := range vocab {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		term := stringFromAny(m["term"])
		if term == "" {
			continue
		}
		cv.Vocabulary = append(cv.Vocabulary, domain.VocabularyTerm{
			Term:         term,
			Category:     termCategoryFromAny(m["category"]),
			Definition:   stringFromAny(m["definition"]),
			SearchVolume: optFloat(m["searchVolume"]),
		})
	}

	for _, m := range mapsFromAny(raw["predicates"]) {
		verb := stringFromAny(m["verb"])
		if verb == "" {
			continue
		}
		pr := domain.Predicate{
			Verb:           verb,
			Usage:          stringFromAny(m["usage"]),
			FoundInQueries: stringSliceFromAny(m["foundInQueries"]),
			SemanticRoles:  []domain.SemanticRole{},
		}
		for _, r := range mapsFromAny(m["semanticRoles"]) {
			pr.SemanticRoles = append(pr.SemanticRoles, domain.SemanticRole{
				Role:        stringFromAny(r["role"]),
				Description: stringFromAny(r["description"]),
			})
		}
		cv.Predicates = append(cv.Predicates, pr)
	}

	for _, m := range mapsFromAny(raw["queryPatterns"]) {
		pattern := stringFromAny(m["pattern"])
		if pattern == "" {
			continue
		}
		cv.QueryPatterns = append(cv.QueryPatterns, domain.QueryPattern{
			Pattern:     pattern,
			Intent:      intentFromAny(m["intent"]),
			Examples:    stringSliceFromAny(m["examples"]),
			TotalVolume: optFloat(m["totalVolume"]),
		})
	}

	for _, m := range mapsFromAny(raw["fiveWHPatterns"]) {
		t, ok := fiveWHFromAny(m["type"])
		if !ok {
			continue
		}
		cv.FiveWHPatterns = append(cv.FiveWHPatterns, domain.FiveWHPattern{
			Type:        t,
			Patterns:    stringSliceFromAny(m["patterns"]),
			PAAExamples: stringSliceFromAny(m["paaExamples"]),
		})
	}
	return cv, nil
}

func termCategoryFromAny(v any) domain.TermCategory {
	switch c := domain.TermCategory(lowerEnum(v)); c {
	case domain.TermTechnical, domain.TermCommon, domain.TermJargon:
		return c
	}
	return domain.TermCommon
}

func intentFromAny(v any) domain.SearchIntent {
	if i := domain.SearchIntent(lowerEnum(v)); i.Valid() {
		return i
	}
	return domain.IntentInformational
}

func fiveWHFromAny(v any) (domain.FiveWH, bool) {
	switch w := domain.FiveWH(lowerEnum(v)); w {
	case domain.FiveWHWhat, domain.FiveWHWho, domain.FiveWHWhere, domain.FiveWHWhen, domain.FiveWHWhy, domain.FiveWHHow:
		return w, true
	}
	return "", false
}
