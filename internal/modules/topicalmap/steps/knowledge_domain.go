package steps

import (
	"context"
	"fmt"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/prompts"
)

type KnowledgeDomainOutput struct {
	KnowledgeDomain *domain.KnowledgeDomain
	Fingerprint     string
}

func GenerateKnowledgeDomain(ctx context.Context, deps Deps, in Input) (KnowledgeDomainOutput, error) {
	out := KnowledgeDomainOutput{}
	if err := requireCompleter(StageKnowledgeDomain, deps); err != nil {
		return out, err
	}

	in.Progress.emit(StageKnowledgeDomain, StatusInProgress, "Generating Knowledge Domain...", nil)
	raw, p, err := completeStage(ctx, deps, in, StageKnowledgeDomain, prompts.PromptKnowledgeDomain, standardMaxTokens)
	if err != nil {
		return out, err
	}

	kd, err := buildKnowledgeDomain(deps, in.Project, raw)
	if err != nil {
		return out, in.Progress.fail(StageKnowledgeDomain, err)
	}

	in.Progress.emit(StageKnowledgeDomain, StatusCompleted,
		fmt.Sprintf("Knowledge Domain generated: %d quality parameters", len(kd.QualityParameters)), kd)
	out.KnowledgeDomain = kd
	out.Fingerprint = p.Fingerprint()
	return out, nil
}

func buildKnowledgeDomain(deps Deps, project domain.Project, raw map[string]any) (*domain.KnowledgeDomain, error) {
	sourceContext := stringFromAny(raw["sourceContext"])
	if sourceContext == "" {
		return nil, &ValidationError{Stage: StageKnowledgeDomain, Field: "sourceContext"}
	}

	kd := &domain.KnowledgeDomain{
		ID:                deps.newID(),
		ProjectID:         project.ID,
		Name:              project.MainTopic,
		SourceContext:     sourceContext,
		QualityParameters: []domain.QualityParameter{},
		Boundaries:        stringSliceFromAny(raw["boundaries"]),
		UserExpectations:  stringSliceFromAny(raw["userExpectations"]),
	}
	for _, m := range mapsFromAny(raw["qualityParameters"]) {
		name := stringFromAny(m["name"])
		if name == "" {
			continue
		}
		kd.QualityParameters = append(kd.QualityParameters, domain.QualityParameter{
			Name:        name,
			Description: stringFromAny(m["description"]),
			Importance:  importanceFromAny(m["importance"]),
		})
	}
	return kd, nil
}

func importanceFromAny(v any) domain.Importance {
	switch i := domain.Importance(lowerEnum(v)); i {
	case domain.ImportanceCritical, domain.ImportanceHigh, domain.ImportanceMedium, domain.ImportanceLow:
		return i
	}
	return domain.ImportanceMedium
}
