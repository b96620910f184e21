package steps

import (
	"context"
	"fmt"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/prompts"
)

type EAVModelOutput struct {
	EAVModel    *domain.EAVModel
	Fingerprint string
}

func GenerateEAVModel(ctx context.Context, deps Deps, in Input) (EAVModelOutput, error) {
	out := EAVModelOutput{}
	if err := CheckPreconditions(StageEAVModel, in); err != nil {
		return out, err
	}
	if err := requireCompleter(StageEAVModel, deps); err != nil {
		return out, err
	}

	in.Progress.emit(StageEAVModel, StatusInProgress, "Generating EAV model...", nil)
	raw, p, err := completeStage(ctx, deps, in, StageEAVModel, prompts.PromptEAVModel, largeMaxTokens)
	if err != nil {
		return out, err
	}

	eav, err := buildEAVModel(deps, in.Project, raw)
	if err != nil {
		return out, in.Progress.fail(StageEAVModel, err)
	}

	in.Progress.emit(StageEAVModel, StatusCompleted,
		fmt.Sprintf("EAV model: %d entities, %d relations", len(eav.Entities), len(eav.Relations)), eav)
	out.EAVModel = eav
	out.Fingerprint = p.Fingerprint()
	return out, nil
}

func buildEAVModel(deps Deps, project domain.Project, raw map[string]any) (*domain.EAVModel, error) {
	entities, err := requireArray(StageEAVModel, raw, "entities")
	if err != nil {
		return nil, err
	}

	eav := &domain.EAVModel{
		ID:        deps.newID(),
		ProjectID: project.ID,
		Entities:  []domain.Entity{},
		Relations: []domain.EntityRelation{},
	}

	// First entity wins when the model repeats a name.
	idByName := map[string]string{}
	for _, x := range entities {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		name := stringFromAny(m["name"])
		if name == "" {
			continue
		}
		e := domain.Entity{
			ID:                 deps.newID(),
			Name:               name,
			Type:               entityTypeFromAny(m["type"]),
			Description:        stringFromAny(m["description"]),
			IsMainEntity:       boolFromAny(m["isMainEntity"]),
			BasedOnCluster:     stringFromAny(m["basedOnCluster"]),
			KeyAttributes:      buildAttributes(deps, m["keyAttributes"], true),
			StandardAttributes: buildAttributes(deps, m["standardAttributes"], false),
		}
		if _, dup := idByName[name]; !dup {
			idByName[name] = e.ID.String()
		}
		eav.Entities = append(eav.Entities, e)
	}

	resolve := func(ref string) string {
		if id, ok := idByName[ref]; ok {
			return id
		}
		return ref
	}
	for _, m := range mapsFromAny(raw["relations"]) {
		src := stringFromAny(m["sourceEntity"])
		dst := stringFromAny(m["targetEntity"])
		if src == "" || dst == "" {
			continue
		}
		eav.Relations = append(eav.Relations, domain.EntityRelation{
			ID:             deps.newID(),
			SourceEntityID: resolve(src),
			TargetEntityID: resolve(dst),
			RelationType:   relationTypeFromAny(m["relationType"]),
			Description:    stringFromAny(m["description"]),
		})
	}
	return eav, nil
}

// buildAttributes forces isKey from the list the attribute came from.
func buildAttributes(deps Deps, v any, isKey bool) []domain.Attribute {
	out := []domain.Attribute{}
	for _, m := range mapsFromAny(v) {
		name := stringFromAny(m["name"])
		if name == "" {
			continue
		}
		out = append(out, domain.Attribute{
			ID:              deps.newID(),
			Name:            name,
			ValueType:       valueTypeFromAny(m["valueType"]),
			IsKey:           isKey,
			Description:     stringFromAny(m["description"]),
			RelatedKeywords: stringSliceFromAny(m["relatedKeywords"]),
		})
	}
	return out
}

func entityTypeFromAny(v any) domain.EntityType {
	switch t := domain.EntityType(lowerEnum(v)); t {
	case domain.EntityPerson, domain.EntityOrganization, domain.EntityProduct, domain.EntityService,
		domain.EntityConcept, domain.EntityLocation, domain.EntityEvent, domain.EntityOther:
		return t
	}
	return domain.EntityOther
}

func valueTypeFromAny(v any) domain.ValueType {
	switch t := domain.ValueType(lowerEnum(v)); t {
	case domain.ValueText, domain.ValueNumber, domain.ValueDate, domain.ValueBoolean, domain.ValueList:
		return t
	}
	return domain.ValueText
}

func relationTypeFromAny(v any) domain.RelationType {
	switch t := domain.RelationType(lowerEnum(v)); t {
	case domain.RelationIsA, domain.RelationPartOf, domain.RelationHas, domain.RelationBelongsTo,
		domain.RelationRelatedTo, domain.RelationUses, domain.RelationProvides, domain.RelationRequires:
		return t
	}
	return domain.RelationRelatedTo
}
