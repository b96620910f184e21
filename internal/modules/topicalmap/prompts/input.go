package prompts

import "github.com/Berguit/topical-map-app/internal/domain"

// Input carries everything any stage prompt may render. Prior-stage fields
// are nil until that stage has completed; KeywordData may be nil, in which
// case the provider grounding section is omitted.
type Input struct {
	Project         domain.Project
	KeywordData     *domain.KeywordDataBundle
	KnowledgeDomain *domain.KnowledgeDomain
	ContextVector   *domain.ContextVector
	EAVModel        *domain.EAVModel
}
