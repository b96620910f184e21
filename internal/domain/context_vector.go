package domain

import "github.com/google/uuid"

type TermCategory string

const (
	TermTechnical TermCategory = "technical"
	TermCommon    TermCategory = "common"
	TermJargon    TermCategory = "jargon"
)

type SearchIntent string

const (
	IntentInformational SearchIntent = "informational"
	IntentNavigational  SearchIntent = "navigational"
	IntentTransactional SearchIntent = "transactional"
	IntentCommercial    SearchIntent = "commercial"
)

func (i SearchIntent) Valid() bool {
	switch i {
	case IntentInformational, IntentNavigational, IntentTransactional, IntentCommercial:
		return true
	}
	return false
}

type FiveWH string

const (
	FiveWHWhat  FiveWH = "what"
	FiveWHWho   FiveWH = "who"
	FiveWHWhere FiveWH = "where"
	FiveWHWhen  FiveWH = "when"
	FiveWHWhy   FiveWH = "why"
	FiveWHHow   FiveWH = "how"
)

type VocabularyTerm struct {
	Term         string       `json:"term"`
	Category     TermCategory `json:"category"`
	Definition   string       `json:"definition"`
	SearchVolume *float64     `json:"searchVolume,omitempty"`
}

type SemanticRole struct {
	Role        string `json:"role"`
	Description string `json:"description"`
}

type Predicate struct {
	Verb           string         `json:"verb"`
	Usage          string         `json:"usage"`
	FoundInQueries []string       `json:"foundInQueries,omitempty"`
	SemanticRoles  []SemanticRole `json:"semanticRoles"`
}

type QueryPattern struct {
	Pattern     string       `json:"pattern"`
	Intent      SearchIntent `json:"intent"`
	Examples    []string     `json:"examples"`
	TotalVolume *float64     `json:"totalVolume,omitempty"`
}

type FiveWHPattern struct {
	Type        FiveWH   `json:"type"`
	Patterns    []string `json:"patterns"`
	PAAExamples []string `json:"paaExamples,omitempty"`
}

type ContextVector struct {
	ID             uuid.UUID        `json:"id"`
	ProjectID      uuid.UUID        `json:"projectId"`
	Vocabulary     []VocabularyTerm `json:"vocabulary"`
	Predicates     []Predicate      `json:"predicates"`
	QueryPatterns  []QueryPattern   `json:"queryPatterns"`
	FiveWHPatterns []FiveWHPattern  `json:"fiveWHPatterns"`
}
