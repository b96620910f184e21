package domain

import "github.com/google/uuid"

type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

type QualityParameter struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Importance  Importance `json:"importance"`
}

type KnowledgeDomain struct {
	ID                uuid.UUID          `json:"id"`
	ProjectID         uuid.UUID          `json:"projectId"`
	Name              string             `json:"name"`
	SourceContext     string             `json:"sourceContext"`
	QualityParameters []QualityParameter `json:"qualityParameters"`
	Boundaries        []string           `json:"boundaries"`
	UserExpectations  []string           `json:"userExpectations"`
}
