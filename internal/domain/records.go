package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectRecord is the persisted row behind a Project. Stage documents are
// stored as JSON columns and are NULL until their stage has run.
type ProjectRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string         `gorm:"column:name;not null" json:"name"`
	BusinessType    string         `gorm:"column:business_type;not null;index" json:"business_type"`
	Audience        string         `gorm:"column:audience" json:"audience"`
	MainTopic       string         `gorm:"column:main_topic;not null" json:"main_topic"`
	Objectives      datatypes.JSON `gorm:"column:objectives" json:"objectives"`
	KnowledgeDomain datatypes.JSON `gorm:"column:knowledge_domain" json:"knowledge_domain,omitempty"`
	ContextVector   datatypes.JSON `gorm:"column:context_vector" json:"context_vector,omitempty"`
	EAVModel        datatypes.JSON `gorm:"column:eav_model" json:"eav_model,omitempty"`
	TopicalMap      datatypes.JSON `gorm:"column:topical_map" json:"topical_map,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;index" json:"updated_at"`
}

func (ProjectRecord) TableName() string { return "project" }

func NewProjectRecord(p *Project) (*ProjectRecord, error) {
	if p == nil {
		return nil, fmt.Errorf("nil project")
	}
	objectives := p.Objectives
	if objectives == nil {
		objectives = []string{}
	}
	rec := &ProjectRecord{
		ID:           p.ID,
		Name:         p.Name,
		BusinessType: string(p.BusinessType),
		Audience:     p.Audience,
		MainTopic:    p.MainTopic,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	var err error
	if rec.Objectives, err = jsonColumn(objectives); err != nil {
		return nil, fmt.Errorf("objectives: %w", err)
	}
	if err := rec.SetStages(p.KnowledgeDomain, p.ContextVector, p.EAVModel, p.TopicalMap); err != nil {
		return nil, err
	}
	return rec, nil
}

// SetStages overwrites the stage columns whose argument is non-nil.
func (r *ProjectRecord) SetStages(kd *KnowledgeDomain, cv *ContextVector, eav *EAVModel, tm *TopicalMap) error {
	var err error
	if kd != nil {
		if r.KnowledgeDomain, err = jsonColumn(kd); err != nil {
			return fmt.Errorf("knowledge domain: %w", err)
		}
	}
	if cv != nil {
		if r.ContextVector, err = jsonColumn(cv); err != nil {
			return fmt.Errorf("context vector: %w", err)
		}
	}
	if eav != nil {
		if r.EAVModel, err = jsonColumn(eav); err != nil {
			return fmt.Errorf("eav model: %w", err)
		}
	}
	if tm != nil {
		if r.TopicalMap, err = jsonColumn(tm); err != nil {
			return fmt.Errorf("topical map: %w", err)
		}
	}
	return nil
}

func (r *ProjectRecord) ToProject() (*Project, error) {
	p := &Project{
		ID:           r.ID,
		Name:         r.Name,
		BusinessType: BusinessType(r.BusinessType),
		Audience:     r.Audience,
		MainTopic:    r.MainTopic,
		Objectives:   []string{},
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if err := decodeColumn(r.Objectives, &p.Objectives); err != nil {
		return nil, fmt.Errorf("objectives: %w", err)
	}
	if hasJSON(r.KnowledgeDomain) {
		p.KnowledgeDomain = &KnowledgeDomain{}
		if err := decodeColumn(r.KnowledgeDomain, p.KnowledgeDomain); err != nil {
			return nil, fmt.Errorf("knowledge domain: %w", err)
		}
	}
	if hasJSON(r.ContextVector) {
		p.ContextVector = &ContextVector{}
		if err := decodeColumn(r.ContextVector, p.ContextVector); err != nil {
			return nil, fmt.Errorf("context vector: %w", err)
		}
	}
	if hasJSON(r.EAVModel) {
		p.EAVModel = &EAVModel{}
		if err := decodeColumn(r.EAVModel, p.EAVModel); err != nil {
			return nil, fmt.Errorf("eav model: %w", err)
		}
	}
	if hasJSON(r.TopicalMap) {
		p.TopicalMap = &TopicalMap{}
		if err := decodeColumn(r.TopicalMap, p.TopicalMap); err != nil {
			return nil, fmt.Errorf("topical map: %w", err)
		}
	}
	return p, nil
}

type GenerationStatus string

const (
	GenerationRunning   GenerationStatus = "running"
	GenerationSucceeded GenerationStatus = "succeeded"
	GenerationFailed    GenerationStatus = "failed"
)

// GenerationRun records one call of the generation pipeline for a project.
type GenerationRun struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID        `gorm:"type:uuid;column:project_id;not null;index" json:"project_id"`
	Step         string           `gorm:"column:step;not null;index" json:"step"`
	Status       GenerationStatus `gorm:"column:status;not null;index" json:"status"`
	Fingerprints datatypes.JSON   `gorm:"column:fingerprints" json:"fingerprints"`
	KeywordData  datatypes.JSON   `gorm:"column:keyword_data" json:"keyword_data,omitempty"`
	Error        string           `gorm:"column:error" json:"error,omitempty"`
	StartedAt    time.Time        `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt   *time.Time       `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt    time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null" json:"updated_at"`
}

func (GenerationRun) TableName() string { return "generation_run" }

func jsonColumn(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func hasJSON(b datatypes.JSON) bool {
	s := string(b)
	return len(s) > 0 && s != "null"
}

func decodeColumn(b datatypes.JSON, out any) error {
	if !hasJSON(b) {
		return nil
	}
	return json.Unmarshal(b, out)
}
