package domain

import "github.com/google/uuid"

type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityProduct      EntityType = "product"
	EntityService      EntityType = "service"
	EntityConcept      EntityType = "concept"
	EntityLocation     EntityType = "location"
	EntityEvent        EntityType = "event"
	EntityOther        EntityType = "other"
)

type ValueType string

const (
	ValueText    ValueType = "text"
	ValueNumber  ValueType = "number"
	ValueDate    ValueType = "date"
	ValueBoolean ValueType = "boolean"
	ValueList    ValueType = "list"
)

type RelationType string

const (
	RelationIsA       RelationType = "is_a"
	RelationPartOf    RelationType = "part_of"
	RelationHas       RelationType = "has"
	RelationBelongsTo RelationType = "belongs_to"
	RelationRelatedTo RelationType = "related_to"
	RelationUses      RelationType = "uses"
	RelationProvides  RelationType = "provides"
	RelationRequires  RelationType = "requires"
)

type Attribute struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	ValueType       ValueType `json:"valueType"`
	IsKey           bool      `json:"isKey"`
	Description     string    `json:"description"`
	RelatedKeywords []string  `json:"relatedKeywords,omitempty"`
}

type Entity struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Type               EntityType  `json:"type"`
	Description        string      `json:"description"`
	IsMainEntity       bool        `json:"isMainEntity"`
	BasedOnCluster     string      `json:"basedOnCluster,omitempty"`
	KeyAttributes      []Attribute `json:"keyAttributes"`
	StandardAttributes []Attribute `json:"standardAttributes"`
}

// EntityRelation references entities by id. When the model named an entity
// that does not exist, the raw name is kept in place of the id.
type EntityRelation struct {
	ID             uuid.UUID    `json:"id"`
	SourceEntityID string       `json:"sourceEntityId"`
	TargetEntityID string       `json:"targetEntityId"`
	RelationType   RelationType `json:"relationType"`
	Description    string       `json:"description,omitempty"`
}

type EAVModel struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"projectId"`
	Entities  []Entity         `json:"entities"`
	Relations []EntityRelation `json:"relations"`
}
