package domain

import (
	"time"

	"github.com/google/uuid"
)

type BusinessType string

const (
	BusinessEcommerce     BusinessType = "ecommerce"
	BusinessSaaS          BusinessType = "saas"
	BusinessAffiliate     BusinessType = "affiliate"
	BusinessBlog          BusinessType = "blog"
	BusinessAgency        BusinessType = "agency"
	BusinessLocalBusiness BusinessType = "local_business"
	BusinessOther         BusinessType = "other"
)

func (b BusinessType) Valid() bool {
	switch b {
	case BusinessEcommerce, BusinessSaaS, BusinessAffiliate, BusinessBlog, BusinessAgency, BusinessLocalBusiness, BusinessOther:
		return true
	}
	return false
}

// Project is the aggregate a topical map is generated for. The four
// sub-documents are produced by the generation pipeline, one per stage.
type Project struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	BusinessType BusinessType `json:"businessType"`
	Audience     string       `json:"audience"`
	MainTopic    string       `json:"mainTopic"`
	Objectives   []string     `json:"objectives"`

	KnowledgeDomain *KnowledgeDomain `json:"knowledgeDomain,omitempty"`
	ContextVector   *ContextVector   `json:"contextVector,omitempty"`
	EAVModel        *EAVModel        `json:"eavModel,omitempty"`
	TopicalMap      *TopicalMap      `json:"topicalMap,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
