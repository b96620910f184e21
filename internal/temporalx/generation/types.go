package generation

import (
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/services"
)

const (
	WorkflowName     = "topical_map_generation"
	ActivityRunStage = "topical_map_run_stage"
)

// fullSequence is the order a full run walks; each entry is one activity.
var fullSequence = []services.Step{
	services.StepHaloscan,
	services.StepKnowledgeDomain,
	services.StepContextVector,
	services.StepEAVModel,
	services.StepTopicalMap,
}

// Input is the workflow argument. It carries the stage documents the
// project already has so that individual steps see their prerequisites.
type Input struct {
	Project         domain.Project            `json:"project"`
	Step            services.Step             `json:"step"`
	KeywordData     *domain.KeywordDataBundle `json:"keywordData,omitempty"`
	KnowledgeDomain *domain.KnowledgeDomain   `json:"knowledgeDomain,omitempty"`
	ContextVector   *domain.ContextVector     `json:"contextVector,omitempty"`
	EAVModel        *domain.EAVModel          `json:"eavModel,omitempty"`
}

// absorb folds a finished step into the input the next step will see.
func (in *Input) absorb(res *services.StepResult) {
	if res == nil {
		return
	}
	if res.KeywordData != nil {
		in.KeywordData = res.KeywordData
	}
	if res.KnowledgeDomain != nil {
		in.KnowledgeDomain = res.KnowledgeDomain
	}
	if res.ContextVector != nil {
		in.ContextVector = res.ContextVector
	}
	if res.EAVModel != nil {
		in.EAVModel = res.EAVModel
	}
}

// merge collects what each step produced into the workflow result.
func merge(dst *services.StepResult, src *services.StepResult) {
	if src == nil {
		return
	}
	if src.KeywordData != nil {
		dst.KeywordData = src.KeywordData
	}
	if src.KnowledgeDomain != nil {
		dst.KnowledgeDomain = src.KnowledgeDomain
	}
	if src.ContextVector != nil {
		dst.ContextVector = src.ContextVector
	}
	if src.EAVModel != nil {
		dst.EAVModel = src.EAVModel
	}
	if src.TopicalMap != nil {
		dst.TopicalMap = src.TopicalMap
	}
	for k, v := range src.Fingerprints {
		if dst.Fingerprints == nil {
			dst.Fingerprints = map[string]string{}
		}
		dst.Fingerprints[k] = v
	}
}

// StepError is a failed step as it crosses the workflow boundary.
type StepError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *StepError) Error() string { return e.Message }

type Output struct {
	Result *services.StepResult `json:"result,omitempty"`
	Error  *StepError           `json:"error,omitempty"`
}
