package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
)

// Step is what a caller asks the generator to run.
type Step string

const (
	StepFullWithHaloscan Step = "full-with-haloscan"
	StepFull             Step = "full"
	StepHaloscan         Step = "haloscan"
	StepKnowledgeDomain  Step = "knowledge-domain"
	StepContextVector    Step = "context-vector"
	StepEAVModel         Step = "eav-model"
	StepTopicalMap       Step = "topical-map"
)

// ParseStep accepts the step names the API exposes. An empty value means a
// full run.
func ParseStep(s string) (Step, error) {
	switch st := Step(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StepFullWithHaloscan, nil
	case StepFullWithHaloscan, StepFull, StepHaloscan, StepKnowledgeDomain,
		StepContextVector, StepEAVModel, StepTopicalMap:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// IsFull reports whether the step runs every stage.
func (s Step) IsFull() bool {
	return s == StepFull || s == StepFullWithHaloscan
}

// StepResult holds what one step produced. Only the documents the step
// generated are set; KeywordData is set whenever it was fetched or supplied.
type StepResult struct {
	KeywordData     *domain.KeywordDataBundle `json:"haloscanData,omitempty"`
	KnowledgeDomain *domain.KnowledgeDomain   `json:"knowledgeDomain,omitempty"`
	ContextVector   *domain.ContextVector     `json:"contextVector,omitempty"`
	EAVModel        *domain.EAVModel          `json:"eavModel,omitempty"`
	TopicalMap      *domain.TopicalMap        `json:"topicalMap,omitempty"`
	Fingerprints    map[string]string         `json:"fingerprints,omitempty"`
}

func (r *StepResult) setFingerprint(stage steps.Stage, fp string) {
	if fp == "" {
		return
	}
	if r.Fingerprints == nil {
		r.Fingerprints = map[string]string{}
	}
	r.Fingerprints[string(stage)] = fp
}

// PipelineRunner executes one step against the given input. The local
// runner calls the stages in process; the temporal runner hands the step to
// a workflow.
type PipelineRunner interface {
	RunStep(ctx context.Context, step Step, in steps.Input) (*StepResult, error)
}

type LocalRunner struct {
	deps steps.Deps
}

func NewLocalRunner(deps steps.Deps) *LocalRunner {
	return &LocalRunner{deps: deps}
}

func (r *LocalRunner) RunStep(ctx context.Context, step Step, in steps.Input) (*StepResult, error) {
	return RunStep(ctx, r.deps, step, in)
}

// RunStep is shared by the local runner and the workflow activities.
// Individual stages check their preconditions before any keyword data is
// fetched, and fetch only when none was supplied.
func RunStep(ctx context.Context, deps steps.Deps, step Step, in steps.Input) (*StepResult, error) {
	res := &StepResult{}

	if step.IsFull() {
		out, err := steps.RunFullPipeline(ctx, deps, in)
		res.KeywordData = out.KeywordData
		res.KnowledgeDomain = out.KnowledgeDomain
		res.ContextVector = out.ContextVector
		res.EAVModel = out.EAVModel
		res.TopicalMap = out.TopicalMap
		for stage, fp := range out.Fingerprints {
			res.setFingerprint(stage, fp)
		}
		return res, err
	}

	stage, ok := stageForStep(step)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	if err := steps.CheckPreconditions(stage, in); err != nil {
		return nil, err
	}

	kw, err := steps.FetchKeywordData(ctx, deps, in)
	if err != nil {
		return nil, err
	}
	in.KeywordData = kw.KeywordData
	res.KeywordData = kw.KeywordData

	switch step {
	case StepHaloscan:
		return res, nil
	case StepKnowledgeDomain:
		out, err := steps.GenerateKnowledgeDomain(ctx, deps, in)
		if err != nil {
			return nil, err
		}
		res.KnowledgeDomain = out.KnowledgeDomain
		res.setFingerprint(stage, out.Fingerprint)
	case StepContextVector:
		out, err := steps.GenerateContextVector(ctx, deps, in)
		if err != nil {
			return nil, err
		}
		res.ContextVector = out.ContextVector
		res.setFingerprint(stage, out.Fingerprint)
	case StepEAVModel:
		out, err := steps.GenerateEAVModel(ctx, deps, in)
		if err != nil {
			return nil, err
		}
		res.EAVModel = out.EAVModel
		res.setFingerprint(stage, out.Fingerprint)
	case StepTopicalMap:
		out, err := steps.GenerateTopicalMap(ctx, deps, in)
		if err != nil {
			return nil, err
		}
		res.TopicalMap = out.TopicalMap
		res.setFingerprint(stage, out.Fingerprint)
	}
	return res, nil
}

func stageForStep(step Step) (steps.Stage, bool) {
	switch step {
	case StepHaloscan:
		return steps.StageHaloscan, true
	case StepKnowledgeDomain:
		return steps.StageKnowledgeDomain, true
	case StepContextVector:
		return steps.StageContextVector, true
	case StepEAVModel:
		return steps.StageEAVModel, true
	case StepTopicalMap:
		return steps.StageTopicalMap, true
	}
	return "", false
}

// Response shapes the result the way each step reports it to API callers.
func (r *StepResult) Response(step Step) map[string]any {
	switch step {
	case StepHaloscan:
		return map[string]any{"haloscanData": r.KeywordData}
	case StepKnowledgeDomain:
		return map[string]any{"knowledgeDomain": r.KnowledgeDomain, "haloscanData": r.KeywordData}
	case StepContextVector:
		return map[string]any{"contextVector": r.ContextVector}
	case StepEAVModel:
		return map[string]any{"eavModel": r.EAVModel}
	case StepTopicalMap:
		return map[string]any{"topicalMap": r.TopicalMap}
	}
	return map[string]any{
		"haloscanData":    r.KeywordData,
		"knowledgeDomain": r.KnowledgeDomain,
		"contextVector":   r.ContextVector,
		"eavModel":        r.EAVModel,
		"topicalMap":      r.TopicalMap,
	}
}
