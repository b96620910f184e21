package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/Berguit/topical-map-app/internal/domain"
)

type KeywordDataOutput struct {
	KeywordData *domain.KeywordDataBundle
}

// FetchKeywordData grounds the pipeline on provider data for the project's
// main topic. Supplied data in the input is passed through untouched.
func FetchKeywordData(ctx context.Context, deps Deps, in Input) (KeywordDataOutput, error) {
	out := KeywordDataOutput{}
	if in.KeywordData != nil {
		in.Progress.emit(StageHaloscan, StatusCompleted, keywordSummary(in.KeywordData), in.KeywordData)
		out.KeywordData = in.KeywordData
		return out, nil
	}
	if strings.TrimSpace(in.Project.MainTopic) == "" {
		return out, &PreconditionError{Stage: StageHaloscan, Missing: []string{"mainTopic"}}
	}
	if deps.Keywords == nil {
		return out, fmt.Errorf("%s: missing keyword source", StageHaloscan)
	}

	in.Progress.emit(StageHaloscan, StatusInProgress, "Fetching Haloscan data...", nil)
	ctx, span := tracer.Start(ctx, "topicalmap."+string(StageHaloscan))
	defer span.End()

	bundle, err := deps.Keywords.Fetch(ctx, in.Project.MainTopic)
	if err != nil {
		span.RecordError(err)
		return out, in.Progress.fail(StageHaloscan, fmt.Errorf("%s: %w", StageHaloscan, err))
	}
	in.Progress.emit(StageHaloscan, StatusCompleted, keywordSummary(bundle), bundle)
	out.KeywordData = bundle
	return out, nil
}

func keywordSummary(b *domain.KeywordDataBundle) string {
	n := len(b.SimilarKeywords) + len(b.MatchingKeywords) + len(b.RelatedKeywords)
	return fmt.Sprintf("Haloscan: %d keywords, %d questions, %d clusters", n, len(b.Questions), len(b.Clusters))
}

type PipelineResult struct {
	KeywordData     *domain.KeywordDataBundle
	KnowledgeDomain *domain.KnowledgeDomain
	ContextVector   *domain.ContextVector
	EAVModel        *domain.EAVModel
	TopicalMap      *domain.TopicalMap
	// Fingerprints are keyed by stage.
	Fingerprints map[Stage]string
}

// RunFullPipeline runs keyword grounding and the four generation stages in
// order. It stops at the first failing stage and returns what was produced
// up to that point alongside the error.
func RunFullPipeline(ctx context.Context, deps Deps, in Input) (PipelineResult, error) {
	res := PipelineResult{Fingerprints: map[Stage]string{}}
	log := deps.log().With("service", "TopicalMapPipeline", "project_id", in.Project.ID.String())

	for _, s := range Stages {
		in.Progress.emit(s, StatusPending, "", nil)
	}

	kw, err := FetchKeywordData(ctx, deps, in)
	if err != nil {
		return res, err
	}
	in.KeywordData = kw.KeywordData
	res.KeywordData = kw.KeywordData

	kd, err := GenerateKnowledgeDomain(ctx, deps, in)
	if err != nil {
		return res, err
	}
	in.KnowledgeDomain = kd.KnowledgeDomain
	res.KnowledgeDomain = kd.KnowledgeDomain
	res.Fingerprints[StageKnowledgeDomain] = kd.Fingerprint

	cv, err := GenerateContextVector(ctx, deps, in)
	if err != nil {
		return res, err
	}
	in.ContextVector = cv.ContextVector
	res.ContextVector = cv.ContextVector
	res.Fingerprints[StageContextVector] = cv.Fingerprint

	eav, err := GenerateEAVModel(ctx, deps, in)
	if err != nil {
		return res, err
	}
	in.EAVModel = eav.EAVModel
	res.EAVModel = eav.EAVModel
	res.Fingerprints[StageEAVModel] = eav.Fingerprint

	tm, err := GenerateTopicalMap(ctx, deps, in)
	if err != nil {
		return res, err
	}
	res.TopicalMap = tm.TopicalMap
	res.Fingerprints[StageTopicalMap] = tm.Fingerprint

	log.Info("pipeline completed",
		"entities", len(res.EAVModel.Entities),
		"nodes", len(res.TopicalMap.Nodes),
		"edges", len(res.TopicalMap.Edges),
	)
	return res, nil
}
