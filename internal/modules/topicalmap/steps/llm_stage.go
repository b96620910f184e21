package steps

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/prompts"
	"github.com/Berguit/topical-map-app/internal/platform/openrouter"
)

const (
	standardMaxTokens = 4096
	largeMaxTokens    = 8192
)

// completeStage builds the stage prompt, calls the model and decodes its
// reply into a loose JSON object. Errors are reported on the progress stream.
func completeStage(ctx context.Context, deps Deps, in Input, stage Stage, name prompts.PromptName, maxTokens int) (map[string]any, prompts.Prompt, error) {
	ctx, span := tracer.Start(ctx, "topicalmap."+string(stage))
	defer span.End()
	span.SetAttributes(
		attribute.String("project.id", in.Project.ID.String()),
		attribute.Int("llm.max_tokens", maxTokens),
	)

	log := deps.log().With("stage", string(stage), "project_id", in.Project.ID.String())

	p, err := prompts.Build(name, in.promptInput())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt build failed")
		return nil, prompts.Prompt{}, in.Progress.fail(stage, fmt.Errorf("%s: %w", stage, err))
	}
	span.SetAttributes(attribute.String("prompt.fingerprint", p.Fingerprint()))

	start := time.Now()
	text, err := deps.Completer.CompleteSimple(ctx, p.User, p.System, openrouter.Options{MaxTokens: maxTokens})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		log.Warn("completion failed", "error", err, "latency_ms", time.Since(start).Milliseconds())
		return nil, p, in.Progress.fail(stage, fmt.Errorf("%s: %w", stage, err))
	}

	var raw map[string]any
	if err := openrouter.ParseJSONResponse(text, &raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		log.Warn("model reply is not JSON", "error", err)
		return nil, p, in.Progress.fail(stage, fmt.Errorf("%s: %w", stage, err))
	}
	log.Debug("stage completion decoded", "latency_ms", time.Since(start).Milliseconds(), "keys", len(raw))
	return raw, p, nil
}
