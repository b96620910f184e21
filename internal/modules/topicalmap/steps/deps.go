package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/prompts"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/platform/openrouter"
)

var tracer = otel.Tracer("github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps")

// Completer is the chat-completion entry point the stages call.
type Completer interface {
	CompleteSimple(ctx context.Context, prompt, systemPrompt string, opts openrouter.Options) (string, error)
}

// KeywordSource produces the provider grounding for a seed topic.
type KeywordSource interface {
	Fetch(ctx context.Context, seed string) (*domain.KeywordDataBundle, error)
}

type Deps struct {
	Log       *logger.Logger
	Completer Completer
	Keywords  KeywordSource
	// NewID defaults to uuid.New.
	NewID func() uuid.UUID
	// StrictIDs rejects topical maps whose node titles collide or whose
	// edges reference unknown nodes instead of keeping the raw reference.
	StrictIDs bool
}

func (d Deps) log() *logger.Logger {
	if d.Log == nil {
		return logger.Nop()
	}
	return d.Log
}

func (d Deps) newID() uuid.UUID {
	if d.NewID == nil {
		return uuid.New()
	}
	return d.NewID()
}

// Input is shared by every stage. Stages read the prior-stage fields they
// depend on and ignore the rest.
type Input struct {
	Project         domain.Project
	KeywordData     *domain.KeywordDataBundle
	KnowledgeDomain *domain.KnowledgeDomain
	ContextVector   *domain.ContextVector
	EAVModel        *domain.EAVModel
	Progress        *ProgressStream
}

func (in Input) promptInput() prompts.Input {
	return prompts.Input{
		Project:         in.Project,
		KeywordData:     in.KeywordData,
		KnowledgeDomain: in.KnowledgeDomain,
		ContextVector:   in.ContextVector,
		EAVModel:        in.EAVModel,
	}
}

func requireCompleter(stage Stage, d Deps) error {
	if d.Completer == nil {
		return fmt.Errorf("%s: missing completer", stage)
	}
	return nil
}
