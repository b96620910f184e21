package services

import (
	"errors"
	"net/http"

	"github.com/Berguit/topical-map-app/internal/data/repos"
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/keyworddata"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/platform/apierr"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
	"github.com/Berguit/topical-map-app/internal/platform/openrouter"
)

var (
	ErrGenerationInProgress = errors.New("a generation is already running for this project")
	ErrUnknownStep          = errors.New("unknown step")
	ErrUnknownAction        = errors.New("unknown action")
	ErrMissingKeyword       = errors.New("keyword is required")
)

// MapError turns pipeline, provider and repository errors into an
// *apierr.Error carrying the status the HTTP layer should answer with.
// Errors that already carry a status are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}

	var (
		pre    *steps.PreconditionError
		val    *steps.ValidationError
		parse  *openrouter.ParseError
		comp   *openrouter.CompletionError
		prov   *haloscan.ProviderError
		orCfg  *openrouter.ConfigurationError
		halCfg *haloscan.ConfigurationError
	)
	switch {
	case errors.As(err, &pre):
		return apierr.BadRequest("precondition_failed", err)
	case errors.As(err, &val), errors.As(err, &parse):
		return apierr.New(http.StatusBadGateway, "invalid_model_output", err)
	case errors.As(err, &comp):
		return apierr.New(upstreamStatus(comp.StatusCode), "completion_failed", err)
	case errors.As(err, &prov):
		return apierr.New(upstreamStatus(prov.StatusCode), "keyword_provider_failed", err)
	case errors.As(err, &orCfg), errors.As(err, &halCfg):
		return apierr.New(http.StatusInternalServerError, "configuration_error", err)
	case errors.Is(err, repos.ErrProjectNotFound):
		return apierr.NotFound("project_not_found", err)
	case errors.Is(err, domain.ErrNodeNotFound):
		return apierr.NotFound("node_not_found", err)
	case errors.Is(err, domain.ErrEdgeNotFound):
		return apierr.NotFound("edge_not_found", err)
	case errors.Is(err, domain.ErrNoTopicalMap):
		return apierr.NotFound("topical_map_not_found", err)
	case errors.Is(err, domain.ErrInvalidNode):
		return apierr.BadRequest("invalid_node", err)
	case errors.Is(err, domain.ErrInvalidEdge), errors.Is(err, domain.ErrEdgeEndpoint):
		return apierr.BadRequest("invalid_edge", err)
	case errors.Is(err, domain.ErrDuplicateID):
		return apierr.Conflict("duplicate_id", err)
	case errors.Is(err, ErrGenerationInProgress):
		return apierr.Conflict("generation_in_progress", err)
	case errors.Is(err, ErrUnknownStep):
		return apierr.BadRequest("invalid_step", err)
	case errors.Is(err, ErrUnknownAction):
		return apierr.BadRequest("invalid_action", err)
	case errors.Is(err, ErrMissingKeyword), errors.Is(err, keyworddata.ErrEmptySeed):
		return apierr.BadRequest("missing_keyword", err)
	}
	return err
}

// upstreamStatus passes rate limiting through and reports everything else
// as a bad gateway.
func upstreamStatus(code int) int {
	if code == http.StatusTooManyRequests {
		return code
	}
	return http.StatusBadGateway
}

func invalid(code string, err error) error {
	return apierr.BadRequest(code, err)
}
