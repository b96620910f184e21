package app

import (
	"fmt"

	"github.com/Berguit/topical-map-app/internal/config"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/keyworddata"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/realtime"
	"github.com/Berguit/topical-map-app/internal/realtime/bus"
	"github.com/Berguit/topical-map-app/internal/services"
	"github.com/Berguit/topical-map-app/internal/temporalx/generation"
	"github.com/Berguit/topical-map-app/internal/temporalx/temporalworker"
)

type Services struct {
	Keywords   services.KeywordService
	Project    services.ProjectService
	Generation services.GenerationService

	Notifier       services.GenerationNotifier
	PipelineDeps   steps.Deps
	Runner         services.PipelineRunner
	TemporalWorker *temporalworker.Runner

	SSEBus bus.Bus
}

func wireServices(cfg *config.Config, log *logger.Logger, repos Repos, clients Clients, sseHub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	aggDeps := keyworddata.Deps{Log: log, Client: clients.Haloscan}
	if clients.Redis != nil {
		aggDeps.Cache = keyworddata.NewRedisCache(clients.Redis, cfg.Redis.CacheTTL.Duration)
	}
	aggregator, err := keyworddata.New(aggDeps, keyworddata.Options{
		FailFast:            cfg.Pipeline.FailFast,
		Granularity:         cfg.Pipeline.Granularity,
		NeighboursSampleMax: cfg.Pipeline.NeighboursSampleMax,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init keyword aggregator: %w", err)
	}

	pipelineDeps := steps.Deps{
		Log:       log,
		Completer: clients.OpenRouter,
		Keywords:  aggregator,
		StrictIDs: cfg.Pipeline.StrictIDs,
	}

	// Progress reaches the hub through the bus so that events produced on a
	// worker or another instance still reach this instance's clients.
	var sseBus bus.Bus
	if clients.Redis != nil {
		b, err := bus.NewRedisBus(clients.Redis, cfg.Redis.Channel, log)
		if err != nil {
			return Services{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	} else {
		sseBus = bus.NewLocalBus()
	}
	notifier := services.NewGenerationNotifier(&services.BusEmitter{Bus: sseBus})

	graphSync := services.NewGraphSync(clients.Neo4j, log)
	locks := services.NewProjectLocks(clients.Redis, cfg.Redis.LockTTL.Duration, log)

	var (
		runner services.PipelineRunner
		worker *temporalworker.Runner
	)
	if clients.Temporal != nil {
		runner = generation.NewTemporalRunner(clients.Temporal, cfg.Temporal.TaskQueue, log)
		worker, err = temporalworker.NewRunner(log, cfg.Temporal, clients.Temporal, pipelineDeps, notifier)
		if err != nil {
			return Services{}, fmt.Errorf("init temporal worker: %w", err)
		}
	} else {
		runner = services.NewLocalRunner(pipelineDeps)
	}

	projectService := services.NewProjectService(log, repos.Project, repos.GenerationRun, graphSync, notifier)
	generationService := services.NewGenerationService(log, repos.Project, repos.GenerationRun, runner, locks, graphSync, notifier)
	keywordService := services.NewKeywordService(log, aggregator)

	return Services{
		Keywords:       keywordService,
		Project:        projectService,
		Generation:     generationService,
		Notifier:       notifier,
		PipelineDeps:   pipelineDeps,
		Runner:         runner,
		TemporalWorker: worker,
		SSEBus:         sseBus,
	}, nil
}
