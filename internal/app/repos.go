package app

import (
	"gorm.io/gorm"

	"github.com/Berguit/topical-map-app/internal/data/repos"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

type Repos struct {
	Project       repos.ProjectRepo
	GenerationRun repos.GenerationRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Project:       repos.NewProjectRepo(db, log),
		GenerationRun: repos.NewGenerationRunRepo(db, log),
	}
}
