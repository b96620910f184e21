package repos

import (
	"gorm.io/gorm"

	"github.com/Berguit/topical-map-app/internal/data/repos/jobs"
	"github.com/Berguit/topical-map-app/internal/data/repos/project"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

type ProjectRepo = project.ProjectRepo
type GenerationRunRepo = jobs.GenerationRunRepo

type Stages = project.Stages
type RunResult = jobs.RunResult

var ErrProjectNotFound = project.ErrNotFound

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return project.NewProjectRepo(db, baseLog)
}

func NewGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRunRepo {
	return jobs.NewGenerationRunRepo(db, baseLog)
}
