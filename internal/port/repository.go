package port

import (
	"context"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

type RunRepository interface {
	// Save 插入记录并回填顺序构建号 Number。
	Save(ctx context.Context, run *domain.PipelineRun) error
	FindByID(ctx context.Context, id string) (*domain.PipelineRun, error)
	FindByProject(ctx context.Context, projectName string) ([]*domain.PipelineRun, error)
	FindAll(ctx context.Context) ([]*domain.PipelineRun, error)
	Update(ctx context.Context, run *domain.PipelineRun) error
}

type ProjectRepository interface {
	Save(ctx context.Context, project *domain.Project) error
	FindByName(ctx context.Context, name string) (*domain.Project, error)
	FindAll(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, name string) error
}
