package repository

import (
	"context"
	"errors"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
	"gorm.io/gorm"
)

var _ port.RunRepository = (*RunRepo)(nil)

type RunRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Save 插入记录并把数据库分配的自增构建号写回 run.Number。
func (r *RunRepo) Save(ctx context.Context, run *domain.PipelineRun) error {
	m := runToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	run.Number = m.Number
	return nil
}

func (r *RunRepo) FindByID(ctx context.Context, id string) (*domain.PipelineRun, error) {
	var m RunModel
	result := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRunNotFound
		}
		return nil, result.Error
	}
	return modelToRun(&m), nil
}

func (r *RunRepo) FindByProject(ctx context.Context, projectName string) ([]*domain.PipelineRun, error) {
	var models []RunModel
	if err := r.db.WithContext(ctx).Where("project_name = ?", projectName).Order("number desc").Find(&models).Error; err != nil {
		return nil, err
	}
	return modelsToRuns(models), nil
}

func (r *RunRepo) FindAll(ctx context.Context) ([]*domain.PipelineRun, error) {
	var models []RunModel
	if err := r.db.WithContext(ctx).Order("number desc").Limit(200).Find(&models).Error; err != nil {
		return nil, err
	}
	return modelsToRuns(models), nil
}

func (r *RunRepo) Update(ctx context.Context, run *domain.PipelineRun) error {
	return r.db.WithContext(ctx).Save(runToModel(run)).Error
}

func modelsToRuns(models []RunModel) []*domain.PipelineRun {
	runs := make([]*domain.PipelineRun, 0, len(models))
	for i := range models {
		runs = append(runs, modelToRun(&models[i]))
	}
	return runs
}

func runToModel(run *domain.PipelineRun) *RunModel {
	return &RunModel{
		Number:       run.Number,
		ID:           run.ID,
		ProjectName:  run.ProjectName,
		SourceURL:    run.SourceURL,
		DeploymentID: run.DeploymentID,
		Branch:       run.Branch,
		Commit:       run.Commit,
		Author:       run.Author,
		ProjectType:  string(run.ProjectType),
		Port:         run.Port,
		Image:        run.Image,
		Status:       string(run.Status),
		Stage:        run.Stage,
		ExternalURL:  run.ExternalURL,
		Manifest:     run.Manifest,
		Diagnostics:  run.Diagnostics,
		Error:        run.Error,
		CreatedAt:    run.CreatedAt,
		UpdatedAt:    run.UpdatedAt,
	}
}

func modelToRun(m *RunModel) *domain.PipelineRun {
	return &domain.PipelineRun{
		Number:       m.Number,
		ID:           m.ID,
		ProjectName:  m.ProjectName,
		SourceURL:    m.SourceURL,
		DeploymentID: m.DeploymentID,
		Branch:       m.Branch,
		Commit:       m.Commit,
		Author:       m.Author,
		ProjectType:  domain.ProjectType(m.ProjectType),
		Port:         m.Port,
		Image:        m.Image,
		Status:       domain.RunStatus(m.Status),
		Stage:        m.Stage,
		ExternalURL:  m.ExternalURL,
		Manifest:     m.Manifest,
		Diagnostics:  m.Diagnostics,
		Error:        m.Error,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
