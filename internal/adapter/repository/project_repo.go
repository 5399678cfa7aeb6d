package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
	"gorm.io/gorm"
)

var _ port.ProjectRepository = (*ProjectRepo)(nil)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Save(ctx context.Context, project *domain.Project) error {
	err := r.db.WithContext(ctx).Create(projectToModel(project)).Error
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("project %q %w", project.Name, domain.ErrAlreadyExists)
	}
	return err
}

func (r *ProjectRepo) FindByName(ctx context.Context, name string) (*domain.Project, error) {
	var m ProjectModel
	result := r.db.WithContext(ctx).First(&m, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, result.Error
	}
	return modelToProject(&m), nil
}

func (r *ProjectRepo) FindAll(ctx context.Context) ([]*domain.Project, error) {
	var models []ProjectModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	projects := make([]*domain.Project, 0, len(models))
	for i := range models {
		projects = append(projects, modelToProject(&models[i]))
	}
	return projects, nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(projectToModel(project)).Error
}

func (r *ProjectRepo) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Delete(&ProjectModel{}, "name = ?", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func projectToModel(p *domain.Project) *ProjectModel {
	return &ProjectModel{
		Name:          p.Name,
		SourceURL:     p.SourceURL,
		DeploymentID:  p.DeploymentID,
		ResourceGroup: p.ResourceGroup,
		StaticIP:      p.StaticIP,
		LastCommit:    p.LastCommit,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func modelToProject(m *ProjectModel) *domain.Project {
	return &domain.Project{
		Name:          m.Name,
		SourceURL:     m.SourceURL,
		DeploymentID:  m.DeploymentID,
		ResourceGroup: m.ResourceGroup,
		StaticIP:      m.StaticIP,
		LastCommit:    m.LastCommit,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
