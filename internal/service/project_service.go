package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
)

// ProjectService 管理轮询注册表。webhook 触发不经过这里。
type ProjectService struct {
	projectRepo port.ProjectRepository
}

func NewProjectService(projectRepo port.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

type RegisterProjectRequest struct {
	Name          string `json:"name"`
	SourceURL     string `json:"source_url"`
	DeploymentID  string `json:"deployment_id,omitempty"`
	ResourceGroup string `json:"resource_group,omitempty"`
	StaticIP      string `json:"static_ip,omitempty"`
}

func (s *ProjectService) Register(ctx context.Context, req RegisterProjectRequest) (*domain.Project, error) {
	if err := domain.ValidateSourceURL(req.SourceURL); err != nil {
		return nil, err
	}
	name := req.Name
	if name == "" {
		name = domain.ProjectNameFromURL(req.SourceURL)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name missing and not derivable from source_url", domain.ErrInvalidInput)
	}
	if err := domain.ValidateK8sName(name); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &domain.Project{
		Name:          name,
		SourceURL:     req.SourceURL,
		DeploymentID:  req.DeploymentID,
		ResourceGroup: req.ResourceGroup,
		StaticIP:      req.StaticIP,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, name string) (*domain.Project, error) {
	return s.projectRepo.FindByName(ctx, name)
}

func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projectRepo.FindAll(ctx)
}

func (s *ProjectService) Delete(ctx context.Context, name string) error {
	return s.projectRepo.Delete(ctx, name)
}
