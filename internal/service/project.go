package service

import (
	"context"
	"errors"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo"
	"marketplace-api/internal/repo/repo_errors"
)

type ProjectService struct {
	projectRepo repo.Project
}

func NewProjectService(repos *repo.Repositories) *ProjectService {
	return &ProjectService{projectRepo: repos.Project}
}

func (s *ProjectService) CreateProject(ctx context.Context, actor entity.Actor, input *entity.CreateProjectInput) (*entity.ProjectOutputModel, error) {
	if actor.Role != entity.RoleClient {
		return nil, ErrInvalidRole
	}

	if input.BudgetMin < 0 || input.BudgetMax < input.BudgetMin {
		return nil, ErrInvalidAmount
	}

	input.ClientId = actor.UserId.String()
	id, err := s.projectRepo.CreateProject(ctx, input)
	if err != nil {
		return nil, err
	}

	created, err := s.projectRepo.GetProjectById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapProject(created), nil
}

func (s *ProjectService) GetProjectById(ctx context.Context, projectId string) (*entity.ProjectOutputModel, error) {
	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	return mapProject(project), nil
}

func (s *ProjectService) PostProject(ctx context.Context, actor entity.Actor, projectId string) (*entity.ProjectOutputModel, error) {
	return s.move(ctx, actor, projectId, entity.ProjectPosted)
}

func (s *ProjectService) CancelProject(ctx context.Context, actor entity.Actor, projectId string) (*entity.ProjectOutputModel, error) {
	return s.move(ctx, actor, projectId, entity.ProjectCancelled)
}

func (s *ProjectService) CompleteProject(ctx context.Context, actor entity.Actor, projectId string) (*entity.ProjectOutputModel, error) {
	return s.move(ctx, actor, projectId, entity.ProjectCompleted)
}

func (s *ProjectService) move(ctx context.Context, actor entity.Actor, projectId string, to entity.ProjectStatus) (*entity.ProjectOutputModel, error) {
	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if project.ClientId != actor.UserId && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToProject
	}

	if !entity.CanTransitionProject(project.Status, to) {
		return nil, ErrProjectTransition
	}

	if err := s.projectRepo.UpdateProjectStatus(ctx, projectId, to); err != nil {
		return nil, err
	}

	updated, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		return nil, err
	}

	return mapProject(updated), nil
}

func (s *ProjectService) GetClientProjects(ctx context.Context, actor entity.Actor, pg *entity.PaginationInput) ([]entity.ProjectOutputModel, error) {
	projects, err := s.projectRepo.GetClientProjects(ctx, actor.UserId.String(), pg)
	if err != nil {
		return nil, err
	}

	return mapProjects(projects), nil
}

func (s *ProjectService) GetOpenProjects(ctx context.Context, pg *entity.PaginationInput) ([]entity.ProjectOutputModel, error) {
	projects, err := s.projectRepo.GetOpenProjects(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapProjects(projects), nil
}
