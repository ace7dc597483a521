package project

import (
	"context"
	"errors"

	"agir-planning/internal/apperrors"
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectService interface {
	Create(ctx context.Context, prj *Project, userID string) error
	Get(ctx context.Context, id string) (*Project, error)
	Search(ctx context.Context, criteria Criteria, limit, offset int64) (*common_models.Paginated[Project], error)
	Update(ctx context.Context, prj *Project, userID string) error
	Delete(ctx context.Context, id string) error
}

type ProjectServiceImpl struct {
	Repo ProjectRepository
}

func NewProjectService(repo ProjectRepository) ProjectService {
	return &ProjectServiceImpl{Repo: repo}
}

func (s *ProjectServiceImpl) Create(ctx context.Context, prj *Project, userID string) error {
	if prj.ProjectName == "" {
		return apperrors.New(apperrors.InvalidParameter, "projectName is required")
	}
	if prj.StartYear == 0 || prj.EndYear < prj.StartYear {
		return apperrors.New(apperrors.InvalidParameter, "invalid project year span")
	}
	if prj.Status == "" {
		prj.Status = StatusPlanned
	}
	prj.Audit = common_models.NewAudit(userID)
	if err := s.Repo.Save(ctx, prj); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to save project")
	}
	return nil
}

func (s *ProjectServiceImpl) Get(ctx context.Context, id string) (*Project, error) {
	prj, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.NotFound, "project %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to load project")
	}
	return prj, nil
}

func (s *ProjectServiceImpl) Search(ctx context.Context, criteria Criteria, limit, offset int64) (*common_models.Paginated[Project], error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.Repo.FindAll(ctx, criteria, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to search projects")
	}
	return &common_models.Paginated[Project]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ProjectServiceImpl) Update(ctx context.Context, prj *Project, userID string) error {
	if prj.ID.IsZero() {
		return apperrors.New(apperrors.InvalidParameter, "project id is required")
	}
	prj.Audit.Touch(userID)
	if err := s.Repo.Save(ctx, prj); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to update project")
	}
	return nil
}

func (s *ProjectServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to delete project")
	}
	return nil
}
