package programbook

import (
	"context"
	"errors"

	"agir-planning/internal/apperrors"
	common_models "agir-planning/internal/common/models"
	"agir-planning/internal/features/project"

	"go.mongodb.org/mongo-driver/mongo"
)

type ProgramBookService interface {
	Create(ctx context.Context, pb *ProgramBook, userID string) error
	Get(ctx context.Context, id string) (*ProgramBook, error)
	ListByAnnualProgram(ctx context.Context, annualProgramID string) ([]ProgramBook, error)
	GetProjects(ctx context.Context, bookID string, limit, offset int64) (*common_models.Paginated[project.Project], error)
	Update(ctx context.Context, pb *ProgramBook, userID string) error
	Delete(ctx context.Context, id string) error
}

type ProgramBookServiceImpl struct {
	Repo        ProgramBookRepository
	ProjectRepo project.ProjectRepository
}

func NewProgramBookService(repo ProgramBookRepository, projectRepo project.ProjectRepository) ProgramBookService {
	return &ProgramBookServiceImpl{Repo: repo, ProjectRepo: projectRepo}
}

func (s *ProgramBookServiceImpl) Create(ctx context.Context, pb *ProgramBook, userID string) error {
	if pb.Name == "" || pb.AnnualProgramID == "" {
		return apperrors.New(apperrors.InvalidParameter, "program book name and annualProgramId are required")
	}
	if pb.Status == "" {
		pb.Status = StatusNew
	}
	pb.Audit = common_models.NewAudit(userID)
	if err := s.Repo.Save(ctx, pb); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to save program book")
	}
	return nil
}

func (s *ProgramBookServiceImpl) Get(ctx context.Context, id string) (*ProgramBook, error) {
	pb, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.NotFound, "program book %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to load program book")
	}
	return pb, nil
}

func (s *ProgramBookServiceImpl) ListByAnnualProgram(ctx context.Context, annualProgramID string) ([]ProgramBook, error) {
	items, err := s.Repo.FindByAnnualProgram(ctx, annualProgramID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to list program books")
	}
	return items, nil
}

func (s *ProgramBookServiceImpl) GetProjects(ctx context.Context, bookID string, limit, offset int64) (*common_models.Paginated[project.Project], error) {
	if _, err := s.Get(ctx, bookID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.ProjectRepo.FindAll(ctx, project.Criteria{ProgramBookID: bookID}, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to list program book projects")
	}
	return &common_models.Paginated[project.Project]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ProgramBookServiceImpl) Update(ctx context.Context, pb *ProgramBook, userID string) error {
	if pb.ID.IsZero() {
		return apperrors.New(apperrors.InvalidParameter, "program book id is required")
	}
	pb.Audit.Touch(userID)
	if err := s.Repo.Save(ctx, pb); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to update program book")
	}
	return nil
}

func (s *ProgramBookServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to delete program book")
	}
	return nil
}
