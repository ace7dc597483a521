package annualprogram

import (
	"context"
	"errors"
	"time"

	"agir-planning/internal/apperrors"
	common_models "agir-planning/internal/common/models"
	"agir-planning/internal/features/taxonomy"

	"go.mongodb.org/mongo-driver/mongo"
)

type AnnualProgramService interface {
	Create(ctx context.Context, ap *AnnualProgram, userID string) error
	Get(ctx context.Context, id string) (*AnnualProgram, error)
	List(ctx context.Context, executorID string, year int, limit, offset int64) (*common_models.Paginated[AnnualProgram], error)
	Update(ctx context.Context, ap *AnnualProgram, userID string) error
	Delete(ctx context.Context, id string) error
}

type AnnualProgramServiceImpl struct {
	Repo            AnnualProgramRepository
	TaxonomyService taxonomy.TaxonomyService
}

func NewAnnualProgramService(repo AnnualProgramRepository, taxonomyService taxonomy.TaxonomyService) AnnualProgramService {
	return &AnnualProgramServiceImpl{Repo: repo, TaxonomyService: taxonomyService}
}

func (s *AnnualProgramServiceImpl) Create(ctx context.Context, ap *AnnualProgram, userID string) error {
	if ap.Year < 2000 || ap.Year > time.Now().Year()+10 {
		return apperrors.New(apperrors.InvalidParameter, "invalid annual program year %d", ap.Year)
	}
	ok, err := s.TaxonomyService.IsValidCode(ctx, taxonomy.GroupExecutor, ap.ExecutorID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.New(apperrors.InvalidParameter, "unknown executor code %s", ap.ExecutorID)
	}
	if ap.Status == "" {
		ap.Status = StatusNew
	}
	ap.Audit = common_models.NewAudit(userID)
	if err := s.Repo.Save(ctx, ap); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to save annual program")
	}
	return nil
}

func (s *AnnualProgramServiceImpl) Get(ctx context.Context, id string) (*AnnualProgram, error) {
	ap, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.NotFound, "annual program %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to load annual program")
	}
	return ap, nil
}

func (s *AnnualProgramServiceImpl) List(ctx context.Context, executorID string, year int, limit, offset int64) (*common_models.Paginated[AnnualProgram], error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.Repo.FindAll(ctx, executorID, year, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to list annual programs")
	}
	return &common_models.Paginated[AnnualProgram]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *AnnualProgramServiceImpl) Update(ctx context.Context, ap *AnnualProgram, userID string) error {
	if ap.ID.IsZero() {
		return apperrors.New(apperrors.InvalidParameter, "annual program id is required")
	}
	ap.Audit.Touch(userID)
	if err := s.Repo.Save(ctx, ap); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to update annual program")
	}
	return nil
}

func (s *AnnualProgramServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to delete annual program")
	}
	return nil
}
