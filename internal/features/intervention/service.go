package intervention

import (
	"context"
	"errors"

	"agir-planning/internal/apperrors"
	common_models "agir-planning/internal/common/models"
	"agir-planning/internal/features/taxonomy"

	"go.mongodb.org/mongo-driver/mongo"
)

type InterventionService interface {
	Create(ctx context.Context, itv *Intervention, userID string) error
	Get(ctx context.Context, id string) (*Intervention, error)
	Search(ctx context.Context, criteria Criteria, limit, offset int64) (*common_models.Paginated[Intervention], error)
	Update(ctx context.Context, itv *Intervention, userID string) error
	Delete(ctx context.Context, id string) error
}

type InterventionServiceImpl struct {
	Repo            InterventionRepository
	TaxonomyService taxonomy.TaxonomyService
}

func NewInterventionService(repo InterventionRepository, taxonomyService taxonomy.TaxonomyService) InterventionService {
	return &InterventionServiceImpl{
		Repo:            repo,
		TaxonomyService: taxonomyService,
	}
}

func (s *InterventionServiceImpl) validate(ctx context.Context, itv *Intervention) error {
	if itv.InterventionName == "" {
		return apperrors.New(apperrors.InvalidParameter, "interventionName is required")
	}
	if itv.StartYear == 0 || itv.EndYear == 0 || itv.EndYear < itv.StartYear {
		return apperrors.New(apperrors.InvalidParameter, "invalid intervention year span")
	}
	if itv.ExecutorID != "" {
		ok, err := s.TaxonomyService.IsValidCode(ctx, taxonomy.GroupExecutor, itv.ExecutorID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.New(apperrors.InvalidParameter, "unknown executor code %s", itv.ExecutorID)
		}
	}
	return nil
}

func (s *InterventionServiceImpl) Create(ctx context.Context, itv *Intervention, userID string) error {
	if err := s.validate(ctx, itv); err != nil {
		return err
	}
	if itv.Status == "" {
		itv.Status = StatusWished
	}
	itv.Audit = common_models.NewAudit(userID)
	if err := s.Repo.Save(ctx, itv); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to save intervention")
	}
	return nil
}

func (s *InterventionServiceImpl) Get(ctx context.Context, id string) (*Intervention, error) {
	itv, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.NotFound, "intervention %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to load intervention")
	}
	return itv, nil
}

func (s *InterventionServiceImpl) Search(ctx context.Context, criteria Criteria, limit, offset int64) (*common_models.Paginated[Intervention], error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.Repo.FindAll(ctx, criteria, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to search interventions")
	}
	return &common_models.Paginated[Intervention]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *InterventionServiceImpl) Update(ctx context.Context, itv *Intervention, userID string) error {
	if itv.ID.IsZero() {
		return apperrors.New(apperrors.InvalidParameter, "intervention id is required")
	}
	if err := s.validate(ctx, itv); err != nil {
		return err
	}
	itv.Audit.Touch(userID)
	if err := s.Repo.Save(ctx, itv); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to update intervention")
	}
	return nil
}

func (s *InterventionServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to delete intervention")
	}
	return nil
}
