package submission

import (
	"context"
	"errors"

	"agir-planning/internal/apperrors"
	common_models "agir-planning/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type SubmissionService interface {
	Create(ctx context.Context, sub *Submission, userID string) error
	Get(ctx context.Context, id string) (*Submission, error)
	ListByProgramBook(ctx context.Context, programBookID string) ([]Submission, error)
	Update(ctx context.Context, sub *Submission, userID string) error
	// WithdrawProject removes a deleted project from the submission that
	// carries it, invalidating the submission if it becomes empty. Used by
	// the import cascade; a missing submission is not an error.
	WithdrawProject(ctx context.Context, projectID, userID string) error
}

type SubmissionServiceImpl struct {
	Repo SubmissionRepository
}

func NewSubmissionService(repo SubmissionRepository) SubmissionService {
	return &SubmissionServiceImpl{Repo: repo}
}

func (s *SubmissionServiceImpl) Create(ctx context.Context, sub *Submission, userID string) error {
	if sub.SubmissionNumber == "" || sub.ProgramBookID == "" {
		return apperrors.New(apperrors.InvalidParameter, "submissionNumber and programBookId are required")
	}
	if existing, err := s.Repo.FindByNumber(ctx, sub.SubmissionNumber); err == nil && existing != nil {
		return apperrors.New(apperrors.AlreadyExists, "submission %s already exists", sub.SubmissionNumber)
	}
	if sub.Status == "" {
		sub.Status = StatusValid
	}
	if sub.ProgressStatus == "" {
		sub.ProgressStatus = ProgressPreliminaryDraft
	}
	sub.Audit = common_models.NewAudit(userID)
	if err := s.Repo.Save(ctx, sub); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to save submission")
	}
	return nil
}

func (s *SubmissionServiceImpl) Get(ctx context.Context, id string) (*Submission, error) {
	sub, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.NotFound, "submission %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to load submission")
	}
	return sub, nil
}

func (s *SubmissionServiceImpl) ListByProgramBook(ctx context.Context, programBookID string) ([]Submission, error) {
	items, err := s.Repo.FindByProgramBook(ctx, programBookID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to list submissions")
	}
	return items, nil
}

func (s *SubmissionServiceImpl) Update(ctx context.Context, sub *Submission, userID string) error {
	if sub.ID.IsZero() {
		return apperrors.New(apperrors.InvalidParameter, "submission id is required")
	}
	sub.Audit.Touch(userID)
	if err := s.Repo.Save(ctx, sub); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to update submission")
	}
	return nil
}

func (s *SubmissionServiceImpl) WithdrawProject(ctx context.Context, projectID, userID string) error {
	sub, err := s.Repo.FindByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to find submission of project %s", projectID)
	}
	if !sub.RemoveProject(projectID) {
		return nil
	}
	if len(sub.ProjectIds) == 0 {
		sub.Status = StatusInvalid
	}
	sub.Audit.Touch(userID)
	if err := s.Repo.Save(ctx, sub); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to update submission %s", sub.SubmissionNumber)
	}
	return nil
}
