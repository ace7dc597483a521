package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type AuditService interface {
	LogChange(ctx context.Context, action AuditAction, entity, recordID, actorID string, changes map[string]Change)
	GetHistory(ctx context.Context, entity, recordID string, limit int64) ([]AuditLog, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{Repo: repo, Logger: logger}
}

// LogChange is best-effort: a failed audit write must never fail the
// triggering command.
func (s *AuditServiceImpl) LogChange(ctx context.Context, action AuditAction, entity, recordID, actorID string, changes map[string]Change) {
	entry := &AuditLog{
		Action:    action,
		Entity:    entity,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: time.Now(),
	}
	if err := s.Repo.Insert(ctx, entry); err != nil {
		s.Logger.Warn("failed to write audit log",
			zap.String("entity", entity),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
}

func (s *AuditServiceImpl) GetHistory(ctx context.Context, entity, recordID string, limit int64) ([]AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Repo.FindByRecord(ctx, entity, recordID, limit)
}
