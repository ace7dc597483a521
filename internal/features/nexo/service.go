package nexo

import (
	"context"
	"errors"
	"time"

	"agir-planning/internal/apperrors"
	common_models "agir-planning/internal/common/models"
	"agir-planning/internal/config"
	"agir-planning/internal/features/audit"
	"agir-planning/internal/features/document"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UploadedFile is one spreadsheet handed to InitImport.
type UploadedFile struct {
	Name        string
	ContentType string
	Type        FileType
	Data        []byte
}

type NexoService interface {
	// InitImport stores the blob and attaches it to the pending log,
	// creating the log on the first upload.
	InitImport(ctx context.Context, file UploadedFile, userID string) (*NexoImportLog, error)
	// StartImport flips the log to IN_PROGRESS and dispatches processing.
	// The returned handle's Done channel closes at terminal state.
	StartImport(ctx context.Context, logID, userID string) (*ImportRun, error)
	GetImport(ctx context.Context, logID string) (*NexoImportLog, error)
	SearchImports(ctx context.Context, criteria LogCriteria, limit, offset int64) (*common_models.Paginated[NexoImportLog], error)
	GetImportFile(ctx context.Context, logID, fileID string) (*document.DownloadedObject, error)
	// StartWatchdog schedules the stale-import sweep. Returns the cron
	// handle so the caller owns its lifecycle.
	StartWatchdog() *cron.Cron
}

type NexoServiceImpl struct {
	Logs     ImportLogRepository
	Storage  document.StorageService
	Importer *Importer
	Audits   audit.AuditService
	Config   *config.Config
	Logger   *zap.Logger
}

func NewNexoService(repo ImportLogRepository, storage document.StorageService, importer *Importer, audits audit.AuditService, cfg *config.Config, logger *zap.Logger) NexoService {
	return &NexoServiceImpl{
		Logs:     repo,
		Storage:  storage,
		Importer: importer,
		Audits:   audits,
		Config:   cfg,
		Logger:   logger,
	}
}

func (s *NexoServiceImpl) InitImport(ctx context.Context, file UploadedFile, userID string) (*NexoImportLog, error) {
	if !ValidFileType(file.Type) {
		return nil, apperrors.New(apperrors.InvalidParameter, "unsupported file type %q", file.Type)
	}
	if len(file.Data) == 0 {
		return nil, apperrors.New(apperrors.InvalidParameter, "file is empty")
	}

	running, err := s.Logs.FindOneRunning(ctx, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "import log lookup failed")
	}
	if running != nil && running.Status == ImportStatusInProgress {
		return nil, apperrors.New(apperrors.AlreadyExists, "an import is already running")
	}

	stored, err := s.Storage.Create(ctx, file.Name, file.ContentType, file.Data, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "file storage failed")
	}

	importFile := NexoImportFile{
		ID:          uuid.NewString(),
		Type:        file.Type,
		Name:        file.Name,
		ContentType: file.ContentType,
		StorageID:   stored.ID.Hex(),
		Status:      ImportStatusPending,
	}

	log := running
	if log == nil {
		log = &NexoImportLog{
			Status: ImportStatusPending,
			Audit:  common_models.NewAudit(userID),
		}
	} else {
		log.Audit.Touch(userID)
	}
	log.Files = append(log.Files, importFile)

	if err := s.Logs.Save(ctx, log); err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "import log save failed")
	}

	s.Audits.LogChange(ctx, audit.AuditActionImportInit, "nexoImportLog", log.ID.Hex(), userID, nil)
	return log, nil
}

// findLog resolves a log id, separating a malformed id and a missing
// document from infrastructure faults.
func (s *NexoServiceImpl) findLog(ctx context.Context, logID string) (*NexoImportLog, error) {
	if !primitive.IsValidObjectID(logID) {
		return nil, apperrors.New(apperrors.InvalidParameter, "invalid import log id %s", logID)
	}
	log, err := s.Logs.FindByID(ctx, logID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Wrap(apperrors.NotFound, err, "import log %s not found", logID)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "import log lookup failed")
	}
	return log, nil
}

func (s *NexoServiceImpl) StartImport(ctx context.Context, logID, userID string) (*ImportRun, error) {
	log, err := s.findLog(ctx, logID)
	if err != nil {
		return nil, err
	}

	other, err := s.Logs.FindOneRunning(ctx, logID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "import log lookup failed")
	}
	if other != nil && other.Status == ImportStatusInProgress {
		return nil, apperrors.New(apperrors.AlreadyExists, "import %s is already running", other.ID.Hex())
	}
	if log.Status.IsTerminal() {
		return nil, apperrors.New(apperrors.Unprocessable, "import %s already completed with status %s", logID, log.Status)
	}
	if log.Status == ImportStatusInProgress {
		return nil, apperrors.New(apperrors.AlreadyExists, "import %s is already running", logID)
	}

	// The status flip happens before the caller gets its acknowledgement,
	// so a concurrent start sees IN_PROGRESS.
	log.Status = ImportStatusInProgress
	log.Audit.Touch(userID)
	if err := s.Logs.Save(ctx, log); err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "import log save failed")
	}

	s.Audits.LogChange(ctx, audit.AuditActionImportStart, "nexoImportLog", log.ID.Hex(), userID, nil)

	run := s.Importer.Dispatch(log, userID)
	go func() {
		<-run.Done()
		s.Audits.LogChange(context.Background(), audit.AuditActionImportEnd, "nexoImportLog", log.ID.Hex(), userID, nil)
	}()
	return run, nil
}

func (s *NexoServiceImpl) GetImport(ctx context.Context, logID string) (*NexoImportLog, error) {
	return s.findLog(ctx, logID)
}

func (s *NexoServiceImpl) SearchImports(ctx context.Context, criteria LogCriteria, limit, offset int64) (*common_models.Paginated[NexoImportLog], error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.Logs.FindAll(ctx, criteria, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "import log search failed")
	}
	return &common_models.Paginated[NexoImportLog]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *NexoServiceImpl) GetImportFile(ctx context.Context, logID, fileID string) (*document.DownloadedObject, error) {
	log, err := s.findLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	file := log.FileByID(fileID)
	if file == nil {
		return nil, apperrors.New(apperrors.NotFound, "file %s not found in import log %s", fileID, logID)
	}
	blob, err := s.Storage.Get(ctx, file.StorageID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "file download failed")
	}
	return blob, nil
}

// StartWatchdog sweeps for imports stuck IN_PROGRESS past the configured
// age (a crashed process never finalizes its log) and fails them so the
// single-running-import guard cannot deadlock.
func (s *NexoServiceImpl) StartWatchdog() *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cutoff := time.Now().Add(-time.Duration(s.Config.ImportStaleAfterMin) * time.Minute)
		stale, err := s.Logs.FindStale(ctx, cutoff)
		if err != nil {
			s.Logger.Warn("stale import sweep failed", zap.Error(err))
			return
		}
		for i := range stale {
			log := &stale[i]
			log.Status = ImportStatusFailure
			log.Audit.Touch("system")
			if err := s.Logs.Save(ctx, log); err != nil {
				s.Logger.Warn("stale import finalize failed", zap.String("logId", log.ID.Hex()), zap.Error(err))
				continue
			}
			s.Logger.Warn("stale import marked as failed", zap.String("logId", log.ID.Hex()))
		}
	})
	c.Start()
	return c
}
