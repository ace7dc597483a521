package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agir-planning/internal/apperrors"
	"agir-planning/internal/config"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// StorageService is the blob capability consumed by the import pipeline:
// store a named blob, read it back by object id.
type StorageService interface {
	Create(ctx context.Context, name, mimeType string, data []byte, uploadedBy string) (*StoredObject, error)
	Get(ctx context.Context, objectID string) (*DownloadedObject, error)
	Delete(ctx context.Context, objectID string) error
}

type StorageServiceImpl struct {
	Repo      DocumentRepository
	UploadDir string
}

func NewStorageService(repo DocumentRepository, cfg *config.Config) StorageService {
	if _, err := os.Stat(cfg.FSPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.FSPath, 0755)
	}
	return &StorageServiceImpl{
		Repo:      repo,
		UploadDir: cfg.FSPath,
	}
}

func (s *StorageServiceImpl) Create(ctx context.Context, name, mimeType string, data []byte, uploadedBy string) (*StoredObject, error) {
	originalName := filepath.Base(name)
	uniqueName := fmt.Sprintf("%s_%s", uuid.NewString(), strings.ReplaceAll(originalName, " ", "_"))
	dstPath := filepath.Join(s.UploadDir, uniqueName)

	if err := os.WriteFile(dstPath, data, 0644); err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to write blob to disk")
	}

	obj := &StoredObject{
		OriginalName: originalName,
		Path:         dstPath,
		Size:         int64(len(data)),
		MimeType:     mimeType,
		UploadedBy:   uploadedBy,
		CreatedAt:    time.Now(),
	}
	if err := s.Repo.Save(ctx, obj); err != nil {
		os.Remove(dstPath)
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to save blob metadata")
	}
	return obj, nil
}

func (s *StorageServiceImpl) Get(ctx context.Context, objectID string) (*DownloadedObject, error) {
	obj, err := s.Repo.Get(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.New(apperrors.NotFound, "object %s not found", objectID)
		}
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to load blob metadata")
	}

	data, err := os.ReadFile(obj.Path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to read blob %s", objectID)
	}
	return &DownloadedObject{Metadata: *obj, Data: data}, nil
}

func (s *StorageServiceImpl) Delete(ctx context.Context, objectID string) error {
	obj, err := s.Repo.Get(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.New(apperrors.NotFound, "object %s not found", objectID)
		}
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to load blob metadata")
	}

	if err := os.Remove(obj.Path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to delete blob from disk")
	}
	return s.Repo.Delete(ctx, objectID)
}
