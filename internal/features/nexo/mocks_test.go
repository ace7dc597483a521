package nexo

import (
	"context"
	"fmt"
	"time"

	"agir-planning/internal/features/audit"
	"agir-planning/internal/features/document"
	"agir-planning/internal/features/intervention"
	"agir-planning/internal/features/project"
	"agir-planning/internal/features/submission"
	"agir-planning/internal/features/taxonomy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory fakes backing the reconciliation tests. They keep the same
// matching semantics as the Mongo repositories but store everything in
// maps.

type fakeInterventionRepo struct {
	items map[string]*intervention.Intervention
}

func newFakeInterventionRepo() *fakeInterventionRepo {
	return &fakeInterventionRepo{items: map[string]*intervention.Intervention{}}
}

func (r *fakeInterventionRepo) Save(ctx context.Context, itv *intervention.Intervention) error {
	if itv.ID.IsZero() {
		itv.ID = primitive.NewObjectID()
	}
	copied := *itv
	r.items[itv.ID.Hex()] = &copied
	return nil
}

func (r *fakeInterventionRepo) SaveBulk(ctx context.Context, itvs []*intervention.Intervention) error {
	for _, itv := range itvs {
		if err := r.Save(ctx, itv); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeInterventionRepo) FindByID(ctx context.Context, id string) (*intervention.Intervention, error) {
	itv, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("intervention %s not found", id)
	}
	copied := *itv
	return &copied, nil
}

func (r *fakeInterventionRepo) FindAll(ctx context.Context, criteria intervention.Criteria, limit, offset int64) ([]intervention.Intervention, int64, error) {
	var items []intervention.Intervention
	for _, itv := range r.items {
		items = append(items, *itv)
	}
	return items, int64(len(items)), nil
}

func (r *fakeInterventionRepo) FindByExternalReference(ctx context.Context, refType, value string) ([]intervention.Intervention, error) {
	var items []intervention.Intervention
	for _, itv := range r.items {
		for _, ref := range itv.ExternalReferenceIds {
			if ref.Type == refType && ref.Value == value {
				items = append(items, *itv)
				break
			}
		}
	}
	return items, nil
}

func (r *fakeInterventionRepo) FindByAssetExternalReference(ctx context.Context, refType, value string) ([]intervention.Intervention, error) {
	var items []intervention.Intervention
	for _, itv := range r.items {
		for _, asset := range itv.Assets {
			for _, ref := range asset.ExternalReferenceIds {
				if ref.Type == refType && ref.Value == value {
					items = append(items, *itv)
				}
			}
		}
	}
	return items, nil
}

func (r *fakeInterventionRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type fakeProjectRepo struct {
	items map[string]*project.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{items: map[string]*project.Project{}}
}

func (r *fakeProjectRepo) Save(ctx context.Context, prj *project.Project) error {
	if prj.ID.IsZero() {
		prj.ID = primitive.NewObjectID()
	}
	copied := *prj
	r.items[prj.ID.Hex()] = &copied
	return nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id string) (*project.Project, error) {
	prj, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("project %s not found", id)
	}
	copied := *prj
	return &copied, nil
}

func (r *fakeProjectRepo) FindAll(ctx context.Context, criteria project.Criteria, limit, offset int64) ([]project.Project, int64, error) {
	var items []project.Project
	for _, prj := range r.items {
		items = append(items, *prj)
	}
	return items, int64(len(items)), nil
}

func (r *fakeProjectRepo) FindByIntervention(ctx context.Context, interventionID string) (*project.Project, error) {
	for _, prj := range r.items {
		for _, id := range prj.InterventionIds {
			if id == interventionID {
				copied := *prj
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type fakeSubmissionService struct {
	withdrawn []string
}

func (s *fakeSubmissionService) Create(ctx context.Context, sub *submission.Submission, userID string) error {
	return nil
}

func (s *fakeSubmissionService) Get(ctx context.Context, id string) (*submission.Submission, error) {
	return nil, fmt.Errorf("submission %s not found", id)
}

func (s *fakeSubmissionService) ListByProgramBook(ctx context.Context, programBookID string) ([]submission.Submission, error) {
	return nil, nil
}

func (s *fakeSubmissionService) Update(ctx context.Context, sub *submission.Submission, userID string) error {
	return nil
}

func (s *fakeSubmissionService) WithdrawProject(ctx context.Context, projectID, userID string) error {
	s.withdrawn = append(s.withdrawn, projectID)
	return nil
}

type fakeTaxonomyService struct {
	invalid map[string]bool // "group/code" entries rejected by IsValidCode
}

func (s *fakeTaxonomyService) GetGroup(ctx context.Context, group string) ([]taxonomy.Taxonomy, error) {
	return nil, nil
}

func (s *fakeTaxonomyService) IsValidCode(ctx context.Context, group, code string) (bool, error) {
	return !s.invalid[group+"/"+code], nil
}

func (s *fakeTaxonomyService) Upsert(ctx context.Context, tax *taxonomy.Taxonomy) error { return nil }

func (s *fakeTaxonomyService) Delete(ctx context.Context, id string) error { return nil }

func (s *fakeTaxonomyService) Reset() {}

type fakeAuditService struct {
	actions []audit.AuditAction
}

func (s *fakeAuditService) LogChange(ctx context.Context, action audit.AuditAction, entity, recordID, actorID string, changes map[string]audit.Change) {
	s.actions = append(s.actions, action)
}

func (s *fakeAuditService) GetHistory(ctx context.Context, entity, recordID string, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

type fakeLogRepo struct {
	items   map[string]*NexoImportLog
	findErr error
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{items: map[string]*NexoImportLog{}}
}

func (r *fakeLogRepo) Save(ctx context.Context, log *NexoImportLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	copied := *log
	copied.Files = append([]NexoImportFile(nil), log.Files...)
	r.items[log.ID.Hex()] = &copied
	return nil
}

func (r *fakeLogRepo) FindByID(ctx context.Context, id string) (*NexoImportLog, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	log, ok := r.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *log
	copied.Files = append([]NexoImportFile(nil), log.Files...)
	return &copied, nil
}

func (r *fakeLogRepo) FindAll(ctx context.Context, criteria LogCriteria, limit, offset int64) ([]NexoImportLog, int64, error) {
	var items []NexoImportLog
	for _, log := range r.items {
		if criteria.Status != "" && log.Status != criteria.Status {
			continue
		}
		items = append(items, *log)
	}
	return items, int64(len(items)), nil
}

func (r *fakeLogRepo) FindOneRunning(ctx context.Context, excludeID string) (*NexoImportLog, error) {
	for id, log := range r.items {
		if id == excludeID {
			continue
		}
		if log.Status == ImportStatusPending || log.Status == ImportStatusInProgress {
			copied := *log
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLogRepo) FindStale(ctx context.Context, updatedBefore time.Time) ([]NexoImportLog, error) {
	var items []NexoImportLog
	for _, log := range r.items {
		if log.Status == ImportStatusInProgress && log.Audit.UpdatedAt != nil && log.Audit.UpdatedAt.Before(updatedBefore) {
			items = append(items, *log)
		}
	}
	return items, nil
}

type fakeStorage struct {
	blobs map[string][]byte
	names map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: map[string][]byte{}, names: map[string]string{}}
}

func (s *fakeStorage) Create(ctx context.Context, name, mimeType string, data []byte, uploadedBy string) (*document.StoredObject, error) {
	obj := &document.StoredObject{ID: primitive.NewObjectID(), OriginalName: name, MimeType: mimeType, Size: int64(len(data))}
	s.blobs[obj.ID.Hex()] = data
	s.names[obj.ID.Hex()] = name
	return obj, nil
}

func (s *fakeStorage) Get(ctx context.Context, objectID string) (*document.DownloadedObject, error) {
	data, ok := s.blobs[objectID]
	if !ok {
		return nil, fmt.Errorf("object %s not found", objectID)
	}
	return &document.DownloadedObject{
		Metadata: document.StoredObject{OriginalName: s.names[objectID]},
		Data:     data,
	}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, objectID string) error {
	delete(s.blobs, objectID)
	return nil
}
