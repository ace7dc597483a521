package taxonomy

import (
	"context"
	"sync"

	"agir-planning/internal/apperrors"
)

type TaxonomyService interface {
	GetGroup(ctx context.Context, group string) ([]Taxonomy, error)
	IsValidCode(ctx context.Context, group, code string) (bool, error)
	Upsert(ctx context.Context, tax *Taxonomy) error
	Delete(ctx context.Context, id string) error
	// Reset drops the in-memory cache. Called after taxonomy edits so the
	// next lookup reloads from the database.
	Reset()
}

// TaxonomyServiceImpl caches groups lazily. The cache belongs to the
// service instance, not the process, so tests can build isolated copies.
type TaxonomyServiceImpl struct {
	Repo TaxonomyRepository

	mu    sync.RWMutex
	cache map[string][]Taxonomy
}

func NewTaxonomyService(repo TaxonomyRepository) TaxonomyService {
	return &TaxonomyServiceImpl{
		Repo:  repo,
		cache: make(map[string][]Taxonomy),
	}
}

func (s *TaxonomyServiceImpl) GetGroup(ctx context.Context, group string) ([]Taxonomy, error) {
	s.mu.RLock()
	if items, ok := s.cache[group]; ok {
		s.mu.RUnlock()
		return items, nil
	}
	s.mu.RUnlock()

	items, err := s.Repo.FindByGroup(ctx, group)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unexpected, err, "failed to load taxonomy group %s", group)
	}

	s.mu.Lock()
	s.cache[group] = items
	s.mu.Unlock()

	return items, nil
}

func (s *TaxonomyServiceImpl) IsValidCode(ctx context.Context, group, code string) (bool, error) {
	items, err := s.GetGroup(ctx, group)
	if err != nil {
		return false, err
	}
	for _, t := range items {
		if t.Code == code && t.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (s *TaxonomyServiceImpl) Upsert(ctx context.Context, tax *Taxonomy) error {
	if tax.Group == "" || tax.Code == "" {
		return apperrors.New(apperrors.InvalidParameter, "taxonomy group and code are required")
	}
	if err := s.Repo.Save(ctx, tax); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to save taxonomy")
	}
	s.Reset()
	return nil
}

func (s *TaxonomyServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.Unexpected, err, "failed to delete taxonomy")
	}
	s.Reset()
	return nil
}

func (s *TaxonomyServiceImpl) Reset() {
	s.mu.Lock()
	s.cache = make(map[string][]Taxonomy)
	s.mu.Unlock()
}
