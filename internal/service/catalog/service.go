// Package catalog serves the read-only reference tables and resolves the
// 3-level ethnic self-identification cascade.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

type Service struct {
	repo  repository.CatalogRepository
	cache *gocache.Cache
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) Ethnicity(ctx context.Context, id int64) (*model.Ethnicity, error) {
	key := fmt.Sprintf("ethnicity:%d", id)
	if v, ok := s.cache.Get(key); ok {
		return v.(*model.Ethnicity), nil
	}
	e, err := s.repo.Ethnicity(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, e)
	return e, nil
}

func (s *Service) Ethnicities(ctx context.Context) ([]*model.Ethnicity, error) {
	if v, ok := s.cache.Get("ethnicities"); ok {
		return v.([]*model.Ethnicity), nil
	}
	list, err := s.repo.Ethnicities(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("ethnicities", list)
	return list, nil
}

// NationalitiesFor returns the level-2 entries valid under the given
// level-1 selection. Ethnicities that do not require sub-classification
// have no valid children.
func (s *Service) NationalitiesFor(ctx context.Context, ethnicityID int64) ([]*model.EthnicNationality, error) {
	ethnicity, err := s.Ethnicity(ctx, ethnicityID)
	if err != nil {
		return nil, err
	}
	if !ethnicity.RequiresDetail {
		return nil, nil
	}
	key := fmt.Sprintf("nationalities:%d", ethnicityID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]*model.EthnicNationality), nil
	}
	list, err := s.repo.NationalitiesForEthnicity(ctx, ethnicityID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, list)
	return list, nil
}

// GroupsFor returns the level-3 entries valid under the given level-2
// selection.
func (s *Service) GroupsFor(ctx context.Context, nationalityID int64) ([]*model.EthnicGroup, error) {
	key := fmt.Sprintf("groups:%d", nationalityID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]*model.EthnicGroup), nil
	}
	list, err := s.repo.GroupsForNationality(ctx, nationalityID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, list)
	return list, nil
}

func (s *Service) ArrivalMode(ctx context.Context, id int64) (*model.ArrivalMode, error) {
	key := fmt.Sprintf("arrival_mode:%d", id)
	if v, ok := s.cache.Get(key); ok {
		return v.(*model.ArrivalMode), nil
	}
	m, err := s.repo.ArrivalMode(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, m)
	return m, nil
}

func (s *Service) ArrivalModes(ctx context.Context) ([]*model.ArrivalMode, error) {
	if v, ok := s.cache.Get("arrival_modes"); ok {
		return v.([]*model.ArrivalMode), nil
	}
	list, err := s.repo.ArrivalModes(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("arrival_modes", list)
	return list, nil
}

func (s *Service) ArrivalConditions(ctx context.Context) ([]*model.ArrivalCondition, error) {
	if v, ok := s.cache.Get("arrival_conditions"); ok {
		return v.([]*model.ArrivalCondition), nil
	}
	list, err := s.repo.ArrivalConditions(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("arrival_conditions", list)
	return list, nil
}

// NormalizeSelection enforces the cascade on a stored or submitted
// classification triple: a child whose parent does not match the current
// selection is reset to empty rather than kept. Ethnicities without
// sub-classification short-circuit levels 2 and 3 to empty.
func (s *Service) NormalizeSelection(ctx context.Context, sel model.EthnicSelection) (model.EthnicSelection, error) {
	if sel.EthnicityID == nil {
		return model.EthnicSelection{}, nil
	}
	ethnicity, err := s.Ethnicity(ctx, *sel.EthnicityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.EthnicSelection{}, nil
		}
		return sel, err
	}
	out := model.EthnicSelection{EthnicityID: sel.EthnicityID}
	if !ethnicity.RequiresDetail {
		return out, nil
	}

	if sel.NationalityID == nil {
		return out, nil
	}
	nationality, err := s.Nationality(ctx, *sel.NationalityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, nil
		}
		return sel, err
	}
	if nationality.EthnicityID != ethnicity.ID {
		return out, nil
	}
	out.NationalityID = sel.NationalityID

	if sel.GroupID == nil {
		return out, nil
	}
	group, err := s.Group(ctx, *sel.GroupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, nil
		}
		return sel, err
	}
	if group.NationalityID != nationality.ID {
		return out, nil
	}
	out.GroupID = sel.GroupID
	return out, nil
}

func (s *Service) Nationality(ctx context.Context, id int64) (*model.EthnicNationality, error) {
	key := fmt.Sprintf("nationality:%d", id)
	if v, ok := s.cache.Get(key); ok {
		return v.(*model.EthnicNationality), nil
	}
	n, err := s.repo.Nationality(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, n)
	return n, nil
}

func (s *Service) Group(ctx context.Context, id int64) (*model.EthnicGroup, error) {
	key := fmt.Sprintf("group:%d", id)
	if v, ok := s.cache.Get(key); ok {
		return v.(*model.EthnicGroup), nil
	}
	g, err := s.repo.Group(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, g)
	return g, nil
}
