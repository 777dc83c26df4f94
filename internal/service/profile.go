package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService handles profile updates and candidate search.
type ProfileService struct {
	profiles ProfileStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Update overwrites the caller's own profile. LookingFor and IsActive keep
// their stored values when the request omits them.
func (s *ProfileService) Update(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.Profile, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if err := validateStruct(req); err != nil {
		return model.Profile{}, err
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}

	p.Name = req.Name
	p.Age = req.Age
	p.Gender = req.Gender
	p.Location = req.Location
	if req.About.Set {
		p.About = req.About.Value
	}
	if req.LookingFor != nil {
		p.LookingFor = *req.LookingFor
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = now()

	if err := s.profiles.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}

	return *p, nil
}

// Search returns at most model.SearchLimit active profiles matching every
// supplied filter, most recently updated first.
func (s *ProfileService) Search(ctx context.Context, f model.SearchFilter) ([]model.SearchResult, error) {
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return []model.SearchResult{}, nil
	}

	results, err := s.profiles.Search(ctx, f, model.SearchLimit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.SearchResult{}
	}
	return results, nil
}
