// Package service holds the business rules for profiles, posts and post
// interactions.
package service

import (
	"context"
	"strings"

	"easyshop/internal/models"
	"easyshop/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
}

type CreateProfileInput struct {
	ExternalID string
	Name       string
	Email      string
	AvatarRef  string
	Role       models.Role
}

// UpdateProfileInput carries optional changes; a nil field is left unchanged.
type UpdateProfileInput struct {
	ExternalID string
	Name       *string
	Bio        *string
	AvatarRef  *string
}

func NewProfileService(profileRepo repository.ProfileRepository, postRepo repository.PostRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
	}
}

// CreateProfile registers a new profile. Both the external id and the email
// must be unused.
func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	profile, err := models.NewProfile(in.ExternalID, in.Name, in.Email, in.AvatarRef, in.Role)
	if err != nil {
		return nil, err
	}

	if err := ensureAbsent(s.profileRepo.GetByExternalID(ctx, profile.ExternalID)); err != nil {
		return nil, err
	}
	if err := ensureAbsent(s.profileRepo.GetByEmail(ctx, profile.Email)); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func ensureAbsent(existing *models.Profile, err error) error {
	switch {
	case err == nil && existing != nil:
		return models.NewAlreadyExistsError("User already exists")
	case err != nil && !models.IsNotFound(err):
		return err
	}
	return nil
}

func (s *ProfileService) GetProfile(ctx context.Context, externalID string) (*models.Profile, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, models.NewFieldValidationError("externalId", "externalId is required")
	}
	return s.profileRepo.GetByExternalID(ctx, externalID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	var name string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewFieldValidationError("name", "name cannot be empty")
		}
	}

	profile, err := s.GetProfile(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		profile.Name = name
	}
	if in.Bio != nil {
		profile.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.AvatarRef != nil {
		profile.AvatarRef = *in.AvatarRef
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileStats returns the profile together with its follower, following
// and post counts.
func (s *ProfileService) GetProfileStats(ctx context.Context, externalID string) (*models.Profile, models.ProfileStats, error) {
	profile, err := s.GetProfile(ctx, externalID)
	if err != nil {
		return nil, models.ProfileStats{}, err
	}

	posts, err := s.postRepo.CountByOwner(ctx, profile.ExternalID)
	if err != nil {
		return nil, models.ProfileStats{}, err
	}
	return profile, profile.Stats(posts), nil
}
