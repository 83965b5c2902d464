package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freshmind/internal/domain"
	"freshmind/internal/repository"
)

var (
	ErrInvalidBirthDate = errors.New("invalid birth date")
)

// ProfileService manages the per-session profile. Saving derives the age
// group from the birth date; the stored ageGroup is never taken from the
// caller. ResolveUserID maps a profile back to a demo account so its
// purchase history can feed the ranking.
type ProfileService interface {
	Save(ctx context.Context, sessionID string, profile *domain.UserProfile) (*domain.UserProfile, error)
	Load(ctx context.Context, sessionID string) (*domain.UserProfile, error)
	Clear(ctx context.Context, sessionID string) error
	ResolveUserID(ctx context.Context, profile *domain.UserProfile) (int, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	now      func() time.Time
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository) ProfileService {
	return &profileService{
		profiles: profiles,
		users:    users,
		now:      time.Now,
	}
}

// Save validates the birth date, derives the age group, and overwrites the
// session's profile. Returns the profile as stored.
func (s *profileService) Save(ctx context.Context, sessionID string, profile *domain.UserProfile) (*domain.UserProfile, error) {
	ageGroup, err := domain.AgeGroupFromBirthDate(profile.BirthDate, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBirthDate, profile.BirthDate)
	}

	stored := &domain.UserProfile{
		Name:      profile.Name,
		BirthDate: profile.BirthDate,
		Gender:    profile.Gender,
		AgeGroup:  ageGroup,
	}

	if err := s.profiles.Save(ctx, sessionID, stored); err != nil {
		return nil, err
	}

	return stored, nil
}

// Load returns the session's profile, or nil when none has been saved.
func (s *profileService) Load(ctx context.Context, sessionID string) (*domain.UserProfile, error) {
	return s.profiles.Load(ctx, sessionID)
}

// Clear removes the session's profile.
func (s *profileService) Clear(ctx context.Context, sessionID string) error {
	return s.profiles.Clear(ctx, sessionID)
}

// ResolveUserID returns the demo account whose name, birth date, and gender
// match the profile exactly, or 0 when the profile matches no account. A nil
// profile resolves to 0.
func (s *profileService) ResolveUserID(ctx context.Context, profile *domain.UserProfile) (int, error) {
	if profile == nil {
		return 0, nil
	}

	user, err := s.users.FindByProfile(ctx, profile.Name, profile.BirthDate, profile.Gender)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return user.ID, nil
}
