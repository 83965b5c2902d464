package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"freshmind/internal/domain"

	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "profile:"

// ProfileRepository persists the session's profile as JSON in a key-value
// store. An absent profile is a defined state, not an error: Load returns
// (nil, nil).
type ProfileRepository interface {
	Save(ctx context.Context, sessionID string, profile *domain.UserProfile) error
	Load(ctx context.Context, sessionID string) (*domain.UserProfile, error)
	Clear(ctx context.Context, sessionID string) error
}

type profileRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileRepository creates a Redis-backed ProfileRepository. A zero TTL
// keeps profiles until explicitly cleared.
func NewProfileRepository(client *redis.Client, ttl time.Duration) ProfileRepository {
	return &profileRepository{client: client, ttl: ttl}
}

// Save overwrites the session's profile. The profile is persisted immediately;
// there is exactly one per session.
func (r *profileRepository) Save(ctx context.Context, sessionID string, profile *domain.UserProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := r.client.Set(ctx, profileKeyPrefix+sessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// Load returns the session's profile, or nil when none has been saved.
func (r *profileRepository) Load(ctx context.Context, sessionID string) (*domain.UserProfile, error) {
	payload, err := r.client.Get(ctx, profileKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	return &profile, nil
}

// Clear removes the session's profile. Clearing an absent profile is a no-op.
func (r *profileRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, profileKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
