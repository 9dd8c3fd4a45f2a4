package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	identityKeyPrefix = "identity:"
	searchKeyPrefix   = "tracking:recent:"

	maxRecentSearches = 5
	opTimeout         = 3 * time.Second
)

// SessionRepository keeps per-session state that must outlive a single
// request: who the shopper is and their recent tracking lookups.
type SessionRepository interface {
	SaveIdentity(sessionID string, identity *model.Identity, ttl time.Duration) error
	GetIdentity(sessionID string) (*model.Identity, error)
	ClearIdentity(sessionID string) error
	PushRecentSearch(sessionID, trackingNumber string) error
	RecentSearches(sessionID string) ([]string, error)
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) SaveIdentity(sessionID string, identity *model.Identity, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := json.Marshal(storedIdentity{
		Kind:  identity.Kind,
		User:  identity.User,
		Token: identity.Token,
	})
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, identityKeyPrefix+sessionID, data, ttl).Err(); err != nil {
		logger.Error("Failed to save session identity", err, map[string]interface{}{
			"session_id": sessionID,
			"kind":       identity.Kind,
		})
		return fmt.Errorf("failed to save session identity: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetIdentity(sessionID string) (*model.Identity, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, identityKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Anonymous(), nil
		}
		logger.Error("Failed to load session identity", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("failed to load session identity: %w", err)
	}

	var stored storedIdentity
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode session identity: %w", err)
	}
	return &model.Identity{
		Kind:  stored.Kind,
		User:  stored.User,
		Token: stored.Token,
	}, nil
}

func (r *sessionRepository) ClearIdentity(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, identityKeyPrefix+sessionID).Err(); err != nil {
		logger.Error("Failed to clear session identity", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return fmt.Errorf("failed to clear session identity: %w", err)
	}
	return nil
}

// PushRecentSearch records a tracking lookup, keeping the list deduplicated
// and capped with the most recent number first.
func (r *sessionRepository) PushRecentSearch(sessionID, trackingNumber string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	key := searchKeyPrefix + sessionID
	pipe := r.client.TxPipeline()
	pipe.LRem(ctx, key, 0, trackingNumber)
	pipe.LPush(ctx, key, trackingNumber)
	pipe.LTrim(ctx, key, 0, maxRecentSearches-1)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to record recent search", err, map[string]interface{}{
			"session_id":      sessionID,
			"tracking_number": trackingNumber,
		})
		return fmt.Errorf("failed to record recent search: %w", err)
	}
	return nil
}

func (r *sessionRepository) RecentSearches(sessionID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	numbers, err := r.client.LRange(ctx, searchKeyPrefix+sessionID, 0, maxRecentSearches-1).Result()
	if err != nil {
		logger.Error("Failed to load recent searches", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("failed to load recent searches: %w", err)
	}
	return numbers, nil
}

// storedIdentity is the Redis form of an identity. The upstream token is
// never serialized on API responses, so it needs its own field here.
type storedIdentity struct {
	Kind  model.IdentityKind `json:"kind"`
	User  *model.User        `json:"user,omitempty"`
	Token string             `json:"token,omitempty"`
}
