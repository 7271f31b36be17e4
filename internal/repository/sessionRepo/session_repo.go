package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is how long an issued token stays valid.
const SessionTTL = 24 * time.Hour

type SessionRepository struct {
	Client *redis.Client
}

func New(client *redis.Client) *SessionRepository {
	return &SessionRepository{Client: client}
}

func (r *SessionRepository) buildKey(token string) string {
	return fmt.Sprintf("auth_%s", token)
}

func (r *SessionRepository) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	key := r.buildKey(token)
	return r.Client.Set(ctx, key, userID, ttl).Err()
}

// Get returns the user id bound to the token, empty string when the
// token is unknown or expired.
func (r *SessionRepository) Get(ctx context.Context, token string) (string, error) {
	key := r.buildKey(token)
	userID, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	key := r.buildKey(token)
	return r.Client.Del(ctx, key).Err()
}
