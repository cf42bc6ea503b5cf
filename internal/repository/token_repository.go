package repository

import (
	"context"
	"time"

	redisapp "contractor_site/internal/storage/redis"
)

type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

func (r *RedisTokenRepo) SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error {
	return r.Client.Set(ctx, refreshTokenKey(userID, token), "1", exp).Err()
}

// TakeRefreshToken deletes the token and reports whether it was present.
// Only one of several concurrent callers sees true.
func (r *RedisTokenRepo) TakeRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	n, err := r.Client.Del(ctx, refreshTokenKey(userID, token)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteAllUserTokens ends every session of userID.
func (r *RedisTokenRepo) DeleteAllUserTokens(ctx context.Context, userID string) error {
	keys, err := r.Client.Keys(ctx, refreshTokenKey(userID, "*")).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

func refreshTokenKey(userID, token string) string {
	return "refresh:" + userID + ":" + token
}
