package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ascensores-api/internal/application/session"
)

const (
	preferencePrefix = "session:active_company:"
	preferenceTTL    = 90 * 24 * time.Hour
	revokedPrefix    = "session:revoked:"
)

var (
	_ session.PreferenceStore = (*RedisPreferences)(nil)
	_ session.Revocations     = (*RedisRevocations)(nil)
)

// RedisPreferences empresa activa por cliente, compartida entre réplicas de la API.
type RedisPreferences struct {
	client *redis.Client
}

// NewRedisPreferences construye el almacén.
func NewRedisPreferences(client *redis.Client) *RedisPreferences {
	return &RedisPreferences{client: client}
}

func (p *RedisPreferences) Get(ctx context.Context, clientID string) (string, error) {
	v, err := p.client.Get(ctx, preferencePrefix+clientID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (p *RedisPreferences) Set(ctx context.Context, clientID, companyID string) error {
	return p.client.Set(ctx, preferencePrefix+clientID, companyID, preferenceTTL).Err()
}

func (p *RedisPreferences) Clear(ctx context.Context, clientID string) error {
	return p.client.Del(ctx, preferencePrefix+clientID).Err()
}

// RedisRevocations tokens revocados; cada clave vence junto con el token.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations construye el registro.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

func (r *RedisRevocations) Revoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
