package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/ascensores-api/internal/application/snapshot"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

var _ snapshot.Cache = (*CollectionCache)(nil)

// CollectionCache instantáneas por (tenant, colección) con versión. Las lecturas
// concurrentes de la misma clave se deduplican con singleflight; escribir sube la
// versión y deja huérfanas las claves anteriores (vencen por TTL).
// Sin cliente Redis guarda todo en memoria del proceso.
type CollectionCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	log    *logger.Logger

	mu       sync.Mutex
	versions map[string]int64
	entries  map[string][]byte
}

// NewCollectionCache construye la caché. client nil = modo en memoria.
func NewCollectionCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *CollectionCache {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CollectionCache{
		client:   client,
		ttl:      ttl,
		log:      log.Component("collection_cache"),
		versions: make(map[string]int64),
		entries:  make(map[string][]byte),
	}
}

func versionKey(tenantID, collection string) string {
	return "snapshot:version:" + tenantID + ":" + collection
}

func dataKey(tenantID, collection string, version int64, variant string) string {
	return fmt.Sprintf("snapshot:%s:%s:%d:%s", tenantID, collection, version, variant)
}

// Version versión vigente de la colección (1 si nunca se invalidó).
func (c *CollectionCache) Version(ctx context.Context, tenantID, collection string) (int64, error) {
	key := versionKey(tenantID, collection)
	if c.client == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.versions[key] + 1, nil
	}
	v, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return v + 1, nil
}

// Fetch devuelve la instantánea o la carga una sola vez aunque haya lectores concurrentes.
func (c *CollectionCache) Fetch(ctx context.Context, tenantID, collection, variant string, load func(context.Context) ([]byte, error)) ([]byte, string, error) {
	version, err := c.Version(ctx, tenantID, collection)
	if err != nil {
		// Redis caído: se sirve directo del repositorio.
		c.log.Warn().Err(err).Str("collection", collection).Msg("leer versión de instantánea")
		data, err := load(ctx)
		return data, "", err
	}
	key := dataKey(tenantID, collection, version, variant)
	tag := strconv.FormatInt(version, 10)

	if data, ok := c.get(ctx, key); ok {
		return data, tag, nil
	}

	// La carga es compartida: no debe cancelarse porque se vaya el primer lector.
	shared := context.WithoutCancel(ctx)
	res := c.group.DoChan(key, func() (interface{}, error) {
		data, err := load(shared)
		if err != nil {
			return nil, err
		}
		c.set(shared, key, data)
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	case r := <-res:
		if r.Err != nil {
			return nil, "", r.Err
		}
		return r.Val.([]byte), tag, nil
	}
}

// Peek lee la variante sin filtros de la versión vigente.
func (c *CollectionCache) Peek(ctx context.Context, tenantID, collection string) ([]byte, bool, error) {
	version, err := c.Version(ctx, tenantID, collection)
	if err != nil {
		return nil, false, err
	}
	data, ok := c.get(ctx, dataKey(tenantID, collection, version, ""))
	return data, ok, nil
}

// Replace reemplaza la variante sin filtros de la versión vigente.
func (c *CollectionCache) Replace(ctx context.Context, tenantID, collection string, data []byte) error {
	version, err := c.Version(ctx, tenantID, collection)
	if err != nil {
		return err
	}
	c.set(ctx, dataKey(tenantID, collection, version, ""), data)
	return nil
}

// Invalidate sube la versión de la colección.
func (c *CollectionCache) Invalidate(ctx context.Context, tenantID, collection string) error {
	key := versionKey(tenantID, collection)
	if c.client == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.versions[key]++
		prefix := fmt.Sprintf("snapshot:%s:%s:", tenantID, collection)
		for k := range c.entries {
			if strings.HasPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
		return nil
	}
	return c.client.Incr(ctx, key).Err()
}

func (c *CollectionCache) get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		data, ok := c.entries[key]
		return data, ok
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("leer instantánea")
		}
		return nil, false
	}
	return data, true
}

func (c *CollectionCache) set(ctx context.Context, key string, data []byte) {
	if c.client == nil {
		c.mu.Lock()
		c.entries[key] = data
		c.mu.Unlock()
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("guardar instantánea")
	}
}
