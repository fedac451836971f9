// Package snapshot define la instantánea compartida de colecciones por tenant.
// Todas las vistas que sondean la misma colección leen una sola copia; las
// escrituras la invalidan subiendo la versión.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Colecciones con instantánea compartida.
const (
	Buildings       = "buildings"
	Elevators       = "elevators"
	Equipment       = "equipment"
	Technicians     = "technicians"
	WorkOrders      = "work_orders"
	EngineerReports = "engineer_reports"
)

// Cache almacén de instantáneas. variant distingue filtros sobre la misma colección;
// Peek y Replace operan sobre la variante sin filtros.
type Cache interface {
	Fetch(ctx context.Context, tenantID, collection, variant string, load func(context.Context) ([]byte, error)) (data []byte, version string, err error)
	Peek(ctx context.Context, tenantID, collection string) ([]byte, bool, error)
	Replace(ctx context.Context, tenantID, collection string, data []byte) error
	Invalidate(ctx context.Context, tenantID, collection string) error
}

// List lee la colección a través de la instantánea. Con cache nil llama a load directamente.
func List[T any](ctx context.Context, c Cache, tenantID, collection, variant string, load func(context.Context) ([]T, error)) ([]T, string, error) {
	if c == nil {
		items, err := load(ctx)
		return items, "", err
	}
	data, version, err := c.Fetch(ctx, tenantID, collection, variant, func(ctx context.Context) ([]byte, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, "", err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, "", fmt.Errorf("decode snapshot %s: %w", collection, err)
	}
	return items, version, nil
}

// Invalidate invalida la colección si hay cache configurada.
func Invalidate(ctx context.Context, c Cache, tenantID string, collections ...string) {
	if c == nil {
		return
	}
	for _, col := range collections {
		_ = c.Invalidate(ctx, tenantID, col)
	}
}

// Local adapta la variante sin filtros de una colección a optimistic.Local.
type Local[T any] struct {
	Cache      Cache
	TenantID   string
	Collection string
}

func (l Local[T]) Load(ctx context.Context) ([]T, bool, error) {
	if l.Cache == nil {
		return nil, false, nil
	}
	data, ok, err := l.Cache.Peek(ctx, l.TenantID, l.Collection)
	if err != nil || !ok {
		return nil, false, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", l.Collection, err)
	}
	return items, true, nil
}

func (l Local[T]) Store(ctx context.Context, items []T) error {
	if l.Cache == nil {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return l.Cache.Replace(ctx, l.TenantID, l.Collection, data)
}
