package session

import (
	"context"
	"sync"
	"time"
)

// MemoryPreferences PreferenceStore en memoria (un solo proceso, tests).
type MemoryPreferences struct {
	mu   sync.RWMutex
	byID map[string]string
}

// NewMemoryPreferences crea el almacén vacío.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{byID: make(map[string]string)}
}

func (p *MemoryPreferences) Get(_ context.Context, clientID string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byID[clientID], nil
}

func (p *MemoryPreferences) Set(_ context.Context, clientID, companyID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[clientID] = companyID
	return nil
}

func (p *MemoryPreferences) Clear(_ context.Context, clientID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byID, clientID)
	return nil
}

// MemoryRevocations Revocations en memoria. Las entradas vencidas se purgan al revocar.
type MemoryRevocations struct {
	mu    sync.Mutex
	until map[string]time.Time
}

// NewMemoryRevocations crea el registro vacío.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{until: make(map[string]time.Time)}
}

func (r *MemoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, t := range r.until {
		if !t.After(now) {
			delete(r.until, id)
		}
	}
	r.until[tokenID] = until
	return nil
}

func (r *MemoryRevocations) Revoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.until[tokenID]
	return ok && t.After(time.Now()), nil
}
