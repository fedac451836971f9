package auth

import (
	"slices"
	"sync"
)

// Tipos de evento de autenticación.
const (
	EventSignedIn       = "signed_in"
	EventSignedOut      = "signed_out"
	EventCompanySwitch  = "company_switched"
	EventCompanyJoined  = "company_joined"
	EventCompanyCreated = "company_created"
)

// Event cambio de estado de autenticación de una identidad.
type Event struct {
	Type      string
	UserID    string
	ClientID  string
	CompanyID string
}

// Notifier flujo en proceso de eventos de autenticación. Los suscriptores se
// invocan en orden de alta y de forma sincrónica dentro de Publish.
type Notifier struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

// NewNotifier crea un notificador sin suscriptores.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registra fn y devuelve la función para darlo de baja.
func (n *Notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Publish entrega e a todos los suscriptores.
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	n.mu.RUnlock()
	slices.Sort(ids)
	for _, id := range ids {
		n.mu.RLock()
		fn, ok := n.subs[id]
		n.mu.RUnlock()
		if ok {
			fn(e)
		}
	}
}
