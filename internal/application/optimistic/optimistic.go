// Package optimistic aplica un cambio local antes de confirmarlo en el backend
// y lo deshace si la confirmación falla.
package optimistic

import "context"

// Local estado local sobre el que se aplica el cambio (una instantánea compartida).
type Local[T any] interface {
	Load(ctx context.Context) (T, bool, error)
	Store(ctx context.Context, v T) error
}

// Apply guarda mutate(prev) en local, ejecuta confirm y, si falla, restaura prev.
// Sin estado local (o si no se puede leer) solo se ejecuta confirm.
// mutate no debe modificar prev: recibe el valor leído y devuelve uno nuevo.
func Apply[T any](ctx context.Context, local Local[T], mutate func(T) T, confirm func(context.Context) error) error {
	prev, ok, err := local.Load(ctx)
	if err != nil || !ok {
		return confirm(ctx)
	}
	applied := local.Store(ctx, mutate(prev)) == nil

	if err := confirm(ctx); err != nil {
		if applied {
			_ = local.Store(ctx, prev)
		}
		return err
	}
	return nil
}
