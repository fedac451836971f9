package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Optional representa un campo de actualización parcial con tres estados:
// ausente (Set=false), presente con valor, o presente en null (Set=true y Value cero/nil).
// Solo los campos con Set=true se envían al UPDATE.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some construye un Optional presente.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON marca el campo como presente aunque venga en null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ApplyTo copia el valor en dst si el campo vino presente.
func (o Optional[T]) ApplyTo(dst *T) {
	if o.Set {
		*dst = o.Value
	}
}

// MarshalJSON serializa solo el valor.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// NullableID normaliza claves foráneas opcionales: "", "null", "undefined" (y espacios) → nil.
func NullableID(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	switch strings.ToLower(v) {
	case "", "null", "undefined":
		return nil
	}
	return &v
}

// NullableString idem para texto libre opcional: solo "" → nil.
func NullableString(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
