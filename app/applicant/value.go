package applicant

import (
	"encoding/json"
	"fmt"
)

// Value holds either a validated value or nothing at all. The zero Value is
// unknown, so a parsed string "unknown" and a failed parse never collide.
type Value[T any] struct {
	v     T
	known bool
}

func Known[T any](v T) Value[T] {
	return Value[T]{v: v, known: true}
}

func Unknown[T any]() Value[T] {
	return Value[T]{}
}

func (o Value[T]) Get() (T, bool) {
	return o.v, o.known
}

func (o Value[T]) IsKnown() bool {
	return o.known
}

func (o Value[T]) OrElse(fallback T) T {
	if !o.known {
		return fallback
	}
	return o.v
}

func (o Value[T]) String() string {
	if !o.known {
		return "unknown"
	}
	return fmt.Sprint(o.v)
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.known {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// Ptr returns nil for unknown values. Used when binding SQL parameters.
func (o Value[T]) Ptr() *T {
	if !o.known {
		return nil
	}
	v := o.v
	return &v
}
