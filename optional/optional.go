package optional

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrEmptyUnwrap is returned when a value is extracted from None.
var ErrEmptyUnwrap = errors.New("optional: unwrap of empty value")

// Optional holds either exactly one value (Some) or nothing (None).
// The zero value is None.
type Optional[T any] struct {
	value   T
	present bool
}

func None[T any]() Optional[T] { return Optional[T]{} }

// Some always wraps v, even if v is nil.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

// Of returns None when v is a nil pointer, interface, map, slice, channel or
// func, or an empty Optional, and Some(v) otherwise. A present Optional is
// still wrapped, since the result type is fixed by T; use Flatten for that.
func Of[T any](v T) Optional[T] {
	if isNil(v) {
		return None[T]()
	}
	return Some(v)
}

// OfPtr dereferences p, mapping a nil pointer to None.
func OfPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// FromPair adapts the comma-ok idiom.
func FromPair[T any](v T, ok bool) Optional[T] {
	if !ok {
		return None[T]()
	}
	return Some(v)
}

func Flatten[T any](o Optional[Optional[T]]) Optional[T] {
	if !o.present {
		return None[T]()
	}
	return o.value
}

func (o Optional[T]) IsEmpty() bool { return !o.present }

func (o Optional[T]) absent() bool { return !o.present }

// Unwrap returns the contained value, or ErrEmptyUnwrap on None.
func (o Optional[T]) Unwrap() (T, error) {
	if !o.present {
		var zero T
		return zero, ErrEmptyUnwrap
	}
	return o.value, nil
}

// Get mirrors the comma-ok idiom.
func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

func (o Optional[T]) OrElse(def T) T {
	if !o.present {
		return def
	}
	return o.value
}

// Filter keeps the value only if p holds for it.
func (o Optional[T]) Filter(p func(T) bool) Optional[T] {
	if !o.present || !p(o.value) {
		return None[T]()
	}
	return o
}

func (o Optional[T]) String() string {
	if !o.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// Bind returns None without calling f when o is None, and f's result
// unchanged otherwise.
func Bind[T, U any](o Optional[T], f func(T) Optional[U]) Optional[U] {
	if !o.present {
		return None[U]()
	}
	return f(o.value)
}

// Map is Bind(o, func(v T) Optional[U] { return Of(f(v)) }), so a nil result
// of f yields None.
func Map[T, U any](o Optional[T], f func(T) U) Optional[U] {
	return Bind(o, func(v T) Optional[U] { return Of(f(v)) })
}

// Fold returns def on None and f(v) on Some(v).
func Fold[T, U any](o Optional[T], def U, f func(T) U) U {
	if !o.present {
		return def
	}
	return f(o.value)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	if o, ok := v.(interface{ absent() bool }); ok {
		return o.absent()
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
