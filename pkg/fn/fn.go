// Package fn provides small generic function helpers that get passed
// around as values: ordered comparators, arithmetic and predicate
// combinators. Go closures and generics cover what older runtimes
// needed wrapper objects for, so everything here is a plain function.
package fn

import "cmp"

// Number constrains to types with a + operator
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Predicate reports a yes/no property of a value
type Predicate[T any] func(T) bool

// Not returns a predicate that inverts p
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return !p(v)
	}
}

// And returns a predicate that is true when both a and b hold
func And[T any](a, b Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return a(v) && b(v)
	}
}

// Or returns a predicate that is true when a or b holds
func Or[T any](a, b Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return a(v) || b(v)
	}
}

func Plus[T Number](a, b T) T {
	return a + b
}

func Minus[T Number](a, b T) T {
	return a - b
}

// The comparators work for any ordered instantiation, no exact
// operand type needs to be spelled out at the call site.

func Less[T cmp.Ordered](a, b T) bool {
	return a < b
}

func LessEqual[T cmp.Ordered](a, b T) bool {
	return a <= b
}

func Greater[T cmp.Ordered](a, b T) bool {
	return a > b
}

func GreaterEqual[T cmp.Ordered](a, b T) bool {
	return a >= b
}

func Equal[T comparable](a, b T) bool {
	return a == b
}

// Clamp limits v to the inclusive range [lo, hi]
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
