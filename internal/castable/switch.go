package castable

import (
	"github.com/orizon-lang/prism/internal/errors"
)

// SwitchCase is one arm of Switch, built with Case or Default.
type SwitchCase struct {
	info      *TypeInfo
	isDefault bool
	call      func(Castable)
}

// Case builds an arm that runs fn when the object is a T.
func Case[T any](fn func(T)) SwitchCase {
	return SwitchCase{
		info: Of[T](),
		call: func(obj Castable) { fn(obj.(T)) },
	}
}

// Default builds the arm that runs when no case matches. It must be last.
func Default(fn func()) SwitchCase {
	return SwitchCase{
		isDefault: true,
		call:      func(Castable) { fn() },
	}
}

// Switch runs the first case whose type matches obj, in the order given.
// A base-type case listed before a more derived one wins. When nothing
// matches, or obj is nil, the default runs if present. It reports whether
// any arm ran.
func Switch(obj Castable, cases ...SwitchCase) bool {
	checkDefaultPlacement(len(cases), func(i int) bool { return cases[i].isDefault })

	if !isNil(obj) {
		ti := obj.TypeInfo()
		for _, c := range cases {
			if !c.isDefault && ti.Is(c.info) {
				c.call(obj)
				return true
			}
		}
	}

	if n := len(cases); n > 0 && cases[n-1].isDefault {
		cases[n-1].call(nil)
		return true
	}

	return false
}

// MatchCase is one arm of Match.
type MatchCase[R any] struct {
	info      *TypeInfo
	isDefault bool
	call      func(Castable) R
}

// When builds an arm of Match that runs fn when the object is a T.
func When[T any, R any](fn func(T) R) MatchCase[R] {
	return MatchCase[R]{
		info: Of[T](),
		call: func(obj Castable) R { return fn(obj.(T)) },
	}
}

// Otherwise builds the default arm of Match.
func Otherwise[R any](fn func() R) MatchCase[R] {
	return MatchCase[R]{
		isDefault: true,
		call:      func(Castable) R { return fn() },
	}
}

// Match is Switch for arms that produce a value. Without a matching arm
// it returns the zero R.
func Match[R any](obj Castable, cases ...MatchCase[R]) R {
	checkDefaultPlacement(len(cases), func(i int) bool { return cases[i].isDefault })

	if !isNil(obj) {
		ti := obj.TypeInfo()
		for _, c := range cases {
			if !c.isDefault && ti.Is(c.info) {
				return c.call(obj)
			}
		}
	}

	if n := len(cases); n > 0 && cases[n-1].isDefault {
		return cases[n-1].call(nil)
	}

	var zero R

	return zero
}

func checkDefaultPlacement(n int, isDefault func(int) bool) {
	for i := 0; i < n-1; i++ {
		if isDefault(i) {
			panic(errors.Misuse("DEFAULT_NOT_LAST",
				"the default arm of a switch must be the last argument", nil))
		}
	}
}
