// Package castable provides runtime type identity for compiler objects.
// Every castable Go type is registered once with a TypeInfo record that
// names its immediate base, so passes can ask "is this node a Statement?"
// against an explicit chain instead of relying on method sets alone.
package castable

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/orizon-lang/prism/internal/errors"
)

// TypeInfo is the identity record of one castable type.
type TypeInfo struct {
	Name  string
	Base  *TypeInfo
	depth int
}

// Is reports whether t equals target or has target in its base chain.
func (t *TypeInfo) Is(target *TypeInfo) bool {
	if t == nil || target == nil || t.depth < target.depth {
		return false
	}

	for ti := t; ti != nil; ti = ti.Base {
		if ti == target {
			return true
		}
	}

	return false
}

// Depth returns the number of links between t and the root record.
func (t *TypeInfo) Depth() int {
	return t.depth
}

func (t *TypeInfo) String() string {
	return t.Name
}

// Castable is implemented by every object that carries a TypeInfo.
type Castable interface {
	TypeInfo() *TypeInfo
}

// Root is the record at the end of every base chain.
var Root = &TypeInfo{Name: "Castable"}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]*TypeInfo{
		reflect.TypeFor[Castable](): Root,
	}
)

// Register creates the identity record for T. A nil base attaches T
// directly below Root. Registering the same Go type twice panics.
func Register[T any](name string, base *TypeInfo) *TypeInfo {
	if base == nil {
		base = Root
	}

	info := &TypeInfo{Name: name, Base: base, depth: base.depth + 1}
	key := reflect.TypeFor[T]()

	registryMu.Lock()
	defer registryMu.Unlock()

	if prev, exists := registry[key]; exists {
		panic(errors.Misuse("DUPLICATE_TYPE_INFO",
			fmt.Sprintf("type %v is already registered as %s", key, prev.Name),
			map[string]interface{}{"type": key.String()}))
	}

	registry[key] = info

	return info
}

// Of returns the identity record registered for T.
func Of[T any]() *TypeInfo {
	key := reflect.TypeFor[T]()

	registryMu.RLock()
	info, ok := registry[key]
	registryMu.RUnlock()

	if !ok {
		panic(errors.Misuse("UNREGISTERED_TYPE",
			fmt.Sprintf("type %v has no TypeInfo", key),
			map[string]interface{}{"type": key.String()}))
	}

	return info
}

// Is reports whether obj is a T. The static type S of the argument must be
// an ancestor or descendant of T; a cast between unrelated families can
// never succeed and panics. Use IsUnchecked when the relation is only
// known at run time.
func Is[T any, S Castable](obj S) bool {
	mustBeRelated(Of[T](), Of[S]())

	return IsUnchecked[T](obj)
}

// As returns obj viewed as T when Is[T] holds, with the same static check.
func As[T any, S Castable](obj S) (T, bool) {
	mustBeRelated(Of[T](), Of[S]())

	return AsUnchecked[T](obj)
}

// IsUnchecked is Is without the static relation check.
func IsUnchecked[T any](obj Castable) bool {
	if isNil(obj) {
		return false
	}

	return obj.TypeInfo().Is(Of[T]())
}

// AsUnchecked is As without the static relation check.
func AsUnchecked[T any](obj Castable) (T, bool) {
	var zero T
	if !IsUnchecked[T](obj) {
		return zero, false
	}

	v, ok := obj.(T)
	if !ok {
		panic(errors.Misuse("TYPE_INFO_MISMATCH",
			fmt.Sprintf("%s is registered below %s but %T does not implement it",
				obj.TypeInfo().Name, Of[T]().Name, obj),
			nil))
	}

	return v, true
}

// IsWith reports whether obj is a T and pred accepts it. pred is only
// called after a successful cast.
func IsWith[T any, S Castable](obj S, pred func(T) bool) bool {
	v, ok := As[T](obj)
	if !ok {
		return false
	}

	return pred(v)
}

// IsAnyOf reports whether obj is any of the given types.
func IsAnyOf(obj Castable, infos ...*TypeInfo) bool {
	if isNil(obj) {
		return false
	}

	ti := obj.TypeInfo()
	for _, info := range infos {
		if ti.Is(info) {
			return true
		}
	}

	return false
}

// Related reports whether one of a and b is an ancestor of the other.
func Related(a, b *TypeInfo) bool {
	return a.Is(b) || b.Is(a)
}

func mustBeRelated(target, static *TypeInfo) {
	if !Related(target, static) {
		panic(errors.Misuse("IMPOSSIBLE_CAST",
			fmt.Sprintf("cast from %s to %s can never succeed", static.Name, target.Name),
			map[string]interface{}{"from": static.Name, "to": target.Name}))
	}
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(obj Castable) bool {
	if obj == nil {
		return true
	}

	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}

	return false
}
