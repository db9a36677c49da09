package transform

import (
	"reflect"
)

// DataMap holds transform inputs and outputs keyed by their Go type. A
// map holds at most one value per type.
type DataMap struct {
	entries map[reflect.Type]any
	order   []reflect.Type
}

// NewDataMap creates an empty map.
func NewDataMap() *DataMap {
	return &DataMap{entries: make(map[reflect.Type]any)}
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Add stores v, replacing any previous value of the same type.
func Add[T any](d *DataMap, v T) {
	d.put(keyOf[T](), v)
}

func (d *DataMap) put(key reflect.Type, v any) {
	if d.entries == nil {
		d.entries = make(map[reflect.Type]any)
	}
	if _, exists := d.entries[key]; !exists {
		d.order = append(d.order, key)
	}
	d.entries[key] = v
}

// Get returns the value of type T.
func Get[T any](d *DataMap) (T, bool) {
	var zero T
	if d == nil {
		return zero, false
	}

	v, ok := d.entries[keyOf[T]()]
	if !ok {
		return zero, false
	}

	return v.(T), true
}

// Has reports whether a value of type T is present.
func Has[T any](d *DataMap) bool {
	if d == nil {
		return false
	}
	_, ok := d.entries[keyOf[T]()]
	return ok
}

// Remove deletes the value of type T.
func Remove[T any](d *DataMap) {
	if d == nil {
		return
	}

	key := keyOf[T]()
	if _, ok := d.entries[key]; !ok {
		return
	}

	delete(d.entries, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Merge copies every entry of other into d, replacing values of the same
// type.
func (d *DataMap) Merge(other *DataMap) {
	if other == nil {
		return
	}
	for _, key := range other.order {
		d.put(key, other.entries[key])
	}
}

// Len returns the number of entries.
func (d *DataMap) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Types lists the names of the stored payload types in insertion order.
func (d *DataMap) Types() []string {
	if d == nil {
		return nil
	}

	names := make([]string, 0, len(d.order))
	for _, key := range d.order {
		names = append(names, key.Name())
	}

	return names
}
