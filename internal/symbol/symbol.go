// Package symbol provides the symbol table shared by a program's nodes.
// A symbol is a small integer standing for a name; nodes refer to symbols,
// never to strings.
package symbol

import (
	"fmt"
	"strconv"
)

// ID identifies a symbol within one table. The zero ID is invalid.
type ID uint32

// IsValid reports whether id refers to a symbol.
func (id ID) IsValid() bool {
	return id != 0
}

// DefaultName is the name used by New when no hint is given.
const DefaultName = "tint_symbol"

// Table maps names to symbols and back.
type Table struct {
	names  []string
	byName map[string]ID
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		names:  []string{""},
		byName: make(map[string]ID),
	}
}

// Register returns the symbol for name, creating it if needed.
func (t *Table) Register(name string) ID {
	if id, ok := t.byName[name]; ok {
		return id
	}

	id := ID(len(t.names))
	t.names = append(t.names, name)
	t.byName[name] = id

	return id
}

// Get returns the symbol for name, or the zero ID.
func (t *Table) Get(name string) ID {
	return t.byName[name]
}

// New returns a fresh symbol whose name is not yet in the table: the hint
// itself when free, otherwise hint_1, hint_2 and so on.
func (t *Table) New(hint string) ID {
	if hint == "" {
		hint = DefaultName
	}

	name := hint
	for i := 1; ; i++ {
		if _, taken := t.byName[name]; !taken {
			break
		}
		name = hint + "_" + strconv.Itoa(i)
	}

	return t.Register(name)
}

// NameFor returns the name of id.
func (t *Table) NameFor(id ID) string {
	if int(id) >= len(t.names) || id == 0 {
		return fmt.Sprintf("$%d", id)
	}

	return t.names[id]
}

// Len returns the number of registered symbols.
func (t *Table) Len() int {
	return len(t.names) - 1
}

// Each calls fn for every symbol in registration order.
func (t *Table) Each(fn func(ID, string)) {
	for i := 1; i < len(t.names); i++ {
		fn(ID(i), t.names[i])
	}
}

// Clone returns an independent copy. Symbol IDs are preserved, so a
// symbol of the source table names the same string in the copy.
func (t *Table) Clone() *Table {
	c := &Table{
		names:  append([]string(nil), t.names...),
		byName: make(map[string]ID, len(t.byName)),
	}

	for name, id := range t.byName {
		c.byName[name] = id
	}

	return c
}
