package castable

import "strings"

// Category is an explicit is-a table for sets of types that do not share a
// single base, such as every numeric scalar kind.
type Category struct {
	name    string
	members []*TypeInfo
}

// NewCategory creates a category holding the given types and their
// descendants.
func NewCategory(name string, members ...*TypeInfo) *Category {
	return &Category{name: name, members: append([]*TypeInfo(nil), members...)}
}

// Name returns the category name.
func (c *Category) Name() string {
	return c.name
}

// Includes reports whether info is, or derives from, a member.
func (c *Category) Includes(info *TypeInfo) bool {
	for _, m := range c.members {
		if info.Is(m) {
			return true
		}
	}

	return false
}

// Contains reports whether obj belongs to the category.
func (c *Category) Contains(obj Castable) bool {
	if isNil(obj) {
		return false
	}

	return c.Includes(obj.TypeInfo())
}

func (c *Category) String() string {
	names := make([]string, len(c.members))
	for i, m := range c.members {
		names[i] = m.Name
	}

	return c.name + "{" + strings.Join(names, ", ") + "}"
}
