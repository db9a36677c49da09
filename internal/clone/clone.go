// Package clone copies a program into a new builder while applying
// registered rewrites: node replacements, removals from lists, insertions
// around list elements, type-wide replacers and symbol renames. Every
// transform produces its output program through a Context.
package clone

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/castable"
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/symbol"
)

type replacement struct {
	dst ast.NodeID
	fn  func() ast.NodeID
}

type replacer struct {
	info *castable.TypeInfo
	fn   func(ast.Node) ast.NodeID
}

// listKind names one child list of an owner node.
type listKind int

const (
	listGlobals listKind = iota
	listStatements
	listMembers
	listParams
	listAttributes
	listReturnAttributes
	listArgs
)

type listKey struct {
	owner ast.NodeID
	kind  listKind
}

// Context clones Src into Dst.
type Context struct {
	Src *program.Program
	Dst *program.Builder

	replacements map[ast.NodeID]replacement
	removed      map[ast.NodeID]bool
	before       map[ast.NodeID][]ast.NodeID
	after        map[ast.NodeID][]ast.NodeID
	front        map[listKey][]ast.NodeID
	back         map[listKey][]ast.NodeID
	replacers    []replacer

	symbols         map[symbol.ID]symbol.ID
	symbolTransform func(symbol.ID) symbol.ID

	cloned bool
}

// New creates a context cloning src. The destination symbol table starts
// as a copy of the source table, so fresh names never collide with names
// of the source program. Source diagnostics other than the resolver's are
// carried into the destination; the resolver raises its own again when
// the destination is built.
func New(src *program.Program) *Context {
	dst := program.NewBuilderWithSymbols(src.Symbols().Clone())
	dst.Diagnostics.Append(src.Diagnostics().Without(diagnostics.CategoryResolver))

	return &Context{
		Src:          src,
		Dst:          dst,
		replacements: make(map[ast.NodeID]replacement),
		removed:      make(map[ast.NodeID]bool),
		before:       make(map[ast.NodeID][]ast.NodeID),
		after:        make(map[ast.NodeID][]ast.NodeID),
		front:        make(map[listKey][]ast.NodeID),
		back:         make(map[listKey][]ast.NodeID),
		symbols:      make(map[symbol.ID]symbol.ID),
	}
}

func misuse(code, format string, args ...interface{}) {
	panic(errors.Misuse(code, fmt.Sprintf(format, args...), nil))
}

func (c *Context) checkSource(id ast.NodeID) {
	if c.Src.Node(id) == nil || !c.Src.InTree(id) {
		misuse("NODE_NOT_IN_SOURCE", "node %d is not reachable from the source module", id)
	}
}

func (c *Context) checkDest(id ast.NodeID) {
	n := c.Dst.Node(id)
	if n == nil || n.ProgramID() != c.Dst.ID() {
		misuse("NODE_NOT_IN_DESTINATION", "node %d is not owned by the destination program", id)
	}
}

func (c *Context) checkListElement(id ast.NodeID) {
	c.checkSource(id)

	parent := c.Src.Node(c.Src.Parent(id))
	if parent == nil || !ast.InList(parent, id) {
		misuse("NOT_A_LIST_ELEMENT", "%s node %d is not an element of a list",
			c.Src.Node(id).TypeInfo().Name, id)
	}
}

// Replace makes every clone of src yield dst.
func (c *Context) Replace(src, dst ast.NodeID) *Context {
	c.checkSource(src)
	if dst.IsValid() {
		c.checkDest(dst)
	}
	c.register(src, replacement{dst: dst})
	return c
}

// ReplaceFunc calls fn whenever src is cloned and uses its result.
func (c *Context) ReplaceFunc(src ast.NodeID, fn func() ast.NodeID) *Context {
	c.checkSource(src)
	c.register(src, replacement{fn: fn})
	return c
}

func (c *Context) register(src ast.NodeID, r replacement) {
	if _, exists := c.replacements[src]; exists {
		misuse("DUPLICATE_REPLACEMENT", "node %d already has a replacement", src)
	}
	c.replacements[src] = r
}

// ReplaceAll registers fn for every source node of type T. A None result
// falls back to the default clone. Handlers for related types overlap and
// are rejected.
func ReplaceAll[T ast.Node](c *Context, fn func(T) ast.NodeID) {
	info := castable.Of[T]()

	for _, r := range c.replacers {
		if castable.Related(info, r.info) {
			misuse("OVERLAPPING_REPLACE_ALL", "ReplaceAll for %s overlaps the handler for %s", info.Name, r.info.Name)
		}
	}

	c.replacers = append(c.replacers, replacer{
		info: info,
		fn: func(n ast.Node) ast.NodeID {
			return fn(n.(T))
		},
	})
}

// Remove drops src from the list holding it.
func (c *Context) Remove(src ast.NodeID) *Context {
	c.checkListElement(src)
	c.removed[src] = true
	return c
}

// IsRemoved reports whether src was removed.
func (c *Context) IsRemoved(src ast.NodeID) bool {
	return c.removed[src]
}

// InsertBefore places dst just before the clone of the list element
// anchor. Insertions apply even when anchor itself is removed.
func (c *Context) InsertBefore(anchor, dst ast.NodeID) *Context {
	c.checkListElement(anchor)
	c.checkDest(dst)
	c.before[anchor] = append(c.before[anchor], dst)
	return c
}

// InsertAfter places dst just after the clone of the list element anchor.
func (c *Context) InsertAfter(anchor, dst ast.NodeID) *Context {
	c.checkListElement(anchor)
	c.checkDest(dst)
	c.after[anchor] = append(c.after[anchor], dst)
	return c
}

// InsertFront places dst at the start of the list of owner that holds
// nodes of dst's kind.
func (c *Context) InsertFront(owner, dst ast.NodeID) *Context {
	key := c.insertionKey(owner, dst)
	c.front[key] = append(c.front[key], dst)
	return c
}

// InsertBack places dst at the end of the list of owner that holds nodes
// of dst's kind.
func (c *Context) InsertBack(owner, dst ast.NodeID) *Context {
	key := c.insertionKey(owner, dst)
	c.back[key] = append(c.back[key], dst)
	return c
}

func (c *Context) insertionKey(owner, dst ast.NodeID) listKey {
	c.checkSource(owner)
	c.checkDest(dst)

	ownerNode := c.Src.Node(owner)
	dstNode := c.Dst.Node(dst)

	var kind listKind
	found := false

	switch ownerNode.(type) {
	case *ast.Module:
		kind, found = listGlobals, castable.IsUnchecked[ast.Declaration](dstNode)
	case *ast.Block:
		kind, found = listStatements, castable.IsUnchecked[ast.Statement](dstNode)
	case *ast.Struct:
		if castable.IsUnchecked[*ast.StructMember](dstNode) {
			kind, found = listMembers, true
		} else {
			kind, found = listAttributes, castable.IsUnchecked[ast.Attribute](dstNode)
		}
	case *ast.Function:
		if castable.IsUnchecked[*ast.Parameter](dstNode) {
			kind, found = listParams, true
		} else {
			kind, found = listAttributes, castable.IsUnchecked[ast.Attribute](dstNode)
		}
	case *ast.Call:
		kind, found = listArgs, castable.IsUnchecked[ast.Expression](dstNode)
	case *ast.StructMember, ast.Variable:
		kind, found = listAttributes, castable.IsUnchecked[ast.Attribute](dstNode)
	}

	if !found {
		misuse("NO_MATCHING_LIST", "%s node %d has no list for %s",
			ownerNode.TypeInfo().Name, owner, dstNode.TypeInfo().Name)
	}

	return listKey{owner: owner, kind: kind}
}

// ReplaceSymbol makes clones of src use dst.
func (c *Context) ReplaceSymbol(src, dst symbol.ID) *Context {
	c.symbols[src] = dst
	return c
}

// SetSymbolTransform installs fn to map every cloned symbol that has no
// explicit replacement. It can be set once.
func (c *Context) SetSymbolTransform(fn func(symbol.ID) symbol.ID) *Context {
	if c.symbolTransform != nil {
		misuse("DUPLICATE_SYMBOL_TRANSFORM", "a symbol transform is already installed")
	}
	c.symbolTransform = fn
	return c
}

// CloneSymbol returns the destination symbol for src.
func (c *Context) CloneSymbol(src symbol.ID) symbol.ID {
	if !src.IsValid() {
		return src
	}
	if dst, ok := c.symbols[src]; ok {
		return dst
	}
	if c.symbolTransform != nil {
		dst := c.symbolTransform(src)
		c.symbols[src] = dst
		return dst
	}
	return src
}

// Clone returns the destination copy of src, applying the registered
// rewrites. Every call creates new nodes unless a fixed replacement was
// registered.
func (c *Context) Clone(src ast.NodeID) ast.NodeID {
	if !src.IsValid() {
		return ast.None
	}

	c.checkSource(src)

	if r, ok := c.replacements[src]; ok {
		if r.fn != nil {
			return r.fn()
		}
		return r.dst
	}

	n := c.Src.Node(src)
	for _, r := range c.replacers {
		if n.TypeInfo().Is(r.info) {
			if out := r.fn(n); out.IsValid() {
				return out
			}
			break
		}
	}

	return c.cloneNode(src, n)
}

// CloneWithoutTransform clones src ignoring any replacement registered for
// src itself; its children are still rewritten.
func (c *Context) CloneWithoutTransform(src ast.NodeID) ast.NodeID {
	if !src.IsValid() {
		return ast.None
	}
	c.checkSource(src)
	return c.cloneNode(src, c.Src.Node(src))
}

// CloneList clones a child list of owner, applying removals and
// insertions.
func (c *Context) CloneList(owner ast.NodeID, ids []ast.NodeID) []ast.NodeID {
	kind, ok := c.kindOf(owner, ids)
	if !ok {
		misuse("NOT_A_CHILD_LIST", "list is not a child list of node %d", owner)
	}
	return c.cloneList(owner, kind, ids)
}

func (c *Context) kindOf(owner ast.NodeID, ids []ast.NodeID) (listKind, bool) {
	same := func(a []ast.NodeID) bool {
		if len(a) != len(ids) {
			return false
		}
		for i := range a {
			if a[i] != ids[i] {
				return false
			}
		}
		return true
	}

	switch n := c.Src.Node(owner).(type) {
	case *ast.Module:
		return listGlobals, same(n.Globals)
	case *ast.Block:
		return listStatements, same(n.Statements)
	case *ast.Struct:
		if same(n.Members) {
			return listMembers, true
		}
		return listAttributes, same(n.Attributes)
	case *ast.Function:
		switch {
		case same(n.Params):
			return listParams, true
		case same(n.Attributes):
			return listAttributes, true
		}
		return listReturnAttributes, same(n.ReturnAttributes)
	case *ast.Call:
		return listArgs, same(n.Args)
	case *ast.StructMember:
		return listAttributes, same(n.Attributes)
	case ast.Variable:
		return listAttributes, same(n.Fields().Attributes)
	}

	return 0, false
}

func (c *Context) cloneList(owner ast.NodeID, kind listKind, ids []ast.NodeID) []ast.NodeID {
	var out []ast.NodeID

	c.eachInList(owner, kind, ids, func(id ast.NodeID) {
		out = append(out, id)
	})

	return out
}

// eachInList yields the destination elements of a list in order: front
// insertions, then per element its before insertions, its clone unless
// removed, and its after insertions, then back insertions.
func (c *Context) eachInList(owner ast.NodeID, kind listKind, ids []ast.NodeID, yield func(ast.NodeID)) {
	key := listKey{owner: owner, kind: kind}

	for _, id := range c.front[key] {
		yield(id)
	}

	for _, id := range ids {
		for _, ins := range c.before[id] {
			yield(ins)
		}
		if !c.removed[id] {
			if dst := c.Clone(id); dst.IsValid() {
				yield(dst)
			}
		}
		for _, ins := range c.after[id] {
			yield(ins)
		}
	}

	for _, id := range c.back[key] {
		yield(id)
	}
}

// Clone copies the whole source module into Dst. Declarations created on
// Dst before the call come first; declarations created while a global is
// being cloned are placed before that global.
func (c *Context) CloneModule() {
	if c.cloned {
		misuse("ALREADY_CLONED", "the module was already cloned")
	}
	c.cloned = true

	seen := make(map[ast.NodeID]bool)
	for _, id := range c.Dst.Globals() {
		seen[id] = true
	}

	mod := c.Src.ModuleID()
	c.eachInList(mod, listGlobals, c.Src.Globals(), func(id ast.NodeID) {
		if !seen[id] {
			seen[id] = true
			c.Dst.AddGlobal(id)
		}
	})
}

// Cloned reports whether CloneModule ran.
func (c *Context) Cloned() bool {
	return c.cloned
}
