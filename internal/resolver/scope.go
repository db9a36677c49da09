package resolver

import (
	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/symbol"
)

// ScopeKind represents the kind of scope.
type ScopeKind int

const (
	ScopeKindModule ScopeKind = iota
	ScopeKindFunction
	ScopeKindBlock
	ScopeKindLoop
)

// String returns the string representation of ScopeKind.
func (sk ScopeKind) String() string {
	switch sk {
	case ScopeKindModule:
		return "module"
	case ScopeKindFunction:
		return "function"
	case ScopeKindBlock:
		return "block"
	case ScopeKindLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// Scope is one lexical level. Declarations map a symbol to the node that
// declared it.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	decls  map[symbol.ID]ast.NodeID
}

func newScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, decls: make(map[symbol.ID]ast.NodeID)}
}

// Declare binds sym in this scope. It returns the earlier declaration and
// false when sym is already bound here; shadowing an outer scope is fine.
func (s *Scope) Declare(sym symbol.ID, decl ast.NodeID) (ast.NodeID, bool) {
	if prev, exists := s.decls[sym]; exists {
		return prev, false
	}

	s.decls[sym] = decl

	return decl, true
}

// Lookup finds sym in this scope or an enclosing one.
func (s *Scope) Lookup(sym symbol.ID) (ast.NodeID, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if decl, ok := sc.decls[sym]; ok {
			return decl, true
		}
	}

	return ast.None, false
}
