// Package ast defines the program tree consumed and produced by the
// transformation core. Nodes live in a per-program arena and refer to each
// other by NodeID, so a rewritten program is a fresh arena rather than a
// mutated tree.
package ast

import (
	"sync/atomic"

	"github.com/orizon-lang/prism/internal/castable"
	"github.com/orizon-lang/prism/internal/position"
	"github.com/orizon-lang/prism/internal/symbol"
)

// NodeID indexes a node in its program's arena. The zero ID means "none".
type NodeID uint32

// None is the absent node.
const None NodeID = 0

// IsValid reports whether id refers to a node.
func (id NodeID) IsValid() bool {
	return id != None
}

// ProgramID identifies the arena a node belongs to.
type ProgramID uint32

var lastProgramID atomic.Uint32

// NewProgramID returns a process-unique program identifier.
func NewProgramID() ProgramID {
	return ProgramID(lastProgramID.Add(1))
}

// Base holds the fields shared by every node.
type Base struct {
	ID      NodeID
	Program ProgramID
	Span    position.Span
}

// NodeID returns the arena index of the node.
func (b *Base) NodeID() NodeID { return b.ID }

// ProgramID returns the owning program.
func (b *Base) ProgramID() ProgramID { return b.Program }

// Source returns the source span of the node.
func (b *Base) Source() position.Span { return b.Span }

func (b *Base) base() *Base { return b }

// Node is implemented by every tree element.
type Node interface {
	castable.Castable
	NodeID() NodeID
	ProgramID() ProgramID
	Source() position.Span
	base() *Base
}

// Expression nodes produce values.
type Expression interface {
	Node
	expressionNode()
}

// Literal nodes are constant expressions.
type Literal interface {
	Expression
	literalNode()
}

// Statement nodes appear in blocks.
type Statement interface {
	Node
	statementNode()
}

// Type nodes are type references.
type Type interface {
	Node
	typeNode()
}

// Texture nodes are texture type references.
type Texture interface {
	Type
	textureNode()
}

// Attribute nodes decorate declarations.
type Attribute interface {
	Node
	attributeNode()
}

// Declaration nodes introduce a name.
type Declaration interface {
	Node
	DeclName() symbol.ID
}

// TypeDecl nodes declare a named type.
type TypeDecl interface {
	Declaration
	typeDeclNode()
}

// Nodes resolves NodeIDs of one arena. Both Builder and the immutable
// program implement it.
type Nodes interface {
	Node(id NodeID) Node
	Symbols() *symbol.Table
}

var (
	nodeInfo        = castable.Register[Node]("Node", nil)
	expressionInfo  = castable.Register[Expression]("Expression", nodeInfo)
	literalInfo     = castable.Register[Literal]("Literal", expressionInfo)
	statementInfo   = castable.Register[Statement]("Statement", nodeInfo)
	typeInfo        = castable.Register[Type]("Type", nodeInfo)
	textureInfo     = castable.Register[Texture]("Texture", typeInfo)
	attributeInfo   = castable.Register[Attribute]("Attribute", nodeInfo)
	declarationInfo = castable.Register[Declaration]("Declaration", nodeInfo)
	typeDeclInfo    = castable.Register[TypeDecl]("TypeDecl", declarationInfo)
)

// Get returns the node id as a T, or false when id is None or not a T.
func Get[T any](nodes Nodes, id NodeID) (T, bool) {
	var zero T
	if !id.IsValid() {
		return zero, false
	}

	return castable.AsUnchecked[T](nodes.Node(id))
}

// GetAttribute returns the first attribute of type T in attrs.
func GetAttribute[T Attribute](nodes Nodes, attrs []NodeID) (T, bool) {
	for _, id := range attrs {
		if a, ok := Get[T](nodes, id); ok {
			return a, true
		}
	}

	var zero T

	return zero, false
}

// HasAttribute reports whether attrs holds an attribute of type T.
func HasAttribute[T Attribute](nodes Nodes, attrs []NodeID) bool {
	_, ok := GetAttribute[T](nodes, attrs)
	return ok
}
