// Package astjson encodes programs as JSON trees and decodes them back
// through a builder, which is how modules produced outside the process
// reach the transformation core.
//
// A document is a Module holding the module-scope declarations. Every
// node is an object whose "kind" names the node type (Var, Call,
// TypeName, ...); the other fields depend on the kind. Names are plain
// strings; operators, address spaces, builtins and stages use their
// source spelling.
package astjson

import (
	"encoding/json"
	"io"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/position"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/symbol"
)

// FormatVersion is written into every document.
const FormatVersion = 1

// Module is the document root.
type Module struct {
	Version int     `json:"version"`
	Globals []*Node `json:"globals"`
}

// Node is one tree node.
type Node struct {
	Kind string         `json:"kind"`
	Span *position.Span `json:"span,omitempty"`

	// Declared names, identifiers, type names and accessed members.
	Name string `json:"name,omitempty"`

	// Literals.
	Int    *int64   `json:"int,omitempty"`
	Float  *float64 `json:"float,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
	Suffix string   `json:"suffix,omitempty"`

	// Expressions.
	Op     string  `json:"op,omitempty"`
	LHS    *Node   `json:"lhs,omitempty"`
	RHS    *Node   `json:"rhs,omitempty"`
	Expr   *Node   `json:"expr,omitempty"`
	Target *Node   `json:"target,omitempty"`
	Args   []*Node `json:"args,omitempty"`
	Object *Node   `json:"object,omitempty"`
	Index  *Node   `json:"index,omitempty"`

	// Statements.
	Statements  []*Node `json:"statements,omitempty"`
	Variable    *Node   `json:"variable,omitempty"`
	Call        *Node   `json:"call,omitempty"`
	Condition   *Node   `json:"condition,omitempty"`
	Body        *Node   `json:"body,omitempty"`
	Else        *Node   `json:"else,omitempty"`
	Continuing  *Node   `json:"continuing,omitempty"`
	Initializer *Node   `json:"initializer,omitempty"`
	Decrement   bool    `json:"decrement,omitempty"`

	// Declarations.
	Type             *Node   `json:"type,omitempty"`
	AddressSpace     string  `json:"address_space,omitempty"`
	Access           string  `json:"access,omitempty"`
	Attributes       []*Node `json:"attributes,omitempty"`
	Params           []*Node `json:"params,omitempty"`
	ReturnType       *Node   `json:"return_type,omitempty"`
	ReturnAttributes []*Node `json:"return_attributes,omitempty"`
	Members          []*Node `json:"members,omitempty"`

	// Attributes.
	Stage   string  `json:"stage,omitempty"`
	Builtin string  `json:"builtin,omitempty"`
	Value   *uint32 `json:"value,omitempty"`
	X       *Node   `json:"x,omitempty"`
	Y       *Node   `json:"y,omitempty"`
	Z       *Node   `json:"z,omitempty"`

	// Types.
	Elem       *Node  `json:"elem,omitempty"`
	Width      int    `json:"width,omitempty"`
	Columns    int    `json:"columns,omitempty"`
	Rows       int    `json:"rows,omitempty"`
	Count      int    `json:"count,omitempty"`
	Comparison bool   `json:"comparison,omitempty"`
	Dim        string `json:"dim,omitempty"`
}

// Encode converts prog into a document.
func Encode(prog *program.Program) *Module {
	e := &encoder{prog: prog}

	mod := &Module{Version: FormatVersion, Globals: []*Node{}}
	for _, id := range prog.Globals() {
		mod.Globals = append(mod.Globals, e.node(id))
	}
	return mod
}

// Marshal returns the indented JSON document of prog.
func Marshal(prog *program.Program) ([]byte, error) {
	return json.MarshalIndent(Encode(prog), "", "  ")
}

// Write writes the JSON document of prog to w.
func Write(w io.Writer, prog *program.Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Encode(prog))
}

type encoder struct {
	prog *program.Program
}

func (e *encoder) name(sym symbol.ID) string {
	return e.prog.NameOf(sym)
}

func (e *encoder) list(ids []ast.NodeID) []*Node {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = e.node(id)
	}
	return out
}

func (e *encoder) node(id ast.NodeID) *Node {
	if !id.IsValid() {
		return nil
	}

	n := e.prog.Node(id)
	out := &Node{Kind: n.TypeInfo().Name}
	if span := n.Source(); span.IsValid() {
		out.Span = &span
	}

	switch n := n.(type) {
	case *ast.Ident:
		out.Name = e.name(n.Symbol)
	case *ast.IntLiteral:
		v := n.Value
		out.Int = &v
		out.Suffix = n.Suffix.String()
	case *ast.FloatLiteral:
		v := n.Value
		out.Float = &v
	case *ast.BoolLiteral:
		v := n.Value
		out.Bool = &v
	case *ast.Binary:
		out.Op = n.Op.String()
		out.LHS = e.node(n.LHS)
		out.RHS = e.node(n.RHS)
	case *ast.Unary:
		out.Op = n.Op.String()
		out.Expr = e.node(n.Expr)
	case *ast.Call:
		out.Target = e.node(n.Target)
		out.Args = e.list(n.Args)
	case *ast.Index:
		out.Object = e.node(n.Object)
		out.Index = e.node(n.Index)
	case *ast.Member:
		out.Object = e.node(n.Object)
		out.Name = e.name(n.Member)

	case *ast.Block:
		out.Statements = e.list(n.Statements)
	case *ast.VarDecl:
		out.Variable = e.node(n.Variable)
	case *ast.Assign:
		out.LHS = e.node(n.LHS)
		out.RHS = e.node(n.RHS)
	case *ast.Increment:
		out.LHS = e.node(n.LHS)
		out.Decrement = n.Decrement
	case *ast.CallStatement:
		out.Call = e.node(n.Call)
	case *ast.If:
		out.Condition = e.node(n.Condition)
		out.Body = e.node(n.Body)
		out.Else = e.node(n.Else)
	case *ast.For:
		out.Initializer = e.node(n.Initializer)
		out.Condition = e.node(n.Condition)
		out.Continuing = e.node(n.Continuing)
		out.Body = e.node(n.Body)
	case *ast.While:
		out.Condition = e.node(n.Condition)
		out.Body = e.node(n.Body)
	case *ast.Loop:
		out.Body = e.node(n.Body)
		out.Continuing = e.node(n.Continuing)
	case *ast.Return:
		out.Expr = e.node(n.Value)

	case ast.Variable:
		f := n.Fields()
		out.Name = e.name(f.Name)
		out.Type = e.node(f.Type)
		out.Initializer = e.node(f.Initializer)
		out.Attributes = e.list(f.Attributes)
		if v, ok := n.(*ast.Var); ok {
			out.AddressSpace = v.AddressSpace.String()
			out.Access = v.Access.String()
		}
	case *ast.Function:
		out.Name = e.name(n.Name)
		out.Params = e.list(n.Params)
		out.ReturnType = e.node(n.ReturnType)
		out.ReturnAttributes = e.list(n.ReturnAttributes)
		out.Body = e.node(n.Body)
		out.Attributes = e.list(n.Attributes)
	case *ast.Struct:
		out.Name = e.name(n.Name)
		out.Members = e.list(n.Members)
		out.Attributes = e.list(n.Attributes)
	case *ast.StructMember:
		out.Name = e.name(n.Name)
		out.Type = e.node(n.Type)
		out.Attributes = e.list(n.Attributes)
	case *ast.Alias:
		out.Name = e.name(n.Name)
		out.Type = e.node(n.Type)

	case *ast.StageAttribute:
		out.Stage = n.Stage.String()
	case *ast.WorkgroupAttribute:
		out.X = e.node(n.X)
		out.Y = e.node(n.Y)
		out.Z = e.node(n.Z)
	case *ast.BuiltinAttribute:
		out.Builtin = n.Builtin.String()
	case *ast.LocationAttribute:
		out.Value = uint32Ptr(n.Value)
	case *ast.GroupAttribute:
		out.Value = uint32Ptr(n.Value)
	case *ast.BindingAttribute:
		out.Value = uint32Ptr(n.Value)
	case *ast.IDAttribute:
		out.Value = uint32Ptr(n.Value)

	case *ast.Vector:
		out.Elem = e.node(n.Elem)
		out.Width = n.Width
	case *ast.Matrix:
		out.Elem = e.node(n.Elem)
		out.Columns = n.Columns
		out.Rows = n.Rows
	case *ast.Array:
		out.Elem = e.node(n.Elem)
		out.Count = n.Count
	case *ast.Sampler:
		out.Comparison = n.Comparison
	case *ast.SampledTexture:
		out.Dim = n.Dim.String()
		out.Elem = e.node(n.Elem)
	case *ast.TypeName:
		out.Name = e.name(n.Name)
	}

	return out
}

func uint32Ptr(v uint32) *uint32 { return &v }
