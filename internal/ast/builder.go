package ast

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/position"
	"github.com/orizon-lang/prism/internal/symbol"
)

// Builder owns an arena under construction. Helper methods create nodes
// and return their IDs; the declaration helpers (Struct, Alias, Func,
// GlobalVar, GlobalConst) also append the new node to the module's
// global list.
type Builder struct {
	id      ProgramID
	nodes   []Node
	globals []NodeID
	symbols *symbol.Table
	span    position.Span

	// Diagnostics raised while building, carried into the program.
	Diagnostics diagnostics.List
}

// NewBuilder creates a builder with an empty symbol table.
func NewBuilder() *Builder {
	return NewBuilderWithSymbols(symbol.NewTable())
}

// NewBuilderWithSymbols creates a builder that allocates names from
// symbols.
func NewBuilderWithSymbols(symbols *symbol.Table) *Builder {
	return &Builder{
		id:      NewProgramID(),
		nodes:   []Node{nil},
		symbols: symbols,
	}
}

// ID returns the identifier nodes of this builder are stamped with.
func (b *Builder) ID() ProgramID { return b.id }

// Symbols returns the builder's symbol table.
func (b *Builder) Symbols() *symbol.Table { return b.symbols }

// Node returns the node with the given id, or nil.
func (b *Builder) Node(id NodeID) Node {
	if int(id) >= len(b.nodes) {
		return nil
	}
	return b.nodes[id]
}

// Arena returns the node slice. Index 0 is always nil.
func (b *Builder) Arena() []Node { return b.nodes }

// Globals returns the module-scope declarations added so far.
func (b *Builder) Globals() []NodeID { return b.globals }

// AddGlobal appends a module-scope declaration.
func (b *Builder) AddGlobal(id NodeID) {
	b.globals = append(b.globals, id)
}

// SetSource sets the span stamped on nodes created without one and
// returns the previous value.
func (b *Builder) SetSource(span position.Span) position.Span {
	prev := b.span
	b.span = span
	return prev
}

// Sym registers name and returns its symbol.
func (b *Builder) Sym(name string) symbol.ID {
	return b.symbols.Register(name)
}

// New adds n to the arena and returns its id. A node can be added once.
func (b *Builder) New(n Node) NodeID {
	base := n.base()
	if base.ID != None {
		panic(errors.Misuse("NODE_ALREADY_OWNED",
			fmt.Sprintf("%s node %d already belongs to program %d", n.TypeInfo().Name, base.ID, base.Program),
			nil))
	}

	base.ID = NodeID(len(b.nodes))
	base.Program = b.id
	if !base.Span.IsValid() {
		base.Span = b.span
	}

	b.nodes = append(b.nodes, n)

	return base.ID
}

// Expr converts v into an expression: NodeID is returned as is, string and
// symbol.ID become identifiers, int an unsuffixed integer, int32 an i32,
// uint32 a u32, float32/float64 a float and bool a bool literal.
func (b *Builder) Expr(v any) NodeID {
	switch v := v.(type) {
	case NodeID:
		return v
	case string:
		return b.Ident(v)
	case symbol.ID:
		return b.IdentSym(v)
	case int:
		return b.Int(int64(v))
	case int32:
		return b.I32(v)
	case uint32:
		return b.U32(v)
	case float32:
		return b.Float(float64(v))
	case float64:
		return b.Float(v)
	case bool:
		return b.Bool(v)
	}

	panic(errors.Misuse("BAD_EXPRESSION_VALUE",
		fmt.Sprintf("cannot build an expression from %T", v), nil))
}

func (b *Builder) exprs(vs []any) []NodeID {
	out := make([]NodeID, len(vs))
	for i, v := range vs {
		out[i] = b.Expr(v)
	}
	return out
}

// Ident references name.
func (b *Builder) Ident(name string) NodeID {
	return b.IdentSym(b.Sym(name))
}

// IdentSym references sym.
func (b *Builder) IdentSym(sym symbol.ID) NodeID {
	return b.New(&Ident{Symbol: sym})
}

// Int is an unsuffixed integer literal.
func (b *Builder) Int(v int64) NodeID {
	return b.New(&IntLiteral{Value: v})
}

// I32 is an i-suffixed integer literal.
func (b *Builder) I32(v int32) NodeID {
	return b.New(&IntLiteral{Value: int64(v), Suffix: SuffixI})
}

// U32 is a u-suffixed integer literal.
func (b *Builder) U32(v uint32) NodeID {
	return b.New(&IntLiteral{Value: int64(v), Suffix: SuffixU})
}

// Float is a float literal.
func (b *Builder) Float(v float64) NodeID {
	return b.New(&FloatLiteral{Value: v})
}

// Bool is a bool literal.
func (b *Builder) Bool(v bool) NodeID {
	return b.New(&BoolLiteral{Value: v})
}

// Binary is lhs op rhs.
func (b *Builder) Binary(op BinaryOp, lhs, rhs any) NodeID {
	return b.New(&Binary{Op: op, LHS: b.Expr(lhs), RHS: b.Expr(rhs)})
}

func (b *Builder) Add(lhs, rhs any) NodeID        { return b.Binary(BinaryAdd, lhs, rhs) }
func (b *Builder) Sub(lhs, rhs any) NodeID        { return b.Binary(BinarySub, lhs, rhs) }
func (b *Builder) Mul(lhs, rhs any) NodeID        { return b.Binary(BinaryMul, lhs, rhs) }
func (b *Builder) Div(lhs, rhs any) NodeID        { return b.Binary(BinaryDiv, lhs, rhs) }
func (b *Builder) Equal(lhs, rhs any) NodeID      { return b.Binary(BinaryEqual, lhs, rhs) }
func (b *Builder) NotEqual(lhs, rhs any) NodeID   { return b.Binary(BinaryNotEqual, lhs, rhs) }
func (b *Builder) Less(lhs, rhs any) NodeID       { return b.Binary(BinaryLess, lhs, rhs) }
func (b *Builder) Greater(lhs, rhs any) NodeID    { return b.Binary(BinaryGreater, lhs, rhs) }
func (b *Builder) LogicalAnd(lhs, rhs any) NodeID { return b.Binary(BinaryLogicalAnd, lhs, rhs) }
func (b *Builder) LogicalOr(lhs, rhs any) NodeID  { return b.Binary(BinaryLogicalOr, lhs, rhs) }

// Not is !(e).
func (b *Builder) Not(e any) NodeID {
	return b.New(&Unary{Op: UnaryNot, Expr: b.Expr(e)})
}

// Negate is -(e).
func (b *Builder) Negate(e any) NodeID {
	return b.New(&Unary{Op: UnaryNegation, Expr: b.Expr(e)})
}

// Call calls the function or builtin called name.
func (b *Builder) Call(name string, args ...any) NodeID {
	return b.New(&Call{Target: b.Ident(name), Args: b.exprs(args)})
}

// CallSym calls the function named by sym.
func (b *Builder) CallSym(sym symbol.ID, args ...any) NodeID {
	return b.New(&Call{Target: b.IdentSym(sym), Args: b.exprs(args)})
}

// Construct builds a value of type ty.
func (b *Builder) Construct(ty NodeID, args ...any) NodeID {
	return b.New(&Call{Target: ty, Args: b.exprs(args)})
}

// IndexAccessor is obj[idx].
func (b *Builder) IndexAccessor(obj, idx any) NodeID {
	return b.New(&Index{Object: b.Expr(obj), Index: b.Expr(idx)})
}

// MemberAccessor is obj.member.
func (b *Builder) MemberAccessor(obj any, member string) NodeID {
	return b.New(&Member{Object: b.Expr(obj), Member: b.Sym(member)})
}

// MemberAccessorSym is obj.member for an already registered member symbol.
func (b *Builder) MemberAccessorSym(obj any, member symbol.ID) NodeID {
	return b.New(&Member{Object: b.Expr(obj), Member: member})
}

// Block groups statements.
func (b *Builder) Block(stmts ...NodeID) NodeID {
	return b.New(&Block{Statements: stmts})
}

// Decl declares the variable v in a function body.
func (b *Builder) Decl(v NodeID) NodeID {
	return b.New(&VarDecl{Variable: v})
}

// Assign is lhs = rhs.
func (b *Builder) Assign(lhs, rhs any) NodeID {
	return b.New(&Assign{LHS: b.Expr(lhs), RHS: b.Expr(rhs)})
}

// Increment is lhs++.
func (b *Builder) Increment(lhs any) NodeID {
	return b.New(&Increment{LHS: b.Expr(lhs)})
}

// Decrement is lhs--.
func (b *Builder) Decrement(lhs any) NodeID {
	return b.New(&Increment{LHS: b.Expr(lhs), Decrement: true})
}

// CallStmt discards the result of call.
func (b *Builder) CallStmt(call NodeID) NodeID {
	return b.New(&CallStatement{Call: call})
}

// If is if (cond) body else els. els may be None, a Block or an If.
func (b *Builder) If(cond any, body, els NodeID) NodeID {
	return b.New(&If{Condition: b.Expr(cond), Body: body, Else: els})
}

// For is for (init; cond; cont) body.
func (b *Builder) For(init, cond, cont, body NodeID) NodeID {
	return b.New(&For{Initializer: init, Condition: cond, Continuing: cont, Body: body})
}

// While is while (cond) body.
func (b *Builder) While(cond any, body NodeID) NodeID {
	return b.New(&While{Condition: b.Expr(cond), Body: body})
}

// Loop is loop { body continuing { cont } }. cont may be None.
func (b *Builder) Loop(body, cont NodeID) NodeID {
	return b.New(&Loop{Body: body, Continuing: cont})
}

func (b *Builder) Break() NodeID    { return b.New(&Break{}) }
func (b *Builder) Continue() NodeID { return b.New(&Continue{}) }
func (b *Builder) Discard() NodeID  { return b.New(&Discard{}) }
func (b *Builder) Return() NodeID   { return b.New(&Return{}) }

// ReturnValue is return v.
func (b *Builder) ReturnValue(v any) NodeID {
	return b.New(&Return{Value: b.Expr(v)})
}

func (b *Builder) fields(name string, ty, init NodeID, attrs []NodeID) VariableFields {
	return VariableFields{Name: b.Sym(name), Type: ty, Initializer: init, Attributes: attrs}
}

// Var is a function-scope var. ty or init may be None.
func (b *Builder) Var(name string, ty, init NodeID, attrs ...NodeID) NodeID {
	return b.New(&Var{VariableFields: b.fields(name, ty, init, attrs)})
}

// VarWith is a var with an explicit address space and access mode.
func (b *Builder) VarWith(name string, ty NodeID, space AddressSpace, access Access, init NodeID, attrs ...NodeID) NodeID {
	return b.New(&Var{VariableFields: b.fields(name, ty, init, attrs), AddressSpace: space, Access: access})
}

// Let is an immutable value.
func (b *Builder) Let(name string, ty, init NodeID) NodeID {
	return b.New(&Let{VariableFields: b.fields(name, ty, init, nil)})
}

// LetSym is Let for an already allocated symbol.
func (b *Builder) LetSym(sym symbol.ID, ty, init NodeID) NodeID {
	return b.New(&Let{VariableFields: VariableFields{Name: sym, Type: ty, Initializer: init}})
}

// Const is a constant.
func (b *Builder) Const(name string, ty, init NodeID) NodeID {
	return b.New(&Const{VariableFields: b.fields(name, ty, init, nil)})
}

// Override is a pipeline-overridable constant.
func (b *Builder) Override(name string, ty, init NodeID, attrs ...NodeID) NodeID {
	return b.New(&Override{VariableFields: b.fields(name, ty, init, attrs)})
}

// Param is a function parameter.
func (b *Builder) Param(name string, ty NodeID, attrs ...NodeID) NodeID {
	return b.ParamSym(b.Sym(name), ty, attrs...)
}

// ParamSym is Param for an already allocated symbol.
func (b *Builder) ParamSym(sym symbol.ID, ty NodeID, attrs ...NodeID) NodeID {
	return b.New(&Parameter{VariableFields: VariableFields{Name: sym, Type: ty, Attributes: attrs}})
}

// GlobalVar declares a module-scope var.
func (b *Builder) GlobalVar(name string, ty NodeID, space AddressSpace, attrs ...NodeID) NodeID {
	return b.GlobalVarSym(b.Sym(name), ty, space, attrs...)
}

// GlobalVarSym is GlobalVar for an already allocated symbol.
func (b *Builder) GlobalVarSym(sym symbol.ID, ty NodeID, space AddressSpace, attrs ...NodeID) NodeID {
	id := b.New(&Var{
		VariableFields: VariableFields{Name: sym, Type: ty, Attributes: attrs},
		AddressSpace:   space,
	})
	b.AddGlobal(id)
	return id
}

// GlobalConst declares a module-scope constant.
func (b *Builder) GlobalConst(name string, ty, init NodeID) NodeID {
	id := b.Const(name, ty, init)
	b.AddGlobal(id)
	return id
}

// Member is a structure member.
func (b *Builder) Member(name string, ty NodeID, attrs ...NodeID) NodeID {
	return b.New(&StructMember{Name: b.Sym(name), Type: ty, Attributes: attrs})
}

// Struct declares a structure.
func (b *Builder) Struct(name string, members ...NodeID) NodeID {
	return b.StructSym(b.Sym(name), members...)
}

// StructSym is Struct for an already allocated symbol.
func (b *Builder) StructSym(sym symbol.ID, members ...NodeID) NodeID {
	id := b.New(&Struct{Name: sym, Members: members})
	b.AddGlobal(id)
	return id
}

// Alias declares name as another name for ty.
func (b *Builder) Alias(name string, ty NodeID) NodeID {
	id := b.New(&Alias{Name: b.Sym(name), Type: ty})
	b.AddGlobal(id)
	return id
}

// Func declares a function whose body holds stmts.
func (b *Builder) Func(name string, params []NodeID, ret NodeID, stmts []NodeID, attrs ...NodeID) NodeID {
	return b.FuncReturning(name, params, ret, nil, stmts, attrs...)
}

// FuncReturning is Func with attributes on the return type.
func (b *Builder) FuncReturning(name string, params []NodeID, ret NodeID, retAttrs []NodeID, stmts []NodeID, attrs ...NodeID) NodeID {
	return b.FuncSym(b.Sym(name), params, ret, retAttrs, stmts, attrs...)
}

// FuncSym is FuncReturning for an already allocated symbol.
func (b *Builder) FuncSym(sym symbol.ID, params []NodeID, ret NodeID, retAttrs []NodeID, stmts []NodeID, attrs ...NodeID) NodeID {
	id := b.New(&Function{
		Name:             sym,
		Params:           params,
		ReturnType:       ret,
		Body:             b.Block(stmts...),
		Attributes:       attrs,
		ReturnAttributes: retAttrs,
	})
	b.AddGlobal(id)
	return id
}

// Stage is @vertex, @fragment or @compute.
func (b *Builder) Stage(stage PipelineStage) NodeID {
	return b.New(&StageAttribute{Stage: stage})
}

// WorkgroupSize is @workgroup_size(x, y, z) with optional y and z.
func (b *Builder) WorkgroupSize(x any, yz ...any) NodeID {
	a := &WorkgroupAttribute{X: b.Expr(x)}
	if len(yz) > 0 {
		a.Y = b.Expr(yz[0])
	}
	if len(yz) > 1 {
		a.Z = b.Expr(yz[1])
	}
	return b.New(a)
}

func (b *Builder) Builtin(v BuiltinValue) NodeID { return b.New(&BuiltinAttribute{Builtin: v}) }
func (b *Builder) Location(v uint32) NodeID     { return b.New(&LocationAttribute{Value: v}) }
func (b *Builder) Group(v uint32) NodeID        { return b.New(&GroupAttribute{Value: v}) }
func (b *Builder) Binding(v uint32) NodeID      { return b.New(&BindingAttribute{Value: v}) }
func (b *Builder) IDAttr(v uint32) NodeID       { return b.New(&IDAttribute{Value: v}) }

// Ty returns the type node helpers.
func (b *Builder) Ty() TypeBuilder {
	return TypeBuilder{b: b}
}

// TypeBuilder creates type nodes.
type TypeBuilder struct {
	b *Builder
}

func (t TypeBuilder) Bool() NodeID { return t.b.New(&Bool{}) }
func (t TypeBuilder) I32() NodeID  { return t.b.New(&I32{}) }
func (t TypeBuilder) U32() NodeID  { return t.b.New(&U32{}) }
func (t TypeBuilder) F32() NodeID  { return t.b.New(&F32{}) }

// Vec is vecN<elem>.
func (t TypeBuilder) Vec(width int, elem NodeID) NodeID {
	return t.b.New(&Vector{Elem: elem, Width: width})
}

func (t TypeBuilder) Vec2(elem NodeID) NodeID { return t.Vec(2, elem) }
func (t TypeBuilder) Vec3(elem NodeID) NodeID { return t.Vec(3, elem) }
func (t TypeBuilder) Vec4(elem NodeID) NodeID { return t.Vec(4, elem) }

// Mat is matCxR<elem>.
func (t TypeBuilder) Mat(columns, rows int, elem NodeID) NodeID {
	return t.b.New(&Matrix{Elem: elem, Columns: columns, Rows: rows})
}

// Array is array<elem, count>, runtime-sized when count is zero.
func (t TypeBuilder) Array(elem NodeID, count int) NodeID {
	return t.b.New(&Array{Elem: elem, Count: count})
}

func (t TypeBuilder) Sampler() NodeID           { return t.b.New(&Sampler{}) }
func (t TypeBuilder) SamplerComparison() NodeID { return t.b.New(&Sampler{Comparison: true}) }

// Texture is texture_<dim><elem>.
func (t TypeBuilder) Texture(dim TextureDimension, elem NodeID) NodeID {
	return t.b.New(&SampledTexture{Dim: dim, Elem: elem})
}

// Texture2D is texture_2d<f32>.
func (t TypeBuilder) Texture2D() NodeID {
	return t.Texture(Dim2D, t.F32())
}

func (t TypeBuilder) ExternalTexture() NodeID { return t.b.New(&ExternalTexture{}) }

// Named references a struct or alias by name.
func (t TypeBuilder) Named(name string) NodeID {
	return t.NamedSym(t.b.Sym(name))
}

// NamedSym references a struct or alias by symbol.
func (t TypeBuilder) NamedSym(sym symbol.ID) NodeID {
	return t.b.New(&TypeName{Name: sym})
}
