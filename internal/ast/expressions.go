package ast

import (
	"github.com/orizon-lang/prism/internal/castable"
	"github.com/orizon-lang/prism/internal/symbol"
)

// Ident refers to a variable, function or builtin by name.
type Ident struct {
	Base
	Symbol symbol.ID
}

// IntLiteral is an integer constant.
type IntLiteral struct {
	Base
	Value  int64
	Suffix IntSuffix
}

// FloatLiteral is a floating point constant.
type FloatLiteral struct {
	Base
	Value float64
}

// BoolLiteral is true or false.
type BoolLiteral struct {
	Base
	Value bool
}

// Binary is LHS Op RHS.
type Binary struct {
	Base
	Op  BinaryOp
	LHS NodeID
	RHS NodeID
}

// Unary is Op Expr.
type Unary struct {
	Base
	Op   UnaryOp
	Expr NodeID
}

// Call invokes a function or builtin (Target is an Ident) or constructs a
// value (Target is a Type).
type Call struct {
	Base
	Target NodeID
	Args   []NodeID
}

// Index is Object[Index].
type Index struct {
	Base
	Object NodeID
	Index  NodeID
}

// Member is Object.Member, a struct field or a vector swizzle.
type Member struct {
	Base
	Object NodeID
	Member symbol.ID
}

var (
	identInfo        = castable.Register[*Ident]("Ident", expressionInfo)
	intLiteralInfo   = castable.Register[*IntLiteral]("IntLiteral", literalInfo)
	floatLiteralInfo = castable.Register[*FloatLiteral]("FloatLiteral", literalInfo)
	boolLiteralInfo  = castable.Register[*BoolLiteral]("BoolLiteral", literalInfo)
	binaryInfo       = castable.Register[*Binary]("Binary", expressionInfo)
	unaryInfo        = castable.Register[*Unary]("Unary", expressionInfo)
	callInfo         = castable.Register[*Call]("Call", expressionInfo)
	indexInfo        = castable.Register[*Index]("Index", expressionInfo)
	memberInfo       = castable.Register[*Member]("Member", expressionInfo)
)

func (*Ident) TypeInfo() *castable.TypeInfo        { return identInfo }
func (*IntLiteral) TypeInfo() *castable.TypeInfo   { return intLiteralInfo }
func (*FloatLiteral) TypeInfo() *castable.TypeInfo { return floatLiteralInfo }
func (*BoolLiteral) TypeInfo() *castable.TypeInfo  { return boolLiteralInfo }
func (*Binary) TypeInfo() *castable.TypeInfo       { return binaryInfo }
func (*Unary) TypeInfo() *castable.TypeInfo        { return unaryInfo }
func (*Call) TypeInfo() *castable.TypeInfo         { return callInfo }
func (*Index) TypeInfo() *castable.TypeInfo        { return indexInfo }
func (*Member) TypeInfo() *castable.TypeInfo       { return memberInfo }

func (*Ident) expressionNode()        {}
func (*IntLiteral) expressionNode()   {}
func (*FloatLiteral) expressionNode() {}
func (*BoolLiteral) expressionNode()  {}
func (*Binary) expressionNode()       {}
func (*Unary) expressionNode()        {}
func (*Call) expressionNode()         {}
func (*Index) expressionNode()        {}
func (*Member) expressionNode()       {}

func (*IntLiteral) literalNode()   {}
func (*FloatLiteral) literalNode() {}
func (*BoolLiteral) literalNode()  {}
