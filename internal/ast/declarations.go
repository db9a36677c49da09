package ast

import (
	"github.com/orizon-lang/prism/internal/castable"
	"github.com/orizon-lang/prism/internal/symbol"
)

// VariableFields are shared by every variable kind.
type VariableFields struct {
	Name        symbol.ID
	Type        NodeID // may be None when Initializer is set
	Initializer NodeID
	Attributes  []NodeID
}

// Fields returns the shared variable fields.
func (v *VariableFields) Fields() *VariableFields { return v }

// DeclName returns the declared symbol.
func (v *VariableFields) DeclName() symbol.ID { return v.Name }

// Variable is implemented by Var, Let, Const, Override and Parameter.
type Variable interface {
	Declaration
	Fields() *VariableFields
}

// Var is a mutable variable, at module or function scope.
type Var struct {
	Base
	VariableFields
	AddressSpace AddressSpace
	Access       Access
}

// Let is an immutable function-scope value.
type Let struct {
	Base
	VariableFields
}

// Const is a constant expression value.
type Const struct {
	Base
	VariableFields
}

// Override is a pipeline-overridable constant.
type Override struct {
	Base
	VariableFields
}

// Parameter is a function parameter.
type Parameter struct {
	Base
	VariableFields
}

// Function declares a function; entry points carry a StageAttribute.
type Function struct {
	Base
	Name             symbol.ID
	Params           []NodeID
	ReturnType       NodeID // None for no return value
	Body             NodeID
	Attributes       []NodeID
	ReturnAttributes []NodeID
}

// DeclName returns the function name.
func (f *Function) DeclName() symbol.ID { return f.Name }

// Struct declares a structure type.
type Struct struct {
	Base
	Name       symbol.ID
	Members    []NodeID
	Attributes []NodeID
}

// DeclName returns the structure name.
func (s *Struct) DeclName() symbol.ID { return s.Name }

// StructMember is one field of a Struct.
type StructMember struct {
	Base
	Name       symbol.ID
	Type       NodeID
	Attributes []NodeID
}

// Alias declares another name for a type.
type Alias struct {
	Base
	Name symbol.ID
	Type NodeID
}

// DeclName returns the alias name.
func (a *Alias) DeclName() symbol.ID { return a.Name }

// Module is the root node. Globals holds the module-scope declarations in
// source order.
type Module struct {
	Base
	Globals []NodeID
}

var (
	variableInfo     = castable.Register[Variable]("Variable", declarationInfo)
	varInfo          = castable.Register[*Var]("Var", variableInfo)
	letInfo          = castable.Register[*Let]("Let", variableInfo)
	constInfo        = castable.Register[*Const]("Const", variableInfo)
	overrideInfo     = castable.Register[*Override]("Override", variableInfo)
	parameterInfo    = castable.Register[*Parameter]("Parameter", variableInfo)
	functionInfo     = castable.Register[*Function]("Function", declarationInfo)
	structInfo       = castable.Register[*Struct]("Struct", typeDeclInfo)
	structMemberInfo = castable.Register[*StructMember]("StructMember", nodeInfo)
	aliasInfo        = castable.Register[*Alias]("Alias", typeDeclInfo)
	moduleInfo       = castable.Register[*Module]("Module", nodeInfo)
)

func (*Var) TypeInfo() *castable.TypeInfo          { return varInfo }
func (*Let) TypeInfo() *castable.TypeInfo          { return letInfo }
func (*Const) TypeInfo() *castable.TypeInfo        { return constInfo }
func (*Override) TypeInfo() *castable.TypeInfo     { return overrideInfo }
func (*Parameter) TypeInfo() *castable.TypeInfo    { return parameterInfo }
func (*Function) TypeInfo() *castable.TypeInfo     { return functionInfo }
func (*Struct) TypeInfo() *castable.TypeInfo       { return structInfo }
func (*StructMember) TypeInfo() *castable.TypeInfo { return structMemberInfo }
func (*Alias) TypeInfo() *castable.TypeInfo        { return aliasInfo }
func (*Module) TypeInfo() *castable.TypeInfo       { return moduleInfo }

func (*Struct) typeDeclNode() {}
func (*Alias) typeDeclNode()  {}
