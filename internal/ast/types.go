package ast

import (
	"github.com/orizon-lang/prism/internal/castable"
	"github.com/orizon-lang/prism/internal/symbol"
)

// Bool is the bool type.
type Bool struct{ Base }

// I32 is the 32-bit signed integer type.
type I32 struct{ Base }

// U32 is the 32-bit unsigned integer type.
type U32 struct{ Base }

// F32 is the 32-bit float type.
type F32 struct{ Base }

// Vector is vecN<Elem>.
type Vector struct {
	Base
	Elem  NodeID
	Width int
}

// Matrix is matCxR<Elem>.
type Matrix struct {
	Base
	Elem    NodeID
	Columns int
	Rows    int
}

// Array is array<Elem, Count>; a zero Count is a runtime-sized array.
type Array struct {
	Base
	Elem  NodeID
	Count int
}

// Sampler is sampler or sampler_comparison.
type Sampler struct {
	Base
	Comparison bool
}

// SampledTexture is texture_<dim><Elem>.
type SampledTexture struct {
	Base
	Dim  TextureDimension
	Elem NodeID
}

// ExternalTexture is texture_external.
type ExternalTexture struct{ Base }

// TypeName refers to a declared struct or alias.
type TypeName struct {
	Base
	Name symbol.ID
}

var (
	boolInfo            = castable.Register[*Bool]("Bool", typeInfo)
	i32Info             = castable.Register[*I32]("I32", typeInfo)
	u32Info             = castable.Register[*U32]("U32", typeInfo)
	f32Info             = castable.Register[*F32]("F32", typeInfo)
	vectorInfo          = castable.Register[*Vector]("Vector", typeInfo)
	matrixInfo          = castable.Register[*Matrix]("Matrix", typeInfo)
	arrayInfo           = castable.Register[*Array]("Array", typeInfo)
	samplerInfo         = castable.Register[*Sampler]("Sampler", typeInfo)
	sampledTextureInfo  = castable.Register[*SampledTexture]("SampledTexture", textureInfo)
	externalTextureInfo = castable.Register[*ExternalTexture]("ExternalTexture", textureInfo)
	typeNameInfo        = castable.Register[*TypeName]("TypeName", typeInfo)
)

func (*Bool) TypeInfo() *castable.TypeInfo            { return boolInfo }
func (*I32) TypeInfo() *castable.TypeInfo             { return i32Info }
func (*U32) TypeInfo() *castable.TypeInfo             { return u32Info }
func (*F32) TypeInfo() *castable.TypeInfo             { return f32Info }
func (*Vector) TypeInfo() *castable.TypeInfo          { return vectorInfo }
func (*Matrix) TypeInfo() *castable.TypeInfo          { return matrixInfo }
func (*Array) TypeInfo() *castable.TypeInfo           { return arrayInfo }
func (*Sampler) TypeInfo() *castable.TypeInfo         { return samplerInfo }
func (*SampledTexture) TypeInfo() *castable.TypeInfo  { return sampledTextureInfo }
func (*ExternalTexture) TypeInfo() *castable.TypeInfo { return externalTextureInfo }
func (*TypeName) TypeInfo() *castable.TypeInfo        { return typeNameInfo }

func (*Bool) typeNode()            {}
func (*I32) typeNode()             {}
func (*U32) typeNode()             {}
func (*F32) typeNode()             {}
func (*Vector) typeNode()          {}
func (*Matrix) typeNode()          {}
func (*Array) typeNode()           {}
func (*Sampler) typeNode()         {}
func (*SampledTexture) typeNode()  {}
func (*ExternalTexture) typeNode() {}
func (*TypeName) typeNode()        {}

func (*SampledTexture) textureNode()  {}
func (*ExternalTexture) textureNode() {}
