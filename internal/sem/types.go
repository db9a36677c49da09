// Package sem holds the semantic facts the resolver attaches to a program:
// resolved types, variable and function summaries, and statement
// behaviors. Semantic objects are immutable once the resolver returns.
package sem

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/castable"
)

// Type is a resolved type.
type Type interface {
	castable.Castable
	String() string
	Equals(other Type) bool
}

// Scalar is bool, i32, u32 or f32.
type Scalar interface {
	Type
	scalar()
}

type (
	// Void is the result type of a function without a return value.
	Void struct{}
	Bool struct{}
	I32  struct{}
	U32  struct{}
	F32  struct{}
)

// Vector is vecN<Elem>.
type Vector struct {
	Elem  Type
	Width int
}

// Matrix is matCxR<Elem>.
type Matrix struct {
	Elem    Type
	Columns int
	Rows    int
}

// Array is array<Elem, Count>, runtime-sized when Count is zero.
type Array struct {
	Elem  Type
	Count int
}

// StructMember is one resolved member.
type StructMember struct {
	Decl    ast.NodeID
	Name    string
	Type    Type
	Index   int
	Builtin ast.BuiltinValue
}

// Struct is a resolved structure type. Two Structs are equal only when
// they come from the same declaration.
type Struct struct {
	Decl    ast.NodeID
	Name    string
	Members []*StructMember
}

// Member returns the member called name.
func (s *Struct) Member(name string) (*StructMember, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Sampler is sampler or sampler_comparison.
type Sampler struct {
	Comparison bool
}

// Texture is any texture type.
type Texture interface {
	Type
	texture()
}

// SampledTexture is texture_<Dim><Elem>.
type SampledTexture struct {
	Dim  ast.TextureDimension
	Elem Type
}

// ExternalTexture is texture_external.
type ExternalTexture struct{}

var (
	typeInfo            = castable.Register[Type]("Type", nil)
	scalarInfo          = castable.Register[Scalar]("Scalar", typeInfo)
	voidInfo            = castable.Register[*Void]("Void", typeInfo)
	boolInfo            = castable.Register[*Bool]("Bool", scalarInfo)
	i32Info             = castable.Register[*I32]("I32", scalarInfo)
	u32Info             = castable.Register[*U32]("U32", scalarInfo)
	f32Info             = castable.Register[*F32]("F32", scalarInfo)
	vectorInfo          = castable.Register[*Vector]("Vector", typeInfo)
	matrixInfo          = castable.Register[*Matrix]("Matrix", typeInfo)
	arrayInfo           = castable.Register[*Array]("Array", typeInfo)
	structInfo          = castable.Register[*Struct]("Struct", typeInfo)
	samplerInfo         = castable.Register[*Sampler]("Sampler", typeInfo)
	textureInfo         = castable.Register[Texture]("Texture", typeInfo)
	sampledTextureInfo  = castable.Register[*SampledTexture]("SampledTexture", textureInfo)
	externalTextureInfo = castable.Register[*ExternalTexture]("ExternalTexture", textureInfo)
)

// Numeric is the category of scalar types that support arithmetic.
var Numeric = castable.NewCategory("numeric", i32Info, u32Info, f32Info)

// Integer is the category of integer scalar types.
var Integer = castable.NewCategory("integer", i32Info, u32Info)

func (*Void) TypeInfo() *castable.TypeInfo            { return voidInfo }
func (*Bool) TypeInfo() *castable.TypeInfo            { return boolInfo }
func (*I32) TypeInfo() *castable.TypeInfo             { return i32Info }
func (*U32) TypeInfo() *castable.TypeInfo             { return u32Info }
func (*F32) TypeInfo() *castable.TypeInfo             { return f32Info }
func (*Vector) TypeInfo() *castable.TypeInfo          { return vectorInfo }
func (*Matrix) TypeInfo() *castable.TypeInfo          { return matrixInfo }
func (*Array) TypeInfo() *castable.TypeInfo           { return arrayInfo }
func (*Struct) TypeInfo() *castable.TypeInfo          { return structInfo }
func (*Sampler) TypeInfo() *castable.TypeInfo         { return samplerInfo }
func (*SampledTexture) TypeInfo() *castable.TypeInfo  { return sampledTextureInfo }
func (*ExternalTexture) TypeInfo() *castable.TypeInfo { return externalTextureInfo }

func (*Bool) scalar() {}
func (*I32) scalar()  {}
func (*U32) scalar()  {}
func (*F32) scalar()  {}

func (*SampledTexture) texture()  {}
func (*ExternalTexture) texture() {}

// Shared scalar instances. Scalars carry no state, so every resolved
// occurrence uses these.
var (
	VoidType = &Void{}
	BoolType = &Bool{}
	I32Type  = &I32{}
	U32Type  = &U32{}
	F32Type  = &F32{}
)

func (*Void) String() string { return "void" }
func (*Bool) String() string { return "bool" }
func (*I32) String() string  { return "i32" }
func (*U32) String() string  { return "u32" }
func (*F32) String() string  { return "f32" }

func (v *Vector) String() string { return fmt.Sprintf("vec%d<%s>", v.Width, v.Elem) }

func (m *Matrix) String() string {
	return fmt.Sprintf("mat%dx%d<%s>", m.Columns, m.Rows, m.Elem)
}

func (a *Array) String() string {
	if a.Count == 0 {
		return fmt.Sprintf("array<%s>", a.Elem)
	}
	return fmt.Sprintf("array<%s, %d>", a.Elem, a.Count)
}

func (s *Struct) String() string { return s.Name }

func (s *Sampler) String() string {
	if s.Comparison {
		return "sampler_comparison"
	}
	return "sampler"
}

func (t *SampledTexture) String() string {
	return fmt.Sprintf("texture_%s<%s>", t.Dim, t.Elem)
}

func (*ExternalTexture) String() string { return "texture_external" }

func sameKind(a castable.Castable, b Type) bool {
	return b != nil && a.TypeInfo() == b.TypeInfo()
}

func (t *Void) Equals(o Type) bool            { return sameKind(t, o) }
func (t *Bool) Equals(o Type) bool            { return sameKind(t, o) }
func (t *I32) Equals(o Type) bool             { return sameKind(t, o) }
func (t *U32) Equals(o Type) bool             { return sameKind(t, o) }
func (t *F32) Equals(o Type) bool             { return sameKind(t, o) }
func (t *ExternalTexture) Equals(o Type) bool { return sameKind(t, o) }

func (v *Vector) Equals(o Type) bool {
	ov, ok := o.(*Vector)
	return ok && ov.Width == v.Width && ov.Elem.Equals(v.Elem)
}

func (m *Matrix) Equals(o Type) bool {
	om, ok := o.(*Matrix)
	return ok && om.Columns == m.Columns && om.Rows == m.Rows && om.Elem.Equals(m.Elem)
}

func (a *Array) Equals(o Type) bool {
	oa, ok := o.(*Array)
	return ok && oa.Count == a.Count && oa.Elem.Equals(a.Elem)
}

func (s *Struct) Equals(o Type) bool {
	os, ok := o.(*Struct)
	return ok && os.Decl == s.Decl
}

func (s *Sampler) Equals(o Type) bool {
	os, ok := o.(*Sampler)
	return ok && os.Comparison == s.Comparison
}

func (t *SampledTexture) Equals(o Type) bool {
	ot, ok := o.(*SampledTexture)
	return ok && ot.Dim == t.Dim && ot.Elem.Equals(t.Elem)
}

// ElementOf returns the element type of a vector, matrix or array, or t
// itself for a scalar.
func ElementOf(t Type) Type {
	switch t := t.(type) {
	case *Vector:
		return t.Elem
	case *Matrix:
		return t.Elem
	case *Array:
		return t.Elem
	}
	return t
}

// IsHostShareable reports whether values of t may live in a uniform or
// storage buffer.
func IsHostShareable(t Type) bool {
	switch t := t.(type) {
	case *I32, *U32, *F32:
		return true
	case *Vector:
		return IsHostShareable(t.Elem)
	case *Matrix:
		return IsHostShareable(t.Elem)
	case *Array:
		return IsHostShareable(t.Elem)
	case *Struct:
		for _, m := range t.Members {
			if !IsHostShareable(m.Type) {
				return false
			}
		}
		return true
	}
	return false
}
