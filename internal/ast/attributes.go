package ast

import (
	"github.com/orizon-lang/prism/internal/castable"
)

// StageAttribute marks an entry point: @vertex, @fragment or @compute.
type StageAttribute struct {
	Base
	Stage PipelineStage
}

// WorkgroupAttribute is @workgroup_size(X, Y, Z); Y and Z may be None.
type WorkgroupAttribute struct {
	Base
	X, Y, Z NodeID
}

// BuiltinAttribute is @builtin(Builtin).
type BuiltinAttribute struct {
	Base
	Builtin BuiltinValue
}

// LocationAttribute is @location(Value).
type LocationAttribute struct {
	Base
	Value uint32
}

// GroupAttribute is @group(Value).
type GroupAttribute struct {
	Base
	Value uint32
}

// BindingAttribute is @binding(Value).
type BindingAttribute struct {
	Base
	Value uint32
}

// IDAttribute is @id(Value) on an override.
type IDAttribute struct {
	Base
	Value uint32
}

var (
	stageAttributeInfo     = castable.Register[*StageAttribute]("StageAttribute", attributeInfo)
	workgroupAttributeInfo = castable.Register[*WorkgroupAttribute]("WorkgroupAttribute", attributeInfo)
	builtinAttributeInfo   = castable.Register[*BuiltinAttribute]("BuiltinAttribute", attributeInfo)
	locationAttributeInfo  = castable.Register[*LocationAttribute]("LocationAttribute", attributeInfo)
	groupAttributeInfo     = castable.Register[*GroupAttribute]("GroupAttribute", attributeInfo)
	bindingAttributeInfo   = castable.Register[*BindingAttribute]("BindingAttribute", attributeInfo)
	idAttributeInfo        = castable.Register[*IDAttribute]("IDAttribute", attributeInfo)
)

func (*StageAttribute) TypeInfo() *castable.TypeInfo     { return stageAttributeInfo }
func (*WorkgroupAttribute) TypeInfo() *castable.TypeInfo { return workgroupAttributeInfo }
func (*BuiltinAttribute) TypeInfo() *castable.TypeInfo   { return builtinAttributeInfo }
func (*LocationAttribute) TypeInfo() *castable.TypeInfo  { return locationAttributeInfo }
func (*GroupAttribute) TypeInfo() *castable.TypeInfo     { return groupAttributeInfo }
func (*BindingAttribute) TypeInfo() *castable.TypeInfo   { return bindingAttributeInfo }
func (*IDAttribute) TypeInfo() *castable.TypeInfo        { return idAttributeInfo }

func (*StageAttribute) attributeNode()     {}
func (*WorkgroupAttribute) attributeNode() {}
func (*BuiltinAttribute) attributeNode()   {}
func (*LocationAttribute) attributeNode()  {}
func (*GroupAttribute) attributeNode()     {}
func (*BindingAttribute) attributeNode()   {}
func (*IDAttribute) attributeNode()        {}
