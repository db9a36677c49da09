package ast

// BinaryOp is a binary operator.
type BinaryOp int

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryAnd
	BinaryOr
	BinaryXor
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryGreater
	BinaryLessEqual
	BinaryGreaterEqual
	BinaryShiftLeft
	BinaryShiftRight
)

var binaryOpNames = [...]string{
	BinaryAdd:          "+",
	BinarySub:          "-",
	BinaryMul:          "*",
	BinaryDiv:          "/",
	BinaryMod:          "%",
	BinaryAnd:          "&",
	BinaryOr:           "|",
	BinaryXor:          "^",
	BinaryLogicalAnd:   "&&",
	BinaryLogicalOr:    "||",
	BinaryEqual:        "==",
	BinaryNotEqual:     "!=",
	BinaryLess:         "<",
	BinaryGreater:      ">",
	BinaryLessEqual:    "<=",
	BinaryGreaterEqual: ">=",
	BinaryShiftLeft:    "<<",
	BinaryShiftRight:   ">>",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// IsComparison reports whether op yields a boolean from two operands.
func (op BinaryOp) IsComparison() bool {
	return op >= BinaryEqual && op <= BinaryGreaterEqual
}

// IsLogical reports whether op is a short-circuiting operator.
func (op BinaryOp) IsLogical() bool {
	return op == BinaryLogicalAnd || op == BinaryLogicalOr
}

// ParseBinaryOp maps an operator token to its BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i, name := range binaryOpNames {
		if name == s {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// UnaryOp is a unary operator.
type UnaryOp int

const (
	UnaryNegation UnaryOp = iota
	UnaryNot
	UnaryComplement
)

var unaryOpNames = [...]string{
	UnaryNegation:   "-",
	UnaryNot:        "!",
	UnaryComplement: "~",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "?"
}

// ParseUnaryOp maps an operator token to its UnaryOp.
func ParseUnaryOp(s string) (UnaryOp, bool) {
	for i, name := range unaryOpNames {
		if name == s {
			return UnaryOp(i), true
		}
	}
	return 0, false
}

// IntSuffix records how an integer literal was spelled.
type IntSuffix int

const (
	SuffixNone IntSuffix = iota
	SuffixI
	SuffixU
)

func (s IntSuffix) String() string {
	switch s {
	case SuffixI:
		return "i"
	case SuffixU:
		return "u"
	default:
		return ""
	}
}

// AddressSpace of a variable.
type AddressSpace int

const (
	AddressSpaceNone AddressSpace = iota
	AddressSpaceFunction
	AddressSpacePrivate
	AddressSpaceWorkgroup
	AddressSpaceUniform
	AddressSpaceStorage
	AddressSpaceHandle
)

var addressSpaceNames = [...]string{
	AddressSpaceNone:      "",
	AddressSpaceFunction:  "function",
	AddressSpacePrivate:   "private",
	AddressSpaceWorkgroup: "workgroup",
	AddressSpaceUniform:   "uniform",
	AddressSpaceStorage:   "storage",
	AddressSpaceHandle:    "handle",
}

func (s AddressSpace) String() string {
	if int(s) < len(addressSpaceNames) {
		return addressSpaceNames[s]
	}
	return "?"
}

// ParseAddressSpace maps a name to its AddressSpace.
func ParseAddressSpace(s string) (AddressSpace, bool) {
	for i, name := range addressSpaceNames {
		if name == s {
			return AddressSpace(i), true
		}
	}
	return 0, false
}

// Access mode of a storage variable.
type Access int

const (
	AccessUndefined Access = iota
	AccessRead
	AccessWrite
	AccessReadWrite
)

var accessNames = [...]string{
	AccessUndefined: "",
	AccessRead:      "read",
	AccessWrite:     "write",
	AccessReadWrite: "read_write",
}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return "?"
}

// ParseAccess maps a name to its Access.
func ParseAccess(s string) (Access, bool) {
	for i, name := range accessNames {
		if name == s {
			return Access(i), true
		}
	}
	return 0, false
}

// BuiltinValue names a pipeline builtin input or output.
type BuiltinValue int

const (
	BuiltinNone BuiltinValue = iota
	BuiltinVertexIndex
	BuiltinInstanceIndex
	BuiltinPosition
	BuiltinFrontFacing
	BuiltinFragDepth
	BuiltinLocalInvocationID
	BuiltinLocalInvocationIndex
	BuiltinGlobalInvocationID
	BuiltinWorkgroupID
	BuiltinNumWorkgroups
	BuiltinSampleIndex
	BuiltinSampleMask
)

var builtinNames = [...]string{
	BuiltinNone:                 "",
	BuiltinVertexIndex:          "vertex_index",
	BuiltinInstanceIndex:        "instance_index",
	BuiltinPosition:             "position",
	BuiltinFrontFacing:          "front_facing",
	BuiltinFragDepth:            "frag_depth",
	BuiltinLocalInvocationID:    "local_invocation_id",
	BuiltinLocalInvocationIndex: "local_invocation_index",
	BuiltinGlobalInvocationID:   "global_invocation_id",
	BuiltinWorkgroupID:          "workgroup_id",
	BuiltinNumWorkgroups:        "num_workgroups",
	BuiltinSampleIndex:          "sample_index",
	BuiltinSampleMask:           "sample_mask",
}

func (b BuiltinValue) String() string {
	if int(b) < len(builtinNames) {
		return builtinNames[b]
	}
	return "?"
}

// ParseBuiltin maps a name to its BuiltinValue.
func ParseBuiltin(s string) (BuiltinValue, bool) {
	for i, name := range builtinNames {
		if name == s && i != int(BuiltinNone) {
			return BuiltinValue(i), true
		}
	}
	return BuiltinNone, false
}

// PipelineStage of an entry point.
type PipelineStage int

const (
	StageNone PipelineStage = iota
	StageVertex
	StageFragment
	StageCompute
)

var stageNames = [...]string{
	StageNone:     "",
	StageVertex:   "vertex",
	StageFragment: "fragment",
	StageCompute:  "compute",
}

func (s PipelineStage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "?"
}

// ParseStage maps a name to its PipelineStage.
func ParseStage(s string) (PipelineStage, bool) {
	for i, name := range stageNames {
		if name == s && i != int(StageNone) {
			return PipelineStage(i), true
		}
	}
	return StageNone, false
}

// TextureDimension of a sampled texture.
type TextureDimension int

const (
	Dim1D TextureDimension = iota
	Dim2D
	Dim2DArray
	Dim3D
	DimCube
	DimCubeArray
)

var dimNames = [...]string{
	Dim1D:        "1d",
	Dim2D:        "2d",
	Dim2DArray:   "2d_array",
	Dim3D:        "3d",
	DimCube:      "cube",
	DimCubeArray: "cube_array",
}

func (d TextureDimension) String() string {
	if int(d) < len(dimNames) {
		return dimNames[d]
	}
	return "?"
}

// ParseTextureDimension maps a name to its TextureDimension.
func ParseTextureDimension(s string) (TextureDimension, bool) {
	for i, name := range dimNames {
		if name == s {
			return TextureDimension(i), true
		}
	}
	return 0, false
}
