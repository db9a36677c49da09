package resolver

import (
	"github.com/orizon-lang/prism/internal/sem"
)

// builtinFunc computes the result type of a builtin call from its
// argument types. A nil result means the arguments do not fit.
type builtinFunc func(args []sem.Type) sem.Type

func firstArg(args []sem.Type) sem.Type {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func elemOfFirst(args []sem.Type) sem.Type {
	if len(args) == 0 {
		return nil
	}
	return sem.ElementOf(args[0])
}

func returns(t sem.Type) builtinFunc {
	return func([]sem.Type) sem.Type { return t }
}

// texelOf returns vec4 of the sampled type of the texture in args[0].
// External textures always yield f32 texels.
func texelOf(args []sem.Type) sem.Type {
	elem := sem.Type(sem.F32Type)
	if len(args) > 0 {
		if tex, ok := args[0].(*sem.SampledTexture); ok {
			elem = tex.Elem
		}
	}
	return &sem.Vector{Elem: elem, Width: 4}
}

func boolLike(args []sem.Type) sem.Type {
	if v, ok := firstArg(args).(*sem.Vector); ok {
		return &sem.Vector{Elem: sem.BoolType, Width: v.Width}
	}
	return sem.BoolType
}

var builtins = map[string]builtinFunc{
	"abs":         firstArg,
	"ceil":        firstArg,
	"clamp":       firstArg,
	"cos":         firstArg,
	"cross":       firstArg,
	"exp":         firstArg,
	"exp2":        firstArg,
	"floor":       firstArg,
	"fract":       firstArg,
	"inverseSqrt": firstArg,
	"log":         firstArg,
	"log2":        firstArg,
	"max":         firstArg,
	"min":         firstArg,
	"mix":         firstArg,
	"normalize":   firstArg,
	"pow":         firstArg,
	"round":       firstArg,
	"select":      firstArg,
	"sign":        firstArg,
	"sin":         firstArg,
	"smoothstep":  firstArg,
	"sqrt":        firstArg,
	"step":        firstArg,
	"tan":         firstArg,
	"trunc":       firstArg,
	"dot":         elemOfFirst,
	"length":      elemOfFirst,
	"distance":    elemOfFirst,
	"all":         returns(sem.BoolType),
	"any":         returns(sem.BoolType),
	"isNan":       boolLike,
	"arrayLength": returns(sem.U32Type),

	"textureSample":                texelOf,
	"textureSampleLevel":           texelOf,
	"textureSampleBias":            texelOf,
	"textureSampleGrad":            texelOf,
	"textureSampleBaseClampToEdge": texelOf,
	"textureLoad":                  texelOf,
	"textureDimensions":            returns(&sem.Vector{Elem: sem.I32Type, Width: 2}),
	"textureNumLevels":             returns(sem.I32Type),

	"workgroupBarrier": returns(sem.VoidType),
	"storageBarrier":   returns(sem.VoidType),
}

// IsBuiltin reports whether name is a builtin function.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}
