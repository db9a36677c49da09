package transform

import (
	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
)

// FirstIndexOffsetBindingPoint places the uniform buffer holding the
// first vertex and first instance offsets.
type FirstIndexOffsetBindingPoint struct {
	Group   uint32
	Binding uint32
}

// FirstIndexOffsetData reports which offsets the program reads and where
// they sit in the uniform buffer.
type FirstIndexOffsetData struct {
	HasVertexIndex      bool
	HasInstanceIndex    bool
	FirstVertexOffset   uint32
	FirstInstanceOffset uint32
}

const (
	firstVertexName   = "first_vertex_index"
	firstInstanceName = "first_instance_index"
)

// FirstIndexOffset adds the offsets of the first vertex and instance to
// every read of the vertex_index and instance_index builtins, for APIs
// whose builtins start at zero.
type FirstIndexOffset struct{}

// NewFirstIndexOffset creates the transform.
func NewFirstIndexOffset() *FirstIndexOffset { return &FirstIndexOffset{} }

func (*FirstIndexOffset) Name() string { return "FirstIndexOffset" }

func (*FirstIndexOffset) ShouldRun(prog *program.Program, _ *DataMap) bool {
	return prog.Sem().HasStage(ast.StageVertex)
}

func (t *FirstIndexOffset) Run(ctx *clone.Context, inputs, outputs *DataMap) error {
	bp, ok := Get[FirstIndexOffsetBindingPoint](inputs)
	if !ok {
		return errors.MissingTransformData(t.Name())
	}

	src := ctx.Src
	info := src.Sem()

	var data FirstIndexOffsetData

	track := func(b ast.BuiltinValue) {
		switch b {
		case ast.BuiltinVertexIndex:
			data.HasVertexIndex = true
		case ast.BuiltinInstanceIndex:
			data.HasInstanceIndex = true
		}
	}
	forEach(src, func(_ ast.NodeID, p *ast.Parameter) {
		track(builtinOf(src, p.Attributes))
	})
	forEach(src, func(_ ast.NodeID, m *ast.StructMember) {
		track(builtinOf(src, m.Attributes))
	})

	if data.HasVertexIndex || data.HasInstanceIndex {
		dst := ctx.Dst

		var members []ast.NodeID
		var offset uint32
		if data.HasVertexIndex {
			members = append(members, dst.Member(firstVertexName, dst.Ty().U32()))
			data.FirstVertexOffset = offset
			offset += 4
		}
		if data.HasInstanceIndex {
			members = append(members, dst.Member(firstInstanceName, dst.Ty().U32()))
			data.FirstInstanceOffset = offset
		}

		structName := dst.Symbols().New("")
		dst.StructSym(structName, members...)

		buffer := dst.Symbols().New("")
		dst.GlobalVarSym(buffer, dst.Ty().NamedSym(structName), ast.AddressSpaceUniform,
			dst.Group(bp.Group), dst.Binding(bp.Binding))

		offsetFor := func(b ast.BuiltinValue) string {
			switch b {
			case ast.BuiltinVertexIndex:
				return firstVertexName
			case ast.BuiltinInstanceIndex:
				return firstInstanceName
			}
			return ""
		}

		addOffset := func(id ast.NodeID, field string) {
			ctx.ReplaceFunc(id, func() ast.NodeID {
				return dst.Add(ctx.CloneWithoutTransform(id), dst.MemberAccessorSym(buffer, dst.Sym(field)))
			})
		}

		forEach(src, func(id ast.NodeID, _ *ast.Ident) {
			v := info.VariableOf(id)
			if v == nil || v.Kind != sem.VariableParameter {
				return
			}
			if field := offsetFor(v.Builtin); field != "" {
				addOffset(id, field)
			}
		})
		forEach(src, func(id ast.NodeID, _ *ast.Member) {
			if m := info.Member(id); m != nil {
				if field := offsetFor(m.Builtin); field != "" {
					addOffset(id, field)
				}
			}
		})
	}

	Add(outputs, data)

	return cloneOnly(ctx)
}
