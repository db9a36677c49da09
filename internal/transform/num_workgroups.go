package transform

import (
	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/symbol"
)

// NumWorkgroupsFromUniformConfig places the uniform buffer that holds the
// dispatch size.
type NumWorkgroupsFromUniformConfig struct {
	BindingPoint sem.BindingPoint
}

const numWorkgroupsName = "num_workgroups"

// NumWorkgroupsFromUniform replaces the num_workgroups builtin of compute
// entry points by a member of a uniform buffer, for backends that have no
// such builtin. The builtin may be a parameter or a member of a structure
// parameter. A member is dropped from its structure unless it is the only
// one: the structure then loses the builtin attribute instead, its
// parameters are removed, and whole-value uses rebuild the structure from
// the buffer.
type NumWorkgroupsFromUniform struct{}

// NewNumWorkgroupsFromUniform creates the transform.
func NewNumWorkgroupsFromUniform() *NumWorkgroupsFromUniform { return &NumWorkgroupsFromUniform{} }

func (*NumWorkgroupsFromUniform) Name() string { return "NumWorkgroupsFromUniform" }

func (*NumWorkgroupsFromUniform) ShouldRun(prog *program.Program, _ *DataMap) bool {
	if anyNode(prog, func(_ ast.NodeID, p *ast.Parameter) bool {
		return builtinOf(prog, p.Attributes) == ast.BuiltinNumWorkgroups
	}) {
		return true
	}
	return anyNode(prog, func(_ ast.NodeID, m *ast.StructMember) bool {
		return builtinOf(prog, m.Attributes) == ast.BuiltinNumWorkgroups
	})
}

func (t *NumWorkgroupsFromUniform) Run(ctx *clone.Context, inputs, _ *DataMap) error {
	cfg, ok := Get[NumWorkgroupsFromUniformConfig](inputs)
	if !ok {
		return errors.MissingTransformData(t.Name())
	}

	src := ctx.Src
	info := src.Sem()

	removedParams := make(map[ast.NodeID]bool)
	removedMembers := make(map[ast.NodeID]bool)
	// rebuilt maps a removed structure parameter to its structure, whose
	// single member keeps its place without the builtin attribute.
	rebuilt := make(map[ast.NodeID]*sem.Struct)
	strippedAttrs := make(map[ast.NodeID]bool)

	for _, ep := range info.EntryPoints {
		if ep.Stage != ast.StageCompute {
			continue
		}

		for _, p := range ep.Params {
			if p.Builtin == ast.BuiltinNumWorkgroups {
				removedParams[p.Decl] = true
				continue
			}

			st, ok := p.Type.(*sem.Struct)
			if !ok {
				continue
			}

			var found *sem.StructMember
			for _, m := range st.Members {
				if m.Builtin == ast.BuiltinNumWorkgroups {
					found = m
				}
			}
			if found == nil {
				continue
			}

			if len(st.Members) == 1 {
				removedParams[p.Decl] = true
				rebuilt[p.Decl] = st
				if attr := builtinAttrOf(src, found.Decl); attr.IsValid() {
					strippedAttrs[attr] = true
				}
			} else {
				removedMembers[found.Decl] = true
			}
		}
	}

	if len(removedParams) == 0 && len(removedMembers) == 0 {
		return cloneOnly(ctx)
	}

	dst := ctx.Dst

	structName := dst.Symbols().New("")
	dst.StructSym(structName, dst.Member(numWorkgroupsName, dst.Ty().Vec3(dst.Ty().U32())))

	buffer := dst.Symbols().New("")
	dst.GlobalVarSym(buffer, dst.Ty().NamedSym(structName), ast.AddressSpaceUniform,
		dst.Group(cfg.BindingPoint.Group), dst.Binding(cfg.BindingPoint.Binding))

	fromUniform := func() ast.NodeID {
		return dst.MemberAccessorSym(buffer, dst.Sym(numWorkgroupsName))
	}

	for decl := range removedParams {
		ctx.Remove(decl)

		st := rebuilt[decl]
		for _, user := range info.Variable(decl).Users {
			if st == nil {
				ctx.ReplaceFunc(user, fromUniform)
				continue
			}

			// inputs.member reads the buffer directly; any other use
			// of inputs gets a freshly constructed value.
			if parent := src.Parent(user); info.Member(parent) != nil {
				if acc, ok := ast.Get[*ast.Member](src, parent); ok && acc.Object == user {
					ctx.ReplaceFunc(parent, fromUniform)
					continue
				}
			}
			name := structNameOf(src, st)
			ctx.ReplaceFunc(user, func() ast.NodeID {
				return dst.Construct(dst.Ty().NamedSym(name), fromUniform())
			})
		}
	}

	for decl := range removedMembers {
		ctx.Remove(decl)
	}
	for attr := range strippedAttrs {
		ctx.Remove(attr)
	}

	forEach(src, func(id ast.NodeID, _ *ast.Member) {
		if m := info.Member(id); m != nil && removedMembers[m.Decl] {
			ctx.ReplaceFunc(id, fromUniform)
		}
	})

	return cloneOnly(ctx)
}

// builtinAttrOf returns the @builtin attribute of a structure member.
func builtinAttrOf(prog *program.Program, member ast.NodeID) ast.NodeID {
	m, ok := ast.Get[*ast.StructMember](prog, member)
	if !ok {
		return ast.None
	}
	for _, id := range m.Attributes {
		if _, ok := ast.Get[*ast.BuiltinAttribute](prog, id); ok {
			return id
		}
	}
	return ast.None
}

func structNameOf(prog *program.Program, st *sem.Struct) symbol.ID {
	decl, _ := ast.Get[*ast.Struct](prog, st.Decl)
	return decl.Name
}
