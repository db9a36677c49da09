package transform

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/symbol"
)

// BindingPoints are the resources added for one texture_external: the
// second plane and the uniform holding the conversion parameters.
type BindingPoints struct {
	Plane1 sem.BindingPoint
	Params sem.BindingPoint
}

// MultiplanarNewBindingPoints maps the binding point of every
// texture_external variable to the binding points of its new resources.
type MultiplanarNewBindingPoints struct {
	BindingsMap map[sem.BindingPoint]BindingPoints
}

// MultiplanarExternalTexture lowers texture_external into a pair of
// texture_2d<f32> planes plus a uniform of conversion parameters, and
// replaces textureSampleLevel and textureLoad on external textures by
// generated helpers that do the YUV to RGB conversion.
type MultiplanarExternalTexture struct{}

// NewMultiplanarExternalTexture creates the transform.
func NewMultiplanarExternalTexture() *MultiplanarExternalTexture {
	return &MultiplanarExternalTexture{}
}

func (*MultiplanarExternalTexture) Name() string { return "MultiplanarExternalTexture" }

func (*MultiplanarExternalTexture) ShouldRun(prog *program.Program, _ *DataMap) bool {
	return anyNode(prog, func(ast.NodeID, *ast.ExternalTexture) bool { return true })
}

// planeSymbols are the names standing for the extra resources of one
// external texture variable or parameter.
type planeSymbols struct {
	plane1 symbol.ID
	params symbol.ID
}

type multiplanarState struct {
	ctx  *clone.Context
	info *sem.Info

	paramsStruct symbol.ID
	// keyed by the declaration of the external texture variable
	planes map[ast.NodeID]planeSymbols

	sampleHelper symbol.ID
	loadHelper   symbol.ID
	// shared by both helpers; allocated with the first one
	locals *helperLocals
}

// helperLocals are the parameter and local names of the conversion
// helpers, fresh with respect to every name in the module.
type helperLocals struct {
	plane0, plane1, smp, coord, params symbol.ID
	y, uv, u, v, r, g, b               symbol.ID
}

func newHelperLocals(t *symbol.Table) *helperLocals {
	return &helperLocals{
		plane0: t.New("plane0"),
		plane1: t.New("plane1"),
		smp:    t.New("smp"),
		coord:  t.New("coord"),
		params: t.New("params"),
		y:      t.New("y"),
		uv:     t.New("uv"),
		u:      t.New("u"),
		v:      t.New("v"),
		r:      t.New("r"),
		g:      t.New("g"),
		b:      t.New("b"),
	}
}

const (
	plane1Hint       = "ext_tex_plane_1"
	paramsHint       = "ext_tex_params"
	paramsStructHint = "ExternalTextureParams"
)

func (t *MultiplanarExternalTexture) Run(ctx *clone.Context, inputs, _ *DataMap) error {
	newBindings, ok := Get[MultiplanarNewBindingPoints](inputs)
	if !ok {
		return errors.NewStandardError(errors.CategoryConfiguration, "MISSING_TRANSFORM_DATA",
			"missing new binding point data for "+t.Name(),
			map[string]interface{}{"transform": t.Name()})
	}

	s := &multiplanarState{
		ctx:    ctx,
		info:   ctx.Src.Sem(),
		planes: make(map[ast.NodeID]planeSymbols),
	}

	if err := s.globals(newBindings); err != nil {
		return err
	}
	s.parameters()
	s.types()
	s.calls()

	return cloneOnly(ctx)
}

func (s *multiplanarState) ensureParamsStruct() symbol.ID {
	if s.paramsStruct.IsValid() {
		return s.paramsStruct
	}

	dst := s.ctx.Dst
	s.paramsStruct = dst.Symbols().New(paramsStructHint)
	dst.StructSym(s.paramsStruct,
		dst.Member("numPlanes", dst.Ty().U32()),
		dst.Member("vr", dst.Ty().F32()),
		dst.Member("ug", dst.Ty().F32()),
		dst.Member("vg", dst.Ty().F32()),
		dst.Member("ub", dst.Ty().F32()))

	return s.paramsStruct
}

// globals adds the plane and parameter resources of every module-scope
// external texture, in declaration order.
func (s *multiplanarState) globals(newBindings MultiplanarNewBindingPoints) error {
	src := s.ctx.Src
	dst := s.ctx.Dst

	for _, id := range src.Globals() {
		if _, isVar := ast.Get[*ast.Var](src, id); !isVar {
			continue
		}
		v := s.info.Variable(id)
		if v == nil || !isExternalTexture(v.Type) {
			continue
		}

		if v.BindingPoint == nil {
			return errors.InvalidInput("MISSING_BINDING_POINTS",
				fmt.Sprintf("texture_external variable '%s' has no binding point", v.Name),
				map[string]interface{}{"variable": v.Name})
		}
		bps, ok := newBindings.BindingsMap[*v.BindingPoint]
		if !ok {
			return errors.InvalidInput("MISSING_BINDING_POINTS",
				fmt.Sprintf("missing new binding points for texture_external at binding %s", v.BindingPoint),
				map[string]interface{}{"binding": v.BindingPoint.String()})
		}

		paramsType := s.ensureParamsStruct()

		syms := planeSymbols{
			plane1: dst.Symbols().New(plane1Hint),
			params: dst.Symbols().New(paramsHint),
		}
		dst.GlobalVarSym(syms.plane1, dst.Ty().Texture2D(), ast.AddressSpaceNone,
			dst.Group(bps.Plane1.Group), dst.Binding(bps.Plane1.Binding))
		dst.GlobalVarSym(syms.params, dst.Ty().NamedSym(paramsType), ast.AddressSpaceUniform,
			dst.Group(bps.Params.Group), dst.Binding(bps.Params.Binding))

		s.planes[id] = syms
	}

	return nil
}

// parameters adds a plane and a parameters parameter after every
// texture_external parameter.
func (s *multiplanarState) parameters() {
	src := s.ctx.Src
	dst := s.ctx.Dst

	for _, id := range src.Globals() {
		fn, ok := ast.Get[*ast.Function](src, id)
		if !ok {
			continue
		}
		for _, pid := range fn.Params {
			v := s.info.Variable(pid)
			if v == nil || !isExternalTexture(v.Type) {
				continue
			}

			paramsType := s.ensureParamsStruct()

			syms := planeSymbols{
				plane1: dst.Symbols().New(plane1Hint),
				params: dst.Symbols().New(paramsHint),
			}
			s.ctx.InsertAfter(pid, dst.ParamSym(syms.plane1, dst.Ty().Texture2D()))
			s.ctx.InsertAfter(pid, dst.ParamSym(syms.params, dst.Ty().NamedSym(paramsType)))

			s.planes[pid] = syms
		}
	}
}

// types turns every external texture type into texture_2d<f32> and drops
// the aliases that named it.
func (s *multiplanarState) types() {
	src := s.ctx.Src
	dst := s.ctx.Dst

	clone.ReplaceAll(s.ctx, func(*ast.ExternalTexture) ast.NodeID {
		return dst.Ty().Texture2D()
	})
	clone.ReplaceAll(s.ctx, func(n *ast.TypeName) ast.NodeID {
		if isExternalTexture(s.info.TypeOf(n.ID)) {
			return dst.Ty().Texture2D()
		}
		return ast.None
	})

	for _, id := range src.Globals() {
		if _, ok := ast.Get[*ast.Alias](src, id); ok && isExternalTexture(s.info.Types[id]) {
			s.ctx.Remove(id)
		}
	}
}

// planesOf returns the extra resources of the external texture an
// expression names.
func (s *multiplanarState) planesOf(expr ast.NodeID) (planeSymbols, bool) {
	v := s.info.VariableOf(expr)
	if v == nil {
		return planeSymbols{}, false
	}
	syms, ok := s.planes[v.Decl]
	return syms, ok
}

// calls rewrites builtin calls on external textures and passes the extra
// resources to user functions taking external textures.
func (s *multiplanarState) calls() {
	src := s.ctx.Src
	dst := s.ctx.Dst

	forEach(src, func(id ast.NodeID, call *ast.Call) {
		sc := s.info.Call(id)
		if sc == nil {
			return
		}

		if sc.Target != nil {
			for _, arg := range call.Args {
				if syms, ok := s.planesOf(arg); ok {
					s.ctx.InsertAfter(arg, dst.IdentSym(syms.plane1))
					s.ctx.InsertAfter(arg, dst.IdentSym(syms.params))
				}
			}
			return
		}

		if len(call.Args) == 0 {
			return
		}
		syms, ok := s.planesOf(call.Args[0])
		if !ok {
			return
		}

		switch {
		case sc.Builtin == "textureSampleLevel" && len(call.Args) == 3:
			args := call.Args
			s.ctx.ReplaceFunc(id, func() ast.NodeID {
				return dst.CallSym(s.helper(true),
					s.ctx.Clone(args[0]), dst.IdentSym(syms.plane1), s.ctx.Clone(args[1]),
					s.ctx.Clone(args[2]), dst.IdentSym(syms.params))
			})
		case sc.Builtin == "textureLoad" && len(call.Args) == 2:
			args := call.Args
			s.ctx.ReplaceFunc(id, func() ast.NodeID {
				return dst.CallSym(s.helper(false),
					s.ctx.Clone(args[0]), dst.IdentSym(syms.plane1), s.ctx.Clone(args[1]),
					dst.IdentSym(syms.params))
			})
		}
	})
}

// helper returns the conversion function for sampling or loading,
// declaring it on first use.
func (s *multiplanarState) helper(sample bool) symbol.ID {
	if sample && s.sampleHelper.IsValid() {
		return s.sampleHelper
	}
	if !sample && s.loadHelper.IsValid() {
		return s.loadHelper
	}

	dst := s.ctx.Dst
	ty := dst.Ty()

	name := "textureLoadExternal"
	if sample {
		name = "textureSampleExternal"
	}
	sym := dst.Symbols().New(name)

	if s.locals == nil {
		s.locals = newHelperLocals(dst.Symbols())
	}
	l := s.locals
	id := dst.IdentSym

	params := []ast.NodeID{
		dst.ParamSym(l.plane0, ty.Texture2D()),
		dst.ParamSym(l.plane1, ty.Texture2D()),
	}
	if sample {
		params = append(params,
			dst.ParamSym(l.smp, ty.Sampler()),
			dst.ParamSym(l.coord, ty.Vec2(ty.F32())))
	} else {
		params = append(params, dst.ParamSym(l.coord, ty.Vec2(ty.I32())))
	}
	params = append(params, dst.ParamSym(l.params, ty.NamedSym(s.paramsStruct)))

	read := func(plane symbol.ID) ast.NodeID {
		if sample {
			return dst.Call("textureSampleLevel", id(plane), id(l.smp), id(l.coord), 0.0)
		}
		return dst.Call("textureLoad", id(plane), id(l.coord), 0)
	}
	param := func(field string) ast.NodeID { return dst.MemberAccessor(id(l.params), field) }
	let := func(sym symbol.ID, init ast.NodeID) ast.NodeID { return dst.Decl(dst.LetSym(sym, ast.None, init)) }

	// BT.601 limited range YUV to RGB.
	const scale = 1.164000034
	stmts := []ast.NodeID{
		dst.If(dst.Equal(param("numPlanes"), dst.U32(1)), dst.Block(dst.ReturnValue(read(l.plane0))), ast.None),
		let(l.y, dst.Sub(dst.MemberAccessor(read(l.plane0), "r"), 0.0625)),
		let(l.uv, dst.Sub(dst.MemberAccessor(read(l.plane1), "rg"), 0.5)),
		let(l.u, dst.MemberAccessor(id(l.uv), "x")),
		let(l.v, dst.MemberAccessor(id(l.uv), "y")),
		let(l.r, dst.Add(dst.Mul(scale, id(l.y)), dst.Mul(param("vr"), id(l.v)))),
		let(l.g, dst.Sub(dst.Sub(dst.Mul(scale, id(l.y)), dst.Mul(param("ug"), id(l.u))), dst.Mul(param("vg"), id(l.v)))),
		let(l.b, dst.Add(dst.Mul(scale, id(l.y)), dst.Mul(param("ub"), id(l.u)))),
		dst.ReturnValue(dst.Construct(ty.Vec4(ty.F32()), id(l.r), id(l.g), id(l.b), 1.0)),
	}

	dst.FuncSym(sym, params, ty.Vec4(ty.F32()), nil, stmts)

	if sample {
		s.sampleHelper = sym
	} else {
		s.loadHelper = sym
	}
	return sym
}
