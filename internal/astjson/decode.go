package astjson

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/symbol"
)

// Unmarshal decodes a JSON document into a program. Structural problems
// in the document are returned as errors; semantic problems are reported
// through the diagnostics of the resolved program.
func Unmarshal(data []byte) (*program.Program, error) {
	var mod Module
	if err := json.Unmarshal(data, &mod); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	return Decode(&mod)
}

// Read decodes a JSON document from r.
func Read(r io.Reader) (*program.Program, error) {
	var mod Module
	if err := json.NewDecoder(r).Decode(&mod); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	return Decode(&mod)
}

// Decode builds and resolves the program described by mod. A missing
// version is read as the current one.
func Decode(mod *Module) (*program.Program, error) {
	if mod.Version != 0 && mod.Version != FormatVersion {
		return nil, errors.NewStandardError(errors.CategoryInput, "UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported module format version %d", mod.Version),
			map[string]interface{}{"version": mod.Version})
	}

	d := &decoder{b: program.NewBuilder()}
	for i, g := range mod.Globals {
		id := d.required(g, fmt.Sprintf("globals[%d]", i))
		if d.err != nil {
			return nil, d.err
		}
		d.b.AddGlobal(id)
	}

	return program.Build(d.b), nil
}

type decoder struct {
	b   *program.Builder
	err error
}

func (d *decoder) failf(path, format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	d.err = errors.NewStandardError(errors.CategoryInput, "INVALID_MODULE",
		path+": "+fmt.Sprintf(format, args...),
		map[string]interface{}{"path": path})
}

func (d *decoder) required(n *Node, path string) ast.NodeID {
	if n == nil {
		d.failf(path, "missing node")
		return ast.None
	}
	return d.node(n, path)
}

func (d *decoder) optional(n *Node, path string) ast.NodeID {
	if n == nil {
		return ast.None
	}
	return d.node(n, path)
}

func (d *decoder) list(ns []*Node, path string) []ast.NodeID {
	var out []ast.NodeID
	for i, n := range ns {
		out = append(out, d.required(n, fmt.Sprintf("%s[%d]", path, i)))
	}
	return out
}

func (d *decoder) sym(name, path string) symbol.ID {
	if name == "" {
		d.failf(path, "missing name")
		return 0
	}
	return d.b.Sym(name)
}

func (d *decoder) value(v *uint32, path string) uint32 {
	if v == nil {
		d.failf(path, "missing value")
		return 0
	}
	return *v
}

func (d *decoder) fields(n *Node, path string) ast.VariableFields {
	return ast.VariableFields{
		Name:        d.sym(n.Name, path),
		Type:        d.optional(n.Type, path+".type"),
		Initializer: d.optional(n.Initializer, path+".initializer"),
		Attributes:  d.list(n.Attributes, path+".attributes"),
	}
}

func (d *decoder) node(n *Node, path string) ast.NodeID {
	base := ast.Base{}
	if n.Span != nil {
		base.Span = *n.Span
	}

	var out ast.Node

	switch n.Kind {
	// Expressions.
	case "Ident":
		out = &ast.Ident{Base: base, Symbol: d.sym(n.Name, path)}
	case "IntLiteral":
		if n.Int == nil {
			d.failf(path, "missing int")
			return ast.None
		}
		suffix := ast.SuffixNone
		switch n.Suffix {
		case "":
		case "i":
			suffix = ast.SuffixI
		case "u":
			suffix = ast.SuffixU
		default:
			d.failf(path, "invalid integer suffix '%s'", n.Suffix)
		}
		out = &ast.IntLiteral{Base: base, Value: *n.Int, Suffix: suffix}
	case "FloatLiteral":
		if n.Float == nil {
			d.failf(path, "missing float")
			return ast.None
		}
		out = &ast.FloatLiteral{Base: base, Value: *n.Float}
	case "BoolLiteral":
		if n.Bool == nil {
			d.failf(path, "missing bool")
			return ast.None
		}
		out = &ast.BoolLiteral{Base: base, Value: *n.Bool}
	case "Binary":
		op, ok := ast.ParseBinaryOp(n.Op)
		if !ok {
			d.failf(path, "invalid binary operator '%s'", n.Op)
		}
		lhs := d.required(n.LHS, path+".lhs")
		rhs := d.required(n.RHS, path+".rhs")
		out = &ast.Binary{Base: base, Op: op, LHS: lhs, RHS: rhs}
	case "Unary":
		op, ok := ast.ParseUnaryOp(n.Op)
		if !ok {
			d.failf(path, "invalid unary operator '%s'", n.Op)
		}
		out = &ast.Unary{Base: base, Op: op, Expr: d.required(n.Expr, path+".expr")}
	case "Call":
		target := d.required(n.Target, path+".target")
		args := d.list(n.Args, path+".args")
		out = &ast.Call{Base: base, Target: target, Args: args}
	case "Index":
		obj := d.required(n.Object, path+".object")
		idx := d.required(n.Index, path+".index")
		out = &ast.Index{Base: base, Object: obj, Index: idx}
	case "Member":
		obj := d.required(n.Object, path+".object")
		out = &ast.Member{Base: base, Object: obj, Member: d.sym(n.Name, path)}

	// Statements.
	case "Block":
		out = &ast.Block{Base: base, Statements: d.list(n.Statements, path+".statements")}
	case "VarDecl":
		out = &ast.VarDecl{Base: base, Variable: d.required(n.Variable, path+".variable")}
	case "Assign":
		lhs := d.required(n.LHS, path+".lhs")
		rhs := d.required(n.RHS, path+".rhs")
		out = &ast.Assign{Base: base, LHS: lhs, RHS: rhs}
	case "Increment":
		out = &ast.Increment{Base: base, LHS: d.required(n.LHS, path+".lhs"), Decrement: n.Decrement}
	case "CallStatement":
		out = &ast.CallStatement{Base: base, Call: d.required(n.Call, path+".call")}
	case "If":
		cond := d.required(n.Condition, path+".condition")
		body := d.required(n.Body, path+".body")
		els := d.optional(n.Else, path+".else")
		out = &ast.If{Base: base, Condition: cond, Body: body, Else: els}
	case "For":
		init := d.optional(n.Initializer, path+".initializer")
		cond := d.optional(n.Condition, path+".condition")
		cont := d.optional(n.Continuing, path+".continuing")
		body := d.required(n.Body, path+".body")
		out = &ast.For{Base: base, Initializer: init, Condition: cond, Continuing: cont, Body: body}
	case "While":
		cond := d.required(n.Condition, path+".condition")
		body := d.required(n.Body, path+".body")
		out = &ast.While{Base: base, Condition: cond, Body: body}
	case "Loop":
		body := d.required(n.Body, path+".body")
		cont := d.optional(n.Continuing, path+".continuing")
		out = &ast.Loop{Base: base, Body: body, Continuing: cont}
	case "Break":
		out = &ast.Break{Base: base}
	case "Continue":
		out = &ast.Continue{Base: base}
	case "Discard":
		out = &ast.Discard{Base: base}
	case "Return":
		out = &ast.Return{Base: base, Value: d.optional(n.Expr, path+".expr")}

	// Variables.
	case "Var":
		space, ok := ast.ParseAddressSpace(n.AddressSpace)
		if !ok {
			d.failf(path, "invalid address space '%s'", n.AddressSpace)
		}
		access, ok := ast.ParseAccess(n.Access)
		if !ok {
			d.failf(path, "invalid access '%s'", n.Access)
		}
		out = &ast.Var{Base: base, VariableFields: d.fields(n, path), AddressSpace: space, Access: access}
	case "Let":
		out = &ast.Let{Base: base, VariableFields: d.fields(n, path)}
	case "Const":
		out = &ast.Const{Base: base, VariableFields: d.fields(n, path)}
	case "Override":
		out = &ast.Override{Base: base, VariableFields: d.fields(n, path)}
	case "Parameter":
		out = &ast.Parameter{Base: base, VariableFields: d.fields(n, path)}

	// Declarations.
	case "Function":
		name := d.sym(n.Name, path)
		params := d.list(n.Params, path+".params")
		ret := d.optional(n.ReturnType, path+".return_type")
		retAttrs := d.list(n.ReturnAttributes, path+".return_attributes")
		body := d.required(n.Body, path+".body")
		attrs := d.list(n.Attributes, path+".attributes")
		out = &ast.Function{Base: base, Name: name, Params: params, ReturnType: ret, Body: body,
			Attributes: attrs, ReturnAttributes: retAttrs}
	case "Struct":
		name := d.sym(n.Name, path)
		members := d.list(n.Members, path+".members")
		attrs := d.list(n.Attributes, path+".attributes")
		out = &ast.Struct{Base: base, Name: name, Members: members, Attributes: attrs}
	case "StructMember":
		name := d.sym(n.Name, path)
		ty := d.required(n.Type, path+".type")
		attrs := d.list(n.Attributes, path+".attributes")
		out = &ast.StructMember{Base: base, Name: name, Type: ty, Attributes: attrs}
	case "Alias":
		name := d.sym(n.Name, path)
		out = &ast.Alias{Base: base, Name: name, Type: d.required(n.Type, path+".type")}

	// Attributes.
	case "StageAttribute":
		stage, ok := ast.ParseStage(n.Stage)
		if !ok {
			d.failf(path, "invalid stage '%s'", n.Stage)
		}
		out = &ast.StageAttribute{Base: base, Stage: stage}
	case "WorkgroupAttribute":
		x := d.required(n.X, path+".x")
		y := d.optional(n.Y, path+".y")
		z := d.optional(n.Z, path+".z")
		out = &ast.WorkgroupAttribute{Base: base, X: x, Y: y, Z: z}
	case "BuiltinAttribute":
		builtin, ok := ast.ParseBuiltin(n.Builtin)
		if !ok {
			d.failf(path, "invalid builtin '%s'", n.Builtin)
		}
		out = &ast.BuiltinAttribute{Base: base, Builtin: builtin}
	case "LocationAttribute":
		out = &ast.LocationAttribute{Base: base, Value: d.value(n.Value, path)}
	case "GroupAttribute":
		out = &ast.GroupAttribute{Base: base, Value: d.value(n.Value, path)}
	case "BindingAttribute":
		out = &ast.BindingAttribute{Base: base, Value: d.value(n.Value, path)}
	case "IDAttribute":
		out = &ast.IDAttribute{Base: base, Value: d.value(n.Value, path)}

	// Types.
	case "Bool":
		out = &ast.Bool{Base: base}
	case "I32":
		out = &ast.I32{Base: base}
	case "U32":
		out = &ast.U32{Base: base}
	case "F32":
		out = &ast.F32{Base: base}
	case "Vector":
		if n.Width < 2 || n.Width > 4 {
			d.failf(path, "invalid vector width %d", n.Width)
		}
		out = &ast.Vector{Base: base, Elem: d.required(n.Elem, path+".elem"), Width: n.Width}
	case "Matrix":
		if n.Columns < 2 || n.Columns > 4 || n.Rows < 2 || n.Rows > 4 {
			d.failf(path, "invalid matrix shape %dx%d", n.Columns, n.Rows)
		}
		out = &ast.Matrix{Base: base, Elem: d.required(n.Elem, path+".elem"), Columns: n.Columns, Rows: n.Rows}
	case "Array":
		if n.Count < 0 {
			d.failf(path, "invalid array count %d", n.Count)
		}
		out = &ast.Array{Base: base, Elem: d.required(n.Elem, path+".elem"), Count: n.Count}
	case "Sampler":
		out = &ast.Sampler{Base: base, Comparison: n.Comparison}
	case "SampledTexture":
		dim, ok := ast.ParseTextureDimension(n.Dim)
		if !ok {
			d.failf(path, "invalid texture dimension '%s'", n.Dim)
		}
		out = &ast.SampledTexture{Base: base, Dim: dim, Elem: d.required(n.Elem, path+".elem")}
	case "ExternalTexture":
		out = &ast.ExternalTexture{Base: base}
	case "TypeName":
		out = &ast.TypeName{Base: base, Name: d.sym(n.Name, path)}

	default:
		d.failf(path, "unknown node kind '%s'", n.Kind)
	}

	if d.err != nil {
		return ast.None
	}
	return d.b.New(out)
}
