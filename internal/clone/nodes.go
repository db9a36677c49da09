package clone

import (
	"github.com/orizon-lang/prism/internal/ast"
)

// cloneNode creates the default copy of n. Children are cloned through
// Clone and child lists through cloneList, so rewrites registered for
// descendants apply.
func (c *Context) cloneNode(id ast.NodeID, n ast.Node) ast.NodeID {
	base := ast.Base{Span: n.Source()}

	var out ast.Node

	switch n := n.(type) {
	// Expressions.
	case *ast.Ident:
		out = &ast.Ident{Base: base, Symbol: c.CloneSymbol(n.Symbol)}
	case *ast.IntLiteral:
		out = &ast.IntLiteral{Base: base, Value: n.Value, Suffix: n.Suffix}
	case *ast.FloatLiteral:
		out = &ast.FloatLiteral{Base: base, Value: n.Value}
	case *ast.BoolLiteral:
		out = &ast.BoolLiteral{Base: base, Value: n.Value}
	case *ast.Binary:
		lhs := c.Clone(n.LHS)
		rhs := c.Clone(n.RHS)
		out = &ast.Binary{Base: base, Op: n.Op, LHS: lhs, RHS: rhs}
	case *ast.Unary:
		out = &ast.Unary{Base: base, Op: n.Op, Expr: c.Clone(n.Expr)}
	case *ast.Call:
		target := c.Clone(n.Target)
		args := c.cloneList(id, listArgs, n.Args)
		out = &ast.Call{Base: base, Target: target, Args: args}
	case *ast.Index:
		obj := c.Clone(n.Object)
		idx := c.Clone(n.Index)
		out = &ast.Index{Base: base, Object: obj, Index: idx}
	case *ast.Member:
		obj := c.Clone(n.Object)
		out = &ast.Member{Base: base, Object: obj, Member: c.CloneSymbol(n.Member)}

	// Statements.
	case *ast.Block:
		out = &ast.Block{Base: base, Statements: c.cloneList(id, listStatements, n.Statements)}
	case *ast.VarDecl:
		out = &ast.VarDecl{Base: base, Variable: c.Clone(n.Variable)}
	case *ast.Assign:
		lhs := c.Clone(n.LHS)
		rhs := c.Clone(n.RHS)
		out = &ast.Assign{Base: base, LHS: lhs, RHS: rhs}
	case *ast.Increment:
		out = &ast.Increment{Base: base, LHS: c.Clone(n.LHS), Decrement: n.Decrement}
	case *ast.CallStatement:
		out = &ast.CallStatement{Base: base, Call: c.Clone(n.Call)}
	case *ast.If:
		cond := c.Clone(n.Condition)
		body := c.Clone(n.Body)
		els := c.Clone(n.Else)
		out = &ast.If{Base: base, Condition: cond, Body: body, Else: els}
	case *ast.For:
		init := c.Clone(n.Initializer)
		cond := c.Clone(n.Condition)
		cont := c.Clone(n.Continuing)
		body := c.Clone(n.Body)
		out = &ast.For{Base: base, Initializer: init, Condition: cond, Continuing: cont, Body: body}
	case *ast.While:
		cond := c.Clone(n.Condition)
		body := c.Clone(n.Body)
		out = &ast.While{Base: base, Condition: cond, Body: body}
	case *ast.Loop:
		body := c.Clone(n.Body)
		cont := c.Clone(n.Continuing)
		out = &ast.Loop{Base: base, Body: body, Continuing: cont}
	case *ast.Break:
		out = &ast.Break{Base: base}
	case *ast.Continue:
		out = &ast.Continue{Base: base}
	case *ast.Discard:
		out = &ast.Discard{Base: base}
	case *ast.Return:
		out = &ast.Return{Base: base, Value: c.Clone(n.Value)}

	// Variables.
	case *ast.Var:
		out = &ast.Var{Base: base, VariableFields: c.variableFields(id, &n.VariableFields),
			AddressSpace: n.AddressSpace, Access: n.Access}
	case *ast.Let:
		out = &ast.Let{Base: base, VariableFields: c.variableFields(id, &n.VariableFields)}
	case *ast.Const:
		out = &ast.Const{Base: base, VariableFields: c.variableFields(id, &n.VariableFields)}
	case *ast.Override:
		out = &ast.Override{Base: base, VariableFields: c.variableFields(id, &n.VariableFields)}
	case *ast.Parameter:
		out = &ast.Parameter{Base: base, VariableFields: c.variableFields(id, &n.VariableFields)}

	// Declarations.
	case *ast.Function:
		name := c.CloneSymbol(n.Name)
		params := c.cloneList(id, listParams, n.Params)
		ret := c.Clone(n.ReturnType)
		body := c.Clone(n.Body)
		attrs := c.cloneList(id, listAttributes, n.Attributes)
		retAttrs := c.cloneList(id, listReturnAttributes, n.ReturnAttributes)
		out = &ast.Function{Base: base, Name: name, Params: params, ReturnType: ret, Body: body,
			Attributes: attrs, ReturnAttributes: retAttrs}
	case *ast.Struct:
		name := c.CloneSymbol(n.Name)
		members := c.cloneList(id, listMembers, n.Members)
		attrs := c.cloneList(id, listAttributes, n.Attributes)
		out = &ast.Struct{Base: base, Name: name, Members: members, Attributes: attrs}
	case *ast.StructMember:
		name := c.CloneSymbol(n.Name)
		ty := c.Clone(n.Type)
		attrs := c.cloneList(id, listAttributes, n.Attributes)
		out = &ast.StructMember{Base: base, Name: name, Type: ty, Attributes: attrs}
	case *ast.Alias:
		name := c.CloneSymbol(n.Name)
		out = &ast.Alias{Base: base, Name: name, Type: c.Clone(n.Type)}
	case *ast.Module:
		misuse("MODULE_CLONE", "the module root is cloned with CloneModule")

	// Attributes.
	case *ast.StageAttribute:
		out = &ast.StageAttribute{Base: base, Stage: n.Stage}
	case *ast.WorkgroupAttribute:
		x := c.Clone(n.X)
		y := c.Clone(n.Y)
		z := c.Clone(n.Z)
		out = &ast.WorkgroupAttribute{Base: base, X: x, Y: y, Z: z}
	case *ast.BuiltinAttribute:
		out = &ast.BuiltinAttribute{Base: base, Builtin: n.Builtin}
	case *ast.LocationAttribute:
		out = &ast.LocationAttribute{Base: base, Value: n.Value}
	case *ast.GroupAttribute:
		out = &ast.GroupAttribute{Base: base, Value: n.Value}
	case *ast.BindingAttribute:
		out = &ast.BindingAttribute{Base: base, Value: n.Value}
	case *ast.IDAttribute:
		out = &ast.IDAttribute{Base: base, Value: n.Value}

	// Types.
	case *ast.Bool:
		out = &ast.Bool{Base: base}
	case *ast.I32:
		out = &ast.I32{Base: base}
	case *ast.U32:
		out = &ast.U32{Base: base}
	case *ast.F32:
		out = &ast.F32{Base: base}
	case *ast.Vector:
		out = &ast.Vector{Base: base, Elem: c.Clone(n.Elem), Width: n.Width}
	case *ast.Matrix:
		out = &ast.Matrix{Base: base, Elem: c.Clone(n.Elem), Columns: n.Columns, Rows: n.Rows}
	case *ast.Array:
		out = &ast.Array{Base: base, Elem: c.Clone(n.Elem), Count: n.Count}
	case *ast.Sampler:
		out = &ast.Sampler{Base: base, Comparison: n.Comparison}
	case *ast.SampledTexture:
		out = &ast.SampledTexture{Base: base, Dim: n.Dim, Elem: c.Clone(n.Elem)}
	case *ast.ExternalTexture:
		out = &ast.ExternalTexture{Base: base}
	case *ast.TypeName:
		out = &ast.TypeName{Base: base, Name: c.CloneSymbol(n.Name)}

	default:
		misuse("UNKNOWN_NODE", "cannot clone %s node %d", n.TypeInfo().Name, id)
	}

	return c.Dst.New(out)
}

func (c *Context) variableFields(id ast.NodeID, v *ast.VariableFields) ast.VariableFields {
	name := c.CloneSymbol(v.Name)
	ty := c.Clone(v.Type)
	init := c.Clone(v.Initializer)
	attrs := c.cloneList(id, listAttributes, v.Attributes)

	return ast.VariableFields{Name: name, Type: ty, Initializer: init, Attributes: attrs}
}
