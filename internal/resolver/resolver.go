// Package resolver computes the semantic information of a program tree:
// resolved types, variable users, function call graphs and statement
// behaviors. Resolution runs in two passes so module-scope declarations
// may appear in any order.
package resolver

import (
	"strings"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/position"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/symbol"
)

// Resolver performs name and type resolution over one arena.
type Resolver struct {
	nodes   ast.Nodes
	symbols *symbol.Table
	info    *sem.Info
	diags   diagnostics.List

	module *Scope
	scope  *Scope

	// Resolution state
	fn        *sem.Function
	stmt      ast.NodeID
	resolving map[ast.NodeID]bool
	globals   map[*sem.Function]map[*sem.Variable]bool
	callees   map[*sem.Function]map[*sem.Function]bool
}

// Resolve builds the semantic tables of the module rooted at module.
// Problems are reported as diagnostics; the returned Info is always
// usable for the parts that did resolve.
func Resolve(nodes ast.Nodes, module ast.NodeID) (*sem.Info, diagnostics.List) {
	r := &Resolver{
		nodes:     nodes,
		symbols:   nodes.Symbols(),
		info:      sem.NewInfo(),
		resolving: make(map[ast.NodeID]bool),
		globals:   make(map[*sem.Function]map[*sem.Variable]bool),
		callees:   make(map[*sem.Function]map[*sem.Function]bool),
	}

	mod, ok := ast.Get[*ast.Module](nodes, module)
	if !ok {
		diagnostics.Errorf(diagnostics.CategoryResolver, "program has no module").At(spanOf(nodes, module)).AddTo(&r.diags)
		return r.info, r.diags
	}

	r.module = newScope(ScopeKindModule, nil)
	r.scope = r.module

	// First pass: collect all module symbols
	for _, id := range mod.Globals {
		r.collect(id)
	}

	// Second pass: resolve declarations
	for _, id := range mod.Globals {
		if n := nodes.Node(id); n != nil {
			if _, isFn := n.(*ast.Function); !isFn {
				r.declaration(id)
			}
		}
	}
	for _, id := range mod.Globals {
		if _, ok := ast.Get[*ast.Function](nodes, id); ok {
			r.signature(id)
		}
	}
	for _, id := range mod.Globals {
		if _, ok := ast.Get[*ast.Function](nodes, id); ok {
			r.body(id)
		}
	}

	r.summarize(mod)

	return r.info, r.diags
}

func spanOf(nodes ast.Nodes, id ast.NodeID) (span position.Span) {
	if n := nodes.Node(id); n != nil {
		span = n.Source()
	}
	return span
}

func (r *Resolver) errorf(id ast.NodeID, format string, args ...interface{}) {
	diagnostics.Errorf(diagnostics.CategoryResolver, format, args...).At(spanOf(r.nodes, id)).AddTo(&r.diags)
}

func (r *Resolver) name(sym symbol.ID) string {
	return r.symbols.NameFor(sym)
}

func (r *Resolver) collect(id ast.NodeID) {
	decl, ok := ast.Get[ast.Declaration](r.nodes, id)
	if !ok {
		r.errorf(id, "unexpected module-scope node")
		return
	}

	if _, fresh := r.module.Declare(decl.DeclName(), id); !fresh {
		r.errorf(id, "redeclaration of '%s'", r.name(decl.DeclName()))
	}
}

func (r *Resolver) declaration(id ast.NodeID) {
	switch n := r.nodes.Node(id).(type) {
	case *ast.Struct, *ast.Alias:
		r.typeDecl(id)
	case ast.Variable:
		if _, done := r.info.Variables[id]; !done {
			r.variable(id, n, sem.VariableGlobal)
		}
	}
}

// typeDecl resolves a struct or alias on first use, so declarations can
// refer to types declared later in the module.
func (r *Resolver) typeDecl(id ast.NodeID) sem.Type {
	if t, done := r.info.Types[id]; done {
		return t
	}
	if r.resolving[id] {
		r.errorf(id, "cyclic type declaration")
		return nil
	}

	r.resolving[id] = true
	defer delete(r.resolving, id)

	var t sem.Type

	switch n := r.nodes.Node(id).(type) {
	case *ast.Struct:
		st := &sem.Struct{Decl: id, Name: r.name(n.Name)}
		r.info.Structs[id] = st
		t = st
		r.info.Types[id] = st

		for i, mid := range n.Members {
			m, ok := ast.Get[*ast.StructMember](r.nodes, mid)
			if !ok {
				continue
			}
			sm := &sem.StructMember{Decl: mid, Name: r.name(m.Name), Type: r.typ(m.Type), Index: i}
			if b, ok := ast.GetAttribute[*ast.BuiltinAttribute](r.nodes, m.Attributes); ok {
				sm.Builtin = b.Builtin
			}
			st.Members = append(st.Members, sm)
		}
	case *ast.Alias:
		t = r.typ(n.Type)
		if t != nil {
			r.info.Types[id] = t
		}
	}

	return t
}

// typ resolves a type node.
func (r *Resolver) typ(id ast.NodeID) sem.Type {
	if !id.IsValid() {
		return nil
	}

	var t sem.Type

	switch n := r.nodes.Node(id).(type) {
	case *ast.Bool:
		t = sem.BoolType
	case *ast.I32:
		t = sem.I32Type
	case *ast.U32:
		t = sem.U32Type
	case *ast.F32:
		t = sem.F32Type
	case *ast.Vector:
		if elem := r.typ(n.Elem); elem != nil {
			t = &sem.Vector{Elem: elem, Width: n.Width}
		}
	case *ast.Matrix:
		if elem := r.typ(n.Elem); elem != nil {
			t = &sem.Matrix{Elem: elem, Columns: n.Columns, Rows: n.Rows}
		}
	case *ast.Array:
		if elem := r.typ(n.Elem); elem != nil {
			t = &sem.Array{Elem: elem, Count: n.Count}
		}
	case *ast.Sampler:
		t = &sem.Sampler{Comparison: n.Comparison}
	case *ast.SampledTexture:
		if elem := r.typ(n.Elem); elem != nil {
			t = &sem.SampledTexture{Dim: n.Dim, Elem: elem}
		}
	case *ast.ExternalTexture:
		t = &sem.ExternalTexture{}
	case *ast.TypeName:
		decl, found := r.module.Lookup(n.Name)
		if !found {
			r.errorf(id, "unknown type '%s'", r.name(n.Name))
			return nil
		}
		if _, isType := ast.Get[ast.TypeDecl](r.nodes, decl); !isType {
			r.errorf(id, "'%s' is not a type", r.name(n.Name))
			return nil
		}
		r.info.TypeDecls[id] = decl
		t = r.typeDecl(decl)
	default:
		r.errorf(id, "expected a type")
		return nil
	}

	if t != nil {
		r.info.Types[id] = t
	}

	return t
}

// variable resolves any variable kind and declares it in the current scope
// (module-scope variables were already declared by collect).
func (r *Resolver) variable(id ast.NodeID, v ast.Variable, kind sem.VariableKind) *sem.Variable {
	f := v.Fields()

	sv := &sem.Variable{Decl: id, Name: r.name(f.Name), Kind: kind}

	var initType sem.Type
	if f.Initializer.IsValid() {
		initType = r.expr(f.Initializer)
	}

	switch {
	case f.Type.IsValid():
		sv.Type = r.typ(f.Type)
	case f.Initializer.IsValid():
		sv.Type = initType
	default:
		r.errorf(id, "'%s' has no type or initializer", sv.Name)
	}

	if vr, ok := v.(*ast.Var); ok {
		sv.AddressSpace = vr.AddressSpace
		sv.Access = vr.Access

		if sv.AddressSpace == ast.AddressSpaceNone {
			switch sv.Type.(type) {
			case *sem.Sampler, *sem.SampledTexture, *sem.ExternalTexture:
				sv.AddressSpace = ast.AddressSpaceHandle
			default:
				if kind == sem.VariableLocal {
					sv.AddressSpace = ast.AddressSpaceFunction
				}
			}
		}
	}

	group, hasGroup := ast.GetAttribute[*ast.GroupAttribute](r.nodes, f.Attributes)
	binding, hasBinding := ast.GetAttribute[*ast.BindingAttribute](r.nodes, f.Attributes)
	if hasGroup && hasBinding {
		sv.BindingPoint = &sem.BindingPoint{Group: group.Value, Binding: binding.Value}
	}
	if b, ok := ast.GetAttribute[*ast.BuiltinAttribute](r.nodes, f.Attributes); ok {
		sv.Builtin = b.Builtin
	}

	if kind != sem.VariableGlobal {
		if _, fresh := r.scope.Declare(f.Name, id); !fresh {
			r.errorf(id, "redeclaration of '%s'", sv.Name)
		}
	}

	r.info.Variables[id] = sv

	return sv
}

// signature resolves the parts of a function visible to callers.
func (r *Resolver) signature(id ast.NodeID) {
	fn, _ := ast.Get[*ast.Function](r.nodes, id)

	sf := &sem.Function{
		Decl:          id,
		Name:          r.name(fn.Name),
		ReturnType:    sem.VoidType,
		WorkgroupSize: [3]uint32{1, 1, 1},
	}
	r.info.Functions[id] = sf

	if fn.ReturnType.IsValid() {
		sf.ReturnType = r.typ(fn.ReturnType)
	}

	if stage, ok := ast.GetAttribute[*ast.StageAttribute](r.nodes, fn.Attributes); ok {
		sf.Stage = stage.Stage
	}
	if wg, ok := ast.GetAttribute[*ast.WorkgroupAttribute](r.nodes, fn.Attributes); ok {
		for i, dim := range []ast.NodeID{wg.X, wg.Y, wg.Z} {
			if lit, ok := ast.Get[*ast.IntLiteral](r.nodes, dim); ok {
				sf.WorkgroupSize[i] = uint32(lit.Value)
			}
		}
	}
}

// body resolves parameters and statements of a function.
func (r *Resolver) body(id ast.NodeID) {
	fn, _ := ast.Get[*ast.Function](r.nodes, id)
	sf := r.info.Functions[id]

	r.fn = sf
	r.globals[sf] = make(map[*sem.Variable]bool)
	r.callees[sf] = make(map[*sem.Function]bool)
	r.scope = newScope(ScopeKindFunction, r.module)

	defer func() {
		r.fn = nil
		r.scope = r.module
	}()

	for _, pid := range fn.Params {
		p, ok := ast.Get[*ast.Parameter](r.nodes, pid)
		if !ok {
			r.errorf(pid, "expected a parameter")
			continue
		}
		sf.Params = append(sf.Params, r.variable(pid, p, sem.VariableParameter))
	}

	sf.Behaviors = r.statement(fn.Body, true)
}

func (r *Resolver) push(kind ScopeKind) {
	r.scope = newScope(kind, r.scope)
}

func (r *Resolver) pop() {
	r.scope = r.scope.Parent
}

var next = sem.Behaviors(sem.BehaviorNext)

// statement resolves one statement and returns its behaviors.
func (r *Resolver) statement(id ast.NodeID, reachable bool) sem.Behaviors {
	if !id.IsValid() {
		return next
	}

	outer := r.stmt
	r.stmt = id
	defer func() { r.stmt = outer }()

	ss := &sem.Statement{Decl: id, Function: r.fn, Reachable: reachable}
	r.info.Stmts[id] = ss

	var b sem.Behaviors

	switch n := r.nodes.Node(id).(type) {
	case *ast.Block:
		r.push(ScopeKindBlock)
		b = r.statements(n.Statements, reachable)
		r.pop()
	case *ast.VarDecl:
		if v, ok := ast.Get[ast.Variable](r.nodes, n.Variable); ok {
			r.variable(n.Variable, v, sem.VariableLocal)
		}
		b = next
	case *ast.Assign:
		r.expr(n.LHS)
		r.expr(n.RHS)
		b = next
	case *ast.Increment:
		r.expr(n.LHS)
		b = next
	case *ast.CallStatement:
		r.expr(n.Call)
		b = next
	case *ast.If:
		r.expr(n.Condition)
		b = r.statement(n.Body, reachable)
		if n.Else.IsValid() {
			b = b.Union(r.statement(n.Else, reachable))
		} else {
			b = b.Union(next)
		}
	case *ast.For:
		r.push(ScopeKindLoop)
		r.statement(n.Initializer, reachable)
		if n.Condition.IsValid() {
			r.expr(n.Condition)
		}
		body := r.statement(n.Body, reachable)
		r.statement(n.Continuing, reachable)
		r.pop()
		b = loopBehaviors(body, n.Condition.IsValid())
	case *ast.While:
		r.expr(n.Condition)
		b = loopBehaviors(r.statement(n.Body, reachable), true)
	case *ast.Loop:
		body, ok := ast.Get[*ast.Block](r.nodes, n.Body)
		r.push(ScopeKindLoop)
		var inner sem.Behaviors
		if ok {
			// The continuing block sees the declarations of the body.
			r.info.Stmts[n.Body] = &sem.Statement{Decl: n.Body, Function: r.fn, Reachable: reachable}
			inner = r.statements(body.Statements, reachable)
			r.info.Stmts[n.Body].Behaviors = inner
		}
		r.statement(n.Continuing, reachable)
		r.pop()
		b = loopBehaviors(inner, false)
	case *ast.Break:
		b = sem.Behaviors(sem.BehaviorBreak)
	case *ast.Continue:
		b = sem.Behaviors(sem.BehaviorContinue)
	case *ast.Discard:
		b = sem.Behaviors(sem.BehaviorDiscard)
	case *ast.Return:
		if n.Value.IsValid() {
			r.expr(n.Value)
		}
		b = sem.Behaviors(sem.BehaviorReturn)
	default:
		r.errorf(id, "expected a statement")
		b = next
	}

	ss.Behaviors = b

	return b
}

// statements resolves a statement list. A statement is reachable when the
// behaviors accumulated before it still include Next.
func (r *Resolver) statements(ids []ast.NodeID, reachable bool) sem.Behaviors {
	b := next

	for _, id := range ids {
		live := reachable && b.Has(sem.BehaviorNext)
		sb := r.statement(id, live)
		if live {
			b = b.Without(sem.BehaviorNext).Union(sb)
		}
	}

	return b
}

// loopBehaviors: a loop only completes through a break or a failing
// condition.
func loopBehaviors(body sem.Behaviors, hasCondition bool) sem.Behaviors {
	if body.Has(sem.BehaviorBreak) || hasCondition {
		body = body.With(sem.BehaviorNext)
	} else {
		body = body.Without(sem.BehaviorNext)
	}
	return body.Without(sem.BehaviorBreak, sem.BehaviorContinue)
}

// expr resolves an expression and returns its type, nil when unknown.
func (r *Resolver) expr(id ast.NodeID) sem.Type {
	if !id.IsValid() {
		return nil
	}

	se := &sem.Expression{Decl: id, Stmt: r.stmt}
	r.info.Exprs[id] = se

	switch n := r.nodes.Node(id).(type) {
	case *ast.Ident:
		r.ident(id, n, se)
	case *ast.IntLiteral:
		if n.Suffix == ast.SuffixU {
			se.Type = sem.U32Type
		} else {
			se.Type = sem.I32Type
		}
	case *ast.FloatLiteral:
		se.Type = sem.F32Type
	case *ast.BoolLiteral:
		se.Type = sem.BoolType
	case *ast.Binary:
		se.Type = binaryType(n.Op, r.expr(n.LHS), r.expr(n.RHS))
	case *ast.Unary:
		se.Type = r.expr(n.Expr)
	case *ast.Call:
		r.call(id, n, se)
	case *ast.Index:
		obj := r.expr(n.Object)
		r.expr(n.Index)
		switch t := obj.(type) {
		case *sem.Vector:
			se.Type = t.Elem
		case *sem.Matrix:
			se.Type = &sem.Vector{Elem: t.Elem, Width: t.Rows}
		case *sem.Array:
			se.Type = t.Elem
		case nil:
		default:
			r.errorf(id, "cannot index a value of type %s", obj)
		}
	case *ast.Member:
		r.member(id, n, se)
	default:
		delete(r.info.Exprs, id)
		r.errorf(id, "expected an expression")
	}

	return se.Type
}

func (r *Resolver) ident(id ast.NodeID, n *ast.Ident, se *sem.Expression) {
	decl, found := r.scope.Lookup(n.Symbol)
	if !found {
		r.errorf(id, "unknown identifier '%s'", r.name(n.Symbol))
		return
	}

	sv, ok := r.info.Variables[decl]
	if !ok {
		v, isVar := ast.Get[ast.Variable](r.nodes, decl)
		if !isVar {
			r.errorf(id, "'%s' is not a value", r.name(n.Symbol))
			return
		}
		// A module-scope variable used by an initializer declared before it.
		sv = r.variable(decl, v, sem.VariableGlobal)
	}

	se.Variable = sv
	se.Type = sv.Type
	sv.Users = append(sv.Users, id)

	if sv.Kind == sem.VariableGlobal && r.fn != nil && !r.globals[r.fn][sv] {
		r.globals[r.fn][sv] = true
		r.fn.DirectGlobals = append(r.fn.DirectGlobals, sv)
	}
}

func (r *Resolver) call(id ast.NodeID, n *ast.Call, se *sem.Expression) {
	args := make([]sem.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = r.expr(a)
	}

	if _, isType := ast.Get[ast.Type](r.nodes, n.Target); isType {
		se.Type = r.typ(n.Target)
		return
	}

	target, ok := ast.Get[*ast.Ident](r.nodes, n.Target)
	if !ok {
		r.errorf(id, "call target must be a name or a type")
		return
	}
	name := r.name(target.Symbol)

	if decl, found := r.module.Lookup(target.Symbol); found {
		switch r.nodes.Node(decl).(type) {
		case *ast.Function:
			callee := r.info.Functions[decl]
			if callee == nil {
				r.errorf(id, "'%s' cannot be called here", name)
				return
			}
			se.Target = callee
			se.Type = callee.ReturnType
			if r.fn != nil && !r.callees[r.fn][callee] {
				r.callees[r.fn][callee] = true
				r.fn.Callees = append(r.fn.Callees, callee)
			}
			return
		case *ast.Struct, *ast.Alias:
			se.Type = r.typeDecl(decl)
			return
		}
	}

	fn, ok := builtins[name]
	if !ok {
		r.errorf(id, "unknown function '%s'", name)
		return
	}

	se.Builtin = name
	se.Type = fn(args)
}

const swizzleSets = "xyzw" + "rgba"

func (r *Resolver) member(id ast.NodeID, n *ast.Member, se *sem.Expression) {
	obj := r.expr(n.Object)
	name := r.name(n.Member)

	switch t := obj.(type) {
	case *sem.Struct:
		m, ok := t.Member(name)
		if !ok {
			r.errorf(id, "struct %s has no member '%s'", t.Name, name)
			return
		}
		se.Member = m
		se.Type = m.Type
	case *sem.Vector:
		idx := make([]int, 0, len(name))
		for _, c := range name {
			i := strings.IndexRune(swizzleSets, c)
			if i < 0 || i%4 >= t.Width {
				r.errorf(id, "invalid vector swizzle '%s'", name)
				return
			}
			idx = append(idx, i%4)
		}
		if len(idx) == 0 || len(idx) > 4 {
			r.errorf(id, "invalid vector swizzle '%s'", name)
			return
		}
		se.Swizzle = idx
		if len(idx) == 1 {
			se.Type = t.Elem
		} else {
			se.Type = &sem.Vector{Elem: t.Elem, Width: len(idx)}
		}
	case nil:
	default:
		r.errorf(id, "type %s has no members", obj)
	}
}

func binaryType(op ast.BinaryOp, lhs, rhs sem.Type) sem.Type {
	if lhs == nil || rhs == nil {
		return nil
	}

	if op.IsComparison() {
		if v, ok := lhs.(*sem.Vector); ok {
			return &sem.Vector{Elem: sem.BoolType, Width: v.Width}
		}
		return sem.BoolType
	}
	if op.IsLogical() {
		return sem.BoolType
	}

	switch l := lhs.(type) {
	case *sem.Matrix:
		if v, ok := rhs.(*sem.Vector); ok && op == ast.BinaryMul {
			return &sem.Vector{Elem: v.Elem, Width: l.Rows}
		}
		return lhs
	case *sem.Vector:
		if m, ok := rhs.(*sem.Matrix); ok && op == ast.BinaryMul {
			return &sem.Vector{Elem: l.Elem, Width: m.Columns}
		}
		return lhs
	}

	// scalar op vector yields the vector
	switch rhs.(type) {
	case *sem.Vector, *sem.Matrix:
		return rhs
	}

	return lhs
}

// summarize fills the call-graph derived facts once every body resolved.
func (r *Resolver) summarize(mod *ast.Module) {
	for _, id := range mod.Globals {
		sf, ok := r.info.Functions[id]
		if !ok {
			continue
		}

		seen := make(map[*sem.Variable]bool)
		visited := make(map[*sem.Function]bool)

		var walk func(*sem.Function)
		walk = func(f *sem.Function) {
			if visited[f] {
				return
			}
			visited[f] = true
			for _, g := range f.DirectGlobals {
				if !seen[g] {
					seen[g] = true
					sf.TransitiveGlobals = append(sf.TransitiveGlobals, g)
				}
			}
			for _, c := range f.Callees {
				walk(c)
			}
		}
		walk(sf)

		if !sf.IsEntryPoint() {
			continue
		}

		r.info.EntryPoints = append(r.info.EntryPoints, sf)

		for f := range visited {
			if f != sf {
				f.AncestorEntryPoints = append(f.AncestorEntryPoints, sf)
			}
		}
	}
}
