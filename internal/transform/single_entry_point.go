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

// SingleEntryPointConfig names the entry point to keep.
type SingleEntryPointConfig struct {
	EntryPointName string
}

// SingleEntryPoint strips a module down to one entry point and the
// declarations it transitively uses. Overrides are always kept, since the
// pipeline may set them whether or not the shader reads them.
type SingleEntryPoint struct{}

// NewSingleEntryPoint creates the transform.
func NewSingleEntryPoint() *SingleEntryPoint { return &SingleEntryPoint{} }

func (*SingleEntryPoint) Name() string { return "SingleEntryPoint" }

func (*SingleEntryPoint) ShouldRun(prog *program.Program, data *DataMap) bool {
	return Has[SingleEntryPointConfig](data) || len(prog.Sem().EntryPoints) > 0
}

func (t *SingleEntryPoint) Run(ctx *clone.Context, inputs, _ *DataMap) error {
	cfg, ok := Get[SingleEntryPointConfig](inputs)
	if !ok {
		return errors.MissingTransformData(t.Name())
	}

	src := ctx.Src
	info := src.Sem()

	var entry *sem.Function
	for _, ep := range info.EntryPoints {
		if ep.Name == cfg.EntryPointName {
			entry = ep
			break
		}
	}
	if entry == nil {
		return errors.InvalidInput("ENTRY_POINT_NOT_FOUND",
			fmt.Sprintf("entry point '%s' not found", cfg.EntryPointName),
			map[string]interface{}{"entry_point": cfg.EntryPointName})
	}

	keep := usedDeclarations(src, entry.Decl)

	for _, id := range src.Globals() {
		if keep[id] {
			continue
		}
		if _, isOverride := ast.Get[*ast.Override](src, id); isOverride {
			continue
		}
		ctx.Remove(id)
	}

	return cloneOnly(ctx)
}

// usedDeclarations returns root and every module-scope declaration
// reachable from it through identifiers, calls and type references.
func usedDeclarations(prog *program.Program, root ast.NodeID) map[ast.NodeID]bool {
	info := prog.Sem()

	globals := make(map[symbol.ID]ast.NodeID)
	for _, id := range prog.Globals() {
		if d, ok := ast.Get[ast.Declaration](prog, id); ok {
			globals[d.DeclName()] = id
		}
	}

	keep := map[ast.NodeID]bool{root: true}
	queue := []ast.NodeID{root}

	use := func(decl ast.NodeID) {
		if decl.IsValid() && !keep[decl] {
			keep[decl] = true
			queue = append(queue, decl)
		}
	}

	var visit func(id ast.NodeID)
	visit = func(id ast.NodeID) {
		switch n := prog.Node(id).(type) {
		case *ast.Ident:
			if v := info.VariableOf(id); v != nil && v.Kind == sem.VariableGlobal {
				use(v.Decl)
			}
		case *ast.Call:
			if sc := info.Call(id); sc != nil && sc.Target != nil {
				use(sc.Target.Decl)
			} else if target, ok := ast.Get[*ast.Ident](prog, n.Target); ok && sc == nil {
				// Constructor named by a struct or an alias.
				use(globals[target.Symbol])
			}
		case *ast.TypeName:
			use(info.TypeDecl(id))
		}

		if st, ok := info.TypeOf(id).(*sem.Struct); ok {
			use(st.Decl)
		}

		for _, child := range ast.Children(prog.Node(id)) {
			visit(child)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visit(id)
	}

	return keep
}
