// Package program holds the immutable, resolved form of a module. A
// Program is produced once from a Builder and never changes afterwards;
// transforms produce new programs by cloning.
package program

import (
	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/resolver"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/symbol"
)

// Builder accumulates the nodes of a program under construction.
type Builder struct {
	*ast.Builder
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{Builder: ast.NewBuilder()}
}

// NewBuilderWithSymbols creates a builder that allocates names from
// symbols.
func NewBuilderWithSymbols(symbols *symbol.Table) *Builder {
	return &Builder{Builder: ast.NewBuilderWithSymbols(symbols)}
}

// Program is a resolved module.
type Program struct {
	id      ast.ProgramID
	nodes   []ast.Node
	module  ast.NodeID
	symbols *symbol.Table
	sem     *sem.Info
	diags   diagnostics.List
	parents []ast.NodeID
}

// Build freezes the builder's arena into a program and resolves it. A
// builder that already carries errors yields an invalid program holding
// those errors, without semantic information. b must not be used again.
func Build(b *Builder) *Program {
	mod := b.New(&ast.Module{Globals: append([]ast.NodeID(nil), b.Globals()...)})

	p := &Program{
		id:      b.ID(),
		nodes:   b.Arena(),
		module:  mod,
		symbols: b.Symbols(),
		sem:     sem.NewInfo(),
	}
	p.diags.Append(b.Diagnostics)
	p.parents = parentsOf(p.nodes, mod)

	b.Builder = nil

	if p.diags.ContainsErrors() {
		return p
	}

	info, diags := resolver.Resolve(p, mod)
	p.sem = info
	p.diags.Append(diags)

	return p
}

func parentsOf(nodes []ast.Node, root ast.NodeID) []ast.NodeID {
	parents := make([]ast.NodeID, len(nodes))

	stack := []ast.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range ast.Children(nodes[id]) {
			if int(child) < len(nodes) && parents[child] == ast.None && child != root {
				parents[child] = id
				stack = append(stack, child)
			}
		}
	}

	return parents
}

// ID returns the identifier stamped on the program's nodes.
func (p *Program) ID() ast.ProgramID { return p.id }

// Node returns the node with the given id, or nil.
func (p *Program) Node(id ast.NodeID) ast.Node {
	if int(id) >= len(p.nodes) {
		return nil
	}
	return p.nodes[id]
}

// Len returns the number of nodes in the arena.
func (p *Program) Len() int { return len(p.nodes) - 1 }

// ModuleID returns the root node id.
func (p *Program) ModuleID() ast.NodeID { return p.module }

// Module returns the root node.
func (p *Program) Module() *ast.Module {
	m, _ := ast.Get[*ast.Module](p, p.module)
	return m
}

// Globals returns the module-scope declarations.
func (p *Program) Globals() []ast.NodeID { return p.Module().Globals }

// Symbols returns the symbol table.
func (p *Program) Symbols() *symbol.Table { return p.symbols }

// NameOf returns the name of sym.
func (p *Program) NameOf(sym symbol.ID) string { return p.symbols.NameFor(sym) }

// Sem returns the semantic information.
func (p *Program) Sem() *sem.Info { return p.sem }

// Diagnostics returns every diagnostic attached to the program.
func (p *Program) Diagnostics() diagnostics.List { return p.diags }

// IsValid reports whether the program has no error diagnostics.
func (p *Program) IsValid() bool { return !p.diags.ContainsErrors() }

// Parent returns the parent of id, None for the root or a detached node.
func (p *Program) Parent(id ast.NodeID) ast.NodeID {
	if int(id) >= len(p.parents) {
		return ast.None
	}
	return p.parents[id]
}

// InTree reports whether id is reachable from the module root.
func (p *Program) InTree(id ast.NodeID) bool {
	return id == p.module || p.Parent(id).IsValid()
}

// StatementOf returns the innermost statement holding id, or None.
func (p *Program) StatementOf(id ast.NodeID) ast.NodeID {
	for cur := p.Parent(id); cur.IsValid(); cur = p.Parent(cur) {
		if _, ok := ast.Get[ast.Statement](p, cur); ok {
			return cur
		}
	}
	return ast.None
}

// FunctionOf returns the function holding id, or None at module scope.
func (p *Program) FunctionOf(id ast.NodeID) ast.NodeID {
	for cur := id; cur.IsValid(); cur = p.Parent(cur) {
		if _, ok := ast.Get[*ast.Function](p, cur); ok {
			return cur
		}
	}
	return ast.None
}

// IsReachable reports whether control can reach the statement id.
func (p *Program) IsReachable(id ast.NodeID) bool {
	return p.sem.IsReachable(id)
}

// WithDiagnostics returns a program sharing this tree with extra
// diagnostics appended.
func (p *Program) WithDiagnostics(extra ...diagnostics.Diagnostic) *Program {
	cp := *p
	cp.diags = append(append(diagnostics.List(nil), p.diags...), extra...)
	return &cp
}
