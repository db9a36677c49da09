package transform

import (
	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/program"
)

// RemoveUnreachableStatements drops every statement control can never
// reach, such as code following a return.
type RemoveUnreachableStatements struct{}

// NewRemoveUnreachableStatements creates the transform.
func NewRemoveUnreachableStatements() *RemoveUnreachableStatements {
	return &RemoveUnreachableStatements{}
}

func (*RemoveUnreachableStatements) Name() string { return "RemoveUnreachableStatements" }

func (*RemoveUnreachableStatements) ShouldRun(prog *program.Program, _ *DataMap) bool {
	for _, s := range prog.Sem().Stmts {
		if !s.Reachable {
			return true
		}
	}
	return false
}

func (*RemoveUnreachableStatements) Run(ctx *clone.Context, _, _ *DataMap) error {
	src := ctx.Src

	forEach(src, func(id ast.NodeID, _ ast.Statement) {
		if src.IsReachable(id) {
			return
		}
		if _, inBlock := ast.Get[*ast.Block](src, src.Parent(id)); inBlock {
			ctx.Remove(id)
		}
	})

	return cloneOnly(ctx)
}
