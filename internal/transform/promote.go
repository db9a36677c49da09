package transform

import (
	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
)

// PromoteInitializersToLet hoists array and structure constructor
// expressions into let declarations placed before the statement using
// them, for backends that cannot construct composites inline. A
// constructor that already initializes a declaration stays where it is.
type PromoteInitializersToLet struct{}

// NewPromoteInitializersToLet creates the transform.
func NewPromoteInitializersToLet() *PromoteInitializersToLet {
	return &PromoteInitializersToLet{}
}

func (*PromoteInitializersToLet) Name() string { return "PromoteInitializersToLet" }

func (*PromoteInitializersToLet) ShouldRun(prog *program.Program, _ *DataMap) bool {
	return anyNode(prog, func(id ast.NodeID, _ *ast.Call) bool {
		return promotable(prog, id)
	})
}

func (*PromoteInitializersToLet) Run(ctx *clone.Context, _, _ *DataMap) error {
	src := ctx.Src
	hoist := NewHoistToDeclBefore(ctx)

	// Arena order visits inner constructors first, so an outer
	// constructor's hoisted value already refers to its hoisted operands.
	var err error
	forEach(src, func(id ast.NodeID, _ *ast.Call) {
		if err != nil || !promotable(src, id) {
			return
		}
		err = hoist.Add(id, id, true, "")
	})
	if err != nil {
		return err
	}

	if err := hoist.Apply(); err != nil {
		return err
	}

	return cloneOnly(ctx)
}

// promotable reports whether the call id constructs an array or structure
// inside a function body, other than as a declaration's initializer.
func promotable(prog *program.Program, id ast.NodeID) bool {
	info := prog.Sem()
	if info.Call(id) != nil {
		return false
	}

	switch info.TypeOf(id).(type) {
	case *sem.Array, *sem.Struct:
	default:
		return false
	}

	if !prog.FunctionOf(id).IsValid() {
		return false
	}

	if v, ok := ast.Get[ast.Variable](prog, prog.Parent(id)); ok && v.Fields().Initializer == id {
		return false
	}

	return true
}
