package transform

import (
	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
)

// forEach calls fn for every node of type T reachable from the module
// root, in creation order.
func forEach[T ast.Node](prog *program.Program, fn func(id ast.NodeID, n T)) {
	for i := 1; i <= prog.Len(); i++ {
		id := ast.NodeID(i)
		if n, ok := ast.Get[T](prog, id); ok && prog.InTree(id) {
			fn(id, n)
		}
	}
}

// anyNode reports whether pred holds for some node of type T in the tree.
func anyNode[T ast.Node](prog *program.Program, pred func(id ast.NodeID, n T) bool) bool {
	for i := 1; i <= prog.Len(); i++ {
		id := ast.NodeID(i)
		if n, ok := ast.Get[T](prog, id); ok && prog.InTree(id) && pred(id, n) {
			return true
		}
	}
	return false
}

// builtinOf returns the builtin attribute value in attrs.
func builtinOf(prog *program.Program, attrs []ast.NodeID) ast.BuiltinValue {
	if b, ok := ast.GetAttribute[*ast.BuiltinAttribute](prog, attrs); ok {
		return b.Builtin
	}
	return ast.BuiltinNone
}

// isExternalTexture reports whether t, after alias resolution, is
// texture_external.
func isExternalTexture(t sem.Type) bool {
	_, ok := t.(*sem.ExternalTexture)
	return ok
}

// enclosingFunction returns the semantic function holding id, or nil.
func enclosingFunction(prog *program.Program, id ast.NodeID) *sem.Function {
	fn := prog.FunctionOf(id)
	if !fn.IsValid() {
		return nil
	}
	return prog.Sem().Function(fn)
}
