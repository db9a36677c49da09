package transform

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/symbol"
)

// HoistToDeclBefore moves expressions into let or var declarations placed
// before the statement that evaluates them. Declarations that must run
// inside a loop header or an else-if condition restructure the enclosing
// statement:
//
//   - for and while conditions turn the loop into
//     loop { decls; if (!(cond)) { break; } { body } continuing { ... } };
//   - for continuing statements move into the continuing block of that loop;
//   - else-if conditions become else { decls; if (cond) ... }.
//
// Add and InsertBefore record work; Apply registers the rewrites on the
// clone context and must run before the module is cloned.
type HoistToDeclBefore struct {
	ctx *clone.Context

	loops     map[ast.NodeID]*pendingLoop
	loopOrder []ast.NodeID

	elseIfs     map[ast.NodeID]*pendingElseIf
	elseIfOrder []ast.NodeID
}

type pendingLoop struct {
	condDecls []ast.NodeID
	contDecls []ast.NodeID
}

type pendingElseIf struct {
	condDecls []ast.NodeID
}

// NewHoistToDeclBefore creates a hoister bound to ctx.
func NewHoistToDeclBefore(ctx *clone.Context) *HoistToDeclBefore {
	return &HoistToDeclBefore{
		ctx:     ctx,
		loops:   make(map[ast.NodeID]*pendingLoop),
		elseIfs: make(map[ast.NodeID]*pendingElseIf),
	}
}

// Add hoists expr into a declaration inserted before the statement that
// holds before, and replaces expr with a reference to it. asConst selects
// let over var. An empty nameHint falls back to the default symbol name.
func (h *HoistToDeclBefore) Add(before, expr ast.NodeID, asConst bool, nameHint string) error {
	src := h.ctx.Src
	dst := h.ctx.Dst

	stmt := src.StatementOf(before)
	if !stmt.IsValid() {
		return errors.InvalidInput("HOIST_OUTSIDE_FUNCTION",
			fmt.Sprintf("expression %d is not inside a statement", before), nil)
	}

	if nameHint == "" {
		nameHint = symbol.DefaultName
	}
	name := dst.Symbols().New(nameHint)

	value := h.ctx.Clone(expr)

	var decl ast.NodeID
	if asConst {
		decl = dst.LetSym(name, ast.None, value)
	} else {
		decl = dst.New(&ast.Var{VariableFields: ast.VariableFields{Name: name, Initializer: value}})
	}

	h.ctx.ReplaceFunc(expr, func() ast.NodeID {
		return dst.IdentSym(name)
	})

	switch src.Node(stmt).(type) {
	case *ast.For, *ast.While:
		// The only expression a loop statement holds directly is its
		// condition, which is evaluated on every iteration.
		info := h.loop(stmt)
		info.condDecls = append(info.condDecls, dst.Decl(decl))
		return nil
	}

	return h.InsertBefore(stmt, dst.Decl(decl))
}

// InsertBefore places the destination statement newStmt so that it runs
// before the source statement before, restructuring loop headers and
// else-if chains where needed.
func (h *HoistToDeclBefore) InsertBefore(before, newStmt ast.NodeID) error {
	src := h.ctx.Src

	switch src.Node(before).(type) {
	case *ast.If:
		if parent, ok := src.Node(src.Parent(before)).(*ast.If); ok && parent.Else == before {
			info := h.elseIfs[before]
			if info == nil {
				info = &pendingElseIf{}
				h.elseIfs[before] = info
				h.elseIfOrder = append(h.elseIfOrder, before)
			}
			info.condDecls = append(info.condDecls, newStmt)
			return nil
		}
	case nil:
		return errors.InvalidInput("HOIST_UNKNOWN_STATEMENT",
			fmt.Sprintf("statement %d is not part of the program", before), nil)
	}

	parentID := src.Parent(before)
	switch parent := src.Node(parentID).(type) {
	case *ast.Block:
		h.ctx.InsertBefore(before, newStmt)
		return nil
	case *ast.For:
		switch before {
		case parent.Initializer:
			return h.InsertBefore(parentID, newStmt)
		case parent.Continuing:
			info := h.loop(parentID)
			info.contDecls = append(info.contDecls, newStmt)
			return nil
		}
	}

	return errors.InvalidInput("HOIST_UNSUPPORTED_POSITION",
		fmt.Sprintf("cannot insert a statement before %s node %d",
			src.Node(before).TypeInfo().Name, before), nil)
}

func (h *HoistToDeclBefore) loop(id ast.NodeID) *pendingLoop {
	info := h.loops[id]
	if info == nil {
		info = &pendingLoop{}
		h.loops[id] = info
		h.loopOrder = append(h.loopOrder, id)
	}
	return info
}

// Apply registers the restructuring of every loop and else-if that
// received declarations.
func (h *HoistToDeclBefore) Apply() error {
	ctx := h.ctx
	src := ctx.Src
	dst := ctx.Dst

	for _, id := range h.loopOrder {
		id, info := id, h.loops[id]

		switch n := src.Node(id).(type) {
		case *ast.For:
			ctx.ReplaceFunc(id, func() ast.NodeID {
				stmts := append([]ast.NodeID(nil), info.condDecls...)
				if n.Condition.IsValid() {
					stmts = append(stmts, h.breakUnless(n.Condition))
				}
				stmts = append(stmts, ctx.Clone(n.Body))

				cont := ast.None
				if n.Continuing.IsValid() {
					contStmts := append([]ast.NodeID(nil), info.contDecls...)
					contStmts = append(contStmts, ctx.Clone(n.Continuing))
					cont = dst.Block(contStmts...)
				}

				loop := dst.Loop(dst.Block(stmts...), cont)
				if n.Initializer.IsValid() {
					return dst.Block(ctx.Clone(n.Initializer), loop)
				}
				return loop
			})
		case *ast.While:
			ctx.ReplaceFunc(id, func() ast.NodeID {
				stmts := append([]ast.NodeID(nil), info.condDecls...)
				stmts = append(stmts, h.breakUnless(n.Condition), ctx.Clone(n.Body))
				return dst.Loop(dst.Block(stmts...), ast.None)
			})
		}
	}

	for _, id := range h.elseIfOrder {
		id, info := id, h.elseIfs[id]
		n := src.Node(id).(*ast.If)

		ctx.ReplaceFunc(id, func() ast.NodeID {
			cond := ctx.Clone(n.Condition)
			body := ctx.Clone(n.Body)
			els := ctx.Clone(n.Else)

			stmts := append([]ast.NodeID(nil), info.condDecls...)
			stmts = append(stmts, dst.If(cond, body, els))
			return dst.Block(stmts...)
		})
	}

	return nil
}

// breakUnless builds if (!(cond)) { break; }.
func (h *HoistToDeclBefore) breakUnless(cond ast.NodeID) ast.NodeID {
	dst := h.ctx.Dst
	return dst.If(dst.Not(h.ctx.Clone(cond)), dst.Block(dst.Break()), ast.None)
}
