package transform

import (
	"testing"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/format"
	"github.com/orizon-lang/prism/internal/program"
)

func hoist(t *testing.T, b *program.Builder, fn func(h *HoistToDeclBefore) error) string {
	t.Helper()

	ctx := clone.New(program.Build(b))
	h := NewHoistToDeclBefore(ctx)
	if err := fn(h); err != nil {
		t.Fatalf("hoist: %v", err)
	}
	if err := h.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	ctx.CloneModule()

	return format.Program(program.Build(ctx.Dst))
}

func TestHoistVarInit(t *testing.T) {
	b := program.NewBuilder()
	expr := b.Expr(1)
	b.Func("f", nil, ast.None, []ast.NodeID{b.Decl(b.Var("a", ast.None, expr))})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "")
	})

	want := `fn f() {
  let tint_symbol = 1;
  var a = tint_symbol;
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistForLoopInit(t *testing.T) {
	b := program.NewBuilder()
	expr := b.Expr(1)
	loop := b.For(b.Decl(b.Var("a", ast.None, expr)), b.Expr(true), ast.None, b.Block())
	b.Func("f", nil, ast.None, []ast.NodeID{loop})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "")
	})

	want := `fn f() {
  let tint_symbol = 1;
  for(var a = tint_symbol; true; ) {
  }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistForLoopCond(t *testing.T) {
	b := program.NewBuilder()
	decl := b.Decl(b.Var("a", b.Ty().Bool(), ast.None))
	expr := b.Expr("a")
	b.Func("f", nil, ast.None, []ast.NodeID{decl, b.For(ast.None, expr, ast.None, b.Block())})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "")
	})

	want := `fn f() {
  var a : bool;
  loop {
    let tint_symbol = a;
    if (!(tint_symbol)) {
      break;
    }
    {
    }
  }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistForLoopCont(t *testing.T) {
	b := program.NewBuilder()
	expr := b.Expr(1)
	loop := b.For(ast.None, b.Expr(true), b.Decl(b.Var("a", ast.None, expr)), b.Block())
	b.Func("f", nil, ast.None, []ast.NodeID{loop})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "")
	})

	want := `fn f() {
  loop {
    if (!(true)) {
      break;
    }
    {
    }

    continuing {
      let tint_symbol = 1;
      var a = tint_symbol;
    }
  }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistForLoopCondKeepsInitializer(t *testing.T) {
	b := program.NewBuilder()
	expr := b.Less("i", 4)
	loop := b.For(b.Decl(b.Var("i", b.Ty().I32(), b.Expr(0))), expr, ast.None, b.Block())
	b.Func("f", nil, ast.None, []ast.NodeID{loop})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "c")
	})

	want := `fn f() {
  {
    var i : i32 = 0;
    loop {
      let c = (i < 4);
      if (!(c)) {
        break;
      }
      {
      }
    }
  }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistWhileCond(t *testing.T) {
	b := program.NewBuilder()
	decl := b.Decl(b.Var("a", b.Ty().Bool(), ast.None))
	expr := b.Expr("a")
	b.Func("f", nil, ast.None, []ast.NodeID{decl, b.While(expr, b.Block(b.Assign("a", false)))})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "")
	})

	want := `fn f() {
  var a : bool;
  loop {
    let tint_symbol = a;
    if (!(tint_symbol)) {
      break;
    }
    {
      a = false;
    }
  }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistElseIf(t *testing.T) {
	b := program.NewBuilder()
	decl := b.Decl(b.Var("a", b.Ty().Bool(), ast.None))
	expr := b.Expr("a")
	stmt := b.If(true, b.Block(), b.If(expr, b.Block(), b.Block()))
	b.Func("f", nil, ast.None, []ast.NodeID{decl, stmt})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "")
	})

	want := `fn f() {
  var a : bool;
  if (true) {
  } else {
    let tint_symbol = a;
    if (tint_symbol) {
    } else {
    }
  }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistOrderAndVar(t *testing.T) {
	b := program.NewBuilder()
	one := b.Expr(1)
	two := b.Expr(2)
	b.Func("f", nil, ast.None, []ast.NodeID{b.Decl(b.Var("a", ast.None, b.Add(one, two)))})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		if err := h.Add(one, one, true, "x"); err != nil {
			return err
		}
		return h.Add(two, two, false, "b")
	})

	want := `fn f() {
  let x = 1;
  var b = 2;
  var a = (x + b);
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistNameAvoidsExistingSymbols(t *testing.T) {
	b := program.NewBuilder()
	expr := b.Expr(1)
	b.Func("f", nil, ast.None, []ast.NodeID{
		b.Decl(b.Let("tint_symbol", ast.None, b.Expr(0))),
		b.Decl(b.Var("a", ast.None, expr)),
	})

	got := hoist(t, b, func(h *HoistToDeclBefore) error {
		return h.Add(expr, expr, true, "")
	})

	want := `fn f() {
  let tint_symbol = 0;
  let tint_symbol_1 = 1;
  var a = tint_symbol_1;
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHoistOutsideFunction(t *testing.T) {
	b := program.NewBuilder()
	expr := b.Expr(1)
	b.GlobalConst("c", ast.None, expr)

	ctx := clone.New(program.Build(b))
	if err := NewHoistToDeclBefore(ctx).Add(expr, expr, true, ""); err == nil {
		t.Fatal("expected an error for a module-scope expression")
	}
}
