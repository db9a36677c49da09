package transform

import (
	"testing"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/program"
)

func TestPromoteInitializersShouldRun(t *testing.T) {
	tr := NewPromoteInitializersToLet()

	b := program.NewBuilder()
	b.Func("f", nil, ast.None, []ast.NodeID{
		b.Decl(b.Var("v", ast.None, b.Construct(b.Ty().Array(b.Ty().F32(), 2), 1.0, 2.0))),
		b.Decl(b.Var("w", ast.None, b.Construct(b.Ty().Vec2(b.Ty().F32()), 1.0, 2.0))),
	})
	if tr.ShouldRun(program.Build(b), nil) {
		t.Error("ShouldRun true when every constructor initializes a declaration")
	}

	b = program.NewBuilder()
	b.Func("f", nil, ast.None, []ast.NodeID{
		b.Decl(b.Var("v", ast.None, b.IndexAccessor(b.Construct(b.Ty().Array(b.Ty().F32(), 2), 1.0, 2.0), 1))),
	})
	if !tr.ShouldRun(program.Build(b), nil) {
		t.Error("ShouldRun false for an indexed array constructor")
	}
}

func TestPromoteInitializers(t *testing.T) {
	b := program.NewBuilder()
	b.Struct("S", b.Member("a", b.Ty().I32()), b.Member("b", b.Ty().I32()))
	b.GlobalConst("c", ast.None, b.IndexAccessor(b.Construct(b.Ty().Array(b.Ty().I32(), 1), 1), 0))
	arr := func() ast.NodeID { return b.Ty().Array(b.Ty().F32(), 2) }
	b.Func("f", nil, ast.None, []ast.NodeID{
		b.Decl(b.Var("v", arr(), b.Construct(arr(), 1.0, 2.0))),
		b.Decl(b.Var("x", ast.None, b.IndexAccessor(b.Construct(arr(), 1.0, 2.0), 1))),
		b.Decl(b.Let("s", ast.None, b.MemberAccessor(b.Call("S", 1, 2), "a"))),
	})

	want := `struct S {
  a : i32,
  b : i32,
}

const c = array<i32, 1>(1)[0];

fn f() {
  var v : array<f32, 2> = array<f32, 2>(1.0, 2.0);
  let tint_symbol = array<f32, 2>(1.0, 2.0);
  var x = tint_symbol[1];
  let tint_symbol_1 = S(1, 2);
  let s = tint_symbol_1.a;
}
`
	expectOutput(t, run(b, nil, NewPromoteInitializersToLet()), want)
}

func TestPromoteInitializersNested(t *testing.T) {
	b := program.NewBuilder()
	inner := b.Construct(b.Ty().Array(b.Ty().F32(), 1), 1.0)
	outer := b.Construct(b.Ty().Array(b.Ty().Array(b.Ty().F32(), 1), 1), inner)
	b.Func("f", nil, ast.None, []ast.NodeID{
		b.Decl(b.Var("x", ast.None, b.IndexAccessor(b.IndexAccessor(outer, 0), 0))),
	})

	want := `fn f() {
  let tint_symbol = array<f32, 1>(1.0);
  let tint_symbol_1 = array<array<f32, 1>, 1>(tint_symbol);
  var x = tint_symbol_1[0][0];
}
`
	expectOutput(t, run(b, nil, NewPromoteInitializersToLet()), want)
}

func TestPromoteInitializersForLoopCondition(t *testing.T) {
	b := program.NewBuilder()
	cond := b.Less("i", b.IndexAccessor(b.Construct(b.Ty().Array(b.Ty().I32(), 2), 1, 2), 0))
	b.Func("f", nil, ast.None, []ast.NodeID{
		b.For(b.Decl(b.Var("i", ast.None, b.Expr(0))), cond, b.Increment("i"), b.Block()),
	})

	want := `fn f() {
  {
    var i = 0;
    loop {
      let tint_symbol = array<i32, 2>(1, 2);
      if (!((i < tint_symbol[0]))) {
        break;
      }
      {
      }

      continuing {
        i++;
      }
    }
  }
}
`
	expectOutput(t, run(b, nil, NewPromoteInitializersToLet()), want)
}
