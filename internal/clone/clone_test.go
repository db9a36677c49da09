package clone

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/format"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/symbol"
)

// fixture is fn f() { var x : i32 = 1; x = 2; } with the ids tests poke at.
type fixture struct {
	src    *program.Program
	fn     ast.NodeID
	body   ast.NodeID
	decl   ast.NodeID
	assign ast.NodeID
	rhs    ast.NodeID
	loose  ast.NodeID
}

func newFixture() *fixture {
	b := program.NewBuilder()
	f := &fixture{}

	f.decl = b.Decl(b.Var("x", b.Ty().I32(), b.Expr(1)))
	f.rhs = b.Expr(2)
	f.assign = b.Assign("x", f.rhs)
	f.fn = b.Func("f", nil, ast.None, []ast.NodeID{f.decl, f.assign})
	f.loose = b.Expr(7)

	f.src = program.Build(b)
	fn, _ := ast.Get[*ast.Function](f.src, f.fn)
	f.body = fn.Body

	return f
}

func output(c *Context) string {
	c.CloneModule()
	return format.Program(program.Build(c.Dst))
}

func expectMisuse(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if !errors.IsMisuse(r, code) {
			t.Fatalf("expected misuse %s, got %v", code, r)
		}
	}()
	fn()
}

func TestCloneIdentity(t *testing.T) {
	b := program.NewBuilder()
	b.Struct("S", b.Member("a", b.Ty().I32()), b.Member("b", b.Ty().Vec3(b.Ty().F32())))
	b.GlobalVar("u", b.Ty().Named("S"), ast.AddressSpaceUniform, b.Group(0), b.Binding(1))
	b.Func("main", []ast.NodeID{b.Param("i", b.Ty().U32(), b.Builtin(ast.BuiltinVertexIndex))},
		b.Ty().Vec4(b.Ty().F32()),
		[]ast.NodeID{
			b.If(b.Less("i", uint32(3)), b.Block(b.Discard()), ast.None),
			b.Loop(b.Block(b.Break()), ast.None),
			b.ReturnValue(b.Construct(b.Ty().Vec4(b.Ty().F32()), b.MemberAccessor("u", "a"))),
		},
		b.Stage(ast.StageVertex))
	src := program.Build(b)

	c := New(src)
	c.CloneModule()
	got := program.Build(c.Dst)

	if !got.IsValid() {
		t.Fatalf("clone is invalid:\n%s", got.Diagnostics())
	}
	if g, w := format.Program(got), format.Program(src); g != w {
		t.Errorf("clone differs:\n%s\nwant:\n%s", g, w)
	}
	if got.ID() == src.ID() {
		t.Error("destination shares the source program id")
	}
	if g, w := semFacts(got), semFacts(src); g != w {
		t.Errorf("semantic facts differ:\n%s\nwant:\n%s", g, w)
	}
}

// semFacts summarizes the id-independent facts the resolver records.
func semFacts(p *program.Program) string {
	info := p.Sem()

	var lines []string
	lines = append(lines, fmt.Sprintf("exprs=%d stmts=%d vars=%d funcs=%d structs=%d",
		len(info.Exprs), len(info.Stmts), len(info.Variables), len(info.Functions), len(info.Structs)))

	for _, ep := range info.EntryPoints {
		lines = append(lines, fmt.Sprintf("entry %s %s params=%d globals=%d",
			ep.Name, ep.Stage, len(ep.Params), len(ep.TransitiveGlobals)))
	}

	unreachable := 0
	for _, st := range info.Stmts {
		if !st.Reachable {
			unreachable++
		}
	}
	lines = append(lines, fmt.Sprintf("unreachable=%d", unreachable))

	for _, id := range p.Globals() {
		v := info.Variable(id)
		if v == nil {
			continue
		}
		bp := "none"
		if v.BindingPoint != nil {
			bp = v.BindingPoint.String()
		}
		lines = append(lines, fmt.Sprintf("var %s %s %s users=%d", v.Name, v.AddressSpace, bp, len(v.Users)))
	}

	for _, e := range info.Exprs {
		if e.Member != nil {
			lines = append(lines, "member "+e.Member.Name)
		}
	}

	sort.Strings(lines[1:])
	return strings.Join(lines, "\n")
}

func TestCloneCarriesDiagnostics(t *testing.T) {
	f := newFixture()
	src := f.src.WithDiagnostics(
		diagnostics.Warningf(diagnostics.CategoryTransform, "kept").Build(),
		diagnostics.Warningf(diagnostics.CategoryResolver, "raised again by the resolver").Build(),
	)

	c := New(src)
	c.CloneModule()
	got := program.Build(c.Dst)

	if !got.IsValid() {
		t.Fatalf("clone is invalid:\n%s", got.Diagnostics())
	}
	if s := got.Diagnostics().String(); s != "warning: kept" {
		t.Errorf("diagnostics = %q, want the transform warning only", s)
	}
}

func TestCloneInsertAndRemove(t *testing.T) {
	f := newFixture()
	c := New(f.src)

	c.InsertBefore(f.assign, c.Dst.Assign("x", 3))
	c.InsertAfter(f.assign, c.Dst.Increment("x"))
	c.Remove(f.assign)
	c.InsertFront(f.body, c.Dst.Decl(c.Dst.Let("first", ast.None, c.Dst.Expr(0))))
	c.InsertBack(f.body, c.Dst.Return())

	want := `fn f() {
  let first = 0;
  var x : i32 = 1;
  x = 3;
  x++;
  return;
}
`
	if got := output(c); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCloneReplace(t *testing.T) {
	f := newFixture()
	c := New(f.src)
	c.Replace(f.rhs, c.Dst.Expr(5))

	want := "fn f() {\n  var x : i32 = 1;\n  x = 5;\n}\n"
	if got := output(c); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCloneReplaceAll(t *testing.T) {
	f := newFixture()
	c := New(f.src)

	ReplaceAll(c, func(n *ast.IntLiteral) ast.NodeID {
		if n.Value == 1 {
			return ast.None
		}
		return c.Dst.Int(n.Value * 10)
	})

	want := "fn f() {\n  var x : i32 = 1;\n  x = 20;\n}\n"
	if got := output(c); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCloneSymbols(t *testing.T) {
	f := newFixture()

	c := New(f.src)
	c.SetSymbolTransform(func(s symbol.ID) symbol.ID {
		return c.Dst.Sym("p_" + f.src.NameOf(s))
	})
	want := "fn p_f() {\n  var p_x : i32 = 1;\n  p_x = 2;\n}\n"
	if got := output(c); got != want {
		t.Errorf("transform: got:\n%s\nwant:\n%s", got, want)
	}

	c = New(f.src)
	c.ReplaceSymbol(f.src.Symbols().Get("x"), c.Dst.Sym("y"))
	want = "fn f() {\n  var y : i32 = 1;\n  y = 2;\n}\n"
	if got := output(c); got != want {
		t.Errorf("replace: got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCloneGlobalOrder(t *testing.T) {
	b := program.NewBuilder()
	b.Func("a", nil, ast.None, nil)
	call := b.Call("a")
	b.Func("b", nil, ast.None, []ast.NodeID{b.CallStmt(call)})
	src := program.Build(b)

	c := New(src)
	c.Dst.Alias("A", c.Dst.Ty().U32())
	c.ReplaceFunc(call, func() ast.NodeID {
		c.Dst.Func("helper", nil, ast.None, nil)
		return c.Dst.Call("helper")
	})

	want := `alias A = u32;

fn a() {
}

fn helper() {
}

fn b() {
  helper();
}
`
	if got := output(c); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCloneCreatesFreshNodes(t *testing.T) {
	f := newFixture()
	c := New(f.src)

	first := c.Clone(f.rhs)
	second := c.Clone(f.rhs)
	if first == second {
		t.Fatal("cloning twice returned the same node")
	}
	if c.Dst.Node(first).ProgramID() != c.Dst.ID() {
		t.Error("clone is not owned by the destination")
	}
}

func TestCloneMisuse(t *testing.T) {
	f := newFixture()

	expectMisuse(t, "DUPLICATE_REPLACEMENT", func() {
		c := New(f.src)
		c.Replace(f.rhs, c.Dst.Expr(1))
		c.Replace(f.rhs, c.Dst.Expr(2))
	})

	expectMisuse(t, "NOT_A_LIST_ELEMENT", func() {
		New(f.src).Remove(f.rhs)
	})

	expectMisuse(t, "NODE_NOT_IN_SOURCE", func() {
		c := New(f.src)
		c.Replace(f.loose, c.Dst.Expr(1))
	})

	expectMisuse(t, "NODE_NOT_IN_DESTINATION", func() {
		c := New(f.src)
		c.InsertBefore(f.assign, ast.NodeID(9999))
	})

	expectMisuse(t, "OVERLAPPING_REPLACE_ALL", func() {
		c := New(f.src)
		ReplaceAll(c, func(*ast.IntLiteral) ast.NodeID { return ast.None })
		ReplaceAll(c, func(ast.Literal) ast.NodeID { return ast.None })
	})

	expectMisuse(t, "DUPLICATE_SYMBOL_TRANSFORM", func() {
		c := New(f.src)
		id := func(s symbol.ID) symbol.ID { return s }
		c.SetSymbolTransform(id)
		c.SetSymbolTransform(id)
	})

	expectMisuse(t, "NO_MATCHING_LIST", func() {
		c := New(f.src)
		c.InsertFront(f.body, c.Dst.Group(0))
	})
}
