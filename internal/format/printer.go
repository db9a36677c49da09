// Package format renders programs as shader text and compares renderings.
// The text form is what tests and the CLI compare; it is stable for a given
// tree.
package format

import (
	"strconv"
	"strings"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/symbol"
)

// PrinterOptions controls program printing
type PrinterOptions struct {
	// IndentSize specifies the number of spaces for indentation
	IndentSize int
}

// DefaultPrinterOptions returns default printer options
func DefaultPrinterOptions() PrinterOptions {
	return PrinterOptions{IndentSize: 2}
}

// Printer renders nodes of one arena
type Printer struct {
	options PrinterOptions
	nodes   ast.Nodes
	indent  int
	buffer  strings.Builder
}

// NewPrinter creates a printer over nodes with the given options
func NewPrinter(nodes ast.Nodes, options PrinterOptions) *Printer {
	return &Printer{options: options, nodes: nodes}
}

// Program renders every module-scope declaration of p, separated by blank
// lines. An empty module renders as the empty string.
func Program(p *program.Program) string {
	return NewPrinter(p, DefaultPrinterOptions()).Module(p.Globals())
}

// Node renders a single node of p.
func Node(nodes ast.Nodes, id ast.NodeID) string {
	pr := NewPrinter(nodes, DefaultPrinterOptions())
	pr.node(id)
	return pr.buffer.String()
}

// Module renders the given declarations.
func (p *Printer) Module(globals []ast.NodeID) string {
	p.buffer.Reset()
	p.indent = 0

	for i, id := range globals {
		if i > 0 {
			p.writeString("\n")
		}
		p.global(id)
		p.writeNewline()
	}

	return p.buffer.String()
}

func (p *Printer) global(id ast.NodeID) {
	switch n := p.nodes.Node(id).(type) {
	case *ast.Struct:
		p.attributes(n.Attributes, "\n")
		p.writeString("struct " + p.symbolName(n.Name) + " {")
		p.writeNewline()
		p.indent++
		for _, mid := range n.Members {
			m, ok := ast.Get[*ast.StructMember](p.nodes, mid)
			if !ok {
				continue
			}
			p.writeIndent()
			p.attributes(m.Attributes, " ")
			p.writeString(p.symbolName(m.Name) + " : ")
			p.node(m.Type)
			p.writeString(",")
			p.writeNewline()
		}
		p.indent--
		p.writeString("}")
	case *ast.Alias:
		p.writeString("alias " + p.symbolName(n.Name) + " = ")
		p.node(n.Type)
		p.writeString(";")
	case *ast.Function:
		p.function(n)
	case ast.Variable:
		p.variable(n)
		p.writeString(";")
	default:
		p.node(id)
	}
}

func (p *Printer) symbolName(sym symbol.ID) string {
	return p.nodes.Symbols().NameFor(sym)
}

func (p *Printer) function(fn *ast.Function) {
	p.attributes(fn.Attributes, "\n")

	p.writeString("fn " + p.symbolName(fn.Name) + "(")
	for i, pid := range fn.Params {
		if i > 0 {
			p.writeString(", ")
		}
		if v, ok := ast.Get[ast.Variable](p.nodes, pid); ok {
			f := v.Fields()
			p.attributes(f.Attributes, " ")
			p.writeString(p.symbolName(f.Name) + " : ")
			p.node(f.Type)
		}
	}
	p.writeString(")")

	if fn.ReturnType.IsValid() {
		p.writeString(" -> ")
		p.attributes(fn.ReturnAttributes, " ")
		p.node(fn.ReturnType)
	}

	p.writeString(" ")
	p.block(fn.Body)
}

// attributes writes the attributes separated by spaces, followed by trail
// when there is at least one.
func (p *Printer) attributes(ids []ast.NodeID, trail string) {
	for i, id := range ids {
		if i > 0 {
			p.writeString(" ")
		}
		p.node(id)
	}
	if len(ids) > 0 {
		p.writeString(trail)
	}
}

func (p *Printer) variable(v ast.Variable) {
	f := v.Fields()

	p.attributes(f.Attributes, " ")

	switch n := v.(type) {
	case *ast.Var:
		p.writeString("var")
		if n.AddressSpace != ast.AddressSpaceNone {
			p.writeString("<" + n.AddressSpace.String())
			if n.Access != ast.AccessUndefined {
				p.writeString(", " + n.Access.String())
			}
			p.writeString(">")
		}
	case *ast.Let:
		p.writeString("let")
	case *ast.Const:
		p.writeString("const")
	case *ast.Override:
		p.writeString("override")
	}

	p.writeString(" " + p.symbolName(f.Name))

	if f.Type.IsValid() {
		p.writeString(" : ")
		p.node(f.Type)
	}
	if f.Initializer.IsValid() {
		p.writeString(" = ")
		p.node(f.Initializer)
	}
}

// block writes "{", the statements on their own lines and "}" without a
// trailing newline.
func (p *Printer) block(id ast.NodeID) {
	p.writeString("{")
	p.writeNewline()

	if b, ok := ast.Get[*ast.Block](p.nodes, id); ok {
		p.indent++
		for _, s := range b.Statements {
			p.statement(s)
		}
		p.indent--
	}

	p.writeIndent()
	p.writeString("}")
}

func (p *Printer) statement(id ast.NodeID) {
	p.writeIndent()

	switch n := p.nodes.Node(id).(type) {
	case *ast.Block:
		p.block(id)
	case *ast.If:
		p.ifStatement(n)
	case *ast.For:
		p.writeString("for(")
		p.inline(n.Initializer)
		p.writeString("; ")
		p.node(n.Condition)
		p.writeString("; ")
		p.inline(n.Continuing)
		p.writeString(") ")
		p.block(n.Body)
	case *ast.While:
		p.writeString("while (")
		p.node(n.Condition)
		p.writeString(") ")
		p.block(n.Body)
	case *ast.Loop:
		p.writeString("loop {")
		p.writeNewline()
		p.indent++
		body, _ := ast.Get[*ast.Block](p.nodes, n.Body)
		if body != nil {
			for _, s := range body.Statements {
				p.statement(s)
			}
		}
		if n.Continuing.IsValid() {
			if body != nil && len(body.Statements) > 0 {
				p.writeNewline()
			}
			p.writeIndent()
			p.writeString("continuing ")
			p.block(n.Continuing)
			p.writeNewline()
		}
		p.indent--
		p.writeIndent()
		p.writeString("}")
	default:
		p.inline(id)
		p.writeString(";")
	}

	p.writeNewline()
}

func (p *Printer) ifStatement(n *ast.If) {
	p.writeString("if (")
	p.node(n.Condition)
	p.writeString(") ")
	p.block(n.Body)

	if !n.Else.IsValid() {
		return
	}

	p.writeString(" else ")
	if elseIf, ok := ast.Get[*ast.If](p.nodes, n.Else); ok {
		p.ifStatement(elseIf)
		return
	}
	p.block(n.Else)
}

// inline writes a simple statement without indentation or terminator, as
// used in for-loop headers.
func (p *Printer) inline(id ast.NodeID) {
	switch n := p.nodes.Node(id).(type) {
	case nil:
	case *ast.VarDecl:
		if v, ok := ast.Get[ast.Variable](p.nodes, n.Variable); ok {
			p.variable(v)
		}
	case *ast.Assign:
		p.node(n.LHS)
		p.writeString(" = ")
		p.node(n.RHS)
	case *ast.Increment:
		p.node(n.LHS)
		if n.Decrement {
			p.writeString("--")
		} else {
			p.writeString("++")
		}
	case *ast.CallStatement:
		p.node(n.Call)
	case *ast.Return:
		p.writeString("return")
		if n.Value.IsValid() {
			p.writeString(" ")
			p.node(n.Value)
		}
	case *ast.Break:
		p.writeString("break")
	case *ast.Continue:
		p.writeString("continue")
	case *ast.Discard:
		p.writeString("discard")
	default:
		p.node(id)
	}
}

// node writes expressions, types and attributes.
func (p *Printer) node(id ast.NodeID) {
	switch n := p.nodes.Node(id).(type) {
	case nil:
	case *ast.Ident:
		p.writeString(p.symbolName(n.Symbol))
	case *ast.IntLiteral:
		p.writeString(strconv.FormatInt(n.Value, 10) + n.Suffix.String())
	case *ast.FloatLiteral:
		p.writeString(FormatFloat(n.Value))
	case *ast.BoolLiteral:
		p.writeString(strconv.FormatBool(n.Value))
	case *ast.Binary:
		p.writeString("(")
		p.node(n.LHS)
		p.writeString(" " + n.Op.String() + " ")
		p.node(n.RHS)
		p.writeString(")")
	case *ast.Unary:
		p.writeString(n.Op.String() + "(")
		p.node(n.Expr)
		p.writeString(")")
	case *ast.Call:
		p.node(n.Target)
		p.writeString("(")
		p.list(n.Args)
		p.writeString(")")
	case *ast.Index:
		p.node(n.Object)
		p.writeString("[")
		p.node(n.Index)
		p.writeString("]")
	case *ast.Member:
		p.node(n.Object)
		p.writeString("." + p.symbolName(n.Member))

	case *ast.Bool:
		p.writeString("bool")
	case *ast.I32:
		p.writeString("i32")
	case *ast.U32:
		p.writeString("u32")
	case *ast.F32:
		p.writeString("f32")
	case *ast.Vector:
		p.writeString("vec" + strconv.Itoa(n.Width) + "<")
		p.node(n.Elem)
		p.writeString(">")
	case *ast.Matrix:
		p.writeString("mat" + strconv.Itoa(n.Columns) + "x" + strconv.Itoa(n.Rows) + "<")
		p.node(n.Elem)
		p.writeString(">")
	case *ast.Array:
		p.writeString("array<")
		p.node(n.Elem)
		if n.Count > 0 {
			p.writeString(", " + strconv.Itoa(n.Count))
		}
		p.writeString(">")
	case *ast.Sampler:
		if n.Comparison {
			p.writeString("sampler_comparison")
		} else {
			p.writeString("sampler")
		}
	case *ast.SampledTexture:
		p.writeString("texture_" + n.Dim.String() + "<")
		p.node(n.Elem)
		p.writeString(">")
	case *ast.ExternalTexture:
		p.writeString("texture_external")
	case *ast.TypeName:
		p.writeString(p.symbolName(n.Name))

	case *ast.StageAttribute:
		p.writeString("@" + n.Stage.String())
	case *ast.WorkgroupAttribute:
		p.writeString("@workgroup_size(")
		p.list([]ast.NodeID{n.X, n.Y, n.Z})
		p.writeString(")")
	case *ast.BuiltinAttribute:
		p.writeString("@builtin(" + n.Builtin.String() + ")")
	case *ast.LocationAttribute:
		p.writeString("@location(" + strconv.FormatUint(uint64(n.Value), 10) + ")")
	case *ast.GroupAttribute:
		p.writeString("@group(" + strconv.FormatUint(uint64(n.Value), 10) + ")")
	case *ast.BindingAttribute:
		p.writeString("@binding(" + strconv.FormatUint(uint64(n.Value), 10) + ")")
	case *ast.IDAttribute:
		p.writeString("@id(" + strconv.FormatUint(uint64(n.Value), 10) + ")")

	case ast.Variable:
		p.variable(n)
	case *ast.Block, *ast.If, *ast.For, *ast.While, *ast.Loop:
		p.statement(id)
	case ast.Statement:
		p.inline(id)
	case *ast.Struct, *ast.Alias, *ast.Function:
		p.global(id)
	}
}

// list writes the valid ids separated by commas.
func (p *Printer) list(ids []ast.NodeID) {
	first := true
	for _, id := range ids {
		if !id.IsValid() {
			continue
		}
		if !first {
			p.writeString(", ")
		}
		first = false
		p.node(id)
	}
}

// FormatFloat renders f in its shortest exact form, always with a
// decimal point.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (p *Printer) writeString(s string) {
	p.buffer.WriteString(s)
}

func (p *Printer) writeNewline() {
	p.buffer.WriteString("\n")
}

func (p *Printer) writeIndent() {
	p.buffer.WriteString(strings.Repeat(" ", p.indent*p.options.IndentSize))
}
