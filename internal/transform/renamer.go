package transform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/symbol"
)

// RenamerTarget selects which symbols the Renamer rewrites.
type RenamerTarget int

const (
	// RenameAll renames every symbol.
	RenameAll RenamerTarget = iota
	// RenameGLSLKeywords renames symbols reserved in GLSL.
	RenameGLSLKeywords
	// RenameHLSLKeywords renames symbols reserved in HLSL.
	RenameHLSLKeywords
	// RenameMSLKeywords renames symbols reserved in MSL.
	RenameMSLKeywords
)

func (t RenamerTarget) String() string {
	switch t {
	case RenameAll:
		return "all"
	case RenameGLSLKeywords:
		return "glsl"
	case RenameHLSLKeywords:
		return "hlsl"
	case RenameMSLKeywords:
		return "msl"
	default:
		return fmt.Sprintf("RenamerTarget(%d)", int(t))
	}
}

// RenamerConfig configures the Renamer. Without a config every symbol is
// renamed.
type RenamerConfig struct {
	Target RenamerTarget
	// PreserveUnicode keeps names holding non-ASCII characters when the
	// target does not otherwise reserve them.
	PreserveUnicode bool
}

// RenamerData maps each renamed name to its replacement.
type RenamerData struct {
	Remappings map[string]string
}

// Renamer gives fresh names to symbols a backend cannot use. Swizzle
// components and builtin function names are never renamed.
type Renamer struct{}

// NewRenamer creates the transform.
func NewRenamer() *Renamer { return &Renamer{} }

func (*Renamer) Name() string { return "Renamer" }

func (*Renamer) ShouldRun(prog *program.Program, _ *DataMap) bool {
	return len(prog.Globals()) > 0
}

func (*Renamer) Run(ctx *clone.Context, inputs, outputs *DataMap) error {
	cfg, ok := Get[RenamerConfig](inputs)
	if !ok {
		cfg = RenamerConfig{Target: RenameAll}
	}

	src := ctx.Src
	info := src.Sem()
	remappings := make(map[string]string)

	clone.ReplaceAll(ctx, func(n *ast.Member) ast.NodeID {
		if e := info.Expr(n.ID); e == nil || e.Swizzle == nil {
			return ast.None
		}
		return ctx.Dst.MemberAccessorSym(ctx.Clone(n.Object), n.Member)
	})

	clone.ReplaceAll(ctx, func(n *ast.Ident) ast.NodeID {
		call, ok := ast.Get[*ast.Call](src, src.Parent(n.ID))
		if !ok || call.Target != n.ID {
			return ast.None
		}
		if e := info.Call(call.ID); e == nil || e.Builtin == "" {
			return ast.None
		}
		return ctx.Dst.IdentSym(n.Symbol)
	})

	ctx.SetSymbolTransform(func(sym symbol.ID) symbol.ID {
		name := src.NameOf(sym)
		if !shouldRename(cfg, name) {
			return sym
		}
		out := ctx.Dst.Symbols().New("")
		remappings[name] = ctx.Dst.Symbols().NameFor(out)
		return out
	})

	if err := cloneOnly(ctx); err != nil {
		return err
	}

	Add(outputs, RenamerData{Remappings: remappings})
	return nil
}

func shouldRename(cfg RenamerConfig, name string) bool {
	if !cfg.PreserveUnicode && !isASCII(name) {
		return true
	}

	switch cfg.Target {
	case RenameAll:
		return true
	case RenameGLSLKeywords:
		return glslReserved[name] || strings.HasPrefix(name, "gl_") || strings.Contains(name, "__")
	case RenameHLSLKeywords:
		return hlslReserved[name]
	case RenameMSLKeywords:
		return mslReserved[name] || strings.HasPrefix(name, "__")
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
