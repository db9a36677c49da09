package transform

import (
	"math/rand/v2"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
)

// ShuffleConfig seeds the Shuffle transform.
type ShuffleConfig struct {
	Seed uint64
}

// Shuffle reorders the module-scope declarations pseudo-randomly. The same
// seed always yields the same order. It is used to check that later stages
// do not depend on declaration order.
type Shuffle struct{}

// NewShuffle creates the transform.
func NewShuffle() *Shuffle { return &Shuffle{} }

func (*Shuffle) Name() string { return "Shuffle" }

func (*Shuffle) ShouldRun(prog *program.Program, data *DataMap) bool {
	return Has[ShuffleConfig](data) && len(prog.Globals()) > 1
}

func (t *Shuffle) Run(ctx *clone.Context, inputs, _ *DataMap) error {
	cfg, ok := Get[ShuffleConfig](inputs)
	if !ok {
		return errors.MissingTransformData(t.Name())
	}

	globals := append([]ast.NodeID(nil), ctx.Src.Globals()...)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	rng.Shuffle(len(globals), func(i, j int) {
		globals[i], globals[j] = globals[j], globals[i]
	})

	for _, id := range globals {
		ctx.Dst.AddGlobal(ctx.Clone(id))
		ctx.Remove(id)
	}

	return cloneOnly(ctx)
}
