package transform

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
)

// BindingRemapperRemappings configures BindingRemapper. Both maps are
// keyed by the binding point the variable has in the source program.
type BindingRemapperRemappings struct {
	BindingPoints  map[sem.BindingPoint]sem.BindingPoint
	AccessControls map[sem.BindingPoint]ast.Access
	// AllowCollisions permits two resources of one entry point to end up
	// on the same binding point.
	AllowCollisions bool
}

// BindingRemapper moves resource variables to new binding points and
// overrides the access mode of storage buffers.
type BindingRemapper struct{}

// NewBindingRemapper creates the transform.
func NewBindingRemapper() *BindingRemapper { return &BindingRemapper{} }

func (*BindingRemapper) Name() string { return "BindingRemapper" }

func (*BindingRemapper) ShouldRun(_ *program.Program, data *DataMap) bool {
	r, ok := Get[BindingRemapperRemappings](data)
	return ok && (len(r.BindingPoints) > 0 || len(r.AccessControls) > 0)
}

func (t *BindingRemapper) Run(ctx *clone.Context, inputs, _ *DataMap) error {
	remap, ok := Get[BindingRemapperRemappings](inputs)
	if !ok {
		return errors.MissingTransformData(t.Name())
	}

	src := ctx.Src
	dst := ctx.Dst
	info := src.Sem()

	newPoint := func(v *sem.Variable) sem.BindingPoint {
		if to, ok := remap.BindingPoints[*v.BindingPoint]; ok {
			return to
		}
		return *v.BindingPoint
	}

	if !remap.AllowCollisions {
		if err := checkCollisions(info, newPoint); err != nil {
			return err
		}
	}

	for _, id := range src.Globals() {
		vr, ok := ast.Get[*ast.Var](src, id)
		if !ok {
			continue
		}
		v := info.Variable(id)
		if v == nil || v.BindingPoint == nil {
			continue
		}
		from := *v.BindingPoint

		if to, ok := remap.BindingPoints[from]; ok {
			for _, attr := range vr.Attributes {
				switch src.Node(attr).(type) {
				case *ast.GroupAttribute:
					ctx.Replace(attr, dst.Group(to.Group))
				case *ast.BindingAttribute:
					ctx.Replace(attr, dst.Binding(to.Binding))
				}
			}
		}

		access, ok := remap.AccessControls[from]
		if !ok {
			continue
		}
		if v.AddressSpace != ast.AddressSpaceStorage {
			return errors.InvalidInput("ACCESS_CONTROL_NOT_STORAGE",
				fmt.Sprintf("cannot apply access control to variable '%s' in the %s address space", v.Name, v.AddressSpace),
				map[string]interface{}{"variable": v.Name, "binding": from.String()})
		}

		varID, decl := id, vr
		ctx.ReplaceFunc(varID, func() ast.NodeID {
			return dst.New(&ast.Var{
				VariableFields: ast.VariableFields{
					Name:        ctx.CloneSymbol(decl.Name),
					Type:        ctx.Clone(decl.Type),
					Initializer: ctx.Clone(decl.Initializer),
					Attributes:  ctx.CloneList(varID, decl.Attributes),
				},
				AddressSpace: decl.AddressSpace,
				Access:       access,
			})
		})
	}

	return cloneOnly(ctx)
}

// checkCollisions reports two resources of one entry point that would
// share a binding point after remapping.
func checkCollisions(info *sem.Info, newPoint func(*sem.Variable) sem.BindingPoint) error {
	for _, ep := range info.EntryPoints {
		seen := make(map[sem.BindingPoint]*sem.Variable)
		for _, v := range ep.TransitiveGlobals {
			if v.BindingPoint == nil {
				continue
			}
			to := newPoint(v)
			if prev, taken := seen[to]; taken {
				return errors.InvalidInput("BINDING_POINT_COLLISION",
					fmt.Sprintf("binding point collision in entry point '%s': '%s' and '%s' both use %s",
						ep.Name, prev.Name, v.Name, to),
					map[string]interface{}{"entry_point": ep.Name, "binding": to.String()})
			}
			seen[to] = v
		}
	}
	return nil
}
