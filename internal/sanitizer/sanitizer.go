// Package sanitizer assembles the transform pipelines that prepare a
// program for each backend, and validates the backend options driving
// them.
package sanitizer

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/transform"
)

// EntryPoint describes an entry point of a sanitized program.
type EntryPoint struct {
	Name          string    `json:"name"`
	Stage         string    `json:"stage"`
	WorkgroupSize [3]uint32 `json:"workgroup_size,omitempty"`
}

// Result is the output of a sanitizer.
type Result struct {
	Backend     Backend
	Program     *program.Program
	Data        *transform.DataMap
	EntryPoints []EntryPoint
	// Header is the preamble a writer for the backend starts its output
	// with, such as the GLSL #version line. Empty for SPIR-V and HLSL.
	Header string
}

// Error reports a pipeline that ended with an invalid program.
type Error struct {
	Backend     Backend
	Diagnostics diagnostics.List
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s sanitizer failed:\n%s", e.Backend, e.Diagnostics.String())
}

type pipeline struct {
	transforms []transform.Transform
	data       *transform.DataMap
	header     string
}

// Sanitize runs the pipeline of opts.Backend over prog. When a transform
// fails, the result still carries the failing program and the collected
// transform data, and the error is an *Error holding the diagnostics.
func Sanitize(prog *program.Program, opts Options) (*Result, error) {
	if !prog.IsValid() {
		return nil, fmt.Errorf("%s sanitizer: invalid input program: %w", opts.Backend,
			&Error{Backend: opts.Backend, Diagnostics: prog.Diagnostics().Errors()})
	}

	p, err := newPipeline(prog, opts)
	if err != nil {
		return nil, fmt.Errorf("%s sanitizer: %w", opts.Backend, err)
	}

	manager := transform.NewManager(p.transforms...)
	if opts.Logger != nil {
		manager.WithLogger(opts.Logger)
	}

	out := manager.Run(prog, p.data)
	res := &Result{
		Backend: opts.Backend,
		Program: out.Program,
		Data:    out.Data,
		Header:  p.header,
	}

	if !out.Program.IsValid() {
		return res, &Error{Backend: opts.Backend, Diagnostics: out.Program.Diagnostics().Errors()}
	}

	res.EntryPoints = entryPoints(out.Program.Sem())
	return res, nil
}

func newPipeline(prog *program.Program, opts Options) (*pipeline, error) {
	switch opts.Backend {
	case BackendGLSL:
		return glslPipeline(prog, opts.GLSL)
	case BackendHLSL:
		return hlslPipeline(opts.HLSL)
	case BackendMSL:
		return mslPipeline(opts.MSL)
	case BackendSPIRV:
		return spirvPipeline(opts.SPIRV)
	default:
		return nil, errors.NewStandardError(errors.CategoryConfiguration, "UNKNOWN_BACKEND",
			fmt.Sprintf("unknown backend %s", opts.Backend), nil)
	}
}

// commonData fills the data shared by every pipeline.
func commonData(c Common) (*transform.DataMap, error) {
	remappings, err := c.remappings()
	if err != nil {
		return nil, err
	}

	data := transform.NewDataMap()
	transform.Add(data, remappings)
	transform.Add(data, c.externalTextures())
	return data, nil
}

func glslPipeline(prog *program.Program, opts GLSLOptions) (*pipeline, error) {
	versionText := opts.Version
	if versionText == "" {
		versionText = DefaultGLSLVersion
	}
	version, err := ParseGLSLVersion(versionText)
	if err != nil {
		return nil, err
	}

	entry, err := selectEntryPoint(prog.Sem(), opts.EntryPoint)
	if err != nil {
		return nil, err
	}
	if entry.Stage == ast.StageCompute && !version.SupportsCompute() {
		return nil, errors.NewStandardError(errors.CategoryConfiguration, "UNSUPPORTED_STAGE",
			fmt.Sprintf("compute entry point '%s' needs GLSL ES 3.1 or GLSL 4.3, got '%s'", entry.Name, version),
			map[string]interface{}{"entry_point": entry.Name, "version": version.String()})
	}

	data, err := commonData(opts.Common)
	if err != nil {
		return nil, err
	}
	transform.Add(data, transform.SingleEntryPointConfig{EntryPointName: entry.Name})
	transform.Add(data, transform.RenamerConfig{Target: transform.RenameGLSLKeywords})

	return &pipeline{
		transforms: []transform.Transform{
			transform.NewBindingRemapper(),
			transform.NewMultiplanarExternalTexture(),
			transform.NewSingleEntryPoint(),
			transform.NewRemoveUnreachableStatements(),
			transform.NewPromoteInitializersToLet(),
			transform.NewRenamer(),
		},
		data:   data,
		header: version.Directive(),
	}, nil
}

// selectEntryPoint finds the named entry point, or the only one when name
// is empty.
func selectEntryPoint(info *sem.Info, name string) (*sem.Function, error) {
	if name == "" {
		if len(info.EntryPoints) != 1 {
			return nil, errors.InvalidInput("AMBIGUOUS_ENTRY_POINT",
				fmt.Sprintf("an entry point name is required when the module has %d entry points", len(info.EntryPoints)),
				map[string]interface{}{"count": len(info.EntryPoints)})
		}
		return info.EntryPoints[0], nil
	}

	for _, ep := range info.EntryPoints {
		if ep.Name == name {
			return ep, nil
		}
	}
	return nil, errors.InvalidInput("ENTRY_POINT_NOT_FOUND",
		fmt.Sprintf("entry point '%s' not found", name),
		map[string]interface{}{"entry_point": name})
}

func hlslPipeline(opts HLSLOptions) (*pipeline, error) {
	data, err := commonData(opts.Common)
	if err != nil {
		return nil, err
	}

	transforms := []transform.Transform{
		transform.NewMultiplanarExternalTexture(),
		transform.NewBindingRemapper(),
	}

	if opts.FirstIndexOffset != nil {
		transform.Add(data, *opts.FirstIndexOffset)
		transforms = append(transforms, transform.NewFirstIndexOffset())
	}

	numWorkgroups := DefaultNumWorkgroupsBinding
	if opts.NumWorkgroups != nil {
		numWorkgroups = *opts.NumWorkgroups
	}
	transform.Add(data, transform.NumWorkgroupsFromUniformConfig{BindingPoint: numWorkgroups})
	transform.Add(data, transform.RenamerConfig{Target: transform.RenameHLSLKeywords})

	transforms = append(transforms,
		transform.NewNumWorkgroupsFromUniform(),
		transform.NewRemoveUnreachableStatements(),
		transform.NewPromoteInitializersToLet(),
		transform.NewRenamer(),
	)

	return &pipeline{transforms: transforms, data: data}, nil
}

func mslPipeline(opts MSLOptions) (*pipeline, error) {
	versionText := opts.Version
	if versionText == "" {
		versionText = DefaultMSLVersion
	}
	if _, err := ParseMSLVersion(versionText); err != nil {
		return nil, err
	}

	data, err := commonData(opts.Common)
	if err != nil {
		return nil, err
	}
	transform.Add(data, transform.RenamerConfig{Target: transform.RenameMSLKeywords})

	return &pipeline{
		transforms: []transform.Transform{
			transform.NewMultiplanarExternalTexture(),
			transform.NewBindingRemapper(),
			transform.NewRemoveUnreachableStatements(),
			transform.NewPromoteInitializersToLet(),
			transform.NewRenamer(),
		},
		data:   data,
		header: "#include <metal_stdlib>",
	}, nil
}

func spirvPipeline(opts SPIRVOptions) (*pipeline, error) {
	data, err := commonData(opts.Common)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		transforms: []transform.Transform{
			transform.NewMultiplanarExternalTexture(),
			transform.NewBindingRemapper(),
			transform.NewRemoveUnreachableStatements(),
		},
		data: data,
	}, nil
}

func entryPoints(info *sem.Info) []EntryPoint {
	out := make([]EntryPoint, 0, len(info.EntryPoints))
	for _, ep := range info.EntryPoints {
		e := EntryPoint{Name: ep.Name, Stage: ep.Stage.String()}
		if ep.Stage == ast.StageCompute {
			e.WorkgroupSize = ep.WorkgroupSize
		}
		out = append(out, e)
	}
	return out
}
