package sanitizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/transform"
)

// Backend names a target of the sanitizers.
type Backend int

const (
	BackendGLSL Backend = iota
	BackendHLSL
	BackendMSL
	BackendSPIRV
)

var backendNames = map[Backend]string{
	BackendGLSL:  "glsl",
	BackendHLSL:  "hlsl",
	BackendMSL:   "msl",
	BackendSPIRV: "spirv",
}

func (b Backend) String() string {
	if s, ok := backendNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend parses a backend name, ignoring case. "spv" is accepted for
// SPIR-V.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "spv" || s == "spir-v" {
		return BackendSPIRV, nil
	}
	for b, name := range backendNames {
		if name == s {
			return b, nil
		}
	}
	return 0, errors.NewStandardError(errors.CategoryConfiguration, "UNKNOWN_BACKEND",
		fmt.Sprintf("unknown backend '%s'", s), map[string]interface{}{"backend": s})
}

// ParseBackends parses a comma separated list of backends, dropping
// duplicates.
func ParseBackends(list string) ([]Backend, error) {
	var out []Backend
	seen := make(map[Backend]bool)
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		b, err := ParseBackend(part)
		if err != nil {
			return nil, err
		}
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out, nil
}

// BindingRemap moves the resource at From to To.
type BindingRemap struct {
	From sem.BindingPoint `json:"from"`
	To   sem.BindingPoint `json:"to"`
}

// AccessControl overrides the access mode of the storage buffer at Binding.
type AccessControl struct {
	Binding sem.BindingPoint `json:"binding"`
	Access  string           `json:"access"`
}

// ExternalTexture gives the binding points of the resources that replace
// the texture_external at Binding.
type ExternalTexture struct {
	Binding sem.BindingPoint `json:"binding"`
	Plane1  sem.BindingPoint `json:"plane1"`
	Params  sem.BindingPoint `json:"params"`
}

// Common holds the options every backend shares.
type Common struct {
	BindingRemaps    []BindingRemap    `json:"binding_remaps,omitempty"`
	AccessControls   []AccessControl   `json:"access_controls,omitempty"`
	AllowCollisions  bool              `json:"allow_collisions,omitempty"`
	ExternalTextures []ExternalTexture `json:"external_textures,omitempty"`
}

// GLSLOptions configures the GLSL sanitizer.
type GLSLOptions struct {
	Common
	// Version is a GLSL version directive such as "310 es" or "440".
	Version string `json:"version,omitempty"`
	// EntryPoint may be empty when the module has exactly one entry point.
	EntryPoint string `json:"entry_point,omitempty"`
}

// HLSLOptions configures the HLSL sanitizer.
type HLSLOptions struct {
	Common
	// FirstIndexOffset enables the first vertex and instance offsets.
	FirstIndexOffset *transform.FirstIndexOffsetBindingPoint `json:"first_index_offset,omitempty"`
	// NumWorkgroups places the dispatch size uniform; defaults to
	// DefaultNumWorkgroupsBinding.
	NumWorkgroups *sem.BindingPoint `json:"num_workgroups,omitempty"`
}

// MSLOptions configures the MSL sanitizer.
type MSLOptions struct {
	Common
	// Version is a Metal language version such as "2.1".
	Version string `json:"version,omitempty"`
}

// SPIRVOptions configures the SPIR-V sanitizer.
type SPIRVOptions struct {
	Common
}

// Options selects a backend and carries the options of every backend, so
// one options file can drive several sanitizers.
type Options struct {
	Backend Backend      `json:"-"`
	GLSL    GLSLOptions  `json:"glsl"`
	HLSL    HLSLOptions  `json:"hlsl"`
	MSL     MSLOptions   `json:"msl"`
	SPIRV   SPIRVOptions `json:"spirv"`

	// Logger traces the transform pipeline when set.
	Logger transform.Logger `json:"-"`
}

// Default versions used when the options leave them empty.
const (
	DefaultGLSLVersion = "310 es"
	DefaultMSLVersion  = "1.2"
)

// DefaultNumWorkgroupsBinding is where HLSL output reads the dispatch size
// unless configured otherwise.
var DefaultNumWorkgroupsBinding = sem.BindingPoint{Group: 0, Binding: 30}

// ParseOptions decodes options from JSON. Unknown fields are rejected.
func ParseOptions(data []byte) (Options, error) {
	var opts Options
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("parse sanitizer options: %w", err)
	}
	return opts, nil
}

// LoadOptions reads options from a JSON file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read sanitizer options: %w", err)
	}
	return ParseOptions(data)
}

// remappings converts the binding options into BindingRemapper data.
func (c Common) remappings() (transform.BindingRemapperRemappings, error) {
	r := transform.BindingRemapperRemappings{
		BindingPoints:   make(map[sem.BindingPoint]sem.BindingPoint, len(c.BindingRemaps)),
		AccessControls:  make(map[sem.BindingPoint]ast.Access, len(c.AccessControls)),
		AllowCollisions: c.AllowCollisions,
	}

	for _, m := range c.BindingRemaps {
		r.BindingPoints[m.From] = m.To
	}

	for _, ac := range c.AccessControls {
		access, ok := ast.ParseAccess(ac.Access)
		if !ok || access == ast.AccessUndefined {
			return r, errors.NewStandardError(errors.CategoryConfiguration, "INVALID_ACCESS",
				fmt.Sprintf("invalid access '%s' for binding %s", ac.Access, ac.Binding),
				map[string]interface{}{"binding": ac.Binding.String(), "access": ac.Access})
		}
		r.AccessControls[ac.Binding] = access
	}

	return r, nil
}

// externalTextures converts the external texture options into
// MultiplanarExternalTexture data.
func (c Common) externalTextures() transform.MultiplanarNewBindingPoints {
	m := make(map[sem.BindingPoint]transform.BindingPoints, len(c.ExternalTextures))
	for _, et := range c.ExternalTextures {
		m[et.Binding] = transform.BindingPoints{Plane1: et.Plane1, Params: et.Params}
	}
	return transform.MultiplanarNewBindingPoints{BindingsMap: m}
}
