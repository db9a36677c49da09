package sanitizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/prism/internal/errors"
)

var (
	glslESRange        = mustConstraint(">= 3.0, <= 3.2")
	glslDesktopRange   = mustConstraint(">= 3.3, <= 4.6")
	glslESCompute      = mustConstraint(">= 3.1")
	glslDesktopCompute = mustConstraint(">= 4.3")
	mslRange           = mustConstraint(">= 1.2")
)

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// GLSLVersion is a parsed GLSL version directive.
type GLSLVersion struct {
	Version *semver.Version
	ES      bool
}

// ParseGLSLVersion parses a directive version such as "310 es" or "440".
// Supported are ES 3.0 to 3.2 and desktop 3.3 to 4.6.
func ParseGLSLVersion(s string) (GLSLVersion, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 || (len(fields) == 2 && fields[1] != "es") {
		return GLSLVersion{}, invalidVersion("GLSL", s)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 100 || n > 999 {
		return GLSLVersion{}, invalidVersion("GLSL", s)
	}

	v := GLSLVersion{
		Version: semver.New(uint64(n/100), uint64(n%100/10), 0, "", ""),
		ES:      len(fields) == 2,
	}

	supported := glslDesktopRange
	if v.ES {
		supported = glslESRange
	}
	if !supported.Check(v.Version) {
		return GLSLVersion{}, unsupportedVersion("GLSL", s, supported)
	}

	return v, nil
}

// SupportsCompute reports whether the version has compute shaders.
func (v GLSLVersion) SupportsCompute() bool {
	if v.ES {
		return glslESCompute.Check(v.Version)
	}
	return glslDesktopCompute.Check(v.Version)
}

// String returns the version as written in a directive.
func (v GLSLVersion) String() string {
	s := fmt.Sprintf("%d%d0", v.Version.Major(), v.Version.Minor())
	if v.ES {
		s += " es"
	}
	return s
}

// Directive returns the #version line.
func (v GLSLVersion) Directive() string {
	return "#version " + v.String()
}

// ParseMSLVersion parses a Metal language version such as "2.1". Versions
// before 1.2 are rejected.
func ParseMSLVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, invalidVersion("MSL", s)
	}
	if !mslRange.Check(v) {
		return nil, unsupportedVersion("MSL", s, mslRange)
	}
	return v, nil
}

func invalidVersion(language, s string) error {
	return errors.NewStandardError(errors.CategoryConfiguration, "INVALID_VERSION",
		fmt.Sprintf("invalid %s version '%s'", language, s),
		map[string]interface{}{"language": language, "version": s})
}

func unsupportedVersion(language, s string, want *semver.Constraints) error {
	return errors.NewStandardError(errors.CategoryConfiguration, "UNSUPPORTED_VERSION",
		fmt.Sprintf("unsupported %s version '%s' (want %s)", language, s, want),
		map[string]interface{}{"language": language, "version": s})
}
