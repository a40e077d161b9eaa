// Package plugin implements plugin manifests and the dependency resolver:
// topological install ordering, cycle detection, and semantic-version
// constraint matching.
package plugin

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"
)

var ErrInvalidConstraint = eris.New("invalid version constraint")

// Constraint is a semantic-version requirement a dependency declares against
// the installed version of another plugin. Supported forms: exact ("1.2.3"),
// comparison (">=1.2.3", ">1.2.3", "<2.0.0", "<=2.0.0"), caret ("^1.2.3",
// compatible within the same major, or same leading nonzero component for
// 0.x versions), and tilde ("~1.2.0", compatible within the same minor).
type Constraint struct {
	raw        string
	constraint *semver.Constraints
}

// ParseConstraint parses a constraint expression.
func ParseConstraint(expr string) (Constraint, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Constraint{}, eris.Wrap(ErrInvalidConstraint, "empty constraint")
	}
	c, err := semver.NewConstraint(trimmed)
	if err != nil {
		return Constraint{}, eris.Wrapf(ErrInvalidConstraint, "%q: %v", expr, err)
	}
	return Constraint{raw: trimmed, constraint: c}, nil
}

// MustConstraint is ParseConstraint, panicking on malformed expressions.
func MustConstraint(expr string) Constraint {
	c, err := ParseConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// IsSatisfiedBy reports whether the version satisfies the constraint. An
// unparsable version or a zero-value constraint is never satisfied.
func (c Constraint) IsSatisfiedBy(version string) bool {
	if c.constraint == nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return c.constraint.Check(v)
}

// IsZero reports whether the constraint is the unusable zero value.
func (c Constraint) IsZero() bool { return c.constraint == nil }

func (c Constraint) String() string { return c.raw }

// versionInRange reports whether version lies in the inclusive [min, max]
// editor-version range. Empty bounds are unbounded; an unparsable version
// fails closed.
func versionInRange(version, min, max string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	if min != "" {
		lo, err := semver.NewVersion(min)
		if err != nil || v.LessThan(lo) {
			return false
		}
	}
	if max != "" {
		hi, err := semver.NewVersion(max)
		if err != nil || v.GreaterThan(hi) {
			return false
		}
	}
	return true
}
