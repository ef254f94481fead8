// Package semver implements the three-component package version used by the
// build pipeline. Only major.minor.patch is supported: data-package versions
// carry no pre-release or build metadata.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a "major.minor.patch" string. Each component must be a
// non-negative integer; a leading "v" is not accepted.
func Parse(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor.patch", s)
	}

	var v Version
	for i, dst := range []*int{&v.Major, &v.Minor, &v.Patch} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", s, parts[i])
		}
		*dst = n
	}
	return v, nil
}

// MustParse parses s and panics on error. For tests and constants only.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 ordering v against other lexicographically by
// component.
func (v Version) Compare(other Version) int {
	for _, d := range []int{v.Major - other.Major, v.Minor - other.Minor, v.Patch - other.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

// BumpPatch returns a copy of v with the patch component incremented.
// Major and minor are never auto-incremented by the pipeline.
func (v Version) BumpPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}
