// Package version implements semantic version parsing, comparison, and
// release bump resolution for muesli's X.Y.Z version scheme.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat reports a version string that is not X.Y.Z.
	ErrInvalidFormat = errors.New("version must be in the form vX.Y.Z or X.Y.Z")
	// ErrSameVersion reports a resolved version equal to the current one.
	ErrSameVersion = errors.New("version must differ from the current version")
)

// Bump instructions accepted by Resolve in addition to explicit literals.
const (
	BumpPatch = "patch"
	BumpMinor = "minor"
	BumpMajor = "major"
)

// Version is a parsed semantic version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String renders the version as X.Y.Z.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse converts raw into a Version. A leading "v" is accepted.
func Parse(raw string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%q: %w", raw, ErrInvalidFormat)
	}
	var nums [3]int
	for i, part := range parts {
		if part == "" || !isDigits(part) {
			return Version{}, fmt.Errorf("%q: %w", raw, ErrInvalidFormat)
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%q: %w", raw, ErrInvalidFormat)
		}
		nums[i] = value
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Normalize validates raw and returns it in canonical X.Y.Z form
// (leading "v" and whitespace stripped, numeric segments canonicalized).
func Normalize(raw string) (string, error) {
	v, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// IsDev reports whether raw identifies an unreleased development build.
func IsDev(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || strings.EqualFold(trimmed, "dev")
}

// Compare returns -1 if a < b, 0 if a == b, and 1 if a > b.
func Compare(a Version, b Version) int {
	if c := compareInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	return compareInt(a.Patch, b.Patch)
}

// Resolve computes the next release version from the current one and a bump
// instruction. instruction is one of patch, minor, major, or an explicit
// X.Y.Z literal used verbatim. The result always differs from current;
// a literal equal to current (or any other no-op) fails with ErrSameVersion.
func Resolve(current string, instruction string) (string, error) {
	cur, err := Parse(current)
	if err != nil {
		return "", err
	}

	var next Version
	switch strings.ToLower(strings.TrimSpace(instruction)) {
	case BumpPatch:
		next = Version{Major: cur.Major, Minor: cur.Minor, Patch: cur.Patch + 1}
	case BumpMinor:
		next = Version{Major: cur.Major, Minor: cur.Minor + 1}
	case BumpMajor:
		next = Version{Major: cur.Major + 1}
	default:
		next, err = Parse(instruction)
		if err != nil {
			return "", err
		}
	}

	if next == cur {
		return "", fmt.Errorf("%s: %w", next, ErrSameVersion)
	}
	return next.String(), nil
}

func compareInt(a int, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
