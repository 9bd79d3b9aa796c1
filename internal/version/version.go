// Package version derives the next release tag from the latest existing tag
// and a bump keyword.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Bump selects which semantic-version component increments
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpPatch Bump = "patch"
)

// ErrInvalidBump reports a bump keyword outside major/minor/patch
var ErrInvalidBump = fmt.Errorf("invalid bump type")

// ParseBump validates a bump keyword from the CLI
func ParseBump(s string) (Bump, error) {
	switch Bump(s) {
	case BumpMajor, BumpMinor, BumpPatch:
		return Bump(s), nil
	default:
		return "", fmt.Errorf("%w: %q (want major, minor or patch)", ErrInvalidBump, s)
	}
}

// FirstRelease selects the baseline used when the repository has no tags yet
type FirstRelease string

const (
	// FirstReleaseZero treats an untagged repository as v0.0.0, so the first
	// minor release is v0.1.0
	FirstReleaseZero FirstRelease = "zero"
	// FirstReleaseOne makes the first release v1.0.0 regardless of bump
	FirstReleaseOne FirstRelease = "one"
)

// Computer turns (latest tag, bump) into the next tag
type Computer struct {
	firstRelease FirstRelease
}

// NewComputer creates a Computer. An empty mode defaults to FirstReleaseZero.
func NewComputer(mode FirstRelease) *Computer {
	if mode == "" {
		mode = FirstReleaseZero
	}
	return &Computer{firstRelease: mode}
}

// Next computes the tag following latest for the given bump. latest may be
// empty when the repository has no tags; a leading "v" is accepted.
func (c *Computer) Next(latest string, bump Bump) (string, error) {
	if latest == "" {
		if c.firstRelease == FirstReleaseOne {
			return "v1.0.0", nil
		}
		latest = "v0.0.0"
	}

	v, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return "", fmt.Errorf("failed to parse tag %q: %w", latest, err)
	}

	var next semver.Version
	switch bump {
	case BumpMajor:
		next = v.IncMajor()
	case BumpMinor:
		next = v.IncMinor()
	case BumpPatch:
		next = v.IncPatch()
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBump, bump)
	}

	return "v" + next.String(), nil
}

// Latest picks the highest semantic-version tag from names. Tags that do not
// parse as versions are ignored. Returns "" when none qualify.
func Latest(names []string) string {
	var best *semver.Version
	var bestRaw string
	for _, name := range names {
		v, err := semver.NewVersion(strings.TrimPrefix(name, "v"))
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = name
		}
	}
	return bestRaw
}
