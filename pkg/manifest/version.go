package manifest

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
)

// Level is a semantic version component
type Level string

const (
	Major Level = "major"
	Minor Level = "minor"
	Patch Level = "patch"
)

// ParseLevel accepts major, minor or patch in any case
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Major, Minor, Patch:
		return l, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown version level %q (want major, minor or patch)", s)
}

// ParseVersion parses a semantic version, accepting a leading v
func ParseVersion(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrValidation, "invalid version %q", raw).
			WithDetail("field", "version")
	}
	return v, nil
}

// Bump returns v incremented at level. Prerelease and metadata are dropped.
func Bump(v *semver.Version, level Level) semver.Version {
	base := *semver.New(v.Major(), v.Minor(), v.Patch(), "", "")
	switch level {
	case Major:
		return base.IncMajor()
	case Minor:
		return base.IncMinor()
	default:
		return base.IncPatch()
	}
}

// Version returns the project's parsed current version
func (s *Set) Version() (*semver.Version, error) {
	raw, err := s.RawVersion()
	if err != nil {
		return nil, err
	}
	return ParseVersion(raw)
}

// WriteVersion stores version (without a leading v) in every manifest
func (s *Set) WriteVersion(version string) error {
	return s.SetField("version", strings.TrimPrefix(version, "v"))
}
