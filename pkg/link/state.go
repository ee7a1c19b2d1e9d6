package link

import (
	"os"
	"path/filepath"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/paths"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
)

// State is what currently occupies an install path
type State int

const (
	// Absent means nothing exists at the install path
	Absent State = iota
	// SymlinkTo means the install path is a symbolic link
	SymlinkTo
	// RegularEntry means a real file or directory occupies the install path
	RegularEntry
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case SymlinkTo:
		return "symlink"
	case RegularEntry:
		return "regular"
	default:
		return "unknown"
	}
}

// SourceKind classifies a link target against the project's build outputs
type SourceKind int

const (
	// Other is any directory that is neither the project's dev nor dist
	Other SourceKind = iota
	// Dev is the project's dev build output
	Dev
	// Dist is the project's dist build output
	Dist
)

func (k SourceKind) String() string {
	switch k {
	case Dev:
		return "dev"
	case Dist:
		return "dist"
	default:
		return "other"
	}
}

// Sources are the project's two conventional build output directories
type Sources struct {
	Dev  string
	Dist string
}

// SourcesFor returns the dev/dist sources of a project
func SourcesFor(project paths.Project, devDir, distDir string) Sources {
	return Sources{
		Dev:  project.Dir(devDir),
		Dist: project.Dir(distDir),
	}
}

// KindOf classifies dir as Dev, Dist or Other
func (s Sources) KindOf(dir string) SourceKind {
	switch {
	case s.Dev != "" && paths.Equal(dir, s.Dev):
		return Dev
	case s.Dist != "" && paths.Equal(dir, s.Dist):
		return Dist
	default:
		return Other
	}
}

// Inspection is the classified state of an install path
type Inspection struct {
	Path  string
	State State
	// Target is the link destination as stored in the link
	Target string
	// Resolved is Target made absolute against the link's directory
	Resolved string
	// Kind is only meaningful when State is SymlinkTo
	Kind SourceKind
}

// Classify inspects installPath without modifying anything. A missing
// entry, including a missing parent directory, is reported as Absent.
func Classify(fsys types.FS, installPath string, sources Sources) (Inspection, error) {
	insp := Inspection{Path: installPath, State: Absent}

	info, err := fsys.Lstat(installPath)
	if err != nil {
		if os.IsNotExist(err) {
			return insp, nil
		}
		return insp, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", installPath)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		insp.State = RegularEntry
		return insp, nil
	}

	target, err := fsys.Readlink(installPath)
	if err != nil {
		return insp, errors.Wrapf(err, errors.ErrFileAccess, "failed to read link %s", installPath)
	}

	insp.State = SymlinkTo
	insp.Target = target
	insp.Resolved = resolveTarget(installPath, target)
	insp.Kind = sources.KindOf(insp.Resolved)
	return insp, nil
}

// resolveTarget makes a relative link target absolute against the link's directory
func resolveTarget(linkPath, target string) string {
	if filepath.IsAbs(target) || isWindowsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(linkPath), target)
}

// isWindowsAbs recognises drive-letter and UNC targets on any platform
func isWindowsAbs(p string) bool {
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		return true
	}
	return len(p) >= 2 && p[0] == '\\' && p[1] == '\\'
}
