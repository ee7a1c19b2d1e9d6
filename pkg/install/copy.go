package install

import (
	"io"
	"os"
	"path/filepath"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/spf13/afero"
)

// CopyOptions tune CopyTree
type CopyOptions struct {
	// Skip excludes an entry (and, for directories, everything below it).
	// rel is slash-separated and relative to the source root.
	Skip func(rel string, info os.FileInfo) bool
}

// SkipNames skips entries whose base name is one of names
func SkipNames(names ...string) func(string, os.FileInfo) bool {
	return func(_ string, info os.FileInfo) bool {
		for _, n := range names {
			if info.Name() == n {
				return true
			}
		}
		return false
	}
}

// CopyTree copies src into dst, creating dst if needed. Existing files are
// overwritten, extra files in dst are kept. Permission bits are preserved
// and symlinks are recreated as links when the filesystem supports them.
// It returns the number of files and links written.
func CopyTree(fsys afero.Fs, src, dst string, opts CopyOptions) (int, error) {
	count := 0
	err := afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && opts.Skip != nil && opts.Skip(filepath.ToSlash(rel), info) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			count++
			return copySymlink(fsys, path, target)
		case info.IsDir():
			return fsys.MkdirAll(target, info.Mode().Perm()|0700)
		default:
			count++
			return copyFile(fsys, path, target, info.Mode().Perm())
		}
	})
	if err != nil {
		return count, errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s to %s", src, dst)
	}
	return count, nil
}

func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	if err := removeIfLink(fsys, dst); err != nil {
		return err
	}

	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile only applies perm on creation
	return fsys.Chmod(dst, perm)
}

func copySymlink(fsys afero.Fs, src, dst string) error {
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return &os.LinkError{Op: "readlink", Old: src, New: dst, Err: afero.ErrNoReadlink}
	}
	linker, ok := fsys.(afero.Linker)
	if !ok {
		return &os.LinkError{Op: "symlink", Old: src, New: dst, Err: afero.ErrNoSymlink}
	}

	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return err
	}
	if err := fsys.RemoveAll(dst); err != nil {
		return err
	}
	return linker.SymlinkIfPossible(target, dst)
}

// removeIfLink removes dst when it is a symlink so writes never follow it
func removeIfLink(fsys afero.Fs, dst string) error {
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return nil
	}
	info, _, err := lstater.LstatIfPossible(dst)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	return fsys.Remove(dst)
}
