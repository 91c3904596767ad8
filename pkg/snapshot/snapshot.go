// Package snapshot records the modification times of every file below a
// directory and classifies the differences between two such records.
//
// Change detection is purely timestamp based. Two writes that land in the
// same timestamp tick of the underlying filesystem are indistinguishable, so
// an edit made within one tick of the previous snapshot can be missed. File
// contents are never compared.
package snapshot

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Snapshot maps file paths to their last modification time.
// Directories are not recorded.
type Snapshot map[string]time.Time

// Take walks dir on fsys recursively and records every regular file. Keys
// are the file paths joined with their containing directory, starting from
// dir. Symlinks and special files are skipped, and unreadable or missing
// directories are treated as empty.
func Take(fsys billy.Filesystem, dir string) (Snapshot, error) {
	s := make(Snapshot)
	if err := walk(fsys, dir, s); err != nil {
		return nil, err
	}
	return s, nil
}

func walk(fsys billy.Filesystem, dir string, s Snapshot) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil
		}
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, fi := range entries {
		path := fsys.Join(dir, fi.Name())
		switch {
		case fi.IsDir():
			if err := walk(fsys, path, s); err != nil {
				return err
			}
		case fi.Mode().IsRegular():
			s[path] = fi.ModTime()
		}
	}
	return nil
}

// Dir snapshots the directory at path on the local filesystem. Keys are
// relative to path, so snapshots of two different trees can be compared.
func Dir(path string) (Snapshot, error) {
	return Take(osfs.New(path), ".")
}

// Files snapshots individual files on the local filesystem, keyed by the
// given paths. Missing files are absent from the result.
func Files(paths ...string) (Snapshot, error) {
	s := make(Snapshot, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if fi.Mode().IsRegular() {
			s[p] = fi.ModTime()
		}
	}
	return s, nil
}

// Prefix returns a copy of s with every key joined below prefix.
func (s Snapshot) Prefix(prefix string) Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[filepath.Join(prefix, k)] = v
	}
	return out
}

// Merge returns the union of snaps. Later snapshots win on key collisions.
func Merge(snaps ...Snapshot) Snapshot {
	out := make(Snapshot)
	for _, s := range snaps {
		maps.Copy(out, s)
	}
	return out
}

// Paths returns the recorded paths in lexical order.
func (s Snapshot) Paths() []string {
	return slices.Sorted(maps.Keys(s))
}
