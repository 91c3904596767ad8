// Package dirsync reconciles a destination tree against a source tree.
//
// A sync snapshots the destination as the old state and the source as the new
// state, then applies the difference: files missing from the source are
// deleted from the destination, and every added or modified source file is
// copied over. Unlike a model rebuild, nothing else in the destination is
// touched.
//
// Policy:
//   - Containing directories are created before a file is copied.
//   - Directories emptied by a removal are left in place.
//   - Copied files receive the source modification time, so an immediate
//     second sync finds nothing to do.
//   - A missing destination is created; a missing source is an error.
//   - Source and destination must not overlap; see [Overlaps].
package dirsync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/observability"
	"github.com/matzehuels/docforge/pkg/snapshot"
)

const filePerm = 0o644

// Result describes a completed (or, in dry-run mode, planned) sync.
type Result struct {
	Source      string
	Destination string
	Changes     snapshot.Changes
	DryRun      bool
	Duration    time.Duration
}

// Count returns the number of paths touched across all change categories.
func (r Result) Count() int { return r.Changes.Total() }

// Syncer applies source changes to a destination tree.
type Syncer struct {
	Logger *log.Logger
	DryRun bool
}

// New creates a Syncer. A nil logger discards output.
func New(logger *log.Logger) *Syncer {
	return &Syncer{Logger: logger}
}

func (s *Syncer) logger() *log.Logger {
	if s.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return s.Logger
}

// Sync mirrors source into destination and returns the number of paths touched.
func Sync(ctx context.Context, source, destination string) (int, error) {
	res, err := New(nil).Sync(ctx, source, destination)
	return res.Count(), err
}

// Sync reconciles destination against source. Removals are applied before
// copies. The returned Result is populated even when an error aborts the
// sync partway through.
func (s *Syncer) Sync(ctx context.Context, source, destination string) (Result, error) {
	start := time.Now()
	res := Result{Source: source, Destination: destination, DryRun: s.DryRun}

	err := s.sync(ctx, &res)
	res.Duration = time.Since(start)

	if !s.DryRun {
		observability.Sync().OnSyncComplete(ctx, source, destination,
			len(res.Changes.Removed), len(res.Changes.Updated()), res.Duration, err)
	}
	return res, err
}

func (s *Syncer) sync(ctx context.Context, res *Result) error {
	info, err := os.Stat(res.Source)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "sync source %s does not exist", res.Source)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", res.Source, err)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidInput, "sync source %s is not a directory", res.Source)
	}

	if Overlaps(res.Source, res.Destination) {
		return errors.New(errors.ErrCodeInvalidInput,
			"sync source %s and destination %s overlap", res.Source, res.Destination)
	}

	logger := s.logger()
	src := osfs.New(res.Source)
	dst := osfs.New(res.Destination)

	old, err := snapshot.Take(dst, ".")
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", res.Destination, err)
	}
	cur, err := snapshot.Take(src, ".")
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", res.Source, err)
	}
	res.Changes = snapshot.Diff(old, cur)

	if s.DryRun || res.Changes.Empty() {
		return nil
	}

	for _, p := range res.Changes.Removed {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("removing", "path", filepath.Join(res.Destination, p))
		if err := dst.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFilesystem, err, "remove %s", filepath.Join(res.Destination, p))
		}
	}

	for _, p := range res.Changes.Updated() {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("updating", "path", filepath.Join(res.Destination, p))
		if err := copyFile(src, dst, p); err != nil {
			return errors.Wrap(errors.ErrCodeFilesystem, err, "copy %s", p)
		}
		mtime := cur[p]
		if err := os.Chtimes(filepath.Join(res.Destination, p), mtime, mtime); err != nil {
			return errors.Wrap(errors.ErrCodeFilesystem, err, "set mtime %s", p)
		}
	}
	return nil
}

// Overlaps reports whether a and b are the same directory or one contains
// the other. Syncing such a pair either copies its own output again on every
// run or deletes the source.
func Overlaps(a, b string) bool {
	a, b = absPath(a), absPath(b)
	return within(a, b) || within(b, a)
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func copyFile(src, dst billy.Filesystem, path string) error {
	data, err := util.ReadFile(src, path)
	if err != nil {
		return err
	}
	if err := dst.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return util.WriteFile(dst, path, data, filePerm)
}
