// Package live polls watched files for changes and reports them to a
// callback.
//
// Polling is cooperative and single threaded: a [Poller] rescans on every
// tick of its interval and compares the result with the previous scan.
// Multiple edits between two ticks are coalesced into one callback, and a
// change present at scan time is always reported within one interval.
package live

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docforge/pkg/snapshot"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = time.Second

// ScanFunc captures the current state of the watched files.
type ScanFunc func() (snapshot.Snapshot, error)

// ChangeFunc is invoked with the differences found on a tick.
type ChangeFunc func(ctx context.Context, changes snapshot.Changes) error

// Poller repeatedly scans and reports changes until its context is done.
type Poller struct {
	Interval time.Duration
	Scan     ScanFunc
	Logger   *log.Logger

	// OnTick, if set, runs on every tick after the scan, whether or not
	// anything changed. Its error stops the loop like an onChange error.
	OnTick func(ctx context.Context) error
}

// Run takes a baseline scan and then rescans on every tick. When the scan
// differs from the baseline, onChange is called and the new scan becomes the
// baseline. Scan and onChange errors stop the loop and are returned; a done
// context stops it with ctx.Err().
func (p *Poller) Run(ctx context.Context, onChange ChangeFunc) error {
	logger := p.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	baseline, err := p.Scan()
	if err != nil {
		return err
	}
	logger.Debug("watching", "files", len(baseline), "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		current, err := p.Scan()
		if err != nil {
			return err
		}
		if changes := snapshot.Diff(baseline, current); !changes.Empty() {
			logger.Debug("change detected",
				"removed", len(changes.Removed),
				"modified", len(changes.Modified),
				"added", len(changes.Added))
			baseline = current
			if err := onChange(ctx, changes); err != nil {
				return err
			}
		}
		if p.OnTick != nil {
			if err := p.OnTick(ctx); err != nil {
				return err
			}
		}
	}
}

// Watch polls the directory tree at dir every interval until ctx is done.
func Watch(ctx context.Context, dir string, interval time.Duration, onChange ChangeFunc) error {
	p := &Poller{Interval: interval, Scan: DirScanner(dir)}
	return p.Run(ctx, onChange)
}

// DirScanner scans the tree at dir. Paths are reported with the dir prefix.
func DirScanner(dir string) ScanFunc {
	return func() (snapshot.Snapshot, error) {
		s, err := snapshot.Dir(dir)
		if err != nil {
			return nil, err
		}
		return s.Prefix(dir), nil
	}
}

// FileScanner scans individual files. Missing files are simply absent, so
// creating or deleting one shows up as a change.
func FileScanner(paths ...string) ScanFunc {
	return func() (snapshot.Snapshot, error) {
		return snapshot.Files(paths...)
	}
}

// Scanners combines several scanners into one.
func Scanners(scans ...ScanFunc) ScanFunc {
	return func() (snapshot.Snapshot, error) {
		parts := make([]snapshot.Snapshot, 0, len(scans))
		for _, scan := range scans {
			s, err := scan()
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		return snapshot.Merge(parts...), nil
	}
}
