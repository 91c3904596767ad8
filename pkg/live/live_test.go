package live

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/docforge/pkg/snapshot"
)

// fakeScanner returns the given snapshots in order, repeating the last one.
func fakeScanner(snaps ...snapshot.Snapshot) ScanFunc {
	i := 0
	return func() (snapshot.Snapshot, error) {
		s := snaps[i]
		if i < len(snaps)-1 {
			i++
		}
		return s, nil
	}
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRunReportsChangesOnce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	p := &Poller{
		Interval: 5 * time.Millisecond,
		Scan: fakeScanner(
			snapshot.Snapshot{"a": t0},
			snapshot.Snapshot{"a": t0},
			snapshot.Snapshot{"a": t0.Add(time.Second), "b": t0},
		),
	}

	var got []snapshot.Changes
	errStop := errors.New("stop")
	err := p.Run(ctx, func(_ context.Context, c snapshot.Changes) error {
		got = append(got, c)
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("Run = %v, want callback error", err)
	}
	if len(got) != 1 {
		t.Fatalf("callback ran %d times, want 1", len(got))
	}
	c := got[0]
	if len(c.Modified) != 1 || c.Modified[0] != "a" || len(c.Added) != 1 || c.Added[0] != "b" {
		t.Errorf("changes = %+v", c)
	}
}

func TestRunAdoptsNewBaseline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	p := &Poller{
		Interval: 5 * time.Millisecond,
		Scan: fakeScanner(
			snapshot.Snapshot{},
			snapshot.Snapshot{"a": t0},
		),
	}

	calls := 0
	err := p.Run(ctx, func(context.Context, snapshot.Changes) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Poller{Interval: time.Hour, Scan: fakeScanner(snapshot.Snapshot{})}
	if err := p.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestRunScanError(t *testing.T) {
	errScan := errors.New("scan failed")
	p := &Poller{Scan: func() (snapshot.Snapshot, error) { return nil, errScan }}
	if err := p.Run(context.Background(), nil); !errors.Is(err, errScan) {
		t.Errorf("Run = %v, want scan error", err)
	}
}

func TestRunOnTick(t *testing.T) {
	errStop := errors.New("stop")
	ticks := 0
	p := &Poller{
		Interval: time.Millisecond,
		Scan:     fakeScanner(snapshot.Snapshot{}),
		OnTick: func(context.Context) error {
			ticks++
			if ticks == 3 {
				return errStop
			}
			return nil
		},
	}
	if err := p.Run(context.Background(), nil); !errors.Is(err, errStop) {
		t.Fatalf("Run = %v, want tick error", err)
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
}

func TestWatchDetectsFileCreation(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "new.mdx"), []byte("x"), 0o644)
	}()

	errStop := errors.New("stop")
	var changes snapshot.Changes
	err := Watch(ctx, dir, 10*time.Millisecond, func(_ context.Context, c snapshot.Changes) error {
		changes = c
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("Watch = %v", err)
	}
	want := filepath.Join(dir, "new.mdx")
	if len(changes.Added) != 1 || changes.Added[0] != want {
		t.Errorf("Added = %v, want [%s]", changes.Added, want)
	}
}

func TestScanners(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(filepath.Join(dir, "a.mdx"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Scanners(DirScanner(dir), FileScanner(file, filepath.Join(dir, "missing")))()
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(s), s)
	}
	for _, p := range []string{filepath.Join(dir, "a.mdx"), file} {
		if _, ok := s[p]; !ok {
			t.Errorf("missing %s in %v", p, s)
		}
	}
}
