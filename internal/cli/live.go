package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docforge/pkg/config"
	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/live"
	"github.com/matzehuels/docforge/pkg/pipeline"
	"github.com/matzehuels/docforge/pkg/snapshot"
)

// liveCommand creates the live command: build once, then rebuild whenever
// the template directory, spec, template or config file changes.
func (c *CLI) liveCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Build, then rebuild on every change",
		Long: `Live runs a build and then polls the template directory, the docs spec, the
page template and the config file. Any added, modified or removed file
triggers a full rebuild. Configured [[sync]] pairs are synced on every poll.

Configuration errors during a rebuild are reported and polling continues, so
a half-edited spec does not stop the session. Press Ctrl-C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runLive(cmd.Context(), interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default: live_interval from config, or 1s)")
	return cmd
}

// liveSession is the mutable state of a live run. The config is reloaded
// whenever a rebuild is triggered.
type liveSession struct {
	cli    *CLI
	runner *pipeline.Runner
	cfg    *config.Config

	// syncErrs holds the last reported error per sync source, so a
	// persistent failure is reported once rather than on every tick.
	syncErrs map[string]string
}

func (c *CLI) runLive(ctx context.Context, interval time.Duration) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = cfg.Interval.Std()
	}

	s := &liveSession{cli: c, runner: c.newRunner(), cfg: cfg, syncErrs: make(map[string]string)}
	if err := s.rebuild(ctx); err != nil {
		return err
	}

	poller := &live.Poller{
		Interval: interval,
		Scan:     s.scan,
		Logger:   c.Logger,
		OnTick:   s.sync,
	}

	printInfo("Watching %s every %s (Ctrl-C to stop)", StyleHighlight.Render(cfg.TemplateDir), interval)
	return poller.Run(ctx, func(ctx context.Context, changes snapshot.Changes) error {
		for _, row := range changeRows(changes) {
			c.Logger.Debug("changed", "kind", row[0], "path", row[1])
		}
		printInfo("Updating (%d changed)", changes.Total())
		s.reload()
		return s.rebuild(ctx)
	})
}

// scan snapshots the inputs named by the current config, so paths changed
// by a reload are watched from the next tick on.
func (s *liveSession) scan() (snapshot.Snapshot, error) {
	return live.Scanners(
		live.DirScanner(s.cfg.TemplateDir),
		live.FileScanner(s.cfg.SpecFile, s.cfg.TemplateFile, s.cfg.Path),
	)()
}

// reload rereads the config file. A broken config keeps the previous one.
func (s *liveSession) reload() {
	cfg, err := config.Load(s.cfg.Path)
	if err != nil {
		s.cli.Logger.Warn("config not reloaded", "err", errors.UserMessage(err))
		return
	}
	s.cfg = cfg
}

// rebuild runs one tagged build. Configuration errors are reported and
// swallowed; any other error ends the session.
func (s *liveSession) rebuild(ctx context.Context) error {
	id := uuid.NewString()[:8]
	ctx = withLogger(ctx, s.cli.Logger.With("build", id))
	logger := loggerFromContext(ctx, s.cli.Logger)

	opts := pipeline.OptionsFromConfig(s.cfg)
	opts.Logger = logger

	prog := newProgress(logger)
	res, err := s.runner.BuildOnce(ctx, opts)
	if err != nil {
		if errors.IsConfig(err) {
			reportConfigError(logger, err)
			return nil
		}
		return err
	}
	prog.done("Rebuilt docs")
	printSuccess("Generated %d pages", res.Stats.Pages)
	return nil
}

// sync runs each configured sync pair. A pair failing with a configuration
// error, such as a missing source, is reported and skipped.
func (s *liveSession) sync(ctx context.Context) error {
	for _, pair := range s.cfg.Sync {
		results, err := s.runner.SyncAll(ctx, []config.SyncPair{pair}, false)
		for _, res := range results {
			if !res.Changes.Empty() {
				printSyncResult(res)
			}
		}
		if err == nil {
			delete(s.syncErrs, pair.Source)
			continue
		}
		if !errors.IsConfig(err) {
			return err
		}
		if msg := errors.UserMessage(err); s.syncErrs[pair.Source] != msg {
			s.syncErrs[pair.Source] = msg
			reportConfigError(s.cli.Logger, err)
		}
	}
	return nil
}

func reportConfigError(logger *log.Logger, err error) {
	logger.Error("configuration error", "code", errors.GetCode(err), "err", errors.UserMessage(err))
	printError("%s", errors.UserMessage(err))
}
