package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/matzehuels/docforge/pkg/config"
	"github.com/matzehuels/docforge/pkg/dirsync"
	"github.com/matzehuels/docforge/pkg/endpoint"
	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/model"
	"github.com/matzehuels/docforge/pkg/observability"
	"github.com/matzehuels/docforge/pkg/spec"
	"github.com/matzehuels/docforge/pkg/template"
	"github.com/matzehuels/docforge/pkg/tree"
)

// Runner executes builds and syncs.
//
// Every build rereads the spec and template from disk. The only state kept
// between builds is the endpoint generator's footer cache, so repeated
// builds in live mode reread only footers that changed.
type Runner struct {
	Logger *log.Logger

	gen *endpoint.Generator
}

// NewRunner creates a runner.
// If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// BuildOnce runs a full rebuild: generate the model, then reset and write
// it below opts.BuildDir. Configuration errors are returned before anything
// is written.
func (r *Runner) BuildOnce(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Build().OnBuildStart(ctx, opts.SpecFile)

	res, err := r.build(ctx, opts)
	if err != nil {
		observability.Build().OnBuildComplete(ctx, opts.SpecFile, 0, time.Since(start), err)
		return nil, err
	}
	res.Stats.Duration = time.Since(start)
	observability.Build().OnBuildComplete(ctx, opts.SpecFile, res.Stats.Pages, res.Stats.Duration, nil)

	opts.Logger.Info("built docs",
		"pages", res.Stats.Pages,
		"groups", res.Stats.Groups,
		"dir", opts.BuildDir,
		"duration", res.Stats.Duration)
	return res, nil
}

func (r *Runner) build(ctx context.Context, opts Options) (*Result, error) {
	m, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	fsys := osfs.New(opts.BuildDir)
	if err := model.Write(fsys, ".", m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", opts.BuildDir)
	}

	return &Result{
		Model: m,
		Stats: Stats{Pages: m.Len(), Groups: m.Groups()},
	}, nil
}

// Generate reads the inputs and produces the output model without writing it.
func (r *Runner) Generate(ctx context.Context, opts Options) (*model.Group, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	s, err := spec.ReadFile(opts.SpecFile)
	if err != nil {
		return nil, err
	}
	tpl, err := readTemplate(opts.TemplateFile)
	if err != nil {
		return nil, err
	}

	root, err := tree.Build(s, opts.SectionLabel, opts.RootName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.SpecFile, err)
	}

	m, err := model.Generate(ctx, root, r.generator(tpl, opts))
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("generated model", "pages", m.Len(), "groups", m.Groups())
	return m, nil
}

// generator returns the endpoint generator for opts, reusing the previous
// one (and its footer cache) when the footer directory is unchanged.
func (r *Runner) generator(tpl *template.Template, opts Options) *endpoint.Generator {
	if r.gen == nil || r.gen.FooterDir != opts.TemplateDir {
		r.gen = endpoint.NewGenerator(tpl, opts.TemplateDir, opts.Logger)
	}
	r.gen.Template = tpl
	r.gen.Logger = opts.Logger
	return r.gen
}

func readTemplate(path string) (*template.Template, error) {
	tpl, err := template.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "template %q does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read template %q", path)
	}
	return tpl, nil
}

// SyncAll runs every configured sync pair in order and stops at the first
// error. Results of completed pairs are returned alongside the error.
func (r *Runner) SyncAll(ctx context.Context, pairs []config.SyncPair, dryRun bool) ([]dirsync.Result, error) {
	s := dirsync.New(r.Logger)
	s.DryRun = dryRun

	results := make([]dirsync.Result, 0, len(pairs))
	for _, p := range pairs {
		res, err := s.Sync(ctx, p.Source, p.Destination)
		if err != nil {
			return results, fmt.Errorf("sync %s -> %s: %w", p.Source, p.Destination, err)
		}
		results = append(results, res)
		if res.Count() > 0 {
			r.Logger.Info("synced", "source", p.Source, "destination", p.Destination,
				"changes", res.Count(), "duration", res.Duration)
		}
	}
	return results, nil
}

// Clean recursively deletes path. A missing path is not an error.
func Clean(path string) error {
	clean := filepath.Clean(path)
	if clean == "." || filepath.Dir(clean) == clean {
		return errors.New(errors.ErrCodeInvalidInput, "refusing to clean %q", path)
	}
	fsys := osfs.New(filepath.Dir(clean))
	if err := util.RemoveAll(fsys, filepath.Base(clean)); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "clean %s", path)
	}
	return nil
}

// applyLogger sets the runner's logger on opts if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
