// Package pipeline provides the docforge build pipeline.
//
// A full rebuild reads the docs spec and page template, builds the spec
// tree, renders every endpoint page and writes the resulting model into the
// build directory. The CLI drives every command through this package:
//
//  1. Read: load the YAML docs spec and the page template
//  2. Build: convert the spec into a tree of groups and pages
//  3. Generate: render each page with the endpoint generator
//  4. Write: reset and materialize the model under the build directory
//
// Steps 1–3 can be run without writing via [Runner.Generate].
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    SpecFile:     "docs.yaml",
//	    TemplateFile: "template.mdx",
//	    TemplateDir:  "templates",
//	    BuildDir:     "site/docs/api",
//	    SectionLabel: "API",
//	}
//	result, err := runner.BuildOnce(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Pages)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docforge/pkg/config"
	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/model"
)

// DefaultRootName writes the root group directly into the build directory.
const DefaultRootName = "."

// =============================================================================
// Options - Build Configuration
// =============================================================================

// Options contains all configuration for a build.
type Options struct {
	SpecFile     string
	TemplateFile string
	TemplateDir  string
	BuildDir     string
	SectionLabel string

	// RootName is the root group's directory below BuildDir. The default "."
	// makes BuildDir itself the root group, which is reset on every build.
	RootName string

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// OptionsFromConfig maps a project configuration onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SpecFile:     cfg.SpecFile,
		TemplateFile: cfg.TemplateFile,
		TemplateDir:  cfg.TemplateDir,
		BuildDir:     cfg.BuildDir,
		SectionLabel: cfg.SectionLabel,
		RootName:     cfg.RootName,
	}
}

// Result contains the outputs of a build.
type Result struct {
	// Model is the generated output model.
	Model *model.Group

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains build statistics.
type Stats struct {
	Pages    int
	Groups   int
	Duration time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if o.BuildDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "build directory is required")
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the fields needed to generate a model without
// writing it.
func (o *Options) ValidateForGenerate() error {
	if o.SpecFile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "docs spec file is required")
	}
	if o.TemplateFile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "template file is required")
	}
	if o.RootName == "" {
		o.RootName = DefaultRootName
	}
	if o.RootName != DefaultRootName {
		if err := errors.ValidateName(o.RootName); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
