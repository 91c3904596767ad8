package endpoint

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/spec"
	"github.com/matzehuels/docforge/pkg/template"
)

// FooterExt is the extension of per-endpoint footer files.
const FooterExt = ".mdx"

const footerCacheSize = 512

type footer struct {
	modTime time.Time
	content string
}

// Generator renders endpoint pages from a template. It implements
// model.Generator.
//
// Template placeholders:
//
//	(FOOTER)            contents of <FooterDir>/<route>.mdx, or empty
//	(SIDEBAR_POSITION)  position among siblings in the spec
//	(METHOD) (ROUTE) (SHORT) (DESCRIPTION)
//	(PRIVILEGED)...(/PRIVILEGED)  block kept only for privileged endpoints
//	(PARAMETERS)        parameter list, or empty
//	(METHOD_COLOUR)     badge colour for the method
//	(SLUG)              last route segment
type Generator struct {
	Template  *template.Template
	FooterDir string
	Logger    *log.Logger

	footers *lru.Cache[string, footer]
}

// NewGenerator creates a Generator with a footer cache. Footers are reread
// only when their modification time changes.
func NewGenerator(tpl *template.Template, footerDir string, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	cache, _ := lru.New[string, footer](footerCacheSize)
	return &Generator{
		Template:  tpl,
		FooterDir: footerDir,
		Logger:    logger,
		footers:   cache,
	}
}

// Generate renders the page for one spec entry. Rejected endpoints yield
// ok == false and no error.
func (g *Generator) Generate(_ context.Context, name string, position int, payload spec.Map) (string, bool, error) {
	if g.Template == nil {
		return "", false, errors.New(errors.ErrCodeInternal, "endpoint generator has no template")
	}

	e, err := Parse(payload)
	if err != nil {
		return "", false, err
	}
	if err := e.Validate(); err != nil {
		if stderrors.Is(err, ErrRejected) {
			g.logger().Debug("skipping endpoint", "name", name, "route", e.Route, "reason", err)
			return "", false, nil
		}
		return "", false, err
	}

	foot, err := g.footer(e.Route)
	if err != nil {
		return "", false, err
	}

	page, err := Render(g.Template, e, position, foot)
	if err != nil {
		return "", false, fmt.Errorf("render %s: %w", e.Route, err)
	}
	return page, true, nil
}

// Render fills a copy of tpl for e. tpl itself is not modified.
// Unbalanced PRIVILEGED markers are a configuration error.
func Render(tpl *template.Template, e Endpoint, position int, footerText string) (string, error) {
	t := tpl.Clone()
	t.Replace("FOOTER", footerText)
	t.Replace("SIDEBAR_POSITION", position)
	t.Replace("METHOD", e.Method)
	t.Replace("ROUTE", e.Route)
	if err := t.RemoveBlockIf("PRIVILEGED", !e.Privileged); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "template")
	}
	t.Replace("PARAMETERS", parametersSection(e.Parameters))
	t.Replace("DESCRIPTION", e.Description)
	t.Replace("SHORT", e.Short)
	t.Replace("METHOD_COLOUR", e.Colour())
	t.Replace("SLUG", e.Slug())
	return t.String(), nil
}

func parametersSection(params []Parameter) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return "## Parameters\n\n" + strings.Join(parts, "\n")
}

// FooterPath returns the footer file for route.
func (g *Generator) FooterPath(route string) string {
	return filepath.Join(g.FooterDir, filepath.FromSlash(route)+FooterExt)
}

// footer returns the footer contents for route, or "" if there is none.
func (g *Generator) footer(route string) (string, error) {
	path := g.FooterPath(route)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat footer %s: %w", path, err)
	}

	if g.footers != nil {
		if f, ok := g.footers.Get(path); ok && f.modTime.Equal(info.ModTime()) {
			return f.content, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read footer %s: %w", path, err)
	}
	if g.footers != nil {
		g.footers.Add(path, footer{modTime: info.ModTime(), content: string(data)})
	}
	return string(data), nil
}

func (g *Generator) logger() *log.Logger {
	if g.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return g.Logger
}
