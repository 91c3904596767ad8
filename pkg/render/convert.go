package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/docforge/pkg/errors"
)

// Output formats supported by the tree command.
const (
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// DefaultPNGScale renders PNGs at twice the SVG size.
const DefaultPNGScale = 2.0

const rsvgBinary = "rsvg-convert"

// ErrNoConverter is the cause of the error returned when a PNG or PDF is
// requested and rsvg-convert is not on PATH.
var ErrNoConverter = stderrors.New(rsvgBinary + " not found in PATH")

// Convert turns a rendered SVG into format. SVG input is returned as is;
// PNG and PDF are produced by rsvg-convert.
func Convert(ctx context.Context, svg []byte, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return ToPNG(ctx, svg, DefaultPNGScale)
	case FormatPDF:
		return ToPDF(ctx, svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot convert SVG to %q", format)
	}
}

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, FormatPDF)
}

// ToPNG converts SVG bytes to PNG with the given scale factor.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, FormatPNG, "-z", fmt.Sprintf("%.2f", scale))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, ErrNoConverter,
			"%s export requires librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
