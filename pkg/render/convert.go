package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	sberrors "github.com/matzehuels/sunburst/pkg/errors"
)

// converter is the external binary used for raster and print output.
const converter = "rsvg-convert"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return ConvertContext(context.Background(), svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return ConvertContext(context.Background(), svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ConvertContext pipes svg through rsvg-convert with "-f format" and any
// extra arguments. The process is killed when ctx is done.
func ConvertContext(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, sberrors.New(sberrors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, sberrors.Wrap(sberrors.ErrCodeInternal, err, "%s: %s", converter, errBuf.String())
	}
	return out.Bytes(), nil
}
