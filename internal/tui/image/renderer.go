// Package image renders image bytes as ANSI true-color half blocks so
// previews and CAPTCHAs work in any terminal.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// Default cell grid
const (
	DefaultCols = 40
	DefaultRows = 12
)

// Renderer draws images into a grid of terminal cells. Each cell shows two
// vertical pixels using the upper half block.
type Renderer struct {
	Cols int
	Rows int
}

// NewRenderer returns a renderer for a cols x rows grid; non-positive
// values fall back to the defaults
func NewRenderer(cols, rows int) *Renderer {
	r := &Renderer{Cols: DefaultCols, Rows: DefaultRows}
	r.SetCellSize(cols, rows)
	return r
}

// SetCellSize changes the target grid
func (r *Renderer) SetCellSize(cols, rows int) {
	if cols > 0 {
		r.Cols = cols
	}
	if rows > 0 {
		r.Rows = rows
	}
}

// Render decodes data and draws it
func (r *Renderer) Render(key string, data []byte) (*Preview, error) {
	if len(data) == 0 {
		return nil, &RenderError{Key: key, Err: errors.New("empty image")}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &RenderError{Key: key, Err: fmt.Errorf("decode: %w", err)}
	}

	b := img.Bounds()
	p := &Preview{
		Key:          key,
		OriginalSize: ImageSize{Width: b.Dx(), Height: b.Dy()},
		Format:       format,
	}
	p.Rendered, p.Cells = r.RenderImage(img)
	return p, nil
}

// RenderImage draws img keeping its aspect ratio and returns the text and
// the cells it occupies
func (r *Renderer) RenderImage(img image.Image) (string, ImageSize) {
	fitted := imaging.Fit(img, r.Cols, r.Rows*2, imaging.Lanczos)
	fb := fitted.Bounds()
	w, h := fb.Dx(), fb.Dy()
	if w == 0 || h == 0 {
		return "", ImageSize{}
	}

	rows := (h + 1) / 2
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for x := 0; x < w; x++ {
			top := fitted.NRGBAAt(fb.Min.X+x, fb.Min.Y+row*2)
			bottom := top
			if row*2+1 < h {
				bottom = fitted.NRGBAAt(fb.Min.X+x, fb.Min.Y+row*2+1)
			}
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		sb.WriteString("\x1b[0m")
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), ImageSize{Width: w, Height: rows}
}
