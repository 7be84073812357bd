package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(10, 5)
	p, err := r.Render("/pics/a.png", pngBytes(t, 100, 100))
	require.NoError(t, err)

	assert.Equal(t, "png", p.Format)
	assert.Equal(t, ImageSize{Width: 100, Height: 100}, p.OriginalSize)
	assert.Equal(t, 10, p.Cells.Width)
	assert.Equal(t, 5, p.Cells.Height)
	lines := strings.Split(p.Rendered, "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, p.Rendered, "\x1b[38;2;255;0;0m")
}

func TestRenderer_RenderKeepsAspectRatio(t *testing.T) {
	r := NewRenderer(40, 10)
	p, err := r.Render("wide.png", pngBytes(t, 400, 50))
	require.NoError(t, err)
	assert.Equal(t, 40, p.Cells.Width)
	assert.Equal(t, 3, p.Cells.Height)
}

func TestRenderer_RenderErrors(t *testing.T) {
	r := NewRenderer(0, 0)
	assert.Equal(t, DefaultCols, r.Cols)

	_, err := r.Render("a.png", nil)
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "a.png", rerr.Key)

	_, err = r.Render("a.png", []byte("not an image"))
	assert.Error(t, err)
}

func TestCache_RenderCached(t *testing.T) {
	c := NewCache(2)
	r := NewRenderer(4, 2)
	data := pngBytes(t, 8, 8)

	p, err := c.RenderCached(r, "a", data)
	require.NoError(t, err)
	assert.False(t, p.CacheHit)

	p, err = c.RenderCached(r, "a", nil)
	require.NoError(t, err)
	assert.True(t, p.CacheHit)

	r.SetCellSize(6, 3)
	_, err = c.RenderCached(r, "a", nil)
	assert.Error(t, err, "a different grid size is a miss")
}

func TestCache_EvictsOldest(t *testing.T) {
	c := NewCache(2)
	c.Put(&Preview{Key: "a"}, 1, 1)
	c.Put(&Preview{Key: "b"}, 1, 1)
	_, _ = c.Get("a", 1, 1)
	c.Put(&Preview{Key: "c"}, 1, 1)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b", 1, 1)
	assert.False(t, ok)
	_, ok = c.Get("a", 1, 1)
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
