package tui

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/browser"
	img "github.com/HaiFongPan/fsb-cli/internal/tui/image"
	"github.com/HaiFongPan/fsb-cli/internal/utils"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	pic := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			pic.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, pic))
	return buf.Bytes()
}

func previewOf(name string, data []byte) browser.PreviewResult {
	key := browser.Join("/docs/", name)
	return browser.PreviewResult{
		Entry:    api.Entry{Path: "/docs/", Name: name, FileSize: int64(len(data))},
		Class:    utils.PreviewClassOf(name),
		Endpoint: api.FileEndpoint(key),
		Data:     data,
	}
}

func TestPreviewModel_CodeHasLineNumbers(t *testing.T) {
	m := NewPreviewModel(previewOf("main.go", []byte("package main\n\nfunc main() {}")), "", img.NewRenderer(0, 0), img.NewCache(2), 80, 24)

	view := m.View()
	assert.Contains(t, view, "main.go")
	assert.Contains(t, view, "1 package main")
	assert.Contains(t, view, "3 func main() {}")
}

func TestPreviewModel_ImageUsesCache(t *testing.T) {
	data := pngBytes(t, 6, 4)
	cache := img.NewCache(2)
	renderer := img.NewRenderer(0, 0)

	first := NewPreviewModel(previewOf("photo.png", data), "", renderer, cache, 80, 24)
	require.NoError(t, first.err)
	assert.NotEmpty(t, first.rendered)
	assert.Equal(t, img.ImageSize{Width: 6, Height: 4}, first.pixels)
	assert.NotContains(t, first.View(), "cached")
	assert.Equal(t, 1, cache.Len())

	second := NewPreviewModel(previewOf("photo.png", data), "", renderer, cache, 80, 24)
	assert.True(t, second.cacheHit)
	assert.Contains(t, second.View(), "6x4")
	assert.Contains(t, second.View(), "cached")
}

func TestPreviewModel_BrokenImage(t *testing.T) {
	m := NewPreviewModel(previewOf("broken.png", []byte("not a png")), "", img.NewRenderer(0, 0), img.NewCache(2), 80, 24)

	require.Error(t, m.err)
	var renderErr *img.RenderError
	assert.True(t, errors.As(m.err, &renderErr))
	assert.Contains(t, m.View(), "Failed to render")
}

func TestPreviewModel_MediaShowsLink(t *testing.T) {
	m := NewPreviewModel(previewOf("song.mp3", nil), "http://fsb.example", img.NewRenderer(0, 0), img.NewCache(2), 100, 24)

	assert.Equal(t, "http://fsb.example/api/file/docs/song.mp3", m.link)
	view := m.View()
	assert.Contains(t, view, "Open in a player")
	assert.Contains(t, view, m.link)
	assert.Contains(t, view, "audio")
}

func TestPreviewModel_CloseKeys(t *testing.T) {
	m := NewPreviewModel(previewOf("a.txt", []byte("x")), "", img.NewRenderer(0, 0), img.NewCache(2), 80, 24)

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyRunes, Runes: []rune{'p'}},
	} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd, k.String())
		assert.Equal(t, modalClosedMsg{}, cmd())
	}
}
