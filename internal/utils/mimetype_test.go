package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewClassOf(t *testing.T) {
	tests := []struct {
		name string
		want PreviewClass
	}{
		{"/a/b.png", PreviewImage},
		{"/a/B.JPG", PreviewImage},
		{"main.go", PreviewCode},
		{"notes.TXT", PreviewCode},
		{"song.mp3", PreviewAudio},
		{"clip.flv", PreviewVideo},
		{"/a/b.xyz", PreviewUnknown},
		{"/a/docs", PreviewUnknown},
		{"/a.d/file", PreviewUnknown},
		{"trailing.", PreviewUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviewClassOf(tt.name))
		})
	}
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "image", CategoryOf("photo.png"))
	assert.Equal(t, "archive", CategoryOf("backup.zip"))
	assert.Equal(t, "other", CategoryOf("data.unknownext"))
}
