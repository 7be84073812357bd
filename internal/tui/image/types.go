package image

import "fmt"

// ImageSize is a width and height in pixels or cells
type ImageSize struct {
	Width  int
	Height int
}

// Preview is a rendered image ready to be placed in a view
type Preview struct {
	Key          string
	OriginalSize ImageSize
	Cells        ImageSize
	Format       string
	Rendered     string
	CacheHit     bool
}

// RenderError wraps a failure to decode or draw an image
type RenderError struct {
	Key string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Key, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
