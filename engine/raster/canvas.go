package raster

import (
	"image"

	"github.com/npillmayer/textraster/core"
)

// MaxCanvasPixels limits the size of canvases. Requests beyond it are refused
// instead of exhausting memory.
const MaxCanvasPixels = 1 << 28

// Canvas is an 8-bit gray-scale surface, row-major with the top row first.
// A coverage value of 0 is background, 255 is full ink.
//
// A canvas of size 0×0 is valid and used for runs without ink.
type Canvas struct {
	Width, Height int
	Pix           []byte
}

// NewCanvas allocates a zeroed canvas of w×h pixels.
func NewCanvas(w, h int) (*Canvas, error) {
	if w < 0 || h < 0 {
		return nil, core.Error(core.EINTERNAL, "cannot create canvas of negative size %d×%d", w, h)
	}
	if w > 0 && h > MaxCanvasPixels/w {
		return nil, core.Error(core.EINTERNAL, "cannot allocate canvas of %d×%d pixels", w, h)
	}
	tracer().Debugf("new canvas of %d×%d pixels", w, h)
	return &Canvas{Width: w, Height: h, Pix: make([]byte, w*h)}, nil
}

// CanvasFor allocates a canvas just large enough for a measured run.
func CanvasFor(ext Extent) (*Canvas, error) {
	return NewCanvas(ext.Width(), ext.Height())
}

// Bounds returns the canvas' rectangle in pixel coordinates.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// At returns the coverage at column x and row y. Positions outside of the
// canvas read as 0.
func (c *Canvas) At(x, y int) byte {
	if c == nil || x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.Pix[y*c.Width+x]
}

// Row returns the pixels of row y, or nil if y is out of range.
func (c *Canvas) Row(y int) []byte {
	if c == nil || y < 0 || y >= c.Height {
		return nil
	}
	return c.Pix[y*c.Width : (y+1)*c.Width]
}

// Merge ORs a coverage bitmap of w×rows pixels into the canvas, with the
// bitmap's top left pixel placed at column x and row y. Pixels falling
// outside the canvas are dropped. Merge returns the number of dropped pixels
// which carry ink.
func (c *Canvas) Merge(src []byte, w, rows, x, y int) (clipped int) {
	if w <= 0 || rows <= 0 || len(src) < w*rows {
		return 0
	}
	for j := 0; j < rows; j++ {
		srcRow := src[j*w : (j+1)*w]
		dy := y + j
		if dy < 0 || dy >= c.Height {
			clipped += inked(srcRow)
			continue
		}
		dstRow := c.Pix[dy*c.Width : (dy+1)*c.Width]
		for i, v := range srcRow {
			dx := x + i
			if dx < 0 || dx >= c.Width {
				if v != 0 {
					clipped++
				}
				continue
			}
			dstRow[dx] |= v
		}
	}
	return clipped
}

func inked(px []byte) (n int) {
	for _, v := range px {
		if v != 0 {
			n++
		}
	}
	return
}

// Gray returns an image view onto the canvas. The image shares the canvas'
// pixels.
func (c *Canvas) Gray() *image.Gray {
	return &image.Gray{
		Pix:    c.Pix,
		Stride: c.Width,
		Rect:   c.Bounds(),
	}
}

// Release drops the canvas' pixels. A released canvas is of size 0×0.
// Release may be called more than once.
func (c *Canvas) Release() {
	if c == nil {
		return
	}
	c.Pix = nil
	c.Width, c.Height = 0, 0
}
