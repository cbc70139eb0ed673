/*
Package raster sets a run of shaped glyphs onto a single gray-scale canvas.

Rendering takes two passes over an immutable glyph sequence. The measure pass
asks a Rasterizer for every glyph's control box at the current pen position
and accumulates a tight bounding box, together with the shift needed to fit
the deepest descender onto the canvas. The compositing pass rasterizes every
glyph again, this time with the pen moved up by that shift, and merges the
coverage bitmaps into the canvas.

Coverage is merged by bitwise OR (dst |= src), not by alpha blending.
Overlapping anti-aliased edges therefore appear harder than either glyph on
its own. Pixels outside of the canvas are clipped silently.

Geometry follows font conventions: y grows upwards and positions are given
in sub-pixel units (26.6 fixed point). Canvas rows grow downwards.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raster

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'textraster.raster'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.raster")
}

// ErrMissingGlyph is returned by rasterizers for glyphs not present in a font.
// A missing glyph draws nothing, but still advances the pen.
var ErrMissingGlyph = errors.New("glyph missing in font")

// GlyphRaster is the result of rasterizing a single glyph at a pen position.
type GlyphRaster struct {
	Coverage []byte // Width × Rows coverage values, row-major, top row first
	Width    int    // width of the bitmap in pixels
	Rows     int    // height of the bitmap in pixels
	Left     int    // left edge of the bitmap in pixels, pen translation applied
	Top      int    // top edge of the bitmap in pixels (y up), pen translation applied
	// Bounds is the glyph's control box in run space (y up), i.e. with the pen
	// translation applied.
	Bounds  fixed.Rectangle26_6
	Height  fixed.Int26_6   // height of the glyph's outline, untranslated
	Ascent  fixed.Int26_6   // extent of the outline above the baseline, untranslated
	Advance fixed.Point26_6 // advance vector as reported by the font
}

// HasInk is a predicate: does the glyph cover any area?
// Glyphs without an outline, e.g. spaces, do not.
func (gr GlyphRaster) HasInk() bool {
	return !gr.Bounds.Empty()
}

func (gr GlyphRaster) String() string {
	return fmt.Sprintf("raster[%dx%d @(%d,%d) box=%v]", gr.Width, gr.Rows, gr.Left, gr.Top, gr.Bounds)
}

// Rasterizer renders single glyphs of a font at a given size.
//
// Pen positions are given in run space (y up, sub-pixel units). Glyphs the
// font does not contain are reported as ErrMissingGlyph. Rasterizers usually
// keep internal state and are not safe for concurrent use.
type Rasterizer interface {
	RasterizeGlyph(gid sfnt.GlyphIndex, pen fixed.Point26_6) (GlyphRaster, error)
}

// Option configures a pass over a glyph run.
type Option func(*pass)

type pass struct {
	rasterAdvance bool
	clipped       *int
}

// RasterAdvance lets the pen advance by the advance vector the rasterizer
// reports for a glyph, instead of the advance found in the glyph run.
// Missing glyphs advance by the glyph run's advance in either case.
func RasterAdvance() Option {
	return func(p *pass) {
		p.rasterAdvance = true
	}
}

// CountClipped makes the compositing pass add the number of inked pixels
// falling outside the canvas to *n. Measuring ignores it.
func CountClipped(n *int) Option {
	return func(p *pass) {
		p.clipped = n
	}
}

func newPass(opts []Option) pass {
	p := pass{}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p pass) advance(shaped fixed.Point26_6, gr GlyphRaster, missing bool) fixed.Point26_6 {
	if p.rasterAdvance && !missing {
		return gr.Advance
	}
	return shaped
}
