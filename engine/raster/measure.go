package raster

import (
	"errors"
	"fmt"

	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/engine/glyphing"
	"golang.org/x/image/math/fixed"
)

// Extent is the result of measuring a glyph run.
type Extent struct {
	Box BoundingBox // union of the glyphs' control boxes, in run space
	// AboveOriginShift is the maximum depth of a glyph below its baseline,
	// i.e. max(height − ascent). The compositor moves the baseline up by this
	// amount. It is zero if no glyph has ink.
	AboveOriginShift fixed.Int26_6
	Advance          fixed.Point26_6 // final pen position
	Glyphs           int             // number of glyphs measured
	Inked            int             // number of glyphs with ink
	Missing          int             // number of glyphs missing in the font
}

// Empty is a predicate: does the run leave no ink at all?
func (ext Extent) Empty() bool {
	return ext.Box.Empty()
}

// Width returns the width of a canvas for the run, in pixels.
func (ext Extent) Width() int {
	return ext.Box.PixelWidth()
}

// Height returns the height of a canvas for the run, in pixels. Rows are
// counted for the box moved up by AboveOriginShift, where the compositor
// draws the run.
func (ext Extent) Height() int {
	return ext.Box.Translate(fixed.Point26_6{Y: ext.AboveOriginShift}).PixelHeight()
}

func (ext Extent) String() string {
	return fmt.Sprintf("extent[%dx%d, shift=%v, glyphs=%d/%d inked, %d missing]",
		ext.Width(), ext.Height(), ext.AboveOriginShift, ext.Glyphs, ext.Inked, ext.Missing)
}

// Measure walks a glyph run and accumulates the bounding box of all glyphs,
// together with the shift needed to place the baseline on a canvas.
//
// The pen starts at the origin and advances by each glyph's advance vector.
// Missing glyphs and glyphs without ink contribute neither to the box nor to
// the shift. Any other rasterizer error aborts the measurement with an
// EINTERNAL error. Nothing is drawn.
func Measure(run glyphing.GlyphSequence, r Rasterizer, opts ...Option) (Extent, error) {
	p := newPass(opts)
	ext := Extent{}
	var pen fixed.Point26_6
	for i, g := range run.Glyphs {
		ext.Glyphs++
		at := pen.Add(fixed.Point26_6{X: g.XOffset, Y: g.YOffset})
		gr, err := r.RasterizeGlyph(g.GID, at)
		missing := errors.Is(err, ErrMissingGlyph)
		if err != nil && !missing {
			return Extent{}, core.WrapError(err, core.EINTERNAL, "cannot rasterize glyph #%d (GID %d)", i, g.GID)
		}
		if missing {
			tracer().Debugf("glyph #%d (GID %d) missing in font", i, g.GID)
			ext.Missing++
		} else if gr.HasInk() {
			ext.Inked++
			ext.Box.Extend(gr.Bounds)
			if depth := gr.Height - gr.Ascent; depth > ext.AboveOriginShift {
				ext.AboveOriginShift = depth
			}
		}
		pen = pen.Add(p.advance(g.Advance(), gr, missing))
	}
	ext.Advance = pen
	tracer().Debugf("measured %v, %v", ext, ext.Box)
	return ext, nil
}
