package raster

import (
	"errors"

	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/engine/glyphing"
	"golang.org/x/image/math/fixed"
)

// Composite draws a glyph run onto a canvas. ext has to be the result of
// measuring the same run with the same rasterizer and options.
//
// The pen starts at (0, ext.AboveOriginShift), so that the deepest descender
// ends up on the canvas' last row. A glyph bitmap is placed at column
// left − ⌊xMin⌋ and row ⌈yMax + shift⌉ − top, where xMin and yMax are taken from
// the measured box. Without vertical offsets the latter is canvas height − top.
//
// Missing glyphs and glyphs without ink advance the pen but draw nothing.
// Any other rasterizer error aborts with an EINTERNAL error; the canvas may
// then be partially drawn and should be discarded.
func Composite(c *Canvas, run glyphing.GlyphSequence, r Rasterizer, ext Extent, opts ...Option) error {
	if c == nil {
		return core.Error(core.EINTERNAL, "cannot composite onto nil canvas")
	}
	if ext.Empty() {
		return nil
	}
	p := newPass(opts)
	originX := ext.Box.Min.X.Floor()
	topRow := (ext.Box.Max.Y + ext.AboveOriginShift).Ceil()
	pen := fixed.Point26_6{X: 0, Y: ext.AboveOriginShift}
	clipped := 0
	for i, g := range run.Glyphs {
		at := pen.Add(fixed.Point26_6{X: g.XOffset, Y: g.YOffset})
		gr, err := r.RasterizeGlyph(g.GID, at)
		missing := errors.Is(err, ErrMissingGlyph)
		if err != nil && !missing {
			return core.WrapError(err, core.EINTERNAL, "cannot rasterize glyph #%d (GID %d)", i, g.GID)
		}
		if !missing && gr.HasInk() {
			clipped += c.Merge(gr.Coverage, gr.Width, gr.Rows, gr.Left-originX, topRow-gr.Top)
		}
		pen = pen.Add(p.advance(g.Advance(), gr, missing))
	}
	if p.clipped != nil {
		*p.clipped += clipped
	}
	if clipped > 0 {
		tracer().Infof("%d pixels clipped while compositing", clipped)
	}
	return nil
}
