/*
Package sfntraster rasterizes glyphs of OpenType and TrueType fonts.

Outlines are loaded with golang.org/x/image/font/sfnt, scaled to the
typecase's pixels per em, and filled with the anti-aliasing scan converter of
golang.org/x/image/vector. Glyphs are not hinted.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sfntraster

import (
	"errors"
	"image"
	"image/draw"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/font"
	"github.com/npillmayer/textraster/engine/raster"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// tracer traces with key 'textraster.raster'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.raster")
}

// Rasterizer renders glyphs of a single typecase.
// It re-uses internal buffers and must not be used concurrently.
type Rasterizer struct {
	sfnt *sfnt.Font
	ppem fixed.Int26_6
	buf  sfnt.Buffer
	vr   *vector.Rasterizer
}

var _ raster.Rasterizer = (*Rasterizer)(nil)

// New creates a rasterizer for a typecase. The typecase has to be backed by
// a parsed font.
func New(tc *font.TypeCase) (*Rasterizer, error) {
	if tc == nil || tc.ScalableFontParent() == nil || tc.ScalableFontParent().SFNT == nil {
		return nil, core.Error(core.EINIT, "cannot create rasterizer without a font")
	}
	if tc.PPEM() <= 0 {
		return nil, core.Error(core.EINVALID, "cannot rasterize at %v pixels per em", tc.PPEM())
	}
	return &Rasterizer{
		sfnt: tc.ScalableFontParent().SFNT,
		ppem: tc.PPEM(),
		vr:   vector.NewRasterizer(0, 0),
	}, nil
}

// RasterizeGlyph renders glyph gid with its origin placed at pen.
//
// The bitmap covers the glyph's control box, widened to whole pixels. Glyphs
// without an outline result in a GlyphRaster without ink, carrying just the
// advance. Glyph indices not present in the font are reported as
// raster.ErrMissingGlyph.
func (r *Rasterizer) RasterizeGlyph(gid sfnt.GlyphIndex, pen fixed.Point26_6) (raster.GlyphRaster, error) {
	if int(gid) >= r.sfnt.NumGlyphs() {
		return raster.GlyphRaster{}, raster.ErrMissingGlyph
	}
	segs, err := r.sfnt.LoadGlyph(&r.buf, gid, r.ppem, nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return raster.GlyphRaster{}, raster.ErrMissingGlyph
		}
		return raster.GlyphRaster{}, core.WrapError(err, core.ECOLLABORATOR, "cannot load outline of glyph %d", gid)
	}
	adv, err := r.sfnt.GlyphAdvance(&r.buf, gid, r.ppem, xfont.HintingNone)
	if err != nil {
		return raster.GlyphRaster{}, core.WrapError(err, core.ECOLLABORATOR, "cannot get advance of glyph %d", gid)
	}
	gr := raster.GlyphRaster{Advance: fixed.Point26_6{X: adv}}
	cbox, ok := controlBox(segs)
	if !ok {
		return gr, nil // no outline, e.g. a space
	}
	gr.Height = cbox.Max.Y - cbox.Min.Y
	gr.Ascent = cbox.Max.Y
	gr.Bounds = cbox.Add(pen)
	gr.Left = gr.Bounds.Min.X.Floor()
	gr.Top = gr.Bounds.Max.Y.Ceil()
	gr.Width = gr.Bounds.Max.X.Ceil() - gr.Left
	gr.Rows = gr.Top - gr.Bounds.Min.Y.Floor()
	if gr.Width <= 0 || gr.Rows <= 0 {
		gr.Bounds = fixed.Rectangle26_6{}
		return gr, nil
	}
	gr.Coverage = r.fill(segs, gr, pen)
	return gr, nil
}

// controlBox returns the box enclosing all on- and off-curve points of an
// outline, with y pointing up. sfnt delivers outlines with y pointing down.
func controlBox(segs sfnt.Segments) (box fixed.Rectangle26_6, ok bool) {
	for _, seg := range segs {
		for _, p := range seg.Args[:argCount(seg.Op)] {
			x, y := p.X, -p.Y
			if !ok {
				box = fixed.Rectangle26_6{Min: fixed.Point26_6{X: x, Y: y}, Max: fixed.Point26_6{X: x, Y: y}}
				ok = true
				continue
			}
			if x < box.Min.X {
				box.Min.X = x
			}
			if x > box.Max.X {
				box.Max.X = x
			}
			if y < box.Min.Y {
				box.Min.Y = y
			}
			if y > box.Max.Y {
				box.Max.Y = y
			}
		}
	}
	return
}

func argCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	}
	return 1
}

// fill scan-converts an outline into a coverage bitmap of the glyph raster's
// size.
func (r *Rasterizer) fill(segs sfnt.Segments, gr raster.GlyphRaster, pen fixed.Point26_6) []byte {
	// bitmap coordinates: x to the right of Left, y down from Top
	dx := float32(pen.X)/64 - float32(gr.Left)
	dy := float32(gr.Top) - float32(pen.Y)/64
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}
	r.vr.Reset(gr.Width, gr.Rows)
	r.vr.DrawOp = draw.Src
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.vr.ClosePath()
			}
			r.vr.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.vr.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.vr.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			r.vr.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	if open {
		r.vr.ClosePath()
	}
	dst := image.NewAlpha(image.Rect(0, 0, gr.Width, gr.Rows))
	r.vr.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	tracer().Debugf("rasterized glyph into %d×%d pixels", gr.Width, gr.Rows)
	return dst.Pix
}
