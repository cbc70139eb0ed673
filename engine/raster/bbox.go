package raster

import (
	"fmt"

	"github.com/npillmayer/textraster/core/dimen"
	"golang.org/x/image/math/fixed"
)

// BoundingBox accumulates glyph boxes in sub-pixel units (y up).
//
// The zero value is an empty box. Extending an empty box by a rectangle
// results in exactly that rectangle.
type BoundingBox struct {
	Min, Max fixed.Point26_6
	nonEmpty bool
}

// Empty is a predicate: has the box not been extended yet?
func (b BoundingBox) Empty() bool {
	return !b.nonEmpty
}

// Extend merges a rectangle into the box, edge by edge.
// Empty rectangles are ignored.
func (b *BoundingBox) Extend(r fixed.Rectangle26_6) {
	if r.Empty() {
		return
	}
	if !b.nonEmpty {
		b.Min, b.Max = r.Min, r.Max
		b.nonEmpty = true
		return
	}
	b.Min.X = dimen.Min(b.Min.X, r.Min.X)
	b.Min.Y = dimen.Min(b.Min.Y, r.Min.Y)
	b.Max.X = dimen.Max(b.Max.X, r.Max.X)
	b.Max.Y = dimen.Max(b.Max.Y, r.Max.Y)
}

// Rect returns the box as a rectangle. An empty box results in an empty
// rectangle.
func (b BoundingBox) Rect() fixed.Rectangle26_6 {
	if !b.nonEmpty {
		return fixed.Rectangle26_6{}
	}
	return fixed.Rectangle26_6{Min: b.Min, Max: b.Max}
}

// Translate returns the box moved by d. An empty box stays empty.
func (b BoundingBox) Translate(d fixed.Point26_6) BoundingBox {
	if !b.nonEmpty {
		return b
	}
	return BoundingBox{Min: b.Min.Add(d), Max: b.Max.Add(d), nonEmpty: true}
}

// PixelWidth returns the number of pixel columns touched by the box.
// Edges are snapped outward to the pixel grid, as glyph bitmaps are.
func (b BoundingBox) PixelWidth() int {
	if !b.nonEmpty {
		return 0
	}
	return dimen.PixelSpan(fixed.I(b.Min.X.Floor()), fixed.I(b.Max.X.Ceil()))
}

// PixelHeight returns the number of pixel rows touched by the box.
// Edges are snapped outward to the pixel grid, as glyph bitmaps are.
func (b BoundingBox) PixelHeight() int {
	if !b.nonEmpty {
		return 0
	}
	return dimen.PixelSpan(fixed.I(b.Min.Y.Floor()), fixed.I(b.Max.Y.Ceil()))
}

func (b BoundingBox) String() string {
	if !b.nonEmpty {
		return "box[empty]"
	}
	return fmt.Sprintf("box[%v-%v]", b.Min, b.Max)
}
