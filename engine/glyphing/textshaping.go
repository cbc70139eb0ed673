/*
Package glyphing holds the data model of shaped text: sequences of glyphs,
positioned by advance vectors.

Glyph geometry is expressed in sub-pixel units (26.6 fixed point), i.e. the
shaper is responsible for scaling design units with respect to the font's
size. Glyph sequences are ordered visually, from left to right, and are
immutable once produced.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"fmt"
	"io"

	"github.com/npillmayer/textraster/core/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	case TopToBottom:
		return "TopToBottom"
	case BottomToTop:
		return "BottomToTop"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// A ShapedGlyph is a glyph of a font, together with its positioning
// information, scaled to sub-pixel units.
type ShapedGlyph struct {
	ClusterID int             // position of code-point(s) for this glyph in input string
	XAdvance  fixed.Int26_6   // advance after glyph has been set
	YAdvance  fixed.Int26_6   //
	XOffset   fixed.Int26_6   // displacement of the glyph from the pen position
	YOffset   fixed.Int26_6   //
	GID       sfnt.GlyphIndex // glyph index within font
	CodePoint rune            // code-point of first rune to produce this glyph
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, advance=%s)", g.GID, g.XAdvance)
}

// Advance returns the advance vector of a glyph.
func (g ShapedGlyph) Advance() fixed.Point26_6 {
	return fixed.Point26_6{X: g.XAdvance, Y: g.YAdvance}
}

// A Shaper creates a sequence of glyphs from a sequence of
// Unicode code-points. Glyphs are taken from a font, given in a specific point-size.
//
// Clients may provide additional information in Params, as well as
// textual context ([2][]rune).
//
type Shaper interface {
	Shape(io.RuneReader, []ShapedGlyph, [][]rune, Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Font      *font.TypeCase  // use a font at a given point-size
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Features  []FeatureRange  // OpenType features to apply
}

// Tag is a 4-letter OpenType tag, e.g. a feature tag like 'liga'.
type Tag uint32

// MakeTag creates a tag from 4 letters.
// Tags shorter than 4 letters are padded with spaces.
func MakeTag(s string) Tag {
	b := []byte(s + "    ")
	return Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// FeatureRange tells a shaper to turn a certain OpenType feature on or off for a
// run of code-points.
type FeatureRange struct {
	Feature    Tag  // 4-letter feature tag
	Arg        int  // optional argument for this feature
	On         bool // turn it on or off?
	Start, End int  // position of code-points to apply feature for
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs []ShapedGlyph // resulting sequence of glyphs
}

// Len returns the number of glyphs in the sequence.
func (seq GlyphSequence) Len() int {
	return len(seq.Glyphs)
}

// Advance returns the sum of the advance vectors of all glyphs, i.e. the
// final pen position of a sequence set at the origin.
func (seq GlyphSequence) Advance() fixed.Point26_6 {
	var pen fixed.Point26_6
	for _, g := range seq.Glyphs {
		pen = pen.Add(g.Advance())
	}
	return pen
}
