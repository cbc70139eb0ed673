/*
Package harfbuzz uses HarfBuzz to convert text to sequences of glyphs.

HarfBuzz positions glyphs in font design units. The shaper scales all
positions to sub-pixel units for the typecase given in the shaping
parameters.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/dimen"
	"github.com/npillmayer/textraster/core/font"
	"github.com/npillmayer/textraster/engine/glyphing"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"
)

// tracer traces with key 'textraster.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.glyphs")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// Feature4HB makes a typecast from an OpenType feature tag to a HarfBuzz truetype tag.
func Feature4HB(t glyphing.Tag) hbtt.Tag {
	return hbtt.Tag(t)
}

// FeatureRange4HB converts a feature range struct to a HarbBuzz Feature switch.
func FeatureRange4HB(frng glyphing.FeatureRange) hb.Feature {
	f := hb.Feature{
		Tag:   Feature4HB(frng.Feature),
		Start: frng.Start,
		End:   frng.End,
	}
	if frng.On {
		if frng.Arg > 0 {
			f.Value = uint32(frng.Arg)
		} else {
			f.Value = 1
		}
	}
	return f
}

// --- Shape -----------------------------------------------------------------

// Shaper is a glyphing.Shaper backed by HarfBuzz.
//
// A Shaper keeps the HarfBuzz representation of every font it has been used
// with. It is not safe for concurrent use.
type Shaper struct {
	fonts map[*font.ScalableFont]*hb.Font
}

var _ glyphing.Shaper = (*Shaper)(nil)

// NewShaper creates a HarfBuzz shaper.
func NewShaper() *Shaper {
	return &Shaper{
		fonts: make(map[*font.ScalableFont]*hb.Font),
	}
}

// Shape calls the HarfBuzz shaper.
//
// Shape shapes a sequence of code-points (runes), turning its Unicode characters to
// positioned glyphs. It will select a shape plan based on params, including the
// selected font, and the properties of the input text.
//
// If `params.Features` is not empty, it will be used to control the
// features applied during shaping. If two features have the same tag but
// overlapping ranges the value of the feature with the higher index takes
// precedence.
//
// params.Font must be set, otherwise no output is created.
//
// Clients may provide `buf` to avoid allocating memory by Shape. Shape will wrap it
// into the GlyphSequence returned.
//
func (sh *Shaper) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, context [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if text == nil || params.Font == nil {
		return glyphing.GlyphSequence{}, nil
	}
	hbFont, err := sh.harfbuzzFont(params.Font.ScalableFontParent())
	if err != nil {
		return glyphing.GlyphSequence{}, err
	}
	// Prepare shaping parameters
	var hbSeqProps hb.SegmentProperties
	convertParams(&hbSeqProps, params)
	features := make([]hb.Feature, 0, len(params.Features))
	for _, feat := range params.Features {
		features = append(features, FeatureRange4HB(feat))
	}
	// Prepare HarfBuzz buffer
	bytesBuf, offset, length := bufferText(text, context)
	if length == 0 {
		return glyphing.GlyphSequence{Glyphs: buf[:0]}, nil
	}
	runes := bytes.Runes(bytesBuf.Bytes())
	hbBuf := hb.NewBuffer()
	hbBuf.Props = hbSeqProps
	hbBuf.AddRunes(runes, offset, length)
	hbBuf.Shape(hbFont, features)
	// Prepare shaped output
	if cap(buf) < len(hbBuf.Info) {
		buf = make([]glyphing.ShapedGlyph, len(hbBuf.Info))
	}
	buf = buf[:len(hbBuf.Info)]
	seq := glyphing.GlyphSequence{
		Glyphs: buf,
	}
	// move HarfBuzz output to glyph sequence output, scaled to the typecase
	tc := params.Font
	for i, ginfo := range hbBuf.Info {
		gpos := &hbBuf.Pos[i]
		tracer().Debugf("[%3d] %q", i, ginfo.String())
		g := &buf[i]
		g.ClusterID = ginfo.Cluster - offset
		g.GID = sfnt.GlyphIndex(ginfo.Glyph)
		g.XAdvance = tc.Scale(dimen.DU(gpos.XAdvance))
		g.YAdvance = tc.Scale(dimen.DU(gpos.YAdvance))
		g.XOffset = tc.Scale(dimen.DU(gpos.XOffset))
		g.YOffset = tc.Scale(dimen.DU(gpos.YOffset))
		if ginfo.Cluster >= 0 && ginfo.Cluster < len(runes) {
			g.CodePoint = runes[ginfo.Cluster]
		}
	}
	tracer().Debugf("HarfBuzz shaped %d runes into %d glyphs", length, len(buf))
	return seq, nil
}

// harfbuzzFont returns the HarfBuzz font for a scalable font, creating it on
// first use.
func (sh *Shaper) harfbuzzFont(sf *font.ScalableFont) (*hb.Font, error) {
	if f, ok := sh.fonts[sf]; ok {
		return f, nil
	}
	hbFace, err := hbtt.Parse(bytes.NewReader(sf.Binary), true)
	if err != nil {
		return nil, core.WrapError(err, core.ECOLLABORATOR, "HarfBuzz cannot read font %s", sf.Fontname)
	}
	f := hb.NewFont(hbFace)
	sh.fonts[sf] = f
	return f, nil
}

// convertParams is a helper function to convert glyphing parameters to
// HarfBuzz's format.
func convertParams(hbSeqProps *hb.SegmentProperties, params glyphing.Params) {
	if params.Language != language.Und {
		hbSeqProps.Language = Lang4HB(params.Language)
	}
	var none language.Script
	if params.Script != none {
		hbSeqProps.Script = Script4HB(params.Script)
	}
	hbSeqProps.Direction = Direction4HB(params.Direction)
}

// bufferText buffers the input text of a call to Shape(…) as a bytes.Buffer.
// To conform to HarfBuzz's API, context is pre-/appended to the input runes.
//
// bufferText returns the start position of the input within the returned buffer,
// together with the input's length (= rune count).
func bufferText(text io.RuneReader, context [][]rune) (buf bytes.Buffer, off int, length int) {
	if len(context) > 0 {
		for _, r := range context[0] {
			buf.WriteRune(r)
			off++
		}
	}
	for {
		r, sz, err := text.ReadRune()
		if sz == 0 || err != nil {
			break
		}
		length++
		buf.WriteRune(r)
	}
	if len(context) > 1 {
		for _, r := range context[1] {
			buf.WriteRune(r)
		}
	}
	return buf, off, length
}
