package monospace

import (
	"io"
	"unicode/utf8"

	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/font"
	"github.com/npillmayer/textraster/engine/glyphing"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

type msshape struct {
	em               fixed.Int26_6
	graphemeSplitter *segment.Segmenter
	context          *uax11.Context
	sfntBuf          sfnt.Buffer
}

// Shaper creates a shaper for monospace typesetting.
// A cell width may be given which will then be used for shaping text: every
// grapheme occupies one or two cells, depending on its East Asian width.
// If em is zero, the width of a cell will be taken from the font given in the
// shaping parameters (see CellWidth).
// If context is nil, a Latin context is used to resolve ambiguous widths.
func Shaper(em fixed.Int26_6, context *uax11.Context) glyphing.Shaper {
	sh := &msshape{
		em:      em,
		context: context,
	}
	if sh.context == nil {
		sh.context = uax11.LatinContext
	}
	onGraphemes := grapheme.NewBreaker(1)
	sh.graphemeSplitter = segment.NewSegmenter(onGraphemes)
	grapheme.SetupGraphemeClasses()
	return sh
}

// CellWidth returns the width of a monospace cell for a typecase. As with the
// CSS 'ch' unit, this is the advance of the digit zero.
func CellWidth(tc *font.TypeCase) (fixed.Int26_6, error) {
	sf := tc.ScalableFontParent().SFNT
	var b sfnt.Buffer
	gid, err := sf.GlyphIndex(&b, '0')
	if err != nil || gid == 0 {
		return 0, core.WrapError(err, core.ECOLLABORATOR, "font has no glyph for '0' to derive cell width from")
	}
	adv, err := sf.GlyphAdvance(&b, gid, tc.PPEM(), xfont.HintingNone)
	if err != nil {
		return 0, core.WrapError(err, core.ECOLLABORATOR, "cannot read advance of '0'")
	}
	return adv, nil
}

// Shape creates a glyph sequence from a text.
// Each grapheme is represented by the glyph of its first code-point. Code-points
// without a glyph in the font are represented by glyph 0 ('.notdef').
func (ms *msshape) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, ctx [][]rune, p glyphing.Params) (glyphing.GlyphSequence, error) {
	if text == nil {
		return glyphing.GlyphSequence{}, nil
	}
	em := ms.em
	if em == 0 {
		if p.Font == nil {
			return glyphing.GlyphSequence{}, core.Error(core.ECOLLABORATOR,
				"monospace shaper needs either a cell width or a font")
		}
		var err error
		if em, err = CellWidth(p.Font); err != nil {
			return glyphing.GlyphSequence{}, err
		}
	}
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	if seq.Glyphs == nil {
		seq.Glyphs = make([]glyphing.ShapedGlyph, 0, 64)
	}
	ms.graphemeSplitter.Init(text)
	i := 0
	for ms.graphemeSplitter.Next() {
		grphm := ms.graphemeSplitter.Bytes()
		w := uax11.Width(grphm, ms.context)
		codepoint, _ := utf8.DecodeRune(grphm)
		g := glyphing.ShapedGlyph{
			XAdvance:  fixed.Int26_6(w) * em,
			ClusterID: i,
			CodePoint: codepoint,
			GID:       ms.glyphIndex(p.Font, codepoint),
		}
		seq.Glyphs = append(seq.Glyphs, g)
		i += utf8.RuneCount(grphm)
	}
	tracer().Debugf("monospace shaper produced %d glyphs, cell width = %v", len(seq.Glyphs), em)
	return seq, nil
}

func (ms *msshape) glyphIndex(tc *font.TypeCase, r rune) sfnt.GlyphIndex {
	if tc == nil {
		return 0
	}
	gid, err := tc.ScalableFontParent().SFNT.GlyphIndex(&ms.sfntBuf, r)
	if err != nil {
		return 0
	}
	return gid
}
