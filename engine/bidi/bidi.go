/*
Package bidi reorders bidirectional text from logical to visual order.

Embedding levels, reordering of resolved levels and mirroring follow the
Unicode Bidirectional Algorithm as implemented by
github.com/benoitkugler/textlayout/fribidi. Arabic presentation forms are not
applied: shaping is left to the shaper, which receives plain code points.

The base direction of a paragraph is set explicitly, never detected from the
text. Text containing paragraph separators is reordered paragraph by
paragraph; separators stay in place.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bidi

import (
	"strings"
	"unicode/utf8"

	"github.com/benoitkugler/textlayout/fribidi"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/engine/glyphing"
)

// tracer traces with key 'textraster.bidi'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.bidi")
}

// Reorderer converts text from logical order to visual order, relative to a
// paragraph base direction.
type Reorderer interface {
	Reorder(text string, base glyphing.Direction) (string, error)
}

// Reordering is a Reorderer backed by fribidi.
type Reordering struct {
	flags fribidi.Options
}

var _ Reorderer = Reordering{}

// New creates a reorderer. If mirroring is set, characters with a
// Bidi_Mirrored counterpart (brackets, angle quotes, relations, …) are
// replaced by it when they end up in a right-to-left run.
//
// Non-spacing marks of right-to-left runs are kept behind their base
// character, as the visual string is shaped left to right.
func New(mirroring bool) Reordering {
	flags := fribidi.DefaultFlags &^ (fribidi.ShapeArabPres | fribidi.ShapeArabLiga)
	if !mirroring {
		flags &^= fribidi.ShapeMirroring
	}
	return Reordering{flags: flags}
}

// Reorder returns text in visual order, i.e. the order in which characters
// appear from left to right.
//
// base must be glyphing.LeftToRight or glyphing.RightToLeft. Text which is
// not valid UTF-8 is rejected with an ECOLLABORATOR error.
func (bd Reordering) Reorder(text string, base glyphing.Direction) (string, error) {
	if !utf8.ValidString(text) {
		return "", core.Error(core.ECOLLABORATOR, "cannot reorder text: invalid UTF-8")
	}
	var pbase fribidi.ParType
	switch base {
	case glyphing.LeftToRight:
		pbase = fribidi.LTR
	case glyphing.RightToLeft:
		pbase = fribidi.RTL
	default:
		return "", core.Error(core.ECOLLABORATOR, "cannot reorder text for base direction %s", base)
	}
	var out strings.Builder
	out.Grow(len(text))
	para := make([]rune, 0, len(text))
	for _, r := range text {
		if fribidi.GetBidiType(r) == fribidi.BS {
			bd.reorderParagraph(&out, para, pbase)
			out.WriteRune(r)
			para = para[:0]
			continue
		}
		para = append(para, r)
	}
	bd.reorderParagraph(&out, para, pbase)
	visual := out.String()
	tracer().Debugf("reordered %d bytes of text, base direction %s", len(visual), base)
	return visual, nil
}

func (bd Reordering) reorderParagraph(out *strings.Builder, para []rune, base fribidi.ParType) {
	if len(para) == 0 {
		return
	}
	vis, _ := fribidi.LogicalToVisual(bd.flags, para, &base)
	for _, r := range vis.Str {
		out.WriteRune(r)
	}
}
