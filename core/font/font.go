/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size at a certain
resolution. The name is reminiscend on the wooden boxes of typesetters in
the aera of metal type.
An example is "Helvetica regular 40pt at 72 dpi".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

A typecase holds resources (a scaled face) and has to be closed by clients
after use.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/dimen"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'textraster.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.fonts")
}

// ScalableFont is a parsed font, independent of size.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container; sfnt.Font is safe for concurrent use
}

// LoadOpenTypeFont loads and parses a font file.
// A file which cannot be read results in an EMISSING error, a file which
// cannot be parsed as a font results in an EINIT error.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	if f.Fontname == "" {
		f.Fontname = fontfile
	}
	tracer().Debugf("loaded font %q from %s", f.Fontname, fontfile)
	return f, nil
}

// ParseOpenTypeFont parses font data in OpenType or TrueType format.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINIT, "cannot parse font data")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// UnitsPerEm returns the design units per em of the font.
func (sf *ScalableFont) UnitsPerEm() int {
	return int(sf.SFNT.UnitsPerEm())
}

// PrepareCase scales a font to a given point size at a given resolution.
// Size and resolution have to be positive, otherwise an EINVALID error is
// returned.
func (sf *ScalableFont) PrepareCase(fontsize, dpi float64) (*TypeCase, error) {
	if sf == nil || sf.SFNT == nil {
		return nil, core.Error(core.EINIT, "cannot prepare typecase from null font")
	}
	if fontsize <= 0 || dpi <= 0 {
		return nil, core.Error(core.EINVALID, "font size and resolution must be > 0, are %gpt and %gdpi",
			fontsize, dpi)
	}
	options := &opentype.FaceOptions{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: xfont.HintingNone,
	}
	face, err := opentype.NewFace(sf.SFNT, options)
	if err != nil {
		return nil, core.WrapError(err, core.EINIT, "cannot scale font %s to %gpt", sf.Fontname, fontsize)
	}
	typecase := &TypeCase{
		scalableFontParent: sf,
		face:               face,
		size:               fontsize,
		dpi:                dpi,
		ppem:               dimen.PPEM(fontsize, dpi),
	}
	tracer().Debugf("prepared typecase %s at %.2fpt/%gdpi, ppem = %v", sf.Fontname, fontsize, dpi, typecase.ppem)
	return typecase, nil
}

// TypeCase is a font at a given size and resolution.
type TypeCase struct {
	scalableFontParent *ScalableFont
	face               xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size               float64
	dpi                float64
	ppem               fixed.Int26_6
}

// ScalableFontParent returns the unscaled font for a typecase.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// PtSize returns the size of the typecase in points.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// DPI returns the resolution the typecase is set for.
func (tc *TypeCase) DPI() float64 {
	return tc.dpi
}

// PPEM returns the number of pixels per em, in sub-pixel units.
func (tc *TypeCase) PPEM() fixed.Int26_6 {
	return tc.ppem
}

// Scale converts font design units to sub-pixel units.
func (tc *TypeCase) Scale(du dimen.DU) fixed.Int26_6 {
	return du.Scale(tc.ppem, tc.scalableFontParent.UnitsPerEm())
}

// Metrics returns the scaled font-wide metrics (ascent, descent, …).
// A closed typecase returns zero metrics.
func (tc *TypeCase) Metrics() xfont.Metrics {
	if tc.face == nil {
		return xfont.Metrics{}
	}
	return tc.face.Metrics()
}

// Close releases the scaled face. Close may be called more than once.
func (tc *TypeCase) Close() error {
	if tc == nil || tc.face == nil {
		return nil
	}
	err := tc.face.Close()
	tc.face = nil
	tracer().Debugf("closed typecase %s at %.2fpt", tc.scalableFontParent.Fontname, tc.size)
	return err
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
// Currently we use Go Sans.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// NormalizeFontname creates a lookup key from a font name or a font file name.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	if slash := strings.LastIndexAny(fname, `/\`); slash >= 0 {
		fname = fname[slash+1:]
	}
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	return fname
}
