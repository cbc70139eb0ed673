// Package dimen implements dimensions and units.
//
// Glyph geometry is handled in sub-pixel units, i.e. 26.6 fixed point numbers
// as defined by golang.org/x/image/math/fixed: 64 units make up one pixel.
// Shapers report positions in font design units, which have to be scaled to
// sub-pixel units with respect to a font's units-per-em and the pixel size
// of an em.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"fmt"

	"golang.org/x/image/math/fixed"
)

// UnitsPerPixel is the number of sub-pixel units per pixel.
const UnitsPerPixel = 64

// DU is a dimension in font design units.
type DU int32

// Stringer implementation.
func (du DU) String() string {
	return fmt.Sprintf("%ddu", int32(du))
}

// Scale converts design units to sub-pixel units for a font with a given
// units-per-em, set at ppem (sub-pixel units per em).
// For upem ≤ 0 no scaling takes place.
func (du DU) Scale(ppem fixed.Int26_6, upem int) fixed.Int26_6 {
	if upem <= 0 {
		return fixed.Int26_6(du)
	}
	v := int64(du) * int64(ppem)
	// round half away from zero
	if v < 0 {
		return fixed.Int26_6((v - int64(upem)/2) / int64(upem))
	}
	return fixed.Int26_6((v + int64(upem)/2) / int64(upem))
}

// PPEM returns the size of an em in sub-pixel units for a font size in
// points and a resolution in dots per inch.
func PPEM(ptsize, dpi float64) fixed.Int26_6 {
	return fixed.Int26_6(ptsize*dpi/72*UnitsPerPixel + 0.5)
}

// PixelSpan returns the number of pixels needed to cover the sub-pixel
// interval [lo,hi], i.e. ceil((hi-lo)/64). Empty or inverted intervals have
// a span of 0.
func PixelSpan(lo, hi fixed.Int26_6) int {
	if hi <= lo {
		return 0
	}
	return (hi - lo).Ceil()
}

// Min returns the smaller of two sub-pixel dimensions.
func Min(a, b fixed.Int26_6) fixed.Int26_6 {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two sub-pixel dimensions.
func Max(a, b fixed.Int26_6) fixed.Int26_6 {
	if a > b {
		return a
	}
	return b
}
