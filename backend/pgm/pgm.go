/*
Package pgm serializes canvases as portable graymap images.

Write produces the plain ("P2") variant of the Netpbm PGM format: a header
with the canvas' size and a maxval of 255, followed by one text line of
decimal coverage values per pixel row, top row first. Output is deterministic
and not compressed.

WritePNG encodes the same canvas as an 8-bit gray-scale PNG.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pgm

import (
	"bufio"
	"image/png"
	"io"
	"strconv"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/engine/raster"
)

// tracer traces with key 'textraster.raster'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.raster")
}

// Maxval is the maximum gray value written to PGM headers.
const Maxval = 255

// Write serializes a canvas as a plain PGM image. A 0×0 canvas results in
// the header only.
func Write(w io.Writer, c *raster.Canvas) error {
	if c == nil {
		return core.Error(core.EINTERNAL, "cannot serialize nil canvas")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("P2\n")
	bw.WriteString(strconv.Itoa(c.Width))
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(c.Height))
	bw.WriteByte('\n')
	bw.WriteString(strconv.Itoa(Maxval))
	bw.WriteByte('\n')
	var num [3]byte
	for y := 0; y < c.Height; y++ {
		for x, v := range c.Row(y) {
			if x > 0 {
				bw.WriteByte(' ')
			}
			bw.Write(strconv.AppendUint(num[:0], uint64(v), 10))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write PGM image")
	}
	tracer().Debugf("wrote PGM image of %d×%d pixels", c.Width, c.Height)
	return nil
}

// WritePNG encodes a canvas as a gray-scale PNG image. PNG cannot represent
// empty images, so a 0×0 canvas is refused.
func WritePNG(w io.Writer, c *raster.Canvas) error {
	if c == nil {
		return core.Error(core.EINTERNAL, "cannot encode nil canvas")
	}
	if c.Width == 0 || c.Height == 0 {
		return core.Error(core.EINTERNAL, "cannot encode empty canvas as PNG")
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, c.Gray()); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write PNG image")
	}
	tracer().Debugf("wrote PNG image of %d×%d pixels", c.Width, c.Height)
	return nil
}
