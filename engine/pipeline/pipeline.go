/*
Package pipeline drives text through all the steps from logical order to a
serialized image.

A run passes the stages RawText → Reordered → Shaped → Measured → Composited
→ Serialized, strictly in this order and without retries. The first failing
step aborts the run with an error naming the stage which could not be
reached. Output is written only after the canvas has been completely
composited.

Collaborators are plugged in as interfaces: a bidi.Reorderer, a
glyphing.Shaper and a raster.Rasterizer. A Session acquires concrete
collaborators for a font and a set of render parameters.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pipeline

import (
	"errors"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textraster/backend/pgm"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/parameters"
	"github.com/npillmayer/textraster/engine/bidi"
	"github.com/npillmayer/textraster/engine/glyphing"
	"github.com/npillmayer/textraster/engine/raster"
)

// tracer traces with key 'textraster.pipeline'.
func tracer() tracing.Trace {
	return tracing.Select("textraster.pipeline")
}

// Pipeline renders text with a fixed set of collaborators. Pipelines are
// not safe for concurrent use.
type Pipeline struct {
	Reorderer  bidi.Reorderer
	Shaper     glyphing.Shaper
	Rasterizer raster.Rasterizer
	Base       glyphing.Direction // base direction of paragraphs
	Params     glyphing.Params    // font, script and language for shaping
	Format     string             // parameters.FormatPGM or parameters.FormatPNG
	Options    []raster.Option    // options for measuring and compositing
}

// Run renders text and writes the image to out. It returns the last stage
// reached, which is Serialized if and only if the error is nil.
func (p *Pipeline) Run(text string, out io.Writer) (Stage, error) {
	c, reached, err := p.render(text)
	if err != nil {
		return reached, err
	}
	defer c.Release()
	if err = p.serialize(out, c); err != nil {
		return reached, failed(Serialized, err, core.EINTERNAL)
	}
	tracer().Infof("pipeline reached stage %s", Serialized)
	return Serialized, nil
}

// Render renders text onto a canvas, stopping after stage Composited.
// Clients should release the canvas after use.
func (p *Pipeline) Render(text string) (*raster.Canvas, error) {
	c, _, err := p.render(text)
	return c, err
}

func (p *Pipeline) render(text string) (*raster.Canvas, Stage, error) {
	if p.Reorderer == nil || p.Shaper == nil || p.Rasterizer == nil {
		return nil, RawText, core.Error(core.EINIT, "pipeline is missing a collaborator")
	}
	reached := RawText
	visual, err := p.Reorderer.Reorder(text, p.Base)
	if err != nil {
		return nil, reached, failed(Reordered, err, core.ECOLLABORATOR)
	}
	reached = Reordered
	tracer().Debugf("visual order: %q", visual)
	// visual order has to be shaped left to right
	params := p.Params
	params.Direction = glyphing.LeftToRight
	run, err := p.Shaper.Shape(strings.NewReader(visual), nil, nil, params)
	if err != nil {
		return nil, reached, failed(Shaped, err, core.ECOLLABORATOR)
	}
	reached = Shaped
	tracer().Debugf("shaped %d glyphs, advance = %v", run.Len(), run.Advance())
	ext, err := raster.Measure(run, p.Rasterizer, p.Options...)
	if err != nil {
		return nil, reached, failed(Measured, err, core.EINTERNAL)
	}
	reached = Measured
	tracer().Infof("%v", ext)
	c, err := raster.CanvasFor(ext)
	if err != nil {
		return nil, reached, failed(Composited, err, core.EINTERNAL)
	}
	if err = raster.Composite(c, run, p.Rasterizer, ext, p.Options...); err != nil {
		c.Release()
		return nil, reached, failed(Composited, err, core.EINTERNAL)
	}
	return c, Composited, nil
}

func (p *Pipeline) serialize(out io.Writer, c *raster.Canvas) error {
	switch p.Format {
	case parameters.FormatPNG:
		return pgm.WritePNG(out, c)
	case parameters.FormatPGM, "":
		return pgm.Write(out, c)
	}
	return core.Error(core.EINVALID, "unknown output format %q", p.Format)
}

// failed wraps err with a message naming the stage which could not be
// reached. Errors without a code get code.
func failed(st Stage, err error, code int) error {
	var appErr core.AppError
	if errors.As(err, &appErr) {
		code = appErr.ErrorCode()
	}
	tracer().Errorf("cannot reach stage %s: %v", st, err)
	return core.WrapError(err, code, "cannot reach stage %s: %s", st, core.UserMessage(err))
}
