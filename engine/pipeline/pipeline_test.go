package pipeline

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/engine/bidi"
	"github.com/npillmayer/textraster/engine/glyphing"
	"github.com/npillmayer/textraster/engine/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

type reorderFunc func(string, glyphing.Direction) (string, error)

func (f reorderFunc) Reorder(text string, base glyphing.Direction) (string, error) {
	return f(text, base)
}

// cellShaper shapes every rune into a 5 pixel cell; spaces get glyph 2,
// everything else glyph 1.
type cellShaper struct {
	err error
}

func (sh cellShaper) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, ctx [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if sh.err != nil {
		return glyphing.GlyphSequence{}, sh.err
	}
	seq := glyphing.GlyphSequence{}
	for i := 0; ; i++ {
		r, _, err := text.ReadRune()
		if err != nil {
			break
		}
		var gid sfnt.GlyphIndex = 1
		if r == ' ' {
			gid = 2
		}
		seq.Glyphs = append(seq.Glyphs, glyphing.ShapedGlyph{
			ClusterID: i,
			GID:       gid,
			XAdvance:  fixed.I(5),
			CodePoint: r,
		})
	}
	return seq, nil
}

// boxRasterizer renders glyph 1 as a full 4×6 box, 1 pixel below the baseline.
type boxRasterizer struct {
	err error
}

func (br boxRasterizer) RasterizeGlyph(gid sfnt.GlyphIndex, pen fixed.Point26_6) (raster.GlyphRaster, error) {
	if br.err != nil {
		return raster.GlyphRaster{}, br.err
	}
	if gid != 1 {
		return raster.GlyphRaster{Advance: fixed.P(5, 0)}, nil
	}
	cov := bytes.Repeat([]byte{255}, 4*6)
	return raster.GlyphRaster{
		Coverage: cov,
		Width:    4,
		Rows:     6,
		Left:     pen.X.Floor(),
		Top:      (pen.Y + fixed.I(5)).Ceil(),
		Bounds: fixed.Rectangle26_6{
			Min: pen.Add(fixed.P(0, -1)),
			Max: pen.Add(fixed.P(4, 5)),
		},
		Height:  fixed.I(6),
		Ascent:  fixed.I(5),
		Advance: fixed.P(5, 0),
	}, nil
}

func stubPipeline() *Pipeline {
	return &Pipeline{
		Reorderer:  bidi.New(true),
		Shaper:     cellShaper{},
		Rasterizer: boxRasterizer{},
		Base:       glyphing.LeftToRight,
	}
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "RawText", RawText.String())
	assert.Equal(t, "Serialized", Serialized.String())
	assert.Equal(t, "Stage(17)", Stage(17).String())
}

func TestRunWithStubs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.pipeline")
	defer teardown()
	//
	var out bytes.Buffer
	reached, err := stubPipeline().Run("ab c", &out)
	require.NoError(t, err)
	assert.Equal(t, Serialized, reached)
	lines := strings.Split(out.String(), "\n")
	require.Equal(t, "P2", lines[0])
	assert.Equal(t, "19 6", lines[1], "3 boxes, last one starting at 15")
	assert.Equal(t, "255", lines[2])
	assert.Len(t, lines, 3+6+1)
	assert.Equal(t, "255 255 255 255 0 255 255 255 255 0 0 0 0 0 0 255 255 255 255", lines[3])
}

func TestRunEmptyText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.pipeline")
	defer teardown()
	//
	var out bytes.Buffer
	reached, err := stubPipeline().Run("", &out)
	require.NoError(t, err)
	assert.Equal(t, Serialized, reached)
	assert.Equal(t, "P2\n0 0\n255\n", out.String())
	out.Reset()
	_, err = stubPipeline().Run("   ", &out)
	require.NoError(t, err)
	assert.Equal(t, "P2\n0 0\n255\n", out.String(), "spaces only should leave no ink")
}

func TestRunFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.pipeline")
	defer teardown()
	//
	broken := errors.New("broken")
	for i, tc := range []struct {
		modify  func(*Pipeline)
		reached Stage
		code    int
	}{
		{func(p *Pipeline) {
			p.Reorderer = reorderFunc(func(string, glyphing.Direction) (string, error) { return "", broken })
		}, RawText, core.ECOLLABORATOR},
		{func(p *Pipeline) { p.Shaper = cellShaper{err: broken} }, Reordered, core.ECOLLABORATOR},
		{func(p *Pipeline) { p.Rasterizer = boxRasterizer{err: broken} }, Shaped, core.EINTERNAL},
		{func(p *Pipeline) { p.Shaper = nil }, RawText, core.EINIT},
		{func(p *Pipeline) { p.Format = "tiff" }, Composited, core.EINVALID},
	} {
		p := stubPipeline()
		tc.modify(p)
		var out bytes.Buffer
		reached, err := p.Run("abc", &out)
		if assert.Error(t, err, "test #%d", i) {
			t.Logf("test #%d: %v", i, err)
		}
		assert.Equal(t, tc.reached, reached, "test #%d", i)
		assert.Equal(t, tc.code, core.Code(err), "test #%d", i)
		assert.Zero(t, out.Len(), "test #%d: nothing should be written", i)
	}
}

func TestRenderStopsAfterCompositing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.pipeline")
	defer teardown()
	//
	c, err := stubPipeline().Render("a")
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, 4, c.Width)
	assert.Equal(t, 6, c.Height)
	assert.Equal(t, byte(255), c.At(3, 5))
}
