package pipeline

import (
	"github.com/npillmayer/textraster/backend/sfntraster"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/font"
	"github.com/npillmayer/textraster/core/locate/resources"
	"github.com/npillmayer/textraster/core/parameters"
	"github.com/npillmayer/textraster/engine/bidi"
	"github.com/npillmayer/textraster/engine/glyphing"
	"github.com/npillmayer/textraster/engine/glyphing/harfbuzz"
	"github.com/npillmayer/textraster/engine/glyphing/monospace"
	"github.com/npillmayer/textraster/engine/raster"
	xbidi "golang.org/x/text/unicode/bidi"
)

// Session holds the resources needed for rendering with a font: the font
// itself, a typecase at the configured size and the collaborators working
// on it. Sessions have to be closed after use.
type Session struct {
	Font     *font.ScalableFont
	Typecase *font.TypeCase
	pipeline *Pipeline
}

// Open resolves a font resource and prepares a session for it, configured
// by regs. fontResource is a file path, the name of a system font or
// "fallback". If regs is nil, default parameters are used.
func Open(fontResource string, regs *parameters.RenderRegisters) (*Session, error) {
	if regs == nil {
		regs = parameters.NewRenderRegisters()
	}
	f, err := resources.ResolveFont(fontResource)
	if err != nil {
		return nil, err
	}
	tc, err := f.PrepareCase(regs.F(parameters.P_FONTSIZE), regs.F(parameters.P_DPI))
	if err != nil {
		return nil, err
	}
	s := &Session{Font: f, Typecase: tc}
	rasterizer, err := sfntraster.New(tc)
	if err != nil {
		s.Close()
		return nil, err
	}
	var shaper glyphing.Shaper
	switch regs.S(parameters.P_SHAPER) {
	case parameters.ShaperMonospace:
		shaper = monospace.Shaper(0, nil)
	case parameters.ShaperHarfbuzz:
		shaper = harfbuzz.NewShaper()
	default:
		s.Close()
		return nil, core.Error(core.EINVALID, "unknown shaper %q", regs.S(parameters.P_SHAPER))
	}
	base := glyphing.LeftToRight
	if regs.Direction() == xbidi.RightToLeft {
		base = glyphing.RightToLeft
	}
	s.pipeline = &Pipeline{
		Reorderer:  bidi.New(regs.B(parameters.P_MIRRORING)),
		Shaper:     shaper,
		Rasterizer: rasterizer,
		Base:       base,
		Params: glyphing.Params{
			Font:     tc,
			Script:   regs.Script(),
			Language: regs.Language(),
		},
		Format: regs.S(parameters.P_FORMAT),
	}
	if regs.S(parameters.P_ADVANCE) == parameters.AdvanceRasterizer {
		s.pipeline.Options = append(s.pipeline.Options, raster.RasterAdvance())
	}
	tracer().Infof("opened session for font %s at %.2fpt", f.Fontname, tc.PtSize())
	return s, nil
}

// Pipeline returns the session's pipeline, or nil for a closed session.
func (s *Session) Pipeline() *Pipeline {
	return s.pipeline
}

// Close releases the session's resources. Close may be called more than once.
func (s *Session) Close() error {
	if s == nil || s.Typecase == nil {
		return nil
	}
	err := s.Typecase.Close()
	s.Typecase = nil
	s.pipeline = nil
	tracer().Debugf("closed session")
	return err
}
