package font

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/dimen"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

type FontTestSuite struct {
	suite.Suite
	teardown func()
}

func TestFonts(t *testing.T) {
	s := new(FontTestSuite)
	s.teardown = gotestingadapter.QuickConfig(t, "textraster.fonts")
	defer s.teardown()
	suite.Run(t, s)
}

func (s *FontTestSuite) TestNormalizeFont() {
	s.Equal("clarendon-bold", NormalizeFontname("fonts/Clarendon-bold.ttf"))
	s.Equal("gill_sans_mt", NormalizeFontname(" Gill Sans MT "))
	s.Equal("cambria_math", NormalizeFontname(`C:\Fonts\Cambria Math.ttf`))
}

func (s *FontTestSuite) TestFallbackFont() {
	f := FallbackFont()
	s.Require().NotNil(f)
	s.Equal("Go Sans", f.Fontname)
	s.Equal(2048, f.UnitsPerEm())
	s.Same(f, FallbackFont(), "fallback font should be loaded once")
}

func (s *FontTestSuite) TestTypeCase() {
	tc, err := FallbackFont().PrepareCase(40, 72)
	s.Require().NoError(err)
	s.Equal(fixed.I(40), tc.PPEM())
	s.Equal(40.0, tc.PtSize())
	s.Equal(72.0, tc.DPI())
	s.Equal(fixed.I(20), tc.Scale(dimen.DU(1024)))
	m := tc.Metrics()
	s.Greater(int(m.Ascent), 0, "expected positive ascent")
	s.Greater(int(m.Descent), 0, "expected positive descent")
	s.NoError(tc.Close())
	s.NoError(tc.Close(), "second close should be a no-op")
	s.Equal(fixed.Int26_6(0), tc.Metrics().Ascent)
}

func (s *FontTestSuite) TestInvalidSize() {
	_, err := FallbackFont().PrepareCase(0, 72)
	s.Equal(core.EINVALID, core.Code(err))
	_, err = FallbackFont().PrepareCase(12, -1)
	s.Equal(core.EINVALID, core.Code(err))
}

func (s *FontTestSuite) TestLoadFontFile() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "goregular.ttf")
	s.Require().NoError(os.WriteFile(path, goregular.TTF, 0644))
	f, err := LoadOpenTypeFont(path)
	s.Require().NoError(err)
	s.Equal(path, f.Filepath)
	s.NotEmpty(f.Fontname)
	//
	_, err = LoadOpenTypeFont(filepath.Join(dir, "does-not-exist.ttf"))
	s.Equal(core.EMISSING, core.Code(err))
	//
	garbage := filepath.Join(dir, "garbage.ttf")
	s.Require().NoError(os.WriteFile(garbage, []byte("no font at all"), 0644))
	_, err = LoadOpenTypeFont(garbage)
	s.Equal(core.EINIT, core.Code(err))
}
