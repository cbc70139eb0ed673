package harfbuzz_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	hb "github.com/benoitkugler/textlayout/harfbuzz"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textraster/core/font"
	"github.com/npillmayer/textraster/engine/glyphing"
	"github.com/npillmayer/textraster/engine/glyphing/harfbuzz"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

func TestHBScript(t *testing.T) {
	id := "Plrd"
	script := language.MustParseScript(id)
	hb_script := harfbuzz.Script4HB(script)
	hstr := fmt.Sprintf("%x", uint32(hb_script))
	if hstr != "706c7264" {
		t.Logf("script %q: %x => %x", id, script, uint32(hb_script))
		t.Errorf("expected HB script of 706c7264, is %s", hstr)
	}
}

func TestHBLang(t *testing.T) {
	l := "de_DE"
	langT, err := language.Parse(l)
	if err != nil {
		t.Error(err)
	}
	h := harfbuzz.Lang4HB(langT)
	if h != "de-de" {
		t.Logf("Go lang = %v", langT)
		t.Logf("HB lang = %v, expected de-de", h)
		t.Fail()
	}
}

func TestHBDir(t *testing.T) {
	var d glyphing.Direction = glyphing.TopToBottom
	dir := harfbuzz.Direction4HB(d)
	if dir != hb.TopToBottom {
		t.Errorf("expected dir to be %d, is %d", hb.TopToBottom, dir)
	}
}

func TestHBFeature(t *testing.T) {
	f := harfbuzz.FeatureRange4HB(glyphing.FeatureRange{
		Feature: glyphing.MakeTag("liga"),
		On:      true,
		Start:   2,
		End:     5,
	})
	if f.Value != 1 || f.Start != 2 || f.End != 5 {
		t.Errorf("unexpected feature conversion: %+v", f)
	}
}

func TestHBShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.glyphs")
	defer teardown()
	//
	input := "Hello"
	text := strings.NewReader(input)
	tc := loadGoFont(t, 12)
	params := glyphing.Params{
		Font: tc,
	}
	seq, err := harfbuzz.NewShaper().Shape(text, nil, nil, params)
	if err != nil {
		t.Error(err)
	}
	if seq.Glyphs == nil {
		t.Error("expected shaping output to be non-nil")
	}
	if len(seq.Glyphs) != len(input) {
		t.Errorf("expected %d output glyphs, have %d", len(input), len(seq.Glyphs))
	}
	for i, g := range seq.Glyphs {
		if g.XAdvance <= 0 {
			t.Errorf("expected glyph #%d to have a positive advance, is %v", i, g.XAdvance)
		}
		if g.ClusterID != i || g.CodePoint != rune(input[i]) {
			t.Errorf("expected glyph #%d to map to %q, maps to cluster %d/%q", i, input[i], g.ClusterID, g.CodePoint)
		}
	}
}

func TestHBShapeScalesToTypecase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.glyphs")
	defer teardown()
	//
	tc := loadGoFont(t, 40)
	seq, err := harfbuzz.NewShaper().Shape(strings.NewReader("H"), nil, nil, glyphing.Params{Font: tc})
	if err != nil || len(seq.Glyphs) != 1 {
		t.Fatalf("expected 1 glyph, have %d (err=%v)", len(seq.Glyphs), err)
	}
	sf := tc.ScalableFontParent().SFNT
	var b sfnt.Buffer
	gid, _ := sf.GlyphIndex(&b, 'H')
	if seq.Glyphs[0].GID != gid {
		t.Errorf("expected GID %d for 'H', have %d", gid, seq.Glyphs[0].GID)
	}
	adv, err := sf.GlyphAdvance(&b, gid, tc.PPEM(), xfont.HintingNone)
	if err != nil {
		t.Fatal(err)
	}
	if d := seq.Glyphs[0].XAdvance - adv; d < -1 || d > 1 {
		t.Errorf("expected advance of 'H' to be %v, is %v", adv, seq.Glyphs[0].XAdvance)
	}
}

func TestHBShapeEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.glyphs")
	defer teardown()
	//
	seq, err := harfbuzz.NewShaper().Shape(strings.NewReader(""), nil, nil, glyphing.Params{Font: loadGoFont(t, 12)})
	if err != nil {
		t.Error(err)
	}
	if seq.Len() != 0 || seq.Advance() != (fixed.Point26_6{}) {
		t.Errorf("expected empty output for empty input, have %d glyphs", seq.Len())
	}
}

func TestHBShapeWithContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textraster.glyphs")
	defer teardown()
	//
	ctx := [][]rune{[]rune("ab"), []rune("yz")}
	seq, err := harfbuzz.NewShaper().Shape(strings.NewReader("cd"), nil, ctx, glyphing.Params{Font: loadGoFont(t, 12)})
	if err != nil {
		t.Fatal(err)
	}
	if seq.Len() != 2 {
		t.Fatalf("expected context not to be shaped, have %d glyphs", seq.Len())
	}
	if seq.Glyphs[0].CodePoint != 'c' || seq.Glyphs[0].ClusterID != 0 {
		t.Errorf("expected first glyph to be 'c' at cluster 0, is %q at %d",
			seq.Glyphs[0].CodePoint, seq.Glyphs[0].ClusterID)
	}
}

// ---------------------------------------------------------------------------

func loadGoFont(t *testing.T, size float64) *font.TypeCase {
	typecase, err := font.FallbackFont().PrepareCase(size, 72)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { typecase.Close() })
	return typecase
}

// ---------------------------------------------------------------------------

func BenchmarkHBShape(b *testing.B) {
	typecase, _ := font.FallbackFont().PrepareCase(12.0, 72)
	defer typecase.Close()
	params := glyphing.Params{
		Font: typecase,
	}
	shaper := harfbuzz.NewShaper()
	for i := 0; i < b.N; i++ {
		for _, line := range corpus {
			runes := runeread{runes: line}
			seq, err := shaper.Shape(&runes, nil, nil, params)
			if err != nil || seq.Glyphs == nil {
				b.Fatal("expected shaping output to be non-nil")
			}
		}
	}
}

// runeread is a helper to wrap a `[]rune` into a cheap RuneReader.
type runeread struct {
	runes []rune
	pos   int
}

func (rr *runeread) ReadRune() (rune, int, error) {
	if rr.pos >= len(rr.runes) {
		return 0, 0, io.EOF
	}
	r := rr.runes[rr.pos]
	rr.pos++
	return r, 1, nil
}

var corpus = [][]rune{
	[]rune(`The quick brown fox jumps over the lazy dog.`),
	[]rune(`Pack my box with five dozen liquor jugs.`),
	[]rune(`قد ماتَ قـومٌ ومَا مَاتَتْ مـكـارِمُهم`),
	[]rune(`وعَاشَ قومٌ وهُم فِي النَّاس ِأمْواتُ`),
}
