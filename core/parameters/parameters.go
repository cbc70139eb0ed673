/*
Package parameters holds the registers for rendering parameters.

Parameters have defaults which reproduce the classic setup of the renderer:
an Arabic verse, set in 40pt at 72 dpi, shaped with HarfBuzz on a
left-to-right paragraph with mirroring enabled. Clients override the
defaults either with Push or by loading a configuration.

Registers support grouping, i.e. parameters pushed within a group are
restored to their previous values as soon as the group ends.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/textraster/core"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// RenderParameter is a key for a rendering register.
type RenderParameter int

const (
	none RenderParameter = iota
	P_TEXT
	P_FONTSIZE
	P_DPI
	P_TEXTDIRECTION
	P_SCRIPT
	P_LANGUAGE
	P_SHAPER
	P_MIRRORING
	P_FORMAT
	P_ADVANCE
	P_STOPPER
)

var parameterNames = [...]string{
	"none", "text", "fontsize", "dpi", "direction", "script", "language",
	"shaper", "mirroring", "format", "advance", "stopper",
}

func (p RenderParameter) String() string {
	if p < none || p > P_STOPPER {
		return "RenderParameter(" + strconv.Itoa(int(p)) + ")"
	}
	return parameterNames[p]
}

// ConfigKey returns the configuration key a parameter is loaded from.
func (p RenderParameter) ConfigKey() string {
	return p.String()
}

// DefaultText is the text rendered if no text is configured.
const DefaultText = "قد ماتَ قـومٌ ومَا مَاتَتْ مـكـارِمُهم        وعَاشَ قومٌ وهُم فِي النَّاس ِأمْواتُ"

// Shapers and output formats
const (
	ShaperHarfbuzz  = "harfbuzz"
	ShaperMonospace = "monospace"
	FormatPGM       = "pgm"
	FormatPNG       = "png"
)

// Sources of glyph advances
const (
	AdvanceShaper     = "shaper"     // advances as positioned by the shaper
	AdvanceRasterizer = "rasterizer" // advances as reported by the font for single glyphs
)

type ParameterGroup struct {
	params map[RenderParameter]interface{}
	level  int
	next   *ParameterGroup
}

// RenderRegisters holds the rendering parameters.
type RenderRegisters struct {
	base       [P_STOPPER]interface{}
	groups     *ParameterGroup
	grouplevel int
}

// ----------------------------------------------------------------------

// NewRenderRegisters creates a set of registers, initialized to defaults.
func NewRenderRegisters() *RenderRegisters {
	regs := &RenderRegisters{}
	initParameters(&regs.base)
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_TEXT] = DefaultText               // a string
	p[P_FONTSIZE] = 40.0                  // points (float64)
	p[P_DPI] = 72.0                       // dots per inch (float64)
	p[P_TEXTDIRECTION] = bidi.LeftToRight // paragraph base direction
	p[P_SCRIPT] = "Arab"                  // ISO 15924
	p[P_LANGUAGE] = "ar"                  // BCP 47
	p[P_SHAPER] = ShaperHarfbuzz          //
	p[P_MIRRORING] = true                 // mirror brackets in RTL runs
	p[P_FORMAT] = FormatPGM               //
	p[P_ADVANCE] = AdvanceShaper          // source of pen advances
}

func (regs *RenderRegisters) Begingroup() {
	regs.grouplevel++
}

func (regs *RenderRegisters) Endgroup() {
	if regs.grouplevel > 0 {
		if regs.groups != nil && regs.groups.level == regs.grouplevel {
			regs.groups = regs.groups.next
		}
		regs.grouplevel--
	}
}

func (regs *RenderRegisters) Push(key RenderParameter, value interface{}) {
	if regs.grouplevel > 0 {
		var g *ParameterGroup
		if regs.groups == nil || regs.groups.level < regs.grouplevel {
			g = &ParameterGroup{}
			g.params = make(map[RenderParameter]interface{})
			g.level = regs.grouplevel
			g.next = regs.groups
			regs.groups = g
		} else {
			g = regs.groups
		}
		g.params[key] = value
	} else {
		regs.base[key] = value
	}
}

func (regs *RenderRegisters) Get(key RenderParameter) interface{} {
	if key <= 0 || key >= P_STOPPER {
		panic("parameter key outside range of render parameters")
	}
	var value interface{}
	if regs.grouplevel > 0 {
		for g := regs.groups; g != nil; g = g.next {
			value = g.params[key]
			if value != nil {
				break
			}
		}
	}
	if value == nil {
		value = regs.base[key]
	}
	return value
}

func (regs *RenderRegisters) S(key RenderParameter) string {
	return regs.Get(key).(string)
}

func (regs *RenderRegisters) F(key RenderParameter) float64 {
	return regs.Get(key).(float64)
}

func (regs *RenderRegisters) B(key RenderParameter) bool {
	return regs.Get(key).(bool)
}

// Direction returns the base paragraph direction.
func (regs *RenderRegisters) Direction() bidi.Direction {
	return regs.Get(P_TEXTDIRECTION).(bidi.Direction)
}

// Script returns the script register as an ISO 15924 script.
// The value has been validated when it was loaded.
func (regs *RenderRegisters) Script() language.Script {
	s, err := language.ParseScript(regs.S(P_SCRIPT))
	if err != nil {
		return language.Script{}
	}
	return s
}

// Language returns the language register as a BCP 47 tag.
func (regs *RenderRegisters) Language() language.Tag {
	l, err := language.Parse(regs.S(P_LANGUAGE))
	if err != nil {
		return language.Und
	}
	return l
}

// --- Loading from configuration --------------------------------------------

// Load reads the parameters set in conf and stores them into the base
// registers. Keys not set in conf keep their values. Every value is validated;
// the first invalid value results in an EINVALID error and leaves the
// registers unchanged.
func (regs *RenderRegisters) Load(conf schuko.Configuration) error {
	if conf == nil {
		return nil
	}
	loaded := make(map[RenderParameter]interface{})
	for p := P_TEXT; p < P_STOPPER; p++ {
		key := p.ConfigKey()
		if !conf.IsSet(key) {
			continue
		}
		v, err := parse(p, conf, key)
		if err != nil {
			return err
		}
		loaded[p] = v
	}
	for p, v := range loaded {
		regs.base[p] = v
	}
	return nil
}

func parse(p RenderParameter, conf schuko.Configuration, key string) (interface{}, error) {
	s := strings.TrimSpace(conf.GetString(key))
	switch p {
	case P_TEXT:
		return conf.GetString(key), nil
	case P_FONTSIZE, P_DPI:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f <= 0 {
			return nil, invalid(p, s, "a positive number")
		}
		return f, nil
	case P_TEXTDIRECTION:
		switch strings.ToLower(s) {
		case "ltr", "lefttoright":
			return bidi.LeftToRight, nil
		case "rtl", "righttoleft":
			return bidi.RightToLeft, nil
		}
		return nil, invalid(p, s, "ltr or rtl")
	case P_SCRIPT:
		if _, err := language.ParseScript(s); err != nil {
			return nil, invalid(p, s, "an ISO 15924 script code")
		}
		return s, nil
	case P_LANGUAGE:
		if _, err := language.Parse(s); err != nil {
			return nil, invalid(p, s, "a BCP 47 language tag")
		}
		return s, nil
	case P_SHAPER:
		s = strings.ToLower(s)
		if s != ShaperHarfbuzz && s != ShaperMonospace {
			return nil, invalid(p, s, ShaperHarfbuzz+" or "+ShaperMonospace)
		}
		return s, nil
	case P_MIRRORING:
		switch strings.ToLower(s) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
		return nil, invalid(p, s, "a boolean")
	case P_FORMAT:
		s = strings.ToLower(s)
		if s != FormatPGM && s != FormatPNG {
			return nil, invalid(p, s, FormatPGM+" or "+FormatPNG)
		}
		return s, nil
	case P_ADVANCE:
		s = strings.ToLower(s)
		if s != AdvanceShaper && s != AdvanceRasterizer {
			return nil, invalid(p, s, AdvanceShaper+" or "+AdvanceRasterizer)
		}
		return s, nil
	}
	return nil, core.Error(core.EINTERNAL, "unknown render parameter %d", p)
}

func invalid(p RenderParameter, value string, expected string) error {
	e := fmt.Errorf("parameter %s = %q", p, value)
	return core.WrapError(e, core.EINVALID, "invalid value for %s: expected %s", p, expected)
}
