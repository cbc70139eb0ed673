package fontregistry

import (
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/font"
)

// Registry is a type for holding information about parsed fonts.
// Parsing a font file is the expensive part of setting up a rendering
// session; sessions for the same font share the parsed font, but never
// a typecase.
type Registry struct {
	sync.Mutex
	fonts map[string]*font.ScalableFont
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold parsed fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts: make(map[string]*font.ScalableFont),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(name string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	key := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[key]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, key)
		fr.fonts[key] = f
	}
}

// Font returns a font previously stored under name.
// If no such font is known, Font returns the fallback font, together with
// an EMISSING error.
func (fr *Registry) Font(name string) (*font.ScalableFont, error) {
	key := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[key]; ok {
		tracer().Debugf("registry found font %s", key)
		return f, nil
	}
	tracer().Infof("registry does not contain font %s", key)
	return font.FallbackFont(), core.Error(core.EMISSING, "font %s not found in registry", name)
}

// Contains is a predicate: has a font been stored under name?
func (fr *Registry) Contains(name string) bool {
	fr.Lock()
	defer fr.Unlock()
	_, ok := fr.fonts[font.NormalizeFontname(name)]
	return ok
}

// LogFontList is a helper function to dump the list of known fonts
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.fonts {
		tracer().Infof("font [%s] = %v", k, v.Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}
