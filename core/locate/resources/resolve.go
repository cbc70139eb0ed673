package resources

import (
	"fmt"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/font"
	"github.com/npillmayer/textraster/core/font/fontregistry"
)

// FallbackName is the font name which denotes the built-in fallback font.
const FallbackName = "fallback"

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	fontResourceType
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	e := fmt.Errorf("resource missing: %v", res)
	var s string
	switch rtype {
	case fontResourceType:
		s = fmt.Sprintf("font not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	err := core.WrapError(e, core.EMISSING, s)
	return err
}

// findSystemFont locates a font file in the system's font directories.
// It is a variable to let tests stub out the file system.
var findSystemFont = findfont.Find

// ResolveFont resolves a font resource. name may be
//
//   - the path of a font file,
//   - the name of a system font, e.g. "DejaVuSans" or "Arial.ttf",
//   - "fallback" for the built-in fallback font.
//
// Fonts are parsed once and kept in the global font registry.
// A font which cannot be located is reported as an EMISSING error; a font file
// which cannot be parsed results in an EINIT error.
func ResolveFont(name string) (*font.ScalableFont, error) {
	return resolveFont(name, fontregistry.GlobalRegistry())
}

func resolveFont(name string, registry *fontregistry.Registry) (*font.ScalableFont, error) {
	if name == "" {
		return nil, NotFound("<empty font name>", fontResourceType)
	}
	if name == FallbackName {
		tracer().Debugf("using fallback font")
		return font.FallbackFont(), nil
	}
	if registry.Contains(name) {
		return registry.Font(name)
	}
	var fpath string
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		fpath = name
	} else if p, err := findSystemFont(name); err == nil && p != "" {
		tracer().Debugf("%s is a system font", name)
		fpath = p
	}
	if fpath == "" {
		return nil, NotFound(name, fontResourceType)
	}
	tracer().Infof("loading font %s from %s", name, fpath)
	f, err := font.LoadOpenTypeFont(fpath)
	if err != nil {
		return nil, err
	}
	registry.StoreFont(name, f)
	return f, nil
}
