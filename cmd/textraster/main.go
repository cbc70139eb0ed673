/*
Command textraster renders a line of text into a gray-scale image.

Usage:

	textraster [flags] <font>

The font is given as a file path, as the name of a font installed on the
system, or as "fallback" for the built-in Go Sans font. The image is written
to stdout, diagnostics go to stderr. Without flags, an Arabic verse is set
at 40pt and 72 dpi and written as a plain PGM image.

On failure, textraster exits with a negative status which tells the class
of error: −1 for usage errors, −2 if the font could not be set up, −3 for a
missing font, −4 for failures to reorder or shape the text, −5 for invalid
parameters and −6 for internal errors.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"bufio"
	"errors"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/textraster/core"
	"github.com/npillmayer/textraster/core/parameters"
	"github.com/npillmayer/textraster/engine/pipeline"
	"github.com/pterm/pterm"
)

// tracer traces with key 'textraster.pipeline'
func tracer() tracing.Trace {
	return tracing.Select("textraster.pipeline")
}

var tracerKeys = []string{
	"textraster.fonts",
	"textraster.glyphs",
	"textraster.bidi",
	"textraster.raster",
	"textraster.pipeline",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the exit status.
func run(args []string, stdout io.Writer, stderr io.Writer) int {
	pterm.SetDefaultOutput(stderr)
	err := render(args, stdout, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		pterm.Error.Println(core.UserError(err))
		tracer().Debugf("%v", err)
	}
	return core.ExitStatus(err)
}

func render(args []string, stdout io.Writer, stderr io.Writer) error {
	fs := flag.NewFlagSet("textraster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		io.WriteString(stderr, "Usage: textraster [flags] <font>\n")
		fs.PrintDefaults()
	}
	options := []struct {
		name  string
		param parameters.RenderParameter
		value string
		usage string
	}{
		{"text", parameters.P_TEXT, parameters.DefaultText, "Text to render, in logical order"},
		{"dir", parameters.P_TEXTDIRECTION, "ltr", "Base direction of paragraphs [ltr|rtl]"},
		{"script", parameters.P_SCRIPT, "Arab", "Script of the text (ISO 15924)"},
		{"lang", parameters.P_LANGUAGE, "ar", "Language of the text (BCP 47)"},
		{"size", parameters.P_FONTSIZE, "40", "Font size in points"},
		{"dpi", parameters.P_DPI, "72", "Resolution in dots per inch"},
		{"shaper", parameters.P_SHAPER, parameters.ShaperHarfbuzz, "Shaper to use [harfbuzz|monospace]"},
		{"format", parameters.P_FORMAT, parameters.FormatPGM, "Output format [pgm|png]"},
		{"advance", parameters.P_ADVANCE, parameters.AdvanceShaper, "Source of glyph advances [shaper|rasterizer]"},
	}
	values := make(map[string]*string, len(options))
	params := make(map[string]parameters.RenderParameter, len(options)+1)
	for _, opt := range options {
		values[opt.name] = fs.String(opt.name, opt.value, opt.usage)
		params[opt.name] = opt.param
	}
	mirror := fs.Bool("mirror", true, "Mirror brackets within right-to-left runs")
	params["mirror"] = parameters.P_MIRRORING
	tlevel := fs.String("trace", "Error", "Trace level [Debug|Info|Error]")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return core.WrapError(err, core.EUSAGE, "cannot parse command line")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return core.Error(core.EUSAGE, "expected exactly one font argument, have %d", fs.NArg())
	}
	if err := setupTracing(*tlevel); err != nil {
		return err
	}
	// only flags given explicitly override the registers' defaults
	conf := testconfig.Conf{}
	fs.Visit(func(f *flag.Flag) {
		p, ok := params[f.Name]
		if !ok {
			return
		}
		if f.Name == "mirror" {
			conf[p.ConfigKey()] = strconv.FormatBool(*mirror)
			return
		}
		conf[p.ConfigKey()] = *values[f.Name]
	})
	regs := parameters.NewRenderRegisters()
	if err := regs.Load(conf); err != nil {
		return err
	}
	session, err := pipeline.Open(fs.Arg(0), regs)
	if err != nil {
		return err
	}
	defer session.Close()
	out := bufio.NewWriter(stdout)
	reached, err := session.Pipeline().Run(regs.S(parameters.P_TEXT), out)
	if err != nil {
		return err
	}
	if err = out.Flush(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write image")
	}
	tracer().Infof("done, reached stage %s", reached)
	return nil
}

func setupTracing(level string) error {
	switch strings.ToLower(level) {
	case "error", "info", "debug":
	default:
		return core.Error(core.EUSAGE, "unknown trace level %q", level)
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.root":      level,
	}
	for _, key := range tracerKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return core.WrapError(err, core.EINIT, "cannot configure tracing")
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
