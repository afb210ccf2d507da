package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnel/pkg/io"
	"github.com/matzehuels/funnel/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file (single format) or base path (multiple)
	formats    string // comma-separated output formats
	width      float64
	height     float64
	align      string // overrides the document's align
	scale      float64
	font       string // TrueType/OpenType font for PNG labels
	fontSize   float64
	background string
	title      string
	commands   bool // include draw commands in JSON output
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command for generating chart artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		width:    pipeline.DefaultWidth,
		height:   pipeline.DefaultHeight,
		scale:    pipeline.DefaultScale,
		fontSize: pipeline.DefaultFontSize,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a funnel document to SVG, PNG or JSON",
		Long: `Render lays out a JSON or TOML funnel document for the given container
size and writes one file per format. Outputs are cached by document content
and options; use --refresh to force a re-render.`,
		Example: `  funnel render sales.json
  funnel render sales.toml -f svg,png --width 1200 --height 800
  funnel render sales.json -f png --font /usr/share/fonts/TTF/DejaVuSans.ttf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	f.Float64Var(&opts.width, "width", opts.width, "container width")
	f.Float64Var(&opts.height, "height", opts.height, "container height")
	f.StringVar(&opts.align, "align", "", "override alignment: center, left")
	f.Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel density")
	f.StringVar(&opts.font, "font", "", "font file for PNG labels")
	f.Float64Var(&opts.fontSize, "font-size", opts.fontSize, "label size in points")
	f.StringVar(&opts.background, "background", "", "background colour (#rrggbb)")
	f.StringVar(&opts.title, "title", "", "SVG title")
	f.BoolVar(&opts.commands, "commands", false, "include draw commands in JSON output")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	doc, err := io.Import(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d segments", input, len(doc.Segments))

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Width:      opts.width,
		Height:     opts.height,
		Align:      opts.align,
		Formats:    parseFormats(opts.formats),
		Scale:      opts.scale,
		Font:       opts.font,
		FontSize:   opts.fontSize,
		Background: opts.background,
		Title:      opts.title,
		Commands:   opts.commands,
		Refresh:    opts.refresh,
		Logger:     logger,
	}
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", filepath.Base(input)))
	spin.Start()
	result, err := runner.Execute(ctx, doc, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(result.Artifacts)))

	paths := outputPaths(opts.output, input, popts.Formats)
	for _, format := range popts.Formats {
		path := paths[format]
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Segments, result.Stats.Misconfigured, result.CacheHit)
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	if result.Stats.Misconfigured > 0 {
		printWarning("%d segment(s) have sections summing to zero", result.Stats.Misconfigured)
	}
	printNextStep("Preview in the terminal", appName+" inspect "+input)
	return nil
}

// outputPaths maps each format to its output file. A single format writes to
// output verbatim; otherwise output (or the input without its extension) is
// used as a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// convertCommand converts a document between JSON and TOML.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a funnel document between JSON and TOML",
		Example: `  funnel convert sales.json sales.toml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := io.Import(args[0])
			if err != nil {
				return err
			}
			if err := io.Export(doc, args[1]); err != nil {
				return err
			}
			c.Logger.Debugf("Converted %d segments", len(doc.Segments))
			printSuccess("Converted %s", args[0])
			printFile(args[1])
			return nil
		},
	}
}
