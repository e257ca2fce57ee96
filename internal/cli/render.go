package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flamedump/flamedump/pkg/colorspace"
	"github.com/flamedump/flamedump/pkg/flame"
	"github.com/flamedump/flamedump/pkg/render"
	"github.com/flamedump/flamedump/pkg/spindump"
)

const (
	typeFlame    = "flame"    // flame graph blocks
	typeCalltree = "calltree" // graphviz call tree

	// defaultSeed keeps randomized palettes reproducible across runs.
	defaultSeed = 42
)

// renderOpts holds the command-line flags for the render command.
// Geometry and palette fall back to the config file when their flags are
// left unset.
type renderOpts struct {
	output        string   // output file path (or base path for multiple outputs)
	types         []string // visualization types: "flame", "calltree"
	formats       []string // output formats: "svg", "png", "obj", "json", "dot"
	width         float64  // total flame graph width in layout units
	sampleHeight  float64  // height of one stack row
	inverted      bool     // icicle orientation, root row on top
	background    string   // background fill ("#rrggbb"), transparent if empty
	thread        int      // thread index to render
	allThreads    bool     // render every thread in the report
	randomPalette bool     // replace the palette with a seeded random one
	seed          uint64   // seed for --random-palette

	// palette corner overrides ("#rrggbb"), config values if empty
	paletteLB, paletteLT, paletteRB, paletteRT string

	palette colorspace.Palette
}

// renderCommand creates the render command for generating artifacts from
// a spindump report.
//
// Default settings:
//   - type: flame
//   - format: svg
//   - thread: 0 (the spindump convention for the main thread)
//   - width: 5000 layout units, sample height: 16
func (c *CLI) renderCommand() *cobra.Command {
	var typesStr, formatsStr string
	opts := renderOpts{
		width:        flame.DefaultTotalWidth,
		sampleHeight: flame.DefaultSampleHeight,
		seed:         defaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "render [report]",
		Short: "Render a spindump report to flame graph artifacts",
		Long: `Render a spindump report to flame graph and call tree artifacts.

Formats depend on the visualization type: flame graphs support svg, png,
obj and json; call trees support dot, svg and png. Unsupported
combinations are skipped.

Examples:
  flamedump render heavy.txt                          # flame graph SVG of thread 0
  flamedump render heavy.txt -f svg,png,obj           # several formats at once
  flamedump render heavy.txt -t calltree -f dot       # graphviz source
  flamedump render heavy.txt --all-threads -f json    # one document, every thread`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.types = parseTypes(typesStr)
			opts.formats = parseFormats(formatsStr)
			if err := validateTypes(opts.types); err != nil {
				return err
			}
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if err := c.applyConfig(cmd, &opts); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single artifact) or base path (multiple)")
	cmd.Flags().StringVarP(&typesStr, "type", "t", "", "visualization type(s): flame (default), calltree (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, obj, json, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "flame graph width in layout units")
	cmd.Flags().Float64Var(&opts.sampleHeight, "sample-height", opts.sampleHeight, "height of one stack row")
	cmd.Flags().BoolVar(&opts.inverted, "inverted", false, "draw an icicle graph with the root row on top")
	cmd.Flags().StringVar(&opts.background, "background", "", "background fill color (#rrggbb), transparent if empty")
	cmd.Flags().IntVar(&opts.thread, "thread", 0, "thread index to render")
	cmd.Flags().BoolVar(&opts.allThreads, "all-threads", false, "render every thread in the report")
	cmd.Flags().BoolVar(&opts.randomPalette, "random-palette", false, "use a random palette instead of the configured one")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "seed for --random-palette")
	cmd.Flags().StringVar(&opts.paletteLB, "palette-left-bottom", "", "bottom-left palette corner (#rrggbb)")
	cmd.Flags().StringVar(&opts.paletteLT, "palette-left-top", "", "top-left palette corner (#rrggbb)")
	cmd.Flags().StringVar(&opts.paletteRB, "palette-right-bottom", "", "bottom-right palette corner (#rrggbb)")
	cmd.Flags().StringVar(&opts.paletteRT, "palette-right-top", "", "top-right palette corner (#rrggbb)")

	return cmd
}

// applyConfig fills option values the user did not set on the command
// line from the loaded config, then resolves the palette.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *renderOpts) error {
	flags := cmd.Flags()
	if !flags.Changed("width") && c.Config.Width > 0 {
		opts.width = c.Config.Width
	}
	if !flags.Changed("sample-height") && c.Config.SampleHeight > 0 {
		opts.sampleHeight = c.Config.SampleHeight
	}
	if !flags.Changed("inverted") && c.Config.Inverted {
		opts.inverted = true
	}
	if !flags.Changed("background") && c.Config.Background != "" {
		opts.background = c.Config.Background
	}

	pc := c.Config.Palette
	if opts.paletteLB != "" {
		pc.LeftBottom = opts.paletteLB
	}
	if opts.paletteLT != "" {
		pc.LeftTop = opts.paletteLT
	}
	if opts.paletteRB != "" {
		pc.RightBottom = opts.paletteRB
	}
	if opts.paletteRT != "" {
		pc.RightTop = opts.paletteRT
	}
	pal, err := pc.ColorPalette()
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	if opts.randomPalette {
		pal = colorspace.RandomPalette(newPaletteRNG(opts.seed))
	}
	opts.palette = pal
	return nil
}

// newPaletteRNG builds the deterministic generator behind
// --random-palette.
func newPaletteRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// parseTypes parses the --type flag into a slice of visualization types.
// If empty, defaults to ["flame"].
func parseTypes(s string) []string {
	if s == "" {
		return []string{typeFlame}
	}
	return strings.Split(s, ",")
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "obj": true, "json": true, "dot": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'obj', 'json', or 'dot')", f)
		}
	}
	return nil
}

// validateTypes checks that all requested visualization types are valid.
func validateTypes(types []string) error {
	for _, t := range types {
		if t != typeFlame && t != typeCalltree {
			return fmt.Errorf("invalid type: %s (must be 'flame' or 'calltree')", t)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
// This is used when generating multiple files (e.g., heavy_flame.svg, heavy_calltree.svg).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath builds the output file name for one artifact. The type is
// included when several types were requested, the thread index when
// several threads are rendered. Report-level artifacts pass thread -1.
func artifactPath(base, typ, format string, thread int, multiType, multiThread bool) string {
	name := base
	if multiType {
		name += "_" + typ
	}
	if multiThread && thread >= 0 {
		name += fmt.Sprintf("_thread%d", thread)
	}
	return name + "." + format
}

// errSkipFormat is a sentinel error indicating an unsupported format/visualization combination.
var errSkipFormat = fmt.Errorf("skip unsupported format")

// runRender loads the report, lays out the selected threads, and renders
// every requested type/format combination.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	rep, err := loadReport(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded report: %d threads", len(rep.Process.Threads))

	threads, layouts, err := layoutThreads(ctx, rep, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering artifacts...")
	spinner.Start()

	paths, err := renderAll(ctx, rep, threads, layouts, basePath(opts.output, input), opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	if spinner.Cancelled() {
		spinner.Stop()
		return ctx.Err()
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated %d artifact(s)", len(paths)))

	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// layoutThreads selects the threads to render and computes their flame
// layouts. With --all-threads, threads that cannot be laid out (no
// samples) are skipped with a warning; an explicitly requested thread
// must lay out.
func layoutThreads(ctx context.Context, rep *spindump.Report, opts *renderOpts) ([]int, []*flame.Layout, error) {
	logger := loggerFromContext(ctx)
	n := len(rep.Process.Threads)
	if n == 0 {
		return nil, nil, errors.New("report has no threads")
	}

	layoutOpts := flame.Options{TotalWidth: opts.width, SampleHeight: opts.sampleHeight}

	if !opts.allThreads {
		if opts.thread < 0 || opts.thread >= n {
			return nil, nil, fmt.Errorf("thread %d out of range (report has %d threads)", opts.thread, n)
		}
		l, err := flame.New(rep.Process.Threads[opts.thread], layoutOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("thread %d: %w", opts.thread, err)
		}
		return []int{opts.thread}, []*flame.Layout{l}, nil
	}

	var threads []int
	var layouts []*flame.Layout
	for i, t := range rep.Process.Threads {
		l, err := flame.New(t, layoutOpts)
		if err != nil {
			logger.Warnf("Skipping thread %d: %v", i, err)
			continue
		}
		threads = append(threads, i)
		layouts = append(layouts, l)
	}
	if len(threads) == 0 {
		return nil, nil, errors.New("no thread in the report can be laid out")
	}
	return threads, layouts, nil
}

// renderAll renders every type/format/thread combination and returns the
// written file paths. Unsupported combinations are skipped with a debug
// log.
func renderAll(ctx context.Context, rep *spindump.Report, threads []int, layouts []*flame.Layout, base string, opts *renderOpts) ([]string, error) {
	logger := loggerFromContext(ctx)

	multiThread := len(threads) > 1
	multiType := len(opts.types) > 1
	single := !multiType && len(opts.formats) == 1 && !multiThread

	var paths []string
	write := func(path string, data []byte) error {
		if err := writeArtifact(path, data); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", path, len(data))
		paths = append(paths, path)
		return nil
	}

	for _, typ := range opts.types {
		for _, format := range opts.formats {
			// The JSON document covers the whole report, not one thread.
			if format == "json" {
				if typ != typeFlame {
					logger.Debugf("Skipping %s/json (unsupported combination)", typ)
					continue
				}
				data, err := renderJSONDocument(rep, layouts, opts)
				if err != nil {
					return nil, fmt.Errorf("%s/json: %w", typ, err)
				}
				path := artifactPath(base, typ, format, -1, multiType, multiThread)
				if single && opts.output != "" {
					path = opts.output
				}
				if err := write(path, data); err != nil {
					return nil, err
				}
				continue
			}

			for i, th := range threads {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				path := artifactPath(base, typ, format, th, multiType, multiThread)
				if single && opts.output != "" {
					path = opts.output
				}

				if typ == typeFlame && format == "obj" {
					if err := renderOBJFiles(path, layouts[i], opts, write); err != nil {
						return nil, err
					}
					continue
				}

				data, err := renderThread(typ, format, layouts[i], rep.Process.Threads[th], opts)
				if errors.Is(err, errSkipFormat) {
					logger.Debugf("Skipping %s/%s (unsupported combination)", typ, format)
					break
				}
				if err != nil {
					return nil, fmt.Errorf("%s/%s thread %d: %w", typ, format, th, err)
				}
				if err := write(path, data); err != nil {
					return nil, err
				}
			}
		}
	}
	return paths, nil
}

// renderThread renders one thread in the requested type and format. It
// returns errSkipFormat for combinations that have no meaning, like a
// flame graph in DOT.
func renderThread(typ, format string, l *flame.Layout, t spindump.ThreadTrace, opts *renderOpts) ([]byte, error) {
	switch typ {
	case typeFlame:
		switch format {
		case "svg":
			return render.RenderSVG(l, flameSVGOptions(opts)...)
		case "png":
			return render.RenderPNG(l, flamePNGOptions(opts)...)
		case "dot":
			return nil, errSkipFormat
		default:
			return nil, fmt.Errorf("unknown format: %s", format)
		}
	case typeCalltree:
		switch format {
		case "dot":
			return []byte(render.ToDOT(t)), nil
		case "svg":
			return render.RenderDOTSVG(render.ToDOT(t))
		case "png":
			return render.RenderDOTPNG(render.ToDOT(t))
		case "obj", "json":
			return nil, errSkipFormat
		default:
			return nil, fmt.Errorf("unknown format: %s", format)
		}
	default:
		return nil, fmt.Errorf("unknown visualization type: %s", typ)
	}
}

// renderOBJFiles writes the OBJ geometry and its material library side by
// side, named after the OBJ path.
func renderOBJFiles(objPath string, l *flame.Layout, opts *renderOpts, write func(string, []byte) error) error {
	mtlPath := strings.TrimSuffix(objPath, ".obj") + ".mtl"

	art, err := render.RenderOBJ(l,
		render.WithOBJPalette(opts.palette),
		render.WithOBJMaterialLib(filepath.Base(mtlPath)),
	)
	if err != nil {
		return fmt.Errorf("flame/obj: %w", err)
	}
	if err := write(objPath, art.OBJ); err != nil {
		return err
	}
	return write(mtlPath, art.MTL)
}

// renderJSONDocument builds the report-level interchange document.
func renderJSONDocument(rep *spindump.Report, layouts []*flame.Layout, opts *renderOpts) ([]byte, error) {
	jsonOpts := []render.JSONOption{
		render.WithJSONPalette(opts.palette),
		render.WithJSONDocumentID(uuid.NewString()),
		render.WithJSONGeneratedAt(time.Now()),
	}
	if opts.randomPalette {
		jsonOpts = append(jsonOpts, render.WithJSONSeed(opts.seed))
	}
	return render.RenderJSON(rep, layouts, jsonOpts...)
}

func flameSVGOptions(opts *renderOpts) []render.SVGOption {
	result := []render.SVGOption{render.WithPalette(opts.palette)}
	if opts.inverted {
		result = append(result, render.WithInverted())
	}
	if opts.background != "" {
		result = append(result, render.WithBackground(opts.background))
	}
	return result
}

func flamePNGOptions(opts *renderOpts) []render.PNGOption {
	result := []render.PNGOption{render.WithPNGPalette(opts.palette)}
	if opts.inverted {
		result = append(result, render.WithPNGInverted())
	}
	if opts.background != "" {
		result = append(result, render.WithPNGBackground(opts.background))
	}
	return result
}

// writeArtifact writes one rendered artifact to path.
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.Write(data)
	return err
}
