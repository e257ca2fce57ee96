package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/flamedump/flamedump/pkg/colorspace"
	"github.com/flamedump/flamedump/pkg/flame"
	"github.com/flamedump/flamedump/pkg/spindump"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	palette     colorspace.Palette
	id          string
	generatedAt time.Time
	seed        uint64
	randomized  bool
}

// WithJSONPalette replaces the default four-corner palette.
func WithJSONPalette(p colorspace.Palette) JSONOption {
	return func(r *jsonRenderer) { r.palette = p }
}

// WithJSONDocumentID stamps the output with a caller-chosen identifier,
// typically a UUID per rendered artifact.
func WithJSONDocumentID(id string) JSONOption {
	return func(r *jsonRenderer) { r.id = id }
}

// WithJSONGeneratedAt records the generation timestamp.
func WithJSONGeneratedAt(ts time.Time) JSONOption {
	return func(r *jsonRenderer) { r.generatedAt = ts }
}

// WithJSONSeed records the palette seed, marking the document as rendered
// with a randomized palette so it can be reproduced.
func WithJSONSeed(seed uint64) JSONOption {
	return func(r *jsonRenderer) { r.seed = seed; r.randomized = true }
}

type jsonOutput struct {
	ID           string               `json:"id,omitempty"`
	GeneratedAt  string               `json:"generated_at,omitempty"`
	Width        float64              `json:"width"`
	SampleHeight float64              `json:"sample_height"`
	Palette      jsonPalette          `json:"palette"`
	Seed         uint64               `json:"seed,omitempty"`
	Randomized   bool                 `json:"randomized,omitempty"`
	Process      []spindump.Attribute `json:"process,omitempty"`
	Threads      []jsonThread         `json:"threads"`
}

type jsonPalette struct {
	LeftBottom  string `json:"left_bottom"`
	LeftTop     string `json:"left_top"`
	RightBottom string `json:"right_bottom"`
	RightTop    string `json:"right_top"`
}

type jsonThread struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Default     bool        `json:"default,omitempty"`
	Samples     int         `json:"samples"`
	MaxDepth    int         `json:"max_depth"`
	Blocks      []jsonBlock `json:"blocks"`
}

type jsonBlock struct {
	Label   string  `json:"label"`
	Samples int     `json:"samples"`
	Depth   int     `json:"depth"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
}

// RenderJSON exports one report's layouts as a pretty-printed interchange
// document. Thread entries are named "Thread <n>" in report order and only
// the first is flagged as the default; external viewers use the flag to
// pick the initially visible thread. The palette, and the seed when the
// palette was randomized, are recorded so a render can be reproduced.
//
// All layouts must share the geometry options they were built with; the
// document-level width and sample height are taken from the first layout.
func RenderJSON(rep *spindump.Report, layouts []*flame.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{palette: colorspace.DefaultPalette()}
	for _, opt := range opts {
		opt(&r)
	}
	ri := colorspace.NewRectInterpolator(r.palette)

	out := jsonOutput{
		ID:         r.id,
		Seed:       r.seed,
		Randomized: r.randomized,
		Palette: jsonPalette{
			LeftBottom:  r.palette.LeftBottom.Hex(),
			LeftTop:     r.palette.LeftTop.Hex(),
			RightBottom: r.palette.RightBottom.Hex(),
			RightTop:    r.palette.RightTop.Hex(),
		},
		Threads: make([]jsonThread, 0, len(layouts)),
	}
	if !r.generatedAt.IsZero() {
		out.GeneratedAt = r.generatedAt.UTC().Format(time.RFC3339)
	}
	if rep != nil {
		out.Process = rep.Process.Attributes
	}

	for i, l := range layouts {
		if i == 0 {
			out.Width = l.TotalWidth
			out.SampleHeight = l.SampleHeight
		}

		jt := jsonThread{
			Name:        fmt.Sprintf("Thread %d", i),
			Description: l.Thread.Description,
			Default:     i == 0,
			Samples:     l.Thread.Samples(),
			MaxDepth:    l.MaxDepth,
			Blocks:      make([]jsonBlock, 0, l.Thread.FrameCount()),
		}

		var walkErr error
		l.Walk(func(b flame.Block) bool {
			c, err := ri.At(b.XNorm, b.YNorm)
			if err != nil {
				walkErr = fmt.Errorf("thread %d frame %q: %w", i, b.Label, err)
				return false
			}
			jt.Blocks = append(jt.Blocks, jsonBlock{
				Label:   b.Label,
				Samples: b.Samples,
				Depth:   b.Depth,
				X:       b.X,
				Y:       b.Y,
				Width:   b.W,
				Height:  b.H,
				Color:   c.Hex(),
			})
			return true
		})
		if walkErr != nil {
			return nil, walkErr
		}

		out.Threads = append(out.Threads, jt)
	}

	return json.MarshalIndent(out, "", "  ")
}
