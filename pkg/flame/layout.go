package flame

import (
	"errors"

	"github.com/flamedump/flamedump/pkg/spindump"
)

// Renderer defaults, in output units.
const (
	DefaultTotalWidth   = 5000.0
	DefaultSampleHeight = 16.0
)

var (
	// ErrNoRoot is returned by [New] for a thread without a root frame.
	// Parsed reports never produce one, so hitting this means the thread
	// was constructed by hand.
	ErrNoRoot = errors.New("thread has no root frame")

	// ErrNoSamples is returned by [New] when the root frame's sample count
	// is zero, which would make the per-sample width unbounded.
	ErrNoSamples = errors.New("thread has zero samples")
)

// Options configures layout geometry. Zero values fall back to
// [DefaultTotalWidth] and [DefaultSampleHeight].
type Options struct {
	TotalWidth   float64 // drawing width of the root frame
	SampleHeight float64 // drawing height of one frame row
}

// Layout scales a thread's frame tree into drawing units. The root spans
// the full TotalWidth; every other frame's width is proportional to its
// share of the root's samples.
type Layout struct {
	Thread       spindump.ThreadTrace
	TotalWidth   float64
	SampleHeight float64
	MaxDepth     int

	unitWidth float64
}

// New validates the thread and fixes the layout scale.
func New(t spindump.ThreadTrace, opts Options) (*Layout, error) {
	if t.Root == nil {
		return nil, ErrNoRoot
	}
	if t.Root.Samples == 0 {
		return nil, ErrNoSamples
	}
	if opts.TotalWidth == 0 {
		opts.TotalWidth = DefaultTotalWidth
	}
	if opts.SampleHeight == 0 {
		opts.SampleHeight = DefaultSampleHeight
	}

	return &Layout{
		Thread:       t,
		TotalWidth:   opts.TotalWidth,
		SampleHeight: opts.SampleHeight,
		MaxDepth:     t.Root.Height(),
		unitWidth:    opts.TotalWidth / float64(t.Root.Samples),
	}, nil
}

// Block is one frame's rectangle. X grows rightward and Y upward from the
// root row; sinks that draw with a downward Y axis flip against
// [Layout.TotalHeight]. XNorm and YNorm are the normalized coordinates
// used for palette interpolation and always land in [0, 1).
type Block struct {
	Label   string
	Samples int
	Start   int // sample offset of the left edge
	Depth   int // call depth, zero for the root

	X, Y float64
	W, H float64

	XNorm float64
	YNorm float64
}

// Block scales a single placement into drawing units.
func (l *Layout) Block(p Placement) Block {
	x := float64(p.Start) * l.unitWidth
	return Block{
		Label:   p.Frame.Label,
		Samples: p.Frame.Samples,
		Start:   p.Start,
		Depth:   p.Depth,
		X:       x,
		Y:       float64(p.Depth) * l.SampleHeight,
		W:       float64(p.Frame.Samples) * l.unitWidth,
		H:       l.SampleHeight,
		XNorm:   x / l.TotalWidth,
		YNorm:   float64(p.Depth) / float64(l.MaxDepth),
	}
}

// Walk hands every frame's block to fn in pre-order, stopping early when
// fn returns false.
func (l *Layout) Walk(fn func(Block) bool) {
	Walk(l.Thread.Root, func(p Placement) bool {
		return fn(l.Block(p))
	})
}

// Blocks materializes the layout, one block per frame in pre-order.
func (l *Layout) Blocks() []Block {
	blocks := make([]Block, 0, l.Thread.FrameCount())
	l.Walk(func(b Block) bool {
		blocks = append(blocks, b)
		return true
	})
	return blocks
}

// TotalHeight returns the drawing height of the full layout.
func (l *Layout) TotalHeight() float64 {
	return float64(l.MaxDepth) * l.SampleHeight
}
