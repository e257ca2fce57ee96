package flame

import (
	"errors"
	"testing"

	"github.com/flamedump/flamedump/pkg/spindump"
)

func TestNewDefaults(t *testing.T) {
	l, err := New(spindump.ThreadTrace{Root: testTree()}, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.TotalWidth != DefaultTotalWidth || l.SampleHeight != DefaultSampleHeight {
		t.Errorf("defaults = %v x %v", l.TotalWidth, l.SampleHeight)
	}
	if l.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", l.MaxDepth)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		thread  spindump.ThreadTrace
		wantErr error
	}{
		{
			name:    "no root",
			thread:  spindump.ThreadTrace{Description: "Thread 0"},
			wantErr: ErrNoRoot,
		},
		{
			name:    "zero samples",
			thread:  spindump.ThreadTrace{Root: &spindump.FrameSample{Label: "r"}},
			wantErr: ErrNoSamples,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.thread, Options{}); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLayoutBlocks(t *testing.T) {
	l, err := New(spindump.ThreadTrace{Root: testTree()}, Options{TotalWidth: 5000, SampleHeight: 16})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	blocks := l.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("len(Blocks()) = %d, want 3", len(blocks))
	}

	root := blocks[0]
	if root.X != 0 || root.Y != 0 || root.W != 5000 || root.H != 16 {
		t.Errorf("root rect = (%v, %v, %v, %v)", root.X, root.Y, root.W, root.H)
	}

	childB := blocks[2]
	if childB.Label != "childB" {
		t.Fatalf("blocks[2] = %q, want childB", childB.Label)
	}
	// 10 samples over 5000 units puts each sample at 500 units.
	if childB.X != 2000 || childB.W != 3000 || childB.Y != 16 {
		t.Errorf("childB rect = (%v, %v, %v)", childB.X, childB.Y, childB.W)
	}
	if childB.XNorm != 0.4 || childB.YNorm != 0.5 {
		t.Errorf("childB norm = (%v, %v), want (0.4, 0.5)", childB.XNorm, childB.YNorm)
	}

	if got := l.TotalHeight(); got != 32 {
		t.Errorf("TotalHeight() = %v, want 32", got)
	}
}

func TestLayoutNormRange(t *testing.T) {
	root := &spindump.FrameSample{Label: "r", Samples: 7, Children: []*spindump.FrameSample{
		{Label: "a", Samples: 3, Children: []*spindump.FrameSample{
			{Label: "a1", Samples: 3},
		}},
		{Label: "b", Samples: 4},
	}}
	l, err := New(spindump.ThreadTrace{Root: root}, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Walk(func(b Block) bool {
		if b.XNorm < 0 || b.XNorm >= 1 {
			t.Errorf("XNorm(%s) = %v out of [0,1)", b.Label, b.XNorm)
		}
		if b.YNorm < 0 || b.YNorm >= 1 {
			t.Errorf("YNorm(%s) = %v out of [0,1)", b.Label, b.YNorm)
		}
		return true
	})
}

func TestLayoutWalkStopsEarly(t *testing.T) {
	l, err := New(spindump.ThreadTrace{Root: testTree()}, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	seen := 0
	l.Walk(func(Block) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Errorf("seen = %d, want 2", seen)
	}
}
