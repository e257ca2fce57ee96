package flame

import "github.com/flamedump/flamedump/pkg/spindump"

// Placement locates one frame in a thread's flame graph. Start is the
// sample offset of the frame's left edge within the root's span; Depth is
// the number of callers above it, zero for the root.
type Placement struct {
	Frame *spindump.FrameSample
	Start int
	Depth int
}

// Walk visits every frame under root in pre-order and hands its placement
// to fn. A child starts at its parent's offset shifted right by the sample
// counts of the siblings before it. Walk stops as soon as fn returns
// false and recomputes placements on every call.
func Walk(root *spindump.FrameSample, fn func(Placement) bool) {
	if root == nil {
		return
	}
	walk(root, 0, 0, fn)
}

func walk(f *spindump.FrameSample, start, depth int, fn func(Placement) bool) bool {
	if !fn(Placement{Frame: f, Start: start, Depth: depth}) {
		return false
	}
	childStart := start
	for _, c := range f.Children {
		if !walk(c, childStart, depth+1, fn) {
			return false
		}
		childStart += c.Samples
	}
	return true
}
