// Package flame computes flame-graph layouts for spindump frame trees.
//
// # Overview
//
// A flame graph draws every frame of a call tree as a rectangle: the width
// is proportional to the frame's sample count, the vertical position is the
// call depth, and children sit directly above their parent starting at its
// left edge. [Walk] produces the logical positions (sample offset and
// depth) in pre-order; [Layout] scales them into drawing units and
// normalized coordinates for coloring.
//
// # Usage
//
//	l, err := flame.New(thread, flame.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, b := range l.Blocks() {
//	    draw(b.X, b.Y, b.W, b.H)
//	}
//
// The traversal is restartable: [Walk] and [Layout.Walk] recompute
// positions on every call and stop early when the callback returns false.
package flame
