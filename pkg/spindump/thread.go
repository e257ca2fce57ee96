package spindump

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sampleCountRE = regexp.MustCompile(`\d+`)

// FrameSample is one stack frame: its label, the number of samples in which
// it appeared, and the callees observed beneath it. Child order matches the
// report. Trees are immutable once parsing returns.
type FrameSample struct {
	Label    string         `json:"label"`
	Samples  int            `json:"samples"`
	Children []*FrameSample `json:"children,omitempty"`
}

// Height returns the frame count of the longest path from this frame down
// to a leaf, counting the frame itself. A leaf has height 1.
func (f *FrameSample) Height() int {
	h := 0
	for _, c := range f.Children {
		h = max(h, c.Height())
	}
	return h + 1
}

// Visit walks the subtree rooted at f in pre-order, parents before
// children, siblings in report order.
func (f *FrameSample) Visit(fn func(*FrameSample)) {
	fn(f)
	for _, c := range f.Children {
		c.Visit(fn)
	}
}

// ThreadTrace is one thread section: the trimmed "Thread ..." description
// line and the root of its frame tree.
type ThreadTrace struct {
	Description string       `json:"description"`
	Root        *FrameSample `json:"root"`
}

// Samples returns the thread's total sample count, which is the root
// frame's count.
func (t ThreadTrace) Samples() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.Samples
}

// MaxDepth returns the height of the thread's frame tree.
func (t ThreadTrace) MaxDepth() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.Height()
}

// FrameCount returns the number of frames in the thread's tree.
func (t ThreadTrace) FrameCount() int {
	n := 0
	if t.Root != nil {
		t.Root.Visit(func(*FrameSample) { n++ })
	}
	return n
}

// parseThread builds a ThreadTrace from one thread section. start is the
// 1-based line number of the section's first line.
//
// Each frame line places its sample count at a column that encodes nesting
// at two columns per level. A stack of open frames tracks the current path;
// a line at or below the stack height cuts the stack back to level-1 before
// the frame attaches. A frame arriving on an empty stack becomes the root.
func parseThread(section []string, start int) (ThreadTrace, error) {
	t := ThreadTrace{Description: strings.TrimSpace(section[0])}
	var stack []*FrameSample

	for i, line := range section[1:] {
		lineNum := start + 1 + i

		loc := sampleCountRE.FindStringIndex(line)
		if loc == nil {
			return ThreadTrace{}, &ParseError{Line: line, LineNum: lineNum, Err: ErrNoSampleCount}
		}
		indent := loc[0]
		if indent%2 != 0 {
			return ThreadTrace{}, &ParseError{Line: line, LineNum: lineNum, Err: ErrOddIndent}
		}
		level := indent / 2

		if len(stack) >= level {
			if level > 0 {
				stack = stack[:level-1]
			} else if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}

		samples, err := strconv.Atoi(line[loc[0]:loc[1]])
		if err != nil {
			return ThreadTrace{}, &ParseError{Line: line, LineNum: lineNum, Err: fmt.Errorf("sample count: %w", err)}
		}

		// The label starts one separator character past the digits and may
		// be empty.
		var label string
		if loc[1] < len(line) {
			label = line[loc[1]+1:]
		}

		frame := &FrameSample{Label: label, Samples: samples}
		if len(stack) == 0 {
			if t.Root != nil {
				return ThreadTrace{}, &ParseError{Line: line, LineNum: lineNum, Err: ErrSecondRoot}
			}
			t.Root = frame
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, frame)
		}
		stack = append(stack, frame)
	}

	return t, nil
}
