// Package spindump parses macOS spindump text reports in Heavy format.
//
// # Overview
//
// A spindump report is a plain-text document made of blank-line-separated
// sections. The first ten sections form a fixed preamble of "key: value"
// attributes (timestamps, hardware model, OS build, and so on). They are
// followed by one attribute section describing the sampled process and then
// a run of indented subsections. Subsections whose first line starts with
// "Thread" carry call stacks; everything else (binary images, notes) is
// ignored.
//
// # Frame Lines
//
// Inside a thread section every line is a frame: leading spaces, a decimal
// sample count, one separator character, and the frame label. The column of
// the first digit encodes nesting depth at two columns per level. Parsing
// keeps a stack of open frames; when a line's level is at or below the
// stack height the stack is cut back before the frame is attached to its
// parent. A frame attached with an empty stack becomes the thread's root,
// and a thread has exactly one root.
//
// # Basic Usage
//
// Parse a report and inspect its threads:
//
//	rep, err := spindump.ParseFile("report.txt")
//	if err != nil {
//	    return err
//	}
//	for _, t := range rep.Process.Threads {
//	    fmt.Println(t.Description, t.Samples())
//	}
//
// Parse failures carry the offending line through [ParseError] and match the
// package sentinel errors with [errors.Is]:
//
//	if errors.Is(err, spindump.ErrMissingColon) { ... }
//
// Frame trees are immutable after [Parse] returns. [FrameSample.Visit] walks
// a tree in pre-order; [ThreadTrace.Stats] summarizes one thread.
package spindump
