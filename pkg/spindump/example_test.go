package spindump_test

import (
	"fmt"
	"strings"

	"github.com/flamedump/flamedump/pkg/spindump"
)

func ExampleParseBytes() {
	var b strings.Builder
	for i := range 10 {
		fmt.Fprintf(&b, "Header %d: value\n\n", i)
	}
	b.WriteString("Process: demo [42]\n\n")
	b.WriteString("  Thread 0x1  DispatchQueue 1\n")
	b.WriteString("  8 start\n")
	b.WriteString("    5 work\n")
	b.WriteString("    3 idle\n")

	rep, err := spindump.ParseBytes([]byte(b.String()))
	if err != nil {
		fmt.Println("parse:", err)
		return
	}

	thread := rep.Process.Threads[0]
	fmt.Println(thread.Description)
	fmt.Println(thread.Samples(), "samples,", thread.FrameCount(), "frames")
	// Output:
	// Thread 0x1  DispatchQueue 1
	// 8 samples, 3 frames
}

func ExampleFrameSample_Height() {
	root := &spindump.FrameSample{Label: "main", Samples: 10, Children: []*spindump.FrameSample{
		{Label: "update", Samples: 6, Children: []*spindump.FrameSample{
			{Label: "layout", Samples: 4},
		}},
		{Label: "render", Samples: 4},
	}}

	fmt.Println(root.Height())
	// Output: 3
}
