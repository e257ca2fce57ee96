package spindump

// Stats summarizes one thread's frame tree.
type Stats struct {
	Description string  `json:"description"`
	Samples     int     `json:"samples"`
	Frames      int     `json:"frames"`
	MaxDepth    int     `json:"max_depth"`
	MaxLabelLen int     `json:"max_label_len"`
	AvgLabelLen float64 `json:"avg_label_len"`
}

// Stats computes the thread's summary: sample total, frame count, tree
// height, and the longest and mean frame-label lengths.
func (t ThreadTrace) Stats() Stats {
	s := Stats{Description: t.Description, Samples: t.Samples(), MaxDepth: t.MaxDepth()}
	if t.Root == nil {
		return s
	}

	total := 0
	t.Root.Visit(func(f *FrameSample) {
		s.Frames++
		total += len(f.Label)
		s.MaxLabelLen = max(s.MaxLabelLen, len(f.Label))
	})
	s.AvgLabelLen = float64(total) / float64(s.Frames)
	return s
}

// Stats returns per-thread summaries for every thread in the report, in
// report order.
func (r *Report) Stats() []Stats {
	stats := make([]Stats, 0, len(r.Process.Threads))
	for _, t := range r.Process.Threads {
		stats = append(stats, t.Stats())
	}
	return stats
}
