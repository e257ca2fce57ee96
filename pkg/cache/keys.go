package cache

// Keyer derives cache keys for the two things flamedump caches: parsed
// report identity and rendered artifacts.
type Keyer interface {
	// ReportKey identifies a report by its raw bytes.
	ReportKey(data []byte) string

	// ArtifactKey identifies one rendered artifact of one report. Any
	// change to the render options produces a different key.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts carries everything that changes a rendered artifact's
// bytes. All fields participate in the key hash.
type ArtifactKeyOpts struct {
	// Kind names the artifact, e.g. "flame-svg", "flame-png",
	// "calltree-svg" or "report-json".
	Kind string `json:"kind"`

	// Thread is the thread index, or -1 for artifacts covering the whole
	// report.
	Thread int `json:"thread"`

	Width        float64 `json:"width"`
	SampleHeight float64 `json:"sample_height"`
	Inverted     bool    `json:"inverted"`
	Background   string  `json:"background"`

	// Palette holds the four corner colors as hex strings, which also
	// captures randomized palettes.
	Palette [4]string `json:"palette"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ReportKey generates a key of the form report:<sha256>.
func (k *DefaultKeyer) ReportKey(data []byte) string {
	return "report:" + Hash(data)
}

// ArtifactKey generates a key binding the report hash to the render
// options.
func (k *DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so multiple servers can share
// one redis instance without key collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated
// key. A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(data []byte) string {
	return k.prefix + k.inner.ReportKey(data)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(reportHash, opts)
}
