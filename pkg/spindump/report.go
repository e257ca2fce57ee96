package spindump

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// headerSections is the number of attribute sections in the fixed preamble
// of every spindump report.
const headerSections = 10

// heavyBanner marks the title line spindump prints above the per-process
// stacks. It is not an attribute and is skipped during parsing.
const heavyBanner = "Heavy format"

// Attribute is one "key: value" line from an attribute section. Key is the
// text before the first colon, verbatim; Value is the remainder with
// surrounding whitespace trimmed.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProcessTrace holds the sampled process's attributes and its threads, in
// report order.
type ProcessTrace struct {
	Attributes []Attribute   `json:"attributes"`
	Threads    []ThreadTrace `json:"threads"`
}

// Report is a fully parsed spindump report. Header holds the ten preamble
// sections; Process holds the sampled process and its call stacks.
type Report struct {
	Header  [][]Attribute `json:"header"`
	Process ProcessTrace  `json:"process"`
}

// Lookup returns the value of the first attribute with the given key,
// searching the preamble sections first and the process attributes after.
func (r *Report) Lookup(key string) (string, bool) {
	for _, section := range r.Header {
		for _, a := range section {
			if a.Key == key {
				return a.Value, true
			}
		}
	}
	for _, a := range r.Process.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// ParseFile reads and parses the report at path.
func ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return ParseBytes(data)
}

// Parse reads r to the end and parses it as a spindump report.
func Parse(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a spindump report held in memory.
func ParseBytes(data []byte) (*Report, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return parseLines(strings.Split(text, "\n"))
}

func parseLines(lines []string) (*Report, error) {
	cur := &cursor{lines: lines}
	rep := &Report{Header: make([][]Attribute, 0, headerSections)}

	for range headerSections {
		section, start, err := cur.section()
		if err != nil {
			return nil, fmt.Errorf("report preamble: %w", err)
		}
		attrs, err := parseAttributes(section, start)
		if err != nil {
			return nil, err
		}
		rep.Header = append(rep.Header, attrs)
	}

	section, start, err := cur.section()
	if err != nil {
		return nil, fmt.Errorf("process section: %w", err)
	}
	attrs, err := parseAttributes(section, start)
	if err != nil {
		return nil, err
	}
	rep.Process.Attributes = attrs

	// Indented sections belong to the process. Threads carry stacks, the
	// rest (binary images, notes) is skipped.
	for !cur.done() && strings.HasPrefix(cur.peek(), " ") {
		section, start, err = cur.section()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(strings.TrimSpace(section[0]), "Thread") {
			continue
		}
		thread, err := parseThread(section, start)
		if err != nil {
			return nil, err
		}
		rep.Process.Threads = append(rep.Process.Threads, thread)
	}

	return rep, nil
}

func parseAttributes(section []string, start int) ([]Attribute, error) {
	attrs := make([]Attribute, 0, len(section))
	for i, line := range section {
		if strings.Contains(line, "---") || strings.Contains(line, heavyBanner) {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &ParseError{Line: line, LineNum: start + i, Err: ErrMissingColon}
		}
		attrs = append(attrs, Attribute{Key: key, Value: strings.TrimSpace(value)})
	}
	return attrs, nil
}

// cursor walks the report line by line, handing out blank-line-delimited
// sections and tracking absolute line numbers for error reporting.
type cursor struct {
	lines []string
	next  int
}

// section consumes lines up to the next blank line and then the blank run
// that follows. start is the 1-based line number of the section's first
// line.
func (c *cursor) section() (section []string, start int, err error) {
	if c.done() {
		return nil, 0, ErrTruncatedReport
	}
	if c.lines[c.next] == "" {
		return nil, 0, &ParseError{LineNum: c.next + 1, Err: ErrBlankLine}
	}
	start = c.next + 1
	begin := c.next
	for c.next < len(c.lines) && c.lines[c.next] != "" {
		c.next++
	}
	section = c.lines[begin:c.next]
	for c.next < len(c.lines) && c.lines[c.next] == "" {
		c.next++
	}
	return section, start, nil
}

func (c *cursor) done() bool { return c.next >= len(c.lines) }

func (c *cursor) peek() string { return c.lines[c.next] }
