// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import "strings"

// DefaultLookahead is the number of lines examined for a paragraph break or
// header once a fragment reaches the target maximum.
const DefaultLookahead = 10

// Options controls SplitFragments.
type Options struct {
	TargetMin int
	TargetMax int
	Lookahead int
}

func (o Options) withDefaults() Options {
	if o.TargetMin <= 0 {
		o.TargetMin = 1
	}
	if o.TargetMax < o.TargetMin {
		o.TargetMax = o.TargetMin
	}
	if o.Lookahead <= 0 {
		o.Lookahead = DefaultLookahead
	}
	return o
}

// Fragment is one piece of a section produced by the splitter.
type Fragment struct {
	Text      string
	WordCount int

	// Unbounded is set when no break point was found within the lookahead
	// horizon and the fragment ended up above the target maximum.
	Unbounded bool
}

// SplitSection splits a section's text into ordered, non-empty fragments
// using the default lookahead horizon.
func SplitSection(text string, targetMin, targetMax int) []string {
	frags := SplitFragments(text, Options{TargetMin: targetMin, TargetMax: targetMax})
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Text
	}
	return out
}

// SplitFragments keeps a section whole when it holds at most twice the
// target maximum; keeping the caller's grouping wins over strict size
// conformance. Larger sections are split line by line: a header starts a new
// fragment once the buffer holds TargetMin words, and a buffer that reaches
// TargetMax is closed at the nearest blank line or header within the
// lookahead horizon. Lines are only ever moved between fragments, never
// dropped.
func SplitFragments(text string, opts Options) []Fragment {
	opts = opts.withDefaults()

	if CountWords(text) <= 2*opts.TargetMax {
		body := trimBlankLines(text)
		if strings.TrimSpace(body) == "" {
			return nil
		}
		return []Fragment{{Text: body, WordCount: CountWords(body)}}
	}

	lines := strings.Split(text, "\n")
	var (
		frags   []Fragment
		buf     []string
		words   int
		stalled bool
	)

	flush := func() {
		body := trimBlankLines(strings.Join(buf, "\n"))
		if strings.TrimSpace(body) != "" {
			wc := CountWords(body)
			frags = append(frags, Fragment{
				Text:      body,
				WordCount: wc,
				Unbounded: stalled && wc > opts.TargetMax,
			})
		}
		buf = nil
		words = 0
		stalled = false
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if isHeader(line) && len(buf) > 0 && words >= opts.TargetMin {
			flush()
		}

		buf = append(buf, line)
		words += CountWords(line)

		if words < opts.TargetMax {
			continue
		}

		bp, atHeader := findBreak(lines, i+1, opts.Lookahead)
		switch {
		case bp < 0:
			// Keep accumulating; the next line gets another look.
			stalled = true
		case atHeader:
			// Close before the header and resume scanning at it.
			buf = append(buf, lines[i+1:bp]...)
			flush()
			i = bp - 1
		default:
			// Close through the blank line and resume after it.
			buf = append(buf, lines[i+1:bp+1]...)
			flush()
			i = bp
		}
	}
	flush()

	return frags
}

// findBreak scans up to horizon lines starting at from for a blank line or a
// header. It returns the line index and whether it is a header, or -1.
func findBreak(lines []string, from, horizon int) (int, bool) {
	end := from + horizon
	if end > len(lines) {
		end = len(lines)
	}
	for j := from; j < end; j++ {
		if strings.TrimSpace(lines[j]) == "" {
			return j, false
		}
		if isHeader(lines[j]) {
			return j, true
		}
	}
	return -1, false
}

// isHeader reports whether line is a Markdown ATX header.
func isHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) > 1 && trimmed[0] == '#'
}

// trimBlankLines drops whitespace-only lines from both ends of text.
func trimBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
