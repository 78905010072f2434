// Package chunker splits document bodies into overlapping fixed-size windows for indexing.
package chunker

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

const (
	DefaultWindow  = 1800
	DefaultOverlap = 250
)

// Options configures chunking behavior. Sizes are in characters (runes).
type Options struct {
	Window  int
	Overlap int
}

// DefaultOptions returns default chunking options.
func DefaultOptions() Options {
	return Options{
		Window:  DefaultWindow,
		Overlap: DefaultOverlap,
	}
}

// Validate reports whether the window can make progress.
func (o Options) Validate() error {
	if o.Window <= 0 {
		return fmt.Errorf("chunk window must be positive, got %d", o.Window)
	}
	if o.Overlap < 0 || o.Overlap >= o.Window {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", o.Window, o.Overlap)
	}
	return nil
}

// Window is one chunk with its rune offsets in the normalized body.
// Text is the trimmed content of body[Start:End].
type Window struct {
	Text  string
	Start int
	End   int
}

var spaceBeforeNewline = regexp.MustCompile(`\s+\n`)

// Normalize collapses whitespace runs ending in a newline and trims the body.
func Normalize(body string) string {
	return strings.TrimSpace(spaceBeforeNewline.ReplaceAllString(body, "\n"))
}

// Windows returns the chunk sequence for body. The sequence is lazy and can be ranged over
// any number of times; each pass yields the same windows. Invalid options yield nothing.
func Windows(body string, opts Options) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		if opts.Validate() != nil {
			return
		}
		runes := []rune(Normalize(body))
		n := len(runes)
		if n == 0 {
			return
		}
		if n <= opts.Window {
			yield(Window{Text: string(runes), Start: 0, End: n})
			return
		}

		start := 0
		for start < n {
			end := min(n, start+opts.Window)
			text := strings.TrimSpace(string(runes[start:end]))
			if text != "" {
				if !yield(Window{Text: text, Start: start, End: end}) {
					return
				}
			}
			if end == n {
				return
			}
			start = max(0, end-opts.Overlap)
		}
	}
}

// Chunk collects Windows into a slice. Empty input returns nil.
func Chunk(body string, opts Options) []Window {
	var out []Window
	for w := range Windows(body, opts) {
		out = append(out, w)
	}
	return out
}
