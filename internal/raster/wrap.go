package raster

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// lookBack is how many columns before a forced break are searched for a
// space or closing delimiter.
const lookBack = 30

type span struct{ start, end int }

func isCloser(r rune) bool { return r == '>' || r == '｜' }

// Wrap breaks lines wider than width display columns. A line is broken after
// a closing delimiter (">" or "｜") once it reaches 70% of width; a line that
// reaches width breaks after the nearest space or delimiter in the preceding
// columns, or hard at width when there is none. Existing newlines are kept.
func Wrap(text string, width int) string {
	runes := []rune(text)
	spans := wrapSpans(runes, width)
	lines := make([]string, len(spans))
	for i, s := range spans {
		lines[i] = string(runes[s.start:s.end])
	}
	return strings.Join(lines, "\n")
}

// wrapSpans returns the wrapped lines as rune ranges of runes, newline
// characters excluded.
func wrapSpans(runes []rune, width int) []span {
	var out []span
	start := 0
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && runes[i] != '\n' {
			continue
		}
		out = append(out, wrapLine(runes, start, i, width)...)
		start = i + 1
	}
	return out
}

func wrapLine(runes []rune, start, end, width int) []span {
	if width <= 0 || columns(runes[start:end]) <= width {
		return []span{{start, end}}
	}

	soft := float64(width) * 0.7
	var out []span
	cur := start
	for i := start; i < end; i++ {
		w := columns(runes[cur : i+1])
		switch {
		case isCloser(runes[i]) && float64(w) >= soft:
			if i+1 < end {
				out = append(out, span{cur, i + 1})
				cur = i + 1
			}
		case w >= width:
			brk := -1
			for j := i; j > max(cur, i+1-lookBack); j-- {
				if runes[j] == ' ' || isCloser(runes[j]) {
					brk = j + 1
					break
				}
			}
			if brk < 0 {
				brk = i + 1
			}
			out = append(out, span{cur, brk})
			cur = brk
		}
	}
	if cur < end {
		out = append(out, span{cur, end})
	}
	return out
}

func columns(rs []rune) int {
	n := 0
	for _, r := range rs {
		n += runewidth.RuneWidth(r)
	}
	return n
}
