package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"

	"github.com/samcharles93/promptlens/internal/profile"
)

var tokenTypes = map[profile.Category]chroma.TokenType{
	profile.Boundary:     chroma.KeywordReserved,
	profile.Role:         chroma.NameTag,
	profile.Reasoning:    chroma.CommentSpecial,
	profile.Tool:         chroma.NameFunction,
	profile.ToolArgument: chroma.NameAttribute,
}

var ansiStyle = chroma.MustNewStyle("promptlens", chroma.StyleEntries{
	chroma.Text:            Foreground.Hex(),
	chroma.KeywordReserved: "bold " + ColorFor(profile.Boundary).Hex(),
	chroma.NameTag:         "bold " + ColorFor(profile.Role).Hex(),
	chroma.CommentSpecial:  "bold " + ColorFor(profile.Reasoning).Hex(),
	chroma.NameFunction:    "bold " + ColorFor(profile.Tool).Hex(),
	chroma.NameAttribute:   "bold " + ColorFor(profile.ToolArgument).Hex(),
})

// WriteANSI writes segments with terminal colors. formatter names a chroma
// formatter such as "terminal256" or "terminal16m"; unknown names write the
// text without escapes.
func WriteANSI(w io.Writer, segs []Segment, formatter string) error {
	tokens := make([]chroma.Token, 0, len(segs))
	for _, s := range segs {
		tt, ok := tokenTypes[s.Category]
		if !ok {
			tt = chroma.Text
		}
		tokens = append(tokens, chroma.Token{Type: tt, Value: s.Text})
	}
	return formatters.Get(formatter).Format(w, ansiStyle, chroma.Literator(tokens...))
}

// ANSI is WriteANSI into a string. On formatter failure the plain text is
// returned.
func ANSI(segs []Segment, formatter string) string {
	var b strings.Builder
	if err := WriteANSI(&b, segs, formatter); err != nil {
		b.Reset()
		for _, s := range segs {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
