package tokenizer

import (
	"strings"
	"sync"
)

// Pair is two adjacent BPE symbols.
type Pair struct {
	A string
	B string
}

// bpe merges byte-level symbols by rank. Results are memoized per word.
type bpe struct {
	ranks        map[Pair]int
	vocab        map[string]int
	ignoreMerges bool

	mu    sync.Mutex
	cache map[string][]string
}

func newBPE(vocab map[string]int, ranks map[Pair]int, ignoreMerges bool) *bpe {
	return &bpe{
		ranks:        ranks,
		vocab:        vocab,
		ignoreMerges: ignoreMerges,
		cache:        make(map[string][]string),
	}
}

// symbols returns the merged symbols of one pre-tokenized word, already
// mapped through the byte table.
func (m *bpe) symbols(word string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if out, ok := m.cache[word]; ok {
		return out
	}
	out := m.merge(word)
	m.cache[word] = out
	return out
}

func (m *bpe) merge(word string) []string {
	if m.ignoreMerges {
		if _, ok := m.vocab[word]; ok {
			return []string{word}
		}
	}
	syms := make([]string, 0, len(word))
	for _, r := range word {
		syms = append(syms, string(r))
	}
	for len(syms) > 1 {
		best, bestRank := Pair{}, -1
		for i := 0; i+1 < len(syms); i++ {
			p := Pair{A: syms[i], B: syms[i+1]}
			if r, ok := m.ranks[p]; ok && (bestRank < 0 || r < bestRank) {
				best, bestRank = p, r
			}
		}
		if bestRank < 0 {
			break
		}
		syms = joinPair(syms, best)
	}
	return syms
}

// joinPair merges every left-to-right occurrence of p.
func joinPair(syms []string, p Pair) []string {
	out := syms[:0:0]
	for i := 0; i < len(syms); i++ {
		if i+1 < len(syms) && syms[i] == p.A && syms[i+1] == p.B {
			out = append(out, p.A+p.B)
			i++
			continue
		}
		out = append(out, syms[i])
	}
	return out
}

// parseMerges reads tokenizer.json merges, which come either as "a b"
// strings or as two-element arrays. The first occurrence of a pair sets its
// rank; comments and malformed entries are skipped.
func parseMerges(raw []any) map[Pair]int {
	ranks := make(map[Pair]int, len(raw))
	for _, entry := range raw {
		var a, b string
		switch v := entry.(type) {
		case string:
			line := strings.TrimSpace(v)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			var ok bool
			if a, b, ok = strings.Cut(line, " "); !ok || strings.Contains(b, " ") {
				continue
			}
		case []any:
			if len(v) != 2 {
				continue
			}
			sa, aok := v[0].(string)
			sb, bok := v[1].(string)
			if !aok || !bok {
				continue
			}
			a, b = sa, sb
		default:
			continue
		}
		p := Pair{A: a, B: b}
		if _, seen := ranks[p]; !seen {
			ranks[p] = len(ranks)
		}
	}
	return ranks
}

// byteTable maps each byte to the printable rune GPT-2 style byte-level BPE
// uses for it: printable Latin-1 bytes map to themselves, the rest to
// U+0100 onwards in byte order.
var byteTable = sync.OnceValue(func() [256]string {
	var t [256]string
	next := rune(256)
	for b := 0; b < 256; b++ {
		switch {
		case b >= '!' && b <= '~', b >= 0xA1 && b <= 0xAC, b >= 0xAE && b <= 0xFF:
			t[b] = string(rune(b))
		default:
			t[b] = string(next)
			next++
		}
	}
	return t
})

func byteEncode(s string) string {
	t := byteTable()
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		b.WriteString(t[s[i]])
	}
	return b.String()
}
