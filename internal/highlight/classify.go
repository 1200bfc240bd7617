// Package highlight classifies rendered prompts into segments of structural
// tokens and plain text, and renders those segments as HTML or ANSI.
package highlight

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/profile"
)

// DefaultMatchTimeout bounds a single regex search.
const DefaultMatchTimeout = time.Second

// Segment is a classified run of text.
type Segment struct {
	Text     string           `json:"text"`
	Category profile.Category `json:"category"`
}

// PatternCompileError reports a rule whose expression does not compile.
type PatternCompileError struct {
	Index int
	Rule  profile.Rule
	Err   error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("rule %d %s: %v", e.Index, e.Rule, e.Err)
}

func (e *PatternCompileError) Unwrap() error { return e.Err }

// Classifier partitions text by a model's highlighting rules. Compiled
// matchers are cached per model; the zero value is not usable.
type Classifier struct {
	registry *profile.Registry
	log      logger.Logger
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]*matcher
}

// NewClassifier returns a classifier over registry.
func NewClassifier(registry *profile.Registry, log logger.Logger) *Classifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Classifier{
		registry: registry,
		log:      log,
		timeout:  DefaultMatchTimeout,
		cache:    make(map[string]*matcher),
	}
}

// Classify splits text into segments for model. Unknown models and models
// without rules yield a single plain segment.
func (c *Classifier) Classify(text, model string) []Segment {
	if text == "" {
		return nil
	}
	m := c.matcher(model)
	if m == nil {
		return []Segment{{Text: text, Category: profile.Plain}}
	}
	return m.classify(text, c.log)
}

func (c *Classifier) matcher(model string) *matcher {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.cache[model]; ok {
		return m
	}
	p, ok := c.registry.Lookup(model)
	if !ok {
		return nil
	}
	m := compile(p.Rules, c.timeout)
	for _, err := range m.errs {
		c.log.Warn("highlight rule does not compile", "model", model, "error", err)
	}
	c.cache[model] = m
	return m
}

// ClassifyRules classifies text with an ad-hoc rule list.
func ClassifyRules(text string, rules []profile.Rule) []Segment {
	if text == "" {
		return nil
	}
	return compile(rules, DefaultMatchTimeout).classify(text, logger.Discard())
}

type matcher struct {
	rules    []profile.Rule
	combined *regexp2.Regexp
	full     []*regexp2.Regexp
	errs     []error
}

// compile builds the combined alternation, rules in priority order, and one
// anchored expression per pattern rule. A nil combined expression means
// matching degrades to plain text.
func compile(rules []profile.Rule, timeout time.Duration) *matcher {
	m := &matcher{rules: rules, full: make([]*regexp2.Regexp, len(rules))}
	if len(rules) == 0 {
		return m
	}

	alts := make([]string, len(rules))
	for i, r := range rules {
		alts[i] = "(?:" + r.Expr() + ")"
		if r.Kind != profile.Pattern {
			continue
		}
		full, err := regexp2.Compile(`\A(?:`+r.Text+`)\z`, regexp2.None)
		if err != nil {
			m.errs = append(m.errs, &PatternCompileError{Index: i, Rule: r, Err: err})
			continue
		}
		full.MatchTimeout = timeout
		m.full[i] = full
	}

	combined, err := regexp2.Compile(strings.Join(alts, "|"), regexp2.None)
	if err != nil {
		m.errs = append(m.errs, fmt.Errorf("combined pattern: %w", err))
		return m
	}
	combined.MatchTimeout = timeout
	m.combined = combined
	return m
}

func (m *matcher) classify(text string, log logger.Logger) []Segment {
	if m.combined == nil {
		return []Segment{{Text: text, Category: profile.Plain}}
	}

	runes, offsets := decodeRunes(text)
	var out segments
	pos := 0
	match, err := m.combined.FindRunesMatch(runes)
	for match != nil {
		start, end := match.Index, match.Index+match.Length
		if end > start && start >= pos {
			out.add(text[offsets[pos]:offsets[start]], profile.Plain)
			span := text[offsets[start]:offsets[end]]
			out.add(span, m.resolve(span, log))
			pos = end
		}
		match, err = m.combined.FindNextMatch(match)
	}
	if err != nil {
		log.Debug("highlight scan stopped", "offset", pos, "error", err)
	}
	out.add(text[offsets[pos]:], profile.Plain)
	return out
}

// decodeRunes returns the runes of text and the byte offset of each, plus a
// final entry for len(text). Invalid bytes decode as one U+FFFD each, so
// segments are cut from the original bytes and keep them.
func decodeRunes(text string) ([]rune, []int) {
	runes := make([]rune, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		runes = append(runes, r)
		offsets = append(offsets, i)
		i += size
	}
	return runes, append(offsets, len(text))
}

// resolve returns the category of the first rule that fully matches span.
// An evaluation error makes the span plain.
func (m *matcher) resolve(span string, log logger.Logger) profile.Category {
	for i, r := range m.rules {
		if r.Kind == profile.Literal {
			if span == r.Text {
				return r.Category
			}
			continue
		}
		full := m.full[i]
		if full == nil {
			log.Debug("highlight rule unavailable for span", "rule", r.String())
			return profile.Plain
		}
		ok, err := full.MatchString(span)
		if err != nil {
			log.Debug("highlight rule failed", "rule", r.String(), "error", err)
			return profile.Plain
		}
		if ok {
			return r.Category
		}
	}
	return profile.Plain
}

type segments []Segment

// add appends a segment, merging neighbouring plain text.
func (s *segments) add(text string, cat profile.Category) {
	if text == "" {
		return
	}
	if n := len(*s); n > 0 && cat == profile.Plain && (*s)[n-1].Category == profile.Plain {
		(*s)[n-1].Text += text
		return
	}
	*s = append(*s, Segment{Text: text, Category: cat})
}
