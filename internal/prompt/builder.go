// Package prompt turns a session into a preview: it renders the
// conversation with the model's template, classifies the result for
// highlighting and counts its tokens.
package prompt

import (
	"unicode/utf8"

	"github.com/samcharles93/promptlens/internal/highlight"
	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/reasoning"
	"github.com/samcharles93/promptlens/internal/session"
	"github.com/samcharles93/promptlens/internal/tokenizer"
	"github.com/samcharles93/promptlens/internal/tplparser"
)

// Preview is everything a front end shows for one session.
type Preview struct {
	Model      string              `json:"model"`
	Prompt     string              `json:"prompt"`
	Rendered   string              `json:"rendered"`
	Error      string              `json:"error,omitempty"`
	Edited     bool                `json:"edited"`
	Segments   []highlight.Segment `json:"segments"`
	HTML       string              `json:"html"`
	Tokens     int                 `json:"tokens"`
	Characters int                 `json:"characters"`
	Messages   int                 `json:"messages"`
	// Thinking is set when the prompt ends inside an open think block.
	Thinking   bool                `json:"thinking"`
}

// Builder wires the renderer, the classifier and the token counter.
type Builder struct {
	renderer   *tplparser.Renderer
	classifier *highlight.Classifier
	counter    *tokenizer.Counter
	log        logger.Logger
}

// NewBuilder returns a builder. A nil counter reports zero tokens.
func NewBuilder(r *tplparser.Renderer, c *highlight.Classifier, counter *tokenizer.Counter, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{renderer: r, classifier: c, counter: counter, log: log}
}

func (b *Builder) Renderer() *tplparser.Renderer     { return b.renderer }
func (b *Builder) Classifier() *highlight.Classifier { return b.classifier }

// Request maps session state onto a render request. The thinking switch is
// passed under both names the bundled templates read; tools are offered
// only when enabled and non-empty.
func Request(s *session.Session) tplparser.Request {
	req := tplparser.Request{
		Model:               s.Model,
		Messages:            s.Messages,
		AddGenerationPrompt: s.AddGenerationPrompt,
		Vars: map[string]any{
			"thinking":        s.EnableThinking,
			"enable_thinking": s.EnableThinking,
		},
	}
	if s.IncludeTools && len(s.Tools) > 0 {
		req.Tools = s.Tools
	}
	return req
}

// Render returns the rendered prompt for s, or the error text.
func (b *Builder) Render(s *session.Session) string {
	return b.renderer.Render(Request(s))
}

// Count returns the number of tokens text takes under model's tokenizer.
func (b *Builder) Count(text, model string) int {
	if b.counter == nil {
		return 0
	}
	p, ok := b.renderer.Registry().Lookup(model)
	if !ok {
		return 0
	}
	return b.counter.Count(text, p.TokenizerID)
}

// Preview renders s and describes the prompt it displays.
func (b *Builder) Preview(s *session.Session) Preview {
	p, _ := b.Build(s)
	return p
}

// Build is Preview that also returns the render error. The template runs
// once; on failure the preview carries the error text as its rendered
// prompt.
func (b *Builder) Build(s *session.Session) (Preview, error) {
	rendered, err := b.renderer.Display(Request(s))
	shown, edited := s.Display(rendered)
	segs := b.classifier.Classify(shown, s.Model)
	b.log.Debug("preview built", "model", s.Model, "edited", edited, "segments", len(segs))
	p := Preview{
		Model:      s.Model,
		Prompt:     shown,
		Rendered:   rendered,
		Edited:     edited,
		Segments:   segs,
		HTML:       highlight.HTML(segs),
		Tokens:     b.Count(shown, s.Model),
		Characters: utf8.RuneCountInString(shown),
		Messages:   len(s.Messages),
		Thinking:   reasoning.HasOpenBlock(shown),
	}
	if err != nil {
		p.Error = err.Error()
	}
	return p, err
}
