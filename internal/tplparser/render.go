// Package tplparser renders conversations into model prompts by executing
// per-model chat templates written in text/template.
//
// A template sees a map context:
//
//	.messages              []chat.Message (tool call arguments normalized to chat.Object)
//	.tools                 []chat.ToolDefinition, or nil when none are offered
//	.add_generation_prompt bool
//	.bos_token, .eos_token string
//
// plus the profile's control variables and any caller variables, which win.
package tplparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samcharles93/promptlens/internal/chat"
	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/profile"
)

// Request is one render call.
type Request struct {
	Model               string
	Messages            []chat.Message
	Tools               []chat.ToolDefinition
	AddGenerationPrompt bool
	Vars                map[string]any
}

// Renderer executes model templates against the profile registry.
type Renderer struct {
	registry *profile.Registry
	loader   *Loader
	log      logger.Logger
}

// NewRenderer returns a renderer. A nil loader uses the bundled templates.
func NewRenderer(registry *profile.Registry, loader *Loader, log logger.Logger) *Renderer {
	if log == nil {
		log = logger.Discard()
	}
	if loader == nil {
		loader = NewLoader("", log)
	}
	return &Renderer{registry: registry, loader: loader, log: log}
}

// Registry returns the profile registry the renderer resolves models in.
func (r *Renderer) Registry() *profile.Registry { return r.registry }

// Loader returns the template loader.
func (r *Renderer) Loader() *Loader { return r.loader }

// Render returns the prompt for req. Failures come back as descriptive text
// in place of the prompt, so the result can always be shown.
func (r *Renderer) Render(req Request) string {
	out, _ := r.Display(req)
	return out
}

// Display executes req once and returns what Render would show, together
// with the error behind it when rendering failed.
func (r *Renderer) Display(req Request) (string, error) {
	out, err := r.Execute(req)
	if err != nil {
		return ErrorText(err), err
	}
	return out, nil
}

// ErrorText is the text shown in place of a prompt that failed to render.
func ErrorText(err error) string {
	if errors.Is(err, ErrUnknownModel) {
		return "Unknown model: " + strings.TrimPrefix(err.Error(), ErrUnknownModel.Error()+": ")
	}
	return err.Error()
}

// Execute renders req. Errors are ErrUnknownModel, *TemplateLoadError or
// *TemplateRuntimeError.
func (r *Renderer) Execute(req Request) (out string, err error) {
	p, err := r.registry.Get(req.Model)
	if err != nil {
		return "", err
	}
	tpl, err := r.loader.Load(p.Template)
	if err != nil {
		r.log.Warn("template load failed", "model", p.Key, "template", p.Template, "error", err)
		return "", err
	}

	defer func() {
		if v := recover(); v != nil {
			out = ""
			err = &TemplateRuntimeError{Ref: p.Template, Err: fmt.Errorf("panic: %v", v)}
		}
	}()

	var b strings.Builder
	if err := tpl.Execute(&b, BuildContext(p, req)); err != nil {
		r.log.Debug("template execution failed", "model", p.Key, "error", err)
		return "", &TemplateRuntimeError{Ref: p.Template, Err: err}
	}
	return b.String(), nil
}

// BuildContext assembles the template context for p. Messages are
// normalized here; the request itself is not modified.
func BuildContext(p profile.Profile, req Request) map[string]any {
	ctx := map[string]any{
		"messages":              chat.Normalize(req.Messages),
		"tools":                 nil,
		"add_generation_prompt": req.AddGenerationPrompt,
		"bos_token":             p.BOS,
		"eos_token":             p.EOS,
	}
	if len(req.Tools) > 0 {
		ctx["tools"] = chat.CloneTools(req.Tools)
	}
	for k, v := range p.Vars {
		ctx[k] = v
	}
	for k, v := range req.Vars {
		ctx[k] = v
	}
	return ctx
}
