package api

import (
	"github.com/samcharles93/promptlens/internal/chat"
	"github.com/samcharles93/promptlens/internal/highlight"
	"github.com/samcharles93/promptlens/internal/raster"
	"github.com/samcharles93/promptlens/internal/session"
)

type ModelInfo struct {
	Key       string         `json:"key"`
	Name      string         `json:"name"`
	Template  string         `json:"template"`
	Tokenizer string         `json:"tokenizer"`
	Default   bool           `json:"default"`
	Vars      map[string]any `json:"vars,omitempty"`
}

type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// RenderReq renders a conversation statelessly. Absent messages render the
// sample conversation; absent switches default to a generation prompt with
// thinking left to the template.
type RenderReq struct {
	Model               string                `json:"model"`
	Messages            []chat.Message        `json:"messages"`
	Tools               []chat.ToolDefinition `json:"tools,omitempty"`
	AddGenerationPrompt *bool                 `json:"add_generation_prompt,omitempty"`
	EnableThinking      *bool                 `json:"enable_thinking,omitempty"`
	Vars                map[string]any        `json:"vars,omitempty"`
	Highlight           bool                  `json:"highlight,omitempty"`
}

type RenderResp struct {
	Model    string              `json:"model"`
	Prompt   string              `json:"prompt"`
	Error    string              `json:"error,omitempty"`
	Segments []highlight.Segment `json:"segments,omitempty"`
	HTML     string              `json:"html,omitempty"`
}

type TextReq struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type HighlightResp struct {
	Model    string              `json:"model"`
	Segments []highlight.Segment `json:"segments"`
	HTML     string              `json:"html"`
}

type TokensResp struct {
	Model      string `json:"model"`
	Tokenizer  string `json:"tokenizer"`
	Tokens     int    `json:"tokens"`
	Characters int    `json:"characters"`
}

type ImageReq struct {
	Model   string          `json:"model"`
	Text    string          `json:"text"`
	Options *raster.Options `json:"options,omitempty"`
}

type CreateSessionReq struct {
	Model string `json:"model"`
}

type MoveReq struct {
	Direction int `json:"direction"`
}

type ToolCallReq struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ToolsReq struct {
	JSON string `json:"json"`
}

type PromptReq struct {
	Prompt string `json:"prompt"`
}

type OptionsReq struct {
	Model               *string `json:"model,omitempty"`
	IncludeTools        *bool   `json:"include_tools,omitempty"`
	EnableThinking      *bool   `json:"enable_thinking,omitempty"`
	AddGenerationPrompt *bool   `json:"add_generation_prompt,omitempty"`
}

// apply overlays the set fields on o.
func (r OptionsReq) apply(o session.Options) session.Options {
	if r.Model != nil {
		o.Model = *r.Model
	}
	if r.IncludeTools != nil {
		o.IncludeTools = *r.IncludeTools
	}
	if r.EnableThinking != nil {
		o.EnableThinking = *r.EnableThinking
	}
	if r.AddGenerationPrompt != nil {
		o.AddGenerationPrompt = *r.AddGenerationPrompt
	}
	return o
}

type DeleteResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
