// Package session holds the editable state behind one preview: the
// conversation, the tool definitions, render options and an optional
// hand-edited prompt. Every edit to the conversation or the options drops
// the edited prompt so the preview follows the rendered one again.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/samcharles93/promptlens/internal/chat"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrIndex      = errors.New("index out of range")
	ErrInvalidArg = errors.New("invalid argument")
)

// Options are the render switches of a session.
type Options struct {
	Model               string `json:"model"`
	IncludeTools        bool   `json:"include_tools"`
	EnableThinking      bool   `json:"enable_thinking"`
	AddGenerationPrompt bool   `json:"add_generation_prompt"`
}

// Session is the state of one preview.
type Session struct {
	ID string `json:"id"`
	Options

	Messages  []chat.Message        `json:"messages"`
	Tools     []chat.ToolDefinition `json:"tools"`
	ToolsJSON string                `json:"tools_json"`

	EditedPrompt *string `json:"edited_prompt,omitempty"`
	UseEdited    bool    `json:"use_edited"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns a session seeded with the sample conversation and tools.
func New(model string) *Session {
	tools := chat.DefaultTools()
	return &Session{
		Options: Options{
			Model:               model,
			IncludeTools:        false,
			EnableThinking:      true,
			AddGenerationPrompt: true,
		},
		Messages:  chat.DefaultMessages(),
		Tools:     tools,
		ToolsJSON: formatTools(tools),
	}
}

func formatTools(tools []chat.ToolDefinition) string {
	raw, err := json.Marshal(tools)
	if err != nil {
		return "[]"
	}
	var b bytes.Buffer
	if err := json.Indent(&b, raw, "", "  "); err != nil {
		return string(raw)
	}
	return b.String()
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	out := *s
	out.Messages = chat.CloneMessages(s.Messages)
	out.Tools = chat.CloneTools(s.Tools)
	if s.EditedPrompt != nil {
		p := *s.EditedPrompt
		out.EditedPrompt = &p
	}
	return &out
}

func (s *Session) touched() { s.UseEdited = false }

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.Messages) {
		return fmt.Errorf("%w: message %d of %d", ErrIndex, i, len(s.Messages))
	}
	return nil
}

// AddMessage appends an empty user message.
func (s *Session) AddMessage() {
	s.Messages = append(s.Messages, chat.Message{Role: chat.RoleUser, Content: chat.Ptr("")})
	s.touched()
}

// SetMessage replaces message i.
func (s *Session) SetMessage(i int, msg chat.Message) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if !validRole(msg.Role) {
		return fmt.Errorf("%w: role %q", ErrInvalidArg, msg.Role)
	}
	s.Messages[i] = msg.Clone()
	s.touched()
	return nil
}

// DeleteMessage removes message i. The last remaining message is never
// removed; it reports whether anything changed.
func (s *Session) DeleteMessage(i int) (bool, error) {
	if err := s.checkIndex(i); err != nil {
		return false, err
	}
	if len(s.Messages) <= 1 {
		return false, nil
	}
	s.Messages = append(s.Messages[:i], s.Messages[i+1:]...)
	s.touched()
	return true, nil
}

// MoveMessage swaps message i with its neighbour in direction dir (-1 up,
// +1 down). Moves past either end are ignored.
func (s *Session) MoveMessage(i, dir int) (bool, error) {
	if err := s.checkIndex(i); err != nil {
		return false, err
	}
	j := i + dir
	if j < 0 || j >= len(s.Messages) {
		return false, nil
	}
	s.Messages[i], s.Messages[j] = s.Messages[j], s.Messages[i]
	s.touched()
	return true, nil
}

// AddToolCall appends a blank function call to message i.
func (s *Session) AddToolCall(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.Messages[i].ToolCalls = append(s.Messages[i].ToolCalls, chat.ToolCall{
		Type:     "function",
		Function: chat.FunctionCall{Arguments: chat.Object{}},
	})
	s.touched()
	return nil
}

// SetToolCall updates the name and arguments of call j on message i.
// Arguments must be a JSON object; on error nothing changes.
func (s *Session) SetToolCall(i, j int, name, arguments string) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	calls := s.Messages[i].ToolCalls
	if j < 0 || j >= len(calls) {
		return fmt.Errorf("%w: tool call %d of %d", ErrIndex, j, len(calls))
	}
	args, err := chat.ParseArguments(arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	calls[j].Function.Name = name
	calls[j].Function.Arguments = args
	s.touched()
	return nil
}

// RemoveToolCall drops call j from message i.
func (s *Session) RemoveToolCall(i, j int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	calls := s.Messages[i].ToolCalls
	if j < 0 || j >= len(calls) {
		return fmt.Errorf("%w: tool call %d of %d", ErrIndex, j, len(calls))
	}
	s.Messages[i].ToolCalls = append(calls[:j], calls[j+1:]...)
	s.touched()
	return nil
}

// SetTools stores the editor text and, when it parses, the tool list.
// Blank text means no tools. The text is kept even when it does not parse.
func (s *Session) SetTools(raw string) error {
	s.ToolsJSON = raw
	if strings.TrimSpace(raw) == "" {
		s.Tools = []chat.ToolDefinition{}
		s.touched()
		return nil
	}
	tools, err := chat.DecodeTools([]byte(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}
	s.Tools = tools
	s.touched()
	return nil
}

// SetOptions replaces the render options.
func (s *Session) SetOptions(o Options) {
	s.Options = o
	s.touched()
}

// EditPrompt pins a hand-edited prompt in place of the rendered one.
func (s *Session) EditPrompt(text string) {
	s.EditedPrompt = &text
	s.UseEdited = true
}

// ResetPrompt drops the edited prompt.
func (s *Session) ResetPrompt() {
	s.EditedPrompt = nil
	s.UseEdited = false
}

// Display returns the prompt to show: the edited prompt when pinned,
// otherwise rendered. The flag reports whether the edited prompt was used.
func (s *Session) Display(rendered string) (string, bool) {
	if s.UseEdited && s.EditedPrompt != nil {
		return *s.EditedPrompt, true
	}
	return rendered, false
}

func validRole(role string) bool {
	for _, r := range chat.Roles {
		if r == role {
			return true
		}
	}
	return false
}
