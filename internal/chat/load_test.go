package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeConversationJSONArray(t *testing.T) {
	t.Parallel()
	conv, err := DecodeConversation([]byte(`[
		{"role": "system", "content": "be brief"},
		{"role": "assistant", "content": null, "tool_calls": [
			{"type": "function", "function": {"name": "search", "arguments": "{\"q\": 1}"}}
		]}
	]`))
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	require.Nil(t, conv.Tools)
	require.Equal(t, "be brief", conv.Messages[0].Text())
	require.Nil(t, conv.Messages[1].Content)
	require.Equal(t, `{"q": 1}`, conv.Messages[1].ToolCalls[0].Function.Arguments)
}

func TestDecodeConversationYAMLObject(t *testing.T) {
	t.Parallel()
	doc := `
messages:
  - role: user
    content: hello
  - role: tool
    name: search
    content: result
tools:
  - type: function
    function:
      name: search
`
	conv, err := DecodeConversation([]byte(doc))
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, "search", conv.Messages[1].Name)
	require.Len(t, conv.Tools, 1)
	require.Equal(t, "search", conv.Tools[0].Function.Name)
}

func TestDecodeConversationKeepsMemberOrder(t *testing.T) {
	t.Parallel()
	conv, err := DecodeConversation([]byte(`{
		"messages": [{"role": "assistant", "tool_calls": [
			{"type": "function", "function": {"name": "f", "arguments": {"zeta": 1, "alpha": {"y": 2, "b": 3}}}}
		]}],
		"tools": [{"type": "function", "function": {"name": "f", "parameters": {"type": "object", "properties": {}, "required": []}}}]
	}`))
	require.NoError(t, err)

	args, ok := conv.Messages[0].ToolCalls[0].Function.Arguments.(Object)
	require.True(t, ok, "got %T", conv.Messages[0].ToolCalls[0].Function.Arguments)
	require.Equal(t, []string{"zeta", "alpha"}, args.Keys())
	nested, _ := args.Get("alpha")
	require.Equal(t, []string{"y", "b"}, nested.(Object).Keys())

	require.NotNil(t, conv.Tools[0].Function.Parameters)
	require.Equal(t, []string{"type", "properties", "required"}, conv.Tools[0].Function.Parameters.Keys())

	yamlConv, err := DecodeConversation([]byte("messages:\n  - role: user\n    content: hi\ntools:\n  - type: function\n    function:\n      name: f\n      parameters:\n        type: object\n        required: []\n        properties: {}\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"type", "required", "properties"}, yamlConv.Tools[0].Function.Parameters.Keys())
}

func TestDecodeConversationErrors(t *testing.T) {
	t.Parallel()
	for _, doc := range []string{
		``,
		`{"tools": []}`,
		`{"messages": "nope"}`,
		`[{"content": "no role"}]`,
		`42`,
	} {
		_, err := DecodeConversation([]byte(doc))
		require.Error(t, err, "document %q", doc)
	}
}

func TestDecodeTools(t *testing.T) {
	t.Parallel()
	tools, err := DecodeTools([]byte(`{"tools": [{"type": "function"}]}`))
	require.NoError(t, err)
	require.Len(t, tools, 1)

	_, err = DecodeTools([]byte(`[1]`))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "conv.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"messages": [{"role": "user", "content": "hi"}]}`), 0o644))

	conv, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hi", conv.Messages[0].Text())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestDefaultConversation(t *testing.T) {
	t.Parallel()
	conv := DefaultConversation()
	require.Len(t, conv.Messages, 5)
	require.Len(t, conv.Tools, 1)
	require.Nil(t, conv.Messages[2].Content)
	require.Equal(t, "search", conv.Messages[2].ToolCalls[0].Function.Name)
}
