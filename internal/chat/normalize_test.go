package chat

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestNormalizeParsesStringArguments(t *testing.T) {
	t.Parallel()
	in := []Message{{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{{
			Type:     "function",
			Function: FunctionCall{Name: "search", Arguments: `{"query": "sky", "limit": 3}`},
		}},
	}}

	out := Normalize(in)
	args, ok := out[0].ToolCalls[0].Function.Arguments.(Object)
	require.True(t, ok, "arguments should be an object, got %T", out[0].ToolCalls[0].Function.Arguments)
	require.Equal(t, Object{{Key: "query", Value: "sky"}, {Key: "limit", Value: json.Number("3")}}, args)

	// input is left alone
	require.IsType(t, "", in[0].ToolCalls[0].Function.Arguments)
}

func TestNormalizeInvalidArgumentsBecomeEmpty(t *testing.T) {
	t.Parallel()
	cases := []any{`{not json`, `[1, 2]`, `"just a string"`, nil, `{} trailing`}
	for _, raw := range cases {
		in := []Message{
			{Role: RoleUser, Content: Ptr("hi")},
			{Role: RoleAssistant, ToolCalls: []ToolCall{{Function: FunctionCall{Name: "f", Arguments: raw}}}},
		}
		out := Normalize(in)
		require.Equal(t, Object{}, out[1].ToolCalls[0].Function.Arguments, "input %#v", raw)
		require.Equal(t, "hi", out[0].Text())
	}
}

func TestNormalizeDeepCopiesMapArguments(t *testing.T) {
	t.Parallel()
	nested := map[string]any{"filters": map[string]any{"lang": "en"}}
	in := []Message{{Role: RoleAssistant, ToolCalls: []ToolCall{{Function: FunctionCall{Name: "f", Arguments: nested}}}}}

	out := Normalize(in)
	got := out[0].ToolCalls[0].Function.Arguments.(Object)
	filters, _ := got.Get("filters")
	require.Equal(t, Object{{Key: "lang", Value: "en"}}, filters)

	inner := filters.(Object)
	inner.Set("lang", "fr")
	require.Equal(t, "en", nested["filters"].(map[string]any)["lang"])

	ordered := Object{{Key: "b", Value: Object{{Key: "x", Value: "1"}}}, {Key: "a", Value: "2"}}
	in[0].ToolCalls[0].Function.Arguments = ordered
	out = Normalize(in)
	copied := out[0].ToolCalls[0].Function.Arguments.(Object)
	require.Equal(t, ordered, copied)
	b, _ := copied.Get("b")
	innerB := b.(Object)
	innerB.Set("x", "changed")
	orig, _ := ordered.Get("b")
	require.Equal(t, Object{{Key: "x", Value: "1"}}, orig)
}

func TestParseArgumentsReportsError(t *testing.T) {
	t.Parallel()
	_, err := ParseArguments("42")
	require.True(t, errors.Is(err, ErrArgumentParse))

	args, err := ParseArguments(struct {
		Query string `json:"query"`
	}{Query: "x"})
	require.NoError(t, err)
	require.Equal(t, Object{{Key: "query", Value: "x"}}, args)
}

func TestFormatArguments(t *testing.T) {
	t.Parallel()
	require.Equal(t, `{"a":1}`, FormatArguments(`{"a":1}`))
	require.Equal(t, "{\n  \"a\": 1\n}", FormatArguments(map[string]any{"a": 1}))
	require.Equal(t, "{}", FormatArguments(nil))
	require.Equal(t, "{\n  \"z\": 1,\n  \"a\": 2\n}", FormatArguments(Object{{Key: "z", Value: 1}, {Key: "a", Value: 2}}))
}

func TestDecodeJSONValue(t *testing.T) {
	t.Parallel()
	v, err := DecodeJSONValue([]byte(`{"b": [1, {"d": null, "c": true}], "a": "x", "b": 2}`))
	require.NoError(t, err)
	require.Equal(t, Object{
		{Key: "b", Value: json.Number("2")},
		{Key: "a", Value: "x"},
	}, v)

	for _, raw := range []string{``, `{"a": 1`, `{} {}`, `{1: 2}`} {
		_, err := DecodeJSONValue([]byte(raw))
		require.Error(t, err, "input %q", raw)
	}
}

func TestFunctionCallJSONKeepsArgumentOrder(t *testing.T) {
	t.Parallel()
	var fc FunctionCall
	require.NoError(t, json.Unmarshal([]byte(`{"name": "f", "arguments": {"z": 1, "a": 2}}`), &fc))
	require.Equal(t, Object{{Key: "z", Value: json.Number("1")}, {Key: "a", Value: json.Number("2")}}, fc.Arguments)

	out, err := json.Marshal(fc)
	require.NoError(t, err)
	require.Equal(t, `{"name":"f","arguments":{"z":1,"a":2}}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"name": "g", "arguments": "{\"q\": 1}"}`), &fc))
	require.Equal(t, `{"q": 1}`, fc.Arguments)
}

func TestMessageContentHelpers(t *testing.T) {
	t.Parallel()
	var m Message
	require.False(t, m.HasContent())
	require.Equal(t, "", m.Text())

	m.Content = Ptr("")
	require.False(t, m.HasContent())

	m.Content = Ptr("x")
	c := m.Clone()
	*c.Content = "y"
	require.Equal(t, "x", m.Text())
}
