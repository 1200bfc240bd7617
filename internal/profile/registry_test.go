package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinRegistry(t *testing.T) {
	t.Parallel()
	r, err := Builtin()
	require.NoError(t, err)
	require.Equal(t, []string{"deepseek-v3.1", "qwen3", "glm-4.5", "minimax-m2"}, r.Keys())
	require.Equal(t, "qwen3", r.Default())

	qwen, ok := r.Lookup("qwen3")
	require.True(t, ok)
	require.Equal(t, "<|im_end|>", qwen.EOS)
	require.Equal(t, "qwen3.tmpl", qwen.Template)
	require.Equal(t, true, qwen.Vars["enable_thinking"])
	require.Equal(t, Pattern, qwen.Rules[0].Kind)
	require.Equal(t, Boundary, qwen.Rules[0].Category)
	require.Equal(t, Literal, qwen.Rules[5].Kind)
	require.Equal(t, Reasoning, qwen.Rules[5].Category)

	glm, _ := r.Lookup("glm-4.5")
	require.Equal(t, ToolArgument, glm.Rules[len(glm.Rules)-1].Category)

	mm, _ := r.Lookup("minimax-m2")
	require.NotNil(t, mm.Vars)
	require.Empty(t, mm.Vars)
}

func TestEveryBuiltinRuleHonoursLiteralInvariant(t *testing.T) {
	t.Parallel()
	r, err := Builtin()
	require.NoError(t, err)
	for _, p := range r.Profiles() {
		require.NotEmpty(t, p.Rules, p.Key)
		for _, rule := range p.Rules {
			require.Equal(t, IsLiteral(rule.Text), rule.Kind == Literal, "%s %s", p.Key, rule)
		}
	}
}

func TestInferRule(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text string
		want RuleKind
	}{
		{"<think>", Literal},
		{"<｜User｜>", Literal},
		{`<\|im_start\|>`, Pattern},
		{"<invoke[^>]*>", Pattern},
		{"a.b", Pattern},
		{"x+", Pattern},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, InferRule(tc.text, Role).Kind, tc.text)
	}
}

func TestParseCategoryAliases(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Category{
		"bos_eos":       Boundary,
		"think":         Reasoning,
		"func":          Tool,
		"dsml":          ToolArgument,
		"Tool-Argument": ToolArgument,
		"role":          Role,
	} {
		got, err := ParseCategory(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
	_, err := ParseCategory("plain")
	require.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestParseRejectsBadRules(t *testing.T) {
	t.Parallel()
	for _, doc := range []string{
		"models: [{key: a, template: a.tmpl, rules: [{pattern: x, category: nope}]}]",
		"models: [{key: a, template: a.tmpl, rules: [{pattern: x, literal: y, category: role}]}]",
		"models: [{key: a, template: a.tmpl, rules: [{literal: 'a|b', category: role}]}]",
		"models: [{key: a}]",
		"models: [{template: a.tmpl}]",
	} {
		_, _, err := Parse([]byte(doc), "yaml")
		require.Error(t, err, doc)
	}
}

func TestLoadMergesExtraTOML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "extra.toml")
	doc := `
default = "toy"

[[models]]
key = "toy"
template = "toy.tmpl"
bos_token = "<s>"

  [models.vars]
  verbose = true

  [[models.rules]]
  literal = "<s>"
  category = "boundary"

  [[models.rules]]
  regex = "</?role>"
  category = "role"

[[models]]
key = "qwen3"
name = "Qwen3 (patched)"
template = "qwen3.tmpl"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "toy", r.Default())
	require.Equal(t, []string{"deepseek-v3.1", "qwen3", "glm-4.5", "minimax-m2", "toy"}, r.Keys())

	toy, ok := r.Lookup("toy")
	require.True(t, ok)
	require.Len(t, toy.Rules, 2)
	require.Equal(t, Pattern, toy.Rules[1].Kind)
	require.Equal(t, true, toy.Vars["verbose"])

	qwen, _ := r.Lookup("qwen3")
	require.Equal(t, "Qwen3 (patched)", qwen.Name)
}

func TestGetSuggestsClosestKey(t *testing.T) {
	t.Parallel()
	r, err := Builtin()
	require.NoError(t, err)

	_, err = r.Get("qwen")
	require.True(t, errors.Is(err, ErrUnknownModel))
	require.Contains(t, err.Error(), `did you mean "qwen3"`)

	_, err = r.Get("zzzz")
	require.EqualError(t, err, "unknown model: zzzz")
}

func TestDefaultVarsIsACopy(t *testing.T) {
	t.Parallel()
	p := Profile{Vars: map[string]any{"thinking": true}}
	v := p.DefaultVars()
	v["thinking"] = false
	require.Equal(t, true, p.Vars["thinking"])
}
