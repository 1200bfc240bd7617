package tokenizer

import (
	"testing"
)

const fixtureJSON = `{
	"added_tokens": [
		{"id": 5, "content": "<|im_start|>", "special": true},
		{"id": 6, "content": "<think>", "special": false}
	],
	"model": {
		"type": "BPE",
		"vocab": {"h": 0, "i": 1, "hi": 2, "Ġ": 3, "Ġhi": 4, "<unk>": 7},
		"merges": ["h i", ["Ġ", "hi"]],
		"unk_token": "<unk>"
	}
}`

func TestHFTokenizerEncode(t *testing.T) {
	t.Parallel()
	tok, err := LoadHFTokenizerBytes([]byte(fixtureJSON), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		text string
		want []int
	}{
		{text: "hi", want: []int{2}},
		{text: "hi hi", want: []int{2, 4}},
		{text: "<|im_start|>hi<think>", want: []int{5, 2, 6}},
		{text: "x", want: []int{7}},
	}
	for _, tt := range tests {
		got, err := tok.Encode(tt.text)
		if err != nil {
			t.Fatalf("encode %q: %v", tt.text, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("encode %q = %v, want %v", tt.text, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("encode %q = %v, want %v", tt.text, got, tt.want)
			}
		}
	}
}

func TestHFTokenizerBOSFromConfig(t *testing.T) {
	t.Parallel()
	cfg := []byte(`{"add_bos_token": true, "bos_token": "<|im_start|>"}`)
	tok, err := LoadHFTokenizerBytes([]byte(fixtureJSON), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := tok.Encode("hi")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(got) != 2 || got[0] != 5 {
		t.Fatalf("expected BOS prefix, got %v", got)
	}
}

func TestLoadHFTokenizerRejectsUnsupportedModel(t *testing.T) {
	t.Parallel()
	_, err := LoadHFTokenizerBytes([]byte(`{"model":{"type":"WordPiece","vocab":{},"merges":[]}}`), nil)
	if err == nil {
		t.Fatal("expected unsupported tokenizer model error")
	}
}

func TestHFTokenizerPostProcessorAndSplit(t *testing.T) {
	t.Parallel()
	data := `{
		"added_tokens": [{"id": 9, "content": "<s>"}],
		"pre_tokenizer": {"type": "Split", "pattern": {"Regex": "\\S+|\\s+"}},
		"post_processor": {"type": "TemplateProcessing", "special_tokens": {"<s>": {"ids": [9]}}},
		"model": {"type": "bpe", "vocab": {"h": 0, "i": 1, "hi": 2, "Ġ": 3}, "merges": ["h i"]}
	}`
	tok, err := LoadHFTokenizerBytes([]byte(data), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := tok.Encode("hi hi")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []int{9, 2, 3, 2}
	if len(got) != len(want) {
		t.Fatalf("encode = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("encode = %v, want %v", got, want)
		}
	}
}

func TestParseMerges(t *testing.T) {
	t.Parallel()
	ranks := parseMerges([]any{"#version: 0.2", "a b", []any{"a", "b"}, "c  d", []any{"x"}, "b c"})
	if len(ranks) != 2 {
		t.Fatalf("expected 2 merges, got %v", ranks)
	}
	if ranks[Pair{A: "a", B: "b"}] != 0 || ranks[Pair{A: "b", B: "c"}] != 1 {
		t.Fatalf("unexpected ranks: %v", ranks)
	}
}

func TestByteEncode(t *testing.T) {
	t.Parallel()
	if got := byteEncode(" a\n"); got != "ĠaĊ" {
		t.Fatalf("byteEncode = %q", got)
	}
}
