package reasoning

import "testing"

func TestSplit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want Parts
	}{
		{
			name: "no tags",
			in:   "plain answer",
			want: Parts{Content: "plain answer"},
		},
		{
			name: "think block",
			in:   "<think>\nweigh options\n</think>\n\nanswer",
			want: Parts{Content: "answer", Reasoning: "weigh options"},
		},
		{
			name: "prefilled open tag",
			in:   "only reasoning</think>answer",
			want: Parts{Content: "answer", Reasoning: "only reasoning"},
		},
		{
			name: "open without close stays content",
			in:   "<think>unfinished",
			want: Parts{Content: "<think>unfinished"},
		},
		{
			name: "multiple blocks keep first reasoning and last content",
			in:   "<think>a</think>mid<think>b</think>end",
			want: Parts{Content: "end", Reasoning: "a"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Split(tc.in); got != tc.want {
				t.Fatalf("Split(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestResolvePrefersExplicitReasoning(t *testing.T) {
	t.Parallel()
	got := Resolve("explicit", "<think>inline</think>answer")
	want := Parts{Content: "answer", Reasoning: "explicit"}
	if got != want {
		t.Fatalf("Resolve = %#v, want %#v", got, want)
	}

	got = Resolve("  ", "<think>inline</think>answer")
	if got.Reasoning != "inline" {
		t.Fatalf("blank explicit reasoning should fall back to inline, got %#v", got)
	}
}

func TestHasOpenBlock(t *testing.T) {
	t.Parallel()
	if !HasOpenBlock("<|im_start|>assistant\n<think>\n") {
		t.Fatal("expected open block")
	}
	if HasOpenBlock("<think></think>") || HasOpenBlock("none") {
		t.Fatal("expected closed block")
	}
}
