package tplparser

import (
	"testing"

	"github.com/samcharles93/promptlens/internal/chat"
)

func TestMessageIndexHelpers(t *testing.T) {
	t.Parallel()
	msgs := []chat.Message{
		{Role: "system", Content: chat.Ptr("s")},
		{Role: "user", Content: chat.Ptr("question")},
		{Role: "assistant", Content: chat.Ptr("a")},
		{Role: "user", Content: chat.Ptr("<tool_response>\nx\n</tool_response>")},
	}
	if got := lastIndexOfRole(msgs, "user"); got != 3 {
		t.Fatalf("lastIndexOfRole(user) = %d, want 3", got)
	}
	if got := lastIndexOfRole(msgs, "tool"); got != -1 {
		t.Fatalf("lastIndexOfRole(tool) = %d, want -1", got)
	}
	if got := lastQueryIndex(msgs); got != 1 {
		t.Fatalf("lastQueryIndex = %d, want 1", got)
	}
	if got := lastQueryIndex(nil); got != -1 {
		t.Fatalf("lastQueryIndex(nil) = %d, want -1", got)
	}
}

func TestRaiseException(t *testing.T) {
	t.Parallel()
	_, err := raiseException("boom")
	raised, ok := err.(*RaisedError)
	if !ok || raised.Message != "boom" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestFuncMapIncludesSprig(t *testing.T) {
	t.Parallel()
	fm := FuncMap()
	for _, name := range []string{"raise_exception", "tojson", "splitReasoning", "lastIndexOfRole", "trim", "hasKey", "regexReplaceAll"} {
		if _, ok := fm[name]; !ok {
			t.Fatalf("missing template func %q", name)
		}
	}
}
