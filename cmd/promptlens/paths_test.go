package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInput(t *testing.T) {
	t.Run("stdin dash", func(t *testing.T) {
		got, err := readInput("-", strings.NewReader("from stdin"))
		if err != nil {
			t.Fatalf("readInput returned error: %v", err)
		}
		if string(got) != "from stdin" {
			t.Fatalf("unexpected input: %q", got)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conv.json")
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		got, err := readInput(path, nil)
		if err != nil {
			t.Fatalf("readInput returned error: %v", err)
		}
		if string(got) != "[]" {
			t.Fatalf("unexpected input: %q", got)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := readInput("  ", nil); err == nil {
			t.Fatalf("expected error for empty path")
		}
	})
}

func TestLoadConversation(t *testing.T) {
	t.Run("defaults to sample conversation", func(t *testing.T) {
		conv, err := loadConversation("", "", nil)
		if err != nil {
			t.Fatalf("loadConversation returned error: %v", err)
		}
		if len(conv.Messages) != 5 || len(conv.Tools) != 1 {
			t.Fatalf("unexpected sample conversation: %d messages, %d tools", len(conv.Messages), len(conv.Tools))
		}
	})

	t.Run("yaml from stdin with tools file", func(t *testing.T) {
		tools := filepath.Join(t.TempDir(), "tools.json")
		if err := os.WriteFile(tools, []byte(`[{"type":"function","function":{"name":"a"}},{"type":"function","function":{"name":"b"}}]`), 0o644); err != nil {
			t.Fatalf("write tools: %v", err)
		}
		stdin := bytes.NewBufferString("- role: user\n  content: hi\n")
		conv, err := loadConversation("-", tools, stdin)
		if err != nil {
			t.Fatalf("loadConversation returned error: %v", err)
		}
		if len(conv.Messages) != 1 || conv.Messages[0].Text() != "hi" {
			t.Fatalf("unexpected messages: %+v", conv.Messages)
		}
		if len(conv.Tools) != 2 {
			t.Fatalf("expected tools from file, got %d", len(conv.Tools))
		}
	})

	t.Run("invalid tools file", func(t *testing.T) {
		tools := filepath.Join(t.TempDir(), "tools.json")
		if err := os.WriteFile(tools, []byte(`{"nope": 1}`), 0o644); err != nil {
			t.Fatalf("write tools: %v", err)
		}
		if _, err := loadConversation("", tools, nil); err == nil {
			t.Fatalf("expected error for tools object without tools field")
		}
	})
}

func TestReadText(t *testing.T) {
	got, err := readText("", []string{"<s>", "hi"}, strings.NewReader("ignored"))
	if err != nil || got != "<s> hi" {
		t.Fatalf("args: got %q, %v", got, err)
	}
	got, err = readText("", nil, strings.NewReader("piped"))
	if err != nil || got != "piped" {
		t.Fatalf("stdin: got %q, %v", got, err)
	}
}

func TestANSIFormatter(t *testing.T) {
	prevTTY := stdoutIsTTY
	defer func() { stdoutIsTTY = prevTTY }()
	t.Setenv("NO_COLOR", "")

	stdoutIsTTY = func() bool { return false }
	if got := ansiFormatter("auto", "terminal16m"); got != "noop" {
		t.Fatalf("auto without tty: got %q", got)
	}
	if got := ansiFormatter("always", "terminal256"); got != "terminal256" {
		t.Fatalf("always: got %q", got)
	}

	stdoutIsTTY = func() bool { return true }
	if got := ansiFormatter("auto", "terminal16m"); got != "terminal16m" {
		t.Fatalf("auto with tty: got %q", got)
	}
	if got := ansiFormatter("never", "terminal16m"); got != "noop" {
		t.Fatalf("never: got %q", got)
	}
	t.Setenv("NO_COLOR", "1")
	if got := ansiFormatter("auto", "terminal16m"); got != "noop" {
		t.Fatalf("NO_COLOR: got %q", got)
	}
}
