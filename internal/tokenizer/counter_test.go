package tokenizer

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeFixture(t *testing.T, dir, id string) {
	t.Helper()
	root := filepath.Join(dir, filepath.FromSlash(id))
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "tokenizer.json"), []byte(fixtureJSON), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCounterCountsWithLocalTokenizer(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFixture(t, dir, "acme/tiny")

	c := NewCounter(dir, nil)
	if got := c.Count("<|im_start|>hi hi", "acme/tiny"); got != 3 {
		t.Fatalf("Count = %d, want 3", got)
	}
	if got := c.Count("", "acme/tiny"); got != 0 {
		t.Fatalf("empty text counted %d tokens", got)
	}
}

func TestCounterUnavailableTokenizerIsZero(t *testing.T) {
	t.Parallel()
	c := NewCounter(t.TempDir(), nil)
	for _, id := range []string{"", "missing/model", "../escape"} {
		if got := c.Count("hello", id); got != 0 {
			t.Fatalf("Count with %q = %d, want 0", id, got)
		}
		if _, err := c.Tokenizer(id); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("Tokenizer(%q) error = %v, want ErrUnavailable", id, err)
		}
	}

	noDir := NewCounter("", nil)
	if got := noDir.Count("hello", "acme/tiny"); got != 0 {
		t.Fatalf("Count without a directory = %d, want 0", got)
	}
}

func TestCounterLoadsOncePerID(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFixture(t, dir, "acme/tiny")
	c := NewCounter(dir, nil)

	var wg sync.WaitGroup
	toks := make([]Tokenizer, 8)
	for i := range toks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := c.Tokenizer("acme/tiny")
			if err != nil {
				t.Errorf("load: %v", err)
				return
			}
			toks[i] = tok
		}(i)
	}
	wg.Wait()
	for _, tok := range toks[1:] {
		if tok != toks[0] {
			t.Fatal("tokenizer loaded more than once")
		}
	}

	// a later failure on disk does not evict the cached tokenizer
	if err := os.RemoveAll(filepath.Join(dir, "acme")); err != nil {
		t.Fatal(err)
	}
	if got := c.Count("hi", "acme/tiny"); got != 1 {
		t.Fatalf("Count after removal = %d, want 1", got)
	}
}
