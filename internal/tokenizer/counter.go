package tokenizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samcharles93/promptlens/internal/logger"
)

// Counter loads tokenizers on demand and keeps one per id for its lifetime.
// Each id is loaded at most once, even under concurrent use.
type Counter struct {
	dir string
	log logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once sync.Once
	tok  Tokenizer
	err  error
}

// NewCounter returns a counter resolving Hugging Face ids under dir.
func NewCounter(dir string, log logger.Logger) *Counter {
	if log == nil {
		log = logger.Discard()
	}
	return &Counter{dir: dir, log: log, entries: make(map[string]*entry)}
}

// Dir returns the tokenizers root.
func (c *Counter) Dir() string { return c.dir }

// Count returns the number of tokens in text, or 0 when the tokenizer is
// unavailable or encoding fails.
func (c *Counter) Count(text, tokenizerID string) (n int) {
	if text == "" {
		return 0
	}
	tok, err := c.Tokenizer(tokenizerID)
	if err != nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Debug("token count panicked", "tokenizer", tokenizerID, "panic", r)
			n = 0
		}
	}()
	ids, err := tok.Encode(text)
	if err != nil {
		c.log.Debug("token count failed", "tokenizer", tokenizerID, "error", err)
		return 0
	}
	return len(ids)
}

// Tokenizer returns the tokenizer for id, loading it on first use. A failed
// load is remembered.
func (c *Counter) Tokenizer(id string) (Tokenizer, error) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{}
		c.entries[id] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.tok, e.err = c.load(id)
		if e.err != nil {
			c.log.Warn("tokenizer unavailable", "tokenizer", id, "error", e.err)
		} else {
			c.log.Debug("tokenizer loaded", "tokenizer", id)
		}
	})
	return e.tok, e.err
}

func (c *Counter) load(id string) (Tokenizer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrUnavailable)
	}
	if enc, ok := strings.CutPrefix(id, tiktokenPrefix); ok {
		tok, err := LoadTiktoken(enc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, id, err)
		}
		return tok, nil
	}
	if c.dir == "" {
		return nil, fmt.Errorf("%w: %s: no tokenizers directory", ErrUnavailable, id)
	}
	if !filepath.IsLocal(id) {
		return nil, fmt.Errorf("%w: %s: invalid id", ErrUnavailable, id)
	}

	root := filepath.Join(c.dir, filepath.FromSlash(id))
	tokJSON := filepath.Join(root, "tokenizer.json")
	if _, err := os.Stat(tokJSON); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, id, err)
	}
	tokConfig := filepath.Join(root, "tokenizer_config.json")
	if _, err := os.Stat(tokConfig); err != nil {
		tokConfig = ""
	}
	tok, err := LoadHFTokenizer(tokJSON, tokConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, id, err)
	}
	return tok, nil
}
