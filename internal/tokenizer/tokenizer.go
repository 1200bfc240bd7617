// Package tokenizer counts tokens for a prompt under a model's tokenizer.
// Tokenizers are identified by an opaque id: a directory under the
// tokenizers root holding a Hugging Face tokenizer.json, or
// "tiktoken:<encoding>".
package tokenizer

import "errors"

// Tokenizer defines the minimal interface used for counting.
type Tokenizer interface {
	Encode(text string) ([]int, error)
}

// ErrUnavailable is returned when a tokenizer id cannot be loaded.
var ErrUnavailable = errors.New("tokenizer unavailable")
