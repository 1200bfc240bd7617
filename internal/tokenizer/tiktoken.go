package tokenizer

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const tiktokenPrefix = "tiktoken:"

type tiktokenEncoder struct {
	enc *tiktoken.Tiktoken
}

// LoadTiktoken returns a tokenizer for a tiktoken encoding such as
// "cl100k_base". Encoding data is fetched and cached by tiktoken-go.
func LoadTiktoken(encoding string) (Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(strings.TrimSpace(encoding))
	if err != nil {
		return nil, err
	}
	return tiktokenEncoder{enc: enc}, nil
}

// Encode treats special tokens in text as special.
func (t tiktokenEncoder) Encode(text string) ([]int, error) {
	return t.enc.Encode(text, []string{"all"}, nil), nil
}
