package tokenizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/goccy/go-json"
)

// gpt2Pattern is used when tokenizer.json carries no Split pre-tokenizer.
const gpt2Pattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// tokenizerFile is the subset of tokenizer.json needed to count tokens.
type tokenizerFile struct {
	Model struct {
		Type         string         `json:"type"`
		Vocab        map[string]int `json:"vocab"`
		Merges       []any          `json:"merges"`
		IgnoreMerges bool           `json:"ignore_merges"`
		UnkToken     string         `json:"unk_token"`
	} `json:"model"`
	PreTokenizer struct {
		Type          string       `json:"type"`
		Pattern       splitPattern `json:"pattern"`
		Pretokenizers []struct {
			Type    string       `json:"type"`
			Pattern splitPattern `json:"pattern"`
		} `json:"pretokenizers"`
	} `json:"pre_tokenizer"`
	PostProcessor struct {
		postProcessor
		Processors []postProcessor `json:"processors"`
	} `json:"post_processor"`
	AddedTokens []struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
	} `json:"added_tokens"`
}

type postProcessor struct {
	Type          string `json:"type"`
	SpecialTokens map[string]struct {
		IDs []int `json:"ids"`
	} `json:"special_tokens"`
}

type splitPattern struct {
	Regex string `json:"Regex"`
}

// splitRegex returns the first Split pre-tokenizer pattern, either the
// top-level one or the first inside a Sequence.
func (f *tokenizerFile) splitRegex() string {
	pre := f.PreTokenizer
	if pre.Type == "Split" && pre.Pattern.Regex != "" {
		return pre.Pattern.Regex
	}
	for _, p := range pre.Pretokenizers {
		if p.Type == "Split" && p.Pattern.Regex != "" {
			return p.Pattern.Regex
		}
	}
	return ""
}

type tokenizerConfig struct {
	AddBOS bool   `json:"add_bos_token"`
	AddEOS bool   `json:"add_eos_token"`
	BOS    string `json:"bos_token"`
	EOS    string `json:"eos_token"`
}

// HFTokenizer encodes text with a byte-level BPE tokenizer.json. Added
// tokens are always matched whole, before pre-tokenization.
type HFTokenizer struct {
	vocab  map[string]int
	model  *bpe
	split  *regexp2.Regexp
	added  []string
	unkID  int
	prefix []int
	suffix []int
}

// LoadHFTokenizer reads tokenizer.json and, when tokConfig names a readable
// file, the tokenizer_config.json that controls BOS/EOS insertion.
func LoadHFTokenizer(tokJSON, tokConfig string) (*HFTokenizer, error) {
	data, err := os.ReadFile(tokJSON)
	if err != nil {
		return nil, err
	}
	var cfg []byte
	if tokConfig != "" {
		cfg, _ = os.ReadFile(tokConfig)
	}
	return LoadHFTokenizerBytes(data, cfg)
}

// LoadHFTokenizerBytes is LoadHFTokenizer over in-memory files. A nil
// config means no BOS/EOS insertion beyond the post-processor's.
func LoadHFTokenizerBytes(tokJSON, tokConfig []byte) (*HFTokenizer, error) {
	var f tokenizerFile
	if err := json.Unmarshal(tokJSON, &f); err != nil {
		return nil, fmt.Errorf("parse tokenizer.json: %w", err)
	}
	if !strings.EqualFold(f.Model.Type, "BPE") {
		return nil, fmt.Errorf("unsupported tokenizer model: %q", f.Model.Type)
	}

	vocab := make(map[string]int, len(f.Model.Vocab)+len(f.AddedTokens))
	for tok, id := range f.Model.Vocab {
		vocab[tok] = id
	}
	added := make([]string, 0, len(f.AddedTokens))
	for _, at := range f.AddedTokens {
		if at.Content == "" {
			continue
		}
		vocab[at.Content] = at.ID
		added = append(added, at.Content)
	}

	pattern := f.splitRegex()
	if pattern == "" {
		pattern = gpt2Pattern
	}
	split, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile pre-tokenizer pattern: %w", err)
	}

	t := &HFTokenizer{
		vocab: vocab,
		model: newBPE(vocab, parseMerges(f.Model.Merges), f.Model.IgnoreMerges),
		split: split,
		added: added,
		unkID: -1,
	}
	if id, ok := vocab[f.Model.UnkToken]; ok && f.Model.UnkToken != "" {
		t.unkID = id
	}
	t.setBoundaries(&f, tokConfig)
	return t, nil
}

// setBoundaries decides the ids wrapped around every encoding. A
// TemplateProcessing post-processor wins over tokenizer_config.json for the
// BOS side.
func (t *HFTokenizer) setBoundaries(f *tokenizerFile, rawConfig []byte) {
	var cfg tokenizerConfig
	if len(rawConfig) > 0 {
		_ = json.Unmarshal(rawConfig, &cfg)
	}
	if id, ok := t.vocab[cfg.BOS]; ok && cfg.AddBOS && cfg.BOS != "" {
		t.prefix = []int{id}
	}
	if id, ok := t.vocab[cfg.EOS]; ok && cfg.AddEOS && cfg.EOS != "" {
		t.suffix = []int{id}
	}
	procs := append([]postProcessor{f.PostProcessor.postProcessor}, f.PostProcessor.Processors...)
	for _, proc := range procs {
		if proc.Type != "TemplateProcessing" {
			continue
		}
		for _, spec := range proc.SpecialTokens {
			if len(spec.IDs) > 0 {
				t.prefix = []int{spec.IDs[0]}
				return
			}
		}
	}
}

// Encode returns the token ids for text.
func (t *HFTokenizer) Encode(text string) ([]int, error) {
	ids := append([]int(nil), t.prefix...)
	for text != "" {
		before, special, after := t.cutAdded(text)
		var err error
		if ids, err = t.appendPlain(ids, before); err != nil {
			return nil, err
		}
		if special != "" {
			ids = append(ids, t.vocab[special])
		}
		text = after
	}
	return append(ids, t.suffix...), nil
}

// cutAdded splits text around its leftmost added token, preferring the
// longest token at that position. Without a match all of text is before.
func (t *HFTokenizer) cutAdded(text string) (before, special, after string) {
	at := -1
	for _, tok := range t.added {
		i := strings.Index(text, tok)
		if i < 0 {
			continue
		}
		if at < 0 || i < at || (i == at && len(tok) > len(special)) {
			at, special = i, tok
		}
	}
	if at < 0 {
		return text, "", ""
	}
	return text[:at], special, text[at+len(special):]
}

func (t *HFTokenizer) appendPlain(ids []int, text string) ([]int, error) {
	if text == "" {
		return ids, nil
	}
	m, err := t.split.FindStringMatch(text)
	for m != nil {
		for _, sym := range t.model.symbols(byteEncode(m.String())) {
			id, ok := t.vocab[sym]
			switch {
			case ok:
				ids = append(ids, id)
			case t.unkID >= 0:
				ids = append(ids, t.unkID)
			default:
				return nil, fmt.Errorf("unknown token: %q", sym)
			}
		}
		m, err = t.split.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("pre-tokenize: %w", err)
	}
	return ids, nil
}
