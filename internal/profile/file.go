package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileSpec is the on-disk layout of a profiles file.
type fileSpec struct {
	Default string        `yaml:"default" toml:"default"`
	Models  []profileSpec `yaml:"models" toml:"models"`
}

type profileSpec struct {
	Key       string         `yaml:"key" toml:"key"`
	Name      string         `yaml:"name" toml:"name"`
	Template  string         `yaml:"template" toml:"template"`
	Tokenizer string         `yaml:"tokenizer" toml:"tokenizer"`
	BOS       string         `yaml:"bos_token" toml:"bos_token"`
	EOS       string         `yaml:"eos_token" toml:"eos_token"`
	Vars      map[string]any `yaml:"vars" toml:"vars"`
	Rules     []ruleSpec     `yaml:"rules" toml:"rules"`
}

// ruleSpec sets exactly one of Pattern (kind inferred), Literal or Regex.
type ruleSpec struct {
	Pattern  string `yaml:"pattern" toml:"pattern"`
	Literal  string `yaml:"literal" toml:"literal"`
	Regex    string `yaml:"regex" toml:"regex"`
	Category string `yaml:"category" toml:"category"`
}

// ReadFile parses a YAML (.yaml, .yml) or TOML (.toml) profiles file.
func ReadFile(path string) ([]Profile, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	profiles, def, err := Parse(raw, format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return profiles, def, nil
}

// Parse decodes profiles from raw file contents. format is "yaml", "yml" or
// "toml". The second result is the file's default model key, if any.
func Parse(raw []byte, format string) ([]Profile, string, error) {
	var spec fileSpec
	switch format {
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(raw, &spec); err != nil {
			return nil, "", fmt.Errorf("decode yaml: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(raw), &spec); err != nil {
			return nil, "", fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, "", fmt.Errorf("unsupported profiles format %q", format)
	}

	profiles := make([]Profile, 0, len(spec.Models))
	for i, ps := range spec.Models {
		p, err := ps.build()
		if err != nil {
			return nil, "", fmt.Errorf("model %d (%s): %w", i, ps.Key, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, spec.Default, nil
}

func (ps profileSpec) build() (Profile, error) {
	if ps.Key == "" {
		return Profile{}, errors.New("missing key")
	}
	if ps.Template == "" {
		return Profile{}, errors.New("missing template")
	}
	p := Profile{
		Key:         ps.Key,
		Name:        ps.Name,
		Template:    ps.Template,
		TokenizerID: ps.Tokenizer,
		BOS:         ps.BOS,
		EOS:         ps.EOS,
		Vars:        ps.Vars,
	}
	if p.Name == "" {
		p.Name = p.Key
	}
	if p.Vars == nil {
		p.Vars = map[string]any{}
	}
	for j, rs := range ps.Rules {
		r, err := rs.build()
		if err != nil {
			return Profile{}, fmt.Errorf("rule %d: %w", j, err)
		}
		p.Rules = append(p.Rules, r)
	}
	return p, nil
}

func (rs ruleSpec) build() (Rule, error) {
	cat, err := ParseCategory(rs.Category)
	if err != nil {
		return Rule{}, err
	}
	set := 0
	for _, s := range []string{rs.Pattern, rs.Literal, rs.Regex} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return Rule{}, errors.New("exactly one of pattern, literal or regex is required")
	}
	switch {
	case rs.Literal != "":
		if !IsLiteral(rs.Literal) {
			return Rule{}, fmt.Errorf("literal %q contains regex metacharacters; use pattern or regex", rs.Literal)
		}
		return Rule{Kind: Literal, Text: rs.Literal, Category: cat}, nil
	case rs.Regex != "":
		return Rule{Kind: Pattern, Text: rs.Regex, Category: cat}, nil
	default:
		return InferRule(rs.Pattern, cat), nil
	}
}
