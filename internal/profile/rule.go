package profile

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// metaChars is the set whose presence makes rule text a regular expression.
const metaChars = `\+*?[](){}|^$.`

// RuleKind tags how a rule's text is matched.
type RuleKind int

const (
	Literal RuleKind = iota
	Pattern
)

func (k RuleKind) String() string {
	if k == Pattern {
		return "pattern"
	}
	return "literal"
}

// Rule is one highlighting rule. Literal rules match their text exactly;
// Pattern rules are regular expressions used as written.
type Rule struct {
	Kind     RuleKind
	Text     string
	Category Category
}

// IsLiteral reports whether text contains no regex metacharacters.
func IsLiteral(text string) bool {
	return !strings.ContainsAny(text, metaChars)
}

// InferRule tags text as Literal when it has no metacharacters and as
// Pattern otherwise.
func InferRule(text string, cat Category) Rule {
	if IsLiteral(text) {
		return Rule{Kind: Literal, Text: text, Category: cat}
	}
	return Rule{Kind: Pattern, Text: text, Category: cat}
}

// Expr returns the rule as a regular expression source.
func (r Rule) Expr() string {
	if r.Kind == Literal {
		return regexp2.Escape(r.Text)
	}
	return r.Text
}

func (r Rule) String() string {
	return fmt.Sprintf("%s(%q)->%s", r.Kind, r.Text, r.Category)
}
