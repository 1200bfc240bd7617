package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the semantic class assigned to a highlighted span.
type Category string

const (
	Boundary     Category = "boundary"
	Role         Category = "role"
	Reasoning    Category = "reasoning"
	Tool         Category = "tool"
	ToolArgument Category = "tool-argument"

	// Plain marks text no rule matched. It is never valid in a rule.
	Plain Category = "plain"
)

// Categories lists the rule categories in display order.
var Categories = []Category{Boundary, Role, Reasoning, Tool, ToolArgument}

// ErrUnknownCategory is returned for category names outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

var categoryAliases = map[string]Category{
	"bos_eos": Boundary,
	"bos":     Boundary,
	"think":   Reasoning,
	"func":    Tool,
	"dsml":    ToolArgument,
}

// ParseCategory resolves a category name or one of its short aliases
// (bos_eos, think, func, dsml).
func ParseCategory(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories {
		if string(c) == n {
			return c, nil
		}
	}
	if c, ok := categoryAliases[n]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

func (c Category) String() string { return string(c) }
