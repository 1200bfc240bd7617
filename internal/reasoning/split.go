// Package reasoning separates <think> reasoning blocks from assistant
// content so chat templates can place them where each model expects.
package reasoning

import "strings"

const (
	OpenTag  = "<think>"
	CloseTag = "</think>"
)

// Parts is assistant content with its reasoning separated out.
type Parts struct {
	Content   string
	Reasoning string
}

// Split separates inline reasoning from content. Only a closing tag starts
// a split: the reasoning is the text between the last <think> before the
// first </think> and that </think>, and the content is whatever follows the
// last </think>. Newlines next to the tags are trimmed. Text without a
// closing tag is returned unchanged as content.
func Split(content string) Parts {
	first := strings.Index(content, CloseTag)
	if first < 0 {
		return Parts{Content: content}
	}
	head := strings.TrimRight(content[:first], "\n")
	if i := strings.LastIndex(head, OpenTag); i >= 0 {
		head = head[i+len(OpenTag):]
	}
	last := strings.LastIndex(content, CloseTag)
	return Parts{
		Content:   strings.TrimLeft(content[last+len(CloseTag):], "\n"),
		Reasoning: strings.TrimLeft(head, "\n"),
	}
}

// Resolve prefers explicit reasoning and otherwise splits it out of the
// content. With explicit reasoning the content is still stripped of any
// inline think block.
func Resolve(reasoning, content string) Parts {
	parts := Split(content)
	if strings.TrimSpace(reasoning) != "" {
		parts.Reasoning = reasoning
	}
	return parts
}

// HasOpenBlock reports whether text ends inside an unterminated think block.
// Generation prompts that prefill <think> leave one open, so the model
// starts its reply in reasoning.
func HasOpenBlock(text string) bool {
	return strings.LastIndex(text, OpenTag) > strings.LastIndex(text, CloseTag)
}
