package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/promptlens/internal/chat"
)

const (
	envTemplatesDir  = "PROMPTLENS_TEMPLATES_DIR"
	envTokenizersDir = "PROMPTLENS_TOKENIZERS_DIR"
	envProfiles      = "PROMPTLENS_PROFILES"
)

// stdoutIsTTY is a small seam for tests.
var stdoutIsTTY = func() bool { return isTerminal(os.Stdout) }

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	path = strings.TrimSpace(path)
	switch path {
	case "":
		return nil, errors.New("no input given")
	case "-":
		return io.ReadAll(stdin)
	default:
		return os.ReadFile(filepath.Clean(path))
	}
}

// loadConversation reads the conversation named by path, falling back to the
// sample conversation when path is empty. A non-empty tools path replaces
// the conversation's tools.
func loadConversation(path, tools string, stdin io.Reader) (chat.Conversation, error) {
	conv := chat.DefaultConversation()
	if strings.TrimSpace(path) != "" {
		raw, err := readInput(path, stdin)
		if err != nil {
			return chat.Conversation{}, err
		}
		if conv, err = chat.DecodeConversation(raw); err != nil {
			return chat.Conversation{}, err
		}
	}
	if strings.TrimSpace(tools) == "" {
		return conv, nil
	}
	raw, err := readInput(tools, stdin)
	if err != nil {
		return chat.Conversation{}, err
	}
	if conv.Tools, err = chat.DecodeTools(raw); err != nil {
		return chat.Conversation{}, fmt.Errorf("%s: %w", tools, err)
	}
	return conv, nil
}

// readText returns the text to highlight: the input file when given, the
// joined arguments otherwise, and stdin when neither is present.
func readText(path string, args []string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(path) != "" {
		b, err := readInput(path, stdin)
		return string(b), err
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	return string(b), err
}
