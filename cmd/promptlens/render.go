package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/promptlens/internal/chat"
	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/prompt"
	"github.com/samcharles93/promptlens/internal/session"
)

func renderCmd() *cli.Command {
	var (
		asHTML     bool
		asSegments bool
		copyOut    bool
	)

	return &cli.Command{
		Name:  "render",
		Usage: "Render a conversation into the model's prompt",
		Flags: append(conversationFlags(),
			&cli.BoolFlag{
				Name:        "html",
				Usage:       "write a standalone highlighted HTML document",
				Destination: &asHTML,
			},
			&cli.BoolFlag{
				Name:        "segments",
				Usage:       "write the classified segments as JSON",
				Destination: &asSegments,
			},
			&cli.BoolFlag{
				Name:        "copy",
				Usage:       "also copy the prompt to the clipboard",
				Destination: &copyOut,
			},
		),
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *appEnv) error {
			log := logger.FromContext(ctx)

			s, err := buildSession(env, os.Stdin)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			p, err := env.builder.Build(s)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Debug("rendered", "model", p.Model, "characters", p.Characters, "tokens", p.Tokens, "open_reasoning", p.Thinking)

			if copyOut {
				if err := clipboard.WriteAll(p.Prompt); err != nil {
					log.Warn("copy to clipboard failed", "error", err)
				} else {
					log.Info("prompt copied to clipboard", "characters", p.Characters)
				}
			}
			return writeRendered(cmd.Root().Writer, env, p, asHTML, asSegments)
		}),
	}
}

// buildSession turns the conversation flags into a session.
func buildSession(env *appEnv, stdin io.Reader) (*session.Session, error) {
	conv, err := loadConversation(inputPath, toolsPath, stdin)
	if err != nil {
		return nil, err
	}
	s := session.New(env.model())
	s.Messages = conv.Messages
	s.Tools = conv.Tools
	if s.Tools == nil {
		s.Tools = []chat.ToolDefinition{}
	}
	s.IncludeTools = !noTools
	s.EnableThinking = enableThinking
	s.AddGenerationPrompt = !noGenPrompt
	return s, nil
}

func writeRendered(w io.Writer, env *appEnv, p prompt.Preview, asHTML, asSegments bool) error {
	switch {
	case asSegments:
		b, err := json.MarshalIndent(p.Segments, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case asHTML:
		doc := env.builder.Classifier().Document(p.Prompt, p.Model, p.Model+" prompt")
		_, err := io.WriteString(w, doc)
		return err
	default:
		_, err := io.WriteString(w, p.Prompt)
		return err
	}
}
