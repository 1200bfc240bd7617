package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/promptlens/internal/highlight"
)

func highlightCmd() *cli.Command {
	var (
		format    string
		color     string
		formatter string
	)

	return &cli.Command{
		Name:      "highlight",
		Usage:     "Highlight control tokens in an already rendered prompt",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			modelFlag(),
			inputFlag("prompt text file (- for stdin); defaults to the arguments, then stdin"),
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (ansi, html, json)",
				Value:       "ansi",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "ANSI color mode (auto, always, never)",
				Value:       "auto",
				Destination: &color,
			},
			&cli.StringFlag{
				Name:        "formatter",
				Usage:       "terminal formatter used when color is on (terminal16m, terminal256, terminal)",
				Value:       "terminal16m",
				Destination: &formatter,
			},
		},
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *appEnv) error {
			text, err := readText(inputPath, cmd.Args().Slice(), os.Stdin)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read input: %v", err), 1)
			}
			model := env.model()
			if _, err := env.registry.Get(model); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			w := cmd.Root().Writer

			switch strings.ToLower(format) {
			case "html":
				_, err = io.WriteString(w, env.builder.Classifier().Document(text, model, model+" prompt"))
			case "json":
				var b []byte
				if b, err = json.MarshalIndent(env.builder.Classifier().Classify(text, model), "", "  "); err == nil {
					_, err = fmt.Fprintln(w, string(b))
				}
			case "ansi":
				segs := env.builder.Classifier().Classify(text, model)
				err = highlight.WriteANSI(w, segs, ansiFormatter(color, formatter))
			default:
				return cli.Exit(fmt.Sprintf("error: unknown format %q", format), 1)
			}
			return err
		}),
	}
}

// ansiFormatter resolves the color mode to a chroma formatter name. "noop"
// writes the text unchanged.
func ansiFormatter(mode, formatter string) string {
	switch strings.ToLower(mode) {
	case "always":
		return formatter
	case "never":
		return "noop"
	default:
		if os.Getenv("NO_COLOR") != "" || !stdoutIsTTY() {
			return "noop"
		}
		return formatter
	}
}
