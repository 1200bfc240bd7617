package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/raster"
)

func imageCmd() *cli.Command {
	var (
		output    string
		textPath  string
		fontSize  int64
		wrapWidth int64
	)

	return &cli.Command{
		Name:  "image",
		Usage: "Render a conversation and save the highlighted prompt as a PNG",
		Flags: append(conversationFlags(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "PNG output path (- for stdout)",
				Value:       "prompt.png",
				Destination: &output,
			},
			&cli.StringFlag{
				Name:        "text",
				Usage:       "draw this already rendered prompt file instead of rendering a conversation",
				Destination: &textPath,
			},
			&cli.Int64Flag{
				Name:        "font-size",
				Usage:       "font size in pixels",
				Destination: &fontSize,
			},
			&cli.Int64Flag{
				Name:        "wrap-width",
				Usage:       "wrap width in columns",
				Destination: &wrapWidth,
			},
		),
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *appEnv) error {
			log := logger.FromContext(ctx)

			opts := imageOptions(env.cfg)
			if fontSize > 0 {
				opts.FontSize = int(fontSize)
			}
			if wrapWidth > 0 {
				opts.WrapWidth = int(wrapWidth)
			}

			var (
				text  string
				model = env.model()
			)
			if textPath != "" {
				b, err := readInput(textPath, os.Stdin)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read text: %v", err), 1)
				}
				text = string(b)
			} else {
				s, err := buildSession(env, os.Stdin)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				text = env.builder.Render(s)
			}

			png, err := raster.PNG(env.builder.Classifier().Classify(text, model), opts)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode png: %v", err), 1)
			}
			if output == "-" {
				_, err = cmd.Root().Writer.Write(png)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return cli.Exit(fmt.Sprintf("error: write %s: %v", output, err), 1)
			}
			log.Info("image written", "path", output, "bytes", len(png), "model", model)
			return nil
		}),
	}
}
