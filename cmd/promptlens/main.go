package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// .env is optional; flag env sources are read during parsing, so load it first.
	_ = godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "promptlens",
		Usage: "Render chat conversations into model prompts and highlight their control tokens",
		Flags: append(globalFlags(), loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			renderCmd(),
			highlightCmd(),
			imageCmd(),
			countCmd(),
			modelsCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}
