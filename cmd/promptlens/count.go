package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/urfave/cli/v3"
)

func countCmd() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Count the tokens of a prompt with the model's tokenizer",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			modelFlag(),
			inputFlag("prompt text file (- for stdin); defaults to the arguments, then stdin"),
		},
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *appEnv) error {
			text, err := readText(inputPath, cmd.Args().Slice(), os.Stdin)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read input: %v", err), 1)
			}
			p, err := env.registry.Get(env.model())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			w := cmd.Root().Writer
			_, _ = fmt.Fprintf(w, "model:      %s\n", p.Key)
			_, _ = fmt.Fprintf(w, "tokenizer:  %s\n", p.TokenizerID)
			_, _ = fmt.Fprintf(w, "tokens:     %d\n", env.builder.Count(text, p.Key))
			_, _ = fmt.Fprintf(w, "characters: %d\n", utf8.RuneCountInString(text))
			return nil
		}),
	}
}
