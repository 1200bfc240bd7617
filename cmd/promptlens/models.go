package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

func modelsCmd() *cli.Command {
	return &cli.Command{
		Name:    "models",
		Aliases: []string{"ls"},
		Usage:   "List the registered models",
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *appEnv) error {
			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "KEY\tNAME\tTEMPLATE\tTOKENIZER")
			for _, p := range env.registry.Profiles() {
				key := p.Key
				if key == env.registry.Default() {
					key += " *"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, p.Name, p.Template, p.TokenizerID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.Root().Writer, "\n%d model(s), * marks the default\n", len(env.registry.Keys()))
			return nil
		}),
	}
}
