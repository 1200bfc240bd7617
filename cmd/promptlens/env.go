package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/promptlens/internal/highlight"
	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/profile"
	"github.com/samcharles93/promptlens/internal/prompt"
	"github.com/samcharles93/promptlens/internal/tokenizer"
	"github.com/samcharles93/promptlens/internal/tplparser"
)

// appEnv is the wiring every command shares.
type appEnv struct {
	cfg      Config
	log      logger.Logger
	registry *profile.Registry
	loader   *tplparser.Loader
	builder  *prompt.Builder
}

// withEnv loads the config, builds the components and runs fn with the
// logger in its context. Setup runs inside the action so every flag,
// including inherited ones, has been parsed.
func withEnv(fn func(ctx context.Context, cmd *cli.Command, env *appEnv) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		env, err := setup(cmd)
		if err != nil {
			return cli.Exit(fmt.Sprintf("error: %v", err), 1)
		}
		return fn(logger.WithContext(ctx, env.log), cmd, env)
	}
}

func setup(cmd *cli.Command) (*appEnv, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	applyConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log := logger.Open(os.Stderr, logFormat, level)

	registry, err := profile.Load(profilesFile)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if err := registry.SetDefault(cfg.DefaultModel); err != nil {
		return nil, err
	}

	loader := tplparser.NewLoader(templatesDir, log)
	builder := prompt.NewBuilder(
		tplparser.NewRenderer(registry, loader, log),
		highlight.NewClassifier(registry, log),
		tokenizer.NewCounter(tokenizersDir, log),
		log,
	)
	log.Debug("environment ready",
		"templates", templatesDir,
		"profiles", profilesFile,
		"tokenizers", tokenizersDir,
		"default_model", registry.Default(),
	)
	return &appEnv{cfg: cfg, log: log, registry: registry, loader: loader, builder: builder}, nil
}

// model returns the requested model key or the registry default.
func (e *appEnv) model() string {
	if modelName != "" {
		return modelName
	}
	return e.registry.Default()
}
