package main

import "github.com/urfave/cli/v3"

var (
	configFile    string
	templatesDir  string
	profilesFile  string
	tokenizersDir string
	logLevel      string
	logFormat     string
	debug         bool

	modelName      string
	inputPath      string
	toolsPath      string
	noTools        bool
	noGenPrompt    bool
	enableThinking bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Value:       configPath(),
			Sources:     cli.EnvVars("PROMPTLENS_CONFIG"),
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "templates-dir",
			Usage:       "directory whose templates override the bundled ones",
			Sources:     cli.EnvVars(envTemplatesDir),
			Destination: &templatesDir,
		},
		&cli.StringFlag{
			Name:        "profiles",
			Usage:       "extra YAML or TOML profiles file",
			Sources:     cli.EnvVars(envProfiles),
			Destination: &profilesFile,
		},
		&cli.StringFlag{
			Name:        "tokenizers-dir",
			Usage:       "directory holding <tokenizer-id>/tokenizer.json",
			Sources:     cli.EnvVars(envTokenizersDir),
			Destination: &tokenizersDir,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func modelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "model",
		Aliases:     []string{"m"},
		Usage:       "model key as listed by promptlens models; defaults to the registry default",
		Destination: &modelName,
	}
}

func inputFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:        "input",
		Aliases:     []string{"i"},
		Usage:       usage,
		Destination: &inputPath,
	}
}

func conversationFlags() []cli.Flag {
	return []cli.Flag{
		modelFlag(),
		inputFlag("conversation file (JSON or YAML, - for stdin); defaults to the sample conversation"),
		&cli.StringFlag{
			Name:        "tools",
			Usage:       "tool definitions file, replacing any tools in the conversation",
			Destination: &toolsPath,
		},
		&cli.BoolFlag{
			Name:        "no-tools",
			Usage:       "do not offer tools to the template",
			Destination: &noTools,
		},
		&cli.BoolFlag{
			Name:        "no-generation-prompt",
			Usage:       "omit the trailing assistant header",
			Destination: &noGenPrompt,
		},
		&cli.BoolFlag{
			Name:        "thinking",
			Usage:       "enable the model's thinking mode",
			Value:       true,
			Destination: &enableThinking,
		},
	}
}
