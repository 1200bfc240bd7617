package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/promptlens/internal/api"
	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/session"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		sessionDB   string
		imageRate   float64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the preview page and the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.StringFlag{
				Name:        "session-db",
				Usage:       "SQLite file for sessions; sessions are kept in memory when empty",
				Destination: &sessionDB,
			},
			&cli.Float64Flag{
				Name:        "image-rate",
				Usage:       "image renders per second (0 disables the limit)",
				Value:       2,
				Destination: &imageRate,
			},
		},
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *appEnv) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, env.cfg, &addr, &sessionDB, &imageRate)

			store, err := openStore(sessionDB)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open session store: %v", err), 1)
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Warn("close session store", "error", err)
				}
			}()

			go func() {
				if err := env.loader.Watch(ctx); err != nil {
					log.Warn("template watcher stopped", "error", err)
				}
			}()

			server := api.NewServer(env.builder, store, log, api.Config{
				ImageRate: imageRate,
				Image:     imageOptions(env.cfg),
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server",
				"address", addr,
				"default_model", env.registry.Default(),
				"session_db", sessionDB,
			)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		}),
	}
}

func openStore(path string) (session.Store, error) {
	if path == "" {
		return session.NewMemoryStore(), nil
	}
	return session.OpenSQLite(path)
}
