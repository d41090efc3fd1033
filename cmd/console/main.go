package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/config"
	"catalog-admin/internal/console"
	"catalog-admin/internal/logger"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/session"
	"catalog-admin/internal/view"

	"go.uber.org/zap"
)

// defaultLogFile keeps log lines off the prompt when LOG_FILE is unset
const defaultLogFile = "catalog-admin.log"

func main() {
	fs := config.Flags("console")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.Load(fs)
	if cfg.API.Path == "" {
		fmt.Fprintln(os.Stderr, "API_PATH is required (set it in .env or pass --api-path)")
		os.Exit(2)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultLogFile
	}
	log := logger.NewFile(cfg.Server.Env, logger.FileOptions{
		Filename:   logFile,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer log.Sync()

	log.Info("Starting catalog admin console",
		zap.String("api_base", cfg.API.Base),
		zap.String("api_path", cfg.API.Path),
		zap.String("session_store", cfg.Session.Store),
	)

	tokens, err := session.OpenTokenStore(cfg, log)
	if err != nil {
		log.Error("Failed to open session store", zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to open session store: %v\n", err)
		os.Exit(1)
	}
	defer tokens.Close()

	client := apiclient.New(cfg.API, log)
	sessions := session.NewStore(client, tokens, log)
	repo := repository.NewProductRepository(client)
	app := console.New(sessions, repo, log)

	v, err := view.New(app, os.Stdout, log, view.Options{
		ShowErrors: cfg.UI.ShowErrors,
		Prompt:     "> ",
	})
	if err != nil {
		log.Fatal("Failed to start view", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed restore only means the user has to sign in again
	if err := app.Start(ctx); err != nil {
		log.Info("Starting signed out", zap.Error(err))
	}

	if err := v.Run(ctx, os.Stdin); err != nil && err != context.Canceled {
		log.Error("Console stopped", zap.Error(err))
	}
	log.Info("Console exiting")
}
