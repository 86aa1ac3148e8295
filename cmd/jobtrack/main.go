package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobtrack/internal/api"
	"jobtrack/internal/config"
	"jobtrack/internal/credstore"
	"jobtrack/internal/logging"
	"jobtrack/internal/netcheck"
	"jobtrack/internal/session"
	"jobtrack/internal/store"
)

// app bundles everything a command needs. Built once per invocation; no
// package-level session or store state.
type app struct {
	cfg     config.Config
	log     logging.Logger
	creds   *credstore.Store
	session *session.Manager
	jobs    *store.Store
}

func newApp() (*app, error) {
	dataDir := config.DataDir()
	cfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("config bootstrap: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config load (%s): %w", cfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.App.DataDir == "" || cfg.App.DataDir == "." {
		cfg.App.DataDir = dataDir
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	creds := credstore.New()
	checker := netcheck.NewDialChecker(
		cfg.Net.ProbeTargets,
		time.Duration(cfg.Net.ProbeTimeoutMS)*time.Millisecond,
	)
	client, err := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Tokens:  creds,
		Net:     checker,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	cache := session.NewProfileCache()
	mgr := session.NewManager(client, creds, cache, logger)

	jobs, err := store.Open(cfg.App.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}

	return &app{cfg: cfg, log: logger, creds: creds, session: mgr, jobs: jobs}, nil
}

func (a *app) close() {
	if err := a.jobs.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: job store close:", err)
	}
}

func main() {
	root := &cobra.Command{
		Use:           "jobtrack",
		Short:         "Track jobs and notes locally, sign in to the job API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newProfileCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newJobsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
