package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Haleralex/quefilme/internal/config"
	"github.com/Haleralex/quefilme/internal/container"
)

// newRootCmd собирает дерево команд. Without a subcommand the server is started.
func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "quefilme-api",
		Short:         "Movie lookup, search and AI suggestion API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfgFile)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			printConfig(cmd, cfg)
			return nil
		},
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quefilme-api %s (built %s)\n", version, buildTime)
		},
	}

	root.AddCommand(serveCmd, configCmd, versionCmd)
	return root
}

func loadConfig(cfgFile string) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if version != "dev" {
		cfg.App.Version = version
	}
	return cfg, nil
}

func serve(ctx context.Context, cfgFile string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	c := container.New(cfg)
	if err := c.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	runErr := c.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	if err := c.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	return runErr
}

func printConfig(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "configuration is valid")
	fmt.Fprintf(out, "  app:         %s %s (%s)\n", cfg.App.Name, cfg.App.Version, cfg.App.Environment)
	fmt.Fprintf(out, "  listen:      %s\n", cfg.Server.Address())
	fmt.Fprintf(out, "  movies:      %s (key %s)\n", cfg.Services.Movies.BaseURL, mask(cfg.Services.Movies.APIKey))
	fmt.Fprintf(out, "  translator:  %s (key %s)\n", cfg.Services.Translator.BaseURL, mask(cfg.Services.Translator.APIKey))
	fmt.Fprintf(out, "  assistant:   %s (key %s)\n", cfg.Services.Assistant.BaseURL, mask(cfg.Services.Assistant.APIKey))
	fmt.Fprintf(out, "  loki:        %t\n", cfg.Log.Loki.Enabled)
	fmt.Fprintf(out, "  cache:       %t\n", cfg.Cache.Enabled)
	fmt.Fprintf(out, "  auth:        %t\n", cfg.Auth.Enabled)
	fmt.Fprintf(out, "  rate limit:  %t\n", cfg.RateLimit.Enabled)
	fmt.Fprintf(out, "  tracing:     %t\n", cfg.Tracing.Enabled)
}

// mask hides all but the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return "<empty>"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
