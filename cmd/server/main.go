package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/classroom-server/internal/app"
	"github.com/vovakirdan/classroom-server/internal/auth"
	"github.com/vovakirdan/classroom-server/internal/config"
	"github.com/vovakirdan/classroom-server/internal/log"
)

var version = "dev"

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "classroom-server",
		Short:         "Room coordination and WebRTC signaling relay for virtual classrooms",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	serve := newServeCmd(&configPath)
	root.AddCommand(serve, newTokenCmd(&configPath), newVersionCmd())
	// Running the binary without a subcommand serves.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the signaling server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			logger := log.New(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().
				Str("addr", cfg.Addr).
				Bool("jwt_required", cfg.JWTRequired).
				Strs("cors_origins", cfg.CORSOrigins).
				Msg("starting classroom server")
			if err := app.New(&cfg, logger).Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.String("addr", defaults.Addr, "HTTP listen address")
	flags.Duration("read-header-timeout", defaults.ReadHeaderTimeout, "HTTP read header timeout")
	flags.Duration("shutdown-timeout", defaults.ShutdownTimeout, "graceful shutdown timeout")
	flags.String("jwt-secret", "", "HMAC secret for bearer tokens")
	flags.String("jwt-issuer", "", "expected token issuer")
	flags.String("jwt-audience", "", "expected token audience")
	flags.Bool("jwt-required", defaults.JWTRequired, "reject connections without a valid token")
	flags.StringSlice("cors-origins", defaults.CORSOrigins, "allowed browser origins")
	flags.Int("send-buffer", defaults.SendBuffer, "per-connection outbound queue length")
	flags.Duration("ping-interval", defaults.PingInterval, "websocket keepalive interval, 0 disables")
	flags.Int64("max-message-bytes", defaults.MaxMessageBytes, "largest accepted websocket frame")
	flags.Int("messages-per-minute", defaults.MessagesPerMinute, "per-connection inbound message limit, 0 disables")

	return cmd
}

func newTokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		name    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("jwt_secret is not configured")
			}
			token, err := auth.GenerateToken(&auth.JWTConfig{
				Secret:   []byte(cfg.JWTSecret),
				Issuer:   cfg.JWTIssuer,
				Audience: cfg.JWTAudience,
				TTL:      ttl,
			}, subject, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "user id to put in the token")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().String("jwt-secret", "", "HMAC secret, overrides config")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// loadConfig resolves configuration for cmd. Config loading logs go to a
// bootstrap logger since the configured level is not known yet.
func loadConfig(cmd *cobra.Command, configPath string) (config.Config, error) {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = os.Getenv("CLASSROOM_LOG_LEVEL")
	}
	bootstrap := log.New(level)

	cfg, path, err := config.Load(bootstrap, configPath, cmd.Flags())
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	bootstrap.Debug().Str("path", path).Msg("config loaded")
	return cfg, nil
}
