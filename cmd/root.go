package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/config"
	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/logger"
	"github.com/jeeace/jeeace/internal/store"
	"github.com/jeeace/jeeace/internal/ui/theme"
)

// cfg is resolved once per invocation by the root PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "jeeace",
	Short: "JEE mock tests in the terminal",
	Long:  "jeeace creates timed JEE mock tests, runs them in a terminal UI, and serves the scoring API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(cmd.Flags(), configFile)
		if err != nil {
			return err
		}
		cfg = c

		p, err := theme.ByName(cfg.Theme)
		if err != nil {
			return err
		}
		theme.Use(p)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTake(cmd, false)
	},
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel its context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides JEEACE_DB)")
	pf.String("config", "", "Config file (default: jeeace.yaml in . or $XDG_CONFIG_HOME/jeeace)")
	pf.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	pf.String("log-format", "pretty", "Log format: pretty or json")
	pf.String("api-url", "http://localhost:5000", "Base URL of the jeeace API")
	pf.String("user-id", "", "User id when no session token is configured")
	pf.String("theme", "dark", "Color theme: dark or light")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func openStore() (*store.Store, error) {
	var configured string
	if cfg != nil {
		configured = cfg.DB
	}
	dbPath, err := store.ResolvePath(configured)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newLogger logs to w, or to the log file for interactive commands. The
// returned closer releases the file.
func newLogger(w io.Writer, interactive bool) (zerolog.Logger, func()) {
	if !interactive {
		return logger.Setup(cfg.LogLevel, cfg.LogFormat, w), func() {}
	}
	f, err := logger.OpenFile()
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	return logger.Setup(cfg.LogLevel, cfg.LogFormat, f), func() { f.Close() }
}

func newClient(log zerolog.Logger) *evaluator.Client {
	opts := []evaluator.Option{
		evaluator.WithTimeout(cfg.HTTPTimeout),
		evaluator.WithLogger(log),
	}
	if cfg.SessionToken != "" {
		opts = append(opts, evaluator.WithToken(cfg.SessionToken))
	}
	return evaluator.NewClient(cfg.APIURL, opts...)
}

// identityProvider prefers the session token over a configured user id.
func identityProvider() auth.Provider {
	if cfg.SessionToken != "" {
		return auth.TokenProvider{Token: cfg.SessionToken, Secret: []byte(cfg.AuthSecret)}
	}
	return auth.StaticProvider{UserID: cfg.UserID}
}

// requireUser resolves the identity and fails when nobody is signed in.
func requireUser(ctx context.Context) (auth.Identity, error) {
	id, err := identityProvider().Identity(ctx)
	if err != nil {
		return id, fmt.Errorf("resolve identity: %w", err)
	}
	if !id.Authenticated() {
		return id, fmt.Errorf("not signed in: set user-id or session-token")
	}
	return id, nil
}
