package cli

import (
	"fmt"
	"os"

	"github.com/rustyeddy/tradegym/config"
	"github.com/rustyeddy/tradegym/internal/logx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootConfig holds the persistent flags and what PersistentPreRunE builds
// from them.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	EnvFile    string

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "tradegym",
		Short: "tradegym: a trading simulation environment for reinforcement learning",
		Long: `tradegym simulates single-asset spot trading over OHLCV candles, one
discrete action (HOLD, BUY, SELL) per step.

It provides tools for:
  - Running policies over historical or synthetic candles
  - Serving environments over HTTP to external agents
  - Journaling trades, equity curves and episode statistics
  - Exporting episode reports to Excel`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file, YAML or JSON (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.EnvFile, "env-file", ".env", "dotenv file with TRADEGYM_* overrides")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.load(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if rc.log != nil {
			_ = rc.log.Sync()
		}
	}

	cmd.AddCommand(
		newRunCmd(rc),
		newServeCmd(rc),
		newConfigCmd(),
		newJournalCmd(rc),
		newVersionCmd(),
	)

	return cmd
}

func (rc *RootConfig) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(rc.EnvFile); err != nil {
		return err
	}

	var err error
	if rc.ConfigPath != "" {
		rc.cfg, err = config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		rc.cfg = config.Default()
		rc.cfg.ApplyEnv()
	}

	if cmd.Flags().Changed("db") {
		rc.cfg.Journal.Type = "sqlite"
		rc.cfg.Journal.DBPath = rc.DBPath
	}
	if cmd.Flags().Changed("log-level") {
		rc.cfg.Log.Level = rc.LogLevel
	}

	rc.log, err = logx.New(rc.cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
