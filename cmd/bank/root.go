package main

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xraph/go-utils/log"
)

// EnvPrefix prefixes the environment variables that override flags,
// e.g. BANK_DB or BANK_LOG_LEVEL.
const EnvPrefix = "BANK"

// RootOptions holds the settings shared by every subcommand. Values resolve
// from flags, then BANK_* environment variables, then defaults.
type RootOptions struct {
	v *viper.Viper

	// logger overrides the configured logger when set.
	logger log.Logger
}

func (o *RootOptions) DBPath() string     { return o.v.GetString("db") }
func (o *RootOptions) ConfigPath() string { return o.v.GetString("config") }

// Logger returns the logger configured by --log-level and --log-format.
func (o *RootOptions) Logger() log.Logger {
	if o.logger == nil {
		o.logger = log.NewLogger(log.LoggingConfig{
			Level:  log.LogLevel(o.v.GetString("log-level")),
			Format: o.v.GetString("log-format"),
		})
	}

	return o.logger
}

// NewRootCommand creates the root command for the bank CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{v: viper.New()})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Money transfers on a dependency-injected SQLite bank",
		Long: `bank assembles a small banking application from annotated types
and an application context file, then runs transfers through
transactional proxies.

Settings can be given as flags, as BANK_* environment variables
or in a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// a missing .env is fine
			_ = godotenv.Load()

			opts.v.SetEnvPrefix(EnvPrefix)
			opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			opts.v.AutomaticEnv()

			return opts.v.BindPFlags(cmd.Flags())
		},
	}

	cmd.PersistentFlags().String("db", "bank.db", "SQLite database path")
	cmd.PersistentFlags().String("config", "", "application context file (defaults to the built-in one)")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	cmd.AddCommand(NewBeansCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewTransferCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}
