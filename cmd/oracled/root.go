package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GPTx-global/ttp-oracle/app"
	"github.com/GPTx-global/ttp-oracle/oracle/config"
	"github.com/GPTx-global/ttp-oracle/oracle/log"
)

const (
	EnvPrefix = "ORACLED"

	FlagHome     = "home"
	FlagLogLevel = "log-level"
	FlagLayout   = "layout"
	FlagURL      = "url"
	FlagPath     = "path"
	FlagWidth    = "width"
)

// NewRootCmd creates the oracled command tree. ORACLED_HOME and ORACLED_LOG_LEVEL override the
// defaults of the matching flags.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "oracled",
		Short:         "Oracle mailbox daemon",
		Long:          "oracled hosts the oracle and consumer programs on a local ledger and answers queued requests off-chain.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range []string{FlagHome, FlagLogLevel} {
				if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			log.InitLogger()
			config.SetHome(v.GetString(FlagHome))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(FlagHome, config.DefaultHome(), "directory for config and data")
	rootCmd.PersistentFlags().String(FlagLogLevel, "", "override the configured log level (debug|info|error)")

	rootCmd.AddCommand(
		initCmd(v),
		startCmd(v),
		queueCmd(v),
		queryCmd(v),
		txCmd(v),
		requestCmd(v),
		configCmd(v),
	)

	return rootCmd
}

// loadConfig reads the config file and applies the log level, flag first.
func loadConfig(v *viper.Viper) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if level := v.GetString(FlagLogLevel); level != "" {
		config.SetLogLevel(level)
	}
	return log.SetLevel(config.LogLevel())
}

// openApp opens the configured ledger with both programs registered.
func openApp() (*app.App, error) {
	db, err := app.OpenDB(config.LedgerBackend(), config.LedgerDir())
	if err != nil {
		return nil, err
	}
	return app.New(db, log.Logger(), app.Options{
		OracleProgram:   config.OracleProgram(),
		ConsumerProgram: config.ConsumerProgram(),
		OracleAccount:   config.OracleAccount(),
		Layout:          config.Layout(),
	}), nil
}
