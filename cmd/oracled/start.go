package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GPTx-global/ttp-oracle/oracle/config"
	"github.com/GPTx-global/ttp-oracle/oracle/daemon"
	"github.com/GPTx-global/ttp-oracle/oracle/log"
)

func startCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the oracle daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v); err != nil {
				return err
			}
			if config.LogToFile() {
				log.ResetLogger(config.Home())
				if err := log.SetLevel(config.LogLevel()); err != nil {
					return err
				}
			}
			config.Print()

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.InitOracleAccount(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := daemon.New(ctx, a)
			if err != nil {
				return err
			}
			return d.Run()
		},
	}
}
