package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GPTx-global/ttp-oracle/x/oracle/client/cli"
)

// clientOpener loads the config and opens the local ledger for the oracle commands.
func clientOpener(v *viper.Viper) cli.ClientOpener {
	return func(*cobra.Command) (cli.Client, error) {
		if err := loadConfig(v); err != nil {
			return nil, err
		}
		return openApp()
	}
}

func queryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Querying subcommands",
	}
	cmd.AddCommand(cli.GetQueryCmd(clientOpener(v)))
	return cmd
}

func txCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transactions subcommands",
	}
	cmd.AddCommand(cli.GetTxCmd(clientOpener(v)))
	return cmd
}

// queueCmd is a shortcut for "query oracle queue".
func queueCmd(v *viper.Viper) *cobra.Command {
	return cli.GetCmdQueryQueue(clientOpener(v))
}
