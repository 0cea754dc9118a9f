package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	consumertypes "github.com/GPTx-global/ttp-oracle/x/consumer/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle/client/cli"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

func requestCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Queue an oracle request through the consumer program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, _ := cmd.Flags().GetString(FlagURL)
			path, _ := cmd.Flags().GetString(FlagPath)
			width, _ := cmd.Flags().GetInt(FlagWidth)

			coerce, err := oracletypes.CoerceKindForWidth(width)
			if err != nil {
				return err
			}

			if err := loadConfig(v); err != nil {
				return err
			}
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			tmpl := consumertypes.RequestTemplate{URL: url, Path: path, Coerce: coerce}
			if err := a.RequestPrice(cmd.Context(), tmpl); err != nil {
				return err
			}

			slots, err := a.Queue()
			if err != nil {
				return err
			}
			return cli.PrintQueue(cmd.OutOrStdout(), slots)
		},
	}

	cmd.Flags().String(FlagURL, consumertypes.DefaultURL, "endpoint to fetch")
	cmd.Flags().String(FlagPath, consumertypes.DefaultPath, "dot-separated JSON path of the value")
	cmd.Flags().Int(FlagWidth, 32, "bit width of the result (32|128|256)")
	return cmd
}
