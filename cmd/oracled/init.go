package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GPTx-global/ttp-oracle/oracle/config"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

func initCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config, the ledger and the oracle account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layoutName, err := cmd.Flags().GetString(FlagLayout)
			if err != nil {
				return err
			}
			layout, err := oracletypes.ParseLayout(layoutName)
			if err != nil {
				return err
			}

			created, err := config.Init(layout)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if err := loadConfig(v); err != nil {
				return err
			}
			if !created && config.Layout() != layout {
				return fmt.Errorf("%s already uses the %s layout", config.Path(), config.Layout())
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.InitOracleAccount(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:           %s\n", config.Path())
			fmt.Fprintf(out, "oracle program:   %s\n", a.OracleProgram)
			fmt.Fprintf(out, "consumer program: %s\n", a.ConsumerProgram)
			fmt.Fprintf(out, "oracle account:   %s (%s, %d bytes)\n", a.OracleAccount, a.Layout, oracletypes.OracleAccountLen(a.Layout))
			return nil
		},
	}

	cmd.Flags().String(FlagLayout, oracletypes.LayoutSentinel.String(), "oracle account layout (sentinel|flagged)")
	return cmd
}
