package cli

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

const FlagWidth = "width"

// GetTxCmd returns the transaction commands for this module
func GetTxCmd(open ClientOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s transactions subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewCreateRequestCmd(open),
		NewRespondCmd(open),
	)

	return cmd
}

// NewCreateRequestCmd queues a request directly in the oracle account
func NewCreateRequestCmd(open ClientOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-request [url] [path] [callback-program]",
		Short: "Queue a request that calls back into the given program",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := cmd.Flags().GetInt(FlagWidth)
			if err != nil {
				return err
			}
			coerce, err := types.CoerceKindForWidth(width)
			if err != nil {
				return err
			}
			callback, err := ttptypes.ParseAddress(args[2])
			if err != nil {
				return err
			}
			req, err := types.NewRequest(args[0], args[1], coerce, callback)
			if err != nil {
				return err
			}

			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			program, account := c.OracleAddresses()
			if err := c.Execute(cmd.Context(), types.NewCreateRequestInstruction(program, account, req)); err != nil {
				return err
			}

			slots, err := c.Queue()
			if err != nil {
				return err
			}
			return PrintQueue(cmd.OutOrStdout(), slots)
		},
	}

	cmd.Flags().Int(FlagWidth, 32, "bit width of the result (32|128|256)")
	return cmd
}

// NewRespondCmd answers a queued request by hand
func NewRespondCmd(open ClientOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "respond [slot] [value]",
		Short: "Deliver a value to the request in a slot and free the slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			value, err := sdkmath.ParseUint(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			resp, err := types.NewResponseFromUint(slot, value)
			if err != nil {
				return err
			}

			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			program, account := c.OracleAddresses()
			if err := c.Execute(cmd.Context(), types.NewHandleResponseInstruction(program, account, resp)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "slot %d answered with %s\n", slot, value)
			return nil
		},
	}
}
