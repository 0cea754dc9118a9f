package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// Client is the local ledger as seen by the oracle commands.
type Client interface {
	Queue() ([]types.Slot, error)
	Request(slot uint8) (types.Request, error)
	OracleAddresses() (program, account ttptypes.Address)
	Execute(ctx context.Context, ix ttptypes.Instruction) error
	Close() error
}

// ClientOpener opens the ledger configured for cmd.
type ClientOpener func(cmd *cobra.Command) (Client, error)

// GetQueryCmd returns the cli query commands for this module
func GetQueryCmd(open ClientOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		GetCmdQueryQueue(open),
		GetCmdQuerySlot(open),
	)

	return cmd
}

// GetCmdQueryQueue prints every occupied slot of the oracle account
func GetCmdQueryQueue(open ClientOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Query the occupied slots of the oracle account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			slots, err := c.Queue()
			if err != nil {
				return err
			}
			return PrintQueue(cmd.OutOrStdout(), slots)
		},
	}
}

// GetCmdQuerySlot prints the request held in one slot
func GetCmdQuerySlot(open ClientOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "slot [slot]",
		Short: "Query the request held in a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}

			c, err := open(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			req, err := c.Request(slot)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "slot:     %d\n", slot)
			for i, task := range req.Tasks {
				fmt.Fprintf(out, "task %d:   %s\n", i, task)
			}
			fmt.Fprintf(out, "callback: %s\n", req.Callback)
			return nil
		},
	}
}

// PrintQueue writes the slot table.
func PrintQueue(w io.Writer, slots []types.Slot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tURL\tPATH\tCOERCE\tCALLBACK")
	for _, slot := range slots {
		req := slot.Request
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", slot.Index, req.Tasks[0].URL(), req.Tasks[1].Path(), req.Tasks[2].Kind, req.Callback)
	}
	fmt.Fprintf(tw, "%d/%d slots occupied\n", len(slots), types.MaxRequests)
	return tw.Flush()
}

func parseSlot(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n >= types.MaxRequests {
		return 0, fmt.Errorf("slot must be between 0 and %d, got %q", types.MaxRequests-1, s)
	}
	return uint8(n), nil
}
