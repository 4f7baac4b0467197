package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	fracdex "github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003"
)

// nullKey on the command line stands for "no neighbour".
const nullKey = "-"

func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate and inspect position keys",
	}
	cmd.AddCommand(newKeysBetweenCommand(rootOpts))
	cmd.AddCommand(newKeysInspectCommand())
	return cmd
}

func newKeysBetweenCommand(rootOpts *RootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "between [before] [after]",
		Short: "Print keys that sort strictly between two keys",
		Long: `Print keys that sort strictly between before and after.
Omit a bound or pass "-" to leave that side open.`,
		Example: `  kanban keys between
  kanban keys between a0 a1
  kanban keys between - a0 --count 3`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig(cmd)
			if err != nil {
				return err
			}
			var bounds [2]string
			for i, a := range args {
				if a != nullKey {
					bounds[i] = a
				}
			}
			keys, err := cfg.NewAllocator().GenerateMany(bounds[0], bounds[1], count)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			for _, k := range keys {
				p.line("%s", k)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of keys")
	return cmd
}

func newKeysInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect KEY",
		Short: "Validate a key and show its approximate numeric value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			approx, err := fracdex.Float64Approx(key)
			if err != nil {
				return fmt.Errorf("inspect %q: %w", key, err)
			}
			p := newPrinter(cmd.OutOrStdout())
			p.line("key:    %s", key)
			p.line("length: %d", len(key))
			p.line("approx: %s", strconv.FormatFloat(approx, 'g', -1, 64))
			return nil
		},
	}
}
