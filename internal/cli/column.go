package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/board"
)

func NewColumnCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add and reorder columns",
	}

	var at int
	add := &cobra.Command{
		Use:   "add BOARD NAME",
		Short: "Add a column, by default after the last one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				c, err := a.svc.AddColumn(ctx, args[0], args[1], at)
				if err != nil {
					return err
				}
				p.success("Added column %s at %s (%s)", c.Name, c.Position, c.ID)
				return nil
			})
		},
	}
	add.Flags().IntVar(&at, "at", board.Append, "slot to insert at, 0 is first")
	cmd.AddCommand(add)

	var to int
	move := &cobra.Command{
		Use:   "move COLUMN",
		Short: "Move a column to another slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				c, err := a.svc.MoveColumn(ctx, args[0], to)
				if err != nil {
					return err
				}
				p.success("Moved column %s to %s", c.Name, c.Position)
				return nil
			})
		},
	}
	move.Flags().IntVar(&to, "to", 0, "target slot among the other columns, -1 for last")
	_ = move.MarkFlagRequired("to")
	cmd.AddCommand(move)

	return cmd
}
