package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func NewBoardCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Create, list, show, export and delete boards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				b, err := a.svc.CreateBoard(ctx, args[0])
				if err != nil {
					return err
				}
				p.success("Created board %s (%s)", b.Name, b.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				boards, err := a.svc.ListBoards(ctx)
				if err != nil {
					return err
				}
				p.boards(boards)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show BOARD",
		Short: "Show a board's columns and tasks in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				snap, err := a.svc.Snapshot(ctx, args[0], false)
				if err != nil {
					return err
				}
				p.snapshot(snap)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export BOARD",
		Short: "Print a board with tasks and comments as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				snap, err := a.svc.Snapshot(ctx, args[0], true)
				if err != nil {
					return err
				}
				return p.yaml(snap)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete BOARD",
		Short: "Delete a board with everything on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				if err := a.svc.DeleteBoard(ctx, args[0]); err != nil {
					return err
				}
				p.success("Deleted board %s", args[0])
				return nil
			})
		},
	})

	return cmd
}
