package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/board"
)

func NewTaskCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add and move tasks",
	}

	var at int
	add := &cobra.Command{
		Use:   "add COLUMN TITLE...",
		Short: "Add one or more tasks as a contiguous run",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				tasks, err := a.svc.AddTasks(ctx, args[0], at, args[1:]...)
				if err != nil {
					return err
				}
				for _, t := range tasks {
					p.success("Added task %s at %s (%s)", t.Title, t.Position, t.ID)
				}
				return nil
			})
		},
	}
	add.Flags().IntVar(&at, "at", board.Append, "slot to insert at, 0 is first")
	cmd.AddCommand(add)

	var (
		to     int
		column string
	)
	move := &cobra.Command{
		Use:   "move TASK",
		Short: "Move a task within its column or to another column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				t, err := a.svc.MoveTask(ctx, args[0], column, to)
				if err != nil {
					return err
				}
				p.success("Moved task %s to %s in column %s", t.Title, t.Position, t.ColumnID)
				return nil
			})
		},
	}
	move.Flags().IntVar(&to, "to", 0, "target slot among the other tasks, -1 for last")
	move.Flags().StringVar(&column, "column", "", "target column (default: current column)")
	_ = move.MarkFlagRequired("to")
	cmd.AddCommand(move)

	return cmd
}

func NewCommentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Comment on tasks",
	}

	var author string
	add := &cobra.Command{
		Use:   "add TASK BODY",
		Short: "Add a comment; @handles in the body are recorded as mentions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app, p *printer) error {
				c, err := a.svc.AddComment(ctx, args[0], author, args[1])
				if err != nil {
					return err
				}
				p.success("Added comment %s", c.ID)
				if len(c.Mentions) > 0 {
					p.line("  mentions: %v", c.Mentions)
				}
				return nil
			})
		},
	}
	add.Flags().StringVar(&author, "author", "", "comment author")
	_ = add.MarkFlagRequired("author")
	cmd.AddCommand(add)

	return cmd
}
