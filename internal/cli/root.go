// Package cli implements the kanban command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Verbose    bool
}

// NewRootCommand creates the root command for the kanban CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Kanban boards ordered by fractional position keys",
		Long: `Manage boards, columns and tasks whose order is kept in
lexicographically sortable position keys. Moving an item rewrites only
that item's key; its siblings are never renumbered.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./kanban.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory holding the board database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewBoardCommand(opts))
	cmd.AddCommand(NewColumnCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewCommentCommand(opts))

	return cmd
}

// loadConfig merges flags over the config file and environment.
func (o *RootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if err := v.BindPFlag(config.KeyDataDir, cmd.Root().PersistentFlags().Lookup("data-dir")); err != nil {
		return nil, err
	}
	if o.Verbose {
		v.Set(config.KeyLogLevel, "debug")
	}
	return config.Load(v, o.ConfigPath)
}
