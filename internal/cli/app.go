package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/board"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/sqlite"
)

// app is what a board-touching command needs for one invocation.
type app struct {
	svc     *board.Service
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func (o *RootOptions) openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	store, err := sqlite.OpenDir(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{closers: []func() error{store.Close}}

	locker, closeLocker, err := cfg.NewLocker()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeLocker)

	a.svc = board.NewService(store, cfg.NewAllocator(), locker, logger)
	logger.Debug("store opened", "data_dir", cfg.DataDir, "lock_backend", cfg.Lock.Backend)
	return a, nil
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app, p *printer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := o.openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a, newPrinter(cmd.OutOrStdout()))
}
