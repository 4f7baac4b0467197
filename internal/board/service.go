// Package board applies ordering operations to kanban boards. Every write to
// a sibling set runs under that set's lock, reads the current neighbours and
// only then asks the allocator for a key.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	fracdex "github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/siblinglock"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/pkg/kanban"
)

// Append as an index places an item after all of its siblings.
const Append = -1

type Service struct {
	store  kanban.Store
	alloc  *fracdex.Allocator
	locker siblinglock.Locker
	log    *slog.Logger
}

func NewService(store kanban.Store, alloc *fracdex.Allocator, locker siblinglock.Locker, logger *slog.Logger) *Service {
	if alloc == nil {
		alloc = fracdex.New()
	}
	if locker == nil {
		locker = siblinglock.NewLocal()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, alloc: alloc, locker: locker, log: logger}
}

func boardScope(id string) string  { return "board:" + id }
func columnScope(id string) string { return "column:" + id }

// lock takes every scope in a fixed order so two movers never deadlock.
func (s *Service) lock(ctx context.Context, scopes ...string) (func(), error) {
	scopes = slices.Clone(scopes)
	slices.Sort(scopes)
	scopes = slices.Compact(scopes)

	var unlocks []func()
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, sc := range scopes {
		u, err := s.locker.Lock(ctx, sc)
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", sc, err)
		}
		unlocks = append(unlocks, u)
	}
	return release, nil
}

// resolveIndex turns Append into the slot after the last sibling.
func resolveIndex(index, n int) int {
	if index == Append {
		return n
	}
	return index
}

func without[T any](items []T, id func(T) string, skip string) []T {
	return slices.DeleteFunc(slices.Clone(items), func(it T) bool { return id(it) == skip })
}

func idOfTask(t *kanban.Task) string     { return t.ID }
func idOfColumn(c *kanban.Column) string { return c.ID }

func (s *Service) CreateBoard(ctx context.Context, name string) (*kanban.Board, error) {
	name, err := kanban.ValidateName(name)
	if err != nil {
		return nil, err
	}
	b := &kanban.Board{Name: name}
	if err := s.store.CreateBoard(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("board created", "board_id", b.ID, "name", b.Name)
	return b, nil
}

func (s *Service) ListBoards(ctx context.Context) ([]*kanban.Board, error) {
	return s.store.ListBoards(ctx)
}

func (s *Service) DeleteBoard(ctx context.Context, id string) error {
	unlock, err := s.lock(ctx, boardScope(id))
	if err != nil {
		return err
	}
	defer unlock()
	if err := s.store.DeleteBoard(ctx, id); err != nil {
		return err
	}
	s.log.Info("board deleted", "board_id", id)
	return nil
}

// AddColumn inserts a column at slot index of the board.
func (s *Service) AddColumn(ctx context.Context, boardID, name string, index int) (*kanban.Column, error) {
	name, err := kanban.ValidateName(name)
	if err != nil {
		return nil, err
	}
	unlock, err := s.lock(ctx, boardScope(boardID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}
	cols, err := s.store.ListColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}
	pos, err := s.alloc.ComputeMoveTarget(fracdex.Positions(cols), resolveIndex(index, len(cols)))
	if err != nil {
		return nil, fmt.Errorf("position for new column: %w", err)
	}

	c := &kanban.Column{BoardID: boardID, Name: name, Position: pos}
	if err := s.store.InsertColumn(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("column added", "board_id", boardID, "column_id", c.ID, "position", pos)
	return c, nil
}

// MoveColumn places a column at slot index among its other siblings.
func (s *Service) MoveColumn(ctx context.Context, id string, index int) (*kanban.Column, error) {
	c, err := s.store.GetColumn(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock, err := s.lock(ctx, boardScope(c.BoardID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read under the lock; the position may have changed meanwhile.
	if c, err = s.store.GetColumn(ctx, id); err != nil {
		return nil, err
	}
	cols, err := s.store.ListColumns(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	others := without(cols, idOfColumn, id)
	pos, err := s.alloc.ComputeMoveTarget(fracdex.Positions(others), resolveIndex(index, len(others)))
	if err != nil {
		return nil, fmt.Errorf("position for column %s: %w", id, err)
	}
	if err := s.store.RepositionColumn(ctx, id, c.Position, pos); err != nil {
		return nil, err
	}
	s.log.Info("column moved", "board_id", c.BoardID, "column_id", id, "from", c.Position, "position", pos)
	c.Position = pos
	return c, nil
}

// AddTasks inserts titles, in order, as one contiguous run at slot index of
// the column.
func (s *Service) AddTasks(ctx context.Context, columnID string, index int, titles ...string) ([]*kanban.Task, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	names := make([]string, len(titles))
	for i, t := range titles {
		n, err := kanban.ValidateName(t)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		names[i] = n
	}

	unlock, err := s.lock(ctx, columnScope(columnID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.store.GetColumn(ctx, columnID); err != nil {
		return nil, err
	}
	existing, err := s.store.ListTasks(ctx, columnID)
	if err != nil {
		return nil, err
	}
	b, err := fracdex.BoundsForIndex(fracdex.Positions(existing), resolveIndex(index, len(existing)))
	if err != nil {
		return nil, err
	}
	keys, err := s.alloc.GenerateMany(b.Before, b.After, len(names))
	if err != nil {
		return nil, fmt.Errorf("positions for %d tasks: %w", len(names), err)
	}

	tasks := make([]*kanban.Task, len(names))
	for i, n := range names {
		tasks[i] = &kanban.Task{ColumnID: columnID, Title: n, Position: keys[i]}
	}
	if err := s.store.InsertTasks(ctx, tasks); err != nil {
		return nil, err
	}
	s.log.Info("tasks added", "column_id", columnID, "count", len(tasks),
		"first", keys[0], "last", keys[len(keys)-1])
	return tasks, nil
}

// MoveTask places a task at slot index of toColumnID, or of its current
// column when toColumnID is empty.
func (s *Service) MoveTask(ctx context.Context, id, toColumnID string, index int) (*kanban.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if toColumnID == "" {
		toColumnID = t.ColumnID
	}
	unlock, err := s.lock(ctx, columnScope(t.ColumnID), columnScope(toColumnID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if t, err = s.store.GetTask(ctx, id); err != nil {
		return nil, err
	}
	siblings, err := s.targetSiblings(ctx, t, toColumnID)
	if err != nil {
		return nil, err
	}
	pos, err := s.alloc.ComputeMoveTarget(fracdex.Positions(siblings), resolveIndex(index, len(siblings)))
	if err != nil {
		return nil, fmt.Errorf("position for task %s: %w", id, err)
	}
	return s.applyMove(ctx, t, toColumnID, pos)
}

// targetSiblings lists the tasks of toColumnID other than t.
func (s *Service) targetSiblings(ctx context.Context, t *kanban.Task, toColumnID string) ([]*kanban.Task, error) {
	if toColumnID != t.ColumnID {
		if _, err := s.store.GetColumn(ctx, toColumnID); err != nil {
			return nil, err
		}
	}
	tasks, err := s.store.ListTasks(ctx, toColumnID)
	if err != nil {
		return nil, err
	}
	return without(tasks, idOfTask, t.ID), nil
}

func (s *Service) applyMove(ctx context.Context, t *kanban.Task, toColumnID, pos string) (*kanban.Task, error) {
	err := s.store.MoveTask(ctx, kanban.TaskMove{
		TaskID:       t.ID,
		FromColumnID: t.ColumnID,
		FromPosition: t.Position,
		ToColumnID:   toColumnID,
		ToPosition:   pos,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("task moved", "task_id", t.ID, "from_column", t.ColumnID, "column_id", toColumnID,
		"from", t.Position, "position", pos)
	moved := *t
	moved.ColumnID, moved.Position = toColumnID, pos
	return &moved, nil
}

// MoveRequest is a move whose key the client computed from its own view of
// the board, e.g. to render a drag before the server answers.
type MoveRequest struct {
	TaskID string
	// FromColumnID and FromPosition are where the client saw the task.
	FromColumnID string
	FromPosition string
	// ToColumnID empty means the task stays in its column.
	ToColumnID string
	// Index is the slot the client dropped the task into, counted among the
	// target column's other tasks.
	Index int
	// Position is the key the client generated for the slot.
	Position string
}

// CommitMove accepts a client-generated position only if the client's view
// still matches the store. Any mismatch returns an error wrapping
// kanban.ErrConflict; the client must refetch and recompute rather than
// resend the same key.
func (s *Service) CommitMove(ctx context.Context, req MoveRequest) (*kanban.Task, error) {
	if err := fracdex.Validate(req.Position); err != nil {
		return nil, err
	}
	if req.ToColumnID == "" {
		req.ToColumnID = req.FromColumnID
	}
	unlock, err := s.lock(ctx, columnScope(req.FromColumnID), columnScope(req.ToColumnID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := s.store.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	if t.ColumnID != req.FromColumnID || t.Position != req.FromPosition {
		return nil, s.conflict(req, "task moved since it was read")
	}
	siblings, err := s.targetSiblings(ctx, t, req.ToColumnID)
	if err != nil {
		return nil, err
	}
	b, err := fracdex.BoundsForIndex(fracdex.Positions(siblings), resolveIndex(req.Index, len(siblings)))
	if errors.Is(err, fracdex.ErrIndexOutOfRange) {
		return nil, fmt.Errorf("%w: %w", kanban.ErrConflict, err)
	}
	if err != nil {
		return nil, err
	}
	if (b.Before != "" && req.Position <= b.Before) || (b.After != "" && req.Position >= b.After) {
		return nil, s.conflict(req, "neighbours changed")
	}
	return s.applyMove(ctx, t, req.ToColumnID, req.Position)
}

func (s *Service) conflict(req MoveRequest, reason string) error {
	s.log.Warn("move rejected", "task_id", req.TaskID, "column_id", req.ToColumnID,
		"position", req.Position, "reason", reason)
	return fmt.Errorf("%s: %w", reason, kanban.ErrConflict)
}

// AddComment attaches a comment to a task.
func (s *Service) AddComment(ctx context.Context, taskID, author, body string) (*kanban.Comment, error) {
	c, err := kanban.NewComment(taskID, author, body)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddComment(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("comment added", "task_id", taskID, "comment_id", c.ID, "mentions", len(c.Mentions))
	return c, nil
}
