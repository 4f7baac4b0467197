package board

import (
	"context"

	fracdex "github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/pkg/kanban"
)

// Snapshot is a board with its columns and tasks in display order.
type Snapshot struct {
	Board   *kanban.Board    `json:"board" yaml:"board"`
	Columns []ColumnSnapshot `json:"columns" yaml:"columns"`
}

type ColumnSnapshot struct {
	kanban.Column `yaml:",inline"`
	Rank          string         `json:"rank" yaml:"rank"`
	Tasks         []TaskSnapshot `json:"tasks" yaml:"tasks"`
}

type TaskSnapshot struct {
	kanban.Task `yaml:",inline"`
	Rank        string            `json:"rank" yaml:"rank"`
	Comments    []*kanban.Comment `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// Snapshot reads a board. Comments are included when withComments is set.
func (s *Service) Snapshot(ctx context.Context, boardID string, withComments bool) (*Snapshot, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cols, err := s.store.ListColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Board: b, Columns: make([]ColumnSnapshot, 0, len(cols))}
	for _, c := range cols {
		tasks, err := s.store.ListTasks(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		cs := ColumnSnapshot{
			Column: *c,
			Rank:   fracdex.NewRank(boardScope(boardID), c.Position).String(),
			Tasks:  make([]TaskSnapshot, 0, len(tasks)),
		}
		for _, t := range tasks {
			ts := TaskSnapshot{
				Task: *t,
				Rank: fracdex.NewRank(columnScope(c.ID), t.Position).String(),
			}
			if withComments {
				if ts.Comments, err = s.store.ListComments(ctx, t.ID); err != nil {
					return nil, err
				}
			}
			cs.Tasks = append(cs.Tasks, ts)
		}
		snap.Columns = append(snap.Columns, cs)
	}
	return snap, nil
}

// Column returns the column snapshot with the given ID, if present.
func (sn *Snapshot) Column(id string) (ColumnSnapshot, bool) {
	for _, c := range sn.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnSnapshot{}, false
}
