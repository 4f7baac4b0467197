package kanban

import "context"

// Store persists boards and their contents. List methods return siblings
// in ascending position order, compared bytewise.
//
// Reposition and Move are compare-and-set: they apply only if the item still
// sits at the expected position and otherwise return ErrConflict. Inserts and
// moves that would give two siblings the same position return
// ErrDuplicatePosition.
type Store interface {
	CreateBoard(ctx context.Context, b *Board) error
	GetBoard(ctx context.Context, id string) (*Board, error)
	ListBoards(ctx context.Context) ([]*Board, error)
	// DeleteBoard removes the board with its columns, tasks and comments.
	DeleteBoard(ctx context.Context, id string) error

	InsertColumn(ctx context.Context, c *Column) error
	GetColumn(ctx context.Context, id string) (*Column, error)
	ListColumns(ctx context.Context, boardID string) ([]*Column, error)
	RenameColumn(ctx context.Context, id, name string) error
	RepositionColumn(ctx context.Context, id, expected, position string) error
	DeleteColumn(ctx context.Context, id string) error

	// InsertTasks stores every task or none of them.
	InsertTasks(ctx context.Context, tasks []*Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, columnID string) ([]*Task, error)
	UpdateTask(ctx context.Context, id, title, description string) error
	MoveTask(ctx context.Context, m TaskMove) error
	DeleteTask(ctx context.Context, id string) error

	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, taskID string) ([]*Comment, error)

	Close() error
}

// TaskMove relocates a task, possibly to another column of the same board.
// From* is where the caller last saw the task.
type TaskMove struct {
	TaskID       string
	FromColumnID string
	FromPosition string
	ToColumnID   string
	ToPosition   string
}
