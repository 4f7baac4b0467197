package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/pkg/kanban"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedColumn(t *testing.T, s *Store, positions ...string) (*kanban.Board, []*kanban.Column) {
	t.Helper()
	ctx := context.Background()
	b := &kanban.Board{Name: "Roadmap"}
	require.NoError(t, s.CreateBoard(ctx, b))
	var cols []*kanban.Column
	for i, p := range positions {
		c := &kanban.Column{BoardID: b.ID, Name: string(rune('A' + i)), Position: p}
		require.NoError(t, s.InsertColumn(ctx, c))
		cols = append(cols, c)
	}
	return b, cols
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := OpenDir(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, DBFileName))

	// Reopening applies the schema idempotently.
	s, err = OpenDir(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestBoardLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	b := &kanban.Board{Name: "Roadmap"}
	require.NoError(t, s.CreateBoard(ctx, b))
	assert.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := s.GetBoard(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", got.Name)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))

	boards, err := s.ListBoards(ctx)
	require.NoError(t, err)
	require.Len(t, boards, 1)

	_, err = s.GetBoard(ctx, "missing")
	assert.ErrorIs(t, err, kanban.ErrNotFound)
	_, err = s.GetBoard(ctx, "")
	assert.ErrorIs(t, err, kanban.ErrInvalidID)
}

func TestColumnsListedByPosition(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	b, _ := seedColumn(t, s, "a1", "Zz", "a0V", "a0")

	cols, err := s.ListColumns(ctx, b.ID)
	require.NoError(t, err)
	var got []string
	for _, c := range cols {
		got = append(got, c.Position)
	}
	assert.Equal(t, []string{"Zz", "a0", "a0V", "a1"}, got)
}

func TestInsertColumnErrors(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	b, _ := seedColumn(t, s, "a0")

	err := s.InsertColumn(ctx, &kanban.Column{BoardID: b.ID, Name: "dup", Position: "a0"})
	assert.ErrorIs(t, err, kanban.ErrDuplicatePosition)

	err = s.InsertColumn(ctx, &kanban.Column{BoardID: "nope", Name: "x", Position: "a1"})
	assert.ErrorIs(t, err, kanban.ErrNotFound)

	// Same key on another board is fine.
	other := &kanban.Board{Name: "Other"}
	require.NoError(t, s.CreateBoard(ctx, other))
	require.NoError(t, s.InsertColumn(ctx, &kanban.Column{BoardID: other.ID, Name: "x", Position: "a0"}))
}

func TestRepositionColumn(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, cols := seedColumn(t, s, "a0", "a1")

	require.NoError(t, s.RepositionColumn(ctx, cols[0].ID, "a0", "a2"))
	got, err := s.GetColumn(ctx, cols[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Position)

	// Stale expected position.
	err = s.RepositionColumn(ctx, cols[0].ID, "a0", "a3")
	assert.ErrorIs(t, err, kanban.ErrConflict)

	err = s.RepositionColumn(ctx, cols[0].ID, "a2", "a1")
	assert.ErrorIs(t, err, kanban.ErrDuplicatePosition)

	err = s.RepositionColumn(ctx, "missing", "a0", "a3")
	assert.ErrorIs(t, err, kanban.ErrNotFound)
}

func TestInsertTasksAllOrNothing(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, cols := seedColumn(t, s, "a0")
	col := cols[0].ID

	tasks := []*kanban.Task{
		{ColumnID: col, Title: "one", Position: "a0"},
		{ColumnID: col, Title: "two", Position: "a1"},
		{ColumnID: col, Title: "clash", Position: "a0"},
	}
	err := s.InsertTasks(ctx, tasks)
	assert.ErrorIs(t, err, kanban.ErrDuplicatePosition)
	for _, task := range tasks {
		assert.Empty(t, task.ID)
	}

	list, err := s.ListTasks(ctx, col)
	require.NoError(t, err)
	assert.Empty(t, list)

	tasks[2].Position = "a2"
	require.NoError(t, s.InsertTasks(ctx, tasks))
	list, err = s.ListTasks(ctx, col)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "one", list[0].Title)
	assert.Equal(t, "clash", list[2].Title)
	assert.NotEmpty(t, tasks[0].ID)
}

func TestMoveTask(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, cols := seedColumn(t, s, "a0", "a1")
	todo, done := cols[0].ID, cols[1].ID

	tasks := []*kanban.Task{
		{ColumnID: todo, Title: "one", Position: "a0"},
		{ColumnID: todo, Title: "two", Position: "a1"},
	}
	require.NoError(t, s.InsertTasks(ctx, tasks))

	require.NoError(t, s.MoveTask(ctx, kanban.TaskMove{
		TaskID: tasks[0].ID, FromColumnID: todo, FromPosition: "a0",
		ToColumnID: done, ToPosition: "a0",
	}))
	got, err := s.GetTask(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, done, got.ColumnID)
	assert.Equal(t, "a0", got.Position)

	t.Run("stale source", func(t *testing.T) {
		err := s.MoveTask(ctx, kanban.TaskMove{
			TaskID: tasks[0].ID, FromColumnID: todo, FromPosition: "a0",
			ToColumnID: todo, ToPosition: "a2",
		})
		assert.ErrorIs(t, err, kanban.ErrConflict)
	})

	t.Run("occupied target", func(t *testing.T) {
		err := s.MoveTask(ctx, kanban.TaskMove{
			TaskID: tasks[1].ID, FromColumnID: todo, FromPosition: "a1",
			ToColumnID: done, ToPosition: "a0",
		})
		assert.ErrorIs(t, err, kanban.ErrDuplicatePosition)
	})

	t.Run("missing task", func(t *testing.T) {
		err := s.MoveTask(ctx, kanban.TaskMove{
			TaskID: "missing", FromColumnID: todo, FromPosition: "a1",
			ToColumnID: todo, ToPosition: "a2",
		})
		assert.ErrorIs(t, err, kanban.ErrNotFound)
	})

	t.Run("other board", func(t *testing.T) {
		_, foreign := seedColumn(t, s, "a0")
		err := s.MoveTask(ctx, kanban.TaskMove{
			TaskID: tasks[1].ID, FromColumnID: todo, FromPosition: "a1",
			ToColumnID: foreign[0].ID, ToPosition: "a5",
		})
		assert.ErrorIs(t, err, kanban.ErrInvalidID)
	})
}

func TestCommentsAndCascade(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	b, cols := seedColumn(t, s, "a0")
	task := &kanban.Task{ColumnID: cols[0].ID, Title: "one", Position: "a0"}
	require.NoError(t, s.InsertTasks(ctx, []*kanban.Task{task}))

	c, err := kanban.NewComment(task.ID, "alice", "ping @bob and @carol")
	require.NoError(t, err)
	require.NoError(t, s.AddComment(ctx, c))
	plain, err := kanban.NewComment(task.ID, "bob", "ack")
	require.NoError(t, err)
	require.NoError(t, s.AddComment(ctx, plain))

	comments, err := s.ListComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, []string{"bob", "carol"}, comments[0].Mentions)
	assert.Nil(t, comments[1].Mentions)

	err = s.AddComment(ctx, &kanban.Comment{TaskID: "missing", Author: "a", Body: "b"})
	assert.ErrorIs(t, err, kanban.ErrNotFound)

	require.NoError(t, s.DeleteBoard(ctx, b.ID))
	_, err = s.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, kanban.ErrNotFound)
	comments, err = s.ListComments(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	assert.ErrorIs(t, s.DeleteBoard(ctx, b.ID), kanban.ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, cols := seedColumn(t, s, "a0")
	task := &kanban.Task{ColumnID: cols[0].ID, Title: "one", Position: "a0"}
	require.NoError(t, s.InsertTasks(ctx, []*kanban.Task{task}))

	require.NoError(t, s.UpdateTask(ctx, task.ID, "renamed", "details"))
	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, "details", got.Description)

	require.NoError(t, s.RenameColumn(ctx, cols[0].ID, "Doing"))
	assert.ErrorIs(t, s.RenameColumn(ctx, "missing", "x"), kanban.ErrNotFound)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID), kanban.ErrNotFound)

	require.NoError(t, s.DeleteColumn(ctx, cols[0].ID))
	assert.ErrorIs(t, s.DeleteColumn(ctx, cols[0].ID), kanban.ErrNotFound)
}
