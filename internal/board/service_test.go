package board

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fracdex "github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/siblinglock"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/internal/sqlite"
	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/pkg/kanban"
)

func setupService(t *testing.T, opts ...fracdex.Option) (*Service, *bytes.Buffer) {
	t.Helper()
	store, err := sqlite.OpenDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewService(store, fracdex.New(opts...), siblinglock.NewLocal(), logger), &logs
}

func titles(tasks []TaskSnapshot) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func columnNames(sn *Snapshot) []string {
	out := make([]string, len(sn.Columns))
	for i, c := range sn.Columns {
		out[i] = c.Name
	}
	return out
}

func TestColumns(t *testing.T) {
	svc, logs := setupService(t)
	ctx := context.Background()

	b, err := svc.CreateBoard(ctx, "  Launch  ")
	require.NoError(t, err)
	assert.Equal(t, "Launch", b.Name)

	todo, err := svc.AddColumn(ctx, b.ID, "Todo", Append)
	require.NoError(t, err)
	assert.Equal(t, "a0", todo.Position)
	done, err := svc.AddColumn(ctx, b.ID, "Done", Append)
	require.NoError(t, err)
	assert.Equal(t, "a1", done.Position)
	_, err = svc.AddColumn(ctx, b.ID, "Doing", 1)
	require.NoError(t, err)
	_, err = svc.AddColumn(ctx, b.ID, "Backlog", 0)
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Backlog", "Todo", "Doing", "Done"}, columnNames(snap))

	_, err = svc.MoveColumn(ctx, done.ID, 0)
	require.NoError(t, err)
	_, err = svc.MoveColumn(ctx, todo.ID, Append)
	require.NoError(t, err)
	snap, err = svc.Snapshot(ctx, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Done", "Backlog", "Doing", "Todo"}, columnNames(snap))
	assert.Contains(t, logs.String(), "column moved")

	_, err = svc.AddColumn(ctx, b.ID, "Late", 9)
	assert.ErrorIs(t, err, fracdex.ErrIndexOutOfRange)
	_, err = svc.AddColumn(ctx, b.ID, " ", 0)
	assert.ErrorIs(t, err, kanban.ErrInvalidName)
	_, err = svc.AddColumn(ctx, "missing", "X", 0)
	assert.ErrorIs(t, err, kanban.ErrNotFound)
}

func TestAddTasksBulk(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	b, err := svc.CreateBoard(ctx, "Launch")
	require.NoError(t, err)
	col, err := svc.AddColumn(ctx, b.ID, "Todo", Append)
	require.NoError(t, err)

	_, err = svc.AddTasks(ctx, col.ID, Append, "first", "last")
	require.NoError(t, err)
	batch, err := svc.AddTasks(ctx, col.ID, 1, "m1", "m2", "m3")
	require.NoError(t, err)
	require.Len(t, batch, 3)
	for i := 1; i < len(batch); i++ {
		assert.Less(t, batch[i-1].Position, batch[i].Position)
	}

	snap, err := svc.Snapshot(ctx, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "m1", "m2", "m3", "last"}, titles(snap.Columns[0].Tasks))
	assert.Equal(t, "column:"+col.ID+"|"+batch[0].Position, snap.Columns[0].Tasks[1].Rank)

	_, err = svc.AddTasks(ctx, col.ID, 0, "ok", "")
	assert.ErrorIs(t, err, kanban.ErrInvalidName)
}

func TestAddTasksCapacity(t *testing.T) {
	svc, _ := setupService(t, fracdex.WithMaxBatch(2))
	ctx := context.Background()
	b, err := svc.CreateBoard(ctx, "Launch")
	require.NoError(t, err)
	col, err := svc.AddColumn(ctx, b.ID, "Todo", Append)
	require.NoError(t, err)

	_, err = svc.AddTasks(ctx, col.ID, 0, "a", "b", "c")
	assert.ErrorIs(t, err, fracdex.ErrCapacity)

	snap, err := svc.Snapshot(ctx, b.ID, false)
	require.NoError(t, err)
	assert.Empty(t, snap.Columns[0].Tasks)
}

func TestMoveTask(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	b, err := svc.CreateBoard(ctx, "Launch")
	require.NoError(t, err)
	todo, err := svc.AddColumn(ctx, b.ID, "Todo", Append)
	require.NoError(t, err)
	done, err := svc.AddColumn(ctx, b.ID, "Done", Append)
	require.NoError(t, err)
	tasks, err := svc.AddTasks(ctx, todo.ID, Append, "A", "B", "C")
	require.NoError(t, err)

	// A to the end of its own column.
	moved, err := svc.MoveTask(ctx, tasks[0].ID, "", Append)
	require.NoError(t, err)
	assert.Greater(t, moved.Position, tasks[2].Position)

	// B into the empty Done column.
	moved, err = svc.MoveTask(ctx, tasks[1].ID, done.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, done.ID, moved.ColumnID)
	assert.Equal(t, "a0", moved.Position)

	snap, err := svc.Snapshot(ctx, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, titles(snap.Columns[0].Tasks))
	assert.Equal(t, []string{"B"}, titles(snap.Columns[1].Tasks))

	_, err = svc.MoveTask(ctx, tasks[2].ID, "", 5)
	assert.ErrorIs(t, err, fracdex.ErrIndexOutOfRange)
	_, err = svc.MoveTask(ctx, "missing", "", 0)
	assert.ErrorIs(t, err, kanban.ErrNotFound)
	_, err = svc.MoveTask(ctx, tasks[2].ID, "missing", 0)
	assert.ErrorIs(t, err, kanban.ErrNotFound)
}

func TestCommitMove(t *testing.T) {
	svc, logs := setupService(t)
	ctx := context.Background()
	b, err := svc.CreateBoard(ctx, "Launch")
	require.NoError(t, err)
	col, err := svc.AddColumn(ctx, b.ID, "Todo", Append)
	require.NoError(t, err)
	tasks, err := svc.AddTasks(ctx, col.ID, Append, "A", "B", "C")
	require.NoError(t, err)

	// The client drags C between A and B using its own allocator.
	client := fracdex.New()
	pos, err := client.GenerateOne(tasks[0].Position, tasks[1].Position)
	require.NoError(t, err)
	req := MoveRequest{
		TaskID:       tasks[2].ID,
		FromColumnID: col.ID,
		FromPosition: tasks[2].Position,
		Index:        1,
		Position:     pos,
	}
	moved, err := svc.CommitMove(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, pos, moved.Position)

	t.Run("stale source", func(t *testing.T) {
		_, err := svc.CommitMove(ctx, req)
		assert.ErrorIs(t, err, kanban.ErrConflict)
	})

	t.Run("neighbours changed", func(t *testing.T) {
		// Client still believes B sits first; it now sits after A and C.
		stale, err := client.GenerateOne("", tasks[0].Position)
		require.NoError(t, err)
		_, err = svc.CommitMove(ctx, MoveRequest{
			TaskID:       tasks[1].ID,
			FromColumnID: col.ID,
			FromPosition: tasks[1].Position,
			Index:        1,
			Position:     stale,
		})
		assert.ErrorIs(t, err, kanban.ErrConflict)
		assert.Contains(t, logs.String(), "move rejected")
	})

	t.Run("index beyond stale view", func(t *testing.T) {
		_, err := svc.CommitMove(ctx, MoveRequest{
			TaskID:       tasks[1].ID,
			FromColumnID: col.ID,
			FromPosition: tasks[1].Position,
			Index:        7,
			Position:     "a9",
		})
		assert.ErrorIs(t, err, kanban.ErrConflict)
		assert.ErrorIs(t, err, fracdex.ErrIndexOutOfRange)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := svc.CommitMove(ctx, MoveRequest{TaskID: tasks[1].ID, FromColumnID: col.ID, Position: "a10"})
		assert.ErrorIs(t, err, fracdex.ErrInvalidKey)
	})

	snap, err := svc.Snapshot(ctx, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, titles(snap.Columns[0].Tasks))
}

func TestConcurrentInsertsAtHead(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	b, err := svc.CreateBoard(ctx, "Launch")
	require.NoError(t, err)
	col, err := svc.AddColumn(ctx, b.ID, "Todo", Append)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 5 {
				_, err := svc.AddTasks(ctx, col.ID, 0, fmt.Sprintf("w%d-%d", w, i))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	snap, err := svc.Snapshot(ctx, b.ID, false)
	require.NoError(t, err)
	tasks := snap.Columns[0].Tasks
	require.Len(t, tasks, workers*5)
	for i := 1; i < len(tasks); i++ {
		assert.Less(t, tasks[i-1].Position, tasks[i].Position)
	}
}

func TestCommentsInSnapshot(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	b, err := svc.CreateBoard(ctx, "Launch")
	require.NoError(t, err)
	col, err := svc.AddColumn(ctx, b.ID, "Todo", Append)
	require.NoError(t, err)
	tasks, err := svc.AddTasks(ctx, col.ID, Append, "A")
	require.NoError(t, err)

	c, err := svc.AddComment(ctx, tasks[0].ID, "dana", "@Ops please look")
	require.NoError(t, err)
	assert.Equal(t, []string{"ops"}, c.Mentions)

	_, err = svc.AddComment(ctx, tasks[0].ID, "dana", "   ")
	assert.ErrorIs(t, err, kanban.ErrEmptyComment)

	snap, err := svc.Snapshot(ctx, b.ID, true)
	require.NoError(t, err)
	require.Len(t, snap.Columns[0].Tasks[0].Comments, 1)

	got, ok := snap.Column(col.ID)
	require.True(t, ok)
	assert.Equal(t, "Todo", got.Name)

	require.NoError(t, svc.DeleteBoard(ctx, b.ID))
	_, err = svc.Snapshot(ctx, b.ID, false)
	assert.ErrorIs(t, err, kanban.ErrNotFound)
}
