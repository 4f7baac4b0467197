// Package sqlite implements kanban.Store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/pkg/kanban"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "kanban.db"

// SQLITE_CONSTRAINT_UNIQUE extended result code.
const sqliteConstraintUnique = 2067

// Compile-time interface check.
var _ kanban.Store = (*Store)(nil)

// Store is a kanban.Store backed by a single SQLite database file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenDir opens (creating if needed) the database inside dataDir.
func OpenDir(ctx context.Context, dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return Open(ctx, filepath.Join(dataDir, DBFileName))
}

// Open opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection keeps writes serialized and pragmas consistent.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) && se.Code() == sqliteConstraintUnique {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// exists runs a "SELECT 1 ..." query and reports whether it returned a row.
func exists(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Boards

func (s *Store) CreateBoard(ctx context.Context, b *kanban.Board) error {
	if b.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		b.ID = id
	}
	b.CreatedAt = s.now()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO boards (board_id, name, created_at) VALUES (?, ?, ?)",
		b.ID, b.Name, formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting board: %w", err)
	}
	return nil
}

func scanBoard(row rowScanner) (*kanban.Board, error) {
	var b kanban.Board
	var created string
	if err := row.Scan(&b.ID, &b.Name, &created); err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	b.CreatedAt = t
	return &b, nil
}

func (s *Store) GetBoard(ctx context.Context, id string) (*kanban.Board, error) {
	if id == "" {
		return nil, kanban.ErrInvalidID
	}
	b, err := scanBoard(s.db.QueryRowContext(ctx,
		"SELECT board_id, name, created_at FROM boards WHERE board_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kanban.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting board %s: %w", id, err)
	}
	return b, nil
}

func (s *Store) ListBoards(ctx context.Context) ([]*kanban.Board, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT board_id, name, created_at FROM boards ORDER BY created_at, board_id")
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	defer rows.Close()

	var out []*kanban.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning board: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	if id == "" {
		return kanban.ErrInvalidID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, "SELECT 1 FROM boards WHERE board_id = ?", id)
	if err != nil {
		return fmt.Errorf("checking board existence: %w", err)
	}
	if !ok {
		return kanban.ErrNotFound
	}

	stmts := []string{
		`DELETE FROM comments WHERE task_id IN (
			SELECT t.task_id FROM tasks t JOIN board_columns c ON t.column_id = c.column_id WHERE c.board_id = ?)`,
		"DELETE FROM tasks WHERE column_id IN (SELECT column_id FROM board_columns WHERE board_id = ?)",
		"DELETE FROM board_columns WHERE board_id = ?",
		"DELETE FROM boards WHERE board_id = ?",
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting board %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing board deletion: %w", err)
	}
	return nil
}

// Columns

const columnFields = "column_id, board_id, name, position, created_at, updated_at"

func scanColumn(row rowScanner) (*kanban.Column, error) {
	var c kanban.Column
	var created, updated string
	if err := row.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}

func (s *Store) InsertColumn(ctx context.Context, c *kanban.Column) error {
	if c.BoardID == "" {
		return kanban.ErrInvalidID
	}
	ok, err := exists(ctx, s.db, "SELECT 1 FROM boards WHERE board_id = ?", c.BoardID)
	if err != nil {
		return fmt.Errorf("checking board existence: %w", err)
	}
	if !ok {
		return kanban.ErrNotFound
	}
	if c.ID == "" {
		if c.ID, err = newID(); err != nil {
			return err
		}
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO board_columns ("+columnFields+") VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.BoardID, c.Name, c.Position, formatTime(now), formatTime(now),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("inserting column at %s: %w", c.Position, kanban.ErrDuplicatePosition)
	}
	if err != nil {
		return fmt.Errorf("inserting column: %w", err)
	}
	return nil
}

func (s *Store) GetColumn(ctx context.Context, id string) (*kanban.Column, error) {
	if id == "" {
		return nil, kanban.ErrInvalidID
	}
	c, err := scanColumn(s.db.QueryRowContext(ctx,
		"SELECT "+columnFields+" FROM board_columns WHERE column_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kanban.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting column %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) ListColumns(ctx context.Context, boardID string) ([]*kanban.Column, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+columnFields+" FROM board_columns WHERE board_id = ? ORDER BY position", boardID)
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	defer rows.Close()

	var out []*kanban.Column
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) RenameColumn(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE board_columns SET name = ?, updated_at = ? WHERE column_id = ?",
		name, formatTime(s.now()), id,
	)
	if err != nil {
		return fmt.Errorf("renaming column: %w", err)
	}
	return requireRow(res)
}

func (s *Store) RepositionColumn(ctx context.Context, id, expected, position string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE board_columns SET position = ?, updated_at = ? WHERE column_id = ? AND position = ?",
		position, formatTime(s.now()), id, expected,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("moving column to %s: %w", position, kanban.ErrDuplicatePosition)
	}
	if err != nil {
		return fmt.Errorf("moving column: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ok, err := exists(ctx, s.db, "SELECT 1 FROM board_columns WHERE column_id = ?", id)
	if err != nil {
		return fmt.Errorf("checking column existence: %w", err)
	}
	if !ok {
		return kanban.ErrNotFound
	}
	return kanban.ErrConflict
}

func (s *Store) DeleteColumn(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		"DELETE FROM comments WHERE task_id IN (SELECT task_id FROM tasks WHERE column_id = ?)",
		"DELETE FROM tasks WHERE column_id = ?",
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting column %s: %w", id, err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM board_columns WHERE column_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting column %s: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing column deletion: %w", err)
	}
	return nil
}

// Tasks

const taskFields = "task_id, column_id, title, description, position, created_at, updated_at"

func scanTask(row rowScanner) (*kanban.Task, error) {
	var t kanban.Task
	var created, updated string
	if err := row.Scan(&t.ID, &t.ColumnID, &t.Title, &t.Description, &t.Position, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

func (s *Store) InsertTasks(ctx context.Context, tasks []*kanban.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	checked := make(map[string]bool)
	now := s.now()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		if t.ColumnID == "" {
			return kanban.ErrInvalidID
		}
		if !checked[t.ColumnID] {
			ok, err := exists(ctx, tx, "SELECT 1 FROM board_columns WHERE column_id = ?", t.ColumnID)
			if err != nil {
				return fmt.Errorf("checking column existence: %w", err)
			}
			if !ok {
				return kanban.ErrNotFound
			}
			checked[t.ColumnID] = true
		}
		ids[i] = t.ID
		if ids[i] == "" {
			if ids[i], err = newID(); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO tasks ("+taskFields+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			ids[i], t.ColumnID, t.Title, t.Description, t.Position, formatTime(now), formatTime(now),
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting task at %s: %w", t.Position, kanban.ErrDuplicatePosition)
		}
		if err != nil {
			return fmt.Errorf("inserting task: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tasks: %w", err)
	}

	// Only mutate the caller's structs once everything is stored.
	for i, t := range tasks {
		t.ID = ids[i]
		t.CreatedAt, t.UpdatedAt = now, now
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*kanban.Task, error) {
	if id == "" {
		return nil, kanban.ErrInvalidID
	}
	t, err := scanTask(s.db.QueryRowContext(ctx,
		"SELECT "+taskFields+" FROM tasks WHERE task_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kanban.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, columnID string) ([]*kanban.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskFields+" FROM tasks WHERE column_id = ? ORDER BY position", columnID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []*kanban.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, id, title, description string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, updated_at = ? WHERE task_id = ?",
		title, description, formatTime(s.now()), id,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRow(res)
}

func (s *Store) MoveTask(ctx context.Context, m kanban.TaskMove) error {
	if m.TaskID == "" || m.FromColumnID == "" || m.ToColumnID == "" {
		return kanban.ErrInvalidID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if m.ToColumnID != m.FromColumnID {
		var fromBoard, toBoard string
		err := tx.QueryRowContext(ctx, "SELECT board_id FROM board_columns WHERE column_id = ?", m.ToColumnID).Scan(&toBoard)
		if errors.Is(err, sql.ErrNoRows) {
			return kanban.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("looking up target column: %w", err)
		}
		err = tx.QueryRowContext(ctx, "SELECT board_id FROM board_columns WHERE column_id = ?", m.FromColumnID).Scan(&fromBoard)
		if errors.Is(err, sql.ErrNoRows) {
			return kanban.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("looking up source column: %w", err)
		}
		if fromBoard != toBoard {
			return fmt.Errorf("move task across boards: %w", kanban.ErrInvalidID)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE tasks SET column_id = ?, position = ?, updated_at = ?
		 WHERE task_id = ? AND column_id = ? AND position = ?`,
		m.ToColumnID, m.ToPosition, formatTime(s.now()), m.TaskID, m.FromColumnID, m.FromPosition,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("moving task to %s: %w", m.ToPosition, kanban.ErrDuplicatePosition)
	}
	if err != nil {
		return fmt.Errorf("moving task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		ok, err := exists(ctx, tx, "SELECT 1 FROM tasks WHERE task_id = ?", m.TaskID)
		if err != nil {
			return fmt.Errorf("checking task existence: %w", err)
		}
		if !ok {
			return kanban.ErrNotFound
		}
		return kanban.ErrConflict
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task move: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE task_id = ?", id); err != nil {
		return fmt.Errorf("deleting task comments: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE task_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task deletion: %w", err)
	}
	return nil
}

// requireRow maps an update that touched nothing to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return kanban.ErrNotFound
	}
	return nil
}
