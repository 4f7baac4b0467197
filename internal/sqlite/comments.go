package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nielpattin/SA25-26-ClassN02-Group-2-sub003/pkg/kanban"
)

func (s *Store) AddComment(ctx context.Context, c *kanban.Comment) error {
	if c.TaskID == "" {
		return kanban.ErrInvalidID
	}
	ok, err := exists(ctx, s.db, "SELECT 1 FROM tasks WHERE task_id = ?", c.TaskID)
	if err != nil {
		return fmt.Errorf("checking task existence: %w", err)
	}
	if !ok {
		return kanban.ErrNotFound
	}

	mentions := c.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	data, err := json.Marshal(mentions)
	if err != nil {
		return fmt.Errorf("encoding mentions: %w", err)
	}
	if c.ID == "" {
		if c.ID, err = newID(); err != nil {
			return err
		}
	}
	c.CreatedAt = s.now()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO comments (comment_id, task_id, author, body, mentions, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.TaskID, c.Author, c.Body, string(data), formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, taskID string) ([]*kanban.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT comment_id, task_id, author, body, mentions, created_at
		 FROM comments WHERE task_id = ? ORDER BY created_at, comment_id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var out []*kanban.Comment
	for rows.Next() {
		var c kanban.Comment
		var mentions, created string
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Author, &c.Body, &mentions, &created); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		if err := json.Unmarshal([]byte(mentions), &c.Mentions); err != nil {
			return nil, fmt.Errorf("decoding mentions of comment %s: %w", c.ID, err)
		}
		if len(c.Mentions) == 0 {
			c.Mentions = nil
		}
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
