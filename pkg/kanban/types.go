package kanban

import (
	"strings"
	"time"
)

// Board is the root of a sibling set of columns.
type Board struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Column belongs to a board and orders tasks.
type Column struct {
	ID        string    `json:"id" yaml:"id"`
	BoardID   string    `json:"board_id" yaml:"board_id"`
	Name      string    `json:"name" yaml:"name"`
	Position  string    `json:"position" yaml:"position"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// SortKey returns the column's position within its board.
func (c *Column) SortKey() string { return c.Position }

// Task is a card inside a column.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	ColumnID    string    `json:"column_id" yaml:"column_id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Position    string    `json:"position" yaml:"position"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// SortKey returns the task's position within its column.
func (t *Task) SortKey() string { return t.Position }

// Comment is attached to a task. Mentions holds the normalized handles
// referenced in Body.
type Comment struct {
	ID        string    `json:"id" yaml:"id"`
	TaskID    string    `json:"task_id" yaml:"task_id"`
	Author    string    `json:"author" yaml:"author"`
	Body      string    `json:"body" yaml:"body"`
	Mentions  []string  `json:"mentions,omitempty" yaml:"mentions,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewComment validates author and body and extracts mentions.
func NewComment(taskID, author, body string) (*Comment, error) {
	if taskID == "" {
		return nil, ErrInvalidID
	}
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, ErrInvalidAuthor
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyComment
	}
	return &Comment{
		TaskID:   taskID,
		Author:   author,
		Body:     body,
		Mentions: ParseMentions(body),
	}, nil
}

// ValidateName trims name and rejects blank names.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
