package sqlite

// Schema DDL. Positions are TEXT compared with the default BINARY collation,
// which matches Go's bytewise string ordering.
const (
	createBoards = `CREATE TABLE IF NOT EXISTS boards (
    board_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createColumns = `CREATE TABLE IF NOT EXISTS board_columns (
    column_id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(board_id) ON DELETE CASCADE
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id TEXT PRIMARY KEY,
    column_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (column_id) REFERENCES board_columns(column_id) ON DELETE CASCADE
);`

	createComments = `CREATE TABLE IF NOT EXISTS comments (
    comment_id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL,
    author TEXT NOT NULL,
    body TEXT NOT NULL,
    mentions TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    FOREIGN KEY (task_id) REFERENCES tasks(task_id) ON DELETE CASCADE
);`
)

// Unique sibling positions back the rule that no two items of a sibling set
// share a literal key.
const (
	idxColumnsPosition = `CREATE UNIQUE INDEX IF NOT EXISTS idx_columns_position ON board_columns(board_id, position);`
	idxTasksPosition   = `CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_position ON tasks(column_id, position);`
	idxCommentsTask    = `CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id, created_at);`
)

var schemaDDL = []string{
	createBoards,
	createColumns,
	createTasks,
	createComments,
	idxColumnsPosition,
	idxTasksPosition,
	idxCommentsTask,
}
