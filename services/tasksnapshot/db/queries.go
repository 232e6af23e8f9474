package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type SeenTask struct {
	User      string
	CourseID  int64
	Kind      string
	TaskID    int64
	Title     string
	FirstSeen int64
}

const createSeenTask = `
INSERT INTO seen_task (user, course_id, kind, task_id, title, first_seen)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user, course_id, kind, task_id) DO NOTHING
`

func (q *Queries) CreateSeenTask(ctx context.Context, arg SeenTask) error {
	_, err := q.db.ExecContext(ctx, createSeenTask,
		arg.User, arg.CourseID, arg.Kind, arg.TaskID, arg.Title, arg.FirstSeen)
	return err
}

const hasSeenTask = `
SELECT COUNT(*) FROM seen_task
WHERE user = ? AND course_id = ? AND kind = ? AND task_id = ?
`

type HasSeenTaskParams struct {
	User     string
	CourseID int64
	Kind     string
	TaskID   int64
}

func (q *Queries) HasSeenTask(ctx context.Context, arg HasSeenTaskParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, hasSeenTask,
		arg.User, arg.CourseID, arg.Kind, arg.TaskID)
	var count int64
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

const getSeenTasks = `
SELECT user, course_id, kind, task_id, title, first_seen FROM seen_task
WHERE user = ?
ORDER BY first_seen, course_id, kind, task_id
`

func (q *Queries) GetSeenTasks(ctx context.Context, user string) ([]SeenTask, error) {
	rows, err := q.db.QueryContext(ctx, getSeenTasks, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []SeenTask
	for rows.Next() {
		var task SeenTask
		err := rows.Scan(&task.User, &task.CourseID, &task.Kind, &task.TaskID, &task.Title, &task.FirstSeen)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
