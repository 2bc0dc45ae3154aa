package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"task_manager/internal/models"
)

type TaskSQLite struct {
	db *sql.DB
}

func NewTaskSQLite(db *sql.DB) *TaskSQLite { return &TaskSQLite{db: db} }

var _ TaskRepo = (*TaskSQLite)(nil)

const (
	insertTaskSQL = `
		INSERT INTO tasks (id, title, description, due_date, priority, status, assigned_to, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectTaskColumnsSQL = `SELECT id, title, description, due_date, priority, status, assigned_to, created_by, created_at, updated_at FROM tasks`
	selectTaskByIDSQL    = selectTaskColumnsSQL + ` WHERE id = ?`
	replaceTaskSQL       = `
		UPDATE tasks SET title = ?, description = ?, due_date = ?, priority = ?, status = ?,
			assigned_to = ?, created_by = ?, updated_at = ?
		WHERE id = ?
	`
	deleteTaskSQL = `DELETE FROM tasks WHERE id = ?`
)

// Create inserts t, assigning an id if it has none.
func (r *TaskSQLite) Create(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = models.NewID()
	}
	_, err := r.db.ExecContext(ctx, insertTaskSQL,
		t.ID,
		t.Title,
		t.Description,
		formatTime(t.DueDate),
		t.Priority,
		t.Status,
		t.AssignedTo,
		t.CreatedBy,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID fetches a task. Returns (nil, nil) if not found.
func (r *TaskSQLite) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTaskByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %q: %w", id, err)
	}
	return t, nil
}

// Replace overwrites every mutable column of the task with t.ID.
// created_at is left untouched.
func (r *TaskSQLite) Replace(ctx context.Context, t *models.Task) (bool, error) {
	res, err := r.db.ExecContext(ctx, replaceTaskSQL,
		t.Title,
		t.Description,
		formatTime(t.DueDate),
		t.Priority,
		t.Status,
		t.AssignedTo,
		t.CreatedBy,
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update task %q: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for task %q: %w", t.ID, err)
	}
	return n > 0, nil
}

// Delete removes the task with id.
func (r *TaskSQLite) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteTaskSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete task %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for task %q: %w", id, err)
	}
	return n > 0, nil
}

// List returns tasks matching f, oldest first.
func (r *TaskSQLite) List(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q, args := buildTaskQuery(f)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 64)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func buildTaskQuery(f TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AssignedTo != "" {
		conds = append(conds, "assigned_to = ?")
		args = append(args, f.AssignedTo)
	}
	if f.CreatedBy != "" {
		conds = append(conds, "created_by = ?")
		args = append(args, f.CreatedBy)
	}
	if !f.DueBefore.IsZero() {
		conds = append(conds, "due_date < ?")
		args = append(args, formatTime(f.DueBefore))
	}
	if f.ExcludeStatus != "" {
		conds = append(conds, "status <> ?")
		args = append(args, f.ExcludeStatus)
	}

	q := selectTaskColumnsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at ASC, id ASC"
	return q, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t                         models.Task
		dueDate, created, updated string
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&dueDate,
		&t.Priority,
		&t.Status,
		&t.AssignedTo,
		&t.CreatedBy,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}
	var err error
	if t.DueDate, err = parseTime(dueDate); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}
