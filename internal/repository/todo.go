package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hpnchanel/todoapi/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrTodoNotFound is returned when no todo with the given ID belongs to the owner.
var ErrTodoNotFound = errors.New("todo not found")

const todoColumns = `id, owner_id, text, completed, completed_at, created_at, updated_at`

// CreateTodo inserts a new todo.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, owner_id, text, completed, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Text,
		todo.Completed,
		todo.CompletedAt,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// ListTodosByOwner returns every todo owned by ownerID, oldest first.
func (r *Repository) ListTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*model.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// GetTodoForOwner retrieves a todo by ID if it belongs to ownerID.
func (r *Repository) GetTodoForOwner(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND owner_id = $2`

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// DeleteTodoForOwner removes a todo owned by ownerID and returns it.
func (r *Repository) DeleteTodoForOwner(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2 RETURNING ` + todoColumns

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	return todo, nil
}

// UpdateTodoForOwner applies patch to a todo owned by ownerID in a single
// statement and returns the updated row.
func (r *Repository) UpdateTodoForOwner(ctx context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error) {
	query := `
		UPDATE todos
		SET text = COALESCE($3, text),
		    completed = $4,
		    completed_at = $5,
		    updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + todoColumns

	todo, err := scanTodo(r.pool.QueryRow(ctx, query,
		id,
		ownerID,
		patch.Text,
		patch.Completed,
		patch.CompletedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// scanTodo scans a single row into a Todo model.
func scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.OwnerID,
		&todo.Text,
		&todo.Completed,
		&todo.CompletedAt,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
