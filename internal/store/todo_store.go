package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/timada-org/todos/pkg/todo"
)

// List returns favorites first, newest first within each group.
func (s *SQLiteStore) List(ctx context.Context) ([]todo.Todo, error) {
	todos := []todo.Todo{}

	err := s.db.SelectContext(ctx, &todos,
		"SELECT * FROM todos ORDER BY is_favorite DESC, created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	return todos, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	var t todo.Todo

	err := s.db.GetContext(ctx, &t, "SELECT * FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, todo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting todo %d: %w", id, err)
	}

	return &t, nil
}

// Create inserts a new, non-favorite todo and returns the stored record.
func (s *SQLiteStore) Create(ctx context.Context, input todo.CreateInput) (*todo.Todo, error) {
	now := s.now().UTC()

	t := todo.Todo{
		Title:       input.Title,
		Description: input.Description,
		Color:       input.Color,
		IsFavorite:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (title, description, is_favorite, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.IsFavorite, t.Color, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	if t.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("reading todo id: %w", err)
	}

	return &t, nil
}

// Save writes every mutable field of t and refreshes its updated_at.
func (s *SQLiteStore) Save(ctx context.Context, t *todo.Todo) error {
	updatedAt := s.now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET
			title = ?, description = ?, is_favorite = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, t.IsFavorite, t.Color, updatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo %d: %w", t.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return todo.ErrNotFound
	}

	t.UpdatedAt = updatedAt

	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return todo.ErrNotFound
	}

	return nil
}
