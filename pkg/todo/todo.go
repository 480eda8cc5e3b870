package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("todo not found")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field string, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type Todo struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsFavorite  bool      `json:"isFavorite" db:"is_favorite"`
	Color       *string   `json:"color,omitempty" db:"color"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// DescriptionText returns the description or an empty string when absent.
func (t Todo) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

func (t Todo) ColorText() string {
	if t.Color == nil {
		return ""
	}
	return *t.Color
}

// Topic is the event topic name for the todo.
func (t Todo) Topic() string {
	return TopicFor(t.ID)
}

func TopicFor(id int64) string {
	return fmt.Sprintf("todos/%d", id)
}

func String(v string) *string {
	return &v
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
