package service

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/timada-org/todos/internal/core"
	"github.com/timada-org/todos/pkg/todo"
)

type Repository interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Get(ctx context.Context, id int64) (*todo.Todo, error)
	Create(ctx context.Context, input todo.CreateInput) (*todo.Todo, error)
	Save(ctx context.Context, t *todo.Todo) error
	Delete(ctx context.Context, id int64) error
}

type Publisher interface {
	Publish(event *core.Event)
}

type Options struct {
	Repository Repository
	Bus        Publisher
}

// Service applies the todo rules on top of a Repository and publishes an
// event for every successful mutation.
type Service struct {
	repo Repository
	bus  Publisher
}

func New(options Options) *Service {
	return &Service{
		repo: options.Repository,
		bus:  options.Bus,
	}
}

func (s *Service) List(ctx context.Context) ([]todo.Todo, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input todo.CreateInput) (*todo.Todo, error) {
	input.Normalize()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.publish(t.ID, core.EventCreated, t)

	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Todo, error) {
	return s.mutate(ctx, id, patch.Apply)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(id, core.EventDeleted, map[string]int64{"id": id})

	return nil
}

// Favorite forces isFavorite to true, whatever its current value.
func (s *Service) Favorite(ctx context.Context, id int64) (*todo.Todo, error) {
	return s.mutate(ctx, id, func(t *todo.Todo) {
		t.IsFavorite = true
	})
}

func (s *Service) Unfavorite(ctx context.Context, id int64) (*todo.Todo, error) {
	return s.mutate(ctx, id, func(t *todo.Todo) {
		t.IsFavorite = false
	})
}

// SetColor stores color verbatim. An empty color is rejected before the todo
// is looked up.
func (s *Service) SetColor(ctx context.Context, id int64, color string) (*todo.Todo, error) {
	if color == "" {
		return nil, &todo.ValidationError{Field: "color", Message: "color is required"}
	}

	return s.mutate(ctx, id, func(t *todo.Todo) {
		t.Color = todo.String(color)
	})
}

func (s *Service) mutate(ctx context.Context, id int64, change func(t *todo.Todo)) (*todo.Todo, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	change(t)

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.publish(t.ID, core.EventUpdated, t)

	return t, nil
}

func (s *Service) publish(id int64, name string, data any) {
	log.Debug("todo changed", "id", id, "event", name)

	if s.bus == nil {
		return
	}

	topic, err := core.NewName(todo.TopicFor(id))
	if err != nil {
		log.Error("building event topic", "id", id, "err", err)
		return
	}

	s.bus.Publish(&core.Event{
		Topic: topic,
		Name:  name,
		Data:  data,
	})
}
