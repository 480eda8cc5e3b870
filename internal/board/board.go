// Package board keeps the client side copy of the todo list.
//
// All state changes go through Dispatch, which applies the pure Reduce
// function under a lock. Network calls are made outside the lock: favorite
// toggles are applied before their request and reverted if it fails, every
// other mutation waits for the server and then reloads the whole list.
//
// Two overlapping toggles of the same todo are not sequenced; whichever
// response arrives last decides the final local flag until the next Refresh.
package board

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/timada-org/todos/pkg/todo"
)

var ErrTitleRequired = errors.New("title is required")

// API is the subset of the todos HTTP client the board needs.
type API interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, input todo.CreateInput) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) error
	Favorite(ctx context.Context, id int64) (*todo.Todo, error)
	Unfavorite(ctx context.Context, id int64) (*todo.Todo, error)
	SetColor(ctx context.Context, id int64, color string) (*todo.Todo, error)
}

type Board struct {
	api     API
	mux     sync.Mutex
	state   State
	changes chan struct{}
}

func New(api API) *Board {
	return &Board{
		api:     api,
		changes: make(chan struct{}, 1),
	}
}

// Dispatch is the only way the state changes.
func (b *Board) Dispatch(a Action) {
	b.mux.Lock()
	b.state = Reduce(b.state, a)
	b.mux.Unlock()

	b.notify()
}

func (b *Board) State() State {
	b.mux.Lock()
	defer b.mux.Unlock()

	return b.state.clone()
}

func (b *Board) Visible() []todo.Todo {
	s := b.State()
	return Filter(s.Todos, s.Query)
}

// Changes signals after dispatches. Bursts are coalesced into one signal.
func (b *Board) Changes() <-chan struct{} {
	return b.changes
}

func (b *Board) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// Refresh replaces the snapshot with the server's list.
func (b *Board) Refresh(ctx context.Context) error {
	todos, err := b.api.List(ctx)
	if err != nil {
		return err
	}

	b.Dispatch(Loaded{Todos: todos})

	return nil
}

// Submit creates a todo from the draft, clears the draft and reloads.
func (b *Board) Submit(ctx context.Context) error {
	draft := b.State().Draft

	input := todo.CreateInput{Title: strings.TrimSpace(draft.Title)}
	if input.Title == "" {
		return ErrTitleRequired
	}

	if description := strings.TrimSpace(draft.Description); description != "" {
		input.Description = &description
	}

	if _, err := b.api.Create(ctx, input); err != nil {
		return err
	}

	b.Dispatch(DraftCleared{})

	return b.Refresh(ctx)
}

func (b *Board) Favorite(ctx context.Context, id int64) error {
	return b.setFavorite(ctx, id, true, b.api.Favorite)
}

func (b *Board) Unfavorite(ctx context.Context, id int64) error {
	return b.setFavorite(ctx, id, false, b.api.Unfavorite)
}

// ToggleFavorite favorites or unfavorites id depending on its local flag.
func (b *Board) ToggleFavorite(ctx context.Context, id int64) error {
	t, ok := b.State().find(id)
	if ok && t.IsFavorite {
		return b.Unfavorite(ctx, id)
	}

	return b.Favorite(ctx, id)
}

func (b *Board) setFavorite(
	ctx context.Context,
	id int64,
	target bool,
	call func(ctx context.Context, id int64) (*todo.Todo, error),
) error {
	prior, found := b.flip(id, target)

	if _, err := call(ctx, id); err != nil {
		if found {
			b.Dispatch(FavoriteSet{ID: id, IsFavorite: prior})
		}
		return err
	}

	return nil
}

// flip applies the optimistic flag and reports the value it replaced.
func (b *Board) flip(id int64, target bool) (prior bool, found bool) {
	b.mux.Lock()
	t, found := b.state.find(id)
	if found {
		b.state = Reduce(b.state, FavoriteSet{ID: id, IsFavorite: target})
	}
	b.mux.Unlock()

	if found {
		b.notify()
	}

	return t.IsFavorite, found
}

func (b *Board) SetColor(ctx context.Context, id int64, color string) error {
	if _, err := b.api.SetColor(ctx, id, color); err != nil {
		return err
	}

	return b.Refresh(ctx)
}

func (b *Board) Delete(ctx context.Context, id int64) error {
	if err := b.api.Delete(ctx, id); err != nil {
		return err
	}

	return b.Refresh(ctx)
}
