package board_test

import (
	"context"
	"errors"
	"sync"

	"github.com/timada-org/todos/pkg/todo"
)

var errUnavailable = errors.New("service unavailable")

// fakeAPI is an in-memory API. Setting a *Err field makes that call fail.
type fakeAPI struct {
	mu     sync.Mutex
	todos  []todo.Todo
	nextID int64

	ListErr     error
	CreateErr   error
	DeleteErr   error
	FavoriteErr error
	ColorErr    error

	// gate, when set, is received from before favorite calls return.
	gate    chan error
	entered chan int64

	created []todo.CreateInput
	calls   []string
}

func newFakeAPI(todos ...todo.Todo) *fakeAPI {
	f := &fakeAPI{todos: todos, nextID: 100}
	return f
}

func (f *fakeAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) List(ctx context.Context) ([]todo.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")

	if f.ListErr != nil {
		return nil, f.ListErr
	}

	out := make([]todo.Todo, len(f.todos))
	copy(out, f.todos)
	return out, nil
}

func (f *fakeAPI) Create(ctx context.Context, input todo.CreateInput) (*todo.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	f.created = append(f.created, input)
	f.nextID++
	t := todo.Todo{ID: f.nextID, Title: input.Title, Description: input.Description, Color: input.Color}
	f.todos = append([]todo.Todo{t}, f.todos...)
	return &t, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")

	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return todo.ErrNotFound
}

func (f *fakeAPI) Favorite(ctx context.Context, id int64) (*todo.Todo, error) {
	return f.setFavorite(id, true)
}

func (f *fakeAPI) Unfavorite(ctx context.Context, id int64) (*todo.Todo, error) {
	return f.setFavorite(id, false)
}

func (f *fakeAPI) setFavorite(id int64, value bool) (*todo.Todo, error) {
	if f.entered != nil {
		f.entered <- id
	}
	if f.gate != nil {
		if err := <-f.gate; err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("favorite")

	if f.FavoriteErr != nil {
		return nil, f.FavoriteErr
	}

	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].IsFavorite = value
			t := f.todos[i]
			return &t, nil
		}
	}
	return nil, todo.ErrNotFound
}

func (f *fakeAPI) SetColor(ctx context.Context, id int64, color string) (*todo.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("color")

	if f.ColorErr != nil {
		return nil, f.ColorErr
	}

	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Color = todo.String(color)
			t := f.todos[i]
			return &t, nil
		}
	}
	return nil, todo.ErrNotFound
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
