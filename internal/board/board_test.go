package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timada-org/todos/internal/board"
	"github.com/timada-org/todos/pkg/todo"
)

func loaded(t *testing.T, api *fakeAPI) *board.Board {
	t.Helper()

	b := board.New(api)
	require.NoError(t, b.Refresh(context.Background()))
	return b
}

func favoriteOf(t *testing.T, b *board.Board, id int64) bool {
	t.Helper()

	for _, item := range b.State().Todos {
		if item.ID == id {
			return item.IsFavorite
		}
	}
	t.Fatalf("todo %d not in snapshot", id)
	return false
}

func TestReduceDoesNotModifyInput(t *testing.T) {
	before := board.State{Todos: pair()}

	after := board.Reduce(before, board.FavoriteSet{ID: 1, IsFavorite: true})

	assert.False(t, before.Todos[0].IsFavorite)
	assert.True(t, after.Todos[0].IsFavorite)
}

func TestReduceQueryAndDraft(t *testing.T) {
	s := board.State{}
	s = board.Reduce(s, board.SearchChanged{Text: "milk"})
	s = board.Reduce(s, board.OnlyFavoritesChanged{Enabled: true})
	s = board.Reduce(s, board.ColorFilterChanged{Color: "red"})
	s = board.Reduce(s, board.DraftChanged{Draft: board.Draft{Title: "t", Description: "d"}})

	assert.Equal(t, board.Query{Search: "milk", OnlyFavorites: true, Color: "red"}, s.Query)
	assert.Equal(t, board.Draft{Title: "t", Description: "d"}, s.Draft)

	s = board.Reduce(s, board.DraftCleared{})
	assert.Equal(t, board.Draft{}, s.Draft)
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)
	assert.Equal(t, []int64{1, 2}, ids(b.State().Todos))

	api.todos = []todo.Todo{{ID: 9, Title: "Z"}}
	require.NoError(t, b.Refresh(context.Background()))
	assert.Equal(t, []int64{9}, ids(b.State().Todos))

	api.ListErr = errUnavailable
	assert.ErrorIs(t, b.Refresh(context.Background()), errUnavailable)
	assert.Equal(t, []int64{9}, ids(b.State().Todos))
}

func TestVisible(t *testing.T) {
	b := loaded(t, newFakeAPI(pair()...))

	b.Dispatch(board.OnlyFavoritesChanged{Enabled: true})
	assert.Equal(t, []int64{2}, ids(b.Visible()))

	b.Dispatch(board.OnlyFavoritesChanged{Enabled: false})
	b.Dispatch(board.ColorFilterChanged{Color: "RED"})
	assert.Equal(t, []int64{1}, ids(b.Visible()))
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(pair()...)
	b := loaded(t, api)

	b.Dispatch(board.DraftChanged{Draft: board.Draft{Title: "  New  ", Description: "   "}})
	require.NoError(t, b.Submit(ctx))

	require.Len(t, api.created, 1)
	assert.Equal(t, "New", api.created[0].Title)
	assert.Nil(t, api.created[0].Description)

	s := b.State()
	assert.Equal(t, board.Draft{}, s.Draft)
	assert.Len(t, s.Todos, 3)
	assert.Equal(t, []string{"list", "create", "list"}, api.callLog())
}

func TestSubmitKeepsDescription(t *testing.T) {
	api := newFakeAPI()
	b := loaded(t, api)

	b.Dispatch(board.DraftChanged{Draft: board.Draft{Title: "t", Description: " d "}})
	require.NoError(t, b.Submit(context.Background()))

	require.Len(t, api.created, 1)
	require.NotNil(t, api.created[0].Description)
	assert.Equal(t, "d", *api.created[0].Description)
}

func TestSubmitRequiresTitle(t *testing.T) {
	api := newFakeAPI()
	b := loaded(t, api)

	b.Dispatch(board.DraftChanged{Draft: board.Draft{Title: "   ", Description: "d"}})
	assert.ErrorIs(t, b.Submit(context.Background()), board.ErrTitleRequired)

	assert.Empty(t, api.created)
	assert.Equal(t, board.Draft{Title: "   ", Description: "d"}, b.State().Draft)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	api := newFakeAPI()
	b := loaded(t, api)
	api.CreateErr = errUnavailable

	b.Dispatch(board.DraftChanged{Draft: board.Draft{Title: "t"}})
	assert.ErrorIs(t, b.Submit(context.Background()), errUnavailable)

	assert.Equal(t, "t", b.State().Draft.Title)
	assert.Equal(t, []string{"list", "create"}, api.callLog())
}

func TestFavoriteIsOptimistic(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)

	api.gate = make(chan error)
	api.entered = make(chan int64)

	done := make(chan error)
	go func() {
		done <- b.Favorite(context.Background(), 1)
	}()

	// the request is in flight: the flag is already set locally
	assert.Equal(t, int64(1), <-api.entered)
	assert.True(t, favoriteOf(t, b, 1))

	api.gate <- errUnavailable
	assert.ErrorIs(t, <-done, errUnavailable)
	assert.False(t, favoriteOf(t, b, 1))
}

func TestFavoriteSuccessKeepsFlag(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)

	require.NoError(t, b.Favorite(context.Background(), 1))
	assert.True(t, favoriteOf(t, b, 1))
	assert.Equal(t, []string{"list", "favorite"}, api.callLog())
}

func TestUnfavoriteRollback(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)
	api.FavoriteErr = errUnavailable

	assert.ErrorIs(t, b.Unfavorite(context.Background(), 2), errUnavailable)
	assert.True(t, favoriteOf(t, b, 2))
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	b := loaded(t, newFakeAPI(pair()...))

	require.NoError(t, b.ToggleFavorite(ctx, 1))
	assert.True(t, favoriteOf(t, b, 1))

	require.NoError(t, b.ToggleFavorite(ctx, 2))
	assert.False(t, favoriteOf(t, b, 2))
}

func TestRollbackIsPerTodo(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)

	api.gate = make(chan error)
	api.entered = make(chan int64)

	first := make(chan error)
	go func() { first <- b.Favorite(context.Background(), 1) }()
	require.Equal(t, int64(1), <-api.entered)

	second := make(chan error)
	go func() { second <- b.Unfavorite(context.Background(), 2) }()
	require.Equal(t, int64(2), <-api.entered)

	assert.True(t, favoriteOf(t, b, 1))
	assert.False(t, favoriteOf(t, b, 2))

	// the gate is shared, so whichever call receives first gets the error;
	// each rollback must only touch its own todo
	api.gate <- errUnavailable
	api.gate <- nil

	errs := []error{<-first, <-second}
	failed := 0
	for _, err := range errs {
		if errors.Is(err, errUnavailable) {
			failed++
		}
	}
	require.Equal(t, 1, failed)

	if errors.Is(errs[0], errUnavailable) {
		assert.False(t, favoriteOf(t, b, 1))
		assert.False(t, favoriteOf(t, b, 2))
	} else {
		assert.True(t, favoriteOf(t, b, 1))
		assert.True(t, favoriteOf(t, b, 2))
	}
}

func TestSetColorRefreshes(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)

	require.NoError(t, b.SetColor(context.Background(), 2, "green"))
	assert.Equal(t, []string{"list", "color", "list"}, api.callLog())

	s := b.State()
	assert.Equal(t, "green", s.Todos[1].ColorText())
}

func TestSetColorIsNotOptimistic(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)
	api.ColorErr = errUnavailable

	assert.ErrorIs(t, b.SetColor(context.Background(), 2, "green"), errUnavailable)
	assert.Equal(t, "blue", b.State().Todos[1].ColorText())
	assert.Equal(t, []string{"list", "color"}, api.callLog())
}

func TestDelete(t *testing.T) {
	api := newFakeAPI(pair()...)
	b := loaded(t, api)

	require.NoError(t, b.Delete(context.Background(), 1))
	assert.Equal(t, []int64{2}, ids(b.State().Todos))

	api.DeleteErr = errUnavailable
	assert.ErrorIs(t, b.Delete(context.Background(), 2), errUnavailable)
	assert.Equal(t, []int64{2}, ids(b.State().Todos))
}

func TestChangesSignal(t *testing.T) {
	b := board.New(newFakeAPI())

	b.Dispatch(board.SearchChanged{Text: "a"})
	b.Dispatch(board.SearchChanged{Text: "b"})

	select {
	case <-b.Changes():
	case <-time.After(time.Second):
		t.Fatal("no change signalled")
	}

	select {
	case <-b.Changes():
		t.Fatal("bursts should be coalesced")
	default:
	}
}
