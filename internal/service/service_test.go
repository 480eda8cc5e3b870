package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timada-org/todos/internal/core"
	"github.com/timada-org/todos/internal/service"
	"github.com/timada-org/todos/internal/store"
	"github.com/timada-org/todos/pkg/todo"
)

type busRecorder struct {
	mux    sync.Mutex
	events []*core.Event
}

func (b *busRecorder) Publish(event *core.Event) {
	b.mux.Lock()
	defer b.mux.Unlock()
	b.events = append(b.events, event)
}

func (b *busRecorder) names() []string {
	b.mux.Lock()
	defer b.mux.Unlock()

	var names []string
	for _, e := range b.events {
		names = append(names, e.Topic.Value+" "+e.Name)
	}
	return names
}

func newService(t *testing.T) (*service.Service, *busRecorder) {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	bus := &busRecorder{}

	return service.New(service.Options{Repository: s, Bus: bus}), bus
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, bus := newService(t)

	created, err := svc.Create(ctx, todo.CreateInput{Title: "  Buy milk  ", Description: todo.String(" x ")})
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "x", created.DescriptionText())
	assert.False(t, created.IsFavorite)
	assert.Equal(t, []string{todo.TopicFor(created.ID) + " Created"}, bus.names())
}

func TestCreateBlankTitle(t *testing.T) {
	ctx := context.Background()
	svc, bus := newService(t)

	for _, title := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(ctx, todo.CreateInput{Title: title, Color: todo.String("red")})

		var verr *todo.ValidationError
		require.True(t, errors.As(err, &verr))
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, bus.names())
}

func TestUpdateMerges(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.Create(ctx, todo.CreateInput{
		Title:       "Buy milk",
		Description: todo.String("semi"),
		Color:       todo.String("blue"),
	})
	require.NoError(t, err)

	patch, err := todo.ParsePatch(map[string]any{"description": "whole", "isFavorite": "1"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, *patch)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "whole", updated.DescriptionText())
	assert.Equal(t, "blue", updated.ColorText())
	assert.True(t, updated.IsFavorite)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "whole", got.DescriptionText())
	assert.True(t, got.IsFavorite)
}

func TestUpdateMissing(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Update(context.Background(), 42, todo.Patch{Title: todo.String("x")})
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestFavoriteIsNotToggle(t *testing.T) {
	ctx := context.Background()
	svc, bus := newService(t)

	created, err := svc.Create(ctx, todo.CreateInput{Title: "a"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		fav, err := svc.Favorite(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, fav.IsFavorite)
	}

	for i := 0; i < 2; i++ {
		unfav, err := svc.Unfavorite(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, unfav.IsFavorite)
	}

	assert.Len(t, bus.names(), 5)
}

func TestFavoriteMissingDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	svc, bus := newService(t)

	_, err := svc.Favorite(ctx, 7)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	_, err = svc.Unfavorite(ctx, 7)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, bus.names())
}

func TestSetColor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.Create(ctx, todo.CreateInput{Title: "a"})
	require.NoError(t, err)

	colored, err := svc.SetColor(ctx, created.ID, "  Tomato ")
	require.NoError(t, err)
	assert.Equal(t, "  Tomato ", colored.ColorText())

	_, err = svc.SetColor(ctx, created.ID, "")
	var verr *todo.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "color", verr.Field)

	// validation wins over existence
	_, err = svc.SetColor(ctx, 999, "")
	require.True(t, errors.As(err, &verr))

	_, err = svc.SetColor(ctx, 999, "red")
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, bus := newService(t)

	created, err := svc.Create(ctx, todo.CreateInput{Title: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), todo.ErrNotFound)
	assert.Equal(t, []string{
		todo.TopicFor(created.ID) + " Created",
		todo.TopicFor(created.ID) + " Deleted",
	}, bus.names())
}
