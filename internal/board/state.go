package board

import (
	"slices"

	"github.com/timada-org/todos/pkg/todo"
)

type Query struct {
	Search        string
	OnlyFavorites bool
	Color         string
}

// Draft holds the create form fields.
type Draft struct {
	Title       string
	Description string
}

type State struct {
	Todos []todo.Todo
	Query Query
	Draft Draft
}

func (s State) clone() State {
	s.Todos = slices.Clone(s.Todos)
	return s
}

func (s State) find(id int64) (todo.Todo, bool) {
	for _, t := range s.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return todo.Todo{}, false
}

type Action interface {
	action()
}

// Loaded replaces the snapshot with a fresh list.
type Loaded struct{ Todos []todo.Todo }

// FavoriteSet sets the favorite flag of one todo in the snapshot.
type FavoriteSet struct {
	ID         int64
	IsFavorite bool
}

type SearchChanged struct{ Text string }

type OnlyFavoritesChanged struct{ Enabled bool }

type ColorFilterChanged struct{ Color string }

type DraftChanged struct{ Draft Draft }

type DraftCleared struct{}

func (Loaded) action()               {}
func (FavoriteSet) action()          {}
func (SearchChanged) action()        {}
func (OnlyFavoritesChanged) action() {}
func (ColorFilterChanged) action()   {}
func (DraftChanged) action()         {}
func (DraftCleared) action()         {}

// Reduce returns the state that results from applying a to s. s is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Loaded:
		s.Todos = slices.Clone(a.Todos)

	case FavoriteSet:
		todos := slices.Clone(s.Todos)
		for i := range todos {
			if todos[i].ID == a.ID {
				todos[i].IsFavorite = a.IsFavorite
			}
		}
		s.Todos = todos

	case SearchChanged:
		s.Query.Search = a.Text

	case OnlyFavoritesChanged:
		s.Query.OnlyFavorites = a.Enabled

	case ColorFilterChanged:
		s.Query.Color = a.Color

	case DraftChanged:
		s.Draft = a.Draft

	case DraftCleared:
		s.Draft = Draft{}
	}

	return s
}
