package board

import (
	"strings"

	"github.com/timada-org/todos/pkg/todo"
)

// Filter derives the displayed list: search on title and description, the
// favorites-only switch, then an exact case-insensitive color match. Survivors
// are re-partitioned favorites first, each group keeping its input order.
func Filter(todos []todo.Todo, q Query) []todo.Todo {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	favorites := make([]todo.Todo, 0, len(todos))
	rest := make([]todo.Todo, 0, len(todos))

	for _, t := range todos {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.DescriptionText()), search) {
			continue
		}

		if q.OnlyFavorites && !t.IsFavorite {
			continue
		}

		if q.Color != "" && !strings.EqualFold(t.ColorText(), q.Color) {
			continue
		}

		if t.IsFavorite {
			favorites = append(favorites, t)
		} else {
			rest = append(rest, t)
		}
	}

	return append(favorites, rest...)
}
