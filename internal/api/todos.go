package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
	"github.com/timada-org/todos/pkg/todo"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Message string `json:"message"`
}

func (app *App) list() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		todos, err := app.service.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, todos)
	}
}

func (app *App) show() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, err := todoID(p)
		if err != nil {
			writeError(w, r, err)
			return
		}

		t, err := app.service.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

func (app *App) create() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		body, err := decodeBody(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		input, err := todo.ParseCreate(body)
		if err != nil {
			writeError(w, r, err)
			return
		}

		t, err := app.service.Create(r.Context(), *input)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, t)
	}
}

func (app *App) update() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, err := todoID(p)
		if err != nil {
			writeError(w, r, err)
			return
		}

		body, err := decodeBody(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		patch, err := todo.ParsePatch(body)
		if err != nil {
			writeError(w, r, err)
			return
		}

		t, err := app.service.Update(r.Context(), id, *patch)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

func (app *App) delete() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, err := todoID(p)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := app.service.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (app *App) favorite() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, err := todoID(p)
		if err != nil {
			writeError(w, r, err)
			return
		}

		t, err := app.service.Favorite(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

func (app *App) unfavorite() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, err := todoID(p)
		if err != nil {
			writeError(w, r, err)
			return
		}

		t, err := app.service.Unfavorite(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

func (app *App) setColor() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		body, err := decodeBody(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		// a non-string color counts as missing
		color, _ := body["color"].(string)
		if color == "" {
			writeError(w, r, &todo.ValidationError{Field: "color", Message: "color is required"})
			return
		}

		id, err := todoID(p)
		if err != nil {
			writeError(w, r, err)
			return
		}

		t, err := app.service.SetColor(r.Context(), id, color)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

// todoID treats an unparsable id like an unknown one.
func todoID(p httprouter.Params) (int64, error) {
	id, err := strconv.ParseInt(p.ByName("id"), 10, 64)
	if err != nil {
		return 0, todo.ErrNotFound
	}

	return id, nil
}

// decodeBody reads a JSON object body. An empty body decodes to an empty map.
func decodeBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, errBadRequest
	}

	if body == nil {
		body = map[string]any{}
	}

	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Error("encoding response", "err", err)
		http.Error(w, "Internal server error.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(payload); err != nil {
		log.Warn("writing response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *todo.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{verr.Message})
	case errors.Is(err, todo.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{"Todo not found"})
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{"Bad request."})
	default:
		log.Error("handling request", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{"Internal server error."})
	}
}
