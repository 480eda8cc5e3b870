package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixge/httpsnoop"
	"github.com/julienschmidt/httprouter"
	"github.com/timada-org/todos/internal/service"
	"github.com/timada-org/todos/internal/sse"
)

type Options struct {
	Addr    string
	Service *service.Service
	Sse     *sse.Server
	// Auth is optional; when nil every route is public.
	Auth *Auth
}

type App struct {
	addr    string
	service *service.Service
	sse     *sse.Server
	auth    *Auth
}

func New(options Options) *App {
	return &App{
		addr:    options.Addr,
		service: options.Service,
		sse:     options.Sse,
		auth:    options.Auth,
	}
}

func (app *App) Handler() http.Handler {
	router := httprouter.New()
	router.GlobalOPTIONS = http.HandlerFunc(preflight)

	router.GET("/", app.status())
	router.GET("/todos", app.protect(app.list()))
	router.POST("/todos", app.protect(app.create()))
	router.GET("/todos/:id", app.protect(app.show()))
	router.PUT("/todos/:id", app.protect(app.update()))
	router.DELETE("/todos/:id", app.protect(app.delete()))
	router.POST("/todos/:id/favorite", app.protect(app.favorite()))
	router.POST("/todos/:id/unfavorite", app.protect(app.unfavorite()))
	router.POST("/todos/:id/color", app.protect(app.setColor()))

	if app.sse != nil {
		router.GET("/events", app.protect(app.sse.HandleFunc()))
	}

	return logRequests(cors(router))
}

// Listen serves until ctx is cancelled. Open event streams are closed with it.
func (app *App) Listen(ctx context.Context) error {
	server := &http.Server{
		Addr:              app.addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", app.addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) Close() {
	if app.auth != nil {
		app.auth.Close()
	}
}

func (app *App) protect(next httprouter.Handle) httprouter.Handle {
	if app.auth == nil {
		return next
	}

	return app.auth.Middleware(next)
}

func (app *App) status() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Access-Control-Request-Method") != "" {
		header := w.Header()
		header.Set("Access-Control-Allow-Methods", header.Get("Allow"))
		header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	}

	w.WriteHeader(http.StatusNoContent)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration", m.Duration,
		)
	})
}
