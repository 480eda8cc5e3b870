package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/timada-org/todos/pkg/todo"
)

// Error reports a non-2xx answer. The response body is not inspected.
type Error struct {
	Method string
	Path   string
	Status int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s failed: %d", e.Method, e.Path, e.Status)
}

type ClientOptions struct {
	URL string
	// Token is sent as a bearer token when set.
	Token      string
	HTTPClient *http.Client
}

type Client struct {
	url   string
	token string
	http  *http.Client
}

func New(options ClientOptions) (*Client, error) {
	if options.URL == "" {
		return nil, errors.New("client: url is required")
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		url:   strings.TrimRight(options.URL, "/"),
		token: options.Token,
		http:  httpClient,
	}, nil
}

func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}

	return todos, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	return c.todo(ctx, http.MethodGet, todoPath(id, ""), nil)
}

func (c *Client) Create(ctx context.Context, input todo.CreateInput) (*todo.Todo, error) {
	return c.todo(ctx, http.MethodPost, "/todos", input)
}

// Update sends a partial update; keys absent from fields are left untouched.
func (c *Client) Update(ctx context.Context, id int64, fields map[string]any) (*todo.Todo, error) {
	return c.todo(ctx, http.MethodPut, todoPath(id, ""), fields)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, todoPath(id, ""), nil, nil)
}

func (c *Client) Favorite(ctx context.Context, id int64) (*todo.Todo, error) {
	return c.todo(ctx, http.MethodPost, todoPath(id, "/favorite"), nil)
}

func (c *Client) Unfavorite(ctx context.Context, id int64) (*todo.Todo, error) {
	return c.todo(ctx, http.MethodPost, todoPath(id, "/unfavorite"), nil)
}

func (c *Client) SetColor(ctx context.Context, id int64, color string) (*todo.Todo, error) {
	return c.todo(ctx, http.MethodPost, todoPath(id, "/color"), map[string]string{"color": color})
}

func (c *Client) todo(ctx context.Context, method string, path string, body any) (*todo.Todo, error) {
	var t todo.Todo
	if err := c.do(ctx, method, path, body, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Error{Method: method, Path: path, Status: res.StatusCode}
	}

	if out == nil || !hasJSONBody(res) {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) newRequest(ctx context.Context, method string, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

// hasJSONBody is false for 204 and for non-JSON content types.
func hasJSONBody(res *http.Response) bool {
	if res.StatusCode == http.StatusNoContent {
		return false
	}

	return strings.Contains(res.Header.Get("Content-Type"), "application/json")
}

func todoPath(id int64, suffix string) string {
	return fmt.Sprintf("/todos/%d%s", id, suffix)
}
