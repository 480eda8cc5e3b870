package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/timada-org/todos/pkg/todo"
)

type Event struct {
	Topic string `json:"topic"`
	Name  string `json:"name"`
	Data  any    `json:"data"`
}

// IsSystem reports whether the event is a stream notification ($SYS/...)
// rather than a todo change.
func (e *Event) IsSystem() bool {
	return strings.HasPrefix(e.Topic, "$")
}

// Todo decodes the event payload of Created and Updated events.
func (e *Event) Todo() (*todo.Todo, error) {
	var t todo.Todo

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     &t,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(e.Data); err != nil {
		return nil, err
	}

	return &t, nil
}

// Events subscribes to the server event stream. The channel is closed when
// ctx is cancelled or the stream ends.
func (c *Client) Events(ctx context.Context, filter string) (<-chan Event, error) {
	path := "/events"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, &Error{Method: http.MethodGet, Path: path, Status: res.StatusCode}
	}

	events := make(chan Event)

	go func() {
		defer close(events)
		defer res.Body.Close()

		scanner := bufio.NewScanner(res.Body)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			payload, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}

			var event Event
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
