// Package client is the Remote Data Client: one method per backend procedure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/jrsteele09/go-tasks/tasks"
	"github.com/jrsteele09/go-tasks/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// GenericMessage is shown when a failure carries no server message
const GenericMessage = "An error occurred"

const defaultTimeout = 15 * time.Second

// RequestError is a failed call: a non-2xx response, or a transport error with Status 0
type RequestError struct {
	Procedure string
	Status    int
	Message   string
	Err       error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Procedure, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %d %s", e.Procedure, e.Status, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Message returns the human readable text of err: the server message of a
// RequestError, or GenericMessage for anything else.
func Message(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return GenericMessage
}

// StatusOf returns the HTTP status of a RequestError, 0 otherwise
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. A client without a cookie jar gets one.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client posting procedures to endpoint. Each client keeps its own
// cookies, so one client is one signed-in viewer.
func New(endpoint string, opts ...Option) (*Client, error) {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "[client New] failed to create cookie jar")
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Queries

func (c *Client) WhoAmI(ctx context.Context) (users.User, error) {
	var user users.User
	err := c.call(ctx, "whoami", nil, &user)
	return user, err
}

func (c *Client) ListTodos(ctx context.Context) (tasks.List, error) {
	var list tasks.List
	err := c.call(ctx, "list-todos", nil, &list)
	return list, err
}

func (c *Client) GetTodo(ctx context.Context, id int) (tasks.Task, error) {
	var task tasks.Task
	err := c.call(ctx, "get-todo", id, &task)
	return task, err
}

// Mutations

func (c *Client) SignIn(ctx context.Context, creds users.Credentials) (users.User, error) {
	var user users.User
	err := c.call(ctx, "sign-in", creds, &user)
	return user, err
}

func (c *Client) SignUp(ctx context.Context, creds users.Credentials) error {
	return c.call(ctx, "sign-up", creds, nil)
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.call(ctx, "sign-out", nil, nil)
}

func (c *Client) CreateTodo(ctx context.Context, input tasks.CreateInput) (tasks.Task, error) {
	var task tasks.Task
	err := c.call(ctx, "create-todo", input, &task)
	return task, err
}

func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.call(ctx, "delete-todo", id, nil)
}

func (c *Client) ToggleCompleted(ctx context.Context, id int) error {
	return c.call(ctx, "toggle-completed", id, nil)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call posts input to procedure and decodes the result into out (when non-nil)
func (c *Client) call(ctx context.Context, procedure string, input, out any) error {
	var body io.Reader
	if input != nil {
		b, err := json.Marshal(input)
		if err != nil {
			return &RequestError{Procedure: procedure, Message: GenericMessage, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+procedure, body)
	if err != nil {
		return &RequestError{Procedure: procedure, Message: GenericMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("procedure", procedure).Msg("request failed")
		return &RequestError{Procedure: procedure, Message: GenericMessage, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("procedure", procedure).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("remote call")

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Procedure: procedure, Status: resp.StatusCode, Message: GenericMessage}
		if decodeErr == nil && env.Error != nil && env.Error.Message != "" {
			reqErr.Message = env.Error.Message
		}
		return reqErr
	}

	if decodeErr != nil {
		return &RequestError{Procedure: procedure, Status: resp.StatusCode, Message: GenericMessage, Err: decodeErr}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &RequestError{Procedure: procedure, Status: resp.StatusCode, Message: GenericMessage, Err: err}
	}
	return nil
}
