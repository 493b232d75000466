// Package client is a typed client for the taskflow API. It mirrors
// server auth and task state locally and refreshes the task list and
// stats after every mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// APIError is an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	state      State
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// State returns a snapshot of the client's current state.
func (c *Client) State() State {
	return c.state
}

func (c *Client) Token() string {
	return c.state.Token
}

func (c *Client) Tasks() []Task {
	return c.state.Tasks
}

func (c *Client) Stats() Stats {
	return c.state.Stats
}

func (c *Client) User() (User, bool) {
	if c.state.User == nil {
		return User{}, false
	}
	return *c.state.User, true
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.state.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.state.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

type sessionPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Register creates an account, stores the session and loads the
// (empty) task state.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var payload sessionPayload

	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &payload)

	if err != nil {
		return err
	}

	c.state = c.state.WithSession(payload.User, payload.Token)

	return c.Refresh(ctx)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var payload sessionPayload

	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)

	if err != nil {
		return err
	}

	c.state = c.state.WithSession(payload.User, payload.Token)

	return c.Refresh(ctx)
}

// Logout drops the local session. The server keeps no session state.
func (c *Client) Logout() {
	c.state = c.state.Cleared()
}

// Refresh reloads the task list and stats from the server.
func (c *Client) Refresh(ctx context.Context) error {
	var tasks []Task

	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return err
	}

	var stats Stats

	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks/stats", nil, &stats); err != nil {
		return err
	}

	c.state = c.state.WithTasks(tasks).WithStats(stats)

	return nil
}

type createTaskRequest struct {
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, title, status string) (Task, error) {
	var task Task

	err := c.doJSON(ctx, http.MethodPost, "/api/tasks", createTaskRequest{
		Title:  title,
		Status: status,
	}, &task)

	if err != nil {
		return Task{}, err
	}

	return task, c.Refresh(ctx)
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id uint, update TaskUpdate) (Task, error) {
	var task Task

	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), update, &task)

	if err != nil {
		return Task{}, err
	}

	return task, c.Refresh(ctx)
}

func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)

	if err != nil {
		return err
	}

	return c.Refresh(ctx)
}

// SaveSession writes the token and profile to path so a later process
// can resume the session.
func (c *Client) SaveSession(path string) error {
	payload, err := json.MarshalIndent(c.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// LoadSession restores a session saved by SaveSession. Task state is
// not persisted; call Refresh afterwards.
func (c *Client) LoadSession(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	var state State

	if err := json.Unmarshal(payload, &state); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	c.state = state

	return nil
}
