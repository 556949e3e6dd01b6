package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the production Graph API root.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Client is the HTTP wrapper for the Microsoft Graph To Do API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Graph client. httpClient is expected to carry
// authentication (see NewHTTPClient); baseURL "" means the production API.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// DefaultListID resolves the user's default To Do list, preferring the
// wellknown default list over the first one returned.
func (c *Client) DefaultListID(ctx context.Context) (string, error) {
	var listResp struct {
		Value []TaskList `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, "/me/todo/lists", nil, &listResp); err != nil {
		return "", fmt.Errorf("failed to list todo lists: %w", err)
	}
	if len(listResp.Value) == 0 {
		return "", fmt.Errorf("graph account has no todo lists")
	}
	for _, l := range listResp.Value {
		if l.WellknownListName == "defaultList" {
			return l.ID, nil
		}
	}
	return listResp.Value[0].ID, nil
}

// ListTasks fetches tasks from a list, optionally filtering out completed
// ones server-side.
func (c *Client) ListTasks(ctx context.Context, listID string, includeCompleted bool, top int) ([]TodoTask, error) {
	if top <= 0 {
		top = 50
	}
	q := url.Values{}
	q.Set("$top", fmt.Sprintf("%d", top))
	if !includeCompleted {
		q.Set("$filter", "status ne 'completed'")
	}

	var listResp struct {
		Value []TodoTask `json:"value"`
	}
	path := fmt.Sprintf("/me/todo/lists/%s/tasks?%s", listID, q.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &listResp); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return listResp.Value, nil
}

// CreateTask creates a task in the given list.
func (c *Client) CreateTask(ctx context.Context, listID string, t TodoTask) (*TodoTask, error) {
	var created TodoTask
	path := fmt.Sprintf("/me/todo/lists/%s/tasks", listID)
	if err := c.do(ctx, http.MethodPost, path, &t, &created); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &created, nil
}

// UpdateTask patches a task; only the fields set on patch are sent.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, patch TodoTask) (*TodoTask, error) {
	var updated TodoTask
	path := fmt.Sprintf("/me/todo/lists/%s/tasks/%s", listID, taskID)
	if err := c.do(ctx, http.MethodPatch, path, &patch, &updated); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &updated, nil
}

// DeleteTask removes a task permanently.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	path := fmt.Sprintf("/me/todo/lists/%s/tasks/%s", listID, taskID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// do runs one Graph request, rejecting non-2xx statuses with the body text.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal graph request: %w", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call graph API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("graph API error %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}
	return nil
}

// ---- Graph wire types scoped to this package ----

// TaskList is the Graph todoTaskList object.
type TaskList struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	WellknownListName string `json:"wellknownListName"`
}

// TodoTask is the Graph todoTask object, reduced to the fields this
// service reads and writes.
type TodoTask struct {
	ID                   string         `json:"id,omitempty"`
	Title                string         `json:"title,omitempty"`
	Body                 *ItemBody      `json:"body,omitempty"`
	Status               string         `json:"status,omitempty"`
	DueDateTime          *GraphDateTime `json:"dueDateTime,omitempty"`
	ReminderDateTime     *GraphDateTime `json:"reminderDateTime,omitempty"`
	IsReminderOn         *bool          `json:"isReminderOn,omitempty"`
	CreatedDateTime      string         `json:"createdDateTime,omitempty"`
	LastModifiedDateTime string         `json:"lastModifiedDateTime,omitempty"`
}

// ItemBody is the Graph itemBody object.
type ItemBody struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// GraphDateTime is the Graph dateTimeTimeZone object.
type GraphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}
