// Package recordstore is the HTTP client for the alumni REST API.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alumni/internal/alumni"
)

// TransportError is a failed round trip: a network error or a non-2xx status.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Message != "" {
			return fmt.Sprintf("record store %s: status %d: %s", e.Op, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("record store %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("record store %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client calls the alumni REST API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client. baseURL includes the /api prefix.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Create posts a record and returns the stored copy.
// A 409 response is reported as alumni.ErrDuplicateName.
func (c *Client) Create(ctx context.Context, rec alumni.Record) (alumni.Record, error) {
	rec.ID = ""
	body, err := json.Marshal(rec)
	if err != nil {
		return alumni.Record{}, fmt.Errorf("encode record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/alumni", bytes.NewReader(body))
	if err != nil {
		return alumni.Record{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out alumni.Record
	if err := c.do(req, "create", &out); err != nil {
		var te *TransportError
		if errors.As(err, &te) && te.StatusCode == http.StatusConflict {
			return alumni.Record{}, alumni.ErrDuplicateName
		}
		return alumni.Record{}, err
	}
	return out, nil
}

// List fetches every record in store order.
func (c *Client) List(ctx context.Context) ([]alumni.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/alumni", nil)
	if err != nil {
		return nil, err
	}
	var out []alumni.Record
	if err := c.do(req, "list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExistsByName asks the store whether the name is already taken.
func (c *Client) ExistsByName(ctx context.Context, firstName, lastName string) (bool, error) {
	q := url.Values{}
	q.Set("firstName", firstName)
	q.Set("lastName", lastName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/check-name?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := c.do(req, "check-name", &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(bodyBytes))
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: msg, Err: errors.New(resp.Status)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
