package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway is the persistence contract of the spreadsheet web-app backend.
// It exposes a full snapshot read and three row-level mutating operations.
// The remote store serializes writes behind its own global lock; callers get
// no retry, no rollback and no atomicity across calls: a compound change
// (e.g. a trip start writing a mutation row then a vehicle row) that fails
// between the two writes leaves the store inconsistent.
type Gateway interface {
	// FetchAll reads the complete data set. Absent collections are empty.
	FetchAll(ctx context.Context) (*SheetData, error)

	// AddRow appends one record to the named sheet. Fields unknown to the
	// sheet schema are ignored by the backend; missing fields are written
	// empty.
	AddRow(ctx context.Context, sheetName string, record any) error

	// UpdateRow overwrites the row whose id matches the record's id.
	UpdateRow(ctx context.Context, sheetName string, record any) error

	// DeleteRow removes the row with the given id. A missing row is an
	// error ("not found") reported by the backend envelope.
	DeleteRow(ctx context.Context, sheetName, id string) error
}

// Actions understood by the web-app endpoint.
const (
	actionAdd    = "ADD_DATA"
	actionUpdate = "UPDATE_DATA"
	actionDelete = "DELETE_DATA"
)

// postRequest is the POST body of every mutating call.
type postRequest struct {
	Action  string      `json:"action"`
	Payload postPayload `json:"payload"`
}

type postPayload struct {
	SheetName string `json:"sheetName"`
	Data      any    `json:"data,omitempty"`
	ID        string `json:"id,omitempty"`
}

// envelope is the success/failure wrapper returned by every call.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// httpGateway talks to a deployed Google Apps Script web app.
type httpGateway struct {
	scriptURL  string
	httpClient *http.Client
}

// NewHTTPGateway creates a Gateway for the web app deployed at scriptURL.
func NewHTTPGateway(scriptURL string, timeout time.Duration) Gateway {
	return &httpGateway{
		scriptURL: scriptURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchAll issues the snapshot GET.
func (g *httpGateway) FetchAll(ctx context.Context) (*SheetData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.scriptURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet backend returned status %d: %s", resp.StatusCode, string(body))
	}

	// The snapshot endpoint reports errors inside a 200 response.
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return nil, fmt.Errorf("sheet backend error: %s", probe.Error)
	}

	var data SheetData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &data, nil
}

// AddRow appends one record.
func (g *httpGateway) AddRow(ctx context.Context, sheetName string, record any) error {
	return g.post(ctx, postRequest{
		Action:  actionAdd,
		Payload: postPayload{SheetName: sheetName, Data: record},
	})
}

// UpdateRow overwrites one record by id.
func (g *httpGateway) UpdateRow(ctx context.Context, sheetName string, record any) error {
	return g.post(ctx, postRequest{
		Action:  actionUpdate,
		Payload: postPayload{SheetName: sheetName, Data: record},
	})
}

// DeleteRow removes one record by id.
func (g *httpGateway) DeleteRow(ctx context.Context, sheetName, id string) error {
	return g.post(ctx, postRequest{
		Action:  actionDelete,
		Payload: postPayload{SheetName: sheetName, ID: id},
	})
}

// post issues a mutating call and decodes the success envelope.
// There is deliberately no retry: a failed write is surfaced to the caller
// untouched so no partial state is ever applied on top of it.
func (g *httpGateway) post(ctx context.Context, body postRequest) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.scriptURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Apps Script web apps only accept simple CORS requests.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheet backend returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if env.Error != "" {
		return fmt.Errorf("sheet backend error: %s", env.Error)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		return fmt.Errorf("sheet backend error: %s", msg)
	}

	return nil
}
