package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jgoulah/energydash/pkg/models"
)

// APIError is an application-level failure reported by the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// TransportError is a network failure or an unreadable response
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// envelope holds the status fields shared by most responses
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Client talks to the energy monitor HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend at baseURL. A zero timeout leaves the
// transport default in place.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend origin the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAppliances fetches the current appliance mapping
func (c *Client) ListAppliances(ctx context.Context) (models.Appliances, error) {
	appliances := models.Appliances{}
	// The body is a bare mapping, so an appliance called "error" must not be
	// mistaken for a status field.
	if err := c.do(ctx, http.MethodGet, "/api/appliances", nil, &appliances, false); err != nil {
		return nil, err
	}
	return appliances, nil
}

type applianceResponse struct {
	Appliances models.Appliances `json:"appliances"`
}

// AddAppliance registers an appliance and returns the full mapping
func (c *Client) AddAppliance(ctx context.Context, name string, hours int) (models.Appliances, error) {
	body := map[string]any{"appliance": name, "hours": hours}
	var resp applianceResponse
	if err := c.do(ctx, http.MethodPost, "/api/appliances", body, &resp, true); err != nil {
		return nil, err
	}
	return nonNil(resp.Appliances), nil
}

// RemoveAppliance deletes an appliance by name and returns the full mapping
func (c *Client) RemoveAppliance(ctx context.Context, name string) (models.Appliances, error) {
	var resp applianceResponse
	path := "/api/appliances/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return nonNil(resp.Appliances), nil
}

// Predict asks the backend to predict next month's bill from three prior bills
func (c *Client) Predict(ctx context.Context, bills []float64) (*models.Prediction, error) {
	var p models.Prediction
	if err := c.do(ctx, http.MethodPost, "/api/predict", map[string]any{"bills": bills}, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// Report fetches the hours breakdown
func (c *Client) Report(ctx context.Context) (*models.UsageReport, error) {
	var r models.UsageReport
	if err := c.do(ctx, http.MethodGet, "/api/report", nil, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

// Analysis fetches the cost breakdown and regression
func (c *Client) Analysis(ctx context.Context) (*models.CostAnalysis, error) {
	var a models.CostAnalysis
	if err := c.do(ctx, http.MethodGet, "/api/analysis", nil, &a, true); err != nil {
		return nil, err
	}
	return &a, nil
}

// MLReport fetches the savings plan
func (c *Client) MLReport(ctx context.Context) (*models.SavingsReport, error) {
	var r models.SavingsReport
	if err := c.do(ctx, http.MethodGet, "/api/mlreport", nil, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

// Ask sends a chat question and returns the bot's reply
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chatbot", map[string]string{"question": question}, &resp, true); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// do sends one request and decodes the JSON response into out
func (c *Client) do(ctx context.Context, method, path string, body, out any, checkEnvelope bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "reading response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if json.Unmarshal(respBody, &env) == nil && env.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP error: status %d", resp.StatusCode),
		}
	}

	if checkEnvelope {
		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return &TransportError{Op: "decoding response", Err: err}
		}
		if env.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
		}
		if env.Success != nil && !*env.Success {
			return &APIError{StatusCode: resp.StatusCode}
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Op: "decoding response", Err: err}
	}
	return nil
}

func nonNil(a models.Appliances) models.Appliances {
	if a == nil {
		return models.Appliances{}
	}
	return a
}
