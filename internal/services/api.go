// HTTP client for the Sonata REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "https://api.sonata.fm/api/v1"

// APIService makes raw HTTP requests against the Sonata API and decodes its response envelope.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the API root all paths are joined to.
func (a *APIService) BaseURL() string { return a.baseURL }

// WithToken returns a copy of the service that sends token as a Bearer authorization header.
// An empty token returns the receiver unchanged.
func (a *APIService) WithToken(token string) *APIService {
	if token == "" {
		return a
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, a.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = a.httpClient.Timeout

	return &APIService{baseURL: a.baseURL, httpClient: client}
}

// Envelope is the JSON wrapper every API response uses.
type Envelope struct {
	Status  any             `json:"status"`
	Code    int             `json:"code"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
	Envelope   *Envelope
}

// OK reports a 2xx status whose envelope, if any, does not claim failure.
func (r *APIResponse) OK() bool {
	if r.StatusCode < 200 || r.StatusCode >= 300 {
		return false
	}
	if r.Envelope != nil && r.Envelope.Success != nil {
		return *r.Envelope.Success
	}
	return true
}

// Get performs a GET request to path with optional query parameters.
func (a *APIService) Get(ctx context.Context, path string, query url.Values) (*APIResponse, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	if _, ok := jsonData.(map[string]any); ok {
		var env Envelope
		if err := json.Unmarshal(raw, &env); err == nil {
			apiResp.Envelope = &env
		}
	}

	return apiResp, nil
}

// decodeList reads a list out of the envelope data, which is either a bare
// array or an object wrapping one under "items" or "data".
func decodeList[T any](resp *APIResponse) ([]T, error) {
	if resp.Envelope == nil {
		return nil, fmt.Errorf("response is not an API envelope")
	}

	raw := bytes.TrimSpace(resp.Envelope.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	items := []T{}
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
	case '{':
		var page struct {
			Items []T `json:"items"`
			Data  []T `json:"data"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
		switch {
		case page.Items != nil:
			items = page.Items
		case page.Data != nil:
			items = page.Data
		}
	default:
		return nil, fmt.Errorf("unexpected data payload %q", raw[:1])
	}
	return items, nil
}

// decodeData reads a single object out of the envelope data.
func decodeData[T any](resp *APIResponse) (*T, error) {
	if resp.Envelope == nil || len(resp.Envelope.Data) == 0 {
		return nil, fmt.Errorf("response has no data")
	}

	var v T
	if err := json.Unmarshal(resp.Envelope.Data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return &v, nil
}
