package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
)

const (
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("graphql endpoint url is required")

// Client posts GraphQL operations to a single endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithToken sets the credential sent in the VtexIdclientAutCookie header.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient builds a GraphQL client for the given endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Error is a single entry of a GraphQL errors array.
type Error struct {
	Message string `json:"message"`
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Do executes the operation and decodes the data member into out.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "graphql client not configured")
	}

	payload, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal graphql request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build graphql request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("VtexIdclientAutCookie", c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute graphql request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "graphql request failed")
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode graphql response")
	}
	if len(apiResp.Errors) > 0 {
		messages := make([]string, 0, len(apiResp.Errors))
		for _, e := range apiResp.Errors {
			messages = append(messages, e.Message)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, "graphql errors: "+strings.Join(messages, "; "))
	}
	if out == nil || len(apiResp.Data) == 0 || string(apiResp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(apiResp.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode graphql data")
	}
	return nil
}
