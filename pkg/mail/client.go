package mail

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
	sendMailPath                = "/api/mail-service/pvt/sendmail"
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("mail service url is required")

// Message is a templated mail request. JSONData is rendered into the template
// by the mail service.
type Message struct {
	TemplateName string `json:"templateName"`
	JSONData     any    `json:"jsonData"`
}

// Client sends templated mail through the mail service.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// WithToken sets the app token sent with each request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient builds the mail client for the given service URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// SendMail posts one templated message.
func (c *Client) SendMail(ctx context.Context, msg Message) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "mail client not configured")
	}
	if strings.TrimSpace(msg.TemplateName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template name is required")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal mail request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendMailPath, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build mail request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("VtexIdclientAutCookie", c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute mail request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "mail request failed")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
