package provider

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

	"github.com/tempbox/tempbox/internal/model"
)

// Client is a thin HTTP client for a mail.tm-style disposable-email REST
// API. It is stateless: the caller supplies the bearer token on every
// authenticated call. No request is retried automatically.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a provider client for the given API root URL
// (e.g. https://api.mail.tm).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListDomains returns the domains available for new accounts, in provider
// order. The first entry is the conventional default.
func (c *Client) ListDomains(ctx context.Context) ([]Domain, error) {
	var collection domainCollection
	if err := c.do(ctx, http.MethodGet, "/domains", "", nil, &collection); err != nil {
		return nil, err
	}
	if len(collection.Members) == 0 {
		return nil, &Error{Status: http.StatusOK, Description: "provider listed no domains"}
	}
	return collection.Members, nil
}

// CreateAccount registers a new mailbox account. A provider conflict maps
// to ErrAlreadyExists, throttling to ErrRateLimited.
func (c *Client) CreateAccount(ctx context.Context, address, secret string) (*Account, error) {
	body := accountRequest{Address: address, Password: secret}

	var account Account
	if err := c.do(ctx, http.MethodPost, "/accounts", "", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Login exchanges an address/secret pair for a session token. A response
// without a token means the credentials were not accepted.
func (c *Client) Login(ctx context.Context, address, secret string) (string, error) {
	body := accountRequest{Address: address, Password: secret}

	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/token", "", body, &resp)
	if err != nil {
		// The token endpoint reports bad credentials as a plain 401;
		// map every auth-shaped failure to ErrAuthFailed for callers.
		var pe *Error
		if errors.As(err, &pe) && (pe.Status == http.StatusUnauthorized || pe.Status == http.StatusForbidden) {
			return "", ErrAuthFailed
		}
		if errors.Is(err, ErrUnauthorized) {
			return "", ErrAuthFailed
		}
		return "", err
	}
	if resp.Token == "" {
		return "", ErrAuthFailed
	}
	return resp.Token, nil
}

// ListMessages returns the inbox listing for the session token, in server
// order. A rejected token returns ErrUnauthorized.
func (c *Client) ListMessages(ctx context.Context, token string) ([]model.MessageSummary, error) {
	var collection messageCollection
	if err := c.do(ctx, http.MethodGet, "/messages", token, nil, &collection); err != nil {
		return nil, err
	}
	return collection.Members, nil
}

// GetMessage fetches the full detail for a single message.
func (c *Client) GetMessage(ctx context.Context, token, id string) (*model.Message, error) {
	var msg model.Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+id, token, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetSource fetches the raw RFC 822 source of a message, for export or
// local MIME inspection.
func (c *Client) GetSource(ctx context.Context, token, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/sources/"+id, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request GET /sources/%s: %w", id, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if mapped := mapStatus(resp.StatusCode, raw); mapped != nil {
		return nil, mapped
	}

	// The source endpoint may answer either raw bytes or a JSON wrapper
	// with a "data" field; accept both.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") ||
		strings.HasPrefix(resp.Header.Get("Content-Type"), "application/ld+json") {
		var wrapper struct {
			Data string `json:"data"`
		}
		if json.Unmarshal(raw, &wrapper) == nil && wrapper.Data != "" {
			return []byte(wrapper.Data), nil
		}
	}
	return raw, nil
}

// do builds the request, attaches the bearer token when present, maps the
// provider's status signals, and decodes the JSON response into result.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	token string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if mapped := mapStatus(resp.StatusCode, respBody); mapped != nil {
		return mapped
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &Error{
			Status:      resp.StatusCode,
			Description: fmt.Sprintf("malformed response on %s %s: %v", method, path, err),
		}
	}

	return nil
}

// mapStatus converts a non-2xx provider status into the error taxonomy.
// Returns nil for 2xx.
func mapStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnprocessableEntity, http.StatusConflict:
		// The provider answers 422 both for a taken address and for a
		// malformed one; only the former is a conflict.
		var he hydraError
		_ = json.Unmarshal(body, &he)
		perr := &Error{Status: status, Description: he.text()}
		if IsInvalidAddress(perr) {
			return perr
		}
		return ErrAlreadyExists
	}

	var he hydraError
	_ = json.Unmarshal(body, &he)
	return &Error{Status: status, Description: he.text()}
}
