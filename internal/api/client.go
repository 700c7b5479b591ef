// Package api is the single outbound channel to the document-generation
// service. Every call goes through Client.do: it attaches the bearer
// credential, normalizes transport failures into *Error, and owns the one
// global 401 side effect (session teardown). No caller implements its own
// unauthorized handling.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/assisitant-dever/docgen/internal/auth"
	"github.com/assisitant-dever/docgen/internal/configuration"
)

// Client wraps every network call to the service.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials auth.Store
	// slowClient is used for generation and download calls, which sit
	// behind a remote document-generation step.
	slowClient     *http.Client
	onUnauthorized func()
}

// New instantiates a client. onUnauthorized runs after the credential
// store has been cleared following a 401; it may be nil.
func New(config *configuration.Config, credentials auth.Store, onUnauthorized func()) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(config.ServerURL, "/"),
		httpClient:     &http.Client{Timeout: time.Duration(config.RequestTimeout) * time.Second},
		slowClient:     &http.Client{Timeout: time.Duration(config.GenerateTimeout) * time.Second},
		credentials:    credentials,
		onUnauthorized: onUnauthorized,
	}
}

// do performs a JSON request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshaling request body")
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return c.send(request, out)
}

// send dispatches a prepared request, attaching the credential and
// classifying the outcome. Used by do and by the multipart/binary paths.
func (c *Client) send(request *http.Request, out any) error {
	return c.sendWith(c.httpClient, request, out)
}

func (c *Client) sendWith(client *http.Client, request *http.Request, out any) error {
	if err := c.attachCredential(request); err != nil {
		return err
	}

	response, err := client.Do(request)
	if err != nil {
		return &Error{Kind: ErrorNetwork, Detail: err.Error()}
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return c.classify(response)
	}
	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

// sendRaw dispatches a prepared request and returns the raw response for
// binary payloads. The caller owns closing the body.
func (c *Client) sendRaw(request *http.Request) (*http.Response, error) {
	if err := c.attachCredential(request); err != nil {
		return nil, err
	}

	response, err := c.slowClient.Do(request)
	if err != nil {
		return nil, &Error{Kind: ErrorNetwork, Detail: err.Error()}
	}
	if response.StatusCode >= 400 {
		defer response.Body.Close()
		return nil, c.classify(response)
	}
	return response, nil
}

func (c *Client) attachCredential(request *http.Request) error {
	session, err := c.credentials.Get()
	if err != nil {
		return errors.Wrap(err, "reading credentials")
	}
	if session != nil {
		request.Header.Set("Authorization", "Bearer "+session.Token)
	}
	return nil
}

// classify maps an error response onto the taxonomy. A 401 tears the
// session down before returning: clearing is idempotent, so concurrent
// in-flight calls hitting 401 together are safe.
func (c *Client) classify(response *http.Response) error {
	detail := readDetail(response.Body)

	switch response.StatusCode {
	case http.StatusUnauthorized:
		// Best effort: an unauthorized response invalidates the session
		// whether or not the local file could be removed.
		_ = c.credentials.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Error{Kind: ErrorUnauthorized, Status: response.StatusCode, Detail: detail}
	case http.StatusNotFound:
		return &Error{Kind: ErrorNotFound, Status: response.StatusCode, Detail: detail}
	default:
		return &Error{Kind: ErrorValidation, Status: response.StatusCode, Detail: detail}
	}
}

// readDetail extracts the server's structured `detail` field, falling
// back to the raw body.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil || len(raw) == 0 {
		return ""
	}
	payload := struct {
		Detail string `json:"detail"`
	}{}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}
