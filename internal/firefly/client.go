// Package firefly is the authenticated REST access layer for the Firefly III
// backend: paginated list fetching, creation, deletion and the error
// taxonomy separating backend-reported failures from transport failures.
package firefly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fireshot/internal/log"
)

const apiPrefix = "/api/v1/"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *log.Logger
}

// New creates a client for the backend at baseURL. Every call carries the
// bearer token and is bounded by the given timeout.
func New(baseURL, token string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// endpoint resolves a relative resource path against the versioned API base.
// Already-qualified URLs (pagination links) pass through unchanged.
func (c *Client) endpoint(path string) string {
	if strings.Contains(path, "api/v1") {
		return path
	}
	return c.baseURL + apiPrefix + strings.TrimLeft(path, "/")
}

// request performs one HTTP call and returns the raw body of a 2xx response.
// Transport failures become NetworkError, non-2xx statuses APIError.
func (c *Client) request(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calling backend", log.FieldMethod, method, log.FieldURL, url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Method: method, URL: url, Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// fetchPage fetches one page of a list. A 2xx body missing the data
// envelope is logged and degrades to an empty page rather than failing the
// caller.
func (c *Client) fetchPage(ctx context.Context, url string) ([]Resource, *pageLinks, error) {
	raw, err := c.request(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Data == nil {
		c.logger.Error("malformed backend response, treating as empty",
			log.FieldURL, url)
		return nil, nil, nil
	}
	var resources []Resource
	if err := json.Unmarshal(env.Data, &resources); err != nil {
		c.logger.Error("malformed backend response, treating as empty",
			log.FieldURL, url, log.FieldError, err)
		return nil, nil, nil
	}
	return resources, env.Links, nil
}

// fetchList fetches a list resource, transparently following pagination
// links until the last page. Pages are fetched sequentially so the
// flattened result preserves page order, then intra-page order.
func (c *Client) fetchList(ctx context.Context, path string) ([]Resource, error) {
	url := c.endpoint(path)
	var all []Resource
	for {
		resources, links, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		all = append(all, resources...)
		if links == nil || links.Next == "" || links.Self == links.Last {
			return all, nil
		}
		c.logger.Debug("following pagination link", log.FieldURL, links.Next)
		url = c.endpoint(links.Next)
	}
}

// fetchFirstPage fetches a single page without following pagination.
func (c *Client) fetchFirstPage(ctx context.Context, path string) ([]Resource, error) {
	resources, _, err := c.fetchPage(ctx, c.endpoint(path))
	return resources, err
}

// create POSTs a body and decodes the created resource. Unlike reads, a
// success response without a data envelope is an error here: callers need
// the new id and must never act on a guessed one.
func (c *Client) create(ctx context.Context, path string, body any) (Resource, error) {
	raw, err := c.request(ctx, http.MethodPost, c.endpoint(path), body)
	if err != nil {
		return Resource{}, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Data == nil {
		return Resource{}, fmt.Errorf("create %s: %w", path, ErrMalformedResponse)
	}
	var resource Resource
	if err := json.Unmarshal(env.Data, &resource); err != nil {
		return Resource{}, fmt.Errorf("create %s: %w", path, ErrMalformedResponse)
	}
	return resource, nil
}

// remove DELETEs a resource. No body is sent and none is expected back.
func (c *Client) remove(ctx context.Context, path string) error {
	_, err := c.request(ctx, http.MethodDelete, c.endpoint(path), nil)
	return err
}
