// Package platform is the single configured handle to the hosted
// backend-as-a-service that owns authentication, the relational data tables
// and object storage metadata. Every call is wrapped with the bounded retry
// policy; the application never talks to the platform through any other
// path.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jdgroup-ug/storefront/retry"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   retry.Config
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		retry:   retry.DefaultConfig(),
	}
}

// WithRetry overrides the default retry policy. Used by tests to drop the
// backoff delays.
func (c *Client) WithRetry(cfg retry.Config) *Client {
	c.retry = cfg
	return c
}

// do issues a single request. The api key header is always present; token
// (when non-empty) becomes the bearer credential, otherwise the anon key is
// used, matching the platform's row-level-security model.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers http.Header, token string, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}
	req.Header.Set("apikey", c.apiKey)
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if len(body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// doRetry runs do under the retry policy and decodes the JSON response body
// into out (when non-nil). 4xx responses are terminal; network errors and
// 5xx responses are retried.
func (c *Client) doRetry(ctx context.Context, method, path string, query url.Values, headers http.Header, token string, body []byte, out interface{}) error {
	return retry.Do(ctx, c.retry, func() error {
		resp, err := c.do(ctx, method, path, query, headers, token, body)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			apiErr := decodeAPIError(resp)
			if resp.StatusCode < 500 {
				return retry.Stop(apiErr)
			}
			return apiErr
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Stop(fmt.Errorf("decode platform response: %w", err))
		}
		return nil
	})
}

func marshalBody(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode platform request: %w", err)
	}
	return b, nil
}
