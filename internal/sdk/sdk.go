package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound reports that the requested key does not exist in the bucket.
var ErrNotFound = errors.New("object not found")

// IsNotFound reports whether err came from reading a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// client calls the REST surface of a running gateway.
type client struct {
	host       string
	httpClient *http.Client
}

// New creates a gateway client for the given host, e.g. "127.0.0.1:8680".
// A scheme-less host is reached over plain http, matching the default serve
// bind.
func New(host string) (IGatewaySDK, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("gateway host must be provided")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway host: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return &client{
		host: strings.TrimSuffix(u.String(), "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *client) objectURL(key string) string {
	u := url.URL{Path: "/objects/" + key}
	return c.host + u.EscapedPath()
}

func (c *client) applyCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", "s3drop-sdk")
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}

// ListKeys retrieves every key currently in the gateway bucket.
func (c *client) ListKeys(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/objects", nil)
	if err != nil {
		return nil, err
	}
	c.applyCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list objects", resp)
	}

	var result ObjectList
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode object list: %w", err)
	}
	return result.Keys, nil
}

// Read fetches the content of key as text.
func (c *client) Read(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(key), nil)
	if err != nil {
		return "", err
	}
	c.applyCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("read %s: %w", key, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError("read "+key, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(body), nil
}

// Write schedules an upload of content under key. The gateway accepts the
// write before it lands in the bucket, so a Read immediately afterwards may
// not see it yet.
func (c *client) Write(ctx context.Context, key string, content string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectURL(key), strings.NewReader(content))
	if err != nil {
		return err
	}
	c.applyCommonHeaders(req)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return statusError("write "+key, resp)
	}
	return nil
}

// Delete schedules removal of key. Deleting an absent key is accepted too.
func (c *client) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(key), nil)
	if err != nil {
		return err
	}
	c.applyCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return statusError("delete "+key, resp)
	}
	return nil
}

// Stats reports the bucket identity, client creation count and writer pool
// counters of the gateway.
func (c *client) Stats(ctx context.Context) (*GatewayStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/stats", nil)
	if err != nil {
		return nil, err
	}
	c.applyCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get stats", resp)
	}

	var result GatewayStats
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &result, nil
}

// Ensure client implements IGatewaySDK.
var _ IGatewaySDK = (*client)(nil)
