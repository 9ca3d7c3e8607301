// Package client talks to a running daemon over its HTTP API.
package client

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

	"github.com/gorilla/websocket"

	"grimm.is/netdevd/internal/brand"
	"grimm.is/netdevd/internal/device"
	"grimm.is/netdevd/internal/events"
	"grimm.is/netdevd/internal/profile"
)

// Event is a hub event as received over the websocket. Data is left raw
// so callers decode only the payloads they care about.
type Event struct {
	Type      events.EventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Source    string           `json:"source"`
	Data      json.RawMessage  `json:"data"`
}

// DeviceData decodes the payload of a device lifecycle event.
func (e Event) DeviceData() (events.DeviceData, error) {
	var d events.DeviceData
	err := json.Unmarshal(e.Data, &d)
	return d, err
}

// ProfileData decodes the payload of a profile matching event.
func (e Event) ProfileData() (events.ProfileData, error) {
	var d events.ProfileData
	err := json.Unmarshal(e.Data, &d)
	return d, err
}

// PropertyData decodes the payload of a property change event.
func (e Event) PropertyData() (events.PropertyData, error) {
	var d events.PropertyData
	err := json.Unmarshal(e.Data, &d)
	return d, err
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// HTTPClient is a client for the daemon's HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// NewHTTPClient creates a client for baseURL. A bare host:port is
// treated as http://host:port.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request and decodes the JSON response.
func (c *HTTPClient) doRequest(method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", brand.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Version returns the daemon's name, version and commit.
func (c *HTTPClient) Version() (map[string]string, error) {
	var v map[string]string
	if err := c.doRequest(http.MethodGet, "/api/version", nil, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Devices lists every device the daemon knows.
func (c *HTTPClient) Devices() ([]device.Info, error) {
	var infos []device.Info
	if err := c.doRequest(http.MethodGet, "/api/devices", nil, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// Device returns one device by interface name.
func (c *HTTPClient) Device(name string) (*device.Info, error) {
	var info device.Info
	if err := c.doRequest(http.MethodGet, "/api/devices/"+url.PathEscape(name), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SetManaged brings a device under or out of management.
func (c *HTTPClient) SetManaged(name string, managed bool) (*device.Info, error) {
	var info device.Info
	body := map[string]bool{"managed": managed}
	if err := c.doRequest(http.MethodPut, "/api/devices/"+url.PathEscape(name)+"/managed", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeviceProfiles lists the stored profiles the device accepts.
func (c *HTTPClient) DeviceProfiles(name string) ([]*profile.Document, error) {
	var docs []*profile.Document
	if err := c.doRequest(http.MethodGet, "/api/devices/"+url.PathEscape(name)+"/profiles", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GenerateProfile asks the daemon to create and store a profile for the
// device.
func (c *HTTPClient) GenerateProfile(name string) (*profile.Document, error) {
	var doc profile.Document
	if err := c.doRequest(http.MethodPost, "/api/devices/"+url.PathEscape(name)+"/profile", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Profiles lists every stored profile.
func (c *HTTPClient) Profiles() ([]*profile.Document, error) {
	var docs []*profile.Document
	if err := c.doRequest(http.MethodGet, "/api/profiles", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// WatchEvents streams hub events until ctx is cancelled or the
// connection drops. types filters by event type; empty means all.
func (c *HTTPClient) WatchEvents(ctx context.Context, types []string, fn func(Event)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/ws/events"
	if len(types) > 0 {
		wsURL += "?types=" + url.QueryEscape(strings.Join(types, ","))
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 45 * time.Second,
	}
	headers := http.Header{}
	headers.Set("User-Agent", brand.UserAgent())

	conn, _, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return fmt.Errorf("failed to dial websocket: %w", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read error: %w", err)
		}
		var e Event
		if err := json.Unmarshal(message, &e); err != nil {
			continue // skip malformed
		}
		fn(e)
	}
}
