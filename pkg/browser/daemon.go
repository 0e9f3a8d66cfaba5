package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Daemon control API paths. The daemon is a local HTTP service managing
// anti-detect browser profiles; starting a profile yields a CDP websocket
// endpoint we can attach to.
const (
	statusPath       = "/status"
	profileListPath  = "/api/v1/user/list"
	browserStartPath = "/api/v1/browser/start"
	browserCheckPath = "/api/v1/browser/active"
)

// DefaultDaemonURL is where the profile daemon listens on a stock install.
const DefaultDaemonURL = "http://127.0.0.1:50325"

// DefaultMinInterval is the minimum spacing between daemon control calls.
// The daemon rejects requests arriving faster than this.
const DefaultMinInterval = 600 * time.Millisecond

// apiEnvelope is the daemon's uniform response shape. Code zero means
// success; anything else carries a human-readable message.
type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Profile describes one browser profile known to the daemon.
type Profile struct {
	ID           string `json:"user_id"`
	SerialNumber string `json:"serial_number"`
	Name         string `json:"name"`
}

type profileListData struct {
	List []Profile `json:"list"`
}

// wsEndpoints holds the endpoints a running profile browser exposes.
type wsEndpoints struct {
	Puppeteer string `json:"puppeteer"`
	Selenium  string `json:"selenium"`
}

// BrowserState reports whether a profile's browser is running and, if so,
// where to attach.
type BrowserState struct {
	Status string      `json:"status"` // "Active" or "Inactive"
	WS     wsEndpoints `json:"ws"`
}

// Active reports whether the profile's browser is currently running.
func (s BrowserState) Active() bool { return s.Status == "Active" }

// Endpoint returns the CDP websocket endpoint of the running browser.
func (s BrowserState) Endpoint() string { return s.WS.Puppeteer }

// DaemonClient talks to the local profile daemon. Every control call passes
// through a shared throttle so consecutive requests stay at least the
// configured interval apart.
type DaemonClient struct {
	http     *resty.Client
	throttle *throttle
}

// NewDaemonClient creates a client for the daemon at baseURL. minInterval
// bounds the control-call rate; zero or negative falls back to the default.
func NewDaemonClient(baseURL string, minInterval time.Duration) *DaemonClient {
	if baseURL == "" {
		baseURL = DefaultDaemonURL
	}
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(time.Second * 30)

	return &DaemonClient{
		http:     client,
		throttle: newThrottle(minInterval),
	}
}

// get performs one throttled control call and unwraps the daemon envelope.
func (c *DaemonClient) get(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	if err := c.throttle.wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("daemon request %s failed: %w", path, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("daemon request %s returned status %s", path, res.Status())
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(res.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("daemon response for %s is malformed: %w", path, err)
	}
	if envelope.Code != 0 {
		return nil, fmt.Errorf("daemon rejected %s: %s", path, envelope.Msg)
	}
	return envelope.Data, nil
}

// Ping verifies the daemon is reachable.
func (c *DaemonClient) Ping(ctx context.Context) error {
	if _, err := c.get(ctx, statusPath, nil); err != nil {
		return fmt.Errorf("profile daemon unreachable: %w", err)
	}
	return nil
}

// ListProfiles returns the profiles the daemon manages.
func (c *DaemonClient) ListProfiles(ctx context.Context) ([]Profile, error) {
	data, err := c.get(ctx, profileListPath, map[string]string{"page_size": "100"})
	if err != nil {
		return nil, err
	}

	var list profileListData
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode profile list: %w", err)
	}
	return list.List, nil
}

// BrowserState queries whether the profile's browser is running.
func (c *DaemonClient) BrowserState(ctx context.Context, profileID string) (BrowserState, error) {
	data, err := c.get(ctx, browserCheckPath, map[string]string{"user_id": profileID})
	if err != nil {
		return BrowserState{}, err
	}

	var state BrowserState
	if err := json.Unmarshal(data, &state); err != nil {
		return BrowserState{}, fmt.Errorf("failed to decode browser state: %w", err)
	}
	return state, nil
}

// StartBrowser launches the profile's browser and returns its CDP websocket
// endpoint. The daemon blocks until the browser finishes starting.
func (c *DaemonClient) StartBrowser(ctx context.Context, profileID string) (string, error) {
	data, err := c.get(ctx, browserStartPath, map[string]string{"user_id": profileID})
	if err != nil {
		return "", err
	}

	var state BrowserState
	if err := json.Unmarshal(data, &state); err != nil {
		return "", fmt.Errorf("failed to decode browser start response: %w", err)
	}
	if state.Endpoint() == "" {
		return "", fmt.Errorf("daemon started profile %s but returned no websocket endpoint", profileID)
	}
	return state.Endpoint(), nil
}
