package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Client talks to a Wordiz API server. Requests are not retried.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

var _ Service = (*Client)(nil)

// NewClient returns a client for the server at baseURL. token, when set, is
// sent as a bearer token. A nil hc uses a client with a 15s timeout.
func NewClient(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), token: token, hc: hc}
}

// Start asks the server to provision a session.
func (c *Client) Start(ctx context.Context, cfg Config) (*Provisioned, error) {
	var p Provisioned
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions/start", cfg, &p); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &p, nil
}

// SaveConfig stores a config on the server and returns it with its id.
func (c *Client) SaveConfig(ctx context.Context, cfg Config) (Config, error) {
	var out Config
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions/config", cfg, &out); err != nil {
		return cfg, fmt.Errorf("save session config: %w", err)
	}
	return out, nil
}

// Submit sends the results of a completed session.
func (c *Client) Submit(ctx context.Context, sessionID string, results []session.Result) (*Receipt, error) {
	var r Receipt
	path := "/api/v1/sessions/" + url.PathEscape(sessionID) + "/submit"
	if err := c.do(ctx, http.MethodPost, path, results, &r); err != nil {
		return nil, fmt.Errorf("submit results: %w", err)
	}
	return &r, nil
}

// Session fetches one session with its words.
func (c *Client) Session(ctx context.Context, id string) (*SessionDetail, error) {
	var d SessionDetail
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+url.PathEscape(id), nil, &d); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &d, nil
}

// History lists the learner's sessions newest first.
func (c *Client) History(ctx context.Context, limit int) ([]SessionInfo, error) {
	path := "/api/v1/sessions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []SessionInfo
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// Stats fetches the learner's progress summary.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, &st); err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &st, nil
}

// Languages lists the server's languages.
func (c *Client) Languages(ctx context.Context) ([]vocab.Language, error) {
	var out []vocab.Language
	if err := c.do(ctx, http.MethodGet, "/api/v1/config/languages", nil, &out); err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return out, nil
}

// Domains lists the server's domains.
func (c *Client) Domains(ctx context.Context) ([]vocab.Domain, error) {
	var out []vocab.Domain
	if err := c.do(ctx, http.MethodGet, "/api/v1/config/domains", nil, &out); err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return out, nil
}

// errorBody is the JSON error envelope written by the server.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var eb errorBody
		if json.Unmarshal(raw, &eb) != nil || eb.Error == "" {
			eb.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{
			Status:  resp.StatusCode,
			Code:    eb.Code,
			Message: eb.Error,
			Err:     sentinelFor(resp.StatusCode, eb.Code),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
