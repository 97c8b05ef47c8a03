// Package api is the typed client for the Pasteor REST API. Every response
// is decoded into an explicit schema at the boundary; a body that does not
// parse surfaces as a malformed-response error instead of propagating empty
// fields into the UI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pasteor/pasteor-cli/internal/model"
	"github.com/pasteor/pasteor-cli/internal/query"
)

const detailCacheSize = 64

// Client talks to one Pasteor API server.
type Client struct {
	baseURL string
	http    *http.Client

	// Recently fetched paste details, keyed by id. Serves copy actions and
	// back-navigation without another round trip; invalidated on mutation.
	details *lru.Cache[string, model.Paste]
}

// New creates a client for the API at baseURL. A non-positive timeout falls
// back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	cache, _ := lru.New[string, model.Paste](detailCacheSize)
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		details: cache,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one API round trip: marshals body (if any), sets the bearer
// token (if any), and decodes the response into dest. Non-2xx responses are
// converted to sentinel or APIError values.
func (c *Client) do(ctx context.Context, method, path, token string, body, dest any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("api: malformed response from %s: %w", path, err)
	}
	return nil
}

// decodeError reads the server's JSON error body. The human-readable message
// is carried through so it can be surfaced verbatim.
func (c *Client) decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	// Best effort: a non-JSON error body still maps onto the right status.
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &body)

	apiErr := &APIError{Status: resp.StatusCode, Message: body.Error}
	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	}
	return apiErr
}

// RecentPastes lists the newest public pastes for the landing page.
func (c *Client) RecentPastes(ctx context.Context, limit int) ([]model.PasteSummary, error) {
	if limit <= 0 {
		limit = model.DefaultRecentLimit
	}
	var result struct {
		Pastes []model.PasteSummary `json:"pastes"`
	}
	err := c.do(ctx, http.MethodGet, "/api/pastes/recent?limit="+strconv.Itoa(limit), "", nil, &result)
	return result.Pastes, err
}

// MyPastes executes an owner-scoped listing query.
func (c *Client) MyPastes(ctx context.Context, token string, q query.Query) (model.ListResult, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Language != "" && q.Language != model.AllLanguages {
		params.Set("language", q.Language)
	}
	params.Set("sortBy", string(q.Sort))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))

	var result model.ListResult
	err := c.do(ctx, http.MethodGet, "/api/pastes/my?"+params.Encode(), token, nil, &result)
	if err != nil {
		return model.ListResult{}, err
	}
	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return result, nil
}

// GetPaste fetches the full paste detail. The token is optional; when
// present the server reports ownership. The result lands in the detail
// cache for copy actions and back-navigation.
func (c *Client) GetPaste(ctx context.Context, id, token string) (model.Paste, error) {
	var paste model.Paste
	if err := c.do(ctx, http.MethodGet, "/api/pastes/"+url.PathEscape(id), token, nil, &paste); err != nil {
		return model.Paste{}, err
	}
	if paste.ID == "" {
		return model.Paste{}, fmt.Errorf("api: malformed response: paste has no id")
	}
	c.details.Add(paste.ID, paste)
	return paste, nil
}

// CachedPaste returns a previously fetched detail without a round trip.
func (c *Client) CachedPaste(id string) (model.Paste, bool) {
	return c.details.Get(id)
}

// CreatePaste submits a new paste. The token is optional; anonymous pastes
// have no owner.
func (c *Client) CreatePaste(ctx context.Context, token string, req model.CreatePasteRequest) (model.Paste, error) {
	var paste model.Paste
	if err := c.do(ctx, http.MethodPost, "/api/pastes", token, req, &paste); err != nil {
		return model.Paste{}, err
	}
	if paste.ID == "" {
		return model.Paste{}, fmt.Errorf("api: malformed response: created paste has no id")
	}
	return paste, nil
}

// UpdatePaste edits an owned paste and drops any stale cached detail.
func (c *Client) UpdatePaste(ctx context.Context, token, id string, req model.UpdatePasteRequest) (model.Paste, error) {
	var paste model.Paste
	if err := c.do(ctx, http.MethodPut, "/api/pastes/"+url.PathEscape(id), token, req, &paste); err != nil {
		return model.Paste{}, err
	}
	c.details.Remove(id)
	return paste, nil
}

// DeletePaste removes an owned paste and drops any cached detail.
func (c *Client) DeletePaste(ctx context.Context, token, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/pastes/"+url.PathEscape(id), token, nil, nil); err != nil {
		return err
	}
	c.details.Remove(id)
	return nil
}

// UserStats fetches the owner-scoped aggregate counters.
func (c *Client) UserStats(ctx context.Context, token string) (model.UserStats, error) {
	var stats model.UserStats
	err := c.do(ctx, http.MethodGet, "/api/stats/me", token, nil, &stats)
	return stats, err
}

// UserLanguages fetches the distinct language tags the user has used.
func (c *Client) UserLanguages(ctx context.Context, token string) ([]string, error) {
	var result struct {
		Languages []string `json:"languages"`
	}
	err := c.do(ctx, http.MethodGet, "/api/languages/me", token, nil, &result)
	return result.Languages, err
}

// PublicStats fetches the anonymous aggregate view.
func (c *Client) PublicStats(ctx context.Context) (model.PublicStats, error) {
	var stats model.PublicStats
	err := c.do(ctx, http.MethodGet, "/api/stats/public", "", nil, &stats)
	return stats, err
}

// Me resolves the token to its user identity.
func (c *Client) Me(ctx context.Context, token string) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &user)
	return user, err
}
