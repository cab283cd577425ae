// Package client is a typed HTTP client for the radar REST API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codecat1111/radar-clone/internal/apierr"
	"github.com/codecat1111/radar-clone/internal/query"
	"github.com/codecat1111/radar-clone/internal/service"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Client talks to a radar API server
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Error is a non-2xx response decoded from the error envelope
type Error struct {
	Status  int
	Message string
	Details []apierr.FieldError
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("radar api: %d %s", e.Status, e.Message)
	}
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field+" "+d.Message)
	}
	return fmt.Sprintf("radar api: %d %s (%s)", e.Status, e.Message, strings.Join(fields, "; "))
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// NewClient creates a client for baseURL, e.g. http://localhost:5000
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Details []apierr.FieldError `json:"details"`
}

// ListTechnologies fetches one page of technologies matching f
func (c *Client) ListTechnologies(ctx context.Context, f query.Filter) (*service.Page, error) {
	var page service.Page
	if err := c.get(ctx, "/api/technologies", FilterValues(f), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTechnology fetches a single technology. A missing technology returns
// an error for which IsNotFound is true.
func (c *Client) GetTechnology(ctx context.Context, id uint, details bool) (*service.TechnologyDetail, error) {
	params := url.Values{}
	if !details {
		params.Set("details", "false")
	}

	var data struct {
		Technology *service.TechnologyDetail `json:"technology"`
	}
	if err := c.get(ctx, "/api/technologies/"+strconv.FormatUint(uint64(id), 10), params, &data); err != nil {
		return nil, err
	}
	if data.Technology == nil {
		return nil, fmt.Errorf("radar api: technology %d missing from response", id)
	}
	return data.Technology, nil
}

// FilterOptions fetches the available filter values with counts
func (c *Client) FilterOptions(ctx context.Context) (*service.FilterOptions, error) {
	var opts service.FilterOptions
	if err := c.get(ctx, "/api/filters", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Suggestions fetches search suggestions for q
func (c *Client) Suggestions(ctx context.Context, q string, limit int) ([]service.Suggestion, error) {
	params := url.Values{}
	params.Set("q", q)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var data struct {
		Suggestions []service.Suggestion `json:"suggestions"`
	}
	if err := c.get(ctx, "/api/filters/search", params, &data); err != nil {
		return nil, err
	}
	return data.Suggestions, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	target := c.BaseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error("Radar API request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Error("Failed to read radar API response", zap.String("path", path), zap.Error(err))
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.Logger.Error("Failed to parse radar API response",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)))
		return fmt.Errorf("radar api: unexpected response %d: %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		apiErr := &Error{Status: resp.StatusCode, Message: env.Error, Details: env.Details}
		c.Logger.Debug("Radar API returned an error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("error", env.Error))
		return apiErr
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("radar api: decode %s: %w", path, err)
	}
	return nil
}

// FilterValues encodes f as the query parameters understood by the list endpoint
func FilterValues(f query.Filter) url.Values {
	v := url.Values{}
	if s := f.SearchTerm(); s != "" {
		v.Set("search", s)
	}
	setIDs(v, "domain", f.DomainIDs)
	setIDs(v, "tag", f.TagIDs)
	setIDs(v, "selectedTechnologies", f.TechnologyIDs)
	if len(f.Impact) > 0 {
		v.Set("impact", strings.Join(f.Impact, ","))
	}
	if len(f.Effort) > 0 {
		v.Set("effort", strings.Join(f.Effort, ","))
	}
	setInt(v, "timeToMarket", f.TimeToMarket)
	setInt(v, "riskScoreMin", f.RiskScoreMin)
	setInt(v, "riskScoreMax", f.RiskScoreMax)
	if f.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	setInt(v, "limit", f.Limit)
	if f.Offset > 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	return v
}

func setIDs(v url.Values, key string, ids []uint) {
	if len(ids) == 0 {
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	v.Set(key, strings.Join(parts, ","))
}

func setInt(v url.Values, key string, p *int) {
	if p != nil {
		v.Set(key, strconv.Itoa(*p))
	}
}
