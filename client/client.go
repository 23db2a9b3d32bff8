package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Seg4105-group6/FoodLogger/models"
)

// Client-side surface of the error taxonomy. Matched with errors.Is.
var (
	// ErrAnalysisFailed covers any failure of the analyze round trip:
	// network, remote error, bad payload. The draft is never touched.
	ErrAnalysisFailed = errors.New("meal analysis failed")

	// ErrEmptyDraft is returned by Commit when the draft has no items.
	ErrEmptyDraft = errors.New("draft has no items")

	// ErrNotFound is returned when the server does not know the record id.
	ErrNotFound = errors.New("meal record not found")
)

// Record is a persisted meal as the API returns it.
type Record struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	models.NutrientTotals
	SourceFilename string            `json:"source_filename,omitempty"`
	Items          []models.MealItem `json:"items,omitempty"`
}

// Summary is an aggregate over a span of calendar days.
type Summary struct {
	Days int `json:"days"`
	models.NutrientTotals
}

// CommitResult is the server's acknowledgement of a logged meal.
type CommitResult struct {
	ID      int64  `json:"meal_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client orchestrates the record API and owns the single in-flight draft.
// Each call is one bounded request/response round trip; no session spans
// calls.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	draft   *Draft
}

// New builds a client for the record API at baseURL. apiKey may be empty
// when the server runs with the auth stub disabled.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		draft:   NewDraft(),
	}
}

// Draft exposes the client's single draft session.
func (c *Client) Draft() *Draft { return c.draft }

// Analyze sends a meal photo for estimation and, on success, replaces the
// draft with the returned items. On any failure the prior draft is left
// untouched; no partial draft is ever installed.
func (c *Client) Analyze(ctx context.Context, image []byte, filename string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	var result struct {
		Items []models.MealItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodPost, "/analyze-meal", &buf, w.FormDataContentType(), &result); err != nil {
		return fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	c.draft.ReplaceAll(result.Items, filename)
	return nil
}

// Commit logs the draft as one finalized record. Totals are computed from
// the draft at the moment of the call. On success the draft is cleared; on
// failure it is preserved unchanged so the user can retry. A draft with no
// items is refused with ErrEmptyDraft and no request is sent.
func (c *Client) Commit(ctx context.Context) (*CommitResult, error) {
	if c.draft.IsEmpty() {
		return nil, ErrEmptyDraft
	}

	payload := struct {
		models.NutrientTotals
		SourceFilename string            `json:"source_filename,omitempty"`
		Items          []models.MealItem `json:"items"`
	}{
		NutrientTotals: c.draft.Totals(),
		SourceFilename: c.draft.SourceFilename(),
		Items:          c.draft.Items(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	var result CommitResult
	if err := c.do(ctx, http.MethodPost, "/log-meal", bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	c.draft.Clear()
	return &result, nil
}

// UpdateTotals replaces a record's totals on the server. The caller should
// re-query any summary views it is showing; nothing is pushed.
func (c *Client) UpdateTotals(ctx context.Context, id int64, totals models.NutrientTotals) (*Record, error) {
	body, err := json.Marshal(totals)
	if err != nil {
		return nil, fmt.Errorf("update totals: %w", err)
	}

	var record Record
	path := fmt.Sprintf("/logs/%d", id)
	if err := c.do(ctx, http.MethodPut, path, bytes.NewReader(body), "application/json", &record); err != nil {
		return nil, fmt.Errorf("update totals %d: %w", id, err)
	}
	return &record, nil
}

// Delete removes a record. Deleting an unknown (or already deleted) id
// reports ErrNotFound.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/logs/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, "", nil); err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return nil
}

// DaySummary fetches the aggregate for one UTC date ("2006-01-02").
func (c *Client) DaySummary(ctx context.Context, day string) (*Summary, error) {
	var summary Summary
	path := "/logs/summary/day?day=" + url.QueryEscape(day)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &summary); err != nil {
		return nil, fmt.Errorf("day summary: %w", err)
	}
	return &summary, nil
}

// RollingSummary fetches the aggregate for the trailing days window.
func (c *Client) RollingSummary(ctx context.Context, days int) (*Summary, error) {
	var summary Summary
	path := "/logs/summary/rolling?days=" + strconv.Itoa(days)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &summary); err != nil {
		return nil, fmt.Errorf("rolling summary: %w", err)
	}
	return &summary, nil
}

// History fetches per-day buckets for [start, start+days).
func (c *Client) History(ctx context.Context, start string, days int) ([]models.DaySummary, error) {
	var result struct {
		History []models.DaySummary `json:"history"`
	}
	path := fmt.Sprintf("/logs/history?start=%s&days=%d", url.QueryEscape(start), days)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &result); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return result.History, nil
}

// ListLogs fetches recent records, newest first.
func (c *Client) ListLogs(ctx context.Context, limit int) ([]Record, error) {
	var result struct {
		Items []Record `json:"items"`
	}
	path := "/logs?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &result); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return result.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
