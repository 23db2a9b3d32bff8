package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Seg4105-group6/FoodLogger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePopulatesDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze-meal", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "plate.jpg", header.Filename)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []models.MealItem{
				{Name: "Rice", Code: "rice", CaloriesKcal: 195, Confidence: 0.82},
				{Name: "Broccoli", Code: "broccoli", CaloriesKcal: 55, Confidence: 0.78},
			},
			"total_calories_kcal": 250,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	require.NoError(t, c.Analyze(context.Background(), []byte{0xFF, 0xD8}, "plate.jpg"))

	assert.Equal(t, 2, c.Draft().Len())
	assert.Equal(t, "plate.jpg", c.Draft().SourceFilename())
	assert.InDelta(t, 250, c.Draft().Totals().CaloriesKcal, 1e-9)
}

func TestAnalyzeFailureLeavesDraftUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"detector offline"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.Draft().ReplaceAll(analyzedItems(), "previous.jpg")
	before := c.Draft().Items()

	err := c.Analyze(context.Background(), []byte{0xFF}, "new.jpg")
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	assert.Equal(t, before, c.Draft().Items())
	assert.Equal(t, "previous.jpg", c.Draft().SourceFilename())
}

func TestCommitEmptyDraftSendsNothing(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Commit(context.Background())

	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Zero(t, calls, "no request may be sent for an empty draft")
}

func TestCommitSendsCurrentTotalsAndClearsDraft(t *testing.T) {
	var received struct {
		models.NutrientTotals
		SourceFilename string            `json:"source_filename"`
		Items          []models.MealItem `json:"items"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/log-meal", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CommitResult{ID: 17, Status: "logged", Message: "Meal logged successfully"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.Draft().ReplaceAll(analyzedItems(), "plate.jpg")
	// edit after analysis; commit must pick up the edited totals
	c.Draft().Upsert(0, ItemEdit{Name: "Chicken", WeightG: "180", CaloriesKcal: "297", ProteinG: "55.8", FatG: "6.5"})
	wantTotals := c.Draft().Totals()

	result, err := c.Commit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(17), result.ID)
	assert.InDelta(t, wantTotals.CaloriesKcal, received.CaloriesKcal, 1e-9)
	assert.Equal(t, "plate.jpg", received.SourceFilename)
	assert.Len(t, received.Items, 3)
	assert.True(t, c.Draft().IsEmpty(), "successful commit clears the draft")
}

func TestCommitFailurePreservesDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"store down"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.Draft().ReplaceAll(analyzedItems(), "plate.jpg")
	before := c.Draft().Items()

	_, err := c.Commit(context.Background())
	require.Error(t, err)

	assert.Equal(t, before, c.Draft().Items(), "failed commit must not lose the draft")
	assert.Equal(t, "plate.jpg", c.Draft().SourceFilename())
}

func TestDeleteUnknownRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Meal log not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	assert.ErrorIs(t, c.Delete(context.Background(), 404), ErrNotFound)
}

func TestUpdateTotalsRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/logs/5", r.URL.Path)
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))

		var totals models.NutrientTotals
		require.NoError(t, json.NewDecoder(r.Body).Decode(&totals))
		json.NewEncoder(w).Encode(Record{ID: 5, CreatedAt: "2025-11-20T12:00:00.000Z", NutrientTotals: totals})
	}))
	defer srv.Close()

	c := New(srv.URL, "sekrit")
	edited := models.NutrientTotals{CaloriesKcal: 640, ProteinG: 42, CarbsG: 70, FatG: 18}

	record, err := c.UpdateTotals(context.Background(), 5, edited)
	require.NoError(t, err)

	assert.Equal(t, int64(5), record.ID)
	assert.Equal(t, edited, record.NutrientTotals)
	assert.Equal(t, "2025-11-20T12:00:00.000Z", record.CreatedAt)
}

func TestSummaryAndHistoryQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logs/summary/day":
			assert.Equal(t, "2025-11-20", r.URL.Query().Get("day"))
			json.NewEncoder(w).Encode(Summary{Days: 1, NutrientTotals: models.NutrientTotals{CaloriesKcal: 800}})
		case "/logs/summary/rolling":
			assert.Equal(t, "7", r.URL.Query().Get("days"))
			json.NewEncoder(w).Encode(Summary{Days: 7, NutrientTotals: models.NutrientTotals{CaloriesKcal: 5600}})
		case "/logs/history":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"history": []models.DaySummary{{Date: "2025-11-14"}, {Date: "2025-11-15"}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")

	day, err := c.DaySummary(context.Background(), "2025-11-20")
	require.NoError(t, err)
	assert.InDelta(t, 800, day.CaloriesKcal, 1e-9)

	rolling, err := c.RollingSummary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, rolling.Days)

	history, err := c.History(context.Background(), "2025-11-14", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2025-11-14", history[0].Date)
}
