package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Seg4105-group6/FoodLogger/config"
	"github.com/Seg4105-group6/FoodLogger/models"
	"github.com/Seg4105-group6/FoodLogger/services"

	"github.com/gin-gonic/gin"
)

const (
	maxSummaryDays = 30
	maxListLimit   = 365
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDaySummary sums one UTC calendar day. ?day=YYYY-MM-DD is required.
func GetDaySummary(c *gin.Context) {
	day, err := time.Parse(models.DateLayout, c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day; use YYYY-MM-DD"})
		return
	}

	svc := services.NewSummaryService(services.NewRecordStore(config.DB))
	summary, err := svc.DaySummary(day)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetRollingSummary sums the trailing ?days window ending today (default 7).
func GetRollingSummary(c *gin.Context) {
	days, err := intQuery(c, "days", 7)
	if err != nil || days > maxSummaryDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 30"})
		return
	}

	svc := services.NewSummaryService(services.NewRecordStore(config.DB))
	summary, err := svc.RollingSummary(days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListLogs returns recent records with their totals, newest first.
func ListLogs(c *gin.Context) {
	limit, err := intQuery(c, "limit", 50)
	if err != nil || limit > maxListLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 365"})
		return
	}

	store := services.NewRecordStore(config.DB)
	records, err := store.List(limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]recordResponse, 0, len(records))
	for i := range records {
		items = append(items, toRecordResponse(&records[i], true))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetHistory returns one zero-filled bucket per day for [start, start+days).
func GetHistory(c *gin.Context) {
	start, err := time.Parse(models.DateLayout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format; use YYYY-MM-DD"})
		return
	}
	days, err := intQuery(c, "days", 7)
	if err != nil || days > maxSummaryDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 30"})
		return
	}

	svc := services.NewSummaryService(services.NewRecordStore(config.DB))
	buckets, err := svc.History(start, days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": buckets})
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
