package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/Seg4105-group6/FoodLogger/config"
	"github.com/Seg4105-group6/FoodLogger/models"
	"github.com/Seg4105-group6/FoodLogger/services"
	"github.com/Seg4105-group6/FoodLogger/utils"

	"github.com/gin-gonic/gin"
)

var analysisSvc *services.AnalysisService

// InitAnalysis wires the detection pipeline once at startup. Without an AWS
// region the pipeline runs on the static candidate list.
func InitAnalysis() {
	var detector services.Detector
	if os.Getenv("AWS_REGION") != "" {
		rek, err := services.NewRekognitionDetector(context.Background())
		if err != nil {
			log.Printf("rekognition unavailable, using static detection: %v", err)
		} else {
			detector = rek
		}
	}
	analysisSvc = services.NewAnalysisService(detector)
}

// AnalyzeMeal accepts a meal photo and returns a structured nutrition
// estimate. Nothing is saved; logging is an explicit separate call.
func AnalyzeMeal(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file must be an image"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty image uploaded"})
		return
	}

	result := analysisSvc.Analyze(c.Request.Context(), image, fileHeader.Filename)

	var imageURL string
	if utils.ArchiveEnabled() {
		imageURL, err = utils.UploadMealPhoto(c.Request.Context(), image, fileHeader.Filename, contentType)
		if err != nil {
			// archival is best-effort, the estimate is still good
			log.Printf("photo archive upload failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, struct {
		*services.AnalysisResult
		ImageURL string `json:"image_url,omitempty"`
	}{result, imageURL})
}

// LogMeal explicitly persists a finalized meal with its totals and items.
func LogMeal(c *gin.Context) {
	var body struct {
		models.NutrientTotals
		SourceFilename string            `json:"source_filename"`
		Items          []models.MealItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrEmptyDraft.Error()})
		return
	}

	store := services.NewRecordStore(config.DB)
	record, err := store.Create(body.NutrientTotals, body.SourceFilename, body.Items)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "logged",
		"meal_id": record.ID,
		"message": "Meal logged successfully",
	})
}

// UpdateMeal replaces a record's nutrition totals. Item detail is dropped
// so it cannot drift from the edited totals.
func UpdateMeal(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	var body models.NutrientTotals
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := services.NewRecordStore(config.DB)
	record, err := store.UpdateTotals(id, body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecordResponse(record, false))
}

func DeleteMeal(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	store := services.NewRecordStore(config.DB)
	if err := store.Delete(id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

// ---------- shared helpers ----------

type recordResponse struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	models.NutrientTotals
	SourceFilename string            `json:"source_filename,omitempty"`
	Items          []models.MealItem `json:"items,omitempty"`
}

func toRecordResponse(r *models.MealRecord, includeItems bool) recordResponse {
	resp := recordResponse{
		ID:             r.ID,
		CreatedAt:      models.FormatTimestamp(r.CreatedAt),
		NutrientTotals: r.NutrientTotals,
		SourceFilename: r.SourceFilename,
	}
	if includeItems {
		resp.Items = r.Items
	}
	return resp
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal log not found"})
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrEmptyDraft):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
