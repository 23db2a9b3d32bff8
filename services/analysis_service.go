package services

import (
	"context"
	"log"

	"github.com/Seg4105-group6/FoodLogger/models"
)

const detectTopK = 3

// PipelineInfo describes which detection path produced a result.
type PipelineInfo struct {
	Version string `json:"version"`
	Model   string `json:"model,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// AnalysisResult is the estimate returned for one meal photo. It is never
// persisted by the analysis path; logging is a separate, explicit call.
type AnalysisResult struct {
	Items []models.MealItem `json:"items"`
	models.NutrientTotals
	Pipeline PipelineInfo `json:"pipeline"`
	Source   struct {
		Filename string `json:"filename,omitempty"`
	} `json:"source"`
}

// AnalysisService runs detect -> estimate over a meal photo.
type AnalysisService struct {
	detector  Detector
	fallback  *StaticDetector
	estimator *Estimator
}

// NewAnalysisService wires the pipeline. detector may be nil, in which case
// every request uses the static fallback.
func NewAnalysisService(detector Detector) *AnalysisService {
	return &AnalysisService{
		detector:  detector,
		fallback:  NewStaticDetector(),
		estimator: NewEstimator(),
	}
}

// Analyze detects food labels in the image and maps them to estimated
// servings and nutrients. A detector failure degrades to the static
// candidate list rather than failing the request, matching the behavior
// callers rely on when the classifier is flaky.
func (s *AnalysisService) Analyze(ctx context.Context, image []byte, filename string) *AnalysisResult {
	pipeline := PipelineInfo{
		Version: "rekognition-1.0",
		Model:   "aws-rekognition-labels",
	}

	var detections []Detection
	if s.detector != nil {
		var err error
		detections, err = s.detector.DetectLabels(ctx, image, detectTopK)
		if err != nil {
			log.Printf("detector error, falling back to static candidates: %v", err)
			detections = nil
		}
	}
	if len(detections) == 0 {
		detections, _ = s.fallback.DetectLabels(ctx, image, detectTopK)
		pipeline = PipelineInfo{
			Version: "fallback-static-0.1",
			Notes:   "static candidate list; no image classifier available",
		}
	}

	items, totals := s.estimator.EstimateItems(detections)

	result := &AnalysisResult{
		Items:          items,
		NutrientTotals: totals,
		Pipeline:       pipeline,
	}
	result.Source.Filename = filename
	return result
}
