package services

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Seg4105-group6/FoodLogger/models"
)

// nutritionFacts holds per-100 g reference values plus the density and
// typical serving used to turn a detected label into a portion estimate.
type nutritionFacts struct {
	KcalPer100g     float64
	ProteinPer100g  float64
	CarbsPer100g    float64
	FatPer100g      float64
	DensityGPerMl   float64
	TypicalServingG float64
}

var nutritionFactsByCode = map[string]nutritionFacts{
	// proteins
	"grilled_chicken": {165, 31.0, 0.0, 3.6, 1.05, 150},
	"salmon":          {208, 20.0, 0.0, 13.0, 1.05, 120},
	"steak":           {271, 25.0, 0.0, 19.0, 1.05, 200},

	// carbs
	"rice":   {130, 2.7, 28.0, 0.3, 0.85, 150},
	"pasta":  {131, 5.0, 25.0, 1.1, 0.9, 180},
	"bread":  {265, 9.0, 49.0, 3.2, 0.4, 60},
	"potato": {77, 2.0, 17.0, 0.1, 1.1, 150},

	// vegetables
	"broccoli": {55, 3.7, 7.0, 0.4, 0.6, 100},
	"salad":    {35, 1.5, 3.0, 0.2, 0.3, 100},
	"carrots":  {41, 0.9, 10.0, 0.2, 0.6, 80},
}

var defaultFacts = nutritionFacts{150, 10.0, 15.0, 5.0, 1.0, 100}

// normalizeFoodCode maps a raw classifier label onto a stable code in the
// facts table. Unmatched labels fall through to "custom".
func normalizeFoodCode(label string) string {
	l := strings.ToLower(strings.ReplaceAll(label, "_", " "))

	if _, ok := nutritionFactsByCode[strings.ReplaceAll(l, " ", "_")]; ok {
		return strings.ReplaceAll(l, " ", "_")
	}

	switch {
	case strings.Contains(l, "chicken"):
		return "grilled_chicken"
	case strings.Contains(l, "salmon"), strings.Contains(l, "fish"):
		return "salmon"
	case strings.Contains(l, "beef"), strings.Contains(l, "steak"):
		return "steak"
	case strings.Contains(l, "rice"):
		return "rice"
	case strings.Contains(l, "pasta"), strings.Contains(l, "spaghetti"), strings.Contains(l, "noodle"):
		return "pasta"
	case strings.Contains(l, "bread"), strings.Contains(l, "toast"):
		return "bread"
	case strings.Contains(l, "potato"), strings.Contains(l, "fries"):
		return "potato"
	case strings.Contains(l, "broccoli"):
		return "broccoli"
	case strings.Contains(l, "salad"), strings.Contains(l, "lettuce"):
		return "salad"
	case strings.Contains(l, "carrot"):
		return "carrots"
	}
	return models.CustomFoodCode
}

// Estimator maps detected labels to estimated servings and nutrient values.
// One instance is shared across request goroutines; mu guards the rand
// source.
type Estimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewEstimator() *Estimator {
	return &Estimator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// EstimateItem builds the nutrient estimate for one detection. Serving size
// is the code's typical portion with up to 20% spread either way.
func (e *Estimator) EstimateItem(det Detection) models.MealItem {
	code := normalizeFoodCode(det.Label)
	facts, ok := nutritionFactsByCode[code]
	if !ok {
		facts = defaultFacts
	}

	e.mu.Lock()
	spread := e.rng.Float64()
	e.mu.Unlock()

	servingG := round1(facts.TypicalServingG * (0.8 + 0.4*spread))
	factor := servingG / 100.0

	return models.MealItem{
		Name:              displayName(det.Label),
		Code:              code,
		EstimatedVolumeMl: round1(servingG / facts.DensityGPerMl),
		EstimatedWeightG:  servingG,
		CaloriesKcal:      round1(facts.KcalPer100g * factor),
		ProteinG:          round1(facts.ProteinPer100g * factor),
		CarbsG:            round1(facts.CarbsPer100g * factor),
		FatG:              round1(facts.FatPer100g * factor),
		Confidence:        round2(det.Confidence),
	}
}

// EstimateItems maps every detection and returns the items with their
// nutrient totals.
func (e *Estimator) EstimateItems(detections []Detection) ([]models.MealItem, models.NutrientTotals) {
	items := make([]models.MealItem, 0, len(detections))
	var totals models.NutrientTotals
	for _, det := range detections {
		item := e.EstimateItem(det)
		items = append(items, item)
		totals.Add(item.Nutrients())
	}
	totals.CaloriesKcal = round1(totals.CaloriesKcal)
	totals.ProteinG = round1(totals.ProteinG)
	totals.CarbsG = round1(totals.CarbsG)
	totals.FatG = round1(totals.FatG)
	return items, totals
}

// displayName turns a classifier label like "grilled_chicken" into
// "Grilled Chicken".
func displayName(label string) string {
	words := strings.Fields(strings.ReplaceAll(label, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
