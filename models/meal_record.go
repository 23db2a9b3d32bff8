package models

import "time"

// TimestampLayout is the wire format for record timestamps: ISO-8601 UTC with
// millisecond precision. The first 10 characters are the UTC calendar date used
// for summary bucketing.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the bucketing date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// CustomFoodCode marks items entered by hand or detections with no match in
// the nutrition facts table.
const CustomFoodCode = "custom"

// FormatTimestamp renders t in the wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// BucketDate returns the UTC calendar date a timestamp belongs to.
func BucketDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// NutrientTotals is the calorie/macro snapshot shared by records, summaries and
// history buckets.
type NutrientTotals struct {
	CaloriesKcal float64 `json:"total_calories_kcal"`
	ProteinG     float64 `json:"total_protein_g"`
	CarbsG       float64 `json:"total_carbs_g"`
	FatG         float64 `json:"total_fat_g"`
}

// Add accumulates other into t.
func (t *NutrientTotals) Add(other NutrientTotals) {
	t.CaloriesKcal += other.CaloriesKcal
	t.ProteinG += other.ProteinG
	t.CarbsG += other.CarbsG
	t.FatG += other.FatG
}

// One persisted, finalized meal log entry.
// ID and CreatedAt are assigned by the store at creation and never change;
// totals may be overwritten by an explicit edit.
type MealRecord struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time `gorm:"index;not null" json:"-"`
	NutrientTotals `gorm:"embedded"`
	SourceFilename string     `json:"source_filename,omitempty"`
	Items          []MealItem `gorm:"foreignKey:MealRecordID" json:"items,omitempty"`
}

// MealItem stores the per-food estimate snapshot attached to a record.
// Detail rows are optional: records edited at the totals level drop them.
type MealItem struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	MealRecordID int64  `gorm:"index;not null" json:"-"`

	Name              string  `json:"name"`
	Code              string  `gorm:"type:varchar(255)" json:"code"`
	EstimatedVolumeMl float64 `json:"estimated_volume_ml"`
	EstimatedWeightG  float64 `json:"estimated_weight_g"`
	CaloriesKcal      float64 `json:"estimated_calories_kcal"`
	ProteinG          float64 `json:"estimated_protein_g"`
	CarbsG            float64 `json:"estimated_carbs_g"`
	FatG              float64 `json:"estimated_fat_g"`
	Confidence        float64 `json:"confidence"`
}

// Nutrients returns the item's contribution to a record's totals.
func (i MealItem) Nutrients() NutrientTotals {
	return NutrientTotals{
		CaloriesKcal: i.CaloriesKcal,
		ProteinG:     i.ProteinG,
		CarbsG:       i.CarbsG,
		FatG:         i.FatG,
	}
}

// DaySummary is one per-day history bucket. Derived, never stored.
type DaySummary struct {
	Date      string `json:"date"`
	MealCount int    `json:"meals"`
	NutrientTotals
}
