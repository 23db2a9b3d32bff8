package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/Seg4105-group6/FoodLogger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.MealRecord{}, &models.MealItem{})
	require.NoError(t, err)

	return db
}

func sampleTotals() models.NutrientTotals {
	return models.NutrientTotals{CaloriesKcal: 420.5, ProteinG: 32.1, CarbsG: 48.0, FatG: 12.3}
}

func sampleItems() []models.MealItem {
	return []models.MealItem{
		{Name: "Grilled Chicken", Code: "grilled_chicken", EstimatedWeightG: 150, CaloriesKcal: 247.5, ProteinG: 46.5, FatG: 5.4, Confidence: 0.87},
		{Name: "Rice", Code: "rice", EstimatedWeightG: 150, CaloriesKcal: 195, ProteinG: 4.1, CarbsG: 42, FatG: 0.5, Confidence: 0.82},
	}
}

func TestCreateAssignsIDAndUTCTimestamp(t *testing.T) {
	store := NewRecordStore(setupTestDB(t))

	first, err := store.Create(sampleTotals(), "lunch.jpg", sampleItems())
	require.NoError(t, err)
	second, err := store.Create(sampleTotals(), "", nil)
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, time.UTC, first.CreatedAt.Location())
	assert.WithinDuration(t, time.Now().UTC(), first.CreatedAt, 5*time.Second)

	got, err := store.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch.jpg", got.SourceFilename)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "Grilled Chicken", got.Items[0].Name)
}

func TestGetUnknownID(t *testing.T) {
	store := NewRecordStore(setupTestDB(t))

	_, err := store.Get(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTotalsKeepsCreatedAtAndDropsItems(t *testing.T) {
	store := NewRecordStore(setupTestDB(t))

	created, err := store.Create(sampleTotals(), "dinner.jpg", sampleItems())
	require.NoError(t, err)

	edited := models.NutrientTotals{CaloriesKcal: 600, ProteinG: 40, CarbsG: 55, FatG: 20}
	updated, err := store.UpdateTotals(created.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, edited, updated.NutrientTotals)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, edited, got.NutrientTotals)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at must not change on edit")
	assert.Equal(t, "dinner.jpg", got.SourceFilename)
	assert.Empty(t, got.Items, "totals edit drops stored item detail")

	// same totals again is a no-op
	again, err := store.UpdateTotals(created.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, edited, again.NutrientTotals)
}

func TestUpdateTotalsUnknownID(t *testing.T) {
	store := NewRecordStore(setupTestDB(t))

	_, err := store.UpdateTotals(42, sampleTotals())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	store := NewRecordStore(setupTestDB(t))

	created, err := store.Create(sampleTotals(), "", sampleItems())
	require.NoError(t, err)

	require.NoError(t, store.Delete(created.ID))

	_, err = store.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(created.ID), ErrNotFound)

	// item rows must not survive their record
	var orphans int64
	store.db.Model(&models.MealItem{}).Where("meal_record_id = ?", created.ID).Count(&orphans)
	assert.Zero(t, orphans)
}

func TestUpdateTotalsRollsBackWhenDetailDropFails(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecordStore(db)

	created, err := store.Create(sampleTotals(), "", sampleItems())
	require.NoError(t, err)

	// make the second statement of the edit fail mid-write
	require.NoError(t, db.Migrator().DropTable(&models.MealItem{}))

	edited := models.NutrientTotals{CaloriesKcal: 600, ProteinG: 40, CarbsG: 55, FatG: 20}
	_, err = store.UpdateTotals(created.ID, edited)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	// the totals write must have rolled back with it
	var got models.MealRecord
	require.NoError(t, db.First(&got, created.ID).Error)
	assert.Equal(t, sampleTotals(), got.NutrientTotals)
}

func TestDeleteRollsBackWhenDetailDropFails(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecordStore(db)

	created, err := store.Create(sampleTotals(), "", sampleItems())
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.MealItem{}))

	assert.ErrorIs(t, store.Delete(created.ID), ErrStoreUnavailable)

	var got models.MealRecord
	require.NoError(t, db.First(&got, created.ID).Error, "record must survive a failed delete")
}

func TestItemsKeepInsertionOrder(t *testing.T) {
	store := NewRecordStore(setupTestDB(t))

	items := []models.MealItem{
		{Name: "Salmon", Code: "salmon"},
		{Name: "Bread", Code: "bread"},
		{Name: "Carrots", Code: "carrots"},
	}
	created, err := store.Create(sampleTotals(), "", items)
	require.NoError(t, err)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Salmon", got.Items[0].Name)
	assert.Equal(t, "Bread", got.Items[1].Name)
	assert.Equal(t, "Carrots", got.Items[2].Name)

	records, err := store.List(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Items, 3)
	assert.Equal(t, "Salmon", records[0].Items[0].Name)
	assert.Equal(t, "Carrots", records[0].Items[2].Name)
}

func TestListNewestFirstWithIDTiebreak(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecordStore(db)

	older, err := store.Create(sampleTotals(), "", nil)
	require.NoError(t, err)
	tieA, err := store.Create(sampleTotals(), "", nil)
	require.NoError(t, err)
	tieB, err := store.Create(sampleTotals(), "", nil)
	require.NoError(t, err)

	base := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.MealRecord{}).Where("id = ?", older.ID).Update("created_at", base.Add(-time.Hour)).Error)
	require.NoError(t, db.Model(&models.MealRecord{}).Where("id IN ?", []int64{tieA.ID, tieB.ID}).Update("created_at", base).Error)

	records, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, tieB.ID, records[0].ID, "created_at tie broken by id descending")
	assert.Equal(t, tieA.ID, records[1].ID)
	assert.Equal(t, older.ID, records[2].ID)

	limited, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
