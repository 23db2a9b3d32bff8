package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Seg4105-group6/FoodLogger/models"

	"gorm.io/gorm"
)

const defaultListLimit = 50

// RecordStore is the durable collection of finalized meal records.
// Every operation is single-record and atomic; concurrent writers are
// last-write-wins.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore { return &RecordStore{db: db} }

// Create persists a new record. The store assigns the id and stamps
// created_at with its current UTC clock; both are immutable afterwards.
// Item detail rows are optional.
func (s *RecordStore) Create(totals models.NutrientTotals, sourceFilename string, items []models.MealItem) (*models.MealRecord, error) {
	record := &models.MealRecord{
		CreatedAt:      time.Now().UTC(),
		NutrientTotals: totals,
		SourceFilename: sourceFilename,
		Items:          items,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return record, nil
}

func (s *RecordStore) Get(id int64) (*models.MealRecord, error) {
	var record models.MealRecord
	err := s.db.Preload("Items", itemDisplayOrder).First(&record, id).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &record, nil
}

// UpdateTotals replaces the four totals columns of an existing record.
// created_at and id are untouched; calling twice with the same totals is a
// no-op the second time. Stored item detail is dropped on edit so stale
// per-item rows can never disagree with the edited totals.
func (s *RecordStore) UpdateTotals(id int64, totals models.NutrientTotals) (*models.MealRecord, error) {
	var record models.MealRecord
	if err := s.db.First(&record, id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}

	// totals write and detail drop land together or not at all
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&record).
			Select("calories_kcal", "protein_g", "carbs_g", "fat_g").
			Updates(map[string]interface{}{
				"calories_kcal": totals.CaloriesKcal,
				"protein_g":     totals.ProteinG,
				"carbs_g":       totals.CarbsG,
				"fat_g":         totals.FatG,
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("meal_record_id = ?", id).Delete(&models.MealItem{}).Error
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	record.NutrientTotals = totals
	record.Items = nil
	return &record, nil
}

// Delete removes a record and its item rows. Deleting an id that does not
// exist (including a repeat delete) reports ErrNotFound.
func (s *RecordStore) Delete(id int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_record_id = ?", id).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.MealRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// List returns the newest records first: created_at descending, ties broken
// by id descending. limit <= 0 falls back to the API default of 50.
func (s *RecordStore) List(limit int) ([]models.MealRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var records []models.MealRecord
	err := s.db.Preload("Items", itemDisplayOrder).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return records, nil
}

// ListBetween returns records with created_at in [from, to), oldest first,
// without item detail. Used by the aggregation engine.
func (s *RecordStore) ListBetween(from, to time.Time) ([]models.MealRecord, error) {
	var records []models.MealRecord
	err := s.db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return records, nil
}

// itemDisplayOrder pins item rows to insertion order; display order must not
// depend on how the database happens to return them.
func itemDisplayOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func wrapStoreErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
