// Package client is the app-side core of the meal logger: it holds the one
// in-progress draft being edited and syncs it against the backend's record
// API.
package client

import (
	"strconv"
	"strings"

	"github.com/Seg4105-group6/FoodLogger/models"

	"github.com/google/uuid"
)

// PlaceholderName is used when an item is saved with a blank name.
const PlaceholderName = "Custom item"

// ItemEdit carries the editable fields of one draft item as the user typed
// them. Numeric fields are form input: anything that does not parse as a
// non-negative number is treated as 0 rather than rejecting the edit.
type ItemEdit struct {
	Name         string
	WeightG      string
	CaloriesKcal string
	ProteinG     string
	CarbsG       string
	FatG         string
}

type draftEntry struct {
	uid  string
	item models.MealItem
}

// Draft is the single in-progress meal being assembled before commit. It is
// an explicit session object: callers create as many independent drafts as
// they need, but each one expects serialized access.
//
// Selection is keyed by a synthetic per-item id assigned at creation, so a
// selection made before an insert or delete still refers to the same items
// afterwards, not to whatever shifted into their positions.
type Draft struct {
	entries        []draftEntry
	selected       map[string]struct{}
	sourceFilename string
}

func NewDraft() *Draft {
	return &Draft{selected: map[string]struct{}{}}
}

// ReplaceAll installs a fresh item list, unconditionally discarding prior
// content and selection. This is the only path that populates a draft from
// an analysis result.
func (d *Draft) ReplaceAll(items []models.MealItem, sourceFilename string) {
	d.entries = make([]draftEntry, 0, len(items))
	for _, item := range items {
		d.entries = append(d.entries, draftEntry{uid: uuid.NewString(), item: item})
	}
	d.selected = map[string]struct{}{}
	d.sourceFilename = sourceFilename
}

// Upsert appends a new item when index is out of range (use -1), otherwise
// overwrites the item's editable fields in place. Edits preserve the item's
// code, estimated volume and confidence; appended items are marked custom
// with confidence 1.
func (d *Draft) Upsert(index int, edit ItemEdit) {
	name := strings.TrimSpace(edit.Name)
	if name == "" {
		name = PlaceholderName
	}

	if index < 0 || index >= len(d.entries) {
		d.entries = append(d.entries, draftEntry{
			uid: uuid.NewString(),
			item: models.MealItem{
				Name:             name,
				Code:             models.CustomFoodCode,
				EstimatedWeightG: parseAmount(edit.WeightG),
				CaloriesKcal:     parseAmount(edit.CaloriesKcal),
				ProteinG:         parseAmount(edit.ProteinG),
				CarbsG:           parseAmount(edit.CarbsG),
				FatG:             parseAmount(edit.FatG),
				Confidence:       1.0,
			},
		})
		return
	}

	item := &d.entries[index].item
	item.Name = name
	item.EstimatedWeightG = parseAmount(edit.WeightG)
	item.CaloriesKcal = parseAmount(edit.CaloriesKcal)
	item.ProteinG = parseAmount(edit.ProteinG)
	item.CarbsG = parseAmount(edit.CarbsG)
	item.FatG = parseAmount(edit.FatG)
}

// Select marks the item currently at index for bulk removal.
func (d *Draft) Select(index int) {
	if index < 0 || index >= len(d.entries) {
		return
	}
	d.selected[d.entries[index].uid] = struct{}{}
}

// Deselect unmarks the item currently at index.
func (d *Draft) Deselect(index int) {
	if index < 0 || index >= len(d.entries) {
		return
	}
	delete(d.selected, d.entries[index].uid)
}

// SelectedCount reports how many items are marked for removal.
func (d *Draft) SelectedCount() int { return len(d.selected) }

// DeleteSelected removes every marked item in one pass and clears the
// selection.
func (d *Draft) DeleteSelected() {
	if len(d.selected) == 0 {
		return
	}
	kept := d.entries[:0]
	for _, e := range d.entries {
		if _, marked := d.selected[e.uid]; !marked {
			kept = append(kept, e)
		}
	}
	d.entries = kept
	d.selected = map[string]struct{}{}
}

// Clear discards the draft: items, selection and source filename.
func (d *Draft) Clear() {
	d.entries = nil
	d.selected = map[string]struct{}{}
	d.sourceFilename = ""
}

// Items returns the draft's items in display order.
func (d *Draft) Items() []models.MealItem {
	items := make([]models.MealItem, 0, len(d.entries))
	for _, e := range d.entries {
		items = append(items, e.item)
	}
	return items
}

func (d *Draft) Len() int { return len(d.entries) }

func (d *Draft) IsEmpty() bool { return len(d.entries) == 0 }

func (d *Draft) SourceFilename() string { return d.sourceFilename }

// Totals recomputes the nutrient sum from scratch on every call. Derived
// state is never maintained incrementally, so repeated edits cannot
// accumulate float drift.
func (d *Draft) Totals() models.NutrientTotals {
	var totals models.NutrientTotals
	for _, e := range d.entries {
		totals.Add(e.item.Nutrients())
	}
	return totals
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
