package followup

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/vgsexex001/app-scheibell-sub001/internal/domain/catalog"
)

// Display order of categories. Medical urgency outranks catalog position, so
// resolved lists always show prohibitions and emergencies before routine items.
var categoryRank = map[string]int{
	"normal":     0,
	"allowed":    0,
	"warning":    1,
	"restricted": 1,
	"emergency":  2,
	"prohibited": 2,
	"info":       3,
}

func rankOf(category string) int {
	if r, ok := categoryRank[category]; ok {
		return r
	}
	return 4
}

// resolve merges a clinic's active catalog items with a patient's active
// adjustments into the list the patient actually sees.
//
// Adjustments are partitioned first: DISABLEs collect the base items to hide,
// MODIFYs collect per-item overlays (a later MODIFY of the same item replaces
// an earlier one), ADDs collect patient-only entries. A base item that is both
// disabled and modified stays hidden. When day is non-nil, entries whose
// validity window excludes that day are dropped; an open window bound means
// day 0 below and no upper limit above.
func resolve(contentType string, day *int, base []*catalog.CatalogItem, adjustments []*Adjustment) *ResolvedContent {
	disabled := make(map[uuid.UUID]bool)
	modified := make(map[uuid.UUID]*Adjustment)
	var added []*Adjustment

	for _, adj := range adjustments {
		switch adj.AdjustmentType {
		case AdjustmentDisable:
			if adj.BaseItemID != nil {
				disabled[*adj.BaseItemID] = true
			}
		case AdjustmentModify:
			if adj.BaseItemID != nil {
				modified[*adj.BaseItemID] = adj
			}
		case AdjustmentAdd:
			added = append(added, adj)
		}
	}

	var views []ContentView
	for _, it := range base {
		if disabled[it.ID] {
			continue
		}
		v := ContentView{
			ID:            it.ID,
			ContentType:   it.ContentType,
			Category:      it.Category,
			Title:         it.Title,
			Description:   it.Description,
			ValidFromDay:  it.ValidFromDay,
			ValidUntilDay: it.ValidUntilDay,
			SortOrder:     it.SortOrder,
			IsCustom:      it.IsCustom,
		}
		if adj, ok := modified[it.ID]; ok {
			v.IsModified = true
			v.CustomReason = adj.Reason
			if adj.Category != nil {
				v.Category = *adj.Category
			}
			if adj.Title != nil {
				v.Title = *adj.Title
			}
			if adj.Description != nil {
				v.Description = adj.Description
			}
		}
		if visibleOnDay(day, v.ValidFromDay, v.ValidUntilDay) {
			views = append(views, v)
		}
	}

	for _, adj := range added {
		v := ContentView{
			ID:            adj.ID,
			ContentType:   contentType,
			ValidFromDay:  adj.ValidFromDay,
			ValidUntilDay: adj.ValidUntilDay,
			IsCustom:      true,
			CustomReason:  adj.Reason,
		}
		if adj.Category != nil {
			v.Category = *adj.Category
		}
		if adj.Title != nil {
			v.Title = *adj.Title
		}
		v.Description = adj.Description
		if visibleOnDay(day, v.ValidFromDay, v.ValidUntilDay) {
			views = append(views, v)
		}
	}

	// Stable sort keeps catalog order within a rank, with ADDed entries after
	// catalog entries of the same rank.
	sort.SliceStable(views, func(i, j int) bool {
		return rankOf(views[i].Category) < rankOf(views[j].Category)
	})

	return &ResolvedContent{Type: contentType, Items: views, TotalCount: len(views)}
}

func visibleOnDay(day, from, until *int) bool {
	if day == nil {
		return true
	}
	lower := 0
	if from != nil {
		lower = *from
	}
	upper := math.MaxInt32
	if until != nil {
		upper = *until
	}
	return lower <= *day && *day <= upper
}
