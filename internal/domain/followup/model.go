package followup

import (
	"time"

	"github.com/google/uuid"
)

// Adjustment types. An ADD introduces patient-only content, a DISABLE hides a
// catalog item for the patient, a MODIFY overlays selected fields on top of one.
const (
	AdjustmentAdd     = "add"
	AdjustmentDisable = "disable"
	AdjustmentModify  = "modify"
)

// Adjustment maps to the patient_adjustments table. Which fields are set
// depends on the adjustment type: ADD carries full content and no base item,
// DISABLE carries only a base item, MODIFY carries a base item plus any subset
// of category, title and description.
type Adjustment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	AdjustmentType string     `db:"adjustment_type" json:"adjustment_type"`
	BaseItemID     *uuid.UUID `db:"base_item_id" json:"base_item_id,omitempty"`
	ContentType    *string    `db:"content_type" json:"content_type,omitempty"`
	Category       *string    `db:"category" json:"category,omitempty"`
	Title          *string    `db:"title" json:"title,omitempty"`
	Description    *string    `db:"description" json:"description,omitempty"`
	ValidFromDay   *int       `db:"valid_from_day" json:"valid_from_day,omitempty"`
	ValidUntilDay  *int       `db:"valid_until_day" json:"valid_until_day,omitempty"`
	Reason         *string    `db:"reason" json:"reason,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// ContentView is one entry of a resolved content list, after catalog items and
// patient adjustments have been merged.
type ContentView struct {
	ID            uuid.UUID `json:"id"`
	ContentType   string    `json:"content_type"`
	Category      string    `json:"category"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	ValidFromDay  *int      `json:"valid_from_day,omitempty"`
	ValidUntilDay *int      `json:"valid_until_day,omitempty"`
	SortOrder     int       `json:"sort_order"`
	IsCustom      bool      `json:"is_custom"`
	IsModified    bool      `json:"is_modified"`
	CustomReason  *string   `json:"custom_reason,omitempty"`
}

// ResolvedContent is the full answer for one patient and content type.
type ResolvedContent struct {
	Type       string        `json:"type"`
	Items      []ContentView `json:"items"`
	TotalCount int           `json:"total_count"`
}
