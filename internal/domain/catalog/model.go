package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Content types recognized across the platform.
const (
	TypeExercise   = "exercise"
	TypeMedication = "medication"
	TypeWarning    = "warning"
	TypeInfo       = "info"
)

// ContentTemplate maps to the content_templates table. Templates form the
// global catalog that clinic catalogs are seeded from; clinics never write
// to this table.
type ContentTemplate struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ContentType   string    `db:"content_type" json:"content_type"`
	Category      string    `db:"category" json:"category"`
	Title         string    `db:"title" json:"title"`
	Description   *string   `db:"description" json:"description,omitempty"`
	ValidFromDay  *int      `db:"valid_from_day" json:"valid_from_day,omitempty"`
	ValidUntilDay *int      `db:"valid_until_day" json:"valid_until_day,omitempty"`
	SortOrder     int       `db:"sort_order" json:"sort_order"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CatalogItem maps to the catalog_items table. An item either descends from a
// template (TemplateID set, IsCustom false) or was authored by the clinic
// (TemplateID nil, IsCustom true). Deactivating or deleting a template never
// touches items already copied from it.
type CatalogItem struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ClinicID      uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	TemplateID    *uuid.UUID `db:"template_id" json:"template_id,omitempty"`
	ContentType   string     `db:"content_type" json:"content_type"`
	Category      string     `db:"category" json:"category"`
	Title         string     `db:"title" json:"title"`
	Description   *string    `db:"description" json:"description,omitempty"`
	ValidFromDay  *int       `db:"valid_from_day" json:"valid_from_day,omitempty"`
	ValidUntilDay *int       `db:"valid_until_day" json:"valid_until_day,omitempty"`
	SortOrder     int        `db:"sort_order" json:"sort_order"`
	IsCustom      bool       `db:"is_custom" json:"is_custom"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
