package identity

import (
	"time"

	"github.com/google/uuid"
)

// Clinic maps to the clinics table.
type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Patient maps to the patients table. SurgeryDate anchors the post-operative
// day count used by the content endpoints.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClinicID    uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	GivenName   string     `db:"given_name" json:"given_name"`
	FamilyName  string     `db:"family_name" json:"family_name"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Procedure   *string    `db:"procedure" json:"procedure,omitempty"`
	SurgeryDate *time.Time `db:"surgery_date" json:"surgery_date,omitempty"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// DaysSinceSurgery returns the number of whole days between the surgery date
// and now, or false when no surgery date is recorded.
func (p *Patient) DaysSinceSurgery(now time.Time) (int, bool) {
	if p.SurgeryDate == nil {
		return 0, false
	}
	days := int(now.Sub(*p.SurgeryDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}
