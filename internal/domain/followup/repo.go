package followup

import (
	"context"

	"github.com/google/uuid"
)

type AdjustmentRepository interface {
	Create(ctx context.Context, a *Adjustment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Adjustment, int, error)
	// ListActiveForType returns the patient's active adjustments that bear on
	// one content type, oldest first. For DISABLE and MODIFY the type comes
	// from the referenced catalog item; orphaned references are omitted.
	ListActiveForType(ctx context.Context, patientID uuid.UUID, contentType string) ([]*Adjustment, error)
}
