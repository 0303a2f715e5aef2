package identity

import (
	"context"

	"github.com/google/uuid"
)

type ClinicRepository interface {
	Create(ctx context.Context, cl *Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	GetBySlug(ctx context.Context, slug string) (*Clinic, error)
	Update(ctx context.Context, cl *Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Clinic, int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Patient, int, error)
}
