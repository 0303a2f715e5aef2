package identity

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

type Service struct {
	clinics  ClinicRepository
	patients PatientRepository
}

func NewService(cl ClinicRepository, p PatientRepository) *Service {
	return &Service{clinics: cl, patients: p}
}

// -- Clinic --

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func (s *Service) CreateClinic(ctx context.Context, cl *Clinic) error {
	if cl.Name == "" {
		return fmt.Errorf("name is required")
	}
	if cl.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	if !slugPattern.MatchString(cl.Slug) {
		return fmt.Errorf("invalid slug: %s", cl.Slug)
	}
	cl.IsActive = true
	return s.clinics.Create(ctx, cl)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

func (s *Service) GetClinicBySlug(ctx context.Context, slug string) (*Clinic, error) {
	return s.clinics.GetBySlug(ctx, slug)
}

func (s *Service) UpdateClinic(ctx context.Context, cl *Clinic) error {
	if cl.Slug != "" && !slugPattern.MatchString(cl.Slug) {
		return fmt.Errorf("invalid slug: %s", cl.Slug)
	}
	if _, err := s.clinics.GetByID(ctx, cl.ID); err != nil {
		return err
	}
	return s.clinics.Update(ctx, cl)
}

func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	return s.clinics.Delete(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	return s.clinics.List(ctx, limit, offset)
}

// -- Patient --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if p.GivenName == "" {
		return fmt.Errorf("given_name is required")
	}
	if p.FamilyName == "" {
		return fmt.Errorf("family_name is required")
	}
	if _, err := s.clinics.GetByID(ctx, p.ClinicID); err != nil {
		return fmt.Errorf("clinic %s: %w", p.ClinicID, err)
	}
	p.IsActive = true
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.GivenName == "" {
		return fmt.Errorf("given_name is required")
	}
	if p.FamilyName == "" {
		return fmt.Errorf("family_name is required")
	}
	if _, err := s.patients.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) ListPatientsByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	return s.patients.ListByClinic(ctx, clinicID, limit, offset)
}
