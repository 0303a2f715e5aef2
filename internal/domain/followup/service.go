package followup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vgsexex001/app-scheibell-sub001/internal/domain/catalog"
	"github.com/vgsexex001/app-scheibell-sub001/internal/domain/identity"
)

// ErrNoSurgeryDate marks a patient whose day-relative content cannot be
// resolved because no surgery date is on file.
var ErrNoSurgeryDate = errors.New("patient has no surgery date")

// PatientDirectory is the slice of the identity service resolution needs.
type PatientDirectory interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*identity.Patient, error)
}

// CatalogSource is the slice of the catalog service resolution needs.
type CatalogSource interface {
	ListActiveItems(ctx context.Context, clinicID uuid.UUID, contentType string) ([]*catalog.CatalogItem, error)
	GetItem(ctx context.Context, clinicID, id uuid.UUID) (*catalog.CatalogItem, error)
}

type Service struct {
	adjustments AdjustmentRepository
	patients    PatientDirectory
	catalogs    CatalogSource
	now         func() time.Time
}

func NewService(adjustments AdjustmentRepository, patients PatientDirectory, catalogs CatalogSource) *Service {
	return &Service{adjustments: adjustments, patients: patients, catalogs: catalogs, now: time.Now}
}

// ResolveContent answers what a patient sees for one content type. When day is
// non-nil the result is narrowed to entries valid on that post-operative day.
func (s *Service) ResolveContent(ctx context.Context, patientID uuid.UUID, contentType string, day *int) (*ResolvedContent, error) {
	if !catalog.ValidContentType(contentType) {
		return nil, fmt.Errorf("invalid content_type: %s", contentType)
	}
	if day != nil && *day < 0 {
		return nil, fmt.Errorf("day must not be negative")
	}
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient %s: %w", patientID, err)
	}
	base, err := s.catalogs.ListActiveItems(ctx, p.ClinicID, contentType)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.adjustments.ListActiveForType(ctx, patientID, contentType)
	if err != nil {
		return nil, err
	}
	return resolve(contentType, day, base, adjustments), nil
}

// ResolveToday resolves content for the patient's current post-operative day,
// derived from the surgery date on file.
func (s *Service) ResolveToday(ctx context.Context, patientID uuid.UUID, contentType string) (*ResolvedContent, error) {
	if !catalog.ValidContentType(contentType) {
		return nil, fmt.Errorf("invalid content_type: %s", contentType)
	}
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient %s: %w", patientID, err)
	}
	day, ok := p.DaysSinceSurgery(s.now())
	if !ok {
		return nil, ErrNoSurgeryDate
	}
	base, err := s.catalogs.ListActiveItems(ctx, p.ClinicID, contentType)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.adjustments.ListActiveForType(ctx, patientID, contentType)
	if err != nil {
		return nil, err
	}
	return resolve(contentType, &day, base, adjustments), nil
}

// -- Adjustments --

func (s *Service) CreateAdjustment(ctx context.Context, a *Adjustment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	p, err := s.patients.GetPatient(ctx, a.PatientID)
	if err != nil {
		return fmt.Errorf("patient %s: %w", a.PatientID, err)
	}
	switch a.AdjustmentType {
	case AdjustmentAdd:
		if err := s.validateAdd(a); err != nil {
			return err
		}
	case AdjustmentDisable:
		if err := s.validateDisable(ctx, p, a); err != nil {
			return err
		}
	case AdjustmentModify:
		if err := s.validateModify(ctx, p, a); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid adjustment_type: %s", a.AdjustmentType)
	}
	a.IsActive = true
	return s.adjustments.Create(ctx, a)
}

func (s *Service) validateAdd(a *Adjustment) error {
	if a.BaseItemID != nil {
		return fmt.Errorf("add must not reference a base item")
	}
	if a.ContentType == nil || !catalog.ValidContentType(*a.ContentType) {
		return fmt.Errorf("add requires a valid content_type")
	}
	if a.Category == nil || *a.Category == "" {
		return fmt.Errorf("add requires a category")
	}
	if a.Title == nil || *a.Title == "" {
		return fmt.Errorf("add requires a title")
	}
	if a.ValidFromDay != nil && *a.ValidFromDay < 0 {
		return fmt.Errorf("valid_from_day must not be negative")
	}
	if a.ValidUntilDay != nil && *a.ValidUntilDay < 0 {
		return fmt.Errorf("valid_until_day must not be negative")
	}
	if a.ValidFromDay != nil && a.ValidUntilDay != nil && *a.ValidUntilDay < *a.ValidFromDay {
		return fmt.Errorf("valid_until_day %d is before valid_from_day %d", *a.ValidUntilDay, *a.ValidFromDay)
	}
	return nil
}

func (s *Service) validateDisable(ctx context.Context, p *identity.Patient, a *Adjustment) error {
	if a.BaseItemID == nil {
		return fmt.Errorf("disable requires a base_item_id")
	}
	if a.ContentType != nil || a.Category != nil || a.Title != nil || a.Description != nil ||
		a.ValidFromDay != nil || a.ValidUntilDay != nil {
		return fmt.Errorf("disable carries no content fields")
	}
	if _, err := s.catalogs.GetItem(ctx, p.ClinicID, *a.BaseItemID); err != nil {
		return fmt.Errorf("base item %s: %w", *a.BaseItemID, err)
	}
	return nil
}

func (s *Service) validateModify(ctx context.Context, p *identity.Patient, a *Adjustment) error {
	if a.BaseItemID == nil {
		return fmt.Errorf("modify requires a base_item_id")
	}
	if a.ContentType != nil {
		return fmt.Errorf("modify cannot change content_type")
	}
	if a.ValidFromDay != nil || a.ValidUntilDay != nil {
		return fmt.Errorf("modify cannot change the validity window")
	}
	if a.Category != nil && *a.Category == "" {
		return fmt.Errorf("category override must not be empty")
	}
	if a.Title != nil && *a.Title == "" {
		return fmt.Errorf("title override must not be empty")
	}
	if _, err := s.catalogs.GetItem(ctx, p.ClinicID, *a.BaseItemID); err != nil {
		return fmt.Errorf("base item %s: %w", *a.BaseItemID, err)
	}
	return nil
}

func (s *Service) GetAdjustment(ctx context.Context, id uuid.UUID) (*Adjustment, error) {
	return s.adjustments.GetByID(ctx, id)
}

// ToggleAdjustment flips an adjustment's active flag and returns the new
// state. Inactive adjustments keep their history but no longer take part in
// resolution.
func (s *Service) ToggleAdjustment(ctx context.Context, id uuid.UUID) (*Adjustment, error) {
	a, err := s.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.IsActive = !a.IsActive
	if err := s.adjustments.SetActive(ctx, id, a.IsActive); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteAdjustment(ctx context.Context, id uuid.UUID) error {
	return s.adjustments.Delete(ctx, id)
}

func (s *Service) ListAdjustments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Adjustment, int, error) {
	return s.adjustments.ListByPatient(ctx, patientID, limit, offset)
}
