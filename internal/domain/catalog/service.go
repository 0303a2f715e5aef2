package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validContentTypes = map[string]bool{
	TypeExercise:   true,
	TypeMedication: true,
	TypeWarning:    true,
	TypeInfo:       true,
}

// ValidContentType reports whether t is one of the recognized content types.
func ValidContentType(t string) bool { return validContentTypes[t] }

type Service struct {
	templates TemplateRepository
	items     ItemRepository
}

func NewService(templates TemplateRepository, items ItemRepository) *Service {
	return &Service{templates: templates, items: items}
}

func validateContent(contentType, category, title string, from, until *int) error {
	if !validContentTypes[contentType] {
		return fmt.Errorf("invalid content_type: %s", contentType)
	}
	if category == "" {
		return fmt.Errorf("category is required")
	}
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if from != nil && *from < 0 {
		return fmt.Errorf("valid_from_day must not be negative")
	}
	if until != nil && *until < 0 {
		return fmt.Errorf("valid_until_day must not be negative")
	}
	if from != nil && until != nil && *until < *from {
		return fmt.Errorf("valid_until_day %d is before valid_from_day %d", *until, *from)
	}
	return nil
}

// -- Templates --

func (s *Service) CreateTemplate(ctx context.Context, t *ContentTemplate) error {
	if err := validateContent(t.ContentType, t.Category, t.Title, t.ValidFromDay, t.ValidUntilDay); err != nil {
		return err
	}
	t.IsActive = true
	return s.templates.Create(ctx, t)
}

func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (*ContentTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, t *ContentTemplate) error {
	if err := validateContent(t.ContentType, t.Category, t.Title, t.ValidFromDay, t.ValidUntilDay); err != nil {
		return err
	}
	if _, err := s.templates.GetByID(ctx, t.ID); err != nil {
		return err
	}
	return s.templates.Update(ctx, t)
}

// ToggleTemplate flips a template's active flag and returns the new state.
// An inactive template stops being offered to future syncs; clinic copies
// already made from it are untouched.
func (s *Service) ToggleTemplate(ctx context.Context, id uuid.UUID) (*ContentTemplate, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.IsActive = !t.IsActive
	if err := s.templates.SetActive(ctx, id, t.IsActive); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.templates.Delete(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, contentType string, limit, offset int) ([]*ContentTemplate, int, error) {
	if contentType != "" && !validContentTypes[contentType] {
		return nil, 0, fmt.Errorf("invalid content_type: %s", contentType)
	}
	return s.templates.List(ctx, contentType, limit, offset)
}

func (s *Service) ReorderTemplates(ctx context.Context, orderedIDs []uuid.UUID) (int, error) {
	if len(orderedIDs) == 0 {
		return 0, fmt.Errorf("item_ids is required")
	}
	return s.templates.Reorder(ctx, orderedIDs)
}

// -- Clinic items --

func (s *Service) CreateItem(ctx context.Context, it *CatalogItem) error {
	if it.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if err := validateContent(it.ContentType, it.Category, it.Title, it.ValidFromDay, it.ValidUntilDay); err != nil {
		return err
	}
	// Items created directly on a clinic catalog are custom by definition.
	it.TemplateID = nil
	it.IsCustom = true
	it.IsActive = true
	return s.items.Create(ctx, it)
}

func (s *Service) GetItem(ctx context.Context, clinicID, id uuid.UUID) (*CatalogItem, error) {
	return s.items.GetForClinic(ctx, clinicID, id)
}

func (s *Service) UpdateItem(ctx context.Context, it *CatalogItem) error {
	existing, err := s.items.GetForClinic(ctx, it.ClinicID, it.ID)
	if err != nil {
		return err
	}
	// Content type and template lineage are fixed at creation.
	it.ContentType = existing.ContentType
	it.TemplateID = existing.TemplateID
	it.IsCustom = existing.IsCustom
	if err := validateContent(it.ContentType, it.Category, it.Title, it.ValidFromDay, it.ValidUntilDay); err != nil {
		return err
	}
	return s.items.Update(ctx, it)
}

func (s *Service) ToggleItem(ctx context.Context, clinicID, id uuid.UUID) (*CatalogItem, error) {
	it, err := s.items.GetForClinic(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	it.IsActive = !it.IsActive
	if err := s.items.SetActive(ctx, clinicID, id, it.IsActive); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) DeleteItem(ctx context.Context, clinicID, id uuid.UUID) error {
	return s.items.Delete(ctx, clinicID, id)
}

func (s *Service) ListItems(ctx context.Context, clinicID uuid.UUID, contentType string, limit, offset int) ([]*CatalogItem, int, error) {
	if contentType != "" && !validContentTypes[contentType] {
		return nil, 0, fmt.Errorf("invalid content_type: %s", contentType)
	}
	return s.items.ListByClinic(ctx, clinicID, contentType, limit, offset)
}

// ListActiveItems returns the clinic's active items of one type in catalog
// order. This is the base set content resolution starts from.
func (s *Service) ListActiveItems(ctx context.Context, clinicID uuid.UUID, contentType string) ([]*CatalogItem, error) {
	if !validContentTypes[contentType] {
		return nil, fmt.Errorf("invalid content_type: %s", contentType)
	}
	return s.items.ListActiveByType(ctx, clinicID, contentType)
}

func (s *Service) SyncTemplates(ctx context.Context, clinicID uuid.UUID) (int, error) {
	return s.items.SyncFromTemplates(ctx, clinicID)
}

func (s *Service) ReorderItems(ctx context.Context, clinicID uuid.UUID, orderedIDs []uuid.UUID) (int, error) {
	if len(orderedIDs) == 0 {
		return 0, fmt.Errorf("item_ids is required")
	}
	return s.items.Reorder(ctx, clinicID, orderedIDs)
}
