package catalog

import (
	"context"

	"github.com/google/uuid"
)

type TemplateRepository interface {
	Create(ctx context.Context, t *ContentTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*ContentTemplate, error)
	Update(ctx context.Context, t *ContentTemplate) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, contentType string, limit, offset int) ([]*ContentTemplate, int, error)
	Reorder(ctx context.Context, orderedIDs []uuid.UUID) (int, error)
}

type ItemRepository interface {
	Create(ctx context.Context, it *CatalogItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
	GetForClinic(ctx context.Context, clinicID, id uuid.UUID) (*CatalogItem, error)
	Update(ctx context.Context, it *CatalogItem) error
	SetActive(ctx context.Context, clinicID, id uuid.UUID, active bool) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID, contentType string, limit, offset int) ([]*CatalogItem, int, error)
	ListActiveByType(ctx context.Context, clinicID uuid.UUID, contentType string) ([]*CatalogItem, error)
	SyncFromTemplates(ctx context.Context, clinicID uuid.UUID) (int, error)
	Reorder(ctx context.Context, clinicID uuid.UUID, orderedIDs []uuid.UUID) (int, error)
}
