package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockTemplateRepo struct{ store map[uuid.UUID]*ContentTemplate }

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{store: make(map[uuid.UUID]*ContentTemplate)}
}
func (m *mockTemplateRepo) Create(_ context.Context, t *ContentTemplate) error {
	t.ID = uuid.New(); t.SortOrder = len(m.store); m.store[t.ID] = t; return nil
}
func (m *mockTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*ContentTemplate, error) {
	t, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return t, nil
}
func (m *mockTemplateRepo) Update(_ context.Context, t *ContentTemplate) error {
	if _, ok := m.store[t.ID]; !ok { return fmt.Errorf("not found") }; m.store[t.ID] = t; return nil
}
func (m *mockTemplateRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	t, ok := m.store[id]; if !ok { return fmt.Errorf("not found") }; t.IsActive = active; return nil
}
func (m *mockTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok { return pgx.ErrNoRows }; delete(m.store, id); return nil
}
func (m *mockTemplateRepo) List(_ context.Context, contentType string, limit, offset int) ([]*ContentTemplate, int, error) {
	var r []*ContentTemplate
	for _, t := range m.store {
		if contentType == "" || t.ContentType == contentType { r = append(r, t) }
	}
	return r, len(r), nil
}
func (m *mockTemplateRepo) Reorder(_ context.Context, ids []uuid.UUID) (int, error) {
	moved := 0
	for pos, id := range ids {
		if t, ok := m.store[id]; ok { t.SortOrder = pos; moved++ }
	}
	return moved, nil
}

type mockItemRepo struct {
	store     map[uuid.UUID]*CatalogItem
	templates *mockTemplateRepo
}

func newMockItemRepo(templates *mockTemplateRepo) *mockItemRepo {
	return &mockItemRepo{store: make(map[uuid.UUID]*CatalogItem), templates: templates}
}
func (m *mockItemRepo) Create(_ context.Context, it *CatalogItem) error {
	it.ID = uuid.New()
	it.SortOrder = 0
	for _, other := range m.store {
		if other.ClinicID == it.ClinicID && other.ContentType == it.ContentType { it.SortOrder++ }
	}
	m.store[it.ID] = it
	return nil
}
func (m *mockItemRepo) GetByID(_ context.Context, id uuid.UUID) (*CatalogItem, error) {
	it, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return it, nil
}
func (m *mockItemRepo) GetForClinic(_ context.Context, clinicID, id uuid.UUID) (*CatalogItem, error) {
	it, ok := m.store[id]
	if !ok || it.ClinicID != clinicID { return nil, fmt.Errorf("not found") }
	return it, nil
}
func (m *mockItemRepo) Update(_ context.Context, it *CatalogItem) error {
	if _, ok := m.store[it.ID]; !ok { return fmt.Errorf("not found") }; m.store[it.ID] = it; return nil
}
func (m *mockItemRepo) SetActive(_ context.Context, clinicID, id uuid.UUID, active bool) error {
	it, ok := m.store[id]
	if !ok || it.ClinicID != clinicID { return fmt.Errorf("not found") }
	it.IsActive = active
	return nil
}
func (m *mockItemRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	it, ok := m.store[id]
	if !ok || it.ClinicID != clinicID { return pgx.ErrNoRows }
	delete(m.store, id)
	return nil
}
func (m *mockItemRepo) ListByClinic(_ context.Context, clinicID uuid.UUID, contentType string, limit, offset int) ([]*CatalogItem, int, error) {
	var r []*CatalogItem
	for _, it := range m.store {
		if it.ClinicID == clinicID && (contentType == "" || it.ContentType == contentType) { r = append(r, it) }
	}
	return r, len(r), nil
}
func (m *mockItemRepo) ListActiveByType(_ context.Context, clinicID uuid.UUID, contentType string) ([]*CatalogItem, error) {
	var r []*CatalogItem
	for _, it := range m.store {
		if it.ClinicID == clinicID && it.ContentType == contentType && it.IsActive { r = append(r, it) }
	}
	return r, nil
}
func (m *mockItemRepo) SyncFromTemplates(ctx context.Context, clinicID uuid.UUID) (int, error) {
	present := make(map[uuid.UUID]bool)
	for _, it := range m.store {
		if it.ClinicID == clinicID && it.TemplateID != nil { present[*it.TemplateID] = true }
	}
	synced := 0
	for _, t := range m.templates.store {
		if !t.IsActive || present[t.ID] { continue }
		tid := t.ID
		it := &CatalogItem{
			ID: uuid.New(), ClinicID: clinicID, TemplateID: &tid, ContentType: t.ContentType,
			Category: t.Category, Title: t.Title, Description: t.Description,
			ValidFromDay: t.ValidFromDay, ValidUntilDay: t.ValidUntilDay,
			SortOrder: t.SortOrder, IsActive: true,
		}
		m.store[it.ID] = it
		synced++
	}
	return synced, nil
}
func (m *mockItemRepo) Reorder(_ context.Context, clinicID uuid.UUID, ids []uuid.UUID) (int, error) {
	moved := 0
	for pos, id := range ids {
		if it, ok := m.store[id]; ok && it.ClinicID == clinicID { it.SortOrder = pos; moved++ }
	}
	return moved, nil
}

func newTestService() (*Service, *mockTemplateRepo, *mockItemRepo) {
	templates := newMockTemplateRepo()
	items := newMockItemRepo(templates)
	return NewService(templates, items), templates, items
}

func seedTemplate(t *testing.T, svc *Service, contentType, title string) *ContentTemplate {
	t.Helper()
	tmpl := &ContentTemplate{ContentType: contentType, Category: "normal", Title: title}
	if err := svc.CreateTemplate(context.Background(), tmpl); err != nil { t.Fatalf("seed template: %v", err) }
	return tmpl
}

func TestCreateTemplate_InvalidType(t *testing.T) {
	svc, _, _ := newTestService()
	tmpl := &ContentTemplate{ContentType: "meal-plan", Category: "normal", Title: "X"}
	if err := svc.CreateTemplate(context.Background(), tmpl); err == nil { t.Fatal("expected error") }
}

func TestCreateTemplate_InvalidDayWindow(t *testing.T) {
	svc, _, _ := newTestService()
	from, until := 10, 5
	tmpl := &ContentTemplate{ContentType: TypeExercise, Category: "normal", Title: "X", ValidFromDay: &from, ValidUntilDay: &until}
	if err := svc.CreateTemplate(context.Background(), tmpl); err == nil {
		t.Fatal("expected window ending before it starts to be rejected")
	}
	neg := -1
	tmpl = &ContentTemplate{ContentType: TypeExercise, Category: "normal", Title: "X", ValidFromDay: &neg}
	if err := svc.CreateTemplate(context.Background(), tmpl); err == nil {
		t.Fatal("expected negative valid_from_day to be rejected")
	}
}

func TestCreateItem_ForcesCustom(t *testing.T) {
	svc, _, _ := newTestService()
	tid := uuid.New()
	it := &CatalogItem{ClinicID: uuid.New(), TemplateID: &tid, ContentType: TypeMedication, Category: "normal", Title: "Dipirona"}
	if err := svc.CreateItem(context.Background(), it); err != nil { t.Fatalf("unexpected error: %v", err) }
	if !it.IsCustom || it.TemplateID != nil {
		t.Error("expected directly created item to be custom with no template lineage")
	}
	if !it.IsActive { t.Error("expected new item to be active") }
}

func TestSyncTemplates_CopiesMissingOnly(t *testing.T) {
	svc, _, _ := newTestService()
	clinicID := uuid.New()
	seedTemplate(t, svc, TypeExercise, "Walk 10 minutes")
	seedTemplate(t, svc, TypeWarning, "Fever above 38C")

	synced, err := svc.SyncTemplates(context.Background(), clinicID)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if synced != 2 { t.Fatalf("expected 2 synced, got %d", synced) }

	// Second run finds nothing new.
	synced, err = svc.SyncTemplates(context.Background(), clinicID)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if synced != 0 { t.Errorf("expected idempotent re-sync, got %d", synced) }

	seedTemplate(t, svc, TypeInfo, "Sleep on your back")
	synced, _ = svc.SyncTemplates(context.Background(), clinicID)
	if synced != 1 { t.Errorf("expected only the new template to sync, got %d", synced) }
}

func TestSyncTemplates_SkipsInactive(t *testing.T) {
	svc, _, _ := newTestService()
	tmpl := seedTemplate(t, svc, TypeExercise, "Walk 10 minutes")
	if _, err := svc.ToggleTemplate(context.Background(), tmpl.ID); err != nil { t.Fatalf("toggle: %v", err) }

	synced, err := svc.SyncTemplates(context.Background(), uuid.New())
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if synced != 0 { t.Errorf("expected inactive template to be skipped, got %d", synced) }
}

func TestSyncTemplates_PreservesClinicEdits(t *testing.T) {
	svc, _, items := newTestService()
	clinicID := uuid.New()
	seedTemplate(t, svc, TypeExercise, "Walk 10 minutes")
	svc.SyncTemplates(context.Background(), clinicID)

	var copied *CatalogItem
	for _, it := range items.store { copied = it }
	copied.Title = "Walk 20 minutes"

	svc.SyncTemplates(context.Background(), clinicID)
	if len(items.store) != 1 { t.Fatalf("expected 1 item, got %d", len(items.store)) }
	for _, it := range items.store {
		if it.Title != "Walk 20 minutes" { t.Errorf("expected clinic edit to survive re-sync, got %q", it.Title) }
	}
}

func TestSyncTemplates_CopiesTemplateOrder(t *testing.T) {
	svc, _, items := newTestService()
	clinicID := uuid.New()

	// Clinic already has custom items occupying the low positions.
	for _, title := range []string{"Custom A", "Custom B"} {
		it := &CatalogItem{ClinicID: clinicID, ContentType: TypeExercise, Category: "normal", Title: title}
		if err := svc.CreateItem(context.Background(), it); err != nil { t.Fatalf("create: %v", err) }
	}

	tmpl := seedTemplate(t, svc, TypeExercise, "Walk 10 minutes")
	if _, err := svc.SyncTemplates(context.Background(), clinicID); err != nil { t.Fatalf("sync: %v", err) }

	for _, it := range items.store {
		if it.TemplateID == nil { continue }
		if it.SortOrder != tmpl.SortOrder {
			t.Errorf("expected copied item to keep template sort order %d, got %d", tmpl.SortOrder, it.SortOrder)
		}
	}
}

func TestDeleteTemplate_Unknown(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.DeleteTemplate(context.Background(), uuid.New()); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for unknown template, got %v", err)
	}
}

func TestDeleteItem_WrongClinic(t *testing.T) {
	svc, _, _ := newTestService()
	it := &CatalogItem{ClinicID: uuid.New(), ContentType: TypeInfo, Category: "info", Title: "X"}
	if err := svc.CreateItem(context.Background(), it); err != nil { t.Fatalf("create: %v", err) }

	if err := svc.DeleteItem(context.Background(), uuid.New(), it.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for another clinic's item, got %v", err)
	}
	if err := svc.DeleteItem(context.Background(), it.ClinicID, it.ID); err != nil {
		t.Fatalf("unexpected error deleting own item: %v", err)
	}
}

func TestToggleItem_Flips(t *testing.T) {
	svc, _, _ := newTestService()
	it := &CatalogItem{ClinicID: uuid.New(), ContentType: TypeInfo, Category: "info", Title: "X"}
	if err := svc.CreateItem(context.Background(), it); err != nil { t.Fatalf("create: %v", err) }

	toggled, err := svc.ToggleItem(context.Background(), it.ClinicID, it.ID)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if toggled.IsActive { t.Error("expected item to be inactive after toggle") }

	toggled, _ = svc.ToggleItem(context.Background(), it.ClinicID, it.ID)
	if !toggled.IsActive { t.Error("expected item to be active after second toggle") }
}

func TestToggleItem_WrongClinic(t *testing.T) {
	svc, _, _ := newTestService()
	it := &CatalogItem{ClinicID: uuid.New(), ContentType: TypeInfo, Category: "info", Title: "X"}
	svc.CreateItem(context.Background(), it)
	if _, err := svc.ToggleItem(context.Background(), uuid.New(), it.ID); err == nil {
		t.Fatal("expected error toggling another clinic's item")
	}
}

func TestReorderItems_SkipsForeignIDs(t *testing.T) {
	svc, _, _ := newTestService()
	clinicID := uuid.New()
	a := &CatalogItem{ClinicID: clinicID, ContentType: TypeExercise, Category: "normal", Title: "A"}
	b := &CatalogItem{ClinicID: clinicID, ContentType: TypeExercise, Category: "normal", Title: "B"}
	svc.CreateItem(context.Background(), a)
	svc.CreateItem(context.Background(), b)

	other := &CatalogItem{ClinicID: uuid.New(), ContentType: TypeExercise, Category: "normal", Title: "C"}
	svc.CreateItem(context.Background(), other)

	moved, err := svc.ReorderItems(context.Background(), clinicID, []uuid.UUID{b.ID, other.ID, a.ID, uuid.New()})
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if moved != 2 { t.Errorf("expected 2 moved, got %d", moved) }
	if b.SortOrder != 0 || a.SortOrder != 2 {
		t.Errorf("expected positions from request order, got b=%d a=%d", b.SortOrder, a.SortOrder)
	}
	if other.SortOrder != 0 { t.Errorf("expected foreign item untouched, got %d", other.SortOrder) }
}

func TestReorderItems_EmptyRequest(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ReorderItems(context.Background(), uuid.New(), nil); err == nil { t.Fatal("expected error") }
}

func TestListActiveItems_InvalidType(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ListActiveItems(context.Background(), uuid.New(), "bogus"); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateItem_KeepsLineage(t *testing.T) {
	svc, _, items := newTestService()
	clinicID := uuid.New()
	seedTemplate(t, svc, TypeExercise, "Walk 10 minutes")
	svc.SyncTemplates(context.Background(), clinicID)

	var copied *CatalogItem
	for _, it := range items.store { copied = it }

	update := &CatalogItem{ID: copied.ID, ClinicID: clinicID, ContentType: TypeWarning, Category: "normal", Title: "Walk 20 minutes", IsActive: true, IsCustom: true}
	if err := svc.UpdateItem(context.Background(), update); err != nil { t.Fatalf("unexpected error: %v", err) }
	if update.ContentType != TypeExercise { t.Errorf("expected content type to be immutable, got %s", update.ContentType) }
	if update.IsCustom { t.Error("expected template lineage to survive update") }
	if update.TemplateID == nil { t.Error("expected template id to survive update") }
}
