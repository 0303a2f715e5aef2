package followup

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vgsexex001/app-scheibell-sub001/internal/domain/catalog"
)

func baseItem(title, category string, sortOrder int) *catalog.CatalogItem {
	return &catalog.CatalogItem{
		ID:          uuid.New(),
		ClinicID:    uuid.New(),
		ContentType: catalog.TypeExercise,
		Category:    category,
		Title:       title,
		SortOrder:   sortOrder,
		IsActive:    true,
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func titles(r *ResolvedContent) []string {
	out := make([]string, len(r.Items))
	for i, v := range r.Items {
		out[i] = v.Title
	}
	return out
}

func TestResolve_NoAdjustments(t *testing.T) {
	base := []*catalog.CatalogItem{baseItem("A", "normal", 0), baseItem("B", "normal", 1)}
	r := resolve(catalog.TypeExercise, nil, base, nil)

	if r.TotalCount != 2 || len(r.Items) != 2 {
		t.Fatalf("expected full catalog fallback, got %d items", len(r.Items))
	}
	if got := titles(r); got[0] != "A" || got[1] != "B" {
		t.Errorf("expected catalog order preserved, got %v", got)
	}
	for _, v := range r.Items {
		if v.IsModified || v.CustomReason != nil {
			t.Errorf("expected untouched item, got %+v", v)
		}
	}
}

func TestResolve_DisableHidesItem(t *testing.T) {
	a, b := baseItem("A", "normal", 0), baseItem("B", "normal", 1)
	adj := []*Adjustment{{AdjustmentType: AdjustmentDisable, BaseItemID: &a.ID, IsActive: true}}

	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a, b}, adj)
	if len(r.Items) != 1 || r.Items[0].Title != "B" {
		t.Fatalf("expected only B to survive, got %v", titles(r))
	}
}

func TestResolve_DisableDominatesModify(t *testing.T) {
	a := baseItem("A", "normal", 0)
	adj := []*Adjustment{
		{AdjustmentType: AdjustmentModify, BaseItemID: &a.ID, Title: strPtr("A renamed"), IsActive: true},
		{AdjustmentType: AdjustmentDisable, BaseItemID: &a.ID, IsActive: true},
	}

	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a}, adj)
	if len(r.Items) != 0 {
		t.Fatalf("expected disabled item to stay hidden despite modify, got %v", titles(r))
	}
}

func TestResolve_LastModifyWins(t *testing.T) {
	a := baseItem("A", "normal", 0)
	reason1, reason2 := strPtr("first"), strPtr("second")
	adj := []*Adjustment{
		{AdjustmentType: AdjustmentModify, BaseItemID: &a.ID, Title: strPtr("A v1"), Reason: reason1, IsActive: true},
		{AdjustmentType: AdjustmentModify, BaseItemID: &a.ID, Title: strPtr("A v2"), Reason: reason2, IsActive: true},
	}

	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a}, adj)
	if len(r.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(r.Items))
	}
	v := r.Items[0]
	if v.Title != "A v2" {
		t.Errorf("expected the later modify to win, got %q", v.Title)
	}
	if v.CustomReason == nil || *v.CustomReason != "second" {
		t.Errorf("expected reason from the winning modify, got %v", v.CustomReason)
	}
}

func TestResolve_ModifyWithoutOverrides(t *testing.T) {
	a := baseItem("A", "warning", 0)
	a.Description = strPtr("original")
	adj := []*Adjustment{{AdjustmentType: AdjustmentModify, BaseItemID: &a.ID, Reason: strPtr("flagged by surgeon"), IsActive: true}}

	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a}, adj)
	v := r.Items[0]
	if !v.IsModified {
		t.Error("expected is_modified even with no field overrides")
	}
	if v.Title != "A" || v.Category != "warning" || v.Description == nil || *v.Description != "original" {
		t.Errorf("expected base fields untouched, got %+v", v)
	}
	if v.CustomReason == nil || *v.CustomReason != "flagged by surgeon" {
		t.Errorf("expected reason surfaced as custom_reason, got %v", v.CustomReason)
	}
}

func TestResolve_ModifyPartialOverlay(t *testing.T) {
	a := baseItem("A", "normal", 0)
	a.Description = strPtr("original")
	adj := []*Adjustment{{AdjustmentType: AdjustmentModify, BaseItemID: &a.ID, Category: strPtr("restricted"), IsActive: true}}

	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a}, adj)
	v := r.Items[0]
	if v.Category != "restricted" {
		t.Errorf("expected category override, got %q", v.Category)
	}
	if v.Title != "A" || *v.Description != "original" {
		t.Errorf("expected unset fields to fall back to base, got %+v", v)
	}
}

func TestResolve_AddAppearsAsCustom(t *testing.T) {
	a := baseItem("A", "normal", 0)
	adj := []*Adjustment{{
		ID: uuid.New(), AdjustmentType: AdjustmentAdd,
		ContentType: strPtr(catalog.TypeExercise), Category: strPtr("normal"),
		Title: strPtr("Breathing drill"), Reason: strPtr("asthma"), IsActive: true,
	}}

	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a}, adj)
	if len(r.Items) != 2 {
		t.Fatalf("expected base plus added, got %d", len(r.Items))
	}
	v := r.Items[1]
	if !v.IsCustom || v.IsModified {
		t.Errorf("expected added entry to be custom and unmodified, got %+v", v)
	}
	if v.CustomReason == nil || *v.CustomReason != "asthma" {
		t.Errorf("expected reason carried, got %v", v.CustomReason)
	}
}

func TestResolve_AddUnaffectedByDisable(t *testing.T) {
	a := baseItem("A", "normal", 0)
	adj := []*Adjustment{
		{AdjustmentType: AdjustmentDisable, BaseItemID: &a.ID, IsActive: true},
		{ID: uuid.New(), AdjustmentType: AdjustmentAdd, ContentType: strPtr(catalog.TypeExercise),
			Category: strPtr("normal"), Title: strPtr("Added"), IsActive: true},
	}

	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a}, adj)
	if len(r.Items) != 1 || r.Items[0].Title != "Added" {
		t.Fatalf("expected only the added entry, got %v", titles(r))
	}
}

func TestResolve_DayWindowBoundaries(t *testing.T) {
	a := baseItem("A", "normal", 0)
	a.ValidFromDay = intPtr(3)
	a.ValidUntilDay = intPtr(7)
	base := []*catalog.CatalogItem{a}

	cases := []struct {
		day  int
		want int
	}{
		{2, 0}, {3, 1}, {5, 1}, {7, 1}, {8, 0},
	}
	for _, tc := range cases {
		r := resolve(catalog.TypeExercise, &tc.day, base, nil)
		if len(r.Items) != tc.want {
			t.Errorf("day %d: expected %d items, got %d", tc.day, tc.want, len(r.Items))
		}
	}
}

func TestResolve_OpenEndedWindows(t *testing.T) {
	noUpper := baseItem("no-upper", "normal", 0)
	noUpper.ValidFromDay = intPtr(5)
	noLower := baseItem("no-lower", "normal", 1)
	noLower.ValidUntilDay = intPtr(4)
	base := []*catalog.CatalogItem{noUpper, noLower}

	day := 100000
	r := resolve(catalog.TypeExercise, &day, base, nil)
	if len(r.Items) != 1 || r.Items[0].Title != "no-upper" {
		t.Errorf("expected missing upper bound to stay visible forever, got %v", titles(r))
	}

	day = 0
	r = resolve(catalog.TypeExercise, &day, base, nil)
	if len(r.Items) != 1 || r.Items[0].Title != "no-lower" {
		t.Errorf("expected missing lower bound to start at day 0, got %v", titles(r))
	}
}

func TestResolve_NoDayMeansNoFilter(t *testing.T) {
	a := baseItem("A", "normal", 0)
	a.ValidFromDay = intPtr(50)
	r := resolve(catalog.TypeExercise, nil, []*catalog.CatalogItem{a}, nil)
	if len(r.Items) != 1 {
		t.Error("expected no day filter without a day parameter")
	}
}

func TestResolve_CategoryRankOrdering(t *testing.T) {
	base := []*catalog.CatalogItem{
		baseItem("B", "warning", 0),
		baseItem("A", "normal", 1),
		baseItem("C", "emergency", 2),
		baseItem("D", "info", 3),
		baseItem("E", "exotic", 4),
	}
	r := resolve(catalog.TypeExercise, nil, base, nil)
	want := []string{"A", "B", "C", "D", "E"}
	got := titles(r)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected rank order %v, got %v", want, got)
		}
	}
}

func TestResolve_StableWithinRank(t *testing.T) {
	// allowed and normal share a rank; catalog order must decide ties.
	base := []*catalog.CatalogItem{
		baseItem("first", "allowed", 0),
		baseItem("second", "normal", 1),
		baseItem("third", "allowed", 2),
	}
	r := resolve(catalog.TypeExercise, nil, base, nil)
	want := []string{"first", "second", "third"}
	got := titles(r)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stable order %v, got %v", want, got)
		}
	}
}

func TestResolve_AddedSortsByRankAfterCatalog(t *testing.T) {
	base := []*catalog.CatalogItem{baseItem("warn-base", "warning", 0), baseItem("norm-base", "normal", 1)}
	adj := []*Adjustment{{
		ID: uuid.New(), AdjustmentType: AdjustmentAdd, ContentType: strPtr(catalog.TypeExercise),
		Category: strPtr("normal"), Title: strPtr("added-normal"), IsActive: true,
	}}

	r := resolve(catalog.TypeExercise, nil, base, adj)
	want := []string{"norm-base", "added-normal", "warn-base"}
	got := titles(r)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestResolve_EmptyResult(t *testing.T) {
	r := resolve(catalog.TypeMedication, nil, nil, nil)
	if r.TotalCount != 0 || len(r.Items) != 0 {
		t.Errorf("expected empty result, got %+v", r)
	}
	if r.Type != catalog.TypeMedication {
		t.Errorf("expected type echoed back, got %q", r.Type)
	}
}
