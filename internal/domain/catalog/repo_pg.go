package catalog

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vgsexex001/app-scheibell-sub001/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// begin starts a transaction for multi-statement work. When the request
// carries a dedicated connection it is joined via db.WithTx so the transaction
// shares it; CLI callers have no request connection and use the pool.
func begin(ctx context.Context, pool *pgxpool.Pool) (pgx.Tx, error) {
	if db.ConnFromContext(ctx) != nil && db.TxFromContext(ctx) == nil {
		tx, _, err := db.WithTx(ctx)
		return tx, err
	}
	return pool.Begin(ctx)
}

// =========== Template Repository ===========

type templateRepoPG struct{ pool *pgxpool.Pool }

func NewTemplateRepoPG(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepoPG{pool: pool}
}

func (r *templateRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const templateCols = `id, content_type, category, title, description,
	valid_from_day, valid_until_day, sort_order, is_active, created_at, updated_at`

func (r *templateRepoPG) scanTemplate(row pgx.Row) (*ContentTemplate, error) {
	var t ContentTemplate
	err := row.Scan(&t.ID, &t.ContentType, &t.Category, &t.Title, &t.Description,
		&t.ValidFromDay, &t.ValidUntilDay, &t.SortOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *templateRepoPG) Create(ctx context.Context, t *ContentTemplate) error {
	t.ID = uuid.New()
	// New templates land at the end of their content type's ordering.
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO content_templates (id, content_type, category, title, description,
			valid_from_day, valid_until_day, sort_order, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,
			COALESCE((SELECT MAX(sort_order)+1 FROM content_templates WHERE content_type=$2), 0),
			$8)
		RETURNING sort_order`,
		t.ID, t.ContentType, t.Category, t.Title, t.Description,
		t.ValidFromDay, t.ValidUntilDay, t.IsActive).Scan(&t.SortOrder)
}

func (r *templateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ContentTemplate, error) {
	return r.scanTemplate(r.conn(ctx).QueryRow(ctx, `SELECT `+templateCols+` FROM content_templates WHERE id = $1`, id))
}

func (r *templateRepoPG) Update(ctx context.Context, t *ContentTemplate) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE content_templates SET content_type=$2, category=$3, title=$4, description=$5,
			valid_from_day=$6, valid_until_day=$7, is_active=$8, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.ContentType, t.Category, t.Title, t.Description,
		t.ValidFromDay, t.ValidUntilDay, t.IsActive)
	return err
}

func (r *templateRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE content_templates SET is_active=$2, updated_at=NOW() WHERE id = $1`, id, active)
	return err
}

func (r *templateRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM content_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *templateRepoPG) List(ctx context.Context, contentType string, limit, offset int) ([]*ContentTemplate, int, error) {
	where, args := ``, []interface{}{}
	if contentType != "" {
		where = ` WHERE content_type = $1`
		args = append(args, contentType)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM content_templates`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := `SELECT ` + templateCols + ` FROM content_templates` + where +
		` ORDER BY content_type, sort_order, created_at LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ContentTemplate
	for rows.Next() {
		t, err := r.scanTemplate(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}

// Reorder rewrites sort_order to match the position of each id in orderedIDs.
// Unknown ids are skipped; the count of rows actually moved is returned.
func (r *templateRepoPG) Reorder(ctx context.Context, orderedIDs []uuid.UUID) (int, error) {
	tx, err := begin(ctx, r.pool)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	moved := 0
	for pos, id := range orderedIDs {
		tag, err := tx.Exec(ctx, `UPDATE content_templates SET sort_order=$2, updated_at=NOW() WHERE id = $1`, id, pos)
		if err != nil {
			return 0, err
		}
		moved += int(tag.RowsAffected())
	}
	return moved, tx.Commit(ctx)
}

// =========== Item Repository ===========

type itemRepoPG struct{ pool *pgxpool.Pool }

func NewItemRepoPG(pool *pgxpool.Pool) ItemRepository {
	return &itemRepoPG{pool: pool}
}

func (r *itemRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const itemCols = `id, clinic_id, template_id, content_type, category, title, description,
	valid_from_day, valid_until_day, sort_order, is_custom, is_active, created_at, updated_at`

func (r *itemRepoPG) scanItem(row pgx.Row) (*CatalogItem, error) {
	var it CatalogItem
	err := row.Scan(&it.ID, &it.ClinicID, &it.TemplateID, &it.ContentType, &it.Category,
		&it.Title, &it.Description, &it.ValidFromDay, &it.ValidUntilDay,
		&it.SortOrder, &it.IsCustom, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *itemRepoPG) Create(ctx context.Context, it *CatalogItem) error {
	it.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO catalog_items (id, clinic_id, template_id, content_type, category,
			title, description, valid_from_day, valid_until_day, sort_order, is_custom, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,
			COALESCE((SELECT MAX(sort_order)+1 FROM catalog_items WHERE clinic_id=$2 AND content_type=$4), 0),
			$10,$11)
		RETURNING sort_order`,
		it.ID, it.ClinicID, it.TemplateID, it.ContentType, it.Category,
		it.Title, it.Description, it.ValidFromDay, it.ValidUntilDay,
		it.IsCustom, it.IsActive).Scan(&it.SortOrder)
}

func (r *itemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	return r.scanItem(r.conn(ctx).QueryRow(ctx, `SELECT `+itemCols+` FROM catalog_items WHERE id = $1`, id))
}

func (r *itemRepoPG) GetForClinic(ctx context.Context, clinicID, id uuid.UUID) (*CatalogItem, error) {
	return r.scanItem(r.conn(ctx).QueryRow(ctx,
		`SELECT `+itemCols+` FROM catalog_items WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *itemRepoPG) Update(ctx context.Context, it *CatalogItem) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE catalog_items SET category=$3, title=$4, description=$5,
			valid_from_day=$6, valid_until_day=$7, is_active=$8, updated_at=NOW()
		WHERE id = $1 AND clinic_id = $2`,
		it.ID, it.ClinicID, it.Category, it.Title, it.Description,
		it.ValidFromDay, it.ValidUntilDay, it.IsActive)
	return err
}

func (r *itemRepoPG) SetActive(ctx context.Context, clinicID, id uuid.UUID, active bool) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE catalog_items SET is_active=$3, updated_at=NOW() WHERE id = $1 AND clinic_id = $2`,
		id, clinicID, active)
	return err
}

func (r *itemRepoPG) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM catalog_items WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID, contentType string, limit, offset int) ([]*CatalogItem, int, error) {
	where, args := ` WHERE clinic_id = $1`, []interface{}{clinicID}
	if contentType != "" {
		where += ` AND content_type = $2`
		args = append(args, contentType)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM catalog_items`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := `SELECT ` + itemCols + ` FROM catalog_items` + where +
		` ORDER BY content_type, sort_order, created_at LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*CatalogItem
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, nil
}

func (r *itemRepoPG) ListActiveByType(ctx context.Context, clinicID uuid.UUID, contentType string) ([]*CatalogItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+` FROM catalog_items
		WHERE clinic_id = $1 AND content_type = $2 AND is_active = TRUE
		ORDER BY sort_order, created_at`,
		clinicID, contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*CatalogItem
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// SyncFromTemplates copies every active template the clinic does not already
// have a copy of. Existing items are never overwritten or removed, so the call
// is idempotent and safe to repeat after new templates are published.
func (r *itemRepoPG) SyncFromTemplates(ctx context.Context, clinicID uuid.UUID) (int, error) {
	tx, err := begin(ctx, r.pool)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	present := make(map[uuid.UUID]bool)
	rows, err := tx.Query(ctx,
		`SELECT template_id FROM catalog_items WHERE clinic_id = $1 AND template_id IS NOT NULL`, clinicID)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		present[id] = true
	}
	rows.Close()

	tmplRows, err := tx.Query(ctx, `
		SELECT `+templateCols+` FROM content_templates
		WHERE is_active = TRUE
		ORDER BY content_type, sort_order, created_at`)
	if err != nil {
		return 0, err
	}
	var missing []*ContentTemplate
	for tmplRows.Next() {
		var t ContentTemplate
		if err := tmplRows.Scan(&t.ID, &t.ContentType, &t.Category, &t.Title, &t.Description,
			&t.ValidFromDay, &t.ValidUntilDay, &t.SortOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			tmplRows.Close()
			return 0, err
		}
		if !present[t.ID] {
			missing = append(missing, &t)
		}
	}
	tmplRows.Close()

	for _, t := range missing {
		// The template's own sort_order carries over so a late-published
		// template lands in its catalog position, not at the end.
		_, err := tx.Exec(ctx, `
			INSERT INTO catalog_items (id, clinic_id, template_id, content_type, category,
				title, description, valid_from_day, valid_until_day, sort_order, is_custom, is_active)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,FALSE,TRUE)`,
			uuid.New(), clinicID, t.ID, t.ContentType, t.Category,
			t.Title, t.Description, t.ValidFromDay, t.ValidUntilDay, t.SortOrder)
		if err != nil {
			return 0, err
		}
	}
	return len(missing), tx.Commit(ctx)
}

func (r *itemRepoPG) Reorder(ctx context.Context, clinicID uuid.UUID, orderedIDs []uuid.UUID) (int, error) {
	tx, err := begin(ctx, r.pool)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	moved := 0
	for pos, id := range orderedIDs {
		// Ids belonging to another clinic match no row and are skipped.
		tag, err := tx.Exec(ctx,
			`UPDATE catalog_items SET sort_order=$3, updated_at=NOW() WHERE id = $1 AND clinic_id = $2`,
			id, clinicID, pos)
		if err != nil {
			return 0, err
		}
		moved += int(tag.RowsAffected())
	}
	return moved, tx.Commit(ctx)
}
