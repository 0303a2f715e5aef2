package followup

import (
	"context"

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

type adjustmentRepoPG struct{ pool *pgxpool.Pool }

func NewAdjustmentRepoPG(pool *pgxpool.Pool) AdjustmentRepository {
	return &adjustmentRepoPG{pool: pool}
}

func (r *adjustmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const adjustmentCols = `id, patient_id, adjustment_type, base_item_id, content_type, category,
	title, description, valid_from_day, valid_until_day, reason, is_active, created_at, updated_at`

func (r *adjustmentRepoPG) scanAdjustment(row pgx.Row) (*Adjustment, error) {
	var a Adjustment
	err := row.Scan(&a.ID, &a.PatientID, &a.AdjustmentType, &a.BaseItemID, &a.ContentType,
		&a.Category, &a.Title, &a.Description, &a.ValidFromDay, &a.ValidUntilDay,
		&a.Reason, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *adjustmentRepoPG) Create(ctx context.Context, a *Adjustment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_adjustments (id, patient_id, adjustment_type, base_item_id,
			content_type, category, title, description, valid_from_day, valid_until_day,
			reason, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.PatientID, a.AdjustmentType, a.BaseItemID,
		a.ContentType, a.Category, a.Title, a.Description, a.ValidFromDay, a.ValidUntilDay,
		a.Reason, a.IsActive)
	return err
}

func (r *adjustmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Adjustment, error) {
	return r.scanAdjustment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+adjustmentCols+` FROM patient_adjustments WHERE id = $1`, id))
}

func (r *adjustmentRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patient_adjustments SET is_active=$2, updated_at=NOW() WHERE id = $1`, id, active)
	return err
}

func (r *adjustmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_adjustments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adjustmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Adjustment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_adjustments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+adjustmentCols+` FROM patient_adjustments
		WHERE patient_id = $1
		ORDER BY created_at LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Adjustment
	for rows.Next() {
		a, err := r.scanAdjustment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *adjustmentRepoPG) ListActiveForType(ctx context.Context, patientID uuid.UUID, contentType string) ([]*Adjustment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.patient_id, a.adjustment_type, a.base_item_id, a.content_type, a.category,
			a.title, a.description, a.valid_from_day, a.valid_until_day, a.reason, a.is_active,
			a.created_at, a.updated_at
		FROM patient_adjustments a
		LEFT JOIN catalog_items ci ON ci.id = a.base_item_id
		WHERE a.patient_id = $1 AND a.is_active = TRUE
			AND ((a.adjustment_type = 'add' AND a.content_type = $2)
				OR (a.adjustment_type IN ('disable','modify') AND ci.content_type = $2))
		ORDER BY a.created_at`,
		patientID, contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Adjustment
	for rows.Next() {
		a, err := r.scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}
