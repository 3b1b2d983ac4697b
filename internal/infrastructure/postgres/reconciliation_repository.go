package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

var _ repository.ReconciliationRepository = (*ReconciliationRepo)(nil)

const (
	reconciliationsTable   = "reconciliation_records"
	reconciliationLogTable = "reconciliation_log"
)

var recordColumns = []string{
	"id", "week", "year", "warehouse_id", "product_id", "opening_stock", "closing_stock",
	"delivered", "used", "returned", "wasted", "variance", "status", "actor_id", "notes", "created_at",
}

type recordRow struct {
	ID           string    `db:"id"`
	Week         int       `db:"week"`
	Year         int       `db:"year"`
	WarehouseID  string    `db:"warehouse_id"`
	ProductID    string    `db:"product_id"`
	OpeningStock int64     `db:"opening_stock"`
	ClosingStock int64     `db:"closing_stock"`
	Delivered    int64     `db:"delivered"`
	Used         int64     `db:"used"`
	Returned     int64     `db:"returned"`
	Wasted       int64     `db:"wasted"`
	Variance     int64     `db:"variance"`
	Status       string    `db:"status"`
	ActorID      string    `db:"actor_id"`
	Notes        string    `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
}

type summaryRow struct {
	TotalProducts          int   `db:"total_products"`
	ProductsWithDifference int   `db:"products_with_difference"`
	TotalOpeningStock      int64 `db:"total_opening_stock"`
	TotalClosingStock      int64 `db:"total_closing_stock"`
	TotalDelivered         int64 `db:"total_delivered"`
	TotalUsed              int64 `db:"total_used"`
	TotalReturned          int64 `db:"total_returned"`
	TotalWasted            int64 `db:"total_wasted"`
	TotalVariance          int64 `db:"total_variance"`
}

type logRow struct {
	ID                 string    `db:"id"`
	Kind               string    `db:"kind"`
	Week               int       `db:"week"`
	Year               int       `db:"year"`
	WarehouseID        string    `db:"warehouse_id"`
	ActorID            string    `db:"actor_id"`
	Description        string    `db:"description"`
	ProductsProcessed  int       `db:"products_processed"`
	DiscrepanciesFound int       `db:"discrepancies_found"`
	CreatedAt          time.Time `db:"created_at"`
}

// ReconciliationRepo liquidaciones semanales y su bitácora sobre PostgreSQL.
type ReconciliationRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewReconciliationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReconciliationRepository(q Querier) *ReconciliationRepo {
	return &ReconciliationRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateRecords inserta todas las filas de una ejecución en una sola sentencia.
// El índice único (semana, año, bodega, producto) rechaza una segunda ejecución.
func (r *ReconciliationRepo) CreateRecords(ctx context.Context, records []*entity.ReconciliationRecord) error {
	if len(records) == 0 {
		return nil
	}
	q := r.builder.Insert(reconciliationsTable).Columns(recordColumns...)
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		q = q.Values(
			rec.ID, rec.Week, rec.Year, rec.WarehouseID, rec.ProductID, rec.OpeningStock, rec.ClosingStock,
			rec.Delivered, rec.Used, rec.Returned, rec.Wasted, rec.Variance, rec.Status, rec.ActorID,
			rec.Notes, rec.CreatedAt,
		)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert records: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			first := records[0]
			return domain.NewConflictError("reconciliation", "la semana %d/%d ya fue liquidada para la bodega %s",
				first.Week, first.Year, first.WarehouseID)
		}
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

// Exists indica si la bodega ya tiene liquidación para la semana.
func (r *ReconciliationRepo) Exists(ctx context.Context, week, year int, warehouseID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM `+reconciliationsTable+` WHERE week = $1 AND year = $2 AND warehouse_id = $3)`,
		week, year, warehouseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("reconciliation exists: %w", err)
	}
	return exists, nil
}

func applyRecordFilter(q squirrel.SelectBuilder, f entity.ReconciliationFilter) squirrel.SelectBuilder {
	if f.Week > 0 {
		q = q.Where(squirrel.Eq{"week": f.Week})
	}
	if f.Year > 0 {
		q = q.Where(squirrel.Eq{"year": f.Year})
	}
	if f.WarehouseID != "" {
		q = q.Where(squirrel.Eq{"warehouse_id": f.WarehouseID})
	}
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	return q
}

// List filas filtradas, por año, semana, bodega y producto.
func (r *ReconciliationRepo) List(ctx context.Context, filter entity.ReconciliationFilter) ([]*entity.ReconciliationRecord, error) {
	q := applyRecordFilter(r.builder.Select(recordColumns...).From(reconciliationsTable), filter).
		OrderBy("year DESC", "week DESC", "warehouse_id", "product_id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list records: %w", err)
	}
	var rows []recordRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]*entity.ReconciliationRecord, 0, len(rows))
	for _, row := range rows {
		rec := entity.ReconciliationRecord(row)
		out = append(out, &rec)
	}
	return out, nil
}

// Summary agrega las filas filtradas.
func (r *ReconciliationRepo) Summary(ctx context.Context, filter entity.ReconciliationFilter) (*entity.ReconciliationSummary, error) {
	q := applyRecordFilter(r.builder.Select(
		"COUNT(*) AS total_products",
		"COUNT(*) FILTER (WHERE variance <> 0) AS products_with_difference",
		"COALESCE(SUM(opening_stock), 0) AS total_opening_stock",
		"COALESCE(SUM(closing_stock), 0) AS total_closing_stock",
		"COALESCE(SUM(delivered), 0) AS total_delivered",
		"COALESCE(SUM(used), 0) AS total_used",
		"COALESCE(SUM(returned), 0) AS total_returned",
		"COALESCE(SUM(wasted), 0) AS total_wasted",
		"COALESCE(SUM(variance), 0) AS total_variance",
	).From(reconciliationsTable), filter)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}
	var row summaryRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		return nil, fmt.Errorf("reconciliation summary: %w", err)
	}
	return &entity.ReconciliationSummary{
		TotalProducts:          row.TotalProducts,
		ProductsWithDifference: row.ProductsWithDifference,
		TotalOpeningStock:      row.TotalOpeningStock,
		TotalClosingStock:      row.TotalClosingStock,
		TotalDelivered:         row.TotalDelivered,
		TotalUsed:              row.TotalUsed,
		TotalReturned:          row.TotalReturned,
		TotalWasted:            row.TotalWasted,
		TotalVariance:          row.TotalVariance,
	}, nil
}

// AppendLog agrega una entrada a la bitácora.
func (r *ReconciliationRepo) AppendLog(ctx context.Context, entry *entity.ReconciliationLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	sql, args, err := r.builder.
		Insert(reconciliationLogTable).
		Columns("id", "kind", "week", "year", "warehouse_id", "actor_id", "description",
			"products_processed", "discrepancies_found", "created_at").
		Values(entry.ID, entry.Kind, entry.Week, entry.Year, entry.WarehouseID, entry.ActorID,
			entry.Description, entry.ProductsProcessed, entry.DiscrepanciesFound, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert log: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert reconciliation log: %w", err)
	}
	return nil
}

// ListLogs últimas entradas de la bitácora, más recientes primero.
func (r *ReconciliationRepo) ListLogs(ctx context.Context, limit int) ([]*entity.ReconciliationLogEntry, error) {
	q := r.builder.
		Select("id", "kind", "week", "year", "warehouse_id", "actor_id", "description",
			"products_processed", "discrepancies_found", "created_at").
		From(reconciliationLogTable).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list logs: %w", err)
	}
	var rows []logRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list reconciliation logs: %w", err)
	}
	out := make([]*entity.ReconciliationLogEntry, 0, len(rows))
	for _, row := range rows {
		e := entity.ReconciliationLogEntry(row)
		out = append(out, &e)
	}
	return out, nil
}
