package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, warehouse_id, location, kind, quantity, unit_cost, total_cost,
	reference, actor_id, balance_after, created_at`

// MovementRepo kardex sobre PostgreSQL. La columna seq (bigserial) fija el orden de aplicación.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Location, &m.Kind, &m.Quantity,
		&m.UnitCost, &m.TotalCost, &m.Reference, &m.ActorID, &m.BalanceAfter, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MovementRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.MovementRecord) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, warehouse_id, location, kind, quantity, unit_cost, total_cost,
			reference, actor_id, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.WarehouseID, movement.Location, movement.Kind,
		movement.Quantity, movement.UnitCost, movement.TotalCost, movement.Reference, movement.ActorID,
		movement.BalanceAfter, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByProductWarehouse kardex más reciente primero.
func (r *MovementRepo) ListByProductWarehouse(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY seq DESC LIMIT $3 OFFSET $4`,
		productID, warehouseID, limit, offset,
	)
}

// ListForReplay kardex completo en orden de aplicación.
func (r *MovementRepo) ListForReplay(ctx context.Context, productID, warehouseID string) ([]*entity.MovementRecord, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY seq`,
		productID, warehouseID,
	)
}

// LastBefore último movimiento registrado antes del instante dado.
func (r *MovementRepo) LastBefore(ctx context.Context, productID, warehouseID string, before time.Time) (*entity.MovementRecord, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements WHERE product_id = $1 AND warehouse_id = $2 AND created_at < $3
		ORDER BY seq DESC LIMIT 1`,
		productID, warehouseID, before,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last movement before: %w", err)
	}
	return m, nil
}

// ProductsWithMovements productos distintos con movimientos en [from, to).
func (r *MovementRepo) ProductsWithMovements(ctx context.Context, warehouseID string, from, to time.Time) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT product_id FROM stock_movements
		WHERE warehouse_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY product_id`,
		warehouseID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("products with movements: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
