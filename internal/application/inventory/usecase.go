package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/sedes-inventario/internal/domain/inventory"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

// LedgerUseCase mantiene el kardex: aplica movimientos con bloqueo de fila (SELECT FOR UPDATE)
// sobre el stock y deja en cada movimiento el saldo resultante.
type LedgerUseCase struct {
	txRunner TxRunner
	repos    repository.Repos
	now      Clock
}

// NewLedgerUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewLedgerUseCase(txRunner TxRunner, repos repository.Repos) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, repos: repos, now: time.Now}
}

// SetClock reemplaza la fuente de hora.
func (uc *LedgerUseCase) SetClock(now Clock) {
	uc.now = now
}

// MovementInput entrada para construir un movimiento.
// UnitCost nil usa el costo estándar del producto.
type MovementInput struct {
	ProductID   string
	WarehouseID string
	Location    string
	Kind        string
	Quantity    int64
	UnitCost    *decimal.Decimal
	Reference   string
	ActorID     string
}

// NewMovement arma el movimiento y calcula su costo antes de aplicarlo.
func NewMovement(product *entity.Product, in MovementInput) (*entity.MovementRecord, error) {
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := domaininv.ValidateMovement(in.Kind, in.Quantity); err != nil {
		return nil, err
	}
	unitCost := product.StandardCost
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.NewValidationError("unit_cost", "el costo unitario no puede ser negativo")
		}
		unitCost = *in.UnitCost
	}
	return &entity.MovementRecord{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		WarehouseID: in.WarehouseID,
		Location:    in.Location,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		UnitCost:    unitCost,
		TotalCost:   domaininv.TotalCost(in.Quantity, unitCost),
		Reference:   in.Reference,
		ActorID:     in.ActorID,
	}, nil
}

// Apply aplica el movimiento usando los repositorios de la transacción del llamador:
// bloquea el stock, calcula la nueva cantidad, rechaza negativos, persiste stock y movimiento.
// Si falla, el llamador debe abortar la transacción completa.
func (uc *LedgerUseCase) Apply(ctx context.Context, repos repository.Repos, rec *entity.MovementRecord) error {
	stock, err := repos.Stock.GetForUpdate(ctx, rec.ProductID, rec.WarehouseID)
	if err != nil {
		return err
	}
	next, err := domaininv.ApplyDelta(stock.Quantity, rec)
	if err != nil {
		return err
	}
	now := uc.now()
	stock.Quantity = next
	stock.UpdatedAt = now
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.BalanceAfter = next
	return repos.Movements.Create(ctx, rec)
}

// RegisterMovement registra un movimiento suelto (ajuste o corrección) en su propia transacción.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*entity.MovementRecord, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.NewValidationError("product_id", "producto y bodega son obligatorios")
	}
	var out *entity.MovementRecord
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		warehouse, err := repos.Warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.ErrNotFound
		}
		if !warehouse.Active {
			return domain.NewValidationError("warehouse_id", "la bodega %s está inactiva", warehouse.Name)
		}
		rec, err := NewMovement(product, in)
		if err != nil {
			return err
		}
		if err := uc.Apply(ctx, repos, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Kardex historial de movimientos de un producto en una bodega, más reciente primero.
func (uc *LedgerUseCase) Kardex(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error) {
	return uc.repos.Movements.ListByProductWarehouse(ctx, productID, warehouseID, limit, offset)
}

// LedgerCheck resultado de verificar el kardex contra el stock.
type LedgerCheck struct {
	ProductID   string
	WarehouseID string
	Replayed    int64
	Stock       int64
	Movements   int
}

// VerifyLedger reconstruye el saldo desde el historial y lo compara con el stock actual.
// Devuelve ConflictError si no coinciden.
func (uc *LedgerUseCase) VerifyLedger(ctx context.Context, productID, warehouseID string) (*LedgerCheck, error) {
	history, err := uc.repos.Movements.ListForReplay(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	stock, err := uc.repos.Stock.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	check := &LedgerCheck{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Replayed:    domaininv.Replay(history),
		Movements:   len(history),
	}
	if stock != nil {
		check.Stock = stock.Quantity
	}
	if check.Replayed != check.Stock {
		return check, domain.NewConflictError("stock", "el kardex suma %d pero el stock es %d", check.Replayed, check.Stock)
	}
	return check, nil
}

// StockItem stock de un producto en una bodega con su umbral mínimo.
type StockItem struct {
	Product      *entity.Product
	Quantity     int64
	BelowMinimum bool
	UpdatedAt    time.Time
}

// ListStock stock por producto en una bodega, marcando los que están bajo el mínimo.
func (uc *LedgerUseCase) ListStock(ctx context.Context, warehouseID string) ([]StockItem, error) {
	levels, err := uc.repos.Stock.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]StockItem, 0, len(levels))
	for _, lvl := range levels {
		product, err := uc.repos.Products.GetByID(ctx, lvl.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue
		}
		items = append(items, StockItem{
			Product:      product,
			Quantity:     lvl.Quantity,
			BelowMinimum: lvl.Quantity < product.MinStock,
			UpdatedAt:    lvl.UpdatedAt,
		})
	}
	return items, nil
}
