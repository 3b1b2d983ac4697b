package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/memory"
)

func newLedger(t *testing.T) (*inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "norte", Name: "Norte", NameKey: "norte", Kind: entity.WarehouseKindSecondary, Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "cerrada", Name: "Cerrada", NameKey: "cerrada", Kind: entity.WarehouseKindSecondary}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "cinta", Name: "Cinta aislante", InternalCode: "TC-ALM-000010", StandardCost: decimal.RequireFromString("1.25"), MinStock: 20, Active: true,
	}))
	uc := inventory.NewLedgerUseCase(store, repos)
	uc.SetClock(func() time.Time { return time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC) })
	return uc, store
}

func TestRegisterMovement_EntradaSalidaYAjuste(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	in, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "norte", Kind: entity.MovementKindIN, Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(40), in.BalanceAfter)
	assert.True(t, decimal.RequireFromString("50").Equal(in.TotalCost), "usa el costo estándar")

	cost := decimal.RequireFromString("2")
	out, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "norte", Kind: entity.MovementKindOUT, Quantity: 15, UnitCost: &cost})
	require.NoError(t, err)
	assert.Equal(t, int64(25), out.BalanceAfter)
	assert.True(t, decimal.RequireFromString("30").Equal(out.TotalCost))

	adj, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "norte", Kind: entity.MovementKindADJUST, Quantity: -10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), adj.BalanceAfter)

	items, err := uc.ListStock(ctx, "norte")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(15), items[0].Quantity)
	assert.True(t, items[0].BelowMinimum)

	check, err := uc.VerifyLedger(ctx, "cinta", "norte")
	require.NoError(t, err)
	assert.Equal(t, 3, check.Movements)
	assert.Equal(t, int64(15), check.Replayed)
}

func TestRegisterMovement_StockNegativoNoDejaRastro(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "norte", Kind: entity.MovementKindOUT, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	kardex, err := uc.Kardex(ctx, "cinta", "norte", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, kardex)
	assert.Equal(t, 0, store.Commits())
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "cerrada", Kind: entity.MovementKindIN, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "bodega inactiva")

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "nada", WarehouseID: "norte", Kind: entity.MovementKindIN, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "norte", Kind: entity.MovementKindIN, Quantity: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := decimal.RequireFromString("-1")
	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "norte", Kind: entity.MovementKindIN, Quantity: 1, UnitCost: &neg})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVerifyLedger_DetectaDescuadre(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{ProductID: "cinta", WarehouseID: "norte", Kind: entity.MovementKindIN, Quantity: 5})
	require.NoError(t, err)

	require.NoError(t, store.Repos().Stock.Upsert(ctx, &entity.StockLevel{ProductID: "cinta", WarehouseID: "norte", Quantity: 9}))

	check, err := uc.VerifyLedger(ctx, "cinta", "norte")
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(5), check.Replayed)
	assert.Equal(t, int64(9), check.Stock)
}
