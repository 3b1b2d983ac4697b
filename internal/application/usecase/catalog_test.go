package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/application/usecase"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouse_UnaSolaCentralActiva(t *testing.T) {
	uc := usecase.NewWarehouseUseCase(memory.NewStore().Repos().Warehouses)
	ctx := context.Background()

	_, err := uc.GetCentral(ctx)
	require.ErrorIs(t, err, domain.ErrConfiguration)

	central, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Sede Central", Kind: entity.WarehouseKindCentral})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Otra Central", Kind: entity.WarehouseKindCentral})
	require.ErrorIs(t, err, domain.ErrConflict)

	norte, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Norte"})
	require.NoError(t, err)
	assert.Equal(t, entity.WarehouseKindSecondary, norte.Kind)
	_, err = uc.Update(ctx, norte.ID, dto.UpdateWarehouseRequest{Kind: ptr(entity.WarehouseKindCentral)})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Update(ctx, central.ID, dto.UpdateWarehouseRequest{Active: ptr(false)})
	require.NoError(t, err)
	_, err = uc.Update(ctx, norte.ID, dto.UpdateWarehouseRequest{Kind: ptr(entity.WarehouseKindCentral)})
	require.NoError(t, err)

	got, err := uc.GetCentral(ctx)
	require.NoError(t, err)
	assert.Equal(t, norte.ID, got.ID)
}

func TestWarehouse_NombreUnicoSinTildesNiMayusculas(t *testing.T) {
	uc := usecase.NewWarehouseUseCase(memory.NewStore().Repos().Warehouses)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Sede Pérez"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Name: "  sede   PEREZ "})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.GetByID(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CodigoInternoAutomatico(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Repos().Products, "")
	ctx := context.Background()

	next, err := uc.NextInternalCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TC-ALM-000001", next.Code)

	p1, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Cable", StandardCost: decimal.RequireFromString("2.5")})
	require.NoError(t, err)
	assert.Equal(t, "TC-ALM-000001", p1.InternalCode)
	assert.Equal(t, usecase.DefaultUnit, p1.Unit)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Manual", InternalCode: "tc-alm-000040"})
	require.NoError(t, err)

	p3, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Grapa"})
	require.NoError(t, err)
	assert.Equal(t, "TC-ALM-000041", p3.InternalCode)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Repetido", InternalCode: "TC-ALM-000040"})
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Mal", InternalCode: "XX-1"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_CodigoDeBarras(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Repos().Products, "TC-ALM")
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Cable", Barcode: " abc-1234 "})
	require.NoError(t, err)
	assert.Equal(t, "ABC-1234", p.Barcode)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Otro", Barcode: "ABC-1234"})
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Corto", Barcode: "AB"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Negativo", StandardCost: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{MinStock: ptr(int64(10)), Active: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.MinStock)
	assert.False(t, updated.Active)
}
