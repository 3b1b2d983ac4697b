package reconciliation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/internal/application/document"
	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/application/reconciliation"
	"github.com/jhoicas/sedes-inventario/internal/application/sequence"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

// Semana ISO 5 de 2026: lunes 26 de enero a lunes 2 de febrero.
var (
	beforePeriod = time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC)
	inPeriod     = time.Date(2026, time.January, 27, 9, 0, 0, 0, time.UTC)
	laterInWeek  = time.Date(2026, time.January, 29, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	store  *memory.Store
	engine *document.EngineUseCase
	uc     *reconciliation.UseCase
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore(), now: beforePeriod}
	repos := f.store.Repos()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "central", Name: "Central", NameKey: "central", Kind: entity.WarehouseKindCentral, Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "norte", Name: "Norte", NameKey: "norte", Kind: entity.WarehouseKindSecondary, Active: true}))
	for _, p := range []*entity.Product{
		{ID: "cable", Name: "Cable", InternalCode: "TC-ALM-000001", StandardCost: decimal.NewFromInt(1), Active: true},
		{ID: "grapa", Name: "Grapa", InternalCode: "TC-ALM-000002", StandardCost: decimal.NewFromInt(1), Active: true},
	} {
		require.NoError(t, repos.Products.Create(ctx, p))
	}

	clock := func() time.Time { return f.now }
	ledger := inventory.NewLedgerUseCase(f.store, repos)
	ledger.SetClock(clock)
	f.engine = document.NewEngineUseCase(f.store, repos, ledger, sequence.NewGenerator(), logger.NewNop())
	f.engine.SetClock(clock)
	f.uc = reconciliation.NewUseCase(f.store, repos, logger.NewNop(), time.UTC, decimal.Zero)
	f.uc.SetClock(clock)
	return f
}

func (f *fixture) confirm(t *testing.T, at time.Time, docType, warehouseID, destinationID, productID string, qty int64) *entity.Document {
	t.Helper()
	ctx := context.Background()
	f.now = at
	doc, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: docType, WarehouseID: warehouseID, DestinationWarehouseID: destinationID, Date: at})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, doc.ID, productID, qty, "")
	require.NoError(t, err)
	doc, err = f.engine.ConfirmMovementDocument(ctx, doc.ID, "u1")
	require.NoError(t, err)
	return doc
}

func byProduct(records []*entity.ReconciliationRecord) map[string]*entity.ReconciliationRecord {
	out := make(map[string]*entity.ReconciliationRecord, len(records))
	for _, r := range records {
		out[r.ProductID] = r
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Liquidación por sede
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileWarehouse_CalculaVarianzaPorProducto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.confirm(t, beforePeriod, entity.DocumentTypeReceipt, "norte", "", "cable", 100)
	f.confirm(t, beforePeriod, entity.DocumentTypeReceipt, "norte", "", "grapa", 10)

	sal := f.confirm(t, inPeriod, entity.DocumentTypeDispatch, "norte", "", "cable", 30)
	_, err := f.engine.SetLineLiquidation(ctx, sal.ID, "cable", document.LiquidationInput{Used: 25, Returned: 5})
	require.NoError(t, err)
	f.confirm(t, laterInWeek, entity.DocumentTypeReceipt, "norte", "", "cable", 5)
	f.confirm(t, laterInWeek, entity.DocumentTypeWaste, "norte", "", "grapa", 4)

	res, err := f.uc.ReconcileWarehouse(ctx, reconciliation.RunInput{WarehouseID: "norte", Week: 5, Year: 2026, ActorID: "jefa"})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Discrepancies)

	rows := byProduct(res.Records)
	cable := rows["cable"]
	assert.Equal(t, int64(100), cable.OpeningStock)
	assert.Equal(t, int64(75), cable.ClosingStock)
	assert.Equal(t, int64(30), cable.Delivered)
	assert.Equal(t, int64(25), cable.Used)
	assert.Equal(t, int64(5), cable.Returned)
	assert.Equal(t, int64(0), cable.Variance)
	assert.Equal(t, entity.ReconciliationConsistent, cable.Status)
	assert.True(t, decimal.NewFromInt(25).Equal(cable.UsedPercentage()))

	grapa := rows["grapa"]
	assert.Equal(t, int64(4), grapa.Variance, "la merma sin entrega descuadra")
	assert.Equal(t, entity.ReconciliationInconsistent, grapa.Status)
	assert.Equal(t, entity.DifferenceSurplus, grapa.DifferenceKind())

	logs, err := f.uc.Logs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ReconciliationLogWarehouse, logs[0].Kind)
	assert.Equal(t, 2, logs[0].ProductsProcessed)
	assert.Equal(t, 1, logs[0].DiscrepanciesFound)
}

func TestReconcileWarehouse_EjemploConDevolucionSinReingreso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirm(t, beforePeriod, entity.DocumentTypeReceipt, "norte", "", "cable", 100)
	sal := f.confirm(t, inPeriod, entity.DocumentTypeDispatch, "norte", "", "cable", 30)
	_, err := f.engine.SetLineLiquidation(ctx, sal.ID, "cable", document.LiquidationInput{Used: 20, Returned: 5, Wasted: 5})
	require.NoError(t, err)

	res, err := f.uc.ReconcileWarehouse(ctx, reconciliation.RunInput{WarehouseID: "norte", Week: 5, Year: 2026})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	// (100 - 70) - (30 - 5) = 5
	assert.Equal(t, int64(5), res.Records[0].Variance)
	assert.Equal(t, entity.ReconciliationInconsistent, res.Records[0].Status)
}

func TestReconcileWarehouse_SegundaEjecucionEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirm(t, inPeriod, entity.DocumentTypeReceipt, "norte", "", "cable", 10)

	in := reconciliation.RunInput{WarehouseID: "norte", Week: 5, Year: 2026}
	_, err := f.uc.ReconcileWarehouse(ctx, in)
	require.NoError(t, err)
	_, err = f.uc.ReconcileWarehouse(ctx, in)
	var cErr *domain.ConflictError
	require.ErrorAs(t, err, &cErr)

	rows, err := f.uc.List(ctx, entity.ReconciliationFilter{Week: 5, Year: 2026, WarehouseID: "norte"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReconcileWarehouse_ErrorDeBitacoraNoRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirm(t, inPeriod, entity.DocumentTypeReceipt, "norte", "", "cable", 10)
	f.store.FailLogAppends(errors.New("disco lleno"))

	res, err := f.uc.ReconcileWarehouse(ctx, reconciliation.RunInput{WarehouseID: "norte", Week: 5, Year: 2026})
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)

	f.store.FailLogAppends(nil)
	logs, err := f.uc.Logs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestReconcileWarehouse_PeriodoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.ReconcileWarehouse(context.Background(), reconciliation.RunInput{WarehouseID: "norte", Week: 53, Year: 2025})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.ReconcileWarehouse(context.Background(), reconciliation.RunInput{WarehouseID: "nada", Week: 5, Year: 2026})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación de la CENTRAL
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileCentral_SinLiquidacionDeSedeQuedaEnRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirm(t, beforePeriod, entity.DocumentTypeReceipt, "central", "", "cable", 200)
	f.confirm(t, inPeriod, entity.DocumentTypeDispatch, "central", "norte", "cable", 50)

	res, err := f.uc.ReconcileCentral(ctx, reconciliation.RunInput{Week: 5, Year: 2026, ActorID: "jefa"})
	require.NoError(t, err)
	assert.Equal(t, "central", res.WarehouseID)
	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(0), res.Records[0].Variance)
	assert.Equal(t, entity.ReconciliationNeedsReview, res.Records[0].Status)
	assert.Equal(t, 1, res.Discrepancies)

	logs, err := f.uc.Logs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ReconciliationLogCentral, logs[0].Kind)
}

func TestReconcileCentral_VarianzaDeSedeMarcaInconsistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirm(t, beforePeriod, entity.DocumentTypeReceipt, "central", "", "cable", 200)
	f.confirm(t, inPeriod, entity.DocumentTypeDispatch, "central", "norte", "cable", 50)

	receipts, err := f.engine.List(ctx, entity.DocumentFilter{Type: entity.DocumentTypeReceipt, WarehouseID: "norte"})
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	f.now = laterInWeek
	_, err = f.engine.ConfirmMovementDocument(ctx, receipts[0].ID, "u2")
	require.NoError(t, err)

	_, err = f.uc.ReconcileWarehouse(ctx, reconciliation.RunInput{WarehouseID: "norte", Week: 5, Year: 2026})
	require.NoError(t, err)

	res, err := f.uc.ReconcileCentral(ctx, reconciliation.RunInput{Week: 5, Year: 2026})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, entity.ReconciliationInconsistent, res.Records[0].Status)

	_, err = f.uc.ReconcileCentral(ctx, reconciliation.RunInput{Week: 5, Year: 2026})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestReconcileCentral_SinCentralEsErrorDeConfiguracion(t *testing.T) {
	store := memory.NewStore()
	uc := reconciliation.NewUseCase(store, store.Repos(), logger.NewNop(), nil, decimal.Zero)
	_, err := uc.ReconcileCentral(context.Background(), reconciliation.RunInput{Week: 5, Year: 2026})
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen y periodo
// ──────────────────────────────────────────────────────────────────────────────

func TestGetResumen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.uc.GetResumen(ctx, 5, 2026, "")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalProducts)
	assert.Equal(t, entity.OverallPerfect, empty.OverallState)

	f.confirm(t, beforePeriod, entity.DocumentTypeReceipt, "norte", "", "cable", 100)
	f.confirm(t, beforePeriod, entity.DocumentTypeReceipt, "norte", "", "grapa", 10)
	f.confirm(t, inPeriod, entity.DocumentTypeWaste, "norte", "", "grapa", 1)
	_, err = f.uc.ReconcileWarehouse(ctx, reconciliation.RunInput{WarehouseID: "norte", Week: 5, Year: 2026})
	require.NoError(t, err)

	sum, err := f.uc.GetResumen(ctx, 5, 2026, "norte")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalProducts)
	assert.Equal(t, 1, sum.ProductsWithDifference)
	assert.Equal(t, int64(110), sum.TotalOpeningStock)
	assert.Equal(t, int64(109), sum.TotalClosingStock)
	assert.Equal(t, int64(1), sum.TotalVariance)
	assert.True(t, decimal.NewFromInt(50).Equal(sum.DifferencePercentage))
	assert.Equal(t, entity.OverallReview, sum.OverallState)
}

func TestDefaultPeriod(t *testing.T) {
	f := newFixture(t)
	monday := time.Date(2026, time.February, 2, 12, 0, 0, 0, time.UTC)
	p := f.uc.DefaultPeriod(monday)
	assert.Equal(t, 5, p.Week)
	assert.Equal(t, 2026, p.Year)
	assert.True(t, p.IsWindow)
	assert.Equal(t, time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC), p.From)

	wednesday := time.Date(2026, time.February, 4, 12, 0, 0, 0, time.UTC)
	assert.False(t, f.uc.DefaultPeriod(wednesday).IsWindow)
}
