package document_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/internal/application/document"
	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/application/sequence"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

var fixedNow = time.Date(2026, time.January, 28, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	engine *document.EngineUseCase
	ledger *inventory.LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	for _, w := range []*entity.Warehouse{
		{ID: "central", Name: "Central", NameKey: "central", Kind: entity.WarehouseKindCentral, Active: true},
		{ID: "norte", Name: "Norte", NameKey: "norte", Kind: entity.WarehouseKindSecondary, Active: true},
		{ID: "sur", Name: "Sur", NameKey: "sur", Kind: entity.WarehouseKindSecondary, Active: true},
	} {
		require.NoError(t, repos.Warehouses.Create(ctx, w))
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "cable", Name: "Cable UTP", InternalCode: "TC-ALM-000001", Unit: "m",
		StandardCost: decimal.RequireFromString("2.50"), Active: true,
	}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "conector", Name: "Conector RJ45", InternalCode: "TC-ALM-000002", Unit: "und",
		StandardCost: decimal.RequireFromString("0.40"), Active: true,
	}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{
		ID: "almacen-norte", Email: "norte@sedes.test", Role: entity.RoleAlmacen, WarehouseID: "norte", Status: "active",
	}))

	ledger := inventory.NewLedgerUseCase(store, repos)
	ledger.SetClock(func() time.Time { return fixedNow })
	engine := document.NewEngineUseCase(store, repos, ledger, sequence.NewGenerator(), logger.NewNop())
	engine.SetClock(func() time.Time { return fixedNow })
	return &fixture{store: store, engine: engine, ledger: ledger}
}

// confirmed crea, llena y confirma un documento de movimiento.
func (f *fixture) confirmed(t *testing.T, docType, warehouseID, destinationID, productID string, qty int64) *entity.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: docType, WarehouseID: warehouseID, DestinationWarehouseID: destinationID})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, doc.ID, productID, qty, "")
	require.NoError(t, err)
	doc, err = f.engine.ConfirmMovementDocument(ctx, doc.ID, "u1")
	require.NoError(t, err)
	return doc
}

func (f *fixture) stock(t *testing.T, productID, warehouseID string) int64 {
	t.Helper()
	l, err := f.store.Repos().Stock.Get(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	if l == nil {
		return 0
	}
	return l.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación y kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_IngresoYSalidas_RechazaStockNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ing := f.confirmed(t, entity.DocumentTypeReceipt, "norte", "", "cable", 100)
	assert.Equal(t, "ING-0000000001", ing.Number)
	assert.Equal(t, entity.DocumentStateConfirmed, ing.State)

	sal := f.confirmed(t, entity.DocumentTypeDispatch, "norte", "", "cable", 30)
	assert.Equal(t, "SAL-0000000001", sal.Number)
	assert.Equal(t, int64(70), f.stock(t, "cable", "norte"))

	draft, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeDispatch, WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, draft.ID, "cable", 80, "")
	require.NoError(t, err)

	_, err = f.engine.ConfirmMovementDocument(ctx, draft.ID, "u1")
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(70), stockErr.Available)
	assert.Equal(t, int64(80), stockErr.Requested)

	assert.Equal(t, int64(70), f.stock(t, "cable", "norte"), "el stock no cambia")
	got, err := f.engine.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStateDraft, got.State)
	assert.Empty(t, got.Number, "el número no se consume")

	kardex, err := f.ledger.Kardex(ctx, "cable", "norte", 10, 0)
	require.NoError(t, err)
	require.Len(t, kardex, 2)
	assert.Equal(t, "SAL-0000000001", kardex[0].Reference)
	assert.Equal(t, int64(70), kardex[0].BalanceAfter)
	assert.Equal(t, int64(100), kardex[1].BalanceAfter)
	assert.True(t, decimal.RequireFromString("75").Equal(kardex[0].TotalCost))

	check, err := f.ledger.VerifyLedger(ctx, "cable", "norte")
	require.NoError(t, err)
	assert.Equal(t, check.Stock, check.Replayed)
}

func TestConfirm_SinLineasEsValidationError(t *testing.T) {
	f := newFixture(t)
	doc, err := f.engine.CreateDraft(context.Background(), document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeWaste, WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.ConfirmMovementDocument(context.Background(), doc.ID, "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfirm_RequerimientoNoSeConfirma(t *testing.T) {
	f := newFixture(t)
	req, err := f.engine.CreateDraftRequisition(context.Background(), document.RequisitionInput{ActorID: "u1", WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.ConfirmMovementDocument(context.Background(), req.ID, "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVoidDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeWaste, WarehouseID: "norte"})
	require.NoError(t, err)

	voided, err := f.engine.VoidDraft(ctx, doc.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStateVoided, voided.State)

	_, err = f.engine.ConfirmMovementDocument(ctx, doc.ID, "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.engine.AddLine(ctx, doc.ID, "cable", 1, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados entre sedes
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_TrasladoDesdeCentralGeneraUnSoloIngreso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmed(t, entity.DocumentTypeReceipt, "central", "", "cable", 50)

	sal := f.confirmed(t, entity.DocumentTypeDispatch, "central", "norte", "cable", 20)
	assert.Equal(t, int64(30), f.stock(t, "cable", "central"))
	assert.Equal(t, int64(0), f.stock(t, "cable", "norte"), "el destino recibe al confirmar el ingreso")

	receipts, err := f.engine.List(ctx, entity.DocumentFilter{Type: entity.DocumentTypeReceipt, WarehouseID: "norte"})
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	ing := receipts[0]
	assert.Equal(t, entity.DocumentStateDraft, ing.State)
	assert.Equal(t, sal.ID, ing.OriginDocumentID)
	assert.Equal(t, "almacen-norte", ing.RequesterID)
	assert.Contains(t, ing.Notes, sal.Number)
	require.Len(t, ing.Lines, 1)
	assert.Equal(t, int64(20), ing.Lines[0].Quantity)

	again, err := f.engine.EnsureTransferReceipt(ctx, sal.ID)
	require.NoError(t, err)
	assert.Equal(t, ing.ID, again.ID)

	_, err = f.engine.ConfirmMovementDocument(ctx, ing.ID, "almacen-norte")
	require.NoError(t, err)
	assert.Equal(t, int64(20), f.stock(t, "cable", "norte"))

	dispatch, err := f.engine.Get(ctx, sal.ID)
	require.NoError(t, err)
	assert.True(t, dispatch.Received)
	assert.Equal(t, "almacen-norte", dispatch.ReceivedBy)
	require.NotNil(t, dispatch.ReceivedAt)
}

func TestConfirm_SedeSecundariaNoDespachaAOtraSede(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmed(t, entity.DocumentTypeReceipt, "norte", "", "cable", 10)

	doc, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeDispatch, WarehouseID: "norte", DestinationWarehouseID: "sur"})
	require.NoError(t, err, "la regla se evalúa al confirmar")
	_, err = f.engine.AddLine(ctx, doc.ID, "cable", 5, "")
	require.NoError(t, err)

	_, err = f.engine.ConfirmMovementDocument(ctx, doc.ID, "u1")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "destination_warehouse_id", vErr.Field)
	assert.Equal(t, int64(10), f.stock(t, "cable", "norte"))
}

func TestConfirm_SoloLaCentralActivaDespachaAOtraSede(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repos := f.store.Repos()
	f.confirmed(t, entity.DocumentTypeReceipt, "central", "", "cable", 10)

	doc, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeDispatch, WarehouseID: "central", DestinationWarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, doc.ID, "cable", 5, "")
	require.NoError(t, err)

	old, err := repos.Warehouses.GetByID(ctx, "central")
	require.NoError(t, err)
	old.Active = false
	require.NoError(t, repos.Warehouses.Update(ctx, old))

	_, err = f.engine.ConfirmMovementDocument(ctx, doc.ID, "u1")
	require.ErrorIs(t, err, domain.ErrConfiguration, "sin CENTRAL activa no hay traslados")

	sur, err := repos.Warehouses.GetByID(ctx, "sur")
	require.NoError(t, err)
	sur.Kind = entity.WarehouseKindCentral
	require.NoError(t, repos.Warehouses.Update(ctx, sur))

	_, err = f.engine.ConfirmMovementDocument(ctx, doc.ID, "u1")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr, "la antigua CENTRAL ya no despacha")
	assert.Equal(t, "destination_warehouse_id", vErr.Field)
	assert.Equal(t, int64(10), f.stock(t, "cable", "central"))

	got, err := f.engine.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStateDraft, got.State)
}

func TestConfirm_VariasLineasSinStockEnLaSegundaNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmed(t, entity.DocumentTypeReceipt, "norte", "", "cable", 10)
	f.confirmed(t, entity.DocumentTypeReceipt, "norte", "", "conector", 2)

	draft, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeDispatch, WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, draft.ID, "cable", 4, "")
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, draft.ID, "conector", 5, "")
	require.NoError(t, err)
	commits := f.store.Commits()

	_, err = f.engine.ConfirmMovementDocument(ctx, draft.ID, "u1")
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "conector", stockErr.ProductID)
	assert.Equal(t, commits, f.store.Commits(), "la transacción no se publica")

	assert.Equal(t, int64(10), f.stock(t, "cable", "norte"), "la primera línea se revierte")
	assert.Equal(t, int64(2), f.stock(t, "conector", "norte"))
	kardex, err := f.ledger.Kardex(ctx, "cable", "norte", 10, 0)
	require.NoError(t, err)
	assert.Len(t, kardex, 1, "solo el ingreso")

	got, err := f.engine.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStateDraft, got.State)
	assert.Empty(t, got.Number)

	sal := f.confirmed(t, entity.DocumentTypeDispatch, "norte", "", "cable", 1)
	assert.Equal(t, "SAL-0000000001", sal.Number, "el número abortado se reutiliza")
}

func TestCreateDraft_DestinoSoloEnSalidas(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.CreateDraft(context.Background(), document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeReceipt, WarehouseID: "norte", DestinationWarehouseID: "central"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Requerimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRequerimiento_FlujoCompletoHastaFulfilled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmed(t, entity.DocumentTypeReceipt, "central", "", "conector", 200)

	req, err := f.engine.CreateDraftRequisition(ctx, document.RequisitionInput{
		ActorID: "almacen-norte", WarehouseID: "norte",
		Kind: entity.RequisitionKindInterSite, DestinationWarehouseID: "central",
	})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, req.ID, "conector", 40, "")
	require.NoError(t, err)

	req, err = f.engine.SubmitRequisition(ctx, req.ID, "almacen-norte")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatePending, req.State)
	assert.Equal(t, "REQ-0000000001", req.Number)

	sal, err := f.engine.ConvertToDispatch(ctx, req.ID, "almacen-central", "central")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStateDraft, sal.State)
	assert.Equal(t, "central", sal.WarehouseID)
	assert.Equal(t, "norte", sal.DestinationWarehouseID)
	assert.Equal(t, req.ID, sal.OriginDocumentID)

	same, err := f.engine.ConvertToDispatch(ctx, req.ID, "almacen-central", "central")
	require.NoError(t, err)
	assert.Equal(t, sal.ID, same.ID, "convertir dos veces devuelve la misma salida")

	_, err = f.engine.ConfirmMovementDocument(ctx, sal.ID, "almacen-central")
	require.NoError(t, err)

	req, err = f.engine.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStateFulfilled, req.State)
	assert.Equal(t, int64(160), f.stock(t, "conector", "central"))

	receipts, err := f.engine.List(ctx, entity.DocumentFilter{Type: entity.DocumentTypeReceipt, WarehouseID: "norte"})
	require.NoError(t, err)
	assert.Len(t, receipts, 1)
}

func TestConvertToDispatch_ConcurrenteGeneraUnaSolaSalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.engine.CreateDraftRequisition(ctx, document.RequisitionInput{ActorID: "almacen-norte", WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, req.ID, "cable", 3, "")
	require.NoError(t, err)
	_, err = f.engine.SubmitRequisition(ctx, req.ID, "almacen-norte")
	require.NoError(t, err)

	const workers = 20
	ids := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sal, err := f.engine.ConvertToDispatch(ctx, req.ID, "almacen-central", "central")
			errs[i] = err
			if sal != nil {
				ids[i] = sal.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	dispatches, err := f.engine.List(ctx, entity.DocumentFilter{Type: entity.DocumentTypeDispatch, WarehouseID: "central"})
	require.NoError(t, err)
	require.Len(t, dispatches, 1)
	assert.Equal(t, req.ID, dispatches[0].OriginDocumentID)
}

func TestRequerimiento_EnviarSinLineasFalla(t *testing.T) {
	f := newFixture(t)
	req, err := f.engine.CreateDraftRequisition(context.Background(), document.RequisitionInput{ActorID: "u1", WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.SubmitRequisition(context.Background(), req.ID, "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRequerimiento_Rechazo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.engine.CreateDraftRequisition(ctx, document.RequisitionInput{ActorID: "u1", WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, req.ID, "cable", 3, "")
	require.NoError(t, err)
	_, err = f.engine.SubmitRequisition(ctx, req.ID, "u1")
	require.NoError(t, err)

	rejected, err := f.engine.RejectRequisition(ctx, req.ID, "jefa", "sin presupuesto")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStateRejected, rejected.State)
	assert.Contains(t, rejected.Notes, "sin presupuesto")

	_, err = f.engine.ConvertToDispatch(ctx, req.ID, "u2", "central")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRequerimiento_SupplierFueraDeCentralFalla(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.CreateDraftRequisition(context.Background(), document.RequisitionInput{
		ActorID: "u1", WarehouseID: "norte", Kind: entity.RequisitionKindSupplier, Supplier: "Proveedor SA",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyRequisitionDefaults_AlmacenSecundario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.engine.CreateDraftRequisition(ctx, document.RequisitionInput{ActorID: "almacen-norte", WarehouseID: "norte"})
	require.NoError(t, err)

	got, err := f.engine.ApplyRequisitionDefaults(ctx, req.ID, entity.RoleAlmacen, "norte")
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionKindInterSite, got.RequisitionKind)
	assert.Equal(t, "central", got.DestinationWarehouseID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLine_MismoProductoSumaCantidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, err := f.engine.CreateDraft(ctx, document.DraftInput{ActorID: "u1", Type: entity.DocumentTypeReceipt, WarehouseID: "norte"})
	require.NoError(t, err)
	_, err = f.engine.AddLine(ctx, doc.ID, "cable", 5, "")
	require.NoError(t, err)
	doc, err = f.engine.AddLine(ctx, doc.ID, "cable", 7, "")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, int64(12), doc.Lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("2.50").Equal(doc.Lines[0].UnitCost))

	doc, err = f.engine.SetLineQty(ctx, doc.ID, "cable", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc.Lines[0].Quantity)

	_, err = f.engine.SetLineQty(ctx, doc.ID, "cable", 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	doc, err = f.engine.RemoveLine(ctx, doc.ID, "cable")
	require.NoError(t, err)
	assert.Empty(t, doc.Lines)
}

func TestSetLineLiquidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmed(t, entity.DocumentTypeReceipt, "norte", "", "cable", 50)
	sal := f.confirmed(t, entity.DocumentTypeDispatch, "norte", "", "cable", 10)

	doc, err := f.engine.SetLineLiquidation(ctx, sal.ID, "cable", document.LiquidationInput{Returned: 2, Wasted: 1, Used: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(10), doc.Lines[0].Liquidated())

	_, err = f.engine.SetLineLiquidation(ctx, sal.ID, "cable", document.LiquidationInput{Returned: 5, Wasted: 5, Used: 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
