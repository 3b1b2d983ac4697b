// Package reconciliation ejecuta la liquidación semanal por sede y la verificación de la CENTRAL.
package reconciliation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	domainrec "github.com/jhoicas/sedes-inventario/internal/domain/reconciliation"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

// DefaultAcceptablePercentage porcentaje de productos con diferencia tolerado en el resumen.
var DefaultAcceptablePercentage = decimal.NewFromInt(5)

// UseCase casos de uso de liquidación.
type UseCase struct {
	txRunner   inventory.TxRunner
	repos      repository.Repos
	log        *logger.Logger
	loc        *time.Location
	acceptable decimal.Decimal
	now        inventory.Clock
}

// NewUseCase construye el caso de uso. loc define el inicio de semana; acceptable cero usa el 5 %.
func NewUseCase(txRunner inventory.TxRunner, repos repository.Repos, log *logger.Logger, loc *time.Location, acceptable decimal.Decimal) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	if !acceptable.IsPositive() {
		acceptable = DefaultAcceptablePercentage
	}
	return &UseCase{
		txRunner:   txRunner,
		repos:      repos,
		log:        log.Named("reconciliation"),
		loc:        loc,
		acceptable: acceptable,
		now:        time.Now,
	}
}

// SetClock reemplaza la fuente de hora.
func (uc *UseCase) SetClock(now inventory.Clock) {
	uc.now = now
}

// RunInput parámetros de una ejecución de liquidación.
type RunInput struct {
	WarehouseID string
	Week        int
	Year        int
	ActorID     string
	Notes       string
}

// RunResult filas escritas y discrepancias encontradas.
type RunResult struct {
	Week          int
	Year          int
	WarehouseID   string
	Records       []*entity.ReconciliationRecord
	Discrepancies int
}

// PeriodInfo semana que corresponde liquidar y si hoy está abierta la ventana.
type PeriodInfo struct {
	Week     int
	Year     int
	From     time.Time
	To       time.Time
	IsWindow bool
}

// DefaultPeriod semana ISO anterior a now con sus límites.
func (uc *UseCase) DefaultPeriod(now time.Time) PeriodInfo {
	local := now.In(uc.loc)
	week, year := domainrec.PreviousWeek(local)
	from, to, _ := domainrec.WeekRange(week, year, uc.loc)
	return PeriodInfo{Week: week, Year: year, From: from, To: to, IsWindow: domainrec.IsLiquidationWindow(local)}
}

// ReconcileWarehouse liquida una sede. Rechaza una segunda ejecución del mismo periodo con
// ConflictError antes de calcular y vuelve a comprobarlo dentro de la transacción.
func (uc *UseCase) ReconcileWarehouse(ctx context.Context, in RunInput) (*RunResult, error) {
	from, to, err := domainrec.WeekRange(in.Week, in.Year, uc.loc)
	if err != nil {
		return nil, err
	}
	warehouse, err := uc.repos.Warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.NewValidationError("warehouse_id", "la bodega %s no existe", in.WarehouseID)
	}
	if err := uc.rejectDuplicate(ctx, uc.repos, in); err != nil {
		return nil, err
	}

	var records []*entity.ReconciliationRecord
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := uc.rejectDuplicate(ctx, repos, in); err != nil {
			return err
		}
		computed, err := uc.compute(ctx, repos, in, from, to)
		if err != nil {
			return err
		}
		records = computed
		return repos.Reconciliations.CreateRecords(ctx, records)
	})
	if err != nil {
		return nil, err
	}
	res := newResult(in, records)
	uc.appendLog(ctx, entity.ReconciliationLogWarehouse, in, res,
		fmt.Sprintf("Liquidación semana %d/%d de %s", in.Week, in.Year, warehouse.Name))
	return res, nil
}

// ReconcileCentral liquida la CENTRAL y cruza cada producto contra las filas de las sedes
// secundarias del mismo periodo.
func (uc *UseCase) ReconcileCentral(ctx context.Context, in RunInput) (*RunResult, error) {
	from, to, err := domainrec.WeekRange(in.Week, in.Year, uc.loc)
	if err != nil {
		return nil, err
	}
	central, err := uc.repos.Warehouses.GetActiveCentral(ctx)
	if err != nil {
		return nil, err
	}
	if central == nil {
		return nil, domain.NewConfigurationError("no hay una sede CENTRAL activa")
	}
	in.WarehouseID = central.ID
	if err := uc.rejectDuplicate(ctx, uc.repos, in); err != nil {
		return nil, err
	}

	var records []*entity.ReconciliationRecord
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := uc.rejectDuplicate(ctx, repos, in); err != nil {
			return err
		}
		computed, err := uc.compute(ctx, repos, in, from, to)
		if err != nil {
			return err
		}
		records = computed
		secondary, err := repos.Reconciliations.List(ctx, entity.ReconciliationFilter{Week: in.Week, Year: in.Year})
		if err != nil {
			return err
		}
		checks := make(map[string]*domainrec.CentralCheck, len(records))
		for _, r := range records {
			checks[r.ProductID] = &domainrec.CentralCheck{CentralVariance: r.Variance, Dispatched: r.Delivered}
		}
		for _, s := range secondary {
			if s.WarehouseID == central.ID {
				continue
			}
			if c, ok := checks[s.ProductID]; ok {
				c.SecondaryVariance += s.Variance
				c.SecondaryRecords++
			}
		}
		for _, r := range records {
			r.Status = domainrec.CentralStatus(*checks[r.ProductID])
		}
		return repos.Reconciliations.CreateRecords(ctx, records)
	})
	if err != nil {
		return nil, err
	}
	res := newResult(in, records)
	uc.appendLog(ctx, entity.ReconciliationLogCentral, in, res,
		fmt.Sprintf("Verificación central semana %d/%d", in.Week, in.Year))
	return res, nil
}

// GetResumen totales de liquidación. week, year o warehouseID en cero/vacío no filtran.
func (uc *UseCase) GetResumen(ctx context.Context, week, year int, warehouseID string) (*entity.ReconciliationSummary, error) {
	sum, err := uc.repos.Reconciliations.Summary(ctx, entity.ReconciliationFilter{Week: week, Year: year, WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}
	if sum == nil {
		sum = &entity.ReconciliationSummary{}
	}
	sum.DifferencePercentage, sum.OverallState = domainrec.OverallState(sum.ProductsWithDifference, sum.TotalProducts, uc.acceptable)
	return sum, nil
}

// List filas de liquidación con filtros.
func (uc *UseCase) List(ctx context.Context, filter entity.ReconciliationFilter) ([]*entity.ReconciliationRecord, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.repos.Reconciliations.List(ctx, filter)
}

// Logs últimas entradas de la bitácora.
func (uc *UseCase) Logs(ctx context.Context, limit int) ([]*entity.ReconciliationLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.repos.Reconciliations.ListLogs(ctx, limit)
}

func (uc *UseCase) rejectDuplicate(ctx context.Context, repos repository.Repos, in RunInput) error {
	exists, err := repos.Reconciliations.Exists(ctx, in.Week, in.Year, in.WarehouseID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflictError("reconciliation", "la semana %d/%d ya fue liquidada para la bodega %s", in.Week, in.Year, in.WarehouseID)
	}
	return nil
}

// compute arma una fila por cada producto con stock, movimientos o líneas entregadas en el periodo.
func (uc *UseCase) compute(ctx context.Context, repos repository.Repos, in RunInput, from, to time.Time) ([]*entity.ReconciliationRecord, error) {
	totals := map[string]*domainrec.Totals{}
	get := func(productID string) *domainrec.Totals {
		t, ok := totals[productID]
		if !ok {
			t = &domainrec.Totals{}
			totals[productID] = t
		}
		return t
	}

	levels, err := repos.Stock.ListByWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	for _, l := range levels {
		get(l.ProductID).Closing = l.Quantity
	}
	moved, err := repos.Movements.ProductsWithMovements(ctx, in.WarehouseID, from, to)
	if err != nil {
		return nil, err
	}
	for _, p := range moved {
		get(p)
	}
	lines, err := repos.Documents.ListConfirmedLines(ctx, in.WarehouseID, entity.DocumentTypeDispatch, from, to)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		t := get(l.ProductID)
		t.Delivered += l.Quantity
		t.Used += l.Used
		t.Returned += l.Returned
		t.Wasted += l.Wasted
	}

	productIDs := make([]string, 0, len(totals))
	for p := range totals {
		productIDs = append(productIDs, p)
	}
	sort.Strings(productIDs)

	now := uc.now()
	records := make([]*entity.ReconciliationRecord, 0, len(productIDs))
	for _, p := range productIDs {
		t := totals[p]
		last, err := repos.Movements.LastBefore(ctx, p, in.WarehouseID, from)
		if err != nil {
			return nil, err
		}
		if last != nil {
			t.Opening = last.BalanceAfter
		}
		r := domainrec.Record(in.Week, in.Year, in.WarehouseID, p, *t)
		r.ID = uuid.New().String()
		r.ActorID = in.ActorID
		r.Notes = in.Notes
		r.CreatedAt = now
		records = append(records, r)
	}
	return records, nil
}

func newResult(in RunInput, records []*entity.ReconciliationRecord) *RunResult {
	res := &RunResult{Week: in.Week, Year: in.Year, WarehouseID: in.WarehouseID, Records: records}
	for _, r := range records {
		if r.Status != entity.ReconciliationConsistent {
			res.Discrepancies++
		}
	}
	return res
}

// appendLog escribe la bitácora fuera de la transacción; un fallo aquí no revierte la liquidación.
func (uc *UseCase) appendLog(ctx context.Context, kind string, in RunInput, res *RunResult, description string) {
	entry := &entity.ReconciliationLogEntry{
		ID:                 uuid.New().String(),
		Kind:               kind,
		Week:               in.Week,
		Year:               in.Year,
		WarehouseID:        in.WarehouseID,
		ActorID:            in.ActorID,
		Description:        description,
		ProductsProcessed:  len(res.Records),
		DiscrepanciesFound: res.Discrepancies,
		CreatedAt:          uc.now(),
	}
	if err := uc.repos.Reconciliations.AppendLog(ctx, entry); err != nil {
		uc.log.Error().Err(err).Str("kind", kind).Int("week", in.Week).Int("year", in.Year).Msg("no se pudo registrar la bitácora de liquidación")
		return
	}
	uc.log.Info().Str("kind", kind).Str("warehouse", in.WarehouseID).
		Int("products", len(res.Records)).Int("discrepancies", res.Discrepancies).Msg("liquidación registrada")
}
