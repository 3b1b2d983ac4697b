package memory

import (
	"context"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

type reconciliationRepo struct{ b backend }

func matchRecord(f entity.ReconciliationFilter, r entity.ReconciliationRecord) bool {
	return (f.Week == 0 || r.Week == f.Week) &&
		(f.Year == 0 || r.Year == f.Year) &&
		(f.WarehouseID == "" || r.WarehouseID == f.WarehouseID) &&
		(f.ProductID == "" || r.ProductID == f.ProductID)
}

func (r reconciliationRepo) CreateRecords(ctx context.Context, records []*entity.ReconciliationRecord) error {
	return r.b.do(func(st *state) error {
		for _, rec := range records {
			for _, other := range st.records {
				if other.Week == rec.Week && other.Year == rec.Year && other.WarehouseID == rec.WarehouseID && other.ProductID == rec.ProductID {
					return domain.NewConflictError("reconciliation", "la semana %d/%d ya fue liquidada para la bodega %s", rec.Week, rec.Year, rec.WarehouseID)
				}
			}
			st.records = append(st.records, *rec)
		}
		return nil
	})
}

func (r reconciliationRepo) Exists(ctx context.Context, week, year int, warehouseID string) (bool, error) {
	found := false
	err := r.b.do(func(st *state) error {
		for _, rec := range st.records {
			if rec.Week == week && rec.Year == year && rec.WarehouseID == warehouseID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r reconciliationRepo) List(ctx context.Context, f entity.ReconciliationFilter) ([]*entity.ReconciliationRecord, error) {
	var out []*entity.ReconciliationRecord
	err := r.b.do(func(st *state) error {
		var all []*entity.ReconciliationRecord
		for _, rec := range st.records {
			if matchRecord(f, rec) {
				rec := rec
				all = append(all, &rec)
			}
		}
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r reconciliationRepo) Summary(ctx context.Context, f entity.ReconciliationFilter) (*entity.ReconciliationSummary, error) {
	sum := &entity.ReconciliationSummary{}
	err := r.b.do(func(st *state) error {
		for _, rec := range st.records {
			if !matchRecord(f, rec) {
				continue
			}
			sum.TotalProducts++
			if rec.Variance != 0 {
				sum.ProductsWithDifference++
			}
			sum.TotalOpeningStock += rec.OpeningStock
			sum.TotalClosingStock += rec.ClosingStock
			sum.TotalDelivered += rec.Delivered
			sum.TotalUsed += rec.Used
			sum.TotalReturned += rec.Returned
			sum.TotalWasted += rec.Wasted
			sum.TotalVariance += rec.Variance
		}
		return nil
	})
	return sum, err
}

func (r reconciliationRepo) AppendLog(ctx context.Context, entry *entity.ReconciliationLogEntry) error {
	return r.b.do(func(st *state) error {
		if r.b.tx == nil && r.b.store.logErr != nil {
			return r.b.store.logErr
		}
		st.logs = append(st.logs, *entry)
		return nil
	})
}

func (r reconciliationRepo) ListLogs(ctx context.Context, limit int) ([]*entity.ReconciliationLogEntry, error) {
	var out []*entity.ReconciliationLogEntry
	err := r.b.do(func(st *state) error {
		for i := len(st.logs) - 1; i >= 0; i-- {
			e := st.logs[i]
			out = append(out, &e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}
