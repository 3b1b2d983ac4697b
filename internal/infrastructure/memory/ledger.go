package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

type stockRepo struct{ b backend }

func (r stockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.b.do(func(st *state) error {
		if l, ok := st.stock[stockKey{productID, warehouseID}]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de Run el candado global ya serializa; fuera de Run equivale a Get.
// Si no hay fila devuelve un nivel en cero.
func (r stockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	out := &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}
	err := r.b.do(func(st *state) error {
		if l, ok := st.stock[stockKey{productID, warehouseID}]; ok {
			*out = l
		}
		return nil
	})
	return out, err
}

func (r stockRepo) Upsert(ctx context.Context, l *entity.StockLevel) error {
	return r.b.do(func(st *state) error {
		if l.Quantity < 0 {
			return &domain.InsufficientStockError{ProductID: l.ProductID, WarehouseID: l.WarehouseID, Available: 0, Requested: -l.Quantity}
		}
		st.stock[stockKey{l.ProductID, l.WarehouseID}] = *l
		return nil
	})
}

func (r stockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	err := r.b.do(func(st *state) error {
		for k, l := range st.stock {
			if k.warehouseID == warehouseID {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, err
}

type movementRepo struct{ b backend }

func (r movementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	return r.b.do(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r movementRepo) ListByProductWarehouse(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	err := r.b.do(func(st *state) error {
		var all []*entity.MovementRecord
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.ProductID == productID && m.WarehouseID == warehouseID {
				all = append(all, &m)
			}
		}
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r movementRepo) ListForReplay(ctx context.Context, productID, warehouseID string) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	err := r.b.do(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID && m.WarehouseID == warehouseID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r movementRepo) LastBefore(ctx context.Context, productID, warehouseID string, before time.Time) (*entity.MovementRecord, error) {
	var out *entity.MovementRecord
	err := r.b.do(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.ProductID == productID && m.WarehouseID == warehouseID && m.CreatedAt.Before(before) {
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r movementRepo) ProductsWithMovements(ctx context.Context, warehouseID string, from, to time.Time) ([]string, error) {
	var out []string
	err := r.b.do(func(st *state) error {
		seen := map[string]bool{}
		for _, m := range st.movements {
			if m.WarehouseID != warehouseID || m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
				continue
			}
			if !seen[m.ProductID] {
				seen[m.ProductID] = true
				out = append(out, m.ProductID)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

type sequenceRepo struct{ b backend }

func (r sequenceRepo) Increment(ctx context.Context, docType string) (int64, error) {
	var n int64
	err := r.b.do(func(st *state) error {
		st.sequences[docType]++
		n = st.sequences[docType]
		return nil
	})
	return n, err
}
