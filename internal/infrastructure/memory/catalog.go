package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/catalog"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

type warehouseRepo struct{ b backend }

// checkWarehouse replica los índices únicos: nombre normalizado y una sola CENTRAL activa.
func checkWarehouse(st *state, w *entity.Warehouse) error {
	for id, other := range st.warehouses {
		if id == w.ID {
			continue
		}
		if other.NameKey == w.NameKey {
			return domain.NewConflictError("warehouse", "ya existe una bodega llamada %q", other.Name)
		}
		if w.Active && w.IsCentral() && other.Active && other.IsCentral() {
			return domain.NewConflictError("warehouse", "ya existe una sede CENTRAL activa (%s)", other.Name)
		}
	}
	return nil
}

func (r warehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	return r.b.do(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.NewConflictError("warehouse", "id duplicado %s", w.ID)
		}
		if err := checkWarehouse(st, w); err != nil {
			return err
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r warehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.b.do(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r warehouseRepo) GetByNameKey(ctx context.Context, nameKey string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.b.do(func(st *state) error {
		for _, w := range st.warehouses {
			if w.NameKey == nameKey {
				w := w
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r warehouseRepo) GetActiveCentral(ctx context.Context) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.b.do(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Active && w.IsCentral() {
				w := w
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r warehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	return r.b.do(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := checkWarehouse(st, w); err != nil {
			return err
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r warehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.b.do(func(st *state) error {
		all := make([]*entity.Warehouse, 0, len(st.warehouses))
		for _, w := range st.warehouses {
			w := w
			all = append(all, &w)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

type productRepo struct{ b backend }

func checkProduct(st *state, p *entity.Product) error {
	for id, other := range st.products {
		if id == p.ID {
			continue
		}
		if other.InternalCode == p.InternalCode {
			return domain.NewConflictError("product", "el código interno %s ya existe", p.InternalCode)
		}
		if p.Barcode != "" && other.Barcode == p.Barcode {
			return domain.NewConflictError("product", "el código de barras %s ya existe", p.Barcode)
		}
	}
	return nil
}

func (r productRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.b.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.NewConflictError("product", "id duplicado %s", p.ID)
		}
		if err := checkProduct(st, p); err != nil {
			return err
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r productRepo) find(match func(p entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.do(func(st *state) error {
		for _, p := range st.products {
			if match(p) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r productRepo) GetByInternalCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return p.InternalCode == code })
}

func (r productRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.find(func(p entity.Product) bool { return p.Barcode == barcode })
}

func (r productRepo) MaxInternalCode(ctx context.Context, prefix string) (string, error) {
	maxCode, maxN := "", -1
	err := r.b.do(func(st *state) error {
		for _, p := range st.products {
			if n, ok := catalog.ParseInternalCode(prefix, p.InternalCode); ok && n > maxN {
				maxCode, maxN = p.InternalCode, n
			}
		}
		return nil
	})
	return maxCode, err
}

func (r productRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.b.do(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := checkProduct(st, p); err != nil {
			return err
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.b.do(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			p := p
			all = append(all, &p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].InternalCode < all[j].InternalCode })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

type userRepo struct{ b backend }

func (r userRepo) Create(ctx context.Context, u *entity.User) error {
	return r.b.do(func(st *state) error {
		email := strings.ToLower(u.Email)
		for _, other := range st.users {
			if strings.ToLower(other.Email) == email {
				return domain.NewConflictError("user", "el email %s ya está registrado", u.Email)
			}
		}
		st.users[u.ID] = *u
		st.userOrder = append(st.userOrder, u.ID)
		return nil
	})
}

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.b.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.b.do(func(st *state) error {
		for _, id := range st.userOrder {
			if u := st.users[id]; strings.EqualFold(u.Email, email) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) FindKeeperByWarehouse(ctx context.Context, warehouseID string) (*entity.User, error) {
	var out *entity.User
	err := r.b.do(func(st *state) error {
		for _, id := range st.userOrder {
			u := st.users[id]
			if u.WarehouseID == warehouseID && u.Role == entity.RoleAlmacen && u.Status == "active" {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](all []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
