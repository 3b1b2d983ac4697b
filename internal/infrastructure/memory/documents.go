package memory

import (
	"context"
	"time"

	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

type documentRepo struct{ b backend }

func copyDocument(d entity.Document) *entity.Document {
	d.Lines = append([]entity.DocumentLine(nil), d.Lines...)
	return &d
}

func checkNumber(st *state, d *entity.Document) error {
	if d.Number == "" {
		return nil
	}
	for id, other := range st.documents {
		if id != d.ID && other.Number == d.Number {
			return domain.NewConflictError("document", "el número %s ya está asignado", d.Number)
		}
	}
	return nil
}

func (r documentRepo) Create(ctx context.Context, d *entity.Document) error {
	return r.b.do(func(st *state) error {
		if _, ok := st.documents[d.ID]; ok {
			return domain.NewConflictError("document", "id duplicado %s", d.ID)
		}
		if err := checkNumber(st, d); err != nil {
			return err
		}
		st.documents[d.ID] = *copyDocument(*d)
		st.docOrder = append(st.docOrder, d.ID)
		return nil
	})
}

func (r documentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	var out *entity.Document
	err := r.b.do(func(st *state) error {
		if d, ok := st.documents[id]; ok {
			out = copyDocument(d)
		}
		return nil
	})
	return out, err
}

func (r documentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

// Update persiste solo la cabecera; las líneas se manejan con AddLine/UpdateLine/DeleteLine.
func (r documentRepo) Update(ctx context.Context, d *entity.Document) error {
	return r.b.do(func(st *state) error {
		cur, ok := st.documents[d.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkNumber(st, d); err != nil {
			return err
		}
		next := *d
		next.Lines = cur.Lines
		st.documents[d.ID] = next
		return nil
	})
}

func (r documentRepo) List(ctx context.Context, f entity.DocumentFilter) ([]*entity.Document, error) {
	var out []*entity.Document
	err := r.b.do(func(st *state) error {
		var all []*entity.Document
		for i := len(st.docOrder) - 1; i >= 0; i-- {
			d := st.documents[st.docOrder[i]]
			if f.Type != "" && d.Type != f.Type ||
				f.State != "" && d.State != f.State ||
				f.WarehouseID != "" && d.WarehouseID != f.WarehouseID ||
				f.RequesterID != "" && d.RequesterID != f.RequesterID {
				continue
			}
			all = append(all, copyDocument(d))
		}
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r documentRepo) FindByOrigin(ctx context.Context, originID, docType, docState string) (*entity.Document, error) {
	var out *entity.Document
	err := r.b.do(func(st *state) error {
		for _, id := range st.docOrder {
			d := st.documents[id]
			if d.OriginDocumentID == originID && d.Type == docType && (docState == "" || d.State == docState) {
				out = copyDocument(d)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r documentRepo) AddLine(ctx context.Context, line *entity.DocumentLine) error {
	return r.b.do(func(st *state) error {
		d, ok := st.documents[line.DocumentID]
		if !ok {
			return domain.ErrNotFound
		}
		for _, l := range d.Lines {
			if l.ProductID == line.ProductID {
				return domain.NewConflictError("document_line", "el producto %s ya está en el documento", line.ProductID)
			}
		}
		d.Lines = append(append([]entity.DocumentLine(nil), d.Lines...), *line)
		st.documents[d.ID] = d
		return nil
	})
}

func (r documentRepo) UpdateLine(ctx context.Context, line *entity.DocumentLine) error {
	return r.b.do(func(st *state) error {
		d, ok := st.documents[line.DocumentID]
		if !ok {
			return domain.ErrNotFound
		}
		lines := append([]entity.DocumentLine(nil), d.Lines...)
		for i := range lines {
			if lines[i].ID == line.ID {
				lines[i] = *line
				d.Lines = lines
				st.documents[d.ID] = d
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r documentRepo) DeleteLine(ctx context.Context, lineID string) error {
	return r.b.do(func(st *state) error {
		for id, d := range st.documents {
			for i, l := range d.Lines {
				if l.ID != lineID {
					continue
				}
				lines := append([]entity.DocumentLine(nil), d.Lines[:i]...)
				d.Lines = append(lines, d.Lines[i+1:]...)
				st.documents[id] = d
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r documentRepo) ListConfirmedLines(ctx context.Context, warehouseID, docType string, from, to time.Time) ([]*entity.DocumentLine, error) {
	var out []*entity.DocumentLine
	err := r.b.do(func(st *state) error {
		for _, id := range st.docOrder {
			d := st.documents[id]
			if d.Type != docType || d.State != entity.DocumentStateConfirmed || d.WarehouseID != warehouseID {
				continue
			}
			if d.Date.Before(from) || !d.Date.Before(to) {
				continue
			}
			for _, l := range d.Lines {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	return out, err
}
