package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const (
	documentsTable     = "documents"
	documentLinesTable = "document_lines"
)

var documentColumns = []string{
	"id", "type", "requisition_kind", "COALESCE(number, '') AS number", "date", "warehouse_id", "location",
	"COALESCE(origin_warehouse_id, '') AS origin_warehouse_id",
	"COALESCE(destination_warehouse_id, '') AS destination_warehouse_id",
	"supplier", "requester_id", "fulfiller_id", "state", "notes",
	"COALESCE(origin_document_id, '') AS origin_document_id",
	"received", "received_by", "received_at", "created_at", "updated_at",
}

var lineColumns = []string{
	"id", "document_id", "product_id", "quantity", "unit_cost", "notes",
	"returned", "wasted", "used", "created_at", "updated_at",
}

// documentRow fila de la tabla documents.
type documentRow struct {
	ID                     string     `db:"id"`
	Type                   string     `db:"type"`
	RequisitionKind        string     `db:"requisition_kind"`
	Number                 string     `db:"number"`
	Date                   time.Time  `db:"date"`
	WarehouseID            string     `db:"warehouse_id"`
	Location               string     `db:"location"`
	OriginWarehouseID      string     `db:"origin_warehouse_id"`
	DestinationWarehouseID string     `db:"destination_warehouse_id"`
	Supplier               string     `db:"supplier"`
	RequesterID            string     `db:"requester_id"`
	FulfillerID            string     `db:"fulfiller_id"`
	State                  string     `db:"state"`
	Notes                  string     `db:"notes"`
	OriginDocumentID       string     `db:"origin_document_id"`
	Received               bool       `db:"received"`
	ReceivedBy             string     `db:"received_by"`
	ReceivedAt             *time.Time `db:"received_at"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

func (r documentRow) toEntity() *entity.Document {
	return &entity.Document{
		ID:                     r.ID,
		Type:                   r.Type,
		RequisitionKind:        r.RequisitionKind,
		Number:                 r.Number,
		Date:                   r.Date,
		WarehouseID:            r.WarehouseID,
		Location:               r.Location,
		OriginWarehouseID:      r.OriginWarehouseID,
		DestinationWarehouseID: r.DestinationWarehouseID,
		Supplier:               r.Supplier,
		RequesterID:            r.RequesterID,
		FulfillerID:            r.FulfillerID,
		State:                  r.State,
		Notes:                  r.Notes,
		OriginDocumentID:       r.OriginDocumentID,
		Received:               r.Received,
		ReceivedBy:             r.ReceivedBy,
		ReceivedAt:             r.ReceivedAt,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

// lineRow fila de la tabla document_lines.
type lineRow struct {
	ID         string          `db:"id"`
	DocumentID string          `db:"document_id"`
	ProductID  string          `db:"product_id"`
	Quantity   int64           `db:"quantity"`
	UnitCost   decimal.Decimal `db:"unit_cost"`
	Notes      string          `db:"notes"`
	Returned   int64           `db:"returned"`
	Wasted     int64           `db:"wasted"`
	Used       int64           `db:"used"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (r lineRow) toEntity() entity.DocumentLine {
	return entity.DocumentLine{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		UnitCost:   r.UnitCost,
		Notes:      r.Notes,
		Returned:   r.Returned,
		Wasted:     r.Wasted,
		Used:       r.Used,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// DocumentRepo documentos y líneas sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func documentConflict(err error, doc *entity.Document) error {
	if constraintName(err) == "documents_number_key" {
		return domain.NewConflictError("document", "el número %s ya está asignado", doc.Number)
	}
	return domain.NewConflictError("document", "id duplicado %s", doc.ID)
}

// Create persiste la cabecera y las líneas que traiga el documento.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	sql, args, err := r.builder.
		Insert(documentsTable).
		Columns(
			"id", "type", "requisition_kind", "number", "date", "warehouse_id", "location",
			"origin_warehouse_id", "destination_warehouse_id", "supplier", "requester_id", "fulfiller_id",
			"state", "notes", "origin_document_id", "received", "received_by", "received_at",
			"created_at", "updated_at",
		).
		Values(
			doc.ID, doc.Type, doc.RequisitionKind, nullIfEmpty(doc.Number), doc.Date, doc.WarehouseID, doc.Location,
			nullIfEmpty(doc.OriginWarehouseID), nullIfEmpty(doc.DestinationWarehouseID), doc.Supplier,
			doc.RequesterID, doc.FulfillerID, doc.State, doc.Notes, nullIfEmpty(doc.OriginDocumentID),
			doc.Received, doc.ReceivedBy, doc.ReceivedAt, doc.CreatedAt, doc.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert document: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return documentConflict(err, doc)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	for i := range doc.Lines {
		if err := r.AddLine(ctx, &doc.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *DocumentRepo) getOne(ctx context.Context, id string, forUpdate bool) (*entity.Document, error) {
	q := r.builder.Select(documentColumns...).From(documentsTable).Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get document: %w", err)
	}
	var row documentRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	doc := row.toEntity()
	if doc.Lines, err = r.lines(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepo) lines(ctx context.Context, docID string) ([]entity.DocumentLine, error) {
	sql, args, err := r.builder.
		Select(lineColumns...).
		From(documentLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []lineRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	lines := make([]entity.DocumentLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.toEntity())
	}
	return lines, nil
}

// GetByID documento con sus líneas.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate documento con sus líneas, bloqueando la cabecera.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, id, true)
}

// Update persiste solo la cabecera.
func (r *DocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	sql, args, err := r.builder.
		Update(documentsTable).
		SetMap(map[string]any{
			"requisition_kind":         doc.RequisitionKind,
			"number":                   nullIfEmpty(doc.Number),
			"date":                     doc.Date,
			"location":                 doc.Location,
			"origin_warehouse_id":      nullIfEmpty(doc.OriginWarehouseID),
			"destination_warehouse_id": nullIfEmpty(doc.DestinationWarehouseID),
			"supplier":                 doc.Supplier,
			"fulfiller_id":             doc.FulfillerID,
			"state":                    doc.State,
			"notes":                    doc.Notes,
			"received":                 doc.Received,
			"received_by":              doc.ReceivedBy,
			"received_at":              doc.ReceivedAt,
			"updated_at":               doc.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": doc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update document: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return documentConflict(err, doc)
		}
		return fmt.Errorf("update document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List cabeceras filtradas, más recientes primero. Las líneas no se cargan.
func (r *DocumentRepo) List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error) {
	q := r.builder.Select(documentColumns...).From(documentsTable)
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.State != "" {
		q = q.Where(squirrel.Eq{"state": filter.State})
	}
	if filter.WarehouseID != "" {
		q = q.Where(squirrel.Eq{"warehouse_id": filter.WarehouseID})
	}
	if filter.RequesterID != "" {
		q = q.Where(squirrel.Eq{"requester_id": filter.RequesterID})
	}
	q = q.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents: %w", err)
	}
	var rows []documentRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs := make([]*entity.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toEntity())
	}
	return docs, nil
}

// FindByOrigin primer documento derivado del origen con el tipo (y estado) indicado.
func (r *DocumentRepo) FindByOrigin(ctx context.Context, originID, docType, state string) (*entity.Document, error) {
	q := r.builder.
		Select("id").
		From(documentsTable).
		Where(squirrel.Eq{"origin_document_id": originID, "type": docType})
	if state != "" {
		q = q.Where(squirrel.Eq{"state": state})
	}
	sql, args, err := q.OrderBy("created_at").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find by origin: %w", err)
	}
	var id string
	if err := pgxscan.Get(ctx, r.q, &id, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find by origin: %w", err)
	}
	return r.GetByID(ctx, id)
}

// AddLine inserta una línea; (documento, producto) es único.
func (r *DocumentRepo) AddLine(ctx context.Context, line *entity.DocumentLine) error {
	sql, args, err := r.builder.
		Insert(documentLinesTable).
		Columns(lineColumns...).
		Values(
			line.ID, line.DocumentID, line.ProductID, line.Quantity, line.UnitCost, line.Notes,
			line.Returned, line.Wasted, line.Used, line.CreatedAt, line.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert line: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("document_line", "el producto %s ya está en el documento", line.ProductID)
		}
		return fmt.Errorf("insert line: %w", err)
	}
	return nil
}

// UpdateLine actualiza cantidades, costo, notas y liquidación de la línea.
func (r *DocumentRepo) UpdateLine(ctx context.Context, line *entity.DocumentLine) error {
	sql, args, err := r.builder.
		Update(documentLinesTable).
		SetMap(map[string]any{
			"quantity":   line.Quantity,
			"unit_cost":  line.UnitCost,
			"notes":      line.Notes,
			"returned":   line.Returned,
			"wasted":     line.Wasted,
			"used":       line.Used,
			"updated_at": line.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": line.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update line: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLine elimina una línea.
func (r *DocumentRepo) DeleteLine(ctx context.Context, lineID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+documentLinesTable+` WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListConfirmedLines líneas de documentos CONFIRMED del tipo y bodega con fecha en [from, to).
func (r *DocumentRepo) ListConfirmedLines(ctx context.Context, warehouseID, docType string, from, to time.Time) ([]*entity.DocumentLine, error) {
	cols := make([]string, 0, len(lineColumns))
	for _, c := range lineColumns {
		cols = append(cols, "l."+c)
	}
	sql, args, err := r.builder.
		Select(cols...).
		From(documentLinesTable + " l").
		Join(documentsTable + " d ON d.id = l.document_id").
		Where(squirrel.Eq{"d.warehouse_id": warehouseID, "d.type": docType, "d.state": entity.DocumentStateConfirmed}).
		Where(squirrel.GtOrEq{"d.date": from}).
		Where(squirrel.Lt{"d.date": to}).
		OrderBy("d.date", "l.created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build confirmed lines: %w", err)
	}
	var rows []lineRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list confirmed lines: %w", err)
	}
	lines := make([]*entity.DocumentLine, 0, len(rows))
	for _, row := range rows {
		l := row.toEntity()
		lines = append(lines, &l)
	}
	return lines, nil
}
