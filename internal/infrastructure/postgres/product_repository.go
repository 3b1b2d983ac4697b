package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, internal_code, COALESCE(barcode, ''), unit, standard_cost, min_stock, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.InternalCode, &p.Barcode, &p.Unit, &p.StandardCost,
		&p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func productConflict(err error, p *entity.Product) error {
	if constraintName(err) == "products_barcode_key" {
		return domain.NewConflictError("product", "el código de barras %s ya existe", p.Barcode)
	}
	return domain.NewConflictError("product", "el código interno %s ya existe", p.InternalCode)
}

// Create persiste un nuevo producto. Un código de barras vacío se guarda como NULL.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, internal_code, barcode, unit, standard_cost, min_stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.InternalCode, nullIfEmpty(product.Barcode), product.Unit,
		product.StandardCost, product.MinStock, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return productConflict(err, product)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `id = $1`, id)
}

// GetByInternalCode obtiene un producto por código interno.
func (r *ProductRepo) GetByInternalCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code", `internal_code = $1`, code)
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.getOne(ctx, "get product by barcode", `barcode = $1`, barcode)
}

// MaxInternalCode mayor código con el prefijo dado. El sufijo tiene ancho fijo,
// así que el orden lexicográfico coincide con el numérico.
func (r *ProductRepo) MaxInternalCode(ctx context.Context, prefix string) (string, error) {
	var code *string
	err := r.q.QueryRow(ctx,
		`SELECT MAX(internal_code) FROM products WHERE internal_code LIKE $1`,
		prefix+"-%",
	).Scan(&code)
	if err != nil {
		return "", fmt.Errorf("max internal code: %w", err)
	}
	if code == nil {
		return "", nil
	}
	return *code, nil
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, barcode = $3, unit = $4, standard_cost = $5, min_stock = $6, active = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, nullIfEmpty(product.Barcode), product.Unit, product.StandardCost,
		product.MinStock, product.Active, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return productConflict(err, product)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por código interno con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY internal_code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
