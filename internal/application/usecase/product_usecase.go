package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/catalog"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

// DefaultUnit unidad de medida cuando no se indica.
const DefaultUnit = "UND"

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo   repository.ProductRepository
	prefix string
}

// NewProductUseCase construye el caso de uso. prefix vacío usa TC-ALM.
func NewProductUseCase(repo repository.ProductRepository, prefix string) *ProductUseCase {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if !catalog.ValidPrefix(prefix) {
		prefix = catalog.DefaultCodePrefix
	}
	return &ProductUseCase{repo: repo, prefix: prefix}
}

// Create crea un producto. Sin código interno se asigna el siguiente del prefijo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	if in.StandardCost.IsNegative() {
		return nil, domain.NewValidationError("standard_cost", "el costo estándar no puede ser negativo")
	}
	if in.MinStock < 0 {
		return nil, domain.NewValidationError("min_stock", "el stock mínimo no puede ser negativo")
	}
	barcode, ok := catalog.NormalizeBarcode(in.Barcode)
	if !ok {
		return nil, domain.NewValidationError("barcode", "código de barras inválido %q", in.Barcode)
	}
	code := strings.ToUpper(strings.TrimSpace(in.InternalCode))
	if code == "" {
		next, err := uc.nextCode(ctx)
		if err != nil {
			return nil, err
		}
		code = next
	} else if _, ok := catalog.ParseInternalCode(uc.prefix, code); !ok {
		return nil, domain.NewValidationError("internal_code", "el código debe tener la forma %s", catalog.FormatInternalCode(uc.prefix, 1))
	}
	unit := strings.ToUpper(strings.TrimSpace(in.Unit))
	if unit == "" {
		unit = DefaultUnit
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		InternalCode: code,
		Barcode:      barcode,
		Unit:         unit,
		StandardCost: in.StandardCost,
		MinStock:     in.MinStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.checkUnique(ctx, product); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El código interno no cambia.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		product.Name = name
	}
	if in.Barcode != nil {
		barcode, ok := catalog.NormalizeBarcode(*in.Barcode)
		if !ok {
			return nil, domain.NewValidationError("barcode", "código de barras inválido %q", *in.Barcode)
		}
		product.Barcode = barcode
	}
	if in.Unit != nil {
		product.Unit = strings.ToUpper(strings.TrimSpace(*in.Unit))
		if product.Unit == "" {
			product.Unit = DefaultUnit
		}
	}
	if in.StandardCost != nil {
		if in.StandardCost.IsNegative() {
			return nil, domain.NewValidationError("standard_cost", "el costo estándar no puede ser negativo")
		}
		product.StandardCost = *in.StandardCost
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.NewValidationError("min_stock", "el stock mínimo no puede ser negativo")
		}
		product.MinStock = *in.MinStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := uc.checkUnique(ctx, product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// NextInternalCode próximo código interno disponible (no lo reserva).
func (uc *ProductUseCase) NextInternalCode(ctx context.Context) (*dto.NextCodeResponse, error) {
	code, err := uc.nextCode(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.NextCodeResponse{Code: code}, nil
}

func (uc *ProductUseCase) nextCode(ctx context.Context) (string, error) {
	maxCode, err := uc.repo.MaxInternalCode(ctx, uc.prefix)
	if err != nil {
		return "", err
	}
	return catalog.NextInternalCode(uc.prefix, maxCode), nil
}

func (uc *ProductUseCase) checkUnique(ctx context.Context, p *entity.Product) error {
	same, err := uc.repo.GetByInternalCode(ctx, p.InternalCode)
	if err != nil {
		return err
	}
	if same != nil && same.ID != p.ID {
		return domain.NewConflictError("product", "el código interno %s ya existe", p.InternalCode)
	}
	if p.Barcode == "" {
		return nil
	}
	same, err = uc.repo.GetByBarcode(ctx, p.Barcode)
	if err != nil {
		return err
	}
	if same != nil && same.ID != p.ID {
		return domain.NewConflictError("product", "el código de barras %s ya existe", p.Barcode)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		InternalCode: p.InternalCode,
		Barcode:      p.Barcode,
		Unit:         p.Unit,
		StandardCost: p.StandardCost,
		MinStock:     p.MinStock,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
