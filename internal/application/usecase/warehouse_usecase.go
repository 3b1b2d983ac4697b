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

// WarehouseUseCase casos de uso para bodegas (sedes). Solo puede haber una CENTRAL activa.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una nueva bodega. Kind vacío = SECONDARY.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	kind := strings.ToUpper(strings.TrimSpace(in.Kind))
	if kind == "" {
		kind = entity.WarehouseKindSecondary
	}
	if !entity.ValidWarehouseKind(kind) {
		return nil, domain.NewValidationError("kind", "tipo de bodega desconocido %q", in.Kind)
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		NameKey:   catalog.NameKey(name),
		Kind:      kind,
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.checkUnique(ctx, warehouse); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// GetCentral devuelve la sede CENTRAL activa; ConfigurationError si no hay ninguna.
func (uc *WarehouseUseCase) GetCentral(ctx context.Context) (*dto.WarehouseResponse, error) {
	central, err := uc.repo.GetActiveCentral(ctx)
	if err != nil {
		return nil, err
	}
	if central == nil {
		return nil, domain.NewConfigurationError("no hay una sede CENTRAL activa")
	}
	return toWarehouseResponse(central), nil
}

// Update actualiza una bodega. Cambiar tipo o estado no puede dejar dos CENTRAL activas.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		warehouse.Name = name
		warehouse.NameKey = catalog.NameKey(name)
	}
	if in.Kind != nil {
		kind := strings.ToUpper(strings.TrimSpace(*in.Kind))
		if !entity.ValidWarehouseKind(kind) {
			return nil, domain.NewValidationError("kind", "tipo de bodega desconocido %q", *in.Kind)
		}
		warehouse.Kind = kind
	}
	if in.Address != nil {
		warehouse.Address = strings.TrimSpace(*in.Address)
	}
	if in.Active != nil {
		warehouse.Active = *in.Active
	}
	if err := uc.checkUnique(ctx, warehouse); err != nil {
		return nil, err
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// checkUnique nombre único sin distinguir mayúsculas ni tildes, y una sola CENTRAL activa.
// El índice único de la base es la última palabra ante carreras.
func (uc *WarehouseUseCase) checkUnique(ctx context.Context, w *entity.Warehouse) error {
	same, err := uc.repo.GetByNameKey(ctx, w.NameKey)
	if err != nil {
		return err
	}
	if same != nil && same.ID != w.ID {
		return domain.NewConflictError("warehouse", "ya existe una bodega llamada %q", same.Name)
	}
	if !w.Active || !w.IsCentral() {
		return nil
	}
	central, err := uc.repo.GetActiveCentral(ctx)
	if err != nil {
		return err
	}
	if central != nil && central.ID != w.ID {
		return domain.NewConflictError("warehouse", "ya existe una sede CENTRAL activa (%s)", central.Name)
	}
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Kind:      w.Kind,
		Address:   w.Address,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
