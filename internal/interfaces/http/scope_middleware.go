package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// warehouseLookup es el contrato mínimo que necesita el middleware para verificar la sede.
// Lo implementa repository.WarehouseRepository.
type warehouseLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}

// warehouseDirectory agrega la consulta de la sede CENTRAL activa.
type warehouseDirectory interface {
	warehouseLookup
	GetActiveCentral(ctx context.Context) (*entity.Warehouse, error)
}

// RequireActiveWarehouse verifica que la sede del token siga existiendo y activa.
// Debe usarse DESPUÉS de AuthMiddleware. Los tokens sin sede (admin, jefa) pasan.
//
// Comportamiento:
//   - 403 Forbidden → la sede fue desactivada o eliminada.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la sede.
func RequireActiveWarehouse(lookup warehouseLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID := GetWarehouseID(c)
		if warehouseID == "" {
			return c.Next()
		}
		w, err := lookup.GetByID(c.UserContext(), warehouseID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "WAREHOUSE_CHECK_FAILED",
				Message: "no se pudo verificar la sede, intente más tarde",
			})
		}
		if w == nil || !w.Active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "WAREHOUSE_DISABLED",
				Message: "la sede del usuario no está activa",
			})
		}
		return c.Next()
	}
}

// crossWarehouse indica si el rol puede operar sobre cualquier sede.
func crossWarehouse(role string) bool {
	return role == entity.RoleAdmin || role == entity.RoleJefa
}

// scopedWarehouse resuelve la sede de la petición: vacía usa la del token; los roles de sede
// no pueden operar sobre otra.
func scopedWarehouse(c *fiber.Ctx, requested string) (string, error) {
	own := GetWarehouseID(c)
	if requested == "" {
		requested = own
	}
	if requested == "" {
		return "", domain.NewValidationError("warehouse_id", "warehouse_id es requerido")
	}
	if !crossWarehouse(GetRole(c)) && requested != own {
		return "", domain.NewPermissionError("el rol %s solo opera sobre su sede", GetRole(c))
	}
	return requested, nil
}
