package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

// InventoryHandler maneja movimientos sueltos, kardex y stock (protegido).
type InventoryHandler struct {
	uc     *inventory.LedgerUseCase
	logger *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, logger: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Entradas, salidas y ajustes fuera de documentos. ADJUST acepta cantidad con signo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, warehouse_id, type, quantity, unit_cost"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	warehouseID, err := scopedWarehouse(c, in.WarehouseID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	rec, err := h.uc.RegisterMovement(c.UserContext(), inventory.MovementInput{
		ProductID:   in.ProductID,
		WarehouseID: warehouseID,
		Location:    in.Location,
		Kind:        in.Type,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Reference:   in.Reference,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(rec))
}

// Kardex godoc
// @Summary      Kardex de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "ID del producto"
// @Param        warehouse_id  query  string  false  "Bodega; vacío usa la sede del usuario"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return writeError(c, h.logger, domain.NewValidationError("product_id", "product_id es requerido"))
	}
	warehouseID, err := scopedWarehouse(c, c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	limit, offset := pageParams(c, dto.MaxKardexLimit)
	list, err := h.uc.Kardex(c.UserContext(), productID, warehouseID, limit, offset)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Stock godoc
// @Summary      Stock por producto de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega; vacío usa la sede del usuario"
// @Success      200  {array}   dto.StockItemResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	warehouseID, err := scopedWarehouse(c, c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	items, err := h.uc.ListStock(c.UserContext(), warehouseID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toStockItemResponse(it))
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar kardex contra stock
// @Description  Reconstruye el saldo desde el historial; 409 si no coincide con el stock actual.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Failure      409  {object}  dto.LedgerCheckResponse
// @Router       /api/inventory/verify [get]
func (h *InventoryHandler) Verify(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return writeError(c, h.logger, domain.NewValidationError("product_id", "product_id es requerido"))
	}
	warehouseID, err := scopedWarehouse(c, c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	check, err := h.uc.VerifyLedger(c.UserContext(), productID, warehouseID)
	if check == nil {
		return writeError(c, h.logger, err)
	}
	out := dto.LedgerCheckResponse{
		ProductID:   check.ProductID,
		WarehouseID: check.WarehouseID,
		Replayed:    check.Replayed,
		Stock:       check.Stock,
		Movements:   check.Movements,
		Consistent:  err == nil,
	}
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return writeError(c, h.logger, err)
		}
		h.logger.Warn().Str("product_id", productID).Str("warehouse_id", warehouseID).
			Int64("replayed", check.Replayed).Int64("stock", check.Stock).Msg("kardex descuadrado")
		return c.Status(fiber.StatusConflict).JSON(out)
	}
	return c.JSON(out)
}
