package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sedes-inventario/internal/application/document"
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

// DocumentHandler requerimientos, salidas, ingresos y mermas (protegido).
type DocumentHandler struct {
	uc         *document.EngineUseCase
	warehouses warehouseDirectory
	logger     *logger.Logger
}

// NewDocumentHandler construye el handler. warehouses resuelve la CENTRAL activa para el alcance
// de requerimientos.
func NewDocumentHandler(uc *document.EngineUseCase, warehouses warehouseDirectory, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{uc: uc, warehouses: warehouses, logger: log}
}

func dateOrZero(d *time.Time) time.Time {
	if d == nil {
		return time.Time{}
	}
	return *d
}

// respond serializa el documento o traduce el error.
func (h *DocumentHandler) respond(c *fiber.Ctx, status int, doc *entity.Document, err error) error {
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(status).JSON(toDocumentResponse(doc))
}

// ownDocument verifica que un rol de sede solo modifique documentos de su sede.
func (h *DocumentHandler) ownDocument(c *fiber.Ctx, id string) error {
	return h.scopeDocument(c, id, func(doc *entity.Document, own string) (bool, error) {
		return doc.WarehouseID == own, nil
	})
}

// receivingDocument además de la sede de origen admite la sede destino de un traslado.
func (h *DocumentHandler) receivingDocument(c *fiber.Ctx, id string) error {
	return h.scopeDocument(c, id, func(doc *entity.Document, own string) (bool, error) {
		return doc.WarehouseID == own || doc.DestinationWarehouseID == own, nil
	})
}

// fulfillingDocument un requerimiento lo atiende su propia sede o la CENTRAL activa.
func (h *DocumentHandler) fulfillingDocument(c *fiber.Ctx, id string) error {
	return h.scopeDocument(c, id, func(doc *entity.Document, own string) (bool, error) {
		if doc.WarehouseID == own {
			return true, nil
		}
		central, err := h.warehouses.GetActiveCentral(c.UserContext())
		if err != nil {
			return false, err
		}
		return central != nil && central.ID == own, nil
	})
}

func (h *DocumentHandler) scopeDocument(c *fiber.Ctx, id string, allowed func(doc *entity.Document, own string) (bool, error)) error {
	if crossWarehouse(GetRole(c)) {
		return nil
	}
	doc, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	ok, err := allowed(doc, GetWarehouseID(c))
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewPermissionError("el documento %s pertenece a otra sede", id)
	}
	return nil
}

// CreateRequisition godoc
// @Summary      Crear requerimiento
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "Cabecera del requerimiento"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/documents/requisitions [post]
func (h *DocumentHandler) CreateRequisition(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
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
	doc, err := h.uc.CreateDraftRequisition(c.UserContext(), document.RequisitionInput{
		ActorID:                GetUserID(c),
		WarehouseID:            warehouseID,
		Kind:                   in.Kind,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Supplier:               in.Supplier,
		Location:               in.Location,
		Notes:                  in.Notes,
		Date:                   dateOrZero(in.Date),
	})
	return h.respond(c, fiber.StatusCreated, doc, err)
}

// Create godoc
// @Summary      Crear salida, ingreso o merma
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "Tipo y cabecera"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
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
	doc, err := h.uc.CreateDraft(c.UserContext(), document.DraftInput{
		ActorID:                GetUserID(c),
		Type:                   in.Type,
		WarehouseID:            warehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Location:               in.Location,
		Notes:                  in.Notes,
		Date:                   dateOrZero(in.Date),
	})
	return h.respond(c, fiber.StatusCreated, doc, err)
}

// GetByID godoc
// @Summary      Obtener documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.UserContext(), c.Params("id"))
	return h.respond(c, fiber.StatusOK, doc, err)
}

// List godoc
// @Summary      Listar documentos
// @Description  Un solicitante solo ve los documentos que creó.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        type          query  string  false  "REQUISITION, DISPATCH, RECEIPT o WASTE"
// @Param        state         query  string  false  "Estado"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        requester_id  query  string  false  "Solicitante"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, q); !ok {
		return err
	}
	if GetRole(c) == entity.RoleSolicitante {
		q.RequesterID = GetUserID(c)
	}
	page := dto.NewPageRequest(q.Limit, q.Offset, dto.MaxPageLimit)
	filter := entity.DocumentFilter{
		Type:        q.Type,
		State:       q.State,
		WarehouseID: q.WarehouseID,
		RequesterID: q.RequesterID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	docs, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, toDocumentResponse(d))
	}
	return c.JSON(dto.DocumentListResponse{Items: items, Page: page.Response()})
}

// AddLine godoc
// @Summary      Agregar producto al documento
// @Description  Si el producto ya está en el documento se suma la cantidad.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del documento"
// @Param        body  body  dto.AddLineRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/lines [post]
func (h *DocumentHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.AddLine(c.UserContext(), id, in.ProductID, in.Quantity, in.Notes)
	return h.respond(c, fiber.StatusOK, doc, err)
}

// SetLineQty godoc
// @Summary      Fijar cantidad de una línea
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id          path  string  true  "ID del documento"
// @Param        product_id  path  string  true  "ID del producto"
// @Param        body        body  dto.SetLineQtyRequest  true  "Cantidad"
// @Success      200  {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/lines/{product_id} [put]
func (h *DocumentHandler) SetLineQty(c *fiber.Ctx) error {
	var in dto.SetLineQtyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.SetLineQty(c.UserContext(), id, c.Params("product_id"), in.Quantity)
	return h.respond(c, fiber.StatusOK, doc, err)
}

// RemoveLine godoc
// @Summary      Quitar producto del documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "ID del documento"
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/lines/{product_id} [delete]
func (h *DocumentHandler) RemoveLine(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.RemoveLine(c.UserContext(), id, c.Params("product_id"))
	return h.respond(c, fiber.StatusOK, doc, err)
}

// SetLiquidation godoc
// @Summary      Liquidar una línea (devuelto, merma, usado)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id          path  string  true  "ID del documento"
// @Param        product_id  path  string  true  "ID del producto"
// @Param        body        body  dto.LiquidationRequest  true  "Cantidades"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/lines/{product_id}/liquidation [put]
func (h *DocumentHandler) SetLiquidation(c *fiber.Ctx) error {
	var in dto.LiquidationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.SetLineLiquidation(c.UserContext(), id, c.Params("product_id"), document.LiquidationInput{
		Returned: in.Returned,
		Wasted:   in.Wasted,
		Used:     in.Used,
	})
	return h.respond(c, fiber.StatusOK, doc, err)
}

// Submit godoc
// @Summary      Enviar requerimiento
// @Description  DRAFT → PENDING; asigna el número REQ si aún no lo tiene.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/submit [post]
func (h *DocumentHandler) Submit(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.SubmitRequisition(c.UserContext(), id, GetUserID(c))
	return h.respond(c, fiber.StatusOK, doc, err)
}

// Reject godoc
// @Summary      Rechazar requerimiento
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del requerimiento"
// @Param        body  body  dto.RejectRequest  false  "Motivo"
// @Success      200  {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if ok, err := validate(c, in); !ok {
		return err
	}
	id := c.Params("id")
	if err := h.fulfillingDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.RejectRequisition(c.UserContext(), id, GetUserID(c), in.Reason)
	return h.respond(c, fiber.StatusOK, doc, err)
}

// Convert godoc
// @Summary      Atender requerimiento con una salida
// @Description  Crea (o devuelve) la salida en borrador desde la sede del encargado hacia la del requerimiento.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      201  {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/convert [post]
func (h *DocumentHandler) Convert(c *fiber.Ctx) error {
	warehouseID, err := scopedWarehouse(c, c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	id := c.Params("id")
	if err := h.fulfillingDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.ConvertToDispatch(c.UserContext(), id, GetUserID(c), warehouseID)
	return h.respond(c, fiber.StatusCreated, doc, err)
}

// Confirm godoc
// @Summary      Confirmar salida, ingreso o merma
// @Description  Aplica los movimientos de stock de todas las líneas en una sola transacción.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.ConfirmMovementDocument(c.UserContext(), id, GetUserID(c))
	return h.respond(c, fiber.StatusOK, doc, err)
}

// Void godoc
// @Summary      Anular borrador
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/void [post]
func (h *DocumentHandler) Void(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.VoidDraft(c.UserContext(), id, GetUserID(c))
	return h.respond(c, fiber.StatusOK, doc, err)
}

// EnsureReceipt godoc
// @Summary      Generar ingreso de una transferencia confirmada
// @Description  Idempotente: si el ingreso ya existe se devuelve el mismo.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/receipt [post]
func (h *DocumentHandler) EnsureReceipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.receivingDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.EnsureTransferReceipt(c.UserContext(), id)
	return h.respond(c, fiber.StatusOK, doc, err)
}

// ApplyDefaults godoc
// @Summary      Completar clase, destino y proveedor del requerimiento según el usuario
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      200  {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/defaults [post]
func (h *DocumentHandler) ApplyDefaults(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.ownDocument(c, id); err != nil {
		return writeError(c, h.logger, err)
	}
	doc, err := h.uc.ApplyRequisitionDefaults(c.UserContext(), id, GetRole(c), GetWarehouseID(c))
	return h.respond(c, fiber.StatusOK, doc, err)
}
