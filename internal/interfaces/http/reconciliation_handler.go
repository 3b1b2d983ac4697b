package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/application/reconciliation"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
)

// ReconciliationHandler liquidación semanal por sede y verificación central (protegido).
type ReconciliationHandler struct {
	uc            *reconciliation.UseCase
	logger        *logger.Logger
	enforceWindow bool
	now           func() time.Time
}

// NewReconciliationHandler construye el handler. Con enforceWindow las ejecuciones solo se
// aceptan entre sábado y lunes. now nil usa time.Now.
func NewReconciliationHandler(uc *reconciliation.UseCase, log *logger.Logger, enforceWindow bool, now func() time.Time) *ReconciliationHandler {
	if now == nil {
		now = time.Now
	}
	return &ReconciliationHandler{uc: uc, logger: log, enforceWindow: enforceWindow, now: now}
}

// runInput completa semana/año con el periodo por defecto y aplica la ventana de liquidación.
func (h *ReconciliationHandler) runInput(c *fiber.Ctx, in dto.RunReconciliationRequest, warehouseID string) (reconciliation.RunInput, error) {
	period := h.uc.DefaultPeriod(h.now())
	if h.enforceWindow && !period.IsWindow {
		return reconciliation.RunInput{}, domain.NewPermissionError("la liquidación solo se ejecuta de sábado a lunes")
	}
	week, year := in.Week, in.Year
	if week == 0 || year == 0 {
		week, year = period.Week, period.Year
	}
	return reconciliation.RunInput{
		WarehouseID: warehouseID,
		Week:        week,
		Year:        year,
		ActorID:     GetUserID(c),
		Notes:       in.Notes,
	}, nil
}

func parseRunBody(c *fiber.Ctx) (dto.RunReconciliationRequest, bool, error) {
	var in dto.RunReconciliationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return in, false, invalidBody(c)
		}
	}
	ok, err := validate(c, in)
	return in, ok, err
}

func toRunResponse(res *reconciliation.RunResult) dto.ReconciliationRunResponse {
	return dto.ReconciliationRunResponse{
		Week:          res.Week,
		Year:          res.Year,
		WarehouseID:   res.WarehouseID,
		Discrepancies: res.Discrepancies,
		Records:       toRecordResponses(res.Records),
	}
}

// RunWarehouse godoc
// @Summary      Liquidar una sede
// @Description  Calcula stock inicial y final, entregado, usado, devuelto y merma por producto. Semana/año vacíos usan la semana anterior.
// @Tags         reconciliation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunReconciliationRequest  false  "Sede y periodo"
// @Success      201   {object}  dto.ReconciliationRunResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reconciliation/warehouse [post]
func (h *ReconciliationHandler) RunWarehouse(c *fiber.Ctx) error {
	in, ok, err := parseRunBody(c)
	if !ok {
		return err
	}
	warehouseID, err := scopedWarehouse(c, in.WarehouseID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	run, err := h.runInput(c, in, warehouseID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	res, err := h.uc.ReconcileWarehouse(c.UserContext(), run)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRunResponse(res))
}

// RunCentral godoc
// @Summary      Verificación de la CENTRAL
// @Description  Liquida la CENTRAL y cruza cada producto contra lo reportado por las sedes.
// @Tags         reconciliation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunReconciliationRequest  false  "Periodo"
// @Success      201   {object}  dto.ReconciliationRunResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/reconciliation/central [post]
func (h *ReconciliationHandler) RunCentral(c *fiber.Ctx) error {
	in, ok, err := parseRunBody(c)
	if !ok {
		return err
	}
	run, err := h.runInput(c, in, "")
	if err != nil {
		return writeError(c, h.logger, err)
	}
	res, err := h.uc.ReconcileCentral(c.UserContext(), run)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRunResponse(res))
}

// Summary godoc
// @Summary      Resumen de liquidaciones
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Param        week          query  int     false  "Semana ISO"
// @Param        year          query  int     false  "Año ISO"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.ReconciliationSummaryResponse
// @Router       /api/reconciliation/summary [get]
func (h *ReconciliationHandler) Summary(c *fiber.Ctx) error {
	var q dto.ReconciliationQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, q); !ok {
		return err
	}
	sum, err := h.uc.GetResumen(c.UserContext(), q.Week, q.Year, q.WarehouseID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(toSummaryResponse(sum))
}

// List godoc
// @Summary      Filas de liquidación
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Param        week          query  int     false  "Semana ISO"
// @Param        year          query  int     false  "Año ISO"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        product_id    query  string  false  "Producto"
// @Param        limit         query  int     false  "Límite"  default(100)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.ReconciliationRecordResponse
// @Router       /api/reconciliation/records [get]
func (h *ReconciliationHandler) List(c *fiber.Ctx) error {
	var q dto.ReconciliationQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if ok, err := validate(c, q); !ok {
		return err
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.Normalize(100, dto.MaxRecordsLimit)
	records, err := h.uc.List(c.UserContext(), entity.ReconciliationFilter{
		Week:        q.Week,
		Year:        q.Year,
		WarehouseID: q.WarehouseID,
		ProductID:   q.ProductID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(toRecordResponses(records))
}

// Logs godoc
// @Summary      Bitácora de liquidaciones
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200  {array}  dto.ReconciliationLogResponse
// @Router       /api/reconciliation/logs [get]
func (h *ReconciliationHandler) Logs(c *fiber.Ctx) error {
	entries, err := h.uc.Logs(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.ReconciliationLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLogResponse(e))
	}
	return c.JSON(out)
}

// Period godoc
// @Summary      Semana a liquidar por defecto
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PeriodResponse
// @Router       /api/reconciliation/period [get]
func (h *ReconciliationHandler) Period(c *fiber.Ctx) error {
	p := h.uc.DefaultPeriod(h.now())
	return c.JSON(dto.PeriodResponse{Week: p.Week, Year: p.Year, From: p.From, To: p.To, IsWindow: p.IsWindow})
}
