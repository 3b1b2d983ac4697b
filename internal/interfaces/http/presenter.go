package http

import (
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/application/inventory"
	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

func toDocumentResponse(d *entity.Document) dto.DocumentResponse {
	lines := make([]dto.DocumentLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.DocumentLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Notes:     l.Notes,
			Returned:  l.Returned,
			Wasted:    l.Wasted,
			Used:      l.Used,
		})
	}
	return dto.DocumentResponse{
		ID:                     d.ID,
		Type:                   d.Type,
		RequisitionKind:        d.RequisitionKind,
		Number:                 d.Number,
		Date:                   d.Date,
		WarehouseID:            d.WarehouseID,
		Location:               d.Location,
		OriginWarehouseID:      d.OriginWarehouseID,
		DestinationWarehouseID: d.DestinationWarehouseID,
		Supplier:               d.Supplier,
		RequesterID:            d.RequesterID,
		FulfillerID:            d.FulfillerID,
		State:                  d.State,
		Notes:                  d.Notes,
		OriginDocumentID:       d.OriginDocumentID,
		Received:               d.Received,
		ReceivedBy:             d.ReceivedBy,
		ReceivedAt:             d.ReceivedAt,
		Lines:                  lines,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

func toMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		WarehouseID:  m.WarehouseID,
		Location:     m.Location,
		Type:         m.Kind,
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		TotalCost:    m.TotalCost,
		Reference:    m.Reference,
		ActorID:      m.ActorID,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}

func toStockItemResponse(item inventory.StockItem) dto.StockItemResponse {
	out := dto.StockItemResponse{
		Quantity:     item.Quantity,
		BelowMinimum: item.BelowMinimum,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.Product != nil {
		out.ProductID = item.Product.ID
		out.InternalCode = item.Product.InternalCode
		out.ProductName = item.Product.Name
		out.MinStock = item.Product.MinStock
	}
	return out
}

func toRecordResponse(r *entity.ReconciliationRecord) dto.ReconciliationRecordResponse {
	return dto.ReconciliationRecordResponse{
		ID:              r.ID,
		Week:            r.Week,
		Year:            r.Year,
		WarehouseID:     r.WarehouseID,
		ProductID:       r.ProductID,
		OpeningStock:    r.OpeningStock,
		ClosingStock:    r.ClosingStock,
		Delivered:       r.Delivered,
		Used:            r.Used,
		Returned:        r.Returned,
		Wasted:          r.Wasted,
		Variance:        r.Variance,
		Status:          r.Status,
		StockVariation:  r.StockVariation(),
		NetMovement:     r.NetMovement(),
		UsedPercentage:  r.UsedPercentage(),
		WastePercentage: r.WastePercentage(),
		DifferenceKind:  r.DifferenceKind(),
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}

func toRecordResponses(records []*entity.ReconciliationRecord) []dto.ReconciliationRecordResponse {
	out := make([]dto.ReconciliationRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordResponse(r))
	}
	return out
}

func toSummaryResponse(s *entity.ReconciliationSummary) dto.ReconciliationSummaryResponse {
	return dto.ReconciliationSummaryResponse{
		TotalProducts:          s.TotalProducts,
		ProductsWithDifference: s.ProductsWithDifference,
		TotalOpeningStock:      s.TotalOpeningStock,
		TotalClosingStock:      s.TotalClosingStock,
		TotalDelivered:         s.TotalDelivered,
		TotalUsed:              s.TotalUsed,
		TotalReturned:          s.TotalReturned,
		TotalWasted:            s.TotalWasted,
		TotalVariance:          s.TotalVariance,
		DifferencePercentage:   s.DifferencePercentage,
		OverallState:           s.OverallState,
	}
}

func toLogResponse(e *entity.ReconciliationLogEntry) dto.ReconciliationLogResponse {
	return dto.ReconciliationLogResponse{
		ID:                 e.ID,
		Kind:               e.Kind,
		Week:               e.Week,
		Year:               e.Year,
		WarehouseID:        e.WarehouseID,
		ActorID:            e.ActorID,
		Description:        e.Description,
		ProductsProcessed:  e.ProductsProcessed,
		DiscrepanciesFound: e.DiscrepanciesFound,
		CreatedAt:          e.CreatedAt,
	}
}
