package repository

import (
	"context"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
)

// ReconciliationRepository puerto de liquidaciones semanales y su bitácora.
type ReconciliationRepository interface {
	CreateRecords(ctx context.Context, records []*entity.ReconciliationRecord) error
	Exists(ctx context.Context, week, year int, warehouseID string) (bool, error)
	List(ctx context.Context, filter entity.ReconciliationFilter) ([]*entity.ReconciliationRecord, error)
	// Summary agrega totales; DifferencePercentage y OverallState los calcula el caso de uso.
	Summary(ctx context.Context, filter entity.ReconciliationFilter) (*entity.ReconciliationSummary, error)
	AppendLog(ctx context.Context, entry *entity.ReconciliationLogEntry) error
	ListLogs(ctx context.Context, limit int) ([]*entity.ReconciliationLogEntry, error)
}
