package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Warehouses      WarehouseRepository
	Products        ProductRepository
	Stock           StockRepository
	Movements       MovementRepository
	Documents       DocumentRepository
	Sequences       SequenceRepository
	Reconciliations ReconciliationRepository
	Users           UserRepository
}
