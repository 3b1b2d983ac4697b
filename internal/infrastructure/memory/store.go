// Package memory implementa los repositorios en memoria. Sirve para desarrollo local
// (APP_STORAGE=memory) y para las pruebas de los casos de uso sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/sedes-inventario/internal/domain/entity"
	"github.com/jhoicas/sedes-inventario/internal/domain/repository"
)

type stockKey struct {
	productID   string
	warehouseID string
}

// state todo el contenido del almacén. Los mapas guardan valores, no punteros.
type state struct {
	warehouses map[string]entity.Warehouse
	products   map[string]entity.Product
	users      map[string]entity.User
	userOrder  []string
	stock      map[stockKey]entity.StockLevel
	movements  []entity.MovementRecord
	documents  map[string]entity.Document
	docOrder   []string
	sequences  map[string]int64
	records    []entity.ReconciliationRecord
	logs       []entity.ReconciliationLogEntry
}

func newState() *state {
	return &state{
		warehouses: map[string]entity.Warehouse{},
		products:   map[string]entity.Product{},
		users:      map[string]entity.User{},
		stock:      map[stockKey]entity.StockLevel{},
		documents:  map[string]entity.Document{},
		sequences:  map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		warehouses: make(map[string]entity.Warehouse, len(s.warehouses)),
		products:   make(map[string]entity.Product, len(s.products)),
		users:      make(map[string]entity.User, len(s.users)),
		userOrder:  append([]string(nil), s.userOrder...),
		stock:      make(map[stockKey]entity.StockLevel, len(s.stock)),
		movements:  append([]entity.MovementRecord(nil), s.movements...),
		documents:  make(map[string]entity.Document, len(s.documents)),
		docOrder:   append([]string(nil), s.docOrder...),
		sequences:  make(map[string]int64, len(s.sequences)),
		records:    append([]entity.ReconciliationRecord(nil), s.records...),
		logs:       append([]entity.ReconciliationLogEntry(nil), s.logs...),
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.documents {
		v.Lines = append([]entity.DocumentLine(nil), v.Lines...)
		c.documents[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store almacén en memoria. Una transacción toma el candado global, trabaja sobre una copia
// del estado y la publica solo si fn termina sin error.
type Store struct {
	mu        sync.Mutex
	st        *state
	logErr    error
	committed int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// backend resuelve sobre qué estado opera un repositorio: el de una transacción abierta
// (sin candado, ya lo tiene Run) o el publicado (candado por llamada).
type backend struct {
	store *Store
	tx    *state
}

func (b backend) do(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

func reposFor(b backend) repository.Repos {
	return repository.Repos{
		Warehouses:      warehouseRepo{b},
		Products:        productRepo{b},
		Stock:           stockRepo{b},
		Movements:       movementRepo{b},
		Documents:       documentRepo{b},
		Sequences:       sequenceRepo{b},
		Reconciliations: reconciliationRepo{b},
		Users:           userRepo{b},
	}
}

// Repos repositorios fuera de transacción; cada llamada es atómica por sí sola.
func (s *Store) Repos() repository.Repos {
	return reposFor(backend{store: s})
}

// Run ejecuta fn con repositorios atados a una copia del estado (implementa inventory.TxRunner).
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.st.clone()
	if err := fn(reposFor(backend{store: s, tx: working})); err != nil {
		return err
	}
	s.st = working
	s.committed++
	return nil
}

// FailLogAppends hace que AppendLog devuelva err (nil lo restablece). Útil para probar que
// un fallo de bitácora no revierte una liquidación.
func (s *Store) FailLogAppends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logErr = err
}

// Commits cantidad de transacciones publicadas.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}
