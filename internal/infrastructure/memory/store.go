// Package memory implementa los puertos de persistencia en proceso, para pruebas y modo demo.
//
// Una transacción toma el candado del Store durante todo el callback y trabaja sobre una copia del
// estado que solo se publica si el callback termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/inventory"
)

var _ ports.TxRunner = (*TxRunner)(nil)

type state struct {
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	balances   map[inventory.PairKey]entity.InventoryBalance
	movements  []entity.StockMovement
	lastMovID  int64
	sales      map[string]*entity.SalesTransaction
	imports    map[string]*entity.ImportShipment
	employees  map[string]entity.Employee
	payroll    map[string]entity.PayrollRecord
	purchases  map[string]entity.PurchaseInvoice
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		balances:   map[inventory.PairKey]entity.InventoryBalance{},
		sales:      map[string]*entity.SalesTransaction{},
		imports:    map[string]*entity.ImportShipment{},
		employees:  map[string]entity.Employee{},
		payroll:    map[string]entity.PayrollRecord{},
		purchases:  map[string]entity.PurchaseInvoice{},
	}
}

// clone copia el estado; movements es append-only, así que basta con recortar la capacidad.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	c.movements = s.movements[:len(s.movements):len(s.movements)]
	c.lastMovID = s.lastMovID
	for k, v := range s.sales {
		c.sales[k] = v.Clone()
	}
	for k, v := range s.imports {
		c.imports[k] = v.Clone()
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.payroll {
		c.payroll[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view da acceso al estado: el de la transacción en curso o el publicado (bajo candado).
type view struct {
	store *Store
	tx    *state
}

func (v view) with(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

// TxRunner transacciones en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run serializa la transacción completa. Dentro de fn solo deben usarse los repos recibidos.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	staged := r.store.st.clone()
	v := view{store: r.store, tx: staged}
	if err := fn(ports.Repos{
		Movements: &StockMovementRepository{v},
		Stock:     &StockRepository{v},
		Products:  &ProductRepository{v},
		Sales:     &SalesRepository{v},
		Imports:   &ImportRepository{v},
	}); err != nil {
		return err
	}
	r.store.st = staged
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepository { return &ProductRepository{view{store: s}} }

// Warehouses repositorio de almacenes.
func (s *Store) Warehouses() *WarehouseRepository { return &WarehouseRepository{view{store: s}} }

// Stock repositorio de saldos fuera de transacción.
func (s *Store) Stock() *StockRepository { return &StockRepository{view{store: s}} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() *StockMovementRepository { return &StockMovementRepository{view{store: s}} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SalesRepository { return &SalesRepository{view{store: s}} }

// Imports repositorio de importaciones fuera de transacción.
func (s *Store) Imports() *ImportRepository { return &ImportRepository{view{store: s}} }

// Employees repositorio de trabajadores.
func (s *Store) Employees() *EmployeeRepository { return &EmployeeRepository{view{store: s}} }

// Payroll repositorio de planillas.
func (s *Store) Payroll() *PayrollRepository { return &PayrollRepository{view{store: s}} }

// Purchases repositorio de compras.
func (s *Store) Purchases() *PurchaseRepository { return &PurchaseRepository{view{store: s}} }

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
