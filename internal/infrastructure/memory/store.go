// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory (desarrollo local) y como doble en las pruebas.
package memory

import (
	"maps"
	"slices"
	"sync"
)

// Store contiene todas las tablas en memoria. Cada tabla guarda valores (no punteros)
// para que las lecturas devuelvan copias y el snapshot de RunBilling sea barato.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	companies map[string]companyRow
	modules   map[moduleKey]moduleRow
	users     map[string]userRow
	products  map[string]productRow
	partners  map[string]partnerRow
	changes   []changeRow // orden de registro
	invoices  map[string]invoiceRow
	lines     []lineRow // orden de registro
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		companies: make(map[string]companyRow),
		modules:   make(map[moduleKey]moduleRow),
		users:     make(map[string]userRow),
		products:  make(map[string]productRow),
		partners:  make(map[string]partnerRow),
		invoices:  make(map[string]invoiceRow),
	}
}

// Companies devuelve el repositorio de empresas.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Partners devuelve el repositorio de terceros.
func (s *Store) Partners() *PartnerRepo { return &PartnerRepo{s: s} }

// Invoices devuelve el repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// billingSnapshot copia de las tablas que toca RunBilling.
type billingSnapshot struct {
	partners map[string]partnerRow
	changes  []changeRow
	invoices map[string]invoiceRow
	lines    []lineRow
}

func (s *Store) snapshot() billingSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return billingSnapshot{
		partners: maps.Clone(s.partners),
		changes:  slices.Clone(s.changes),
		invoices: maps.Clone(s.invoices),
		lines:    slices.Clone(s.lines),
	}
}

func (s *Store) restore(snap billingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners = snap.partners
	s.changes = snap.changes
	s.invoices = snap.invoices
	s.lines = snap.lines
}
