// Package namehistory resuelve el nombre que tenía un tercero en una fecha
// dada, a partir del registro de cambios de nombre.
//
// Cada modelo declara qué relación hacia el tercero se resuelve con qué campo
// fecha propio; el llamador activa la resolución con WithNameHistory.
package namehistory

import "github.com/jhoicas/facturacion-api/internal/domain/entity"

// FieldMap relación hacia el tercero -> campo fecha del mismo registro.
type FieldMap map[string]string

// Registry tabla estática modelo -> FieldMap. Se arma al iniciar y luego solo se lee.
type Registry struct {
	models map[string]FieldMap
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]FieldMap)}
}

// DefaultRegistry registro con los mapeos de facturación.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(entity.ModelInvoice, FieldMap{
		entity.FieldPartnerID: entity.FieldInvoiceDate,
	})
	r.Register(entity.ModelInvoiceLine, FieldMap{
		entity.FieldPartnerID: entity.FieldNameHistoryInvoiceDate,
	})
	return r
}

// Register agrega (o amplía) el mapeo de un modelo.
func (r *Registry) Register(model string, fields FieldMap) {
	m, ok := r.models[model]
	if !ok {
		m = make(FieldMap, len(fields))
		r.models[model] = m
	}
	for rel, dateField := range fields {
		m[rel] = dateField
	}
}

// DateField devuelve el campo fecha con el que se resuelve relation en model.
func (r *Registry) DateField(model, relation string) (string, bool) {
	m, ok := r.models[model]
	if !ok {
		return "", false
	}
	f, ok := m[relation]
	return f, ok
}
