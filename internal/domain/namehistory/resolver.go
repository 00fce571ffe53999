package namehistory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// Dated registro que expone sus campos fecha por nombre.
type Dated interface {
	FieldDate(field string) (time.Time, bool)
}

// HistoryReader fuente de los cambios de nombre de un tercero.
type HistoryReader interface {
	ListNameChanges(ctx context.Context, partnerID string) ([]*entity.PartnerNameChange, error)
}

// NameAt devuelve el nombre vigente en asOf.
//
// Rige el NewName del cambio más reciente con ChangeDate <= asOf (a igual fecha,
// el último registrado). Si asOf es anterior a todos los cambios rige el OldName
// del primero, es decir el nombre original. Sin cambios, current.
func NameAt(current string, changes []*entity.PartnerNameChange, asOf time.Time) string {
	if len(changes) == 0 {
		return current
	}
	sorted := make([]*entity.PartnerNameChange, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateOnly(sorted[i].ChangeDate).Before(dateOnly(sorted[j].ChangeDate))
	})
	day := dateOnly(asOf)
	name := sorted[0].OldName
	for _, ch := range sorted {
		if dateOnly(ch.ChangeDate).After(day) {
			break
		}
		name = ch.NewName
	}
	return name
}

// Resolver aplica el Registry para leer el nombre del tercero de un registro.
type Resolver struct {
	registry *Registry
	history  HistoryReader
}

// NewResolver construye el resolver.
func NewResolver(registry *Registry, history HistoryReader) *Resolver {
	return &Resolver{registry: registry, history: history}
}

// PartnerName devuelve el nombre de partner visto desde rec (un registro de model
// que apunta al tercero mediante relation).
// Sin el flag del contexto, o sin mapeo o fecha, devuelve el nombre vigente.
func (r *Resolver) PartnerName(ctx context.Context, model string, rec Dated, relation string, partner *entity.Partner) (string, error) {
	if partner == nil {
		return "", nil
	}
	if !Enabled(ctx) {
		return partner.Name, nil
	}
	field, ok := r.registry.DateField(model, relation)
	if !ok {
		return partner.Name, nil
	}
	asOf, ok := rec.FieldDate(field)
	if !ok {
		return partner.Name, nil
	}
	changes, err := r.history.ListNameChanges(ctx, partner.ID)
	if err != nil {
		return "", fmt.Errorf("historial de nombres de %s: %w", partner.ID, err)
	}
	return NameAt(partner.Name, changes, asOf), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ForRequest devuelve un resolver que lee el historial de cada tercero una sola vez.
// No es seguro para uso concurrente; pensado para armar una respuesta.
func (r *Resolver) ForRequest() *Resolver {
	return &Resolver{
		registry: r.registry,
		history:  &memoReader{next: r.history, cache: make(map[string][]*entity.PartnerNameChange)},
	}
}

type memoReader struct {
	next  HistoryReader
	cache map[string][]*entity.PartnerNameChange
}

func (m *memoReader) ListNameChanges(ctx context.Context, partnerID string) ([]*entity.PartnerNameChange, error) {
	if changes, ok := m.cache[partnerID]; ok {
		return changes, nil
	}
	changes, err := m.next.ListNameChanges(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	m.cache[partnerID] = changes
	return changes, nil
}
