package memory

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*Store)(nil)

// RunBilling serializa las transacciones y restaura el snapshot si fn falla.
// Las lecturas fuera de RunBilling pueden ver escrituras aún no confirmadas.
func (s *Store) RunBilling(ctx context.Context, fn func(
	partnerRepo repository.PartnerRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(s.Partners(), s.Invoices()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
