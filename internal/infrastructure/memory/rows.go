package memory

import (
	"time"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// Las filas son copias por valor de las entidades; los campos puntero se copian al guardar.

type companyRow entity.Company

type moduleKey struct {
	companyID string
	module    string
}

type moduleRow entity.CompanyModule

type userRow entity.User

type productRow entity.Product

type partnerRow entity.Partner

type changeRow entity.PartnerNameChange

type invoiceRow entity.Invoice

type lineRow entity.InvoiceLine

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
