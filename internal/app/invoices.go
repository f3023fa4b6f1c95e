package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"charter_sync/internal/domain"
)

var invoiceItemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("charter-sync/invoice-item"))

// SyncInvoices syncs every invoice type on its own: one type failing does not
// stop the others.
func (s *SyncService) SyncInvoices(ctx context.Context) DomainResult {
	return s.run(ctx, DomainInvoices, func(ctx context.Context, res *DomainResult) error {
		window := reservationWindow(s.now())
		var errs []error
		for _, t := range domain.InvoiceTypes {
			invoices, err := s.up.Invoices(ctx, domain.InvoiceQuery{Type: t, From: window.From, To: window.To})
			if err != nil {
				errs = append(errs, fmt.Errorf("%s invoices: %w", t, err))
				log.Error().Err(err).Str("domain", DomainInvoices).Str("type", string(t)).Msg("invoice type failed")
				continue
			}
			for i := range invoices {
				invoices[i].Type = t
				assignItemIDs(&invoices[i])
			}
			putAll(ctx, s, res, domain.Invoices, invoices)
		}
		return errors.Join(errs...)
	})
}

// assignItemIDs gives line items without an upstream id a deterministic one,
// so repeated syncs produce the same ids and items stay distinct.
func assignItemIDs(inv *domain.Invoice) {
	for i := range inv.Items {
		it := &inv.Items[i]
		if it.ID != "" {
			continue
		}
		name := fmt.Sprintf("%s:%d:%d:%s", inv.Type, inv.ID, i, it.Description)
		it.ID = uuid.NewSHA1(invoiceItemNamespace, []byte(name)).String()
	}
}
