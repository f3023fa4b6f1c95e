package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"charter_sync/internal/domain"
)

// fetches collects the errors of concurrent catalogue reads. A failed read
// does not cancel the others.
type fetches struct {
	mu   sync.Mutex
	errs []error
}

func (f *fetches) add(name string, err error) {
	f.mu.Lock()
	f.errs = append(f.errs, fmt.Errorf("%s: %w", name, err))
	f.mu.Unlock()
}

func fetchInto[T any](g *errgroup.Group, f *fetches, name string, fn func() ([]T, error), dst *[]T) {
	g.Go(func() error {
		v, err := fn()
		if err != nil {
			f.add(name, err)
			return nil
		}
		*dst = v
		return nil
	})
}

// SyncCatalogue refreshes reference data. Reads run concurrently, writes are
// sequential in dependency order.
func (s *SyncService) SyncCatalogue(ctx context.Context) DomainResult {
	return s.run(ctx, DomainCatalogue, func(ctx context.Context, res *DomainResult) error {
		var (
			countries  []domain.Country
			regions    []domain.Region
			locations  []domain.Location
			bases      []domain.Base
			equipment  []domain.Equipment
			categories []domain.YachtCategory
			services   []domain.Service
			builders   []domain.YachtBuilder
			companies  []domain.CharterCompany
			models     []domain.YachtModel
			f          fetches
			g          errgroup.Group
		)
		g.SetLimit(4)
		fetchInto(&g, &f, "countries", func() ([]domain.Country, error) { return s.up.Countries(ctx) }, &countries)
		fetchInto(&g, &f, "regions", func() ([]domain.Region, error) { return s.up.Regions(ctx) }, &regions)
		fetchInto(&g, &f, "locations", func() ([]domain.Location, error) { return s.up.Locations(ctx) }, &locations)
		fetchInto(&g, &f, "bases", func() ([]domain.Base, error) { return s.up.Bases(ctx) }, &bases)
		fetchInto(&g, &f, "equipment", func() ([]domain.Equipment, error) { return s.up.Equipment(ctx) }, &equipment)
		fetchInto(&g, &f, "yacht categories", func() ([]domain.YachtCategory, error) { return s.up.YachtCategories(ctx) }, &categories)
		fetchInto(&g, &f, "services", func() ([]domain.Service, error) { return s.up.Services(ctx) }, &services)
		fetchInto(&g, &f, "yacht builders", func() ([]domain.YachtBuilder, error) { return s.up.YachtBuilders(ctx) }, &builders)
		fetchInto(&g, &f, "charter companies", func() ([]domain.CharterCompany, error) { return s.up.CharterCompanies(ctx) }, &companies)
		fetchInto(&g, &f, "yacht models", func() ([]domain.YachtModel, error) { return s.up.YachtModels(ctx) }, &models)
		_ = g.Wait()

		putAll(ctx, s, res, domain.Countries, countries)
		putAll(ctx, s, res, domain.Regions, regions)
		putAll(ctx, s, res, domain.Locations, locations)
		putAll(ctx, s, res, domain.Bases, bases)
		putAll(ctx, s, res, domain.EquipmentItems, equipment)
		putAll(ctx, s, res, domain.YachtCategories, categories)
		putAll(ctx, s, res, domain.Services, services)
		putAll(ctx, s, res, domain.YachtBuilders, builders)
		putAll(ctx, s, res, domain.CharterCompanies, companies)
		putAll(ctx, s, res, domain.YachtModels, models)

		return errors.Join(f.errs...)
	})
}

func (s *SyncService) SyncContacts(ctx context.Context) DomainResult {
	return s.run(ctx, DomainContacts, func(ctx context.Context, res *DomainResult) error {
		contacts, err := s.up.Contacts(ctx)
		if err != nil {
			return fmt.Errorf("contacts: %w", err)
		}
		putAll(ctx, s, res, domain.Contacts, contacts)
		return nil
	})
}

func (s *SyncService) SyncCabinCharter(ctx context.Context) DomainResult {
	return s.run(ctx, DomainCabinCharter, func(ctx context.Context, res *DomainResult) error {
		var errs []error
		if bases, err := s.up.CabinCharterBases(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cabin charter bases: %w", err))
		} else {
			putAll(ctx, s, res, domain.CabinCharterBases, bases)
		}
		if companies, err := s.up.CabinCharterCompanies(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cabin charter companies: %w", err))
		} else {
			putAll(ctx, s, res, domain.CabinCharterCompanies, companies)
		}
		return errors.Join(errs...)
	})
}
