package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"charter_sync/internal/domain"
)

// FreeCabinCriteria returns the stored criteria snapshot while it is younger
// than CriteriaTTL, and refetches it from upstream otherwise. When the refetch
// fails the stale snapshot is served.
func (s *SyncService) FreeCabinCriteria(ctx context.Context) (domain.FreeCabinSearchCriteria, error) {
	var cur domain.FreeCabinSearchCriteria
	err := s.store.Get(ctx, domain.FreeCabinCriteria, domain.CriteriaKey, &cur)
	switch {
	case err == nil && s.now().Sub(cur.FetchedAt) < s.cfg.CriteriaTTL:
		return cur, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return domain.FreeCabinSearchCriteria{}, err
	}

	fresh, ferr := s.refreshCriteria(ctx)
	if ferr != nil {
		if err == nil {
			log.Warn().Err(ferr).Time("fetchedAt", cur.FetchedAt).Msg("serving stale free-cabin criteria")
			return cur, nil
		}
		return domain.FreeCabinSearchCriteria{}, ferr
	}
	return fresh, nil
}

func (s *SyncService) refreshCriteria(ctx context.Context) (domain.FreeCabinSearchCriteria, error) {
	c, err := s.up.FreeCabinSearchCriteria(ctx)
	if err != nil {
		return domain.FreeCabinSearchCriteria{}, err
	}
	c.FetchedAt = s.now()
	c.Touch(c.FetchedAt)
	if err := s.store.Upsert(ctx, domain.FreeCabinCriteria, c.DocKey(), &c); err != nil {
		log.Warn().Err(err).Msg("persist free-cabin criteria failed")
	}
	return c, nil
}

func packageFilter(q domain.CabinPackageQuery) domain.FindQuery {
	fq := domain.FindQuery{Eq: map[string]any{}, Gte: map[string]any{}, Lte: map[string]any{}, Sort: "periodFrom"}
	if !q.From.IsZero() {
		fq.Gte["periodFrom"] = q.From
	}
	if !q.To.IsZero() {
		fq.Lte["periodTo"] = q.To
	}
	if q.CountryID != nil {
		fq.Eq["countryId"] = *q.CountryID
	}
	if q.LocationID != nil {
		fq.Eq["locationFromId"] = *q.LocationID
	}
	if q.CompanyID != nil {
		fq.Eq["companyId"] = *q.CompanyID
	}
	return fq
}

// SearchFreeCabinPackages answers from the local snapshot first. When that
// has no match it asks upstream and persists what comes back.
func (s *SyncService) SearchFreeCabinPackages(ctx context.Context, q domain.CabinPackageQuery) ([]domain.FreeCabinPackage, error) {
	local, err := loadAll[domain.FreeCabinPackage](ctx, s.store, domain.FreeCabinPackages, packageFilter(q))
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		return local, nil
	}

	live, err := s.up.FreeCabinPackages(ctx, q)
	if errors.Is(err, domain.ErrInsufficientData) {
		return []domain.FreeCabinPackage{}, nil
	}
	if err != nil {
		return nil, err
	}
	res := DomainResult{Domain: DomainFreeCabins}
	s.storePackages(ctx, &res, live)
	return live, nil
}

func (s *SyncService) storePackages(ctx context.Context, res *DomainResult, pkgs []domain.FreeCabinPackage) {
	now := s.now()
	res.Fetched += len(pkgs)
	for i := range pkgs {
		pkgs[i].FetchedAt = now
		s.put(ctx, res, domain.FreeCabinPackages, &pkgs[i])
	}
}

// SyncFreeCabins refreshes the criteria snapshot and the packages of the
// configured window.
func (s *SyncService) SyncFreeCabins(ctx context.Context) DomainResult {
	return s.run(ctx, DomainFreeCabins, func(ctx context.Context, res *DomainResult) error {
		var errs []error
		if _, err := s.refreshCriteria(ctx); err != nil {
			errs = append(errs, fmt.Errorf("criteria: %w", err))
		}
		from := s.now()
		pkgs, err := s.up.FreeCabinPackages(ctx, domain.CabinPackageQuery{From: from, To: from.Add(s.cfg.FreeCabinWindow)})
		switch {
		case errors.Is(err, domain.ErrInsufficientData):
			log.Info().Str("domain", DomainFreeCabins).Msg("package search needs narrower criteria, skipping")
		case err != nil:
			errs = append(errs, fmt.Errorf("packages: %w", err))
		default:
			s.storePackages(ctx, res, pkgs)
		}
		return errors.Join(errs...)
	})
}
