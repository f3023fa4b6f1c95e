package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"charter_sync/internal/domain"
)

// SyncReservations pulls reservations in the default window and the current
// year's occupancy of every charter company.
func (s *SyncService) SyncReservations(ctx context.Context) DomainResult {
	return s.run(ctx, DomainReservations, func(ctx context.Context, res *DomainResult) error {
		rs, err := s.up.Reservations(ctx, reservationWindow(s.now()))
		if err != nil {
			return fmt.Errorf("reservations: %w", err)
		}
		putAll(ctx, s, res, domain.Reservations, rs)

		companies, err := s.companyIDs(ctx)
		if err != nil {
			return err
		}
		year := s.now().Year()
		var f fanout
		for _, cid := range companies {
			occ, err := s.up.Occupancy(ctx, cid, year)
			if err != nil {
				if errors.Is(err, domain.ErrInsufficientData) {
					continue
				}
				if ferr := f.fail(res, fmt.Sprintf("occupancy %d", cid), err); ferr != nil {
					return ferr
				}
				continue
			}
			f.ok++
			putAll(ctx, s, res, domain.Occupancies, occ)
		}
		return f.err()
	})
}

// SyncCrew fetches crew lists of stored reservations. Without a security code
// it does nothing.
func (s *SyncService) SyncCrew(ctx context.Context) DomainResult {
	return s.run(ctx, DomainCrew, func(ctx context.Context, res *DomainResult) error {
		if s.cfg.CrewSecurityCode == "" {
			log.Info().Str("domain", DomainCrew).Msg("no crew security code configured, skipping")
			return nil
		}
		reservations, err := loadAll[domain.Reservation](ctx, s.store, domain.Reservations, domain.FindQuery{Sort: "id"})
		if err != nil {
			return err
		}

		// fetch with bounded concurrency, write in reservation order
		lists := make([][]domain.CrewMember, len(reservations))
		errs := make([]error, len(reservations))
		sem := semaphore.NewWeighted(int64(s.cfg.CrewWorkers))
		var wg sync.WaitGroup
		for i, r := range reservations {
			if err := sem.Acquire(ctx, 1); err != nil {
				errs[i] = err
				break
			}
			i, r := i, r
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)
				lists[i], errs[i] = s.up.CrewList(ctx, r.ID, s.cfg.CrewSecurityCode)
			}()
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return err
		}

		var f fanout
		for i, r := range reservations {
			if err := errs[i]; err != nil {
				if errors.Is(err, domain.ErrInsufficientData) {
					continue
				}
				if ferr := f.fail(res, fmt.Sprintf("reservation %d", r.ID), err); ferr != nil {
					return ferr
				}
				continue
			}
			f.ok++
			res.Fetched += len(lists[i])
			for j := range lists[i] {
				s.put(ctx, res, domain.CrewMembers, &lists[i][j])
			}
		}
		return f.err()
	})
}

// SyncJourneys maps upstream options into journeys.
func (s *SyncService) SyncJourneys(ctx context.Context) DomainResult {
	return s.run(ctx, DomainJourneys, func(ctx context.Context, res *DomainResult) error {
		js, err := s.up.Options(ctx, reservationWindow(s.now()))
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		putAll(ctx, s, res, domain.Journeys, js)
		return nil
	})
}
