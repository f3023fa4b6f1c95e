package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"charter_sync/internal/domain"
)

var ErrUnknownDomain = errors.New("unknown sync domain")

// Report summarizes one sync run. It is stored in the sync_runs collection.
type Report struct {
	ID         string         `json:"id"`
	Scope      string         `json:"scope"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Domains    []DomainResult `json:"domains"`
	Failures   int            `json:"failures"`
	Completed  bool           `json:"completed"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type step struct {
	name string
	run  func(context.Context) DomainResult
	// critical steps stop the run: everything after them needs their data.
	critical bool
}

func (s *SyncService) steps() []step {
	return []step{
		{name: DomainCatalogue, run: s.SyncCatalogue, critical: true},
		{name: DomainYachts, run: s.SyncYachts},
		{name: DomainReservations, run: s.SyncReservations},
		{name: DomainCrew, run: s.SyncCrew},
		{name: DomainInvoices, run: s.SyncInvoices},
		{name: DomainContacts, run: s.SyncContacts, critical: true},
		{name: DomainJourneys, run: s.SyncJourneys},
		{name: DomainCabinCharter, run: s.SyncCabinCharter},
		{name: DomainYachtEquipment, run: s.SyncYachtEquipment},
		{name: DomainYachtServices, run: s.SyncYachtServices},
		{name: DomainYachtPrices, run: s.SyncYachtPrices},
		{name: DomainYachtRatings, run: s.SyncYachtRatings},
		{name: DomainFreeCabins, run: s.SyncFreeCabins},
	}
}

// Domains lists the names SyncDomain accepts.
func (s *SyncService) Domains() []string {
	var out []string
	for _, st := range s.steps() {
		out = append(out, st.name)
	}
	return append(out, DomainModelSpecs)
}

// SyncAll runs every domain in dependency order. A failing domain is counted
// and the run goes on, except for catalogue and contacts which end it with an
// error.
func (s *SyncService) SyncAll(ctx context.Context) (Report, error) {
	rep := s.newReport("all")
	log.Info().Str("run", rep.ID).Msg("sync run starting")

	var runErr error
	for _, st := range s.steps() {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("sync interrupted before %s: %w", st.name, err)
			break
		}
		r := st.run(ctx)
		rep.Domains = append(rep.Domains, r)
		if r.Err == nil {
			continue
		}
		rep.Failures++
		if st.critical {
			runErr = fmt.Errorf("sync aborted at %s: %w", st.name, r.Err)
			break
		}
	}
	rep.Completed = runErr == nil
	s.finishReport(ctx, &rep)

	ev := log.Info()
	if runErr != nil {
		ev = log.Error().Err(runErr)
	}
	ev.Str("run", rep.ID).Int("failures", rep.Failures).Bool("completed", rep.Completed).Msg("sync run finished")
	return rep, runErr
}

// SyncDomain runs one domain on its own and records it as a run.
func (s *SyncService) SyncDomain(ctx context.Context, name string) (DomainResult, error) {
	run := s.lookup(name)
	if run == nil {
		return DomainResult{}, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	rep := s.newReport(name)
	r := run(ctx)
	rep.Domains = []DomainResult{r}
	if r.Err != nil {
		rep.Failures = 1
	}
	rep.Completed = true
	s.finishReport(ctx, &rep)
	return r, nil
}

func (s *SyncService) lookup(name string) func(context.Context) DomainResult {
	if name == DomainModelSpecs {
		return s.ApplyModelSpecsToYachts
	}
	for _, st := range s.steps() {
		if st.name == name {
			return st.run
		}
	}
	return nil
}

// LatestRun returns the most recent stored run report.
func (s *SyncService) LatestRun(ctx context.Context) (Report, error) {
	runs, err := loadAll[Report](ctx, s.store, domain.SyncRuns, domain.FindQuery{Sort: "startedAt", Desc: true, Limit: 1})
	if err != nil {
		return Report{}, err
	}
	if len(runs) == 0 {
		return Report{}, domain.ErrNotFound
	}
	return runs[0], nil
}

func (s *SyncService) newReport(scope string) Report {
	return Report{ID: uuid.NewString(), Scope: scope, StartedAt: s.now()}
}

func (s *SyncService) finishReport(ctx context.Context, rep *Report) {
	rep.FinishedAt = s.now()
	rep.UpdatedAt = rep.FinishedAt
	if err := s.store.Upsert(context.WithoutCancel(ctx), domain.SyncRuns, rep.ID, rep); err != nil {
		log.Warn().Err(err).Str("run", rep.ID).Msg("persist sync run failed")
	}
}

// RunScheduled runs scope (a domain name or "all") now and then every
// interval until ctx is done.
func (s *SyncService) RunScheduled(ctx context.Context, every time.Duration, scope string) {
	runOnce := func() {
		if scope == "" || scope == "all" {
			_, _ = s.SyncAll(ctx)
			return
		}
		if _, err := s.SyncDomain(ctx, scope); err != nil {
			log.Error().Err(err).Str("scope", scope).Msg("scheduled sync failed")
		}
	}

	runOnce()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler stopped")
			return
		case <-t.C:
			runOnce()
		}
	}
}
