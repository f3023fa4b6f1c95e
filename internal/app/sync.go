package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"charter_sync/internal/adapters/observability"
	"charter_sync/internal/domain"
)

// Domain names accepted by SyncDomain, in orchestration order.
const (
	DomainCatalogue      = "catalogue"
	DomainYachts         = "yachts"
	DomainReservations   = "reservations"
	DomainCrew           = "crew"
	DomainInvoices       = "invoices"
	DomainContacts       = "contacts"
	DomainJourneys       = "journeys"
	DomainCabinCharter   = "cabin_charter"
	DomainYachtEquipment = "yacht_equipment"
	DomainYachtServices  = "yacht_services"
	DomainYachtPrices    = "yacht_prices"
	DomainYachtRatings   = "yacht_ratings"
	DomainFreeCabins     = "free_cabins"
	DomainModelSpecs     = "model_specs"
)

type SyncConfig struct {
	// CrewSecurityCode unlocks crew lists. Empty disables crew sync.
	CrewSecurityCode string
	CrewWorkers      int
	// CriteriaTTL is how long a free-cabin criteria snapshot is served
	// before it is refetched.
	CriteriaTTL     time.Duration
	FreeCabinWindow time.Duration
	Now             func() time.Time
}

// DomainResult is the outcome of one domain synchronization.
type DomainResult struct {
	Domain   string        `json:"domain"`
	Fetched  int           `json:"fetched"`
	Upserted int           `json:"upserted"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

type SyncService struct {
	up    domain.UpstreamClient
	store domain.DocumentStore
	cache domain.Cache
	cfg   SyncConfig
}

func NewSyncService(up domain.UpstreamClient, store domain.DocumentStore, cache domain.Cache, cfg SyncConfig) *SyncService {
	if cfg.CriteriaTTL <= 0 {
		cfg.CriteriaTTL = time.Hour
	}
	if cfg.FreeCabinWindow <= 0 {
		cfg.FreeCabinWindow = 60 * 24 * time.Hour
	}
	if cfg.CrewWorkers <= 0 {
		cfg.CrewWorkers = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SyncService{up: up, store: store, cache: cache, cfg: cfg}
}

func (s *SyncService) now() time.Time { return s.cfg.Now().UTC() }

// run times fn, logs and records its outcome.
func (s *SyncService) run(ctx context.Context, name string, fn func(context.Context, *DomainResult) error) DomainResult {
	start := time.Now()
	res := DomainResult{Domain: name}
	err := fn(ctx, &res)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
	}
	observability.ObserveSync(name, res.Upserted, res.Skipped, res.Failed, err, res.Duration)

	if errors.Is(err, domain.ErrAuthentication) {
		log.Error().Err(err).Str("domain", name).Msg("upstream rejected credentials")
	}
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Str("domain", name).
		Int("fetched", res.Fetched).
		Int("upserted", res.Upserted).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Dur("took", res.Duration).
		Msg("domain sync finished")
	return res
}

// put validates r and upserts it. Invalid records are skipped, store
// failures counted; neither stops the caller's loop.
func (s *SyncService) put(ctx context.Context, res *DomainResult, c domain.Collection, r domain.Record) bool {
	r.Touch(s.now())
	if err := domain.Validate(r); err != nil {
		res.Skipped++
		log.Warn().Err(err).Str("domain", res.Domain).Str("collection", string(c)).Msg("record rejected")
		return false
	}
	key := r.DocKey()
	if err := s.store.Upsert(ctx, c, key, r); err != nil {
		res.Failed++
		log.Error().Err(err).Str("domain", res.Domain).Str("collection", string(c)).Str("key", key).Msg("upsert failed")
		return false
	}
	res.Upserted++
	return true
}

// putAll upserts items in order.
func putAll[T any, P interface {
	*T
	domain.Record
}](ctx context.Context, s *SyncService, res *DomainResult, c domain.Collection, items []T) {
	if len(items) == 0 {
		log.Warn().Str("domain", res.Domain).Str("collection", string(c)).Msg("upstream returned no records")
		return
	}
	res.Fetched += len(items)
	for i := range items {
		s.put(ctx, res, c, P(&items[i]))
	}
}

// loadAll decodes every document matching q.
func loadAll[T any](ctx context.Context, store domain.DocumentStore, c domain.Collection, q domain.FindQuery) ([]T, error) {
	docs, err := store.Find(ctx, c, q)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	out := make([]T, 0, len(docs))
	for _, b := range docs {
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			log.Warn().Err(err).Str("collection", string(c)).Msg("skipping undecodable document")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *SyncService) companyIDs(ctx context.Context) ([]int64, error) {
	companies, err := loadAll[domain.CharterCompany](ctx, s.store, domain.CharterCompanies, domain.FindQuery{})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// fanout tracks per-item upstream calls of one domain. A domain fails when
// credentials are rejected or when no call succeeded at all.
type fanout struct {
	ok   int
	errs []error
}

func (f *fanout) fail(res *DomainResult, what string, err error) error {
	res.Failed++
	f.errs = append(f.errs, fmt.Errorf("%s: %w", what, err))
	log.Warn().Err(err).Str("domain", res.Domain).Str("item", what).Msg("upstream fetch failed")
	if errors.Is(err, domain.ErrAuthentication) {
		return err
	}
	return nil
}

func (f *fanout) err() error {
	if f.ok == 0 && len(f.errs) > 0 {
		return errors.Join(f.errs...)
	}
	return nil
}

func reservationWindow(now time.Time) domain.ReservationQuery {
	return domain.ReservationQuery{
		From: time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(now.Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func yachtCacheKey(id int64) string { return fmt.Sprintf("yacht:%d", id) }

func (s *SyncService) invalidateYacht(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, yachtCacheKey(id))
}
