package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"charter_sync/internal/domain"
)

// StatsFields are the yacht fields YachtStats can group by.
var StatsFields = map[string]bool{
	"charterCompanyId": true,
	"baseId":           true,
	"categoryId":       true,
	"builderId":        true,
	"modelId":          true,
	"cabins":           true,
	"buildYear":        true,
}

type QueryService struct {
	store    domain.DocumentStore
	up       domain.UpstreamClient
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(store domain.DocumentStore, up domain.UpstreamClient, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: store, up: up, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetYacht(ctx context.Context, id int64) (domain.Yacht, error) {
	key := yachtCacheKey(id)
	var y domain.Yacht
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &y); ok {
			return y, nil
		}
	}
	if err := s.store.Get(ctx, domain.Yachts, domain.Key(id), &y); err != nil {
		return domain.Yacht{}, err
	}
	if s.cache != nil {
		// optional size guard
		if b, _ := json.Marshal(y); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, key, y, int(s.cacheTTL.Seconds()))
		}
	}
	return y, nil
}

func (s *QueryService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	var r domain.Reservation
	err := s.store.Get(ctx, domain.Reservations, domain.Key(id), &r)
	return r, err
}

// ListYachts filters stored yachts. A route filter goes through journeys; an
// availability period asks upstream for free yachts and, when upstream cannot
// decide (insufficient data), is dropped rather than failing the request.
func (s *QueryService) ListYachts(ctx context.Context, q domain.YachtsQuery) (domain.YachtsPage, error) {
	fq := domain.FindQuery{Eq: map[string]any{}, In: map[string][]any{}, Gte: map[string]any{}, Sort: "id"}
	if q.CompanyID != nil {
		fq.Eq["charterCompanyId"] = *q.CompanyID
	}
	if q.BaseID != nil {
		fq.Eq["baseId"] = *q.BaseID
	}
	if q.CategoryID != nil {
		fq.Eq["categoryId"] = *q.CategoryID
	}
	if q.MinCabins != nil {
		fq.Gte["cabins"] = *q.MinCabins
	}

	var ids map[int64]bool
	if q.LocationFromID != nil || q.LocationToID != nil {
		routeIDs, err := s.routeYachts(ctx, q.LocationFromID, q.LocationToID)
		if err != nil {
			return domain.YachtsPage{}, err
		}
		ids = routeIDs
	}

	page := domain.YachtsPage{Items: []domain.Yacht{}}
	if q.PeriodFrom != nil && q.PeriodTo != nil {
		free, err := s.up.FreeYachts(ctx, *q.PeriodFrom, *q.PeriodTo, nil)
		switch {
		case errors.Is(err, domain.ErrInsufficientData):
			log.Info().Msg("availability undetermined upstream, listing without it")
		case err != nil:
			return domain.YachtsPage{}, fmt.Errorf("free yachts: %w", err)
		default:
			freeIDs := make(map[int64]bool, len(free))
			for _, f := range free {
				if ids == nil || ids[f.YachtID] {
					freeIDs[f.YachtID] = true
				}
			}
			ids = freeIDs
			page.AvailabilityFiltered = true
		}
	}
	if ids != nil {
		in := make([]any, 0, len(ids))
		for id := range ids {
			in = append(in, id)
		}
		fq.In["id"] = in
	}

	total, err := s.store.Count(ctx, domain.Yachts, fq)
	if err != nil {
		return domain.YachtsPage{}, err
	}
	fq.Limit, fq.Offset = q.Limit, q.Offset
	yachts, err := loadAll[domain.Yacht](ctx, s.store, domain.Yachts, fq)
	if err != nil {
		return domain.YachtsPage{}, err
	}
	page.Items = append(page.Items, yachts...)
	page.Total = total
	return page, nil
}

func (s *QueryService) routeYachts(ctx context.Context, from, to *int64) (map[int64]bool, error) {
	jq := domain.FindQuery{Eq: map[string]any{}}
	if from != nil {
		jq.Eq["locationFromId"] = *from
	}
	if to != nil {
		jq.Eq["locationToId"] = *to
	}
	journeys, err := loadAll[domain.Journey](ctx, s.store, domain.Journeys, jq)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]bool, len(journeys))
	for _, j := range journeys {
		out[j.YachtID] = true
	}
	return out, nil
}

// YachtStats counts stored yachts grouped by one field.
func (s *QueryService) YachtStats(ctx context.Context, field string) ([]domain.GroupCount, error) {
	if !StatsFields[field] {
		return nil, fmt.Errorf("%w: cannot group by %q", domain.ErrValidation, field)
	}
	return s.store.GroupCount(ctx, domain.Yachts, field)
}
