package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"charter_sync/internal/app"
	"charter_sync/internal/domain"
)

func seedYachts(t *testing.T, st *memStore) {
	t.Helper()
	ctx := context.Background()
	for _, y := range []domain.Yacht{
		{ID: 100, Name: "Sea Breeze", CompanyID: ptr[int64](10), Cabins: ptr(3)},
		{ID: 101, Name: "Salty", CompanyID: ptr[int64](10), Cabins: ptr(4)},
		{ID: 102, Name: "Maestral", CompanyID: ptr[int64](11), Cabins: ptr(5)},
	} {
		if err := st.Upsert(ctx, domain.Yachts, domain.Key(y.ID), y); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGetYacht_CacheMissThenHit(t *testing.T) {
	st, cache := newMemStore(), &fakeCache{}
	seedYachts(t, st)
	q := app.NewQueryService(st, &fakeUpstream{}, cache, time.Minute)
	ctx := context.Background()

	y, err := q.GetYacht(ctx, 100)
	if err != nil || y.Name != "Sea Breeze" {
		t.Fatalf("miss = %+v, %v", y, err)
	}
	if _, ok := cache.store["yacht:100"]; !ok {
		t.Fatalf("yacht not cached")
	}

	delete(st.docs[domain.Yachts], "100")
	y, err = q.GetYacht(ctx, 100)
	if err != nil || y.ID != 100 {
		t.Fatalf("hit = %+v, %v", y, err)
	}

	if _, err := q.GetYacht(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListYachts_Filters(t *testing.T) {
	st := newMemStore()
	seedYachts(t, st)
	q := app.NewQueryService(st, &fakeUpstream{}, nil, 0)

	page, err := q.ListYachts(context.Background(), domain.YachtsQuery{CompanyID: ptr[int64](10), MinCabins: ptr(4)})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != 101 {
		t.Fatalf("page = %+v", page)
	}
}

func TestListYachts_RouteUsesJourneys(t *testing.T) {
	st := newMemStore()
	seedYachts(t, st)
	_ = st.Upsert(context.Background(), domain.Journeys, "1", domain.Journey{
		ID: 1, YachtID: 102, LocationFromID: ptr[int64](20), LocationToID: ptr[int64](21),
	})
	q := app.NewQueryService(st, &fakeUpstream{}, nil, 0)

	page, err := q.ListYachts(context.Background(), domain.YachtsQuery{LocationFromID: ptr[int64](20)})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != 102 {
		t.Fatalf("page = %+v", page)
	}
}

func TestListYachts_Availability(t *testing.T) {
	from, to := t0, t0.AddDate(0, 0, 7)
	query := domain.YachtsQuery{PeriodFrom: &from, PeriodTo: &to}

	t.Run("filtered by free yachts", func(t *testing.T) {
		st := newMemStore()
		seedYachts(t, st)
		up := &fakeUpstream{free: []domain.FreeYacht{{YachtID: 101}}}
		page, err := app.NewQueryService(st, up, nil, 0).ListYachts(context.Background(), query)
		if err != nil {
			t.Fatal(err)
		}
		if !page.AvailabilityFiltered || page.Total != 1 || page.Items[0].ID != 101 {
			t.Fatalf("page = %+v", page)
		}
	})

	t.Run("insufficient data falls back", func(t *testing.T) {
		st := newMemStore()
		seedYachts(t, st)
		up := &fakeUpstream{freeErr: &domain.UpstreamError{Kind: domain.ErrInsufficientData, Status: "INSUFFICIENT_DATA"}}
		page, err := app.NewQueryService(st, up, nil, 0).ListYachts(context.Background(), query)
		if err != nil {
			t.Fatal(err)
		}
		if page.AvailabilityFiltered || page.Total != 3 {
			t.Fatalf("page = %+v", page)
		}
	})

	t.Run("transport failure surfaces", func(t *testing.T) {
		st := newMemStore()
		up := &fakeUpstream{freeErr: &domain.UpstreamError{Kind: domain.ErrTransport}}
		if _, err := app.NewQueryService(st, up, nil, 0).ListYachts(context.Background(), query); !errors.Is(err, domain.ErrTransport) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestListYachts_Paging(t *testing.T) {
	st := newMemStore()
	seedYachts(t, st)
	q := app.NewQueryService(st, &fakeUpstream{}, nil, 0)

	page, err := q.ListYachts(context.Background(), domain.YachtsQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || len(page.Items) != 1 || page.Items[0].ID != 102 {
		t.Fatalf("page = %+v", page)
	}
}

func TestYachtStats(t *testing.T) {
	st := newMemStore()
	seedYachts(t, st)
	q := app.NewQueryService(st, &fakeUpstream{}, nil, 0)

	got, err := q.YachtStats(context.Background(), "charterCompanyId")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Key != "10" || got[0].Count != 2 {
		t.Fatalf("stats = %+v", got)
	}
	if _, err := q.YachtStats(context.Background(), "name; DROP TABLE"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}
