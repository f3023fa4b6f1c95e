package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"charter_sync/internal/app"
	"charter_sync/internal/domain"
)

var t0 = time.Date(2024, time.May, 10, 8, 0, 0, 0, time.UTC)

func catalogueUpstream() *fakeUpstream {
	return &fakeUpstream{
		countries: []domain.Country{{ID: 1, Code: "HR", Name: en("Croatia")}},
		regions:   []domain.Region{{ID: 2, CountryID: ptr[int64](1), Name: en("Dalmatia")}},
		companies: []domain.CharterCompany{{ID: 10, Name: en("Blue Charter")}},
		models: []domain.YachtModel{{
			ID: 5, Name: en("Bavaria 46"), BuilderID: ptr[int64](3), CategoryID: ptr[int64](4),
			LOA: ptr(14.3), Beam: ptr(4.35), Draft: ptr(1.9),
			FuelTank: ptr(210.0), WaterTank: ptr(360.0), Cabins: ptr(4),
		}},
		equipment: []domain.Equipment{{ID: 50, Name: en("Autopilot")}},
		services:  []domain.Service{{ID: 60, Name: en("Transit log")}},
	}
}

func newSync(up *fakeUpstream, st *memStore, cfg app.SyncConfig) (*app.SyncService, *fakeCache) {
	c := &fakeCache{}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return t0 }
	}
	return app.NewSyncService(up, st, c, cfg), c
}

func TestSyncCatalogue_IsIdempotent(t *testing.T) {
	up, st := catalogueUpstream(), newMemStore()
	svc, _ := newSync(up, st, app.SyncConfig{})
	ctx := context.Background()

	first := svc.SyncCatalogue(ctx)
	if first.Err != nil {
		t.Fatalf("first run: %v", first.Err)
	}
	second := svc.SyncCatalogue(ctx)
	if second.Err != nil {
		t.Fatalf("second run: %v", second.Err)
	}
	if first.Upserted != 6 || second.Upserted != 6 {
		t.Fatalf("upserted = %d, %d; want 6 each", first.Upserted, second.Upserted)
	}
	for c, want := range map[domain.Collection]int{
		domain.Countries: 1, domain.Regions: 1, domain.CharterCompanies: 1, domain.YachtModels: 1,
	} {
		if got := st.count(c); got != want {
			t.Fatalf("%s has %d documents, want %d", c, got, want)
		}
	}
}

func TestSyncCatalogue_SkipsInvalidRecords(t *testing.T) {
	up, st := catalogueUpstream(), newMemStore()
	up.countries = append(up.countries, domain.Country{ID: 9}) // no name
	svc, _ := newSync(up, st, app.SyncConfig{})

	res := svc.SyncCatalogue(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", res.Skipped)
	}
	if st.count(domain.Countries) != 1 {
		t.Fatalf("invalid country was stored")
	}
}

func TestSyncCatalogue_FetchErrorIsReportedAfterWrites(t *testing.T) {
	up, st := catalogueUpstream(), newMemStore()
	up.catErr = &domain.UpstreamError{Kind: domain.ErrTransport, Endpoint: "catalogue/countries"}
	svc, _ := newSync(up, st, app.SyncConfig{})

	res := svc.SyncCatalogue(context.Background())
	if !errors.Is(res.Err, domain.ErrTransport) {
		t.Fatalf("err = %v, want transport", res.Err)
	}
	if st.count(domain.CharterCompanies) != 1 {
		t.Fatalf("other collections should still be written")
	}
}

func TestSyncYachts_FetchesDetailForSummaries(t *testing.T) {
	up, st := catalogueUpstream(), newMemStore()
	up.listings = map[int64]domain.YachtListing{10: {
		Summaries: true,
		Yachts:    []domain.Yacht{{ID: 100, Name: "Sea", CompanyID: ptr[int64](10)}, {Name: "no id"}},
	}}
	up.details = map[int64]domain.Yacht{100: {ID: 100, Name: "Sea Breeze", Cabins: ptr(3), Length: ptr(12.0)}}
	svc, cache := newSync(up, st, app.SyncConfig{})
	ctx := context.Background()
	svc.SyncCatalogue(ctx)

	res := svc.SyncYachts(ctx)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if up.n("yacht") != 1 {
		t.Fatalf("detail fetches = %d, want 1", up.n("yacht"))
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1 (summary without id)", res.Skipped)
	}
	var y domain.Yacht
	if err := st.Get(ctx, domain.Yachts, "100", &y); err != nil {
		t.Fatalf("get: %v", err)
	}
	if y.Name != "Sea Breeze" || y.CompanyID == nil || *y.CompanyID != 10 {
		t.Fatalf("stored yacht = %+v", y)
	}
	if len(cache.dels) == 0 || cache.dels[0] != "yacht:100" {
		t.Fatalf("cache not invalidated: %v", cache.dels)
	}
}

func TestSyncYachts_BackfillKeepsPopulatedFields(t *testing.T) {
	up, st := catalogueUpstream(), newMemStore()
	up.listings = map[int64]domain.YachtListing{10: {Yachts: []domain.Yacht{{
		ID: 101, Name: "Bavaria 46 Cruiser", CompanyID: ptr[int64](10), Cabins: ptr(4), Beam: ptr(4.2),
	}}}}
	svc, _ := newSync(up, st, app.SyncConfig{})
	ctx := context.Background()
	svc.SyncCatalogue(ctx)

	if res := svc.SyncYachts(ctx); res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	var y domain.Yacht
	if err := st.Get(ctx, domain.Yachts, "101", &y); err != nil {
		t.Fatalf("get: %v", err)
	}
	if y.InferredModelID == nil || *y.InferredModelID != 5 {
		t.Fatalf("inferred model = %v, want 5", y.InferredModelID)
	}
	if *y.Beam != 4.2 {
		t.Fatalf("beam overwritten: %v", *y.Beam)
	}
	if y.Length == nil || *y.Length != 14.3 || y.WaterCapacity == nil || *y.WaterCapacity != 360 {
		t.Fatalf("specs not back-filled: %+v", y)
	}
	if y.BuilderID == nil || *y.BuilderID != 3 {
		t.Fatalf("builder not taken from model: %v", y.BuilderID)
	}
}

func TestApplyModelSpecsToYachts_IsIdempotent(t *testing.T) {
	up, st := catalogueUpstream(), newMemStore()
	svc, _ := newSync(up, st, app.SyncConfig{})
	ctx := context.Background()
	svc.SyncCatalogue(ctx)
	_ = st.Upsert(ctx, domain.Yachts, "7", domain.Yacht{ID: 7, Name: "Bavaria 46", ModelID: ptr[int64](5)})

	if res := svc.ApplyModelSpecsToYachts(ctx); res.Upserted != 1 {
		t.Fatalf("first pass updated %d yachts, want 1", res.Upserted)
	}
	if res := svc.ApplyModelSpecsToYachts(ctx); res.Upserted != 0 {
		t.Fatalf("second pass updated %d yachts, want 0", res.Upserted)
	}
}

func TestSyncReservations_SkipsReversedPeriod(t *testing.T) {
	from, to := t0, t0.AddDate(0, 0, 7)
	up := &fakeUpstream{reservations: []domain.Reservation{
		{ID: 1, YachtID: 100, PeriodFrom: &from, PeriodTo: &to},
		{ID: 2, YachtID: 100, PeriodFrom: &to, PeriodTo: &from},
	}}
	st := newMemStore()
	svc, _ := newSync(up, st, app.SyncConfig{})

	res := svc.SyncReservations(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Upserted != 1 || res.Skipped != 1 {
		t.Fatalf("upserted=%d skipped=%d, want 1/1", res.Upserted, res.Skipped)
	}
	if st.count(domain.Reservations) != 1 {
		t.Fatalf("reservations stored = %d", st.count(domain.Reservations))
	}
}

func TestSyncCrew_NoSecurityCodeIsNoop(t *testing.T) {
	up, st := &fakeUpstream{}, newMemStore()
	_ = st.Upsert(context.Background(), domain.Reservations, "1", domain.Reservation{ID: 1, YachtID: 100})
	svc, _ := newSync(up, st, app.SyncConfig{})

	res := svc.SyncCrew(context.Background())
	if res.Err != nil || res.Upserted != 0 {
		t.Fatalf("res = %+v", res)
	}
	if up.n("crew") != 0 {
		t.Fatalf("crew endpoint called %d times", up.n("crew"))
	}
}

func TestSyncCrew_KeysByReservationAndMember(t *testing.T) {
	up, st := &fakeUpstream{crew: map[int64][]domain.CrewMember{}}, newMemStore()
	ctx := context.Background()
	for _, id := range []int64{1, 2, 3} {
		_ = st.Upsert(ctx, domain.Reservations, domain.Key(id), domain.Reservation{ID: id, YachtID: 100})
		up.crew[id] = []domain.CrewMember{{ReservationID: id, ID: 1, Name: "Ana"}}
	}
	svc, _ := newSync(up, st, app.SyncConfig{CrewSecurityCode: "s3cret", CrewWorkers: 2})

	res := svc.SyncCrew(ctx)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if st.count(domain.CrewMembers) != 3 {
		t.Fatalf("crew documents = %d, want 3", st.count(domain.CrewMembers))
	}
	var m domain.CrewMember
	if err := st.Get(ctx, domain.CrewMembers, "2:1", &m); err != nil {
		t.Fatalf("get 2:1: %v", err)
	}
}

func TestSyncInvoices_TypeFailureIsIsolated(t *testing.T) {
	up := &fakeUpstream{
		invoices: map[domain.InvoiceType][]domain.Invoice{
			domain.InvoiceBase:  {{ID: 1, Items: []domain.InvoiceItem{{Description: "Charter"}, {Description: "Charter"}}}},
			domain.InvoiceOwner: {{ID: 1}},
		},
		invoiceErrs: map[domain.InvoiceType]error{
			domain.InvoiceAgency: &domain.UpstreamError{Kind: domain.ErrUpstreamStatus, HTTPStatus: 500},
		},
	}
	st := newMemStore()
	svc, _ := newSync(up, st, app.SyncConfig{})
	ctx := context.Background()

	res := svc.SyncInvoices(ctx)
	if !errors.Is(res.Err, domain.ErrUpstreamStatus) {
		t.Fatalf("err = %v, want agency failure", res.Err)
	}
	if up.n("invoices:owner") != 1 {
		t.Fatalf("owner invoices not attempted after agency failure")
	}
	if st.count(domain.Invoices) != 2 {
		t.Fatalf("invoices stored = %d, want 2", st.count(domain.Invoices))
	}

	var inv domain.Invoice
	if err := st.Get(ctx, domain.Invoices, "base:1", &inv); err != nil {
		t.Fatalf("get base:1: %v", err)
	}
	a, b := inv.Items[0].ID, inv.Items[1].ID
	if a == "" || b == "" || a == b {
		t.Fatalf("item ids not distinct: %q %q", a, b)
	}

	svc.SyncInvoices(ctx)
	var again domain.Invoice
	_ = st.Get(ctx, domain.Invoices, "base:1", &again)
	if again.Items[0].ID != a || again.Items[1].ID != b {
		t.Fatalf("item ids changed between runs")
	}
}

func TestFreeCabinCriteria_RefetchedOnceStale(t *testing.T) {
	up := &fakeUpstream{criteria: domain.FreeCabinSearchCriteria{Countries: []int64{1}}}
	clk := &clock{t: t0}
	svc, _ := newSync(up, newMemStore(), app.SyncConfig{Now: clk.now})
	ctx := context.Background()

	if _, err := svc.FreeCabinCriteria(ctx); err != nil {
		t.Fatalf("first: %v", err)
	}
	clk.t = t0.Add(30 * time.Minute)
	c, err := svc.FreeCabinCriteria(ctx)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if up.n("criteria") != 1 {
		t.Fatalf("criteria fetched %d times within TTL", up.n("criteria"))
	}
	if len(c.Countries) != 1 {
		t.Fatalf("cached criteria = %+v", c)
	}

	clk.t = t0.Add(90 * time.Minute)
	if _, err := svc.FreeCabinCriteria(ctx); err != nil {
		t.Fatalf("third: %v", err)
	}
	if up.n("criteria") != 2 {
		t.Fatalf("stale criteria not refetched")
	}
}

func TestSearchFreeCabinPackages_LocalFirst(t *testing.T) {
	from, to := t0.AddDate(0, 0, 7), t0.AddDate(0, 0, 14)
	up := &fakeUpstream{packages: []domain.FreeCabinPackage{{
		ID: 7, Name: en("Kornati week"), CountryID: ptr[int64](1), PeriodFrom: &from, PeriodTo: &to,
	}}}
	st := newMemStore()
	svc, _ := newSync(up, st, app.SyncConfig{})
	ctx := context.Background()
	q := domain.CabinPackageQuery{From: t0, To: t0.AddDate(0, 1, 0), CountryID: ptr[int64](1)}

	got, err := svc.SearchFreeCabinPackages(ctx, q)
	if err != nil || len(got) != 1 {
		t.Fatalf("live search = %v, %v", got, err)
	}
	if st.count(domain.FreeCabinPackages) != 1 {
		t.Fatalf("live result not persisted")
	}
	got, err = svc.SearchFreeCabinPackages(ctx, q)
	if err != nil || len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("local search = %v, %v", got, err)
	}
	if up.n("packages") != 1 {
		t.Fatalf("upstream asked %d times, want 1", up.n("packages"))
	}
}
