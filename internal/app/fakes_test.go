package app_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"charter_sync/internal/domain"
)

// ---- in-memory document store ----

type memStore struct {
	mu      sync.Mutex
	docs    map[domain.Collection]map[string][]byte
	upserts int
}

func newMemStore() *memStore {
	return &memStore{docs: map[domain.Collection]map[string][]byte{}}
}

func (m *memStore) Upsert(ctx context.Context, c domain.Collection, key string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[c] == nil {
		m.docs[c] = map[string][]byte{}
	}
	m.docs[c][key] = b
	m.upserts++
	return nil
}

func (m *memStore) Get(ctx context.Context, c domain.Collection, key string, dst any) error {
	m.mu.Lock()
	b, ok := m.docs[c][key]
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	return json.Unmarshal(b, dst)
}

func (m *memStore) count(c domain.Collection) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[c])
}

type memDoc struct {
	key  string
	raw  []byte
	body map[string]any
}

func (m *memStore) match(c domain.Collection, q domain.FindQuery) []memDoc {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []memDoc
	for k, b := range m.docs[c] {
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		if matches(body, q) {
			out = append(out, memDoc{key: k, raw: b, body: body})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Sort != "" {
			a, b := field(out[i].body, q.Sort), field(out[j].body, q.Sort)
			if cmp := compare(a, b); cmp != 0 {
				if q.Desc {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return out[i].key < out[j].key
	})
	return out
}

func (m *memStore) Find(ctx context.Context, c domain.Collection, q domain.FindQuery) ([][]byte, error) {
	docs := m.match(c, q)
	if q.Offset > 0 {
		if q.Offset >= len(docs) {
			docs = nil
		} else {
			docs = docs[q.Offset:]
		}
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	out := make([][]byte, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.raw)
	}
	return out, nil
}

func (m *memStore) Count(ctx context.Context, c domain.Collection, q domain.FindQuery) (int, error) {
	return len(m.match(c, q)), nil
}

func (m *memStore) GroupCount(ctx context.Context, c domain.Collection, f string) ([]domain.GroupCount, error) {
	counts := map[string]int{}
	for _, d := range m.match(c, domain.FindQuery{}) {
		v := field(d.body, f)
		k := ""
		if v != nil {
			k = text(v)
		}
		counts[k]++
	}
	out := make([]domain.GroupCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.GroupCount{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func field(body map[string]any, path string) any {
	var cur any = body
	for _, p := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

func text(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func num(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func compare(a, b any) int {
	if x, ok := num(a); ok {
		if y, ok := num(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(text(a), text(b))
}

func matches(body map[string]any, q domain.FindQuery) bool {
	for f, want := range q.Eq {
		v := field(body, f)
		if v == nil || text(v) != text(want) {
			return false
		}
	}
	for f, set := range q.In {
		v := field(body, f)
		found := false
		for _, want := range set {
			if v != nil && text(v) == text(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for f, bound := range q.Gte {
		if v := field(body, f); v == nil || rangeCmp(v, bound) < 0 {
			return false
		}
	}
	for f, bound := range q.Lte {
		if v := field(body, f); v == nil || rangeCmp(v, bound) > 0 {
			return false
		}
	}
	return true
}

func rangeCmp(v, bound any) int {
	if t, ok := bound.(time.Time); ok {
		s, _ := v.(string)
		got, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return -1
		}
		return got.Compare(t)
	}
	return compare(v, bound)
}

// ---- scripted upstream ----

type fakeUpstream struct {
	mu    sync.Mutex
	calls map[string]int

	countries []domain.Country
	regions   []domain.Region
	companies []domain.CharterCompany
	models    []domain.YachtModel
	equipment []domain.Equipment
	services  []domain.Service
	catErr    error

	listings map[int64]domain.YachtListing
	details  map[int64]domain.Yacht

	reservations []domain.Reservation
	options      []domain.Journey
	crew         map[int64][]domain.CrewMember
	contacts     []domain.Contact
	contactsErr  error

	invoices    map[domain.InvoiceType][]domain.Invoice
	invoiceErrs map[domain.InvoiceType]error

	free    []domain.FreeYacht
	freeErr error

	criteria domain.FreeCabinSearchCriteria
	packages []domain.FreeCabinPackage
	prices   []domain.YachtPrice
	ratings  []domain.YachtRating
}

func (f *fakeUpstream) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeUpstream) n(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeUpstream) CharterCompanies(ctx context.Context) ([]domain.CharterCompany, error) {
	f.hit("companies")
	return f.companies, nil
}
func (f *fakeUpstream) YachtCategories(ctx context.Context) ([]domain.YachtCategory, error) {
	return nil, nil
}
func (f *fakeUpstream) YachtBuilders(ctx context.Context) ([]domain.YachtBuilder, error) {
	return nil, nil
}
func (f *fakeUpstream) YachtModels(ctx context.Context) ([]domain.YachtModel, error) {
	return f.models, nil
}
func (f *fakeUpstream) Bases(ctx context.Context) ([]domain.Base, error) { return nil, nil }
func (f *fakeUpstream) Countries(ctx context.Context) ([]domain.Country, error) {
	f.hit("countries")
	return f.countries, f.catErr
}
func (f *fakeUpstream) Regions(ctx context.Context) ([]domain.Region, error) { return f.regions, nil }
func (f *fakeUpstream) Locations(ctx context.Context) ([]domain.Location, error) {
	return nil, nil
}
func (f *fakeUpstream) Equipment(ctx context.Context) ([]domain.Equipment, error) {
	return f.equipment, nil
}
func (f *fakeUpstream) Services(ctx context.Context) ([]domain.Service, error) {
	return f.services, nil
}

func (f *fakeUpstream) Yachts(ctx context.Context, companyID int64) (domain.YachtListing, error) {
	f.hit("yachts")
	return f.listings[companyID], nil
}
func (f *fakeUpstream) Yacht(ctx context.Context, id int64) (domain.Yacht, error) {
	f.hit("yacht")
	y, ok := f.details[id]
	if !ok {
		return domain.Yacht{}, domain.ErrNotFound
	}
	return y, nil
}
func (f *fakeUpstream) YachtPrices(ctx context.Context, companyID int64) ([]domain.YachtPrice, error) {
	return f.prices, nil
}
func (f *fakeUpstream) YachtRatings(ctx context.Context, companyID int64) ([]domain.YachtRating, error) {
	return f.ratings, nil
}

func (f *fakeUpstream) Reservations(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	return f.reservations, nil
}
func (f *fakeUpstream) Occupancy(ctx context.Context, companyID int64, year int) ([]domain.Occupancy, error) {
	return nil, nil
}
func (f *fakeUpstream) CrewList(ctx context.Context, reservationID int64, code string) ([]domain.CrewMember, error) {
	f.hit("crew")
	return f.crew[reservationID], nil
}
func (f *fakeUpstream) Options(ctx context.Context, q domain.ReservationQuery) ([]domain.Journey, error) {
	return f.options, nil
}
func (f *fakeUpstream) FreeYachts(ctx context.Context, from, to time.Time, ids []int64) ([]domain.FreeYacht, error) {
	f.hit("free")
	return f.free, f.freeErr
}

func (f *fakeUpstream) Invoices(ctx context.Context, q domain.InvoiceQuery) ([]domain.Invoice, error) {
	f.hit("invoices:" + string(q.Type))
	if err := f.invoiceErrs[q.Type]; err != nil {
		return nil, err
	}
	// hand out copies so the caller's id assignment is observable per run
	src := f.invoices[q.Type]
	out := make([]domain.Invoice, len(src))
	for i, inv := range src {
		inv.Items = append([]domain.InvoiceItem(nil), inv.Items...)
		out[i] = inv
	}
	return out, nil
}
func (f *fakeUpstream) Contacts(ctx context.Context) ([]domain.Contact, error) {
	return f.contacts, f.contactsErr
}

func (f *fakeUpstream) CabinCharterBases(ctx context.Context) ([]domain.CabinCharterBase, error) {
	return nil, nil
}
func (f *fakeUpstream) CabinCharterCompanies(ctx context.Context) ([]domain.CabinCharterCompany, error) {
	return nil, nil
}
func (f *fakeUpstream) FreeCabinPackages(ctx context.Context, q domain.CabinPackageQuery) ([]domain.FreeCabinPackage, error) {
	f.hit("packages")
	return append([]domain.FreeCabinPackage(nil), f.packages...), nil
}
func (f *fakeUpstream) FreeCabinSearchCriteria(ctx context.Context) (domain.FreeCabinSearchCriteria, error) {
	f.hit("criteria")
	return f.criteria, nil
}

// ---- cache ----

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Yacht:
		*d = v.(domain.Yacht)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- helpers ----

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func ptr[T any](v T) *T { return &v }

func en(s string) domain.MultilingualText { return domain.Text(s) }
