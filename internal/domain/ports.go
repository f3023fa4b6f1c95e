package domain

import (
	"context"
	"time"
)

// DocumentStore is the persistent store: upsert-by-key, find and grouping.
type DocumentStore interface {
	Upsert(ctx context.Context, c Collection, key string, doc any) error
	Get(ctx context.Context, c Collection, key string, dst any) error
	Find(ctx context.Context, c Collection, q FindQuery) ([][]byte, error)
	Count(ctx context.Context, c Collection, q FindQuery) (int, error)
	GroupCount(ctx context.Context, c Collection, field string) ([]GroupCount, error)
}

// UpstreamClient returns canonical entities decoded from the charter provider.
type UpstreamClient interface {
	CharterCompanies(ctx context.Context) ([]CharterCompany, error)
	YachtCategories(ctx context.Context) ([]YachtCategory, error)
	YachtBuilders(ctx context.Context) ([]YachtBuilder, error)
	YachtModels(ctx context.Context) ([]YachtModel, error)
	Bases(ctx context.Context) ([]Base, error)
	Countries(ctx context.Context) ([]Country, error)
	Regions(ctx context.Context) ([]Region, error)
	Locations(ctx context.Context) ([]Location, error)
	Equipment(ctx context.Context) ([]Equipment, error)
	Services(ctx context.Context) ([]Service, error)

	Yachts(ctx context.Context, companyID int64) (YachtListing, error)
	Yacht(ctx context.Context, id int64) (Yacht, error)
	YachtPrices(ctx context.Context, companyID int64) ([]YachtPrice, error)
	YachtRatings(ctx context.Context, companyID int64) ([]YachtRating, error)

	Reservations(ctx context.Context, q ReservationQuery) ([]Reservation, error)
	Occupancy(ctx context.Context, companyID int64, year int) ([]Occupancy, error)
	CrewList(ctx context.Context, reservationID int64, securityCode string) ([]CrewMember, error)
	Options(ctx context.Context, q ReservationQuery) ([]Journey, error)
	FreeYachts(ctx context.Context, from, to time.Time, yachtIDs []int64) ([]FreeYacht, error)

	Invoices(ctx context.Context, q InvoiceQuery) ([]Invoice, error)
	Contacts(ctx context.Context) ([]Contact, error)

	CabinCharterBases(ctx context.Context) ([]CabinCharterBase, error)
	CabinCharterCompanies(ctx context.Context) ([]CabinCharterCompany, error)
	FreeCabinPackages(ctx context.Context, q CabinPackageQuery) ([]FreeCabinPackage, error)
	FreeCabinSearchCriteria(ctx context.Context) (FreeCabinSearchCriteria, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models & queries

type YachtsQuery struct {
	CompanyID      *int64
	BaseID         *int64
	CategoryID     *int64
	MinCabins      *int
	LocationFromID *int64
	LocationToID   *int64
	PeriodFrom     *time.Time
	PeriodTo       *time.Time
	Limit          int
	Offset         int
}

type YachtsPage struct {
	Items []Yacht `json:"items"`
	Total int     `json:"total"`
	// AvailabilityFiltered is false when the upstream could not determine
	// availability and the list is unfiltered by period.
	AvailabilityFiltered bool `json:"availabilityFiltered"`
}
