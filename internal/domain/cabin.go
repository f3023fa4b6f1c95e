package domain

import "time"

type CabinCharterBase struct {
	ID         int64            `json:"id" validate:"required,gt=0"`
	Name       MultilingualText `json:"name" validate:"required,multilingual"`
	CompanyID  *int64           `json:"companyId,omitempty"`
	LocationID *int64           `json:"locationId,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type CabinCharterCompany struct {
	ID        int64            `json:"id" validate:"required,gt=0"`
	Name      MultilingualText `json:"name" validate:"required,multilingual"`
	CountryID *int64           `json:"countryId,omitempty"`
	Email     string           `json:"email,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// FreeCabinPackage is a cached upstream cabin-charter availability snapshot.
type FreeCabinPackage struct {
	ID             int64            `json:"id" validate:"required,gt=0"`
	Name           MultilingualText `json:"name,omitempty"`
	CompanyID      *int64           `json:"companyId,omitempty"`
	YachtID        *int64           `json:"yachtId,omitempty"`
	CountryID      *int64           `json:"countryId,omitempty"`
	LocationFromID *int64           `json:"locationFromId,omitempty"`
	LocationToID   *int64           `json:"locationToId,omitempty"`
	PeriodFrom     *time.Time       `json:"periodFrom,omitempty"`
	PeriodTo       *time.Time       `json:"periodTo,omitempty"`
	Cabins         []CabinOffer     `json:"cabins,omitempty" validate:"dive"`
	Price          *float64         `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency       string           `json:"currency,omitempty"`
	FetchedAt      time.Time        `json:"fetchedAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type CabinOffer struct {
	CabinType string   `json:"cabinType,omitempty"`
	Free      *int     `json:"free,omitempty" validate:"omitempty,gte=0"`
	Berths    *int     `json:"berths,omitempty" validate:"omitempty,gte=0"`
	Price     *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// FreeCabinSearchCriteria lists the values the upstream accepts in a
// package search. It is cached and refreshed once stale.
type FreeCabinSearchCriteria struct {
	Countries []int64   `json:"countries,omitempty"`
	Regions   []int64   `json:"regions,omitempty"`
	Locations []int64   `json:"locations,omitempty"`
	Companies []int64   `json:"companies,omitempty"`
	Yachts    []int64   `json:"yachts,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CabinPackageQuery filters package searches, locally and upstream.
type CabinPackageQuery struct {
	From       time.Time
	To         time.Time
	CountryID  *int64
	LocationID *int64
	CompanyID  *int64
}
