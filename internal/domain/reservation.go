package domain

import "time"

type Reservation struct {
	ID                int64      `json:"id" validate:"required,gt=0"`
	UUID              string     `json:"uuid,omitempty"`
	YachtID           int64      `json:"yachtId" validate:"required,gt=0"`
	CompanyID         *int64     `json:"charterCompanyId,omitempty"`
	AgencyID          *int64     `json:"agencyId,omitempty"`
	ClientID          *int64     `json:"clientId,omitempty"`
	Status            string     `json:"reservationStatus,omitempty"`
	PeriodFrom        *time.Time `json:"periodFrom,omitempty"`
	PeriodTo          *time.Time `json:"periodTo,omitempty"`
	LocationFromID    *int64     `json:"locationFromId,omitempty"`
	LocationToID      *int64     `json:"locationToId,omitempty"`
	BaseFromID        *int64     `json:"baseFromId,omitempty"`
	BaseToID          *int64     `json:"baseToId,omitempty"`
	OptionExpiry      *time.Time `json:"optionExpiry,omitempty"`
	CreatedAtUpstream *time.Time `json:"createdAtUpstream,omitempty"`

	PriceListPrice *float64 `json:"priceListPrice,omitempty"`
	AgencyPrice    *float64 `json:"agencyPrice,omitempty"`
	ClientPrice    *float64 `json:"clientPrice,omitempty"`
	Deposit        *float64 `json:"deposit,omitempty"`
	Currency       string   `json:"currency,omitempty"`

	Discounts   []Discount             `json:"discounts,omitempty" validate:"dive"`
	Services    []ReservationService   `json:"services,omitempty" validate:"dive"`
	Equipment   []ReservationEquipment `json:"equipment,omitempty" validate:"dive"`
	PaymentPlan []PaymentPlanItem      `json:"paymentPlan,omitempty" validate:"dive"`
	Payments    []Payment              `json:"payments,omitempty" validate:"dive"`
	Comments    []Comment              `json:"comments,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

type Discount struct {
	ID     *int64           `json:"id,omitempty"`
	Name   MultilingualText `json:"name,omitempty"`
	Amount *float64         `json:"amount,omitempty"`
	Type   string           `json:"type,omitempty"`
}

type ReservationService struct {
	ServiceID  int64    `json:"serviceId" validate:"required,gt=0"`
	Price      *float64 `json:"price,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Currency   string   `json:"currency,omitempty"`
	Obligatory bool     `json:"obligatory"`
}

type ReservationEquipment struct {
	EquipmentID int64    `json:"equipmentId" validate:"required,gt=0"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Currency    string   `json:"currency,omitempty"`
}

type PaymentPlanItem struct {
	Date   *time.Time `json:"date,omitempty"`
	Amount *float64   `json:"amount,omitempty"`
}

type Payment struct {
	ID       *int64     `json:"id,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
	Currency string     `json:"currency,omitempty"`
}

type Comment struct {
	Text    string     `json:"text"`
	Author  string     `json:"author,omitempty"`
	Created *time.Time `json:"created,omitempty"`
}

// ReservationQuery bounds an upstream reservation fetch.
type ReservationQuery struct {
	From time.Time
	To   time.Time
}

// Occupancy is a company-year calendar entry for one yacht.
type Occupancy struct {
	CompanyID     int64      `json:"charterCompanyId" validate:"required,gt=0"`
	ReservationID int64      `json:"reservationId" validate:"required,gt=0"`
	YachtID       int64      `json:"yachtId" validate:"required,gt=0"`
	Status        string     `json:"reservationStatus,omitempty"`
	PeriodFrom    *time.Time `json:"periodFrom,omitempty"`
	PeriodTo      *time.Time `json:"periodTo,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CrewMember is unique per (ReservationID, ID).
type CrewMember struct {
	ReservationID  int64      `json:"reservationId" validate:"required,gt=0"`
	ID             int64      `json:"id" validate:"required,gt=0"`
	Name           string     `json:"name,omitempty"`
	Surname        string     `json:"surname,omitempty"`
	Sex            string     `json:"sex,omitempty"`
	Nationality    *int64     `json:"nationalityCountryId,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	PlaceOfBirth   string     `json:"placeOfBirth,omitempty"`
	DocumentType   string     `json:"documentType,omitempty"`
	DocumentNumber string     `json:"documentNumber,omitempty"`
	Skipper        bool       `json:"skipper"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Journey is an upstream option (held reservation) used for route filtering.
type Journey struct {
	ID             int64      `json:"id" validate:"required,gt=0"`
	YachtID        int64      `json:"yachtId" validate:"required,gt=0"`
	BaseFromID     *int64     `json:"baseFromId,omitempty"`
	BaseToID       *int64     `json:"baseToId,omitempty"`
	LocationFromID *int64     `json:"locationFromId,omitempty"`
	LocationToID   *int64     `json:"locationToId,omitempty"`
	PeriodFrom     *time.Time `json:"periodFrom,omitempty"`
	PeriodTo       *time.Time `json:"periodTo,omitempty"`
	OptionExpiry   *time.Time `json:"optionExpiry,omitempty"`
	Status         string     `json:"reservationStatus,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	ClientPrice    *float64   `json:"clientPrice,omitempty"`
	Currency       string     `json:"currency,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
