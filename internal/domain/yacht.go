package domain

import "time"

// YachtModel is a builder's model with its hull specifications. Spec fields
// are finite non-negative numbers or nil.
type YachtModel struct {
	ID            int64            `json:"id" validate:"required,gt=0"`
	Name          MultilingualText `json:"name" validate:"required,multilingual"`
	BuilderID     *int64           `json:"builderId,omitempty"`
	CategoryID    *int64           `json:"categoryId,omitempty"`
	LOA           *float64         `json:"loa,omitempty" validate:"omitempty,gte=0"`
	Beam          *float64         `json:"beam,omitempty" validate:"omitempty,gte=0"`
	Draft         *float64         `json:"draft,omitempty" validate:"omitempty,gte=0"`
	Cabins        *int             `json:"cabins,omitempty" validate:"omitempty,gte=0"`
	WC            *int             `json:"wc,omitempty" validate:"omitempty,gte=0"`
	WaterTank     *float64         `json:"waterTank,omitempty" validate:"omitempty,gte=0"`
	FuelTank      *float64         `json:"fuelTank,omitempty" validate:"omitempty,gte=0"`
	Displacement  *float64         `json:"displacement,omitempty" validate:"omitempty,gte=0"`
	VirtualLength *float64         `json:"virtualLength,omitempty" validate:"omitempty,gte=0"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type Yacht struct {
	ID              int64  `json:"id" validate:"required,gt=0"`
	Name            string `json:"name"`
	CompanyID       *int64 `json:"charterCompanyId,omitempty"`
	BaseID          *int64 `json:"baseId,omitempty"`
	LocationID      *int64 `json:"locationId,omitempty"`
	CategoryID      *int64 `json:"categoryId,omitempty"`
	BuilderID       *int64 `json:"builderId,omitempty"`
	ModelID         *int64 `json:"modelId,omitempty"`
	InferredModelID *int64 `json:"inferredModelId,omitempty"`

	Length        *float64 `json:"length,omitempty" validate:"omitempty,gte=0"`
	Beam          *float64 `json:"beam,omitempty" validate:"omitempty,gte=0"`
	Draft         *float64 `json:"draft,omitempty" validate:"omitempty,gte=0"`
	FuelCapacity  *float64 `json:"fuelCapacity,omitempty" validate:"omitempty,gte=0"`
	WaterCapacity *float64 `json:"waterCapacity,omitempty" validate:"omitempty,gte=0"`
	EnginePower   *float64 `json:"enginePower,omitempty" validate:"omitempty,gte=0"`
	Engines       *int     `json:"engines,omitempty" validate:"omitempty,gte=0"`
	Cabins        *int     `json:"cabins,omitempty" validate:"omitempty,gte=0"`
	Berths        *int     `json:"berths,omitempty" validate:"omitempty,gte=0"`
	WC            *int     `json:"wc,omitempty" validate:"omitempty,gte=0"`
	BuildYear     *int     `json:"buildYear,omitempty" validate:"omitempty,gte=1800,lte=2200"`
	Deposit       *float64 `json:"deposit,omitempty" validate:"omitempty,gte=0"`
	Currency      string   `json:"currency,omitempty"`

	Description       MultilingualText    `json:"description,omitempty"`
	MainPictureURL    string              `json:"mainPictureUrl,omitempty"`
	Pictures          []string            `json:"pictures,omitempty"`
	Videos            []string            `json:"videos,omitempty"`
	StandardEquipment []StandardEquipment `json:"standardEquipment,omitempty" validate:"dive"`
	OptionalEquipment []OptionalEquipment `json:"optionalEquipment,omitempty" validate:"dive"`
	Services          []YachtService      `json:"services,omitempty" validate:"dive"`
	SeasonalPrices    []SeasonalPrice     `json:"seasonalPrices,omitempty" validate:"dive"`

	UpdatedAt time.Time `json:"updatedAt"`
}

type StandardEquipment struct {
	EquipmentID int64            `json:"equipmentId" validate:"required,gt=0"`
	Quantity    *float64         `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Comment     MultilingualText `json:"comment,omitempty"`
}

type OptionalEquipment struct {
	EquipmentID int64      `json:"equipmentId" validate:"required,gt=0"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency    string     `json:"currency,omitempty"`
	PriceUnit   string     `json:"priceUnit,omitempty"`
	ValidFrom   *time.Time `json:"validFrom,omitempty"`
	ValidTo     *time.Time `json:"validTo,omitempty"`
}

type YachtService struct {
	ServiceID    int64    `json:"serviceId" validate:"required,gt=0"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency     string   `json:"currency,omitempty"`
	PriceMeasure string   `json:"priceMeasure,omitempty"`
	Obligatory   bool     `json:"obligatory"`
}

type SeasonalPrice struct {
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Price      *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency   string     `json:"currency,omitempty"`
	LocationID *int64     `json:"locationId,omitempty"`
}

// YachtListing is one page of yachts for a charter company. When Summaries
// is set, the entries carry only id/name and need a detail fetch.
type YachtListing struct {
	Yachts    []Yacht
	Summaries bool
}

// YachtEquipment is one equipment item of one yacht with its catalogue name.
type YachtEquipment struct {
	YachtID     int64            `json:"yachtId" validate:"required,gt=0"`
	EquipmentID int64            `json:"equipmentId" validate:"required,gt=0"`
	Name        MultilingualText `json:"name,omitempty"`
	Optional    bool             `json:"optional"`
	Price       *float64         `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency    string           `json:"currency,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// YachtServiceDetail is one service offered on one yacht with its catalogue name.
type YachtServiceDetail struct {
	YachtID    int64            `json:"yachtId" validate:"required,gt=0"`
	ServiceID  int64            `json:"serviceId" validate:"required,gt=0"`
	Name       MultilingualText `json:"name,omitempty"`
	Price      *float64         `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency   string           `json:"currency,omitempty"`
	Obligatory bool             `json:"obligatory"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// YachtPrice is a charter price for a yacht over one period.
type YachtPrice struct {
	YachtID    int64      `json:"yachtId" validate:"required,gt=0"`
	From       *time.Time `json:"from" validate:"required"`
	To         *time.Time `json:"to" validate:"required"`
	Price      *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency   string     `json:"currency,omitempty"`
	LocationID *int64     `json:"locationId,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type YachtRating struct {
	YachtID   int64     `json:"yachtId" validate:"required,gt=0"`
	Rating    *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Reviews   *int      `json:"reviews,omitempty" validate:"omitempty,gte=0"`
	Cleanness *float64  `json:"cleanness,omitempty" validate:"omitempty,gte=0,lte=10"`
	Equipment *float64  `json:"equipment,omitempty" validate:"omitempty,gte=0,lte=10"`
	Service   *float64  `json:"service,omitempty" validate:"omitempty,gte=0,lte=10"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FreeYacht is one upstream availability hit.
type FreeYacht struct {
	YachtID    int64
	PeriodFrom *time.Time
	PeriodTo   *time.Time
	Price      *float64
	Currency   string
}
