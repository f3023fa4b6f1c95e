package domain

import "time"

type Country struct {
	ID        int64            `json:"id" validate:"required,gt=0"`
	Code      string           `json:"code,omitempty"`
	Code2     string           `json:"code2,omitempty"`
	Name      MultilingualText `json:"name" validate:"required,multilingual"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type Region struct {
	ID        int64            `json:"id" validate:"required,gt=0"`
	CountryID *int64           `json:"countryId,omitempty"`
	Name      MultilingualText `json:"name" validate:"required,multilingual"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type Location struct {
	ID        int64            `json:"id" validate:"required,gt=0"`
	RegionID  *int64           `json:"regionId,omitempty"`
	Name      MultilingualText `json:"name" validate:"required,multilingual"`
	Lat       *float64         `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon       *float64         `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type Base struct {
	ID           int64            `json:"id" validate:"required,gt=0"`
	Name         MultilingualText `json:"name" validate:"required,multilingual"`
	CompanyID    *int64           `json:"companyId,omitempty"`
	LocationID   *int64           `json:"locationId,omitempty"`
	CheckInTime  string           `json:"checkInTime,omitempty"`
	CheckOutTime string           `json:"checkOutTime,omitempty"`
	Lat          *float64         `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon          *float64         `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type Equipment struct {
	ID         int64            `json:"id" validate:"required,gt=0"`
	CategoryID *int64           `json:"categoryId,omitempty"`
	Name       MultilingualText `json:"name" validate:"required,multilingual"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type YachtCategory struct {
	ID        int64            `json:"id" validate:"required,gt=0"`
	Name      MultilingualText `json:"name" validate:"required,multilingual"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type YachtBuilder struct {
	ID        int64            `json:"id" validate:"required,gt=0"`
	Name      MultilingualText `json:"name" validate:"required,multilingual"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type Service struct {
	ID          int64            `json:"id" validate:"required,gt=0"`
	Name        MultilingualText `json:"name" validate:"required,multilingual"`
	Description MultilingualText `json:"description,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type CharterCompany struct {
	ID        int64            `json:"id" validate:"required,gt=0"`
	Name      MultilingualText `json:"name" validate:"required,multilingual"`
	Address   string           `json:"address,omitempty"`
	City      string           `json:"city,omitempty"`
	Zip       string           `json:"zip,omitempty"`
	CountryID *int64           `json:"countryId,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Email     string           `json:"email,omitempty"`
	Web       string           `json:"web,omitempty"`
	VATCode   string           `json:"vatCode,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Contact is an upstream address-book entry (agency, owner, client).
type Contact struct {
	ID        int64     `json:"id" validate:"required,gt=0"`
	Type      string    `json:"type,omitempty"`
	Name      string    `json:"name,omitempty"`
	Surname   string    `json:"surname,omitempty"`
	Company   string    `json:"company,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	CountryID *int64    `json:"countryId,omitempty"`
	VATCode   string    `json:"vatCode,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
