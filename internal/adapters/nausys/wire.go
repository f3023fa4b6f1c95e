package nausys

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"charter_sync/internal/domain"
	"charter_sync/internal/normalize"
)

// Flexible scalar types for fields whose JSON type varies between endpoints.

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*b = false
		return nil
	}
	switch v := raw.(type) {
	case bool:
		*b = flexBool(v)
	case float64:
		*b = v != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		*b = s == "true" || s == "1" || s == "yes"
	default:
		*b = false
	}
	return nil
}

// flexString takes strings and numbers as text. A locale object decodes to
// its English entry; anything else is empty. It never fails the record.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = ""
		return nil
	}
	switch v := raw.(type) {
	case string:
		*s = flexString(strings.TrimSpace(v))
	case float64:
		*s = flexString(strconv.FormatFloat(v, 'f', -1, 64))
	case map[string]any:
		*s = flexString(strings.TrimSpace(domain.MultilingualText(normalize.ToMultilingualText(v)).English()))
	default:
		*s = ""
	}
	return nil
}

// urlList accepts a list of strings or of objects carrying url/src/name.
type urlList []string

func (u *urlList) UnmarshalJSON(data []byte) error {
	*u = nil
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		switch t := it.(type) {
		case string:
			if t != "" {
				out = append(out, t)
			}
		case map[string]any:
			for _, k := range []string{"url", "src", "name"} {
				if s, ok := t[k].(string); ok && s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	*u = out
	return nil
}

// idList accepts numbers or numeric strings.
type idList []normalize.Number

func (l idList) ids() []int64 {
	out := make([]int64, 0, len(l))
	for _, n := range l {
		if id := n.ID(); id > 0 {
			out = append(out, id)
		}
	}
	return out
}

func text(m domain.MultilingualText) domain.MultilingualText { return m.WithEnglish() }

// ---- catalogue ----

type countryDTO struct {
	ID    normalize.Number        `json:"id"`
	Code  flexString              `json:"code"`
	Code2 flexString              `json:"code2"`
	Name  domain.MultilingualText `json:"name"`
}

func (d countryDTO) toDomain() domain.Country {
	return domain.Country{ID: d.ID.ID(), Code: string(d.Code), Code2: string(d.Code2), Name: text(d.Name)}
}

type regionDTO struct {
	ID        normalize.Number        `json:"id"`
	CountryID normalize.Number        `json:"countryId"`
	Name      domain.MultilingualText `json:"name"`
}

func (d regionDTO) toDomain() domain.Region {
	return domain.Region{ID: d.ID.ID(), CountryID: d.CountryID.OptID(), Name: text(d.Name)}
}

type locationDTO struct {
	ID       normalize.Number        `json:"id"`
	RegionID normalize.Number        `json:"regionId"`
	Name     domain.MultilingualText `json:"name"`
	Lat      normalize.Number        `json:"lat"`
	Lon      normalize.Number        `json:"lon"`
}

func (d locationDTO) toDomain() domain.Location {
	return domain.Location{ID: d.ID.ID(), RegionID: d.RegionID.OptID(), Name: text(d.Name), Lat: d.Lat.Float(), Lon: d.Lon.Float()}
}

type baseDTO struct {
	ID           normalize.Number        `json:"id"`
	Name         domain.MultilingualText `json:"name"`
	CompanyID    normalize.Number        `json:"companyId"`
	LocationID   normalize.Number        `json:"locationId"`
	CheckInTime  flexString              `json:"checkInTime"`
	CheckOutTime flexString              `json:"checkOutTime"`
	Lat          normalize.Number        `json:"lat"`
	Lon          normalize.Number        `json:"lon"`
}

func (d baseDTO) toDomain() domain.Base {
	return domain.Base{
		ID: d.ID.ID(), Name: text(d.Name), CompanyID: d.CompanyID.OptID(), LocationID: d.LocationID.OptID(),
		CheckInTime: string(d.CheckInTime), CheckOutTime: string(d.CheckOutTime), Lat: d.Lat.Float(), Lon: d.Lon.Float(),
	}
}

type equipmentDTO struct {
	ID         normalize.Number        `json:"id"`
	CategoryID normalize.Number        `json:"categoryId"`
	Name       domain.MultilingualText `json:"name"`
}

func (d equipmentDTO) toDomain() domain.Equipment {
	return domain.Equipment{ID: d.ID.ID(), CategoryID: d.CategoryID.OptID(), Name: text(d.Name)}
}

// namedDTO covers categories and builders.
type namedDTO struct {
	ID   normalize.Number        `json:"id"`
	Name domain.MultilingualText `json:"name"`
}

type serviceDTO struct {
	ID          normalize.Number        `json:"id"`
	Name        domain.MultilingualText `json:"name"`
	Description domain.MultilingualText `json:"description"`
}

func (d serviceDTO) toDomain() domain.Service {
	return domain.Service{ID: d.ID.ID(), Name: text(d.Name), Description: d.Description}
}

type companyDTO struct {
	ID        normalize.Number        `json:"id"`
	Name      domain.MultilingualText `json:"name"`
	Address   flexString              `json:"address"`
	City      flexString              `json:"city"`
	Zip       flexString              `json:"zip"`
	CountryID normalize.Number        `json:"countryId"`
	Phone     flexString              `json:"phone"`
	Email     flexString              `json:"email"`
	Web       flexString              `json:"web"`
	VATCode   flexString              `json:"vatCode"`
}

func (d companyDTO) toDomain() domain.CharterCompany {
	return domain.CharterCompany{
		ID: d.ID.ID(), Name: text(d.Name), Address: string(d.Address), City: string(d.City), Zip: string(d.Zip),
		CountryID: d.CountryID.OptID(), Phone: string(d.Phone), Email: string(d.Email), Web: string(d.Web), VATCode: string(d.VATCode),
	}
}

type contactDTO struct {
	ID        normalize.Number `json:"id"`
	Type      flexString       `json:"type"`
	Name      flexString       `json:"name"`
	Surname   flexString       `json:"surname"`
	Company   flexString       `json:"company"`
	Email     flexString       `json:"email"`
	Phone     flexString       `json:"phone"`
	Mobile    flexString       `json:"mobile"`
	Address   flexString       `json:"address"`
	City      flexString       `json:"city"`
	CountryID normalize.Number `json:"countryId"`
	VATCode   flexString       `json:"vatCode"`
}

func (d contactDTO) toDomain() domain.Contact {
	return domain.Contact{
		ID: d.ID.ID(), Type: string(d.Type), Name: string(d.Name), Surname: string(d.Surname), Company: string(d.Company),
		Email: string(d.Email), Phone: string(d.Phone), Mobile: string(d.Mobile),
		Address: string(d.Address), City: string(d.City), CountryID: d.CountryID.OptID(), VATCode: string(d.VATCode),
	}
}

type modelDTO struct {
	ID            normalize.Number        `json:"id"`
	Name          domain.MultilingualText `json:"name"`
	BuilderID     normalize.Number        `json:"yachtBuilderId"`
	CategoryID    normalize.Number        `json:"yachtCategoryId"`
	LOA           normalize.Number        `json:"loa"`
	Beam          normalize.Number        `json:"beam"`
	Draft         normalize.Number        `json:"draft"`
	Cabins        normalize.Number        `json:"cabins"`
	WC            normalize.Number        `json:"wc"`
	WaterTank     normalize.Number        `json:"waterTank"`
	FuelTank      normalize.Number        `json:"fuelTank"`
	Displacement  normalize.Number        `json:"displacement"`
	VirtualLength normalize.Number        `json:"virtualLength"`
}

func (d modelDTO) toDomain() domain.YachtModel {
	return domain.YachtModel{
		ID: d.ID.ID(), Name: text(d.Name), BuilderID: d.BuilderID.OptID(), CategoryID: d.CategoryID.OptID(),
		LOA: d.LOA.NonNegative(), Beam: d.Beam.NonNegative(), Draft: d.Draft.NonNegative(),
		Cabins: nonNegInt(d.Cabins), WC: nonNegInt(d.WC),
		WaterTank: d.WaterTank.NonNegative(), FuelTank: d.FuelTank.NonNegative(),
		Displacement: d.Displacement.NonNegative(), VirtualLength: d.VirtualLength.NonNegative(),
	}
}

func nonNegInt(n normalize.Number) *int {
	if v := n.Int(); v != nil && *v >= 0 {
		return v
	}
	return nil
}

// ---- yachts ----

type yachtDTO struct {
	ID          normalize.Number        `json:"id"`
	Name        flexString              `json:"name"`
	CompanyID   normalize.Number        `json:"companyId"`
	BaseID      normalize.Number        `json:"baseId"`
	LocationID  normalize.Number        `json:"locationId"`
	CategoryID  normalize.Number        `json:"yachtCategoryId"`
	BuilderID   normalize.Number        `json:"yachtBuilderId"`
	ModelID     normalize.Number        `json:"yachtModelId"`
	Length      normalize.Number        `json:"length"`
	Beam        normalize.Number        `json:"beam"`
	Draft       normalize.Number        `json:"draft"`
	FuelTank    normalize.Number        `json:"fuelTank"`
	WaterTank   normalize.Number        `json:"waterTank"`
	EnginePower normalize.Number        `json:"enginePower"`
	Engines     normalize.Number        `json:"engines"`
	Cabins      normalize.Number        `json:"cabins"`
	Berths      normalize.Number        `json:"berths"`
	WC          normalize.Number        `json:"wc"`
	BuildYear   normalize.Number        `json:"buildYear"`
	Deposit     normalize.Number        `json:"deposit"`
	Currency    flexString              `json:"currency"`
	Description domain.MultilingualText `json:"description"`
	MainPicture flexString              `json:"mainPictureUrl"`
	Pictures    urlList                 `json:"picturesURL"`
	Videos      urlList                 `json:"videos"`

	StandardEquipment []struct {
		EquipmentID normalize.Number        `json:"equipmentId"`
		Quantity    normalize.Number        `json:"quantity"`
		Comment     domain.MultilingualText `json:"comment"`
	} `json:"standardEquipment"`
	AdditionalEquipment []struct {
		EquipmentID normalize.Number `json:"equipmentId"`
		Price       normalize.Number `json:"price"`
		Currency    flexString       `json:"currency"`
		PriceUnit   flexString       `json:"priceMeasure"`
		ValidFrom   normalize.Date   `json:"validFrom"`
		ValidTo     normalize.Date   `json:"validTo"`
	} `json:"additionalEquipment"`
	Services []struct {
		ServiceID    normalize.Number `json:"serviceId"`
		Price        normalize.Number `json:"price"`
		Currency     flexString       `json:"currency"`
		PriceMeasure flexString       `json:"priceMeasure"`
		Obligatory   flexBool         `json:"obligatory"`
	} `json:"services"`
	SeasonalPrices []struct {
		From       normalize.Date   `json:"dateFrom"`
		To         normalize.Date   `json:"dateTo"`
		Price      normalize.Number `json:"price"`
		Currency   flexString       `json:"currency"`
		LocationID normalize.Number `json:"locationId"`
	} `json:"seasonSpecificData"`
}

// detailKeys are present only in full yacht records.
var detailKeys = []string{"yachtModelId", "yachtBuilderId", "cabins", "length", "berths", "standardEquipment"}

func isSummary(raw []byte) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return false
	}
	for _, k := range detailKeys {
		if v, ok := keys[k]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return false
		}
	}
	return true
}

func (d yachtDTO) toDomain() domain.Yacht {
	y := domain.Yacht{
		ID: d.ID.ID(), Name: string(d.Name),
		CompanyID: d.CompanyID.OptID(), BaseID: d.BaseID.OptID(), LocationID: d.LocationID.OptID(),
		CategoryID: d.CategoryID.OptID(), BuilderID: d.BuilderID.OptID(), ModelID: d.ModelID.OptID(),
		Length: d.Length.NonNegative(), Beam: d.Beam.NonNegative(), Draft: d.Draft.NonNegative(),
		FuelCapacity: d.FuelTank.NonNegative(), WaterCapacity: d.WaterTank.NonNegative(),
		EnginePower: d.EnginePower.NonNegative(), Engines: nonNegInt(d.Engines),
		Cabins: nonNegInt(d.Cabins), Berths: nonNegInt(d.Berths), WC: nonNegInt(d.WC),
		Deposit: d.Deposit.NonNegative(), Currency: string(d.Currency),
		Description: d.Description, MainPictureURL: string(d.MainPicture),
		Pictures: []string(d.Pictures), Videos: []string(d.Videos),
	}
	if by := d.BuildYear.Int(); by != nil && *by >= 1800 && *by <= 2200 {
		y.BuildYear = by
	}
	for _, e := range d.StandardEquipment {
		if id := e.EquipmentID.ID(); id > 0 {
			y.StandardEquipment = append(y.StandardEquipment, domain.StandardEquipment{
				EquipmentID: id, Quantity: e.Quantity.NonNegative(), Comment: e.Comment,
			})
		}
	}
	for _, e := range d.AdditionalEquipment {
		if id := e.EquipmentID.ID(); id > 0 {
			y.OptionalEquipment = append(y.OptionalEquipment, domain.OptionalEquipment{
				EquipmentID: id, Price: e.Price.NonNegative(), Currency: string(e.Currency), PriceUnit: string(e.PriceUnit),
				ValidFrom: e.ValidFrom.T, ValidTo: e.ValidTo.T,
			})
		}
	}
	for _, s := range d.Services {
		if id := s.ServiceID.ID(); id > 0 {
			y.Services = append(y.Services, domain.YachtService{
				ServiceID: id, Price: s.Price.NonNegative(), Currency: string(s.Currency),
				PriceMeasure: string(s.PriceMeasure), Obligatory: bool(s.Obligatory),
			})
		}
	}
	for _, p := range d.SeasonalPrices {
		y.SeasonalPrices = append(y.SeasonalPrices, domain.SeasonalPrice{
			From: p.From.T, To: p.To.T, Price: p.Price.NonNegative(), Currency: string(p.Currency), LocationID: p.LocationID.OptID(),
		})
	}
	return y
}

type yachtPriceDTO struct {
	YachtID    normalize.Number `json:"yachtId"`
	From       normalize.Date   `json:"dateFrom"`
	To         normalize.Date   `json:"dateTo"`
	Price      normalize.Number `json:"price"`
	Currency   flexString       `json:"currency"`
	LocationID normalize.Number `json:"locationId"`
}

func (d yachtPriceDTO) toDomain() domain.YachtPrice {
	return domain.YachtPrice{
		YachtID: d.YachtID.ID(), From: d.From.T, To: d.To.T, Price: d.Price.NonNegative(),
		Currency: string(d.Currency), LocationID: d.LocationID.OptID(),
	}
}

type yachtRatingDTO struct {
	YachtID   normalize.Number `json:"yachtId"`
	Rating    normalize.Number `json:"rating"`
	Reviews   normalize.Number `json:"reviews"`
	Cleanness normalize.Number `json:"cleanness"`
	Equipment normalize.Number `json:"equipment"`
	Service   normalize.Number `json:"service"`
}

func (d yachtRatingDTO) toDomain() domain.YachtRating {
	return domain.YachtRating{
		YachtID: d.YachtID.ID(), Rating: d.Rating.NonNegative(), Reviews: nonNegInt(d.Reviews),
		Cleanness: d.Cleanness.NonNegative(), Equipment: d.Equipment.NonNegative(), Service: d.Service.NonNegative(),
	}
}

type freeYachtDTO struct {
	YachtID    normalize.Number `json:"yachtId"`
	PeriodFrom normalize.Date   `json:"periodFrom"`
	PeriodTo   normalize.Date   `json:"periodTo"`
	Price      normalize.Number `json:"price"`
	Currency   flexString       `json:"currency"`
}

func (d freeYachtDTO) toDomain() domain.FreeYacht {
	return domain.FreeYacht{
		YachtID: d.YachtID.ID(), PeriodFrom: d.PeriodFrom.T, PeriodTo: d.PeriodTo.T,
		Price: d.Price.Float(), Currency: string(d.Currency),
	}
}

// ---- reservations, options, occupancy, crew ----

type reservationDTO struct {
	ID                normalize.Number `json:"id"`
	UUID              flexString       `json:"uuid"`
	YachtID           normalize.Number `json:"yachtId"`
	CompanyID         normalize.Number `json:"charterCompanyId"`
	AgencyID          normalize.Number `json:"agencyId"`
	ClientID          normalize.Number `json:"clientId"`
	ReservationStatus flexString       `json:"reservationStatus"`
	PeriodFrom        normalize.Date   `json:"periodFrom"`
	PeriodTo          normalize.Date   `json:"periodTo"`
	LocationFromID    normalize.Number `json:"locationFromId"`
	LocationToID      normalize.Number `json:"locationToId"`
	BaseFromID        normalize.Number `json:"baseFromId"`
	BaseToID          normalize.Number `json:"baseToId"`
	OptionTill        normalize.Date   `json:"optionTill"`
	CreatedDate       normalize.Date   `json:"createdDate"`
	PriceListPrice    normalize.Number `json:"priceListPrice"`
	AgencyPrice       normalize.Number `json:"agencyPrice"`
	ClientPrice       normalize.Number `json:"clientPrice"`
	Deposit           normalize.Number `json:"deposit"`
	Currency          flexString       `json:"currency"`

	Discounts []struct {
		ID     normalize.Number        `json:"id"`
		Name   domain.MultilingualText `json:"name"`
		Amount normalize.Number        `json:"amount"`
		Type   flexString              `json:"type"`
	} `json:"discounts"`
	Services []struct {
		ServiceID  normalize.Number `json:"serviceId"`
		Price      normalize.Number `json:"price"`
		Quantity   normalize.Number `json:"quantity"`
		Currency   flexString       `json:"currency"`
		Obligatory flexBool         `json:"obligatory"`
	} `json:"services"`
	Equipment []struct {
		EquipmentID normalize.Number `json:"equipmentId"`
		Price       normalize.Number `json:"price"`
		Quantity    normalize.Number `json:"quantity"`
		Currency    flexString       `json:"currency"`
	} `json:"equipment"`
	PaymentPlan []struct {
		Date   normalize.Date   `json:"date"`
		Amount normalize.Number `json:"amount"`
	} `json:"paymentPlan"`
	Payments []struct {
		ID       normalize.Number `json:"id"`
		Date     normalize.Date   `json:"date"`
		Amount   normalize.Number `json:"amount"`
		Currency flexString       `json:"currency"`
	} `json:"payments"`
	Comments []struct {
		Text    flexString     `json:"comment"`
		Author  flexString     `json:"author"`
		Created normalize.Date `json:"created"`
	} `json:"comments"`
}

func (d reservationDTO) toDomain() domain.Reservation {
	r := domain.Reservation{
		ID: d.ID.ID(), UUID: string(d.UUID), YachtID: d.YachtID.ID(),
		CompanyID: d.CompanyID.OptID(), AgencyID: d.AgencyID.OptID(), ClientID: d.ClientID.OptID(),
		Status: string(d.ReservationStatus), PeriodFrom: d.PeriodFrom.T, PeriodTo: d.PeriodTo.T,
		LocationFromID: d.LocationFromID.OptID(), LocationToID: d.LocationToID.OptID(),
		BaseFromID: d.BaseFromID.OptID(), BaseToID: d.BaseToID.OptID(),
		OptionExpiry: d.OptionTill.T, CreatedAtUpstream: d.CreatedDate.T,
		PriceListPrice: d.PriceListPrice.Float(), AgencyPrice: d.AgencyPrice.Float(),
		ClientPrice: d.ClientPrice.Float(), Deposit: d.Deposit.Float(), Currency: string(d.Currency),
	}
	for _, x := range d.Discounts {
		r.Discounts = append(r.Discounts, domain.Discount{ID: x.ID.OptID(), Name: x.Name, Amount: x.Amount.Float(), Type: string(x.Type)})
	}
	for _, x := range d.Services {
		if id := x.ServiceID.ID(); id > 0 {
			r.Services = append(r.Services, domain.ReservationService{
				ServiceID: id, Price: x.Price.Float(), Quantity: x.Quantity.NonNegative(),
				Currency: string(x.Currency), Obligatory: bool(x.Obligatory),
			})
		}
	}
	for _, x := range d.Equipment {
		if id := x.EquipmentID.ID(); id > 0 {
			r.Equipment = append(r.Equipment, domain.ReservationEquipment{
				EquipmentID: id, Price: x.Price.Float(), Quantity: x.Quantity.NonNegative(), Currency: string(x.Currency),
			})
		}
	}
	for _, x := range d.PaymentPlan {
		r.PaymentPlan = append(r.PaymentPlan, domain.PaymentPlanItem{Date: x.Date.T, Amount: x.Amount.Float()})
	}
	for _, x := range d.Payments {
		r.Payments = append(r.Payments, domain.Payment{ID: x.ID.OptID(), Date: x.Date.T, Amount: x.Amount.Float(), Currency: string(x.Currency)})
	}
	for _, x := range d.Comments {
		if x.Text != "" {
			r.Comments = append(r.Comments, domain.Comment{Text: string(x.Text), Author: string(x.Author), Created: x.Created.T})
		}
	}
	return r
}

// toJourney maps an upstream option (held reservation) to a journey.
func (d reservationDTO) toJourney() domain.Journey {
	return domain.Journey{
		ID: d.ID.ID(), YachtID: d.YachtID.ID(),
		BaseFromID: d.BaseFromID.OptID(), BaseToID: d.BaseToID.OptID(),
		LocationFromID: d.LocationFromID.OptID(), LocationToID: d.LocationToID.OptID(),
		PeriodFrom: d.PeriodFrom.T, PeriodTo: d.PeriodTo.T, OptionExpiry: d.OptionTill.T,
		Status: string(d.ReservationStatus), Price: d.PriceListPrice.Float(), ClientPrice: d.ClientPrice.Float(),
		Currency: string(d.Currency),
	}
}

type occupancyDTO struct {
	ID                normalize.Number `json:"id"`
	YachtID           normalize.Number `json:"yachtId"`
	ReservationStatus flexString       `json:"reservationStatus"`
	PeriodFrom        normalize.Date   `json:"periodFrom"`
	PeriodTo          normalize.Date   `json:"periodTo"`
}

func (d occupancyDTO) toDomain(companyID int64) domain.Occupancy {
	return domain.Occupancy{
		CompanyID: companyID, ReservationID: d.ID.ID(), YachtID: d.YachtID.ID(),
		Status: string(d.ReservationStatus), PeriodFrom: d.PeriodFrom.T, PeriodTo: d.PeriodTo.T,
	}
}

type crewDTO struct {
	ID             normalize.Number `json:"id"`
	Name           flexString       `json:"name"`
	Surname        flexString       `json:"surname"`
	Sex            flexString       `json:"sex"`
	Nationality    normalize.Number `json:"nationality"`
	DateOfBirth    normalize.Date   `json:"dateOfBirth"`
	PlaceOfBirth   flexString       `json:"placeOfBirth"`
	DocumentType   flexString       `json:"documentType"`
	DocumentNumber flexString       `json:"documentNumber"`
	Skipper        flexBool         `json:"skipper"`
}

func (d crewDTO) toDomain(reservationID int64) domain.CrewMember {
	return domain.CrewMember{
		ReservationID: reservationID, ID: d.ID.ID(), Name: string(d.Name), Surname: string(d.Surname), Sex: string(d.Sex),
		Nationality: d.Nationality.OptID(), DateOfBirth: d.DateOfBirth.T, PlaceOfBirth: string(d.PlaceOfBirth),
		DocumentType: string(d.DocumentType), DocumentNumber: string(d.DocumentNumber), Skipper: bool(d.Skipper),
	}
}

// ---- invoices ----

type invoiceDTO struct {
	ID            normalize.Number `json:"id"`
	Number        flexString       `json:"number"`
	ReservationID normalize.Number `json:"reservationId"`
	Date          normalize.Date   `json:"date"`
	DueDate       normalize.Date   `json:"dueDate"`
	Currency      flexString       `json:"currency"`
	Client        struct {
		ID      normalize.Number `json:"id"`
		Name    flexString       `json:"name"`
		Address flexString       `json:"address"`
		City    flexString       `json:"city"`
		VATCode flexString       `json:"vatCode"`
		Email   flexString       `json:"email"`
	} `json:"client"`
	Items []struct {
		ID          flexString       `json:"id"`
		Description flexString       `json:"description"`
		Quantity    normalize.Number `json:"quantity"`
		UnitPrice   normalize.Number `json:"unitPrice"`
		Net         normalize.Number `json:"net"`
		VATRate     normalize.Number `json:"vatRate"`
		VATAmount   normalize.Number `json:"vatAmount"`
		Gross       normalize.Number `json:"gross"`
	} `json:"items"`
	VATSummary []struct {
		Rate   normalize.Number `json:"rate"`
		Base   normalize.Number `json:"base"`
		Amount normalize.Number `json:"amount"`
	} `json:"vatSummary"`
	Net   normalize.Number `json:"net"`
	VAT   normalize.Number `json:"vat"`
	Total normalize.Number `json:"total"`
}

func (d invoiceDTO) toDomain(t domain.InvoiceType) domain.Invoice {
	inv := domain.Invoice{
		ID: d.ID.ID(), Type: t, Number: string(d.Number), ReservationID: d.ReservationID.OptID(),
		Date: d.Date.T, DueDate: d.DueDate.T, Currency: string(d.Currency),
		Client: domain.InvoiceClient{
			ID: d.Client.ID.OptID(), Name: string(d.Client.Name), Address: string(d.Client.Address),
			City: string(d.Client.City), VATCode: string(d.Client.VATCode), Email: string(d.Client.Email),
		},
		Net: d.Net.Float(), VAT: d.VAT.Float(), Total: d.Total.Float(),
	}
	for _, it := range d.Items {
		inv.Items = append(inv.Items, domain.InvoiceItem{
			ID: string(it.ID), Description: string(it.Description), Quantity: it.Quantity.Float(),
			UnitPrice: it.UnitPrice.Float(), Net: it.Net.Float(), VATRate: it.VATRate.NonNegative(),
			VATAmount: it.VATAmount.Float(), Gross: it.Gross.Float(),
		})
	}
	for _, v := range d.VATSummary {
		inv.VATSummary = append(inv.VATSummary, domain.VATLine{Rate: v.Rate.Float(), Base: v.Base.Float(), Amount: v.Amount.Float()})
	}
	return inv
}

// ---- cabin charter ----

type cabinBaseDTO struct {
	ID         normalize.Number        `json:"id"`
	Name       domain.MultilingualText `json:"name"`
	CompanyID  normalize.Number        `json:"companyId"`
	LocationID normalize.Number        `json:"locationId"`
}

func (d cabinBaseDTO) toDomain() domain.CabinCharterBase {
	return domain.CabinCharterBase{ID: d.ID.ID(), Name: text(d.Name), CompanyID: d.CompanyID.OptID(), LocationID: d.LocationID.OptID()}
}

type cabinCompanyDTO struct {
	ID        normalize.Number        `json:"id"`
	Name      domain.MultilingualText `json:"name"`
	CountryID normalize.Number        `json:"countryId"`
	Email     flexString              `json:"email"`
}

func (d cabinCompanyDTO) toDomain() domain.CabinCharterCompany {
	return domain.CabinCharterCompany{ID: d.ID.ID(), Name: text(d.Name), CountryID: d.CountryID.OptID(), Email: string(d.Email)}
}

type packageDTO struct {
	ID             normalize.Number        `json:"id"`
	Name           domain.MultilingualText `json:"name"`
	CompanyID      normalize.Number        `json:"companyId"`
	YachtID        normalize.Number        `json:"yachtId"`
	CountryID      normalize.Number        `json:"countryId"`
	LocationFromID normalize.Number        `json:"locationFromId"`
	LocationToID   normalize.Number        `json:"locationToId"`
	PeriodFrom     normalize.Date          `json:"periodFrom"`
	PeriodTo       normalize.Date          `json:"periodTo"`
	Cabins         []struct {
		CabinType flexString       `json:"cabinType"`
		Free      normalize.Number `json:"free"`
		Berths    normalize.Number `json:"berths"`
		Price     normalize.Number `json:"price"`
	} `json:"cabins"`
	Price    normalize.Number `json:"price"`
	Currency flexString       `json:"currency"`
}

func (d packageDTO) toDomain() domain.FreeCabinPackage {
	p := domain.FreeCabinPackage{
		ID: d.ID.ID(), Name: d.Name, CompanyID: d.CompanyID.OptID(), YachtID: d.YachtID.OptID(),
		CountryID: d.CountryID.OptID(), LocationFromID: d.LocationFromID.OptID(), LocationToID: d.LocationToID.OptID(),
		PeriodFrom: d.PeriodFrom.T, PeriodTo: d.PeriodTo.T, Price: d.Price.NonNegative(), Currency: string(d.Currency),
	}
	for _, c := range d.Cabins {
		p.Cabins = append(p.Cabins, domain.CabinOffer{
			CabinType: string(c.CabinType), Free: nonNegInt(c.Free), Berths: nonNegInt(c.Berths), Price: c.Price.NonNegative(),
		})
	}
	return p
}

type criteriaDTO struct {
	Countries idList `json:"countries"`
	Regions   idList `json:"regions"`
	Locations idList `json:"locations"`
	Companies idList `json:"companies"`
	Yachts    idList `json:"yachts"`
}

func (d criteriaDTO) toDomain() domain.FreeCabinSearchCriteria {
	return domain.FreeCabinSearchCriteria{
		Countries: d.Countries.ids(), Regions: d.Regions.ids(), Locations: d.Locations.ids(),
		Companies: d.Companies.ids(), Yachts: d.Yachts.ids(),
	}
}

func normalizeDate(t time.Time) string { return normalize.FormatProviderDate(t) }
