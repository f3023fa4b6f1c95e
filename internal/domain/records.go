package domain

import "time"

// Record is a stored entity: it knows its document key and carries updatedAt.
type Record interface {
	DocKey() string
	Touch(t time.Time)
}

func (r *Country) DocKey() string    { return Key(r.ID) }
func (r *Country) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Region) DocKey() string    { return Key(r.ID) }
func (r *Region) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Location) DocKey() string    { return Key(r.ID) }
func (r *Location) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Base) DocKey() string    { return Key(r.ID) }
func (r *Base) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Equipment) DocKey() string    { return Key(r.ID) }
func (r *Equipment) Touch(t time.Time) { r.UpdatedAt = t }

func (r *YachtCategory) DocKey() string    { return Key(r.ID) }
func (r *YachtCategory) Touch(t time.Time) { r.UpdatedAt = t }

func (r *YachtBuilder) DocKey() string    { return Key(r.ID) }
func (r *YachtBuilder) Touch(t time.Time) { r.UpdatedAt = t }

func (r *YachtModel) DocKey() string    { return Key(r.ID) }
func (r *YachtModel) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Service) DocKey() string    { return Key(r.ID) }
func (r *Service) Touch(t time.Time) { r.UpdatedAt = t }

func (r *CharterCompany) DocKey() string    { return Key(r.ID) }
func (r *CharterCompany) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Contact) DocKey() string    { return Key(r.ID) }
func (r *Contact) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Yacht) DocKey() string    { return Key(r.ID) }
func (r *Yacht) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Reservation) DocKey() string    { return Key(r.ID) }
func (r *Reservation) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Occupancy) DocKey() string    { return Key(r.ReservationID) }
func (r *Occupancy) Touch(t time.Time) { r.UpdatedAt = t }

func (r *CrewMember) DocKey() string    { return Key(r.ReservationID, r.ID) }
func (r *CrewMember) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Journey) DocKey() string    { return Key(r.ID) }
func (r *Journey) Touch(t time.Time) { r.UpdatedAt = t }

func (r *Invoice) DocKey() string    { return Key(r.Type, r.ID) }
func (r *Invoice) Touch(t time.Time) { r.UpdatedAt = t }

func (r *CabinCharterBase) DocKey() string    { return Key(r.ID) }
func (r *CabinCharterBase) Touch(t time.Time) { r.UpdatedAt = t }

func (r *CabinCharterCompany) DocKey() string    { return Key(r.ID) }
func (r *CabinCharterCompany) Touch(t time.Time) { r.UpdatedAt = t }

func (r *YachtServiceDetail) DocKey() string    { return Key(r.YachtID, r.ServiceID) }
func (r *YachtServiceDetail) Touch(t time.Time) { r.UpdatedAt = t }

func (r *YachtRating) DocKey() string    { return Key(r.YachtID) }
func (r *YachtRating) Touch(t time.Time) { r.UpdatedAt = t }

func (r *FreeCabinPackage) DocKey() string    { return Key(r.ID) }
func (r *FreeCabinPackage) Touch(t time.Time) { r.UpdatedAt = t }

func (r *YachtEquipment) DocKey() string {
	kind := "std"
	if r.Optional {
		kind = "opt"
	}
	return Key(r.YachtID, r.EquipmentID, kind)
}
func (r *YachtEquipment) Touch(t time.Time) { r.UpdatedAt = t }

// DocKey of a price is its yacht and period; callers validate From/To first.
func (r *YachtPrice) DocKey() string {
	return Key(r.YachtID, dayKey(r.From), dayKey(r.To))
}
func (r *YachtPrice) Touch(t time.Time) { r.UpdatedAt = t }

func (r *FreeCabinSearchCriteria) DocKey() string    { return CriteriaKey }
func (r *FreeCabinSearchCriteria) Touch(t time.Time) { r.UpdatedAt = t }

// CriteriaKey is the single document holding the current criteria snapshot.
const CriteriaKey = "current"

func dayKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}
