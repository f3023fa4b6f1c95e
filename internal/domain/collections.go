package domain

import (
	"fmt"
	"strings"
)

// Collection names a document collection in the store.
type Collection string

const (
	Countries             Collection = "countries"
	Regions               Collection = "regions"
	Locations             Collection = "locations"
	Bases                 Collection = "bases"
	EquipmentItems        Collection = "equipment"
	YachtCategories       Collection = "yacht_categories"
	YachtBuilders         Collection = "yacht_builders"
	YachtModels           Collection = "yacht_models"
	Services              Collection = "services"
	CharterCompanies      Collection = "charter_companies"
	Yachts                Collection = "yachts"
	Reservations          Collection = "reservations"
	Occupancies           Collection = "occupancy"
	CrewMembers           Collection = "crew_members"
	Invoices              Collection = "invoices"
	Contacts              Collection = "contacts"
	Journeys              Collection = "journeys"
	CabinCharterBases     Collection = "cabin_charter_bases"
	CabinCharterCompanies Collection = "cabin_charter_companies"
	YachtEquipmentDetails Collection = "yacht_equipment"
	YachtServiceDetails   Collection = "yacht_services"
	YachtPrices           Collection = "yacht_prices"
	YachtRatings          Collection = "yacht_ratings"
	FreeCabinPackages     Collection = "free_cabin_packages"
	FreeCabinCriteria     Collection = "free_cabin_criteria"
	SyncRuns              Collection = "sync_runs"
)

// schemaVersions holds the record schema version written with each document.
// Bump a collection's version whenever its entity shape changes incompatibly.
var schemaVersions = map[Collection]int{
	Yachts:       1,
	Reservations: 1,
	Invoices:     1,
}

// SchemaVersion returns the current record schema version for c.
func SchemaVersion(c Collection) int {
	if v, ok := schemaVersions[c]; ok {
		return v
	}
	return 1
}

// Key joins identifier parts into a document key, e.g. Key(12, 7) = "12:7".
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}

// FindQuery selects documents by top-level JSON fields.
type FindQuery struct {
	Eq     map[string]any
	In     map[string][]any
	Gte    map[string]any
	Lte    map[string]any
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
