// Package catalog lists the kinds of meeting location an organization user
// can choose from.
package catalog

import "github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"

type Location struct {
	Label string             `json:"label"`
	Value model.LocationType `json:"value"`
}

var declared = []Location{
	{Label: "Online Meeting", Value: model.LocationOnline},
	{Label: "Physical Meeting", Value: model.LocationPhysical},
	{Label: "Premium Room", Value: model.LocationPremium},
}

// ListAvailableLocations returns the selectable locations in declared order.
// Gated kinds are included only when hasPremiumPermission is true.
func ListAvailableLocations(hasPremiumPermission bool) []Location {
	out := make([]Location, 0, len(declared))
	for _, loc := range declared {
		if IsGated(loc.Value) && !hasPremiumPermission {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// IsGated reports whether booking t requires the premium permission.
func IsGated(t model.LocationType) bool {
	return t == model.LocationPremium
}
