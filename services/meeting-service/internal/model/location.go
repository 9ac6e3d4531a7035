package model

import (
	"errors"
	"fmt"
	"strings"
)

// LocationType is where a meeting takes place.
type LocationType string

const (
	LocationOnline   LocationType = "online"
	LocationPhysical LocationType = "physical"
	LocationPremium  LocationType = "premium"
)

var ErrUnknownLocationType = errors.New("unknown location type")

// ParseLocationType maps the wire value onto a LocationType. "virtual" is
// accepted as an alias of online.
func ParseLocationType(raw string) (LocationType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "online", "virtual":
		return LocationOnline, nil
	case "physical":
		return LocationPhysical, nil
	case "premium":
		return LocationPremium, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLocationType, raw)
	}
}

func (t LocationType) Valid() bool {
	switch t {
	case LocationOnline, LocationPhysical, LocationPremium:
		return true
	}
	return false
}
