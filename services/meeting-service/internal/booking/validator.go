package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/catalog"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrMissingAddress       = errors.New("missing address")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrMissingParticipants  = errors.New("missing participants")
	ErrInvalidParticipant   = errors.New("invalid participant")
)

// ValidationError carries the user-facing message for a rejected request.
// errors.Is matches it against its Kind.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

// Profile is a set of validation rules. The organization calendar uses
// Strict; the quick booking form uses Lenient.
type Profile struct {
	Name                    string
	RequireEnd              bool
	RequireParticipants     bool
	RequireParticipantPhone bool
}

var (
	Strict = Profile{
		Name:                    "strict",
		RequireEnd:              true,
		RequireParticipants:     true,
		RequireParticipantPhone: true,
	}
	Lenient = Profile{
		Name: "lenient",
	}
)

// Flow names accepted from clients.
const (
	FlowCalendar = "calendar"
	FlowSimple   = "simple"
)

var ErrUnknownProfile = errors.New("unknown booking profile")

func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Strict.Name:
		return Strict, nil
	case Lenient.Name:
		return Lenient, nil
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// ProfileForFlow maps a client flow onto its profile. Profile names are
// accepted too.
func ProfileForFlow(flow string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(flow)) {
	case FlowCalendar:
		return Strict, nil
	case FlowSimple:
		return Lenient, nil
	}
	return ProfileByName(flow)
}

// Validate checks req in a fixed order and returns the first failure.
func (p Profile) Validate(req model.BookingRequest, hasPremiumPermission bool) error {
	if strings.TrimSpace(req.Title) == "" || req.Start.IsZero() || (p.RequireEnd && req.End.IsZero()) || req.LocationType == "" {
		return p.fail(ErrMissingRequiredField)
	}
	if !req.LocationType.Valid() {
		return &ValidationError{Kind: model.ErrUnknownLocationType, Message: fmt.Sprintf("unknown location type %q", req.LocationType)}
	}
	if req.LocationType == model.LocationPhysical && strings.TrimSpace(req.PhysicalAddress) == "" {
		return p.fail(ErrMissingAddress)
	}
	if catalog.IsGated(req.LocationType) && !hasPremiumPermission {
		return p.fail(ErrPermissionDenied)
	}
	if p.RequireParticipants && len(req.Participants) == 0 {
		return p.fail(ErrMissingParticipants)
	}
	for _, pt := range req.Participants {
		if strings.TrimSpace(pt.Email) == "" || (p.RequireParticipantPhone && strings.TrimSpace(pt.Phone) == "") {
			return p.fail(ErrInvalidParticipant)
		}
	}
	return nil
}

// CheckParticipant validates a single participant before it is added to a
// draft.
func (p Profile) CheckParticipant(pt model.Participant) error {
	if strings.TrimSpace(pt.Email) == "" || (p.RequireParticipantPhone && strings.TrimSpace(pt.Phone) == "") {
		return p.fail(ErrInvalidParticipant)
	}
	return nil
}

func (p Profile) fail(kind error) *ValidationError {
	return &ValidationError{Kind: kind, Message: p.message(kind)}
}

func (p Profile) message(kind error) string {
	switch kind {
	case ErrMissingRequiredField:
		if p.RequireEnd {
			return "meeting title, start and end time are required"
		}
		return "please complete all required fields"
	case ErrMissingAddress:
		return "physical meetings require a location/address"
	case ErrPermissionDenied:
		return "you do not have permission to book the premium room"
	case ErrMissingParticipants:
		return "at least one participant is required"
	case ErrInvalidParticipant:
		if p.RequireParticipantPhone {
			return "all participants must have both email and phone"
		}
		return "all participants must have an email"
	}
	return kind.Error()
}
