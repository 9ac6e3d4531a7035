package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

var (
	t0 = time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func validRequest() model.BookingRequest {
	return model.BookingRequest{
		Title:        "Kickoff",
		Start:        t0,
		End:          t1,
		LocationType: model.LocationOnline,
		Participants: []model.Participant{{Name: "Ann", Email: "ann@acme.io", Phone: "555-0100"}},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := Strict.Validate(validRequest(), false); err != nil {
		t.Fatalf("strict: %v", err)
	}
	req := validRequest()
	req.End = time.Time{}
	req.Participants = nil
	if err := Lenient.Validate(req, false); err != nil {
		t.Fatalf("lenient: %v", err)
	}
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name       string
		profile    Profile
		permission bool
		edit       func(*model.BookingRequest)
		want       error
	}{
		{"missing title", Strict, false, func(r *model.BookingRequest) { r.Title = "  " }, ErrMissingRequiredField},
		{"missing start", Lenient, false, func(r *model.BookingRequest) { r.Start = time.Time{} }, ErrMissingRequiredField},
		{"missing end strict", Strict, false, func(r *model.BookingRequest) { r.End = time.Time{} }, ErrMissingRequiredField},
		{"missing location", Lenient, false, func(r *model.BookingRequest) { r.LocationType = "" }, ErrMissingRequiredField},
		{"unknown location", Lenient, false, func(r *model.BookingRequest) { r.LocationType = "moon" }, model.ErrUnknownLocationType},
		{"physical without address", Strict, false, func(r *model.BookingRequest) { r.LocationType = model.LocationPhysical }, ErrMissingAddress},
		{"premium without permission", Strict, false, func(r *model.BookingRequest) { r.LocationType = model.LocationPremium }, ErrPermissionDenied},
		{"no participants strict", Strict, false, func(r *model.BookingRequest) { r.Participants = nil }, ErrMissingParticipants},
		{"participant without phone strict", Strict, false, func(r *model.BookingRequest) { r.Participants[0].Phone = "" }, ErrInvalidParticipant},
		{"participant without email lenient", Lenient, false, func(r *model.BookingRequest) { r.Participants[0].Email = "" }, ErrInvalidParticipant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.edit(&req)
			err := tc.profile.Validate(req, tc.permission)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Message == "" {
				t.Fatalf("expected *ValidationError with message, got %T", err)
			}
		})
	}
}

func TestValidateOrder(t *testing.T) {
	// Physical with no address, premium-free, and no participants: the
	// address rule fires before the participants rule.
	req := validRequest()
	req.LocationType = model.LocationPhysical
	req.Participants = nil
	if err := Strict.Validate(req, false); !errors.Is(err, ErrMissingAddress) {
		t.Fatalf("expected ErrMissingAddress, got %v", err)
	}

	// Premium without permission and invalid participants: permission first.
	req = validRequest()
	req.LocationType = model.LocationPremium
	req.Participants = []model.Participant{{Name: "nobody"}}
	if err := Strict.Validate(req, false); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	// Missing title wins over everything.
	req.Title = ""
	if err := Strict.Validate(req, false); !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
}

func TestLenientPhoneOptional(t *testing.T) {
	req := validRequest()
	req.Participants = []model.Participant{{Email: "bo@acme.io"}}
	if err := Lenient.Validate(req, false); err != nil {
		t.Fatalf("phone is optional in the lenient profile: %v", err)
	}
	if err := Strict.Validate(req, false); !errors.Is(err, ErrInvalidParticipant) {
		t.Fatalf("phone is required in the strict profile: %v", err)
	}
}

func TestPremiumWithPermission(t *testing.T) {
	req := validRequest()
	req.LocationType = model.LocationPremium
	if err := Strict.Validate(req, true); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestProfileLookup(t *testing.T) {
	for in, want := range map[string]string{"calendar": "strict", "simple": "lenient", "STRICT": "strict", "lenient": "lenient"} {
		p, err := ProfileForFlow(in)
		if err != nil || p.Name != want {
			t.Fatalf("ProfileForFlow(%q) = %q, %v", in, p.Name, err)
		}
	}
	if _, err := ProfileForFlow("express"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestCheckParticipant(t *testing.T) {
	if err := Strict.CheckParticipant(model.Participant{Email: "a@x.com"}); !errors.Is(err, ErrInvalidParticipant) {
		t.Fatalf("expected ErrInvalidParticipant, got %v", err)
	}
	if err := Lenient.CheckParticipant(model.Participant{Email: "a@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
