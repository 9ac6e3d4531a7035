package calendar

import (
	"slices"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

func TestExportRoundTrip(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	bookings := []model.Booking{
		{
			ID:           "b1",
			Title:        "Board sync",
			Start:        start,
			End:          &end,
			LocationType: model.LocationPremium,
			Participants: []model.Participant{{Name: "Ann", Email: "ann@acme.io", Phone: "555-0100"}},
			Attachments:  []model.Attachment{{Name: "minutes.docx"}},
			CreatedAt:    start.Add(-time.Hour),
		},
		{
			ID:              "b2",
			Title:           "Site visit",
			Start:           start.Add(24 * time.Hour),
			LocationType:    model.LocationPhysical,
			PhysicalAddress: "12 Main St",
			CreatedAt:       start,
		},
	}

	out := Export("Acme", slices.Values(bookings), start)
	if !strings.Contains(out, "X-WR-CALNAME:Acme meetings") {
		t.Fatalf("missing calendar name:\n%s", out)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if uid := events[0].GetProperty(ical.ComponentPropertyUniqueId); uid == nil || uid.Value != "b1@orgmeet" {
		t.Fatalf("unexpected uid: %#v", uid)
	}
	if loc := events[0].GetProperty(ical.ComponentPropertyLocation); loc == nil || loc.Value != "Premium Room" {
		t.Fatalf("unexpected premium location: %#v", loc)
	}
	if loc := events[1].GetProperty(ical.ComponentPropertyLocation); loc == nil || loc.Value != "12 Main St" {
		t.Fatalf("unexpected physical location: %#v", loc)
	}
	endAt, err := events[1].GetEndAt()
	if err != nil || !endAt.Equal(start.Add(24*time.Hour+defaultLength)) {
		t.Fatalf("expected default length for open-ended booking, got %v (%v)", endAt, err)
	}
}

func TestExportEmpty(t *testing.T) {
	out := Export("", slices.Values([]model.Booking(nil)), time.Now())
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
