// Package calendar renders an organization's bookings as an iCalendar feed.
package calendar

import (
	"iter"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/catalog"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

const productID = "-//reallifeconnect//orgmeet//EN"

// defaultLength is the event length for bookings without an end time.
const defaultLength = 30 * time.Minute

// Export writes one VEVENT per booking, in ledger order.
func Export(orgName string, bookings iter.Seq[model.Booking], now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if orgName != "" {
		cal.SetXWRCalName(orgName + " meetings")
	}

	for b := range bookings {
		ev := cal.AddEvent(b.ID + "@orgmeet")
		ev.SetDtStampTime(now.UTC())
		ev.SetCreatedTime(b.CreatedAt.UTC())
		ev.SetStartAt(b.Start.UTC())
		if b.End != nil {
			ev.SetEndAt(b.End.UTC())
		} else {
			ev.SetEndAt(b.Start.Add(defaultLength).UTC())
		}
		ev.SetSummary(b.Title)
		ev.SetLocation(locationText(b))
		if desc := description(b); desc != "" {
			ev.SetDescription(desc)
		}
		for _, p := range b.Participants {
			if p.Name != "" {
				ev.AddAttendee(p.Email, ical.WithCN(p.Name))
				continue
			}
			ev.AddAttendee(p.Email)
		}
	}
	return cal.Serialize()
}

func locationText(b model.Booking) string {
	if b.LocationType == model.LocationPhysical {
		return b.PhysicalAddress
	}
	for _, loc := range catalog.ListAvailableLocations(true) {
		if loc.Value == b.LocationType {
			return loc.Label
		}
	}
	return string(b.LocationType)
}

func description(b model.Booking) string {
	var lines []string
	for _, p := range b.Participants {
		if p.Phone != "" {
			lines = append(lines, p.Email+" "+p.Phone)
		}
	}
	if len(b.Attachments) > 0 {
		names := make([]string, 0, len(b.Attachments))
		for _, a := range b.Attachments {
			names = append(names, a.Name)
		}
		lines = append(lines, "Attachments: "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}
