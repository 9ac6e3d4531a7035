package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/conferencing"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/outbox"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/workspace"
)

type stubProvider struct {
	id    string
	err   error
	calls int
}

func (p *stubProvider) CreateConference(context.Context, model.BookingRequest) (string, error) {
	p.calls++
	return p.id, p.err
}

type recordingSink struct {
	events []outbox.Event
}

func (s *recordingSink) Insert(_ context.Context, evt outbox.Event) error {
	s.events = append(s.events, evt)
	return nil
}

func fixedFactory(provider conferencing.Provider) *Factory {
	f := NewFactory(Strict, provider)
	f.newID = func() string { return "local-1" }
	f.now = func() time.Time { return t0 }
	return f
}

func TestValidateAndCreateLocal(t *testing.T) {
	req := validRequest()
	req.AddAttachments(model.Attachment{Name: "agenda.pdf"})

	b, err := fixedFactory(nil).ValidateAndCreate(context.Background(), req, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID != "local-1" || b.Source != model.SourceLocal {
		t.Fatalf("unexpected id/source: %s %s", b.ID, b.Source)
	}
	if b.AllDay || b.End == nil || !b.End.Equal(t1) || b.Title != "Kickoff" {
		t.Fatalf("unexpected booking: %#v", b)
	}
	if len(b.Attachments) != 1 || b.Attachments[0].Name != "agenda.pdf" {
		t.Fatalf("attachments not carried: %#v", b.Attachments)
	}

	// The booking owns its slices.
	req.Participants[0].Email = "changed@acme.io"
	if b.Participants[0].Email != "ann@acme.io" {
		t.Fatal("booking must not alias the request")
	}
}

func TestValidateAndCreateUsesConferenceID(t *testing.T) {
	p := &stubProvider{id: "conf-77"}
	b, err := fixedFactory(p).ValidateAndCreate(context.Background(), validRequest(), false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID != "conf-77" || b.Source != model.SourceConferencing || p.calls != 1 {
		t.Fatalf("unexpected booking %s/%s after %d calls", b.ID, b.Source, p.calls)
	}
}

func TestValidateAndCreateSkipsProviderOnInvalid(t *testing.T) {
	p := &stubProvider{id: "conf-77"}
	req := validRequest()
	req.Title = ""
	if _, err := fixedFactory(p).ValidateAndCreate(context.Background(), req, false); !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
	if p.calls != 0 {
		t.Fatal("provider must not be called for invalid requests")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceBookAppendsAndPublishes(t *testing.T) {
	ws := workspace.New(model.Organization{ID: "org-1"})
	sink := &recordingSink{}
	svc := NewService(fixedFactory(nil), sink, discardLogger())

	req := validRequest()
	req.LocationType = model.LocationPremium
	b, err := svc.Book(context.Background(), ws, Strict, req, true)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if b.LocationType != model.LocationPremium {
		t.Fatalf("unexpected location %s", b.LocationType)
	}
	if got, ok := ws.Ledger.Find(b.ID); !ok || got.Title != "Kickoff" {
		t.Fatal("booking not appended")
	}
	if len(sink.events) != 1 || sink.events[0].EventType != outbox.EventMeetingBooked {
		t.Fatalf("unexpected events: %#v", sink.events)
	}
}

func TestServiceBookRejections(t *testing.T) {
	ws := workspace.New(model.Organization{ID: "org-1"})
	sink := &recordingSink{}

	req := validRequest()
	req.LocationType = model.LocationPremium
	if _, err := NewService(fixedFactory(nil), sink, discardLogger()).Book(context.Background(), ws, Strict, req, false); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	failing := &stubProvider{err: &conferencing.ProviderError{StatusCode: 500, Message: "boom"}}
	if _, err := NewService(fixedFactory(failing), sink, discardLogger()).Book(context.Background(), ws, Strict, validRequest(), false); !errors.Is(err, conferencing.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if failing.calls != 1 {
		t.Fatalf("provider must be called exactly once, got %d", failing.calls)
	}

	if ws.Ledger.Len() != 0 || len(sink.events) != 0 {
		t.Fatal("rejected bookings must not be recorded")
	}
}

func TestServiceLenientProfile(t *testing.T) {
	ws := workspace.New(model.Organization{ID: "org-1"})
	svc := NewService(fixedFactory(nil), nil, discardLogger())

	req := model.BookingRequest{
		Title:           "Coffee",
		Start:           t0,
		LocationType:    model.LocationPhysical,
		PhysicalAddress: "12 Main St",
	}
	b, err := svc.Book(context.Background(), ws, Lenient, req, false)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if b.End != nil || b.PhysicalAddress != "12 Main St" {
		t.Fatalf("unexpected booking: %#v", b)
	}
	if svc.DefaultProfile().Name != "strict" {
		t.Fatal("default profile comes from the factory")
	}
}
