package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	otelx "github.com/reallifeconnect/orgmeet/libs/otel"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/outbox"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/workspace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EventSink receives domain events for asynchronous publishing.
type EventSink interface {
	Insert(ctx context.Context, evt outbox.Event) error
}

// Service books meetings into an organization's ledger.
type Service struct {
	factory *Factory
	events  EventSink
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewService(factory *Factory, events EventSink, logger *slog.Logger) *Service {
	return &Service{
		factory: factory,
		events:  events,
		logger:  logger,
		tracer:  otelx.Tracer("meeting-service/booking"),
	}
}

// DefaultProfile is the profile used when a caller does not name a flow.
func (s *Service) DefaultProfile() Profile { return s.factory.Profile() }

// Book validates req under profile, creates the booking and appends it to
// the workspace ledger. Nothing is appended when validation or the
// conferencing provider fails.
func (s *Service) Book(ctx context.Context, ws *workspace.Workspace, profile Profile, req model.BookingRequest, hasPremiumPermission bool) (model.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Book", trace.WithAttributes(
		attribute.String("organization.id", ws.Organization.ID),
		attribute.String("booking.profile", profile.Name),
		attribute.String("booking.location_type", string(req.LocationType)),
		attribute.Int("booking.participants", len(req.Participants)),
	))
	defer span.End()

	b, err := s.factory.WithProfile(profile).ValidateAndCreate(ctx, req, hasPremiumPermission)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			span.SetAttributes(attribute.String("booking.rejected", verr.Kind.Error()))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Warn("booking failed", "org_id", ws.Organization.ID, "err", err)
		}
		return model.Booking{}, err
	}

	ws.Ledger.Append(b)
	span.SetAttributes(attribute.String("booking.id", b.ID), attribute.String("booking.source", string(b.Source)))
	s.logger.Info("meeting booked",
		"org_id", ws.Organization.ID,
		"booking_id", b.ID,
		"location_type", b.LocationType,
		"source", b.Source,
	)
	s.publish(ctx, ws, b)
	return b, nil
}

func (s *Service) publish(ctx context.Context, ws *workspace.Workspace, b model.Booking) {
	if s.events == nil {
		return
	}
	payload := map[string]any{
		"booking_id":      b.ID,
		"organization_id": ws.Organization.ID,
		"title":           b.Title,
		"start":           b.Start.UTC().Format(time.RFC3339),
		"location_type":   b.LocationType,
		"participants":    len(b.Participants),
		"attachments":     len(b.Attachments),
		"source":          b.Source,
	}
	if b.End != nil {
		payload["end"] = b.End.UTC().Format(time.RFC3339)
	}
	evt, err := outbox.NewEvent("booking", b.ID, outbox.EventMeetingBooked, payload)
	if err == nil {
		err = s.events.Insert(ctx, evt)
	}
	if err != nil {
		s.logger.Error("failed to enqueue booking event", "booking_id", b.ID, "err", err)
	}
}
