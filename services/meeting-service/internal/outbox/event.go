package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the meeting service. The Kafka topic equals the
// event type.
const (
	EventOrganizationSignedUp = "organization.signed_up.v1"
	EventUserAdded            = "organization.user.added.v1"
	EventUserPremiumToggled   = "organization.user.premium_toggled.v1"
	EventPremiumRoomAdded     = "organization.premium_resource.added.v1"
	EventMeetingBooked        = "booking.meeting.booked.v1"
)

// Event is the domain event envelope held in the outbox until published.
type Event struct {
	EventID       string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Traceparent   string
	Tracestate    string
	CreatedAt     time.Time
}

// NewEvent marshals payload into an event envelope.
func NewEvent(aggregateType, aggregateID, eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		EventID:       uuid.NewString(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       raw,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
