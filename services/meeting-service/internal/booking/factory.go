package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/conferencing"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

// Factory turns valid requests into bookings. When a conferencing provider
// is set, the booking id is the provider's conference id.
type Factory struct {
	profile      Profile
	conferencing conferencing.Provider
	newID        func() string
	now          func() time.Time
}

func NewFactory(profile Profile, provider conferencing.Provider) *Factory {
	return &Factory{
		profile:      profile,
		conferencing: provider,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

func (f *Factory) Profile() Profile { return f.profile }

// WithProfile returns a factory sharing f's provider but validating with p.
func (f *Factory) WithProfile(p Profile) *Factory {
	cp := *f
	cp.profile = p
	return &cp
}

// ValidateAndCreate validates req and builds the booking. The provider is
// called at most once; its failure is returned unchanged.
func (f *Factory) ValidateAndCreate(ctx context.Context, req model.BookingRequest, hasPremiumPermission bool) (model.Booking, error) {
	if err := f.profile.Validate(req, hasPremiumPermission); err != nil {
		return model.Booking{}, err
	}

	id, source := f.newID(), model.SourceLocal
	if f.conferencing != nil {
		cid, err := f.conferencing.CreateConference(ctx, req)
		if err != nil {
			return model.Booking{}, err
		}
		id, source = cid, model.SourceConferencing
	}

	b := model.Booking{
		ID:              id,
		Title:           req.Title,
		Start:           req.Start,
		AllDay:          false,
		LocationType:    req.LocationType,
		PhysicalAddress: req.PhysicalAddress,
		Participants:    append(make([]model.Participant, 0, len(req.Participants)), req.Participants...),
		Attachments:     append(make([]model.Attachment, 0, len(req.Attachments)), req.Attachments...),
		Source:          source,
		CreatedAt:       f.now().UTC(),
	}
	if !req.End.IsZero() {
		end := req.End
		b.End = &end
	}
	if b.LocationType != model.LocationPhysical {
		b.PhysicalAddress = ""
	}
	return b, nil
}
