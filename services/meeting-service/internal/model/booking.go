package model

import "time"

type Participant struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Attachment is an opaque handle to an uploaded file. Bytes never pass
// through this service.
type Attachment struct {
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// BookingRequest is a meeting draft awaiting validation. End is zero in the
// simple flow, where Start is the single meeting instant.
type BookingRequest struct {
	Title           string
	Start           time.Time
	End             time.Time
	LocationType    LocationType
	PhysicalAddress string
	Participants    []Participant
	Attachments     []Attachment
}

func (r *BookingRequest) AddParticipant(p Participant) {
	r.Participants = append(r.Participants, p)
}

// RemoveParticipant drops the participant at i, keeping the order of the rest.
func (r *BookingRequest) RemoveParticipant(i int) bool {
	if i < 0 || i >= len(r.Participants) {
		return false
	}
	r.Participants = append(r.Participants[:i:i], r.Participants[i+1:]...)
	return true
}

func (r *BookingRequest) AddAttachments(files ...Attachment) {
	r.Attachments = append(r.Attachments, files...)
}

func (r *BookingRequest) RemoveAttachment(i int) bool {
	if i < 0 || i >= len(r.Attachments) {
		return false
	}
	r.Attachments = append(r.Attachments[:i:i], r.Attachments[i+1:]...)
	return true
}

type BookingSource string

const (
	SourceLocal        BookingSource = "local"
	SourceConferencing BookingSource = "conferencing"
)

// Booking is an accepted meeting. It is never mutated after creation.
type Booking struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Start           time.Time     `json:"start"`
	End             *time.Time    `json:"end,omitempty"`
	AllDay          bool          `json:"all_day"`
	LocationType    LocationType  `json:"location_type"`
	PhysicalAddress string        `json:"physical_address,omitempty"`
	Participants    []Participant `json:"participants"`
	Attachments     []Attachment  `json:"attachments"`
	Source          BookingSource `json:"source"`
	CreatedAt       time.Time     `json:"created_at"`
}
