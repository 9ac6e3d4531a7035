package ledger

import (
	"iter"
	"sync"

	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

// Ledger is the append-only record of accepted bookings.
type Ledger struct {
	mu       sync.RWMutex
	bookings []model.Booking
}

func New() *Ledger {
	return &Ledger{}
}

// Append records b. Duplicate ids are not checked.
func (l *Ledger) Append(b model.Booking) {
	l.mu.Lock()
	l.bookings = append(l.bookings, b)
	l.mu.Unlock()
}

// All yields bookings in insertion order. Each iteration walks the bookings
// present when it started, so the sequence can be ranged over repeatedly.
func (l *Ledger) All() iter.Seq[model.Booking] {
	return func(yield func(model.Booking) bool) {
		l.mu.RLock()
		snapshot := l.bookings[:len(l.bookings):len(l.bookings)]
		l.mu.RUnlock()

		for _, b := range snapshot {
			if !yield(b) {
				return
			}
		}
	}
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bookings)
}

// Find returns the first booking with id.
func (l *Ledger) Find(id string) (model.Booking, bool) {
	for b := range l.All() {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}
