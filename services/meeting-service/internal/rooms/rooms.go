package rooms

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

const (
	defaultName   = "Premium Room"
	defaultDomain = "org.com"
)

// List is an organization's premium rooms. Rooms are never edited or removed.
type List struct {
	mu     sync.RWMutex
	domain string
	rooms  []model.PremiumResource
	now    func() time.Time
}

// New returns a list seeded with the organization's default premium room.
// Contact addresses are generated under domain (org.com when empty).
func New(domain string) *List {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = defaultDomain
	}
	l := &List{domain: domain, now: time.Now}
	l.rooms = append(l.rooms, l.newRoom(defaultName, "premium@"+domain))
	return l
}

// Add appends a room. A blank name or email is generated from the room's
// position: "Premium Room #3", "premium3@<domain>".
func (l *List) Add(name, email string) model.PremiumResource {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.rooms) + 1
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("%s #%d", defaultName, n)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = fmt.Sprintf("premium%d@%s", n, l.domain)
	}
	room := l.newRoom(name, email)
	l.rooms = append(l.rooms, room)
	return room
}

// List returns rooms in creation order.
func (l *List) List() []model.PremiumResource {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.PremiumResource, len(l.rooms))
	copy(out, l.rooms)
	return out
}

func (l *List) newRoom(name, email string) model.PremiumResource {
	return model.PremiumResource{
		ID:           uuid.NewString(),
		Name:         name,
		ContactEmail: email,
		CreatedAt:    l.now().UTC(),
	}
}
