package permissions

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/catalog"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered in organization")
)

// Registry holds an organization's users and their premium permission.
// The mutex keeps the maps consistent under concurrent requests; it does not
// make sequences of calls atomic.
type Registry struct {
	mu      sync.RWMutex
	users   map[string]*model.OrganizationUser
	byEmail map[string]string
	order   []string
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		users:   map[string]*model.OrganizationUser{},
		byEmail: map[string]string{},
		now:     time.Now,
	}
}

// Add stores u, assigning an id and creation time when absent.
func (r *Registry) Add(u model.OrganizationUser) (model.OrganizationUser, error) {
	key := emailKey(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[key]; taken {
		return model.OrganizationUser{}, ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	stored := u
	r.users[u.ID] = &stored
	r.byEmail[key] = u.ID
	r.order = append(r.order, u.ID)
	return stored, nil
}

func (r *Registry) Get(id string) (model.OrganizationUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.OrganizationUser{}, ErrNotFound
	}
	return *u, nil
}

// List returns users in the order they were added.
func (r *Registry) List() []model.OrganizationUser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.OrganizationUser, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.users[id])
	}
	return out
}

// TogglePremium flips the user's premium permission and returns the new value.
func (r *Registry) TogglePremium(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, ErrNotFound
	}
	u.CanBookPremium = !u.CanBookPremium
	return u.CanBookPremium, nil
}

// CanBook reports whether user id may book a meeting of kind.
func (r *Registry) CanBook(id string, kind model.LocationType) (bool, error) {
	u, err := r.Get(id)
	if err != nil {
		return false, err
	}
	return CanBookWith(u.CanBookPremium, kind), nil
}

// CanBookWith is CanBook for callers that hold the permission flag directly.
func CanBookWith(hasPremium bool, kind model.LocationType) bool {
	if catalog.IsGated(kind) {
		return hasPremium
	}
	return true
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
