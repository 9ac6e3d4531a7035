// Package workspace holds the in-memory state of each organization. State is
// created at signup and lives until the process exits.
package workspace

import (
	"errors"
	"sync"

	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/ledger"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/permissions"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/rooms"
)

var ErrOrganizationNotFound = errors.New("organization not found")

type Workspace struct {
	Organization model.Organization
	Users        *permissions.Registry
	Rooms        *rooms.List
	Ledger       *ledger.Ledger
}

func New(org model.Organization) *Workspace {
	return &Workspace{
		Organization: org,
		Users:        permissions.NewRegistry(),
		Rooms:        rooms.New(org.EmailDomain()),
		Ledger:       ledger.New(),
	}
}

// Directory maps organization ids to workspaces.
type Directory struct {
	mu    sync.RWMutex
	byID  map[string]*Workspace
	order []string
}

func NewDirectory() *Directory {
	return &Directory{byID: map[string]*Workspace{}}
}

// Create registers a fresh workspace for org.
func (d *Directory) Create(org model.Organization) *Workspace {
	ws := New(org)
	d.mu.Lock()
	if _, exists := d.byID[org.ID]; !exists {
		d.order = append(d.order, org.ID)
	}
	d.byID[org.ID] = ws
	d.mu.Unlock()
	return ws
}

func (d *Directory) Get(orgID string) (*Workspace, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ws, ok := d.byID[orgID]
	if !ok {
		return nil, ErrOrganizationNotFound
	}
	return ws, nil
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}
