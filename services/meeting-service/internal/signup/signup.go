package signup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/outbox"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/workspace"
	"golang.org/x/crypto/bcrypt"
)

var ErrMissingFields = errors.New("missing fields")

type Request struct {
	OrgName    string
	AdminName  string
	AdminEmail string
	Password   string
}

type Result struct {
	Organization model.Organization
	Admin        model.OrganizationUser
}

type EventSink interface {
	Insert(ctx context.Context, evt outbox.Event) error
}

// Service creates organizations together with their first admin user.
type Service struct {
	directory *workspace.Directory
	events    EventSink
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(directory *workspace.Directory, events EventSink, logger *slog.Logger) *Service {
	return &Service{directory: directory, events: events, logger: logger, now: time.Now}
}

// Signup creates the organization, its workspace and an admin on the Basic
// plan. Organization names and admin emails are not checked for uniqueness
// across organizations.
func (s *Service) Signup(ctx context.Context, req Request) (Result, error) {
	req.OrgName = strings.TrimSpace(req.OrgName)
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.AdminEmail = strings.TrimSpace(req.AdminEmail)
	if req.OrgName == "" || req.AdminName == "" || req.AdminEmail == "" || req.Password == "" {
		return Result{}, ErrMissingFields
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return Result{}, err
	}

	now := s.now().UTC()
	org := model.Organization{
		ID:         uuid.NewString(),
		Name:       req.OrgName,
		AdminEmail: req.AdminEmail,
		CreatedAt:  now,
	}
	ws := s.directory.Create(org)
	admin, err := ws.Users.Add(model.OrganizationUser{
		OrganizationID: org.ID,
		Name:           req.AdminName,
		Email:          req.AdminEmail,
		Plan:           model.PlanBasic,
		Role:           model.RoleAdmin,
		PasswordHash:   hash,
		CreatedAt:      now,
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("organization created", "org_id", org.ID, "admin_id", admin.ID)
	if s.events != nil {
		evt, err := outbox.NewEvent("organization", org.ID, outbox.EventOrganizationSignedUp, map[string]any{
			"organization_id": org.ID,
			"name":            org.Name,
			"admin_user_id":   admin.ID,
			"admin_email":     admin.Email,
			"created_at":      now.Format(time.RFC3339),
		})
		if err == nil {
			err = s.events.Insert(ctx, evt)
		}
		if err != nil {
			s.logger.Error("failed to enqueue signup event", "org_id", org.ID, "err", err)
		}
	}
	return Result{Organization: org, Admin: admin}, nil
}

func hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether raw matches the stored hash.
func VerifyPassword(hash string, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}
