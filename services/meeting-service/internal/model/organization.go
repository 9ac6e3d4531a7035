package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Plan string

const (
	PlanBasic Plan = "Basic"
	PlanPlus  Plan = "Plus"
)

var ErrUnknownPlan = errors.New("unknown plan")

func ParsePlan(raw string) (Plan, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "basic":
		return PlanBasic, nil
	case "plus":
		return PlanPlus, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, raw)
	}
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Organization struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	AdminEmail string    `json:"admin_email"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmailDomain is the domain part of the admin address, used to derive
// contact addresses for the organization's rooms.
func (o Organization) EmailDomain() string {
	_, domain, ok := strings.Cut(o.AdminEmail, "@")
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !ok || domain == "" {
		return ""
	}
	return domain
}

type OrganizationUser struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Plan           Plan      `json:"plan"`
	Role           Role      `json:"role"`
	CanBookPremium bool      `json:"can_book_premium"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type PremiumResource struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}
