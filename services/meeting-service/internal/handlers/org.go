package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/reallifeconnect/orgmeet/libs/httpx"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/booking"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/calendar"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/catalog"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/outbox"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/workspace"
)

const orgHeader = "X-Organization-Id"

type OrgHandler struct {
	directory *workspace.Directory
	bookings  *booking.Service
	events    booking.EventSink
	logger    *slog.Logger
}

func NewOrgHandler(directory *workspace.Directory, bookings *booking.Service, events booking.EventSink, logger *slog.Logger) *OrgHandler {
	return &OrgHandler{
		directory: directory,
		bookings:  bookings,
		events:    events,
		logger:    logger,
	}
}

// Register mounts the organization API on mux.
func (h *OrgHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/org/users", h.Users)
	mux.HandleFunc("/api/v1/org/users/premium", h.TogglePremium)
	mux.HandleFunc("/api/v1/org/locations", h.Locations)
	mux.HandleFunc("/api/v1/org/premium-resources", h.PremiumResources)
	mux.HandleFunc("/api/v1/org/bookings", h.Bookings)
	mux.HandleFunc("/api/v1/org/bookings.ics", h.BookingsICS)
}

type addUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

type toggleRequest struct {
	UserID string `json:"user_id"`
}

type toggleResponse struct {
	UserID         string `json:"user_id"`
	CanBookPremium bool   `json:"can_book_premium"`
}

type addResourceRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createBookingRequest struct {
	Flow            string              `json:"flow"`
	UserID          string              `json:"user_id"`
	CanBookPremium  *bool               `json:"can_book_premium"`
	Title           string              `json:"title"`
	Start           string              `json:"start"`
	End             string              `json:"end"`
	Instant         string              `json:"instant"`
	LocationType    string              `json:"location_type"`
	PhysicalAddress string              `json:"physical_address"`
	Participants    []model.Participant `json:"participants"`
	Attachments     []model.Attachment  `json:"attachments"`
}

func (h *OrgHandler) Users(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		httpx.WriteJSON(w, http.StatusOK, ws.Users.List())
	case http.MethodPost:
		var req addUserRequest
		if err := httpx.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, "invalid json body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		if req.Name == "" || req.Email == "" || strings.TrimSpace(req.Plan) == "" {
			badRequest(w, "name, email and plan required")
			return
		}
		plan, err := model.ParsePlan(req.Plan)
		if err != nil {
			badRequest(w, "plan must be Basic or Plus")
			return
		}

		u, err := ws.Users.Add(model.OrganizationUser{
			OrganizationID: ws.Organization.ID,
			Name:           req.Name,
			Email:          req.Email,
			Plan:           plan,
			Role:           model.RoleMember,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		h.emit(r.Context(), "organization_user", u.ID, outbox.EventUserAdded, map[string]any{
			"organization_id": ws.Organization.ID,
			"user_id":         u.ID,
			"email":           u.Email,
			"plan":            u.Plan,
		})
		httpx.WriteJSON(w, http.StatusCreated, u)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *OrgHandler) TogglePremium(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req toggleRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		badRequest(w, "user_id required")
		return
	}

	allowed, err := ws.Users.TogglePremium(req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("premium permission changed", "org_id", ws.Organization.ID, "user_id", req.UserID, "can_book_premium", allowed)
	h.emit(r.Context(), "organization_user", req.UserID, outbox.EventUserPremiumToggled, map[string]any{
		"organization_id":  ws.Organization.ID,
		"user_id":          req.UserID,
		"can_book_premium": allowed,
	})
	httpx.WriteJSON(w, http.StatusOK, toggleResponse{UserID: req.UserID, CanBookPremium: allowed})
}

func (h *OrgHandler) Locations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var flag *bool
	if raw := strings.TrimSpace(q.Get("can_book_premium")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, "invalid can_book_premium")
			return
		}
		flag = &v
	}
	allowed, err := resolvePermission(ws, strings.TrimSpace(q.Get("user_id")), flag)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalog.ListAvailableLocations(allowed))
}

func (h *OrgHandler) PremiumResources(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		httpx.WriteJSON(w, http.StatusOK, ws.Rooms.List())
	case http.MethodPost:
		var req addResourceRequest
		// An empty body adds a room with generated name and email.
		if err := httpx.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(w, "invalid json body")
			return
		}
		room := ws.Rooms.Add(req.Name, req.Email)
		h.emit(r.Context(), "premium_resource", room.ID, outbox.EventPremiumRoomAdded, map[string]any{
			"organization_id": ws.Organization.ID,
			"resource_id":     room.ID,
			"name":            room.Name,
			"contact_email":   room.ContactEmail,
		})
		httpx.WriteJSON(w, http.StatusCreated, room)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *OrgHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
			b, found := ws.Ledger.Find(id)
			if !found {
				httpx.WriteError(w, http.StatusNotFound, "booking_not_found", "booking not found")
				return
			}
			httpx.WriteJSON(w, http.StatusOK, b)
			return
		}
		out := slices.Collect(ws.Ledger.All())
		if out == nil {
			out = []model.Booking{}
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	case http.MethodPost:
		h.createBooking(w, r, ws)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *OrgHandler) createBooking(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	var req createBookingRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	profile := h.bookings.DefaultProfile()
	if strings.TrimSpace(req.Flow) != "" {
		p, err := booking.ProfileForFlow(req.Flow)
		if err != nil {
			badRequest(w, "flow must be calendar or simple")
			return
		}
		profile = p
	}

	locationType, err := model.ParseLocationType(req.LocationType)
	if err != nil {
		badRequest(w, "location_type must be online, physical or premium")
		return
	}
	start := req.Start
	if strings.TrimSpace(start) == "" {
		start = req.Instant
	}
	startTime, err := parseTime(start)
	if err != nil {
		badRequest(w, "invalid start")
		return
	}
	endTime, err := parseTime(req.End)
	if err != nil {
		badRequest(w, "invalid end")
		return
	}
	for _, a := range req.Attachments {
		if strings.TrimSpace(a.Name) == "" {
			badRequest(w, "attachments require a name")
			return
		}
	}

	allowed, err := resolvePermission(ws, strings.TrimSpace(req.UserID), req.CanBookPremium)
	if err != nil {
		writeError(w, err)
		return
	}

	participants := make([]model.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, model.Participant{
			Name:  strings.TrimSpace(p.Name),
			Email: strings.TrimSpace(p.Email),
			Phone: strings.TrimSpace(p.Phone),
		})
	}

	b, err := h.bookings.Book(r.Context(), ws, profile, model.BookingRequest{
		Title:           strings.TrimSpace(req.Title),
		Start:           startTime,
		End:             endTime,
		LocationType:    locationType,
		PhysicalAddress: strings.TrimSpace(req.PhysicalAddress),
		Participants:    participants,
		Attachments:     req.Attachments,
	}, allowed)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *OrgHandler) BookingsICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	body := calendar.Export(ws.Organization.Name, ws.Ledger.All(), time.Now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="bookings.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *OrgHandler) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	orgID := strings.TrimSpace(r.Header.Get(orgHeader))
	if orgID == "" {
		orgID = strings.TrimSpace(r.URL.Query().Get("organization_id"))
	}
	if orgID == "" {
		badRequest(w, "organization_id required")
		return nil, false
	}
	ws, err := h.directory.Get(orgID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return ws, true
}

func (h *OrgHandler) emit(ctx context.Context, aggregateType, aggregateID, eventType string, payload map[string]any) {
	if h.events == nil {
		return
	}
	evt, err := outbox.NewEvent(aggregateType, aggregateID, eventType, payload)
	if err == nil {
		err = h.events.Insert(ctx, evt)
	}
	if err != nil {
		h.logger.Error("failed to enqueue event", "event_type", eventType, "err", err)
	}
}

// resolvePermission looks the user up when an id is given, otherwise uses
// the explicit flag. Anonymous callers have no premium permission.
func resolvePermission(ws *workspace.Workspace, userID string, flag *bool) (bool, error) {
	if userID != "" {
		u, err := ws.Users.Get(userID)
		if err != nil {
			return false, err
		}
		return u.CanBookPremium, nil
	}
	if flag != nil {
		return *flag, nil
	}
	return false, nil
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("time must be RFC3339")
	}
	return t, nil
}
