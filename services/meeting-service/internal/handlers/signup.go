package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/signup"
)

type SignupHandler struct {
	svc    *signup.Service
	logger *slog.Logger
}

func NewSignupHandler(svc *signup.Service, logger *slog.Logger) *SignupHandler {
	return &SignupHandler{svc: svc, logger: logger}
}

type signupRequest struct {
	OrgName    string `json:"orgName"`
	AdminName  string `json:"adminName"`
	AdminEmail string `json:"adminEmail"`
	Password   string `json:"password"`
}

// Signup keeps the plain-text contract of the public signup form.
func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Signup(r.Context(), signup.Request{
		OrgName:    req.OrgName,
		AdminName:  req.AdminName,
		AdminEmail: req.AdminEmail,
		Password:   req.Password,
	})
	if err != nil {
		if errors.Is(err, signup.ErrMissingFields) {
			http.Error(w, "Missing fields", http.StatusBadRequest)
			return
		}
		h.logger.Error("signup failed", "err", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(orgHeader, res.Organization.ID)
	w.Header().Set("X-User-Id", res.Admin.ID)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Organization and admin user created"))
}
