package handlers

import (
	"errors"
	"net/http"

	"github.com/reallifeconnect/orgmeet/libs/httpx"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/booking"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/conferencing"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/model"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/permissions"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/workspace"
)

var validationCodes = map[error]string{
	booking.ErrMissingRequiredField: "missing_required_field",
	booking.ErrMissingAddress:       "missing_address",
	booking.ErrPermissionDenied:     "permission_denied",
	booking.ErrMissingParticipants:  "missing_participants",
	booking.ErrInvalidParticipant:   "invalid_participant",
	model.ErrUnknownLocationType:    "unknown_location_type",
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *booking.ValidationError
		perr *conferencing.ProviderError
	)
	switch {
	case errors.As(err, &verr):
		status := http.StatusUnprocessableEntity
		if errors.Is(err, booking.ErrPermissionDenied) {
			status = http.StatusForbidden
		}
		httpx.WriteError(w, status, validationCodes[verr.Kind], verr.Message)
	case errors.Is(err, permissions.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, workspace.ErrOrganizationNotFound):
		httpx.WriteError(w, http.StatusNotFound, "organization_not_found", err.Error())
	case errors.Is(err, permissions.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.As(err, &perr):
		httpx.WriteError(w, http.StatusBadGateway, "provider_error", perr.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, "bad_request", msg)
}
