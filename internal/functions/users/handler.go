// internal/functions/users/handler.go
package users

import (
	"net/http"
	"time"

	apperrors "eventapp-functions/internal/common/errors"
	"eventapp-functions/internal/common/httpx"
	"eventapp-functions/internal/common/logger"
)

type Handler struct {
	provider IdentityProvider
	log      logger.Logger
}

func NewHandler(provider IdentityProvider, log logger.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log.WithFields(map[string]interface{}{"component": "users"}),
	}
}

// CheckEmail reports whether an account exists for the given email.
// An unknown email is a normal 200 response, not an error.
func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req CheckEmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The email is required"))
		return
	}

	exists, err := h.provider.EmailExists(r.Context(), req.Email)
	if err != nil {
		h.log.Error("email lookup failed", map[string]interface{}{"error": err})
		httpx.WriteError(w, apperrors.NewInternalError("Error checking email", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CheckEmailResponse{Exists: exists})
}

// DeleteUser removes an identity-provider account. Serves CORS preflight.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	httpx.SetCORS(w, "GET, POST, DELETE, OPTIONS")
	if httpx.Preflight(w, r, "GET, POST, DELETE, OPTIONS") {
		return
	}
	if !httpx.RequireMethod(w, r, http.MethodDelete) {
		return
	}

	var req DeleteUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.UID == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The UID is required"))
		return
	}

	if err := h.provider.DeleteUser(r.Context(), req.UID); err != nil {
		h.log.Error("user delete failed", map[string]interface{}{"uid": req.UID, "error": err})
		httpx.WriteError(w, apperrors.NewInternalError("Error deleting the user", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, DeleteUserResponse{Message: "User deleted successfully"})
}

// UsersByLoginDate counts users whose last sign-in falls inside the window.
func (h *Handler) UsersByLoginDate(w http.ResponseWriter, r *http.Request) {
	httpx.SetCORS(w, "POST")
	if httpx.Preflight(w, r, "POST") {
		return
	}
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req LoginDateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The start date and end date are required"))
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		httpx.WriteError(w, apperrors.NewBadRequestError("Invalid start date"))
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		httpx.WriteError(w, apperrors.NewBadRequestError("Invalid end date"))
		return
	}

	usersList, err := h.provider.ListUsers(r.Context())
	if err != nil {
		h.log.Error("user list failed", map[string]interface{}{"error": err})
		httpx.WriteError(w, apperrors.NewInternalError("Error getting users", err))
		return
	}

	count := 0
	startMs := start.UnixMilli()
	endMs := end.UnixMilli()
	for _, u := range usersList {
		if u.UserRecord == nil || u.UserMetadata == nil {
			continue
		}
		last := u.UserMetadata.LastLogInTimestamp
		if last >= startMs && last <= endMs {
			count++
		}
	}

	httpx.WriteJSON(w, http.StatusOK, LoginDateResponse{Count: count})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
