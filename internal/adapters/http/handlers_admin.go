package http

import (
	"net/http"

	"github.com/authplug/broker/internal/application"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) startAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req application.StartAdminLoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "start_admin_login", err)
		return
	}

	res, err := h.service.StartAdminLogin(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "start_admin_login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) completeAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req application.CompleteHandshakeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "complete_admin_login", err)
		return
	}

	res, err := h.service.CompleteAdminLogin(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "complete_admin_login", err)
		return
	}

	setAdminSessionCookie(w, res.SessionToken, res.SessionTokenExpiresAt)
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminLogout(w http.ResponseWriter, _ *http.Request) {
	clearAdminSessionCookie(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) adminProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	res, err := h.service.Profile(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	res, err := h.service.Stats(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_stats", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminListMembers(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	res, err := h.service.ListMembers(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_members", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	var req application.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_change_password", err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims, req); err != nil {
		writeMappedError(r.Context(), w, "admin_change_password", err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (h *Handler) adminListOrigins(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	res, err := h.service.ListOrigins(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_origins", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminAddOrigin(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_add_origin", err)
		return
	}

	res, err := h.service.AddOrigin(r.Context(), claims, req.URL)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_add_origin", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) adminRemoveOrigin(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	originID, err := uuid.Parse(chi.URLParam(r, "origin_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid origin id")
		return
	}

	if err := h.service.RemoveOrigin(r.Context(), claims, originID); err != nil {
		writeMappedError(r.Context(), w, "admin_remove_origin", err)
		return
	}
	writeMessage(w, http.StatusOK, "Origin removed successfully")
}
