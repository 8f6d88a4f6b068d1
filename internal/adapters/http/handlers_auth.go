package http

import (
	"net/http"

	"github.com/authplug/broker/internal/application"
)

func (h *Handler) startRegistration(w http.ResponseWriter, r *http.Request) {
	var req application.StartRegistrationRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "start_registration", err)
		return
	}

	res, err := h.service.StartRegistration(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "start_registration", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) completeRegistration(w http.ResponseWriter, r *http.Request) {
	var req application.CompleteHandshakeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "complete_registration", err)
		return
	}

	res, err := h.service.CompleteRegistration(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "complete_registration", err)
		return
	}

	setRefreshCookie(w, res.RefreshToken, res.RefreshTokenExpiresAt)
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) startLogin(w http.ResponseWriter, r *http.Request) {
	var req application.StartLoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "start_login", err)
		return
	}

	res, err := h.service.StartLogin(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "start_login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) completeLogin(w http.ResponseWriter, r *http.Request) {
	var req application.CompleteHandshakeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "complete_login", err)
		return
	}

	res, err := h.service.CompleteLogin(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "complete_login", err)
		return
	}

	setRefreshCookie(w, res.RefreshToken, res.RefreshTokenExpiresAt)
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) exchange(w http.ResponseWriter, r *http.Request) {
	var req application.ExchangeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "exchange", err)
		return
	}

	res, err := h.service.Exchange(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "exchange", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) rotate(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Rotate(r.Context(), refreshTokenFromRequest(r))
	if err != nil {
		clearRefreshCookie(w)
		writeMappedError(r.Context(), w, "rotate", err)
		return
	}

	setRefreshCookie(w, res.RefreshToken, res.RefreshTokenExpiresAt)
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), refreshTokenFromRequest(r)); err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}
	clearRefreshCookie(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) jwks(w http.ResponseWriter, r *http.Request) {
	keys, err := h.service.PublicJWKs(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "jwks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}
