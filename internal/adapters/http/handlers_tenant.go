package http

import (
	"net/http"

	"github.com/authplug/broker/internal/application"
)

func (h *Handler) startTenantRegistration(w http.ResponseWriter, r *http.Request) {
	var req application.StartTenantRegistrationRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "start_tenant_registration", err)
		return
	}

	res, err := h.service.StartTenantRegistration(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "start_tenant_registration", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) completeTenantRegistration(w http.ResponseWriter, r *http.Request) {
	var req application.CompleteHandshakeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "complete_tenant_registration", err)
		return
	}

	res, err := h.service.CompleteTenantRegistration(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "complete_tenant_registration", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}
