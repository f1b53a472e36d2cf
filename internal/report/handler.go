package report

import (
	"context"
	"net/http"

	"medicquiz/internal/app/apiresp"
)

type Handler struct {
	svc reportService
}

type reportService interface {
	Summary(ctx context.Context) (Report, error)
}

func NewHandler(svc reportService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Summary(r.Context())
	if err != nil {
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, out)
}
