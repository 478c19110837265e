package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

type IngestHandler struct {
	svc PageViewRecorder
}

func NewIngestHandler(svc PageViewRecorder) *IngestHandler {
	return &IngestHandler{svc: svc}
}

// AddData records one page view reported by the front-end collector.
func (h *IngestHandler) AddData(w http.ResponseWriter, r *http.Request) {
	var req dto.PageViewRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	pv, err := req.ToPageView()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.RecordPageView(r.Context(), pv)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, dto.PageViewResponse{
		Success:    true,
		Message:    "Data saved successfully.",
		SessionID:  res.SessionID,
		LinksCount: res.LinksCount,
	})
}
