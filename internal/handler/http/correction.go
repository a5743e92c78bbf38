package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CorrectionHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByRecord(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.Service
}

func NewCorrectionHandler(correctionService correction.Service) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
	}
}

// Request implements CorrectionHandler.
func (h *correctionHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	var req correction.RequestCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RecordID = chi.URLParam(r, "id")

	result, err := h.correctionService.Request(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction requested", result)
}

// Decide implements CorrectionHandler.
func (h *correctionHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req correction.DecideCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CorrectionID = chi.URLParam(r, "correctionId")

	result, err := h.correctionService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction decision recorded", result)
}

// Get implements CorrectionHandler.
func (h *correctionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "correctionId")

	result, err := h.correctionService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByRecord implements CorrectionHandler.
func (h *correctionHandlerImpl) ListByRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")

	results, err := h.correctionService.ListByRecord(r.Context(), recordID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
