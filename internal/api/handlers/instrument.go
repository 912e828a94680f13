package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/response"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/validation"
)

// InstrumentHandler handles HTTP requests for instrument reference data.
type InstrumentHandler struct {
	instrumentService *service.InstrumentService
}

// NewInstrumentHandler creates a new InstrumentHandler with the provided service dependency.
func NewInstrumentHandler(instrumentService *service.InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService: instrumentService,
	}
}

// Instruments handles GET requests to list every instrument.
//
// Endpoint: GET /api/instrument
// Response: 200 OK with array of Instrument
// Error: 500 Internal Server Error if retrieval fails
func (h *InstrumentHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.instrumentService.GetInstruments(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInstruments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, instruments)
}

// GetInstrument handles GET requests to retrieve a single instrument.
//
// Endpoint: GET /api/instrument/{instrumentId}
// Response: 200 OK with Instrument
// Error: 404 Not Found if instrument not found
func (h *InstrumentHandler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	instrument, err := h.instrumentService.GetInstrument(r.Context(), chi.URLParam(r, "instrumentId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInstruments)
		return
	}

	response.RespondJSON(w, http.StatusOK, instrument)
}

// CreateInstrument handles POST requests to register an instrument.
//
// Endpoint: POST /api/instrument
// Request Body: CreateInstrumentRequest
// Response: 201 Created with Instrument
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the symbol is taken
func (h *InstrumentHandler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInstrumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInstrument(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateInstrument)
		return
	}

	response.RespondJSON(w, http.StatusCreated, instrument)
}
