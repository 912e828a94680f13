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

// LotHandler exposes the open purchase lots of an instrument and sale simulations.
type LotHandler struct {
	lotService *service.LotService
}

// NewLotHandler creates a new LotHandler with the provided service dependency.
func NewLotHandler(lotService *service.LotService) *LotHandler {
	return &LotHandler{
		lotService: lotService,
	}
}

// Lots handles GET requests for the open lots of one instrument.
//
// Endpoint: GET /api/lot/{instrumentId}
// Response: 200 OK with InstrumentLots
// Error: 400 Bad Request if instrument ID is invalid (validated by middleware)
// Error: 404 Not Found if the instrument does not exist
// Error: 500 Internal Server Error if the ledger cannot be replayed
func (h *LotHandler) Lots(w http.ResponseWriter, r *http.Request) {
	result, err := h.lotService.GetLots(r.Context(), chi.URLParam(r, "instrumentId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Allocate handles POST requests to simulate a sale against the open lots.
// Nothing is written to the ledger.
//
// Endpoint: POST /api/lot/allocate
// Request Body: AllocateRequest
// Response: 200 OK with SaleAllocationResult
// Error: 400 Bad Request if validation fails or the strategy is unknown
// Error: 404 Not Found if the instrument does not exist
// Error: 422 Unprocessable Entity if no sale price is given and none is known
func (h *LotHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AllocateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAllocate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.lotService.Allocate(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAllocateLots)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
