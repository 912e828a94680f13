package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/response"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
)

// FixedDepositHandler serves the derived state of fixed-term deposits and
// triggers their settlement.
type FixedDepositHandler struct {
	depositService    *service.DepositService
	settlementService *service.SettlementService
}

// NewFixedDepositHandler creates a new FixedDepositHandler with the provided service dependencies.
func NewFixedDepositHandler(depositService *service.DepositService, settlementService *service.SettlementService) *FixedDepositHandler {
	return &FixedDepositHandler{
		depositService:    depositService,
		settlementService: settlementService,
	}
}

// Deposits handles GET requests for every deposit partitioned by status.
//
// Endpoint: GET /api/fixed-deposit
// Response: 200 OK with DerivedState
// Error: 500 Internal Server Error if derivation fails
func (h *FixedDepositHandler) Deposits(w http.ResponseWriter, r *http.Request) {
	state, err := h.depositService.GetState(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeriveDeposits.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, state)
}

// Projection handles GET requests for the earnings outlook of one deposit.
//
// Endpoint: GET /api/fixed-deposit/{depositId}/projection?days=N
// Response: 200 OK with Projection
// Error: 400 Bad Request if days is not a non-negative integer
// Error: 404 Not Found if the deposit does not exist
func (h *FixedDepositHandler) Projection(w http.ResponseWriter, r *http.Request) {
	days, err := request.ParseProjectionDays(r.URL.Query().Get("days"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid days parameter", err.Error())
		return
	}

	projection, err := h.depositService.GetProjection(r.Context(), chi.URLParam(r, "depositId"), days)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeriveDeposits)
		return
	}

	response.RespondJSON(w, http.StatusOK, projection)
}

// Settle handles POST requests to settle every matured deposit now. Running it
// again appends nothing new.
//
// Endpoint: POST /api/fixed-deposit/settle
// Response: 200 OK with SettlementResult
// Error: 500 Internal Server Error if settlement fails
func (h *FixedDepositHandler) Settle(w http.ResponseWriter, r *http.Request) {
	result, err := h.settlementService.Settle(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSettle.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
