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

// MovementHandler handles HTTP requests for the movement ledger.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the movementService.
type MovementHandler struct {
	movementService *service.MovementService
}

// NewMovementHandler creates a new MovementHandler with the provided service dependency.
func NewMovementHandler(movementService *service.MovementService) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
	}
}

// Movements handles GET requests to list the ledger in chronological order.
// The optional query parameters accountId, instrumentId and assetClass narrow the result.
//
// Endpoint: GET /api/movement
// Response: 200 OK with array of Movement
// Error: 400 Bad Request if assetClass is unknown
// Error: 500 Internal Server Error if retrieval fails
func (h *MovementHandler) Movements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := request.ParseMovementFilter(q.Get("accountId"), q.Get("instrumentId"), q.Get("assetClass"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	movements, err := h.movementService.GetMovements(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveMovements.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, movements)
}

// GetMovement handles GET requests to retrieve a single movement by ID.
//
// Endpoint: GET /api/movement/{movementId}
// Response: 200 OK with Movement
// Error: 400 Bad Request if movement ID is invalid (validated by middleware)
// Error: 404 Not Found if movement not found
// Error: 500 Internal Server Error if retrieval fails
func (h *MovementHandler) GetMovement(w http.ResponseWriter, r *http.Request) {
	movementID := chi.URLParam(r, "movementId")

	movement, err := h.movementService.GetMovement(r.Context(), movementID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveMovements)
		return
	}

	response.RespondJSON(w, http.StatusOK, movement)
}

// CreateMovement handles POST requests to append a movement to the ledger.
//
// Endpoint: POST /api/movement
// Request Body: CreateMovementRequest
// Response: 201 Created with Movement
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the referenced instrument does not exist
// Error: 409 Conflict if the idempotency key was already used
// Error: 500 Internal Server Error if creation fails
func (h *MovementHandler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateMovementRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateMovement(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	movement, err := h.movementService.CreateMovement(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAppendMovements)
		return
	}

	response.RespondJSON(w, http.StatusCreated, movement)
}
