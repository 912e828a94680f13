package handlers

import (
	"net/http"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/response"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/validation"
)

// MarketHandler handles HTTP requests for prices and FX rates pushed by the feeds.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler with the provided service dependency.
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// FXResponse pairs the stored raw rates with the quotes derived from them.
type FXResponse struct {
	Rates  []model.FXRate `json:"rates"`
	Quotes fx.Quotes      `json:"quotes"`
}

// Prices handles GET requests to list the latest price of every instrument.
//
// Endpoint: GET /api/market/price
// Response: 200 OK with map of instrument ID to InstrumentPrice
// Error: 500 Internal Server Error if retrieval fails
func (h *MarketHandler) Prices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.marketService.GetPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieve.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, prices)
}

// UpdatePrice handles PUT requests to replace an instrument's latest price.
//
// Endpoint: PUT /api/market/price
// Request Body: UpdatePriceRequest
// Response: 200 OK with InstrumentPrice
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the instrument does not exist
func (h *MarketHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePrice(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	price, err := h.marketService.UpdatePrice(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdatePrice)
		return
	}

	response.RespondJSON(w, http.StatusOK, price)
}

// FXRates handles GET requests to list the raw FX pairs and their normalized quotes.
//
// Endpoint: GET /api/market/fx
// Response: 200 OK with FXResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *MarketHandler) FXRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.marketService.GetFXRates(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieve.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, FXResponse{Rates: rates, Quotes: service.QuotesFromRates(rates)})
}

// UpdateFXRate handles PUT requests to replace the raw pair of one benchmark.
//
// Endpoint: PUT /api/market/fx
// Request Body: UpdateFXRateRequest
// Response: 200 OK with FXRate
// Error: 400 Bad Request if validation fails
func (h *MarketHandler) UpdateFXRate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateFXRateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateFXRate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	rate, err := h.marketService.UpdateFXRate(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateFXRate)
		return
	}

	response.RespondJSON(w, http.StatusOK, rate)
}
