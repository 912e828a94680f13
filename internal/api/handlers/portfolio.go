package handlers

import (
	"net/http"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/response"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
)

// PortfolioHandler serves the valuation of the whole portfolio.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Snapshot handles GET requests for the full valuation: per-asset metrics,
// portfolio totals and realized results in one consistent read.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with PortfolioSnapshot
// Error: 500 Internal Server Error if valuation fails
func (h *PortfolioHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.portfolioService.Snapshot(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeMetrics.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// Metrics handles GET requests for the per-asset metrics.
//
// Endpoint: GET /api/portfolio/metrics
// Response: 200 OK with array of AssetMetrics
// Error: 500 Internal Server Error if valuation fails
func (h *PortfolioHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.portfolioService.Metrics(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeMetrics.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}

// Totals handles GET requests for the aggregated portfolio totals.
//
// Endpoint: GET /api/portfolio/totals
// Response: 200 OK with PortfolioAssetTotals
// Error: 500 Internal Server Error if valuation fails
func (h *PortfolioHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.portfolioService.Totals(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeMetrics.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, totals)
}

// Realized handles GET requests for realized gains and losses, oldest first.
//
// Endpoint: GET /api/portfolio/realized
// Response: 200 OK with array of RealizedGainLoss
// Error: 500 Internal Server Error if valuation fails
func (h *PortfolioHandler) Realized(w http.ResponseWriter, r *http.Request) {
	realized, err := h.portfolioService.RealizedGains(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeMetrics.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, realized)
}
