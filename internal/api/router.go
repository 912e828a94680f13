package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/middleware"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/config"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/logger"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
)

// Services bundles the service layer the router exposes.
type Services struct {
	System     *service.SystemService
	Movement   *service.MovementService
	Instrument *service.InstrumentService
	Market     *service.MarketService
	Portfolio  *service.PortfolioService
	Lot        *service.LotService
	Deposit    *service.DepositService
	Settlement *service.SettlementService
}

// NewServices wires the repositories and services over one database handle.
func NewServices(db *sql.DB, cfg *config.Config, log zerolog.Logger) Services {
	movementRepo := repository.NewMovementRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	marketRepo := repository.NewMarketRepository(db)

	dataLoader := service.NewDataLoaderService(movementRepo, instrumentRepo, marketRepo)

	return Services{
		System:     service.NewSystemService(db),
		Movement:   service.NewMovementService(movementRepo, instrumentRepo),
		Instrument: service.NewInstrumentService(instrumentRepo),
		Market:     service.NewMarketService(instrumentRepo, marketRepo),
		Portfolio:  service.NewPortfolioService(dataLoader, cfg.Engine),
		Lot:        service.NewLotService(movementRepo, instrumentRepo, marketRepo, cfg.Engine.CostBasis()),
		Deposit:    service.NewDepositService(movementRepo, marketRepo, cfg.Engine),
		Settlement: service.NewSettlementService(db, movementRepo, marketRepo, cfg.Engine, logger.Component(log, "settlement")),
	}
}

// NewRouter creates and configures the HTTP router.
// Reads are public; every endpoint that writes to the store requires the API key.
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireKey := custommiddleware.APIKey(cfg.Security.APIKey)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/movement", func(r chi.Router) {
			movementHandler := handlers.NewMovementHandler(svc.Movement)
			r.Get("/", movementHandler.Movements)
			r.With(requireKey).Post("/", movementHandler.CreateMovement)
			r.With(custommiddleware.ValidateUUIDParam("movementId")).Get("/{movementId}", movementHandler.GetMovement)
		})

		r.Route("/instrument", func(r chi.Router) {
			instrumentHandler := handlers.NewInstrumentHandler(svc.Instrument)
			r.Get("/", instrumentHandler.Instruments)
			r.With(requireKey).Post("/", instrumentHandler.CreateInstrument)
			r.With(custommiddleware.ValidateUUIDParam("instrumentId")).Get("/{instrumentId}", instrumentHandler.GetInstrument)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(svc.Market)
			r.Get("/price", marketHandler.Prices)
			r.With(requireKey).Put("/price", marketHandler.UpdatePrice)
			r.Get("/fx", marketHandler.FXRates)
			r.With(requireKey).Put("/fx", marketHandler.UpdateFXRate)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
			r.Get("/", portfolioHandler.Snapshot)
			r.Get("/metrics", portfolioHandler.Metrics)
			r.Get("/totals", portfolioHandler.Totals)
			r.Get("/realized", portfolioHandler.Realized)
		})

		r.Route("/lot", func(r chi.Router) {
			lotHandler := handlers.NewLotHandler(svc.Lot)
			r.Post("/allocate", lotHandler.Allocate)
			r.With(custommiddleware.ValidateUUIDParam("instrumentId")).Get("/{instrumentId}", lotHandler.Lots)
		})

		r.Route("/fixed-deposit", func(r chi.Router) {
			depositHandler := handlers.NewFixedDepositHandler(svc.Deposit, svc.Settlement)
			r.Get("/", depositHandler.Deposits)
			r.With(requireKey).Post("/settle", depositHandler.Settle)
			r.With(custommiddleware.ValidateUUIDParam("depositId")).Get("/{depositId}/projection", depositHandler.Projection)
		})
	})

	return r
}
