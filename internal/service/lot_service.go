package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/lots"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
)

// LotService exposes the open lots of an instrument and simulates sales against them.
type LotService struct {
	movementRepo   *repository.MovementRepository
	instrumentRepo *repository.InstrumentRepository
	marketRepo     *repository.MarketRepository
	method         lots.Strategy
}

// NewLotService creates a new LotService. method is the cost basis method
// used to replay past sales.
func NewLotService(
	movementRepo *repository.MovementRepository,
	instrumentRepo *repository.InstrumentRepository,
	marketRepo *repository.MarketRepository,
	method lots.Strategy,
) *LotService {
	return &LotService{
		movementRepo:   movementRepo,
		instrumentRepo: instrumentRepo,
		marketRepo:     marketRepo,
		method:         method,
	}
}

// InstrumentLots is the open lot book of one instrument, valued at the latest price.
type InstrumentLots struct {
	InstrumentID string              `json:"instrumentId"`
	Symbol       string              `json:"symbol"`
	Currency     string              `json:"currency"`
	Strategy     lots.Strategy       `json:"strategy"`
	Quantity     decimal.Decimal     `json:"quantity"`
	TotalCost    decimal.Decimal     `json:"totalCost"`
	Price        decimal.NullDecimal `json:"price"`
	Lots         []lots.LotDetail    `json:"lots"`
}

// GetLots replays the instrument's trades and values what is still open.
func (s *LotService) GetLots(ctx context.Context, instrumentID string) (InstrumentLots, error) {
	instrument, book, price, err := s.load(ctx, instrumentID)
	if err != nil {
		return InstrumentLots{}, err
	}
	return InstrumentLots{
		InstrumentID: instrument.ID,
		Symbol:       instrument.Symbol,
		Currency:     instrument.Currency,
		Strategy:     s.method,
		Quantity:     book.Quantity(),
		TotalCost:    book.Cost(),
		Price:        price,
		Lots:         lots.Valued(book.Open, price),
	}, nil
}

// Allocate simulates selling req.Quantity of an instrument. Nothing is written.
//
// The sale price defaults to the latest known price and the strategy to the
// configured cost basis method. Without either a sale price or a market price
// the call fails with ErrPriceNotFound.
func (s *LotService) Allocate(ctx context.Context, req request.AllocateRequest) (lots.SaleAllocationResult, error) {
	strategy := s.method
	if req.Strategy != "" {
		parsed, err := lots.ParseStrategy(req.Strategy)
		if err != nil {
			return lots.SaleAllocationResult{}, err
		}
		strategy = parsed
	}

	_, book, price, err := s.load(ctx, req.InstrumentID)
	if err != nil {
		return lots.SaleAllocationResult{}, err
	}

	salePrice := price
	if req.SalePrice.Valid {
		salePrice = req.SalePrice
	}
	if !salePrice.Valid {
		return lots.SaleAllocationResult{}, fmt.Errorf("%w: %s", apperrors.ErrPriceNotFound, req.InstrumentID)
	}

	return lots.Allocate(book.Open, req.Quantity, salePrice.Decimal, strategy, req.Manual)
}

func (s *LotService) load(ctx context.Context, instrumentID string) (model.Instrument, lots.Book, decimal.NullDecimal, error) {
	instrument, err := s.instrumentRepo.Get(ctx, instrumentID)
	if err != nil {
		return model.Instrument{}, lots.Book{}, decimal.NullDecimal{}, err
	}

	movements, err := s.movementRepo.List(ctx, model.MovementFilter{InstrumentID: instrumentID})
	if err != nil {
		return model.Instrument{}, lots.Book{}, decimal.NullDecimal{}, err
	}

	book, err := lots.Replay(movements, s.method, lots.NativeCosting)
	if err != nil {
		return model.Instrument{}, lots.Book{}, decimal.NullDecimal{}, err
	}

	prices, err := s.marketRepo.Prices(ctx)
	if err != nil {
		return model.Instrument{}, lots.Book{}, decimal.NullDecimal{}, err
	}
	var price decimal.NullDecimal
	if p, ok := prices[instrumentID]; ok && p.Price != nil && *p.Price > 0 {
		price = decimal.NewNullDecimal(decimal.NewFromFloat(*p.Price))
	}
	return instrument, book, price, nil
}
