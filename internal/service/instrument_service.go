package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
)

// InstrumentService handles instrument reference data.
type InstrumentService struct {
	instrumentRepo *repository.InstrumentRepository
}

// NewInstrumentService creates a new InstrumentService with the provided repository dependencies.
func NewInstrumentService(instrumentRepo *repository.InstrumentRepository) *InstrumentService {
	return &InstrumentService{
		instrumentRepo: instrumentRepo,
	}
}

// GetInstruments returns every instrument, ordered by symbol.
func (s *InstrumentService) GetInstruments(ctx context.Context) ([]model.Instrument, error) {
	return s.instrumentRepo.List(ctx)
}

// GetInstrument returns a single instrument by ID.
func (s *InstrumentService) GetInstrument(ctx context.Context, id string) (model.Instrument, error) {
	return s.instrumentRepo.Get(ctx, id)
}

// CreateInstrument registers a new instrument. Symbols are stored upper-case
// and must be unique.
func (s *InstrumentService) CreateInstrument(ctx context.Context, req request.CreateInstrumentRequest) (*model.Instrument, error) {
	class, err := model.ParseAssetClass(req.AssetClass)
	if err != nil {
		return nil, err
	}

	instrument := &model.Instrument{
		ID:               uuid.New().String(),
		Symbol:           strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Name:             strings.TrimSpace(req.Name),
		AssetClass:       class,
		Currency:         req.Currency,
		Ratio:            req.Ratio,
		UnderlyingSymbol: strings.ToUpper(strings.TrimSpace(req.UnderlyingSymbol)),
	}

	if err := s.instrumentRepo.Insert(ctx, *instrument); err != nil {
		return nil, err
	}
	return instrument, nil
}
