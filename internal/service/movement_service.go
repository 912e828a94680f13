package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/validation"
)

// MovementService handles reads and appends on the movement ledger.
// Movements are never updated or deleted; corrections are new movements.
type MovementService struct {
	movementRepo   *repository.MovementRepository
	instrumentRepo *repository.InstrumentRepository
}

// NewMovementService creates a new MovementService with the provided repository dependencies.
func NewMovementService(
	movementRepo *repository.MovementRepository,
	instrumentRepo *repository.InstrumentRepository,
) *MovementService {
	return &MovementService{
		movementRepo:   movementRepo,
		instrumentRepo: instrumentRepo,
	}
}

// GetMovements returns the ledger in chronological order, narrowed by filter.
func (s *MovementService) GetMovements(ctx context.Context, filter model.MovementFilter) ([]model.Movement, error) {
	return s.movementRepo.List(ctx, filter)
}

// GetMovement returns a single movement by ID.
func (s *MovementService) GetMovement(ctx context.Context, id string) (model.Movement, error) {
	return s.movementRepo.Get(ctx, id)
}

// CreateMovement appends a validated request to the ledger.
//
// The referenced instrument, when given, must exist. When no total amount is
// supplied it is derived as quantity × price. A request that reuses an
// idempotency key fails with ErrDuplicateEntry.
func (s *MovementService) CreateMovement(ctx context.Context, req request.CreateMovementRequest) (*model.Movement, error) {
	timestamp, err := validation.ParseTime(req.Timestamp)
	if err != nil {
		return nil, err
	}
	movementType, err := model.ParseMovementType(req.Type)
	if err != nil {
		return nil, err
	}
	class, err := model.ParseAssetClass(req.AssetClass)
	if err != nil {
		return nil, err
	}

	if req.InstrumentID != "" {
		if _, err := s.instrumentRepo.Get(ctx, req.InstrumentID); err != nil {
			if errors.Is(err, apperrors.ErrInstrumentNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to check instrument: %w", err)
		}
	}

	total := req.Quantity * req.Price
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}

	movement := &model.Movement{
		ID:             uuid.New().String(),
		Timestamp:      timestamp,
		Type:           movementType,
		AssetClass:     class,
		InstrumentID:   req.InstrumentID,
		AccountID:      req.AccountID,
		Quantity:       req.Quantity,
		Price:          req.Price,
		Currency:       req.Currency,
		TotalAmount:    total,
		Fee:            req.Fee,
		FXRate:         req.FXRate,
		Notes:          req.Notes,
		Meta:           req.Meta,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.movementRepo.Insert(ctx, *movement); err != nil {
		return nil, err
	}
	return movement, nil
}
