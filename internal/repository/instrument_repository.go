package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// InstrumentRepository provides data access methods for the instrument table.
type InstrumentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInstrumentRepository creates a new InstrumentRepository with the provided database connection.
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// WithTx returns a new InstrumentRepository scoped to the provided transaction.
func (r *InstrumentRepository) WithTx(tx *sql.Tx) *InstrumentRepository {
	return &InstrumentRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *InstrumentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// List returns all instruments ordered by symbol.
func (r *InstrumentRepository) List(ctx context.Context) ([]model.Instrument, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT id, symbol, name, asset_class, currency, ratio, underlying_symbol
		FROM instrument
		ORDER BY symbol ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument table: %w", err)
	}
	defer rows.Close()

	instruments := []model.Instrument{}
	for rows.Next() {
		in, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, in)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument table: %w", err)
	}
	return instruments, nil
}

// Get retrieves a single instrument by its ID.
// Returns ErrInstrumentNotFound if no record with the given ID exists.
func (r *InstrumentRepository) Get(ctx context.Context, id string) (model.Instrument, error) {
	if id == "" {
		return model.Instrument{}, apperrors.ErrInvalidInstrumentID
	}
	row := r.getQuerier().QueryRowContext(ctx, `
		SELECT id, symbol, name, asset_class, currency, ratio, underlying_symbol
		FROM instrument
		WHERE id = ?
	`, id)
	in, err := scanInstrument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, apperrors.ErrInstrumentNotFound
	}
	return in, err
}

// Insert creates a new instrument. A duplicate ID or symbol returns ErrDuplicateEntry.
func (r *InstrumentRepository) Insert(ctx context.Context, in model.Instrument) error {
	var ratio sql.NullFloat64
	if in.Ratio > 0 {
		ratio = sql.NullFloat64{Float64: in.Ratio, Valid: true}
	}
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO instrument (id, symbol, name, asset_class, currency, ratio, underlying_symbol)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		in.ID,
		in.Symbol,
		in.Name,
		string(in.AssetClass),
		in.Currency,
		ratio,
		nullString(in.UnderlyingSymbol),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: instrument %s", apperrors.ErrDuplicateEntry, in.Symbol)
	}
	if err != nil {
		return fmt.Errorf("failed to insert instrument: %w", err)
	}
	return nil
}

func scanInstrument(s scanner) (model.Instrument, error) {
	var (
		in         model.Instrument
		assetClass string
		ratio      sql.NullFloat64
		underlying sql.NullString
	)
	err := s.Scan(&in.ID, &in.Symbol, &in.Name, &assetClass, &in.Currency, &ratio, &underlying)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, err
	}
	if err != nil {
		return model.Instrument{}, fmt.Errorf("failed to scan instrument table results: %w", err)
	}
	in.AssetClass = model.AssetClass(assetClass)
	in.Ratio = ratio.Float64
	in.UnderlyingSymbol = underlying.String
	return in, nil
}
