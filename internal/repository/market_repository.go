package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// MarketRepository stores the latest instrument prices and FX quotes.
// Only the most recent snapshot is kept: writes replace the previous row.
type MarketRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewMarketRepository creates a new MarketRepository with the provided database connection.
func NewMarketRepository(db *sql.DB) *MarketRepository {
	return &MarketRepository{db: db}
}

// WithTx returns a new MarketRepository scoped to the provided transaction.
func (r *MarketRepository) WithTx(tx *sql.Tx) *MarketRepository {
	return &MarketRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *MarketRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Prices returns the latest price of every instrument, keyed by instrument ID.
func (r *MarketRepository) Prices(ctx context.Context) (map[string]model.InstrumentPrice, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT instrument_id, price, underlying_price, daily_change_pct, updated_at
		FROM instrument_price
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument_price table: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]model.InstrumentPrice)
	for rows.Next() {
		var (
			p                             model.InstrumentPrice
			price, underlying, dailyDelta sql.NullFloat64
			updatedAt                     string
		)
		if err := rows.Scan(&p.InstrumentID, &price, &underlying, &dailyDelta, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan instrument_price table results: %w", err)
		}
		if p.UpdatedAt, err = ParseTime(updatedAt); err != nil {
			return nil, err
		}
		p.Price = floatPtr(price)
		p.UnderlyingPrice = floatPtr(underlying)
		p.DailyChangePct = floatPtr(dailyDelta)
		prices[p.InstrumentID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument_price table: %w", err)
	}
	return prices, nil
}

// UpsertPrice stores the latest price of an instrument.
// Returns ErrInstrumentNotFound if the instrument does not exist.
func (r *MarketRepository) UpsertPrice(ctx context.Context, p model.InstrumentPrice) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO instrument_price (instrument_id, price, underlying_price, daily_change_pct, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(instrument_id) DO UPDATE SET
			price = excluded.price,
			underlying_price = excluded.underlying_price,
			daily_change_pct = excluded.daily_change_pct,
			updated_at = excluded.updated_at
	`,
		p.InstrumentID,
		nullFloat(p.Price),
		nullFloat(p.UnderlyingPrice),
		nullFloat(p.DailyChangePct),
		FormatTime(p.UpdatedAt),
	)
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %s", apperrors.ErrInstrumentNotFound, p.InstrumentID)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert instrument price: %w", err)
	}
	return nil
}

// FXRates returns the latest raw pair of every benchmark.
func (r *MarketRepository) FXRates(ctx context.Context) ([]model.FXRate, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT benchmark, buy, sell, updated_at
		FROM fx_rate
		ORDER BY benchmark ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx_rate table: %w", err)
	}
	defer rows.Close()

	rates := []model.FXRate{}
	for rows.Next() {
		var (
			rate      model.FXRate
			buy, sell sql.NullFloat64
			updatedAt string
		)
		if err := rows.Scan(&rate.Benchmark, &buy, &sell, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fx_rate table results: %w", err)
		}
		if rate.UpdatedAt, err = ParseTime(updatedAt); err != nil {
			return nil, err
		}
		rate.Buy = floatPtr(buy)
		rate.Sell = floatPtr(sell)
		rates = append(rates, rate)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fx_rate table: %w", err)
	}
	return rates, nil
}

// UpsertFXRate stores the latest raw pair of a benchmark.
func (r *MarketRepository) UpsertFXRate(ctx context.Context, rate model.FXRate) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO fx_rate (benchmark, buy, sell, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(benchmark) DO UPDATE SET
			buy = excluded.buy,
			sell = excluded.sell,
			updated_at = excluded.updated_at
	`,
		rate.Benchmark,
		nullFloat(rate.Buy),
		nullFloat(rate.Sell),
		FormatTime(rate.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fx rate: %w", err)
	}
	return nil
}
