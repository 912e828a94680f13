package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

// MovementRepository provides access to the append-only movement ledger.
// It deliberately has no update or delete operations.
type MovementRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewMovementRepository creates a new MovementRepository with the provided database connection.
func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// WithTx returns a new MovementRepository scoped to the provided transaction.
func (r *MovementRepository) WithTx(tx *sql.Tx) *MovementRepository {
	return &MovementRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *MovementRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const movementColumns = `id, occurred_at, type, asset_class, instrument_id, account_id, quantity, price,
	currency, total_amount, fee, fx_rate, notes, meta, idempotency_key, created_at`

// List returns the movements matching filter in chronological order.
// An empty filter returns the whole ledger.
func (r *MovementRepository) List(ctx context.Context, filter model.MovementFilter) ([]model.Movement, error) {
	var where []string
	var args []any
	if filter.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.InstrumentID != "" {
		where = append(where, "instrument_id = ?")
		args = append(args, filter.InstrumentID)
	}
	if filter.AssetClass != "" {
		where = append(where, "asset_class = ?")
		args = append(args, string(filter.AssetClass))
	}

	query := `SELECT ` + movementColumns + ` FROM movement`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY occurred_at ASC, id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement table: %w", err)
	}
	defer rows.Close()

	movements := []model.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement table: %w", err)
	}
	return movements, nil
}

// Get retrieves a single movement by its ID.
// Returns ErrMovementNotFound if no record with the given ID exists.
func (r *MovementRepository) Get(ctx context.Context, id string) (model.Movement, error) {
	if id == "" {
		return model.Movement{}, apperrors.ErrEmptyID
	}
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+movementColumns+` FROM movement WHERE id = ?`, id)
	m, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movement{}, apperrors.ErrMovementNotFound
	}
	return m, err
}

// Insert appends one movement. A clash on ID or idempotency key returns
// ErrDuplicateEntry.
func (r *MovementRepository) Insert(ctx context.Context, m model.Movement) error {
	args, err := movementArgs(m)
	if err != nil {
		return err
	}
	_, err = r.getQuerier().ExecContext(ctx, `INSERT INTO movement (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: movement %s", apperrors.ErrDuplicateEntry, m.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// AppendIfAbsent inserts every movement whose ID and idempotency key are not
// yet in the ledger, skipping the rest, and returns the ones actually written.
// Callers that need the batch to be atomic run it inside a transaction.
func (r *MovementRepository) AppendIfAbsent(ctx context.Context, movements []model.Movement) ([]model.Movement, error) {
	if len(movements) == 0 {
		return []model.Movement{}, nil
	}

	stmt, err := r.getQuerier().PrepareContext(ctx, `INSERT INTO movement (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare movement insert: %w", err)
	}
	defer stmt.Close()

	written := []model.Movement{}
	for _, m := range movements {
		args, err := movementArgs(m)
		if err != nil {
			return nil, err
		}
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to append movement %s: %w", m.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n > 0 {
			written = append(written, m)
		}
	}
	return written, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovement(s scanner) (model.Movement, error) {
	var (
		m                         model.Movement
		occurredAt                string
		createdAt                 sql.NullString
		instrumentID, notes, meta sql.NullString
		idempotencyKey            sql.NullString
		fee, fxRate               sql.NullFloat64
		movementType, assetClass  string
	)

	err := s.Scan(
		&m.ID,
		&occurredAt,
		&movementType,
		&assetClass,
		&instrumentID,
		&m.AccountID,
		&m.Quantity,
		&m.Price,
		&m.Currency,
		&m.TotalAmount,
		&fee,
		&fxRate,
		&notes,
		&meta,
		&idempotencyKey,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movement{}, err
	}
	if err != nil {
		return model.Movement{}, fmt.Errorf("failed to scan movement table results: %w", err)
	}

	m.Timestamp, err = ParseTime(occurredAt)
	if err != nil {
		return model.Movement{}, fmt.Errorf("movement %s: %w", m.ID, err)
	}
	if createdAt.Valid {
		if m.CreatedAt, err = ParseTime(createdAt.String); err != nil {
			return model.Movement{}, fmt.Errorf("movement %s: %w", m.ID, err)
		}
	}

	m.Type = model.MovementType(movementType)
	m.AssetClass = model.AssetClass(assetClass)
	m.InstrumentID = instrumentID.String
	m.Notes = notes.String
	m.IdempotencyKey = idempotencyKey.String
	m.Fee = floatPtr(fee)
	m.FXRate = floatPtr(fxRate)

	if meta.Valid && meta.String != "" {
		m.Meta = &model.MovementMeta{}
		if err := json.Unmarshal([]byte(meta.String), m.Meta); err != nil {
			return model.Movement{}, fmt.Errorf("%w: movement %s has unreadable meta: %v", apperrors.ErrDataInconsistency, m.ID, err)
		}
	}
	return m, nil
}

func movementArgs(m model.Movement) ([]any, error) {
	var meta sql.NullString
	if m.Meta != nil {
		raw, err := json.Marshal(m.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode movement meta: %w", err)
		}
		meta = sql.NullString{String: string(raw), Valid: true}
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return []any{
		m.ID,
		FormatTime(m.Timestamp),
		string(m.Type),
		string(m.AssetClass),
		nullString(m.InstrumentID),
		m.AccountID,
		m.Quantity,
		m.Price,
		m.Currency,
		m.TotalAmount,
		nullFloat(m.Fee),
		nullFloat(m.FXRate),
		nullString(m.Notes),
		meta,
		nullString(m.IdempotencyKey),
		FormatTime(createdAt),
	}, nil
}
