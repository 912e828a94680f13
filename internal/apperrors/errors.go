package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrMovementNotFound indicates that a movement with the given ID does not exist.
	ErrMovementNotFound = errors.New("movement not found")

	// ErrInstrumentNotFound indicates that an instrument with the given ID does not exist.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrDepositNotFound indicates that no fixed-term deposit has the given ID.
	ErrDepositNotFound = errors.New("fixed-term deposit not found")

	// ErrPriceNotFound indicates that no market price is known for an instrument.
	ErrPriceNotFound = errors.New("instrument price not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrUnknownAssetClass indicates an asset class outside the supported set.
	ErrUnknownAssetClass = errors.New("unknown asset class")

	// ErrUnknownStrategy indicates a lot-matching strategy outside the supported set.
	ErrUnknownStrategy = errors.New("unknown lot strategy")

	// ErrUnknownBenchmark indicates an FX benchmark outside the supported set.
	ErrUnknownBenchmark = errors.New("unknown fx benchmark")

	// ErrUnknownMovementType indicates a movement type outside the supported set.
	ErrUnknownMovementType = errors.New("unknown movement type")

	// ErrInvalidCurrency indicates a currency code that is not ISO 4217.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInstrumentID indicates a movement that needs an instrument but names none.
	ErrInvalidInstrumentID = errors.New("instrument ID is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieve = errors.New("failed to retrieve data")

	// Movement operation errors
	ErrFailedToRetrieveMovements = errors.New("failed to retrieve movements")
	ErrFailedToAppendMovements   = errors.New("failed to append movements")

	// Instrument and market operation errors
	ErrFailedToRetrieveInstruments = errors.New("failed to retrieve instruments")
	ErrFailedToCreateInstrument    = errors.New("failed to create instrument")
	ErrFailedToUpdatePrice         = errors.New("failed to update instrument price")
	ErrFailedToUpdateFXRate        = errors.New("failed to update fx rate")

	// Portfolio operation errors
	ErrFailedToComputeMetrics = errors.New("failed to compute portfolio metrics")
	ErrFailedToAllocateLots   = errors.New("failed to allocate lots")

	// Fixed-term deposit operation errors
	ErrFailedToDeriveDeposits = errors.New("failed to derive fixed-term deposits")
	ErrFailedToSettle         = errors.New("failed to settle fixed-term deposits")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a redemption that links to a deposit that was never constituted).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
