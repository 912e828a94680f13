package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/response"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

// maxBodyBytes caps the size of a JSON request body.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, errors.New("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is required")
		}
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	return req, nil
}

// respondServiceError maps a service error onto an HTTP status. Errors that
// are not domain errors are reported as fallback with 500.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrMovementNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrMovementNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInstrumentNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrDepositNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrDepositNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPriceNotFound):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrPriceNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateEntry.Error(), err.Error())
	case errors.Is(err, apperrors.ErrUnknownAssetClass),
		errors.Is(err, apperrors.ErrUnknownStrategy),
		errors.Is(err, apperrors.ErrUnknownBenchmark),
		errors.Is(err, apperrors.ErrUnknownMovementType),
		errors.Is(err, apperrors.ErrInvalidCurrency):
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
