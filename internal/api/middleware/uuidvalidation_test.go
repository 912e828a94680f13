package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/middleware"
)

func TestValidateUUIDParam(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]string
		wantCalled bool
		wantStatus int
	}{
		{
			name:       "passes through valid UUID",
			params:     map[string]string{"instrumentId": "550e8400-e29b-41d4-a716-446655440000"},
			wantCalled: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "returns 400 for invalid UUID",
			params:     map[string]string{"instrumentId": "invalid-id"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "returns 400 for empty UUID",
			params:     map[string]string{"instrumentId": ""},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "reads only the configured parameter",
			params:     map[string]string{"depositId": "550e8400-e29b-41d4-a716-446655440000"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middleware.ValidateUUIDParam("instrumentId")(next)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rctx := chi.NewRouteContext()
			for k, v := range tt.params {
				rctx.URLParams.Add(k, v)
			}
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			mw.ServeHTTP(w, req)

			if handlerCalled != tt.wantCalled {
				t.Errorf("Expected handler called = %v, got %v", tt.wantCalled, handlerCalled)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
