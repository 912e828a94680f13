package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/testutil"
)

func TestMarketHandler_Prices(t *testing.T) {
	t.Run("updates and lists price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewMarketHandler(testutil.NewTestMarketService(t, db))
		instrument := testutil.NewInstrument().Build(t, db)

		body := `{"instrumentId": "` + instrument.ID + `", "price": 1250.5, "dailyChangePct": 0.02}`
		req := httptest.NewRequest(http.MethodPut, "/api/market/price", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpdatePrice(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		req = httptest.NewRequest(http.MethodGet, "/api/market/price", nil)
		w = httptest.NewRecorder()

		handler.Prices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]model.InstrumentPrice
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		price, ok := response[instrument.ID]
		if !ok || price.Price == nil || *price.Price != 1250.5 {
			t.Errorf("Expected price 1250.5 for %s, got %+v", instrument.ID, response)
		}
	})

	t.Run("returns 404 for unknown instrument", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewMarketHandler(testutil.NewTestMarketService(t, db))

		body := `{"instrumentId": "` + testutil.MakeID() + `", "price": 10}`
		req := httptest.NewRequest(http.MethodPut, "/api/market/price", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpdatePrice(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("returns 400 for non-positive price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewMarketHandler(testutil.NewTestMarketService(t, db))
		instrument := testutil.NewInstrument().Build(t, db)

		body := `{"instrumentId": "` + instrument.ID + `", "price": 0}`
		req := httptest.NewRequest(http.MethodPut, "/api/market/price", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpdatePrice(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestMarketHandler_FXRates(t *testing.T) {
	t.Run("stores one-sided pair and normalizes quote", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewMarketHandler(testutil.NewTestMarketService(t, db))

		req := httptest.NewRequest(http.MethodPut, "/api/market/fx", strings.NewReader(`{"benchmark": "MEP", "sell": 1200}`))
		w := httptest.NewRecorder()

		handler.UpdateFXRate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		req = httptest.NewRequest(http.MethodGet, "/api/market/fx", nil)
		w = httptest.NewRecorder()

		handler.FXRates(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response FXResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response.Rates) != 1 || response.Rates[0].Benchmark != string(fx.MEP) {
			t.Errorf("Expected one mep rate, got %+v", response.Rates)
		}
		quote := response.Quotes[fx.MEP]
		if quote.Bid != 1200 || quote.Ask != 1200 || quote.Mid != 1200 {
			t.Errorf("Expected quote {1200 1200 1200}, got %+v", quote)
		}
	})

	t.Run("returns 400 for unknown benchmark", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewMarketHandler(testutil.NewTestMarketService(t, db))

		req := httptest.NewRequest(http.MethodPut, "/api/market/fx", strings.NewReader(`{"benchmark": "blue", "buy": 1000}`))
		w := httptest.NewRecorder()

		handler.UpdateFXRate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 when both sides are missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewMarketHandler(testutil.NewTestMarketService(t, db))

		req := httptest.NewRequest(http.MethodPut, "/api/market/fx", strings.NewReader(`{"benchmark": "oficial"}`))
		w := httptest.NewRecorder()

		handler.UpdateFXRate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
