package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/testutil"
)

func setupPortfolioHandler(t *testing.T) *PortfolioHandler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.CreateFXRate(t, db, fx.Oficial, 900, 1000)
	testutil.CreateFXRate(t, db, fx.MEP, 1000, 1000)
	testutil.NewMovement(model.MovementDeposit).WithQuantity(10000).Build(t, db)

	instrument := testutil.NewInstrument().WithSymbol("GGAL").Build(t, db)
	testutil.NewMovement(model.MovementBuy).WithInstrument(instrument).WithQuantity(10).WithPrice(100).WithFXRate(1000).Build(t, db)
	testutil.CreatePrice(t, db, instrument.ID, 150)

	return NewPortfolioHandler(testutil.NewTestPortfolioService(t, db, testutil.TestEngineConfig()))
}

func TestPortfolioHandler(t *testing.T) {
	t.Run("returns metrics", func(t *testing.T) {
		handler := setupPortfolioHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/metrics", nil)
		w := httptest.NewRecorder()

		handler.Metrics(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.AssetMetrics
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 metrics, got %d", len(response))
		}
		for _, m := range response {
			if m.Symbol == "GGAL" {
				if m.ValueARS == nil || *m.ValueARS != 1500 {
					t.Errorf("Expected GGAL value 1500, got %v", m.ValueARS)
				}
				if m.PnLARS == nil || *m.PnLARS != 500 {
					t.Errorf("Expected GGAL pnl 500, got %v", m.PnLARS)
				}
			}
		}
	})

	t.Run("returns totals", func(t *testing.T) {
		handler := setupPortfolioHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/totals", nil)
		w := httptest.NewRecorder()

		handler.Totals(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.PortfolioAssetTotals
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if math.Abs(response.ValueARS-11500) > 1e-9 {
			t.Errorf("Expected total value 11500, got %v", response.ValueARS)
		}
		if math.Abs(response.CostARS-11000) > 1e-9 {
			t.Errorf("Expected total cost 11000, got %v", response.CostARS)
		}
	})

	t.Run("returns snapshot and empty realized list", func(t *testing.T) {
		handler := setupPortfolioHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		w := httptest.NewRecorder()
		handler.Snapshot(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var snapshot service.PortfolioSnapshot
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&snapshot)
		if len(snapshot.Metrics) != 2 {
			t.Errorf("Expected 2 metrics in snapshot, got %d", len(snapshot.Metrics))
		}

		req = httptest.NewRequest(http.MethodGet, "/api/portfolio/realized", nil)
		w = httptest.NewRecorder()
		handler.Realized(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var realized []model.RealizedGainLoss
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&realized)
		if len(realized) != 0 {
			t.Errorf("Expected no realized results, got %d", len(realized))
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewPortfolioHandler(testutil.NewTestPortfolioService(t, db, testutil.TestEngineConfig()))
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/metrics", nil)
		w := httptest.NewRecorder()
		handler.Metrics(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}
