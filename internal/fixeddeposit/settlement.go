package fixeddeposit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
)

const (
	redemptionSuffix = ":redemption"
	creditSuffix     = ":credit"
)

var settlementNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:portfolio-engine:pf-settlement"))

// SettlementKey is the idempotency key prefix shared by the two movements
// that settle a deposit.
func SettlementKey(depositID string) string {
	return "pf-settle:" + depositID
}

// SettlementID derives a stable movement ID from an idempotency key.
func SettlementID(key string) string {
	return uuid.NewSHA1(settlementNamespace, []byte(key)).String()
}

// PlanSettlements returns the movements that settle every matured deposit of
// state: a redemption closing the deposit at its expected total and a cash
// credit of the same amount into local cash. Movements whose idempotency key
// already appears in the ledger are not planned again, so planning against a
// ledger that already holds a settlement yields nothing.
func PlanSettlements(state DerivedState, ledger []model.Movement, now time.Time) []model.Movement {
	existing := make(map[string]bool)
	for _, m := range ledger {
		if m.IdempotencyKey != "" {
			existing[m.IdempotencyKey] = true
		}
	}

	planned := []model.Movement{}
	for _, p := range state.Matured {
		key := SettlementKey(p.ID)
		amount := model.RoundToMinorUnits(p.ExpectedTotal, p.Currency)
		meta := func() *model.MovementMeta { return &model.MovementMeta{PFID: p.ID, Settlement: true} }

		if k := key + redemptionSuffix; !existing[k] {
			planned = append(planned, model.Movement{
				ID:             SettlementID(k),
				Timestamp:      p.MaturityDate,
				Type:           model.MovementSell,
				AssetClass:     model.AssetClassPF,
				InstrumentID:   p.InstrumentID,
				AccountID:      p.AccountID,
				Quantity:       1,
				Price:          amount,
				Currency:       p.Currency,
				TotalAmount:    amount,
				Notes:          fmt.Sprintf("Automatic redemption of fixed-term deposit at %s", p.Institution),
				Meta:           meta(),
				IdempotencyKey: k,
				CreatedAt:      now,
			})
		}
		if k := key + creditSuffix; !existing[k] {
			planned = append(planned, model.Movement{
				ID:             SettlementID(k),
				Timestamp:      p.MaturityDate,
				Type:           model.MovementDeposit,
				AssetClass:     model.AssetClassCashARS,
				AccountID:      p.AccountID,
				Quantity:       amount,
				Price:          1,
				Currency:       model.LocalCurrency,
				TotalAmount:    amount,
				Notes:          fmt.Sprintf("Proceeds of fixed-term deposit at %s", p.Institution),
				Meta:           meta(),
				IdempotencyKey: k,
				CreatedAt:      now,
			})
		}
	}
	return planned
}
