package model

// AssetInput identifies one position and its cost basis.
type AssetInput struct {
	InstrumentID string     `json:"instrumentId"`
	Symbol       string     `json:"symbol"`
	AssetClass   AssetClass `json:"assetClass"`
	Currency     string     `json:"currency"` // native currency of the price
	Quantity     float64    `json:"quantity"`
	CostARS      *float64   `json:"costArs"`
	CostUSD      *float64   `json:"costUsd"` // historical hard-currency basis, when recorded
	Ratio        float64    `json:"ratio,omitempty"`
}

// AssetPrices is the live market data for one position.
type AssetPrices struct {
	Price           *float64 `json:"price"`
	UnderlyingPrice *float64 `json:"underlyingPrice,omitempty"`
	DailyChangePct  *float64 `json:"dailyChangePct,omitempty"` // ratio, 0.02 = +2%
}

// AssetMetrics is the valuation of one position. Nil fields mean the value
// could not be computed from the available data.
type AssetMetrics struct {
	InstrumentID   string     `json:"instrumentId"`
	Symbol         string     `json:"symbol"`
	AssetClass     AssetClass `json:"assetClass"`
	Currency       string     `json:"currency"`
	Quantity       float64    `json:"quantity"`
	Price          *float64   `json:"price"`
	ValueARS       *float64   `json:"valueArs"`
	ValueUSD       *float64   `json:"valueUsd"`
	CostARS        *float64   `json:"costArs"`
	CostUSD        *float64   `json:"costUsd"`
	PnLARS         *float64   `json:"pnlArs"`
	PnLUSD         *float64   `json:"pnlUsd"`
	ROIPct         *float64   `json:"roiPct"`
	DailyChangeARS *float64   `json:"dailyChangeArs"`
	FXKey          string     `json:"fxKey"`
	FXRate         *float64   `json:"fxRate"`
	ExposureUSD    *float64   `json:"exposureUsd,omitempty"`
	ImpliedFX      *float64   `json:"impliedFx,omitempty"`
}

// PortfolioAssetTotals sums AssetMetrics across the portfolio.
type PortfolioAssetTotals struct {
	ValueARS       float64  `json:"valueArs"`
	ValueUSD       float64  `json:"valueUsd"`
	CostARS        float64  `json:"costArs"`
	CostUSD        float64  `json:"costUsd"`
	PnLARS         float64  `json:"pnlArs"`
	PnLUSD         float64  `json:"pnlUsd"`
	PnLPctARS      *float64 `json:"pnlPctArs"`
	PnLPctUSD      *float64 `json:"pnlPctUsd"`
	RealizedPnLARS float64  `json:"realizedPnlArs"`
	RealizedPnLUSD float64  `json:"realizedPnlUsd"`
}
