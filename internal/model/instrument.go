package model

// Instrument is static reference data for a tradable asset.
type Instrument struct {
	ID               string     `json:"id"`
	Symbol           string     `json:"symbol"`
	Name             string     `json:"name"`
	AssetClass       AssetClass `json:"assetClass"`
	Currency         string     `json:"currency"`
	Ratio            float64    `json:"ratio,omitempty"` // CEDEAR shares per underlying share
	UnderlyingSymbol string     `json:"underlyingSymbol,omitempty"`
}
