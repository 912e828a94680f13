package request

type CreateInstrumentRequest struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	AssetClass       string  `json:"assetClass"`
	Currency         string  `json:"currency"`
	Ratio            float64 `json:"ratio,omitempty"`
	UnderlyingSymbol string  `json:"underlyingSymbol,omitempty"`
}
