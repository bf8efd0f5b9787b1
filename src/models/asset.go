package models

type AssetKind string

const (
	AssetCash       AssetKind = "cash"
	AssetStock      AssetKind = "stock"
	AssetCrypto     AssetKind = "crypto"
	AssetRealEstate AssetKind = "real_estate"
)

type Asset struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Kind              AssetKind `json:"kind"`
	InvestmentSubtype *string   `json:"investment_subtype,omitempty"`
	Symbol            *string   `json:"symbol"`
	Quantity          *float64  `json:"quantity"`
	StoredValue       float64   `json:"stored_value"`
	AnnualYieldPct    float64   `json:"annual_yield_pct"`
}

// PriceQuote is a best-effort live price for one ticker symbol.
type PriceQuote struct {
	Symbol        string  `json:"symbol"`
	PriceUSD      float64 `json:"price_usd"`
	ChangePercent float64 `json:"change_percent"`
}
