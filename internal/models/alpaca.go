package models

// AlpacaAccount is the raw /v2/account record. Alpaca serializes every numeric
// field as a string; parsing to decimals is the normalizer's job.
type AlpacaAccount struct {
	PortfolioValue string `json:"portfolio_value"`
	LastEquity     string `json:"last_equity"`
	Equity         string `json:"equity"`
	Cash           string `json:"cash"`
}

// AlpacaPosition is one raw /v2/positions record, string-typed like the account.
type AlpacaPosition struct {
	Symbol          string `json:"symbol"`
	Qty             string `json:"qty"`
	MarketValue     string `json:"market_value"`
	CostBasis       string `json:"cost_basis"`
	UnrealizedPL    string `json:"unrealized_pl"`
	UnrealizedPLPct string `json:"unrealized_plpc"`
}
