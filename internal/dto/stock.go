package dto

// YahooFinanceResponse is the subset of the chart API the quote source reads.
type YahooFinanceResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}
