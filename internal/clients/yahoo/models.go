package yahoo

// chartResponse is the subset of the v8 chart payload the tracker reads
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta chartMeta `json:"meta"`
}

// chartMeta uses pointers so a missing field can be told apart from zero
type chartMeta struct {
	Symbol             string   `json:"symbol"`
	Currency           string   `json:"currency"`
	ExchangeName       string   `json:"exchangeName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	PreviousClose      *float64 `json:"previousClose"`
	ChartPreviousClose *float64 `json:"chartPreviousClose"`
	RegularMarketTime  int64    `json:"regularMarketTime"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// previousClose prefers previousClose and falls back to chartPreviousClose
func (m chartMeta) previousClose() float64 {
	if m.PreviousClose != nil {
		return *m.PreviousClose
	}
	if m.ChartPreviousClose != nil {
		return *m.ChartPreviousClose
	}
	return 0
}
