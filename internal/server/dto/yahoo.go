package dto

// YahooValue is the raw/fmt pair Yahoo wraps every numeric field in. Only
// the raw value is used.
type YahooValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []YahooQuoteSummaryResult `json:"result"`
		Error  *YahooError               `json:"error"`
	} `json:"quoteSummary"`
}

type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type YahooQuoteSummaryResult struct {
	Price struct {
		LongName           string      `json:"longName"`
		ShortName          string      `json:"shortName"`
		RegularMarketPrice *YahooValue `json:"regularMarketPrice"`
		MarketCap          *YahooValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail struct {
		PreviousClose *YahooValue `json:"previousClose"`
		TrailingPE    *YahooValue `json:"trailingPE"`
		DividendYield *YahooValue `json:"dividendYield"`
	} `json:"summaryDetail"`
	SummaryProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"summaryProfile"`
	FinancialData struct {
		ReturnOnEquity  *YahooValue `json:"returnOnEquity"`
		DebtToEquity    *YahooValue `json:"debtToEquity"`
		RevenueGrowth   *YahooValue `json:"revenueGrowth"`
		EarningsGrowth  *YahooValue `json:"earningsGrowth"`
		ProfitMargins   *YahooValue `json:"profitMargins"`
		TotalRevenue    *YahooValue `json:"totalRevenue"`
	} `json:"financialData"`
	DefaultKeyStatistics struct {
		TrailingEps *YahooValue `json:"trailingEps"`
		PriceToBook *YahooValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
}

type YahooChartResponse struct {
	Chart struct {
		Result []YahooChartResult `json:"result"`
		Error  *YahooError        `json:"error"`
	} `json:"chart"`
}

type YahooChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}
