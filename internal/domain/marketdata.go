package domain

// DailyClose is one end-of-day close for a ticker.
type DailyClose struct {
	Ticker      string
	TimestampMs int64 // start of the trading day, Unix ms
	Close       float64
}

// Quote is a last-trade observation from a live feed.
type Quote struct {
	Ticker      string
	Price       float64
	TimestampMs int64
}

// MarketSnapshot is the three scalars the simulation engine consumes
// per ticker.
type MarketSnapshot struct {
	Ticker     string
	Price      float64 // current price
	Volatility float64 // annualized, decimal
	Drift      float64 // annualized, decimal
}
