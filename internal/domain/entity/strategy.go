package entity

// Calendar-year range covered by the portfolio composition columns. The
// backtest engine writes one text column per year into the strategy table.
const (
	FirstCompositionYear = 1997
	LastCompositionYear  = 2024
)

// Strategy is one saved backtest strategy (a portfolio_investment_rules row).
type Strategy struct {
	ID            int
	UUID          string // strat_uuid, doubles as the execution session id
	UserID        string
	Name          string  // raw query descriptor as submitted by the frontend
	Alias         *string // user-chosen display name, nil until saved
	IsPublic      bool
	InsertTime    *string
	ReferenceFile *string
	Tag           *string
	Composition   map[int]string // per-year holdings text, keyed by calendar year
}

// HasAlias reports whether the strategy has been saved under a display name.
func (s *Strategy) HasAlias() bool {
	return s.Alias != nil && *s.Alias != ""
}

// StrategyStats is one performance-statistics row for a strategy, keyed by
// the rolling-window length in years.
type StrategyStats struct {
	ID          int
	UUID        string
	Name        string
	NYears      *int
	NDatapoints *int

	Mean      *float64
	Median    *float64
	Std       *float64
	Sharpe    *float64
	DwnStdDev *float64

	IndexMean      *float64
	IndexMedian    *float64
	IndexStd       *float64
	IndexSharpe    *float64
	IndexDwnStdDev *float64

	AlphaMean   *float64
	AlphaMedian *float64
	AlphaStd    *float64
	AlphaSharpe *float64

	HighestPCAGR *float64
	LowestPCAGR  *float64
	HighestIndex *float64
	LowestIndex  *float64
	HighestAlpha *float64
	LowestAlpha  *float64

	ModListPct *string
}

// CalendarYear is one year of realized portfolio-vs-index performance.
type CalendarYear struct {
	ID            int
	SessionID     string
	UserID        *string
	Year          *int
	PortfolioCAGR *float64
	IndexCAGR     *float64
}
