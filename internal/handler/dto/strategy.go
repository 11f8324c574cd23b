package dto

import (
	"strconv"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain"
	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
	"github.com/Apurva-Raj-FF/bt-backend/internal/queryfmt"
)

// ============ Requests ============

// FilterParam identifies the screened fundamental parameter.
type FilterParam struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// FilterData is one comparison condition of a strategy query.
type FilterData struct {
	Param     FilterParam `json:"param"`
	Period    *int        `json:"period,omitempty"`
	Sign      string      `json:"sign"`
	Threshold float64     `json:"threshold"`
}

// Filter pairs a condition with its trailing logical operator.
type Filter struct {
	Data     FilterData `json:"Data"`
	Operator string     `json:"Operator"`
}

// DataEntry is one filter group of an execution request.
type DataEntry struct {
	Filters []Filter `json:"filters"`
}

// ExecuteRequest starts one backtest engine run.
type ExecuteRequest struct {
	SessionID string      `json:"session_id" binding:"required"`
	UserToken string      `json:"user_token" binding:"required"`
	Data      []DataEntry `json:"data" binding:"required"`
}

// SaveRequest names a strategy and sets its visibility.
type SaveRequest struct {
	SessionID      string `json:"session_id" binding:"required"`
	StratNameAlias string `json:"strat_name_alias" binding:"required"`
	IsPublic       int    `json:"isPublic"`
}

// ============ Responses ============

// StrategyItem is one row of a strategy listing.
type StrategyItem struct {
	Strategy       string `json:"strategy"` // raw query descriptor
	Name           string `json:"name"`
	StrategyID     string `json:"strategy_id"`
	FormattedQuery string `json:"formatted_query"`
}

// Pagination is the page bookkeeping attached to list responses.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// StrategyListResponse is a page of strategies.
type StrategyListResponse struct {
	Strategies []*StrategyItem `json:"strategies"`
	Pagination Pagination      `json:"pagination"`
}

// PortfolioResponse is the strategy row with its year composition.
type PortfolioResponse struct {
	StrategyID  string            `json:"strat_uuid"`
	UserID      string            `json:"user_id"`
	InsertTime  *string           `json:"insert_time"`
	StratName   string            `json:"strat_name"`
	Alias       *string           `json:"strat_name_alias"`
	IsPublic    bool              `json:"isPublic"`
	Composition map[string]string `json:"composition"` // holdings text keyed by year
}

// StatsResponse is one statistics row mapped to the field names the
// frontend expects (cagr_* for the portfolio columns, index_SR, ...).
type StatsResponse struct {
	ID          int     `json:"id"`
	NYears      *int    `json:"nyears"`
	NDatapoints *int    `json:"ndatapoints"`
	StratName   string  `json:"strat_name"`
	ModListPct  *string `json:"mod_list_pct"`

	CagrMean    *float64 `json:"cagr_mean"`
	CagrMedian  *float64 `json:"cagr_median"`
	CagrStd     *float64 `json:"cagr_std"`
	SharpeRatio *float64 `json:"sharpe_ratio"`
	CagrDwnStd  *float64 `json:"cagr_dwn_std"`

	IndexMean   *float64 `json:"index_mean"`
	IndexMedian *float64 `json:"index_median"`
	IndexStd    *float64 `json:"index_std"`
	IndexSR     *float64 `json:"index_SR"`
	IndexDwnStd *float64 `json:"index_dwn_std"`

	AlphaMean   *float64 `json:"alpha_mean"`
	AlphaMedian *float64 `json:"alpha_median"`
	AlphaStd    *float64 `json:"alpha_std"`
	AlphaSharpe *float64 `json:"alpha_sharpe"`

	HighestPcagr *float64 `json:"highest_pcagr"`
	LowestPcagr  *float64 `json:"lowest_pcagr"`
	HighestIndex *float64 `json:"highest_index"`
	LowestIndex  *float64 `json:"lowest_index"`
	HighestAlpha *float64 `json:"highest_alpha"`
	LowestAlpha  *float64 `json:"lowest_alpha"`
}

// CalYearResponse is one year of realized performance.
type CalYearResponse struct {
	ID            int      `json:"id"`
	Year          *int     `json:"year"`
	PortfolioCAGR *float64 `json:"portfolio_cagr"`
	IndexCAGR     *float64 `json:"index_cagr"`
}

// StrategyDetailResponse bundles a strategy with its performance rows.
type StrategyDetailResponse struct {
	IPPF     *PortfolioResponse `json:"ippf"`
	PFST     []*StatsResponse   `json:"pfst"`
	CalYears []*CalYearResponse `json:"calyears"`
}

// ExecuteResponse reports a finished engine run.
type ExecuteResponse struct {
	StrategyID string                  `json:"strategy_id"`
	Output     *StrategyDetailResponse `json:"output"`
}

// ============ Converters ============

// ToStrategyItem converts an entity.Strategy to a listing row, rendering
// the stored descriptor as a human-readable query.
func ToStrategyItem(s *entity.Strategy) *StrategyItem {
	name := ""
	if s.Alias != nil {
		name = *s.Alias
	}
	return &StrategyItem{
		Strategy:       s.Name,
		Name:           name,
		StrategyID:     s.UUID,
		FormattedQuery: queryfmt.Format(s.Name),
	}
}

// ToStrategyListResponse converts a page of strategies with pagination.
func ToStrategyListResponse(strategies []*entity.Strategy, total, page, pageSize int) *StrategyListResponse {
	items := make([]*StrategyItem, len(strategies))
	for i, s := range strategies {
		items[i] = ToStrategyItem(s)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &StrategyListResponse{
		Strategies: items,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// ToStrategyDetailResponse converts a StrategyDetail with the frontend
// field mapping.
func ToStrategyDetailResponse(d *domain.StrategyDetail) *StrategyDetailResponse {
	s := d.Strategy

	composition := make(map[string]string, len(s.Composition))
	for year, holdings := range s.Composition {
		composition[strconv.Itoa(year)] = holdings
	}

	stats := make([]*StatsResponse, len(d.Stats))
	for i, st := range d.Stats {
		stats[i] = &StatsResponse{
			ID:          st.ID,
			NYears:      st.NYears,
			NDatapoints: st.NDatapoints,
			StratName:   st.Name,
			ModListPct:  st.ModListPct,

			CagrMean:    st.Mean,
			CagrMedian:  st.Median,
			CagrStd:     st.Std,
			SharpeRatio: st.Sharpe,
			CagrDwnStd:  st.DwnStdDev,

			IndexMean:   st.IndexMean,
			IndexMedian: st.IndexMedian,
			IndexStd:    st.IndexStd,
			IndexSR:     st.IndexSharpe,
			IndexDwnStd: st.IndexDwnStdDev,

			AlphaMean:   st.AlphaMean,
			AlphaMedian: st.AlphaMedian,
			AlphaStd:    st.AlphaStd,
			AlphaSharpe: st.AlphaSharpe,

			HighestPcagr: st.HighestPCAGR,
			LowestPcagr:  st.LowestPCAGR,
			HighestIndex: st.HighestIndex,
			LowestIndex:  st.LowestIndex,
			HighestAlpha: st.HighestAlpha,
			LowestAlpha:  st.LowestAlpha,
		}
	}

	years := make([]*CalYearResponse, len(d.Years))
	for i, y := range d.Years {
		years[i] = &CalYearResponse{
			ID:            y.ID,
			Year:          y.Year,
			PortfolioCAGR: y.PortfolioCAGR,
			IndexCAGR:     y.IndexCAGR,
		}
	}

	return &StrategyDetailResponse{
		IPPF: &PortfolioResponse{
			StrategyID:  s.UUID,
			UserID:      s.UserID,
			InsertTime:  s.InsertTime,
			StratName:   s.Name,
			Alias:       s.Alias,
			IsPublic:    s.IsPublic,
			Composition: composition,
		},
		PFST:     stats,
		CalYears: years,
	}
}
