package dto

import (
	"testing"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

func TestToStrategyListResponsePagination(t *testing.T) {
	alias := "Saved"
	strategy := &entity.Strategy{ID: 1, UUID: "sess-1", Alias: &alias, Name: `{}`}

	tests := []struct {
		name           string
		strategies     []*entity.Strategy
		total          int
		page           int
		pageSize       int
		wantTotalPages int
	}{
		{
			name:           "empty result set has zero pages",
			strategies:     []*entity.Strategy{},
			total:          0,
			page:           1,
			pageSize:       20,
			wantTotalPages: 0,
		},
		{
			name:           "single partial page",
			strategies:     []*entity.Strategy{strategy},
			total:          1,
			page:           1,
			pageSize:       20,
			wantTotalPages: 1,
		},
		{
			name:           "exact multiple of page size",
			strategies:     []*entity.Strategy{strategy},
			total:          40,
			page:           2,
			pageSize:       20,
			wantTotalPages: 2,
		},
		{
			name:           "remainder rounds up",
			strategies:     []*entity.Strategy{strategy},
			total:          41,
			page:           3,
			pageSize:       20,
			wantTotalPages: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ToStrategyListResponse(tt.strategies, tt.total, tt.page, tt.pageSize)

			if resp.Pagination.TotalPages != tt.wantTotalPages {
				t.Errorf("total_pages = %d, want %d", resp.Pagination.TotalPages, tt.wantTotalPages)
			}
			if resp.Pagination.Total != tt.total {
				t.Errorf("total = %d, want %d", resp.Pagination.Total, tt.total)
			}
			if resp.Pagination.Page != tt.page || resp.Pagination.PageSize != tt.pageSize {
				t.Errorf("page/page_size = %d/%d, want %d/%d",
					resp.Pagination.Page, resp.Pagination.PageSize, tt.page, tt.pageSize)
			}
			if len(resp.Strategies) != len(tt.strategies) {
				t.Errorf("strategies = %d, want %d", len(resp.Strategies), len(tt.strategies))
			}
		})
	}
}

func TestToStrategyItem(t *testing.T) {
	alias := "Quality Screen"
	s := &entity.Strategy{
		ID:    1,
		UUID:  "sess-9",
		Alias: &alias,
		Name:  `{"filters": [{"Data": {"param": {"name": "ROE"}, "sign": "gt", "threshold": 0.15, "period": 5}, "Operator": "AND"}]}`,
	}

	item := ToStrategyItem(s)
	if item.StrategyID != "sess-9" {
		t.Errorf("strategy_id = %s, want sess-9", item.StrategyID)
	}
	if item.Name != alias {
		t.Errorf("name = %q, want %q", item.Name, alias)
	}
	if item.FormattedQuery != "ROE 5 Years > 0.15" {
		t.Errorf("formatted_query = %q, want %q", item.FormattedQuery, "ROE 5 Years > 0.15")
	}
	if item.Strategy != s.Name {
		t.Errorf("strategy = %q, want the raw descriptor", item.Strategy)
	}
}
