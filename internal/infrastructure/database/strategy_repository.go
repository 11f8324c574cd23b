package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain"
	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

// Table names as created by the backtest engine.
const (
	strategyTable = "portfolio_investment_rules"
	statsTable    = "investment_rules_statistics"
	calYearTable  = "cal_year"
)

// strategyRepository is the SQL implementation of domain.StrategyRepository.
type strategyRepository struct {
	drv     *entsql.Driver
	builder *entsql.DialectBuilder
}

// NewStrategyRepository creates a new StrategyRepository instance.
func NewStrategyRepository(drv *entsql.Driver) domain.StrategyRepository {
	return &strategyRepository{
		drv:     drv,
		builder: entsql.Dialect(dialect.MySQL),
	}
}

// yearColumns returns the per-year composition column names in order.
func yearColumns() []string {
	cols := make([]string, 0, entity.LastCompositionYear-entity.FirstCompositionYear+1)
	for year := entity.FirstCompositionYear; year <= entity.LastCompositionYear; year++ {
		cols = append(cols, strconv.Itoa(year))
	}
	return cols
}

// baseColumns are the non-year strategy columns, in scan order.
var baseColumns = []string{
	"id", "strat_uuid", "user_id", "strat_name", "strat_name_alias",
	"isPublic", "insert_time", "reference_file", "tag",
}

// GetByUUID loads a single strategy including its year composition.
func (r *strategyRepository) GetByUUID(ctx context.Context, uuid string) (*entity.Strategy, error) {
	query, args := r.builder.
		Select(append(append([]string{}, baseColumns...), yearColumns()...)...).
		From(entsql.Table(strategyTable)).
		Where(entsql.EQ("strat_uuid", uuid)).
		Query()

	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query strategy: %w", err)
		}
		return nil, domain.NewNotFoundError("Strategy", uuid)
	}

	strategy, err := scanStrategy(rows, true)
	if err != nil {
		return nil, fmt.Errorf("failed to scan strategy: %w", err)
	}
	return strategy, nil
}

// ListByUser returns a page of the user's aliased strategies. Composition
// columns are skipped; list rows only need the descriptor and the alias.
func (r *strategyRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.Strategy, error) {
	query, args := r.builder.
		Select(baseColumns...).
		From(entsql.Table(strategyTable)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.NotNull("strat_name_alias"),
		)).
		OrderBy(entsql.Asc("id")).
		Offset(offset).
		Limit(limit).
		Query()

	return r.listStrategies(ctx, query, args)
}

// CountByUser returns the total number of the user's aliased strategies.
func (r *strategyRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query, args := r.builder.
		Select(entsql.Count("*")).
		From(entsql.Table(strategyTable)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.NotNull("strat_name_alias"),
		)).
		Query()

	return r.count(ctx, query, args)
}

// ListPublic returns a page of public aliased strategies. Explicit id
// ordering keeps pagination stable.
func (r *strategyRepository) ListPublic(ctx context.Context, offset, limit int) ([]*entity.Strategy, error) {
	query, args := r.builder.
		Select(baseColumns...).
		From(entsql.Table(strategyTable)).
		Where(publicPredicate()).
		OrderBy(entsql.Asc("id")).
		Offset(offset).
		Limit(limit).
		Query()

	return r.listStrategies(ctx, query, args)
}

// CountPublic returns the total number of public aliased strategies.
func (r *strategyRepository) CountPublic(ctx context.Context) (int, error) {
	query, args := r.builder.
		Select(entsql.Count("*")).
		From(entsql.Table(strategyTable)).
		Where(publicPredicate()).
		Query()

	return r.count(ctx, query, args)
}

func publicPredicate() *entsql.Predicate {
	return entsql.And(
		entsql.EQ("isPublic", 1),
		entsql.NotNull("strat_name_alias"),
		entsql.NEQ("strat_name_alias", ""),
	)
}

// UpdateAlias sets the display name and visibility of a strategy.
func (r *strategyRepository) UpdateAlias(ctx context.Context, uuid, alias string, isPublic bool) error {
	// Existence check first: an unchanged UPDATE reports zero affected
	// rows on MySQL, which would be indistinguishable from a miss.
	query, args := r.builder.
		Select("id").
		From(entsql.Table(strategyTable)).
		Where(entsql.EQ("strat_uuid", uuid)).
		Query()

	var id int
	if err := r.drv.DB().QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return domain.NewNotFoundError("Strategy", uuid)
		}
		return fmt.Errorf("failed to look up strategy: %w", err)
	}

	public := 0
	if isPublic {
		public = 1
	}
	query, args = r.builder.
		Update(strategyTable).
		Set("strat_name_alias", alias).
		Set("isPublic", public).
		Where(entsql.EQ("id", id)).
		Query()

	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update strategy alias: %w", err)
	}
	return nil
}

// StatsByUUID returns all statistics rows for a strategy.
func (r *strategyRepository) StatsByUUID(ctx context.Context, uuid string) ([]*entity.StrategyStats, error) {
	query, args := r.builder.
		Select(
			"id", "strat_uuid", "strat_name", "nyears", "ndatapoints",
			"mean", "median", "std", "sharpe", "dwn_std_dev",
			"index_mean", "index_median", "index_std", "index_sharpe", "index_dwn_std_dev",
			"alpha_mean", "alpha_median", "alpha_std", "alpha_sharpe",
			"highest_pcagr", "lowest_pcagr", "highest_index", "lowest_index",
			"highest_alpha", "lowest_alpha", "Mod_List%",
		).
		From(entsql.Table(statsTable)).
		Where(entsql.EQ("strat_uuid", uuid)).
		OrderBy(entsql.Asc("nyears")).
		Query()

	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}
	defer rows.Close()

	var result []*entity.StrategyStats
	for rows.Next() {
		var (
			s       entity.StrategyStats
			uuidCol sql.NullString
			nameCol sql.NullString
			nyears  sql.NullInt64
			points  sql.NullInt64
			floats  [20]sql.NullFloat64
			modList sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &uuidCol, &nameCol, &nyears, &points,
			&floats[0], &floats[1], &floats[2], &floats[3], &floats[4],
			&floats[5], &floats[6], &floats[7], &floats[8], &floats[9],
			&floats[10], &floats[11], &floats[12], &floats[13],
			&floats[14], &floats[15], &floats[16], &floats[17],
			&floats[18], &floats[19], &modList,
		); err != nil {
			return nil, fmt.Errorf("failed to scan statistics: %w", err)
		}

		s.UUID = uuidCol.String
		s.Name = nameCol.String
		s.NYears = nullableInt(nyears)
		s.NDatapoints = nullableInt(points)
		s.Mean = nullableFloat(floats[0])
		s.Median = nullableFloat(floats[1])
		s.Std = nullableFloat(floats[2])
		s.Sharpe = nullableFloat(floats[3])
		s.DwnStdDev = nullableFloat(floats[4])
		s.IndexMean = nullableFloat(floats[5])
		s.IndexMedian = nullableFloat(floats[6])
		s.IndexStd = nullableFloat(floats[7])
		s.IndexSharpe = nullableFloat(floats[8])
		s.IndexDwnStdDev = nullableFloat(floats[9])
		s.AlphaMean = nullableFloat(floats[10])
		s.AlphaMedian = nullableFloat(floats[11])
		s.AlphaStd = nullableFloat(floats[12])
		s.AlphaSharpe = nullableFloat(floats[13])
		s.HighestPCAGR = nullableFloat(floats[14])
		s.LowestPCAGR = nullableFloat(floats[15])
		s.HighestIndex = nullableFloat(floats[16])
		s.LowestIndex = nullableFloat(floats[17])
		s.HighestAlpha = nullableFloat(floats[18])
		s.LowestAlpha = nullableFloat(floats[19])
		s.ModListPct = nullableString(modList)

		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statistics: %w", err)
	}
	return result, nil
}

// CalendarYears returns per-year performance ordered by year ascending.
func (r *strategyRepository) CalendarYears(ctx context.Context, sessionID string) ([]*entity.CalendarYear, error) {
	query, args := r.builder.
		Select("id", "session_id", "user_id", "year", "portfolio_cagr", "index_cagr").
		From(entsql.Table(calYearTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("year")).
		Query()

	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar years: %w", err)
	}
	defer rows.Close()

	var result []*entity.CalendarYear
	for rows.Next() {
		var (
			cy        entity.CalendarYear
			sessCol   sql.NullString
			userCol   sql.NullString
			yearCol   sql.NullInt64
			portfolio sql.NullFloat64
			index     sql.NullFloat64
		)
		if err := rows.Scan(&cy.ID, &sessCol, &userCol, &yearCol, &portfolio, &index); err != nil {
			return nil, fmt.Errorf("failed to scan calendar year: %w", err)
		}
		cy.SessionID = sessCol.String
		cy.UserID = nullableString(userCol)
		cy.Year = nullableInt(yearCol)
		cy.PortfolioCAGR = nullableFloat(portfolio)
		cy.IndexCAGR = nullableFloat(index)
		result = append(result, &cy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar years: %w", err)
	}
	return result, nil
}

// listStrategies runs a list query and scans base columns only.
func (r *strategyRepository) listStrategies(ctx context.Context, query string, args []interface{}) ([]*entity.Strategy, error) {
	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategies: %w", err)
	}
	defer rows.Close()

	var result []*entity.Strategy
	for rows.Next() {
		strategy, err := scanStrategy(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		result = append(result, strategy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate strategies: %w", err)
	}
	return result, nil
}

func (r *strategyRepository) count(ctx context.Context, query string, args []interface{}) (int, error) {
	var n int
	if err := r.drv.DB().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count strategies: %w", err)
	}
	return n, nil
}

// scanStrategy scans base columns, plus the year composition when the
// query selected it.
func scanStrategy(rows *sql.Rows, withComposition bool) (*entity.Strategy, error) {
	var (
		s          entity.Strategy
		uuidCol    sql.NullString
		userCol    sql.NullString
		nameCol    sql.NullString
		aliasCol   sql.NullString
		isPublic   int
		insertTime sql.NullString
		refFile    sql.NullString
		tagCol     sql.NullString
	)

	targets := []interface{}{
		&s.ID, &uuidCol, &userCol, &nameCol, &aliasCol,
		&isPublic, &insertTime, &refFile, &tagCol,
	}

	nyears := entity.LastCompositionYear - entity.FirstCompositionYear + 1
	years := make([]sql.NullString, nyears)
	if withComposition {
		for i := range years {
			targets = append(targets, &years[i])
		}
	}

	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}

	s.UUID = uuidCol.String
	s.UserID = userCol.String
	s.Name = nameCol.String
	s.Alias = nullableString(aliasCol)
	s.IsPublic = isPublic != 0
	s.InsertTime = nullableString(insertTime)
	s.ReferenceFile = nullableString(refFile)
	s.Tag = nullableString(tagCol)

	if withComposition {
		s.Composition = make(map[int]string, nyears)
		for i, v := range years {
			if v.Valid {
				s.Composition[entity.FirstCompositionYear+i] = v.String
			}
		}
	}

	return &s, nil
}
