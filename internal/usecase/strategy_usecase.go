package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain"
	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

// strategyUsecase is the implementation of the StrategyUsecase interface.
type strategyUsecase struct {
	repo   domain.StrategyRepository
	engine domain.EngineRunner
	logger *slog.Logger
}

// NewStrategyUsecase creates a new StrategyUsecase instance.
func NewStrategyUsecase(
	repo domain.StrategyRepository,
	engine domain.EngineRunner,
	logger *slog.Logger,
) domain.StrategyUsecase {
	return &strategyUsecase{
		repo:   repo,
		engine: engine,
		logger: logger,
	}
}

// Execute runs the backtest engine for a session, then reads back the rows
// it wrote: the strategy itself, its statistics, and per-year performance.
func (u *strategyUsecase) Execute(ctx context.Context, sessionID, userToken string, payload []byte) (*domain.StrategyDetail, error) {
	if sessionID == "" {
		return nil, domain.NewInvalidInputError("session_id is required")
	}

	if err := u.engine.Run(ctx, sessionID, userToken, payload); err != nil {
		return nil, fmt.Errorf("engine run failed: %w", err)
	}

	strategy, err := u.repo.GetByUUID(ctx, sessionID)
	if err != nil {
		if domain.IsNotFound(err) {
			// The engine exited cleanly but stored nothing.
			return nil, domain.NewInternalError(fmt.Errorf("no strategy row found for session %s", sessionID))
		}
		return nil, fmt.Errorf("failed to load strategy: %w", err)
	}

	detail, err := u.loadPerformance(ctx, strategy)
	if err != nil {
		return nil, err
	}

	u.logger.Info("strategy executed",
		"session_id", sessionID,
		"stats_rows", len(detail.Stats),
		"calendar_years", len(detail.Years),
	)
	return detail, nil
}

// Save names a strategy and sets its visibility.
func (u *strategyUsecase) Save(ctx context.Context, uuid, alias string, isPublic bool) error {
	if uuid == "" {
		return domain.NewInvalidInputError("session_id is required")
	}
	if alias == "" {
		return domain.NewInvalidInputError("strategy name is required")
	}
	if len(alias) > 255 {
		return domain.NewInvalidInputError("strategy name too long (max 255 characters)")
	}

	if err := u.repo.UpdateAlias(ctx, uuid, alias, isPublic); err != nil {
		return err
	}

	u.logger.Info("strategy saved", "session_id", uuid, "alias", alias, "is_public", isPublic)
	return nil
}

// ListUserStrategies returns a page of the user's saved strategies.
func (u *strategyUsecase) ListUserStrategies(ctx context.Context, userID string, page, pageSize int) ([]*entity.Strategy, int, error) {
	if userID == "" {
		return nil, 0, domain.NewInvalidInputError("user id is required")
	}

	page, pageSize = clampPage(page, pageSize)
	offset := (page - 1) * pageSize

	strategies, err := u.repo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list user strategies: %w", err)
	}

	total, err := u.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count user strategies: %w", err)
	}

	return strategies, total, nil
}

// ListPublicStrategies returns a page of public saved strategies. List
// endpoints never fail on an empty page; they return an empty slice.
func (u *strategyUsecase) ListPublicStrategies(ctx context.Context, page, pageSize int) ([]*entity.Strategy, int, error) {
	page, pageSize = clampPage(page, pageSize)
	offset := (page - 1) * pageSize

	strategies, err := u.repo.ListPublic(ctx, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list public strategies: %w", err)
	}

	total, err := u.repo.CountPublic(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count public strategies: %w", err)
	}

	return strategies, total, nil
}

// GetStrategy returns the full detail of one strategy.
func (u *strategyUsecase) GetStrategy(ctx context.Context, uuid string) (*domain.StrategyDetail, error) {
	if uuid == "" {
		return nil, domain.NewInvalidInputError("strategy id is required")
	}

	strategy, err := u.repo.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	return u.loadPerformance(ctx, strategy)
}

// loadPerformance attaches statistics and calendar-year rows.
func (u *strategyUsecase) loadPerformance(ctx context.Context, strategy *entity.Strategy) (*domain.StrategyDetail, error) {
	stats, err := u.repo.StatsByUUID(ctx, strategy.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}

	years, err := u.repo.CalendarYears(ctx, strategy.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar years: %w", err)
	}

	return &domain.StrategyDetail{
		Strategy: strategy,
		Stats:    stats,
		Years:    years,
	}, nil
}

// clampPage normalizes pagination parameters.
func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
