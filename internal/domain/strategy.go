package domain

import (
	"context"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

// StrategyDetail bundles a strategy with everything the engine computed
// for it: rolling-window statistics and calendar-year performance.
type StrategyDetail struct {
	Strategy *entity.Strategy
	Stats    []*entity.StrategyStats
	Years    []*entity.CalendarYear
}

// ============ Repository interfaces ============

// StrategyRepository is the data-access surface for strategy rows and the
// performance rows the backtest engine writes next to them.
type StrategyRepository interface {
	// GetByUUID loads a single strategy including its year composition.
	GetByUUID(ctx context.Context, uuid string) (*entity.Strategy, error)

	// ListByUser returns a page of the user's aliased strategies.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*entity.Strategy, error)

	// CountByUser returns the total number of the user's aliased strategies.
	CountByUser(ctx context.Context, userID string) (int, error)

	// ListPublic returns a page of public aliased strategies ordered by id.
	ListPublic(ctx context.Context, offset, limit int) ([]*entity.Strategy, error)

	// CountPublic returns the total number of public aliased strategies.
	CountPublic(ctx context.Context) (int, error)

	// UpdateAlias sets the display name and visibility of a strategy.
	UpdateAlias(ctx context.Context, uuid, alias string, isPublic bool) error

	// StatsByUUID returns all statistics rows for a strategy.
	StatsByUUID(ctx context.Context, uuid string) ([]*entity.StrategyStats, error)

	// CalendarYears returns per-year performance ordered by year ascending.
	CalendarYears(ctx context.Context, sessionID string) ([]*entity.CalendarYear, error)
}

// EngineRunner invokes the external backtest engine. The engine is a black
// box: it receives the session id, the caller's token and the query payload,
// and writes its results directly into the store.
type EngineRunner interface {
	Run(ctx context.Context, sessionID, userToken string, payload []byte) error
}

// ============ Usecase interface ============

// StrategyUsecase is the strategy business logic surface.
type StrategyUsecase interface {
	// Execute runs the engine for a session and returns what it stored.
	Execute(ctx context.Context, sessionID, userToken string, payload []byte) (*StrategyDetail, error)

	// Save names a strategy and sets its visibility.
	Save(ctx context.Context, uuid, alias string, isPublic bool) error

	// ListUserStrategies returns a page of the user's saved strategies.
	ListUserStrategies(ctx context.Context, userID string, page, pageSize int) ([]*entity.Strategy, int, error)

	// ListPublicStrategies returns a page of public saved strategies.
	ListPublicStrategies(ctx context.Context, page, pageSize int) ([]*entity.Strategy, int, error)

	// GetStrategy returns the full detail of one strategy.
	GetStrategy(ctx context.Context, uuid string) (*StrategyDetail, error)
}
