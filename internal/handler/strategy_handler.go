package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain"
	"github.com/Apurva-Raj-FF/bt-backend/internal/handler/dto"
)

// StrategyHandler handles strategy-related HTTP requests.
type StrategyHandler struct {
	usecase domain.StrategyUsecase
	logger  *slog.Logger
}

// NewStrategyHandler creates a new strategy handler.
func NewStrategyHandler(usecase domain.StrategyUsecase, logger *slog.Logger) *StrategyHandler {
	return &StrategyHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Execute runs the backtest engine for a session and returns its results.
// POST /api/v1/strategies/execute
func (h *StrategyHandler) Execute(ctx context.Context, c *app.RequestContext) {
	var req dto.ExecuteRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("invalid execute request", "error", err)
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	payload, err := sonic.Marshal(req.Data)
	if err != nil {
		h.logger.Error("failed to encode engine payload", "error", err)
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	detail, err := h.usecase.Execute(ctx, req.SessionID, req.UserToken, payload)
	if err != nil {
		h.logger.Error("strategy execution failed", "error", err, "session_id", req.SessionID)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ExecuteResponse{
		StrategyID: req.SessionID,
		Output:     dto.ToStrategyDetailResponse(detail),
	})
}

// Save names a strategy and sets its visibility.
// PUT /api/v1/strategies
func (h *StrategyHandler) Save(ctx context.Context, c *app.RequestContext) {
	var req dto.SaveRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("invalid save request", "error", err)
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	if err := h.usecase.Save(ctx, req.SessionID, req.StratNameAlias, req.IsPublic != 0); err != nil {
		h.logger.Error("failed to save strategy", "error", err, "session_id", req.SessionID)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, map[string]string{
		"message": "Strategy updated successfully",
	})
}

// ListPublic returns a paginated list of public saved strategies.
// GET /api/v1/strategies
func (h *StrategyHandler) ListPublic(ctx context.Context, c *app.RequestContext) {
	page, pageSize := paginationParams(c)

	strategies, total, err := h.usecase.ListPublicStrategies(ctx, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list public strategies", "error", err)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToStrategyListResponse(strategies, total, page, pageSize))
}

// ListMine returns a paginated list of the caller's saved strategies.
// GET /api/v1/users/me/strategies
func (h *StrategyHandler) ListMine(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	page, pageSize := paginationParams(c)

	strategies, total, err := h.usecase.ListUserStrategies(ctx, strconv.FormatInt(userID, 10), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list user strategies", "error", err, "user_id", userID)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToStrategyListResponse(strategies, total, page, pageSize))
}

// Get returns the full detail of one strategy.
// GET /api/v1/strategies/:id
func (h *StrategyHandler) Get(ctx context.Context, c *app.RequestContext) {
	strategyID := c.Param("id")
	if strategyID == "" {
		ErrorResponse(c, domain.ErrInvalidInput)
		return
	}

	detail, err := h.usecase.GetStrategy(ctx, strategyID)
	if err != nil {
		h.logger.Error("failed to get strategy", "error", err, "strategy_id", strategyID)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, dto.ToStrategyDetailResponse(detail))
}

// paginationParams parses page/page_size query parameters with defaults.
func paginationParams(c *app.RequestContext) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return page, pageSize
}

// currentUserID reads the authenticated user id set by the JWT middleware.
func currentUserID(c *app.RequestContext) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
