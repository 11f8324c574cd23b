// Package engine invokes the external backtest engine. The engine is an
// out-of-process black box: it receives the session id, the caller's token
// and the query payload on its command line, and writes its results
// directly into the shared store.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Apurva-Raj-FF/bt-backend/internal/config"
	"github.com/Apurva-Raj-FF/bt-backend/internal/domain"
)

// Runner is the subprocess implementation of domain.EngineRunner.
type Runner struct {
	cfg    config.EngineConfig
	logger *slog.Logger
}

// NewRunner creates a new engine runner.
func NewRunner(cfg config.EngineConfig, logger *slog.Logger) domain.EngineRunner {
	return &Runner{
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes one engine session and waits for it to finish. The engine
// reports results through the store, not stdout; stdout is only logged.
func (r *Runner) Run(ctx context.Context, sessionID, userToken string, payload []byte) error {
	if _, err := os.Stat(r.cfg.ScriptPath); err != nil {
		return fmt.Errorf("engine script not found at %s: %w", r.cfg.ScriptPath, err)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.cfg.Command, r.cfg.ScriptPath, sessionID, userToken, string(payload))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	r.logger.Info("engine run started",
		"session_id", sessionID,
		"script", r.cfg.ScriptPath,
	)

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		r.logger.Error("engine run failed",
			"session_id", sessionID,
			"error", err,
			"stderr", detail,
		)
		return fmt.Errorf("engine execution failed: %s", detail)
	}

	r.logger.Info("engine run finished",
		"session_id", sessionID,
		"duration", time.Since(start).String(),
	)
	if out := strings.TrimSpace(stdout.String()); out != "" {
		r.logger.Debug("engine output", "session_id", sessionID, "stdout", out)
	}
	return nil
}
