package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Apurva-Raj-FF/bt-backend/internal/config"

	_ "github.com/go-sql-driver/mysql"
)

// NewClient opens the MySQL connection pool and wraps it in an ent sql
// driver so repositories can use the dialect-aware query builder.
func NewClient(cfg config.DatabaseConfig, logger *slog.Logger) (*entsql.Driver, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=True&loc=Local&charset=utf8mb4",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	drv := entsql.OpenDB(cfg.Driver, db)

	// The backtest engine owns most of these tables; bootstrap only fills
	// the gaps on a fresh database.
	if err := Migrate(context.Background(), drv.DB()); err != nil {
		drv.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("database connected",
		"driver", cfg.Driver,
		"host", cfg.Host,
		"database", cfg.Database,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return drv, nil
}

// Close shuts down the connection pool.
func Close(drv *entsql.Driver, logger *slog.Logger) error {
	if err := drv.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return err
	}
	logger.Info("database closed")
	return nil
}
