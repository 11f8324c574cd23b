package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

// Migrate creates any missing tables. Column names mirror what the
// backtest engine writes, including the bare year columns on the strategy
// table and the dotted statistic names, so the engine and the API can
// share one schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		usersDDL,
		strategiesDDL(),
		statisticsDDL,
		calYearDDL,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}

const usersDDL = `
CREATE TABLE IF NOT EXISTS users (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    mobile VARCHAR(20) NULL,
    password_hash VARCHAR(255) NULL,
    role ENUM('Admin', 'Standard User', 'Guest') NOT NULL DEFAULT 'Standard User',
    is_verified TINYINT(1) NOT NULL DEFAULT 0,
    is_active TINYINT(1) NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    last_login_at TIMESTAMP NULL
)`

// strategiesDDL builds the strategy table DDL with one text column per
// composition year.
func strategiesDDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS portfolio_investment_rules (\n")
	b.WriteString("    id INT AUTO_INCREMENT PRIMARY KEY,\n")
	for year := entity.FirstCompositionYear; year <= entity.LastCompositionYear; year++ {
		fmt.Fprintf(&b, "    `%d` TEXT NULL,\n", year)
	}
	b.WriteString("    insert_time TEXT NULL,\n")
	b.WriteString("    reference_file TEXT NULL,\n")
	b.WriteString("    strat_name TEXT NULL,\n")
	b.WriteString("    strat_uuid TEXT NULL,\n")
	b.WriteString("    tag TEXT NULL,\n")
	b.WriteString("    user_id TEXT NULL,\n")
	b.WriteString("    strat_name_alias VARCHAR(255) NULL,\n")
	b.WriteString("    isPublic TINYINT(1) NOT NULL DEFAULT 0\n")
	b.WriteString(")")
	return b.String()
}

const statisticsDDL = "CREATE TABLE IF NOT EXISTS investment_rules_statistics (\n" +
	"    id INT AUTO_INCREMENT PRIMARY KEY,\n" +
	"    nyears INT NULL,\n" +
	"    ndatapoints INT NULL,\n" +
	"    mean DOUBLE NULL,\n" +
	"    median DOUBLE NULL,\n" +
	"    std DOUBLE NULL,\n" +
	"    sharpe DOUBLE NULL,\n" +
	"    dwn_std_dev DOUBLE NULL,\n" +
	"    index_mean DOUBLE NULL,\n" +
	"    index_median DOUBLE NULL,\n" +
	"    index_std DOUBLE NULL,\n" +
	"    index_sharpe DOUBLE NULL,\n" +
	"    index_dwn_std_dev DOUBLE NULL,\n" +
	"    alpha_mean DOUBLE NULL,\n" +
	"    alpha_median DOUBLE NULL,\n" +
	"    alpha_std DOUBLE NULL,\n" +
	"    alpha_sharpe DOUBLE NULL,\n" +
	"    highest_pcagr DOUBLE NULL,\n" +
	"    lowest_pcagr DOUBLE NULL,\n" +
	"    highest_index DOUBLE NULL,\n" +
	"    lowest_index DOUBLE NULL,\n" +
	"    highest_alpha DOUBLE NULL,\n" +
	"    lowest_alpha DOUBLE NULL,\n" +
	"    `Mod_List%` TEXT NULL,\n" +
	"    insert_time TEXT NULL,\n" +
	"    reference_file TEXT NULL,\n" +
	"    strat_name TEXT NULL,\n" +
	"    strat_uuid TEXT NULL,\n" +
	"    tag TEXT NULL\n" +
	")"

const calYearDDL = `
CREATE TABLE IF NOT EXISTS cal_year (
    id INT AUTO_INCREMENT PRIMARY KEY,
    session_id TEXT NULL,
    user_id TEXT NULL,
    year INT NULL,
    portfolio_cagr DOUBLE NULL,
    index_cagr DOUBLE NULL
)`
