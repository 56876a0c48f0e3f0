package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePortfolios, downCreatePortfolios)
}

func upCreatePortfolios(ctx context.Context, tx *sql.Tx) error {
	createPortfolios := `
	CREATE TABLE portfolios (
		id VARCHAR(255) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		cover_image_url VARCHAR(1000) NOT NULL,
		parameters JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	if _, err := tx.ExecContext(ctx, createPortfolios); err != nil {
		return fmt.Errorf("could not create portfolios table: %w", err)
	}

	createWorks := `
	CREATE TABLE works (
		portfolio_id VARCHAR(255) NOT NULL,
		id VARCHAR(255) NOT NULL,
		image_url VARCHAR(1000) NOT NULL,
		thumbnail_url VARCHAR(1000) NOT NULL,
		fields JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (portfolio_id, id)
	);
	`
	if _, err := tx.ExecContext(ctx, createWorks); err != nil {
		return fmt.Errorf("could not create works table: %w", err)
	}
	return nil
}

func downCreatePortfolios(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"works", "portfolios"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)); err != nil {
			return fmt.Errorf("could not drop table %s: %w", table, err)
		}
	}
	return nil
}
