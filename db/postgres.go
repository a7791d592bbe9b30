package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

const usageSchema = `
CREATE TABLE IF NOT EXISTS api_usage (
	id            BIGSERIAL PRIMARY KEY,
	api_name      TEXT    NOT NULL,
	usage_date    DATE    NOT NULL,
	request_count INTEGER NOT NULL DEFAULT 0,
	error_count   INTEGER NOT NULL DEFAULT 0,
	token_count   INTEGER NOT NULL DEFAULT 0,
	UNIQUE (api_name, usage_date)
)`

// Connect opens the Postgres pool used for usage accounting and makes sure
// the api_usage table exists.
func Connect(ctx context.Context, connStr string) error {
	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err := DB.PingContext(ctx); err != nil {
		return err
	}

	_, err = DB.ExecContext(ctx, usageSchema)
	return err
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
