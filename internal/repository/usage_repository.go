package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/aayushsingh8/fake-news-prediction/internal/model"
)

type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// RecordUsage counts one upstream call against today's row for apiName.
func (r *UsageRepository) RecordUsage(ctx context.Context, apiName string, tokens int, failed bool) error {
	errorCount := 0
	if failed {
		errorCount = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_usage (api_name, usage_date, request_count, error_count, token_count)
		VALUES ($1, CURRENT_DATE, 1, $2, $3)
		ON CONFLICT (api_name, usage_date) DO UPDATE SET
			request_count = api_usage.request_count + 1,
			error_count   = api_usage.error_count + EXCLUDED.error_count,
			token_count   = api_usage.token_count + EXCLUDED.token_count
	`, apiName, errorCount, tokens)
	return err
}

// GetUsage lists usage rows for the last days days, newest first.
func (r *UsageRepository) GetUsage(ctx context.Context, days int) ([]model.ApiUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, api_name, usage_date, request_count, error_count, token_count
		FROM api_usage
		WHERE usage_date >= $1
		ORDER BY usage_date DESC, api_name ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []model.ApiUsage
	for rows.Next() {
		var u model.ApiUsage
		err := rows.Scan(&u.ID, &u.ApiName, &u.UsageDate, &u.RequestCount, &u.ErrorCount, &u.TokenCount)
		if err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return usage, nil
}

func (r *UsageRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
