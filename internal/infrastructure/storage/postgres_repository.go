// Package storage persists reconciled releases in Postgres. The releases
// table carries a uniqueness constraint on the identity key so the store
// stays the single source of truth for "have we seen this build before".
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/ports"
)

// PostgresRepository implements ports.ReleaseRepository on Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ReleaseRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AlreadySeen returns a map with the identity keys that already exist in
// storage.
func (r *PostgresRepository) AlreadySeen(ctx context.Context, keys []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if r.db == nil || len(keys) == 0 {
		return result, nil
	}

	query, args, err := r.builder.
		Select("release_key").
		From("releases").
		Where(sq.Expr("release_key = ANY(?)", pq.StringArray(keys))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		result[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// Upsert inserts or refreshes one release snapshot, keyed by the identity
// key. Status updates flow through so confirmations stick.
func (r *PostgresRepository) Upsert(ctx context.Context, item domain.ReleaseItem) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("releases").
		Columns("release_key", "platform", "version", "build", "channel",
			"status", "published_at", "device_identifier", "beta_number").
		Values(item.Key(), item.Platform, item.Version, item.Build, item.Channel,
			item.Status, nullableTime(item), item.DeviceIdentifier, item.BetaNumber).
		Suffix(`ON CONFLICT (release_key) DO UPDATE
            SET status = EXCLUDED.status,
                published_at = EXCLUDED.published_at,
                device_identifier = EXCLUDED.device_identifier,
                beta_number = EXCLUDED.beta_number,
                updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert release: %w", err)
	}
	return nil
}

// LoadHistory returns the dated releases for one platform, ordered ascending
// by publish date. This is the projection the forecast engine consumes.
func (r *PostgresRepository) LoadHistory(ctx context.Context, platform domain.Platform) ([]domain.HistoryEntry, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("version", "channel", "published_at").
		From("releases").
		Where(sq.Eq{"platform": string(platform)}).
		Where(sq.NotEq{"published_at": nil}).
		OrderBy("published_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var history []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var channel string
		if err := rows.Scan(&entry.Version, &channel, &entry.Date); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Channel = domain.Channel(channel)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return history, nil
}

// nullableTime maps implausible publish dates to NULL so they never enter
// the history projection.
func nullableTime(item domain.ReleaseItem) interface{} {
	if item.PublishedAt.IsZero() {
		return nil
	}
	return item.PublishedAt
}
