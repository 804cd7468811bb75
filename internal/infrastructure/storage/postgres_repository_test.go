package storage

import (
	"context"
	"testing"
	"time"

	"ReleaseRadar/internal/domain"
)

func TestNilDatabaseShortCircuits(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	ctx := context.Background()

	seen, err := repo.AlreadySeen(ctx, []string{"iOS-18.1-22B83-release"})
	if err != nil || len(seen) != 0 {
		t.Fatalf("AlreadySeen = %v, %v", seen, err)
	}
	if err := repo.Upsert(ctx, domain.ReleaseItem{}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	history, err := repo.LoadHistory(ctx, domain.PlatformIOS)
	if err != nil || history != nil {
		t.Fatalf("LoadHistory = %v, %v", history, err)
	}
}

func TestAlreadySeenEmptyKeys(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	seen, err := repo.AlreadySeen(context.Background(), nil)
	if err != nil {
		t.Fatalf("AlreadySeen: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("expected empty map, got %v", seen)
	}
}

func TestNullableTime(t *testing.T) {
	t.Parallel()

	if got := nullableTime(domain.ReleaseItem{}); got != nil {
		t.Fatalf("zero time should map to NULL, got %v", got)
	}

	when := time.Date(2024, time.October, 28, 17, 0, 0, 0, time.UTC)
	got := nullableTime(domain.ReleaseItem{PublishedAt: when})
	stamp, ok := got.(time.Time)
	if !ok || !stamp.Equal(when) {
		t.Fatalf("real time should pass through, got %v", got)
	}
}
