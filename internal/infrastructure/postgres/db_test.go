package postgres

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewPoolWithConfigRejectsBadURL(t *testing.T) {
	_, err := NewPoolWithConfig(context.Background(), PoolConfig{DatabaseURL: "not-a-url"})
	if err == nil || !strings.Contains(err.Error(), "parse database URL") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestNewPoolWithConfigUnreachableLedgerDB(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewPoolWithConfig(ctx, PoolConfig{
		DatabaseURL:    "postgres://bookkeeper@127.0.0.1:1/bookkeeper?sslmode=disable",
		MaxConns:       2,
		ConnectTimeout: 200 * time.Millisecond,
	})
	if err == nil || !strings.Contains(err.Error(), "ping database") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestNewPoolPassesLimits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := NewPool(ctx, "postgres://127.0.0.1:1/bookkeeper?connect_timeout=1", 4, 1); err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}
