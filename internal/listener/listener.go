// Package listener provides a Postgres LISTEN/NOTIFY consumer that keeps the
// stats cache coherent across API instances. It holds a dedicated pgx
// connection (not from the pool) listening on the `drink_logged` channel.
//
// A trigger on drink_logs fires pg_notify with the subscriber id as payload;
// the consumer drops every cached stats entry for that subscriber.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	// Channel is the notification channel written by the drink_logs trigger.
	Channel          = "drink_logged"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Invalidator drops cached entries by key prefix.
type Invalidator interface {
	DeletePrefix(prefix string) int
}

// PrefixFunc maps a subscriber id to the cache prefix to drop.
type PrefixFunc func(userID string) string

// Start opens a dedicated connection and listens on the drink_logged channel.
// It reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, inv Invalidator, prefix PrefixFunc, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, inv, prefix, logger)
		if ctx.Err() != nil {
			logger.Info("Drink listener stopped (context cancelled)")
			return
		}

		logger.Error("Drink listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, inv Invalidator, prefix PrefixFunc, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+Channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Drink listener connected", "channel", Channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		Handle(notification.Payload, inv, prefix, logger)
	}
}

// Handle applies one notification payload.
func Handle(payload string, inv Invalidator, prefix PrefixFunc, logger *slog.Logger) {
	userID := strings.TrimSpace(payload)
	if userID == "" {
		logger.Warn("Ignoring empty drink notification")
		return
	}
	if n := inv.DeletePrefix(prefix(userID)); n > 0 {
		logger.Debug("Stats cache invalidated", "user_id", userID, "keys", n)
	}
}
