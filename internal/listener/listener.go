// Package listener provides a Postgres LISTEN/NOTIFY consumer that tells the
// dashboard when another process has mirrored new shot data. It holds a
// dedicated pgx connection (not from the pool) listening on the
// shots_updated channel.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/shotmap/internal/config"
	"github.com/albapepper/shotmap/internal/db"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Options configures which events reach OnUpdate.
type Options struct {
	Season   string           // only events for this season; empty accepts all
	Origin   string           // events sent by this origin are ignored
	OnUpdate func(db.ShotsEvent)
}

// Start opens a dedicated connection and listens on the shots channel. It
// reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, opts Options, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	var b backoff

	for {
		listening, err := listenLoop(ctx, dbURL, opts, logger)
		if ctx.Err() != nil {
			logger.Info("Shots listener stopped (context cancelled)")
			return
		}

		wait := b.next(listening)
		logger.Error("Shots listener disconnected, reconnecting...",
			"error", err, "backoff", wait)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

// backoff doubles the reconnect delay after each failed attempt up to
// maxReconnect, and starts over once a session got as far as LISTEN.
type backoff struct {
	cur time.Duration
}

func (b *backoff) next(listening bool) time.Duration {
	if listening || b.cur == 0 {
		b.cur = reconnectBackoff
	}
	wait := b.cur
	b.cur = min(b.cur*2, maxReconnect)
	return wait
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled, reporting whether LISTEN succeeded.
func listenLoop(ctx context.Context, dbURL string, opts Options, logger *slog.Logger) (bool, error) {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+config.ShotsChannel)
	if err != nil {
		return false, fmt.Errorf("LISTEN %s: %w", config.ShotsChannel, err)
	}
	logger.Info("Shots listener connected", "channel", config.ShotsChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return true, fmt.Errorf("wait for notification: %w", err)
		}
		handle(notification.Payload, opts, logger)
	}
}

// handle decodes one payload and passes it to OnUpdate when it concerns the
// watched season and came from another process.
func handle(payload string, opts Options, logger *slog.Logger) bool {
	event, err := db.ParseShotsEvent(payload)
	if err != nil {
		logger.Warn("Failed to parse shots event", "payload", payload, "error", err)
		return false
	}
	if opts.Origin != "" && event.Origin == opts.Origin {
		return false
	}
	if opts.Season != "" && event.Season != opts.Season {
		logger.Debug("Ignoring shots event for other season", "season", event.Season)
		return false
	}

	logger.Info("Shots event received",
		"season", event.Season,
		"count", event.Count,
		"origin", event.Origin)
	if opts.OnUpdate != nil {
		opts.OnUpdate(event)
	}
	return true
}
