package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/shotmap/internal/config"
)

// ShotsEvent is the JSON payload of pg_notify('shots_updated', ...).
type ShotsEvent struct {
	Season    string `json:"season"`
	Count     int    `json:"count"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"ts"`
}

// ParseShotsEvent decodes a notification payload.
func ParseShotsEvent(payload string) (ShotsEvent, error) {
	var ev ShotsEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ShotsEvent{}, fmt.Errorf("parse shots event: %w", err)
	}
	if ev.Season == "" {
		return ShotsEvent{}, fmt.Errorf("parse shots event: missing season")
	}
	return ev, nil
}

// Origin identifies this process in the events it sends.
func (p *Pool) Origin() string { return p.origin }

func (p *Pool) notifyShots(ctx context.Context, tx pgx.Tx, season string, count int) error {
	payload, err := json.Marshal(ShotsEvent{
		Season:    season,
		Count:     count,
		Origin:    p.origin,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "notify", config.ShotsChannel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", config.ShotsChannel, err)
	}
	return nil
}

func processOrigin() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}
