package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mapleleafu/water/internal/calendar"
	"github.com/mapleleafu/water/internal/store"
)

// ErrInvalidGoal is returned for a negative goal.
var ErrInvalidGoal = errors.New("goal must be a positive integer")

// LogStore is the slice of the store the engine reads from.
type LogStore interface {
	FindSubscriber(ctx context.Context, id string) (*store.Subscriber, error)
	LatestSubscription(ctx context.Context, userID string) (*store.Subscription, error)
	FindDrinkLogs(ctx context.Context, userID string, since time.Time) ([]store.DrinkLog, error)
	FindDrinkLogsBetween(ctx context.Context, userID string, from, to time.Time) ([]store.DrinkLog, error)
	CountDrinkLogs(ctx context.Context, userID string) (int, error)
}

// Engine serves statistics and day detail queries.
type Engine struct {
	store LogStore
	loc   *time.Location
	now   func() time.Time
}

// NewEngine creates an engine bucketing days in loc (UTC when nil).
func NewEngine(s LogStore, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{store: s, loc: loc, now: time.Now}
}

// SetClock overrides the wall clock.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Location returns the zone used for day bucketing.
func (e *Engine) Location() *time.Location { return e.loc }

// GetStats returns the snapshot for a subscriber. A zero goal means
// DefaultGoal. Returns store.ErrNotFound when the subscriber does not exist.
func (e *Engine) GetStats(ctx context.Context, userID string, goal int) (*Snapshot, error) {
	if goal < 0 {
		return nil, ErrInvalidGoal
	}
	if goal == 0 {
		goal = DefaultGoal
	}
	if _, err := e.store.FindSubscriber(ctx, userID); err != nil {
		return nil, err
	}

	now := e.now()
	since := calendar.DaysBefore(now, WindowDays-1, e.loc)
	logs, err := e.store.FindDrinkLogs(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load drink logs: %w", err)
	}
	total, err := e.store.CountDrinkLogs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count drink logs: %w", err)
	}
	prefs, err := e.preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := Compute(logs, goal, now, e.loc)
	snap.TotalLogs = total
	snap.Preferences = prefs
	return &snap, nil
}

func (e *Engine) preferences(ctx context.Context, userID string) (Preferences, error) {
	sub, err := e.store.LatestSubscription(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Preferences{QuietStart: store.DefaultQuietStart, QuietEnd: store.DefaultQuietEnd}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return Preferences{QuietStart: sub.QuietStart, QuietEnd: sub.QuietEnd}, nil
}

// DayEntry is one drink in the day detail view.
type DayEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Amount    int       `json:"amount"`
}

// GetDayDetail lists the drinks logged on the calendar day containing day,
// oldest first. An empty day yields an empty, non-nil slice.
func (e *Engine) GetDayDetail(ctx context.Context, userID string, day time.Time) ([]DayEntry, error) {
	if _, err := e.store.FindSubscriber(ctx, userID); err != nil {
		return nil, err
	}
	from, to := calendar.DayRange(day, e.loc)
	logs, err := e.store.FindDrinkLogsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load day detail: %w", err)
	}
	out := make([]DayEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, DayEntry{ID: l.ID, Timestamp: l.Timestamp, Amount: l.Amount})
	}
	return out, nil
}
