package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/records"
)

// Lister is the part of the store the reminder reads.
type Lister interface {
	All(ctx context.Context, kind records.Kind) ([]records.Record, error)
}

func Info(title, message string) error {
	return beeep.Notify(title, message, "")
}

// PendingKinds returns the kinds with nothing logged on now's local day.
func PendingKinds(ctx context.Context, store Lister, now time.Time, loc *time.Location, log *slog.Logger) ([]records.Kind, error) {
	var pending []records.Kind
	for _, kind := range records.Kinds {
		recs, err := store.All(ctx, kind)
		if err != nil {
			return nil, err
		}
		today := analytics.Daily(recs, kind, 1, now, loc, log)
		if len(today) == 0 || today[0].Total == 0 {
			pending = append(pending, kind)
		}
	}
	return pending, nil
}

func FormatDailyPrompt(pending []records.Kind) (string, string) {
	title := "Daily streak reminder"
	if len(pending) == 0 {
		return title, "Everything is logged for today. Nice streak!"
	}
	names := make([]string, len(pending))
	for i, k := range pending {
		names[i] = string(k)
	}
	return title, fmt.Sprintf("Nothing logged today for: %s.", strings.Join(names, ", "))
}

// Remind notifies only when something is pending.
func Remind(ctx context.Context, store Lister, now time.Time, loc *time.Location, log *slog.Logger) error {
	pending, err := PendingKinds(ctx, store, now, loc, log)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	return Info(FormatDailyPrompt(pending))
}
