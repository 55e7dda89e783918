package cards_data

import (
	"context"
	"log"
	"time"

	"github.com/status-im/cards-loader/scheduler"
)

// ReloadFunc performs one full reload
type ReloadFunc func(ctx context.Context) error

// PeriodicUpdater runs the warm-up load and periodic reloads
type PeriodicUpdater struct {
	interval  time.Duration
	warmUp    bool
	reload    ReloadFunc
	scheduler *scheduler.Scheduler
}

// NewPeriodicUpdater creates a new periodic updater
func NewPeriodicUpdater(interval time.Duration, warmUp bool, reload ReloadFunc) *PeriodicUpdater {
	return &PeriodicUpdater{
		interval: interval,
		warmUp:   warmUp,
		reload:   reload,
	}
}

// Start runs the warm-up and schedules periodic reloads.
// Without an interval the warm-up runs synchronously, once.
func (u *PeriodicUpdater) Start(ctx context.Context) error {
	if u.interval <= 0 {
		log.Printf("Cards periodic updater: periodic reloads disabled (interval: %v)", u.interval)
		if u.warmUp {
			if err := u.reload(ctx); err != nil {
				log.Printf("Cards periodic updater: warm-up failed: %v", err)
			}
		}
		return nil
	}

	u.scheduler = scheduler.New("Cards periodic updater", u.interval, scheduler.Task(u.reload))
	u.scheduler.Start(ctx, u.warmUp)

	return nil
}

// Stop stops periodic reloads
func (u *PeriodicUpdater) Stop() {
	if u.scheduler != nil {
		u.scheduler.Stop()
	}
}
