package worker // import "github.com/maktaba-io/maktaba/worker"

import (
	"context"
	"time"

	"github.com/maktaba-io/maktaba/config"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/store"
	"go.uber.org/zap"
)

// ExpiryWorker periodically expires pending reservations whose hold
// window has lapsed, releasing the held copies. Each sweep is one
// transaction in the store, the same atomic discipline as the other
// lifecycle transitions.
type ExpiryWorker struct {
	store *store.Store
}

func NewExpiryWorker(store *store.Store) *ExpiryWorker {
	return &ExpiryWorker{store: store}
}

// Run blocks until ctx is cancelled. It does nothing when
// reservation_hold_days is zero: how long a hold should last is still an
// open product decision, so expiry is opt-in.
func (w *ExpiryWorker) Run(ctx context.Context) {
	holdDays := config.Opts.ReservationHoldDays
	if holdDays <= 0 {
		log.Info("Reservation expiry disabled")
		return
	}

	interval := time.Duration(config.Opts.ExpirySweepIntervalMin) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Reservation expiry worker started",
		zap.Int("hold_days", holdDays),
		zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("Reservation expiry worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -holdDays)
			if _, err := w.store.ExpirePendingReservations(cutoff); err != nil {
				log.Error("Failed to expire reservations", zap.Error(err))
			}
		}
	}
}
