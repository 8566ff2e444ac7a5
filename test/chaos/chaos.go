// Package chaos injects contention while the actors run.
package chaos

import (
	"context"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HoldTableLock periodically grabs a SHARE ROW EXCLUSIVE lock on the reports
// table and sits on it briefly, forcing concurrent writers to queue. Actor
// operations slow down but must still come out correct.
func HoldTableLock(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if rand.Intn(3) != 0 {
				continue
			}
			tx, err := pool.Begin(ctx)
			if err != nil {
				continue
			}
			if _, err := tx.Exec(ctx, `LOCK TABLE reports IN SHARE ROW EXCLUSIVE MODE`); err == nil {
				time.Sleep(time.Duration(50+rand.Intn(150)) * time.Millisecond)
			}
			_ = tx.Rollback(ctx)
		}
	}
}
