// Package actors holds the concurrent workloads driven by the moderation
// stress test. Each actor loops until the stop channel closes, hammering one
// slice of the report lifecycle through the real service layer.
package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sosflow/report"
)

// churnPrefix marks reports created by Submitter so Deleter only ever erases
// churn rows, never the fixed seed rows the other actors depend on.
const churnPrefix = "Churn"

var firstNames = []string{"Anna", "Maria", "Nikos", "Giorgos", "Eleni", "Kostas"}

// Submitter creates a steady stream of valid reports, some with coordinates
// and photo refs, exercising validation and insert under contention.
func Submitter(ctx context.Context, svc *report.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		params := report.CreateParams{
			Name:      fmt.Sprintf("%s %s", churnPrefix, firstNames[rand.Intn(len(firstNames))]),
			Telephone: fmt.Sprintf("69%08d", rand.Intn(100000000)),
			Comments:  "stress submission",
		}
		if rand.Intn(2) == 0 {
			params.Coordinates = &report.Coordinate{
				Latitude:  35.4190 + rand.Float64()*0.006,
				Longitude: 24.1380 + rand.Float64()*0.007,
			}
		}
		if rand.Intn(3) == 0 {
			ref := fmt.Sprintf("/uploads/stress_%d.jpg", rand.Int63())
			params.PhotoRef = &ref
		}

		if _, err := svc.Create(ctx, params); err != nil {
			var verr *report.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("submitter: generated payload rejected: %w", err)
			}
			return fmt.Errorf("submitter: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Moderator flips approval on a fixed report over and over. Toggles from
// concurrent moderators must interleave without ever corrupting the row.
func Moderator(ctx context.Context, svc *report.Service, id string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if _, err := svc.ToggleApproval(ctx, id); err != nil {
			return fmt.Errorf("moderator toggle: %w", err)
		}
		time.Sleep(time.Duration(15+rand.Intn(30)) * time.Millisecond)
	}
}

// Remover cycles a fixed report through remove and restore. Both operations
// are idempotent so overlapping removers are harmless.
func Remover(ctx context.Context, svc *report.Service, id string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if _, err := svc.Remove(ctx, id); err != nil {
			return fmt.Errorf("remover remove: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
		if _, err := svc.Restore(ctx, id); err != nil {
			return fmt.Errorf("remover restore: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Deleter permanently deletes churn reports, racing Submitter and other
// Deleters. A delete that loses the race surfaces as not-found, which the
// service already treats as success.
func Deleter(ctx context.Context, svc *report.Service, pool *pgxpool.Pool, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		var id string
		err := pool.QueryRow(ctx,
			`SELECT id FROM reports WHERE name LIKE $1 ORDER BY created_at LIMIT 1`,
			churnPrefix+"%").Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			time.Sleep(50 * time.Millisecond)
			continue
		case err != nil:
			return fmt.Errorf("deleter pick: %w", err)
		}

		if err := svc.PermanentDelete(ctx, id); err != nil && !errors.Is(err, report.ErrNotFound) {
			return fmt.Errorf("deleter: %w", err)
		}
		time.Sleep(time.Duration(40+rand.Intn(60)) * time.Millisecond)
	}
}

// Lister reads both the visible and the full listing, checking that removed
// rows never leak into the default view.
func Lister(ctx context.Context, svc *report.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		visible, err := svc.List(ctx, report.Filter{IncludeRemoved: false})
		if err != nil {
			return fmt.Errorf("lister visible: %w", err)
		}
		for _, r := range visible {
			if r.IsRemoved {
				return fmt.Errorf("lister: removed report %s leaked into default listing", r.ID)
			}
		}
		if _, err := svc.List(ctx, report.Filter{IncludeRemoved: true}); err != nil {
			return fmt.Errorf("lister all: %w", err)
		}
		time.Sleep(time.Duration(30+rand.Intn(50)) * time.Millisecond)
	}
}
