package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaStore abstracts photo storage so permanent deletion can reclaim the
// attached image.
type MediaStore interface {
	Remove(ctx context.Context, ref string) error
}

// Service exposes report creation and the moderation lifecycle.
type Service struct {
	repo        Repository
	media       MediaStore
	log         *zap.Logger
	idGenerator func() string
	now         func() time.Time
}

// NewService wires the moderation service. media may be nil when no photo
// storage is configured; log falls back to a no-op logger.
func NewService(repo Repository, media MediaStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		media:       media,
		log:         log,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates and persists a new submission. The record always starts
// unapproved and not removed, regardless of payload contents.
func (s *Service) Create(ctx context.Context, params CreateParams) (Record, error) {
	params.Telephone = SanitizePhone(params.Telephone)
	if verr := Validate(params.Name, params.Telephone, params.Comments); verr != nil {
		return Record{}, verr
	}

	now := s.now().UTC()
	rec := Record{
		ID:          s.idGenerator(),
		Name:        params.Name,
		Telephone:   params.Telephone,
		Comments:    params.Comments,
		Coordinates: params.Coordinates,
		PhotoRef:    params.PhotoRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return Record{}, err
	}

	s.log.Info("report created",
		zap.String("id", created.ID),
		zap.Bool("has_location", created.Coordinates != nil),
		zap.Bool("has_photo", created.PhotoRef != nil))
	return created, nil
}

// Get returns a single record regardless of its removal state.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns records per the filter; the zero filter excludes removed ones.
func (s *Service) List(ctx context.Context, filter Filter) ([]Record, error) {
	return s.repo.List(ctx, filter)
}

// ToggleApproval flips the approved flag and returns the updated record.
func (s *Service) ToggleApproval(ctx context.Context, id string) (Record, error) {
	rec, err := s.repo.ToggleApproval(ctx, id)
	if err != nil {
		return Record{}, err
	}
	s.log.Info("report approval toggled", zap.String("id", id), zap.Bool("approved", rec.Approved))
	return rec, nil
}

// Remove soft-deletes a record. Removing an already-removed record succeeds
// and returns its current state.
func (s *Service) Remove(ctx context.Context, id string) (Record, error) {
	return s.setRemoved(ctx, id, true)
}

// Restore clears the soft-delete flag. Restoring a live record succeeds and
// returns its current state.
func (s *Service) Restore(ctx context.Context, id string) (Record, error) {
	return s.setRemoved(ctx, id, false)
}

func (s *Service) setRemoved(ctx context.Context, id string, removed bool) (Record, error) {
	rec, err := s.repo.SetRemoved(ctx, id, removed)
	if err != nil {
		return Record{}, err
	}
	s.log.Info("report removal flag set", zap.String("id", id), zap.Bool("is_removed", rec.IsRemoved))
	return rec, nil
}

// PermanentDelete erases the record and reclaims its photo. A failed photo
// cleanup is logged and does not block the record deletion: an orphaned file
// is preferred over a record the administrator cannot get rid of.
func (s *Service) PermanentDelete(ctx context.Context, id string) error {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if rec.PhotoRef != nil && s.media != nil {
		if err := s.media.Remove(ctx, *rec.PhotoRef); err != nil {
			s.log.Warn("photo cleanup failed during permanent delete",
				zap.String("id", id),
				zap.String("photo_ref", *rec.PhotoRef),
				zap.Error(err))
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted out from under us between Get and Delete; the record
			// is gone either way.
			return nil
		}
		return fmt.Errorf("report: permanent delete: %w", err)
	}

	s.log.Info("report permanently deleted", zap.String("id", id))
	return nil
}
