package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestService_CreateDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil).
		WithIDGenerator(func() string { return "rec-1" }).
		WithClock(func() time.Time { return time.Unix(1000, 0) })

	rec, err := svc.Create(context.Background(), CreateParams{
		Name:      "Maria Papadopoulou",
		Telephone: "69 912 34567",
		Comments:  "fallen tree blocking the road",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Approved {
		t.Error("new record must not be approved")
	}
	if rec.IsRemoved {
		t.Error("new record must not be removed")
	}
	if rec.Telephone != "6991234567" {
		t.Errorf("expected sanitized phone 6991234567, got %q", rec.Telephone)
	}
	if rec.Coordinates != nil {
		t.Error("expected no coordinates")
	}
	if !rec.CreatedAt.Equal(rec.UpdatedAt) {
		t.Error("createdAt and updatedAt must match on creation")
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	cases := []struct {
		name   string
		params CreateParams
		field  Field
	}{
		{"short name", CreateParams{Name: "Anna", Telephone: "123456", Comments: "x"}, FieldName},
		{"digits in name", CreateParams{Name: "Anna5 K", Telephone: "123456", Comments: "x"}, FieldName},
		{"empty name", CreateParams{Name: "  ", Telephone: "123456", Comments: "x"}, FieldName},
		{"letters in phone", CreateParams{Name: "Maria K", Telephone: "12a34", Comments: "x"}, FieldTelephone},
		{"empty phone", CreateParams{Name: "Maria K", Telephone: "", Comments: "x"}, FieldTelephone},
		{"empty comments", CreateParams{Name: "Maria K", Telephone: "123456", Comments: " "}, FieldComments},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.params)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %s, got %s", tc.field, verr.Field)
			}
		})
	}
}

func TestService_CreateGreekName(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)

	if _, err := svc.Create(context.Background(), CreateParams{
		Name:      "Γιώργος Παπάς",
		Telephone: "2821012345",
		Comments:  "διακοπή ρεύματος",
	}); err != nil {
		t.Fatalf("greek name should pass validation: %v", err)
	}
}

func TestService_ToggleApprovalIsItsOwnInverse(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	seed := repo.seed(Record{ID: "rec-1", Name: "Maria K"})

	first, err := svc.ToggleApproval(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Approved {
		t.Fatal("expected approved after first toggle")
	}

	second, err := svc.ToggleApproval(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Approved != seed.Approved {
		t.Fatalf("expected approval back to %v, got %v", seed.Approved, second.Approved)
	}
}

func TestService_RemoveRestoreRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	seed := repo.seed(Record{ID: "rec-1", Name: "Maria K", Telephone: "123456", Approved: true})

	removed, err := svc.Remove(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed.IsRemoved {
		t.Fatal("expected isRemoved after remove")
	}

	// Removing again is a no-op success.
	again, err := svc.Remove(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if !again.IsRemoved {
		t.Fatal("expected isRemoved to stay set")
	}

	restored, err := svc.Restore(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.IsRemoved {
		t.Fatal("expected isRemoved cleared after restore")
	}
	if restored.Name != seed.Name || restored.Telephone != seed.Telephone || restored.Approved != seed.Approved {
		t.Fatal("remove/restore must not touch other fields")
	}
	if !restored.UpdatedAt.After(seed.UpdatedAt) {
		t.Fatal("expected updatedAt refreshed")
	}
}

func TestService_OperationsOnMissingID(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)
	ctx := context.Background()

	if _, err := svc.ToggleApproval(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("toggle: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Remove(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Restore(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("restore: expected ErrNotFound, got %v", err)
	}
	if err := svc.PermanentDelete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestService_PermanentDeleteReclaimsPhoto(t *testing.T) {
	repo := newFakeRepo()
	media := &fakeMedia{}
	svc := NewService(repo, media, nil)

	photo := "/uploads/photo_1.jpg"
	repo.seed(Record{ID: "rec-1", Name: "Maria K", PhotoRef: &photo})

	if err := svc.PermanentDelete(context.Background(), "rec-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(media.removed) != 1 || media.removed[0] != photo {
		t.Fatalf("expected photo %q removed, got %v", photo, media.removed)
	}
	if _, err := svc.Get(context.Background(), "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestService_PermanentDeleteSurvivesCleanupFailure(t *testing.T) {
	repo := newFakeRepo()
	media := &fakeMedia{removeErr: errors.New("disk on fire")}
	svc := NewService(repo, media, nil)

	photo := "/uploads/photo_1.jpg"
	repo.seed(Record{ID: "rec-1", Name: "Maria K", PhotoRef: &photo})

	if err := svc.PermanentDelete(context.Background(), "rec-1"); err != nil {
		t.Fatalf("delete must succeed despite cleanup failure, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestService_ListFiltersRemoved(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	repo.seed(Record{ID: "a", Name: "Ann Marie"})
	repo.seed(Record{ID: "b", Name: "Bobby Jo", IsRemoved: true})

	def, err := svc.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list default: %v", err)
	}
	if len(def) != 1 || def[0].ID != "a" {
		t.Fatalf("default list must exclude removed, got %+v", def)
	}

	all, err := svc.List(context.Background(), Filter{IncludeRemoved: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("moderation list must include removed, got %d records", len(all))
	}
}

// --- fakes ---

type fakeRepo struct {
	records map[string]Record
	order   []string
	clock   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]Record{}, clock: time.Unix(1000, 0)}
}

func (f *fakeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeRepo) seed(rec Record) Record {
	now := f.tick()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	f.records[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return rec
}

func (f *fakeRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	f.records[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return rec, nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (f *fakeRepo) List(ctx context.Context, filter Filter) ([]Record, error) {
	out := []Record{}
	for _, id := range f.order {
		rec := f.records[id]
		if !filter.IncludeRemoved && rec.IsRemoved {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepo) ToggleApproval(ctx context.Context, id string) (Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Approved = !rec.Approved
	rec.UpdatedAt = f.tick()
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRepo) SetRemoved(ctx context.Context, id string, removed bool) (Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.IsRemoved = removed
	rec.UpdatedAt = f.tick()
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return ErrNotFound
	}
	delete(f.records, id)
	for i, other := range f.order {
		if other == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeMedia struct {
	removed   []string
	removeErr error
}

func (f *fakeMedia) Remove(ctx context.Context, ref string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, ref)
	return nil
}
