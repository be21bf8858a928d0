package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carmarket/carmarket-go/internal/model"
)

func TestProfileRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newTestDB(t))
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	repo.now = fixedClock(now)

	profile := &model.ProfileRecord{ID: "u1", Name: "Sara", Email: "sara@example.com", Phone: "+971500000000", Location: model.LocationAjman}
	if err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.CreatedAt.Equal(now) || got.Name != profile.Name || got.Email != profile.Email ||
		got.Phone != profile.Phone || got.Location != profile.Location {
		t.Fatalf("GetByID = %+v, want %+v", got, *profile)
	}

	if err := repo.Create(ctx, &model.ProfileRecord{ID: "u1", Name: "Again"}); !errors.Is(err, ErrDuplicateProfile) {
		t.Fatalf("expected ErrDuplicateProfile, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "u2"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileRepositoryListByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newTestDB(t))
	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, &model.ProfileRecord{ID: id, Name: "n-" + id}); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	got, err := repo.ListByIDs(ctx, []string{"a", "c", "missing"})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 profiles, got %+v", got)
	}

	empty, err := repo.ListByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListByIDs(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no profiles, got %+v", empty)
	}
}

func TestProfileRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newTestDB(t))
	if err := repo.Create(ctx, &model.ProfileRecord{ID: "u1", Name: "Old"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	name, phone := "New", "+971 4 000 0000"
	if err := repo.Update(ctx, "u1", model.ProfilePatch{Name: &name, Phone: &phone}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != name || got.Phone != phone || got.Location != "" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	if err := repo.Update(ctx, "nobody", model.ProfilePatch{Name: &name}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
