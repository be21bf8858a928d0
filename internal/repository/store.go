package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/carmarket/carmarket-go/internal/model"
)

// DefaultTimeout bounds every store call when none is configured.
const DefaultTimeout = 5 * time.Second

// Store is the remote listing and profile store backed by SQL. Every call
// runs under its own timeout.
type Store struct {
	listings *ListingRepository
	profiles *ProfileRepository
	timeout  time.Duration
}

// NewStore creates a Store over db. A non-positive timeout uses DefaultTimeout.
func NewStore(db *sql.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		listings: NewListingRepository(db),
		profiles: NewProfileRepository(db),
		timeout:  timeout,
	}
}

func (s *Store) ListListings(ctx context.Context, filter model.ListingFilter) ([]model.ListingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listings.List(ctx, filter)
}

func (s *Store) GetListing(ctx context.Context, id string) (model.ListingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listings.GetByID(ctx, id)
}

func (s *Store) InsertListing(ctx context.Context, listing *model.ListingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listings.Create(ctx, listing)
}

func (s *Store) UpdateListing(ctx context.Context, id, ownerID string, patch model.ListingPatch) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listings.Update(ctx, id, ownerID, patch)
}

func (s *Store) DeleteListing(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listings.Delete(ctx, id, ownerID)
}

func (s *Store) ListProfiles(ctx context.Context, ids []string) ([]model.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.profiles.ListByIDs(ctx, ids)
}

func (s *Store) GetProfile(ctx context.Context, id string) (model.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.profiles.GetByID(ctx, id)
}

func (s *Store) InsertProfile(ctx context.Context, profile *model.ProfileRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.profiles.Create(ctx, profile)
}

func (s *Store) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.profiles.Update(ctx, id, patch)
}
