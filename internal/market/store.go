// Package market joins listings with seller profiles, caches the joined views,
// filters and sorts them for display, and coordinates mutations so that later
// reads observe them.
package market

import (
	"context"

	"github.com/carmarket/carmarket-go/internal/model"
)

// RemoteStore is the listing and profile store the market reads from and
// writes to. Implemented by *repository.Store.
type RemoteStore interface {
	ListListings(ctx context.Context, filter model.ListingFilter) ([]model.ListingRecord, error)
	GetListing(ctx context.Context, id string) (model.ListingRecord, error)
	InsertListing(ctx context.Context, record *model.ListingRecord) error
	UpdateListing(ctx context.Context, id, ownerID string, patch model.ListingPatch) error
	DeleteListing(ctx context.Context, id, ownerID string) error

	ListProfiles(ctx context.Context, ids []string) ([]model.ProfileRecord, error)
	GetProfile(ctx context.Context, id string) (model.ProfileRecord, error)
	InsertProfile(ctx context.Context, record *model.ProfileRecord) error
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) error
}
