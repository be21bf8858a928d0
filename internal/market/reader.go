package market

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/carmarket/carmarket-go/internal/cache"
	"github.com/carmarket/carmarket-go/internal/identity"
	"github.com/carmarket/carmarket-go/internal/model"
	"github.com/carmarket/carmarket-go/internal/repository"
)

const (
	// DefaultListingsFreshness is how long joined listing views are reused.
	DefaultListingsFreshness = 30 * time.Minute
	// DefaultProfileFreshness is how long a profile is reused.
	DefaultProfileFreshness = 10 * time.Minute
	// DefaultFeaturedLimit is the size of the featured listings strip.
	DefaultFeaturedLimit = 6

	defaultProfileName = "User"
)

// Freshness holds the freshness window of each query family.
type Freshness struct {
	Listings time.Duration
	Profile  time.Duration
}

// Reader serves listing and profile reads through the cache.
type Reader struct {
	store RemoteStore
	cache *cache.Cache
	fresh Freshness
}

// NewReader creates a Reader. Zero freshness windows take the defaults.
func NewReader(store RemoteStore, c *cache.Cache, fresh Freshness) *Reader {
	if fresh.Listings <= 0 {
		fresh.Listings = DefaultListingsFreshness
	}
	if fresh.Profile <= 0 {
		fresh.Profile = DefaultProfileFreshness
	}
	return &Reader{store: store, cache: c, fresh: fresh}
}

// Listings returns every listing view, newest first.
func (r *Reader) Listings(ctx context.Context) ([]model.ListingView, error) {
	views, err := cache.Fetch(ctx, r.cache, allListingsKey(), r.fresh.Listings, func(ctx context.Context) ([]model.ListingView, error) {
		return r.loadListings(ctx, model.ListingFilter{})
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(views), nil
}

// Search filters and sorts the cached listing views. It never reaches the
// remote store when the listings are fresh.
func (r *Reader) Search(ctx context.Context, q Query) ([]model.ListingView, error) {
	views, err := r.Listings(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(views, q), nil
}

// Featured returns the n newest listing views.
func (r *Reader) Featured(ctx context.Context, n int) ([]model.ListingView, error) {
	views, err := r.Listings(ctx)
	if err != nil {
		return nil, err
	}
	return Featured(views, n), nil
}

// Locations returns the distinct locations present in the listings.
func (r *Reader) Locations(ctx context.Context) ([]model.Location, error) {
	views, err := r.Listings(ctx)
	if err != nil {
		return nil, err
	}
	return Locations(views), nil
}

// OwnerListings returns the listing views owned by ownerID, newest first.
func (r *Reader) OwnerListings(ctx context.Context, ownerID string) ([]model.ListingView, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, invalid("list owner listings", "owner id is required")
	}
	views, err := cache.Fetch(ctx, r.cache, ownerListingsKey(ownerID), r.fresh.Listings, func(ctx context.Context) ([]model.ListingView, error) {
		return r.loadListings(ctx, model.ListingFilter{OwnerID: ownerID})
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(views), nil
}

// Listing returns one listing view. A fresh all-listings entry is consulted
// first; otherwise the listing and its owner's profile are fetched and cached.
func (r *Reader) Listing(ctx context.Context, id string) (model.ListingView, error) {
	if strings.TrimSpace(id) == "" {
		return model.ListingView{}, invalid("get listing", "listing id is required")
	}
	if views, ok := cache.Lookup[[]model.ListingView](r.cache, allListingsKey(), r.fresh.Listings); ok {
		for _, v := range views {
			if v.ID == id {
				return v, nil
			}
		}
	}

	return cache.Fetch(ctx, r.cache, listingKey(id), r.fresh.Listings, func(ctx context.Context) (model.ListingView, error) {
		record, err := r.store.GetListing(ctx, id)
		if err != nil {
			return model.ListingView{}, storeError("get listing", err)
		}
		return Join(ctx, []model.ListingRecord{record}, r.store.ListProfiles)[0], nil
	})
}

func (r *Reader) loadListings(ctx context.Context, filter model.ListingFilter) ([]model.ListingView, error) {
	records, err := r.store.ListListings(ctx, filter)
	if err != nil {
		return nil, storeError("list listings", err)
	}
	return Join(ctx, records, r.store.ListProfiles), nil
}

// Profile returns the current actor's profile, creating a default one on
// first access.
func (r *Reader) Profile(ctx context.Context) (model.ProfileRecord, error) {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return model.ProfileRecord{}, unauthorized("get profile", "no signed-in actor")
	}
	return cache.Fetch(ctx, r.cache, profileKey(actor.ID), r.fresh.Profile, func(ctx context.Context) (model.ProfileRecord, error) {
		return r.loadProfile(ctx, actor)
	})
}

func (r *Reader) loadProfile(ctx context.Context, actor model.Actor) (model.ProfileRecord, error) {
	profile, err := r.store.GetProfile(ctx, actor.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return model.ProfileRecord{}, storeError("get profile", err)
	}

	profile = defaultProfile(actor)
	if err := r.store.InsertProfile(ctx, &profile); err != nil {
		if !errors.Is(err, repository.ErrDuplicateProfile) {
			return model.ProfileRecord{}, storeError("create profile", err)
		}
		// Another session provisioned it first.
		existing, err := r.store.GetProfile(ctx, actor.ID)
		if err != nil {
			return model.ProfileRecord{}, storeError("get profile", err)
		}
		return existing, nil
	}
	slog.Info("profile provisioned", "actor_id", actor.ID)
	return profile, nil
}

func defaultProfile(actor model.Actor) model.ProfileRecord {
	name := strings.TrimSpace(actor.Name)
	if name == "" {
		name, _, _ = strings.Cut(actor.Email, "@")
	}
	if name == "" {
		name = defaultProfileName
	}
	return model.ProfileRecord{
		ID:    actor.ID,
		Name:  name,
		Email: actor.Email,
	}
}
