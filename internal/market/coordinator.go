package market

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carmarket/carmarket-go/internal/cache"
	"github.com/carmarket/carmarket-go/internal/identity"
	"github.com/carmarket/carmarket-go/internal/model"
	"github.com/carmarket/carmarket-go/internal/repository"
)

var tracer = otel.Tracer("github.com/carmarket/carmarket-go/internal/market")

// Coordinator performs listing and profile writes and invalidates every
// cached query the write could have made stale. A failed write leaves the
// cache untouched. It never writes values into the cache.
type Coordinator struct {
	store RemoteStore
	cache *cache.Cache
	now   func() time.Time
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(store RemoteStore, c *cache.Cache) *Coordinator {
	return &Coordinator{store: store, cache: c, now: time.Now}
}

// CreateListing validates form, stores a new listing owned by ownerID and
// returns it.
func (c *Coordinator) CreateListing(ctx context.Context, form model.ListingForm, ownerID string) (_ model.ListingRecord, err error) {
	const op = "create listing"
	ctx, span := startSpan(ctx, op, ownerID, "")
	defer func() { endSpan(span, err) }()

	if err := c.authorize(ctx, op, ownerID); err != nil {
		return model.ListingRecord{}, err
	}
	record, err := recordFromForm(op, form, c.maxYear())
	if err != nil {
		return model.ListingRecord{}, err
	}
	record.OwnerID = ownerID

	if err := c.store.InsertListing(ctx, &record); err != nil {
		return model.ListingRecord{}, storeError(op, err)
	}
	c.invalidateListing(ownerID, "")
	return record, nil
}

// UpdateListing applies form to listing id owned by ownerID.
func (c *Coordinator) UpdateListing(ctx context.Context, id string, form model.ListingUpdateForm, ownerID string) (err error) {
	const op = "update listing"
	ctx, span := startSpan(ctx, op, ownerID, id)
	defer func() { endSpan(span, err) }()

	if err := c.authorize(ctx, op, ownerID); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return invalid(op, "listing id is required")
	}
	patch, err := patchFromForm(op, form, c.maxYear())
	if err != nil {
		return err
	}
	if patch.Empty() {
		return invalid(op, "nothing to update")
	}
	if patch.Title == nil && (patch.Year != nil || patch.Make != nil || patch.Model != nil) {
		current, err := c.store.GetListing(ctx, id)
		if err != nil {
			return storeError(op, err)
		}
		if current.OwnerID != ownerID {
			return storeError(op, repository.ErrListingNotFound)
		}
		retitle(&patch, current)
	}

	if err := c.store.UpdateListing(ctx, id, ownerID, patch); err != nil {
		return storeError(op, err)
	}
	c.invalidateListing(ownerID, id)
	return nil
}

// DeleteListing removes listing id owned by ownerID.
func (c *Coordinator) DeleteListing(ctx context.Context, id, ownerID string) (err error) {
	const op = "delete listing"
	ctx, span := startSpan(ctx, op, ownerID, id)
	defer func() { endSpan(span, err) }()

	if err := c.authorize(ctx, op, ownerID); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return invalid(op, "listing id is required")
	}

	if err := c.store.DeleteListing(ctx, id, ownerID); err != nil {
		return storeError(op, err)
	}
	c.invalidateListing(ownerID, id)
	return nil
}

// UpdateProfile applies patch to ownerID's profile. Because seller fields are
// embedded in listing views, every cached listing query is invalidated too.
func (c *Coordinator) UpdateProfile(ctx context.Context, ownerID string, patch model.ProfilePatch) (err error) {
	const op = "update profile"
	ctx, span := startSpan(ctx, op, ownerID, "")
	defer func() { endSpan(span, err) }()

	if err := c.authorize(ctx, op, ownerID); err != nil {
		return err
	}
	if patch.Empty() {
		return invalid(op, "nothing to update")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return invalid(op, "name must not be empty")
	}
	if patch.Location != nil && *patch.Location != "" && !patch.Location.Valid() {
		return invalid(op, "unknown location "+string(*patch.Location))
	}

	if err := c.store.UpdateProfile(ctx, ownerID, patch); err != nil {
		return storeError(op, err)
	}
	c.cache.Invalidate(profileKey(ownerID))
	c.cache.Invalidate(allListingsKey())
	c.cache.Invalidate(ownerListingsKey(ownerID))
	c.cache.InvalidatePrefix(listingPrefix)
	return nil
}

// authorize rejects anonymous actors and actors acting on another owner's
// records before anything reaches the store.
func (c *Coordinator) authorize(ctx context.Context, op, ownerID string) error {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok {
		return unauthorized(op, "no signed-in actor")
	}
	if ownerID == "" || actor.ID != ownerID {
		return unauthorized(op, "actor does not own the record")
	}
	return nil
}

func (c *Coordinator) invalidateListing(ownerID, id string) {
	c.cache.Invalidate(allListingsKey())
	c.cache.Invalidate(ownerListingsKey(ownerID))
	if id != "" {
		c.cache.Invalidate(listingKey(id))
	}
}

func (c *Coordinator) maxYear() int {
	return c.now().Year() + 1
}

func startSpan(ctx context.Context, op, ownerID, listingID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("market.owner_id", ownerID)}
	if listingID != "" {
		attrs = append(attrs, attribute.String("market.listing_id", listingID))
	}
	return tracer.Start(ctx, "market."+strings.ReplaceAll(op, " ", "_"), trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
