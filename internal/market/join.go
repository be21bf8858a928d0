package market

import (
	"context"
	"log/slog"

	"github.com/carmarket/carmarket-go/internal/model"
)

// Seller defaults used when the owner has no profile or leaves a field blank.
const (
	DefaultSellerName  = "Seller"
	DefaultSellerPhone = "Contact through platform"
)

// ProfileLookup returns the profiles found for ids. Missing ids are omitted.
type ProfileLookup func(ctx context.Context, ids []string) ([]model.ProfileRecord, error)

// Join attaches each listing's owner profile, producing one view per listing
// in input order. Profiles are fetched in a single batched lookup. A failed
// lookup is logged and every seller falls back to the defaults.
func Join(ctx context.Context, listings []model.ListingRecord, lookup ProfileLookup) []model.ListingView {
	views := make([]model.ListingView, len(listings))
	if len(listings) == 0 {
		return views
	}

	ids := ownerIDs(listings)
	profiles, err := lookup(ctx, ids)
	if err != nil {
		slog.Warn("profile lookup failed, using seller defaults", "owners", len(ids), "error", err)
		profiles = nil
	}

	byOwner := make(map[string]model.ProfileRecord, len(profiles))
	for _, p := range profiles {
		byOwner[p.ID] = p
	}

	for i, listing := range listings {
		profile, ok := byOwner[listing.OwnerID]
		views[i] = toView(listing, profile, ok)
	}
	return views
}

// ownerIDs returns the distinct owner ids of listings.
func ownerIDs(listings []model.ListingRecord) []string {
	seen := make(map[string]struct{}, len(listings))
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		if _, dup := seen[l.OwnerID]; dup {
			continue
		}
		seen[l.OwnerID] = struct{}{}
		ids = append(ids, l.OwnerID)
	}
	return ids
}

func toView(l model.ListingRecord, p model.ProfileRecord, found bool) model.ListingView {
	seller := model.Seller{
		ID:       l.OwnerID,
		Name:     DefaultSellerName,
		Phone:    DefaultSellerPhone,
		Location: l.Location,
	}
	if found {
		if p.Name != "" {
			seller.Name = p.Name
		}
		if p.Phone != "" {
			seller.Phone = p.Phone
		}
		if p.Location != "" {
			seller.Location = p.Location
		}
	}

	return model.ListingView{
		ID:          l.ID,
		Title:       l.Title,
		Price:       l.Price,
		Year:        l.Year,
		Mileage:     l.Mileage,
		Location:    l.Location,
		ImageRef:    l.ImageRef,
		Description: l.Description,
		Make:        l.Make,
		Model:       l.Model,
		Seller:      seller,
		CreatedAt:   l.CreatedAt,
	}
}
