// Package seed loads the demo listing catalogue through the market services.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/carmarket/carmarket-go/internal/identity"
	"github.com/carmarket/carmarket-go/internal/market"
	"github.com/carmarket/carmarket-go/internal/model"
)

var sellerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://carmarket.example/sellers"))

// Car is one catalogue entry.
type Car struct {
	Seller      string
	Make        string
	Model       string
	Year        int
	Price       int64
	Mileage     int64
	Location    model.Location
	ImageURL    string
	Description string
}

// SellerID returns the stable actor id of a demo dealer.
func SellerID(name string) string {
	return uuid.NewSHA1(sellerNamespace, []byte(name)).String()
}

// Form returns the car as a sell form.
func (c Car) Form() model.ListingForm {
	return model.ListingForm{
		Make:        c.Make,
		Model:       c.Model,
		Year:        strconv.Itoa(c.Year),
		Price:       strconv.FormatInt(c.Price, 10),
		Mileage:     strconv.FormatInt(c.Mileage, 10),
		Location:    string(c.Location),
		Description: c.Description,
		ImageRef:    c.ImageURL,
	}
}

// Load creates each car as a listing owned by its dealer, provisioning the
// dealer's profile first. Dealers that already have listings are skipped, so
// Load can run repeatedly. It returns the number of listings created.
func Load(ctx context.Context, reader *market.Reader, coordinator *market.Coordinator, cars []Car) (int, error) {
	created := 0
	for _, car := range cars {
		actor := model.Actor{ID: SellerID(car.Seller), Name: car.Seller}
		actx := identity.WithActor(ctx, actor)

		if _, err := reader.Profile(actx); err != nil {
			return created, fmt.Errorf("provision %s: %w", car.Seller, err)
		}
		existing, err := reader.OwnerListings(actx, actor.ID)
		if err != nil {
			return created, fmt.Errorf("list %s: %w", car.Seller, err)
		}
		if len(existing) > 0 {
			slog.Debug("seller already seeded", "seller", car.Seller)
			continue
		}

		record, err := coordinator.CreateListing(actx, car.Form(), actor.ID)
		if err != nil {
			return created, fmt.Errorf("create %d %s %s: %w", car.Year, car.Make, car.Model, err)
		}
		slog.Info("listing seeded", "id", record.ID, "title", record.Title, "seller", car.Seller)
		created++
	}
	return created, nil
}
