package market

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carmarket/carmarket-go/internal/model"
)

const minListingYear = 1900

// listingTitle derives the display title the sell form uses.
func listingTitle(year int, mk, mdl string) string {
	return fmt.Sprintf("%d %s %s", year, mk, mdl)
}

// recordFromForm coerces a submitted sell form into a listing record.
func recordFromForm(op string, f model.ListingForm, maxYear int) (model.ListingRecord, error) {
	mk := strings.TrimSpace(f.Make)
	mdl := strings.TrimSpace(f.Model)
	if mk == "" || mdl == "" {
		return model.ListingRecord{}, invalid(op, "make and model are required")
	}
	year, err := parseYear(op, f.Year, maxYear)
	if err != nil {
		return model.ListingRecord{}, err
	}
	price, err := parsePrice(op, f.Price)
	if err != nil {
		return model.ListingRecord{}, err
	}
	mileage, err := parseMileage(op, f.Mileage)
	if err != nil {
		return model.ListingRecord{}, err
	}
	location, err := parseLocation(op, f.Location)
	if err != nil {
		return model.ListingRecord{}, err
	}

	return model.ListingRecord{
		Title:       listingTitle(year, mk, mdl),
		Price:       price,
		Year:        year,
		Mileage:     mileage,
		Location:    location,
		ImageRef:    f.ImageRef,
		Description: strings.TrimSpace(f.Description),
		Make:        mk,
		Model:       mdl,
	}, nil
}

// patchFromForm coerces a partial sell form into a listing patch. The title is
// rederived when year, make and model are all supplied; otherwise see retitle.
func patchFromForm(op string, f model.ListingUpdateForm, maxYear int) (model.ListingPatch, error) {
	var patch model.ListingPatch

	if f.Make != nil {
		mk := strings.TrimSpace(*f.Make)
		if mk == "" {
			return model.ListingPatch{}, invalid(op, "make must not be empty")
		}
		patch.Make = &mk
	}
	if f.Model != nil {
		mdl := strings.TrimSpace(*f.Model)
		if mdl == "" {
			return model.ListingPatch{}, invalid(op, "model must not be empty")
		}
		patch.Model = &mdl
	}
	if f.Year != nil {
		year, err := parseYear(op, *f.Year, maxYear)
		if err != nil {
			return model.ListingPatch{}, err
		}
		patch.Year = &year
	}
	if f.Price != nil {
		price, err := parsePrice(op, *f.Price)
		if err != nil {
			return model.ListingPatch{}, err
		}
		patch.Price = &price
	}
	if f.Mileage != nil {
		mileage, err := parseMileage(op, *f.Mileage)
		if err != nil {
			return model.ListingPatch{}, err
		}
		patch.Mileage = &mileage
	}
	if f.Location != nil {
		location, err := parseLocation(op, *f.Location)
		if err != nil {
			return model.ListingPatch{}, err
		}
		patch.Location = &location
	}
	if f.Description != nil {
		description := strings.TrimSpace(*f.Description)
		patch.Description = &description
	}
	if f.ImageRef != nil {
		imageRef := *f.ImageRef
		patch.ImageRef = &imageRef
	}

	if patch.Year != nil && patch.Make != nil && patch.Model != nil {
		title := listingTitle(*patch.Year, *patch.Make, *patch.Model)
		patch.Title = &title
	}
	return patch, nil
}

func parseYear(op, raw string, maxYear int) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid(op, fmt.Sprintf("year %q is not a number", raw))
	}
	if year < minListingYear || year > maxYear {
		return 0, invalid(op, fmt.Sprintf("year %d is outside %d-%d", year, minListingYear, maxYear))
	}
	return year, nil
}

func parsePrice(op, raw string) (int64, error) {
	price, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalid(op, fmt.Sprintf("price %q is not a whole number", raw))
	}
	if price <= 0 {
		return 0, invalid(op, "price must be positive")
	}
	return price, nil
}

func parseMileage(op, raw string) (int64, error) {
	mileage, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalid(op, fmt.Sprintf("mileage %q is not a whole number", raw))
	}
	if mileage < 0 {
		return 0, invalid(op, "mileage must not be negative")
	}
	return mileage, nil
}

func parseLocation(op, raw string) (model.Location, error) {
	location := model.Location(strings.TrimSpace(raw))
	if !location.Valid() {
		return "", invalid(op, fmt.Sprintf("unknown location %q", raw))
	}
	return location, nil
}

// retitle sets patch.Title from the patched year, make and model, taking
// whichever of the three the patch leaves out from current.
func retitle(patch *model.ListingPatch, current model.ListingRecord) {
	year, mk, mdl := current.Year, current.Make, current.Model
	if patch.Year != nil {
		year = *patch.Year
	}
	if patch.Make != nil {
		mk = *patch.Make
	}
	if patch.Model != nil {
		mdl = *patch.Model
	}
	title := listingTitle(year, mk, mdl)
	patch.Title = &title
}
