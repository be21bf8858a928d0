package model

import "time"

// Location is one of the fixed regions a listing can be offered in.
type Location string

const (
	LocationDubai        Location = "Dubai"
	LocationAbuDhabi     Location = "Abu Dhabi"
	LocationSharjah      Location = "Sharjah"
	LocationAjman        Location = "Ajman"
	LocationRasAlKhaimah Location = "Ras Al Khaimah"
	LocationFujairah     Location = "Fujairah"
	LocationUmmAlQuwain  Location = "Umm Al Quwain"
	LocationAlAin        Location = "Al Ain"
)

// Locations lists every valid listing location in display order.
var Locations = []Location{
	LocationDubai,
	LocationAbuDhabi,
	LocationSharjah,
	LocationAjman,
	LocationRasAlKhaimah,
	LocationFujairah,
	LocationUmmAlQuwain,
	LocationAlAin,
}

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

// ListingRecord is a vehicle-for-sale row as stored remotely.
type ListingRecord struct {
	ID          string
	Title       string
	Price       int64
	Year        int
	Mileage     int64
	Location    Location
	ImageRef    string
	Description string
	Make        string
	Model       string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingFilter narrows a remote listing read. Zero values mean "no filter".
type ListingFilter struct {
	OwnerID string
	Limit   int
}

// ListingPatch carries the fields of a listing update. Nil fields are left unchanged.
type ListingPatch struct {
	Title       *string
	Price       *int64
	Year        *int
	Mileage     *int64
	Location    *Location
	ImageRef    *string
	Description *string
	Make        *string
	Model       *string
}

// Empty reports whether the patch changes nothing.
func (p ListingPatch) Empty() bool {
	return p.Title == nil && p.Price == nil && p.Year == nil && p.Mileage == nil &&
		p.Location == nil && p.ImageRef == nil && p.Description == nil &&
		p.Make == nil && p.Model == nil
}

// Seller is the owner data embedded in a ListingView.
type Seller struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Location Location `json:"location"`
}

// ListingView is a listing joined with its owner's profile, ready for display.
type ListingView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"`
	Year        int       `json:"year"`
	Mileage     int64     `json:"mileage"`
	Location    Location  `json:"location"`
	ImageRef    string    `json:"image_url"`
	Description string    `json:"description"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Seller      Seller    `json:"seller"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListingForm is the create/update payload as submitted by the sell form.
// Numeric fields arrive as strings and are coerced by the coordinator.
type ListingForm struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        string `json:"year"`
	Price       string `json:"price"`
	Mileage     string `json:"mileage"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ImageRef    string `json:"image_url"`
}

// ListingUpdateForm is a partial ListingForm. Nil fields are left unchanged.
type ListingUpdateForm struct {
	Make        *string `json:"make"`
	Model       *string `json:"model"`
	Year        *string `json:"year"`
	Price       *string `json:"price"`
	Mileage     *string `json:"mileage"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	ImageRef    *string `json:"image_url"`
}
