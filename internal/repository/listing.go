package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carmarket/carmarket-go/internal/model"
)

var ErrListingNotFound = errors.New("listing not found")

const listingColumns = `id, title, price, year, mileage, location, image_ref, description, make, model, owner_id, created_at, updated_at`

// ListingRepository handles listing persistence operations.
type ListingRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db, now: time.Now}
}

// List returns listings newest first, narrowed by filter.
func (r *ListingRepository) List(ctx context.Context, filter model.ListingFilter) ([]model.ListingRecord, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + listingColumns + ` FROM listings`)
	if filter.OwnerID != "" {
		sb.WriteString(` WHERE owner_id = ?`)
		args = append(args, filter.OwnerID)
	}
	sb.WriteString(` ORDER BY created_at DESC, id ASC`)
	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]model.ListingRecord, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}

// GetByID retrieves a single listing.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (model.ListingRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ListingRecord{}, ErrListingNotFound
		}
		return model.ListingRecord{}, err
	}
	return listing, nil
}

// Create inserts a listing, assigning its ID (when empty) and timestamps.
func (r *ListingRepository) Create(ctx context.Context, listing *model.ListingRecord) error {
	query := `INSERT INTO listings (` + listingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := listing.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := r.now().UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx, query,
		id, listing.Title, listing.Price, listing.Year, listing.Mileage, string(listing.Location),
		listing.ImageRef, listing.Description, listing.Make, listing.Model, listing.OwnerID,
		toMillis(now), toMillis(now),
	)
	if err != nil {
		return err
	}

	listing.ID = id
	listing.CreatedAt = now
	listing.UpdatedAt = now
	return nil
}

// Update applies patch to the listing id owned by ownerID.
func (r *ListingRepository) Update(ctx context.Context, id, ownerID string, patch model.ListingPatch) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Year != nil {
		set("year", *patch.Year)
	}
	if patch.Mileage != nil {
		set("mileage", *patch.Mileage)
	}
	if patch.Location != nil {
		set("location", string(*patch.Location))
	}
	if patch.ImageRef != nil {
		set("image_ref", *patch.ImageRef)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Make != nil {
		set("make", *patch.Make)
	}
	if patch.Model != nil {
		set("model", *patch.Model)
	}
	set("updated_at", toMillis(r.now()))

	query := `UPDATE listings SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND owner_id = ?`
	args = append(args, id, ownerID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRow(result, ErrListingNotFound)
}

// Delete removes the listing id owned by ownerID.
func (r *ListingRepository) Delete(ctx context.Context, id, ownerID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrListingNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (model.ListingRecord, error) {
	var (
		listing              model.ListingRecord
		location             string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&listing.ID, &listing.Title, &listing.Price, &listing.Year, &listing.Mileage, &location,
		&listing.ImageRef, &listing.Description, &listing.Make, &listing.Model, &listing.OwnerID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.ListingRecord{}, err
	}
	listing.Location = model.Location(location)
	listing.CreatedAt = fromMillis(createdAt)
	listing.UpdatedAt = fromMillis(updatedAt)
	return listing, nil
}

// expectRow maps an update or delete that touched nothing to notFound.
func expectRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
