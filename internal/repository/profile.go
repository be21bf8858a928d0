package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/carmarket/carmarket-go/internal/model"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDuplicateProfile = errors.New("profile already exists")
)

const profileColumns = `id, name, email, phone, location, created_at, updated_at`

// ProfileRepository handles seller profile persistence operations.
type ProfileRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db, now: time.Now}
}

// ListByIDs returns the profiles with the given ids. Unknown ids are skipped.
func (r *ProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]model.ProfileRecord, error) {
	profiles := make([]model.ProfileRecord, 0, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id IN (` + placeholders(len(ids)) + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByID retrieves a single profile.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (model.ProfileRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ProfileRecord{}, ErrProfileNotFound
		}
		return model.ProfileRecord{}, err
	}
	return profile, nil
}

// Create inserts a profile and sets its timestamps.
func (r *ProfileRepository) Create(ctx context.Context, profile *model.ProfileRecord) error {
	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := r.now().UTC().Truncate(time.Millisecond)
	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.Email, profile.Phone, string(profile.Location),
		toMillis(now), toMillis(now),
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateProfile
		}
		return err
	}

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

// Update applies patch to the profile id.
func (r *ProfileRepository) Update(ctx context.Context, id string, patch model.ProfilePatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *patch.Phone)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, string(*patch.Location))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, toMillis(r.now()), id)

	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return expectRow(result, ErrProfileNotFound)
}

func scanProfile(row rowScanner) (model.ProfileRecord, error) {
	var (
		profile              model.ProfileRecord
		location             string
		createdAt, updatedAt int64
	)
	err := row.Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Phone, &location, &createdAt, &updatedAt)
	if err != nil {
		return model.ProfileRecord{}, err
	}
	profile.Location = model.Location(location)
	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}
