package model

import "time"

// ProfileRecord is a seller's contact record. Its ID equals the owning actor's ID.
type ProfileRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Location  Location  `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfilePatch carries the fields of a profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Name     *string   `json:"name"`
	Phone    *string   `json:"phone"`
	Location *Location `json:"location"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Location == nil
}
