// Package model defines the data structures used throughout the application.
//
// Every entity lives as one row in a named spreadsheet table, so all fields
// must round-trip through strings. The structs here hold the typed view;
// the repository layer owns the string row codecs and the canonical column
// order (see internal/repository/sheet).
package model

import "time"

// Role assigned to every registered account. The marketplace currently has
// no role-based behaviour; the field is stored for forward compatibility
// with the sheet schema.
const RoleSeller = "seller"

// DefaultAvatarURL is the placeholder avatar assigned on registration.
const DefaultAvatarURL = "https://placehold.co/100x100/4F46E5/FFFFFF/png"

// User represents a registered marketplace account.
//
// WHY Balance int (not a decimal type)?
// Balances are whole solari, stored in the sheet as decimal strings. The
// settlement engine guarantees Balance never goes negative: the funds guard
// runs before any row is written (see service.OfferService.Respond).
//
// Email and Username are unique across all users; the repository has no way
// to enforce that in the store, so the registration service checks before
// appending.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized to clients
	AvatarURL    string    `json:"avatar"`
	Role         string    `json:"role"`
	Balance      int       `json:"balance"`
	Server       string    `json:"server"`
	Region       string    `json:"region"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the public subset of a User, joined onto items, offers, and
// messages when listing them.
type Profile struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{Username: u.Username, AvatarURL: u.AvatarURL}
}
