package domain

import (
	"time"

	"github.com/google/uuid"
)

// Region identifies the deployment region a record belongs to.
type Region string

const (
	RegionChina Region = "china"
	RegionUS    Region = "us"
)

// Valid reports whether the region is one of the supported values.
func (r Region) Valid() bool {
	return r == RegionChina || r == RegionUS
}

// User represents the identity record. At least one of Email or Phone is
// always present; Username is always present and unique. Users are never
// physically deleted, only deactivated via Active.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        *string
	Phone        *string // E.164-normalized
	PasswordHash string
	Active       bool
	Verified     bool
	Region       Region
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasContact reports whether the user satisfies the email-or-phone invariant.
func (u *User) HasContact() bool {
	return (u.Email != nil && *u.Email != "") || (u.Phone != nil && *u.Phone != "")
}
