package models

import (
	"net/mail"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role is the closed set of account kinds chosen at sign-up.
type Role string

const (
	RoleStoreOwner Role = "storeowner"
	RoleClient     Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStoreOwner || r == RoleClient
}

// Profile is the locally persisted record of a user authenticated by the
// external identity provider. ExternalID is the provider's opaque user id.
type Profile struct {
	ExternalID      string                      `gorm:"primaryKey;size:128" json:"externalId"`
	Name            string                      `gorm:"not null" json:"name"`
	Email           string                      `gorm:"uniqueIndex;not null;size:320" json:"email"`
	AvatarRef       string                      `gorm:"type:text" json:"avatarRef"`
	Bio             string                      `gorm:"type:text" json:"bio"`
	Role            Role                        `gorm:"not null;size:16" json:"role"`
	Followers       datatypes.JSONSlice[string] `json:"followers"`
	FollowingStores datatypes.JSONSlice[string] `json:"followingStores"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// ProfileStats summarises a profile's relationships and content.
type ProfileStats struct {
	Followers int   `json:"followers"`
	Following int   `json:"following"`
	Posts     int64 `json:"posts"`
}

// NewProfile validates the sign-up fields and builds a profile with empty
// relationship sets.
func NewProfile(externalID, name, email, avatarRef string, role Role) (*Profile, error) {
	externalID = strings.TrimSpace(externalID)
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if externalID == "" {
		return nil, NewFieldValidationError("externalId", "externalId is required")
	}
	if name == "" {
		return nil, NewFieldValidationError("name", "name is required")
	}
	if email == "" {
		return nil, NewFieldValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewFieldValidationError("email", "email is not a valid address")
	}
	if role == "" {
		return nil, NewFieldValidationError("role", "role is required")
	}
	if !role.Valid() {
		return nil, NewFieldValidationError("role", "role must be one of storeowner, client")
	}

	return &Profile{
		ExternalID:      externalID,
		Name:            name,
		Email:           email,
		AvatarRef:       avatarRef,
		Role:            role,
		Followers:       datatypes.JSONSlice[string]{},
		FollowingStores: datatypes.JSONSlice[string]{},
	}, nil
}

// Stats counts followers and followed stores; posts is supplied by the caller.
func (p *Profile) Stats(posts int64) ProfileStats {
	return ProfileStats{
		Followers: len(p.Followers),
		Following: len(p.FollowingStores),
		Posts:     posts,
	}
}

// AfterFind replaces JSON nulls with empty sets.
func (p *Profile) AfterFind(_ *gorm.DB) error {
	if p.Followers == nil {
		p.Followers = datatypes.JSONSlice[string]{}
	}
	if p.FollowingStores == nil {
		p.FollowingStores = datatypes.JSONSlice[string]{}
	}
	return nil
}
