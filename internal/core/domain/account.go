package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags what kind of actor an account represents.
type Role string

const (
	RoleBand  Role = "band"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBand, RoleUser, RoleAdmin:
		return true
	}
	return false
}

var ErrAccountNotFound = errors.New("account not found")
var ErrArtistNotFound = errors.New("artist not found")
var ErrAccountExists = errors.New("account already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidReference = errors.New("invalid reference")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidFieldValue = errors.New("invalid field value")

// Persisted keys that generic updates may never write.
const (
	KeyArtistID  = "artistId"
	KeyUpdatedAt = "updatedAt"
	KeyRole      = "role"
	KeyPassword  = "password"
)

// Account is the user or band profile managed by the account store.
type Account struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Email           string              `json:"email" bson:"email"`
	Username        string              `json:"username" bson:"username"`
	Password        string              `json:"-" bson:"password,omitempty"`
	ProfileImage    string              `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	BannerImage     string              `json:"bannerImage,omitempty" bson:"bannerImage,omitempty"`
	Bio             string              `json:"bio,omitempty" bson:"bio,omitempty"`
	SocialLinks     map[string]any      `json:"socialLinks,omitempty" bson:"socialLinks,omitempty"`
	Role            Role                `json:"role" bson:"role"`
	BandName        string              `json:"bandName,omitempty" bson:"bandName,omitempty"`
	Genre           string              `json:"genre,omitempty" bson:"genre,omitempty"`
	Website         string              `json:"website,omitempty" bson:"website,omitempty"`
	ArtistID        *primitive.ObjectID `json:"artistId,omitempty" bson:"artistId,omitempty"`
	Artist          *Artist             `json:"artist,omitempty" bson:"-"`
	Following       []string            `json:"following" bson:"following"`
	Followers       []string            `json:"followers,omitempty" bson:"followers,omitempty"`
	LikedTracks     []string            `json:"likedTracks" bson:"likedTracks"`
	PurchaseHistory []map[string]any    `json:"purchaseHistory,omitempty" bson:"purchaseHistory,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// FillEmptySets replaces missing following and likedTracks with empty sets.
// Documents written before those fields existed decode them as nil.
func (a *Account) FillEmptySets() {
	if a.Following == nil {
		a.Following = []string{}
	}
	if a.LikedTracks == nil {
		a.LikedTracks = []string{}
	}
}

// HasArtist reports whether the account has been linked to an artist profile.
func (a *Account) HasArtist() bool {
	return a.ArtistID != nil && !a.ArtistID.IsZero()
}

// Artist is the public artist profile owned by the catalogue service. Accounts
// only ever reference it.
type Artist struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Bio           string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Genre         []string           `json:"genre,omitempty" bson:"genre,omitempty"`
	ImageURL      string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	FollowerCount int                `json:"followerCount" bson:"followerCount"`
	Verified      bool               `json:"verified" bson:"verified"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}
