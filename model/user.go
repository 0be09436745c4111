package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

/*

User is an account that authors reviews, comments, likes and bookmarks.

Id: primary key
Username: display name, defaults to the email local part on federated sign-up
Email: unique login identifier
PasswordHash: bcrypt hash, empty for federated-only accounts
GoogleUID: federated subject id, set once on first Google sign-in (account linking)
Bio, AvatarURL: public profile
Role: "user" or "admin", admins bypass ownership checks
Bookmarks: review ids saved by this user, stored as a JSON array and toggled by membership
Followers, Following: user ids, JSON arrays

A deleted user leaves its reviews, comments, likes and notifications behind; there
is no cascade.

*/
type User struct {
	Id           string    `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Username     string         `json:"username"`
	Email        string         `gorm:"uniqueIndex" json:"email"`
	PasswordHash string         `json:"-"`
	GoogleUID    *string        `gorm:"uniqueIndex" json:"-"`
	Bio          string         `json:"bio"`
	AvatarURL    string         `json:"avatarUrl"`
	Role         string         `gorm:"default:user" json:"role"`
	Bookmarks    datatypes.JSON `json:"bookmarks"`
	Followers    datatypes.JSON `json:"followers"`
	Following    datatypes.JSON `json:"following"`
}

// UserSummary is the public projection of a User embedded in API responses.
type UserSummary struct {
	Id        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"avatarUrl"`
}

func (u *User) OwnerID() string {
	return u.Id
}
