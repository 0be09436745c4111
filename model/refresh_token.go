package model

import "time"

/*

RefreshToken is the persisted session record: one row per user holding the currently
valid refresh token. Issuing a new refresh token upserts over the previous row, which
implicitly revokes the older session (single active session per user). Logout deletes
the row.

*/
type RefreshToken struct {
	UserID    string `gorm:"primaryKey"`
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
