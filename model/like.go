package model

import "time"

/*

Like marks that a user liked a review. The (BlogID, UserID) pair is the composite
primary key, so at most one like exists per user per review; presence of the row is
the single source of truth and totals are always a COUNT over this table.

*/
type Like struct {
	BlogID    string `gorm:"primaryKey" json:"blogId"`
	UserID    string `gorm:"primaryKey" json:"userId"`
	CreatedAt time.Time
	User      *User `json:"user,omitempty"`
}

func (l *Like) OwnerID() string {
	return l.UserID
}
