package model

import "time"

/*

Comment is a user comment on a review.

Id: primary key
BlogID: parent review, "belongs-to" relation
UserID: commenting user, "belongs-to" relation
Content: comment body, trimmed, never empty

A comment whose parent review has been deleted is orphaned but still deletable.

*/
type Comment struct {
	Id        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	BlogID    string    `gorm:"index" json:"blogId"`
	UserID    string    `json:"userId"`
	User      *User     `json:"user,omitempty"`
	Content   string    `json:"content"`
}

func (c *Comment) OwnerID() string {
	return c.UserID
}
