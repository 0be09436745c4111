package model

import "time"

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

/*

Notification records an interaction on a user's review, created synchronously and
best-effort when someone else likes or comments. Never created for self-interaction.
Only the recipient may mark it read or delete it.

Id: primary key
RecipientID: the review author being notified
SenderID: the user who liked/commented
BlogID: the review the interaction happened on
Type: "like" or "comment"
Message: preformatted human-readable text
IsRead: flipped by the recipient, never unset

*/
type Notification struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	RecipientID string    `gorm:"index" json:"recipientId"`
	SenderID    string    `json:"senderId"`
	Sender      *User     `json:"sender,omitempty"`
	BlogID      string    `json:"blogId"`
	Blog        *Review   `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	IsRead      bool      `gorm:"default:false" json:"isRead"`
}

// A notification is "owned" by its recipient: the sender has no authority over it.
func (n *Notification) OwnerID() string {
	return n.RecipientID
}
