package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Review is a restaurant review ("blog" on the wire, a legacy name clients still use).

Id: primary key
AuthorID: owning user, immutable after creation, "belongs-to" relation
Title, Content, Restaurant, Location, Category: free text
Rating: numeric score given by the author
Tags: ordered set of strings, JSON array
Images: ordered image URLs returned by the external image host, JSON array
IsFeatured: editorial flag, drives the "featured" listing filter
Comments: comments on this review, "has-many" relation, read most-recent-first

Like counts are never stored on the review; they are derived by counting Like rows.
Deleting a review removes its likes but leaves comments orphaned.

*/
type Review struct {
	Id         string `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Restaurant string         `json:"restaurant"`
	Location   string         `json:"location"`
	Rating     float64        `json:"rating"`
	Tags       datatypes.JSON `json:"tags"`
	Category   string         `json:"category"`
	Images     datatypes.JSON `json:"images"`
	AuthorID   string         `json:"authorId"`
	Author     *User          `json:"author,omitempty"`
	IsFeatured bool           `json:"isFeatured"`
	Comments   []*Comment     `gorm:"foreignKey:BlogID" json:"comments,omitempty"`
}

func (r *Review) OwnerID() string {
	return r.AuthorID
}
