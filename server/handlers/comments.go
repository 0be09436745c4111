package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bitejournal/bitejournal/model"
	"github.com/bitejournal/bitejournal/server/middlewares"
)

type createCommentInput struct {
	BlogID  string `json:"blogId"`
	Content string `json:"content"`
}

type updateCommentInput struct {
	Content string `json:"content"`
}

// CreateComment persists a comment on an existing review and, when the
// commenter is not the review's author, notifies the author best-effort.
func (h *Handler) CreateComment(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var input createCommentInput
	if err := c.ShouldBindJSON(&input); err != nil ||
		input.BlogID == "" || strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Blog ID and content are required"})
		return
	}

	var review model.Review
	if result := h.DB.Where("id = ?", input.BlogID).First(&review); result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Blog not found"})
		return
	}

	var commenter model.User
	if result := h.DB.Where("id = ?", caller.UserID).First(&commenter); result.Error != nil {
		internalError(c, result.Error)
		return
	}

	comment := model.Comment{
		Id:      uuid.New().String(),
		BlogID:  input.BlogID,
		UserID:  caller.UserID,
		Content: strings.TrimSpace(input.Content),
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		internalError(c, err)
		return
	}

	// Notification is best-effort: its failure must never fail the comment.
	if review.AuthorID != caller.UserID {
		h.notify(review.AuthorID, caller.UserID, review.Id, model.NotificationTypeComment,
			fmt.Sprintf("%s commented on your review %q", commenter.Username, review.Title))
	}

	comment.User = &commenter
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "comment": &comment})
}

// ListCommentsByBlog returns a review's comments, most recent first.
func (h *Handler) ListCommentsByBlog(c *gin.Context) {
	var comments []*model.Comment
	err := h.DB.Preload("User").
		Where("blog_id = ?", c.Param("blogId")).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// UpdateComment edits a comment's content. Owner or admin only.
func (h *Handler) UpdateComment(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var input updateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}

	var comment model.Comment
	if result := h.DB.Where("id = ?", c.Param("id")).First(&comment); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}

	if !middlewares.CanModify(caller, &comment) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		return
	}

	comment.Content = strings.TrimSpace(input.Content)
	if err := h.DB.Save(&comment).Error; err != nil {
		internalError(c, err)
		return
	}

	h.DB.Preload("User").Where("id = ?", comment.Id).First(&comment)
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated", "comment": &comment})
}

// DeleteComment removes a comment. Owner or admin only. Deleting the row also
// detaches it from the parent review's comment list; a comment whose parent is
// already gone is still deletable.
func (h *Handler) DeleteComment(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var comment model.Comment
	if result := h.DB.Where("id = ?", c.Param("id")).First(&comment); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}

	if !middlewares.CanModify(caller, &comment) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		return
	}

	if err := h.DB.Delete(&comment).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
