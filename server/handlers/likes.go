package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitejournal/bitejournal/model"
)

func (h *Handler) countLikes(blogID string) (int64, error) {
	var count int64
	err := h.DB.Model(&model.Like{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}

// ToggleLike flips the caller's like on a review: delete when present, create
// when absent. The returned total is always a fresh count. The like path emits
// a best-effort notification unless the caller likes their own review.
func (h *Handler) ToggleLike(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	blogID := c.Param("blogId")

	var review model.Review
	if result := h.DB.Where("id = ?", blogID).First(&review); result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Blog not found"})
		return
	}

	var existing model.Like
	result := h.DB.Where("blog_id = ? AND user_id = ?", blogID, caller.UserID).First(&existing)
	if result.Error == nil {
		if err := h.DB.Where("blog_id = ? AND user_id = ?", blogID, caller.UserID).Delete(&model.Like{}).Error; err != nil {
			internalError(c, err)
			return
		}
		totalLikes, err := h.countLikes(blogID)
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Unliked successfully", "totalLikes": totalLikes, "liked": false})
		return
	}
	if result.Error != gorm.ErrRecordNotFound {
		internalError(c, result.Error)
		return
	}

	like := model.Like{BlogID: blogID, UserID: caller.UserID}
	if err := h.DB.Create(&like).Error; err != nil {
		internalError(c, err)
		return
	}

	if review.AuthorID != caller.UserID {
		var liker model.User
		if result := h.DB.Where("id = ?", caller.UserID).First(&liker); result.Error == nil {
			h.notify(review.AuthorID, caller.UserID, review.Id, model.NotificationTypeLike,
				fmt.Sprintf("%s liked your review %q", liker.Username, review.Title))
		}
	}

	totalLikes, err := h.countLikes(blogID)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Liked successfully", "totalLikes": totalLikes, "liked": true})
}

// GetLikesCount returns the current like total for a review.
func (h *Handler) GetLikesCount(c *gin.Context) {
	totalLikes, err := h.countLikes(c.Param("blogId"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalLikes": totalLikes})
}

// HasLiked reports whether the caller has liked the review.
func (h *Handler) HasLiked(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var count int64
	err := h.DB.Model(&model.Like{}).
		Where("blog_id = ? AND user_id = ?", c.Param("blogId"), caller.UserID).
		Count(&count).Error
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": count > 0})
}

// GetUsersWhoLiked lists public summaries of every user who liked the review.
func (h *Handler) GetUsersWhoLiked(c *gin.Context) {
	var likes []*model.Like
	err := h.DB.Preload("User").
		Where("blog_id = ?", c.Param("blogId")).
		Order("created_at ASC").
		Find(&likes).Error
	if err != nil {
		internalError(c, err)
		return
	}

	users := []model.UserSummary{}
	for _, like := range likes {
		if like.User != nil {
			users = append(users, userSummary(like.User))
		}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
