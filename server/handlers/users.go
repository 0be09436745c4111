package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitejournal/bitejournal/model"
	"github.com/bitejournal/bitejournal/server/middlewares"
)

type updateUserInput struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

// GetCurrentUser returns the caller's own profile.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var user model.User
	if result := h.DB.Where("id = ?", caller.UserID).First(&user); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, &user)
}

// GetUser returns a user profile by id.
func (h *Handler) GetUser(c *gin.Context) {
	var user model.User
	if result := h.DB.Where("id = ?", c.Param("id")).First(&user); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, &user)
}

// UpdateUser updates profile fields. Self or admin only. An uploaded avatar
// image is proxied to the image host first; upload failure is the user's 400,
// not a 500.
func (h *Handler) UpdateUser(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var user model.User
	if result := h.DB.Where("id = ?", c.Param("id")).First(&user); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if !middlewares.CanModify(caller, &user) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
		return
	}

	var input updateUserInput
	if isMultipart(c) {
		if data := c.PostForm("data"); data != "" {
			if err := json.Unmarshal([]byte(data), &input); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data format"})
				return
			}
		}
		images, err := readFormImages(c, "image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image file"})
			return
		}
		if len(images) > 0 {
			url, err := h.Images.Upload(images[0].filename, images[0].contentType, images[0].data)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Image upload failed: " + err.Error()})
				return
			}
			user.AvatarURL = url
		}
	} else {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data format"})
			return
		}
	}

	if input.Username != nil && *input.Username != "" {
		user.Username = *input.Username
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := h.DB.Save(&user).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, &user)
}

// DeleteUser removes an account. Self or admin only. Nothing cascades: the
// user's reviews, comments, likes and notifications stay behind with dangling
// references.
func (h *Handler) DeleteUser(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	target := model.User{Id: c.Param("id")}
	if !middlewares.CanModify(caller, &target) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
		return
	}

	if err := h.DB.Where("id = ?", target.Id).Delete(&model.User{}).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListUsers returns every account. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	if !caller.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
		return
	}

	var users []*model.User
	if err := h.DB.Find(&users).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
