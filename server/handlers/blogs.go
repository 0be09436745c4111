package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bitejournal/bitejournal/model"
	"github.com/bitejournal/bitejournal/server/middlewares"
	"github.com/bitejournal/bitejournal/utils"
)

// reviewView is a review decorated with the per-request derived fields. Like
// totals are always counted fresh from the like table, never cached.
type reviewView struct {
	*model.Review
	TotalLikes   int64 `json:"totalLikes"`
	HasLiked     bool  `json:"hasLiked"`
	IsBookmarked bool  `json:"isBookmarked"`
}

// reviewInput is the mutable surface of a review. Pointer fields distinguish
// "absent" from zero so updates stay partial.
type reviewInput struct {
	Title      *string     `json:"title"`
	Content    *string     `json:"content"`
	Restaurant *string     `json:"restaurant"`
	Location   *string     `json:"location"`
	Rating     *float64    `json:"rating"`
	Tags       *stringList `json:"tags"`
	Category   *string     `json:"category"`
	Images     *[]string   `json:"images"`
	IsFeatured *bool       `json:"isFeatured"`
}

// parseReviewInput accepts either a plain JSON body or a multipart form with a
// JSON "data" field plus image files.
func parseReviewInput(c *gin.Context) (*reviewInput, []formImage, error) {
	input := &reviewInput{}
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(input); err != nil {
			return nil, nil, err
		}
		return input, nil, nil
	}

	data := c.PostForm("data")
	if data == "" {
		return nil, nil, errors.New("missing data field in request body")
	}
	if err := json.Unmarshal([]byte(data), input); err != nil {
		return nil, nil, err
	}
	images, err := readFormImages(c, "images")
	if err != nil {
		return nil, nil, err
	}
	return input, images, nil
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStringList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	raw, _ := json.Marshal(list)
	return datatypes.JSON(raw)
}

// callerBookmarks loads the caller's bookmark set, empty for anonymous callers.
func (h *Handler) callerBookmarks(caller *middlewares.Identity) []string {
	if caller == nil {
		return []string{}
	}
	var user model.User
	if result := h.DB.Select("bookmarks").Where("id = ?", caller.UserID).First(&user); result.Error != nil {
		return []string{}
	}
	return decodeStringList(user.Bookmarks)
}

// decorateReview attaches totalLikes / hasLiked / isBookmarked for the caller.
func (h *Handler) decorateReview(review *model.Review, caller *middlewares.Identity, bookmarks []string) (*reviewView, error) {
	view := &reviewView{Review: review}

	if err := h.DB.Model(&model.Like{}).Where("blog_id = ?", review.Id).Count(&view.TotalLikes).Error; err != nil {
		return nil, err
	}
	if caller != nil {
		var liked int64
		if err := h.DB.Model(&model.Like{}).Where("blog_id = ? AND user_id = ?", review.Id, caller.UserID).Count(&liked).Error; err != nil {
			return nil, err
		}
		view.HasLiked = liked > 0
		view.IsBookmarked = utils.ContainsString(bookmarks, review.Id)
	}
	return view, nil
}

func (h *Handler) loadReview(id string) (*model.Review, error) {
	var review model.Review
	result := h.DB.Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at DESC") }).
		Preload("Comments.User").
		Where("id = ?", id).First(&review)
	if result.Error != nil {
		return nil, result.Error
	}
	return &review, nil
}

// ListBlogs returns reviews newest-first, filtered by all|my|featured. The "my"
// filter requires an authenticated caller.
func (h *Handler) ListBlogs(c *gin.Context) {
	caller, hasCaller := middlewares.GetIdentity(c)

	query := h.DB.Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at DESC") }).
		Preload("Comments.User").
		Order("created_at DESC")

	switch c.DefaultQuery("filter", "all") {
	case "my":
		if !hasCaller {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: User not authenticated"})
			return
		}
		query = query.Where("author_id = ?", caller.UserID)
	case "featured":
		query = query.Where("is_featured = ?", true)
	}

	var reviews []*model.Review
	if err := query.Find(&reviews).Error; err != nil {
		internalError(c, err)
		return
	}

	var callerRef *middlewares.Identity
	if hasCaller {
		callerRef = &caller
	}
	bookmarks := h.callerBookmarks(callerRef)

	views := []*reviewView{}
	for _, review := range reviews {
		view, err := h.decorateReview(review, callerRef, bookmarks)
		if err != nil {
			internalError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// CreateBlog creates a review authored by the caller. Multipart image files are
// proxied to the external image host before the review is persisted.
func (h *Handler) CreateBlog(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	input, images, err := parseReviewInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing data field in request body"})
		return
	}

	if input.Title == nil || *input.Title == "" ||
		input.Content == nil || *input.Content == "" ||
		input.Restaurant == nil || *input.Restaurant == "" ||
		input.Rating == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Required fields: title, content, restaurant, rating"})
		return
	}

	imageURLs, err := h.uploadImages(images)
	if err != nil {
		internalError(c, err)
		return
	}

	review := model.Review{
		Id:         uuid.New().String(),
		Title:      *input.Title,
		Content:    *input.Content,
		Restaurant: *input.Restaurant,
		Rating:     *input.Rating,
		Tags:       encodeStringList(nil),
		Images:     encodeStringList(imageURLs),
		AuthorID:   caller.UserID,
	}
	if input.Location != nil {
		review.Location = *input.Location
	}
	if input.Category != nil {
		review.Category = *input.Category
	}
	if input.Tags != nil {
		review.Tags = encodeStringList(*input.Tags)
	}

	if err := h.DB.Create(&review).Error; err != nil {
		internalError(c, err)
		return
	}

	created, err := h.loadReview(review.Id)
	if err != nil {
		internalError(c, err)
		return
	}
	view, err := h.decorateReview(created, &caller, h.callerBookmarks(&caller))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Blog created", "blog": view})
}

// GetBlog returns one review with derived fields for the caller.
func (h *Handler) GetBlog(c *gin.Context) {
	review, err := h.loadReview(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
			return
		}
		internalError(c, err)
		return
	}

	var callerRef *middlewares.Identity
	if caller, ok := middlewares.GetIdentity(c); ok {
		callerRef = &caller
	}
	view, err := h.decorateReview(review, callerRef, h.callerBookmarks(callerRef))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateBlog partially updates a review. Owner or admin only; the author
// reference itself is immutable.
func (h *Handler) UpdateBlog(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var review model.Review
	if result := h.DB.Where("id = ?", c.Param("id")).First(&review); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
			return
		}
		internalError(c, result.Error)
		return
	}

	if !middlewares.CanModify(caller, &review) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		return
	}

	input, images, err := parseReviewInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data format"})
		return
	}

	// Existing image URLs come from the client (allowing removal); freshly
	// uploaded files are appended behind them.
	imageURLs := decodeStringList(review.Images)
	if input.Images != nil {
		imageURLs = *input.Images
	}
	uploaded, err := h.uploadImages(images)
	if err != nil {
		internalError(c, err)
		return
	}
	imageURLs = append(imageURLs, uploaded...)
	review.Images = encodeStringList(imageURLs)

	if input.Title != nil && *input.Title != "" {
		review.Title = *input.Title
	}
	if input.Content != nil && *input.Content != "" {
		review.Content = *input.Content
	}
	if input.Restaurant != nil && *input.Restaurant != "" {
		review.Restaurant = *input.Restaurant
	}
	if input.Location != nil {
		review.Location = *input.Location
	}
	if input.Category != nil {
		review.Category = *input.Category
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.IsFeatured != nil {
		review.IsFeatured = *input.IsFeatured
	}
	if input.Tags != nil {
		review.Tags = encodeStringList(*input.Tags)
	}

	if err := h.DB.Save(&review).Error; err != nil {
		internalError(c, err)
		return
	}

	updated, err := h.loadReview(review.Id)
	if err != nil {
		internalError(c, err)
		return
	}
	view, err := h.decorateReview(updated, &caller, h.callerBookmarks(&caller))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog updated successfully", "blog": view})
}

// DeleteBlog removes a review and its likes in one transaction. Comments are
// intentionally left behind, orphaned.
func (h *Handler) DeleteBlog(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var review model.Review
	if result := h.DB.Where("id = ?", c.Param("id")).First(&review); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
			return
		}
		internalError(c, result.Error)
		return
	}

	if !middlewares.CanModify(caller, &review) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", review.Id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&review).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

// ToggleBookmark flips the review's membership in the caller's bookmark set and
// persists the whole set.
func (h *Handler) ToggleBookmark(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	blogID := c.Param("id")

	var user model.User
	if result := h.DB.Where("id = ?", caller.UserID).First(&user); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	var review model.Review
	if result := h.DB.Where("id = ?", blogID).First(&review); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
		return
	}

	bookmarks := decodeStringList(user.Bookmarks)
	isBookmarked := utils.ContainsString(bookmarks, blogID)
	if isBookmarked {
		bookmarks = utils.RemoveString(bookmarks, blogID)
	} else {
		bookmarks = append(bookmarks, blogID)
	}

	if err := h.DB.Model(&user).Update("bookmarks", encodeStringList(bookmarks)).Error; err != nil {
		internalError(c, err)
		return
	}

	message := "Blog bookmarked successfully"
	if isBookmarked {
		message = "Blog unbookmarked successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "isBookmarked": !isBookmarked})
}

// ListBookmarkedBlogs returns the caller's bookmarked reviews. Bookmark ids
// whose review has since been deleted stay in the set but are silently skipped
// here.
func (h *Handler) ListBookmarkedBlogs(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var user model.User
	if result := h.DB.Where("id = ?", caller.UserID).First(&user); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	bookmarks := decodeStringList(user.Bookmarks)
	views := []*reviewView{}
	for _, blogID := range bookmarks {
		review, err := h.loadReview(blogID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			internalError(c, err)
			return
		}
		view, err := h.decorateReview(review, &caller, bookmarks)
		if err != nil {
			internalError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}
