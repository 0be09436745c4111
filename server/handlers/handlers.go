// Package handlers implements the REST surface. Each handler resolves the
// caller identity placed on the context by the middleware layer and passes it
// down explicitly; there is no ambient session state anywhere below this line.
package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"github.com/bitejournal/bitejournal/model"
	"github.com/bitejournal/bitejournal/server/identity"
	"github.com/bitejournal/bitejournal/server/middlewares"
	"github.com/bitejournal/bitejournal/server/session"
	"github.com/bitejournal/bitejournal/utils/imghost"
	. "github.com/bitejournal/bitejournal/utils/log"
	"github.com/bitejournal/bitejournal/utils/token"
)

// Handler carries every collaborator the REST surface needs. Business logic
// runs directly against DB; external services hide behind their capability
// interfaces so tests can stub them.
type Handler struct {
	DB       *gorm.DB
	Tokens   *token.Manager
	Sessions session.Store
	Verifier identity.Verifier
	Images   *imghost.Client
}

func New(db *gorm.DB, tokens *token.Manager, sessions session.Store, verifier identity.Verifier, images *imghost.Client) *Handler {
	return &Handler{
		DB:       db,
		Tokens:   tokens,
		Sessions: sessions,
		Verifier: verifier,
		Images:   images,
	}
}

// RegisterRoutes binds the full REST surface onto the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/google", h.GoogleSignIn)
	}

	blogs := router.Group("/api/blogs")
	{
		blogs.GET("", middlewares.OptionalJWT(), h.ListBlogs)
		blogs.POST("", middlewares.JWT(), h.CreateBlog)
		blogs.GET("/bookmarks", middlewares.JWT(), h.ListBookmarkedBlogs)
		blogs.GET("/:id", middlewares.OptionalJWT(), h.GetBlog)
		blogs.PUT("/:id", middlewares.JWT(), h.UpdateBlog)
		blogs.DELETE("/:id", middlewares.JWT(), h.DeleteBlog)
		blogs.POST("/:id/bookmark", middlewares.JWT(), h.ToggleBookmark)
	}

	comments := router.Group("/api/comments")
	{
		comments.POST("", middlewares.JWT(), h.CreateComment)
		comments.GET("/blog/:blogId", h.ListCommentsByBlog)
		comments.PUT("/:id", middlewares.JWT(), h.UpdateComment)
		comments.DELETE("/:id", middlewares.JWT(), h.DeleteComment)
	}

	likes := router.Group("/api/likes")
	{
		likes.POST("/:blogId", middlewares.JWT(), h.ToggleLike)
		likes.GET("/:blogId/count", h.GetLikesCount)
		likes.GET("/:blogId/me", middlewares.JWT(), h.HasLiked)
		likes.GET("/:blogId/users", h.GetUsersWhoLiked)
	}

	notifications := router.Group("/api/notifications", middlewares.JWT())
	{
		notifications.GET("", h.ListNotifications)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)
		notifications.DELETE("/:id", h.DeleteNotification)
	}

	users := router.Group("/api/users", middlewares.JWT())
	{
		users.GET("", h.ListUsers)
		users.GET("/me", h.GetCurrentUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// mustIdentity returns the caller resolved by the JWT middleware. Aborting here
// only triggers when a protected route runs with auth bypassed.
func mustIdentity(c *gin.Context) (middlewares.Identity, bool) {
	caller, ok := middlewares.GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: User not authenticated"})
	}
	return caller, ok
}

// internalError converts an unexpected failure into the 500 body shape clients
// expect, raw error text included.
func internalError(c *gin.Context, err error) {
	Log.Error("internal error: ", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
}

func userSummary(u *model.User) model.UserSummary {
	var summary model.UserSummary
	copier.Copy(&summary, u)
	return summary
}

// stringList accepts either a JSON array of strings or a single
// comma-separated string, the two shapes clients historically sent for tags.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var asSlice []string
	if err := json.Unmarshal(data, &asSlice); err == nil {
		*s = trimmed(asSlice)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*s = trimmed(strings.Split(asString, ","))
	return nil
}

func trimmed(in []string) []string {
	out := []string{}
	for _, v := range in {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// formImage is one image file lifted out of a multipart request.
type formImage struct {
	filename    string
	contentType string
	data        []byte
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readFormImages pulls every file under the given field out of the multipart
// form. Returns an empty slice when the form carries no images.
func readFormImages(c *gin.Context, field string) ([]formImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	images := []formImage{}
	for _, header := range form.File[field] {
		img, err := readFormImage(header)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readFormImage(header *multipart.FileHeader) (formImage, error) {
	file, err := header.Open()
	if err != nil {
		return formImage{}, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return formImage{}, err
	}
	return formImage{
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
		data:        data,
	}, nil
}

// uploadImages proxies the given files to the image host and collects the
// hosted URLs, in order.
func (h *Handler) uploadImages(images []formImage) ([]string, error) {
	urls := []string{}
	for _, img := range images {
		url, err := h.Images.Upload(img.filename, img.contentType, img.data)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
