package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bitejournal/bitejournal/model"
	. "github.com/bitejournal/bitejournal/utils/log"
	"github.com/bitejournal/bitejournal/utils/token"
)

const refreshCookieName = "refreshToken"

type registerInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type googleSignInInput struct {
	IDToken string `json:"idToken"`
}

// setRefreshCookie installs the HTTP-only refresh cookie. SameSite=None because
// the SPA is served from a different origin than the API.
func setRefreshCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookieName, value, int(token.RefreshTokenExpiry.Seconds()), "/", "", true, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
}

// Register creates an email/password account. The password is stored only as a
// bcrypt hash.
func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, email and password are required"})
		return
	}

	var existing model.User
	if result := h.DB.Where("email = ?", input.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
		return
	} else if result.Error != gorm.ErrRecordNotFound {
		internalError(c, result.Error)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, err)
		return
	}

	user := model.User{
		Id:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful"})
}

// Login exchanges credentials for an access token plus a cookie-delivered
// refresh token. The persisted session is upserted, so logging in on a second
// device revokes the first device's refresh token.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	var user model.User
	if result := h.DB.Where("email = ?", input.Email).First(&user); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		internalError(c, result.Error)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	accessToken, err := h.Tokens.IssueAccessToken(user.Id, user.Role)
	if err != nil {
		internalError(c, err)
		return
	}
	refreshToken, err := h.Tokens.IssueRefreshToken(user.Id)
	if err != nil {
		internalError(c, err)
		return
	}
	if err := h.Sessions.Save(user.Id, refreshToken); err != nil {
		internalError(c, err)
		return
	}

	setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        userSummary(&user),
	})
}

// Refresh mints a new access token off the refresh cookie. The presented token
// must match the persisted session exactly: a token revoked by logout or
// overwritten by a newer login is refused even if its signature is still valid.
// The refresh token itself is not rotated.
func (h *Handler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No refresh token"})
		return
	}

	claims, err := h.Tokens.VerifyRefreshToken(cookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	stored, err := h.Sessions.Get(claims.UserID)
	if err != nil {
		internalError(c, err)
		return
	}
	if stored != cookie {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	var user model.User
	if result := h.DB.Where("id = ?", claims.UserID).First(&user); result.Error != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	accessToken, err := h.Tokens.IssueAccessToken(user.Id, user.Role)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout deletes the persisted session matching the cookie and clears it.
// Idempotent: a missing or already-revoked session is not an error.
func (h *Handler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		if claims, err := h.Tokens.VerifyRefreshToken(cookie); err == nil {
			if err := h.Sessions.Delete(claims.UserID, cookie); err != nil {
				Log.Warn("fail to delete session on logout: ", err)
			}
		}
	}
	clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GoogleSignIn verifies a federated identity token, creating or linking the
// local account. This path issues only an access token, no refresh cookie.
func (h *Handler) GoogleSignIn(c *gin.Context) {
	var input googleSignInInput
	if err := c.ShouldBindJSON(&input); err != nil || input.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No ID token provided"})
		return
	}

	claims, err := h.Verifier.Verify(input.IDToken)
	if err != nil {
		Log.Warn("google sign-in verification failed: ", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Google authentication failed", "error": err.Error()})
		return
	}

	var user model.User
	result := h.DB.Where("email = ?", claims.Email).First(&user)
	switch {
	case result.Error == gorm.ErrRecordNotFound:
		username := claims.Name
		if username == "" {
			username = strings.Split(claims.Email, "@")[0]
		}
		subject := claims.SubjectID
		user = model.User{
			Id:        uuid.New().String(),
			Username:  username,
			Email:     claims.Email,
			GoogleUID: &subject,
			Role:      model.RoleUser,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			internalError(c, err)
			return
		}
	case result.Error != nil:
		internalError(c, result.Error)
		return
	default:
		// Account linking is one-directional: attach the federated subject id
		// once, never overwrite an existing link.
		if user.GoogleUID == nil {
			subject := claims.SubjectID
			user.GoogleUID = &subject
			if err := h.DB.Model(&user).Update("google_uid", &subject).Error; err != nil {
				internalError(c, err)
				return
			}
		}
	}

	accessToken, err := h.Tokens.IssueAccessToken(user.Id, user.Role)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        userSummary(&user),
	})
}
