package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bitejournal/bitejournal/model"
)

func TestGetCurrentUser(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")

	var user struct {
		Id       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	w := s.perform(t, http.MethodGet, "/api/users/me", nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &user)
	require.Equal(t, alice.User.Id, user.Id)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)

	// The password hash never leaves the server.
	require.NotContains(t, w.Body.String(), "PasswordHash")
	require.NotContains(t, w.Body.String(), "passwordHash")

	// Timestamps serialize in camelCase like every other resource.
	require.Contains(t, w.Body.String(), `"createdAt"`)
	require.NotContains(t, w.Body.String(), `"CreatedAt"`)
}

func TestUpdateUserSelfOrAdmin(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")

	w := s.perform(t, http.MethodPut, "/api/users/"+alice.User.Id, gin.H{"bio": "hijacked"}, bob.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	var updated struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
	}
	w = s.perform(t, http.MethodPut, "/api/users/"+alice.User.Id, gin.H{"bio": "taco enthusiast"}, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	require.Equal(t, "taco enthusiast", updated.Bio)
	require.Equal(t, "alice", updated.Username)

	s.register(t, "root", "root@example.com", "rootpw")
	s.promoteToAdmin(t, "root@example.com")
	admin := s.login(t, "root@example.com", "rootpw")

	w = s.perform(t, http.MethodPut, "/api/users/"+alice.User.Id, gin.H{"username": "alice2"}, admin.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	require.Equal(t, "alice2", updated.Username)
}

func TestListUsersAdminOnly(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")

	w := s.perform(t, http.MethodGet, "/api/users", nil, alice.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	s.register(t, "root", "root@example.com", "rootpw")
	s.promoteToAdmin(t, "root@example.com")
	admin := s.login(t, "root@example.com", "rootpw")

	var users []struct {
		Username string `json:"username"`
	}
	w = s.perform(t, http.MethodGet, "/api/users", nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &users)
	require.Len(t, users, 2)
}

// Deleting a user does not cascade: their reviews stay behind with a dangling
// author reference.
func TestDeleteUserLeavesContentBehind(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	w := s.perform(t, http.MethodDelete, "/api/users/"+alice.User.Id, nil, bob.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.perform(t, http.MethodDelete, "/api/users/"+alice.User.Id, nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var reviewCount int64
	require.NoError(t, s.db.Model(&model.Review{}).Where("id = ?", blogID).Count(&reviewCount).Error)
	require.Equal(t, int64(1), reviewCount)

	var userCount int64
	require.NoError(t, s.db.Model(&model.User{}).Where("id = ?", alice.User.Id).Count(&userCount).Error)
	require.Equal(t, int64(0), userCount)
}
