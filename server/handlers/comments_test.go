package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bitejournal/bitejournal/model"
)

type commentResponse struct {
	Message string `json:"message"`
	Comment struct {
		Id      string `json:"id"`
		BlogID  string `json:"blogId"`
		Content string `json:"content"`
		User    struct {
			Username string `json:"username"`
		} `json:"user"`
	} `json:"comment"`
}

// A comment by bob on alice's review produces exactly one notification for
// alice; alice commenting on her own review produces none.
func TestCommentNotificationOnlyForOthers(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	w := s.perform(t, http.MethodPost, "/api/comments", gin.H{
		"blogId": blogID, "content": "Looks tasty",
	}, bob.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	notifications := s.listNotifications(t, alice.AccessToken)
	require.Len(t, notifications, 1)
	require.Equal(t, model.NotificationTypeComment, notifications[0].Type)
	require.Equal(t, blogID, notifications[0].BlogID)
	require.False(t, notifications[0].IsRead)

	w = s.perform(t, http.MethodPost, "/api/comments", gin.H{
		"blogId": blogID, "content": "Thanks, it was",
	}, alice.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, s.listNotifications(t, alice.AccessToken), 1)
}

func TestCreateCommentValidation(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	w := s.perform(t, http.MethodPost, "/api/comments", gin.H{"blogId": blogID, "content": "   "}, alice.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.perform(t, http.MethodPost, "/api/comments", gin.H{"blogId": "no-such-id", "content": "hi"}, alice.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Blog not found")
}

func TestListCommentsMostRecentFirst(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	for _, content := range []string{"first", "second"} {
		w := s.perform(t, http.MethodPost, "/api/comments", gin.H{"blogId": blogID, "content": content}, alice.AccessToken)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var comments []struct {
		Content string `json:"content"`
		User    struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	w := s.perform(t, http.MethodGet, "/api/comments/blog/"+blogID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &comments)
	require.Len(t, comments, 2)
	require.Equal(t, "alice", comments[0].User.Username)
}

func TestUpdateCommentOwnership(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	w := s.perform(t, http.MethodPost, "/api/comments", gin.H{"blogId": blogID, "content": "mine"}, bob.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var created commentResponse
	decode(t, w, &created)

	w = s.perform(t, http.MethodPut, "/api/comments/"+created.Comment.Id, gin.H{"content": "stolen"}, alice.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.perform(t, http.MethodPut, "/api/comments/"+created.Comment.Id, gin.H{"content": "edited"}, bob.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var updated commentResponse
	decode(t, w, &updated)
	require.Equal(t, "edited", updated.Comment.Content)

	w = s.perform(t, http.MethodPut, "/api/comments/"+created.Comment.Id, gin.H{"content": ""}, bob.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCommentOwnership(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	w := s.perform(t, http.MethodPost, "/api/comments", gin.H{"blogId": blogID, "content": "mine"}, bob.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var created commentResponse
	decode(t, w, &created)

	// Review author does not own the comment.
	w = s.perform(t, http.MethodDelete, "/api/comments/"+created.Comment.Id, nil, alice.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	// But an admin does.
	s.register(t, "root", "root@example.com", "rootpw")
	s.promoteToAdmin(t, "root@example.com")
	admin := s.login(t, "root@example.com", "rootpw")
	w = s.perform(t, http.MethodDelete, "/api/comments/"+created.Comment.Id, nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.perform(t, http.MethodDelete, "/api/comments/"+created.Comment.Id, nil, admin.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// A comment whose parent review was deleted is orphaned but still deletable.
func TestDeleteOrphanedComment(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	w := s.perform(t, http.MethodPost, "/api/comments", gin.H{"blogId": blogID, "content": "orphan-to-be"}, bob.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var created commentResponse
	decode(t, w, &created)

	w = s.perform(t, http.MethodDelete, "/api/blogs/"+blogID, nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.perform(t, http.MethodDelete, "/api/comments/"+created.Comment.Id, nil, bob.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
}
