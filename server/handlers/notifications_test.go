package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotificationRecipientOnlyAccess(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	s.toggleLike(t, bob.AccessToken, blogID)

	notifications := s.listNotifications(t, alice.AccessToken)
	require.Len(t, notifications, 1)
	id := notifications[0].Id

	// The sender has no authority over the recipient's notification.
	w := s.perform(t, http.MethodPatch, "/api/notifications/"+id+"/read", nil, bob.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.perform(t, http.MethodDelete, "/api/notifications/"+id, nil, bob.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.perform(t, http.MethodPatch, "/api/notifications/"+id+"/read", nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	notifications = s.listNotifications(t, alice.AccessToken)
	require.Len(t, notifications, 1)
	require.True(t, notifications[0].IsRead)

	w = s.perform(t, http.MethodDelete, "/api/notifications/"+id, nil, alice.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, s.listNotifications(t, alice.AccessToken), 0)
}

func TestNotificationNotFound(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")

	w := s.perform(t, http.MethodPatch, "/api/notifications/no-such-id/read", nil, alice.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = s.perform(t, http.MethodDelete, "/api/notifications/no-such-id", nil, alice.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationsListIsScopedToCaller(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin(t, "alice", "alice@example.com", "pw123")
	bob := s.registerAndLogin(t, "bob", "bob@example.com", "pw456")
	blogID := s.createReview(t, alice.AccessToken, "Tacos")

	s.toggleLike(t, bob.AccessToken, blogID)

	require.Len(t, s.listNotifications(t, alice.AccessToken), 1)
	require.Len(t, s.listNotifications(t, bob.AccessToken), 0)
}

func TestNotificationsRequireAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.perform(t, http.MethodGet, "/api/notifications", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
