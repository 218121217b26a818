package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_IssueAndParse(t *testing.T) {
	m := NewSessionManager("test_secret", time.Hour)

	sess, err := m.Issue("alice", "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice", sess.Username)
	require.Equal(t, "a@x.com", sess.Email)
	require.NotEmpty(t, sess.Token)
	require.NotEqual(t, sess.ID.String(), "00000000-0000-0000-0000-000000000000")

	username, err := m.Parse(sess.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}

func TestSession_WrongSecret(t *testing.T) {
	m := NewSessionManager("test_secret", time.Hour)
	other := NewSessionManager("another_secret", time.Hour)

	sess, err := m.Issue("alice", "a@x.com")
	require.NoError(t, err)

	_, err = other.Parse(sess.Token)
	require.Error(t, err)
}

func TestSession_Expired(t *testing.T) {
	m := NewSessionManager("test_secret", -time.Minute)

	sess, err := m.Issue("alice", "a@x.com")
	require.NoError(t, err)

	_, err = m.Parse(sess.Token)
	require.Error(t, err)
}
