package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"taskpilot/internal/model"

	"github.com/stretchr/testify/require"
)

func newUserStore(t *testing.T) *UserStore {
	t.Helper()
	db, err := OpenUserDB(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewUserStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddUser_ThenVerify(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddUser(ctx, "alice", "a@x.com", "secret1"))
	require.True(t, s.VerifyUser(ctx, "alice", "a@x.com", "secret1"))
	require.False(t, s.VerifyUser(ctx, "alice", "a@x.com", "wrong"))
	require.False(t, s.VerifyUser(ctx, "nobody", "a@x.com", "secret1"))
}

func TestAddUser_DuplicateUsername(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddUser(ctx, "alice", "a@x.com", "secret1"))
	err := s.AddUser(ctx, "alice", "other@x.com", "secret2")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAddUser_DuplicateEmail(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddUser(ctx, "alice", "a@x.com", "secret1"))
	err := s.AddUser(ctx, "bob42", "a@x.com", "secret2")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAddUser_SameCredentials(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddUser(ctx, "alice", "a@x.com", "secret1"))
	err := s.AddUser(ctx, "alice", "a@x.com", "secret1")
	require.ErrorIs(t, err, ErrUserExists)
}

// VerifyUser 只比对用户名与密码哈希，email 参数被接受但被忽略。
// 这是沿用下来的行为，本测试把它固定下来以防被"顺手修掉"。
func TestVerifyUser_EmailNotChecked(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddUser(ctx, "alice", "a@x.com", "secret1"))
	require.True(t, s.VerifyUser(ctx, "alice", "totally-different@y.org", "secret1"))
}

func TestGetMail(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddUser(ctx, "alice", "a@x.com", "secret1"))

	mail, ok := s.GetMail(ctx, "alice")
	require.True(t, ok)
	require.Equal(t, "a@x.com", mail)

	_, ok = s.GetMail(ctx, "nobody")
	require.False(t, ok)
}

func TestUpdateLastLogin(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddUser(ctx, "alice", "a@x.com", "secret1"))
	require.True(t, s.UpdateLastLogin(ctx, "alice"))

	var user model.User
	require.NoError(t, s.db.Where("username = ?", "alice").First(&user).Error)
	require.NotNil(t, user.LastLogin)
}
