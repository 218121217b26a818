package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taskpilot/internal/model"
	"taskpilot/internal/pkg/password"

	"gorm.io/gorm"
)

// 注册失败原因。AddUser 通过预查询区分用户名冲突与邮箱冲突。
var (
	ErrUserExists    = errors.New("user already exists")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// UserStore 持久化用户凭据。
//
// 所有写操作立即提交；存储错误只记录日志并以失败结果返回，
// 不向调用方抛出异常。
type UserStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStore 创建 UserStore。
func NewUserStore(db *gorm.DB, logger *slog.Logger) *UserStore {
	return &UserStore{db: db, logger: logger}
}

// AddUser 新增一个用户，密码在写入前做 bcrypt 哈希。
//
// 返回值:
//
//	nil: 创建成功
//	ErrUserExists: 完全相同的凭据已存在
//	ErrUsernameTaken / ErrEmailTaken: 唯一性冲突
func (s *UserStore) AddUser(ctx context.Context, username, email, plain string) error {
	// 与既有凭据完全一致时直接拒绝
	if s.VerifyUser(ctx, username, email, plain) {
		return ErrUserExists
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		s.logger.Error("query username failed", slog.String("username", username), slog.String("error", err.Error()))
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		s.logger.Error("query email failed", slog.String("email", email), slog.String("error", err.Error()))
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	hash, err := password.Hash(plain)
	if err != nil {
		s.logger.Error("hash password failed", slog.String("username", username), slog.String("error", err.Error()))
		return err
	}

	user := model.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		s.logger.Error("create user failed", slog.String("username", username), slog.String("error", err.Error()))
		return err
	}

	s.logger.Info("user created", slog.String("username", username))
	return nil
}

// VerifyUser 校验用户名与密码。
//
// 按用户名查出存储的哈希并比对明文密码。email 参数被接受但不参与
// 比对——这是对照原有行为保留下来的语义，见 users_test.go。
func (s *UserStore) VerifyUser(ctx context.Context, username, email, plain string) bool {
	_ = email

	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("query user failed", slog.String("username", username), slog.String("error", err.Error()))
		}
		return false
	}
	return password.Check(plain, user.Password)
}

// GetMail 返回用户的注册邮箱。用户不存在时第二个返回值为 false。
func (s *UserStore) GetMail(ctx context.Context, username string) (string, bool) {
	var user model.User
	err := s.db.WithContext(ctx).Select("email").Where("username = ?", username).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("query email failed", slog.String("username", username), slog.String("error", err.Error()))
		}
		return "", false
	}
	return user.Email, true
}

// UpdateLastLogin 把用户的最后登录时间更新为当前时刻。
func (s *UserStore) UpdateLastLogin(ctx context.Context, username string) bool {
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Update("last_login", &now).Error
	if err != nil {
		s.logger.Error("update last login failed", slog.String("username", username), slog.String("error", err.Error()))
		return false
	}
	return true
}
