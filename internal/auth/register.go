package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"taskpilot/internal/store"
)

// RegisterResult 是注册流程的结果码。
type RegisterResult int

const (
	RegisterSuccess       RegisterResult = 1  // 注册成功
	RegisterFailure       RegisterResult = 0  // 存储失败
	RegisterUsernameTaken RegisterResult = -1 // 用户名已被占用
	RegisterEmailTaken    RegisterResult = -2 // 邮箱已被占用
	RegisterInvalidInput  RegisterResult = -3 // 输入校验失败
)

// 基础形状校验，不做完整的 RFC 5322 解析。
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// IsValidEmail 判断邮箱是否符合 local@domain.tld 的基本形状。
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// CredentialAdder 是注册流程需要的凭据存储能力。
type CredentialAdder interface {
	AddUser(ctx context.Context, username, email, password string) error
}

// RegisterFlow 处理用户注册。
//
// 先做输入校验（第一个失败的检查即终止，不触达存储），
// 全部通过后才写入凭据存储。
type RegisterFlow struct {
	store  CredentialAdder
	logger *slog.Logger
}

// NewRegisterFlow 创建 RegisterFlow。
func NewRegisterFlow(store CredentialAdder, logger *slog.Logger) *RegisterFlow {
	return &RegisterFlow{store: store, logger: logger}
}

// Register 校验输入并创建新用户。
//
// 校验顺序: 邮箱形状 → 字段非空 → 用户名长度 ≥ 4 → 密码长度 ≥ 6 →
// 条款勾选。任何一步失败返回 RegisterInvalidInput。
func (f *RegisterFlow) Register(ctx context.Context, username, email, password string, termsAccepted bool) RegisterResult {
	if !IsValidEmail(email) {
		return RegisterInvalidInput
	}
	if username == "" || email == "" || password == "" {
		return RegisterInvalidInput
	}
	if len(username) < 4 {
		return RegisterInvalidInput
	}
	if len(password) < 6 {
		return RegisterInvalidInput
	}
	if !termsAccepted {
		return RegisterInvalidInput
	}

	err := f.store.AddUser(ctx, username, email, password)
	switch {
	case err == nil:
		f.logger.Info("user registered", slog.String("username", username))
		return RegisterSuccess
	case errors.Is(err, store.ErrUsernameTaken), errors.Is(err, store.ErrUserExists):
		return RegisterUsernameTaken
	case errors.Is(err, store.ErrEmailTaken):
		return RegisterEmailTaken
	default:
		f.logger.Warn("register failed", slog.String("username", username), slog.String("error", err.Error()))
		return RegisterFailure
	}
}
