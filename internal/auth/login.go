package auth

import (
	"context"
	"errors"
	"log/slog"

	"taskpilot/internal/pkg/notify"
	"taskpilot/internal/pkg/verify"
)

// LoginState 是登录流程状态机的状态。
type LoginState int

const (
	StateIdle                 LoginState = iota // 未开始 / 本次尝试已终止
	StateCredentialsSubmitted                   // 已提交凭据
	StateCodeSent                               // 验证码已发出，等待用户输入
	StateVerified                               // 验证通过（终态）
	StateRejected                               // 凭据或验证码被拒（终态）
	StateCancelled                              // 用户取消（终态）
)

// String 返回状态名。
func (s LoginState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCredentialsSubmitted:
		return "credentials_submitted"
	case StateCodeSent:
		return "code_sent"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ErrResendCooldown 表示重发验证码过于频繁。
var ErrResendCooldown = errors.New("resend requested too soon")

// CredentialStore 是登录流程需要的凭据存储能力。
type CredentialStore interface {
	VerifyUser(ctx context.Context, username, email, password string) bool
	GetMail(ctx context.Context, username string) (string, bool)
	UpdateLastLogin(ctx context.Context, username string) bool
}

// LoginFlow 实现登录状态机:
//
//	Idle → CredentialsSubmitted → CodeSent → Verified | Rejected | Cancelled
//
// 一个 LoginFlow 对应一次登录尝试，由表示层驱动:
// Start 提交凭据并触发验证码投递，SubmitCode 比对用户输入，
// Resend 在冷却期之外重发，Cancel 放弃本次尝试。
type LoginFlow struct {
	store    CredentialStore
	sender   notify.CodeSender
	codes    *verify.Keeper
	sessions *SessionManager
	logger   *slog.Logger

	state    LoginState
	username string
	email    string
}

// NewLoginFlow 创建一次登录尝试。
func NewLoginFlow(store CredentialStore, sender notify.CodeSender, codes *verify.Keeper, sessions *SessionManager, logger *slog.Logger) *LoginFlow {
	return &LoginFlow{
		store:    store,
		sender:   sender,
		codes:    codes,
		sessions: sessions,
		logger:   logger,
		state:    StateIdle,
	}
}

// State 返回当前状态。
func (f *LoginFlow) State() LoginState {
	return f.state
}

// Start 校验凭据并发送验证码。
//
// 凭据无效或查不到邮箱时进入 Rejected；验证码发送失败时本次尝试
// 终止，回到 Idle。成功时进入 CodeSent，等待 SubmitCode。
func (f *LoginFlow) Start(ctx context.Context, username, email, password string) LoginState {
	f.state = StateCredentialsSubmitted

	if !f.store.VerifyUser(ctx, username, email, password) {
		f.logger.Info("login rejected", slog.String("username", username))
		f.state = StateRejected
		return f.state
	}

	mail, ok := f.store.GetMail(ctx, username)
	if !ok {
		f.logger.Warn("login rejected, no email on record", slog.String("username", username))
		f.state = StateRejected
		return f.state
	}

	f.username = username
	f.email = mail

	if err := f.issueCode(); err != nil {
		f.state = StateIdle
		return f.state
	}

	f.state = StateCodeSent
	return f.state
}

// SubmitCode 比对用户提交的验证码（精确字符串匹配）。
//
// 匹配成功进入 Verified 并返回新会话；不匹配保持 CodeSent，
// 表示层可以重新弹出输入框；验证码过期进入 Rejected。
func (f *LoginFlow) SubmitCode(ctx context.Context, code string) (*Session, LoginState) {
	if f.state != StateCodeSent {
		return nil, f.state
	}

	matched, expired := f.codes.Match(code)
	if expired {
		f.logger.Info("verification code expired", slog.String("username", f.username))
		f.codes.Clear()
		f.state = StateRejected
		return nil, f.state
	}
	if !matched {
		// 保持 CodeSent，允许再次输入
		return nil, f.state
	}

	f.codes.Clear()

	session, err := f.sessions.Issue(f.username, f.email)
	if err != nil {
		f.logger.Error("issue session failed", slog.String("username", f.username), slog.String("error", err.Error()))
		f.state = StateRejected
		return nil, f.state
	}

	if !f.store.UpdateLastLogin(ctx, f.username) {
		f.logger.Warn("update last login failed", slog.String("username", f.username))
	}

	f.logger.Info("user logged in", slog.String("username", f.username))
	f.state = StateVerified
	return session, f.state
}

// Resend 重新生成并发送验证码（受冷却时间限制）。
func (f *LoginFlow) Resend(ctx context.Context) error {
	if f.state != StateCodeSent {
		return errors.New("no login attempt in flight")
	}
	if ok, remain := f.codes.CanResend(); !ok {
		f.logger.Info("resend throttled", slog.String("username", f.username), slog.String("retry_after", remain.String()))
		return ErrResendCooldown
	}
	return f.issueCode()
}

// Cancel 放弃本次登录尝试并丢弃验证码。
func (f *LoginFlow) Cancel() {
	f.codes.Clear()
	f.state = StateCancelled
}

func (f *LoginFlow) issueCode() error {
	code, err := verify.GenerateCode()
	if err != nil {
		f.logger.Error("generate code failed", slog.String("error", err.Error()))
		return err
	}
	if err := f.sender.SendVerificationCode(f.email, code); err != nil {
		f.logger.Warn("send verification email failed", slog.String("email", f.email), slog.String("error", err.Error()))
		return err
	}
	f.codes.Issue(f.username, f.email, code)
	return nil
}
