package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session 表示一次已验证的登录会话。
//
// 由登录流程在验证码通过后签发，表示层持有它并传入所有任务操作，
// 取代进程级的"当前用户"全局变量。
type Session struct {
	ID        uuid.UUID // 会话 ID
	Username  string    // 登录用户名
	Email     string    // 注册邮箱
	Token     string    // HS256 签名的会话令牌
	CreatedAt time.Time // 会话建立时间
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SessionManager 签发与校验会话令牌。
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager 创建 SessionManager。
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue 为用户签发一个新会话。
func (m *SessionManager) Issue(username, email string) (*Session, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &Session{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Token:     token,
		CreatedAt: now,
	}, nil
}

// Parse 校验会话令牌并返回其中的用户名。
func (m *SessionManager) Parse(token string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}
