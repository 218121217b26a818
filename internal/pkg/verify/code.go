package verify

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"
	"time"
)

// GenerateCode 生成一个 6 位数字验证码，在 [100000, 999999] 内均匀分布。
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// Pending 是一次登录尝试期间待校验的验证码。
//
// 只存在于内存中，比对成功、取消或过期后即被丢弃。
type Pending struct {
	Code      string
	Username  string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Keeper 持有当前在途登录尝试的验证码。
//
// 同一时刻最多只有一个待校验验证码；重新签发会覆盖旧码。
type Keeper struct {
	mu       sync.Mutex
	cur      *Pending
	ttl      time.Duration
	cooldown time.Duration
}

// NewKeeper 创建 Keeper。
//
// 参数:
//
//	ttl: 验证码有效期（<=0 表示立即过期，仅测试使用）
//	cooldown: 重发冷却时间
func NewKeeper(ttl, cooldown time.Duration) *Keeper {
	return &Keeper{ttl: ttl, cooldown: cooldown}
}

// Issue 为用户签发一个新的待校验验证码，覆盖之前的码。
func (k *Keeper) Issue(username, email, code string) *Pending {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := time.Now()
	k.cur = &Pending{
		Code:      code,
		Username:  username,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(k.ttl),
	}
	return k.cur
}

// Match 比对用户提交的验证码。
//
// 返回值:
//
//	matched: 字符串完全一致且未过期
//	expired: 当前验证码已过期（或不存在）
func (k *Keeper) Match(code string) (matched bool, expired bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cur == nil {
		return false, true
	}
	if time.Now().After(k.cur.ExpiresAt) {
		return false, true
	}
	return k.cur.Code == code, false
}

// CanResend 判断是否允许重发验证码。
//
// 不允许时返回剩余等待时间。
func (k *Keeper) CanResend() (bool, time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cur == nil {
		return true, 0
	}
	elapsed := time.Since(k.cur.IssuedAt)
	if elapsed < k.cooldown {
		return false, k.cooldown - elapsed
	}
	return true, 0
}

// Current 返回当前待校验的验证码，没有则返回 nil。
func (k *Keeper) Current() *Pending {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cur
}

// Clear 丢弃当前验证码。
func (k *Keeper) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cur = nil
}
