package password

import "golang.org/x/crypto/bcrypt"

// Hash 对明文密码做加盐单向哈希。
//
// 同一明文每次调用都会得到不同的哈希（盐随机）。
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Check 校验明文密码是否与存储的哈希匹配。
func Check(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
