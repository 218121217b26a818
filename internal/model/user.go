package model

import "time"

// User 表示一个注册用户。
//
// 用户名与邮箱各自全局唯一；Password 只保存 bcrypt 哈希，
// 任何地方都不会出现明文密码。
type User struct {
	ID        uint       `gorm:"primaryKey"`                             // 用户 ID
	Username  string     `gorm:"type:varchar(64);uniqueIndex;not null"`  // 用户名（唯一）
	Email     string     `gorm:"type:varchar(191);uniqueIndex;not null"` // 邮箱（唯一）
	Password  string     `gorm:"not null"`                               // bcrypt 哈希
	CreatedAt time.Time  // 创建时间
	LastLogin *time.Time // 最后一次登录成功的时间（从未登录为 NULL）
}
