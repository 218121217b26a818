package model

import "time"

// 任务状态枚举。
const (
	StatusPending    = "pending"     // 待办
	StatusInProgress = "in_progress" // 进行中
	StatusCompleted  = "completed"   // 已完成
)

// ValidStatus 判断 status 是否为合法的任务状态。
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task 表示一条待办事项。
//
// 任务通过 Username 归属于某个用户。用户与任务保存在两个独立的
// 数据库文件中，因此这里不建立外键约束，只加普通索引。
//
// 不变量: CompletedAt 非空当且仅当 Status == "completed"。
type Task struct {
	ID          uint       `gorm:"primaryKey"`                    // 任务 ID
	Username    string     `gorm:"type:varchar(64);index;not null"` // 所属用户名（跨库引用）
	Description string     `gorm:"column:task;not null"`          // 任务内容
	Status      string     `gorm:"type:varchar(16);default:pending"` // 状态: pending / in_progress / completed
	Priority    int        `gorm:"default:0"`                     // 优先级 (0-5，越大越靠前)
	Category    string     `gorm:"type:varchar(32)"`              // 分类标签 (Work / Personal / Shopping / Other)
	CreatedAt   time.Time  // 创建时间
	DueDate     *time.Time // 截止时间（可选）
	CompletedAt *time.Time // 完成时间（仅 completed 状态下非空）
}
