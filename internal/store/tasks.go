package store

import (
	"context"
	"log/slog"
	"time"

	"taskpilot/internal/model"

	"gorm.io/gorm"
)

// TaskOptions 是 AddTask 的可选属性。
type TaskOptions struct {
	Priority int        // 优先级，默认 0
	Category string     // 分类标签
	DueDate  *time.Time // 截止时间，可为空
}

// TaskStore 持久化待办任务。
//
// 所有操作软失败：存储出错时记录日志并返回 false / 空列表。
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTaskStore 创建 TaskStore。
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	return &TaskStore{db: db, logger: logger}
}

// AddTask 为用户新增一条任务，初始状态为 pending。
func (s *TaskStore) AddTask(ctx context.Context, username, description string, opts TaskOptions) bool {
	task := model.Task{
		Username:    username,
		Description: description,
		Status:      model.StatusPending,
		Priority:    opts.Priority,
		Category:    opts.Category,
		DueDate:     opts.DueDate,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		s.logger.Error("create task failed", slog.String("username", username), slog.String("error", err.Error()))
		return false
	}
	return true
}

// GetUserTasks 返回用户的全部任务，按优先级降序、创建时间降序排列。
//
// 出错时返回空列表。
func (s *TaskStore) GetUserTasks(ctx context.Context, username string) []model.Task {
	var tasks []model.Task
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		s.logger.Error("list tasks failed", slog.String("username", username), slog.String("error", err.Error()))
		return nil
	}
	return tasks
}

// UpdateTaskStatus 更新任务状态。
//
// 状态置为 completed 时记录完成时间；置为其它状态时把完成时间清空，
// 保持 completed_at 与状态的一致性。
func (s *TaskStore) UpdateTaskStatus(ctx context.Context, taskID uint, status string) bool {
	updates := map[string]interface{}{
		"status":       status,
		"completed_at": nil,
	}
	if status == model.StatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}

	res := s.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskID).Updates(updates)
	if res.Error != nil {
		s.logger.Error("update task status failed", slog.Uint64("task_id", uint64(taskID)), slog.String("error", res.Error.Error()))
		return false
	}
	return res.RowsAffected > 0
}

// DeleteTask 删除一条任务。
func (s *TaskStore) DeleteTask(ctx context.Context, taskID uint) bool {
	res := s.db.WithContext(ctx).Delete(&model.Task{}, taskID)
	if res.Error != nil {
		s.logger.Error("delete task failed", slog.Uint64("task_id", uint64(taskID)), slog.String("error", res.Error.Error()))
		return false
	}
	return res.RowsAffected > 0
}
