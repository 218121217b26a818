package store

import (
	"fmt"
	"os"
	"path/filepath"

	"taskpilot/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// open 打开一个 SQLite 数据库文件，必要时先创建所在目录。
func open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent), // 关闭GORM调试日志
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// OpenUserDB 打开用户库并执行自动迁移。
func OpenUserDB(path string) (*gorm.DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	return db, nil
}

// OpenTaskDB 打开任务库并执行自动迁移。
func OpenTaskDB(path string) (*gorm.DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate tasks: %w", err)
	}
	return db, nil
}

// Close 关闭底层数据库连接。
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
