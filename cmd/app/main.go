package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"taskpilot/internal/app"
	"taskpilot/internal/cli"
	"taskpilot/internal/config"
	"taskpilot/internal/pkg/logger"
	"taskpilot/internal/pkg/notify"
	"taskpilot/internal/settings"
	"taskpilot/internal/store"
)

// main 是应用入口。
//
// 它负责：
// 1. 加载配置与界面偏好
// 2. 初始化日志
// 3. 打开两个数据库并组装命令层
// 4. 运行终端表示层
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger := logger.NewDefault(cfg.App.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prefs := settings.Load(filepath.Join(cfg.Database.DataDir, "settings.json"))
	appLogger.Info("preferences loaded", slog.String("theme", prefs.Theme), slog.String("language", prefs.Language))

	usersDB, err := store.OpenUserDB(cfg.UsersDBPath())
	if err != nil {
		appLogger.Error("open users db failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	tasksDB, err := store.OpenTaskDB(cfg.TasksDBPath())
	if err != nil {
		appLogger.Error("open tasks db failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(usersDB); err != nil {
			appLogger.Error("close users db failed", slog.String("error", err.Error()))
		}
		if err := store.Close(tasksDB); err != nil {
			appLogger.Error("close tasks db failed", slog.String("error", err.Error()))
		}
	}()

	users := store.NewUserStore(usersDB, appLogger)
	tasks := store.NewTaskStore(tasksDB, appLogger)
	mailer := notify.NewEmailNotifier(&cfg.Email, appLogger)

	a := app.New(cfg, appLogger, users, tasks, mailer)

	if err := cli.New(a, appLogger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("cli stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	appLogger.Info("bye")
}
