package app

import (
	"context"
	"log/slog"
	"strings"

	"taskpilot/internal/auth"
	"taskpilot/internal/config"
	"taskpilot/internal/model"
	"taskpilot/internal/pkg/notify"
	"taskpilot/internal/pkg/verify"
	"taskpilot/internal/store"
)

// TaskStore 是命令层需要的任务存储能力。
type TaskStore interface {
	AddTask(ctx context.Context, username, description string, opts store.TaskOptions) bool
	GetUserTasks(ctx context.Context, username string) []model.Task
	UpdateTaskStatus(ctx context.Context, taskID uint, status string) bool
	DeleteTask(ctx context.Context, taskID uint) bool
}

// CodePrompter 是表示层提供的验证码输入界面（阻塞式弹窗的等价物）。
type CodePrompter interface {
	// PromptCode 请求用户输入验证码。
	//
	// 返回值:
	//   code: 用户输入的验证码
	//   ok: false 表示用户关闭了输入框（取消登录）
	PromptCode() (code string, ok bool)
}

// TaskFilter 是任务列表的筛选条件。
type TaskFilter struct {
	Category string // 分类；空或 "All" 表示不过滤
	Search   string // 任务内容的大小写不敏感子串匹配
}

// App 是表示层与核心流程之间的命令接口，每个用户动作对应一个方法。
//
// 它不依赖任何具体 UI 工具包；所有需要归属的操作都显式接收 Session。
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	users    auth.CredentialStore
	tasks    TaskStore
	register *auth.RegisterFlow
	sender   notify.CodeSender
	sessions *auth.SessionManager
}

// New 组装 App。
func New(cfg *config.Config, logger *slog.Logger, users *store.UserStore, tasks TaskStore, sender notify.CodeSender) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		tasks:    tasks,
		register: auth.NewRegisterFlow(users, logger),
		sender:   sender,
		sessions: auth.NewSessionManager(cfg.Security.JWTSecret, cfg.App.SessionTTL),
	}
}

// Register 执行注册流程。
func (a *App) Register(ctx context.Context, username, email, password string, termsAccepted bool) auth.RegisterResult {
	return a.register.Register(ctx, username, email, password, termsAccepted)
}

// Login 执行完整的登录流程，用 prompter 驱动验证码环节。
//
// 验证码不匹配时会反复弹出输入框，直到匹配、过期或用户取消。
// 返回的状态是终态之一: Verified（附带会话）、Rejected、Cancelled，
// 或 Idle（验证码发送失败，本次尝试终止）。
func (a *App) Login(ctx context.Context, username, email, password string, prompter CodePrompter) (*auth.Session, auth.LoginState) {
	codes := verify.NewKeeper(a.cfg.App.CodeTTL, a.cfg.App.ResendCooldown)
	flow := auth.NewLoginFlow(a.users, a.sender, codes, a.sessions, a.logger)

	if state := flow.Start(ctx, username, email, password); state != auth.StateCodeSent {
		return nil, state
	}

	for {
		code, ok := prompter.PromptCode()
		if !ok {
			flow.Cancel()
			return nil, auth.StateCancelled
		}

		session, state := flow.SubmitCode(ctx, code)
		switch state {
		case auth.StateVerified:
			return session, state
		case auth.StateCodeSent:
			continue // 不匹配，重新输入
		default:
			return nil, state
		}
	}
}

// AddTask 为当前会话用户新增任务。
func (a *App) AddTask(ctx context.Context, sess *auth.Session, description string, opts store.TaskOptions) bool {
	if sess == nil || strings.TrimSpace(description) == "" {
		return false
	}
	return a.tasks.AddTask(ctx, sess.Username, description, opts)
}

// Tasks 返回当前会话用户的任务列表，应用分类与搜索过滤。
//
// 排序由存储层保证（优先级降序、创建时间降序），过滤不改变相对顺序。
func (a *App) Tasks(ctx context.Context, sess *auth.Session, filter TaskFilter) []model.Task {
	if sess == nil {
		return nil
	}

	tasks := a.tasks.GetUserTasks(ctx, sess.Username)
	if filter.Category == "" && filter.Search == "" {
		return tasks
	}

	search := strings.ToLower(filter.Search)
	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Category != "" && filter.Category != "All" && t.Category != filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// UpdateTaskStatus 更新任务状态，status 必须是合法的枚举值。
func (a *App) UpdateTaskStatus(ctx context.Context, sess *auth.Session, taskID uint, status string) bool {
	if sess == nil || !model.ValidStatus(status) {
		return false
	}
	return a.tasks.UpdateTaskStatus(ctx, taskID, status)
}

// CompleteTask 把任务标记为已完成。
func (a *App) CompleteTask(ctx context.Context, sess *auth.Session, taskID uint) bool {
	return a.UpdateTaskStatus(ctx, sess, taskID, model.StatusCompleted)
}

// ReopenTask 把已完成的任务重新置为待办，完成时间随之清空。
func (a *App) ReopenTask(ctx context.Context, sess *auth.Session, taskID uint) bool {
	return a.UpdateTaskStatus(ctx, sess, taskID, model.StatusPending)
}

// DeleteTask 删除任务。
func (a *App) DeleteTask(ctx context.Context, sess *auth.Session, taskID uint) bool {
	if sess == nil {
		return false
	}
	return a.tasks.DeleteTask(ctx, taskID)
}
