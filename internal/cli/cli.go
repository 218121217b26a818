package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"taskpilot/internal/app"
	"taskpilot/internal/auth"
	"taskpilot/internal/model"
	"taskpilot/internal/store"

	"golang.org/x/term"
)

// CLI 是一个最小的终端表示层，按动作调用 App 的命令接口。
type CLI struct {
	app    *app.App
	logger *slog.Logger
	in     *bufio.Reader
	out    io.Writer
}

// New 创建 CLI。
func New(a *app.App, logger *slog.Logger) *CLI {
	return &CLI{
		app:    a,
		logger: logger,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run 进入主循环，直到用户退出或 ctx 被取消。
func (c *CLI) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintln(c.out, "\n[1] Login  [2] Register  [q] Quit")
		choice := c.readLine("> ")
		switch choice {
		case "1":
			sess, state := c.login(ctx)
			if state == auth.StateVerified {
				c.taskLoop(ctx, sess)
			} else {
				fmt.Fprintf(c.out, "Login failed: %s\n", state)
			}
		case "2":
			c.registerUser(ctx)
		case "q", "quit", "exit":
			return nil
		}
	}
}

func (c *CLI) login(ctx context.Context) (*auth.Session, auth.LoginState) {
	username := c.readLine("Username: ")
	email := c.readLine("Email: ")
	pass := c.readPassword("Password: ")
	return c.app.Login(ctx, username, email, pass, codePrompter{c})
}

func (c *CLI) registerUser(ctx context.Context) {
	username := c.readLine("Username (min 4 chars): ")
	email := c.readLine("Email: ")
	pass := c.readPassword("Password (min 6 chars): ")
	terms := strings.EqualFold(c.readLine("Accept terms? [y/n]: "), "y")

	switch c.app.Register(ctx, username, email, pass, terms) {
	case auth.RegisterSuccess:
		fmt.Fprintln(c.out, "Registered. You can log in now.")
	case auth.RegisterUsernameTaken:
		fmt.Fprintln(c.out, "Username already taken.")
	case auth.RegisterEmailTaken:
		fmt.Fprintln(c.out, "Email already registered.")
	case auth.RegisterInvalidInput:
		fmt.Fprintln(c.out, "Invalid input, check email shape and field lengths.")
	default:
		fmt.Fprintln(c.out, "Registration failed, try again later.")
	}
}

func (c *CLI) taskLoop(ctx context.Context, sess *auth.Session) {
	fmt.Fprintf(c.out, "Welcome, %s.\n", sess.Username)
	for {
		fmt.Fprintln(c.out, "\n[l] List  [a] Add  [d] Done  [r] Reopen  [x] Delete  [s] Search  [o] Logout")
		switch c.readLine("> ") {
		case "l":
			c.printTasks(c.app.Tasks(ctx, sess, app.TaskFilter{}))
		case "a":
			c.addTask(ctx, sess)
		case "d":
			if id, ok := c.readID("Task id to complete: "); ok {
				c.report(c.app.CompleteTask(ctx, sess, id))
			}
		case "r":
			if id, ok := c.readID("Task id to reopen: "); ok {
				c.report(c.app.ReopenTask(ctx, sess, id))
			}
		case "x":
			if id, ok := c.readID("Task id to delete: "); ok {
				c.report(c.app.DeleteTask(ctx, sess, id))
			}
		case "s":
			filter := app.TaskFilter{
				Category: c.readLine("Category (empty for all): "),
				Search:   c.readLine("Search text: "),
			}
			c.printTasks(c.app.Tasks(ctx, sess, filter))
		case "o":
			return
		}
	}
}

func (c *CLI) addTask(ctx context.Context, sess *auth.Session) {
	description := c.readLine("Description: ")
	opts := store.TaskOptions{
		Category: c.readLine("Category (Work/Personal/Shopping/Other, optional): "),
	}
	if p := c.readLine("Priority 0-5 (default 0): "); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			opts.Priority = v
		}
	}
	if d := c.readLine("Due date YYYY-MM-DD (optional): "); d != "" {
		if due, err := time.Parse("2006-01-02", d); err == nil {
			opts.DueDate = &due
		}
	}
	c.report(c.app.AddTask(ctx, sess, description, opts))
}

func (c *CLI) printTasks(tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(c.out, "No tasks.")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Status == model.StatusCompleted {
			mark = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = " due " + t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(c.out, "%4d [%s] p%d %-10s %s%s\n", t.ID, mark, t.Priority, t.Category, t.Description, due)
	}
}

func (c *CLI) report(ok bool) {
	if ok {
		fmt.Fprintln(c.out, "OK.")
	} else {
		fmt.Fprintln(c.out, "Operation failed.")
	}
}

func (c *CLI) readID(prompt string) (uint, bool) {
	v, err := strconv.ParseUint(c.readLine(prompt), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

func (c *CLI) readLine(prompt string) string {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// readPassword 读取密码，终端下关闭回显。
func (c *CLI) readPassword(prompt string) string {
	fmt.Fprint(c.out, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(c.out)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
	return c.readLine("")
}

// codePrompter 把终端输入适配成登录流程的验证码弹窗。
type codePrompter struct {
	cli *CLI
}

func (p codePrompter) PromptCode() (string, bool) {
	code := p.cli.readLine("Verification code (empty to cancel): ")
	if code == "" {
		return "", false
	}
	return code, true
}
