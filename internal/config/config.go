package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config 保存应用程序配置。
type Config struct {
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
	Email    EmailConfig    `json:"email"`
	Security SecurityConfig `json:"security"`
}

// AppConfig 应用程序基础配置。
type AppConfig struct {
	Env            string        `json:"env"`             // 运行环境: local / prod
	LogLevel       string        `json:"log_level"`       // 日志级别: debug / info / warn / error
	CodeTTL        time.Duration `json:"code_ttl"`        // 验证码有效期（如 "10m"）
	ResendCooldown time.Duration `json:"resend_cooldown"` // 验证码重发冷却（如 "60s"）
	SessionTTL     time.Duration `json:"session_ttl"`     // 会话令牌有效期（如 "24h"）
}

// DatabaseConfig SQLite 数据库配置。
//
// 用户库与任务库是两个独立的数据库文件。
type DatabaseConfig struct {
	DataDir string `json:"data_dir"` // 数据目录
	UsersDB string `json:"users_db"` // 用户库文件名
	TasksDB string `json:"tasks_db"` // 任务库文件名
}

// EmailConfig 验证码邮件配置。
type EmailConfig struct {
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  int    `json:"smtp_port"`
	SMTPUser  string `json:"smtp_user"`
	SMTPPass  string `json:"smtp_pass"`
	FromEmail string `json:"from_email"`
}

// SecurityConfig 安全相关配置。
type SecurityConfig struct {
	JWTSecret string `json:"jwt_secret"` // 会话令牌签名密钥
}

// UsersDBPath 返回用户库的完整路径。
func (c *Config) UsersDBPath() string {
	return filepath.Join(c.Database.DataDir, c.Database.UsersDB)
}

// TasksDBPath 返回任务库的完整路径。
func (c *Config) TasksDBPath() string {
	return filepath.Join(c.Database.DataDir, c.Database.TasksDB)
}

// Load 从 JSON 文件加载配置。
//
// 配置文件不存在时使用默认值；环境变量始终优先覆盖文件内容。
//
// 参数:
//
//	configPath: 配置文件路径（为空则使用默认路径 "configs/config.json"）
//
// 返回值:
//
//	*Config: 加载完成的配置对象
//	error: 加载失败返回错误
func Load(configPath ...string) (*Config, error) {
	path := "configs/config.json"
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := getDefaultConfig()
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// Save 保存配置到 JSON 文件。
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// getDefaultConfig 返回默认配置。
func getDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:            "local",
			LogLevel:       "info",
			CodeTTL:        10 * time.Minute,
			ResendCooldown: 60 * time.Second,
			SessionTTL:     24 * time.Hour,
		},
		Database: DatabaseConfig{
			DataDir: "data",
			UsersDB: "users.db",
			TasksDB: "tasks.db",
		},
		Email: EmailConfig{
			SMTPHost:  "smtp.gmail.com",
			SMTPPort:  587,
			SMTPUser:  "",
			SMTPPass:  "",
			FromEmail: "",
		},
		Security: SecurityConfig{
			JWTSecret: "dev_secret_change_me",
		},
	}
}

// applyDefaults 对未设置的字段应用默认值。
func applyDefaults(cfg *Config) {
	defaults := getDefaultConfig()

	if cfg.App.Env == "" {
		cfg.App.Env = defaults.App.Env
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = defaults.App.LogLevel
	}
	if cfg.App.CodeTTL == 0 {
		cfg.App.CodeTTL = defaults.App.CodeTTL
	}
	if cfg.App.ResendCooldown == 0 {
		cfg.App.ResendCooldown = defaults.App.ResendCooldown
	}
	if cfg.App.SessionTTL == 0 {
		cfg.App.SessionTTL = defaults.App.SessionTTL
	}
	if cfg.Database.DataDir == "" {
		cfg.Database.DataDir = defaults.Database.DataDir
	}
	if cfg.Database.UsersDB == "" {
		cfg.Database.UsersDB = defaults.Database.UsersDB
	}
	if cfg.Database.TasksDB == "" {
		cfg.Database.TasksDB = defaults.Database.TasksDB
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = defaults.Email.SMTPPort
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = defaults.Email.SMTPHost
	}
	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = defaults.Security.JWTSecret
	}
}

func applyEnvOverrides(cfg *Config) {
	viper.AutomaticEnv()

	_ = viper.BindEnv("smtp_pass", "SMTP_PASS")
	_ = viper.BindEnv("jwt_secret", "JWT_SECRET")

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("APP_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("APP_CODE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.App.CodeTTL = d
		}
	}
	if v := os.Getenv("APP_RESEND_COOLDOWN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.App.ResendCooldown = d
		}
	}
	if v := os.Getenv("APP_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.App.SessionTTL = d
		}
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Database.DataDir = v
	}
	if v := os.Getenv("USERS_DB"); v != "" {
		cfg.Database.UsersDB = v
	}
	if v := os.Getenv("TASKS_DB"); v != "" {
		cfg.Database.TasksDB = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = i
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.Email.SMTPUser = v
	}
	if v := viper.GetString("smtp_pass"); v != "" {
		cfg.Email.SMTPPass = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.Email.FromEmail = v
	}

	if v := viper.GetString("jwt_secret"); v != "" {
		cfg.Security.JWTSecret = v
	}
}

// UnmarshalJSON 自定义 JSON 解析，支持 Duration 字符串（如 "10m"）。
func (a *AppConfig) UnmarshalJSON(data []byte) error {
	type Alias AppConfig
	aux := &struct {
		CodeTTL        string `json:"code_ttl"`
		ResendCooldown string `json:"resend_cooldown"`
		SessionTTL     string `json:"session_ttl"`
		*Alias
	}{
		Alias: (*Alias)(a),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.CodeTTL != "" {
		duration, err := time.ParseDuration(aux.CodeTTL)
		if err != nil {
			return fmt.Errorf("invalid code_ttl format: %w", err)
		}
		a.CodeTTL = duration
	}
	if aux.ResendCooldown != "" {
		duration, err := time.ParseDuration(aux.ResendCooldown)
		if err != nil {
			return fmt.Errorf("invalid resend_cooldown format: %w", err)
		}
		a.ResendCooldown = duration
	}
	if aux.SessionTTL != "" {
		duration, err := time.ParseDuration(aux.SessionTTL)
		if err != nil {
			return fmt.Errorf("invalid session_ttl format: %w", err)
		}
		a.SessionTTL = duration
	}

	return nil
}

// MarshalJSON 自定义 JSON 序列化，将 Duration 转为字符串。
func (a AppConfig) MarshalJSON() ([]byte, error) {
	type Alias AppConfig
	return json.Marshal(&struct {
		CodeTTL        string `json:"code_ttl"`
		ResendCooldown string `json:"resend_cooldown"`
		SessionTTL     string `json:"session_ttl"`
		*Alias
	}{
		CodeTTL:        a.CodeTTL.String(),
		ResendCooldown: a.ResendCooldown.String(),
		SessionTTL:     a.SessionTTL.String(),
		Alias:          (*Alias)(&a),
	})
}
