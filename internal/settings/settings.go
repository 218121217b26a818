package settings

import (
	"encoding/json"
	"fmt"
	"os"
)

// 可选主题。
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Settings 是用户界面偏好（主题、语言），与账户数据分开保存。
type Settings struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// Default 返回默认偏好。
func Default() *Settings {
	return &Settings{
		Theme:    ThemeLight,
		Language: "en",
	}
}

// Load 从 JSON 文件读取偏好，文件不存在或损坏时返回默认值。
func Load(path string) *Settings {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return Default()
	}
	if s.Theme == "" {
		s.Theme = ThemeLight
	}
	if s.Language == "" {
		s.Language = "en"
	}
	return s
}

// Save 把偏好写入 JSON 文件。
func Save(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
