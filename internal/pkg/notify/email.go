package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"taskpilot/internal/config"

	"gopkg.in/gomail.v2"
)

// EmailNotifier 通过 SMTP (STARTTLS) 发送验证码邮件。
type EmailNotifier struct {
	cfg    *config.EmailConfig
	logger *slog.Logger
}

// NewEmailNotifier 创建一个新的邮件通知器。
func NewEmailNotifier(cfg *config.EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

// SendVerificationCode 发送登录验证码。
//
// 发件地址与 SMTP 凭据来自配置；任何传输失败（认证、网络）都以
// error 返回，由调用方决定如何上报。
func (n *EmailNotifier) SendVerificationCode(toEmail string, code string) error {
	if n.cfg.SMTPHost == "" || n.cfg.SMTPUser == "" || n.cfg.FromEmail == "" {
		return fmt.Errorf("email config missing")
	}
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "[TaskPilot] Login verification code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your verification code is: %s\n\nThe code expires in 10 minutes. If you did not try to log in, ignore this mail.\n", code))

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("verification email sent", slog.String("to", toEmail))
	return nil
}
