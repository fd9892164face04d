package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/blues/taskhub/internal/config"
	"github.com/blues/taskhub/internal/logger"
)

// Mailer 邮件发送器
type Mailer struct {
	cfg config.SMTPConfig
}

// New 创建邮件发送器
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send 发送一封HTML邮件。未启用SMTP时只记录日志直接返回。
func (m *Mailer) Send(to, subject, html string) error {
	if !m.cfg.Enabled {
		logger.Debug("SMTP disabled, skipping email to %s: %s", to, subject)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
