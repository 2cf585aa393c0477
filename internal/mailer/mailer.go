package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"paraverse/internal/config"
)

// Mailer sends transactional mail. Implementations must be safe for
// concurrent use by worker goroutines.
type Mailer interface {
	SendPasswordReset(to, resetToken string) error
}

// SMTPMailer sends mail over plain SMTP using the configured relay.
type SMTPMailer struct {
	host        string
	port        string
	username    string
	password    string
	from        string
	frontendURL string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUser,
		password:    cfg.SMTPPass,
		from:        cfg.MailFrom,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
	}
}

// SendPasswordReset mails the reset link. The token is only valid for a
// short window, which the mail body mentions.
func (m *SMTPMailer) SendPasswordReset(to, resetToken string) error {
	resetLink := fmt.Sprintf("%s/reset-password/%s", m.frontendURL, resetToken)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: Paraverse <%s>\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	msg.WriteString("Subject: Reset your Paraverse password\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString("Someone requested a password reset for your Paraverse account.\r\n\r\n")
	fmt.Fprintf(&msg, "Open this link to choose a new password:\r\n%s\r\n\r\n", resetLink)
	msg.WriteString("The link expires in 15 minutes. If you didn't request this, you can ignore this email.\r\n")

	addr := m.host + ":" + m.port

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
