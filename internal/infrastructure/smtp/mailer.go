package smtp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/accommodation-form-api/internal/config"
)

// Mailer sends emails, optionally with a single binary attachment.
type Mailer interface {
	SendEmail(to, subject, body string) error
	SendEmailWithAttachment(to, subject, body string, attachment []byte, filename string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.fromName, m.from, to, subject, body)
	return m.send(to, []byte(msg))
}

// SendEmailWithAttachment builds a multipart/mixed MIME message with a plain
// text part and one base64-encoded attachment.
func (m *mailer) SendEmailWithAttachment(to, subject, body string, attachment []byte, filename string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	headers := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%q\r\n\r\n",
		m.fromName, m.from, to, subject, w.Boundary())

	textPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return fmt.Errorf("create text part: %w", err)
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return err
	}

	attPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", filename)},
	})
	if err != nil {
		return fmt.Errorf("create attachment part: %w", err)
	}
	enc := base64.NewEncoder(base64.StdEncoding, attPart)
	if _, err := enc.Write(attachment); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return m.send(to, append([]byte(headers), buf.Bytes()...))
}

func (m *mailer) send(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}
