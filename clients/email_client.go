package clients

import (
	"ChintuIdrive/server-surveillance/dto"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/minio/mc/pkg/deadlineconn"
)

var (
	ErrStartTLSUnsupported = errors.New("smtp server does not offer STARTTLS")
	ErrAuthUnsupported     = errors.New("smtp server does not offer AUTH")
)

// EmailClient sends plain-text alert mails over SMTP with STARTTLS and
// PLAIN auth. Both are mandatory unless the config is marked insecure.
type EmailClient struct {
	emailConfig dto.EmailConfig
	tc          TransportConfig
	now         func() time.Time
}

func NewEmailClient(emailConfig dto.EmailConfig, tc TransportConfig) *EmailClient {
	return &EmailClient{emailConfig: emailConfig, tc: tc, now: time.Now}
}

func (ec *EmailClient) Name() string { return "email" }

func (ec *EmailClient) Send(ctx context.Context, subject, body string) error {
	cfg := ec.emailConfig
	addr := net.JoinHostPort(cfg.SMTPServer, strconv.Itoa(cfg.SMTPPort))

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	dconn := deadlineconn.New(conn).
		WithReadDeadline(ec.tc.ConnReadDeadline).
		WithWriteDeadline(ec.tc.ConnWriteDeadline)

	c, err := smtp.NewClient(dconn, cfg.SMTPServer)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: cfg.SMTPServer, MinVersion: tls.VersionTLS12}
		if err := c.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	} else if !cfg.Insecure {
		return ErrStartTLSUnsupported
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", cfg.Sender, cfg.Password, cfg.SMTPServer)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	} else if cfg.Password != "" && !cfg.Insecure {
		return ErrAuthUnsupported
	}

	if err := c.Mail(cfg.Sender); err != nil {
		return err
	}
	if err := c.Rcpt(cfg.Receiver); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(cfg.Sender, cfg.Receiver, subject, body, ec.now())); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from, to, subject, body string, at time.Time) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", strings.NewReplacer("\r", " ", "\n", " ").Replace(subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", at.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	msg.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	msg.WriteString("\r\n")
	return msg.Bytes()
}
