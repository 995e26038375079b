package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig agrupa los parametros del relay de correo.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// ImplicitTLS abre la conexion ya cifrada (puerto 465); sin el se usa
	// STARTTLS cuando el servidor lo ofrece.
	ImplicitTLS bool
}

// SMTPSender entrega los avisos de llaves de API por SMTP.
type SMTPSender struct {
	cfg  SMTPConfig
	from mail.Address
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	from, err := mail.ParseAddress(strings.TrimSpace(cfg.From))
	if err != nil {
		return nil, fmt.Errorf("invalid smtp from address: %w", err)
	}
	if name := strings.TrimSpace(cfg.FromName); name != "" {
		from.Name = name
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg, from: *from}, nil
}

// notice es un aviso ya redactado, listo para enviar.
type notice struct {
	subject string
	body    string
}

func apiKeyCreatedNotice(keyName, keyPrefix string, createdAt time.Time) notice {
	return notice{
		subject: "New ClearScrub API key created",
		body: fmt.Sprintf(
			"A new API key %q (%s) was created on %s UTC.\nIf you did not create this key, revoke it from the dashboard.\n",
			keyName, keyPrefix, createdAt.UTC().Format(time.RFC3339),
		),
	}
}

func apiKeyRolledNotice(keyName, keyPrefix string, rolledAt time.Time) notice {
	return notice{
		subject: "ClearScrub API key rolled",
		body: fmt.Sprintf(
			"The secret of API key %q was rolled on %s UTC; it now starts with %s.\nThe previous secret no longer works. If you did not roll this key, revoke it from the dashboard.\n",
			keyName, rolledAt.UTC().Format(time.RFC3339), keyPrefix,
		),
	}
}

func (s *SMTPSender) SendAPIKeyCreated(ctx context.Context, toEmail, keyName, keyPrefix string, createdAt time.Time) error {
	return s.deliver(ctx, toEmail, apiKeyCreatedNotice(keyName, keyPrefix, createdAt))
}

func (s *SMTPSender) SendAPIKeyRolled(ctx context.Context, toEmail, keyName, keyPrefix string, rolledAt time.Time) error {
	return s.deliver(ctx, toEmail, apiKeyRolledNotice(keyName, keyPrefix, rolledAt))
}

func (s *SMTPSender) deliver(ctx context.Context, toEmail string, n notice) error {
	if strings.TrimSpace(toEmail) == "" {
		return errors.New("to email is required")
	}
	rcpt, err := mail.ParseAddress(strings.TrimSpace(toEmail))
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg := composeMessage(s.from, *rcpt, n, time.Now())

	if !s.cfg.ImplicitTLS {
		return smtp.SendMail(s.addr(), s.auth(), s.from.Address, []string{rcpt.Address}, msg)
	}
	return s.sendImplicitTLS(ctx, rcpt.Address, msg)
}

func (s *SMTPSender) sendImplicitTLS(ctx context.Context, rcpt string, msg []byte) error {
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr())
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if auth := s.auth(); auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.from.Address); err != nil {
		return err
	}
	if err := client.Rcpt(rcpt); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (s *SMTPSender) addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

func (s *SMTPSender) auth() smtp.Auth {
	if s.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
}

// composeMessage arma un mensaje RFC 5322 en texto plano con fines de linea CRLF.
func composeMessage(from, to mail.Address, n notice, date time.Time) []byte {
	var b bytes.Buffer
	header := func(key, value string) {
		fmt.Fprintf(&b, "%s: %s\r\n", key, value)
	}
	header("From", from.String())
	header("To", to.String())
	header("Subject", mime.QEncoding.Encode("utf-8", n.subject))
	header("Date", date.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(n.body, "\n", "\r\n"))
	return b.Bytes()
}
