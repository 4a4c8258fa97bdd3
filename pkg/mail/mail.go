// Package mail sends transactional email over SMTP. Order confirmations are
// its only current caller, dispatched through the job queue so a slow relay
// never blocks checkout.
//
//	mail.To(order.CustomerEmail).
//	    Subject("Your PetPalace order " + order.Number).
//	    HTML(body).
//	    Send()
package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/petpalace/petpalace/config"
)

// SMTP holds relay credentials, read from config at build time.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func defaultSMTP() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", "smtp.mailtrap.io"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "orders@petpalace.in"),
		FromName: config.Get("MAIL_FROM_NAME", "PetPalace"),
	}
}

// Message is a fluent mail builder.
type Message struct {
	to      []string
	bcc     []string
	subject string
	body    string
	isHTML  bool
	cfg     SMTP
}

func To(addresses ...string) *Message {
	return &Message{to: addresses, cfg: defaultSMTP()}
}

func (m *Message) BCC(addresses ...string) *Message {
	m.bcc = append(m.bcc, addresses...)
	return m
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// HTML sets an HTML body.
func (m *Message) HTML(body string) *Message {
	m.body = body
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(body string) *Message {
	m.body = body
	m.isHTML = false
	return m
}

// UseConfig overrides relay settings for this message.
func (m *Message) UseConfig(cfg SMTP) *Message {
	m.cfg = cfg
	return m
}

// Send delivers the message. Port 465 uses implicit TLS, everything else
// plain SMTP with AUTH.
func (m *Message) Send() error {
	if m.cfg.Username == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}

	recipients := append(append([]string(nil), m.to...), m.bcc...)
	raw := m.raw()
	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if m.cfg.Port == "465" {
		return m.sendTLS(addr, auth, recipients, raw)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, recipients, raw)
}

func (m *Message) sendTLS(addr string, auth smtp.Auth, to []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("mail: tls dial: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(raw)
	return err
}

func (m *Message) raw() []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}
