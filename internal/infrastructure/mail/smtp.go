// Package mail delivers digests to recipients over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aravinnthram/AINow/internal/config"
	"github.com/Aravinnthram/AINow/internal/domain"
	"github.com/Aravinnthram/AINow/internal/ports"
)

var htmlBody = template.Must(template.New("email").Parse(`<html>
    <head></head>
    <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
        <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
            <h2 style="color: #0066cc; border-bottom: 2px solid #0066cc; padding-bottom: 10px;">
                AI Updates Digest
            </h2>
            <div style="margin: 20px 0; white-space: pre-wrap;">
{{.Body}}
            </div>
            <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
            <p style="font-size: 12px; color: #666;">
                This email was generated by AI Updates Email Sender
            </p>
        </div>
    </body>
</html>
`))

// Dispatcher sends digests as multipart/alternative mail through a
// single SMTP account.
type Dispatcher struct {
	host     string
	port     int
	user     string
	password string
	from     string
	sendMail func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher registers the SMTP account used for delivery.
func NewDispatcher(cfg config.EmailConfig) *Dispatcher {
	return &Dispatcher{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     cfg.From,
		sendMail: smtp.SendMail,
	}
}

// NormalizeRecipients splits a comma-separated recipient list, trimming
// whitespace and dropping empty entries.
func NormalizeRecipients(raw string) []string {
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			recipients = append(recipients, part)
		}
	}
	return recipients
}

// Send delivers the digest to every recipient in one SMTP transaction.
// Each recipient entry may itself hold a comma-separated list. Missing
// credentials or an empty recipient set are errors.
func (d *Dispatcher) Send(ctx context.Context, recipients []string, dg domain.Digest) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	if d.user == "" || d.password == "" {
		return fmt.Errorf("email credentials are not set")
	}

	to := NormalizeRecipients(strings.Join(recipients, ","))
	if len(to) == 0 {
		return fmt.Errorf("no recipient emails provided")
	}

	msg, err := d.message(to, dg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(d.host, strconv.Itoa(d.port))
	auth := smtp.PlainAuth("", d.user, d.password, d.host)
	if err := d.sendMail(addr, auth, d.from, to, msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// message assembles the RFC 5322 payload: headers, a plain-text part
// and an HTML part with the body in a pre-wrap container.
func (d *Dispatcher) message(to []string, dg domain.Digest) ([]byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + d.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", dg.Subject),
		"Date: " + time.Now().Format(time.RFC1123Z),
		fmt.Sprintf("Message-ID: <%s@%s>", uuid.NewString(), d.host),
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + alt.Boundary() + `"`,
	}
	for _, header := range headers {
		buf.WriteString(header)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")

	plain, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {`text/plain; charset="utf-8"`}})
	if err != nil {
		return nil, fmt.Errorf("plain part: %w", err)
	}
	if _, err := io.WriteString(plain, dg.Body); err != nil {
		return nil, fmt.Errorf("plain part: %w", err)
	}

	rich, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {`text/html; charset="utf-8"`}})
	if err != nil {
		return nil, fmt.Errorf("html part: %w", err)
	}
	if err := htmlBody.Execute(rich, struct{ Body string }{dg.Body}); err != nil {
		return nil, fmt.Errorf("html part: %w", err)
	}

	if err := alt.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}
