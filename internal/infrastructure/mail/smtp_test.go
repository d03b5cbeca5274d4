package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"testing"

	"github.com/Aravinnthram/AINow/internal/config"
	"github.com/Aravinnthram/AINow/internal/domain"
)

type capture struct {
	calls int
	addr  string
	from  string
	to    []string
	msg   string
}

func testDispatcher() (*Dispatcher, *capture) {
	d := NewDispatcher(config.EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "bot@example.com",
		Password: "secret",
		From:     "bot@example.com",
	})
	c := &capture{}
	d.sendMail = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		c.calls++
		c.addr = addr
		c.from = from
		c.to = to
		c.msg = string(msg)
		return nil
	}
	return d, c
}

func TestNormalizeRecipients(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"a@x.com", []string{"a@x.com"}},
		{" a@x.com , b@y.com ", []string{"a@x.com", "b@y.com"}},
		{",,", nil},
		{"", nil},
	}

	for _, tc := range cases {
		got := NormalizeRecipients(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("NormalizeRecipients(%q) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("NormalizeRecipients(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	}
}

func TestSendMissingCredentials(t *testing.T) {
	t.Parallel()

	d, c := testDispatcher()
	d.password = ""

	err := d.Send(context.Background(), []string{"a@x.com"}, domain.Digest{Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls != 0 {
		t.Fatalf("sendMail called despite missing credentials")
	}
}

func TestSendNoRecipients(t *testing.T) {
	t.Parallel()

	d, c := testDispatcher()

	err := d.Send(context.Background(), []string{" ", ""}, domain.Digest{Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "no recipient emails") {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls != 0 {
		t.Fatalf("sendMail called despite empty recipients")
	}
}

func TestSendCancelledContext(t *testing.T) {
	t.Parallel()

	d, c := testDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Send(ctx, []string{"a@x.com"}, domain.Digest{}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if c.calls != 0 {
		t.Fatalf("sendMail called despite cancelled context")
	}
}

func TestSendBuildsMultipartMessage(t *testing.T) {
	t.Parallel()

	d, c := testDispatcher()
	dg := domain.Digest{
		Subject: "🚀 Top AI Developments: Robots",
		Body:    "Hello Reader,\n\nLine <two>",
	}

	err := d.Send(context.Background(), []string{"a@x.com, b@y.com", " c@z.com"}, dg)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if c.calls != 1 {
		t.Fatalf("expected 1 sendMail call, got %d", c.calls)
	}
	if c.addr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr: %s", c.addr)
	}
	if c.from != "bot@example.com" {
		t.Fatalf("unexpected from: %s", c.from)
	}

	wantTo := []string{"a@x.com", "b@y.com", "c@z.com"}
	if len(c.to) != len(wantTo) {
		t.Fatalf("unexpected recipients: %v", c.to)
	}
	for i := range wantTo {
		if c.to[i] != wantTo[i] {
			t.Fatalf("unexpected recipients: %v", c.to)
		}
	}

	for _, want := range []string{
		"From: bot@example.com\r\n",
		"To: a@x.com, b@y.com, c@z.com\r\n",
		"Subject: =?utf-8?q?",
		"Date: ",
		"Message-ID: <",
		"@smtp.example.com>",
		"MIME-Version: 1.0\r\n",
		"Content-Type: multipart/alternative; boundary=",
		`Content-Type: text/plain; charset="utf-8"`,
		`Content-Type: text/html; charset="utf-8"`,
		"Hello Reader,",
		"AI Updates Digest",
		"This email was generated by AI Updates Email Sender",
	} {
		if !strings.Contains(c.msg, want) {
			t.Fatalf("message missing %q:\n%s", want, c.msg)
		}
	}

	// The HTML part escapes markup that the plain part carries verbatim.
	if !strings.Contains(c.msg, "Line &lt;two&gt;") {
		t.Fatalf("html part not escaped:\n%s", c.msg)
	}
	if !strings.Contains(c.msg, "Line <two>") {
		t.Fatalf("plain part mangled:\n%s", c.msg)
	}
}

func TestSendPlainASCIISubject(t *testing.T) {
	t.Parallel()

	d, c := testDispatcher()

	err := d.Send(context.Background(), []string{"a@x.com"}, domain.Digest{Subject: "Weekly digest", Body: "b"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if !strings.Contains(c.msg, "Subject: Weekly digest\r\n") {
		t.Fatalf("ascii subject should stay unencoded:\n%s", c.msg)
	}
}

func TestSendMailFailure(t *testing.T) {
	t.Parallel()

	d, _ := testDispatcher()
	d.sendMail = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		return fmt.Errorf("connection refused")
	}

	err := d.Send(context.Background(), []string{"a@x.com"}, domain.Digest{Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("unexpected error: %v", err)
	}
}
