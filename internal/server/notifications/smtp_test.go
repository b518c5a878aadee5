package notifications

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func captureSendMail(t *testing.T, sent *[]capturedMail) {
	t.Helper()
	orig := sendMail
	t.Cleanup(func() { sendMail = orig })
	sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
}

func TestWelcome_BuildsExpectedMessage(t *testing.T) {
	var sent []capturedMail
	captureSendMail(t, &sent)

	n := NewSMTPNotifier("relay:25", "noreply@taskvault.dev", "", "", "relay")
	if err := n.Welcome(context.Background(), "alice@example.com", "Alice"); err != nil {
		t.Fatalf("Welcome error: %v", err)
	}

	if len(sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sent))
	}
	m := sent[0]
	if m.addr != "relay:25" || m.from != "noreply@taskvault.dev" || m.to[0] != "alice@example.com" {
		t.Fatalf("unexpected envelope: %+v", m)
	}
	for _, want := range []string{"Subject: Welcome to TaskVault", "Hello Alice"} {
		if !strings.Contains(m.msg, want) {
			t.Fatalf("expected %q in message:\n%s", want, m.msg)
		}
	}
}

func TestGoodbye_BuildsExpectedMessage(t *testing.T) {
	var sent []capturedMail
	captureSendMail(t, &sent)

	n := NewSMTPNotifier("relay:25", "noreply@taskvault.dev", "", "", "relay")
	if err := n.Goodbye(context.Background(), "bob@example.com", "Bob"); err != nil {
		t.Fatalf("Goodbye error: %v", err)
	}

	if len(sent) != 1 || !strings.Contains(sent[0].msg, "Goodbye Bob") {
		t.Fatalf("unexpected mail: %+v", sent)
	}
}
