package clients

import (
	"ChintuIdrive/server-surveillance/dto"
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

type smtpBehaviour struct {
	rejectRcpt bool
	// advertised, but the upgrade itself is refused
	offerStartTLS bool
}

// fakeSMTP accepts a single session without AUTH and returns the commands
// and message it received.
func fakeSMTP(t *testing.T, behaviour smtpBehaviour) (addr string, result <-chan []string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	out := make(chan []string, 1)
	go func() {
		var lines []string
		defer func() { out <- lines }()

		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		reply := func(s string) { conn.Write([]byte(s + "\r\n")) }

		reply("220 localhost ESMTP")
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\r\n")
			lines = append(lines, line)
			if inData {
				if line == "." {
					inData = false
					reply("250 queued")
				}
				continue
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				reply("250-localhost")
				if behaviour.offerStartTLS {
					reply("250-STARTTLS")
				}
				reply("250 8BITMIME")
			case cmd == "STARTTLS":
				reply("454 TLS not available due to temporary reason")
			case strings.HasPrefix(cmd, "MAIL FROM"):
				reply("250 ok")
			case strings.HasPrefix(cmd, "RCPT TO"):
				if behaviour.rejectRcpt {
					reply("550 no such user")
				} else {
					reply("250 ok")
				}
			case cmd == "DATA":
				inData = true
				reply("354 end with .")
			case cmd == "QUIT":
				reply("221 bye")
				return
			default:
				reply("250 ok")
			}
		}
	}()
	return ln.Addr().String(), out
}

func emailConfigFor(t *testing.T, addr string) dto.EmailConfig {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		t.Fatal(err)
	}
	return dto.EmailConfig{
		Enabled:    true,
		Sender:     "ops@example.com",
		Receiver:   "oncall@example.com",
		SMTPServer: host,
		SMTPPort:   p,
		Password:   "pw",
	}
}

func TestEmailClientRequiresStartTLS(t *testing.T) {
	addr, result := fakeSMTP(t, smtpBehaviour{})
	ec := NewEmailClient(emailConfigFor(t, addr), TransportConfig{})

	err := ec.Send(context.Background(), "s", "secret body")
	if !errors.Is(err, ErrStartTLSUnsupported) {
		t.Fatalf("err = %v, want ErrStartTLSUnsupported", err)
	}
	session := strings.Join(<-result, "\n")
	if strings.Contains(session, "MAIL FROM") || strings.Contains(session, "secret body") {
		t.Errorf("mail sent without TLS:\n%s", session)
	}
}

func TestEmailClientFailedStartTLS(t *testing.T) {
	addr, result := fakeSMTP(t, smtpBehaviour{offerStartTLS: true})
	ec := NewEmailClient(emailConfigFor(t, addr), TransportConfig{})

	if err := ec.Send(context.Background(), "s", "b"); err == nil {
		t.Fatal("Send returned nil after refused STARTTLS")
	}
	if session := strings.Join(<-result, "\n"); strings.Contains(session, "MAIL FROM") {
		t.Errorf("fell back to plaintext:\n%s", session)
	}
}

func TestEmailClientSendInsecureRelay(t *testing.T) {
	addr, result := fakeSMTP(t, smtpBehaviour{})
	cfg := emailConfigFor(t, addr)
	cfg.Insecure = true
	ec := NewEmailClient(cfg, TransportConfig{})
	ec.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ec.Send(ctx, "System Alert - CPU Critical", "line one\nline two"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	session := strings.Join(<-result, "\n")
	for _, want := range []string{
		"MAIL FROM:<ops@example.com>",
		"RCPT TO:<oncall@example.com>",
		"Subject: System Alert - CPU Critical",
		"line one\nline two",
		"QUIT",
	} {
		if !strings.Contains(session, want) {
			t.Errorf("session missing %q:\n%s", want, session)
		}
	}
}

func TestEmailClientRejectedRecipient(t *testing.T) {
	addr, _ := fakeSMTP(t, smtpBehaviour{rejectRcpt: true})
	cfg := emailConfigFor(t, addr)
	cfg.Insecure = true
	ec := NewEmailClient(cfg, TransportConfig{})
	if err := ec.Send(context.Background(), "s", "b"); err == nil {
		t.Fatal("Send returned nil for rejected recipient")
	}
}

func TestEmailClientDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ec := NewEmailClient(emailConfigFor(t, addr), TransportConfig{})
	if err := ec.Send(context.Background(), "s", "b"); err == nil {
		t.Fatal("Send returned nil with nothing listening")
	}
}

func TestBuildMessage(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := string(buildMessage("a@example.com", "b@example.com", "hi\r\nBcc: x@example.com", "one\ntwo", at))

	if !strings.Contains(msg, "Subject: hi  Bcc: x@example.com\r\n") {
		t.Errorf("subject header not flattened:\n%q", msg)
	}
	if !strings.Contains(msg, "Date: Wed, 01 May 2024 12:00:00 +0000\r\n") {
		t.Errorf("date header missing:\n%q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\none\r\ntwo\r\n") {
		t.Errorf("body not CRLF normalised:\n%q", msg)
	}
}
