package mailer

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSMTP struct {
	ln      net.Listener
	mu      sync.Mutex
	from    string
	rcpts   []string
	data    string
	rejectR bool
}

func startFakeSMTP(t *testing.T, rejectRcpt bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSMTP{ln: ln, rejectR: rejectRcpt}
	go f.serve()
	t.Cleanup(func() { ln.Close() })
	return f
}

func (f *fakeSMTP) port() int {
	return f.ln.Addr().(*net.TCPAddr).Port
}

func (f *fakeSMTP) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	r := bufio.NewReader(conn)
	write := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }

	write("220 fake ESMTP")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		upper := strings.ToUpper(cmd)
		switch {
		case strings.HasPrefix(upper, "EHLO"), strings.HasPrefix(upper, "HELO"):
			write("250 fake")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			f.mu.Lock()
			f.from = strings.Trim(cmd[len("MAIL FROM:"):], "<> ")
			f.mu.Unlock()
			write("250 ok")
		case strings.HasPrefix(upper, "RCPT TO:"):
			if f.rejectR {
				write("550 no such user")
				continue
			}
			f.mu.Lock()
			f.rcpts = append(f.rcpts, strings.Trim(cmd[len("RCPT TO:"):], "<> "))
			f.mu.Unlock()
			write("250 ok")
		case upper == "DATA":
			write("354 go ahead")
			var b strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				b.WriteString(l)
			}
			f.mu.Lock()
			f.data = b.String()
			f.mu.Unlock()
			write("250 queued")
		case upper == "QUIT":
			write("221 bye")
			return
		default:
			write("250 ok")
		}
	}
}

func TestSMTPSenderDelivers(t *testing.T) {
	srv := startFakeSMTP(t, false)
	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: srv.port(), Timeout: 2 * time.Second})

	err := sender.Send(context.Background(), Message{
		From:    Address{Name: "Ada", Email: "ada@example.com"},
		To:      []string{"hr@acme.test"},
		Subject: "Hello",
		Text:    "Body",
	})
	require.NoError(t, err)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, "ada@example.com", srv.from)
	assert.Equal(t, []string{"hr@acme.test"}, srv.rcpts)
	assert.Contains(t, srv.data, "Subject: Hello")
}

func TestSMTPSenderSurfacesRejection(t *testing.T) {
	srv := startFakeSMTP(t, true)
	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: srv.port(), Timeout: 2 * time.Second})

	err := sender.Send(context.Background(), Message{
		From: Address{Email: "ada@example.com"},
		To:   []string{"ghost@acme.test"},
		Text: "Body",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "550")
}

func TestSMTPSenderDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, Timeout: time.Second})
	err = sender.Send(context.Background(), Message{From: Address{Email: "a@b.c"}, To: []string{"d@e.f"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp dial 127.0.0.1:"+strconv.Itoa(port))
}
