// Package mailer composes MIME messages and delivers them over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// ErrNotConfigured is returned when no SMTP host is configured.
var ErrNotConfigured = errors.New("smtp transport not configured")

// Address is a display name plus mailbox.
type Address struct {
	Name  string
	Email string
}

// Attachment is a file forwarded with the message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outgoing email with text and HTML bodies.
type Message struct {
	From        Address
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// TextToHTML escapes text and turns newlines into <br> tags.
func TextToHTML(text string) string {
	escaped := html.EscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return "<div>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</div>"
}

// Compose renders msg as an RFC 5322 message with a multipart/alternative body.
func Compose(msg Message, now time.Time) ([]byte, error) {
	if msg.From.Email == "" {
		return nil, errors.New("from address is required")
	}
	if len(msg.To) == 0 {
		return nil, errors.New("at least one recipient is required")
	}

	var h mail.Header
	h.SetDate(now)
	h.SetSubject(msg.Subject)
	h.SetAddressList("From", []*mail.Address{{Name: msg.From.Name, Address: msg.From.Email}})
	to := make([]*mail.Address, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, &mail.Address{Address: addr})
	}
	h.SetAddressList("To", to)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline: %w", err)
	}
	if err := writeInline(tw, "text/plain", msg.Text); err != nil {
		return nil, err
	}
	htmlBody := msg.HTML
	if htmlBody == "" {
		htmlBody = TextToHTML(msg.Text)
	}
	if err := writeInline(tw, "text/html", htmlBody); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close inline: %w", err)
	}

	for _, att := range msg.Attachments {
		var ah mail.AttachmentHeader
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		ah.SetContentType(contentType, nil)
		ah.SetFilename(att.Filename)
		w, err := mw.CreateAttachment(ah)
		if err != nil {
			return nil, fmt.Errorf("create attachment %s: %w", att.Filename, err)
		}
		if _, err := w.Write(att.Data); err != nil {
			return nil, fmt.Errorf("write attachment %s: %w", att.Filename, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close attachment %s: %w", att.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInline(tw *mail.InlineWriter, contentType, body string) error {
	var ih mail.InlineHeader
	ih.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	w, err := tw.CreatePart(ih)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	return w.Close()
}

// Unconfigured is a Sender that always fails with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Send(ctx context.Context, msg Message) error {
	return ErrNotConfigured
}
