package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/pkg/logger"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DigestSender delivers plain-text mails through the Gmail API
type DigestSender struct {
	gmailService *gmail.Service
	sender       string
	recipients   []string
	logger       logger.Logger
}

var _ repository.NotificationRepository = (*DigestSender)(nil)

// NewDigestSender creates a Gmail sender. sender is the From address, or
// "me" to let Gmail use the authorized account.
func NewDigestSender(ctx context.Context, sender string, recipients []string, logger logger.Logger, opts ...option.ClientOption) (*DigestSender, error) {
	if len(recipients) == 0 {
		return nil, errors.New("at least one digest recipient is required")
	}

	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &DigestSender{
		gmailService: service,
		sender:       sender,
		recipients:   recipients,
		logger:       logger,
	}, nil
}

// Send mails subject and body to every recipient in one message
func (s *DigestSender) Send(ctx context.Context, subject, body string) error {
	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(s.buildMessage(subject, body)),
	}

	sent, err := s.gmailService.Users.Messages.Send("me", message).Context(ctx).Do()
	if err != nil {
		s.logger.Error("Failed to send message", "error", err)
		return fmt.Errorf("gmail send: %w", err)
	}

	s.logger.Info("Message sent",
		"messageId", sent.Id,
		"recipients", len(s.recipients))
	return nil
}

func (s *DigestSender) buildMessage(subject, body string) []byte {
	var buf bytes.Buffer
	if s.sender != "" && s.sender != "me" {
		fmt.Fprintf(&buf, "From: %s\r\n", s.sender)
	}
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(s.recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.Bytes()
}
