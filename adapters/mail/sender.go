// Package mail delivers transactional mail through Mailgun. Bodies are
// authored as markdown and rendered to HTML at send time; the markdown
// source doubles as the plain-text part.
package mail

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"

	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// Sender implements ports.MailSender on the Mailgun messages API.
type Sender struct {
	client *mailgun.MailgunImpl
	domain string
	from   string
}

// NewSender builds a sender from the mail configuration.
func NewSender(cfg config.MailConfig) *Sender {
	return &Sender{
		client: mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		domain: cfg.Domain,
		from:   cfg.Sender,
	}
}

// SendNewClientInvitation invites someone who has no account yet. The
// mail carries the password-setup link issued by the identity provider.
func (s *Sender) SendNewClientInvitation(ctx context.Context, m ports.NewClientInvitationMail) error {
	body := fmt.Sprintf(`# You have been invited to Soundwell

**%s** (%s) invited you to track your wellness journey together.

Set your password to get started:

[Set your password](%s)

If you did not expect this invitation, you can ignore this mail.`,
		m.TherapistName, m.TherapistEmail, m.ChangePasswordLink)

	return s.send(ctx, m.Email, "An invitation from Soundwell", body)
}

// SendExistingClientInvitation invites an already-registered client.
func (s *Sender) SendExistingClientInvitation(ctx context.Context, m ports.ExistingClientInvitationMail) error {
	body := fmt.Sprintf(`# You have been invited to Soundwell

**%s** (%s) invited you to track your wellness journey together.

Log in to your account to accept the invitation.`,
		m.TherapistName, m.TherapistEmail)

	return s.send(ctx, m.Email, "An invitation from Soundwell", body)
}

// SendAudioAcceptance notifies the client their upload was approved.
func (s *Sender) SendAudioAcceptance(ctx context.Context, m ports.AudioAcceptanceMail) error {
	body := fmt.Sprintf(`# Your audio was accepted

**%s** (%s) accepted your uploaded audio file **%s**.

It is now part of your course.`,
		m.TherapistName, m.TherapistEmail, m.FileName)

	return s.send(ctx, m.Email, "An acceptance from Soundwell", body)
}

func (s *Sender) send(ctx context.Context, to, subject, markdownBody string) error {
	message := s.client.NewMessage(s.from, subject, markdownBody, to)
	message.SetHtml(renderHTML(markdownBody))

	if _, _, err := s.client.Send(ctx, message); err != nil {
		return errors.MailError(err)
	}
	return nil
}

var _ ports.MailSender = (*Sender)(nil)
