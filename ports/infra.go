package ports

import (
	"context"
	"io"

	"soundwell/domain/request"
)

// FileMeta tags an uploaded blob with its owners.
type FileMeta struct {
	ClientID    string
	TherapistID string
}

// FileInfo describes a stored blob.
type FileInfo struct {
	ID       string
	Name     string
	Length   int64
	Metadata FileMeta
}

// FileStore holds uploaded session audio.
type FileStore interface {
	Upload(ctx context.Context, name string, r io.Reader, meta FileMeta) (string, error)
	Find(ctx context.Context, id string) (*FileInfo, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	Remove(ctx context.Context, id string) error
}

// NewClientInvitationMail invites someone without an account yet.
type NewClientInvitationMail struct {
	Email              string
	TherapistName      string
	TherapistEmail     string
	ChangePasswordLink string
}

// ExistingClientInvitationMail invites an already-registered client.
type ExistingClientInvitationMail struct {
	Email          string
	TherapistName  string
	TherapistEmail string
}

// AudioAcceptanceMail notifies a client their upload was accepted.
type AudioAcceptanceMail struct {
	Email          string
	TherapistName  string
	TherapistEmail string
	FileName       string
}

// MailSender delivers transactional mail. Failures surface as MAIL_ERROR
// and are never retried here.
type MailSender interface {
	SendNewClientInvitation(ctx context.Context, m NewClientInvitationMail) error
	SendExistingClientInvitation(ctx context.Context, m ExistingClientInvitationMail) error
	SendAudioAcceptance(ctx context.Context, m AudioAcceptanceMail) error
}

// EventPublisher emits request lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event request.Event) error
}

// IdentityUser is the provider-side account record.
type IdentityUser struct {
	ID    string
	Email string
}

// IdentityProvider manages provider-side accounts for invited clients.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email string) (*IdentityUser, error)
	ChangePasswordTicket(ctx context.Context, email string) (string, error)
}
