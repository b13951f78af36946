package app

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"soundwell/adapters/excel"
	"soundwell/domain/invitation"
	"soundwell/domain/report"
	"soundwell/domain/request"
	"soundwell/domain/user"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// TherapistService orchestrates the therapist-facing use cases:
// inviting clients, reviewing audio requests and reading client
// overviews and reports.
type TherapistService struct {
	users       ports.UserRepository
	invitations ports.InvitationRepository
	requests    ports.RequestRepository
	files       ports.FileStore
	mail        ports.MailSender
	identity    ports.IdentityProvider
	events      ports.EventPublisher
	reporting   *ReportingService
}

// NewTherapistService creates a therapist service.
func NewTherapistService(
	users ports.UserRepository,
	invitations ports.InvitationRepository,
	requests ports.RequestRepository,
	files ports.FileStore,
	mail ports.MailSender,
	identity ports.IdentityProvider,
	events ports.EventPublisher,
	reporting *ReportingService,
) *TherapistService {
	return &TherapistService{
		users:       users,
		invitations: invitations,
		requests:    requests,
		files:       files,
		mail:        mail,
		identity:    identity,
		events:      events,
		reporting:   reporting,
	}
}

// InvitationInput is one invite in a batch.
type InvitationInput struct {
	Email    string
	Nickname string
}

// InvitationListing pairs a page of invitations with the total count.
type InvitationListing struct {
	Total       int
	Invitations []invitation.Invitation
}

// InviteClients invites a batch of clients concurrently. Emails without
// an account go through the new-client flow; known emails get an
// invitation record instead.
func (s *TherapistService) InviteClients(ctx context.Context, therapist *user.User, invites []InvitationInput) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, invite := range invites {
		invite := invite
		g.Go(func() error {
			existing, err := s.users.FindByEmail(ctx, invite.Email)
			if errors.IsNotFound(err) {
				return s.inviteNewClient(ctx, therapist, invite)
			}
			if err != nil {
				return err
			}
			return s.inviteExistingClient(ctx, therapist, existing)
		})
	}
	return g.Wait()
}

// inviteNewClient registers the email with the identity provider,
// creates the invited account already attached to the therapist, and
// mails a password-setup link.
func (s *TherapistService) inviteNewClient(ctx context.Context, therapist *user.User, invite InvitationInput) error {
	identityUser, err := s.identity.CreateUser(ctx, invite.Email)
	if err != nil {
		return err
	}

	_, err = s.users.CreateIfNotExist(ctx, &user.User{
		Email:     identityUser.Email,
		Nickname:  invite.Nickname,
		Role:      user.RoleClient,
		Status:    user.StatusInvited,
		Therapist: &therapist.ID,
		Course: &user.Course{
			MaxTimePerDay:     user.DefaultMaxTimePerDay,
			MaxTimePerSession: user.DefaultMaxTimePerSession,
		},
	})
	if err != nil {
		return err
	}

	link, err := s.identity.ChangePasswordTicket(ctx, identityUser.Email)
	if err != nil {
		return err
	}

	return s.mail.SendNewClientInvitation(ctx, ports.NewClientInvitationMail{
		Email:              identityUser.Email,
		TherapistName:      therapist.FirstName,
		TherapistEmail:     therapist.Email,
		ChangePasswordLink: link,
	})
}

// inviteExistingClient records an invitation for an already-registered
// client and mails them. Inviting one's own client is a conflict.
func (s *TherapistService) inviteExistingClient(ctx context.Context, therapist *user.User, client *user.User) error {
	if client.Therapist != nil && *client.Therapist == therapist.ID {
		return errors.Conflict("client is already attached to this therapist")
	}

	if _, err := s.invitations.Create(ctx, therapist.Email, client.Email); err != nil {
		return err
	}

	return s.mail.SendExistingClientInvitation(ctx, ports.ExistingClientInvitationMail{
		Email:          client.Email,
		TherapistName:  therapist.FirstName,
		TherapistEmail: therapist.Email,
	})
}

// GetInvitations lists the invitations the therapist has sent.
func (s *TherapistService) GetInvitations(ctx context.Context, email string, page ports.Page) (*InvitationListing, error) {
	invitations, total, err := s.invitations.FindBySender(ctx, email, page)
	if err != nil {
		return nil, err
	}
	return &InvitationListing{Total: total, Invitations: invitations}, nil
}

// AcceptRequest approves a pending audio request: the stored audio is
// removed, the status flips once, the lifecycle event goes out and the
// client is notified by mail.
func (s *TherapistService) AcceptRequest(ctx context.Context, requestID primitive.ObjectID) (*request.Request, error) {
	reviewed, err := s.reviewRequest(ctx, requestID, request.StatusAccept, request.EventAccepted)
	if err != nil {
		return nil, err
	}

	therapist, err := s.users.FindByID(ctx, reviewed.Therapist)
	if err != nil {
		return nil, err
	}
	err = s.mail.SendAudioAcceptance(ctx, ports.AudioAcceptanceMail{
		Email:          reviewed.Meta.ClientEmail,
		TherapistName:  therapist.FirstName,
		TherapistEmail: therapist.Email,
		FileName:       reviewed.Meta.FileName,
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// RejectRequest declines a pending audio request and removes the audio.
func (s *TherapistService) RejectRequest(ctx context.Context, requestID primitive.ObjectID) (*request.Request, error) {
	return s.reviewRequest(ctx, requestID, request.StatusReject, request.EventRejected)
}

// reviewRequest is the shared accept/reject path: load, verify the
// audio exists, drop it, flip the status, publish.
func (s *TherapistService) reviewRequest(ctx context.Context, requestID primitive.ObjectID, status request.Status, eventName string) (*request.Request, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if _, err := s.files.Find(ctx, req.AudioID); err != nil {
		return nil, err
	}
	if err := s.files.Remove(ctx, req.AudioID); err != nil {
		return nil, err
	}

	updated, err := s.requests.UpdateStatus(ctx, requestID, status)
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, newRequestEvent(eventName, updated)); err != nil {
		return nil, err
	}
	return updated, nil
}

// GetRequests lists the therapist's requests, optionally by status.
func (s *TherapistService) GetRequests(ctx context.Context, therapistID primitive.ObjectID, status request.Status, page ports.Page) (*ports.RequestListing, error) {
	return s.requests.FindByTherapist(ctx, therapistID, status, page)
}

// GetClients returns the paginated client overview.
func (s *TherapistService) GetClients(ctx context.Context, therapistID primitive.ObjectID, params ports.OverviewParams) (*report.ClientOverview, error) {
	return s.users.ClientOverview(ctx, therapistID, params)
}

// GetClientInfo returns one client, only if they belong to the
// therapist.
func (s *TherapistService) GetClientInfo(ctx context.Context, therapistID, clientID primitive.ObjectID) (*user.User, error) {
	return s.users.FindClientOfTherapist(ctx, therapistID, clientID)
}

// UpdateClientInfo patches a client's profile fields.
func (s *TherapistService) UpdateClientInfo(ctx context.Context, clientID primitive.ObjectID, update user.ProfileUpdate) (*user.User, error) {
	return s.users.UpdateProfile(ctx, clientID, update)
}

// GetClientCourse returns a client's listening course. The client must
// belong to the therapist.
func (s *TherapistService) GetClientCourse(ctx context.Context, therapistID, clientID primitive.ObjectID) (*user.Course, error) {
	client, err := s.users.FindClientOfTherapist(ctx, therapistID, clientID)
	if err != nil {
		return nil, err
	}
	if client.Course == nil {
		return nil, errors.NotFound("course")
	}
	return client.Course, nil
}

// UpdateClientCourse patches a client's course limits and schedule. The
// client must belong to the therapist.
func (s *TherapistService) UpdateClientCourse(ctx context.Context, therapistID, clientID primitive.ObjectID, update user.CourseUpdate) (*user.User, error) {
	if _, err := s.users.FindClientOfTherapist(ctx, therapistID, clientID); err != nil {
		return nil, err
	}
	return s.users.UpdateCourse(ctx, clientID, update)
}

// DownloadAudio opens the stored audio of one of the therapist's
// requests for streaming. The caller closes the reader.
func (s *TherapistService) DownloadAudio(ctx context.Context, therapistID, requestID primitive.ObjectID) (*ports.FileInfo, io.ReadCloser, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.Therapist != therapistID {
		return nil, nil, errors.NotFound("request")
	}

	info, err := s.files.Find(ctx, req.AudioID)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.files.Open(ctx, req.AudioID)
	if err != nil {
		return nil, nil, err
	}
	return info, stream, nil
}

// ExportListeningReport renders a client's listening report as an xlsx
// workbook, one sheet per year. The client must belong to the
// therapist.
func (s *TherapistService) ExportListeningReport(ctx context.Context, therapistID, clientID primitive.ObjectID, startDate, endDate string) (*bytes.Buffer, error) {
	client, err := s.users.FindClientOfTherapist(ctx, therapistID, clientID)
	if err != nil {
		return nil, err
	}

	years, err := s.reporting.GetListeningReport(ctx, clientID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return excel.ListeningWorkbook(client.Nickname, years)
}

// newRequestEvent stamps one lifecycle event for publishing.
func newRequestEvent(name string, req *request.Request) request.Event {
	return request.Event{
		Name:          name,
		CorrelationID: uuid.NewString(),
		RequestID:     req.ID.Hex(),
		Client:        req.Client.Hex(),
		Therapist:     req.Therapist.Hex(),
		OccurredAt:    time.Now().UTC(),
	}
}
