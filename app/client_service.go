package app

import (
	"context"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"soundwell/domain/comment"
	"soundwell/domain/question"
	"soundwell/domain/request"
	"soundwell/domain/session"
	"soundwell/domain/user"
	"soundwell/ports"
)

// ClientService orchestrates the client-facing use cases: accepting
// invitations, uploading audio and submitting completed sessions.
type ClientService struct {
	users       ports.UserRepository
	invitations ports.InvitationRepository
	requests    ports.RequestRepository
	sessions    ports.SessionRepository
	comments    ports.CommentRepository
	questions   ports.QuestionRepository
	files       ports.FileStore
	events      ports.EventPublisher
}

// NewClientService creates a client service.
func NewClientService(
	users ports.UserRepository,
	invitations ports.InvitationRepository,
	requests ports.RequestRepository,
	sessions ports.SessionRepository,
	comments ports.CommentRepository,
	questions ports.QuestionRepository,
	files ports.FileStore,
	events ports.EventPublisher,
) *ClientService {
	return &ClientService{
		users:       users,
		invitations: invitations,
		requests:    requests,
		sessions:    sessions,
		comments:    comments,
		questions:   questions,
		files:       files,
		events:      events,
	}
}

// AcceptInvitation attaches the invited client to the inviting
// therapist and removes the invitation record.
func (s *ClientService) AcceptInvitation(ctx context.Context, invitationID primitive.ObjectID) error {
	invite, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return err
	}

	therapist, err := s.users.FindByEmail(ctx, invite.From)
	if err != nil {
		return err
	}
	client, err := s.users.FindByEmail(ctx, invite.To)
	if err != nil {
		return err
	}

	if err := s.users.AttachTherapist(ctx, client.ID, therapist.ID); err != nil {
		return err
	}
	return s.invitations.Remove(ctx, invitationID)
}

// GetInvitations lists the invitations addressed to the client.
func (s *ClientService) GetInvitations(ctx context.Context, email string, page ports.Page) (*InvitationListing, error) {
	invitations, total, err := s.invitations.FindByRecipient(ctx, email, page)
	if err != nil {
		return nil, err
	}
	return &InvitationListing{Total: total, Invitations: invitations}, nil
}

// AudioUpload is one uploaded audio file awaiting review.
type AudioUpload struct {
	FileName    string
	Content     io.Reader
	ClientEmail string
}

// UploadAudio stores the audio blob and opens a pending review request
// for the client's therapist.
func (s *ClientService) UploadAudio(ctx context.Context, clientID, therapistID primitive.ObjectID, upload AudioUpload) (*request.Request, error) {
	audioID, err := s.files.Upload(ctx, upload.FileName, upload.Content, ports.FileMeta{
		ClientID:    clientID.Hex(),
		TherapistID: therapistID.Hex(),
	})
	if err != nil {
		return nil, err
	}

	created, err := s.requests.Create(ctx, &request.Request{
		Client:    clientID,
		Therapist: therapistID,
		AudioID:   audioID,
		Meta: request.Meta{
			FileName:    upload.FileName,
			ClientEmail: upload.ClientEmail,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, newRequestEvent(request.EventCreated, created)); err != nil {
		return nil, err
	}
	return created, nil
}

// GetRequests lists the client's requests, optionally by status.
func (s *ClientService) GetRequests(ctx context.Context, clientID primitive.ObjectID, status request.Status, page ports.Page) (*ports.RequestListing, error) {
	return s.requests.FindByClient(ctx, clientID, status, page)
}

// AnswerInput is one answered questionnaire entry, keyed by the
// catalog's (type, topic) pair.
type AnswerInput struct {
	Type   question.Type
	Topic  question.Topic
	Answer string
}

// CommentInput is one note written during the session.
type CommentInput struct {
	Title   string
	Content string
}

// SubmitSessionInput is a completed listening session as the client
// hands it in.
type SubmitSessionInput struct {
	StartTime     time.Time
	Duration      int
	Pause         int
	Interruptions int
	Questions     []AnswerInput
	Comments      []CommentInput
	CourseStart   *time.Time
	CourseEnd     *time.Time
	CourseTotal   *int
}

// SubmitSession persists a completed session. Comment creation, answer
// resolution against the catalog and the course update fan out
// concurrently; the session record is created last, atomically.
func (s *ClientService) SubmitSession(ctx context.Context, clientID primitive.ObjectID, input SubmitSessionInput) (*session.Session, error) {
	var (
		commentIDs []primitive.ObjectID
		answers    = make([]session.Answer, len(input.Questions))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if len(input.Comments) == 0 {
			commentIDs = []primitive.ObjectID{}
			return nil
		}
		comments := make([]comment.Comment, 0, len(input.Comments))
		for _, c := range input.Comments {
			comments = append(comments, comment.Comment{
				Title:   c.Title,
				Content: c.Content,
				Author:  clientID,
			})
		}
		ids, err := s.comments.CreateMany(gctx, comments)
		if err != nil {
			return err
		}
		commentIDs = ids
		return nil
	})

	for i, answer := range input.Questions {
		i, answer := i, answer
		g.Go(func() error {
			q, err := s.questions.FindByTypeAndTopic(gctx, answer.Type, answer.Topic)
			if err != nil {
				return err
			}
			// Each goroutine writes its own index.
			answers[i] = session.Answer{Question: q.ID, Answer: answer.Answer}
			return nil
		})
	}

	g.Go(func() error {
		_, err := s.users.UpdateCourse(gctx, clientID, user.CourseUpdate{
			TotalTime: input.CourseTotal,
			StartDate: input.CourseStart,
			EndDate:   input.CourseEnd,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.sessions.Create(ctx, &session.Session{
		Author:        clientID,
		StartTime:     input.StartTime,
		Duration:      input.Duration,
		Pause:         input.Pause,
		Interruptions: input.Interruptions,
		Questions:     answers,
		Comments:      commentIDs,
	})
}

// GetProfile returns the client's own account record.
func (s *ClientService) GetProfile(ctx context.Context, clientID primitive.ObjectID) (*user.User, error) {
	return s.users.FindByID(ctx, clientID)
}

// UpdateProfile patches the client's own profile fields.
func (s *ClientService) UpdateProfile(ctx context.Context, clientID primitive.ObjectID, update user.ProfileUpdate) (*user.User, error) {
	return s.users.UpdateProfile(ctx, clientID, update)
}
