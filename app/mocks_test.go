package app

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/domain/comment"
	"soundwell/domain/invitation"
	"soundwell/domain/question"
	"soundwell/domain/report"
	"soundwell/domain/request"
	"soundwell/domain/session"
	"soundwell/domain/user"
	"soundwell/ports"
)

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, s *session.Session) (*session.Session, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockSessionRepository) CountAdverseReactions(ctx context.Context, clientID primitive.ObjectID, r report.Range, topics []question.Topic) ([]report.AdverseReactionRow, error) {
	args := m.Called(ctx, clientID, r, topics)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.AdverseReactionRow), args.Error(1)
}

func (m *mockSessionRepository) HealthInfo(ctx context.Context, clientID primitive.ObjectID, r report.Range) ([]report.HealthInfoRow, error) {
	args := m.Called(ctx, clientID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.HealthInfoRow), args.Error(1)
}

func (m *mockSessionRepository) ListeningReport(ctx context.Context, clientID primitive.ObjectID, r report.Range) ([]report.ListeningRow, error) {
	args := m.Called(ctx, clientID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ListeningRow), args.Error(1)
}

func (m *mockSessionRepository) CommentReport(ctx context.Context, clientID primitive.ObjectID, r report.Range) ([]report.CommentRow, error) {
	args := m.Called(ctx, clientID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CommentRow), args.Error(1)
}

func (m *mockSessionRepository) FindByDay(ctx context.Context, clientID primitive.ObjectID, day time.Time) ([]session.Resolved, error) {
	args := m.Called(ctx, clientID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Resolved), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateIfNotExist(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) AttachTherapist(ctx context.Context, clientID, therapistID primitive.ObjectID) error {
	return m.Called(ctx, clientID, therapistID).Error(0)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, clientID primitive.ObjectID, update user.ProfileUpdate) (*user.User, error) {
	args := m.Called(ctx, clientID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) UpdateCourse(ctx context.Context, clientID primitive.ObjectID, update user.CourseUpdate) (*user.User, error) {
	args := m.Called(ctx, clientID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) FindClientOfTherapist(ctx context.Context, therapistID, clientID primitive.ObjectID) (*user.User, error) {
	args := m.Called(ctx, therapistID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) ClientOverview(ctx context.Context, therapistID primitive.ObjectID, params ports.OverviewParams) (*report.ClientOverview, error) {
	args := m.Called(ctx, therapistID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.ClientOverview), args.Error(1)
}

type mockQuestionRepository struct {
	mock.Mock
}

func (m *mockQuestionRepository) SeedQuestions(ctx context.Context, qs []question.Question) error {
	return m.Called(ctx, qs).Error(0)
}

func (m *mockQuestionRepository) SeedTopics(ctx context.Context, topics []question.TopicEntry) error {
	return m.Called(ctx, topics).Error(0)
}

func (m *mockQuestionRepository) SeedTypes(ctx context.Context, types []question.TypeEntry) error {
	return m.Called(ctx, types).Error(0)
}

func (m *mockQuestionRepository) FindByTypeAndTopic(ctx context.Context, t question.Type, topic question.Topic) (*question.Question, error) {
	args := m.Called(ctx, t, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*question.Question), args.Error(1)
}

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) CreateMany(ctx context.Context, comments []comment.Comment) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

type mockRequestRepository struct {
	mock.Mock
}

func (m *mockRequestRepository) Create(ctx context.Context, r *request.Request) (*request.Request, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.Request), args.Error(1)
}

func (m *mockRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*request.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.Request), args.Error(1)
}

func (m *mockRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status request.Status) (*request.Request, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.Request), args.Error(1)
}

func (m *mockRequestRepository) FindByClient(ctx context.Context, clientID primitive.ObjectID, status request.Status, page ports.Page) (*ports.RequestListing, error) {
	args := m.Called(ctx, clientID, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RequestListing), args.Error(1)
}

func (m *mockRequestRepository) FindByTherapist(ctx context.Context, therapistID primitive.ObjectID, status request.Status, page ports.Page) (*ports.RequestListing, error) {
	args := m.Called(ctx, therapistID, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RequestListing), args.Error(1)
}

func (m *mockRequestRepository) FindExpired(ctx context.Context, olderThan time.Time) (*ports.RequestListing, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RequestListing), args.Error(1)
}

type mockInvitationRepository struct {
	mock.Mock
}

func (m *mockInvitationRepository) Create(ctx context.Context, from, to string) (*invitation.Invitation, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invitation.Invitation), args.Error(1)
}

func (m *mockInvitationRepository) Remove(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInvitationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*invitation.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invitation.Invitation), args.Error(1)
}

func (m *mockInvitationRepository) FindBySender(ctx context.Context, email string, page ports.Page) ([]invitation.Invitation, int, error) {
	args := m.Called(ctx, email, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]invitation.Invitation), args.Int(1), args.Error(2)
}

func (m *mockInvitationRepository) FindByRecipient(ctx context.Context, email string, page ports.Page) ([]invitation.Invitation, int, error) {
	args := m.Called(ctx, email, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]invitation.Invitation), args.Int(1), args.Error(2)
}

type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) Upload(ctx context.Context, name string, r io.Reader, meta ports.FileMeta) (string, error) {
	args := m.Called(ctx, name, r, meta)
	return args.String(0), args.Error(1)
}

func (m *mockFileStore) Find(ctx context.Context, id string) (*ports.FileInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.FileInfo), args.Error(1)
}

func (m *mockFileStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockFileStore) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockMailSender struct {
	mock.Mock
}

func (m *mockMailSender) SendNewClientInvitation(ctx context.Context, mail ports.NewClientInvitationMail) error {
	return m.Called(ctx, mail).Error(0)
}

func (m *mockMailSender) SendExistingClientInvitation(ctx context.Context, mail ports.ExistingClientInvitationMail) error {
	return m.Called(ctx, mail).Error(0)
}

func (m *mockMailSender) SendAudioAcceptance(ctx context.Context, mail ports.AudioAcceptanceMail) error {
	return m.Called(ctx, mail).Error(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, event request.Event) error {
	return m.Called(ctx, event).Error(0)
}

type mockIdentityProvider struct {
	mock.Mock
}

func (m *mockIdentityProvider) CreateUser(ctx context.Context, email string) (*ports.IdentityUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.IdentityUser), args.Error(1)
}

func (m *mockIdentityProvider) ChangePasswordTicket(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
