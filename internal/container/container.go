// Package container wires the application's dependencies and manages
// their lifecycle.
package container

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"soundwell/adapters/auth0"
	"soundwell/adapters/gridfs"
	"soundwell/adapters/mail"
	mongoadapter "soundwell/adapters/mongo"
	"soundwell/adapters/rabbitmq"
	"soundwell/app"
	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Log    *logrus.Logger

	// Infrastructure
	Client   *mongo.Client
	Database *mongo.Database

	// Repositories
	Users       ports.UserRepository
	Sessions    ports.SessionRepository
	Questions   ports.QuestionRepository
	Comments    ports.CommentRepository
	Requests    ports.RequestRepository
	Invitations ports.InvitationRepository

	// Infrastructure ports
	Files    ports.FileStore
	Mail     ports.MailSender
	Identity ports.IdentityProvider
	Events   ports.EventPublisher

	// Services
	Reporting *app.ReportingService
	Therapist *app.TherapistService
	ClientSvc *app.ClientService
	Seeder    *app.Seeder
	Sweeper   *app.Sweeper

	publisher *rabbitmq.EventPublisher
}

// New connects the infrastructure and wires every service.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}

	client, db, err := mongoadapter.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	if err := mongoadapter.EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	files, err := gridfs.NewStore(db)
	if err != nil {
		return nil, err
	}

	publisher, err := rabbitmq.NewEventPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		Log:       log,
		Client:    client,
		Database:  db,
		Files:     files,
		Mail:      mail.NewSender(cfg.Mail),
		Identity:  auth0.NewClient(cfg.Auth0),
		Events:    publisher,
		publisher: publisher,
	}

	c.Users = mongoadapter.NewUserRepository(db)
	c.Sessions = mongoadapter.NewSessionRepository(db)
	c.Questions = mongoadapter.NewQuestionRepository(db)
	c.Comments = mongoadapter.NewCommentRepository(db)
	c.Requests = mongoadapter.NewRequestRepository(db)
	c.Invitations = mongoadapter.NewInvitationRepository(db)

	c.Reporting = app.NewReportingService(c.Sessions)
	c.Therapist = app.NewTherapistService(
		c.Users, c.Invitations, c.Requests, c.Files, c.Mail, c.Identity, c.Events, c.Reporting,
	)
	c.ClientSvc = app.NewClientService(
		c.Users, c.Invitations, c.Requests, c.Sessions, c.Comments, c.Questions, c.Files, c.Events,
	)
	c.Seeder = app.NewSeeder(c.Questions)
	c.Sweeper = app.NewSweeper(c.Requests, c.Files, c.Events, log, cfg.Sweeper)

	return c, nil
}

// Close releases the broker and store connections.
func (c *Container) Close(ctx context.Context) {
	if c.publisher != nil {
		c.publisher.Close()
	}
	if c.Client != nil {
		if err := c.Client.Disconnect(ctx); err != nil {
			c.Log.WithError(err).Warn("failed to disconnect from store")
		}
	}
}
