// Package ui is the HTTP surface: thin gin handlers that decode
// requests, delegate to the app services and encode results. Actor
// identity arrives from the upstream gateway as headers; this layer
// performs no authentication of its own.
package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/app"
	"soundwell/domain/user"
	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

const actorKey = "actor"

// Server hosts the therapist and client APIs.
type Server struct {
	router     *gin.Engine
	log        *logrus.Logger
	users      ports.UserRepository
	therapists *app.TherapistService
	clients    *app.ClientService
	reporting  *app.ReportingService
}

// NewServer wires the routes.
func NewServer(
	cfg config.ServerConfig,
	log *logrus.Logger,
	users ports.UserRepository,
	therapists *app.TherapistService,
	clients *app.ClientService,
	reporting *app.ReportingService,
) *Server {
	gin.SetMode(cfg.GinMode)

	s := &Server{
		router:     gin.Default(),
		log:        log,
		users:      users,
		therapists: therapists,
		clients:    clients,
		reporting:  reporting,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	therapist := s.router.Group("/therapist", s.requireActor(user.RoleTherapist))
	{
		therapist.POST("/invitations", s.handleInviteClients)
		therapist.GET("/invitations", s.handleTherapistInvitations)
		therapist.GET("/requests", s.handleTherapistRequests)
		therapist.PATCH("/requests/:id/accept", s.handleAcceptRequest)
		therapist.PATCH("/requests/:id/reject", s.handleRejectRequest)
		therapist.GET("/requests/:id/audio", s.handleDownloadAudio)
		therapist.GET("/clients", s.handleClientOverview)
		therapist.GET("/clients/:id", s.handleClientInfo)
		therapist.PATCH("/clients/:id", s.handleUpdateClientInfo)
		therapist.GET("/clients/:id/course", s.handleClientCourse)
		therapist.PATCH("/clients/:id/course", s.handleUpdateClientCourse)
		therapist.GET("/clients/:id/reports/adverse-reactions", s.handleAdverseReactions)
		therapist.GET("/clients/:id/reports/health-info", s.handleHealthInfo)
		therapist.GET("/clients/:id/reports/listening", s.handleListeningReport)
		therapist.GET("/clients/:id/reports/listening/export", s.handleListeningExport)
		therapist.GET("/clients/:id/reports/comments", s.handleCommentReport)
		therapist.GET("/clients/:id/reports/day", s.handleReportByDay)
	}

	client := s.router.Group("/client", s.requireActor(user.RoleClient))
	{
		client.GET("/invitations", s.handleClientInvitations)
		client.PATCH("/invitations/:id/accept", s.handleAcceptInvitation)
		client.POST("/audio", s.handleUploadAudio)
		client.GET("/requests", s.handleClientRequests)
		client.POST("/sessions", s.handleSubmitSession)
		client.GET("/profile", s.handleGetProfile)
		client.PATCH("/profile", s.handleUpdateProfile)
	}
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("http server listening")
	return s.router.Run(addr)
}

// requireActor resolves the gateway-supplied X-User-Id header into an
// account and enforces the role of the route group.
func (s *Server) requireActor(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.GetHeader("X-User-Id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid actor"})
			return
		}

		actor, err := s.users.FindByID(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown actor"})
			return
		}
		if actor.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "wrong role for this resource"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func (s *Server) actor(c *gin.Context) *user.User {
	return c.MustGet(actorKey).(*user.User)
}

// respondError translates the error taxonomy onto HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeConflict:
		status = http.StatusConflict
	case errors.CodeMailError, errors.CodeExternalService:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, errors.InvalidInput("invalid id")
	}
	return id, nil
}
