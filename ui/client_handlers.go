package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"soundwell/app"
	"soundwell/domain/question"
	"soundwell/domain/request"
	"soundwell/domain/user"
	"soundwell/internal/errors"
)

func (s *Server) handleClientInvitations(c *gin.Context) {
	listing, err := s.clients.GetInvitations(c.Request.Context(), s.actor(c).Email, pageParams(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *Server) handleAcceptInvitation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.clients.AcceptInvitation(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUploadAudio(c *gin.Context) {
	actor := s.actor(c)
	if actor.Therapist == nil {
		s.respondError(c, errors.Conflict("client has no therapist to review the upload"))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	defer file.Close()

	created, err := s.clients.UploadAudio(c.Request.Context(), actor.ID, *actor.Therapist, app.AudioUpload{
		FileName:    header.Filename,
		Content:     file,
		ClientEmail: actor.Email,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleClientRequests(c *gin.Context) {
	listing, err := s.clients.GetRequests(c.Request.Context(), s.actor(c).ID,
		request.Status(c.Query("status")), pageParams(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

type submitSessionRequest struct {
	StartTime     time.Time `json:"startTime" binding:"required"`
	Duration      int       `json:"duration" binding:"min=0"`
	Pause         int       `json:"pause" binding:"min=0"`
	Interruptions int       `json:"interruptions" binding:"min=0"`
	Questions     []struct {
		Type   string `json:"type" binding:"required"`
		Topic  string `json:"topic" binding:"required"`
		Answer string `json:"answer" binding:"required"`
	} `json:"questions"`
	Comments []struct {
		Title   string `json:"title"`
		Content string `json:"content" binding:"required"`
	} `json:"comments"`
	CourseStart *time.Time `json:"courseStart"`
	CourseEnd   *time.Time `json:"courseEnd"`
	CourseTotal *int       `json:"courseAccumulateTime"`
}

func (s *Server) handleSubmitSession(c *gin.Context) {
	var body submitSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := app.SubmitSessionInput{
		StartTime:     body.StartTime,
		Duration:      body.Duration,
		Pause:         body.Pause,
		Interruptions: body.Interruptions,
		CourseStart:   body.CourseStart,
		CourseEnd:     body.CourseEnd,
		CourseTotal:   body.CourseTotal,
	}
	for _, q := range body.Questions {
		input.Questions = append(input.Questions, app.AnswerInput{
			Type:   question.Type(q.Type),
			Topic:  question.Topic(q.Topic),
			Answer: q.Answer,
		})
	}
	for _, cm := range body.Comments {
		input.Comments = append(input.Comments, app.CommentInput{Title: cm.Title, Content: cm.Content})
	}

	created, err := s.clients.SubmitSession(c.Request.Context(), s.actor(c).ID, input)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	profile, err := s.clients.GetProfile(c.Request.Context(), s.actor(c).ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name *string `json:"name"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var body updateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.clients.UpdateProfile(c.Request.Context(), s.actor(c).ID, user.ProfileUpdate{Name: body.Name})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
