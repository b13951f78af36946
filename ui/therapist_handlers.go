package ui

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"soundwell/app"
	"soundwell/domain/question"
	"soundwell/domain/request"
	"soundwell/domain/user"
	"soundwell/ports"
)

type inviteClientsRequest struct {
	Invitations []struct {
		Email    string `json:"email" binding:"required,email"`
		Nickname string `json:"nickname"`
	} `json:"invitations" binding:"required,min=1"`
}

func (s *Server) handleInviteClients(c *gin.Context) {
	var body inviteClientsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invites := make([]app.InvitationInput, 0, len(body.Invitations))
	for _, i := range body.Invitations {
		invites = append(invites, app.InvitationInput{Email: i.Email, Nickname: i.Nickname})
	}

	if err := s.therapists.InviteClients(c.Request.Context(), s.actor(c), invites); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) handleTherapistInvitations(c *gin.Context) {
	listing, err := s.therapists.GetInvitations(c.Request.Context(), s.actor(c).Email, pageParams(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *Server) handleTherapistRequests(c *gin.Context) {
	listing, err := s.therapists.GetRequests(c.Request.Context(), s.actor(c).ID,
		request.Status(c.Query("status")), pageParams(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *Server) handleAcceptRequest(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	updated, err := s.therapists.AcceptRequest(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleRejectRequest(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	updated, err := s.therapists.RejectRequest(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleClientOverview(c *gin.Context) {
	page := pageParams(c)
	overview, err := s.therapists.GetClients(c.Request.Context(), s.actor(c).ID, ports.OverviewParams{
		Search: c.Query("search"),
		Filter: c.Query("filter"),
		Limit:  page.Limit,
		Skip:   page.Skip,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleClientInfo(c *gin.Context) {
	clientID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	client, err := s.therapists.GetClientInfo(c.Request.Context(), s.actor(c).ID, clientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

type updateClientRequest struct {
	Name *string `json:"name"`
}

func (s *Server) handleUpdateClientInfo(c *gin.Context) {
	clientID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	// Only the therapist's own clients are patchable.
	if _, err := s.therapists.GetClientInfo(c.Request.Context(), s.actor(c).ID, clientID); err != nil {
		s.respondError(c, err)
		return
	}

	var body updateClientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.therapists.UpdateClientInfo(c.Request.Context(), clientID, user.ProfileUpdate{Name: body.Name})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleClientCourse(c *gin.Context) {
	clientID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	course, err := s.therapists.GetClientCourse(c.Request.Context(), s.actor(c).ID, clientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

type updateCourseRequest struct {
	TotalTime         *int       `json:"totalTime"`
	MaxTimePerDay     *int       `json:"maxTimePerDay"`
	MaxTimePerSession *int       `json:"maxTimePerSession"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	ShouldReset       *bool      `json:"shouldReset"`
}

func (s *Server) handleUpdateClientCourse(c *gin.Context) {
	clientID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var body updateCourseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.therapists.UpdateClientCourse(c.Request.Context(), s.actor(c).ID, clientID, user.CourseUpdate{
		TotalTime:         body.TotalTime,
		MaxTimePerDay:     body.MaxTimePerDay,
		MaxTimePerSession: body.MaxTimePerSession,
		StartDate:         body.StartDate,
		EndDate:           body.EndDate,
		ShouldReset:       body.ShouldReset,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDownloadAudio(c *gin.Context) {
	requestID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	info, stream, err := s.therapists.DownloadAudio(c.Request.Context(), s.actor(c).ID, requestID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer stream.Close()

	c.DataFromReader(http.StatusOK, info.Length, "audio/mpeg", stream, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", info.Name),
	})
}

// clientForReport resolves the :id client, enforcing ownership.
func (s *Server) clientForReport(c *gin.Context) (*user.User, bool) {
	clientID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	client, err := s.therapists.GetClientInfo(c.Request.Context(), s.actor(c).ID, clientID)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return client, true
}

func (s *Server) handleAdverseReactions(c *gin.Context) {
	client, ok := s.clientForReport(c)
	if !ok {
		return
	}

	topics := make([]question.Topic, 0)
	for _, t := range c.QueryArray("topics") {
		topics = append(topics, question.Topic(t))
	}

	years, err := s.reporting.CountAdverseReactions(c.Request.Context(), client.ID,
		c.Query("start"), c.Query("end"), topics)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

func (s *Server) handleHealthInfo(c *gin.Context) {
	client, ok := s.clientForReport(c)
	if !ok {
		return
	}

	years, err := s.reporting.GetHealthInfo(c.Request.Context(), client.ID, c.Query("start"), c.Query("end"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

func (s *Server) handleListeningReport(c *gin.Context) {
	client, ok := s.clientForReport(c)
	if !ok {
		return
	}

	years, err := s.reporting.GetListeningReport(c.Request.Context(), client.ID, c.Query("start"), c.Query("end"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

func (s *Server) handleListeningExport(c *gin.Context) {
	client, ok := s.clientForReport(c)
	if !ok {
		return
	}

	workbook, err := s.therapists.ExportListeningReport(c.Request.Context(), s.actor(c).ID, client.ID,
		c.Query("start"), c.Query("end"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="listening-report.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook.Bytes())
}

func (s *Server) handleCommentReport(c *gin.Context) {
	client, ok := s.clientForReport(c)
	if !ok {
		return
	}

	years, err := s.reporting.GetCommentReport(c.Request.Context(), client.ID, c.Query("start"), c.Query("end"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

func (s *Server) handleReportByDay(c *gin.Context) {
	client, ok := s.clientForReport(c)
	if !ok {
		return
	}

	sessions, err := s.reporting.GetReportByDay(c.Request.Context(), client.ID, c.Query("date"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// pageParams reads limit/skip query parameters. Unparseable or absent
// values fall back to the repository defaults.
func pageParams(c *gin.Context) ports.Page {
	page := ports.Page{}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		page.Limit = limit
	}
	if skip, err := strconv.Atoi(c.Query("skip")); err == nil && skip > 0 {
		page.Skip = skip
	}
	return page
}
