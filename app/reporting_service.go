package app

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/domain/question"
	"soundwell/domain/report"
	"soundwell/domain/session"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// ReportingService is the boundary adapter in front of the report
// aggregations. It parses caller-supplied dates, delegates to the
// session repository, and reshapes grouped rows into per-year results.
// No business logic lives here beyond parsing and reshaping.
type ReportingService struct {
	sessions ports.SessionRepository
}

// NewReportingService creates a reporting service.
func NewReportingService(sessions ports.SessionRepository) *ReportingService {
	return &ReportingService{sessions: sessions}
}

// parseRange converts optional DD/MM/YYYY bounds into a report range.
// A supplied bound that fails to parse rejects the call before any
// store access. Absent bounds restrict nothing.
func parseRange(startDate, endDate string) (report.Range, error) {
	r := report.Range{}

	if startDate != "" {
		t, err := time.Parse(report.DateLayout, startDate)
		if err != nil {
			return report.Range{}, errors.InvalidInput("startDate must be DD/MM/YYYY")
		}
		r.Start = &t
	}
	if endDate != "" {
		t, err := time.Parse(report.DateLayout, endDate)
		if err != nil {
			return report.Range{}, errors.InvalidInput("endDate must be DD/MM/YYYY")
		}
		r.End = &t
	}
	return r, nil
}

// CountAdverseReactions reports yes-answered negative-effect questions
// per year and date, optionally narrowed to the requested topics.
func (s *ReportingService) CountAdverseReactions(ctx context.Context, clientID primitive.ObjectID, startDate, endDate string, topics []question.Topic) ([]report.AdverseReactionYear, error) {
	r, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.sessions.CountAdverseReactions(ctx, clientID, r, topics)
	if err != nil {
		return nil, err
	}

	years := make([]report.AdverseReactionYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, report.AdverseReactionYear{
			Year:  row.Year,
			Items: orEmpty(row.Items),
		})
	}
	return years, nil
}

// GetHealthInfo reports averaged rating answers per year, topic and
// date.
func (s *ReportingService) GetHealthInfo(ctx context.Context, clientID primitive.ObjectID, startDate, endDate string) ([]report.HealthInfoYear, error) {
	r, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.sessions.HealthInfo(ctx, clientID, r)
	if err != nil {
		return nil, err
	}

	years := make([]report.HealthInfoYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, report.HealthInfoYear{
			Year:  row.Year,
			Items: orEmpty(row.Items),
		})
	}
	return years, nil
}

// GetListeningReport reports summed listening activity per year and
// date.
func (s *ReportingService) GetListeningReport(ctx context.Context, clientID primitive.ObjectID, startDate, endDate string) ([]report.ListeningYear, error) {
	r, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.sessions.ListeningReport(ctx, clientID, r)
	if err != nil {
		return nil, err
	}

	years := make([]report.ListeningYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, report.ListeningYear{
			Year:  row.Year,
			Items: orEmpty(row.Items),
		})
	}
	return years, nil
}

// GetCommentReport reports per-day comment counts per year.
func (s *ReportingService) GetCommentReport(ctx context.Context, clientID primitive.ObjectID, startDate, endDate string) ([]report.CommentYear, error) {
	r, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.sessions.CommentReport(ctx, clientID, r)
	if err != nil {
		return nil, err
	}

	years := make([]report.CommentYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, report.CommentYear{
			Year:  row.Year,
			Items: orEmpty(row.Items),
		})
	}
	return years, nil
}

// GetReportByDay returns the client's fully resolved sessions for one
// calendar day. The date is mandatory here, unlike the range reports.
func (s *ReportingService) GetReportByDay(ctx context.Context, clientID primitive.ObjectID, date string) ([]session.Resolved, error) {
	if date == "" {
		return nil, errors.InvalidInput("date is required")
	}
	day, err := time.Parse(report.DateLayout, date)
	if err != nil {
		return nil, errors.InvalidInput("date must be DD/MM/YYYY")
	}

	return s.sessions.FindByDay(ctx, clientID, day)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
