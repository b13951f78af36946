package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/domain/question"
	"soundwell/domain/report"
	"soundwell/domain/session"
	"soundwell/internal/errors"
)

func TestParseRange(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		r, err := parseRange("01/03/2023", "31/03/2023")
		require.NoError(t, err)
		assert.True(t, r.Bounded())
		assert.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), *r.Start)
		assert.Equal(t, time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), *r.End)
	})

	t.Run("no bounds restrict nothing", func(t *testing.T) {
		r, err := parseRange("", "")
		require.NoError(t, err)
		assert.False(t, r.Bounded())
	})

	t.Run("single bound parses but does not restrict", func(t *testing.T) {
		r, err := parseRange("01/03/2023", "")
		require.NoError(t, err)
		assert.False(t, r.Bounded())
		assert.NotNil(t, r.Start)
	})

	t.Run("day and month are not swapped", func(t *testing.T) {
		r, err := parseRange("05/04/2023", "05/04/2023")
		require.NoError(t, err)
		assert.Equal(t, time.April, r.Start.Month())
		assert.Equal(t, 5, r.Start.Day())
	})

	t.Run("malformed bound is an input error", func(t *testing.T) {
		for _, bad := range []string{"2023-03-01", "31/31/2023", "tomorrow"} {
			_, err := parseRange(bad, "")
			assert.True(t, errors.IsInvalidInput(err), "expected invalid input for %q", bad)
		}
	})
}

func TestCountAdverseReactions(t *testing.T) {
	clientID := primitive.NewObjectID()
	topics := []question.Topic{question.TopicSleep}

	t.Run("reshapes rows to year items", func(t *testing.T) {
		sessions := &mockSessionRepository{}
		sessions.On("CountAdverseReactions", mock.Anything, clientID, mock.Anything, topics).
			Return([]report.AdverseReactionRow{
				{Year: 2024, Items: []report.DateCount{{Date: "12/01/2024", Count: 2}}},
				{Year: 2023, Items: nil},
			}, nil)

		service := NewReportingService(sessions)
		years, err := service.CountAdverseReactions(context.Background(), clientID, "", "", topics)
		require.NoError(t, err)

		require.Len(t, years, 2)
		assert.Equal(t, 2024, years[0].Year)
		assert.Equal(t, []report.DateCount{{Date: "12/01/2024", Count: 2}}, years[0].Items)
		// A year without rows still serializes as an empty array.
		assert.Equal(t, []report.DateCount{}, years[1].Items)
	})

	t.Run("bad date rejects before any store call", func(t *testing.T) {
		sessions := &mockSessionRepository{}

		service := NewReportingService(sessions)
		_, err := service.CountAdverseReactions(context.Background(), clientID, "not-a-date", "", nil)

		assert.True(t, errors.IsInvalidInput(err))
		sessions.AssertNotCalled(t, "CountAdverseReactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetHealthInfo(t *testing.T) {
	clientID := primitive.NewObjectID()

	sessions := &mockSessionRepository{}
	sessions.On("HealthInfo", mock.Anything, clientID, mock.MatchedBy(func(r report.Range) bool {
		return r.Bounded()
	})).Return([]report.HealthInfoRow{
		{Year: 2023, Items: []report.TopicSeries{
			{Topic: "sleep", Items: []report.DateValue{{Date: "02/06/2023", Value: 5}}},
		}},
	}, nil)

	service := NewReportingService(sessions)
	years, err := service.GetHealthInfo(context.Background(), clientID, "01/06/2023", "30/06/2023")
	require.NoError(t, err)

	require.Len(t, years, 1)
	assert.Equal(t, 2023, years[0].Year)
	assert.Equal(t, "sleep", years[0].Items[0].Topic)
	sessions.AssertExpectations(t)
}

func TestGetListeningReport(t *testing.T) {
	clientID := primitive.NewObjectID()

	sessions := &mockSessionRepository{}
	sessions.On("ListeningReport", mock.Anything, clientID, report.Range{}).
		Return([]report.ListeningRow{
			{Year: 2024, Items: []report.ListeningDay{{Date: "03/02/2024", Duration: 1200, Sessions: 2}}},
		}, nil)

	service := NewReportingService(sessions)
	years, err := service.GetListeningReport(context.Background(), clientID, "", "")
	require.NoError(t, err)

	require.Len(t, years, 1)
	assert.Equal(t, 1200, years[0].Items[0].Duration)
}

func TestGetCommentReport(t *testing.T) {
	clientID := primitive.NewObjectID()

	sessions := &mockSessionRepository{}
	sessions.On("CommentReport", mock.Anything, clientID, report.Range{}).
		Return([]report.CommentRow{
			{Year: 2024, Items: []report.CommentDay{{Date: "03/02/2024", Comments: 3}}},
		}, nil)

	service := NewReportingService(sessions)
	years, err := service.GetCommentReport(context.Background(), clientID, "", "")
	require.NoError(t, err)

	require.Len(t, years, 1)
	assert.Equal(t, 3, years[0].Items[0].Comments)
}

func TestGetReportByDay(t *testing.T) {
	clientID := primitive.NewObjectID()

	t.Run("resolves the calendar day", func(t *testing.T) {
		sessions := &mockSessionRepository{}
		sessions.On("FindByDay", mock.Anything, clientID, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)).
			Return([]session.Resolved{}, nil)

		service := NewReportingService(sessions)
		_, err := service.GetReportByDay(context.Background(), clientID, "15/06/2023")
		require.NoError(t, err)
		sessions.AssertExpectations(t)
	})

	t.Run("date is mandatory", func(t *testing.T) {
		service := NewReportingService(&mockSessionRepository{})
		_, err := service.GetReportByDay(context.Background(), clientID, "")
		assert.True(t, errors.IsInvalidInput(err))
	})
}
