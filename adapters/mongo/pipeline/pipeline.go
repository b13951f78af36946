// Package pipeline builds aggregation pipelines for the record store as
// plain stage-descriptor values. Builders only describe stages; nothing
// here executes. A pipeline is assembled once, left to right, and handed
// to the store in a single call.
package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/domain/question"
	"soundwell/domain/report"
)

// Collection names shared by the repositories and the lookup stages.
const (
	CollectionUsers       = "users"
	CollectionSessions    = "sessions"
	CollectionQuestions   = "questions"
	CollectionComments    = "comments"
	CollectionRequests    = "requests"
	CollectionInvitations = "invitations"
	CollectionTopics      = "questionTopics"
	CollectionTypes       = "questionTypes"
)

// dateFormat is the store-side format string matching report.DateLayout.
const dateFormat = "%d/%m/%Y"

// Stage is one declarative transformation step.
type Stage = bson.D

// Pipeline is an ordered stage sequence.
type Pipeline []Stage

// New concatenates stages into a pipeline.
func New(stages ...Stage) Pipeline {
	return Pipeline(stages)
}

// Append extends the pipeline with more stages.
func (p Pipeline) Append(stages ...Stage) Pipeline {
	return append(p, stages...)
}

// FilterByAuthorAndDateRange restricts to sessions owned by authorID.
// When both bounds are present, startTime is restricted to [start, end]
// inclusive; a partial range applies no date restriction at all.
func FilterByAuthorAndDateRange(authorID primitive.ObjectID, r report.Range) Stage {
	conditions := bson.A{
		bson.D{{Key: "author", Value: authorID}},
	}

	if r.Bounded() {
		conditions = append(conditions, bson.D{{Key: "startTime", Value: bson.D{
			{Key: "$gte", Value: *r.Start},
			{Key: "$lte", Value: *r.End},
		}}})
	}

	return Stage{{Key: "$match", Value: bson.D{{Key: "$and", Value: conditions}}}}
}

// UnwindQuestions flattens a session's question-answer pairs into one
// row each, preserving the other session fields per row.
func UnwindQuestions() Stage {
	return Stage{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$questions"}}}}
}

// QuestionFilter selects question-answer rows after unwinding. Topics
// are disjunctive (any requested topic matches), tags conjunctive (all
// requested tags must be present). An absent parameter contributes no
// stage.
type QuestionFilter struct {
	Type   question.Type
	Tags   []string
	Topics []question.Topic
	Answer string
}

// FilterQuestions resolves each row's question reference against the
// catalog, then applies the requested filters in order.
func FilterQuestions(f QuestionFilter) []Stage {
	stages := []Stage{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollectionQuestions},
			{Key: "localField", Value: "questions.question"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "questions.question"},
		}}},
	}

	if len(f.Topics) > 0 {
		or := bson.A{}
		for _, topic := range f.Topics {
			or = append(or, bson.D{{Key: "questions.question.topic", Value: topic}})
		}
		stages = append(stages, Stage{{Key: "$match", Value: bson.D{{Key: "$or", Value: or}}}})
	}

	if len(f.Tags) > 0 {
		tags := bson.A{}
		for _, tag := range f.Tags {
			tags = append(tags, tag)
		}
		stages = append(stages, Stage{{Key: "$match", Value: bson.D{
			{Key: "questions.question.tags", Value: bson.D{{Key: "$all", Value: tags}}},
		}}})
	}

	if f.Type != "" {
		stages = append(stages, Stage{{Key: "$match", Value: bson.D{
			{Key: "questions.question.type", Value: bson.D{{Key: "$eq", Value: f.Type}}},
		}}})
	}

	if f.Answer != "" {
		stages = append(stages, Stage{{Key: "$match", Value: bson.D{
			{Key: "questions.answer", Value: bson.D{{Key: "$eq", Value: f.Answer}}},
		}}})
	}

	return stages
}

// CountQuestionsByYear groups the remaining rows by (year, calendar
// date) and counts them per distinct date.
func CountQuestionsByYear() Stage {
	return Stage{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: bson.D{
			{Key: "year", Value: YearOf("$startTime")},
			{Key: "date", Value: DateStringOf("$startTime")},
		}},
		{Key: "total", Value: bson.D{{Key: "$count", Value: bson.D{}}}},
	}}}
}

// SortByIDDescending orders grouped rows latest-first by their _id key.
func SortByIDDescending() Stage {
	return Stage{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}}
}

// YearOf extracts the calendar year of a date-valued field expression.
func YearOf(field string) bson.D {
	return bson.D{{Key: "$year", Value: field}}
}

// DateStringOf formats a date-valued field expression as DD/MM/YYYY.
func DateStringOf(field string) bson.D {
	return bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: dateFormat},
		{Key: "date", Value: field},
	}}}
}
