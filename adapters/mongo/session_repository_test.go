package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/domain/question"
	"soundwell/domain/report"
)

// stageKey returns the operator of a single-operator stage.
func stageKey(s pipeline.Stage) string {
	if len(s) == 0 {
		return ""
	}
	return s[0].Key
}

func stageKeys(p pipeline.Pipeline) []string {
	keys := make([]string, 0, len(p))
	for _, s := range p {
		keys = append(keys, stageKey(s))
	}
	return keys
}

func stageValue(t *testing.T, s pipeline.Stage) bson.D {
	t.Helper()
	value, ok := s[0].Value.(bson.D)
	require.True(t, ok, "stage value should be a bson.D")
	return value
}

func docValue(t *testing.T, d bson.D, key string) interface{} {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("key %q not found in %v", key, d)
	return nil
}

func TestBuildAdverseReactionPipeline(t *testing.T) {
	clientID := primitive.NewObjectID()

	p := buildAdverseReactionPipeline(clientID, report.Range{}, []question.Topic{
		question.TopicSleep,
		question.TopicEnergy,
	})

	assert.Equal(t, []string{
		"$match", "$unwind", "$lookup", "$match", "$match", "$match", "$match",
		"$group", "$group", "$sort",
	}, stageKeys(p))

	t.Run("topics are ORed", func(t *testing.T) {
		topicMatch := stageValue(t, p[3])
		or, ok := docValue(t, topicMatch, "$or").(bson.A)
		require.True(t, ok)
		assert.Len(t, or, 2)
	})

	t.Run("negative_effect tag is mandatory", func(t *testing.T) {
		tagMatch := stageValue(t, p[4])
		tags := docValue(t, tagMatch, "questions.question.tags").(bson.D)
		assert.Equal(t, bson.A{question.TagNegativeEffect}, docValue(t, tags, "$all"))
	})

	t.Run("only yes answers to yes/no questions count", func(t *testing.T) {
		typeMatch := stageValue(t, p[5])
		eq := docValue(t, typeMatch, "questions.question.type").(bson.D)
		assert.Equal(t, question.TypeYesNo, docValue(t, eq, "$eq"))

		answerMatch := stageValue(t, p[6])
		eq = docValue(t, answerMatch, "questions.answer").(bson.D)
		assert.Equal(t, "yes", docValue(t, eq, "$eq"))
	})

	t.Run("years sort descending", func(t *testing.T) {
		sort := stageValue(t, p[9])
		assert.Equal(t, -1, docValue(t, sort, "_id"))
	})
}

func TestBuildAdverseReactionPipelineWithoutTopics(t *testing.T) {
	p := buildAdverseReactionPipeline(primitive.NewObjectID(), report.Range{}, nil)

	// No topic set means no topic stage at all.
	assert.Equal(t, []string{
		"$match", "$unwind", "$lookup", "$match", "$match", "$match",
		"$group", "$group", "$sort",
	}, stageKeys(p))
}

func TestBuildHealthInfoPipeline(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	p := buildHealthInfoPipeline(primitive.NewObjectID(), report.Range{Start: &start, End: &end})

	assert.Equal(t, []string{
		"$match", "$unwind", "$lookup", "$match",
		"$project", "$group", "$group", "$group", "$project", "$sort",
	}, stageKeys(p))

	t.Run("answers convert leniently to int", func(t *testing.T) {
		project := stageValue(t, p[4])
		convert := docValue(t, project, "answerInt").(bson.D)
		args := docValue(t, convert, "$convert").(bson.D)
		assert.Equal(t, "$questions.answer", docValue(t, args, "input"))
		assert.Equal(t, "int", docValue(t, args, "to"))
		assert.Equal(t, 0, docValue(t, args, "onError"))
		assert.Equal(t, 0, docValue(t, args, "onNull"))
	})

	t.Run("only rating questions contribute", func(t *testing.T) {
		typeMatch := stageValue(t, p[3])
		eq := docValue(t, typeMatch, "questions.question.type").(bson.D)
		assert.Equal(t, question.TypeRating, docValue(t, eq, "$eq"))
	})

	t.Run("topic projects to a scalar", func(t *testing.T) {
		// The catalog lookup wraps the question in a one-element
		// array; the projection must unwrap it or every row carries
		// topic as an array.
		project := stageValue(t, p[4])
		topic := docValue(t, project, "topic").(bson.D)
		assert.Equal(t, "$questions.question.topic", docValue(t, topic, "$first"))
	})

	t.Run("first grouping averages per topic, year and date", func(t *testing.T) {
		group := stageValue(t, p[5])
		avg := docValue(t, group, "answerInt").(bson.D)
		assert.Equal(t, "$answerInt", docValue(t, avg, "$avg"))
	})

	t.Run("topics sort ascending inside each year", func(t *testing.T) {
		project := stageValue(t, p[8])
		sortArray := docValue(t, project, "items").(bson.D)
		args := docValue(t, sortArray, "$sortArray").(bson.D)
		sortBy := docValue(t, args, "sortBy").(bson.D)
		assert.Equal(t, 1, docValue(t, sortBy, "topic"))
	})

	t.Run("years sort descending", func(t *testing.T) {
		sort := stageValue(t, p[9])
		assert.Equal(t, -1, docValue(t, sort, "year"))
	})
}

func TestHealthInfoRowDecodesStoreShape(t *testing.T) {
	// The row shape the final projection emits: year plus topic series,
	// topic as a scalar string.
	doc := bson.D{
		{Key: "year", Value: 2023},
		{Key: "items", Value: bson.A{
			bson.D{
				{Key: "topic", Value: "sleep"},
				{Key: "items", Value: bson.A{
					bson.D{{Key: "date", Value: "15/06/2023"}, {Key: "value", Value: 3.5}},
				}},
			},
		}},
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var row report.HealthInfoRow
	require.NoError(t, bson.Unmarshal(raw, &row))
	assert.Equal(t, 2023, row.Year)
	require.Len(t, row.Items, 1)
	assert.Equal(t, "sleep", row.Items[0].Topic)
	require.Len(t, row.Items[0].Items, 1)
	assert.Equal(t, "15/06/2023", row.Items[0].Items[0].Date)
	assert.Equal(t, 3.5, row.Items[0].Items[0].Value)
}

func TestBuildListeningPipeline(t *testing.T) {
	p := buildListeningPipeline(primitive.NewObjectID(), report.Range{})

	// Listening sums group sessions directly, no question unwinding.
	assert.Equal(t, []string{"$match", "$group", "$group", "$sort"}, stageKeys(p))

	group := stageValue(t, p[1])
	for _, field := range []string{"duration", "pause", "interruptions"} {
		sum := docValue(t, group, field).(bson.D)
		assert.Equal(t, "$"+field, docValue(t, sum, "$sum"))
	}
	sessions := docValue(t, group, "sessions").(bson.D)
	assert.Equal(t, bson.D{}, docValue(t, sessions, "$count"))
}

func TestBuildCommentPipeline(t *testing.T) {
	p := buildCommentPipeline(primitive.NewObjectID(), report.Range{})

	assert.Equal(t, []string{"$match", "$group", "$group", "$sort"}, stageKeys(p))

	t.Run("counts comment set sizes", func(t *testing.T) {
		group := stageValue(t, p[1])
		sum := docValue(t, group, "comments").(bson.D)
		size := docValue(t, sum, "$sum").(bson.D)
		assert.Equal(t, "$comments", docValue(t, size, "$size"))
	})

	t.Run("items carry only date and comments", func(t *testing.T) {
		group := stageValue(t, p[2])
		push := docValue(t, group, "items").(bson.D)
		item := docValue(t, push, "$push").(bson.D)
		require.Len(t, item, 2)
		assert.Equal(t, "date", item[0].Key)
		assert.Equal(t, "comments", item[1].Key)
	})
}

func TestBuildDayReportPipeline(t *testing.T) {
	clientID := primitive.NewObjectID()
	dayStart := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	p := buildDayReportPipeline(clientID, dayStart, dayEnd)

	assert.Equal(t, []string{"$match", "$lookup", "$lookup", "$project"}, stageKeys(p))

	match := stageValue(t, p[0])
	assert.Equal(t, clientID, docValue(t, match, "author"))
	rangeDoc := docValue(t, match, "startTime").(bson.D)
	assert.Equal(t, dayStart, docValue(t, rangeDoc, "$gte"))
	assert.Equal(t, dayEnd, docValue(t, rangeDoc, "$lte"))
}
