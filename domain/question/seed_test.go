package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedQuestions(t *testing.T) {
	questions := SeedQuestions()

	t.Run("one question per type and topic pair", func(t *testing.T) {
		seen := map[[2]string]bool{}
		for _, q := range questions {
			key := [2]string{string(q.Type), string(q.Topic)}
			assert.False(t, seen[key], "duplicate catalog entry for %v", key)
			seen[key] = true
		}
	})

	t.Run("every topic is catalogued", func(t *testing.T) {
		topics := map[Topic]bool{}
		for _, q := range questions {
			topics[q.Topic] = true
		}
		for _, entry := range SeedTopics() {
			assert.True(t, topics[Topic(entry.Key)], "topic %s has no question", entry.Key)
		}
	})

	t.Run("negative effects are post-session yes/no questions", func(t *testing.T) {
		for _, q := range questions {
			if !hasTag(q, TagNegativeEffect) {
				continue
			}
			assert.Equal(t, TypeYesNo, q.Type, "topic %s", q.Topic)
			assert.True(t, hasTag(q, TagPostSession), "topic %s", q.Topic)
		}
	})

	t.Run("labels and tags are populated", func(t *testing.T) {
		for _, q := range questions {
			assert.NotEmpty(t, q.Label)
			assert.NotEmpty(t, q.Tags)
		}
	})
}

func hasTag(q Question, tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
