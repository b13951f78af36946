package report

import "time"

// Range bounds a report query by session startTime, inclusive. The
// restriction applies only when both bounds are set; a partial range
// restricts nothing.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Bounded reports whether the range actually restricts anything.
func (r Range) Bounded() bool {
	return r.Start != nil && r.End != nil
}

// Raw grouped rows as the record store returns them, keyed by year
// under _id. The reporting service reshapes these into the *Year types.

type AdverseReactionRow struct {
	Year  int         `bson:"_id"`
	Items []DateCount `bson:"items"`
}

type HealthInfoRow struct {
	Year  int           `bson:"year"`
	Items []TopicSeries `bson:"items"`
}

type ListeningRow struct {
	Year  int            `bson:"_id"`
	Items []ListeningDay `bson:"items"`
}

type CommentRow struct {
	Year  int          `bson:"_id"`
	Items []CommentDay `bson:"items"`
}
