package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"soundwell/domain/question"
	"soundwell/ports"
)

// Seeder installs the fixed question catalog. Seeding upserts keyed by
// (type, topic) or key, so running it repeatedly is safe.
type Seeder struct {
	questions ports.QuestionRepository
}

// NewSeeder creates a catalog seeder.
func NewSeeder(questions ports.QuestionRepository) *Seeder {
	return &Seeder{questions: questions}
}

// Seed upserts questions, topics and types concurrently.
func (s *Seeder) Seed(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.questions.SeedQuestions(ctx, question.SeedQuestions()) })
	g.Go(func() error { return s.questions.SeedTopics(ctx, question.SeedTopics()) })
	g.Go(func() error { return s.questions.SeedTypes(ctx, question.SeedTypes()) })
	return g.Wait()
}
