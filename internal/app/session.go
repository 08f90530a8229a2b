package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"questhire/pkg/domain"
)

// StartSession assembles a test session for the actor: the question
// pool of every topic in the configuration is fetched concurrently,
// sampled down to the per-topic quota and returned in the stored topic
// order. Any upstream failure aborts the whole request; partial
// sessions are never returned.
func (a *App) StartSession(ctx context.Context, actor domain.User, testID string) (domain.TestSession, error) {
	cfg, ok, err := a.store.GetTestConfig(testID)
	if err != nil {
		return domain.TestSession{}, fmt.Errorf("fetch test config: %w", err)
	}
	if !ok || !cfg.IsActive {
		return domain.TestSession{}, ErrTestNotFound
	}

	topics := make([]domain.TopicQuestions, len(cfg.Topics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fetchConcurrency)
	for i, topic := range cfg.Topics {
		g.Go(func() error {
			endpoint, known := a.catalog.Endpoint(topic)
			if !known {
				return fmt.Errorf("topic %q has no endpoint", topic)
			}
			fetchCtx, cancel := context.WithTimeout(gctx, a.fetchTimeout)
			defer cancel()
			pool, err := a.questions.FetchPool(fetchCtx, endpoint)
			if err != nil {
				return fmt.Errorf("fetch %q pool: %w", topic, err)
			}
			topics[i] = domain.TopicQuestions{
				Topic:     topic,
				Questions: sampleQuestions(pool, cfg.QuestionsPerTopic, topic),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.TestSession{}, fmt.Errorf("%w: %v", ErrQuestionSource, err)
	}

	total := 0
	for _, t := range topics {
		total += len(t.Questions)
	}
	session := domain.TestSession{
		SessionID:       uuid.NewString(),
		TestID:          cfg.TestID,
		UserID:          actor.ID,
		StartTime:       time.Now().UTC(),
		DurationMinutes: cfg.DurationMinutes,
		Topics:          topics,
		TotalQuestions:  total,
	}
	ttl := time.Duration(cfg.DurationMinutes)*time.Minute + sessionGrace
	if err := a.sessions.SaveSession(session, ttl); err != nil {
		return domain.TestSession{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// GetSession returns a stored session to its owner. Expired, missing
// and foreign sessions are indistinguishable.
func (a *App) GetSession(actor domain.User, sessionID string) (domain.TestSession, error) {
	session, ok, err := a.sessions.GetSession(sessionID)
	if err != nil {
		return domain.TestSession{}, fmt.Errorf("fetch session: %w", err)
	}
	if !ok || session.UserID != actor.ID {
		return domain.TestSession{}, ErrSessionNotFound
	}
	return session, nil
}

// sampleQuestions shuffles the pool and keeps at most quota entries,
// each tagged with the topic. Pools smaller than the quota are returned
// whole.
func sampleQuestions(pool []domain.Question, quota int, topic string) []domain.Question {
	sampled := make([]domain.Question, len(pool))
	copy(sampled, pool)
	rand.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})
	if quota > 0 && len(sampled) > quota {
		sampled = sampled[:quota]
	}
	for i := range sampled {
		sampled[i].Topic = topic
		if sampled[i].Options == nil {
			sampled[i].Options = []string{}
		}
	}
	return sampled
}
