package app

import (
	"fmt"
	"strings"
	"time"

	"questhire/pkg/domain"
)

const (
	defaultTestDuration = 45
	defaultPassingScore = 60
)

// TestConfigInput carries a company test-configuration request.
type TestConfigInput struct {
	TestID            string
	Name              string
	Description       string
	DurationMinutes   int
	Topics            []string
	QuestionsPerTopic int
	PassingScore      *int
	IsActive          *bool
}

// CreateTestConfig validates a configuration against the topic catalog,
// applies defaults and stores it keyed by its testId. When the actor
// owns a job, the configuration is also appended to that job's quest
// list so listings carry their assessments.
func (a *App) CreateTestConfig(actor domain.User, in TestConfigInput) (domain.TestConfiguration, error) {
	testID := strings.TrimSpace(in.TestID)
	name := strings.TrimSpace(in.Name)
	if testID == "" || name == "" || len(in.Topics) == 0 || in.QuestionsPerTopic == 0 {
		return domain.TestConfiguration{}, validationErrorf("testId, name, topics and questionsPerTopic are required")
	}
	if in.QuestionsPerTopic < 0 {
		return domain.TestConfiguration{}, validationErrorf("questionsPerTopic must be >= 1")
	}
	for _, topic := range in.Topics {
		if !a.catalog.Has(topic) {
			return domain.TestConfiguration{}, validationErrorf("unknown topic %q", topic)
		}
	}
	exists, err := a.store.HasTestConfig(testID)
	if err != nil {
		return domain.TestConfiguration{}, fmt.Errorf("check testId: %w", err)
	}
	if exists {
		return domain.TestConfiguration{}, validationErrorf("testId %q already exists", testID)
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = defaultTestDuration
	}
	passingScore := defaultPassingScore
	if in.PassingScore != nil {
		passingScore = *in.PassingScore
	}
	if passingScore < 0 || passingScore > 100 {
		return domain.TestConfiguration{}, validationErrorf("passingScore must be between 0 and 100")
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	cfg := domain.TestConfiguration{
		TestID:            testID,
		CompanyID:         actor.ID,
		Name:              name,
		Description:       in.Description,
		DurationMinutes:   duration,
		Topics:            in.Topics,
		QuestionsPerTopic: in.QuestionsPerTopic,
		PassingScore:      passingScore,
		IsActive:          isActive,
		CreatedAt:         time.Now().UTC(),
	}

	// Attach to the actor's most recent job when one exists.
	jobs, err := a.store.ListJobsByCompany(actor.ID)
	if err != nil {
		return domain.TestConfiguration{}, fmt.Errorf("list company jobs: %w", err)
	}
	if len(jobs) > 0 {
		cfg.JobID = jobs[0].ID
	}

	if err := a.store.SaveTestConfig(cfg); err != nil {
		return domain.TestConfiguration{}, fmt.Errorf("save test config: %w", err)
	}
	if cfg.JobID != "" {
		quest := domain.Quest{
			TestID:            cfg.TestID,
			Type:              domain.QuestAptitude,
			Title:             cfg.Name,
			Description:       cfg.Description,
			Difficulty:        domain.DifficultyMedium,
			DurationMinutes:   cfg.DurationMinutes,
			TotalQuestions:    len(cfg.Topics) * cfg.QuestionsPerTopic,
			PassingScore:      cfg.PassingScore,
			Enabled:           cfg.IsActive,
			Topics:            cfg.Topics,
			QuestionsPerTopic: cfg.QuestionsPerTopic,
		}
		if err := a.store.AppendQuest(cfg.JobID, quest); err != nil {
			return domain.TestConfiguration{}, fmt.Errorf("append quest: %w", err)
		}
	}
	return cfg, nil
}
