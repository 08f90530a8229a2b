package store

import (
	"time"

	"questhire/pkg/domain"
)

// Store defines persistence operations for users, jobs and test
// configurations.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	SetUserResume(id, resumeKey string) error

	// jobs
	SaveJob(domain.Job) error
	GetJob(id string) (domain.Job, bool, error)
	ListActiveJobs() ([]domain.Job, error)
	ListJobsByCompany(companyID string) ([]domain.Job, error)
	AppendQuest(jobID string, quest domain.Quest) error

	// test configurations, keyed by testId
	SaveTestConfig(domain.TestConfiguration) error
	HasTestConfig(testID string) (bool, error)
	GetTestConfig(testID string) (domain.TestConfiguration, bool, error)
}

// TokenStore issues and validates bearer session tokens.
type TokenStore interface {
	NewToken(userID string, role domain.UserRole) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
}

// SessionStore persists started test sessions for their lifetime.
type SessionStore interface {
	SaveSession(session domain.TestSession, ttl time.Duration) error
	GetSession(sessionID string) (domain.TestSession, bool, error)
}
