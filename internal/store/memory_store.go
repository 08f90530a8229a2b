package store

import (
	"fmt"
	"sync"

	"questhire/pkg/domain"
)

// MemoryStore keeps all records in-process. It backs tests and local
// runs without Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	email     map[string]string // email -> user ID
	jobs      map[string]domain.Job
	jobOrder  []string
	configs   map[string]domain.TestConfiguration // keyed by testId
	cfgOrder  []string
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]domain.User),
		email:   make(map[string]string),
		jobs:    make(map[string]domain.Job),
		configs: make(map[string]domain.TestConfiguration),
	}
}

// users

func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) SetUserResume(id, resumeKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	u.ResumeKey = resumeKey
	m.users[id] = u
	return nil
}

// jobs

func (m *MemoryStore) SaveJob(j domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[j.ID]; !exists {
		m.jobOrder = append(m.jobOrder, j.ID)
	}
	m.jobs[j.ID] = j
	return nil
}

func (m *MemoryStore) GetJob(id string) (domain.Job, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	return j, ok, nil
}

// ListActiveJobs returns active jobs, newest first, matching the
// Postgres store's ordering.
func (m *MemoryStore) ListActiveJobs() ([]domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Job, 0, len(m.jobOrder))
	for i := len(m.jobOrder) - 1; i >= 0; i-- {
		if j, ok := m.jobs[m.jobOrder[i]]; ok && j.IsActive {
			res = append(res, j)
		}
	}
	return res, nil
}

func (m *MemoryStore) ListJobsByCompany(companyID string) ([]domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Job, 0, len(m.jobOrder))
	for i := len(m.jobOrder) - 1; i >= 0; i-- {
		if j, ok := m.jobs[m.jobOrder[i]]; ok && j.CompanyID == companyID {
			res = append(res, j)
		}
	}
	return res, nil
}

func (m *MemoryStore) AppendQuest(jobID string, quest domain.Quest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	j.Quests = append(j.Quests, quest)
	m.jobs[jobID] = j
	return nil
}

// test configurations

func (m *MemoryStore) SaveTestConfig(cfg domain.TestConfiguration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.configs[cfg.TestID]; !exists {
		m.cfgOrder = append(m.cfgOrder, cfg.TestID)
	}
	m.configs[cfg.TestID] = cfg
	return nil
}

func (m *MemoryStore) HasTestConfig(testID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.configs[testID]
	return ok, nil
}

func (m *MemoryStore) GetTestConfig(testID string) (domain.TestConfiguration, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[testID]
	return cfg, ok, nil
}
