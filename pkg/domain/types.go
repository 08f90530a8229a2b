package domain

import "time"

type UserRole string

const (
	RoleCandidate UserRole = "candidate"
	RoleCompany   UserRole = "company"
	RoleAdmin     UserRole = "admin"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "Full-time"
	EmploymentPartTime   EmploymentType = "Part-time"
	EmploymentContract   EmploymentType = "Contract"
	EmploymentInternship EmploymentType = "Internship"
)

type QuestType string

const (
	QuestAptitude   QuestType = "aptitude"
	QuestTechnical  QuestType = "technical"
	QuestDSA        QuestType = "dsa"
	QuestBehavioral QuestType = "behavioral"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyExpert Difficulty = "Expert"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CompanyName  string    `json:"companyName,omitempty"`
	ResumeKey    string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SalaryRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type Job struct {
	ID           string         `json:"id"`
	CompanyID    string         `json:"companyId"`
	CompanyName  string         `json:"companyName,omitempty"`
	Title        string         `json:"title"`
	Department   string         `json:"department"`
	Location     string         `json:"location"`
	Type         EmploymentType `json:"type"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	Salary       SalaryRange    `json:"salary"`
	IsActive     bool           `json:"isActive"`
	Quests       []Quest        `json:"quests,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Quest is a reusable assessment template attached to a job.
type Quest struct {
	TestID            string     `json:"testId"`
	Type              QuestType  `json:"type"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Difficulty        Difficulty `json:"difficulty"`
	DurationMinutes   int        `json:"duration"`
	TotalQuestions    int        `json:"totalQuestions"`
	PassingScore      int        `json:"passingScore"`
	Enabled           bool       `json:"enabled"`
	Topics            []string   `json:"topics"`
	QuestionsPerTopic int        `json:"questionsPerTopic"`
}

// TestConfiguration is a company-defined assessment addressable by TestID.
type TestConfiguration struct {
	TestID            string    `json:"testId"`
	CompanyID         string    `json:"companyId"`
	JobID             string    `json:"jobId,omitempty"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	DurationMinutes   int       `json:"duration"`
	Topics            []string  `json:"topics"`
	QuestionsPerTopic int       `json:"questionsPerTopic"`
	PassingScore      int       `json:"passingScore"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Question is the client-facing shape of a sampled question. Only these
// fields are ever forwarded from the upstream question source.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Topic    string   `json:"topic"`
}

type TopicQuestions struct {
	Topic     string     `json:"name"`
	Questions []Question `json:"questions"`
}

// TestSession is the question bundle handed to a candidate when a test
// is started. Sessions are stored with a TTL and retrievable by owner.
type TestSession struct {
	SessionID       string           `json:"sessionId"`
	TestID          string           `json:"testId"`
	UserID          string           `json:"-"`
	StartTime       time.Time        `json:"startTime"`
	DurationMinutes int              `json:"duration"`
	Topics          []TopicQuestions `json:"topics"`
	TotalQuestions  int              `json:"totalQuestions"`
}
