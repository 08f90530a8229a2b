package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Role         string `gorm:"not null"`
	CompanyName  string
	ResumeKey    string
	CreatedAt    time.Time `gorm:"not null"`
}

type JobModel struct {
	ID           string `gorm:"primaryKey"`
	CompanyID    string `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	Department   string
	Location     string
	Type         string
	Description  string         `gorm:"type:text"`
	Requirements datatypes.JSON `gorm:"type:jsonb"`
	SalaryMin    string
	SalaryMax    string
	IsActive     bool           `gorm:"not null;index"`
	Quests       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"not null"`
}

type TestConfigModel struct {
	TestID            string `gorm:"primaryKey"`
	CompanyID         string `gorm:"not null;index"`
	JobID             string
	Name              string `gorm:"not null"`
	Description       string
	DurationMinutes   int
	Topics            datatypes.JSON `gorm:"type:jsonb"`
	QuestionsPerTopic int
	PassingScore      int
	IsActive          bool      `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
}
