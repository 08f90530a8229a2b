package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"questhire/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &JobModel{}, &TestConfigModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// users

func (s *GormStore) SaveUser(u domain.User) error {
	model := UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		CompanyName:  u.CompanyName,
		ResumeKey:    u.ResumeKey,
		CreatedAt:    u.CreatedAt,
	}
	return s.db.Save(&model).Error
}

func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) SetUserResume(id, resumeKey string) error {
	return s.db.Model(&UserModel{}).Where("id = ?", id).Update("resume_key", resumeKey).Error
}

// jobs

func (s *GormStore) SaveJob(j domain.Job) error {
	model, err := jobToModel(j)
	if err != nil {
		return err
	}
	return s.db.Save(&model).Error
}

func (s *GormStore) GetJob(id string) (domain.Job, bool, error) {
	var model JobModel
	err := s.db.Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Job{}, false, nil
	}
	if err != nil {
		return domain.Job{}, false, err
	}
	job, err := jobFromModel(model)
	if err != nil {
		return domain.Job{}, false, err
	}
	return job, true, nil
}

func (s *GormStore) ListActiveJobs() ([]domain.Job, error) {
	var models []JobModel
	if err := s.db.Where("is_active = ?", true).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return jobsFromModels(models)
}

func (s *GormStore) ListJobsByCompany(companyID string) ([]domain.Job, error) {
	var models []JobModel
	if err := s.db.Where("company_id = ?", companyID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return jobsFromModels(models)
}

func (s *GormStore) AppendQuest(jobID string, quest domain.Quest) error {
	job, ok, err := s.GetJob(jobID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	job.Quests = append(job.Quests, quest)
	return s.SaveJob(job)
}

// test configurations

func (s *GormStore) SaveTestConfig(cfg domain.TestConfiguration) error {
	topics, err := json.Marshal(cfg.Topics)
	if err != nil {
		return err
	}
	model := TestConfigModel{
		TestID:            cfg.TestID,
		CompanyID:         cfg.CompanyID,
		JobID:             cfg.JobID,
		Name:              cfg.Name,
		Description:       cfg.Description,
		DurationMinutes:   cfg.DurationMinutes,
		Topics:            datatypes.JSON(topics),
		QuestionsPerTopic: cfg.QuestionsPerTopic,
		PassingScore:      cfg.PassingScore,
		IsActive:          cfg.IsActive,
		CreatedAt:         cfg.CreatedAt,
	}
	return s.db.Save(&model).Error
}

func (s *GormStore) HasTestConfig(testID string) (bool, error) {
	var count int64
	if err := s.db.Model(&TestConfigModel{}).Where("test_id = ?", testID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) GetTestConfig(testID string) (domain.TestConfiguration, bool, error) {
	var model TestConfigModel
	err := s.db.Where("test_id = ?", testID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TestConfiguration{}, false, nil
	}
	if err != nil {
		return domain.TestConfiguration{}, false, err
	}
	var topics []string
	if len(model.Topics) > 0 {
		if err := json.Unmarshal(model.Topics, &topics); err != nil {
			return domain.TestConfiguration{}, false, err
		}
	}
	return domain.TestConfiguration{
		TestID:            model.TestID,
		CompanyID:         model.CompanyID,
		JobID:             model.JobID,
		Name:              model.Name,
		Description:       model.Description,
		DurationMinutes:   model.DurationMinutes,
		Topics:            topics,
		QuestionsPerTopic: model.QuestionsPerTopic,
		PassingScore:      model.PassingScore,
		IsActive:          model.IsActive,
		CreatedAt:         model.CreatedAt,
	}, true, nil
}

// conversions

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         domain.UserRole(m.Role),
		CompanyName:  m.CompanyName,
		ResumeKey:    m.ResumeKey,
		CreatedAt:    m.CreatedAt,
	}
}

func jobToModel(j domain.Job) (JobModel, error) {
	requirements, err := json.Marshal(j.Requirements)
	if err != nil {
		return JobModel{}, err
	}
	quests, err := json.Marshal(j.Quests)
	if err != nil {
		return JobModel{}, err
	}
	return JobModel{
		ID:           j.ID,
		CompanyID:    j.CompanyID,
		Title:        j.Title,
		Department:   j.Department,
		Location:     j.Location,
		Type:         string(j.Type),
		Description:  j.Description,
		Requirements: datatypes.JSON(requirements),
		SalaryMin:    j.Salary.Min,
		SalaryMax:    j.Salary.Max,
		IsActive:     j.IsActive,
		Quests:       datatypes.JSON(quests),
		CreatedAt:    j.CreatedAt,
	}, nil
}

func jobFromModel(m JobModel) (domain.Job, error) {
	var requirements []string
	if len(m.Requirements) > 0 {
		if err := json.Unmarshal(m.Requirements, &requirements); err != nil {
			return domain.Job{}, err
		}
	}
	var quests []domain.Quest
	if len(m.Quests) > 0 {
		if err := json.Unmarshal(m.Quests, &quests); err != nil {
			return domain.Job{}, err
		}
	}
	return domain.Job{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		Title:        m.Title,
		Department:   m.Department,
		Location:     m.Location,
		Type:         domain.EmploymentType(m.Type),
		Description:  m.Description,
		Requirements: requirements,
		Salary:       domain.SalaryRange{Min: m.SalaryMin, Max: m.SalaryMax},
		IsActive:     m.IsActive,
		Quests:       quests,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func jobsFromModels(models []JobModel) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0, len(models))
	for _, m := range models {
		job, err := jobFromModel(m)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
