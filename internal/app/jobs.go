package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"questhire/pkg/domain"
)

// JobInput carries a job posting request.
type JobInput struct {
	Title        string
	Department   string
	Location     string
	Type         string
	Description  string
	Requirements []string
	SalaryMin    string
	SalaryMax    string
	IsActive     *bool
}

// CreateJob validates and persists a job posting owned by the actor.
func (a *App) CreateJob(actor domain.User, in JobInput) (domain.Job, error) {
	missing := missingFields(map[string]string{
		"title":       in.Title,
		"department":  in.Department,
		"location":    in.Location,
		"type":        in.Type,
		"description": in.Description,
		"salary.min":  in.SalaryMin,
		"salary.max":  in.SalaryMax,
	})
	if len(missing) > 0 {
		return domain.Job{}, validationErrorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	employment, err := parseEmploymentType(in.Type)
	if err != nil {
		return domain.Job{}, err
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	job := domain.Job{
		ID:           uuid.NewString(),
		CompanyID:    actor.ID,
		Title:        strings.TrimSpace(in.Title),
		Department:   strings.TrimSpace(in.Department),
		Location:     strings.TrimSpace(in.Location),
		Type:         employment,
		Description:  in.Description,
		Requirements: in.Requirements,
		Salary:       domain.SalaryRange{Min: in.SalaryMin, Max: in.SalaryMax},
		IsActive:     isActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveJob(job); err != nil {
		return domain.Job{}, fmt.Errorf("save job: %w", err)
	}
	return job, nil
}

// ListActiveJobs returns active postings with the owning company's
// public name resolved.
func (a *App) ListActiveJobs() ([]domain.Job, error) {
	jobs, err := a.store.ListActiveJobs()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	names := make(map[string]string)
	for i, job := range jobs {
		name, ok := names[job.CompanyID]
		if !ok {
			owner, found, err := a.store.GetUserByID(job.CompanyID)
			if err != nil {
				return nil, fmt.Errorf("resolve company: %w", err)
			}
			if found {
				name = owner.CompanyName
			}
			names[job.CompanyID] = name
		}
		jobs[i].CompanyName = name
	}
	return jobs, nil
}

// ListCompanyJobs returns postings owned by the actor.
func (a *App) ListCompanyJobs(actor domain.User) ([]domain.Job, error) {
	jobs, err := a.store.ListJobsByCompany(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	return jobs, nil
}

func parseEmploymentType(raw string) (domain.EmploymentType, error) {
	switch domain.EmploymentType(strings.TrimSpace(raw)) {
	case domain.EmploymentFullTime:
		return domain.EmploymentFullTime, nil
	case domain.EmploymentPartTime:
		return domain.EmploymentPartTime, nil
	case domain.EmploymentContract:
		return domain.EmploymentContract, nil
	case domain.EmploymentInternship:
		return domain.EmploymentInternship, nil
	default:
		return "", validationErrorf("invalid employment type %q", raw)
	}
}

func missingFields(fields map[string]string) []string {
	missing := make([]string, 0)
	for _, name := range []string{"title", "department", "location", "type", "description", "salary.min", "salary.max"} {
		if value, ok := fields[name]; ok && strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
