package app

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"questhire/internal/questions"
	"questhire/internal/store"
	"questhire/pkg/domain"
)

// questionPool writes an aptitude-style pool of n questions, answer
// keys included, the way the upstream source serves them.
func questionPool(n int) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[")
		for i := 0; i < n; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id":%d,"question":"q%d","options":["a","b","c","d"],"answer":"a","explanation":"because"}`, i+1, i+1)
		}
		fmt.Fprint(w, "]")
	}
}

func newTestApp(t *testing.T, source http.Handler) (*App, *store.MemoryStore) {
	t.Helper()
	if source == nil {
		source = http.HandlerFunc(questionPool(10))
	}
	upstream := httptest.NewServer(source)
	t.Cleanup(upstream.Close)

	mr := miniredis.RunT(t)
	mem := store.NewMemoryStore()
	tokens, err := store.NewJWTTokenStore("test-secret", 0, "")
	if err != nil {
		t.Fatalf("token store: %v", err)
	}
	a, err := New(Config{
		Store:     mem,
		Tokens:    tokens,
		Sessions:  store.NewRedisSessionStore(mr.Addr(), ""),
		Questions: questions.NewClient(upstream.URL),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func registerCompany(t *testing.T, a *App) domain.User {
	t.Helper()
	user, _, err := a.Register(RegisterInput{
		Email:       "hiring@acme.test",
		Password:    "Sup3rSecret!",
		Name:        "Acme Hiring",
		Role:        "company",
		CompanyName: "Acme Corp",
	})
	if err != nil {
		t.Fatalf("register company: %v", err)
	}
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	a, _ := newTestApp(t, nil)

	user, token, err := a.Register(RegisterInput{
		Email:    "Jo@Example.Test",
		Password: "Sup3rSecret!",
		Name:     "Jo",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "jo@example.test" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.Role != domain.RoleCandidate {
		t.Errorf("default role = %q, want candidate", user.Role)
	}
	if token == "" {
		t.Error("register returned empty token")
	}

	got, ok := a.UserFromToken(token)
	if !ok || got.ID != user.ID {
		t.Fatalf("UserFromToken = (%v, %v), want registered user", got.ID, ok)
	}

	if _, _, err := a.Login("jo@example.test", "Sup3rSecret!"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _ := newTestApp(t, nil)
	in := RegisterInput{Email: "jo@example.test", Password: "Sup3rSecret!", Name: "Jo"}
	if _, _, err := a.Register(in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := a.Register(in)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("duplicate register err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	a, _ := newTestApp(t, nil)
	_, _, err := a.Register(RegisterInput{Email: "jo@example.test", Password: "short", Name: "Jo"})
	if err == nil {
		t.Fatal("weak password accepted")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, _, err := a.Register(RegisterInput{Email: "jo@example.test", Password: "Sup3rSecret!", Name: "Jo"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, unknownErr := a.Login("nobody@example.test", "Sup3rSecret!")
	_, _, badPassErr := a.Login("jo@example.test", "WrongPass123")
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(badPassErr, ErrInvalidCredentials) {
		t.Fatalf("errs = (%v, %v), want ErrInvalidCredentials for both", unknownErr, badPassErr)
	}
	if unknownErr.Error() != badPassErr.Error() {
		t.Errorf("login errors differ: %q vs %q", unknownErr, badPassErr)
	}
}

func TestCreateJobRequiresAllFields(t *testing.T) {
	a, _ := newTestApp(t, nil)
	company := registerCompany(t, a)

	_, err := a.CreateJob(company, JobInput{Title: "Backend Engineer"})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateJobAndList(t *testing.T) {
	a, _ := newTestApp(t, nil)
	company := registerCompany(t, a)

	job, err := a.CreateJob(company, JobInput{
		Title:       "Backend Engineer",
		Department:  "Engineering",
		Location:    "Remote",
		Type:        "Full-time",
		Description: "Build services.",
		SalaryMin:   "90000",
		SalaryMax:   "120000",
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if !job.IsActive {
		t.Error("job should default to active")
	}
	if job.CompanyID != company.ID {
		t.Errorf("companyID = %q, want %q", job.CompanyID, company.ID)
	}

	jobs, err := a.ListActiveJobs()
	if err != nil {
		t.Fatalf("list active jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != job.ID {
		t.Fatalf("active jobs = %+v, want the created job", jobs)
	}
	if jobs[0].CompanyName != "Acme Corp" {
		t.Errorf("companyName = %q, want resolved name", jobs[0].CompanyName)
	}
}

func TestCreateTestConfigDefaults(t *testing.T) {
	a, _ := newTestApp(t, nil)
	company := registerCompany(t, a)

	cfg, err := a.CreateTestConfig(company, TestConfigInput{
		TestID:            "acme-apt-1",
		Name:              "Acme Aptitude",
		Topics:            []string{"Age", "Calendars"},
		QuestionsPerTopic: 3,
	})
	if err != nil {
		t.Fatalf("create test config: %v", err)
	}
	if cfg.DurationMinutes != 45 {
		t.Errorf("duration = %d, want default 45", cfg.DurationMinutes)
	}
	if cfg.PassingScore != 60 {
		t.Errorf("passingScore = %d, want default 60", cfg.PassingScore)
	}
	if !cfg.IsActive {
		t.Error("config should default to active")
	}
	if cfg.CompanyID != company.ID {
		t.Errorf("companyID = %q, want %q", cfg.CompanyID, company.ID)
	}
}

func TestCreateTestConfigExplicitlyInactive(t *testing.T) {
	a, _ := newTestApp(t, nil)
	company := registerCompany(t, a)

	inactive := false
	cfg, err := a.CreateTestConfig(company, TestConfigInput{
		TestID:            "acme-apt-off",
		Name:              "Paused Test",
		Topics:            []string{"Age"},
		QuestionsPerTopic: 2,
		IsActive:          &inactive,
	})
	if err != nil {
		t.Fatalf("create test config: %v", err)
	}
	if cfg.IsActive {
		t.Error("explicit isActive=false ignored")
	}
}

func TestCreateTestConfigUnknownTopic(t *testing.T) {
	a, _ := newTestApp(t, nil)
	company := registerCompany(t, a)

	_, err := a.CreateTestConfig(company, TestConfigInput{
		TestID:            "acme-apt-2",
		Name:              "Acme Aptitude",
		Topics:            []string{"Age", "Quantum Chromodynamics"},
		QuestionsPerTopic: 3,
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "Quantum Chromodynamics") {
		t.Errorf("error %q should name the unknown topic", err)
	}
}

func TestCreateTestConfigDuplicateTestID(t *testing.T) {
	a, _ := newTestApp(t, nil)
	company := registerCompany(t, a)

	in := TestConfigInput{
		TestID:            "acme-apt-3",
		Name:              "Acme Aptitude",
		Topics:            []string{"Age"},
		QuestionsPerTopic: 2,
	}
	if _, err := a.CreateTestConfig(company, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := a.CreateTestConfig(company, in)
	if !IsValidation(err) {
		t.Fatalf("duplicate testId err = %v, want validation error", err)
	}
}

func TestConfigAttachesToNewestJob(t *testing.T) {
	a, _ := newTestApp(t, nil)
	company := registerCompany(t, a)

	mustCreateJob := func(title string) domain.Job {
		job, err := a.CreateJob(company, JobInput{
			Title:       title,
			Department:  "Engineering",
			Location:    "Remote",
			Type:        "Full-time",
			Description: "Build services.",
			SalaryMin:   "90000",
			SalaryMax:   "120000",
		})
		if err != nil {
			t.Fatalf("create job %q: %v", title, err)
		}
		return job
	}
	mustCreateJob("Backend Engineer")
	newest := mustCreateJob("Platform Engineer")

	cfg, err := a.CreateTestConfig(company, TestConfigInput{
		TestID:            "acme-apt-4",
		Name:              "Acme Aptitude",
		Topics:            []string{"Age", "Calendars"},
		QuestionsPerTopic: 3,
	})
	if err != nil {
		t.Fatalf("create test config: %v", err)
	}
	if cfg.JobID != newest.ID {
		t.Errorf("jobID = %q, want newest job %q", cfg.JobID, newest.ID)
	}

	jobs, err := a.ListCompanyJobs(company)
	if err != nil {
		t.Fatalf("list company jobs: %v", err)
	}
	if jobs[0].ID != newest.ID {
		t.Fatalf("jobs[0] = %q, want newest job first", jobs[0].ID)
	}
	if len(jobs[0].Quests) != 1 {
		t.Fatalf("newest job quests = %d, want 1", len(jobs[0].Quests))
	}
	quest := jobs[0].Quests[0]
	if quest.TestID != cfg.TestID {
		t.Errorf("quest testId = %q, want %q", quest.TestID, cfg.TestID)
	}
	if quest.TotalQuestions != 6 {
		t.Errorf("quest totalQuestions = %d, want 6", quest.TotalQuestions)
	}
}
