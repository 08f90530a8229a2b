package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"questhire/pkg/domain"
)

func TestMemoryStoreUsers(t *testing.T) {
	m := NewMemoryStore()
	user := domain.User{ID: "u-1", Email: "a@b.c", Role: domain.RoleCandidate}
	if err := m.SaveUser(user); err != nil {
		t.Fatalf("save user: %v", err)
	}
	ok, err := m.HasUserEmail("a@b.c")
	if err != nil || !ok {
		t.Fatalf("expected email to exist")
	}
	got, ok, err := m.GetUserByEmail("a@b.c")
	if err != nil || !ok || got.ID != "u-1" {
		t.Fatalf("get by email = %+v, ok=%v, err=%v", got, ok, err)
	}
	if err := m.SetUserResume("u-1", "resumes/u-1.pdf"); err != nil {
		t.Fatalf("set resume: %v", err)
	}
	got, _, _ = m.GetUserByID("u-1")
	if got.ResumeKey != "resumes/u-1.pdf" {
		t.Fatalf("resume key = %q", got.ResumeKey)
	}
}

func TestMemoryStoreJobsAndQuests(t *testing.T) {
	m := NewMemoryStore()
	if err := m.SaveJob(domain.Job{ID: "j-1", CompanyID: "c-1", IsActive: true}); err != nil {
		t.Fatalf("save job: %v", err)
	}
	if err := m.SaveJob(domain.Job{ID: "j-2", CompanyID: "c-2", IsActive: false}); err != nil {
		t.Fatalf("save job: %v", err)
	}
	active, err := m.ListActiveJobs()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != "j-1" {
		t.Fatalf("active jobs = %+v", active)
	}
	mine, err := m.ListJobsByCompany("c-2")
	if err != nil || len(mine) != 1 || mine[0].ID != "j-2" {
		t.Fatalf("company jobs = %+v, err=%v", mine, err)
	}
	if err := m.AppendQuest("j-1", domain.Quest{TestID: "t-1"}); err != nil {
		t.Fatalf("append quest: %v", err)
	}
	job, _, _ := m.GetJob("j-1")
	if len(job.Quests) != 1 || job.Quests[0].TestID != "t-1" {
		t.Fatalf("quests = %+v", job.Quests)
	}
	if err := m.AppendQuest("missing", domain.Quest{}); err == nil {
		t.Fatalf("expected error for missing job")
	}
}

func TestMemoryStoreTestConfigs(t *testing.T) {
	m := NewMemoryStore()
	cfg := domain.TestConfiguration{TestID: "apt-1", CompanyID: "c-1", IsActive: true}
	if err := m.SaveTestConfig(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	ok, err := m.HasTestConfig("apt-1")
	if err != nil || !ok {
		t.Fatalf("expected config to exist")
	}
	got, ok, err := m.GetTestConfig("apt-1")
	if err != nil || !ok || got.CompanyID != "c-1" {
		t.Fatalf("get config = %+v, ok=%v, err=%v", got, ok, err)
	}
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	redis := miniredis.RunT(t)
	sessions := NewRedisSessionStore(redis.Addr(), "")

	session := domain.TestSession{
		SessionID:       "s-1",
		TestID:          "apt-1",
		UserID:          "u-1",
		StartTime:       time.Now().UTC().Truncate(time.Second),
		DurationMinutes: 45,
		TotalQuestions:  10,
	}
	if err := sessions.SaveSession(session, time.Minute); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, ok, err := sessions.GetSession("s-1")
	if err != nil || !ok {
		t.Fatalf("get session: ok=%v err=%v", ok, err)
	}
	if got.UserID != "u-1" || got.TestID != "apt-1" || got.TotalQuestions != 10 {
		t.Fatalf("session = %+v", got)
	}

	redis.FastForward(2 * time.Minute)
	if _, ok, _ := sessions.GetSession("s-1"); ok {
		t.Fatalf("expected session to expire")
	}
}
