package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"questhire/internal/app"
	"questhire/internal/ratelimit"
	"questhire/internal/util"
	"questhire/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                *app.App
	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int
	TrustedProxyCIDRs  []string
	MaxResumeBytes     int64
	ResumeExtensions   []string
}

// Server exposes the HTTP API.
type Server struct {
	app              *app.App
	mux              *http.ServeMux
	limiter          *ratelimit.FixedWindowLimiter
	trustedProxies   *util.TrustedProxies
	maxResumeBytes   int64
	resumeExtensions map[string]struct{}
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	limit := cfg.RateLimitPerMinute
	if limit <= 0 {
		limit = 120
	}
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "questhire:ratelimit", limit, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}
	s := &Server{
		app:              cfg.App,
		mux:              http.NewServeMux(),
		limiter:          limiter,
		trustedProxies:   trusted,
		maxResumeBytes:   normalizeMaxBytes(cfg.MaxResumeBytes),
		resumeExtensions: normalizeExtensions(cfg.ResumeExtensions),
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler with middleware applied.
func (s *Server) Router() http.Handler {
	var handler http.Handler = s.mux
	handler = s.rateLimited(handler)
	handler = util.WithRequestLog(handler)
	handler = util.WithRequestID(handler)
	handler = util.WithCORS(handler)
	return util.WithSecurityHeaders(handler)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.Handle("/api/auth/me", s.authenticated(s.handleMe))

	// jobs
	s.mux.HandleFunc("/api/jobs", s.handleJobs)
	s.mux.Handle("/api/company/jobs", s.requireRoles(s.handleCompanyJobs, domain.RoleCompany))

	// tests
	s.mux.HandleFunc("/api/topics", s.handleTopics)
	s.mux.Handle("/api/company/tests", s.requireRoles(s.handleCreateTestConfig, domain.RoleCompany, domain.RoleAdmin))
	s.mux.Handle("/api/tests/", s.authenticated(s.handleTests))

	// profile
	s.mux.Handle("/api/profile/resume", s.authenticated(s.handleResume))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// auth wrappers

type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			s.audit(r, "authorize", "fail")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) requireRoles(next authHandler, roles ...domain.UserRole) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		for _, role := range roles {
			if user.Role == role {
				next(w, r, user)
				return
			}
		}
		s.audit(r, "authorize", "fail", "user_id", user.ID, "reason", "forbidden")
		writeError(w, http.StatusForbidden, "forbidden")
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.User{}, false
	}
	return s.app.UserFromToken(token)
}

// auth handlers

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Register(app.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		s.audit(r, "register", "fail", "reason", err.Error())
		s.writeAppError(w, err)
		return
	}
	s.audit(r, "register", "success", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.audit(r, "login", "fail", "reason", err.Error())
		s.writeAppError(w, err)
		return
	}
	s.audit(r, "login", "success", "user_id", user.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// job handlers

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs, err := s.app.ListActiveJobs()
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	case http.MethodPost:
		s.requireRoles(s.handleCreateJob, domain.RoleCompany, domain.RoleAdmin).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req jobRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	job, err := s.app.CreateJob(user, app.JobInput{
		Title:        req.Title,
		Department:   req.Department,
		Location:     req.Location,
		Type:         req.Type,
		Description:  req.Description,
		Requirements: req.Requirements,
		SalaryMin:    req.Salary.Min,
		SalaryMax:    req.Salary.Max,
		IsActive:     req.IsActive,
	})
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleCompanyJobs(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	jobs, err := s.app.ListCompanyJobs(user)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// test handlers

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"topics": s.app.Topics()})
}

func (s *Server) handleCreateTestConfig(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req testConfigRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cfg, err := s.app.CreateTestConfig(user, app.TestConfigInput{
		TestID:            req.TestID,
		Name:              req.Name,
		Description:       req.Description,
		DurationMinutes:   req.Duration,
		Topics:            req.Topics,
		QuestionsPerTopic: req.QuestionsPerTopic,
		PassingScore:      req.PassingScore,
		IsActive:          req.IsActive,
	})
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleTests dispatches /api/tests/{testId}/start and
// /api/tests/sessions/{sessionId}.
func (s *Server) handleTests(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/api/tests/")
	if rest, ok := strings.CutPrefix(path, "sessions/"); ok {
		s.handleGetSession(w, r, user, rest)
		return
	}
	testID, suffix, ok := strings.Cut(path, "/")
	if !ok || suffix != "start" || testID == "" {
		http.NotFound(w, r)
		return
	}
	s.handleStartSession(w, r, user, testID)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request, user domain.User, testID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	session, err := s.app.StartSession(r.Context(), user, testID)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, user domain.User, sessionID string) {
	if r.Method != http.MethodGet || sessionID == "" || strings.Contains(sessionID, "/") {
		methodNotAllowed(w)
		return
	}
	session, err := s.app.GetSession(user, sessionID)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// resume handlers

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		s.handleUploadResume(w, r, user)
	case http.MethodGet:
		url, err := s.app.ResumeURL(r.Context(), user.ID)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request, user domain.User) {
	if s.maxResumeBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxResumeBytes)
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	if !s.isResumeExtensionAllowed(header.Filename) {
		writeError(w, http.StatusBadRequest, "unsupported file type")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if err := s.app.SaveResume(r.Context(), user.ID, header.Filename, file, header.Size, contentType); err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "uploaded"})
}

func (s *Server) isResumeExtensionAllowed(filename string) bool {
	if len(s.resumeExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := s.resumeExtensions[ext]
	return ok
}

// rate limiting

func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := util.ClientIP(r, s.trustedProxies)
		if !s.limiter.Allow(key) {
			s.audit(r, "ratelimit", "rate_limited")
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// request/response shapes

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type jobRequest struct {
	Title        string   `json:"title"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Salary       struct {
		Min string `json:"min"`
		Max string `json:"max"`
	} `json:"salary"`
	IsActive *bool `json:"isActive"`
}

type testConfigRequest struct {
	TestID            string   `json:"testId"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Duration          int      `json:"duration"`
	Topics            []string `json:"topics"`
	QuestionsPerTopic int      `json:"questionsPerTopic"`
	PassingScore      *int     `json:"passingScore"`
	IsActive          *bool    `json:"isActive"`
}

// helpers

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	switch {
	case app.IsValidation(err), errors.Is(err, app.ErrEmailAlreadyExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrTestNotFound), errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrResumeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrQuestionSource):
		writeError(w, http.StatusBadGateway, app.ErrQuestionSource.Error())
	case errors.Is(err, app.ErrResumeStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r, s.trustedProxies),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return 10 * 1024 * 1024
	}
	return value
}

func normalizeExtensions(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = []string{".pdf", ".doc", ".docx"}
	}
	out := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	return out
}
