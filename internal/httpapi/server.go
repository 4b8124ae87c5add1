// Package httpapi is the host HTTP API: it exposes a session's state and
// accepts wire-encoded actions.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/apps"
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

const maxActionBytes = 64 << 10

// Store is the session the API serves.
type Store interface {
	usecase.Session
	Score() int
}

// Server serves one session.
type Server struct {
	store    Store
	decoder  *Decoder
	profiles *profile.Registry
	checker  domain.HealthChecker
	clock    clockwork.Clock
	logger   *zap.Logger
}

// New creates a server. A nil checker makes /device-health unavailable.
func New(store Store, profiles *profile.Registry, checker domain.HealthChecker, clock clockwork.Clock, logger *zap.Logger) *Server {
	return &Server{
		store:    store,
		decoder:  NewDecoder(profiles),
		profiles: profiles,
		checker:  checker,
		clock:    clock,
		logger:   logger,
	}
}

// Routes returns the chi router serving the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.getHealthz)
	r.Get("/state", s.getState)
	r.Get("/score", s.getScore)
	r.Get("/achievements", s.getAchievements)
	r.Get("/evaluation", s.getEvaluation)
	r.Get("/device-health", s.getDeviceHealth)
	r.Get("/profiles", s.getProfiles)
	r.Get("/apps", s.getApps)
	r.Post("/actions", s.postAction)
	r.Post("/evaluate", s.postEvaluate)
	return r
}

type scoreResponse struct {
	Score           int  `json:"score"`
	MaxScore        int  `json:"maxScore"`
	ThreatsResolved bool `json:"threatsResolved"`
}

type achievementResponse struct {
	domain.Achievement
	Unlocked bool `json:"unlocked"`
}

type actionResponse struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
}

type evaluationResponse struct {
	domain.EvaluationResult
	Report domain.EvaluationReport `json:"report"`
}

type profileResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Ticks        int     `json:"ticks"`
	FileCount    int     `json:"fileCount"`
	ThreatChance float64 `json:"threatChance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) getScore(w http.ResponseWriter, _ *http.Request) {
	st := s.store.State()
	writeJSON(w, http.StatusOK, scoreResponse{
		Score:           usecase.SecurityScore(st),
		MaxScore:        usecase.MaxScore,
		ThreatsResolved: usecase.ThreatsResolved(st),
	})
}

func (s *Server) getAchievements(w http.ResponseWriter, _ *http.Request) {
	unlocked := s.store.State().Achievements
	catalog := domain.Catalog()
	out := make([]achievementResponse, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, achievementResponse{Achievement: a, Unlocked: unlocked.Has(a.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getEvaluation(w http.ResponseWriter, _ *http.Request) {
	eval := s.store.State().Evaluation
	if eval == nil {
		writeError(w, http.StatusNotFound, "no evaluation yet")
		return
	}
	writeJSON(w, http.StatusOK, evaluationResponse{
		EvaluationResult: *eval,
		Report:           usecase.BuildReport(*eval, s.clock.Now()),
	})
}

func (s *Server) getDeviceHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeError(w, http.StatusServiceUnavailable, "device health checker not configured")
		return
	}
	health, err := s.checker.Check(r.Context())
	if err != nil {
		s.logger.Warn("device health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) getProfiles(w http.ResponseWriter, _ *http.Request) {
	all := s.profiles.GetAll()
	out := make([]profileResponse, 0, len(all))
	for _, p := range all {
		out = append(out, profileResponse{
			ID:           p.ID(),
			Name:         p.Name(),
			Ticks:        p.Ticks(),
			FileCount:    p.FileCount(),
			ThreatChance: p.ThreatChance(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getApps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apps.All())
}

// postAction decodes and dispatches one action. The response is 202: the
// action may still be queued behind another dispatch, so the score is the
// one observed when the response is written.
func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	action, err := s.decoder.Decode(body)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, ErrUnknownAction) && !errors.Is(err, ErrInvalidPayload) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	s.store.Dispatch(action)
	writeJSON(w, http.StatusAccepted, actionResponse{Type: action.Kind(), Score: s.store.Score()})
}

// postEvaluate answers 202 when the evaluation is still queued behind
// another dispatch; GET /evaluation returns it once applied.
func (s *Server) postEvaluate(w http.ResponseWriter, r *http.Request) {
	s.store.Dispatch(usecase.Evaluate{})
	if s.store.State().Evaluation == nil {
		writeJSON(w, http.StatusAccepted, actionResponse{Type: usecase.KindEvaluate, Score: s.store.Score()})
		return
	}
	s.getEvaluation(w, r)
}

// logRequests logs every request at Debug with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
