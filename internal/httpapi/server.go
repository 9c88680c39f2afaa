package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	apimw "github.com/CarltonSoftware/nagios-plugins/internal/httpapi/middleware"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

// Server runs configured checks on request. Every request builds and runs
// the check once; nothing is cached between requests.
type Server struct {
	Logger   *zap.Logger
	Checks   *checks.Registry
	Deps     checks.Deps
	Timeout  time.Duration
	registry *prometheus.Registry
	metrics  *Metrics
}

func NewServer(l *zap.Logger, reg *checks.Registry, deps checks.Deps, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	promReg := prometheus.NewRegistry()
	return &Server{
		Logger:   l,
		Checks:   reg,
		Deps:     deps,
		Timeout:  timeout,
		registry: promReg,
		metrics:  NewMetrics(promReg),
	}
}

// Router builds the HTTP handler. keys guards /api when non-empty; rpm and
// burst rate limit /api per client. trustProxy keys clients on
// X-Forwarded-For instead of the peer address.
func (s *Server) Router(keys []string, rpm, burst int, trustProxy bool) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst, trustProxy))
		r.Use(apimw.RequireKey(keys))
		r.Get("/checks", s.handleListChecks)
		r.Get("/checks/{name}", s.handleRunCheck)
	})
	return r
}

// CheckResponse is the JSON body of a check run.
type CheckResponse struct {
	Name     string   `json:"name"`
	State    string   `json:"state"`
	Code     int      `json:"code"`
	Summary  string   `json:"summary"`
	Perfdata []string `json:"perfdata,omitempty"`
	Output   string   `json:"output"`
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"checks": s.Checks.Names()})
}

func (s *Server) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, ok := s.Checks.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown check"})
		return
	}

	start := time.Now()
	out := s.run(r.Context(), def)
	elapsed := time.Since(start)
	s.metrics.Observe(name, out.State, elapsed)

	s.Logger.Info("check_run",
		zap.String("check", name),
		zap.String("state", out.State.String()),
		zap.Duration("elapsed", elapsed),
		zap.String("remote", r.RemoteAddr),
	)

	writeJSON(w, http.StatusOK, CheckResponse{
		Name:     name,
		State:    out.State.String(),
		Code:     out.Code(),
		Summary:  out.Summary,
		Perfdata: out.Perfdata,
		Output:   out.String(),
	})
}

func (s *Server) run(ctx context.Context, def checks.Definition) plugin.Outcome {
	chk, err := def.Build(s.Deps)
	if err != nil {
		s.Logger.Warn("check_build_error", zap.String("check", def.Name), zap.Error(err))
		return plugin.UnknownOutcome(def.Name, err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return chk.Run(ctx)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
