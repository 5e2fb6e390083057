package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/statuspage/internal/httpapi/middleware"
	"github.com/hamed0406/statuspage/internal/render"
)

// Trigger requests an out-of-band poll.
type Trigger interface {
	Trigger() bool
}

type Server struct {
	Logger  *zap.Logger
	Page    Viewer
	Hub     *Hub
	Refresh Trigger
}

func NewServer(l *zap.Logger, page Viewer, hub *Hub, refresh Trigger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Page: page, Hub: hub, Refresh: refresh}
}

// Router wires the public page routes behind RequireAny + RateLimit and
// the refresh endpoint behind RequireAdmin.
func (s *Server) Router(keys apimw.Keys, publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAny(keys))
		r.Use(apimw.RateLimit(publicRPM, publicBurst))

		r.Get("/", s.handlePage)
		r.Get("/api/status", s.handleStatus)
		r.Get("/api/events", s.handleEvents)
		if s.Hub != nil {
			r.Get("/ws", s.Hub.ServeWS)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAdmin(keys))
		r.Post("/api/refresh", s.handleRefresh)
	})

	return r
}

// statusResponse is the page without its timeline.
type statusResponse struct {
	Banner       render.Banner   `json:"banner"`
	Availability string          `json:"availability"`
	Timeframe    string          `json:"timeframe"`
	CheckCount   int             `json:"check_count"`
	LastCheck    string          `json:"last_check"`
	Targets      []render.Target `json:"targets"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	v := s.Page.View(0)
	writeJSON(w, http.StatusOK, statusResponse{
		Banner:       v.Banner,
		Availability: v.Availability,
		Timeframe:    v.Timeframe,
		CheckCount:   v.CheckCount,
		LastCheck:    v.LastCheck,
		Targets:      v.Targets,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var after int64
	if q := r.URL.Query().Get("after"); q != "" {
		n, err := strconv.ParseInt(q, 10, 64)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "after must be a non-negative event id"})
			return
		}
		after = n
	}
	events := s.Page.View(after).Events
	if events == nil {
		events = []render.Block{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	queued := false
	if s.Refresh != nil {
		queued = s.Refresh.Trigger()
	}
	s.Logger.Info("refresh_requested", zap.Bool("queued", queued))
	writeJSON(w, http.StatusAccepted, map[string]bool{"queued": queued})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, s.Page.View(0)); err != nil {
		s.Logger.Error("page_render_failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
