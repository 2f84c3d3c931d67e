// Package server exposes the dataset and view preferences over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/optiview/internal/catalog"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/trend"
)

// PrefsStore is the subset of the preference store the API needs.
type PrefsStore interface {
	LoadPrefs(view string) (model.ViewPrefs, error)
	SavePrefs(view string, p model.ViewPrefs) (model.ViewPrefs, error)
	DeletePrefs(view string) error
	ListViews() ([]string, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	CORSOrigins  []string
	EventsBuffer int
	Trend        trend.Builder // used as given; see trend.NewBuilder for defaults
}

// Event is emitted whenever stored view preferences change.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	View      string           `json:"view"`
	Prefs     *model.ViewPrefs `json:"prefs,omitempty"`
}

// Service serves the read API and preference endpoints.
type Service struct {
	cfg   Config
	data  *catalog.Dataset
	prefs PrefsStore
	log   *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service over an immutable dataset.
func New(cfg Config, data *catalog.Dataset, prefs PrefsStore) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return &Service{
		cfg:       cfg,
		data:      data,
		prefs:     prefs,
		log:       zap.L().Named("server"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the routed HTTP handler.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/recommendations/{id}", s.handleRecommendation)
		r.Get("/anomalies", s.handleAnomalies)
		r.Get("/anomalies/{id}", s.handleAnomaly)
		r.Get("/anomalies/{id}/trend", s.handleTrend)
		r.Get("/prefs", s.handleListPrefs)
		r.Get("/prefs/{view}", s.handleGetPrefs)
		r.Put("/prefs/{view}", s.handlePutPrefs)
		r.Delete("/prefs/{view}", s.handleDeletePrefs)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return eris.Wrapf(err, "listen %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully
// within five seconds.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	// Request contexts derive from gctx so open event streams end when
	// shutdown starts.
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Service) publishEvent(typ, view string, prefs *model.ViewPrefs) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		View:      view,
		Prefs:     prefs,
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
