package web

import (
	"context"
	"net/http"

	"jukebox/internal/config"
	"jukebox/internal/logger"
	"jukebox/internal/queue"
)

// Fetcher makes a song's audio available locally and returns its path.
type Fetcher interface {
	Fetch(ctx context.Context, song *queue.Song) (string, error)
}

type Server struct {
	ctx     context.Context
	jobMgr  *JobManager
	queue   *queue.GlobalQueue
	fetcher Fetcher
	lookup  queue.Lookuper
	config  config.Config
	logger  *logger.Logger
}

// NewServer creates the HTTP front end. Jobs started by the server stop when ctx is cancelled.
func NewServer(ctx context.Context, jobMgr *JobManager, q *queue.GlobalQueue, fetcher Fetcher, lookup queue.Lookuper, cfg config.Config, log *logger.Logger) *Server {
	return &Server{
		ctx:     ctx,
		jobMgr:  jobMgr,
		queue:   q,
		fetcher: fetcher,
		lookup:  lookup,
		config:  cfg,
		logger:  log,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/songs", s.handleSubmit)
	mux.HandleFunc("/api/jobs", s.handleListJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobAction)
	mux.HandleFunc("/api/queue", s.handleQueue)
	mux.HandleFunc("/api/queue/next", s.handleNext)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
