package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jukebox/internal/metadata"
	"jukebox/internal/queue"
)

const (
	timeLayout          = "2006-01-02 15:04:05"
	defaultPreviewCount = 10
)

// SubmitRequest adds a song for a user. Exactly one of Path and URL is set.
type SubmitRequest struct {
	Submitter string `json:"submitter"`
	Path      string `json:"path,omitempty"`
	URL       string `json:"url,omitempty"`
	Shuffle   bool   `json:"shuffle,omitempty"`
}

type JobResponse struct {
	ID          string                 `json:"id"`
	Submitter   string                 `json:"submitter"`
	Origin      queue.Origin           `json:"origin"`
	SongID      string                 `json:"song_id"`
	Status      JobStatus              `json:"status"`
	Stage       JobStage               `json:"stage,omitempty"`
	Metadata    *metadata.SongMetadata `json:"metadata,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Warning     string                 `json:"warning,omitempty"`
	CreatedAt   string                 `json:"created_at"`
	StartedAt   *string                `json:"started_at,omitempty"`
	CompletedAt *string                `json:"completed_at,omitempty"`
}

type QueueResponse struct {
	Length   int            `json:"length"`
	Upcoming []queue.Song   `json:"upcoming"`
	Pending  map[string]int `json:"pending"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	origin, err := req.origin()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.queue.RegisterUser(req.Submitter, req.Shuffle)
	song := queue.NewSong(origin, req.Submitter)
	job := s.jobMgr.CreateJob(song)
	s.logger.Info("Created job %s for %s: %s", job.ID, req.Submitter, origin.Location)

	go s.processJob(job.ID, song)

	writeJSON(w, http.StatusAccepted, jobToResponse(job))
}

func (req SubmitRequest) origin() (queue.Origin, error) {
	switch {
	case strings.TrimSpace(req.Submitter) == "":
		return queue.Origin{}, errors.New("submitter is required")
	case req.Path != "" && req.URL != "":
		return queue.Origin{}, errors.New("set either path or url, not both")
	case req.Path != "":
		return queue.Origin{Kind: queue.OriginFileUpload, Location: req.Path}, nil
	case req.URL != "":
		origin := queue.ParseOrigin(req.URL)
		if origin.Kind == queue.OriginFileUpload {
			return queue.Origin{}, errors.New("unrecognized url: " + req.URL)
		}
		return origin, nil
	default:
		return queue.Origin{}, errors.New("path or url is required")
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobs := s.jobMgr.ListJobs()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = jobToResponse(job)
	}
	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request) {
	// /api/jobs/{id} or /api/jobs/{id}/cancel
	path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}
	jobID := parts[0]

	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, jobToResponse(job))

	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel":
		if err := s.jobMgr.Cancel(jobID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Info("Job %s: cancel requested, status %s", jobID, job.Status)
		writeJSON(w, http.StatusOK, jobToResponse(job))

	default:
		http.Error(w, "Invalid request", http.StatusBadRequest)
	}
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := intParam(r, "count", defaultPreviewCount)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.queue.Flush(count)
	upcoming := s.queue.Preview(count)
	if upcoming == nil {
		upcoming = []queue.Song{}
	}
	writeJSON(w, http.StatusOK, QueueResponse{
		Length:   s.queue.Len(),
		Upcoming: upcoming,
		Pending:  s.queue.Pending(),
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target, err := intParam(r, "target", s.config.QueueTarget)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	song := s.queue.Next(target)
	if song == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.logger.Info("Now playing: %s (from %s)", song, song.Submitter)
	writeJSON(w, http.StatusOK, song)
}

// processJob downloads and identifies a song, then adds it to the queue.
// A song that cannot be identified is still queued, with a warning on the job.
func (s *Server) processJob(jobID string, song *queue.Song) {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.jobMgr.UpdateJob(jobID, func(j *Job) {
		j.cancel = cancel
		j.Status = StatusRunning
		j.Stage = StageDownloading
	})

	path, err := s.fetcher.Fetch(ctx, song)
	if err != nil {
		s.failJob(ctx, jobID, err)
		return
	}
	song.Path = path

	s.jobMgr.UpdateJob(jobID, func(j *Job) {
		j.Stage = StageIdentifying
	})

	var warning string
	md, err := song.FetchMetadata(ctx, s.lookup)
	if err != nil {
		if ctx.Err() != nil {
			s.failJob(ctx, jobID, err)
			return
		}
		warning = err.Error()
		s.logger.Warn("Job %s: could not identify %s: %v", jobID, path, err)
	}

	// The job may have been cancelled while identifying
	if job, err := s.jobMgr.GetJob(jobID); err != nil || job.Done() {
		return
	}

	s.queue.Submit(song)
	s.jobMgr.UpdateJob(jobID, func(j *Job) {
		j.Status = StatusCompleted
		j.Stage = StageQueued
		j.Warning = warning
		if song.Metadata != nil {
			j.Metadata = &md
		}
	})

	s.logger.Info("Job %s: queued %s for %s", jobID, song, song.Submitter)
}

func (s *Server) failJob(ctx context.Context, jobID string, err error) {
	if ctx.Err() != nil {
		s.logger.Debug("Job %s stopped: %v", jobID, err)
		s.jobMgr.UpdateJob(jobID, func(j *Job) {
			j.Status = StatusCancelled
		})
		return
	}

	s.logger.Error("Job %s failed: %v", jobID, err)
	s.jobMgr.UpdateJob(jobID, func(j *Job) {
		j.Status = StatusFailed
		j.Error = err.Error()
	})
}

func jobToResponse(job *Job) *JobResponse {
	resp := &JobResponse{
		ID:        job.ID,
		Submitter: job.Submitter,
		Origin:    job.Origin,
		SongID:    job.SongID,
		Status:    job.Status,
		Stage:     job.Stage,
		Metadata:  job.Metadata,
		Error:     job.Error,
		Warning:   job.Warning,
		CreatedAt: job.CreatedAt.Format(timeLayout),
	}

	if job.StartedAt != nil {
		started := job.StartedAt.Format(timeLayout)
		resp.StartedAt = &started
	}
	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format(timeLayout)
		resp.CompletedAt = &completed
	}
	return resp
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name + ": " + raw)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
