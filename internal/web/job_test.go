package web

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"jukebox/internal/metadata"
	"jukebox/internal/queue"
)

func newSong(submitter string) *queue.Song {
	return queue.NewSong(queue.ParseOrigin("https://youtu.be/dQw4w9WgXcQ"), submitter)
}

func TestCleanup(t *testing.T) {
	jm := NewJobManager()

	old := jm.CreateJob(newSong("alice"))
	jm.UpdateJob(old.ID, func(j *Job) {
		j.Status = StatusCompleted
	})
	jm.mu.Lock()
	past := time.Now().Add(-2 * time.Hour)
	jm.jobs[old.ID].CompletedAt = &past
	jm.mu.Unlock()

	recent := jm.CreateJob(newSong("bob"))
	jm.UpdateJob(recent.ID, func(j *Job) {
		j.Status = StatusCompleted
	})

	running := jm.CreateJob(newSong("carol"))
	jm.UpdateJob(running.ID, func(j *Job) {
		j.Status = StatusRunning
	})

	jm.cleanup()

	if _, err := jm.GetJob(old.ID); err == nil {
		t.Error("old completed job should have been cleaned up")
	}
	if _, err := jm.GetJob(recent.ID); err != nil {
		t.Error("recent completed job should NOT have been cleaned up")
	}
	if _, err := jm.GetJob(running.ID); err != nil {
		t.Error("running job should NOT have been cleaned up")
	}
}

func TestCreateJobFromSong(t *testing.T) {
	jm := NewJobManager()
	song := newSong("alice")

	job := jm.CreateJob(song)
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("job ID %q is not a UUID: %v", job.ID, err)
	}
	if job.SongID != song.ID || job.Submitter != "alice" || job.Origin != song.Origin {
		t.Errorf("job = %+v, want fields from song %+v", job, song)
	}
	if job.Status != StatusPending {
		t.Errorf("Status = %s, want pending", job.Status)
	}
}

func TestCreateJobUniqueIDs(t *testing.T) {
	jm := NewJobManager()

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		job := jm.CreateJob(newSong("alice"))
		if ids[job.ID] {
			t.Fatalf("duplicate job ID: %s", job.ID)
		}
		ids[job.ID] = true
	}
}

func TestUpdateJobTimestamps(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(newSong("alice"))

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})
	j, _ := jm.GetJob(job.ID)
	if j.StartedAt == nil {
		t.Error("StartedAt should be set when status changes to running")
	}

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCompleted
	})
	j, _ = jm.GetJob(job.ID)
	if j.CompletedAt == nil {
		t.Error("CompletedAt should be set when status changes to completed")
	}
}

func TestUpdateJobNotFound(t *testing.T) {
	jm := NewJobManager()
	if err := jm.UpdateJob("nonexistent", func(j *Job) {}); err == nil {
		t.Error("UpdateJob should return error for nonexistent job")
	}
	if err := jm.Cancel("nonexistent"); err == nil {
		t.Error("Cancel should return error for nonexistent job")
	}
}

func TestCancelledJobStaysCancelled(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(newSong("alice"))

	cancelled := false
	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
		j.cancel = func() { cancelled = true }
	})

	if err := jm.Cancel(job.ID); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if !cancelled {
		t.Error("Cancel should call the job's cancel func")
	}

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCompleted
	})
	j, _ := jm.GetJob(job.ID)
	if j.Status != StatusCancelled {
		t.Errorf("Status = %s, want cancelled", j.Status)
	}
}

func TestGetJobReturnsCopy(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(newSong("alice"))
	md := metadata.NewSongMetadata(10)
	jm.UpdateJob(job.ID, func(j *Job) {
		j.Metadata = &md
	})

	got, _ := jm.GetJob(job.ID)
	got.Status = StatusFailed
	got.Metadata.Title = "changed"

	again, _ := jm.GetJob(job.ID)
	if again.Status != StatusPending || again.Metadata.Title != metadata.NotFound {
		t.Errorf("stored job was mutated through a copy: %+v", again)
	}
}

func TestListJobsOldestFirst(t *testing.T) {
	jm := NewJobManager()
	first := jm.CreateJob(newSong("alice"))
	time.Sleep(2 * time.Millisecond)
	second := jm.CreateJob(newSong("bob"))

	jobs := jm.ListJobs()
	if len(jobs) != 2 || jobs[0].ID != first.ID || jobs[1].ID != second.ID {
		t.Errorf("ListJobs() order wrong: %v", jobs)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(newSong("alice"))

	ch := jm.Subscribe(job.ID)

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})

	select {
	case update := <-ch:
		if update.Status != StatusRunning {
			t.Errorf("expected status running, got %s", update.Status)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for update")
	}

	jm.Unsubscribe(job.ID, ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}
