// Package scheduler runs a batch of transcription jobs with bounded
// concurrency. Jobs move queued -> running -> succeeded/failed; one
// failure never stops the batch. All bookkeeping happens on the
// scheduler goroutine, fed by a completion channel from the workers.
package scheduler

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"subforge/internal/engine"
	"subforge/internal/language"
	"subforge/internal/logging"
	"subforge/internal/services"
)

// Status is a job's position in its lifecycle.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job is one source file moving through the batch.
type Job struct {
	ID         string
	SourcePath string
	Status     Status
	Language   string
	Tier       string
	Err        error
	Duration   time.Duration
}

// Progress is a point-in-time snapshot of batch completion.
type Progress struct {
	Completed int
	Total     int
}

// Summary is the final accounting of a finished batch.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Jobs      []Job
}

// PostProcessor rewrites a job's artifacts after transcription.
// Implemented by postprocess.Processor.
type PostProcessor interface {
	Apply(ctx context.Context, sourcePath string) error
}

// Options wires a scheduler's collaborators.
type Options struct {
	RunID         string
	Runner        engine.Runner
	Detector      *language.Detector
	PostProcessor PostProcessor
	// EngineOptions builds the per-job engine options for a detected
	// language code.
	EngineOptions func(languageCode string) engine.Options
	Concurrency   int
	Logger        *slog.Logger
	// OnJobDone fires on the scheduler goroutine once per terminal job,
	// after post-processing. Used to persist history.
	OnJobDone func(ctx context.Context, job Job)
}

// Scheduler dispatches queued jobs to workers, never exceeding the
// configured concurrency.
type Scheduler struct {
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	queue    []*Job
	jobs     []*Job
	running  int
	progress Progress
	started  bool
}

// New builds a scheduler. Concurrency below 1 is raised to 1.
func New(opts Options) *Scheduler {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Scheduler{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "scheduler"),
	}
}

// SubmitBatch appends sources to the queue in the given order. Must be
// called before Run.
func (s *Scheduler) SubmitBatch(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range paths {
		job := &Job{
			ID:         uuid.NewString(),
			SourcePath: path,
			Status:     StatusQueued,
		}
		s.queue = append(s.queue, job)
		s.jobs = append(s.jobs, job)
	}
	s.progress.Total = len(s.jobs)
}

// Progress reports how many jobs have reached a terminal status.
func (s *Scheduler) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

type completion struct {
	job      *Job
	language language.Result
	err      error
	duration time.Duration
}

// Run drains the queue and blocks until every job is terminal or the
// context is cancelled. Post-processing failures are logged but never
// change a job's status; only the engine outcome decides that.
func (s *Scheduler) Run(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return Summary{}, services.Wrap(services.ErrValidation, "scheduler", "run", "batch already started", nil)
	}
	s.started = true
	total := len(s.jobs)
	s.mu.Unlock()

	if s.opts.RunID != "" {
		ctx = services.WithRunID(ctx, s.opts.RunID)
	}

	results := make(chan completion)
	completed := 0
	s.dispatch(ctx, results)

	for completed < total {
		select {
		case <-ctx.Done():
			return s.summary(), ctx.Err()
		case res := <-results:
			s.finish(ctx, res)
			completed++
			s.dispatch(ctx, results)
		}
	}
	return s.summary(), nil
}

// dispatch starts workers until the running set hits the concurrency
// bound or the queue is empty.
func (s *Scheduler) dispatch(ctx context.Context, results chan<- completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.running < s.opts.Concurrency && len(s.queue) > 0 {
		job := s.queue[0]
		s.queue = s.queue[1:]
		job.Status = StatusRunning
		s.running++
		go s.work(ctx, job, results)
	}
}

// work is the per-job goroutine: detect the language, run the engine,
// report the outcome. It never touches shared state.
func (s *Scheduler) work(ctx context.Context, job *Job, results chan<- completion) {
	ctx = services.WithJobID(ctx, job.ID)
	start := time.Now()

	detected := s.opts.Detector.Detect(filepath.Base(job.SourcePath))
	s.logger.Info("job started",
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldSource, job.SourcePath),
		logging.String("language", detected.Code),
		logging.String("tier", detected.Tier),
	)

	err := s.opts.Runner.Transcribe(ctx, job.SourcePath, s.opts.EngineOptions(detected.Code))
	select {
	case results <- completion{job: job, language: detected, err: err, duration: time.Since(start)}:
	case <-ctx.Done():
	}
}

// finish settles one completed job on the scheduler goroutine.
func (s *Scheduler) finish(ctx context.Context, res completion) {
	job := res.job
	job.Language = res.language.Code
	job.Tier = res.language.Tier
	job.Duration = res.duration
	job.Err = res.err

	// Post-processing runs for every terminal job. A failed transcription
	// may still have left caption files behind, and those get the same
	// cleanup and ID rename as a successful one.
	if err := s.opts.PostProcessor.Apply(ctx, job.SourcePath); err != nil {
		s.logger.Warn("post-processing incomplete",
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldSource, job.SourcePath),
			logging.Error(err),
		)
	}

	if res.err != nil {
		job.Status = StatusFailed
		s.logger.Error("job failed",
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldSource, job.SourcePath),
			logging.Error(res.err),
		)
	} else {
		job.Status = StatusSucceeded
		s.logger.Info("job finished",
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldSource, job.SourcePath),
			logging.Duration("duration", job.Duration),
		)
	}

	s.mu.Lock()
	s.running--
	s.progress.Completed++
	s.mu.Unlock()

	if s.opts.OnJobDone != nil {
		s.opts.OnJobDone(ctx, *job)
	}
}

func (s *Scheduler) summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Summary{Total: len(s.jobs), Jobs: make([]Job, 0, len(s.jobs))}
	for _, job := range s.jobs {
		out.Jobs = append(out.Jobs, *job)
		switch job.Status {
		case StatusSucceeded:
			out.Succeeded++
		case StatusFailed:
			out.Failed++
		}
	}
	return out
}
