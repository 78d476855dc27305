package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"subforge/internal/engine"
	"subforge/internal/language"
	"subforge/internal/logging"
)

type fakeRunner struct {
	mu       sync.Mutex
	inFlight int32
	maxSeen  int32
	calls    []string
	failFor  map[string]error
	delay    time.Duration
	block    chan struct{}
}

func (f *fakeRunner) Transcribe(ctx context.Context, sourcePath string, opts engine.Options) error {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxSeen)
		if current <= max || atomic.CompareAndSwapInt32(&f.maxSeen, max, current) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, sourcePath)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.failFor[sourcePath]
}

type fakePost struct {
	mu      sync.Mutex
	applied []string
	err     error
}

func (f *fakePost) Apply(ctx context.Context, sourcePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, sourcePath)
	return f.err
}

func newTestScheduler(runner engine.Runner, post PostProcessor, concurrency int, onDone func(context.Context, Job)) *Scheduler {
	return New(Options{
		RunID:         "test-run",
		Runner:        runner,
		Detector:      language.NewDetector(language.DetectorOptions{}),
		PostProcessor: post,
		EngineOptions: func(code string) engine.Options {
			return engine.Options{Language: code, Formats: []engine.Format{engine.FormatSRT}}
		},
		Concurrency: concurrency,
		Logger:      logging.NewNop(),
		OnJobDone:   onDone,
	})
}

func TestRunProcessesAllJobs(t *testing.T) {
	runner := &fakeRunner{}
	post := &fakePost{}
	s := newTestScheduler(runner, post, 2, nil)
	s.SubmitBatch([]string{"/in/a.mp4", "/in/b.mp4", "/in/c.mp4"})

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 3 || summary.Succeeded != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 3 succeeded", summary)
	}
	if got := s.Progress(); got.Completed != 3 || got.Total != 3 {
		t.Errorf("Progress() = %+v, want 3/3", got)
	}
	if len(post.applied) != 3 {
		t.Errorf("post-processing ran %d times, want 3", len(post.applied))
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	boom := errors.New("engine exploded")
	runner := &fakeRunner{failFor: map[string]error{"/in/b.mp4": boom}}
	post := &fakePost{}
	s := newTestScheduler(runner, post, 1, nil)
	s.SubmitBatch([]string{"/in/a.mp4", "/in/b.mp4", "/in/c.mp4"})

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 succeeded 1 failed", summary)
	}
	for _, job := range summary.Jobs {
		if job.SourcePath == "/in/b.mp4" {
			if job.Status != StatusFailed || !errors.Is(job.Err, boom) {
				t.Errorf("failed job = %+v", job)
			}
		} else if job.Status != StatusSucceeded {
			t.Errorf("job %s = %s, want succeeded", job.SourcePath, job.Status)
		}
	}
	if len(post.applied) != 3 {
		t.Fatalf("post-processing ran %d times, want one per terminal job", len(post.applied))
	}
	found := false
	for _, applied := range post.applied {
		if applied == "/in/b.mp4" {
			found = true
		}
	}
	if !found {
		t.Error("failed job's artifacts were not post-processed")
	}
}

func TestRunRespectsConcurrencyBound(t *testing.T) {
	runner := &fakeRunner{delay: 10 * time.Millisecond}
	s := newTestScheduler(runner, &fakePost{}, 2, nil)
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = fmt.Sprintf("/in/%d.mp4", i)
	}
	s.SubmitBatch(paths)

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if max := atomic.LoadInt32(&runner.maxSeen); max > 2 {
		t.Errorf("observed %d concurrent jobs, bound is 2", max)
	}
}

func TestRunPostFailureKeepsSuccess(t *testing.T) {
	runner := &fakeRunner{}
	post := &fakePost{err: errors.New("rename denied")}
	s := newTestScheduler(runner, post, 1, nil)
	s.SubmitBatch([]string{"/in/a.mp4"})

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, post-processing must not flip status", summary)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	s := newTestScheduler(runner, &fakePost{}, 1, nil)
	s.SubmitBatch([]string{"/in/a.mp4", "/in/b.mp4"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Run(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRunEmptyBatch(t *testing.T) {
	s := newTestScheduler(&fakeRunner{}, &fakePost{}, 2, nil)
	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 0 {
		t.Errorf("summary.Total = %d, want 0", summary.Total)
	}
}

func TestOnJobDoneFiresPerJob(t *testing.T) {
	var mu sync.Mutex
	var seen []Job
	onDone := func(_ context.Context, job Job) {
		mu.Lock()
		seen = append(seen, job)
		mu.Unlock()
	}
	s := newTestScheduler(&fakeRunner{}, &fakePost{}, 2, onDone)
	s.SubmitBatch([]string{"/in/a.mp4", "/in/b.mp4"})

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("OnJobDone fired %d times, want 2", len(seen))
	}
	for _, job := range seen {
		if job.Status != StatusSucceeded {
			t.Errorf("callback saw non-terminal status %s", job.Status)
		}
		if job.ID == "" {
			t.Error("callback saw a job without an ID")
		}
	}
}

func TestRunTwiceRejected(t *testing.T) {
	s := newTestScheduler(&fakeRunner{}, &fakePost{}, 1, nil)
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := s.Run(context.Background()); err == nil {
		t.Error("second Run should be rejected")
	}
}
