package report

import "time"

// Run summarizes one batch invocation.
type Run struct {
	ID         string
	InputDir   string
	Total      int
	Completed  int
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Job is one terminal job outcome within a run.
type Job struct {
	ID         string
	RunID      string
	SourcePath string
	Status     string
	Language   string
	Error      string
	Duration   time.Duration
	FinishedAt time.Time
}
