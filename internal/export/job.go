package export

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of one export run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Job records the outcome of one export run. It is mutated only by the
// exporter that created it and returned to the caller when the run ends.
type Job struct {
	ID            string
	OutputPath    string
	Status        Status
	FramesWritten int
	TotalFrames   int
	Err           error
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// NewJob creates a pending job for the given output path.
func NewJob(outputPath string) *Job {
	return &Job{
		ID:         uuid.New().String(),
		OutputPath: outputPath,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}
}

// Percent returns completion as 0-100.
func (job *Job) Percent() int {
	if job.TotalFrames <= 0 {
		return 0
	}
	percent := job.FramesWritten * 100 / job.TotalFrames
	if percent > 100 {
		percent = 100
	}
	return percent
}

func (job *Job) complete() {
	job.Status = StatusCompleted
	now := time.Now()
	job.CompletedAt = &now
}

func (job *Job) cancel() {
	job.Status = StatusCancelled
	now := time.Now()
	job.CompletedAt = &now
}

func (job *Job) fail(err error) {
	job.Status = StatusFailed
	job.Err = err
	now := time.Now()
	job.CompletedAt = &now
}
